// Package triage implements the multi-strategy Eisenhower Matrix
// classification pipeline: content guards, prompt formatting, the retrying
// classification call, response validation, fallback heuristics and the
// aggregating service.
package triage

import (
	"strings"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

const (
	insufficientContentReasoning = "Email has insufficient content for meaningful triage - likely spam or empty message"
	meetingNotificationReasoning = "Meeting acceptance/rejection notification - no action required"
)

// Body patterns are only scanned on short bodies to avoid false positives
// in long threads that merely mention a meeting.
const meetingBodyScanLimit = 500

var meetingSubjectPatterns = []string{
	"accepted:", "declined:", "tentative:", "proposed:",
	"accepted -", "declined -", "tentative -", "proposed -",
	"meeting accepted", "meeting declined", "meeting tentative",
	"calendar invitation", "calendar update",
	"outlook meeting", "teams meeting",
	"zoom meeting", "webex meeting",
	"meeting response", "meeting reply",
	"accepted meeting", "declined meeting",
	"tentative meeting", "proposed meeting",
}

var meetingBodyPatterns = []string{
	"accepted this meeting",
	"declined this meeting",
	"tentatively accepted this meeting",
	"proposed a new time",
	"meeting has been accepted",
	"meeting has been declined",
	"meeting has been tentatively accepted",
	"calendar invitation",
	"outlook meeting",
	"teams meeting",
	"zoom meeting",
	"webex meeting",
	"meeting response",
	"meeting reply",
}

// hasSufficientContent reports whether the email carries enough content for
// a meaningful classification.
func hasSufficientContent(subject, body string) bool {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return false
	}
	if len(trimmed) < 10 {
		return false
	}
	if strings.TrimSpace(subject) == "" {
		return false
	}
	return true
}

// isMeetingNotification detects meeting acceptance/rejection notifications.
func isMeetingNotification(subject, body string) bool {
	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)

	for _, pattern := range meetingSubjectPatterns {
		if strings.Contains(subjectLower, pattern) {
			return true
		}
	}

	if len(body) < meetingBodyScanLimit {
		for _, pattern := range meetingBodyPatterns {
			if strings.Contains(bodyLower, pattern) {
				return true
			}
		}
	}

	return false
}

// CheckGuards applies the content guards in order. When a guard fires it
// returns the short-circuit result and true; the caller must not invoke the
// classification service.
func CheckGuards(subject, body string) (domain.ClassificationResult, bool) {
	if !hasSufficientContent(subject, body) {
		return domain.ClassificationResult{
			Quadrant:   domain.QuadrantDelete,
			Confidence: 0.9,
			Reasoning:  insufficientContentReasoning,
		}, true
	}
	if isMeetingNotification(subject, body) {
		return domain.ClassificationResult{
			Quadrant:   domain.QuadrantDelete,
			Confidence: 0.95,
			Reasoning:  meetingNotificationReasoning,
		}, true
	}
	return domain.ClassificationResult{}, false
}
