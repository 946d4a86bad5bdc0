package triage

import (
	"strings"
	"testing"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

func TestCheckGuardsInsufficientContent(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{"empty body", "Quarterly report", ""},
		{"whitespace body", "Quarterly report", "   \n\t  "},
		{"short body", "Quarterly report", "ok thanks"},
		{"empty subject", "", "Please review the attached quarterly report and send feedback."},
		{"whitespace subject", "   ", "Please review the attached quarterly report and send feedback."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, blocked := CheckGuards(tt.subject, tt.body)
			if !blocked {
				t.Fatal("expected guard to fire")
			}
			if result.Quadrant != domain.QuadrantDelete {
				t.Errorf("Quadrant = %v, want delete", result.Quadrant)
			}
			if result.Confidence != 0.9 {
				t.Errorf("Confidence = %v, want 0.9", result.Confidence)
			}
			if result.Reasoning != insufficientContentReasoning {
				t.Errorf("Reasoning = %q", result.Reasoning)
			}
		})
	}
}

func TestCheckGuardsMeetingNotification(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{"accepted subject prefix", "Accepted: Weekly sync", "See you there, looking forward to it.", true},
		{"declined subject", "Declined - Budget review", "Sorry, I have a conflict at that time.", true},
		{"body pattern in short body", "Re: Weekly sync", "John has accepted this meeting invitation.", true},
		{"reschedule body pattern", "Re: sync", "John has proposed a new time for it", true},
		{"body pattern ignored in long body", "Project kickoff notes", "calendar invitation " + strings.Repeat("detailed discussion notes ", 30), false},
		{"ordinary email", "Server maintenance window", "We plan to restart the database cluster on Saturday night.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, blocked := CheckGuards(tt.subject, tt.body)
			if blocked != tt.want {
				t.Fatalf("blocked = %v, want %v", blocked, tt.want)
			}
			if blocked {
				if result.Quadrant != domain.QuadrantDelete || result.Confidence != 0.95 {
					t.Errorf("result = %+v, want delete/0.95", result)
				}
				if result.Reasoning != meetingNotificationReasoning {
					t.Errorf("Reasoning = %q", result.Reasoning)
				}
			}
		})
	}
}

func TestInsufficientContentTakesPrecedence(t *testing.T) {
	// A meeting-looking subject with an empty body hits the content guard first.
	result, blocked := CheckGuards("Accepted: Weekly sync", "")
	if !blocked {
		t.Fatal("expected guard to fire")
	}
	if result.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 (content guard)", result.Confidence)
	}
}
