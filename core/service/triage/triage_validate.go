package triage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

// ValidationError reports a malformed or out-of-contract service reply. It
// never wraps the underlying decode error type; callers only branch on the
// category.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid classification reply: " + e.Reason
}

var requiredReplyKeys = []string{"quadrant", "confidence", "reasoning"}

// ParseReply validates a raw service reply and normalizes it into a
// ClassificationResult. Markdown code fences around the JSON object are
// tolerated. Any failure is a *ValidationError; the caller must fall back,
// never re-issue the service call.
func ParseReply(raw string) (domain.ClassificationResult, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var reply map[string]any
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return domain.ClassificationResult{}, &ValidationError{Reason: "malformed reply, not a JSON object"}
	}

	for _, key := range requiredReplyKeys {
		if _, ok := reply[key]; !ok {
			return domain.ClassificationResult{}, &ValidationError{Reason: "missing required key: " + key}
		}
	}

	quadrant, ok := reply["quadrant"].(string)
	if !ok || !domain.Quadrant(quadrant).IsValid() {
		return domain.ClassificationResult{}, &ValidationError{Reason: fmt.Sprintf("invalid quadrant: %v", reply["quadrant"])}
	}

	confidence, err := coerceConfidence(reply["confidence"])
	if err != nil {
		return domain.ClassificationResult{}, &ValidationError{Reason: err.Error()}
	}
	if confidence < 0.0 || confidence > 1.0 {
		return domain.ClassificationResult{}, &ValidationError{Reason: fmt.Sprintf("confidence must be between 0.0 and 1.0, got: %v", confidence)}
	}

	reasoning, _ := reply["reasoning"].(string)

	result, err := domain.NewClassificationResult(quadrant, confidence, reasoning)
	if err != nil {
		return domain.ClassificationResult{}, &ValidationError{Reason: err.Error()}
	}
	return result, nil
}

func coerceConfidence(v any) (float64, error) {
	switch c := v.(type) {
	case float64:
		return c, nil
	case string:
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return 0, fmt.Errorf("confidence is not a number: %q", c)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("confidence has unexpected type %T", v)
	}
}
