package triage

import (
	"context"
	"errors"

	"github.com/imaglide/eisenhower-triage/core/agent/llm"
	"github.com/imaglide/eisenhower-triage/core/domain"
)

// Strategy names double as result-map keys, both in memory and at rest.
const (
	StrategyEmailOnly  = "email_only"
	StrategyContextual = "contextual"
	StrategyEmbedding  = "embedding"
	StrategyOutcomes   = "outcomes"
)

// Strategy classifies one email. Implementations never return an error; the
// primary path degrades to the strategy's fallback heuristic.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, messageID, subject, sender, body string) domain.StrategyOutcome
}

// Caller issues one classification call with retries already applied.
type Caller interface {
	Call(ctx context.Context, systemPrompt, userPrompt string) (llm.CallResult, error)
}

// classifyReply parses and validates a service reply, reporting whether the
// primary path produced a usable result.
func classifyReply(call llm.CallResult, err error) (domain.ClassificationResult, int, bool) {
	if err != nil {
		var terr *llm.TransportError
		if errors.As(err, &terr) {
			return domain.ClassificationResult{}, terr.Attempts, false
		}
		return domain.ClassificationResult{}, call.Attempts, false
	}
	result, verr := ParseReply(call.Content)
	if verr != nil {
		return domain.ClassificationResult{}, call.Attempts, false
	}
	return result, call.Attempts, true
}
