package triage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

// ContentStrategy classifies from the subject and body alone.
type ContentStrategy struct {
	caller Caller
	trunc  Truncator
	log    zerolog.Logger
}

func NewContentStrategy(caller Caller, trunc Truncator, log zerolog.Logger) *ContentStrategy {
	return &ContentStrategy{
		caller: caller,
		trunc:  trunc,
		log:    log.With().Str("strategy", StrategyEmailOnly).Logger(),
	}
}

func (s *ContentStrategy) Name() string { return StrategyEmailOnly }

func (s *ContentStrategy) Classify(ctx context.Context, messageID, subject, sender, body string) domain.StrategyOutcome {
	if result, blocked := CheckGuards(subject, body); blocked {
		return domain.StrategyOutcome{Strategy: s.Name(), Result: result}
	}

	truncated := s.trunc.Truncate(body, promptMaxTokens)
	prompt := ContentPrompt(subject, truncated)

	call, err := s.caller.Call(ctx, systemPromptContent, prompt)
	result, attempts, ok := classifyReply(call, err)
	if !ok {
		s.log.Warn().Str("message_id", messageID).Int("attempts", attempts).
			Msg("primary path failed, using keyword fallback")
		return domain.StrategyOutcome{
			Strategy:     s.Name(),
			Result:       KeywordFallback(subject, body),
			UsedFallback: true,
			CallAttempts: attempts,
		}
	}

	return domain.StrategyOutcome{Strategy: s.Name(), Result: result, CallAttempts: attempts}
}
