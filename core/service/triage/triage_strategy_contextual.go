package triage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
	"github.com/imaglide/eisenhower-triage/core/port/out"
)

// ContextualStrategy enriches classification with the stored sender profile.
// A missing or unreadable profile is not an error; the prompt simply carries
// no sender context.
type ContextualStrategy struct {
	caller   Caller
	trunc    Truncator
	profiles out.SenderProfileStore
	log      zerolog.Logger
}

func NewContextualStrategy(caller Caller, trunc Truncator, profiles out.SenderProfileStore, log zerolog.Logger) *ContextualStrategy {
	return &ContextualStrategy{
		caller:   caller,
		trunc:    trunc,
		profiles: profiles,
		log:      log.With().Str("strategy", StrategyContextual).Logger(),
	}
}

func (s *ContextualStrategy) Name() string { return StrategyContextual }

func (s *ContextualStrategy) Classify(ctx context.Context, messageID, subject, sender, body string) domain.StrategyOutcome {
	if result, blocked := CheckGuards(subject, body); blocked {
		return domain.StrategyOutcome{Strategy: s.Name(), Result: result}
	}

	profile, err := s.profiles.GetByEmail(ctx, sender)
	if err != nil {
		s.log.Warn().Err(err).Str("sender", sender).Msg("sender profile lookup failed")
		profile = nil
	}

	truncated := s.trunc.Truncate(body, promptMaxTokens)
	prompt := ContextualPrompt(subject, truncated, profile)

	call, callErr := s.caller.Call(ctx, systemPromptContextual, prompt)
	result, attempts, ok := classifyReply(call, callErr)
	if !ok {
		s.log.Warn().Str("message_id", messageID).Int("attempts", attempts).
			Msg("primary path failed, using contextual fallback")
		return domain.StrategyOutcome{
			Strategy:     s.Name(),
			Result:       ContextualFallback(subject, sender, body),
			UsedFallback: true,
			CallAttempts: attempts,
			Facts:        map[string]any{"sender_profile_found": len(profile) > 0},
		}
	}

	return domain.StrategyOutcome{
		Strategy:     s.Name(),
		Result:       result,
		CallAttempts: attempts,
		Facts:        map[string]any{"sender_profile_found": len(profile) > 0},
	}
}
