package triage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
	"github.com/imaglide/eisenhower-triage/core/port/out"
)

const recentOutcomesLimit = 10

// OutcomesStrategy classifies with the outcomes of recent triage runs as
// additional context.
type OutcomesStrategy struct {
	caller  Caller
	trunc   Truncator
	results out.TriageResultStore
	log     zerolog.Logger
}

func NewOutcomesStrategy(caller Caller, trunc Truncator, results out.TriageResultStore, log zerolog.Logger) *OutcomesStrategy {
	return &OutcomesStrategy{
		caller:  caller,
		trunc:   trunc,
		results: results,
		log:     log.With().Str("strategy", StrategyOutcomes).Logger(),
	}
}

func (s *OutcomesStrategy) Name() string { return StrategyOutcomes }

func (s *OutcomesStrategy) Classify(ctx context.Context, messageID, subject, sender, body string) domain.StrategyOutcome {
	if result, blocked := CheckGuards(subject, body); blocked {
		return domain.StrategyOutcome{Strategy: s.Name(), Result: result}
	}

	recent, err := s.results.Recent(ctx, recentOutcomesLimit)
	if err != nil {
		s.log.Warn().Err(err).Msg("recent triage results lookup failed")
		recent = nil
	}

	similarContexts := noSimilarContexts
	if len(recent) > 0 {
		similarContexts = fmt.Sprintf("Found %d recent triage results for context", len(recent))
	}

	truncated := s.trunc.Truncate(body, enrichedMaxTokens)
	prompt := OutcomesPrompt(subject, truncated, similarContexts, FormatOutcomeSummary(pastOutcomes(recent)))

	call, callErr := s.caller.Call(ctx, systemPromptOutcomes, prompt)
	result, attempts, ok := classifyReply(call, callErr)
	if !ok {
		s.log.Warn().Str("message_id", messageID).Int("attempts", attempts).
			Msg("primary path failed, using outcomes fallback")
		return domain.StrategyOutcome{
			Strategy:     s.Name(),
			Result:       OutcomesFallback(subject, body),
			UsedFallback: true,
			CallAttempts: attempts,
			Facts:        map[string]any{"recent_results_used": len(recent)},
		}
	}

	return domain.StrategyOutcome{
		Strategy:     s.Name(),
		Result:       result,
		CallAttempts: attempts,
		Facts:        map[string]any{"recent_results_used": len(recent)},
	}
}

func pastOutcomes(records []*out.TriageRecord) []domain.PastOutcome {
	outcomes := make([]domain.PastOutcome, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		outcome := domain.PastOutcome{ID: record.MessageID, Label: "unknown"}
		if prior, ok := record.Results[StrategyEmailOnly]; ok {
			outcome.Label = prior.Quadrant
			outcome.Confidence = prior.Confidence
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
