package triage

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
	"github.com/imaglide/eisenhower-triage/core/port/out"
)

// Service runs every registered strategy over an email and aggregates the
// per-strategy outcomes. Implements the inbound TriageService port.
type Service struct {
	strategies []Strategy
	results    out.TriageResultStore
	now        func() time.Time
	log        zerolog.Logger
}

func NewService(strategies []Strategy, results out.TriageResultStore, log zerolog.Logger) *Service {
	return &Service{
		strategies: strategies,
		results:    results,
		now:        time.Now,
		log:        log.With().Str("component", "triage_service").Logger(),
	}
}

// Classify runs all strategies in registration order. No strategy failure
// escapes; a panicking strategy yields a zero-confidence delete outcome
// marked as errored.
func (s *Service) Classify(ctx context.Context, subject, sender, body string) map[string]domain.StrategyOutcome {
	return s.classify(ctx, newMessageID(subject, sender), subject, sender, body)
}

// ClassifyAndStore classifies and persists the per-strategy results under
// the message ID, generating one when empty.
func (s *Service) ClassifyAndStore(ctx context.Context, messageID, subject, sender, body string) (string, map[string]domain.StrategyOutcome, error) {
	if messageID == "" {
		messageID = newMessageID(subject, sender)
	}
	outcomes := s.classify(ctx, messageID, subject, sender, body)

	results := make(map[string]domain.ClassificationResult, len(outcomes))
	for name, outcome := range outcomes {
		results[name] = outcome.Result
	}
	record := &out.TriageRecord{MessageID: messageID, Results: results, CreatedAt: s.now()}
	if err := s.results.Upsert(ctx, record); err != nil {
		return messageID, outcomes, fmt.Errorf("store triage results for %s: %w", messageID, err)
	}

	return messageID, outcomes, nil
}

func (s *Service) classify(ctx context.Context, messageID, subject, sender, body string) map[string]domain.StrategyOutcome {
	outcomes := make(map[string]domain.StrategyOutcome, len(s.strategies))
	for _, strategy := range s.strategies {
		outcomes[strategy.Name()] = s.runStrategy(ctx, strategy, messageID, subject, sender, body)
	}
	return outcomes
}

func (s *Service) runStrategy(ctx context.Context, strategy Strategy, messageID, subject, sender, body string) (outcome domain.StrategyOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("strategy", strategy.Name()).
				Str("message_id", messageID).
				Interface("panic", r).
				Msg("strategy execution failed")
			outcome = domain.StrategyOutcome{
				Strategy: strategy.Name(),
				Result: domain.ClassificationResult{
					Quadrant:   domain.QuadrantDelete,
					Confidence: 0.0,
					Reasoning:  fmt.Sprintf("Error occurred during analysis: %v", r),
				},
				UsedFallback: true,
				Facts:        map[string]any{"error": true, "error_message": fmt.Sprint(r)},
			}
		}
	}()

	return strategy.Classify(ctx, messageID, subject, sender, body)
}

// Summarize folds one run's outcomes into a consensus view. The distribution
// and average confidence cover every outcome; the successful count excludes
// outcomes whose strategy execution itself failed. Consensus ties break by
// strategy registration order.
func (s *Service) Summarize(outcomes map[string]domain.StrategyOutcome) domain.AggregateSummary {
	summary := domain.AggregateSummary{
		Distribution:    make(map[domain.PriorityLabel]int),
		TotalStrategies: len(outcomes),
	}
	if len(outcomes) == 0 {
		return summary
	}

	firstSeen := make(map[domain.PriorityLabel]int)
	total := 0.0
	for i, name := range s.outcomeOrder(outcomes) {
		outcome := outcomes[name]
		label := outcome.Result.Priority()
		summary.Distribution[label]++
		if _, ok := firstSeen[label]; !ok {
			firstSeen[label] = i
		}
		total += outcome.Result.Confidence
		if !outcome.Errored() {
			summary.SuccessfulStrategies++
		}
	}
	summary.AverageConfidence = total / float64(len(outcomes))

	best, bestCount, bestSeen := domain.PriorityLabel(""), 0, len(outcomes)
	for label, count := range summary.Distribution {
		if count > bestCount || (count == bestCount && firstSeen[label] < bestSeen) {
			best, bestCount, bestSeen = label, count, firstSeen[label]
		}
	}
	summary.ConsensusPriority = best

	return summary
}

// outcomeOrder lists outcome keys in strategy registration order, appending
// any keys the service does not know about.
func (s *Service) outcomeOrder(outcomes map[string]domain.StrategyOutcome) []string {
	order := make([]string, 0, len(outcomes))
	seen := make(map[string]bool, len(outcomes))
	for _, strategy := range s.strategies {
		if _, ok := outcomes[strategy.Name()]; ok && !seen[strategy.Name()] {
			order = append(order, strategy.Name())
			seen[strategy.Name()] = true
		}
	}
	for _, name := range []string{StrategyEmailOnly, StrategyContextual, StrategyEmbedding, StrategyOutcomes} {
		if _, ok := outcomes[name]; ok && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	for name := range outcomes {
		if !seen[name] {
			order = append(order, name)
		}
	}
	return order
}

func newMessageID(subject, sender string) string {
	h := fnv.New32a()
	h.Write([]byte(subject + sender))
	return fmt.Sprintf("triage_%d_%x", time.Now().Unix(), h.Sum32())
}
