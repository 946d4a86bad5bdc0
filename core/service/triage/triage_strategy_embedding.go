package triage

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
	"github.com/imaglide/eisenhower-triage/core/port/out"
)

const (
	similarTopK      = 5
	similarThreshold = 0.5
)

// EmbeddingStrategy classifies against the nearest previously classified
// messages, persisting the current message's embedding on first sight.
type EmbeddingStrategy struct {
	caller     Caller
	trunc      Truncator
	embedder   out.Embedder
	embeddings out.EmbeddingStore
	results    out.TriageResultStore
	rnd        *rand.Rand
	log        zerolog.Logger
}

func NewEmbeddingStrategy(caller Caller, trunc Truncator, embedder out.Embedder, embeddings out.EmbeddingStore, results out.TriageResultStore, rnd *rand.Rand, log zerolog.Logger) *EmbeddingStrategy {
	return &EmbeddingStrategy{
		caller:     caller,
		trunc:      trunc,
		embedder:   embedder,
		embeddings: embeddings,
		results:    results,
		rnd:        rnd,
		log:        log.With().Str("strategy", StrategyEmbedding).Logger(),
	}
}

func (s *EmbeddingStrategy) Name() string { return StrategyEmbedding }

func (s *EmbeddingStrategy) Classify(ctx context.Context, messageID, subject, sender, body string) domain.StrategyOutcome {
	if result, blocked := CheckGuards(subject, body); blocked {
		return domain.StrategyOutcome{Strategy: s.Name(), Result: result}
	}

	combined := s.trunc.Truncate(fmt.Sprintf("Subject: %s\n\nBody: %s", subject, body), embeddingMaxTokens)

	embedding, err := s.embedder.Embed(ctx, combined)
	if err != nil {
		return s.degraded(messageID, fmt.Sprintf("Fallback due to embedding triage error: %v", err))
	}

	exists, err := s.embeddings.Exists(ctx, messageID)
	if err != nil {
		s.log.Warn().Err(err).Str("message_id", messageID).Msg("embedding existence check failed")
	}
	if err == nil && !exists {
		if err := s.embeddings.Store(ctx, messageID, embedding); err != nil {
			s.log.Warn().Err(err).Str("message_id", messageID).Msg("embedding store failed")
		}
	}

	neighbors, err := s.embeddings.NearestNeighbors(ctx, embedding, similarTopK, similarThreshold)
	if err != nil {
		return s.degraded(messageID, fmt.Sprintf("Fallback due to embedding triage error: %v", err))
	}
	if len(neighbors) == 0 {
		return s.degraded(messageID, "No similar emails found in database for embedding-based classification")
	}

	examples := s.collectExamples(ctx, neighbors)
	if len(examples) == 0 {
		return s.degraded(messageID, "No valid triage results found for similar emails")
	}

	truncated := s.trunc.Truncate(body, enrichedMaxTokens)
	prompt := EmbeddingPrompt(subject, truncated, FormatSimilarContexts(examples))

	call, callErr := s.caller.Call(ctx, systemPromptEmbedding, prompt)
	result, attempts, ok := classifyReply(call, callErr)
	if !ok {
		s.log.Warn().Str("message_id", messageID).Int("attempts", attempts).
			Msg("primary path failed, using simulated similarity fallback")
		return domain.StrategyOutcome{
			Strategy:     s.Name(),
			Result:       SimilarityFallback(s.rnd),
			UsedFallback: true,
			CallAttempts: attempts,
			Facts:        map[string]any{"similar_emails_found": len(examples)},
		}
	}

	return domain.StrategyOutcome{
		Strategy:     s.Name(),
		Result:       result,
		CallAttempts: attempts,
		Facts:        map[string]any{"similar_emails_found": len(examples)},
	}
}

// degraded is the designed pre-call fallback: a fixed low-confidence
// schedule result with no service round trip.
func (s *EmbeddingStrategy) degraded(messageID, reasoning string) domain.StrategyOutcome {
	s.log.Warn().Str("message_id", messageID).Str("reason", reasoning).Msg("embedding strategy degraded")
	return domain.StrategyOutcome{
		Strategy:     s.Name(),
		Result:       domain.ClassificationResult{Quadrant: domain.QuadrantSchedule, Confidence: 0.3, Reasoning: reasoning},
		UsedFallback: true,
	}
}

func (s *EmbeddingStrategy) collectExamples(ctx context.Context, neighbors []out.Neighbor) []domain.SimilarExample {
	examples := make([]domain.SimilarExample, 0, len(neighbors))
	for _, n := range neighbors {
		record, err := s.results.Get(ctx, n.EmailID)
		if err != nil {
			s.log.Warn().Err(err).Str("email_id", n.EmailID).Msg("triage result lookup failed")
			continue
		}
		if record == nil {
			continue
		}
		example := domain.SimilarExample{
			ID:        n.EmailID,
			Score:     n.Score,
			Quadrant:  domain.QuadrantSchedule,
			Reasoning: "No reasoning available",
		}
		if prior, ok := record.Results[StrategyEmailOnly]; ok {
			example.Quadrant = prior.Quadrant
			example.Confidence = prior.Confidence
			example.Reasoning = prior.Reasoning
		}
		examples = append(examples, example)
	}
	return examples
}
