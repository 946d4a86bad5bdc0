// Package out defines outbound ports (driven ports) for the application.
package out

import (
	"context"
	"time"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

// =============================================================================
// SenderProfileStore
// =============================================================================

// SenderProfileStore defines the outbound port for sender profile persistence.
type SenderProfileStore interface {
	// GetByEmail returns the stored profile for a sender address, or nil
	// when no profile exists.
	GetByEmail(ctx context.Context, email string) (map[string]any, error)

	// Upsert creates or updates the profile for a sender address.
	Upsert(ctx context.Context, email string, profile map[string]any) error
}

// =============================================================================
// EmbeddingStore (pgvector / Neo4j)
// =============================================================================

// Neighbor is one nearest-neighbor match from a similarity search.
type Neighbor struct {
	EmailID string  `json:"email_id"`
	Score   float64 `json:"score"`
}

// EmbeddingStore defines the outbound port for embedding storage and
// similarity search.
type EmbeddingStore interface {
	// Exists reports whether an embedding is already stored for the email.
	Exists(ctx context.Context, emailID string) (bool, error)

	// Store persists a 1536-dimension embedding for the email.
	Store(ctx context.Context, emailID string, embedding []float32) error

	// NearestNeighbors returns up to topK matches scoring at or above
	// threshold, best first.
	NearestNeighbors(ctx context.Context, embedding []float32, topK int, threshold float64) ([]Neighbor, error)
}

// =============================================================================
// TriageResultStore
// =============================================================================

// TriageRecord is one persisted triage run: the per-strategy results for a
// single message.
type TriageRecord struct {
	MessageID string                                 `json:"message_id"`
	Results   map[string]domain.ClassificationResult `json:"results"`
	CreatedAt time.Time                              `json:"created_at"`
}

// TriageResultStore defines the outbound port for triage result persistence.
type TriageResultStore interface {
	// Get returns the record for a message ID, or nil when absent.
	Get(ctx context.Context, messageID string) (*TriageRecord, error)

	// Upsert creates or replaces the record for a message ID.
	Upsert(ctx context.Context, record *TriageRecord) error

	// Recent returns the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]*TriageRecord, error)
}
