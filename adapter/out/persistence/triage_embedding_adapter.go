package persistence

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imaglide/eisenhower-triage/core/port/out"
)

// EmbeddingDimensions is the vector size of the ada-002 embedding model.
const EmbeddingDimensions = 1536

// =============================================================================
// Embedding Adapter (PostgreSQL + pgvector)
// =============================================================================

// EmbeddingAdapter implements out.EmbeddingStore on a pgvector column.
type EmbeddingAdapter struct {
	db *pgxpool.Pool
}

// NewEmbeddingAdapter creates a new EmbeddingAdapter.
func NewEmbeddingAdapter(db *pgxpool.Pool) *EmbeddingAdapter {
	return &EmbeddingAdapter{db: db}
}

// Exists reports whether an embedding is stored for the email.
func (a *EmbeddingAdapter) Exists(ctx context.Context, emailID string) (bool, error) {
	var exists bool
	err := a.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM email_embeddings WHERE email_id = $1)`, emailID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check embedding %s: %w", emailID, err)
	}
	return exists, nil
}

// Store persists the embedding, rejecting vectors of the wrong dimension.
func (a *EmbeddingAdapter) Store(ctx context.Context, emailID string, embedding []float32) error {
	if len(embedding) != EmbeddingDimensions {
		return fmt.Errorf("embedding for %s has %d dimensions, want %d", emailID, len(embedding), EmbeddingDimensions)
	}

	query := `
		INSERT INTO email_embeddings (email_id, embedding, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, created_at = NOW()`

	if _, err := a.db.Exec(ctx, query, emailID, pgVector(embedding)); err != nil {
		return fmt.Errorf("store embedding %s: %w", emailID, err)
	}
	return nil
}

// NearestNeighbors returns up to topK matches at or above threshold by
// cosine similarity, best first.
func (a *EmbeddingAdapter) NearestNeighbors(ctx context.Context, embedding []float32, topK int, threshold float64) ([]out.Neighbor, error) {
	query := `
		SELECT email_id, 1 - (embedding <=> $1) as score
		FROM email_embeddings
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := a.db.Query(ctx, query, pgVector(embedding), threshold, topK)
	if err != nil {
		return nil, fmt.Errorf("search similar embeddings: %w", err)
	}
	defer rows.Close()

	var neighbors []out.Neighbor
	for rows.Next() {
		var n out.Neighbor
		if err := rows.Scan(&n.EmailID, &n.Score); err != nil {
			return nil, fmt.Errorf("scan embedding neighbor: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}

// pgVector converts a float32 slice to the pgvector text format.
func pgVector(v []float32) string {
	if len(v) == 0 {
		return "[0]"
	}

	buf := make([]byte, 0, len(v)*13+2)
	buf = append(buf, '[')
	for i, f := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, float64(f), 'f', -1, 32)
	}
	buf = append(buf, ']')
	return string(buf)
}
