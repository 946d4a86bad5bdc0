// Package graph implements the Neo4j embedding store adapter.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/imaglide/eisenhower-triage/core/port/out"
)

const embeddingDimensions = 1536

// VectorAdapter implements out.EmbeddingStore using a Neo4j vector index.
// Alternative backend to the pgvector adapter, selected by configuration.
type VectorAdapter struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewVectorAdapter creates a new Neo4j vector adapter.
func NewVectorAdapter(driver neo4j.DriverWithContext, dbName string) *VectorAdapter {
	return &VectorAdapter{
		driver: driver,
		dbName: dbName,
	}
}

// EnsureIndexes creates the vector index and lookup index.
func (a *VectorAdapter) EnsureIndexes(ctx context.Context) error {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	queries := []string{
		"CREATE VECTOR INDEX triage_embedding_index IF NOT EXISTS " +
			"FOR (e:Email) " +
			"ON (e.embedding) " +
			fmt.Sprintf("OPTIONS {indexConfig: {`vector.dimensions`: %d, `vector.similarity_function`: 'cosine'}}", embeddingDimensions),
		`CREATE INDEX triage_email_id_idx IF NOT EXISTS FOR (e:Email) ON (e.email_id)`,
	}

	for _, query := range queries {
		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Exists reports whether an embedding node is stored for the email.
func (a *VectorAdapter) Exists(ctx context.Context, emailID string) (bool, error) {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		`MATCH (e:Email {email_id: $emailID}) RETURN count(e) > 0 AS exists`,
		map[string]interface{}{"emailID": emailID})
	if err != nil {
		return false, fmt.Errorf("check embedding %s: %w", emailID, err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return false, fmt.Errorf("check embedding %s: %w", emailID, err)
	}
	exists, _ := record.Get("exists")
	b, _ := exists.(bool)
	return b, nil
}

// Store persists the embedding, rejecting vectors of the wrong dimension.
func (a *VectorAdapter) Store(ctx context.Context, emailID string, embedding []float32) error {
	if len(embedding) != embeddingDimensions {
		return fmt.Errorf("embedding for %s has %d dimensions, want %d", emailID, len(embedding), embeddingDimensions)
	}

	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (e:Email {email_id: $emailID})
		SET e.embedding = $embedding, e.updated_at = timestamp()`,
		map[string]interface{}{
			"emailID":   emailID,
			"embedding": embedding,
		})
	if err != nil {
		return fmt.Errorf("store embedding %s: %w", emailID, err)
	}
	return nil
}

// NearestNeighbors queries the vector index, filtering by threshold.
func (a *VectorAdapter) NearestNeighbors(ctx context.Context, embedding []float32, topK int, threshold float64) ([]out.Neighbor, error) {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		CALL db.index.vector.queryNodes('triage_embedding_index', $topK, $embedding)
		YIELD node, score
		WHERE score >= $threshold
		RETURN node.email_id AS email_id, score
		ORDER BY score DESC`,
		map[string]interface{}{
			"embedding": embedding,
			"topK":      topK,
			"threshold": threshold,
		})
	if err != nil {
		return nil, fmt.Errorf("search similar embeddings: %w", err)
	}

	var neighbors []out.Neighbor
	for result.Next(ctx) {
		record := result.Record()
		id, _ := record.Get("email_id")
		score, _ := record.Get("score")

		emailID, ok := id.(string)
		if !ok {
			continue
		}
		s, _ := score.(float64)
		neighbors = append(neighbors, out.Neighbor{EmailID: emailID, Score: s})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("search similar embeddings: %w", err)
	}
	return neighbors, nil
}
