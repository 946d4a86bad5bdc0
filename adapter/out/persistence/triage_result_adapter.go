package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"github.com/imaglide/eisenhower-triage/core/domain"
	"github.com/imaglide/eisenhower-triage/core/port/out"
)

// =============================================================================
// Triage Result Adapter (PostgreSQL)
// =============================================================================

// TriageResultAdapter implements out.TriageResultStore using PostgreSQL. The
// per-strategy result map is stored as a single JSONB column keyed by
// strategy name.
type TriageResultAdapter struct {
	db *sqlx.DB
}

// NewTriageResultAdapter creates a new TriageResultAdapter.
func NewTriageResultAdapter(db *sqlx.DB) *TriageResultAdapter {
	return &TriageResultAdapter{db: db}
}

type triageResultRow struct {
	MessageID string    `db:"message_id"`
	Results   []byte    `db:"results"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *triageResultRow) toRecord() (*out.TriageRecord, error) {
	var results map[string]domain.ClassificationResult
	if err := json.Unmarshal(r.Results, &results); err != nil {
		return nil, fmt.Errorf("decode triage results %s: %w", r.MessageID, err)
	}
	return &out.TriageRecord{
		MessageID: r.MessageID,
		Results:   results,
		CreatedAt: r.CreatedAt,
	}, nil
}

// Get returns the record for a message ID, nil when absent.
func (a *TriageResultAdapter) Get(ctx context.Context, messageID string) (*out.TriageRecord, error) {
	query := `SELECT message_id, results, created_at FROM triage_results WHERE message_id = $1`

	var row triageResultRow
	if err := a.db.GetContext(ctx, &row, query, messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get triage result %s: %w", messageID, err)
	}
	return row.toRecord()
}

// Upsert creates or replaces the record for a message ID.
func (a *TriageResultAdapter) Upsert(ctx context.Context, record *out.TriageRecord) error {
	payload, err := json.Marshal(record.Results)
	if err != nil {
		return fmt.Errorf("encode triage results %s: %w", record.MessageID, err)
	}

	query := `
		INSERT INTO triage_results (message_id, results, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (message_id)
		DO UPDATE SET results = EXCLUDED.results, created_at = EXCLUDED.created_at`

	if _, err := a.db.ExecContext(ctx, query, record.MessageID, payload, record.CreatedAt); err != nil {
		return fmt.Errorf("upsert triage result %s: %w", record.MessageID, err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (a *TriageResultAdapter) Recent(ctx context.Context, limit int) ([]*out.TriageRecord, error) {
	query := `SELECT message_id, results, created_at FROM triage_results ORDER BY created_at DESC LIMIT $1`

	var rows []triageResultRow
	if err := a.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list recent triage results: %w", err)
	}

	records := make([]*out.TriageRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
