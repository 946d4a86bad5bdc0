// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

// =============================================================================
// Sender Profile Adapter (PostgreSQL)
// =============================================================================

// SenderProfileAdapter implements out.SenderProfileStore using PostgreSQL.
type SenderProfileAdapter struct {
	db *sqlx.DB
}

// NewSenderProfileAdapter creates a new SenderProfileAdapter.
func NewSenderProfileAdapter(db *sqlx.DB) *SenderProfileAdapter {
	return &SenderProfileAdapter{db: db}
}

type senderProfileRow struct {
	Email     string    `db:"email"`
	Profile   []byte    `db:"profile"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GetByEmail retrieves the profile for a sender, nil when absent.
func (a *SenderProfileAdapter) GetByEmail(ctx context.Context, email string) (map[string]any, error) {
	query := `SELECT email, profile, updated_at FROM sender_profiles WHERE email = $1`

	var row senderProfileRow
	if err := a.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sender profile %s: %w", email, err)
	}

	var profile map[string]any
	if err := json.Unmarshal(row.Profile, &profile); err != nil {
		return nil, fmt.Errorf("decode sender profile %s: %w", email, err)
	}
	return profile, nil
}

// Upsert creates or updates the profile for a sender.
func (a *SenderProfileAdapter) Upsert(ctx context.Context, email string, profile map[string]any) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode sender profile %s: %w", email, err)
	}

	query := `
		INSERT INTO sender_profiles (email, profile, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email)
		DO UPDATE SET profile = EXCLUDED.profile, updated_at = NOW()`

	if _, err := a.db.ExecContext(ctx, query, email, payload); err != nil {
		return fmt.Errorf("upsert sender profile %s: %w", email, err)
	}
	return nil
}
