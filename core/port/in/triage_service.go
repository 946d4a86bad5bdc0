// Package in defines inbound ports (driving ports) for the application.
package in

import (
	"context"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

// TriageService is the inbound port for email triage.
type TriageService interface {
	// Classify runs every registered strategy over one email and returns
	// the per-strategy outcomes keyed by strategy name.
	Classify(ctx context.Context, subject, sender, body string) map[string]domain.StrategyOutcome

	// ClassifyAndStore classifies and persists the run under a message ID,
	// returning the ID alongside the outcomes.
	ClassifyAndStore(ctx context.Context, messageID, subject, sender, body string) (string, map[string]domain.StrategyOutcome, error)

	// Summarize aggregates one run's outcomes into a consensus view.
	Summarize(outcomes map[string]domain.StrategyOutcome) domain.AggregateSummary
}
