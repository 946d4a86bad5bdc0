// Package batch classifies directories of .eml files through a worker pool.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-pkgz/pool"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
	"github.com/imaglide/eisenhower-triage/core/port/in"
	"github.com/imaglide/eisenhower-triage/pkg/eml"
)

// Processor runs the triage pipeline over every .eml file in a directory,
// fanning out across a go-pkgz worker pool.
type Processor struct {
	service in.TriageService
	workers int
	log     zerolog.Logger

	processed atomic.Int64
	failed    atomic.Int64
}

// NewProcessor creates a batch processor with the given concurrency.
func NewProcessor(service in.TriageService, workers int, log zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		service: service,
		workers: workers,
		log:     log.With().Str("component", "batch_processor").Logger(),
	}
}

// emlWorker implements pool.Worker for .eml file paths.
type emlWorker struct {
	p *Processor
}

// Do implements pool.Worker.
func (w *emlWorker) Do(ctx context.Context, path string) error {
	if err := w.p.processFile(ctx, path); err != nil {
		w.p.failed.Add(1)
		w.p.log.Error().Err(err).Str("path", path).Msg("batch item failed")
		return err
	}
	w.p.processed.Add(1)
	return nil
}

// Run classifies every .eml file under dir. Individual file failures are
// counted and logged, not fatal.
func (p *Processor) Run(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read eml directory %s: %w", dir, err)
	}

	worker := &emlWorker{p: p}
	workers := pool.New[string](p.workers, worker).
		WithContinueOnError()

	if err := workers.Go(ctx); err != nil {
		return fmt.Errorf("start batch pool: %w", err)
	}

	submitted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".eml") {
			continue
		}
		workers.Submit(filepath.Join(dir, entry.Name()))
		submitted++
	}

	if err := workers.Close(ctx); err != nil && submitted > 0 {
		p.log.Warn().Err(err).Msg("batch pool finished with errors")
	}

	p.log.Info().
		Int("submitted", submitted).
		Int64("processed", p.processed.Load()).
		Int64("failed", p.failed.Load()).
		Msg("batch run complete")
	return nil
}

func (p *Processor) processFile(ctx context.Context, path string) error {
	msg, err := eml.ParseFile(path)
	if err != nil {
		return err
	}

	messageID := fmt.Sprintf("eml_%s", uuid.New().String())
	id, outcomes, err := p.service.ClassifyAndStore(ctx, messageID, msg.Subject, msg.Sender, msg.Body)
	if err != nil {
		return err
	}

	summary := p.service.Summarize(outcomes)
	p.log.Info().
		Str("message_id", id).
		Str("file", filepath.Base(path)).
		Str("consensus", string(summary.ConsensusPriority)).
		Float64("avg_confidence", summary.AverageConfidence).
		Int("fallbacks", countFallbacks(outcomes)).
		Msg("classified")
	return nil
}

func countFallbacks(outcomes map[string]domain.StrategyOutcome) int {
	n := 0
	for _, outcome := range outcomes {
		if outcome.UsedFallback {
			n++
		}
	}
	return n
}
