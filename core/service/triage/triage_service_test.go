package triage

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

type stubStrategy struct {
	name    string
	outcome domain.StrategyOutcome
	panics  bool
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Classify(ctx context.Context, messageID, subject, sender, body string) domain.StrategyOutcome {
	if s.panics {
		panic("collaborator exploded")
	}
	return s.outcome
}

func stub(name string, quadrant domain.Quadrant, confidence float64) *stubStrategy {
	return &stubStrategy{
		name: name,
		outcome: domain.StrategyOutcome{
			Strategy: name,
			Result:   domain.ClassificationResult{Quadrant: quadrant, Confidence: confidence, Reasoning: "stub"},
		},
	}
}

func TestServiceClassifyRunsAllStrategies(t *testing.T) {
	svc := NewService([]Strategy{
		stub(StrategyEmailOnly, domain.QuadrantDo, 0.9),
		stub(StrategyContextual, domain.QuadrantDo, 0.8),
		stub(StrategyEmbedding, domain.QuadrantSchedule, 0.7),
		stub(StrategyOutcomes, domain.QuadrantDelete, 0.6),
	}, &fakeResultStore{}, zerolog.Nop())

	outcomes := svc.Classify(context.Background(), testSubject, "a@b.com", testBody)

	if len(outcomes) != 4 {
		t.Fatalf("outcome count = %d, want 4", len(outcomes))
	}
	for _, name := range []string{StrategyEmailOnly, StrategyContextual, StrategyEmbedding, StrategyOutcomes} {
		if _, ok := outcomes[name]; !ok {
			t.Errorf("missing outcome for %s", name)
		}
	}
}

func TestServicePanicConvertedToErrorOutcome(t *testing.T) {
	svc := NewService([]Strategy{
		stub(StrategyEmailOnly, domain.QuadrantDo, 0.9),
		&stubStrategy{name: StrategyContextual, panics: true},
	}, &fakeResultStore{}, zerolog.Nop())

	outcomes := svc.Classify(context.Background(), testSubject, "a@b.com", testBody)

	errored := outcomes[StrategyContextual]
	if !errored.Errored() {
		t.Fatal("panicking strategy must yield an errored outcome")
	}
	if errored.Result.Quadrant != domain.QuadrantDelete || errored.Result.Confidence != 0.0 {
		t.Errorf("Result = %+v, want delete/0.0", errored.Result)
	}
	if !strings.Contains(errored.Result.Reasoning, "collaborator exploded") {
		t.Errorf("Reasoning = %q", errored.Result.Reasoning)
	}
	if outcomes[StrategyEmailOnly].Errored() {
		t.Error("healthy strategy must not be errored")
	}
}

func TestServiceClassifyAndStore(t *testing.T) {
	store := &fakeResultStore{}
	svc := NewService([]Strategy{
		stub(StrategyEmailOnly, domain.QuadrantDo, 0.9),
		stub(StrategyContextual, domain.QuadrantSchedule, 0.7),
	}, store, zerolog.Nop())

	id, outcomes, err := svc.ClassifyAndStore(context.Background(), "msg_42", testSubject, "a@b.com", testBody)
	if err != nil {
		t.Fatalf("ClassifyAndStore() error = %v", err)
	}
	if id != "msg_42" {
		t.Errorf("id = %q, want msg_42", id)
	}
	if len(outcomes) != 2 {
		t.Fatalf("outcome count = %d, want 2", len(outcomes))
	}
	if len(store.upserts) != 1 {
		t.Fatalf("upsert count = %d, want 1", len(store.upserts))
	}
	record := store.upserts[0]
	if record.MessageID != "msg_42" {
		t.Errorf("record.MessageID = %q", record.MessageID)
	}
	if record.Results[StrategyEmailOnly].Quadrant != domain.QuadrantDo {
		t.Errorf("stored result = %+v", record.Results[StrategyEmailOnly])
	}
	if record.CreatedAt.IsZero() {
		t.Error("record.CreatedAt not set")
	}
}

func TestServiceClassifyAndStoreGeneratesID(t *testing.T) {
	svc := NewService([]Strategy{stub(StrategyEmailOnly, domain.QuadrantDo, 0.9)}, &fakeResultStore{}, zerolog.Nop())

	id, _, err := svc.ClassifyAndStore(context.Background(), "", testSubject, "a@b.com", testBody)
	if err != nil {
		t.Fatalf("ClassifyAndStore() error = %v", err)
	}
	if !strings.HasPrefix(id, "triage_") {
		t.Errorf("id = %q, want triage_ prefix", id)
	}
}

func TestServiceSummarize(t *testing.T) {
	svc := NewService([]Strategy{
		stub(StrategyEmailOnly, domain.QuadrantDo, 0.9),
		stub(StrategyContextual, domain.QuadrantDo, 0.8),
		stub(StrategyEmbedding, domain.QuadrantSchedule, 0.7),
		stub(StrategyOutcomes, domain.QuadrantDelete, 0.6),
	}, &fakeResultStore{}, zerolog.Nop())

	outcomes := svc.Classify(context.Background(), testSubject, "a@b.com", testBody)
	summary := svc.Summarize(outcomes)

	if summary.ConsensusPriority != domain.PriorityUrgentImportant {
		t.Errorf("ConsensusPriority = %v", summary.ConsensusPriority)
	}
	if summary.Distribution[domain.PriorityUrgentImportant] != 2 {
		t.Errorf("Distribution = %v", summary.Distribution)
	}
	if summary.TotalStrategies != 4 || summary.SuccessfulStrategies != 4 {
		t.Errorf("Total/Successful = %d/%d", summary.TotalStrategies, summary.SuccessfulStrategies)
	}
	want := (0.9 + 0.8 + 0.7 + 0.6) / 4
	if diff := summary.AverageConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AverageConfidence = %v, want %v", summary.AverageConfidence, want)
	}
}

func TestServiceSummarizeTieBreaksByRegistrationOrder(t *testing.T) {
	svc := NewService([]Strategy{
		stub(StrategyEmailOnly, domain.QuadrantSchedule, 0.7),
		stub(StrategyContextual, domain.QuadrantDo, 0.9),
		stub(StrategyEmbedding, domain.QuadrantDo, 0.8),
		stub(StrategyOutcomes, domain.QuadrantSchedule, 0.6),
	}, &fakeResultStore{}, zerolog.Nop())

	outcomes := svc.Classify(context.Background(), testSubject, "a@b.com", testBody)
	summary := svc.Summarize(outcomes)

	// schedule and do are tied 2-2; schedule came from the first strategy.
	if summary.ConsensusPriority != domain.PriorityImportantNotUrgent {
		t.Errorf("ConsensusPriority = %v, want important_not_urgent", summary.ConsensusPriority)
	}
}

func TestServiceSummarizeExcludesErroredFromSuccessCount(t *testing.T) {
	svc := NewService([]Strategy{
		stub(StrategyEmailOnly, domain.QuadrantDo, 0.9),
		&stubStrategy{name: StrategyContextual, panics: true},
	}, &fakeResultStore{}, zerolog.Nop())

	outcomes := svc.Classify(context.Background(), testSubject, "a@b.com", testBody)
	summary := svc.Summarize(outcomes)

	if summary.TotalStrategies != 2 {
		t.Errorf("TotalStrategies = %d, want 2", summary.TotalStrategies)
	}
	if summary.SuccessfulStrategies != 1 {
		t.Errorf("SuccessfulStrategies = %d, want 1", summary.SuccessfulStrategies)
	}
	// The errored delete/0.0 outcome still counts in the distribution and
	// drags the average down.
	if summary.Distribution[domain.PriorityNotUrgentNotImportant] != 1 {
		t.Errorf("Distribution = %v", summary.Distribution)
	}
	if summary.AverageConfidence != 0.45 {
		t.Errorf("AverageConfidence = %v, want 0.45", summary.AverageConfidence)
	}
}

func TestServiceSummarizeEmpty(t *testing.T) {
	svc := NewService(nil, &fakeResultStore{}, zerolog.Nop())
	summary := svc.Summarize(nil)
	if summary.TotalStrategies != 0 || summary.AverageConfidence != 0 {
		t.Errorf("summary = %+v", summary)
	}
}
