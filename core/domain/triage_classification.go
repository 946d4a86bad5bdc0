// Package domain holds the core entities of the triage pipeline.
package domain

import (
	"fmt"
	"strings"
)

// =============================================================================
// Quadrants (Eisenhower Matrix)
// =============================================================================

// Quadrant is one of the four Eisenhower Matrix outcomes.
type Quadrant string

const (
	QuadrantDo       Quadrant = "do"
	QuadrantSchedule Quadrant = "schedule"
	QuadrantDelegate Quadrant = "delegate"
	QuadrantDelete   Quadrant = "delete"
)

// Quadrants lists all quadrants in matrix order.
var Quadrants = []Quadrant{QuadrantDo, QuadrantSchedule, QuadrantDelegate, QuadrantDelete}

var quadrantDescriptions = map[Quadrant]string{
	QuadrantDo:       "Do (Urgent & Important) - Handle immediately",
	QuadrantSchedule: "Schedule (Important but not Urgent) - Plan for later",
	QuadrantDelegate: "Delegate (Urgent but not Important) - Assign to someone else",
	QuadrantDelete:   "Delete (Neither Urgent nor Important) - Ignore or archive",
}

// IsValid reports whether q is one of the four known quadrants.
func (q Quadrant) IsValid() bool {
	_, ok := quadrantDescriptions[q]
	return ok
}

// Description returns the matrix description used in prompts.
func (q Quadrant) Description() string {
	if d, ok := quadrantDescriptions[q]; ok {
		return d
	}
	return "Unknown quadrant"
}

// =============================================================================
// Priority Labels (urgent/important axis vocabulary)
// =============================================================================

// PriorityLabel is the urgent/important axis renaming of a quadrant.
type PriorityLabel string

const (
	PriorityUrgentImportant       PriorityLabel = "urgent_important"
	PriorityImportantNotUrgent    PriorityLabel = "important_not_urgent"
	PriorityUrgentNotImportant    PriorityLabel = "urgent_not_important"
	PriorityNotUrgentNotImportant PriorityLabel = "not_urgent_not_important"
)

var quadrantToPriority = map[Quadrant]PriorityLabel{
	QuadrantDo:       PriorityUrgentImportant,
	QuadrantSchedule: PriorityImportantNotUrgent,
	QuadrantDelegate: PriorityUrgentNotImportant,
	QuadrantDelete:   PriorityNotUrgentNotImportant,
}

var priorityToQuadrant = map[PriorityLabel]Quadrant{
	PriorityUrgentImportant:       QuadrantDo,
	PriorityImportantNotUrgent:    QuadrantSchedule,
	PriorityUrgentNotImportant:    QuadrantDelegate,
	PriorityNotUrgentNotImportant: QuadrantDelete,
}

var priorityToHuman = map[PriorityLabel]string{
	PriorityUrgentImportant:       "Urgent and Important",
	PriorityImportantNotUrgent:    "Important, Not Urgent",
	PriorityUrgentNotImportant:    "Urgent, Not Important",
	PriorityNotUrgentNotImportant: "Not Urgent, Not Important",
}

// ToPriorityLabel maps a quadrant value into the priority vocabulary.
// Values that already are priority labels pass through unchanged; anything
// unknown collapses to the lowest priority.
func ToPriorityLabel(value string) PriorityLabel {
	if label, ok := quadrantToPriority[Quadrant(value)]; ok {
		return label
	}
	if _, ok := priorityToQuadrant[PriorityLabel(value)]; ok {
		return PriorityLabel(value)
	}
	return PriorityNotUrgentNotImportant
}

// Quadrant returns the quadrant this label renames.
func (p PriorityLabel) Quadrant() Quadrant {
	if q, ok := priorityToQuadrant[p]; ok {
		return q
	}
	return QuadrantDelete
}

// Human returns a display name for the label.
func (p PriorityLabel) Human() string {
	if h, ok := priorityToHuman[p]; ok {
		return h
	}
	words := strings.Split(string(p), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// =============================================================================
// Classification results
// =============================================================================

// ClassificationResult is the canonical output of any strategy, primary or
// fallback. Both paths must satisfy the same invariants, enforced by
// NewClassificationResult.
type ClassificationResult struct {
	Quadrant   Quadrant `json:"quadrant"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// NewClassificationResult builds a result, rejecting unknown quadrants and
// confidences outside [0.0, 1.0].
func NewClassificationResult(quadrant string, confidence float64, reasoning string) (ClassificationResult, error) {
	q := Quadrant(quadrant)
	if !q.IsValid() {
		return ClassificationResult{}, fmt.Errorf("invalid quadrant: %q", quadrant)
	}
	if confidence < 0.0 || confidence > 1.0 {
		return ClassificationResult{}, fmt.Errorf("confidence must be between 0.0 and 1.0, got: %v", confidence)
	}
	return ClassificationResult{Quadrant: q, Confidence: confidence, Reasoning: reasoning}, nil
}

// Priority returns the result's quadrant in the priority vocabulary.
func (r ClassificationResult) Priority() PriorityLabel {
	return ToPriorityLabel(string(r.Quadrant))
}

// =============================================================================
// Requests and outcomes
// =============================================================================

// PastOutcome summarizes one prior triage decision used as context by the
// outcomes strategy.
type PastOutcome struct {
	ID         string   `json:"id"`
	Label      Quadrant `json:"label"`
	Confidence float64  `json:"confidence"`
}

// SimilarExample is one nearest-neighbor match with its prior classification.
type SimilarExample struct {
	ID         string   `json:"id"`
	Score      float64  `json:"score"`
	Quadrant   Quadrant `json:"quadrant"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// ClassificationRequest is the immutable input bundle for one classification.
// The contextual fields are optional and populated per strategy.
type ClassificationRequest struct {
	Subject         string
	Body            string
	Sender          string
	SenderProfile   map[string]any
	SimilarContexts []string
	PastOutcomes    []PastOutcome
}

// StrategyOutcome wraps a ClassificationResult with per-strategy metadata.
// Created once per (message, strategy) pair and never mutated.
type StrategyOutcome struct {
	Strategy     string               `json:"strategy"`
	Result       ClassificationResult `json:"result"`
	UsedFallback bool                 `json:"used_fallback"`
	CallAttempts int                  `json:"call_attempts"`
	Facts        map[string]any       `json:"facts,omitempty"`
}

// Errored reports whether the outcome came from a strategy whose execution
// itself failed (as opposed to a designed fallback result).
func (o StrategyOutcome) Errored() bool {
	if o.Facts == nil {
		return false
	}
	v, ok := o.Facts["error"].(bool)
	return ok && v
}

// AggregateSummary is the derived view over one run's per-strategy results.
type AggregateSummary struct {
	ConsensusPriority    PriorityLabel         `json:"consensus_priority"`
	Distribution         map[PriorityLabel]int `json:"priority_distribution"`
	AverageConfidence    float64               `json:"average_confidence"`
	TotalStrategies      int                   `json:"total_strategies"`
	SuccessfulStrategies int                   `json:"successful_strategies"`
}
