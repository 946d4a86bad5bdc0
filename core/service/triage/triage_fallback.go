package triage

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

// =============================================================================
// Keyword fallback (content-only strategy)
// =============================================================================

var urgentKeywords = []string{"urgent", "asap", "immediate", "emergency", "critical", "deadline"}
var importantKeywords = []string{"important", "priority", "key", "essential", "vital", "crucial"}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func quadrantFor(urgent, important bool) domain.Quadrant {
	switch {
	case urgent && important:
		return domain.QuadrantDo
	case important:
		return domain.QuadrantSchedule
	case urgent:
		return domain.QuadrantDelegate
	default:
		return domain.QuadrantDelete
	}
}

// KeywordFallback classifies by urgency/importance keyword presence in the
// subject and body.
func KeywordFallback(subject, body string) domain.ClassificationResult {
	text := strings.ToLower(subject) + " " + strings.ToLower(body)
	urgent := containsAny(text, urgentKeywords)
	important := containsAny(text, importantKeywords)

	confidence := 0.50
	switch {
	case urgent && important:
		confidence = 0.75
	case important:
		confidence = 0.65
	case urgent:
		confidence = 0.60
	}

	return domain.ClassificationResult{
		Quadrant:   quadrantFor(urgent, important),
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Fallback keyword analysis. Urgent: %t, Important: %t", urgent, important),
	}
}

// =============================================================================
// Contextual fallback
// =============================================================================

var importantDomains = []string{"company.com", "boss.com", "executive.com", "management.com"}
var timeConstraintPatterns = []string{"today", "tomorrow", "this week", "by end of day", "deadline"}

// ContextualFallback classifies by sender-domain importance and time
// constraints in the body.
func ContextualFallback(subject, sender, body string) domain.ClassificationResult {
	senderDomain := ""
	if at := strings.LastIndex(sender, "@"); at >= 0 {
		senderDomain = strings.ToLower(sender[at+1:])
	}
	importantSender := containsAny(senderDomain, importantDomains)
	timeConstraint := containsAny(strings.ToLower(body), timeConstraintPatterns)

	confidence := 0.55
	switch {
	case importantSender && timeConstraint:
		confidence = 0.80
	case importantSender:
		confidence = 0.70
	case timeConstraint:
		confidence = 0.65
	}

	return domain.ClassificationResult{
		Quadrant:   quadrantFor(timeConstraint, importantSender),
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Fallback contextual analysis. Important sender: %t, Time constraint: %t", importantSender, timeConstraint),
	}
}

// =============================================================================
// Simulated similarity fallback
// =============================================================================

// SimilarityFallback approximates a similarity classification with random
// draws thresholded into urgency/importance booleans. A deliberate
// placeholder kept for behavioral parity; rnd is injectable for tests.
func SimilarityFallback(rnd *rand.Rand) domain.ClassificationResult {
	urgentSimilarity := 0.1 + rnd.Float64()*0.8
	importantSimilarity := 0.1 + rnd.Float64()*0.8

	urgent := urgentSimilarity > 0.6
	important := importantSimilarity > 0.5

	confidence := 0.62
	switch {
	case urgent && important:
		confidence = 0.78
	case important:
		confidence = 0.72
	case urgent:
		confidence = 0.68
	}

	return domain.ClassificationResult{
		Quadrant:   quadrantFor(urgent, important),
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Fallback embedding analysis. Urgent similarity: %.2f, Important similarity: %.2f", urgentSimilarity, importantSimilarity),
	}
}

// =============================================================================
// Outcomes fallback
// =============================================================================

type impactTier struct {
	name     string
	keywords []string
}

var impactTiers = []impactTier{
	{"high_impact", []string{"revenue", "profit", "loss", "customer", "contract", "deal"}},
	{"medium_impact", []string{"project", "meeting", "report", "review", "update"}},
	{"low_impact", []string{"newsletter", "announcement", "update", "information"}},
}

// OutcomesFallback classifies by business-impact keyword tiers. A tier wins
// only with a strictly highest count; ties (including all-zero) resolve to
// the low tier.
func OutcomesFallback(subject, body string) domain.ClassificationResult {
	text := strings.ToLower(subject + " " + body)

	winner := "low_impact"
	bestCount, tied := -1, false
	for _, tier := range impactTiers {
		count := 0
		for _, kw := range tier.keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > bestCount {
			winner, bestCount, tied = tier.name, count, false
		} else if count == bestCount {
			tied = true
		}
	}
	if tied {
		winner = "low_impact"
	}

	result := domain.ClassificationResult{Quadrant: domain.QuadrantDelete, Confidence: 0.58}
	switch winner {
	case "high_impact":
		result = domain.ClassificationResult{Quadrant: domain.QuadrantDo, Confidence: 0.82}
	case "medium_impact":
		result = domain.ClassificationResult{Quadrant: domain.QuadrantSchedule, Confidence: 0.68}
	}
	result.Reasoning = fmt.Sprintf("Fallback outcomes analysis. Impact level: %s", winner)
	return result
}
