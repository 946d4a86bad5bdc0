package triage

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

// System prompts per strategy.
const (
	systemPromptContent    = "You are an expert email triage assistant specializing in the Eisenhower Matrix."
	systemPromptContextual = "You are an expert email triage assistant specializing in the Eisenhower Matrix. Consider the sender's context when making your classification."
	systemPromptEmbedding  = "You are an expert email triage assistant specializing in the Eisenhower Matrix. Use similar examples to inform your classification."
	systemPromptOutcomes   = "You are an expert email triage assistant specializing in the Eisenhower Matrix. Use similar examples and past outcomes to inform your classification."
)

// Placeholder sections used when context lookups come back empty.
const (
	noSimilarContexts = "No similar contexts found"
	noPastOutcomes    = "No past triage results available for reference."
)

func quadrantDefinitions() string {
	lines := make([]string, 0, len(domain.Quadrants))
	for _, q := range domain.Quadrants {
		lines = append(lines, q.Description())
	}
	return strings.Join(lines, "\n")
}

// ContentPrompt builds the base classification prompt over subject and body
// alone. ContextualPrompt extends it with the sender profile as JSON.
func ContentPrompt(subject, body string) string {
	return ContextualPrompt(subject, body, nil)
}

func ContextualPrompt(subject, body string, senderProfile map[string]any) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an expert email triage assistant. Your task is to classify emails using the Eisenhower Matrix, which divides tasks into four quadrants:

%s

Please analyze the following email and classify it into one of these four quadrants.

Email Subject: %s
Email Body: %s`, quadrantDefinitions(), subject, body)

	if len(senderProfile) > 0 {
		profileJSON, err := json.MarshalIndent(senderProfile, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, "\n\nSender Context: %s", profileJSON)
		}
	}

	b.WriteString(`

Please provide your classification in the following JSON format:
{
    "quadrant": "do|schedule|delegate|delete",
    "confidence": 0.85,
    "reasoning": "Brief explanation of why this classification was chosen"
}

Guidelines:
- "do": Requires immediate attention, high priority, time-sensitive
- "schedule": Important but can wait, plan for dedicated time
- "delegate": Can be handled by someone else, not your core responsibility
- "delete": Low value, can be ignored or archived

Confidence should be between 0.0 and 1.0, where 1.0 is completely certain.
Reasoning should be concise but explain the key factors that led to this classification.

Respond with only the JSON object, no additional text.`)

	return b.String()
}

// EmbeddingPrompt builds the prompt enriched with similar past examples.
func EmbeddingPrompt(subject, body, similarContexts string) string {
	return fmt.Sprintf(`You are an expert email triage assistant. Classify this email based on its content and these similar examples from the database:

%s

Similar examples from database:
%s

Email to classify:
Subject: %s
Body: %s

Please provide your classification in the following JSON format:
{
    "quadrant": "do|schedule|delegate|delete",
    "confidence": 0.85,
    "reasoning": "Brief explanation of why this classification was chosen, considering the similar examples"
}

Guidelines:
- Consider how similar emails were classified
- "do": Requires immediate attention, high priority, time-sensitive
- "schedule": Important but can wait, plan for dedicated time
- "delegate": Can be handled by someone else, not your core responsibility
- "delete": Low value, can be ignored or archived

Confidence should be between 0.0 and 1.0, where 1.0 is completely certain.
Reasoning should explain how the similar examples influenced your decision.

Respond with only the JSON object, no additional text.`, quadrantDefinitions(), similarContexts, subject, body)
}

// OutcomesPrompt builds the prompt enriched with similar examples and the
// outcomes of past triage runs.
func OutcomesPrompt(subject, body, similarContexts, outcomeSummary string) string {
	return fmt.Sprintf(`You are an expert email triage assistant. Classify this email based on its content, similar examples, and the outcomes of past similar emails:

%s

Similar examples from database:
%s

Past triage outcomes:
%s

Email to classify:
Subject: %s
Body: %s

Please provide your classification in the following JSON format:
{
    "quadrant": "do|schedule|delegate|delete",
    "confidence": 0.85,
    "reasoning": "Brief explanation of why this classification was chosen, considering the similar examples and past outcomes"
}

Guidelines:
- Consider how similar emails were classified and their outcomes
- "do": Requires immediate attention, high priority, time-sensitive
- "schedule": Important but can wait, plan for dedicated time
- "delegate": Can be handled by someone else, not your core responsibility
- "delete": Low value, can be ignored or archived

Confidence should be between 0.0 and 1.0, where 1.0 is completely certain.
Reasoning should explain how the similar examples and past outcomes influenced your decision.

Respond with only the JSON object, no additional text.`, quadrantDefinitions(), similarContexts, outcomeSummary, subject, body)
}

// FormatSimilarContexts renders nearest-neighbor examples as prompt lines.
func FormatSimilarContexts(examples []domain.SimilarExample) string {
	if len(examples) == 0 {
		return ""
	}
	lines := make([]string, 0, len(examples))
	for _, ex := range examples {
		reasoning := ex.Reasoning
		if r := []rune(reasoning); len(r) > 100 {
			reasoning = string(r[:100])
		}
		lines = append(lines, fmt.Sprintf("- %s (score: %.2f): %s - %s...", ex.ID, ex.Score, ex.Quadrant, reasoning))
	}
	return strings.Join(lines, "\n")
}

// FormatOutcomeSummary renders past triage outcomes as prompt lines,
// falling back to the fixed placeholder when there are none.
func FormatOutcomeSummary(outcomes []domain.PastOutcome) string {
	if len(outcomes) == 0 {
		return noPastOutcomes
	}
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		lines = append(lines, fmt.Sprintf("- %s: labeled as %s (conf: %v)", o.ID, o.Label, o.Confidence))
	}
	return strings.Join(lines, "\n")
}
