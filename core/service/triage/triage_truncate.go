package triage

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
)

// Token budgets per prompt section. The embedding budget matches the input
// limit of the ada-002 model.
const (
	promptMaxTokens    = 3000
	enrichedMaxTokens  = 2000
	embeddingMaxTokens = 8000
)

// Rough estimate used when no tokenizer is available: 4 characters per token.
const charsPerToken = 4

// Truncator bounds text to a token budget. Truncation never fails; an
// implementation degrades to a coarser cut instead of returning an error.
type Truncator interface {
	Truncate(text string, maxTokens int) string
}

// NewTruncator returns a token-aware truncator when the cl100k_base encoding
// can be loaded, and the character-based estimate otherwise.
func NewTruncator(log zerolog.Logger) Truncator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Warn().Err(err).Msg("tokenizer unavailable, using character-based truncation")
		return charTruncator{}
	}
	return &tokenTruncator{enc: enc, log: log.With().Str("component", "truncator").Logger()}
}

type tokenTruncator struct {
	enc *tiktoken.Tiktoken
	log zerolog.Logger
}

func (t *tokenTruncator) Truncate(text string, maxTokens int) string {
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	truncated := t.enc.Decode(tokens[:maxTokens])
	t.log.Debug().
		Int("tokens", len(tokens)).
		Int("max_tokens", maxTokens).
		Msg("text truncated")
	return truncated
}

type charTruncator struct{}

func (charTruncator) Truncate(text string, maxTokens int) string {
	maxChars := maxTokens * charsPerToken
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
