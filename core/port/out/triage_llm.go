package out

import "context"

// TextGenerator defines the outbound port for chat-completion style text
// generation. A single attempt; retry policy lives above this port.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}

// Embedder defines the outbound port for text embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
