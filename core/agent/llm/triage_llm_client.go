// Package llm wraps the OpenAI API behind the generation and embedding ports.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const DefaultModel = "gpt-4"

type Client struct {
	client         *openai.Client
	model          string
	embeddingModel openai.EmbeddingModel
	cb             *gobreaker.CircuitBreaker
}

type ClientConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
}

func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	embeddingModel := resolveEmbeddingModel(cfg.EmbeddingModel, log)

	cbSettings := gobreaker.Settings{
		Name:        "openai-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		client:         openai.NewClient(cfg.APIKey),
		model:          model,
		embeddingModel: embeddingModel,
		cb:             gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// resolveEmbeddingModel maps the configured model name onto the enum,
// keeping ada-002 for empty or unrecognized names.
func resolveEmbeddingModel(name string, log zerolog.Logger) openai.EmbeddingModel {
	if name == "" {
		return openai.AdaEmbeddingV2
	}

	var model openai.EmbeddingModel
	if err := model.UnmarshalText([]byte(name)); err != nil || model == openai.Unknown {
		log.Warn().Str("model", name).Msg("unknown embedding model, using ada-002")
		return openai.AdaEmbeddingV2
	}
	return model
}

// Generate performs a single chat completion attempt.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// Embed returns the embedding vector for the text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: c.embeddingModel,
			Input: []string{text},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("embedding returned no data")
		}
		return resp.Data[0].Embedding, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]float32), nil
}
