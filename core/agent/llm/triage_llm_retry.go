package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/imaglide/eisenhower-triage/core/port/out"
)

// =============================================================================
// Failure classification
// =============================================================================

// FailureKind categorizes a transport failure for backoff and retry policy.
type FailureKind string

const (
	FailureRateLimit  FailureKind = "rate-limit"
	FailureTimeout    FailureKind = "timeout"
	FailureConnection FailureKind = "connection"
	FailureQuota      FailureKind = "quota"
	FailureOther      FailureKind = "other"
)

// TransportError is the terminal error of an exhausted or aborted call.
type TransportError struct {
	Kind     FailureKind
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm call failed (%s) after %d attempts: %v", e.Kind, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ClassifyFailure maps an error to its failure kind. Quota and billing
// problems are terminal; everything else is retryable.
func ClassifyFailure(err error) FailureKind {
	msg := strings.ToLower(err.Error())

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 {
			if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
				return FailureQuota
			}
			return FailureRateLimit
		}
	}

	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return FailureQuota
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit") || strings.Contains(msg, "too many requests"):
		return FailureRateLimit
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline exceeded"):
		return FailureTimeout
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network") || strings.Contains(msg, "unreachable"):
		return FailureConnection
	default:
		return FailureOther
	}
}

func backoffBase(kind FailureKind) time.Duration {
	if kind == FailureTimeout {
		return 500 * time.Millisecond
	}
	return time.Second
}

// =============================================================================
// Retrying caller
// =============================================================================

// CallResult carries a completed reply and how many attempts it took.
type CallResult struct {
	Content  string
	Attempts int
}

// Caller wraps a TextGenerator with exponential-backoff retries.
type Caller struct {
	gen         out.TextGenerator
	maxRetries  int
	maxTokens   int
	temperature float32
	sleep       func(time.Duration)
	log         zerolog.Logger
}

// NewCaller builds a caller making up to maxRetries+1 attempts per call.
func NewCaller(gen out.TextGenerator, maxRetries, maxTokens int, temperature float32, log zerolog.Logger) *Caller {
	return &Caller{
		gen:         gen,
		maxRetries:  maxRetries,
		maxTokens:   maxTokens,
		temperature: temperature,
		sleep:       time.Sleep,
		log:         log.With().Str("component", "llm_caller").Logger(),
	}
}

// WithSleep replaces the backoff sleep, used by tests.
func (c *Caller) WithSleep(sleep func(time.Duration)) *Caller {
	c.sleep = sleep
	return c
}

// Call runs the generator, retrying transient failures with exponential
// backoff. Quota failures abort immediately.
func (c *Caller) Call(ctx context.Context, systemPrompt, userPrompt string) (CallResult, error) {
	var lastErr error
	var lastKind FailureKind

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		content, err := c.gen.Generate(ctx, systemPrompt, userPrompt, c.maxTokens, c.temperature)
		if err == nil {
			return CallResult{Content: content, Attempts: attempt + 1}, nil
		}

		lastErr = err
		lastKind = ClassifyFailure(err)

		if lastKind == FailureQuota {
			c.log.Error().Err(err).Msg("quota exceeded, aborting")
			return CallResult{Attempts: attempt + 1}, &TransportError{Kind: lastKind, Attempts: attempt + 1, Err: err}
		}

		if attempt == c.maxRetries {
			break
		}

		delay := backoffBase(lastKind) * (1 << attempt)
		c.log.Warn().
			Err(err).
			Str("kind", string(lastKind)).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("llm call failed, retrying")
		c.sleep(delay)
	}

	return CallResult{Attempts: c.maxRetries + 1}, &TransportError{Kind: lastKind, Attempts: c.maxRetries + 1, Err: lastErr}
}
