// Package llm sends prompts to a chat model and returns its text reply.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/amonks/interview/internal/validation"
)

// Client completes a single-turn prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to Client.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Provider selects an API.
type Provider string

const (
	// ProviderOpenAI speaks the OpenAI chat completions API, which Groq and
	// most local servers also implement.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic speaks the Anthropic messages API.
	ProviderAnthropic Provider = "anthropic"
)

// ValidProviders returns all supported providers.
func ValidProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic}
}

var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown llm provider")
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("empty model response")
)

// DefaultMaxTokens bounds reply length.
const DefaultMaxTokens = 1024

// Config selects and configures a provider.
type Config struct {
	Provider  Provider
	Model     string
	BaseURL   string
	APIKey    string
	MaxTokens int
	// Timeout bounds each request, including retries. Zero leaves it to ctx.
	Timeout time.Duration
}

// New returns a Client for cfg.Provider.
func New(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	switch Provider(strings.ToLower(string(cfg.Provider))) {
	case ProviderOpenAI, "":
		return NewOpenAI(cfg), nil
	case ProviderAnthropic:
		return NewAnthropic(cfg), nil
	default:
		return nil, validation.FormatInvalidValueError(ErrUnknownProvider, cfg.Provider, ValidProviders())
	}
}
