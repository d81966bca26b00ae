// Package llm adapts hosted language models to the generator ports.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/elo/pkg/core"
)

// Provider names a hosted model vendor.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// DefaultMaxTokens bounds replies when Settings leaves it unset.
const DefaultMaxTokens = 4096

// SystemInstruction tells every model how to shape its reply.
const SystemInstruction = `You enrich Markdown notes. Reply with a single JSON object of the form ` +
	`{"body": "<markdown body or omit>", "frontmatter": {<metadata fields>}}. ` +
	`Do not add any text outside the JSON object.`

// ParseProvider parses a provider name (case-insensitive).
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini", "google":
		return ProviderGemini, nil
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("unknown provider: %s", s)
	}
}

// EnvVar returns the environment variable holding the provider's API key.
func (p Provider) EnvVar() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// DefaultModel returns the model used when Settings leaves it unset.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-sonnet-4-5"
	default:
		return ""
	}
}

// Settings configures a generator.
type Settings struct {
	Provider    Provider
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float32
	// BaseURL overrides the vendor endpoint (proxies, compatible servers).
	BaseURL string
	Logger  *slog.Logger
}

func (s Settings) withDefaults() Settings {
	if s.Model == "" {
		s.Model = s.Provider.DefaultModel()
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	return s
}

// New builds the generator for s.Provider. Generators that also accept
// images implement core.ImageGenerator.
func New(ctx context.Context, s Settings) (core.Generator, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("%s: missing API key (set %s)", s.Provider, s.Provider.EnvVar())
	}
	s = s.withDefaults()
	switch s.Provider {
	case ProviderGemini:
		return NewGemini(ctx, s)
	case ProviderOpenAI:
		return NewOpenAI(s), nil
	case ProviderAnthropic:
		return NewAnthropic(s), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", s.Provider)
	}
}

// Vision returns g as an image generator when it supports images.
func Vision(g core.Generator) (core.ImageGenerator, bool) {
	v, ok := g.(core.ImageGenerator)
	return v, ok
}

// finish parses a raw reply and logs its outcome.
func finish(logger *slog.Logger, provider Provider, model, reply string) (*core.Enrichment, error) {
	logger.Debug("generation finished", "provider", provider, "model", model, "bytes", len(reply))
	e, err := ParseEnrichment(reply)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}
	return e, nil
}
