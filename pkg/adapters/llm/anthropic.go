package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/aretw0/elo/pkg/core"
)

// Anthropic generates with the Anthropic messages API.
type Anthropic struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	logger      *slog.Logger
}

// NewAnthropic creates an Anthropic generator.
func NewAnthropic(s Settings) *Anthropic {
	s = s.withDefaults()
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &Anthropic{
		client:      anthropic.NewClient(opts...),
		model:       s.Model,
		maxTokens:   int64(s.MaxTokens),
		temperature: float64(s.Temperature),
		logger:      s.Logger,
	}
}

// Generate implements core.Generator.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (*core.Enrichment, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(a.temperature),
		System:      []anthropic.TextBlockParam{{Text: SystemInstruction}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic completion failed: %w", err)
	}
	reply := ""
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			reply += text.Text
		}
	}
	return finish(a.logger, ProviderAnthropic, a.model, reply)
}

var _ core.Generator = (*Anthropic)(nil)
