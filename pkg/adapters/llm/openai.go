package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aretw0/elo/pkg/core"
)

// OpenAI generates with the OpenAI chat completions API or a compatible
// server. It accepts images.
type OpenAI struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(s Settings) *OpenAI {
	s = s.withDefaults()
	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(cfg),
		model:       s.Model,
		maxTokens:   s.MaxTokens,
		temperature: s.Temperature,
		logger:      s.Logger,
	}
}

// Generate implements core.Generator.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (*core.Enrichment, error) {
	return o.complete(ctx, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

// GenerateFromImages implements core.ImageGenerator. Images are sent inline as data URLs.
func (o *OpenAI) GenerateFromImages(ctx context.Context, images []core.Image, prompt string) (*core.Enrichment, error) {
	parts := make([]openai.ChatMessagePart, 0, len(images)+1)
	for _, img := range images {
		url := "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: url},
		})
	}
	parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: prompt})
	return o.complete(ctx, openai.ChatCompletionMessage{
		Role:         openai.ChatMessageRoleUser,
		MultiContent: parts,
	})
}

func (o *OpenAI) complete(ctx context.Context, msg openai.ChatCompletionMessage) (*core.Enrichment, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			msg,
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	reply := ""
	if len(resp.Choices) > 0 {
		reply = resp.Choices[0].Message.Content
	}
	return finish(o.logger, ProviderOpenAI, o.model, reply)
}

var (
	_ core.Generator      = (*OpenAI)(nil)
	_ core.ImageGenerator = (*OpenAI)(nil)
)
