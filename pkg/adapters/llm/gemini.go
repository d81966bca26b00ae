package llm

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/aretw0/elo/pkg/core"
)

// Gemini generates with Google Gemini. It accepts images.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	logger      *slog.Logger
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, s Settings) (*Gemini, error) {
	s = s.withDefaults()
	cfg := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &Gemini{
		client:      client,
		model:       s.Model,
		maxTokens:   int32(s.MaxTokens),
		temperature: s.Temperature,
		logger:      s.Logger,
	}, nil
}

// Generate implements core.Generator.
func (g *Gemini) Generate(ctx context.Context, prompt string) (*core.Enrichment, error) {
	return g.generate(ctx, []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)})
}

// GenerateFromImages implements core.ImageGenerator. Images precede the prompt.
func (g *Gemini) GenerateFromImages(ctx context.Context, images []core.Image, prompt string) (*core.Enrichment, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	return g.generate(ctx, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)})
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content) (*core.Enrichment, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   g.maxTokens,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}
	return finish(g.logger, ProviderGemini, g.model, resp.Text())
}

var (
	_ core.Generator      = (*Gemini)(nil)
	_ core.ImageGenerator = (*Gemini)(nil)
)
