package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
	"github.com/aretw0/elo/pkg/template"
)

// Enhance asks the generator to improve a note in place. The prompt comes
// from cfg when it carries one, otherwise from the note's own prompt key.
// Suggested metadata overwrites existing values and the returned body is
// appended to the current one.
func (s *Service) Enhance(ctx context.Context, notePath string, cfg *core.TemplateConfig) (*Result, error) {
	r := s.begin("enhance", notePath)
	note, err := r.load(ctx, notePath)
	if err != nil {
		return r.res, err
	}

	own, _ := template.FromMetadata(note.Metadata, r.registry)
	instructions, includeMeta := "", false
	if cfg != nil && strings.TrimSpace(cfg.Prompt) != "" {
		instructions, includeMeta = cfg.Prompt, cfg.HasFrontmatter
	} else if strings.TrimSpace(own.Prompt) != "" {
		instructions = own.Prompt
		includeMeta = len(frontmatter.StripControl(note.Metadata, r.registry)) > 0
	}
	if instructions == "" {
		r.notify(ctx, slog.LevelWarn, "enhance.noPrompt", nil)
		return r.res, core.ErrNoPrompt
	}
	if r.generator == nil {
		r.notify(ctx, slog.LevelError, "enhance.failed", nil)
		return r.res, fmt.Errorf("no generator configured: %w", core.ErrGenerationUnavailable)
	}

	r.notify(ctx, slog.LevelInfo, "enhance.enhancing", args{"path": note.Path})
	prompt, err := r.enhancePrompt(note, instructions, own.Commands, includeMeta)
	if err != nil {
		return r.res, err
	}
	reply, err := r.generator.Generate(ctx, prompt)
	if err != nil || reply == nil {
		r.notify(ctx, slog.LevelError, "enhance.failed", nil)
		if err != nil {
			return r.res, fmt.Errorf("enhance failed: %w: %w", core.ErrGenerationUnavailable, err)
		}
		return r.res, core.ErrGenerationUnavailable
	}

	meta := frontmatter.ApplyUpdates(note.Metadata, frontmatter.Normalize(reply.Metadata, r.registry))
	body := note.Body
	if reply.Body != nil {
		body = joinNonEmpty(body, strings.TrimSpace(*reply.Body))
	}
	if err := r.persist(ctx, note, meta, body); err != nil {
		return r.res, err
	}
	r.notify(ctx, slog.LevelInfo, "enhance.enhanced", nil)
	return r.res, nil
}

func (r *run) enhancePrompt(note core.Note, instructions string, commands []string, includeMeta bool) (string, error) {
	visible := frontmatter.Without(note.Metadata, core.KeyPrompt, core.KeyCommands)
	raw, err := json.Marshal(visible)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata for prompt: %w", err)
	}

	t := r.catalog.T
	parts := []string{t("enhance.promptNote", args{"title": note.Title()}), strings.TrimSpace(instructions)}
	if len(commands) > 0 {
		parts = append(parts, t("enhance.promptCommands", nil))
		parts = append(parts, commands...)
	}
	parts = append(parts,
		t("enhance.promptFrontmatter", args{"json": string(raw)}),
		t("enhance.promptBody", args{"body": note.Body}),
		t("enhance.promptReturnJson", nil),
		t("enhance.promptReturnBody", nil),
	)
	if includeMeta {
		parts = append(parts, t("enhance.promptReturnFrontmatter", nil))
	}
	parts = append(parts, t("enhance.promptInvalidChars", nil))
	return strings.Join(parts, "\n"), nil
}
