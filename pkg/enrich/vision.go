package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

// ApplyTemplateFromImages applies a template whose prompt is answered by
// the image generator looking at images. The generated body is appended
// to the note and relocation never overwrites an existing note.
func (s *Service) ApplyTemplateFromImages(ctx context.Context, notePath string, images []core.Image, opts ApplyOptions) (*Result, error) {
	r := s.begin("from-images", notePath)
	note, err := r.load(ctx, notePath)
	if err != nil {
		return r.res, err
	}
	if len(images) == 0 {
		r.notify(ctx, slog.LevelWarn, "templates.noImages", nil)
		return r.res, fmt.Errorf("no images to analyse: %w", core.ErrNotFound)
	}

	tpl, err := r.chooseTemplate(ctx, opts.Template, note.Title())
	if err != nil {
		return r.res, err
	}
	r.res.Template = tpl.Name
	cfg := tpl.Config
	if strings.TrimSpace(cfg.Prompt) == "" {
		r.notify(ctx, slog.LevelWarn, "templates.noPrompt", args{"template": tpl.Name})
		return r.res, fmt.Errorf("template %s: %w", tpl.Name, core.ErrNoPrompt)
	}
	if r.vision == nil {
		r.notify(ctx, slog.LevelError, "apply.generationFailed", nil)
		return r.res, fmt.Errorf("no image generator configured: %w", core.ErrGenerationUnavailable)
	}

	r.notify(ctx, slog.LevelInfo, "templates.generating", args{"count": len(images)})
	prompt := r.catalog.T("templates.promptTitle", args{"title": note.Title()}) + "\n\n" + strings.TrimSpace(cfg.Prompt)
	reply, err := r.vision.GenerateFromImages(ctx, images, prompt)
	if err != nil || reply == nil {
		r.notify(ctx, slog.LevelError, "apply.generationFailed", nil)
		if err != nil {
			return r.res, fmt.Errorf("generation failed: %w: %w", core.ErrGenerationUnavailable, err)
		}
		return r.res, core.ErrGenerationUnavailable
	}

	merged, err := frontmatter.MergeNotes(tpl.Content, note.Content, false)
	if err != nil {
		return r.res, fmt.Errorf("failed to merge template %s: %w", tpl.Name, err)
	}
	meta, body := frontmatter.Read(merged)
	meta = frontmatter.MergeSuggestions(meta, frontmatter.Normalize(reply.Metadata, r.registry))
	if reply.Body != nil {
		body = joinNonEmpty(body, strings.TrimSpace(*reply.Body))
	}
	meta = frontmatter.StripControl(meta, r.registry)

	if err := r.finish(ctx, note, meta, body, cfg, finishOptions{refuseOccupied: true}); err != nil {
		return r.res, err
	}
	r.notify(ctx, slog.LevelInfo, "apply.applied", args{"template": tpl.Name, "path": r.res.Path})
	return r.res, nil
}
