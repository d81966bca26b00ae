package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

// ApplyTemplate merges a template into the note at notePath, enriches it
// with the generator and persists the result in a single write.
func (s *Service) ApplyTemplate(ctx context.Context, notePath string, opts ApplyOptions) (*Result, error) {
	r := s.begin("apply", notePath)
	note, err := r.load(ctx, notePath)
	if err != nil {
		return r.res, err
	}
	tpl, err := r.chooseTemplate(ctx, opts.Template, note.Title())
	if err != nil {
		return r.res, err
	}
	if err := r.applyTemplate(ctx, note, tpl, opts.URL); err != nil {
		return r.res, err
	}
	return r.res, nil
}

// EnrichWithURL records url on the note and applies a template using it as
// context. The note is written once, after generation succeeds.
func (s *Service) EnrichWithURL(ctx context.Context, notePath, url string) (*Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		s.notify(ctx, slog.LevelWarn, "url.missing", nil)
		return &Result{Path: notePath}, fmt.Errorf("enrich with url: %w", core.ErrInvalidPath)
	}

	r := s.begin("enrich-url", notePath)
	note, err := r.load(ctx, notePath)
	if err != nil {
		return r.res, err
	}
	tpl, err := r.chooseTemplate(ctx, "", note.Title())
	if err != nil {
		return r.res, err
	}

	note.Metadata = frontmatter.ApplyUpdates(note.Metadata, core.Metadata{core.KeyPromptURL: url})
	if note.Content, err = frontmatter.Compose(note.Metadata, note.Body); err != nil {
		return r.res, fmt.Errorf("record url on %s: %w", note.Path, err)
	}
	r.notify(ctx, slog.LevelInfo, "url.recorded", args{"url": url, "path": note.Path})

	if err := r.applyTemplate(ctx, note, tpl, url); err != nil {
		return r.res, err
	}
	return r.res, nil
}

// applyTemplate runs the pipeline for an already chosen template.
func (r *run) applyTemplate(ctx context.Context, note core.Note, tpl core.Template, callerURL string) error {
	cfg := tpl.Config
	r.res.Template = tpl.Name
	r.log = r.log.With("template", tpl.Name)
	r.notify(ctx, slog.LevelInfo, "apply.applying", args{"template": tpl.Name})

	merged, err := frontmatter.MergeNotes(tpl.Content, note.Content, false)
	if err != nil {
		return fmt.Errorf("failed to merge template %s: %w", tpl.Name, err)
	}
	meta, body := frontmatter.Read(merged)

	if strings.TrimSpace(cfg.Prompt) != "" {
		url := firstNonEmpty(cfg.PromptURL, stringValue(meta[core.KeyPromptURL]), callerURL)
		fetched := r.fetchContext(ctx, url)

		if r.generator == nil {
			r.notify(ctx, slog.LevelError, "apply.generationFailed", nil)
			return fmt.Errorf("no generator configured: %w", core.ErrGenerationUnavailable)
		}
		prompt, err := r.applyPrompt(note.Title(), meta, body, url, fetched, cfg.Prompt)
		if err != nil {
			return err
		}
		enrichment, err := r.generator.Generate(ctx, prompt)
		if err != nil || enrichment == nil {
			r.notify(ctx, slog.LevelError, "apply.generationFailed", nil)
			if err != nil {
				return fmt.Errorf("generation failed: %w: %w", core.ErrGenerationUnavailable, err)
			}
			return core.ErrGenerationUnavailable
		}

		suggested := frontmatter.Normalize(enrichment.Metadata, r.registry)
		meta = frontmatter.MergeSuggestions(meta, suggested)
		if enrichment.Body != nil {
			body = strings.TrimSpace(*enrichment.Body)
		}
	} else {
		r.log.Debug("template has no prompt, persisting merged note")
	}

	meta = r.backfillImages(ctx, meta, cfg, note.Title())
	meta = frontmatter.StripControl(meta, r.registry)
	if err := r.finish(ctx, note, meta, body, cfg, finishOptions{}); err != nil {
		return err
	}
	r.notify(ctx, slog.LevelInfo, "apply.applied", args{"template": tpl.Name, "path": r.res.Path})
	return nil
}

// fetchContext returns the text behind url, or an empty string with a
// warning when the fetch fails.
func (r *run) fetchContext(ctx context.Context, url string) string {
	if url == "" {
		return ""
	}
	if r.fetcher == nil {
		err := fmt.Errorf("fetch %s: no fetcher configured: %w", url, core.ErrDegradedFetch)
		r.warn(ctx, err, "apply.fetchError", args{"url": url, "error": err})
		return ""
	}
	text, err := r.fetcher.GetText(ctx, url)
	if err != nil {
		if !errors.Is(err, core.ErrDegradedFetch) {
			err = fmt.Errorf("fetch %s: %w: %w", url, core.ErrDegradedFetch, err)
		}
		r.warn(ctx, err, "apply.fetchError", args{"url": url, "error": err})
		return ""
	}
	r.log.Debug("context fetched", "url", url, "bytes", len(text))
	return text
}

// applyPrompt embeds the title, the metadata without excluded keys, the
// body, the fetched context and the template prompt.
func (r *run) applyPrompt(title string, meta core.Metadata, body, url, fetched, instructions string) (string, error) {
	visible := frontmatter.StripExcluded(frontmatter.StripControl(meta, r.registry), r.registry)
	raw, err := json.MarshalIndent(visible, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata for prompt: %w", err)
	}
	if fetched == "" {
		fetched = r.catalog.T("apply.noContext", nil)
	}
	return r.catalog.T("apply.prompt", args{
		"title":       title,
		"frontmatter": string(raw),
		"body":        body,
		"url":         url,
		"context":     fetched,
		"prompt":      strings.TrimSpace(instructions),
	}), nil
}

// backfillImages fills an images field that is present but empty. Search
// failures leave the field untouched.
func (r *run) backfillImages(ctx context.Context, meta core.Metadata, cfg core.TemplateConfig, title string) core.Metadata {
	list, ok := frontmatter.ListValue(meta[core.KeyImages])
	if !ok || len(list) > 0 {
		return meta
	}
	query, count := title, r.imageCount
	if cfg.Images != nil {
		query = firstNonEmpty(cfg.Images.Query, title)
		if cfg.Images.Count > 0 {
			count = cfg.Images.Count
		}
	}
	urls := r.images.Search(ctx, query, count)
	if len(urls) == 0 {
		if r.images.searcher != nil {
			r.res.Warnings = append(r.res.Warnings, fmt.Errorf("images for %q: %w", query, core.ErrDegradedFetch))
		}
		return meta
	}
	found := make([]any, len(urls))
	for i, u := range urls {
		found[i] = u
	}
	return frontmatter.ApplyUpdates(meta, core.Metadata{core.KeyImages: found})
}
