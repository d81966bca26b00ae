package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

type notifyFunc func(ctx context.Context, level slog.Level, key string, a args)

// ImageEnricher wraps an ImageSearcher with deduplication and status
// messages. A failed search yields no results.
type ImageEnricher struct {
	searcher core.ImageSearcher
	notify   notifyFunc
	logger   *slog.Logger
}

// NewImageEnricher builds an ImageEnricher. A nil searcher finds nothing.
func NewImageEnricher(searcher core.ImageSearcher, notify notifyFunc, logger *slog.Logger) *ImageEnricher {
	if notify == nil {
		notify = func(context.Context, slog.Level, string, args) {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageEnricher{searcher: searcher, notify: notify, logger: logger}
}

// Search returns up to max unique image URLs for query.
func (e *ImageEnricher) Search(ctx context.Context, query string, max int) []string {
	if e.searcher == nil {
		e.logger.Debug("image search skipped, no searcher configured", "query", query)
		return nil
	}
	e.notify(ctx, slog.LevelInfo, "images.searching", args{"query": query})

	found, err := e.searcher.Search(ctx, query, max)
	if err != nil {
		e.logger.Warn("image search failed", "query", query, "error", err)
		e.notify(ctx, slog.LevelWarn, "images.searchError", args{"error": err})
		return nil
	}

	seen := make(map[string]struct{}, len(found))
	unique := make([]string, 0, len(found))
	for _, u := range found {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	if len(unique) == 0 {
		e.notify(ctx, slog.LevelWarn, "images.notFound", args{"query": query})
		return nil
	}
	e.notify(ctx, slog.LevelInfo, "images.foundCount", args{"count": len(unique)})
	return unique
}

// AddImages fills the note's images field from an image search on its
// title. Notes that already list images are left alone.
func (s *Service) AddImages(ctx context.Context, notePath string) (*Result, error) {
	r := s.begin("add-images", notePath)
	note, err := r.load(ctx, notePath)
	if err != nil {
		return r.res, err
	}
	if list, ok := frontmatter.ListValue(note.Metadata[core.KeyImages]); ok && len(list) > 0 {
		r.notify(ctx, slog.LevelInfo, "images.noteHasImages", nil)
		return r.res, nil
	}

	urls := r.images.Search(ctx, note.Title(), r.imageCount)
	if len(urls) == 0 {
		r.res.Warnings = append(r.res.Warnings, fmt.Errorf("images for %q: %w", note.Title(), core.ErrDegradedFetch))
		return r.res, nil
	}
	found := make([]any, len(urls))
	for i, u := range urls {
		found[i] = u
	}
	meta := frontmatter.ApplyUpdates(note.Metadata, core.Metadata{core.KeyImages: found})
	if err := r.persist(ctx, note, meta, note.Body); err != nil {
		return r.res, err
	}
	r.notify(ctx, slog.LevelInfo, "images.added", args{"count": len(urls), "path": note.Path})
	return r.res, nil
}
