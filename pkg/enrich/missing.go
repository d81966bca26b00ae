package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

// GenerateOptions tunes bulk note generation.
type GenerateOptions struct {
	// Field names the list field to read links from. When empty the user
	// is asked, unless the note has a single list field.
	Field string
	// Template preselects the template applied to every created note.
	Template string
}

// GenerateMissingNotes creates a note for every link in a list field of
// notePath that does not resolve in the vault, and applies one template to
// each of them in turn. Failures on individual notes become warnings.
func (s *Service) GenerateMissingNotes(ctx context.Context, notePath string, opts GenerateOptions) (*Result, error) {
	r := s.begin("generate-missing", notePath)
	note, err := r.load(ctx, notePath)
	if err != nil {
		return r.res, err
	}

	field, err := r.chooseListField(ctx, note.Metadata, opts.Field)
	if err != nil {
		return r.res, err
	}
	links := linkTargets(note.Metadata[field])
	if len(links) == 0 {
		r.notify(ctx, slog.LevelInfo, "missing.noLinks", args{"field": field})
		return r.res, nil
	}

	var missing []string
	for _, link := range links {
		if _, ok := r.notes.Resolve(ctx, link, note.Path); !ok {
			missing = append(missing, link)
		}
	}
	if len(missing) == 0 {
		r.notify(ctx, slog.LevelInfo, "missing.allExist", args{"field": field})
		return r.res, nil
	}
	r.notify(ctx, slog.LevelInfo, "missing.found", args{"count": len(missing), "field": field})

	tpl, err := r.chooseTemplate(ctx, opts.Template, note.Title())
	if err != nil {
		return r.res, err
	}
	r.res.Template = tpl.Name

	failed := 0
	for _, name := range missing {
		target, err := r.createMissing(ctx, note.Path, name)
		if err != nil {
			failed++
			r.warn(ctx, err, "missing.failed", args{"path": name, "error": err})
			continue
		}
		if target == "" {
			continue
		}
		r.res.Created = append(r.res.Created, target)

		sub := s.begin("apply", target)
		created, err := sub.load(ctx, target)
		if err == nil {
			err = sub.applyTemplate(ctx, created, tpl, "")
		}
		r.res.Warnings = append(r.res.Warnings, sub.res.Warnings...)
		if err != nil {
			failed++
			r.warn(ctx, err, "missing.failed", args{"path": target, "error": err})
		}
	}

	r.notify(ctx, slog.LevelInfo, "missing.finished", args{"created": len(r.res.Created), "failed": failed})
	return r.res, nil
}

// chooseListField picks the field holding the links.
func (r *run) chooseListField(ctx context.Context, meta core.Metadata, preferred string) (string, error) {
	var fields []string
	for k, v := range meta {
		if _, ok := frontmatter.ListValue(v); ok && !r.registry.IsControl(k) {
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)
	if len(fields) == 0 {
		r.notify(ctx, slog.LevelWarn, "missing.noListFields", nil)
		return "", fmt.Errorf("no list fields: %w", core.ErrNotFound)
	}

	if preferred != "" {
		for _, f := range fields {
			if f == preferred {
				return f, nil
			}
		}
		for _, f := range fields {
			if canonical, ok := r.registry.Canonical(f); ok && canonical == preferred {
				return f, nil
			}
		}
		r.notify(ctx, slog.LevelWarn, "missing.noListFields", nil)
		return "", fmt.Errorf("list field %q: %w", preferred, core.ErrNotFound)
	}
	if len(fields) == 1 {
		return fields[0], nil
	}

	field, ok, err := core.Choose(ctx, r.selector, r.catalog.T("missing.selectField", nil), fields,
		func(f string) string { return f })
	if err != nil {
		return "", fmt.Errorf("failed to select field: %w", err)
	}
	if !ok {
		return "", core.ErrSelectionCancelled
	}
	return field, nil
}

// createMissing creates an empty note for name next to the source note.
// It returns an empty path when the note already exists.
func (r *run) createMissing(ctx context.Context, from, name string) (string, error) {
	target, err := core.CleanPath(path.Join(path.Dir(from), name))
	if err != nil {
		return "", fmt.Errorf("note %q: %w", name, err)
	}
	exists, err := r.notes.Exists(ctx, target)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w: %w", target, core.ErrPersistence, err)
	}
	if exists {
		r.notify(ctx, slog.LevelInfo, "missing.skipped", args{"path": target})
		return "", nil
	}
	if err := r.notes.Create(ctx, target, ""); err != nil {
		if errors.Is(err, core.ErrPersistence) {
			return "", err
		}
		return "", fmt.Errorf("failed to create %s: %w: %w", target, core.ErrPersistence, err)
	}
	r.notify(ctx, slog.LevelInfo, "missing.created", args{"path": target})
	return target, nil
}

// linkTargets returns the unique link targets of the string elements of v.
func linkTargets(v any) []string {
	list, ok := frontmatter.ListValue(v)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(list))
	var out []string
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			continue
		}
		target := frontmatter.LinkTarget(s)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
