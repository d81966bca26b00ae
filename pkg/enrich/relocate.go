package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

// RelocateByLinkField moves a note into the folder of the note linked by
// its first relocation field that has a value. Folder notes, whose parent
// folder carries their own name, stay where they are.
func (s *Service) RelocateByLinkField(ctx context.Context, notePath string) (*Result, error) {
	r := s.begin("relocate", notePath)
	note, err := r.load(ctx, notePath)
	if err != nil {
		return r.res, err
	}

	field, link := r.relocationLink(note.Metadata)
	if link == "" {
		r.notify(ctx, slog.LevelWarn, "relocate.noField", nil)
		return r.res, fmt.Errorf("no relocation field with a value: %w", core.ErrNotFound)
	}
	r.log.Debug("relocation field", "field", field, "link", link)

	target := frontmatter.LinkTarget(link)
	resolved, ok := r.notes.Resolve(ctx, target, note.Path)
	if !ok {
		r.notify(ctx, slog.LevelWarn, "relocate.unresolved", args{"link": target})
		return r.res, fmt.Errorf("link %q: %w", target, core.ErrNotFound)
	}

	current := dirOf(note.Path)
	if path.Base(current) == note.Title() {
		r.notify(ctx, slog.LevelInfo, "relocate.folderNote", nil)
		return r.res, nil
	}
	folder := dirOf(resolved)
	if folder == current {
		r.notify(ctx, slog.LevelInfo, "relocate.alreadyInFolder", args{"folder": folder})
		return r.res, nil
	}

	dest := path.Join(folder, path.Base(note.Path))
	if err := r.relocate(ctx, note.Path, dest, true); err != nil {
		r.notify(ctx, slog.LevelError, "relocate.moveError", args{"error": err})
		return r.res, err
	}
	return r.res, nil
}

// relocationLink returns the first relocation field with a value and the
// link it holds. For lists the first string element is used.
func (r *run) relocationLink(meta core.Metadata) (string, string) {
	for _, field := range r.registry.RelocationFields() {
		v, ok := lookupFolded(meta, r.registry, field)
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			if frontmatter.HasMeaningfulValue(val) {
				return field, val
			}
		default:
			list, ok := frontmatter.ListValue(val)
			if !ok || len(list) == 0 {
				continue
			}
			if s, ok := list[0].(string); ok && frontmatter.HasMeaningfulValue(s) {
				return field, s
			}
		}
	}
	return "", ""
}

// lookupFolded finds field in meta by its exact spelling or any spelling
// that folds to it.
func lookupFolded(meta core.Metadata, reg *core.Registry, field string) (any, bool) {
	if v, ok := meta[field]; ok {
		return v, true
	}
	for k, v := range meta {
		if canonical, ok := reg.Canonical(k); ok && canonical == field {
			return v, true
		}
	}
	return nil, false
}

// dirOf is path.Dir with the vault root reported as "".
func dirOf(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}
