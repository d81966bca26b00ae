// Package memory provides in-memory adapters, useful for tests and for
// embedding the engine without a filesystem.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

// Repository is an in-memory core.NoteRepository keyed by clean path.
type Repository struct {
	mu    sync.RWMutex
	notes map[string]string
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{notes: make(map[string]string)}
}

// Put stores raw content at path, bypassing validation errors.
func (r *Repository) Put(path, content string) {
	p, err := core.CleanPath(path)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[p] = content
}

// Content returns the raw content stored at path.
func (r *Repository) Content(path string) (string, bool) {
	p, err := core.CleanPath(path)
	if err != nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.notes[p]
	return c, ok
}

// Paths returns every stored path in order.
func (r *Repository) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pathsLocked()
}

func (r *Repository) pathsLocked() []string {
	out := make([]string, 0, len(r.notes))
	for p := range r.notes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (r *Repository) Get(ctx context.Context, path string) (core.Note, error) {
	p, err := core.CleanPath(path)
	if err != nil {
		return core.Note{}, err
	}
	r.mu.RLock()
	content, ok := r.notes[p]
	r.mu.RUnlock()
	if !ok {
		return core.Note{}, fmt.Errorf("note %s: %w", p, core.ErrNotFound)
	}
	meta, body := frontmatter.Read(content)
	return core.Note{Path: p, Content: content, Metadata: meta, Body: body}, nil
}

func (r *Repository) Save(ctx context.Context, n core.Note) error {
	p, err := core.CleanPath(n.Path)
	if err != nil {
		return err
	}
	content := n.Content
	if content == "" && (len(n.Metadata) > 0 || n.Body != "") {
		if content, err = frontmatter.Compose(n.Metadata, n.Body); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[p] = content
	return nil
}

func (r *Repository) Create(ctx context.Context, path, content string) error {
	p, err := core.CleanPath(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[p] = content
	return nil
}

func (r *Repository) Rename(ctx context.Context, oldPath, newPath string) error {
	from, err := core.CleanPath(oldPath)
	if err != nil {
		return err
	}
	to, err := core.CleanPath(newPath)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.notes[from]
	if !ok {
		return fmt.Errorf("note %s: %w", from, core.ErrNotFound)
	}
	if from == to {
		return nil
	}
	if _, taken := r.notes[to]; taken {
		return fmt.Errorf("note %s: %w", to, core.ErrAlreadyExists)
	}
	delete(r.notes, from)
	r.notes[to] = content
	return nil
}

func (r *Repository) Delete(ctx context.Context, path string) error {
	p, err := core.CleanPath(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[p]; !ok {
		return fmt.Errorf("note %s: %w", p, core.ErrNotFound)
	}
	delete(r.notes, p)
	return nil
}

func (r *Repository) Exists(ctx context.Context, path string) (bool, error) {
	p, err := core.CleanPath(path)
	if err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.notes[p]
	return ok, nil
}

func (r *Repository) Resolve(ctx context.Context, link, from string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return core.ResolveLink(link, from, r.pathsLocked())
}

func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	var out []core.Note
	for _, p := range r.Paths() {
		n, err := r.Get(ctx, p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

var _ core.NoteRepository = (*Repository)(nil)
