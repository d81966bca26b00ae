package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/template"
)

// Templates is an in-memory core.TemplateSource.
type Templates struct {
	mu     sync.RWMutex
	byPath map[string]core.Template
}

// NewTemplates returns an empty template source.
func NewTemplates() *Templates {
	return &Templates{byPath: make(map[string]core.Template)}
}

// Add extracts content and registers it under path. It returns the
// extraction diagnostics.
func (t *Templates) Add(path, content string) []error {
	ex := template.Extract(content)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byPath[path] = core.Template{
		Path:    path,
		Name:    core.TitleFromPath(path),
		Content: ex.Cleaned,
		Config:  ex.Config,
	}
	return ex.Diagnostics
}

func (t *Templates) List(ctx context.Context) ([]core.TemplateMatch, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.TemplateMatch, 0, len(t.byPath))
	for _, tpl := range t.byPath {
		out = append(out, core.TemplateMatch{Template: tpl})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Template.Name < out[j].Template.Name })
	return out, nil
}

var _ core.TemplateSource = (*Templates)(nil)
