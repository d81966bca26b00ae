package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/template"
)

// TemplateSourceConfig configures a TemplateSource.
type TemplateSourceConfig struct {
	// Vault is the vault root; template paths are reported relative to it.
	Vault string
	// Dir is the templates folder relative to Vault.
	Dir string
	// Pattern filters files inside Dir. Defaults to DefaultNotePattern.
	Pattern  string
	Registry *core.Registry
	Logger   *slog.Logger
}

type cachedTemplate struct {
	mtime time.Time
	tpl   core.Template
}

// TemplateSource lists the templates of a vault folder. Extracted
// templates are cached until their file changes.
type TemplateSource struct {
	config TemplateSourceConfig
	logger *slog.Logger

	mu     sync.Mutex
	cached map[string]cachedTemplate
	loads  int
}

// NewTemplateSource creates a TemplateSource.
func NewTemplateSource(config TemplateSourceConfig) *TemplateSource {
	if config.Pattern == "" {
		config.Pattern = DefaultNotePattern
	}
	if config.Registry == nil {
		config.Registry = core.DefaultRegistry()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateSource{config: config, logger: logger, cached: make(map[string]cachedTemplate)}
}

// List returns every template sorted by name. A missing templates folder
// yields no templates.
func (s *TemplateSource) List(ctx context.Context) ([]core.TemplateMatch, error) {
	root := filepath.Join(s.config.Vault, filepath.FromSlash(s.config.Dir))
	files, err := doublestar.Glob(os.DirFS(root), s.config.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list templates in %s: %w", root, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(files))
	out := make([]core.TemplateMatch, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tpl, err := s.load(root, rel)
		if err != nil {
			s.logger.Warn("skipping template", "path", rel, "error", err)
			continue
		}
		seen[tpl.Path] = true
		out = append(out, core.TemplateMatch{Template: tpl})
	}
	for p := range s.cached {
		if !seen[p] {
			delete(s.cached, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Template.Name != out[j].Template.Name {
			return out[i].Template.Name < out[j].Template.Name
		}
		return out[i].Template.Path < out[j].Template.Path
	})
	return out, nil
}

func (s *TemplateSource) load(root, rel string) (core.Template, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return core.Template{}, err
	}
	vaultPath := path.Join(filepath.ToSlash(s.config.Dir), rel)
	if c, ok := s.cached[vaultPath]; ok && c.mtime.Equal(info.ModTime()) {
		return c.tpl, nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return core.Template{}, err
	}
	ex := template.ExtractWithRegistry(string(data), s.config.Registry)
	for _, d := range ex.Diagnostics {
		s.logger.Warn("template configuration ignored", "path", vaultPath, "error", d)
	}
	tpl := core.Template{
		Path:    vaultPath,
		Name:    core.TitleFromPath(rel),
		Content: ex.Cleaned,
		Config:  ex.Config,
	}
	s.cached[vaultPath] = cachedTemplate{mtime: info.ModTime(), tpl: tpl}
	s.loads++
	return tpl, nil
}

var _ core.TemplateSource = (*TemplateSource)(nil)
