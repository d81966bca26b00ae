package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	IndexSize     int        `json:"index_size"`
	WatcherActive bool       `json:"watcher_active"`
	LastIndexed   *time.Time `json:"last_indexed,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepositoryState{
		Path:          r.Path,
		SystemDir:     r.config.SystemDir,
		IndexSize:     r.cache.size(),
		WatcherActive: r.watcherActive,
		LastIndexed:   r.lastIndexed,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

// TemplateSourceState exposes the template cache.
type TemplateSourceState struct {
	Dir    string `json:"dir"`
	Cached int    `json:"cached"`
	Loads  int    `json:"loads"`
}

// State implements introspection.Introspectable.
func (s *TemplateSource) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TemplateSourceState{Dir: s.config.Dir, Cached: len(s.cached), Loads: s.loads}
}

// ComponentType implements introspection.Component.
func (s *TemplateSource) ComponentType() string {
	return "fs-templates"
}

var (
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
	_ introspection.Introspectable = (*TemplateSource)(nil)
	_ introspection.Component      = (*TemplateSource)(nil)
)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *Repository) recordIndexed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastIndexed = &now
}
