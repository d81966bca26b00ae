package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const indexVersion = 1

// indexEntry is the cached metadata of one note.
type indexEntry struct {
	Path         string         `json:"path"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	LastModified time.Time      `json:"lastModified"`
}

type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"`
}

// cache is the mtime-keyed metadata index persisted at
// {vault}/{systemDir}/index.json.
type cache struct {
	path  string
	mu    sync.RWMutex
	idx   index
	dirty bool
}

func newCache(vaultPath, systemDir string) *cache {
	return &cache{
		path: filepath.Join(vaultPath, systemDir, "index.json"),
		idx:  index{Version: indexVersion, Entries: make(map[string]*indexEntry)},
	}
}

// load reads the index. A missing, corrupted or outdated file starts an empty index.
func (c *cache) load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil || idx.Version != indexVersion || idx.Entries == nil {
		c.idx = index{Version: indexVersion, Entries: make(map[string]*indexEntry)}
		return nil
	}
	c.idx = idx
	c.dirty = false
	return nil
}

// save persists the index when it changed.
func (c *cache) save() error {
	c.mu.RLock()
	if !c.dirty {
		c.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.idx, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	if err := writeAtomic(c.path, data, 0o644); err != nil {
		return err
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// get returns the entry for relPath when it was recorded at mtime.
func (c *cache) get(relPath string, mtime time.Time) (*indexEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.idx.Entries[relPath]
	if !ok || !e.LastModified.Equal(mtime) {
		return nil, false
	}
	return e, true
}

func (c *cache) set(e *indexEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idx.Entries[e.Path] = e
	c.dirty = true
}

// prune drops every entry not in keep.
func (c *cache) prune(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.idx.Entries {
		if !keep[p] {
			delete(c.idx.Entries, p)
			c.dirty = true
		}
	}
}

func (c *cache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.idx.Entries)
}
