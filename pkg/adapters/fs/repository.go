// Package fs stores notes and templates in a vault directory on disk.
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
	"strings"
	"sync"
	"time"

	adrg "github.com/adrg/frontmatter"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

// DefaultSystemDir holds the index and settings inside the vault.
const DefaultSystemDir = ".elo"

// Config holds the configuration for the vault repository.
type Config struct {
	// Path is the vault root.
	Path string
	// SystemDir is relative to Path. Defaults to DefaultSystemDir.
	SystemDir string
	// MustExist makes Initialize fail when Path is missing instead of creating it.
	MustExist bool
	Logger    *slog.Logger
}

// Repository implements core.NoteRepository over a vault directory.
// Paths are vault-relative, slash separated and end in .md.
type Repository struct {
	Path   string
	config Config
	cache  *cache
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
	lastIndexed   *time.Time
}

// NewRepository creates a vault repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
		logger: logger,
	}
}

// Initialize checks or creates the vault directory.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat vault: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
		return nil
	}
	if err := os.MkdirAll(r.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return nil
}

// resolve maps a vault-relative note path to its clean form and its location on disk.
func (r *Repository) resolve(p string) (string, string, error) {
	clean, err := core.CleanPath(p)
	if err != nil {
		return "", "", err
	}
	first, _, _ := strings.Cut(clean, "/")
	if first == r.config.SystemDir {
		return "", "", fmt.Errorf("%s is inside the system directory: %w", p, core.ErrInvalidPath)
	}
	return clean, filepath.Join(r.Path, filepath.FromSlash(clean)), nil
}

// Get reads a note.
func (r *Repository) Get(ctx context.Context, p string) (core.Note, error) {
	clean, full, err := r.resolve(p)
	if err != nil {
		return core.Note{}, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.Note{}, fmt.Errorf("note %s: %w", clean, core.ErrNotFound)
		}
		return core.Note{}, fmt.Errorf("failed to read %s: %w", clean, err)
	}
	content := string(data)
	meta, body := frontmatter.Read(content)
	return core.Note{Path: clean, Content: content, Metadata: meta, Body: body}, nil
}

// Save writes a note. When Content is empty it is composed from Metadata and Body.
func (r *Repository) Save(ctx context.Context, n core.Note) error {
	clean, full, err := r.resolve(n.Path)
	if err != nil {
		return err
	}
	content := n.Content
	if content == "" && (len(n.Metadata) > 0 || n.Body != "") {
		if content, err = frontmatter.Compose(n.Metadata, n.Body); err != nil {
			return err
		}
	}
	if err := writeNote(full, content); err != nil {
		return fmt.Errorf("failed to save %s: %w", clean, err)
	}
	r.logger.Debug("note saved", "path", clean, "bytes", len(content))
	return nil
}

// Create writes a new note, replacing any existing file at p.
func (r *Repository) Create(ctx context.Context, p, content string) error {
	clean, full, err := r.resolve(p)
	if err != nil {
		return err
	}
	if err := writeNote(full, content); err != nil {
		return fmt.Errorf("failed to create %s: %w", clean, err)
	}
	r.logger.Debug("note created", "path", clean)
	return nil
}

// Rename moves a note, creating the destination folders. An occupied
// destination is refused.
func (r *Repository) Rename(ctx context.Context, oldPath, newPath string) error {
	from, fromFull, err := r.resolve(oldPath)
	if err != nil {
		return err
	}
	to, toFull, err := r.resolve(newPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fromFull); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("note %s: %w", from, core.ErrNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", from, err)
	}
	if from == to {
		return nil
	}
	if _, err := os.Stat(toFull); err == nil {
		return fmt.Errorf("note %s: %w", to, core.ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(toFull), 0o755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.Rename(fromFull, toFull); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", from, to, err)
	}
	r.logger.Debug("note moved", "from", from, "to", to)
	return nil
}

// Delete removes a note.
func (r *Repository) Delete(ctx context.Context, p string) error {
	clean, full, err := r.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("note %s: %w", clean, core.ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", clean, err)
	}
	return nil
}

// Exists reports whether a note is stored at p.
func (r *Repository) Exists(ctx context.Context, p string) (bool, error) {
	_, full, err := r.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Resolve finds the note a link points to.
func (r *Repository) Resolve(ctx context.Context, link, from string) (string, bool) {
	paths, err := r.paths()
	if err != nil {
		r.logger.Warn("failed to scan vault", "error", err)
		return "", false
	}
	return core.ResolveLink(link, from, paths)
}

// List returns every note with its metadata. Metadata comes from the
// index when the file has not changed since it was recorded; Content and
// Body are left empty.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	if err := r.cache.load(); err != nil {
		r.logger.Warn("index unavailable, rebuilding", "error", err)
	}

	var notes []core.Note
	seen := make(map[string]bool)
	err := r.walk(func(rel, full string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()
		seen[rel] = true

		if e, hit := r.cache.get(rel, mtime); hit {
			notes = append(notes, core.Note{Path: rel, Metadata: frontmatter.Clean(e.Metadata)})
			return nil
		}

		meta, err := readMetadata(full)
		if err != nil {
			r.logger.Debug("skipping unreadable note", "path", rel, "error", err)
			return nil
		}
		r.cache.set(&indexEntry{Path: rel, Metadata: meta, LastModified: mtime})
		notes = append(notes, core.Note{Path: rel, Metadata: meta})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	r.cache.prune(seen)
	if err := r.cache.save(); err != nil {
		r.logger.Warn("failed to save index", "error", err)
	}
	r.recordIndexed()
	return notes, nil
}

// readMetadata extracts the front matter of a note. YAML, TOML and JSON
// front matter are understood; a note without front matter has empty metadata.
func readMetadata(full string) (core.Metadata, error) {
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var meta map[string]any
	if _, err := adrg.Parse(f, &meta); err != nil {
		data, rerr := os.ReadFile(full)
		if rerr != nil {
			return nil, rerr
		}
		m, _ := frontmatter.Read(string(data))
		return m, nil
	}
	if meta == nil {
		return core.Metadata{}, nil
	}
	return frontmatter.Clean(meta), nil
}

// paths lists every note path in the vault.
func (r *Repository) paths() ([]string, error) {
	var out []string
	err := r.walk(func(rel, _ string, _ fs.DirEntry) error {
		out = append(out, rel)
		return nil
	})
	return out, err
}

// walk visits every note, skipping hidden folders and the system directory.
func (r *Repository) walk(fn func(rel, full string, d fs.DirEntry) error) error {
	return filepath.WalkDir(r.Path, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			if full == r.Path && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if full != r.Path && (name == r.config.SystemDir || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, TempFilePrefix) || !strings.EqualFold(path.Ext(name), core.NoteExt) {
			return nil
		}
		rel, err := filepath.Rel(r.Path, full)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), full, d)
	})
}

var _ core.NoteRepository = (*Repository)(nil)
