package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultNotePattern selects every note.
const DefaultNotePattern = "**/*.md"

// DefaultDebounce is how long a path must stay quiet before it is emitted.
const DefaultDebounce = 300 * time.Millisecond

// Watch emits the vault-relative path of every note created, or moved
// into, dir (relative to the vault) whose path matches pattern. Paths are
// emitted once writes to them settle. The channel closes when ctx ends.
func (r *Repository) Watch(ctx context.Context, dir, pattern string) (<-chan string, error) {
	if pattern == "" {
		pattern = DefaultNotePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}
	root := filepath.Join(r.Path, filepath.FromSlash(dir))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create watched folder: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.addRecursive(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan string)
	w := &watchLoop{
		repo:      r,
		watcher:   watcher,
		pattern:   pattern,
		out:       out,
		debouncer: newDebouncer(DefaultDebounce),
	}
	r.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.logger.Error("watcher stopped", "error", err)
	}))
	return out, nil
}

type watchLoop struct {
	repo      *Repository
	watcher   *fsnotify.Watcher
	pattern   string
	out       chan string
	debouncer *debouncer
}

func (w *watchLoop) run(ctx context.Context) error {
	defer close(w.out)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()
	defer w.debouncer.stopAndWait(5 * time.Second)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *watchLoop) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) || strings.HasPrefix(name, ".") {
		return
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.repo.addRecursive(w.watcher, event.Name); err != nil {
				w.repo.logger.Warn("failed to watch new folder", "path", event.Name, "error", err)
			}
		}
		return
	}

	rel, err := filepath.Rel(w.repo.Path, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if ok, _ := doublestar.Match(w.pattern, rel); !ok {
		return
	}
	// Writes only extend the quiet period of notes that were just created.
	if !event.Has(fsnotify.Create) && !w.debouncer.pending(rel) {
		return
	}
	w.repo.logger.Debug("note event", "path", rel, "op", event.Op.String())

	w.debouncer.add(rel, func() {
		// The loop may have closed out while this callback was pending.
		defer func() { _ = recover() }()
		select {
		case w.out <- rel:
		case <-ctx.Done():
		}
	})
}

// addRecursive watches root and every folder below it, skipping hidden
// folders and the system directory.
func (r *Repository) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && (d.Name() == r.config.SystemDir || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// debouncer runs the latest callback for a key once the key has been
// quiet for the configured delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

func (d *debouncer) pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[key]
	return ok
}

// stopAndWait cancels pending callbacks and waits for running ones.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
