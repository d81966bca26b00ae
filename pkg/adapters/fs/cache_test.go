package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_Load(t *testing.T) {
	t.Run("Starts Empty if File Missing", func(t *testing.T) {
		c := newCache(t.TempDir(), ".elo")
		if err := c.load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if c.size() != 0 {
			t.Errorf("expected empty index, got %d entries", c.size())
		}
	})

	t.Run("Loads Valid JSON", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, ".elo"), 0o755); err != nil {
			t.Fatal(err)
		}
		content := `{"version": 1, "entries": {"People/Ada.md": {"path": "People/Ada.md", "metadata": {"title": "Ada"}}}}`
		if err := os.WriteFile(filepath.Join(dir, ".elo", "index.json"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		c := newCache(dir, ".elo")
		if err := c.load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		e, ok := c.get("People/Ada.md", time.Time{})
		if !ok {
			t.Fatal("expected entry People/Ada.md")
		}
		if e.Metadata["title"] != "Ada" {
			t.Errorf("expected title 'Ada', got %v", e.Metadata["title"])
		}
	})

	t.Run("Resets on Corrupted or Outdated Index", func(t *testing.T) {
		for _, content := range []string{"{ invalid json", `{"version": 99, "entries": {"a.md": {}}}`} {
			dir := t.TempDir()
			os.MkdirAll(filepath.Join(dir, ".elo"), 0o755)
			os.WriteFile(filepath.Join(dir, ".elo", "index.json"), []byte(content), 0o644)

			c := newCache(dir, ".elo")
			if err := c.load(); err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if c.size() != 0 {
				t.Errorf("expected empty index for %q, got %d entries", content, c.size())
			}
		}
	})
}

func TestCache_SaveAndStaleness(t *testing.T) {
	dir := t.TempDir()
	c := newCache(dir, ".elo")

	if err := c.save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(c.path); !os.IsNotExist(err) {
		t.Error("a clean index should not be written")
	}

	mtime := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.set(&indexEntry{Path: "a.md", Metadata: map[string]any{"k": "v"}, LastModified: mtime})
	c.set(&indexEntry{Path: "b.md", LastModified: mtime})
	c.prune(map[string]bool{"a.md": true})
	if err := c.save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := newCache(dir, ".elo")
	if err := reloaded.load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if reloaded.size() != 1 {
		t.Fatalf("expected 1 entry after prune, got %d", reloaded.size())
	}
	if _, ok := reloaded.get("a.md", mtime); !ok {
		t.Error("expected a fresh hit for a.md")
	}
	if _, ok := reloaded.get("a.md", mtime.Add(time.Second)); ok {
		t.Error("expected a miss once the file changed")
	}
}
