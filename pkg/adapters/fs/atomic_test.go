package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	t.Run("Overwrites Existing File", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "note.md")
		if err := os.WriteFile(filename, []byte("initial"), 0o644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if err := writeAtomic(filename, []byte("overwritten"), 0o644); err != nil {
			t.Fatalf("writeAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(got) != "overwritten" {
			t.Errorf("expected 'overwritten', got %q", got)
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		if err := writeAtomic(filepath.Join(dir, "a.md"), []byte("a"), 0o644); err != nil {
			t.Fatalf("writeAtomic failed: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), TempFilePrefix) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		err := writeAtomic(filepath.Join(t.TempDir(), "missing", "a.md"), []byte("x"), 0o644)
		if err == nil {
			t.Error("expected error when directory is missing")
		}
	})

	t.Run("writeNote Creates Parents", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "People", "Scientists", "Ada.md")
		if err := writeNote(filename, "body"); err != nil {
			t.Fatalf("writeNote failed: %v", err)
		}
		if _, err := os.Stat(filename); err != nil {
			t.Errorf("expected file: %v", err)
		}
	})
}
