package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned when no vault marker is found up to the filesystem root.
var ErrRootNotFound = errors.New("vault root not found")

// rootMarkers identify a vault directory.
var rootMarkers = []string{".obsidian", ".elo", ".git"}

// FindRoot looks upwards from startDir for a directory holding one of the
// vault markers and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		for _, m := range rootMarkers {
			if hasFile(dir, m) {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
