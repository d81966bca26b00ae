package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveVaultPath(t *testing.T) {
	t.Parallel()

	tempRoot := os.TempDir()
	devBase := filepath.Join(tempRoot, "elo-dev")

	tests := []struct {
		name      string
		userPath  string
		forceTemp bool
		expected  string
	}{
		{"Normal Mode - Empty", "", false, "."},
		{"Normal Mode - Specific Path", "/some/path", false, "/some/path"},
		{"Dev Mode - Empty Path", "", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Current Dir", ".", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Relative Name", "my-vault", true, filepath.Join(devBase, "my-vault")},
		{"Dev Mode - Clean Name", "../bad/path", true, filepath.Join(devBase, "path")},
		{"Dev Mode - Temp Dir Passes Through", filepath.Join(tempRoot, "my-test"), true, filepath.Join(tempRoot, "my-test")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVaultPath(tt.userPath, tt.forceTemp)
			if got != tt.expected {
				t.Errorf("ResolveVaultPath(%q, %v) = %q; want %q", tt.userPath, tt.forceTemp, got, tt.expected)
			}
		})
	}
}

func TestIsDevRun(t *testing.T) {
	if !IsDevRun() {
		t.Errorf("IsDevRun() = false; want true inside go test")
	}
}
