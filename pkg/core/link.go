package core

import (
	"path"
	"sort"
	"strings"
)

// NoteExt is the extension of note files.
const NoteExt = ".md"

// CleanPath normalizes a vault-relative note path: forward slashes, no
// leading slash, and the note extension appended when missing.
// It returns ErrInvalidPath for empty paths and paths leaving the vault.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	if p == "" || p == "." {
		return "", ErrInvalidPath
	}
	if !strings.HasSuffix(strings.ToLower(p), NoteExt) {
		p += NoteExt
	}
	return p, nil
}

// ResolveLink finds the note a link target points to among paths, the way
// wikilinks resolve: an explicit path wins, otherwise a note with the same
// base name, preferring the folder of from, then the shortest path.
func ResolveLink(link, from string, paths []string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	want, err := CleanPath(link)
	if err != nil {
		return "", false
	}

	if strings.Contains(link, "/") {
		for _, p := range paths {
			if strings.EqualFold(p, want) {
				return p, true
			}
		}
	}

	base := strings.ToLower(path.Base(want))
	var candidates []string
	for _, p := range paths {
		if strings.ToLower(path.Base(p)) == base {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	dir := path.Dir(from)
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := path.Dir(candidates[i]) == dir, path.Dir(candidates[j]) == dir
		if ci != cj {
			return ci
		}
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0], true
}
