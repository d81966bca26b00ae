package core

import (
	"path"
	"strings"
)

// Metadata represents the flexible key-value pairs of a note's frontmatter.
type Metadata map[string]any

// Note is the central entity of the domain.
// Content is the raw text as stored; Metadata and Body are its parsed halves.
type Note struct {
	Path     string
	Content  string
	Metadata Metadata
	Body     string
}

// Title returns the final path segment without its extension.
func (n Note) Title() string {
	return TitleFromPath(n.Path)
}

// TitleFromPath derives a note title from a vault-relative path.
func TitleFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Clone returns a shallow copy of the metadata. Nested values are shared.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
