package core

import "context"

// NoteRepository defines the contract for storing and retrieving notes.
// Paths are vault-relative and use forward slashes.
type NoteRepository interface {
	// Get retrieves a note by path. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, path string) (Note, error)

	// Save persists a note, creating it if it does not exist.
	Save(ctx context.Context, n Note) error

	// Create writes a new note with the given raw content.
	Create(ctx context.Context, path, content string) error

	// Rename moves a note. Missing parent folders are created.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Delete removes a note.
	Delete(ctx context.Context, path string) error

	// Exists reports whether a note exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Resolve turns a link target into a note path, relative to the note at from.
	Resolve(ctx context.Context, link, from string) (string, bool)

	// List returns all notes. Implementations may return an empty list.
	List(ctx context.Context) ([]Note, error)
}

// TemplateSource provides the template candidates.
type TemplateSource interface {
	List(ctx context.Context) ([]TemplateMatch, error)
}
