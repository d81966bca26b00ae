// Package lifecycle bridges vault watch streams to lifecycle sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"
)

// NoteCreated is emitted for every note that appears in a watched folder.
type NoteCreated struct {
	Path string
}

func (e NoteCreated) String() string { return "note created: " + e.Path }

type watchSource struct {
	paths <-chan string
	out   chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a NoteCreated event per
// path received. Events closes when paths closes or the context ends.
func NewSource(paths <-chan string) lifecycle.Source {
	return &watchSource{
		paths: paths,
		out:   make(chan lifecycle.Event),
	}
}

func (s *watchSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *watchSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case p, ok := <-s.paths:
				if !ok {
					return nil
				}
				select {
				case s.out <- NoteCreated{Path: p}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
