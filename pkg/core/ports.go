package core

import (
	"context"
	"log/slog"
)

// Generator produces enrichment for a prompt.
// A nil Enrichment with a nil error means the generator had nothing to return.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Enrichment, error)
}

// ImageGenerator produces enrichment from images and a prompt.
type ImageGenerator interface {
	GenerateFromImages(ctx context.Context, images []Image, prompt string) (*Enrichment, error)
}

// ImageSearcher finds image URLs for a query.
type ImageSearcher interface {
	Search(ctx context.Context, query string, max int) ([]string, error)
}

// Fetcher retrieves the text behind a URL.
type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

// Selector asks the user to pick one of the labels.
// ok is false when the user declined.
type Selector interface {
	Select(ctx context.Context, prompt string, labels []string) (index int, ok bool, err error)
}

// Invocation is what a command receives: the note it runs against and the
// configuration of the template that triggered it.
type Invocation struct {
	NotePath string
	Config   TemplateConfig
}

// CommandExecutor runs side-effect commands by identifier.
type CommandExecutor interface {
	Execute(ctx context.Context, id string, inv Invocation) error
}

// Message is a user-facing signal. Key refers to the message catalog and
// Text is the rendered message in the configured language.
type Message struct {
	Key   string
	Level slog.Level
	Args  map[string]any
	Text  string
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Notify(msg Message)
}

// Choose runs a selection over arbitrary items using labelFn for display.
// ok is false when there is nothing to choose from or the user declined.
func Choose[T any](ctx context.Context, sel Selector, prompt string, items []T, labelFn func(T) string) (T, bool, error) {
	var zero T
	if len(items) == 0 || sel == nil {
		return zero, false, nil
	}
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = labelFn(it)
	}
	idx, ok, err := sel.Select(ctx, prompt, labels)
	if err != nil || !ok {
		return zero, false, err
	}
	if idx < 0 || idx >= len(items) {
		return zero, false, nil
	}
	return items[idx], true, nil
}
