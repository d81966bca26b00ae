package platform

import (
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/elo/internal/config"
	"github.com/aretw0/elo/pkg/core"
)

// options holds what New needs to assemble an App.
type options struct {
	config    *config.Config
	logger    *slog.Logger
	in        io.Reader
	out       io.Writer
	devSafety bool
	forceTemp bool
	mustExist bool

	notes     core.NoteRepository
	templates core.TemplateSource
	generator core.Generator
	vision    core.ImageGenerator
	images    core.ImageSearcher
	fetcher   core.Fetcher
	selector  core.Selector
	notifier  core.Notifier
}

// Option defines a functional option for configuring the App.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		in:        os.Stdin,
		out:       os.Stderr,
		devSafety: true,
	}
}

// WithConfig sets the loaded settings. Defaults to config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConsole sets where the selector reads answers and where messages go.
func WithConsole(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.in = in
		o.out = out
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default a vault outside the temp directory is re-rooted into it.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp forces the vault into the temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithMustExist fails instead of creating a missing vault directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithRepository injects a note store; the filesystem vault is skipped.
func WithRepository(repo core.NoteRepository) Option {
	return func(o *options) {
		o.notes = repo
	}
}

// WithTemplates injects a template source.
func WithTemplates(src core.TemplateSource) Option {
	return func(o *options) {
		o.templates = src
	}
}

// WithGenerator injects the text generator. If it also implements
// core.ImageGenerator it is used for image-derived templates.
func WithGenerator(g core.Generator) Option {
	return func(o *options) {
		o.generator = g
		if v, ok := g.(core.ImageGenerator); ok && o.vision == nil {
			o.vision = v
		}
	}
}

// WithVision injects the image generator.
func WithVision(g core.ImageGenerator) Option {
	return func(o *options) {
		o.vision = g
	}
}

// WithImageSearcher injects the image search.
func WithImageSearcher(s core.ImageSearcher) Option {
	return func(o *options) {
		o.images = s
	}
}

// WithFetcher injects the URL fetcher.
func WithFetcher(f core.Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithSelector injects the template picker.
func WithSelector(s core.Selector) Option {
	return func(o *options) {
		o.selector = s
	}
}

// WithNotifier injects the message sink.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}
