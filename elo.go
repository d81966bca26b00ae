package elo

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/elo/internal/config"
	"github.com/aretw0/elo/internal/platform"
	"github.com/aretw0/elo/pkg/core"
)

// --- Types ---

// App is an assembled elo instance.
type App = platform.App

// Config holds the settings read by LoadConfig.
type Config = config.Config

// LoadOptions locate the settings.
type LoadOptions = config.LoadOptions

// Option defines a functional option for configuring elo.
type Option = platform.Option

// --- Configuration ---

// LoadConfig reads defaults, the TOML file, .env files and the environment.
// Warnings name ignored settings.
func LoadConfig(opts LoadOptions) (*Config, []string, error) {
	return config.Load(opts)
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return config.Default()
}

// WithConfig sets the settings used to build adapters.
func WithConfig(cfg *Config) Option {
	return platform.WithConfig(cfg)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithConsole sets the selector input and the message output.
func WithConsole(in io.Reader, out io.Writer) Option {
	return platform.WithConsole(in, out)
}

// WithDevSafety controls the temp-dir sandbox under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the vault into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithRepository injects a note store instead of the filesystem vault.
func WithRepository(repo core.NoteRepository) Option {
	return platform.WithRepository(repo)
}

// WithTemplates injects a template source.
func WithTemplates(src core.TemplateSource) Option {
	return platform.WithTemplates(src)
}

// WithGenerator injects the text generator.
func WithGenerator(g core.Generator) Option {
	return platform.WithGenerator(g)
}

// WithVision injects the image generator.
func WithVision(g core.ImageGenerator) Option {
	return platform.WithVision(g)
}

// WithImageSearcher injects the image search.
func WithImageSearcher(s core.ImageSearcher) Option {
	return platform.WithImageSearcher(s)
}

// WithFetcher injects the URL fetcher.
func WithFetcher(f core.Fetcher) Option {
	return platform.WithFetcher(f)
}

// WithSelector injects the template picker.
func WithSelector(s core.Selector) Option {
	return platform.WithSelector(s)
}

// WithNotifier injects the message sink.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// --- Factory ---

// New assembles an App.
func New(ctx context.Context, opts ...Option) (*App, error) {
	return platform.New(ctx, opts...)
}

// --- Utils ---

// FindVaultRoot looks upwards for a directory holding .obsidian, .elo or .git.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// ResolveVaultPath returns the vault directory after the dev sandbox rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
