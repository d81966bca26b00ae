package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/aretw0/elo/internal/config"
	"github.com/aretw0/elo/pkg/adapters/console"
	"github.com/aretw0/elo/pkg/adapters/fs"
	"github.com/aretw0/elo/pkg/adapters/git"
	"github.com/aretw0/elo/pkg/adapters/llm"
	"github.com/aretw0/elo/pkg/adapters/web"
	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/enrich"
	"github.com/aretw0/elo/pkg/i18n"
)

// ErrNotWatchable is returned by App.Watch when the notes are not on disk.
var ErrNotWatchable = errors.New("note repository does not support watching")

// App is an assembled elo instance.
type App struct {
	Config   *config.Config
	Service  *enrich.Service
	Notes    core.NoteRepository
	Commands *console.Commands
	// Vault is the resolved vault directory; empty for injected repositories.
	Vault string

	vault     *fs.Repository
	templates core.TemplateSource
	logger    *slog.Logger
}

// New wires the adapters selected by the configuration into an enrich.Service.
// Injected ports take precedence over configured ones.
//
//	app, err := platform.New(ctx, platform.WithConfig(cfg), platform.WithLogger(logger))
func New(ctx context.Context, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	cfg := o.config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Notes: o.notes, templates: o.templates, logger: logger}
	if app.Notes == nil {
		if err := app.openVault(ctx, o, registry); err != nil {
			return nil, err
		}
	}

	generator, vision := o.generator, o.vision
	if generator == nil {
		generator, vision, err = newGenerator(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	images := o.images
	if images == nil {
		images = web.NewImageSearch(web.SearchConfig{
			APIKey:   cfg.Images.APIKey,
			EngineID: cfg.Images.EngineID,
			BaseURL:  cfg.Images.BaseURL,
			Logger:   logger,
		})
	}
	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = web.NewFetcher(web.FetcherConfig{
			Timeout:  cfg.FetchTimeout(),
			MaxBytes: cfg.Fetch.MaxBytes,
			Guard:    cfg.Fetch.Guard,
			Logger:   logger,
		})
	}
	selector := o.selector
	if selector == nil {
		selector = console.NewSelector(o.in, o.out)
	}
	notifier := o.notifier
	if notifier == nil {
		notifier = console.NewNotifier(o.out, slog.LevelInfo)
	}

	app.Commands = console.NewCommands(console.CommandsConfig{
		Shell:  cfg.Commands,
		Dir:    app.Vault,
		Stdout: o.out,
		Stderr: o.out,
		Logger: logger,
	})
	if app.vault != nil {
		vcs := git.NewClient(git.Config{Dir: app.Vault, Logger: logger})
		app.Commands.Register(console.CommandCommit, vcs.CommitNote)
	}

	svc, err := enrich.New(enrich.Config{
		Notes:      app.Notes,
		Templates:  app.templates,
		Generator:  generator,
		Vision:     vision,
		Images:     images,
		Fetcher:    fetcher,
		Selector:   selector,
		Commands:   app.Commands,
		Notifier:   notifier,
		Registry:   registry,
		Catalog:    i18n.New(cfg.Language),
		Logger:     logger,
		ImageCount: cfg.Images.Count,
	})
	if err != nil {
		return nil, err
	}
	console.RegisterBuiltins(app.Commands, svc)
	app.Service = svc
	return app, nil
}

func (a *App) openVault(ctx context.Context, o *options, registry *core.Registry) error {
	cfg := a.Config
	useTemp := o.forceTemp || (o.devSafety && IsDevRun())
	a.Vault = ResolveVaultPath(cfg.Vault.Path, useTemp)
	if useTemp && a.Vault != cfg.Vault.Path {
		a.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", cfg.Vault.Path, "resolved_path", a.Vault)
	}

	a.vault = fs.NewRepository(fs.Config{
		Path:      a.Vault,
		SystemDir: cfg.Vault.SystemDir,
		MustExist: o.mustExist,
		Logger:    a.logger,
	})
	if err := a.vault.Initialize(ctx); err != nil {
		return err
	}
	a.Notes = a.vault
	if a.templates == nil {
		a.templates = fs.NewTemplateSource(fs.TemplateSourceConfig{
			Vault:    a.Vault,
			Dir:      cfg.Vault.Templates,
			Registry: registry,
			Logger:   a.logger,
		})
	}
	return nil
}

// newGenerator builds the configured model client. A missing API key
// leaves generation disabled rather than failing startup.
func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (core.Generator, core.ImageGenerator, error) {
	settings, err := cfg.LLM()
	if err != nil {
		return nil, nil, err
	}
	if settings.APIKey == "" {
		logger.Debug("generator disabled", "provider", settings.Provider, "missing", settings.Provider.EnvVar())
		return nil, nil, nil
	}
	settings.Logger = logger
	g, err := llm.New(ctx, settings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s generator: %w", settings.Provider, err)
	}
	vision, _ := llm.Vision(g)
	return g, vision, nil
}

// Watch streams paths of notes created under dir that match pattern.
func (a *App) Watch(ctx context.Context, dir, pattern string) (<-chan string, error) {
	if a.vault == nil {
		return nil, ErrNotWatchable
	}
	return a.vault.Watch(ctx, dir, pattern)
}

// State implements introspection.Introspectable. It maps each component
// type to its state.
func (a *App) State() any {
	parts := []introspection.Introspectable{a.Service}
	if a.vault != nil {
		parts = append(parts, a.vault)
	}
	if in, ok := a.templates.(introspection.Introspectable); ok {
		parts = append(parts, in)
	}
	state := make(map[string]any, len(parts))
	for _, p := range parts {
		name := "custom"
		if c, ok := p.(introspection.Component); ok {
			name = c.ComponentType()
		}
		state[name] = p.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string { return "elo-app" }

var (
	_ introspection.Introspectable = (*App)(nil)
	_ introspection.Component      = (*App)(nil)
)
