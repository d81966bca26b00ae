// Package enrich orchestrates the note workflows: template application,
// AI enhancement, image enrichment, URL context, image-derived templates,
// bulk note generation and relocation.
//
// Every workflow runs sequentially against a single note. Failures to load
// the note, find a template, or get a generator result stop the workflow
// before anything is written. Context fetches, image searches, relocation
// and side-effect commands degrade into warnings on the Result.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
	"github.com/aretw0/elo/pkg/i18n"
	"github.com/aretw0/elo/pkg/template"
)

// DefaultImageCount is how many images are searched when nothing else is configured.
const DefaultImageCount = 3

// Config wires the service to its ports. Only Notes is required.
type Config struct {
	Notes     core.NoteRepository
	Templates core.TemplateSource
	Generator core.Generator
	Vision    core.ImageGenerator
	Images    core.ImageSearcher
	Fetcher   core.Fetcher
	Selector  core.Selector
	Commands  core.CommandExecutor
	Notifier  core.Notifier

	Registry   *core.Registry
	Catalog    *i18n.Catalog
	Logger     *slog.Logger
	ImageCount int
}

// Service runs the workflows.
type Service struct {
	notes     core.NoteRepository
	templates core.TemplateSource
	generator core.Generator
	vision    core.ImageGenerator
	fetcher   core.Fetcher
	selector  core.Selector
	commands  core.CommandExecutor
	notifier  core.Notifier

	images     *ImageEnricher
	registry   *core.Registry
	catalog    *i18n.Catalog
	logger     *slog.Logger
	imageCount int
}

// Result describes what a workflow did.
type Result struct {
	// Path is where the note lives when the workflow ends.
	Path      string
	Template  string
	Persisted bool
	Relocated bool
	// Created lists notes created by bulk generation.
	Created []string
	// Warnings collects recoverable failures.
	Warnings []error
}

// ApplyOptions tunes template application.
type ApplyOptions struct {
	// URL is a caller-supplied context URL, used when neither the template
	// nor the note provides one.
	URL string
	// Template selects a template by name instead of asking the user.
	Template string
}

type args = map[string]any

// New builds a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Notes == nil {
		return nil, errors.New("enrich: a note repository is required")
	}
	s := &Service{
		notes:      cfg.Notes,
		templates:  cfg.Templates,
		generator:  cfg.Generator,
		vision:     cfg.Vision,
		fetcher:    cfg.Fetcher,
		selector:   cfg.Selector,
		commands:   cfg.Commands,
		notifier:   cfg.Notifier,
		registry:   cfg.Registry,
		catalog:    cfg.Catalog,
		logger:     cfg.Logger,
		imageCount: cfg.ImageCount,
	}
	if s.registry == nil {
		s.registry = core.DefaultRegistry()
	}
	if s.catalog == nil {
		s.catalog = i18n.New(i18n.DefaultLanguage)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.imageCount <= 0 {
		s.imageCount = DefaultImageCount
	}
	s.images = NewImageEnricher(cfg.Images, s.notify, s.logger)
	return s, nil
}

// Registry returns the field registry in use.
func (s *Service) Registry() *core.Registry { return s.registry }

// Templates lists the available templates, ranked against query when it is set.
func (s *Service) Templates(ctx context.Context, query string) ([]core.TemplateMatch, error) {
	if s.templates == nil {
		return nil, nil
	}
	matches, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if query != "" {
		matches = template.Rank(matches, query)
	}
	return matches, nil
}

// run carries the per-invocation state of a workflow.
type run struct {
	*Service
	log *slog.Logger
	res *Result
}

func (s *Service) begin(workflow, notePath string) *run {
	return &run{
		Service: s,
		log:     s.logger.With("workflow", workflow, "note", notePath, "run", uuid.NewString()),
		res:     &Result{Path: notePath},
	}
}

func (s *Service) notify(ctx context.Context, level slog.Level, key string, a args) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(core.Message{Key: key, Level: level, Args: a, Text: s.catalog.T(key, a)})
}

func (r *run) notify(ctx context.Context, level slog.Level, key string, a args) {
	r.log.Debug("notify", "key", key, "level", level)
	r.Service.notify(ctx, level, key, a)
}

// warn records a recoverable failure and tells the user.
func (r *run) warn(ctx context.Context, err error, key string, a args) {
	r.log.Warn("degraded", "key", key, "error", err)
	r.res.Warnings = append(r.res.Warnings, err)
	r.notify(ctx, slog.LevelWarn, key, a)
}

// load reads a note and parses its content.
func (r *run) load(ctx context.Context, notePath string) (core.Note, error) {
	note, err := r.notes.Get(ctx, notePath)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			r.notify(ctx, slog.LevelWarn, "apply.noteNotFound", args{"path": notePath})
			return core.Note{}, fmt.Errorf("note %s: %w", notePath, err)
		}
		return core.Note{}, fmt.Errorf("failed to read note %s: %w: %w", notePath, core.ErrPersistence, err)
	}
	note.Metadata, note.Body = frontmatter.Read(note.Content)
	r.res.Path = note.Path
	r.log.Debug("note loaded", "path", note.Path)
	return note, nil
}

// chooseTemplate picks a template by name, automatically when there is
// only one, or through the selector.
func (r *run) chooseTemplate(ctx context.Context, name, title string) (core.Template, error) {
	if r.templates == nil {
		r.notify(ctx, slog.LevelWarn, "apply.noTemplates", nil)
		return core.Template{}, core.ErrNoTemplates
	}
	matches, err := r.templates.List(ctx)
	if err != nil {
		return core.Template{}, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(matches) == 0 {
		r.notify(ctx, slog.LevelWarn, "apply.noTemplates", nil)
		return core.Template{}, core.ErrNoTemplates
	}

	if name != "" {
		for _, m := range matches {
			if strings.EqualFold(m.Template.Name, name) || m.Template.Path == name {
				return m.Template, nil
			}
		}
		r.notify(ctx, slog.LevelWarn, "apply.templateNotFound", args{"template": name})
		return core.Template{}, fmt.Errorf("template %q: %w", name, core.ErrNotFound)
	}

	if len(matches) == 1 {
		return matches[0].Template, nil
	}

	ranked := template.Rank(matches, title)
	chosen, ok, err := core.Choose(ctx, r.selector, r.catalog.T("apply.selectTemplate", nil), ranked,
		func(m core.TemplateMatch) string { return m.Template.Name })
	if err != nil {
		return core.Template{}, fmt.Errorf("failed to select template: %w", err)
	}
	if !ok {
		r.notify(ctx, slog.LevelInfo, "apply.noTemplateSelected", nil)
		return core.Template{}, core.ErrSelectionCancelled
	}
	return chosen.Template, nil
}

// finishOptions tunes the shared persist, relocate and commands tail.
type finishOptions struct {
	// refuseOccupied skips relocation when the destination already exists.
	refuseOccupied bool
}

// finish persists the note in one write, then relocates it and runs the
// configured commands. Only the write can fail the workflow.
func (r *run) finish(ctx context.Context, note core.Note, meta core.Metadata, body string, cfg core.TemplateConfig, opts finishOptions) error {
	if err := r.persist(ctx, note, meta, body); err != nil {
		return err
	}

	if cfg.Path != "" {
		dest := Destination(r.res.Path, cfg.Path)
		if err := r.relocate(ctx, r.res.Path, dest, opts.refuseOccupied); err != nil {
			r.warn(ctx, err, "apply.moveError", args{"path": dest, "error": err})
			return nil
		}
	}

	r.runCommands(ctx, cfg)
	return nil
}

// persist composes and saves the note.
func (r *run) persist(ctx context.Context, note core.Note, meta core.Metadata, body string) error {
	content, err := frontmatter.Compose(meta, body)
	if err != nil {
		return fmt.Errorf("failed to compose %s: %w: %w", note.Path, core.ErrPersistence, err)
	}
	note.Content, note.Metadata, note.Body = content, meta, body
	if err := r.notes.Save(ctx, note); err != nil {
		r.notify(ctx, slog.LevelError, "apply.saveError", args{"path": note.Path, "error": err})
		return fmt.Errorf("failed to save %s: %w: %w", note.Path, core.ErrPersistence, err)
	}
	r.res.Persisted = true
	r.log.Debug("note persisted", "bytes", len(content))
	return nil
}

// relocate moves the note. A destination equal to the source is a no-op.
func (r *run) relocate(ctx context.Context, from, to string, refuseOccupied bool) error {
	if to == from {
		return nil
	}
	if refuseOccupied {
		taken, err := r.notes.Exists(ctx, to)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w: %w", to, core.ErrPersistence, err)
		}
		if taken {
			r.notify(ctx, slog.LevelWarn, "templates.fileAlreadyExists", args{"path": to})
			return fmt.Errorf("destination %s: %w", to, core.ErrAlreadyExists)
		}
	}
	if err := r.notes.Rename(ctx, from, to); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w: %w", from, to, core.ErrPersistence, err)
	}
	r.res.Path = to
	r.res.Relocated = true
	r.notify(ctx, slog.LevelInfo, "apply.moved", args{"path": to})
	return nil
}

// runCommands executes the configured commands in order, handing each the
// configuration explicitly. The first failure stops the remaining ones.
func (r *run) runCommands(ctx context.Context, cfg core.TemplateConfig) {
	if len(cfg.Commands) == 0 {
		return
	}
	inv := core.Invocation{NotePath: r.res.Path, Config: cfg}
	for _, id := range cfg.Commands {
		var err error
		if r.commands == nil {
			err = fmt.Errorf("command %s: no command executor: %w", id, core.ErrNotFound)
		} else {
			err = r.commands.Execute(ctx, id, inv)
		}
		if err != nil {
			r.warn(ctx, err, "apply.commandError", args{"command": id, "error": err})
			return
		}
		r.log.Debug("command executed", "command", id)
	}
}

// Destination computes where a note moves for a configured path: a path
// ending in .md is used verbatim, anything else is a folder that receives
// the note's file name.
func Destination(notePath, configured string) string {
	configured = strings.TrimSpace(configured)
	if strings.HasSuffix(configured, core.NoteExt) {
		return configured
	}
	dir := strings.TrimRight(configured, "/")
	if dir == "" {
		return path.Base(notePath)
	}
	return dir + "/" + path.Base(notePath)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
