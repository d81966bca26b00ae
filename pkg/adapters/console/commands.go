package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"sync"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/enrich"
)

// Environment variables handed to shell commands.
const (
	EnvNotePath = "ELO_NOTE_PATH"
	EnvConfig   = "ELO_CONFIG"
)

// Built-in command identifiers.
const (
	CommandEnhance   = "elo:enhance"
	CommandAddImages = "elo:add-images"
	CommandRelocate  = "elo:relocate"
	// CommandCommit is registered by the composition root when the vault is on disk.
	CommandCommit = "elo:commit"
)

// CommandFunc is an in-process command.
type CommandFunc func(ctx context.Context, inv core.Invocation) error

// CommandsConfig configures a Commands registry.
type CommandsConfig struct {
	// Shell maps command identifiers to shell command lines.
	Shell map[string]string
	// Dir is the working directory of shell commands, usually the vault.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Commands implements core.CommandExecutor over in-process functions and
// shell command lines. Shell commands see the note path and the template
// configuration in their environment.
type Commands struct {
	config CommandsConfig
	logger *slog.Logger

	mu       sync.RWMutex
	builtins map[string]CommandFunc
}

// NewCommands creates a command registry.
func NewCommands(config CommandsConfig) *Commands {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	if config.Stderr == nil {
		config.Stderr = os.Stderr
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{config: config, logger: logger, builtins: make(map[string]CommandFunc)}
}

// Register adds an in-process command, replacing any with the same id.
func (c *Commands) Register(id string, fn CommandFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builtins[id] = fn
}

// IDs lists every known command.
func (c *Commands) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.builtins)+len(c.config.Shell))
	for id := range c.builtins {
		ids = append(ids, id)
	}
	for id := range c.config.Shell {
		if _, dup := c.builtins[id]; !dup {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Execute implements core.CommandExecutor.
func (c *Commands) Execute(ctx context.Context, id string, inv core.Invocation) error {
	c.mu.RLock()
	fn, ok := c.builtins[id]
	c.mu.RUnlock()
	if ok {
		c.logger.Debug("running command", "command", id, "note", inv.NotePath)
		return fn(ctx, inv)
	}
	if line, ok := c.config.Shell[id]; ok {
		return c.runShell(ctx, id, line, inv)
	}
	return fmt.Errorf("command %s: %w", id, core.ErrNotFound)
}

func (c *Commands) runShell(ctx context.Context, id, line string, inv core.Invocation) error {
	cfg, err := json.Marshal(inv.Config)
	if err != nil {
		return fmt.Errorf("command %s: failed to encode configuration: %w", id, err)
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", line)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	}
	cmd.Dir = c.config.Dir
	cmd.Env = append(os.Environ(), EnvNotePath+"="+inv.NotePath, EnvConfig+"="+string(cfg))
	cmd.Stdout = c.config.Stdout
	cmd.Stderr = c.config.Stderr

	c.logger.Debug("running shell command", "command", id, "line", line, "note", inv.NotePath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s failed: %w", id, err)
	}
	return nil
}

// Workflows is what the built-in commands drive.
type Workflows interface {
	Enhance(ctx context.Context, notePath string, cfg *core.TemplateConfig) (*enrich.Result, error)
	AddImages(ctx context.Context, notePath string) (*enrich.Result, error)
	RelocateByLinkField(ctx context.Context, notePath string) (*enrich.Result, error)
}

// RegisterBuiltins adds the elo:* commands. elo:enhance runs with the
// configuration of the template that triggered it.
func RegisterBuiltins(c *Commands, w Workflows) {
	c.Register(CommandEnhance, func(ctx context.Context, inv core.Invocation) error {
		cfg := inv.Config
		_, err := w.Enhance(ctx, inv.NotePath, &cfg)
		return err
	})
	c.Register(CommandAddImages, func(ctx context.Context, inv core.Invocation) error {
		_, err := w.AddImages(ctx, inv.NotePath)
		return err
	})
	c.Register(CommandRelocate, func(ctx context.Context, inv core.Invocation) error {
		_, err := w.RelocateByLinkField(ctx, inv.NotePath)
		return err
	})
}

var _ core.CommandExecutor = (*Commands)(nil)
