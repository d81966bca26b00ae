// Package git commits vault changes made by the workflows.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/elo/pkg/core"
)

// DefaultLockName is the lock file created at the vault root while git runs.
const DefaultLockName = ".elo.lock"

// ErrNotRepository is returned when the vault is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Config configures a Client.
type Config struct {
	// Dir is the vault root.
	Dir      string
	LockName string
	Logger   *slog.Logger
}

// Client wraps git command execution with a file-based lock so concurrent
// elo processes do not interleave index updates.
type Client struct {
	dir      string
	lockPath string
	logger   *slog.Logger
}

// NewClient creates a git client for the vault.
func NewClient(config Config) *Client {
	if config.LockName == "" {
		config.LockName = DefaultLockName
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		dir:      config.Dir,
		lockPath: filepath.Join(config.Dir, config.LockName),
		logger:   logger,
	}
}

// Lock acquires the lock file, polling until it is free or ctx ends.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	for {
		f, err := os.OpenFile(c.lockPath, os.O_CREATE|os.O_EXCL, 0o666)
		if err == nil {
			f.Close()
			return func() { os.Remove(c.lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock: %w", ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes a raw git command in the vault. It does not take the lock.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	c.logger.Debug("executing git", "args", args, "dir", c.dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.dir
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}
	return output, nil
}

// Init initializes a repository; re-running it is harmless.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// IsRepository reports whether the vault is inside a work tree.
func (c *Client) IsRepository(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Commit stages paths (additions, changes and removals) and records them.
// It returns false when there was nothing to commit.
func (c *Client) Commit(ctx context.Context, msg string, paths ...string) (bool, error) {
	unlock, err := c.Lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	addArgs := append([]string{"add", "-A", "--"}, paths...)
	if _, err := c.Run(ctx, addArgs...); err != nil {
		return false, err
	}
	statusArgs := append([]string{"status", "--porcelain", "--"}, paths...)
	status, err := c.Run(ctx, statusArgs...)
	if err != nil {
		return false, err
	}
	if status == "" {
		return false, nil
	}
	commitArgs := append([]string{"commit", "-m", msg, "--"}, paths...)
	if _, err := c.Run(ctx, commitArgs...); err != nil {
		return false, err
	}
	return true, nil
}

// CommitNote commits the note of the invocation. Its signature matches the
// in-process command functions of the command registry.
func (c *Client) CommitNote(ctx context.Context, inv core.Invocation) error {
	if !c.IsRepository(ctx) {
		return fmt.Errorf("commit %s: %w", inv.NotePath, ErrNotRepository)
	}
	var body string
	if inv.Config.Prompt != "" {
		body = "Prompt: " + inv.Config.Prompt
	}
	msg := FormatCommitMessage(CommitTypeDocs, "elo", "update "+inv.NotePath, body)
	committed, err := c.Commit(ctx, msg, filepath.FromSlash(inv.NotePath))
	if err != nil {
		return err
	}
	if !committed {
		c.logger.Debug("nothing to commit", "note", inv.NotePath)
	}
	return nil
}
