package console

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/elo/pkg/core"
)

// Notifier prints user-facing messages, one per line.
type Notifier struct {
	mu    sync.Mutex
	out   io.Writer
	level slog.Level
}

// NewNotifier writes messages at or above level to out.
func NewNotifier(out io.Writer, level slog.Level) *Notifier {
	return &Notifier{out: out, level: level}
}

// Notify implements core.Notifier.
func (n *Notifier) Notify(msg core.Message) {
	if msg.Level < n.level {
		return
	}
	text := msg.Text
	if text == "" {
		text = msg.Key
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	switch {
	case msg.Level >= slog.LevelError:
		fmt.Fprintf(n.out, "error: %s\n", text)
	case msg.Level >= slog.LevelWarn:
		fmt.Fprintf(n.out, "warning: %s\n", text)
	default:
		fmt.Fprintln(n.out, text)
	}
}

var _ core.Notifier = (*Notifier)(nil)
