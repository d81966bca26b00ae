// Package console talks to the user through a terminal and runs
// side-effect commands.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/elo/pkg/core"
)

// maxAttempts bounds how often an invalid answer is asked again.
const maxAttempts = 3

// Selector asks the user to pick from a numbered list.
type Selector struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewSelector reads answers from in and writes menus to out.
func NewSelector(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewReader(in), out: out}
}

// Select implements core.Selector. An empty answer, "q" or end of input declines.
func (s *Selector) Select(ctx context.Context, prompt string, labels []string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(labels) == 0 {
		return 0, false, nil
	}
	fmt.Fprintln(s.out, prompt)
	for i, l := range labels {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, l)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		fmt.Fprintf(s.out, "Choice [1-%d, empty to cancel]: ", len(labels))
		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, false, fmt.Errorf("failed to read choice: %w", err)
		}
		answer := strings.TrimSpace(line)
		if answer == "" || strings.EqualFold(answer, "q") {
			return 0, false, nil
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(labels) {
			return n - 1, true, nil
		}
		fmt.Fprintf(s.out, "Invalid choice %q\n", answer)
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
	}
	return 0, false, nil
}

var _ core.Selector = (*Selector)(nil)
