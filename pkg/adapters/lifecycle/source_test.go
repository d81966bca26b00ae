package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	elolifecycle "github.com/aretw0/elo/pkg/adapters/lifecycle"
)

func TestSource_BridgesPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths := make(chan string, 2)
	paths <- "Inbox/Ada.md"
	paths <- "Inbox/Babbage.md"
	close(paths)

	src := elolifecycle.NewSource(paths)
	require.NoError(t, src.Start(ctx))

	var got []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				assert.Equal(t, []string{"Inbox/Ada.md", "Inbox/Babbage.md"}, got)
				return
			}
			created, isNote := e.(elolifecycle.NoteCreated)
			require.True(t, isNote)
			assert.Equal(t, "note created: "+created.Path, e.String())
			got = append(got, created.Path)
		case <-timeout:
			t.Fatal("events channel never closed")
		}
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := elolifecycle.NewSource(make(chan string))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events channel never closed")
	}
}
