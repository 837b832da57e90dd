package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globtrail/globtrail/internal/matcher"
	"github.com/globtrail/globtrail/internal/vfs"
)

func buildFixture(t *testing.T) vfs.FS {
	t.Helper()

	fsys := vfs.NewMemMapFS()
	files := []string{
		"root/a.go",
		"root/b.txt",
		"root/sub/c.go",
	}

	for _, f := range files {
		require.NoError(t, vfs.WriteFile(fsys, f, []byte("x"), 0o644))
	}

	return fsys
}

func compile(t *testing.T, patterns ...string) *matcher.Patterns {
	t.Helper()

	p, err := matcher.CompileMany(patterns, matcher.CompileConfig{CaseSensitive: true}, nil)
	require.NoError(t, err)

	return p
}

func drain(t *testing.T, ch <-chan Event, timeout time.Duration) []Event {
	t.Helper()

	var events []Event

	deadline := time.After(timeout)

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}

			events = append(events, ev)
		case <-deadline:
			t.Fatal("timed out draining stream")
		}
	}
}

func TestStreamMatchesNestedFiles(t *testing.T) {
	t.Parallel()

	fsys := buildFixture(t)
	patterns := compile(t, "**/*.go")

	_, ch := Start(context.Background(), fsys, patterns, Config{MaxInflight: 4}, []string{"root"}, nil)
	events := drain(t, ch, 2*time.Second)

	var paths []string
	for _, ev := range events {
		require.NoError(t, ev.Err)
		paths = append(paths, ev.Path)
	}

	assert.ElementsMatch(t, []string{"root/a.go", "root/sub/c.go"}, paths)
}

func TestStreamRootLevelErrorTerminatesStream(t *testing.T) {
	t.Parallel()

	fsys := vfs.NewMemMapFS()
	patterns := compile(t, "*")

	handle, ch := Start(context.Background(), fsys, patterns, Config{MaxInflight: 2}, []string{"missing"}, nil)
	events := drain(t, ch, 2*time.Second)

	require.Len(t, events, 1)
	assert.Error(t, events[0].Err)
	assert.NotNil(t, handle)
}

func TestStreamCancellationStopsDelivery(t *testing.T) {
	t.Parallel()

	fsys := buildFixture(t)
	patterns := compile(t, "**/*")

	ctx, cancel := context.WithCancel(context.Background())
	handle, ch := Start(ctx, fsys, patterns, Config{MaxInflight: 1}, []string{"root"}, nil)

	handle.Cancel()
	cancel()

	// The channel must still close promptly even though the walk was
	// cancelled before any consumer drained it.
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
	}

	_, open := <-ch
	assert.False(t, open)
}

func TestStreamDefaultsMaxInflightToOne(t *testing.T) {
	t.Parallel()

	fsys := buildFixture(t)
	patterns := compile(t, "**/*.go")

	_, ch := Start(context.Background(), fsys, patterns, Config{}, []string{"root"}, nil)
	events := drain(t, ch, 2*time.Second)

	assert.Len(t, events, 2)
}
