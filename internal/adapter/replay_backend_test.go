package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testtree.dev/pkg/testtree/internal/model"
)

const replayYAML = `id: calc
load:
  suite:
    id: root
    type: suite
    label: calc
    children:
      - id: add
        type: test
        label: TestAdd
        file: calc_test.go
        line: 5
      - id: later
        type: test
        label: TestLater
        skipped: true
runs:
  - - type: started
      tests: [root]
    - type: test
      id: add
      state: failed
      message: boom
      decorations:
        - line: 6
          message: boom
    - type: finished
---
id: broken
workspace: other
load:
  error: cannot parse
`

func collectLoad(t *testing.T, ch <-chan m.LoadEvent) []m.LoadEvent {
	t.Helper()

	var events []m.LoadEvent

	for {
		select {
		case event := <-ch:
			events = append(events, event)
			if event.Type == m.LoadFinished {
				return events
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for load events, got %v", events)
		}
	}
}

func collectRun(t *testing.T, ch <-chan m.RunEvent) []m.RunEvent {
	t.Helper()

	var events []m.RunEvent

	for {
		select {
		case event := <-ch:
			events = append(events, event)
			if event.Type == m.RunFinished {
				return events
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for run events, got %v", events)
		}
	}
}

func TestParseReplayScripts(t *testing.T) {
	scripts, err := ParseReplayScripts([]byte(replayYAML))
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	calc := scripts[0]
	assert.Equal(t, "calc", calc.ID)
	require.NotNil(t, calc.Load.Suite)
	require.Len(t, calc.Load.Suite.Children, 2)
	assert.Equal(t, 5, calc.Load.Suite.Children[0].LineNumber())
	assert.True(t, calc.Load.Suite.Children[1].Skipped)
	require.Len(t, calc.Runs, 1)
	assert.Equal(t, m.CurrentFailed, calc.Runs[0][1].TestState)
	assert.Equal(t, []m.Decoration{{Line: 6, Message: "boom"}}, calc.Runs[0][1].Decorations)

	assert.Equal(t, "broken", scripts[1].ID)
	assert.Equal(t, "other", scripts[1].Workspace)
	assert.Equal(t, "cannot parse", scripts[1].Load.Error)
}

func TestParseReplayScripts_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"missing id", "load:\n  error: x\n"},
		{"missing load", "id: a\n"},
		{"run without started", "id: a\nload:\n  error: x\nruns:\n  - - type: finished\n"},
		{"run without finished", "id: a\nload:\n  error: x\nruns:\n  - - type: started\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReplayScripts([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScript), err.Error())
		})
	}

	_, err := ParseReplayScripts([]byte("id: [unterminated"))
	require.Error(t, err)
}

func TestEncodeReplayScript_RoundTrip(t *testing.T) {
	scripts, err := ParseReplayScripts([]byte(replayYAML))
	require.NoError(t, err)

	data, err := EncodeReplayScript(scripts[0])
	require.NoError(t, err)

	again, err := ParseReplayScripts(data)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, scripts[0], again[0])
}

func TestReplayBackend_Load(t *testing.T) {
	scripts, err := ParseReplayScripts([]byte(replayYAML))
	require.NoError(t, err)

	t.Run("suite", func(t *testing.T) {
		backend := NewReplayBackend(scripts[0])
		assert.Equal(t, "calc", backend.ID())
		assert.Equal(t, "calc", backend.Workspace())

		require.NoError(t, backend.Load(context.Background()))

		events := collectLoad(t, backend.LoadEvents())
		require.Len(t, events, 2)
		assert.Equal(t, m.LoadStarted, events[0].Type)
		require.NotNil(t, events[1].Suite)
		assert.Equal(t, "root", events[1].Suite.ID)

		// The emitted suite is a copy: mutating it leaves the script intact.
		events[1].Suite.Children = nil
		assert.Len(t, scripts[0].Load.Suite.Children, 2)
	})

	t.Run("error", func(t *testing.T) {
		backend := NewReplayBackend(scripts[1])
		assert.Equal(t, "other", backend.Workspace())

		require.NoError(t, backend.Load(context.Background()))

		events := collectLoad(t, backend.LoadEvents())
		require.Len(t, events, 2)
		assert.Nil(t, events[1].Suite)
		assert.Equal(t, "cannot parse", events[1].ErrorMessage)
	})
}

func TestReplayBackend_Run(t *testing.T) {
	scripts, err := ParseReplayScripts([]byte(replayYAML))
	require.NoError(t, err)

	backend := NewReplayBackend(scripts[0])
	assert.Equal(t, 1, backend.Remaining())

	require.NoError(t, backend.Run(context.Background(), []string{"root"}))

	scripted := collectRun(t, backend.RunEvents())
	require.Len(t, scripted, 3)
	assert.Equal(t, m.CurrentFailed, scripted[1].TestState)
	assert.Equal(t, 0, backend.Remaining())

	// Exhausted: every requested non-skipped leaf passes.
	require.NoError(t, backend.Run(context.Background(), []string{"root"}))

	synthetic := collectRun(t, backend.RunEvents())
	assert.Equal(t, []m.RunEvent{
		m.RunStartedEvent("root"),
		m.TestEvent("add", m.CurrentRunning),
		m.TestEvent("add", m.CurrentPassed),
		m.RunFinishedEvent(),
	}, synthetic)

	err = backend.Run(context.Background(), []string{"later"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTests))
}

func TestReplayBackend_Cancel(t *testing.T) {
	script := ReplayScript{
		ID:   "slow",
		Load: ReplayLoad{Suite: m.Suite("root", "root", m.Test("a", "a"))},
	}

	// Unbuffered consumers: the run blocks on the channel until we read.
	backend := NewReplayBackend(script)
	backend.runs = make(chan m.RunEvent)

	require.NoError(t, backend.Run(context.Background(), []string{"root"}))

	first := <-backend.RunEvents()
	assert.Equal(t, m.RunStarted, first.Type)

	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()

		return backend.cancel != nil
	}, time.Second, time.Millisecond)

	backend.Cancel()

	var rest []m.RunEvent
	for event := range backend.RunEvents() {
		rest = append(rest, event)
		if event.Type == m.RunFinished {
			break
		}
	}

	assert.LessOrEqual(t, len(rest), 2)
	assert.Equal(t, m.RunFinished, rest[len(rest)-1].Type)
}

func TestReplayBackend_DebugAndAutorun(t *testing.T) {
	backend := NewReplayBackend(ReplayScript{ID: "x", Load: ReplayLoad{Error: "e"}})

	require.NoError(t, backend.Debug(context.Background(), []string{"a", "b"}))
	assert.Equal(t, [][]string{{"a", "b"}}, backend.Debugged())

	backend.TriggerAutorun()
	backend.TriggerAutorun()

	select {
	case <-backend.Autorun():
	default:
		t.Fatal("expected an autorun signal")
	}

	select {
	case <-backend.Autorun():
		t.Fatal("autorun signals must coalesce")
	default:
	}
}
