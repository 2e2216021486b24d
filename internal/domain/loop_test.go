package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testtree.dev/pkg/testtree/internal/adapter"
	m "testtree.dev/pkg/testtree/internal/model"
)

func isEvent[T Event](e Event) bool {
	_, ok := e.(T)
	return ok
}

func startLoop(t *testing.T) (*EventLoop, context.Context) {
	t.Helper()

	explorer := NewExplorer(adapter.NewStaticConfigSource(m.DefaultSettings()), WithDebounceDelay(time.Millisecond))
	loop := NewEventLoop(explorer)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	done := make(chan error, 1)

	go func() { done <- loop.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return loop, ctx
}

func replayTwoLeaves() *adapter.ReplayBackend {
	return adapter.NewReplayBackend(adapter.ReplayScript{
		ID:   "c",
		Load: adapter.ReplayLoad{Suite: twoLeaves()},
		Runs: [][]m.RunEvent{{
			m.RunStartedEvent("root"),
			m.TestEvent("a", m.CurrentPassed),
			{Type: m.RunTest, NodeID: "b", TestState: m.CurrentFailed, Message: "boom"},
			m.RunFinishedEvent(),
		}},
	})
}

func stateOf(t *testing.T, snapshot m.Snapshot, id string) m.NodeState {
	t.Helper()

	var (
		state m.NodeState
		found bool
	)

	for _, collection := range snapshot.Collections {
		if collection.Root == nil {
			continue
		}

		collection.Root.Walk(func(node *m.NodeSnapshot, _ int) {
			if node.ID == id {
				state = node.State
				found = true
			}
		})
	}

	require.True(t, found, "node %s", id)

	return state
}

func TestEventLoop_LoadAndRun(t *testing.T) {
	loop, ctx := startLoop(t)
	backend := replayTwoLeaves()

	require.NoError(t, loop.Register(ctx, backend))

	loaded := loop.Expect(1, isEvent[CollectionLoadedEvent])
	changed := loop.Expect(1, isEvent[TreeChangedEvent])

	require.NoError(t, loop.Do(ctx, func(e *Explorer) error { return e.Reload(ctx, nil) }))
	require.NoError(t, loaded(ctx))
	require.NoError(t, changed(ctx), "the debouncer fires on its own")
	require.NoError(t, loop.WaitIdle(ctx))

	finished := loop.Expect(1, isEvent[CollectionRunFinishedEvent])

	require.NoError(t, loop.Do(ctx, func(e *Explorer) error { return e.Run(ctx, nil) }))
	require.NoError(t, finished(ctx))
	require.NoError(t, loop.WaitIdle(ctx))

	snapshot, err := loop.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, m.CurrentPassed, stateOf(t, snapshot, "a").Current)
	assert.Equal(t, m.CurrentFailed, stateOf(t, snapshot, "b").Current)
	assert.Equal(t, m.CurrentFailed, stateOf(t, snapshot, "root").Current)
	assert.Equal(t, 0, backend.Remaining())
}

func TestEventLoop_AutorunAndUnregister(t *testing.T) {
	loop, ctx := startLoop(t)
	backend := replayTwoLeaves()

	loaded := loop.Expect(1, isEvent[CollectionLoadedEvent])

	require.NoError(t, loop.Register(ctx, backend))
	require.NoError(t, loop.Do(ctx, func(e *Explorer) error { return e.Reload(ctx, nil) }))
	require.NoError(t, loaded(ctx))

	require.NoError(t, loop.Do(ctx, func(e *Explorer) error {
		return e.SetAutorun(&m.NodeRef{Collection: "c", Node: "a"})
	}))

	finished := loop.Expect(1, isEvent[CollectionRunFinishedEvent])

	backend.TriggerAutorun()
	require.NoError(t, finished(ctx))

	// The scripted run went first even though only a was requested.
	assert.Equal(t, 0, backend.Remaining())

	relensed := loop.Expect(1, isEvent[CodeLensesChangedEvent])
	require.NoError(t, loop.NotifyConfigChanged(ConfigChangedEvent{Keys: []string{m.SettingCodeLens}}))
	require.NoError(t, relensed(ctx))

	require.NoError(t, loop.Unregister(ctx, "c"))
	require.ErrorIs(t, loop.Unregister(ctx, "c"), ErrUnknownCollection)

	snapshot, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Collections)
}

func TestEventLoop_Stopped(t *testing.T) {
	explorer := NewExplorer(adapter.NewStaticConfigSource(m.DefaultSettings()))
	loop := NewEventLoop(explorer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- loop.Run(ctx) }()

	require.NoError(t, loop.Flush(ctx))
	require.NoError(t, loop.WaitIdle(ctx))

	cancel()
	require.NoError(t, <-done)

	require.ErrorIs(t, loop.Submit(func(*Explorer) {}), ErrLoopStopped)
	require.ErrorIs(t, loop.Do(context.Background(), func(*Explorer) error { return nil }), ErrLoopStopped)
	require.ErrorIs(t, loop.Expect(1, isEvent[MessageEvent])(context.Background()), ErrLoopStopped)
}

func TestEventLoop_ExpectZero(t *testing.T) {
	loop := NewEventLoop(NewExplorer(nil))

	require.NoError(t, loop.Expect(0, isEvent[MessageEvent])(context.Background()))
}
