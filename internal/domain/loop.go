package domain

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
	"testtree.dev/pkg/testtree/internal/adapter"
	m "testtree.dev/pkg/testtree/internal/model"
)

// ErrLoopStopped is returned when work is submitted to a stopped loop.
var ErrLoopStopped = errors.New("event loop stopped")

const inboxSize = 256

// EventLoop applies every inbound event to the explorer on a single goroutine.
// Backend channels are pumped by one goroutine per backend so events of one
// backend keep their arrival order.
type EventLoop struct {
	explorer *Explorer
	clock    clock.Clock
	inbox    chan func(*Explorer)
	done     chan struct{}

	mu      sync.Mutex
	group   *errgroup.Group
	groupCt context.Context
	pumps   map[string]context.CancelFunc
	started bool
}

// NewEventLoop wraps explorer; the loop uses the explorer's clock.
func NewEventLoop(explorer *Explorer) *EventLoop {
	return &EventLoop{
		explorer: explorer,
		clock:    explorer.Clock(),
		inbox:    make(chan func(*Explorer), inboxSize),
		done:     make(chan struct{}),
		pumps:    make(map[string]context.CancelFunc),
	}
}

// Submit queues fn for the loop goroutine.
func (l *EventLoop) Submit(fn func(*Explorer)) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case <-l.done:
		return ErrLoopStopped
	case l.inbox <- fn:
		return nil
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *EventLoop) Do(ctx context.Context, fn func(*Explorer) error) error {
	result := make(chan error, 1)

	err := l.Submit(func(e *Explorer) {
		result <- fn(e)
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register adds backend to the explorer and starts pumping its events.
func (l *EventLoop) Register(ctx context.Context, backend adapter.Backend) error {
	err := l.Do(ctx, func(e *Explorer) error {
		_, err := e.Register(backend)
		return err
	})
	if err != nil {
		return err
	}

	l.startPump(backend)

	return nil
}

// Unregister stops pumping backend events and disposes its collection.
func (l *EventLoop) Unregister(ctx context.Context, id string) error {
	l.mu.Lock()
	if cancel, ok := l.pumps[id]; ok {
		cancel()
		delete(l.pumps, id)
	}
	l.mu.Unlock()

	return l.Do(ctx, func(e *Explorer) error {
		return e.Unregister(id)
	})
}

// NotifyConfigChanged forwards a configuration change to the collections.
func (l *EventLoop) NotifyConfigChanged(change ConfigChangedEvent) error {
	return l.Submit(func(e *Explorer) {
		e.Bus().Publish(change)
	})
}

// Run processes events until ctx is cancelled.
func (l *EventLoop) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	l.mu.Lock()
	l.group = group
	l.groupCt = groupCtx
	l.started = true
	l.mu.Unlock()

	l.explorer.bindContext(groupCtx)

	for _, c := range l.explorer.Collections() {
		l.startPump(c.Backend())
	}

	group.Go(func() error {
		defer close(l.done)
		return l.loop(groupCtx)
	})

	return group.Wait()
}

func (l *EventLoop) startPump(backend adapter.Backend) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return
	}

	if _, running := l.pumps[backend.ID()]; running {
		return
	}

	ctx, cancel := context.WithCancel(l.groupCt)
	l.pumps[backend.ID()] = cancel

	l.group.Go(func() error {
		l.pump(ctx, backend)
		return nil
	})
}

func (l *EventLoop) pump(ctx context.Context, backend adapter.Backend) {
	id := backend.ID()
	loads := backend.LoadEvents()
	runs := backend.RunEvents()

	var autorun <-chan struct{}
	if source, ok := backend.(adapter.AutorunSource); ok {
		autorun = source.Autorun()
	}

	slog.Debug("pumping backend events", "collection", id)

	for loads != nil || runs != nil || autorun != nil {
		var fn func(*Explorer)

		select {
		case <-ctx.Done():
			return
		case ev, ok := <-loads:
			if !ok {
				loads = nil
				continue
			}

			fn = func(e *Explorer) {
				if c, found := e.Collection(id); found {
					c.HandleLoadEvent(ev)
				}
			}
		case ev, ok := <-runs:
			if !ok {
				runs = nil
				continue
			}

			fn = func(e *Explorer) {
				if c, found := e.Collection(id); found {
					c.HandleRunEvent(ev)
				}
			}
		case _, ok := <-autorun:
			if !ok {
				autorun = nil
				continue
			}

			fn = func(e *Explorer) {
				if c, found := e.Collection(id); found {
					c.HandleAutorun()
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case l.inbox <- fn:
		}
	}
}

func (l *EventLoop) loop(ctx context.Context) error {
	var timer *clock.Timer

	stop := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	defer stop()

	for {
		var fire <-chan time.Time

		deadline, pending := l.explorer.Debouncer().Deadline()
		switch {
		case pending && timer == nil:
			timer = l.clock.Timer(l.clock.Until(deadline))
			fire = timer.C
		case pending:
			fire = timer.C
		default:
			stop()
		}

		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.inbox:
			fn(l.explorer)
		case <-fire:
			timer = nil
			l.explorer.Debouncer().Poll()
		}
	}
}

// WaitIdle blocks until no collection is loading or running.
// It observes the bus, so it must be called off the loop goroutine.
func (l *EventLoop) WaitIdle(ctx context.Context) error {
	idle := make(chan struct{}, 1)

	var unsubscribe func()

	err := l.Do(ctx, func(e *Explorer) error {
		if !e.IsLoading() && !e.IsRunning() {
			idle <- struct{}{}
			return nil
		}

		unsubscribe = e.Bus().Subscribe(func(ev Event) {
			if busy, ok := ev.(BusyChangedEvent); ok && !busy.Loading && !busy.Running {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		})

		return nil
	})
	if err != nil {
		return err
	}

	defer func() {
		if unsubscribe != nil {
			unsubscribe()
		}
	}()

	select {
	case <-idle:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Expect subscribes for n events accepted by match and returns a function
// that waits for them. Subscribe before triggering the work being awaited.
func (l *EventLoop) Expect(n int, match func(Event) bool) func(ctx context.Context) error {
	reached := make(chan struct{})

	if n <= 0 {
		close(reached)
	}

	seen := 0
	unsubscribe := l.explorer.Bus().Subscribe(func(ev Event) {
		if seen >= n || !match(ev) {
			return
		}

		seen++
		if seen == n {
			close(reached)
		}
	})

	return func(ctx context.Context) error {
		defer unsubscribe()

		select {
		case <-reached:
			return nil
		case <-l.done:
			return ErrLoopStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Flush settles pending changes immediately.
func (l *EventLoop) Flush(ctx context.Context) error {
	return l.Do(ctx, func(e *Explorer) error {
		e.Debouncer().Flush()
		return nil
	})
}

// Snapshot captures the explorer state on the loop goroutine.
func (l *EventLoop) Snapshot(ctx context.Context) (m.Snapshot, error) {
	var snapshot m.Snapshot

	err := l.Do(ctx, func(e *Explorer) error {
		e.Debouncer().Flush()
		snapshot = e.Snapshot()

		return nil
	})

	return snapshot, err
}
