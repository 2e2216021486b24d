package domain

import (
	"sort"
	"sync"

	m "testtree.dev/pkg/testtree/internal/model"
)

// Event is anything published on the ChangeBus.
type Event interface {
	eventName() string
}

// TreeChangedEvent is the debounced notification that part of the tree changed.
// Structural means nodes were added or a tree was replaced, so consumers
// should refresh everything.
type TreeChangedEvent struct {
	Nodes      []m.NodeRef
	Structural bool
}

// CodeLensesChangedEvent reports that the lenses of a collection were recomputed.
type CodeLensesChangedEvent struct {
	Collection string
	Files      []m.Path
}

// DecorationsChangedEvent asks consumers to redraw gutter and error decorations.
type DecorationsChangedEvent struct {
	Collection string
}

// BusyChangedEvent fires when the loading or running flag flips.
type BusyChangedEvent struct {
	Loading bool
	Running bool
}

// MessageEvent is a one-shot user-visible message.
type MessageEvent struct {
	Text  string
	Error bool
}

// ConfigChangedEvent carries the configuration keys that changed.
// An empty Workspace applies to every workspace.
type ConfigChangedEvent struct {
	Workspace string
	Keys      []string
}

// Affects reports whether key changed for the given workspace.
func (e ConfigChangedEvent) Affects(workspace, key string) bool {
	if e.Workspace != "" && e.Workspace != workspace {
		return false
	}

	if len(e.Keys) == 0 {
		return true
	}

	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}

	return false
}

// CollectionLoadedEvent fires after a collection handled a load finished event.
type CollectionLoadedEvent struct {
	Collection string
	Error      string
}

// CollectionRunFinishedEvent fires after a collection handled a run finished event.
type CollectionRunFinishedEvent struct {
	Collection string
}

func (TreeChangedEvent) eventName() string           { return "tree-changed" }
func (CodeLensesChangedEvent) eventName() string     { return "code-lenses-changed" }
func (DecorationsChangedEvent) eventName() string    { return "decorations-changed" }
func (BusyChangedEvent) eventName() string           { return "busy-changed" }
func (MessageEvent) eventName() string               { return "message" }
func (ConfigChangedEvent) eventName() string         { return "config-changed" }
func (CollectionLoadedEvent) eventName() string      { return "collection-loaded" }
func (CollectionRunFinishedEvent) eventName() string { return "collection-run-finished" }

// EventName returns a short stable name for logging.
func EventName(e Event) string {
	return e.eventName()
}

// ChangeBus is a synchronous publish/subscribe hub.
// Subscribers are called in subscription order on the publishing goroutine.
type ChangeBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewChangeBus returns an empty bus.
func NewChangeBus() *ChangeBus {
	return &ChangeBus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns the function that removes it.
func (b *ChangeBus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subs, id)
		})
	}
}

// Len returns the number of live subscriptions.
func (b *ChangeBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}

// Publish delivers e to every subscriber.
func (b *ChangeBus) Publish(e Event) {
	b.mu.Lock()

	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}

	b.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
