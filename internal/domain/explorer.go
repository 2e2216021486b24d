package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"testtree.dev/pkg/testtree/internal/adapter"
	m "testtree.dev/pkg/testtree/internal/model"
)

// Option configures an Explorer.
type Option func(*Explorer)

// WithClock injects the clock used by the debouncer.
func WithClock(clk clock.Clock) Option {
	return func(e *Explorer) {
		e.clock = clk
	}
}

// WithDebounceDelay overrides DefaultDebounceDelay.
func WithDebounceDelay(delay time.Duration) Option {
	return func(e *Explorer) {
		e.delay = delay
	}
}

// WithBus shares an existing bus.
func WithBus(bus *ChangeBus) Option {
	return func(e *Explorer) {
		e.bus = bus
	}
}

// WithPicker sets the disambiguation prompt used by Run and Debug.
func WithPicker(picker adapter.Picker) Option {
	return func(e *Explorer) {
		e.picker = picker
	}
}

// WithSourceFS sets the filesystem used to read files for UpdateSelect.
func WithSourceFS(fs adapter.SourceFSAdapter) Option {
	return func(e *Explorer) {
		e.fs = fs
	}
}

// Explorer composes every collection behind one set of commands.
// It is not safe for concurrent use; drive it from an EventLoop.
type Explorer struct {
	ctx       context.Context
	config    adapter.ConfigSource
	picker    adapter.Picker
	fs        adapter.SourceFSAdapter
	bus       *ChangeBus
	clock     clock.Clock
	delay     time.Duration
	debouncer *ChangeDebouncer

	collections []*Collection

	loadingCount int
	runningCount int
	loading      bool
	running      bool
}

// NewExplorer creates an explorer reading settings from config.
func NewExplorer(config adapter.ConfigSource, opts ...Option) *Explorer {
	e := &Explorer{
		ctx:    context.Background(),
		config: config,
		picker: adapter.NewFirstPicker(),
		fs:     adapter.NewLocalSourceFSAdapter(),
		clock:  clock.New(),
		delay:  DefaultDebounceDelay,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.bus == nil {
		e.bus = NewChangeBus()
	}

	e.debouncer = NewChangeDebouncer(e.clock, e.delay, e.bus, e.Collections)

	return e
}

// Bus returns the bus the explorer publishes on.
func (e *Explorer) Bus() *ChangeBus {
	return e.bus
}

// Debouncer returns the change debouncer.
func (e *Explorer) Debouncer() *ChangeDebouncer {
	return e.debouncer
}

// Clock returns the clock shared with the debouncer.
func (e *Explorer) Clock() clock.Clock {
	return e.clock
}

func (e *Explorer) bindContext(ctx context.Context) {
	e.ctx = ctx
}

// Register adds a collection for backend.
func (e *Explorer) Register(backend adapter.Backend) (*Collection, error) {
	if _, ok := e.Collection(backend.ID()); ok {
		return nil, fmt.Errorf("register %s: %w", backend.ID(), ErrAlreadyRegistered)
	}

	c := newCollection(backend, e.config, e.bus, e)
	e.collections = append(e.collections, c)

	slog.Info("registered backend", "collection", c.ID(), "workspace", backend.Workspace())

	e.debouncer.TreeChanged()

	return c, nil
}

// Unregister disposes the collection of the given backend.
func (e *Explorer) Unregister(id string) error {
	for i, c := range e.collections {
		if c.ID() != id {
			continue
		}

		if c.loading {
			c.loading = false
			e.loadFinished()
		}

		if c.running {
			c.running = false
			e.runFinished()
		}

		c.Dispose()
		e.collections = append(e.collections[:i], e.collections[i+1:]...)
		e.debouncer.TreeChanged()

		slog.Info("unregistered backend", "collection", id)

		return nil
	}

	return fmt.Errorf("unregister %s: %w", id, ErrUnknownCollection)
}

// Collections returns the registered collections in registration order.
func (e *Explorer) Collections() []*Collection {
	return e.collections
}

// Collection returns the collection of the given backend.
func (e *Explorer) Collection(id string) (*Collection, bool) {
	for _, c := range e.collections {
		if c.ID() == id {
			return c, true
		}
	}

	return nil, false
}

func (e *Explorer) resolve(ref m.NodeRef) (*Collection, NodeID, error) {
	c, ok := e.Collection(ref.Collection)
	if !ok {
		return nil, NoNode, fmt.Errorf("collection %q: %w", ref.Collection, ErrUnknownCollection)
	}

	n, ok := c.Lookup(ref.Node)
	if !ok {
		return nil, NoNode, fmt.Errorf("node %q in %s: %w", ref.Node, ref.Collection, ErrUnknownNode)
	}

	return c, n, nil
}

// pick narrows several refs to one through the picker.
func (e *Explorer) pick(ctx context.Context, refs []m.NodeRef) (m.NodeRef, bool) {
	if len(refs) == 1 {
		return refs[0], true
	}

	candidates := make([]m.Candidate, 0, len(refs))

	for _, ref := range refs {
		label := ref.Node

		if c, n, err := e.resolve(ref); err == nil {
			label = c.Tree().Info(n).DisplayLabel()
		}

		candidates = append(candidates, m.Candidate{Ref: ref, Label: label})
	}

	return e.picker.Pick(ctx, candidates)
}

// Reload reloads the collection owning ref, or every collection when ref is nil.
func (e *Explorer) Reload(ctx context.Context, ref *m.NodeRef) error {
	if ref != nil {
		c, ok := e.Collection(ref.Collection)
		if !ok {
			return fmt.Errorf("reload %q: %w", ref.Collection, ErrUnknownCollection)
		}

		return c.Load(ctx)
	}

	var errs []error

	for _, c := range e.collections {
		if err := c.Load(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Run runs the given nodes. Several nodes are narrowed to one through the
// picker; no nodes runs the root of every collection.
func (e *Explorer) Run(ctx context.Context, refs []m.NodeRef) error {
	if len(refs) == 0 {
		var errs []error

		for _, c := range e.collections {
			root := c.RootID()
			if root == "" {
				continue
			}

			if err := c.Run(ctx, []string{root}); err != nil {
				errs = append(errs, err)
			}
		}

		return errors.Join(errs...)
	}

	ref, ok := e.pick(ctx, refs)
	if !ok {
		slog.Debug("run cancelled by picker")
		return nil
	}

	c, _, err := e.resolve(ref)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	return c.Run(ctx, []string{ref.Node})
}

// RunSelected runs every top-level node currently selected.
func (e *Explorer) RunSelected(ctx context.Context) error {
	var errs []error

	for _, c := range e.collections {
		ids := c.SelectedRoots()
		if len(ids) == 0 {
			continue
		}

		if err := c.Run(ctx, ids); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Debug starts a debug session for one of refs. A backend failure is
// published as a message and returned; node states are left untouched.
func (e *Explorer) Debug(ctx context.Context, refs []m.NodeRef) error {
	if len(refs) == 0 {
		return fmt.Errorf("debug: %w", ErrNoTarget)
	}

	ref, ok := e.pick(ctx, refs)
	if !ok {
		return nil
	}

	c, _, err := e.resolve(ref)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}

	if err := c.Debug(ctx, []string{ref.Node}); err != nil {
		slog.Error("debug failed", "collection", c.ID(), "node", ref.Node, "error", err)
		e.bus.Publish(MessageEvent{Text: fmt.Sprintf("Error while debugging test: %v", err), Error: true})

		return err
	}

	return nil
}

// Cancel asks every backend to stop its run.
func (e *Explorer) Cancel() {
	for _, c := range e.collections {
		c.Cancel()
	}
}

// SetAutorun tags ref for autorun, or every root when ref is nil.
func (e *Explorer) SetAutorun(ref *m.NodeRef) error {
	if ref != nil {
		c, _, err := e.resolve(*ref)
		if err != nil {
			return fmt.Errorf("set autorun: %w", err)
		}

		return c.SetAutorun(ref.Node)
	}

	for _, c := range e.collections {
		if root := c.RootID(); root != "" {
			if err := c.SetAutorun(root); err != nil {
				return err
			}
		}
	}

	return nil
}

// ClearAutorun clears the autorun target of the owning collection, or of all.
func (e *Explorer) ClearAutorun(ref *m.NodeRef) error {
	if ref != nil {
		c, ok := e.Collection(ref.Collection)
		if !ok {
			return fmt.Errorf("clear autorun %q: %w", ref.Collection, ErrUnknownCollection)
		}

		c.ClearAutorun()

		return nil
	}

	for _, c := range e.collections {
		c.ClearAutorun()
	}

	return nil
}

// RetireState retires ref, or every collection when ref is nil.
func (e *Explorer) RetireState(ref *m.NodeRef) error {
	if ref != nil {
		c, ok := e.Collection(ref.Collection)
		if !ok {
			return fmt.Errorf("retire %q: %w", ref.Collection, ErrUnknownCollection)
		}

		return c.RetireNode(ref.Node)
	}

	for _, c := range e.collections {
		c.RetireAll()
	}

	return nil
}

// ResetState resets ref, or every collection when ref is nil.
func (e *Explorer) ResetState(ref *m.NodeRef) error {
	if ref != nil {
		c, ok := e.Collection(ref.Collection)
		if !ok {
			return fmt.Errorf("reset %q: %w", ref.Collection, ErrUnknownCollection)
		}

		return c.ResetNode(ref.Node)
	}

	for _, c := range e.collections {
		c.ResetAll()
	}

	return nil
}

// UpdateSelect selects, in every collection, the top-level nodes of the test
// file whose words are most similar to the modified file.
func (e *Explorer) UpdateSelect(ctx context.Context, file m.Path) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	content, err := e.fs.ReadFile(file)
	if err != nil {
		return 0, fmt.Errorf("read modified file %s: %w", file, err)
	}

	selected := 0

	for _, c := range e.collections {
		order := c.TestFiles()
		candidates := make(map[m.Path]string, len(order))

		for _, testFile := range order {
			data, err := e.fs.ReadFile(testFile)
			if err != nil {
				slog.Warn("skipping unreadable test file", "collection", c.ID(), "file", testFile, "error", err)
				continue
			}

			candidates[testFile] = string(data)
		}

		best, score, ok := BestMatch(string(content), order, candidates)
		if !ok {
			continue
		}

		slog.Debug("closest test file", "collection", c.ID(), "modified", file, "test", best, "score", score)

		selected += c.SelectFile(best)
	}

	return selected, nil
}

// IsLoading reports whether any backend is loading.
func (e *Explorer) IsLoading() bool {
	return e.loading
}

// IsRunning reports whether any backend is running.
func (e *Explorer) IsRunning() bool {
	return e.running
}

// CodeLenses returns the lenses of every collection for file.
func (e *Explorer) CodeLenses(file m.Path) []m.CodeLens {
	var lenses []m.CodeLens
	for _, c := range e.collections {
		lenses = append(lenses, c.CodeLenses(file)...)
	}

	return lenses
}

// AllCodeLenses returns the lenses of every collection, grouped by file.
func (e *Explorer) AllCodeLenses() []m.CodeLens {
	var lenses []m.CodeLens
	for _, c := range e.collections {
		for _, file := range c.LensFiles() {
			lenses = append(lenses, c.CodeLenses(file)...)
		}
	}

	return lenses
}

// LocatedNodes returns, per line of file, the nodes of every collection defined there.
func (e *Explorer) LocatedNodes(file m.Path) map[int][]m.NodeRef {
	located := make(map[int][]m.NodeRef)

	for _, c := range e.collections {
		for line, ids := range c.LocatedNodes(file) {
			for _, id := range ids {
				located[line] = append(located[line], m.NodeRef{Collection: c.ID(), Node: id})
			}
		}
	}

	return located
}

// Decorations returns the decorations of every collection for file.
func (e *Explorer) Decorations(file m.Path) []m.LineDecoration {
	var decorations []m.LineDecoration
	for _, c := range e.collections {
		decorations = append(decorations, c.Decorations(file)...)
	}

	return decorations
}

// Summary counts the leaves of every collection.
func (e *Explorer) Summary() m.Summary {
	var total m.Summary

	for _, c := range e.collections {
		s := c.Summary()
		total.Passed += s.Passed
		total.Failed += s.Failed
		total.Skipped += s.Skipped
		total.Pending += s.Pending
		total.Other += s.Other
	}

	return total
}

// Snapshot captures every collection.
func (e *Explorer) Snapshot() m.Snapshot {
	snapshot := m.Snapshot{CreatedAt: e.clock.Now()}
	for _, c := range e.collections {
		snapshot.Collections = append(snapshot.Collections, c.Snapshot())
	}

	return snapshot
}

func (e *Explorer) loadStarted() {
	e.loadingCount++
	if e.loadingCount == 1 {
		e.loading = true
		e.publishBusy()
	}
}

func (e *Explorer) loadFinished() {
	if e.loadingCount == 0 {
		return
	}

	e.loadingCount--
	if e.loadingCount == 0 {
		e.loading = false
		e.publishBusy()
	}
}

func (e *Explorer) runStarted() {
	e.runningCount++
	if e.runningCount == 1 {
		e.running = true
		e.publishBusy()
	}
}

func (e *Explorer) runFinished() {
	if e.runningCount == 0 {
		return
	}

	e.runningCount--
	if e.runningCount == 0 {
		e.running = false
		e.publishBusy()
	}
}

func (e *Explorer) publishBusy() {
	e.bus.Publish(BusyChangedEvent{Loading: e.loading, Running: e.running})
}

func (e *Explorer) nodeChanged() {
	e.debouncer.NodeChanged()
}

func (e *Explorer) treeChanged() {
	e.debouncer.TreeChanged()
}

func (e *Explorer) runNodes(c *Collection, ids []string) {
	if err := c.Run(e.ctx, ids); err != nil {
		slog.Warn("autorun failed", "collection", c.ID(), "ids", ids, "error", err)
	}
}
