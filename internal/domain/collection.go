package domain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"testtree.dev/pkg/testtree/internal/adapter"
	m "testtree.dev/pkg/testtree/internal/model"
)

// Phase is the coarse state of a collection.
type Phase string

// Available Phase values.
const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseRunning Phase = "running"
)

// collectionHost is the part of the explorer a collection reports to.
type collectionHost interface {
	loadStarted()
	loadFinished()
	runStarted()
	runFinished()
	nodeChanged()
	treeChanged()
	runNodes(c *Collection, ids []string)
}

// Collection owns the tree of one backend and folds its events into it.
type Collection struct {
	id          string
	backend     adapter.Backend
	config      adapter.ConfigSource
	host        collectionHost
	bus         *ChangeBus
	unsubscribe func()

	tree         *Tree
	errorMessage string

	loading             bool
	running             bool
	runningTests        []NodeID
	openSuites          []NodeID
	changedWhileRunning bool

	autorunID  string
	hasAutorun bool

	locations  map[m.Path]map[int][]NodeID
	codeLenses map[m.Path][]m.CodeLens
	testFiles  []m.Path
}

func newCollection(backend adapter.Backend, config adapter.ConfigSource, bus *ChangeBus, host collectionHost) *Collection {
	c := &Collection{
		id:         backend.ID(),
		backend:    backend,
		config:     config,
		host:       host,
		bus:        bus,
		locations:  make(map[m.Path]map[int][]NodeID),
		codeLenses: make(map[m.Path][]m.CodeLens),
	}

	c.unsubscribe = bus.Subscribe(func(e Event) {
		if change, ok := e.(ConfigChangedEvent); ok {
			c.handleConfigChanged(change)
		}
	})

	return c
}

// ID returns the backend id.
func (c *Collection) ID() string {
	return c.id
}

// Backend returns the backend feeding the collection.
func (c *Collection) Backend() adapter.Backend {
	return c.backend
}

// Tree returns the loaded tree, or nil when nothing is loaded.
func (c *Collection) Tree() *Tree {
	return c.tree
}

// ErrorMessage returns the message of the last failed load.
func (c *Collection) ErrorMessage() string {
	return c.errorMessage
}

// Empty reports whether the collection has neither a tree nor an error.
func (c *Collection) Empty() bool {
	return c.tree == nil && c.errorMessage == ""
}

// Phase reports whether the collection is running, loading or idle.
func (c *Collection) Phase() Phase {
	switch {
	case c.running:
		return PhaseRunning
	case c.loading:
		return PhaseLoading
	default:
		return PhaseIdle
	}
}

// Settings reads the current configuration of the backend workspace.
func (c *Collection) Settings() m.Settings {
	if c.config == nil {
		return m.DefaultSettings()
	}

	return c.config.Settings(c.backend.Workspace())
}

// RootID returns the id of the root suite, or "" without a tree.
func (c *Collection) RootID() string {
	if c.tree == nil || c.tree.Root() == NoNode {
		return ""
	}

	return c.tree.Info(c.tree.Root()).ID
}

// Ref builds a reference to a node of this collection.
func (c *Collection) Ref(n NodeID) m.NodeRef {
	return m.NodeRef{Collection: c.id, Node: c.tree.Info(n).ID}
}

// Lookup resolves a node id in the loaded tree.
func (c *Collection) Lookup(id string) (NodeID, bool) {
	if c.tree == nil {
		return NoNode, false
	}

	return c.tree.Lookup(id)
}

// HandleLoadEvent folds one load event into the collection.
func (c *Collection) HandleLoadEvent(e m.LoadEvent) {
	switch e.Type {
	case m.LoadStarted:
		slog.Debug("load started", "collection", c.id)

		if !c.loading {
			c.loading = true
			c.host.loadStarted()
		}
	case m.LoadFinished:
		c.handleLoadFinished(e)
	default:
		slog.Warn("ignoring unknown load event", "collection", c.id, "type", e.Type)
	}
}

func (c *Collection) handleLoadFinished(e m.LoadEvent) {
	if c.loading {
		c.loading = false
		c.host.loadFinished()
	}

	settings := c.Settings()

	if e.Suite != nil {
		c.tree = NewTree(e.Suite)
		c.errorMessage = ""

		switch settings.OnReload {
		case m.PolicyRetire:
			c.tree.RetireState(c.tree.Root())
		case m.PolicyReset:
			c.tree.ResetState(c.tree.Root())
		case m.PolicyNothing:
		}

		slog.Info("tests loaded", "collection", c.id, "nodes", c.tree.Len())
	} else {
		c.tree = nil
		c.errorMessage = e.ErrorMessage

		if e.ErrorMessage != "" {
			slog.Error("loading tests failed", "collection", c.id, "error", e.ErrorMessage)
		}
	}

	c.runningTests = nil
	c.openSuites = nil
	c.changedWhileRunning = false

	// The finished event of an interrupted run may never reach a reloaded
	// or failed tree, so the run ends here.
	if c.running {
		c.running = false
		c.host.runFinished()
		c.bus.Publish(CollectionRunFinishedEvent{Collection: c.id})
	}

	c.rearmAutorun()
	c.rebuildTestFiles()
	c.ComputeCodeLenses()
	c.bus.Publish(DecorationsChangedEvent{Collection: c.id})
	c.host.treeChanged()
	c.bus.Publish(CollectionLoadedEvent{Collection: c.id, Error: c.errorMessage})
}

func (c *Collection) rearmAutorun() {
	if !c.hasAutorun {
		return
	}

	n, ok := c.Lookup(c.autorunID)
	if !ok {
		slog.Debug("autorun target vanished on reload", "collection", c.id, "id", c.autorunID)

		c.hasAutorun = false
		c.autorunID = ""

		return
	}

	c.tree.SetAutorun(n, true)
	c.host.runNodes(c, []string{c.autorunID})
}

// HandleRunEvent folds one run event into the collection. Events arriving
// while no tree is loaded are dropped.
func (c *Collection) HandleRunEvent(e m.RunEvent) {
	if c.tree == nil {
		slog.Debug("dropping run event without a tree", "collection", c.id, "type", e.Type)
		return
	}

	switch e.Type {
	case m.RunStarted:
		c.handleRunStarted(e)
	case m.RunSuite:
		c.handleSuiteEvent(e)
	case m.RunTest:
		c.handleTestEvent(e)
	case m.RunFinished:
		c.handleRunFinished()
	default:
		slog.Warn("ignoring unknown run event", "collection", c.id, "type", e.Type)
	}

	if c.tree != nil && c.tree.Dirty() {
		c.host.nodeChanged()
	}
}

func (c *Collection) handleRunStarted(e m.RunEvent) {
	switch c.Settings().OnStart {
	case m.PolicyRetire:
		c.tree.RetireState(c.tree.Root())
	case m.PolicyReset:
		c.tree.ResetState(c.tree.Root())
	case m.PolicyNothing:
	}

	seen := make(map[NodeID]struct{})
	c.runningTests = c.runningTests[:0]

	for _, id := range e.Tests {
		n, ok := c.tree.Lookup(id)
		if !ok {
			slog.Debug("run started for unknown id", "collection", c.id, "id", id)
			continue
		}

		for _, leaf := range c.tree.Leaves(n) {
			if _, dup := seen[leaf]; dup {
				continue
			}

			seen[leaf] = struct{}{}
			c.runningTests = append(c.runningTests, leaf)
		}
	}

	for _, leaf := range c.runningTests {
		c.tree.SetCurrentState(leaf, m.CurrentScheduled, "", nil)
	}

	c.openSuites = nil
	c.changedWhileRunning = false

	if !c.running {
		c.running = true
		c.host.runStarted()
	}

	slog.Debug("run started", "collection", c.id, "scheduled", len(c.runningTests))
}

// resolve finds the node an event refers to, creating it under the open
// suite when it is unknown and described inline.
func (c *Collection) resolve(e m.RunEvent, kind m.NodeKind) (NodeID, bool) {
	id := e.TargetID()

	if n, ok := c.tree.Lookup(id); ok {
		if c.tree.IsSuite(n) != (kind == m.KindSuite) {
			slog.Warn("run event kind does not match node", "collection", c.id, "id", id, "kind", kind)
			return NoNode, false
		}

		return n, true
	}

	if e.Info == nil || len(c.openSuites) == 0 {
		slog.Debug("run event for unknown node", "collection", c.id, "id", id)
		return NoNode, false
	}

	if e.Info.Kind == "" {
		e.Info.Kind = kind
	}

	if e.Info.Kind != kind {
		return NoNode, false
	}

	parent := c.openSuites[len(c.openSuites)-1]

	n, err := c.tree.AppendChild(parent, e.Info)
	if err != nil {
		slog.Warn("failed to merge dynamic node", "collection", c.id, "id", id, "error", err)
		return NoNode, false
	}

	slog.Debug("merged dynamic node", "collection", c.id, "id", id, "parent", c.tree.Info(parent).ID)

	c.changedWhileRunning = true
	c.host.treeChanged()

	return n, true
}

func (c *Collection) handleSuiteEvent(e m.RunEvent) {
	if e.SuiteState == m.SuiteCompleted {
		n, ok := c.tree.Lookup(e.TargetID())
		if !ok {
			return
		}

		if i := slices.Index(c.openSuites, n); i >= 0 {
			c.openSuites = c.openSuites[:i]
		}

		return
	}

	n, ok := c.resolve(e, m.KindSuite)
	if !ok {
		return
	}

	c.openSuites = append(c.openSuites, n)
}

func (c *Collection) handleTestEvent(e m.RunEvent) {
	_, known := c.tree.Lookup(e.TargetID())

	n, ok := c.resolve(e, m.KindTest)
	if !ok {
		return
	}

	switch e.TestState {
	case m.CurrentRunning, m.CurrentPassed, m.CurrentFailed, m.CurrentSkipped:
	default:
		slog.Warn("ignoring test event with unsupported state", "collection", c.id, "id", e.TargetID(), "state", e.TestState)
		return
	}

	if !known || !slices.Contains(c.runningTests, n) {
		c.runningTests = append(c.runningTests, n)
	}

	c.tree.SetCurrentState(n, e.TestState, e.Message, e.Decorations)
}

func (c *Collection) handleRunFinished() {
	for _, leaf := range c.runningTests {
		if c.tree.State(leaf).Current.Active() {
			c.tree.SetCurrentState(leaf, m.CurrentPending, "", nil)
		}
	}

	c.runningTests = nil
	c.openSuites = nil

	if c.running {
		c.running = false
		c.host.runFinished()
	}

	if c.changedWhileRunning {
		c.changedWhileRunning = false
		c.rebuildTestFiles()
		c.ComputeCodeLenses()
	}

	c.bus.Publish(DecorationsChangedEvent{Collection: c.id})
	c.bus.Publish(CollectionRunFinishedEvent{Collection: c.id})

	slog.Debug("run finished", "collection", c.id)
}

// HandleAutorun reruns the autorun target after a source change.
func (c *Collection) HandleAutorun() {
	if c.hasAutorun {
		c.host.runNodes(c, []string{c.autorunID})
	}
}

// AutorunTarget returns the id of the autorun node.
func (c *Collection) AutorunTarget() (string, bool) {
	return c.autorunID, c.hasAutorun
}

// SetAutorun tags the node with the given id as the autorun target,
// replacing any previous target.
func (c *Collection) SetAutorun(id string) error {
	n, ok := c.Lookup(id)
	if !ok {
		return fmt.Errorf("set autorun %q in %s: %w", id, c.id, ErrUnknownNode)
	}

	c.clearAutorunFlags()
	c.tree.SetAutorun(n, true)
	c.autorunID = id
	c.hasAutorun = true
	c.host.nodeChanged()

	return nil
}

// ClearAutorun removes the autorun target and every autorun flag.
func (c *Collection) ClearAutorun() {
	c.clearAutorunFlags()
	c.autorunID = ""
	c.hasAutorun = false
	c.host.nodeChanged()
}

func (c *Collection) clearAutorunFlags() {
	if c.tree == nil || c.tree.Root() == NoNode {
		return
	}

	c.tree.SetAutorun(c.tree.Root(), false)
}

// RetireAll retires every node of the tree.
func (c *Collection) RetireAll() {
	if c.tree == nil || c.tree.Root() == NoNode {
		return
	}

	c.tree.RetireState(c.tree.Root())
	c.host.nodeChanged()
}

// RetireNode retires one subtree.
func (c *Collection) RetireNode(id string) error {
	n, ok := c.Lookup(id)
	if !ok {
		return fmt.Errorf("retire %q in %s: %w", id, c.id, ErrUnknownNode)
	}

	c.tree.RetireState(n)
	c.host.nodeChanged()

	return nil
}

// ResetAll resets every node of the tree.
func (c *Collection) ResetAll() {
	if c.tree == nil || c.tree.Root() == NoNode {
		return
	}

	c.tree.ResetState(c.tree.Root())
	c.host.nodeChanged()
}

// ResetNode resets one subtree.
func (c *Collection) ResetNode(id string) error {
	n, ok := c.Lookup(id)
	if !ok {
		return fmt.Errorf("reset %q in %s: %w", id, c.id, ErrUnknownNode)
	}

	c.tree.ResetState(n)
	c.host.nodeChanged()

	return nil
}

// SelectFile selects every top-level node defined in file and returns how many matched.
func (c *Collection) SelectFile(file m.Path) int {
	if c.tree == nil || c.tree.Root() == NoNode {
		return 0
	}

	file = file.Clean()
	selected := 0

	for _, child := range c.tree.Children(c.tree.Root()) {
		if c.tree.Info(child).File.Clean() == file {
			c.tree.SelectNode(child)

			selected++
		}
	}

	if selected > 0 {
		c.host.nodeChanged()
	}

	return selected
}

// SelectedRoots returns the ids of top-level nodes currently selected.
func (c *Collection) SelectedRoots() []string {
	if c.tree == nil || c.tree.Root() == NoNode {
		return nil
	}

	var ids []string

	for _, child := range c.tree.Children(c.tree.Root()) {
		if c.tree.State(child).Current == m.CurrentSelected {
			ids = append(ids, c.tree.Info(child).ID)
		}
	}

	return ids
}

// TestFiles returns the files defining the top-level nodes.
func (c *Collection) TestFiles() []m.Path {
	return c.testFiles
}

func (c *Collection) rebuildTestFiles() {
	c.testFiles = nil

	if c.tree == nil || c.tree.Root() == NoNode {
		return
	}

	seen := make(map[m.Path]struct{})

	for _, child := range c.tree.Children(c.tree.Root()) {
		file := c.tree.Info(child).File.Clean()
		if file == "" {
			continue
		}

		if _, ok := seen[file]; ok {
			continue
		}

		seen[file] = struct{}{}
		c.testFiles = append(c.testFiles, file)
	}
}

// ComputeCodeLenses rebuilds the location index and the code lenses and
// announces every file whose lenses may have changed.
func (c *Collection) ComputeCodeLenses() {
	touched := make(map[m.Path]struct{})
	for file := range c.codeLenses {
		touched[file] = struct{}{}
	}

	c.locations = make(map[m.Path]map[int][]NodeID)
	c.codeLenses = make(map[m.Path][]m.CodeLens)

	if c.tree != nil && c.tree.Root() != NoNode {
		c.tree.Walk(c.tree.Root(), func(n NodeID) bool {
			info := c.tree.Info(n)
			if !info.HasLocation() {
				return true
			}

			file := info.File.Clean()
			if c.locations[file] == nil {
				c.locations[file] = make(map[int][]NodeID)
			}

			c.locations[file][*info.Line] = append(c.locations[file][*info.Line], n)

			return true
		})
	}

	if c.Settings().CodeLens {
		for file, lines := range c.locations {
			c.codeLenses[file] = c.lensesFor(file, lines)
			touched[file] = struct{}{}
		}
	}

	files := make([]m.Path, 0, len(touched))
	for file := range touched {
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	c.bus.Publish(CodeLensesChangedEvent{Collection: c.id, Files: files})
}

func (c *Collection) lensesFor(file m.Path, lines map[int][]NodeID) []m.CodeLens {
	numbers := make([]int, 0, len(lines))
	for line := range lines {
		numbers = append(numbers, line)
	}

	sort.Ints(numbers)

	lenses := make([]m.CodeLens, 0, 2*len(numbers))

	for _, line := range numbers {
		ids := make([]string, 0, len(lines[line]))
		for _, n := range lines[line] {
			ids = append(ids, c.tree.Info(n).ID)
		}

		suffix := ""
		if len(ids) > 1 {
			suffix = fmt.Sprintf(" (%d)", len(ids))
		}

		lenses = append(lenses,
			m.CodeLens{Kind: m.LensRun, File: file, Line: line, Title: "Run" + suffix, NodeIDs: ids},
			m.CodeLens{Kind: m.LensDebug, File: file, Line: line, Title: "Debug" + suffix, NodeIDs: ids},
		)
	}

	return lenses
}

// CodeLenses returns the lenses computed for file.
func (c *Collection) CodeLenses(file m.Path) []m.CodeLens {
	return c.codeLenses[file.Clean()]
}

// LensFiles lists the files carrying code lenses, sorted.
func (c *Collection) LensFiles() []m.Path {
	files := make([]m.Path, 0, len(c.codeLenses))
	for file := range c.codeLenses {
		files = append(files, file)
	}

	slices.Sort(files)

	return files
}

// LocatedNodes returns, per line, the ids of the nodes defined in file.
func (c *Collection) LocatedNodes(file m.Path) map[int][]string {
	lines := c.locations[file.Clean()]
	if len(lines) == 0 {
		return nil
	}

	located := make(map[int][]string, len(lines))

	for line, nodes := range lines {
		for _, n := range nodes {
			located[line] = append(located[line], c.tree.Info(n).ID)
		}
	}

	return located
}

// Decorations returns the gutter icons and failure messages for file,
// filtered by the gutter and error decoration settings.
func (c *Collection) Decorations(file m.Path) []m.LineDecoration {
	if c.tree == nil || c.tree.Root() == NoNode {
		return nil
	}

	settings := c.Settings()
	file = file.Clean()

	var decorations []m.LineDecoration

	if settings.GutterDecoration {
		lines := c.locations[file]

		numbers := make([]int, 0, len(lines))
		for line := range lines {
			numbers = append(numbers, line)
		}

		sort.Ints(numbers)

		for _, line := range numbers {
			for _, n := range lines[line] {
				if c.tree.IsSuite(n) {
					continue
				}

				decorations = append(decorations, m.LineDecoration{
					File:   file,
					Line:   line,
					NodeID: c.tree.Info(n).ID,
					Gutter: DisplayIcon(c.tree.State(n)),
				})
			}
		}
	}

	if settings.ErrorDecoration {
		for _, leaf := range c.tree.Leaves(c.tree.Root()) {
			if c.tree.Info(leaf).File.Clean() != file {
				continue
			}

			for _, d := range c.tree.Decorations(leaf) {
				decorations = append(decorations, m.LineDecoration{
					File:    file,
					Line:    d.Line,
					NodeID:  c.tree.Info(leaf).ID,
					Message: d.Message,
				})
			}
		}
	}

	return decorations
}

func (c *Collection) handleConfigChanged(e ConfigChangedEvent) {
	workspace := c.backend.Workspace()

	if e.Affects(workspace, m.SettingCodeLens) {
		c.ComputeCodeLenses()
	}

	if e.Affects(workspace, m.SettingGutterDecoration) || e.Affects(workspace, m.SettingErrorDecoration) {
		c.bus.Publish(DecorationsChangedEvent{Collection: c.id})
	}
}

// Summary counts the leaves of the tree by current state.
func (c *Collection) Summary() m.Summary {
	var summary m.Summary

	if c.tree == nil || c.tree.Root() == NoNode {
		return summary
	}

	for _, leaf := range c.tree.Leaves(c.tree.Root()) {
		summary.Add(c.tree.State(leaf).Current)
	}

	return summary
}

// Snapshot captures the collection for persistence.
func (c *Collection) Snapshot() m.CollectionSnapshot {
	snapshot := m.CollectionSnapshot{ID: c.id, Error: c.errorMessage}

	if c.tree != nil && c.tree.Root() != NoNode {
		snapshot.Root = c.snapshotNode(c.tree.Root())
	}

	return snapshot
}

func (c *Collection) snapshotNode(n NodeID) *m.NodeSnapshot {
	info := c.tree.Info(n)
	snapshot := &m.NodeSnapshot{
		ID:      info.ID,
		Kind:    info.Kind,
		Label:   info.DisplayLabel(),
		State:   c.tree.State(n),
		Message: c.tree.Message(n),
	}

	for _, child := range c.tree.Children(n) {
		snapshot.Children = append(snapshot.Children, c.snapshotNode(child))
	}

	return snapshot
}

// Load asks the backend to rediscover its tests.
func (c *Collection) Load(ctx context.Context) error {
	if err := c.backend.Load(ctx); err != nil {
		slog.Error("failed to start load", "collection", c.id, "error", err)
		return fmt.Errorf("load %s: %w", c.id, err)
	}

	return nil
}

// Run asks the backend to run the given ids.
func (c *Collection) Run(ctx context.Context, ids []string) error {
	if err := c.backend.Run(ctx, ids); err != nil {
		slog.Error("failed to start run", "collection", c.id, "ids", ids, "error", err)
		return fmt.Errorf("run %s: %w", c.id, err)
	}

	return nil
}

// Debug asks the backend to debug the given ids.
func (c *Collection) Debug(ctx context.Context, ids []string) error {
	if err := c.backend.Debug(ctx, ids); err != nil {
		return fmt.Errorf("debug %s: %w", c.id, err)
	}

	return nil
}

// Cancel forwards a cancel request to the backend.
func (c *Collection) Cancel() {
	c.backend.Cancel()
}

// Dispose detaches the collection from the bus and drops its tree.
func (c *Collection) Dispose() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}

	c.tree = nil
	c.locations = nil
	c.codeLenses = nil
	c.testFiles = nil
}
