package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testtree.dev/pkg/testtree/internal/adapter"
	m "testtree.dev/pkg/testtree/internal/model"
)

type fakeHost struct {
	loadsStarted  int
	loadsFinished int
	runsStarted   int
	runsFinished  int
	nodeChanges   int
	treeChanges   int
	runRequests   [][]string
}

func (h *fakeHost) loadStarted()  { h.loadsStarted++ }
func (h *fakeHost) loadFinished() { h.loadsFinished++ }
func (h *fakeHost) runStarted()   { h.runsStarted++ }
func (h *fakeHost) runFinished()  { h.runsFinished++ }
func (h *fakeHost) nodeChanged()  { h.nodeChanges++ }
func (h *fakeHost) treeChanged()  { h.treeChanges++ }

func (h *fakeHost) runNodes(_ *Collection, ids []string) {
	h.runRequests = append(h.runRequests, ids)
}

type collectionFixture struct {
	collection *Collection
	host       *fakeHost
	bus        *ChangeBus
	config     *adapter.StaticConfigSource
	events     []Event
}

func newCollectionFixture(t *testing.T, settings m.Settings) *collectionFixture {
	t.Helper()

	f := &collectionFixture{
		host:   &fakeHost{},
		bus:    NewChangeBus(),
		config: adapter.NewStaticConfigSource(settings),
	}

	f.bus.Subscribe(func(e Event) { f.events = append(f.events, e) })

	backend := adapter.NewReplayBackend(adapter.ReplayScript{ID: "c", Workspace: "ws", Load: adapter.ReplayLoad{Error: "unused"}})
	f.collection = newCollection(backend, f.config, f.bus, f.host)

	t.Cleanup(f.collection.Dispose)

	return f
}

func (f *collectionFixture) load(info *m.NodeInfo) {
	f.collection.HandleLoadEvent(m.LoadEvent{Type: m.LoadStarted})
	f.collection.HandleLoadEvent(m.LoadEvent{Type: m.LoadFinished, Suite: info})
}

func (f *collectionFixture) run(events ...m.RunEvent) {
	for _, e := range events {
		f.collection.HandleRunEvent(e)
	}
}

func (f *collectionFixture) state(t *testing.T, id string) m.NodeState {
	t.Helper()

	tree := f.collection.Tree()
	require.NotNil(t, tree)

	// Pending recalculations are applied the way the debouncer would.
	tree.Settle()

	return tree.State(mustLookup(t, tree, id))
}

func twoLeaves() *m.NodeInfo {
	return m.Suite("root", "root", m.Test("a", "a"), m.Test("b", "b"))
}

func resetOnReload() m.Settings {
	settings := m.DefaultSettings()
	settings.OnReload = m.PolicyReset

	return settings
}

func TestCollection_LoadWithReset(t *testing.T) {
	f := newCollectionFixture(t, resetOnReload())
	f.load(twoLeaves())

	assert.Equal(t, m.CurrentPending, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "b").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "root").Current)

	assert.Equal(t, 1, f.host.loadsStarted)
	assert.Equal(t, 1, f.host.loadsFinished)
	assert.Equal(t, 1, f.host.treeChanges)
	assert.Equal(t, PhaseIdle, f.collection.Phase())
	assert.Equal(t, "root", f.collection.RootID())
	assert.Contains(t, f.events, Event(CollectionLoadedEvent{Collection: "c"}))
}

func TestCollection_RunSingleLeaf(t *testing.T) {
	f := newCollectionFixture(t, resetOnReload())
	f.load(twoLeaves())

	f.run(m.RunStartedEvent("a"))
	assert.Equal(t, m.CurrentScheduled, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentScheduled, f.state(t, "root").Current)
	assert.Equal(t, PhaseRunning, f.collection.Phase())
	assert.Equal(t, 1, f.host.runsStarted)

	f.run(m.TestEvent("a", m.CurrentRunning))
	assert.Equal(t, m.CurrentRunning, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentRunning, f.state(t, "root").Current)

	f.run(m.TestEvent("a", m.CurrentPassed))
	assert.Equal(t, m.CurrentPassed, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "root").Current)

	f.run(m.RunFinishedEvent())
	assert.Equal(t, m.CurrentPassed, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "b").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "root").Current)
	assert.Equal(t, PhaseIdle, f.collection.Phase())
	assert.Equal(t, 1, f.host.runsFinished)
	assert.Contains(t, f.events, Event(CollectionRunFinishedEvent{Collection: "c"}))
}

func TestCollection_FinishedResetsScheduled(t *testing.T) {
	f := newCollectionFixture(t, resetOnReload())
	f.load(twoLeaves())

	f.run(m.RunStartedEvent("root"))
	assert.Equal(t, m.CurrentScheduled, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentScheduled, f.state(t, "b").Current)

	f.run(m.RunFinishedEvent())
	assert.Equal(t, m.CurrentPending, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "b").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "root").Current)
}

func TestCollection_SetAndClearAutorun(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(m.Suite("root", "root", m.Suite("s", "s", m.Test("a", "a")), m.Test("b", "b")))

	require.NoError(t, f.collection.SetAutorun("root"))
	assert.True(t, f.state(t, "a").Autorun)
	assert.True(t, f.state(t, "s").Autorun)

	target, ok := f.collection.AutorunTarget()
	assert.True(t, ok)
	assert.Equal(t, "root", target)

	f.collection.ClearAutorun()

	for _, id := range []string{"root", "s", "a", "b"} {
		assert.False(t, f.state(t, id).Autorun, id)
	}

	_, ok = f.collection.AutorunTarget()
	assert.False(t, ok)

	require.ErrorIs(t, f.collection.SetAutorun("missing"), ErrUnknownNode)
}

func TestCollection_DynamicSuite(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())
	f.host.treeChanges = 0

	f.run(
		m.RunStartedEvent("root"),
		m.SuiteEvent("root", m.SuiteRunning),
		m.RunEvent{Type: m.RunSuite, SuiteState: m.SuiteRunning, Info: &m.NodeInfo{ID: "s1"}},
	)

	tree := f.collection.Tree()
	root := tree.Root()
	s1 := mustLookup(t, tree, "s1")

	assert.Contains(t, tree.Children(root), s1)
	assert.True(t, tree.IsSuite(s1))
	assert.Equal(t, UpdateRecalc, tree.Needed(root))
	assert.Equal(t, 1, f.host.treeChanges)

	// Dynamic tests land in the innermost open suite.
	f.run(m.RunEvent{Type: m.RunTest, TestState: m.CurrentFailed, Info: m.Test("s1/x", "x"), Message: "boom"})

	x := mustLookup(t, tree, "s1/x")
	assert.Equal(t, s1, tree.Parent(x))
	assert.Equal(t, m.CurrentFailed, f.state(t, "s1/x").Current)

	// Completing s1 pops it, so the next dynamic test goes under root.
	f.run(
		m.SuiteEvent("s1", m.SuiteCompleted),
		m.RunEvent{Type: m.RunTest, TestState: m.CurrentPassed, Info: m.Test("y", "y")},
	)
	assert.Equal(t, root, tree.Parent(mustLookup(t, tree, "y")))

	f.run(m.RunFinishedEvent())
	assert.Equal(t, m.CurrentFailed, f.state(t, "s1").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "a").Current)
}

func TestCollection_DynamicTestMergedOnRepeat(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())

	f.run(
		m.RunStartedEvent("root"),
		m.RunEvent{Type: m.RunSuite, SuiteState: m.SuiteRunning, Info: &m.NodeInfo{ID: "s1"}},
	)

	tree := f.collection.Tree()
	s1 := mustLookup(t, tree, "s1")
	before := tree.Len()

	f.run(m.RunEvent{Type: m.RunTest, TestState: m.CurrentRunning, Info: m.Test("s1/x", "x")})
	x := mustLookup(t, tree, "s1/x")
	assert.Equal(t, before+1, tree.Len())
	assert.Equal(t, m.CurrentRunning, f.state(t, "s1/x").Current)

	// A second report for the same id updates the existing node.
	f.run(m.RunEvent{Type: m.RunTest, TestState: m.CurrentPassed, Info: m.Test("s1/x", "x")})

	assert.Equal(t, before+1, tree.Len())
	assert.Equal(t, []NodeID{x}, tree.Children(s1))
	assert.Equal(t, x, mustLookup(t, tree, "s1/x"))
	assert.Equal(t, m.CurrentPassed, f.state(t, "s1/x").Current)
}

func TestCollection_FailedReloadDuringRunSettlesRunning(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())

	f.run(m.RunStartedEvent("root"))
	require.Equal(t, PhaseRunning, f.collection.Phase())
	f.events = nil

	f.collection.HandleLoadEvent(m.LoadEvent{Type: m.LoadStarted})
	f.collection.HandleLoadEvent(m.LoadEvent{Type: m.LoadFinished, ErrorMessage: "parse error"})

	// The backend's finish arrives after the tree is gone and is dropped.
	f.run(m.RunFinishedEvent())

	assert.Equal(t, PhaseIdle, f.collection.Phase())
	assert.Equal(t, 1, f.host.runsStarted)
	assert.Equal(t, 1, f.host.runsFinished)
	assert.Contains(t, f.events, Event(CollectionRunFinishedEvent{Collection: "c"}))
}

func TestCollection_ReloadDuringRunSettlesRunning(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())

	f.run(m.RunStartedEvent("root"), m.TestEvent("a", m.CurrentRunning))
	f.load(twoLeaves())

	assert.Equal(t, PhaseIdle, f.collection.Phase())
	assert.Equal(t, 1, f.host.runsFinished)

	// A late finish does not end the run twice.
	f.run(m.RunFinishedEvent())
	assert.Equal(t, 1, f.host.runsFinished)
}

func TestCollection_IgnoredRunEvents(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())

	// No tree yet: dropped.
	f.run(m.RunStartedEvent("root"))
	assert.Equal(t, PhaseIdle, f.collection.Phase())

	f.load(twoLeaves())
	f.run(
		m.RunStartedEvent("a", "unknown"),
		// Wrong kind.
		m.SuiteEvent("a", m.SuiteRunning),
		// Unknown without an open suite.
		m.RunEvent{Type: m.RunTest, TestState: m.CurrentPassed, Info: m.Test("z", "z")},
		// Unsupported state.
		m.TestEvent("b", m.CurrentSelected),
		// Inline info of the wrong kind.
		m.SuiteEvent("root", m.SuiteRunning),
		m.RunEvent{Type: m.RunTest, TestState: m.CurrentPassed, Info: m.Suite("w", "w")},
	)

	tree := f.collection.Tree()
	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, m.CurrentScheduled, f.state(t, "a").Current)
	assert.Equal(t, m.CurrentPending, f.state(t, "b").Current)
}

func TestCollection_TestOutsideScheduledSetIsTracked(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())

	f.run(
		m.RunStartedEvent("a"),
		m.TestEvent("b", m.CurrentRunning),
		m.RunFinishedEvent(),
	)

	assert.Equal(t, m.CurrentPending, f.state(t, "b").Current, "running leaves are cleared on finished")
}

func TestCollection_OnStartPolicies(t *testing.T) {
	for _, tt := range []struct {
		policy m.Policy
		want   m.NodeState
	}{
		{m.PolicyNothing, m.NodeState{Current: m.CurrentPassed, Previous: m.PreviousPending}},
		{m.PolicyRetire, m.NodeState{Current: m.CurrentPending, Previous: m.PreviousPassed}},
		{m.PolicyReset, m.NodeState{Current: m.CurrentPending, Previous: m.PreviousPending}},
	} {
		t.Run(string(tt.policy), func(t *testing.T) {
			settings := m.DefaultSettings()
			settings.OnStart = tt.policy

			f := newCollectionFixture(t, settings)
			f.load(twoLeaves())
			f.run(
				m.RunStartedEvent("a", "b"),
				m.TestEvent("a", m.CurrentPassed),
				m.TestEvent("b", m.CurrentPassed),
				m.RunFinishedEvent(),
			)

			f.run(m.RunStartedEvent("a"))
			assert.Equal(t, m.CurrentScheduled, f.state(t, "a").Current)
			assert.Equal(t, tt.want, f.state(t, "b"))
		})
	}
}

func TestCollection_OnReloadRetire(t *testing.T) {
	settings := m.DefaultSettings()
	settings.OnReload = m.PolicyRetire

	f := newCollectionFixture(t, settings)

	passed := twoLeaves()
	f.load(passed)
	f.run(m.RunStartedEvent("a"), m.TestEvent("a", m.CurrentPassed), m.RunFinishedEvent())

	snapshot := f.collection.Snapshot()
	require.NotNil(t, snapshot.Root)
	assert.Equal(t, m.CurrentPassed, snapshot.Root.Children[0].State.Current)

	// A fresh load starts from baseline states, then retires them.
	f.load(twoLeaves())
	assert.Equal(t, DefaultState(false), f.state(t, "a"))
}

func TestCollection_LoadError(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())
	require.NoError(t, f.collection.SetAutorun("a"))

	f.collection.HandleLoadEvent(m.LoadEvent{Type: m.LoadFinished, ErrorMessage: "syntax error"})

	assert.Nil(t, f.collection.Tree())
	assert.Equal(t, "syntax error", f.collection.ErrorMessage())
	assert.False(t, f.collection.Empty())
	assert.Empty(t, f.collection.RootID())
	assert.Equal(t, m.CollectionSnapshot{ID: "c", Error: "syntax error"}, f.collection.Snapshot())
	assert.Equal(t, m.Summary{}, f.collection.Summary())

	// The autorun target cannot be found without a tree.
	_, ok := f.collection.AutorunTarget()
	assert.False(t, ok)
}

func TestCollection_ReloadRearmsAutorun(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())
	require.NoError(t, f.collection.SetAutorun("b"))

	f.load(twoLeaves())

	assert.True(t, f.state(t, "b").Autorun)
	assert.Equal(t, [][]string{{"b"}}, f.host.runRequests)

	f.collection.HandleAutorun()
	assert.Equal(t, [][]string{{"b"}, {"b"}}, f.host.runRequests)

	f.load(m.Suite("root", "root", m.Test("a", "a")))

	_, ok := f.collection.AutorunTarget()
	assert.False(t, ok, "vanished target is dropped")

	f.collection.HandleAutorun()
	assert.Len(t, f.host.runRequests, 2)
}

func TestCollection_RetireAndResetCommands(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(twoLeaves())
	f.run(m.RunStartedEvent("root"), m.TestEvent("a", m.CurrentPassed), m.TestEvent("b", m.CurrentFailed), m.RunFinishedEvent())

	require.NoError(t, f.collection.RetireNode("a"))
	assert.Equal(t, m.NodeState{Current: m.CurrentPending, Previous: m.PreviousPassed}, f.state(t, "a"))
	assert.Equal(t, m.CurrentFailed, f.state(t, "b").Current)

	f.collection.RetireAll()
	assert.Equal(t, m.PreviousFailed, f.state(t, "b").Previous)

	require.NoError(t, f.collection.ResetNode("b"))
	assert.Equal(t, DefaultState(false), f.state(t, "b"))

	f.collection.ResetAll()
	assert.Equal(t, DefaultState(false), f.state(t, "a"))

	require.ErrorIs(t, f.collection.RetireNode("nope"), ErrUnknownNode)
	require.ErrorIs(t, f.collection.ResetNode("nope"), ErrUnknownNode)
}

func locatedTree() *m.NodeInfo {
	return m.Suite("root", "root",
		m.Suite("s", "s",
			m.Test("t1", "t1").At("x_test.go", 10),
			m.Test("t2", "t2").At("x_test.go", 10),
			m.Test("t3", "t3").At("x_test.go", 20),
		).At("x_test.go", 1),
		m.Test("t4", "t4").At("y_test.go", 4),
		m.Test("t5", "t5").At("./y_test.go", 8),
	)
}

func TestCollection_CodeLenses(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(locatedTree())

	lenses := f.collection.CodeLenses("x_test.go")
	require.Len(t, lenses, 6)
	assert.Equal(t, m.CodeLens{Kind: m.LensRun, File: "x_test.go", Line: 1, Title: "Run", NodeIDs: []string{"s"}}, lenses[0])
	assert.Equal(t, m.CodeLens{Kind: m.LensDebug, File: "x_test.go", Line: 10, Title: "Debug (2)", NodeIDs: []string{"t1", "t2"}}, lenses[3])

	assert.Len(t, f.collection.CodeLenses("y_test.go"), 4)
	assert.Equal(t, []m.Path{"x_test.go", "y_test.go"}, f.collection.LensFiles())
	assert.Equal(t, []m.Path{"x_test.go", "y_test.go"}, f.collection.TestFiles())
	assert.Equal(t, map[int][]string{1: {"s"}, 10: {"t1", "t2"}, 20: {"t3"}}, f.collection.LocatedNodes("x_test.go"))
	assert.Nil(t, f.collection.LocatedNodes("z_test.go"))

	// Turning lenses off empties them and the config event reports the file.
	f.config.Default.CodeLens = false
	f.events = nil
	f.bus.Publish(ConfigChangedEvent{Workspace: "ws", Keys: []string{m.SettingCodeLens}})

	assert.Empty(t, f.collection.CodeLenses("x_test.go"))
	assert.Contains(t, f.events, Event(CodeLensesChangedEvent{Collection: "c", Files: []m.Path{"x_test.go", "y_test.go"}}))

	// Other workspaces are ignored.
	f.config.Default.CodeLens = true
	f.bus.Publish(ConfigChangedEvent{Workspace: "other", Keys: []string{m.SettingCodeLens}})
	assert.Empty(t, f.collection.CodeLenses("x_test.go"))
}

func TestCollection_Decorations(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(locatedTree())
	f.run(
		m.RunStartedEvent("s"),
		m.RunEvent{Type: m.RunTest, NodeID: "t3", TestState: m.CurrentFailed, Decorations: []m.Decoration{{Line: 22, Message: "boom"}}},
		m.TestEvent("t1", m.CurrentPassed),
		m.RunFinishedEvent(),
	)

	decorations := f.collection.Decorations("x_test.go")
	assert.Equal(t, []m.LineDecoration{
		{File: "x_test.go", Line: 10, NodeID: "t1", Gutter: m.IconPassed},
		{File: "x_test.go", Line: 10, NodeID: "t2", Gutter: m.IconPending},
		{File: "x_test.go", Line: 20, NodeID: "t3", Gutter: m.IconFailed},
		{File: "x_test.go", Line: 22, NodeID: "t3", Message: "boom"},
	}, decorations)

	f.config.Default.GutterDecoration = false
	assert.Equal(t, []m.LineDecoration{{File: "x_test.go", Line: 22, NodeID: "t3", Message: "boom"}}, f.collection.Decorations("x_test.go"))

	f.config.Default.ErrorDecoration = false
	assert.Empty(t, f.collection.Decorations("x_test.go"))
}

func TestCollection_SelectFile(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	f.load(locatedTree())

	assert.Equal(t, 0, f.collection.SelectFile("z_test.go"))
	assert.Nil(t, f.collection.SelectedRoots())

	assert.Equal(t, 2, f.collection.SelectFile("y_test.go"))
	assert.Equal(t, []string{"t4", "t5"}, f.collection.SelectedRoots())
	assert.Equal(t, m.CurrentSelected, f.state(t, "t4").Current)
}

func TestCollection_SummaryAndDispose(t *testing.T) {
	f := newCollectionFixture(t, m.DefaultSettings())
	skipped := m.Test("c", "c")
	skipped.Skipped = true

	f.load(m.Suite("root", "root", m.Test("a", "a"), m.Test("b", "b"), skipped))
	f.run(m.RunStartedEvent("a", "b"), m.TestEvent("a", m.CurrentPassed), m.TestEvent("b", m.CurrentFailed), m.RunFinishedEvent())

	assert.Equal(t, m.Summary{Passed: 1, Failed: 1, Skipped: 1}, f.collection.Summary())

	before := f.bus.Len()
	f.collection.Dispose()
	assert.Equal(t, before-1, f.bus.Len())
	assert.Nil(t, f.collection.Tree())
	assert.True(t, f.collection.Empty())
}
