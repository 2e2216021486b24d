package domain

import (
	"fmt"
	"log/slog"
	"slices"

	m "testtree.dev/pkg/testtree/internal/model"
)

// NodeID indexes a node inside its Tree.
type NodeID int

// NoNode is the parent of the root and the result of failed lookups.
const NoNode NodeID = -1

// Updates is the dirty flag consumed by the debouncer.
type Updates uint8

// Available Updates values, ordered by strength.
const (
	UpdateNone Updates = iota
	UpdateSend
	UpdateRecalc
)

func (u Updates) String() string {
	switch u {
	case UpdateSend:
		return "send"
	case UpdateRecalc:
		return "recalc"
	default:
		return "none"
	}
}

type testArm struct {
	message     string
	decorations []m.Decoration
}

type suiteArm struct {
	children []NodeID
}

type node struct {
	info   *m.NodeInfo
	state  m.NodeState
	needed Updates
	parent NodeID
	depth  int
	test   *testArm
	suite  *suiteArm
}

// Tree is the arena holding every node of one collection.
// Parent and child links are indices into the arena.
type Tree struct {
	nodes []node
	byID  map[string]NodeID
	dirty map[NodeID]struct{}
}

// NewTree builds a tree from a backend-supplied root description.
func NewTree(root *m.NodeInfo) *Tree {
	t := &Tree{
		byID:  make(map[string]NodeID),
		dirty: make(map[NodeID]struct{}),
	}

	if root != nil {
		t.build(root, NoNode, 0)
	}

	return t
}

func (t *Tree) build(info *m.NodeInfo, parent NodeID, depth int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{info: info, parent: parent, depth: depth})

	if _, exists := t.byID[info.ID]; exists {
		slog.Warn("duplicate node id in tree", "id", info.ID)
	}

	t.byID[info.ID] = id

	if !info.IsSuite() {
		t.nodes[id].test = &testArm{}
		t.nodes[id].state = DefaultState(info.Skipped)

		return id
	}

	arm := &suiteArm{children: make([]NodeID, 0, len(info.Children))}

	for _, child := range info.Children {
		if child == nil {
			continue
		}

		arm.children = append(arm.children, t.build(child, id, depth+1))
	}

	t.nodes[id].suite = arm
	t.nodes[id].state = ParentState(t.childStates(id))

	return id
}

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}

	return 0
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Lookup resolves a backend id.
func (t *Tree) Lookup(id string) (NodeID, bool) {
	n, ok := t.byID[id]
	return n, ok
}

func (t *Tree) valid(n NodeID) bool {
	return n >= 0 && int(n) < len(t.nodes)
}

// Info returns the backend description of n.
func (t *Tree) Info(n NodeID) *m.NodeInfo {
	return t.nodes[n].info
}

// State returns the cached state of n.
func (t *Tree) State(n NodeID) m.NodeState {
	return t.nodes[n].state
}

// Needed returns the pending update flag of n.
func (t *Tree) Needed(n NodeID) Updates {
	return t.nodes[n].needed
}

// Parent returns the parent of n, or NoNode for the root.
func (t *Tree) Parent(n NodeID) NodeID {
	return t.nodes[n].parent
}

// Depth returns the distance from the root.
func (t *Tree) Depth(n NodeID) int {
	return t.nodes[n].depth
}

// IsSuite reports whether n is a container.
func (t *Tree) IsSuite(n NodeID) bool {
	return t.nodes[n].suite != nil
}

// Children returns the ordered children of a suite; nil for tests.
func (t *Tree) Children(n NodeID) []NodeID {
	if arm := t.nodes[n].suite; arm != nil {
		return arm.children
	}

	return nil
}

// Message returns the log message attached to a test.
func (t *Tree) Message(n NodeID) string {
	if arm := t.nodes[n].test; arm != nil {
		return arm.message
	}

	return ""
}

// Decorations returns the decorations attached to a test.
func (t *Tree) Decorations(n NodeID) []m.Decoration {
	if arm := t.nodes[n].test; arm != nil {
		return arm.decorations
	}

	return nil
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (t *Tree) Walk(n NodeID, fn func(NodeID) bool) {
	if !t.valid(n) {
		return
	}

	t.walk(n, fn)
}

func (t *Tree) walk(n NodeID, fn func(NodeID) bool) bool {
	if !fn(n) {
		return false
	}

	for _, child := range t.Children(n) {
		if !t.walk(child, fn) {
			return false
		}
	}

	return true
}

// Leaves returns the tests under n, or n itself when it is a test.
func (t *Tree) Leaves(n NodeID) []NodeID {
	var leaves []NodeID

	t.Walk(n, func(id NodeID) bool {
		if !t.IsSuite(id) {
			leaves = append(leaves, id)
		}

		return true
	})

	return leaves
}

func (t *Tree) childStates(n NodeID) []m.NodeState {
	children := t.Children(n)
	states := make([]m.NodeState, len(children))

	for i, child := range children {
		states[i] = t.nodes[child].state
	}

	return states
}

func (t *Tree) mark(n NodeID, u Updates) {
	if !t.valid(n) {
		return
	}

	if t.nodes[n].needed < u {
		t.nodes[n].needed = u
	}

	t.dirty[n] = struct{}{}
}

// markChanged flags a mutated leaf for sending and its parent for recalculation.
func (t *Tree) markChanged(n NodeID) {
	t.mark(n, UpdateSend)
	t.mark(t.nodes[n].parent, UpdateRecalc)
}

// Dirty reports whether any node carries a pending update.
func (t *Tree) Dirty() bool {
	return len(t.dirty) > 0
}

// SetCurrentState sets the live state of a test and attaches the run payload.
// Scheduling a test clears the payload of the previous run.
func (t *Tree) SetCurrentState(n NodeID, state m.CurrentState, message string, decorations []m.Decoration) {
	arm := t.nodes[n].test
	if arm == nil {
		return
	}

	t.nodes[n].state.Current = state

	if state == m.CurrentScheduled {
		arm.message = ""
		arm.decorations = nil
	}

	if message != "" {
		arm.message = message
	}

	if decorations != nil {
		arm.decorations = decorations
	}

	t.markChanged(n)
}

// RetireState moves finished states into previous, recursively for suites.
func (t *Tree) RetireState(n NodeID) {
	if arm := t.nodes[n].suite; arm != nil {
		for _, child := range arm.children {
			t.RetireState(child)
		}

		t.mark(n, UpdateRecalc)

		return
	}

	state := t.nodes[n].state
	if !state.Current.Finished() {
		return
	}

	baseline := DefaultState(t.nodes[n].info.Skipped)
	t.nodes[n].state.Previous = m.PreviousState(state.Current)
	t.nodes[n].state.Current = baseline.Current
	t.markChanged(n)
}

// ResetState forces current and previous back to the baseline, keeping autorun.
func (t *Tree) ResetState(n NodeID) {
	if arm := t.nodes[n].suite; arm != nil {
		for _, child := range arm.children {
			t.ResetState(child)
		}

		t.mark(n, UpdateRecalc)

		return
	}

	baseline := DefaultState(t.nodes[n].info.Skipped)
	baseline.Autorun = t.nodes[n].state.Autorun

	arm := t.nodes[n].test
	if t.nodes[n].state == baseline && arm.message == "" && arm.decorations == nil {
		return
	}

	t.nodes[n].state = baseline
	arm.message = ""
	arm.decorations = nil

	t.markChanged(n)
}

// SelectNode marks tests as selected without touching previous.
func (t *Tree) SelectNode(n NodeID) {
	if arm := t.nodes[n].suite; arm != nil {
		for _, child := range arm.children {
			t.SelectNode(child)
		}

		t.mark(n, UpdateRecalc)

		return
	}

	if t.nodes[n].state.Current == m.CurrentSelected {
		return
	}

	t.nodes[n].state.Current = m.CurrentSelected
	t.markChanged(n)
}

// SetAutorun sets the autorun flag on n and every descendant.
func (t *Tree) SetAutorun(n NodeID, autorun bool) {
	if arm := t.nodes[n].suite; arm != nil {
		for _, child := range arm.children {
			t.SetAutorun(child, autorun)
		}

		t.mark(n, UpdateRecalc)

		return
	}

	if t.nodes[n].state.Autorun == autorun {
		return
	}

	t.nodes[n].state.Autorun = autorun
	t.markChanged(n)
}

// RecalcState recomputes a suite from its children. When the result differs
// it is stored, the suite is flagged for sending and its parent for
// recalculation, and true is returned.
func (t *Tree) RecalcState(n NodeID) bool {
	if t.nodes[n].suite == nil {
		return false
	}

	next := ParentState(t.childStates(n))
	if next == t.nodes[n].state {
		if t.nodes[n].needed == UpdateRecalc {
			t.nodes[n].needed = UpdateNone
		}

		return false
	}

	t.nodes[n].state = next
	t.nodes[n].needed = UpdateSend
	t.dirty[n] = struct{}{}
	t.mark(t.nodes[n].parent, UpdateRecalc)

	return true
}

// AppendChild merges a dynamically discovered node under a suite.
func (t *Tree) AppendChild(parent NodeID, info *m.NodeInfo) (NodeID, error) {
	if !t.valid(parent) || t.nodes[parent].suite == nil {
		return NoNode, fmt.Errorf("append %q: %w", info.ID, ErrNotSuite)
	}

	if _, exists := t.byID[info.ID]; exists {
		return NoNode, fmt.Errorf("append %q: %w", info.ID, ErrDuplicateNode)
	}

	parentInfo := t.nodes[parent].info
	parentInfo.Children = append(parentInfo.Children, info)

	child := t.build(info, parent, t.nodes[parent].depth+1)
	arm := t.nodes[parent].suite
	arm.children = append(arm.children, child)

	t.mark(parent, UpdateRecalc)

	return child, nil
}

// Settle recalculates every flagged suite, children before parents, and
// returns the topmost nodes whose rendering changed. All flags are cleared.
func (t *Tree) Settle() []NodeID {
	if len(t.dirty) == 0 {
		return nil
	}

	buckets := make(map[int][]NodeID)
	maxDepth := 0

	for n := range t.dirty {
		if t.nodes[n].needed != UpdateRecalc {
			continue
		}

		d := t.nodes[n].depth
		buckets[d] = append(buckets[d], n)

		if d > maxDepth {
			maxDepth = d
		}
	}

	for depth := maxDepth; depth >= 0; depth-- {
		for _, n := range buckets[depth] {
			if !t.RecalcState(n) {
				continue
			}

			if parent := t.nodes[n].parent; parent != NoNode && t.nodes[parent].needed == UpdateRecalc {
				buckets[depth-1] = appendUnique(buckets[depth-1], parent)
			}
		}
	}

	var changed []NodeID

	for n := range t.dirty {
		if t.nodes[n].needed == UpdateSend && !t.ancestorSends(n) {
			changed = append(changed, n)
		}
	}

	for n := range t.dirty {
		t.nodes[n].needed = UpdateNone
	}

	clear(t.dirty)
	slices.Sort(changed)

	return changed
}

func (t *Tree) ancestorSends(n NodeID) bool {
	for p := t.nodes[n].parent; p != NoNode; p = t.nodes[p].parent {
		if t.nodes[p].needed == UpdateSend {
			return true
		}
	}

	return false
}

func appendUnique(ids []NodeID, id NodeID) []NodeID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}

	return append(ids, id)
}
