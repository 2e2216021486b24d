package model

import "time"

// Snapshot is a serialisable picture of every collection at one instant.
type Snapshot struct {
	RunID       string               `yaml:"run_id,omitempty"`
	CreatedAt   time.Time            `yaml:"created_at"`
	Collections []CollectionSnapshot `yaml:"collections"`
}

// CollectionSnapshot is the picture of one collection.
type CollectionSnapshot struct {
	ID    string        `yaml:"id"`
	Error string        `yaml:"error,omitempty"`
	Root  *NodeSnapshot `yaml:"root,omitempty"`
}

// NodeSnapshot is the picture of one node and its descendants.
type NodeSnapshot struct {
	ID       string          `yaml:"id"`
	Kind     NodeKind        `yaml:"type"`
	Label    string          `yaml:"label"`
	State    NodeState       `yaml:"state"`
	Message  string          `yaml:"message,omitempty"`
	Children []*NodeSnapshot `yaml:"children,omitempty"`
}

// Summary counts leaves by current state.
type Summary struct {
	Passed   int
	Failed   int
	Skipped  int
	Pending  int
	Other    int
	Duration time.Duration
}

// Total returns the number of counted leaves.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Skipped + s.Pending + s.Other
}

// Add counts one leaf.
func (s *Summary) Add(state CurrentState) {
	switch state {
	case CurrentPassed:
		s.Passed++
	case CurrentFailed:
		s.Failed++
	case CurrentSkipped:
		s.Skipped++
	case CurrentPending:
		s.Pending++
	default:
		s.Other++
	}
}

// Walk visits the snapshot node and its descendants depth-first.
func (n *NodeSnapshot) Walk(fn func(node *NodeSnapshot, depth int)) {
	n.walk(fn, 0)
}

func (n *NodeSnapshot) walk(fn func(node *NodeSnapshot, depth int), depth int) {
	fn(n, depth)

	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}
