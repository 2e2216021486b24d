package model

// NodeRef identifies a node across collections.
type NodeRef struct {
	Collection string `yaml:"collection"`
	Node       string `yaml:"node"`
}

// Candidate is offered to a picker when a command targets several nodes.
type Candidate struct {
	Ref   NodeRef
	Label string
}

// DisplayItem is a renderer-independent projection of one node.
type DisplayItem struct {
	Ref         NodeRef
	Label       string
	Icon        IconKind
	State       NodeState
	Collapsible bool
	Tooltip     string
	File        Path
	Line        int
	Message     string
	Error       bool
}

// CodeLensKind is the action a code lens triggers.
type CodeLensKind string

// Available CodeLensKind values.
const (
	LensRun   CodeLensKind = "run"
	LensDebug CodeLensKind = "debug"
)

// CodeLens is a run or debug affordance placed next to a test definition.
type CodeLens struct {
	Kind    CodeLensKind
	File    Path
	Line    int
	Title   string
	NodeIDs []string
}

// LineDecoration is a decoration resolved to a file and node.
type LineDecoration struct {
	File    Path
	Line    int
	NodeID  string
	Message string
	Gutter  IconKind
}

// TreeRow is a display item with its depth, as shown by flat listings.
type TreeRow struct {
	DisplayItem
	Depth int
}
