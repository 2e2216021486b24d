// Package model defines the data structures shared by the test explorer.
package model

// NodeKind tags a NodeInfo as a suite or a test.
type NodeKind string

const (
	// KindSuite is a container node.
	KindSuite NodeKind = "suite"
	// KindTest is a leaf node.
	KindTest NodeKind = "test"
)

// NodeInfo describes a suite or a test as reported by a backend.
// Children of a suite may be appended while the suite runs.
type NodeInfo struct {
	ID       string      `yaml:"id"`
	Kind     NodeKind    `yaml:"type"`
	Label    string      `yaml:"label"`
	File     Path        `yaml:"file,omitempty"`
	Line     *int        `yaml:"line,omitempty"`
	Skipped  bool        `yaml:"skipped,omitempty"`
	Tooltip  string      `yaml:"tooltip,omitempty"`
	Children []*NodeInfo `yaml:"children,omitempty"`
}

// Suite builds a suite description.
func Suite(id, label string, children ...*NodeInfo) *NodeInfo {
	return &NodeInfo{ID: id, Kind: KindSuite, Label: label, Children: children}
}

// Test builds a test description.
func Test(id, label string) *NodeInfo {
	return &NodeInfo{ID: id, Kind: KindTest, Label: label}
}

// At sets the source location and returns the same info for chaining.
func (n *NodeInfo) At(file Path, line int) *NodeInfo {
	n.File = file
	n.Line = &line

	return n
}

// IsSuite reports whether the info describes a suite.
func (n *NodeInfo) IsSuite() bool {
	return n.Kind == KindSuite
}

// HasLocation reports whether both file and line are known.
func (n *NodeInfo) HasLocation() bool {
	return n.File != "" && n.Line != nil
}

// LineNumber returns the line or -1 when unknown.
func (n *NodeInfo) LineNumber() int {
	if n.Line == nil {
		return -1
	}

	return *n.Line
}

// DisplayLabel falls back to the id when the label is empty.
func (n *NodeInfo) DisplayLabel() string {
	if n.Label == "" {
		return n.ID
	}

	return n.Label
}
