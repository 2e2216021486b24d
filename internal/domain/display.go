package domain

import (
	"fmt"

	m "testtree.dev/pkg/testtree/internal/model"
)

// ToDisplayItem projects a node for rendering.
func ToDisplayItem(c *Collection, n NodeID) m.DisplayItem {
	tree := c.Tree()
	info := tree.Info(n)
	state := tree.State(n)

	item := m.DisplayItem{
		Ref:         c.Ref(n),
		Label:       info.DisplayLabel(),
		Icon:        DisplayIcon(state),
		State:       state,
		Collapsible: tree.IsSuite(n),
		Tooltip:     info.Tooltip,
		File:        info.File,
		Line:        info.LineNumber(),
		Message:     tree.Message(n),
	}

	if item.Tooltip == "" {
		item.Tooltip = info.ID
	}

	return item
}

// ErrorItem projects the error placeholder of a collection whose load failed.
func ErrorItem(c *Collection) m.DisplayItem {
	return m.DisplayItem{
		Ref:     m.NodeRef{Collection: c.ID()},
		Label:   "Error: " + c.ErrorMessage(),
		Icon:    m.IconError,
		Tooltip: c.ErrorMessage(),
		Message: c.ErrorMessage(),
		Line:    -1,
		Error:   true,
	}
}

// TopLevelItems lists what a tree view shows without expanding anything.
// With a single non-empty collection its root is skipped and the root's
// children are shown directly.
func (e *Explorer) TopLevelItems() []m.DisplayItem {
	var nonEmpty []*Collection

	for _, c := range e.collections {
		if !c.Empty() {
			nonEmpty = append(nonEmpty, c)
		}
	}

	if len(nonEmpty) == 1 {
		c := nonEmpty[0]
		if c.Tree() == nil {
			return []m.DisplayItem{ErrorItem(c)}
		}

		return childItems(c, c.Tree().Root())
	}

	items := make([]m.DisplayItem, 0, len(nonEmpty))

	for _, c := range nonEmpty {
		if c.Tree() == nil {
			items = append(items, ErrorItem(c))
			continue
		}

		items = append(items, ToDisplayItem(c, c.Tree().Root()))
	}

	return items
}

// ChildItems lists the children of a suite.
func (e *Explorer) ChildItems(ref m.NodeRef) ([]m.DisplayItem, error) {
	c, n, err := e.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("child items: %w", err)
	}

	return childItems(c, n), nil
}

func childItems(c *Collection, n NodeID) []m.DisplayItem {
	children := c.Tree().Children(n)
	items := make([]m.DisplayItem, 0, len(children))

	for _, child := range children {
		items = append(items, ToDisplayItem(c, child))
	}

	return items
}

// FlattenItems lists every node of every collection depth-first, as used by
// non-interactive listings. Error placeholders appear at depth zero.
func (e *Explorer) FlattenItems() []m.TreeRow {
	var items []m.TreeRow

	for _, c := range e.collections {
		if c.Tree() == nil {
			if c.ErrorMessage() != "" {
				items = append(items, m.TreeRow{DisplayItem: ErrorItem(c)})
			}

			continue
		}

		tree := c.Tree()
		tree.Walk(tree.Root(), func(n NodeID) bool {
			items = append(items, m.TreeRow{DisplayItem: ToDisplayItem(c, n), Depth: tree.Depth(n)})
			return true
		})
	}

	return items
}

// SnapshotRows flattens a saved snapshot the way FlattenItems flattens a live
// explorer.
func SnapshotRows(snapshot m.Snapshot) []m.TreeRow {
	var rows []m.TreeRow

	for _, c := range snapshot.Collections {
		if c.Root == nil {
			if c.Error != "" {
				rows = append(rows, m.TreeRow{DisplayItem: m.DisplayItem{
					Ref:     m.NodeRef{Collection: c.ID},
					Label:   "Error: " + c.Error,
					Icon:    m.IconError,
					Message: c.Error,
					Line:    -1,
					Error:   true,
				}})
			}

			continue
		}

		collection := c.ID

		c.Root.Walk(func(node *m.NodeSnapshot, depth int) {
			rows = append(rows, m.TreeRow{
				DisplayItem: m.DisplayItem{
					Ref:         m.NodeRef{Collection: collection, Node: node.ID},
					Label:       node.Label,
					Icon:        DisplayIcon(node.State),
					State:       node.State,
					Collapsible: node.Kind == m.KindSuite,
					Tooltip:     node.ID,
					Line:        -1,
					Message:     node.Message,
				},
				Depth: depth,
			})
		})
	}

	return rows
}

// SnapshotSummary counts the leaves of a saved snapshot.
func SnapshotSummary(snapshot m.Snapshot) m.Summary {
	var summary m.Summary

	for _, c := range snapshot.Collections {
		if c.Root == nil {
			continue
		}

		c.Root.Walk(func(node *m.NodeSnapshot, _ int) {
			if node.Kind != m.KindSuite {
				summary.Add(node.State.Current)
			}
		})
	}

	return summary
}
