package tui

import (
	"github.com/mabhi256/gripview/internal/node"
)

type rowKind int

const (
	rowNode rowKind = iota
	rowLoading
	rowError
)

// row is one visible line of the tree.
type row struct {
	node  *node.Node
	depth int
	kind  rowKind
	err   error
}

// rows flattens every expanded subtree in display order. Long strings never
// recurse: their full text is shown on their own line.
func (m *Model) rows() []row {
	st := m.store.State()

	var out []row
	var walk func(nodes []*node.Node, depth int)
	walk = func(nodes []*node.Node, depth int) {
		for _, n := range nodes {
			n = st.Latest(n)
			out = append(out, row{node: n, depth: depth})

			if !st.IsExpanded(n.Path) || node.IsLongString(n) {
				continue
			}
			switch {
			case m.failed[n.Path] != nil:
				out = append(out, row{node: n, depth: depth + 1, kind: rowError, err: m.failed[n.Path]})
			case m.loading[n.Path]:
				out = append(out, row{node: n, depth: depth + 1, kind: rowLoading})
			default:
				walk(m.store.Children(n), depth+1)
			}
		}
	}
	walk(st.Roots, 0)
	return out
}

// parentRow finds the row of the node's parent above index i.
func parentRow(rows []row, i int) int {
	target := rows[i].node.Parent
	if target.IsZero() {
		return i
	}
	for j := i - 1; j >= 0; j-- {
		if rows[j].kind == rowNode && rows[j].node.Path == target {
			return j
		}
	}
	return i
}
