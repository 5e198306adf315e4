package inspector

import (
	"maps"
	"time"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
)

// Evaluation records the last getter invocation for a path.
type Evaluation struct {
	Timestamp   time.Time
	GetterValue *grip.Value
}

// State is an immutable snapshot of one inspector session. Reducers never
// write to the maps of a State they received; they copy the maps they change.
type State struct {
	Roots            []*node.Node
	ExpandedPaths    map[node.Path]struct{}
	LoadedProperties resolver.LoadedProperties
	Actors           map[node.Path]string
	Nodes            node.Table
	Children         map[node.Path][]node.Path
	Evaluations      map[node.Path]Evaluation
	Focused          node.Path
}

// NewState returns the empty state.
func NewState() State {
	return State{
		ExpandedPaths:    map[node.Path]struct{}{},
		LoadedProperties: resolver.LoadedProperties{},
		Actors:           map[node.Path]string{},
		Nodes:            node.Table{},
		Children:         map[node.Path][]node.Path{},
		Evaluations:      map[node.Path]Evaluation{},
	}
}

func (s State) IsExpanded(p node.Path) bool {
	_, ok := s.ExpandedPaths[p]
	return ok
}

// Node returns the latest version of the node registered under p.
func (s State) Node(p node.Path) *node.Node {
	return s.Nodes[p]
}

// Latest swaps n for the version held in the node table, if any.
func (s State) Latest(n *node.Node) *node.Node {
	if n == nil {
		return nil
	}
	if current, ok := s.Nodes[n.Path]; ok {
		return current
	}
	return n
}

// reachable walks the children adjacency from roots.
func (s State) reachable(roots ...node.Path) map[node.Path]struct{} {
	seen := make(map[node.Path]struct{})
	stack := append([]node.Path(nil), roots...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		stack = append(stack, s.Children[p]...)
	}
	return seen
}

// subtree is p plus everything reachable below it.
func (s State) subtree(p node.Path) map[node.Path]struct{} {
	return s.reachable(p)
}

func paths(nodes []*node.Node) []node.Path {
	out := make([]node.Path, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n.Path)
		}
	}
	return out
}

// without drops every key in purged from a copy of m.
func without[V any](m map[node.Path]V, purged map[node.Path]struct{}) map[node.Path]V {
	out := make(map[node.Path]V, len(m))
	for k, v := range m {
		if _, drop := purged[k]; !drop {
			out[k] = v
		}
	}
	return out
}

func with[V any](m map[node.Path]V, key node.Path, value V) map[node.Path]V {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[node.Path]V, 1)
	}
	out[key] = value
	return out
}
