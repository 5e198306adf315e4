package inspector

import (
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
)

// Selectors project a State onto the subtree reachable from a root set, so
// several inspectors can share one store.

func ExpandedPathsFromRoots(s State, roots []*node.Node) map[node.Path]struct{} {
	reachable := s.reachable(paths(roots)...)
	out := make(map[node.Path]struct{})
	for p := range s.ExpandedPaths {
		if _, ok := reachable[p]; ok {
			out[p] = struct{}{}
		}
	}
	return out
}

func LoadedPropertiesFromRoots(s State, roots []*node.Node) resolver.LoadedProperties {
	reachable := s.reachable(paths(roots)...)
	out := resolver.LoadedProperties{}
	for p, props := range s.LoadedProperties {
		if _, ok := reachable[p]; ok {
			out[p] = props
		}
	}
	return out
}

// NodeChildren returns the recorded children of n from the node table.
func NodeChildren(s State, n *node.Node) []*node.Node {
	if n == nil {
		return nil
	}
	childPaths, ok := s.Children[n.Path]
	if !ok {
		return nil
	}
	out := make([]*node.Node, 0, len(childPaths))
	for _, p := range childPaths {
		if c := s.Nodes[p]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

func GetEvaluation(s State, n *node.Node) (Evaluation, bool) {
	if n == nil {
		return Evaluation{}, false
	}
	e, ok := s.Evaluations[n.Path]
	return e, ok
}
