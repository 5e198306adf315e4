package inspector

import (
	"maps"

	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
)

// Reducer applies actions to states. It owns the resolver whose caches it
// keeps in line with the node table.
type Reducer struct {
	resolver *resolver.Resolver
}

func NewReducer(r *resolver.Resolver) *Reducer {
	return &Reducer{resolver: r}
}

func (r *Reducer) Reduce(s State, action Action) State {
	switch a := action.(type) {
	case NodeExpand:
		return r.expand(s, a)
	case NodeCollapse:
		return r.collapse(s, a)
	case NodeFocus:
		if a.Node != nil {
			s.Focused = a.Node.Path
		}
		return s
	case NodePropertiesLoaded:
		return r.propertiesLoaded(s, a)
	case GetterInvoked:
		return r.getterInvoked(s, a)
	case RootsChanged:
		return r.rootsChanged(s, a)
	case Resume, Navigate:
		r.resolver.Reset()
		return NewState()
	default:
		return s
	}
}

func (r *Reducer) expand(s State, a NodeExpand) State {
	if a.Node == nil || node.IsPrimitive(s.Latest(a.Node)) || s.IsExpanded(a.Node.Path) {
		return s
	}
	s.ExpandedPaths = with(s.ExpandedPaths, a.Node.Path, struct{}{})
	return s
}

func (r *Reducer) collapse(s State, a NodeCollapse) State {
	if a.Node == nil || !s.IsExpanded(a.Node.Path) {
		return s
	}
	expanded := maps.Clone(s.ExpandedPaths)
	delete(expanded, a.Node.Path)
	s.ExpandedPaths = expanded
	return s
}

func (r *Reducer) propertiesLoaded(s State, a NodePropertiesLoaded) State {
	if a.Node == nil || a.Properties == nil {
		return s
	}
	// the path was pruned while its fetch was in flight
	n, ok := s.Nodes[a.Node.Path]
	if !ok {
		return s
	}

	s.LoadedProperties = with(s.LoadedProperties, n.Path, a.Properties)
	if a.Actor != "" {
		s.Actors = with(s.Actors, n.Path, a.Actor)
	}

	if a.Properties.FullText != "" {
		// the resolver hands back the patched string as its only child
		if children := r.resolver.GetChildren(s.LoadedProperties, n); len(children) == 1 {
			s.Nodes = with(s.Nodes, n.Path, children[0])
			r.resolver.Reconcile(n.Parent, s.Latest)
		}
		return s
	}

	return r.registerChildren(s, n)
}

// getterInvoked swaps the accessor node for one holding the returned value and
// drops whatever was derived from the accessor form.
func (r *Reducer) getterInvoked(s State, a GetterInvoked) State {
	if a.Node == nil {
		return s
	}
	n, ok := s.Nodes[a.Node.Path]
	if !ok {
		return s
	}
	wasExpanded := s.IsExpanded(n.Path)

	s = r.purge(s, s.subtree(n.Path))

	if wasExpanded {
		s.ExpandedPaths = with(s.ExpandedPaths, n.Path, struct{}{})
	}
	s.Evaluations = with(s.Evaluations, n.Path, Evaluation{Timestamp: a.Timestamp, GetterValue: a.Value})
	s.Nodes = with(s.Nodes, n.Path, node.WithGetterValue(n, a.Value))
	r.resolver.Reconcile(n.Parent, s.Latest)
	return s
}

func (r *Reducer) rootsChanged(s State, a RootsChanged) State {
	if len(a.Old) > 0 {
		s = r.purge(s, s.reachable(paths(a.Old)...))
	}

	s.Roots = a.New
	for _, root := range a.New {
		if root == nil {
			continue
		}
		s.Nodes = with(s.Nodes, root.Path, root)
		s = r.registerChildren(s, root)
	}
	return s
}

// registerChildren resolves n's children and records them, and every pre-set
// descendant, in the node table and the children adjacency.
func (r *Reducer) registerChildren(s State, n *node.Node) State {
	children := r.resolver.GetChildren(s.LoadedProperties, n)

	nodes := maps.Clone(s.Nodes)
	adjacency := maps.Clone(s.Children)
	if nodes == nil {
		nodes = node.Table{}
	}
	if adjacency == nil {
		adjacency = map[node.Path][]node.Path{}
	}

	var record func(parent node.Path, children []*node.Node)
	record = func(parent node.Path, children []*node.Node) {
		childPaths := make([]node.Path, 0, len(children))
		for _, c := range children {
			// a long string resolves to its own patched copy
			if c.Path == parent {
				nodes[c.Path] = c
				continue
			}
			nodes[c.Path] = c
			childPaths = append(childPaths, c.Path)
			if node.HasChildren(c) {
				record(c.Path, c.Contents.Children)
			}
		}
		adjacency[parent] = childPaths
	}
	record(n.Path, children)

	s.Nodes = nodes
	s.Children = adjacency
	return s
}

// purge removes every trace of the given paths from s and the resolver.
func (r *Reducer) purge(s State, purged map[node.Path]struct{}) State {
	if len(purged) == 0 {
		return s
	}

	s.Actors = without(s.Actors, purged)
	s.Children = without(s.Children, purged)
	s.Evaluations = without(s.Evaluations, purged)
	s.LoadedProperties = without(s.LoadedProperties, purged)
	s.ExpandedPaths = without(s.ExpandedPaths, purged)
	s.Nodes = without(s.Nodes, purged)

	forget := make([]node.Path, 0, len(purged))
	for p := range purged {
		forget = append(forget, p)
	}
	r.resolver.Forget(forget...)
	return s
}

// ExclusiveActors lists, once each, the actors held by paths reachable from
// oldRoots that no surviving path and none of newRoots still refer to.
func ExclusiveActors(s State, oldRoots, newRoots []*node.Node) []string {
	return exclusiveActors(s, s.reachable(paths(oldRoots)...), newRoots)
}

// StaleGetterActors lists the actors that invoking the getter at p releases.
func StaleGetterActors(s State, p node.Path) []string {
	return exclusiveActors(s, s.subtree(p), s.Roots)
}

func exclusiveActors(s State, purged map[node.Path]struct{}, roots []*node.Node) []string {
	keep := make(map[string]struct{})
	for p, actor := range s.Actors {
		if _, gone := purged[p]; !gone {
			keep[actor] = struct{}{}
		}
	}
	for _, root := range roots {
		if actor := node.Value(root).Actor(); actor != "" {
			keep[actor] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for p := range purged {
		actor, ok := s.Actors[p]
		if !ok {
			continue
		}
		if _, kept := keep[actor]; kept {
			continue
		}
		if _, dup := seen[actor]; dup {
			continue
		}
		seen[actor] = struct{}{}
		out = append(out, actor)
	}
	return out
}
