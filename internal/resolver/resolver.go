package resolver

import (
	"slices"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/node"
)

// LoadedProperties maps a node path to the properties fetched for it.
type LoadedProperties map[node.Path]*grip.Properties

func (l LoadedProperties) Has(p node.Path) bool {
	_, ok := l[p]
	return ok
}

type Config struct {
	CacheSize        int
	WindowProperties node.WindowProperties
}

// Resolver derives the children of a node from the node itself and the
// properties loaded so far. Both of its caches can be dropped at any time
// without affecting the tree it produces.
type Resolver struct {
	children *ChildrenCache
	nodes    *NodeRegistry
	window   node.WindowProperties
}

func New(cfg Config) (*Resolver, error) {
	children, err := NewChildrenCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	window := cfg.WindowProperties
	if window == nil {
		window = node.DefaultWindowProperties()
	}

	return &Resolver{
		children: children,
		nodes:    NewNodeRegistry(),
		window:   window,
	}, nil
}

// Lookup resolves paths against every node the resolver has seen.
func (r *Resolver) Lookup() node.Lookup {
	return r.nodes
}

// Register makes nodes known to the resolver's lookup.
func (r *Resolver) Register(nodes ...*node.Node) {
	r.nodes.Register(nodes...)
}

// GetChildren returns the children of n. An empty result that is not cached
// means the node's properties are still pending; calling again once they are
// loaded yields the real children.
func (r *Resolver) GetChildren(loaded LoadedProperties, n *node.Node) []*node.Node {
	if n == nil {
		return []*node.Node{}
	}
	if cached, ok := r.children.Get(n.Path); ok {
		return cached
	}

	r.nodes.Register(n)
	props, hasLoaded := loaded[n.Path]

	switch {
	case node.HasChildren(n):
		return r.cache(n, n.Contents.Children)

	case node.HasAccessors(n):
		return r.cache(n, node.MakeNodesForAccessors(n))

	case node.IsMapEntry(n):
		return r.cache(n, node.MakeNodesForMapEntry(n))

	case node.IsProxy(n):
		return r.cache(n, node.MakeNodesForProxyProperties(n))

	case node.IsLongString(n) && hasLoaded:
		return r.cache(n, []*node.Node{node.WithFullText(n, fullText(props))})

	case node.NeedsNumericalBuckets(n, r.nodes) && hasLoaded:
		buckets := node.MakeNumericalBuckets(n, r.nodes)
		return r.cache(n, append(buckets, node.MakeNodesForProperties(props, n, r.window)...))

	case !node.IsEntries(n) && !node.IsBucket(n) && !node.HasProperties(n):
		return []*node.Node{}

	case !hasLoaded:
		return []*node.Node{}

	default:
		return r.cache(n, node.MakeNodesForProperties(props, n, r.window))
	}
}

// Cached reports whether a children list is memoized for p.
func (r *Resolver) Cached(p node.Path) bool {
	return r.children.Has(p)
}

// Forget drops every cached entry for paths.
func (r *Resolver) Forget(paths ...node.Path) {
	r.children.Remove(paths...)
	r.nodes.Delete(paths...)
}

// Reconcile swaps every memoized child of p for latest(child). The memoized
// list is rewritten only when an entry changes, so repeated calls with the same
// latest return the same slice. It reports false when nothing is memoized for p.
func (r *Resolver) Reconcile(p node.Path, latest func(*node.Node) *node.Node) ([]*node.Node, bool) {
	cached, ok := r.children.Get(p)
	if !ok {
		return nil, false
	}

	var out []*node.Node
	for i, c := range cached {
		current := latest(c)
		if current == c {
			continue
		}
		if out == nil {
			out = slices.Clone(cached)
		}
		out[i] = current
	}
	if out == nil {
		return cached, true
	}
	r.children.Add(p, out)
	r.nodes.Register(out...)
	return out, true
}

// Reset empties both caches.
func (r *Resolver) Reset() {
	r.children.Purge()
	r.nodes.Clear()
}

func (r *Resolver) cache(n *node.Node, children []*node.Node) []*node.Node {
	if children == nil {
		children = []*node.Node{}
	}
	r.children.Add(n.Path, children)
	r.nodes.Register(children...)
	return children
}

func fullText(props *grip.Properties) string {
	if props == nil {
		return ""
	}
	return props.FullText
}
