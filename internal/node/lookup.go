package node

import "github.com/mabhi256/gripview/internal/grip"

// Lookup resolves a path to the node registered under it.
type Lookup interface {
	Node(p Path) *Node
}

// Table is a plain map lookup.
type Table map[Path]*Node

func (t Table) Node(p Path) *Node {
	return t[p]
}

// Add registers n and every node of its pre-set children, recursively.
func (t Table) Add(nodes ...*Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		t[n.Path] = n
		if HasChildren(n) {
			t.Add(n.Contents.Children...)
		}
	}
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(p Path) *Node

func (f LookupFunc) Node(p Path) *Node {
	return f(p)
}

// Chain consults each lookup in order and returns the first hit.
func Chain(lookups ...Lookup) Lookup {
	return LookupFunc(func(p Path) *Node {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if n := l.Node(p); n != nil {
				return n
			}
		}
		return nil
	})
}

// ParentOf resolves n's parent, nil for roots or unknown parents.
func ParentOf(n *Node, lookup Lookup) *Node {
	if n == nil || n.Parent.IsZero() || lookup == nil {
		return nil
	}
	return lookup.Node(n.Parent)
}

// ClosestGripNode walks up through buckets, entries and default properties
// nodes to the node that actually holds the inspected object.
func ClosestGripNode(n *Node, lookup Lookup) *Node {
	for n != nil {
		switch n.Type {
		case TypeBucket, TypeDefaultProperties, TypeEntries:
			n = ParentOf(n, lookup)
		default:
			return n
		}
	}
	return nil
}

// ClosestNonBucketNode walks up through buckets only.
func ClosestNonBucketNode(n *Node, lookup Lookup) *Node {
	for n != nil && n.Type == TypeBucket {
		n = ParentOf(n, lookup)
	}
	return n
}

func ParentGripNode(n *Node, lookup Lookup) *Node {
	return ClosestGripNode(ParentOf(n, lookup), lookup)
}

func ParentGripValue(n *Node, lookup Lookup) *grip.Value {
	return Value(ParentGripNode(n, lookup))
}

// NonPrototypeParentGripValue skips <prototype> ancestors, yielding the value
// a getter found on the prototype chain must be invoked against.
func NonPrototypeParentGripValue(n *Node, lookup Lookup) *grip.Value {
	parent := ParentGripNode(n, lookup)
	for parent != nil && parent.Type == TypePrototype {
		parent = ParentGripNode(parent, lookup)
	}
	return Value(parent)
}

// IsRoot reports whether n stands for the same remote object as one of roots.
func IsRoot(n *Node, roots []*Node, lookup Lookup) bool {
	actor := Value(ClosestGripNode(n, lookup)).Actor()
	if actor == "" {
		return false
	}
	for _, r := range roots {
		if Value(r).Actor() == actor {
			return true
		}
	}
	return false
}

// Actor returns the remote object id n holds. Roots never report one: their
// lifetime belongs to whoever supplied them.
func Actor(n *Node, roots []*Node, lookup Lookup) string {
	if IsRoot(n, roots, lookup) {
		return ""
	}
	return Value(n).Actor()
}

// NumericalPropertiesCount is the number of indexed entries n covers.
func NumericalPropertiesCount(n *Node, lookup Lookup) int {
	if IsBucket(n) && n.Meta != nil {
		return n.Meta.EndIndex - n.Meta.StartIndex + 1
	}

	g := Value(ClosestGripNode(n, lookup)).Grip()
	switch {
	case g.IsArrayLike():
		return g.Preview.Length
	case g.IsMapLike():
		return g.Preview.Size
	default:
		return 0
	}
}
