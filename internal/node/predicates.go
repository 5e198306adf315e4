package node

import "github.com/mabhi256/gripview/internal/grip"

// MaxNumericalProperties is the number of indexed properties above which a
// node's children are split into buckets.
const MaxNumericalProperties = 100

// Value returns the value a node stands for: its value, else its getter value.
// Accessor-only nodes and containers have no value.
func Value(n *Node) *grip.Value {
	if n == nil || n.Contents == nil {
		return nil
	}
	if n.Contents.Value != nil {
		return n.Contents.Value
	}
	return n.Contents.GetterValue
}

func valueGrip(n *Node) *grip.Grip {
	return Value(n).Grip()
}

func valueKind(n *Node) grip.Kind {
	return Value(n).Kind()
}

func HasValue(n *Node) bool {
	return n != nil && n.Contents != nil && n.Contents.Value != nil
}

func HasGetterValue(n *Node) bool {
	return n != nil && n.Contents != nil && n.Contents.GetterValue != nil
}

// HasChildren reports whether the node carries a concrete children list.
func HasChildren(n *Node) bool {
	return n != nil && n.Contents != nil && n.Contents.hasChildren
}

// Getter returns the accessor getter, if any.
func Getter(n *Node) *grip.Value {
	if n == nil || n.Contents == nil {
		return nil
	}
	return n.Contents.Get
}

// Setter returns the accessor setter, if any.
func Setter(n *Node) *grip.Value {
	if n == nil || n.Contents == nil {
		return nil
	}
	return n.Contents.Set
}

// HasAccessors reports whether a getter or setter is present and not
// undefined.
func HasAccessors(n *Node) bool {
	get, set := Getter(n), Setter(n)
	return (get != nil && !get.IsUndefined()) || (set != nil && !set.IsUndefined())
}

func IsObject(n *Node) bool {
	return Value(n).IsObject()
}

func IsArrayLike(n *Node) bool {
	return valueGrip(n).IsArrayLike()
}

func HasProperties(n *Node) bool {
	return !HasChildren(n) && IsObject(n)
}

func IsBucket(n *Node) bool            { return n != nil && n.Type == TypeBucket }
func IsEntries(n *Node) bool           { return n != nil && n.Type == TypeEntries }
func IsDefaultProperties(n *Node) bool { return n != nil && n.Type == TypeDefaultProperties }
func IsPrototype(n *Node) bool         { return n != nil && n.Type == TypePrototype }
func IsGetter(n *Node) bool            { return n != nil && n.Type == TypeGet }
func IsSetter(n *Node) bool            { return n != nil && n.Type == TypeSet }
func IsBlock(n *Node) bool             { return n != nil && n.Type == TypeBlock }

func IsMapEntry(n *Node) bool   { return valueKind(n) == grip.KindMapEntry }
func IsLongString(n *Node) bool { return valueKind(n) == grip.KindLongString }
func IsProxy(n *Node) bool      { return valueKind(n) == grip.KindProxy }
func IsPromise(n *Node) bool    { return valueKind(n) == grip.KindPromise }
func IsWindow(n *Node) bool     { return valueKind(n) == grip.KindWindow }
func IsFunction(n *Node) bool   { return valueKind(n) == grip.KindFunction }
func IsError(n *Node) bool      { return valueKind(n) == grip.KindError }

// HasEntries reports whether the node is a keyed or set-like collection whose
// content is exposed through an <entries> child.
func HasEntries(n *Node) bool {
	switch valueKind(n) {
	case grip.KindMap, grip.KindSet, grip.KindStorage:
		return true
	default:
		return false
	}
}

func HasFullText(n *Node) bool {
	return IsLongString(n) && Value(n).HasFullText()
}

func IsOptimizedOut(n *Node) bool {
	g := valueGrip(n)
	return !HasChildren(n) && g != nil && g.OptimizedOut
}

func IsUninitializedBinding(n *Node) bool {
	g := valueGrip(n)
	return g != nil && g.Uninitialized
}

// IsUnmappedBinding reports a binding present in the original source but with
// no match in the generated code.
func IsUnmappedBinding(n *Node) bool {
	g := valueGrip(n)
	return g != nil && g.Unmapped
}

// IsUnscopedBinding reports a binding found by the parser but not reported by
// the debugger server.
func IsUnscopedBinding(n *Node) bool {
	g := valueGrip(n)
	return g != nil && g.Unscoped
}

func IsMissingArguments(n *Node) bool {
	g := valueGrip(n)
	return !HasChildren(n) && g != nil && g.MissingArguments
}

// IsPrimitive reports a terminal node: never expandable, never fetched.
func IsPrimitive(n *Node) bool {
	return !HasChildren(n) &&
		!HasProperties(n) &&
		!IsEntries(n) &&
		!IsMapEntry(n) &&
		!HasAccessors(n) &&
		!IsBucket(n) &&
		!IsLongString(n)
}

// SupportsNumericalBucketing excludes collections with entries: there the
// <entries> node is the one that gets bucketed.
func SupportsNumericalBucketing(n *Node) bool {
	return (IsArrayLike(n) && !HasEntries(n)) || IsEntries(n) || IsBucket(n)
}

func NeedsNumericalBuckets(n *Node, lookup Lookup) bool {
	return SupportsNumericalBucketing(n) && NumericalPropertiesCount(n, lookup) > MaxNumericalProperties
}

// HasAllEntriesInPreview reports whether the preview already lists every
// entry or item of the collection.
func HasAllEntriesInPreview(n *Node) bool {
	g := valueGrip(n)
	if g == nil || g.Preview == nil {
		return false
	}
	p := g.Preview
	switch {
	case p.Entries != nil:
		return len(p.Entries) == p.Size
	case p.Items != nil:
		return len(p.Items) == p.Length
	default:
		return false
	}
}
