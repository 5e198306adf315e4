package loader

import (
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
)

// ShouldLoadIndexed reports whether the indexed properties of n are fetched.
// Arrays that get bucketed skip this step; each bucket loads its own slice.
func ShouldLoadIndexed(n *node.Node, lookup node.Lookup, loaded resolver.LoadedProperties) bool {
	gripNode := node.ClosestGripNode(n, lookup)
	return node.Value(gripNode) != nil &&
		node.HasProperties(gripNode) &&
		!loaded.Has(n.Path) &&
		!node.HasChildren(n) &&
		!node.IsProxy(n) &&
		!node.NeedsNumericalBuckets(n, lookup) &&
		!node.IsEntries(node.ClosestNonBucketNode(n, lookup)) &&
		!node.IsDefaultProperties(n)
}

func ShouldLoadNonIndexed(n *node.Node, lookup node.Lookup, loaded resolver.LoadedProperties) bool {
	gripNode := node.ClosestGripNode(n, lookup)
	return node.Value(gripNode) != nil &&
		node.HasProperties(gripNode) &&
		!loaded.Has(n.Path) &&
		!node.HasChildren(n) &&
		!node.IsBucket(n) &&
		!node.IsMapEntry(n) &&
		!node.IsEntries(node.ClosestNonBucketNode(n, lookup)) &&
		!node.IsDefaultProperties(n)
}

// ShouldLoadEntries is true for an <entries> node, or a bucket below one,
// whose content was not already in the preview.
func ShouldLoadEntries(n *node.Node, lookup node.Lookup, loaded resolver.LoadedProperties) bool {
	gripNode := node.ClosestGripNode(n, lookup)
	return node.Value(gripNode) != nil &&
		node.IsEntries(node.ClosestNonBucketNode(n, lookup)) &&
		!loaded.Has(n.Path) &&
		!node.HasChildren(n) &&
		!node.NeedsNumericalBuckets(n, lookup)
}

func ShouldLoadPrototype(n *node.Node, loaded resolver.LoadedProperties) bool {
	return node.Value(n) != nil &&
		!loaded.Has(n.Path) &&
		!node.IsBucket(n) &&
		!node.IsMapEntry(n) &&
		!node.IsEntries(n) &&
		!node.IsDefaultProperties(n) &&
		!node.HasAccessors(n) &&
		!node.IsPrimitive(n) &&
		!node.IsLongString(n) &&
		!node.IsProxy(n)
}

// ShouldLoadSymbols follows the same rule as the prototype.
func ShouldLoadSymbols(n *node.Node, loaded resolver.LoadedProperties) bool {
	return ShouldLoadPrototype(n, loaded)
}

func ShouldLoadFullText(n *node.Node, loaded resolver.LoadedProperties) bool {
	return !loaded.Has(n.Path) && node.IsLongString(n) && !node.HasFullText(n)
}
