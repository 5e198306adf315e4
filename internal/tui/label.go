package tui

import (
	"fmt"
	"time"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/inspector"
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/utils"
)

// Describe returns the plain text shown after a node's name, empty for
// containers such as buckets and <entries>.
func Describe(store *inspector.Store, n *node.Node, now time.Time) string {
	st := store.State()
	if eval, ok := inspector.GetEvaluation(st, n); ok {
		return fmt.Sprintf("%s (evaluated %s)", eval.GetterValue, utils.FormatAge(now.Sub(eval.Timestamp)))
	}

	switch {
	case node.IsBucket(n), node.IsEntries(n), node.IsDefaultProperties(n), node.IsBlock(n):
		return ""
	case node.IsOptimizedOut(n):
		return "(optimized away)"
	case node.IsUninitializedBinding(n):
		return "(uninitialized)"
	case node.IsUnmappedBinding(n):
		return "(unmapped)"
	case node.IsUnscopedBinding(n):
		return "(unscoped)"
	case node.IsMissingArguments(n):
		return "(unavailable)"
	case node.HasAccessors(n) && !node.HasValue(n) && !node.HasGetterValue(n):
		return accessorLabel(n)
	}

	v := node.Value(n)
	if v == nil {
		return ""
	}
	if node.IsLongString(n) && !node.HasFullText(n) && st.IsExpanded(n.Path) {
		if text, ok := fullText(store, n); ok {
			return fmt.Sprintf("%q", text)
		}
	}
	return v.String()
}

func accessorLabel(n *node.Node) string {
	get, set := node.Getter(n), node.Setter(n)
	hasGet := get != nil && !get.IsUndefined()
	hasSet := set != nil && !set.IsUndefined()
	switch {
	case hasGet && hasSet:
		return "Getter & Setter"
	case hasGet:
		return "Getter"
	default:
		return "Setter"
	}
}

// fullText reads a loaded long string from its single child.
func fullText(store *inspector.Store, n *node.Node) (string, bool) {
	children := store.Children(n)
	if len(children) != 1 {
		return "", false
	}
	g := node.Value(children[0]).Grip()
	if g == nil || g.FullText == nil {
		return "", false
	}
	return *g.FullText, true
}

// valueOf is the value used to color a node's description.
func valueOf(store *inspector.Store, n *node.Node) *grip.Value {
	if eval, ok := inspector.GetEvaluation(store.State(), n); ok {
		return eval.GetterValue
	}
	return node.Value(n)
}
