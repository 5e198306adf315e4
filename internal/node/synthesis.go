package node

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/mabhi256/gripview/internal/grip"
)

// MakeNodesForAccessors emits <get> then <set>, skipping undefined sides.
func MakeNodesForAccessors(n *Node) []*Node {
	var out []*Node
	if get := Getter(n); get != nil && !get.IsUndefined() {
		out = append(out, New(Options{Parent: n, Name: NameGet, Contents: WithValue(get), Type: TypeGet}))
	}
	if set := Setter(n); set != nil && !set.IsUndefined() {
		out = append(out, New(Options{Parent: n, Name: NameSet, Contents: WithValue(set), Type: TypeSet}))
	}
	return out
}

// MakeNodesForProxyProperties emits <target> then <handler>.
func MakeNodesForProxyProperties(n *Node) []*Node {
	g := valueGrip(n)
	var target, handler *grip.Value
	if g != nil {
		target, handler = g.ProxyTarget, g.ProxyHandler
	}
	return []*Node{
		New(Options{Parent: n, Name: NameTarget, Contents: WithValue(orNull(target)), Type: TypeProxyTarget}),
		New(Options{Parent: n, Name: NameHandler, Contents: WithValue(orNull(handler)), Type: TypeProxyHandler}),
	}
}

// MakeNodesForPromiseProperties emits whichever of <state>, <reason> and
// <value> the promise preview carries. It panics when n is not a promise;
// callers gate on IsPromise.
func MakeNodesForPromiseProperties(n *Node) []*Node {
	g := valueGrip(n)
	if g == nil || g.PromiseState == nil {
		panic(fmt.Sprintf("node %s has no promise state", n.Path))
	}

	ps := g.PromiseState
	var out []*Node
	if ps.State != "" {
		out = append(out, New(Options{Parent: n, Name: NameState, Contents: WithValue(grip.String(ps.State)), Type: TypePromiseState}))
	}
	if ps.Reason != nil {
		out = append(out, New(Options{Parent: n, Name: NameReason, Contents: WithValue(ps.Reason), Type: TypePromiseReason}))
	}
	if ps.Value != nil {
		out = append(out, New(Options{Parent: n, Name: NameValue, Contents: WithValue(ps.Value), Type: TypePromiseValue}))
	}
	return out
}

// MakeNodesForMapEntry emits <key> then <value> from a map entry preview.
func MakeNodesForMapEntry(n *Node) []*Node {
	g := valueGrip(n)
	if g == nil || g.Preview == nil {
		return []*Node{}
	}
	return []*Node{
		New(Options{Parent: n, Name: NameKey, Contents: WithValue(orNull(g.Preview.Key)), Type: TypeMapEntryKey}),
		New(Options{Parent: n, Name: NameValue, Contents: WithValue(orNull(g.Preview.Value)), Type: TypeMapEntryValue}),
	}
}

// MakeNodeForEntries builds the <entries> node of a collection. When the
// preview already lists everything, the entries are attached as children;
// otherwise the node has nil contents and must be loaded.
func MakeNodeForEntries(n *Node) *Node {
	entries := New(Options{Parent: n, Name: NameEntries, Type: TypeEntries})
	if !HasAllEntriesInPreview(n) {
		return entries
	}

	p := valueGrip(n).Preview
	var children []*Node
	if p.Entries != nil {
		children = make([]*Node, 0, len(p.Entries))
		for i, e := range p.Entries {
			children = append(children, New(Options{
				Parent:   entries,
				Name:     strconv.Itoa(i),
				Contents: WithValue(grip.NewMapEntry(orNull(e[0]), orNull(e[1]))),
			}))
		}
	} else {
		children = make([]*Node, 0, len(p.Items))
		for i, item := range p.Items {
			children = append(children, New(Options{
				Parent:   entries,
				Name:     strconv.Itoa(i),
				Contents: WithValue(orNull(item)),
			}))
		}
	}
	entries.Contents = WithChildren(children)
	return entries
}

// MakeNodesForProperties turns a loaded properties record into the ordered
// children of parent. windowProps lists the names grouped under
// <default properties> when parent is a global window object.
func MakeNodesForProperties(props *grip.Properties, parent *Node, windowProps WindowProperties) []*Node {
	if props == nil {
		props = &grip.Properties{}
	}

	all := make(map[string]*grip.Descriptor, len(props.OwnProperties)+len(props.SafeGetterValues))
	maps.Copy(all, props.OwnProperties)
	maps.Copy(all, props.SafeGetterValues)

	names := make([]string, 0, len(all))
	for name, d := range all {
		if !d.IsEmpty() {
			names = append(names, name)
		}
	}
	// map order is random; sort first so the stable sort sees a fixed input
	slices.Sort(names)
	SortProperties(names)

	var nodes []*Node
	if IsWindow(parent) {
		nodes = makeDefaultPropsBucket(names, parent, all, windowProps)
	} else {
		nodes = makeNodesForOwnProps(names, parent, all)
	}

	for i, sym := range props.OwnSymbols {
		if sym == nil {
			continue
		}
		nodes = append(nodes, New(Options{
			Parent:   parent,
			Name:     sym.Name,
			Segment:  fmt.Sprintf("symbol-%d", i),
			Contents: FromDescriptor(sym.Descriptor),
		}))
	}

	if IsPromise(parent) {
		nodes = append(nodes, MakeNodesForPromiseProperties(parent)...)
	}

	if HasEntries(parent) {
		nodes = append(nodes, MakeNodeForEntries(parent))
	}

	if props.HasPrototype() {
		nodes = append(nodes, New(Options{
			Parent:   parent,
			Name:     NamePrototype,
			Contents: WithValue(props.Prototype),
			Type:     TypePrototype,
		}))
	}

	if nodes == nil {
		return []*Node{}
	}
	return nodes
}

func makeNodesForOwnProps(names []string, parent *Node, all map[string]*grip.Descriptor) []*Node {
	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, New(Options{
			Parent:   parent,
			Name:     EscapePropertyName(name),
			Contents: FromDescriptor(all[name]),
		}))
	}
	return nodes
}

func makeDefaultPropsBucket(names []string, parent *Node, all map[string]*grip.Descriptor, windowProps WindowProperties) []*Node {
	var userNames, defaultNames []string
	for _, name := range names {
		if windowProps.Contains(name) {
			defaultNames = append(defaultNames, name)
		} else {
			userNames = append(userNames, name)
		}
	}

	nodes := makeNodesForOwnProps(userNames, parent, all)
	if len(defaultNames) == 0 {
		return nodes
	}

	bucket := New(Options{Parent: parent, Name: NameDefaultProperties, Type: TypeDefaultProperties})
	bucket.Contents = WithChildren(makeNodesForOwnProps(defaultNames, bucket, all))
	return append(nodes, bucket)
}

func orNull(v *grip.Value) *grip.Value {
	if v == nil {
		return grip.Null()
	}
	return v
}
