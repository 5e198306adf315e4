package node

import (
	"fmt"

	"github.com/mabhi256/gripview/internal/grip"
)

// Type tags what a node stands for in the tree.
type Type int

const (
	TypeGrip Type = iota
	TypeBucket
	TypeDefaultProperties
	TypeEntries
	TypeGet
	TypeSet
	TypeMapEntryKey
	TypeMapEntryValue
	TypePromiseState
	TypePromiseReason
	TypePromiseValue
	TypeProxyTarget
	TypeProxyHandler
	TypePrototype
	TypeBlock
)

func (t Type) String() string {
	switch t {
	case TypeGrip:
		return "GRIP"
	case TypeBucket:
		return "BUCKET"
	case TypeDefaultProperties:
		return "DEFAULT_PROPERTIES"
	case TypeEntries:
		return "ENTRIES"
	case TypeGet:
		return "GET"
	case TypeSet:
		return "SET"
	case TypeMapEntryKey:
		return "MAP_ENTRY_KEY"
	case TypeMapEntryValue:
		return "MAP_ENTRY_VALUE"
	case TypePromiseState:
		return "PROMISE_STATE"
	case TypePromiseReason:
		return "PROMISE_REASON"
	case TypePromiseValue:
		return "PROMISE_VALUE"
	case TypeProxyTarget:
		return "PROXY_TARGET"
	case TypeProxyHandler:
		return "PROXY_HANDLER"
	case TypePrototype:
		return "PROTOTYPE"
	case TypeBlock:
		return "BLOCK"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Synthetic node names.
const (
	NameGet               = "<get>"
	NameSet               = "<set>"
	NameTarget            = "<target>"
	NameHandler           = "<handler>"
	NameState             = "<state>"
	NameReason            = "<reason>"
	NameValue             = "<value>"
	NameKey               = "<key>"
	NameEntries           = "<entries>"
	NamePrototype         = "<prototype>"
	NameDefaultProperties = "<default properties>"
)

// BucketMeta is the absolute index range covered by a bucket node.
type BucketMeta struct {
	StartIndex int
	EndIndex   int
}

// Node is one position in the inspector tree. Parent is a lookup relation:
// the parent node is resolved through a Lookup, never owned by the child.
type Node struct {
	Name     string
	Path     Path
	Parent   Path
	Contents *Contents
	Type     Type
	Meta     *BucketMeta
}

// Contents is what a node holds. A nil *Contents means the children are not
// known yet.
type Contents struct {
	Value       *grip.Value
	GetterValue *grip.Value
	Get         *grip.Value
	Set         *grip.Value

	Children    []*Node
	hasChildren bool
}

// WithChildren holds a concrete, possibly empty, children list.
func WithChildren(children []*Node) *Contents {
	if children == nil {
		children = []*Node{}
	}
	return &Contents{Children: children, hasChildren: true}
}

// WithValue wraps a single value.
func WithValue(v *grip.Value) *Contents {
	return &Contents{Value: v}
}

// FromDescriptor converts a property descriptor. A nil descriptor yields nil
// contents.
func FromDescriptor(d *grip.Descriptor) *Contents {
	if d == nil {
		return nil
	}
	return &Contents{
		Value:       d.Value,
		GetterValue: d.GetterValue,
		Get:         d.Get,
		Set:         d.Set,
	}
}

// Options describe a node to create.
type Options struct {
	Parent   *Node
	Name     string
	Segment  string // path segment when it differs from Name
	Contents *Contents
	Type     Type
	Meta     *BucketMeta
}

// New creates a node whose path derives from the parent's path and the
// segment (or the name when no segment is given).
func New(opts Options) *Node {
	segment := opts.Segment
	if segment == "" {
		segment = opts.Name
	}

	var parentPath Path
	if opts.Parent != nil {
		parentPath = opts.Parent.Path
	}

	return &Node{
		Name:     opts.Name,
		Path:     parentPath.Child(segment),
		Parent:   parentPath,
		Contents: opts.Contents,
		Type:     opts.Type,
		Meta:     opts.Meta,
	}
}

// NewRoot creates a root node holding value.
func NewRoot(name string, value *grip.Value) *Node {
	return New(Options{Name: name, Contents: WithValue(value)})
}

// Key is the stable identity of a node for list diffing.
func Key(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Path.String()
}

// WithFullText returns a copy of a long string node carrying text. Nodes that
// are not long strings, or already carry their text, come back unchanged.
func WithFullText(n *Node, text string) *Node {
	if !IsLongString(n) || HasFullText(n) {
		return n
	}

	cp := *n
	contents := *n.Contents
	switch {
	case contents.Value != nil:
		contents.Value = contents.Value.WithFullText(text)
	case contents.GetterValue != nil:
		contents.GetterValue = contents.GetterValue.WithFullText(text)
	}
	cp.Contents = &contents
	return &cp
}

// WithGetterValue returns a copy of n whose contents are replaced by the
// result of invoking its getter.
func WithGetterValue(n *Node, v *grip.Value) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Contents = &Contents{GetterValue: v}
	return &cp
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", n.Type, n.Path)
}
