package grip

import "fmt"

// Kind is the closed classification of a remote value, computed once when the
// value is ingested.
type Kind int

const (
	KindPrimitive Kind = iota
	KindObject
	KindFunction
	KindError
	KindWindow
	KindMap
	KindSet
	KindStorage
	KindProxy
	KindPromise
	KindLongString
	KindMapEntry
	KindSymbol
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindObject:
		return "Object"
	case KindFunction:
		return "Function"
	case KindError:
		return "Error"
	case KindWindow:
		return "Window"
	case KindMap:
		return "Map"
	case KindSet:
		return "Set"
	case KindStorage:
		return "Storage"
	case KindProxy:
		return "Proxy"
	case KindPromise:
		return "Promise"
	case KindLongString:
		return "LongString"
	case KindMapEntry:
		return "MapEntry"
	case KindSymbol:
		return "Symbol"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Grip types reported by the debugging protocol.
const (
	TypeObject     = "object"
	TypeLongString = "longString"
	TypeMapEntry   = "mapEntry"
	TypeSymbol     = "symbol"
	TypeUndefined  = "undefined"
	TypeNull       = "null"
)

// Preview kinds reported by the debugging protocol.
const (
	PreviewArrayLike = "ArrayLike"
	PreviewMapLike   = "MapLike"
	PreviewObject    = "Object"
	PreviewError     = "Error"
)

func classify(g *Grip) Kind {
	switch g.Type {
	case TypeLongString:
		return KindLongString
	case TypeMapEntry:
		return KindMapEntry
	case TypeSymbol:
		return KindSymbol
	case TypeObject:
	default:
		return KindPrimitive
	}

	switch g.Class {
	case "Proxy":
		return KindProxy
	case "Promise":
		return KindPromise
	case "Window":
		return KindWindow
	case "Function":
		return KindFunction
	case "Map", "WeakMap":
		return KindMap
	case "Set", "WeakSet":
		return KindSet
	case "Storage":
		return KindStorage
	}

	if g.IsError || (g.Preview != nil && g.Preview.Kind == PreviewError) {
		return KindError
	}
	return KindObject
}
