package grip

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Grip is the shallow protocol descriptor of a remote value.
type Grip struct {
	Type              string   `json:"type"`
	Class             string   `json:"class,omitempty"`
	Actor             string   `json:"actor,omitempty"`
	Preview           *Preview `json:"preview,omitempty"`
	OwnPropertyLength int      `json:"ownPropertyLength,omitempty"`
	IsError           bool     `json:"isError,omitempty"`

	// Long strings
	Initial  string  `json:"initial,omitempty"`
	Length   int     `json:"length,omitempty"`
	FullText *string `json:"fullText,omitempty"`

	// Symbols
	Name string `json:"name,omitempty"`

	// Proxies
	ProxyTarget  *Value `json:"proxyTarget,omitempty"`
	ProxyHandler *Value `json:"proxyHandler,omitempty"`

	// Promises
	PromiseState *PromiseState `json:"promiseState,omitempty"`

	// Scope bindings reported by the debugger
	OptimizedOut     bool `json:"optimizedOut,omitempty"`
	Uninitialized    bool `json:"uninitialized,omitempty"`
	Unmapped         bool `json:"unmapped,omitempty"`
	Unscoped         bool `json:"unscoped,omitempty"`
	MissingArguments bool `json:"missingArguments,omitempty"`

	kind Kind
}

// Preview is the partial content the server ships along with a grip.
type Preview struct {
	Kind string `json:"kind,omitempty"`

	// ArrayLike
	Length int      `json:"length,omitempty"`
	Items  []*Value `json:"items,omitempty"`

	// MapLike
	Size    int         `json:"size,omitempty"`
	Entries [][2]*Value `json:"entries,omitempty"`

	// mapEntry
	Key   *Value `json:"key,omitempty"`
	Value *Value `json:"value,omitempty"`

	// Object
	OwnProperties       map[string]*Descriptor `json:"ownProperties,omitempty"`
	OwnPropertiesLength int                    `json:"ownPropertiesLength,omitempty"`
}

// PromiseState describes a promise's settlement as previewed by the server.
type PromiseState struct {
	State  string `json:"state,omitempty"`
	Value  *Value `json:"value,omitempty"`
	Reason *Value `json:"reason,omitempty"`
}

func (g *Grip) UnmarshalJSON(data []byte) error {
	type plain Grip
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Grip(p)
	g.kind = classify(g)
	return nil
}

// Kind returns the classification computed at ingestion.
func (g *Grip) Kind() Kind {
	if g == nil {
		return KindPrimitive
	}
	return g.kind
}

// Reclassify recomputes the kind after a grip was built by hand.
func (g *Grip) Reclassify() *Grip {
	g.kind = classify(g)
	return g
}

// IsArrayLike reports whether the preview describes an indexed collection.
func (g *Grip) IsArrayLike() bool {
	return g != nil && g.Type == TypeObject && g.Preview != nil && g.Preview.Kind == PreviewArrayLike
}

// IsMapLike reports whether the preview describes a keyed collection.
func (g *Grip) IsMapLike() bool {
	return g != nil && g.Type == TypeObject && g.Preview != nil && g.Preview.Kind == PreviewMapLike
}

// Value is either a primitive JSON value or a grip. A Value holding neither
// represents null.
type Value struct {
	grip      *Grip
	primitive any
}

// FromGrip wraps a grip, classifying it.
func FromGrip(g *Grip) *Value {
	if g == nil {
		return Null()
	}
	g.Reclassify()
	return &Value{grip: g}
}

func String(s string) *Value { return &Value{primitive: s} }

func Number(f float64) *Value { return &Value{primitive: f} }

func Bool(b bool) *Value { return &Value{primitive: b} }

func Null() *Value { return &Value{} }

func Undefined() *Value { return FromGrip(&Grip{Type: TypeUndefined}) }

// Object builds an object grip value with no preview.
func Object(class, actor string) *Value {
	return FromGrip(&Grip{Type: TypeObject, Class: class, Actor: actor})
}

// NewMapEntry builds the synthetic grip used for a single Map entry.
func NewMapEntry(key, value *Value) *Value {
	return FromGrip(&Grip{
		Type:    TypeMapEntry,
		Preview: &Preview{Key: key, Value: value},
	})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var g Grip
		if err := json.Unmarshal(trimmed, &g); err != nil {
			return fmt.Errorf("decode grip: %w", err)
		}
		v.grip = &g
		v.primitive = nil
		return nil
	}

	var p any
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return fmt.Errorf("decode primitive: %w", err)
	}
	v.grip = nil
	v.primitive = p
	return nil
}

func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	if v.grip != nil {
		return json.Marshal(v.grip)
	}
	return json.Marshal(v.primitive)
}

// Grip returns the grip held by v, or nil for primitives.
func (v *Value) Grip() *Grip {
	if v == nil {
		return nil
	}
	return v.grip
}

// Primitive returns the JSON primitive held by v.
func (v *Value) Primitive() any {
	if v == nil {
		return nil
	}
	return v.primitive
}

func (v *Value) Kind() Kind {
	return v.Grip().Kind()
}

// Type mirrors the grip type, or the JSON type name for primitives.
func (v *Value) Type() string {
	if g := v.Grip(); g != nil {
		return g.Type
	}
	switch v.Primitive().(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return TypeNull
	}
}

// Class returns the object class, empty for anything that is not an object.
func (v *Value) Class() string {
	if g := v.Grip(); g != nil {
		return g.Class
	}
	return ""
}

// Actor returns the server-side actor id, empty when v has none.
func (v *Value) Actor() string {
	if g := v.Grip(); g != nil {
		return g.Actor
	}
	return ""
}

func (v *Value) IsNull() bool {
	if v == nil {
		return true
	}
	if v.grip != nil {
		return v.grip.Type == TypeNull
	}
	return v.primitive == nil
}

func (v *Value) IsUndefined() bool {
	return v.Type() == TypeUndefined
}

func (v *Value) IsObject() bool {
	return v.Type() == TypeObject
}

// HasFullText reports whether a long string already carries its full text.
func (v *Value) HasFullText() bool {
	g := v.Grip()
	return g != nil && g.kind == KindLongString && g.FullText != nil
}

// WithFullText returns a copy of a long string value carrying text.
func (v *Value) WithFullText(text string) *Value {
	g := v.Grip()
	if g == nil {
		return v
	}
	cp := *g
	cp.FullText = &text
	return &Value{grip: &cp}
}

func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	if g := v.grip; g != nil {
		switch g.kind {
		case KindLongString:
			if g.FullText != nil {
				return fmt.Sprintf("%q", *g.FullText)
			}
			return fmt.Sprintf("%q…", g.Initial)
		case KindSymbol:
			return fmt.Sprintf("Symbol(%s)", g.Name)
		case KindPrimitive:
			return g.Type
		case KindMapEntry:
			if g.Preview != nil {
				return fmt.Sprintf("%s → %s", g.Preview.Key, g.Preview.Value)
			}
			return "mapEntry"
		}
		return describeObject(g)
	}
	switch p := v.primitive.(type) {
	case string:
		return fmt.Sprintf("%q", p)
	case nil:
		return "null"
	default:
		return fmt.Sprint(p)
	}
}

func describeObject(g *Grip) string {
	class := g.Class
	if class == "" {
		class = "Object"
	}
	if p := g.Preview; p != nil {
		switch p.Kind {
		case PreviewArrayLike:
			return fmt.Sprintf("%s(%d)", class, p.Length)
		case PreviewMapLike:
			return fmt.Sprintf("%s(%d)", class, p.Size)
		}
	}
	return class
}
