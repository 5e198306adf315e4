package grip

import "maps"

// Properties is the normalized record produced by one property load for one
// node path.
type Properties struct {
	OwnProperties    map[string]*Descriptor `json:"ownProperties,omitempty"`
	OwnSymbols       []*SymbolProperty      `json:"ownSymbols,omitempty"`
	Prototype        *Value                 `json:"prototype,omitempty"`
	SafeGetterValues map[string]*Descriptor `json:"safeGetterValues,omitempty"`
	FullText         string                 `json:"fullText,omitempty"`
}

// SymbolProperty is an own property keyed by a symbol.
type SymbolProperty struct {
	Name       string      `json:"name"`
	Descriptor *Descriptor `json:"descriptor,omitempty"`
}

// Merge folds several partial responses into one record. Later own
// properties win over earlier ones; the first non-empty symbols, prototype and
// full text are kept.
func Merge(responses ...*Properties) *Properties {
	out := &Properties{}
	for _, r := range responses {
		if r == nil {
			continue
		}
		if r.OwnProperties != nil {
			if out.OwnProperties == nil {
				out.OwnProperties = make(map[string]*Descriptor, len(r.OwnProperties))
			}
			maps.Copy(out.OwnProperties, r.OwnProperties)
		}
		if r.SafeGetterValues != nil {
			if out.SafeGetterValues == nil {
				out.SafeGetterValues = make(map[string]*Descriptor, len(r.SafeGetterValues))
			}
			maps.Copy(out.SafeGetterValues, r.SafeGetterValues)
		}
		if len(r.OwnSymbols) > 0 && len(out.OwnSymbols) == 0 {
			out.OwnSymbols = r.OwnSymbols
		}
		if r.Prototype != nil && out.Prototype == nil {
			out.Prototype = r.Prototype
		}
		if r.FullText != "" && out.FullText == "" {
			out.FullText = r.FullText
		}
	}
	return out
}

// HasPrototype reports whether a non-null prototype is present.
func (p *Properties) HasPrototype() bool {
	return p != nil && p.Prototype != nil && !p.Prototype.IsNull()
}
