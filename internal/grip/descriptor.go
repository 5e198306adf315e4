package grip

import (
	"encoding/json"
	"fmt"
)

// Descriptor is a property descriptor as reported by the server. Each of the
// value fields is nil when the key was absent from the payload; a key present
// with a JSON null yields a non-nil null Value.
type Descriptor struct {
	Value       *Value
	GetterValue *Value
	Get         *Value
	Set         *Value

	Configurable         bool
	Enumerable           bool
	Writable             bool
	GetterPrototypeLevel int
}

// IsEmpty reports whether the descriptor exposes none of value, getterValue,
// get or set.
func (d *Descriptor) IsEmpty() bool {
	return d == nil || (d.Value == nil && d.GetterValue == nil && d.Get == nil && d.Set == nil)
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode descriptor: %w", err)
	}

	*d = Descriptor{}
	slots := map[string]**Value{
		"value":       &d.Value,
		"getterValue": &d.GetterValue,
		"get":         &d.Get,
		"set":         &d.Set,
	}
	for key, slot := range slots {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		v := &Value{}
		if err := v.UnmarshalJSON(msg); err != nil {
			return fmt.Errorf("decode descriptor %s: %w", key, err)
		}
		*slot = v
	}

	flags := map[string]*bool{
		"configurable": &d.Configurable,
		"enumerable":   &d.Enumerable,
		"writable":     &d.Writable,
	}
	for key, slot := range flags {
		if msg, ok := raw[key]; ok {
			_ = json.Unmarshal(msg, slot)
		}
	}
	if msg, ok := raw["getterPrototypeLevel"]; ok {
		_ = json.Unmarshal(msg, &d.GetterPrototypeLevel)
	}
	return nil
}

func (d *Descriptor) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if d.Value != nil {
		out["value"] = d.Value
	}
	if d.GetterValue != nil {
		out["getterValue"] = d.GetterValue
	}
	if d.Get != nil {
		out["get"] = d.Get
	}
	if d.Set != nil {
		out["set"] = d.Set
	}
	if d.Configurable {
		out["configurable"] = true
	}
	if d.Enumerable {
		out["enumerable"] = true
	}
	if d.Writable {
		out["writable"] = true
	}
	return json.Marshal(out)
}

// ValueDescriptor is shorthand for a plain data property.
func ValueDescriptor(v *Value) *Descriptor {
	return &Descriptor{Value: v, Enumerable: true, Writable: true, Configurable: true}
}

// AccessorDescriptor is shorthand for a get/set property.
func AccessorDescriptor(get, set *Value) *Descriptor {
	return &Descriptor{Get: get, Set: set, Enumerable: true, Configurable: true}
}
