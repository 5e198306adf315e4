package loader

import (
	"context"

	"github.com/mabhi256/gripview/internal/grip"
)

// EnumOptions splits an enumeration into its indexed and non-indexed halves.
type EnumOptions struct {
	IgnoreIndexedProperties    bool `json:"ignoreIndexedProperties,omitempty"`
	IgnoreNonIndexedProperties bool `json:"ignoreNonIndexedProperties,omitempty"`
}

// Iterator pages through a remote enumeration.
type Iterator interface {
	Count() int
	Slice(ctx context.Context, start, count int) (*grip.Properties, error)
}

// ObjectClient fetches the content of one remote object.
type ObjectClient interface {
	EnumProperties(ctx context.Context, opts EnumOptions) (Iterator, error)
	EnumEntries(ctx context.Context) (Iterator, error)
	EnumSymbols(ctx context.Context) (Iterator, error)
	GetPrototype(ctx context.Context) (*grip.Value, error)
	// GetPropertyValue invokes a getter named name with receiver as this.
	GetPropertyValue(ctx context.Context, name string, receiver *grip.Value) (*grip.Value, error)
}

// LongStringClient fetches the rest of a truncated string.
type LongStringClient interface {
	Substring(ctx context.Context, start, end int) (string, error)
}

// Client is the debugger connection the inspector reads from.
type Client interface {
	CreateObjectClient(v *grip.Value) ObjectClient
	CreateLongStringClient(v *grip.Value) LongStringClient
	ReleaseActor(ctx context.Context, actor string) error
}
