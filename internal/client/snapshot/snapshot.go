// Package snapshot serves inspector fetches from a recorded JSON file instead
// of a live debugger.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
	"sync"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/loader"
	"github.com/mabhi256/gripview/internal/node"
)

var indexRe = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// Root is a named top-level value.
type Root struct {
	Name  string      `json:"name"`
	Value *grip.Value `json:"value"`
}

// Object is everything recorded for one remote object.
type Object struct {
	OwnProperties    map[string]*grip.Descriptor `json:"ownProperties,omitempty"`
	OwnSymbols       []*grip.SymbolProperty      `json:"ownSymbols,omitempty"`
	Prototype        *grip.Value                 `json:"prototype,omitempty"`
	SafeGetterValues map[string]*grip.Descriptor `json:"safeGetterValues,omitempty"`
	Entries          []*grip.Value               `json:"entries,omitempty"`
	Getters          map[string]*grip.Value      `json:"getters,omitempty"`
}

// File is the on-disk snapshot layout.
type File struct {
	Roots   []Root             `json:"roots"`
	Objects map[string]*Object `json:"objects,omitempty"`
	Strings map[string]string  `json:"strings,omitempty"`
}

// Snapshot answers fetches from a File. It implements loader.Client.
type Snapshot struct {
	file *File

	mu       sync.Mutex
	released map[string]int
}

func New(f *File) *Snapshot {
	if f.Objects == nil {
		f.Objects = map[string]*Object{}
	}
	if f.Strings == nil {
		f.Strings = map[string]string{}
	}
	return &Snapshot{file: f, released: map[string]int{}}
}

func Read(r io.Reader) (*Snapshot, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return New(&f), nil
}

func Open(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Roots builds the root nodes of the snapshot.
func (s *Snapshot) Roots() []*node.Node {
	roots := make([]*node.Node, 0, len(s.file.Roots))
	for _, r := range s.file.Roots {
		roots = append(roots, node.NewRoot(r.Name, r.Value))
	}
	return roots
}

// Released reports how many times actor was released.
func (s *Snapshot) Released(actor string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released[actor]
}

func (s *Snapshot) CreateObjectClient(v *grip.Value) loader.ObjectClient {
	return &objectClient{snapshot: s, actor: v.Actor()}
}

func (s *Snapshot) CreateLongStringClient(v *grip.Value) loader.LongStringClient {
	return &longStringClient{snapshot: s, actor: v.Actor()}
}

func (s *Snapshot) ReleaseActor(_ context.Context, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released[actor]++
	return nil
}

func (s *Snapshot) object(actor string) (*Object, error) {
	obj, ok := s.file.Objects[actor]
	if !ok {
		return nil, fmt.Errorf("no such actor: %s", actor)
	}
	return obj, nil
}

type objectClient struct {
	snapshot *Snapshot
	actor    string
}

func (c *objectClient) EnumProperties(_ context.Context, opts loader.EnumOptions) (loader.Iterator, error) {
	obj, err := c.snapshot.object(c.actor)
	if err != nil {
		return nil, err
	}

	var names []string
	for name := range obj.OwnProperties {
		indexed := indexRe.MatchString(name)
		if (indexed && opts.IgnoreIndexedProperties) || (!indexed && opts.IgnoreNonIndexedProperties) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	node.SortProperties(names)

	it := &propertyIterator{names: names, descriptors: obj.OwnProperties}
	if !opts.IgnoreNonIndexedProperties {
		it.safeGetters = obj.SafeGetterValues
	}
	return it, nil
}

func (c *objectClient) EnumEntries(_ context.Context) (loader.Iterator, error) {
	obj, err := c.snapshot.object(c.actor)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(obj.Entries))
	descriptors := make(map[string]*grip.Descriptor, len(obj.Entries))
	for i, e := range obj.Entries {
		names[i] = strconv.Itoa(i)
		descriptors[names[i]] = grip.ValueDescriptor(e)
	}
	return &propertyIterator{names: names, descriptors: descriptors}, nil
}

func (c *objectClient) EnumSymbols(_ context.Context) (loader.Iterator, error) {
	obj, err := c.snapshot.object(c.actor)
	if err != nil {
		return nil, err
	}
	return &symbolIterator{symbols: obj.OwnSymbols}, nil
}

func (c *objectClient) GetPrototype(_ context.Context) (*grip.Value, error) {
	obj, err := c.snapshot.object(c.actor)
	if err != nil {
		return nil, err
	}
	if obj.Prototype == nil {
		return grip.Null(), nil
	}
	return obj.Prototype, nil
}

func (c *objectClient) GetPropertyValue(_ context.Context, name string, _ *grip.Value) (*grip.Value, error) {
	obj, err := c.snapshot.object(c.actor)
	if err != nil {
		return nil, err
	}
	if v, ok := obj.Getters[name]; ok {
		return v, nil
	}
	if d, ok := obj.SafeGetterValues[name]; ok && d.GetterValue != nil {
		return d.GetterValue, nil
	}
	if d, ok := obj.OwnProperties[name]; ok && d.Value != nil {
		return d.Value, nil
	}
	return grip.Undefined(), nil
}

type propertyIterator struct {
	names       []string
	descriptors map[string]*grip.Descriptor
	safeGetters map[string]*grip.Descriptor
}

func (it *propertyIterator) Count() int {
	return len(it.names)
}

func (it *propertyIterator) Slice(_ context.Context, start, count int) (*grip.Properties, error) {
	lo, hi := window(start, count, len(it.names))
	props := &grip.Properties{OwnProperties: make(map[string]*grip.Descriptor, hi-lo)}
	for _, name := range it.names[lo:hi] {
		props.OwnProperties[name] = it.descriptors[name]
	}
	if len(it.safeGetters) > 0 {
		props.SafeGetterValues = it.safeGetters
	}
	return props, nil
}

type symbolIterator struct {
	symbols []*grip.SymbolProperty
}

func (it *symbolIterator) Count() int {
	return len(it.symbols)
}

func (it *symbolIterator) Slice(_ context.Context, start, count int) (*grip.Properties, error) {
	lo, hi := window(start, count, len(it.symbols))
	return &grip.Properties{OwnSymbols: it.symbols[lo:hi]}, nil
}

type longStringClient struct {
	snapshot *Snapshot
	actor    string
}

func (c *longStringClient) Substring(_ context.Context, start, end int) (string, error) {
	text, ok := c.snapshot.file.Strings[c.actor]
	if !ok {
		return "", fmt.Errorf("no such long string: %s", c.actor)
	}
	return grip.UTF16Slice(text, start, end), nil
}

// window clamps [start, start+count) to [0, n).
func window(start, count, n int) (int, int) {
	lo := min(max(start, 0), n)
	hi := min(max(lo+count, lo), n)
	return lo, hi
}
