package resolver

import (
	"maps"
	"sync"

	"github.com/mabhi256/gripview/internal/node"
)

// Registry is a concurrency-safe key-value table.
type Registry[K comparable, V any] struct {
	data map[K]V
	mu   sync.RWMutex
}

func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		data: make(map[K]V),
	}
}

// Add stores value under key, replacing any previous entry.
func (r *Registry[K, V]) Add(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
}

func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, exists := r.data[key]
	return value, exists
}

// GetAll returns a copy of every entry.
func (r *Registry[K, V]) GetAll() map[K]V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[K]V, len(r.data))
	maps.Copy(result, r.data)
	return result
}

func (r *Registry[K, V]) Delete(keys ...K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.data, k)
	}
}

func (r *Registry[K, V]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = make(map[K]V)
}

// NodeRegistry remembers every node handed out, by path.
type NodeRegistry struct {
	*Registry[node.Path, *node.Node]
}

func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{Registry: NewRegistry[node.Path, *node.Node]()}
}

// Node implements node.Lookup.
func (r *NodeRegistry) Node(p node.Path) *node.Node {
	n, _ := r.Get(p)
	return n
}

// Register adds nodes and their pre-set children, recursively.
func (r *NodeRegistry) Register(nodes ...*node.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		r.Add(n.Path, n)
		if node.HasChildren(n) {
			r.Register(n.Contents.Children...)
		}
	}
}
