package resolver

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mabhi256/gripview/internal/node"
)

// DefaultCacheSize bounds the number of children lists kept in memory.
const DefaultCacheSize = 4096

// ChildrenCache memoizes the children slice produced for a path so repeated
// lookups hand back the same slice.
type ChildrenCache struct {
	lru *lru.Cache[node.Path, []*node.Node]
}

func NewChildrenCache(size int) (*ChildrenCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[node.Path, []*node.Node](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create children cache: %w", err)
	}
	return &ChildrenCache{lru: cache}, nil
}

func (c *ChildrenCache) Get(p node.Path) ([]*node.Node, bool) {
	return c.lru.Get(p)
}

func (c *ChildrenCache) Has(p node.Path) bool {
	return c.lru.Contains(p)
}

func (c *ChildrenCache) Add(p node.Path, children []*node.Node) {
	c.lru.Add(p, children)
}

func (c *ChildrenCache) Remove(paths ...node.Path) {
	for _, p := range paths {
		c.lru.Remove(p)
	}
}

func (c *ChildrenCache) Purge() {
	c.lru.Purge()
}

func (c *ChildrenCache) Len() int {
	return c.lru.Len()
}
