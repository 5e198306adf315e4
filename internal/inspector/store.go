package inspector

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mabhi256/gripview/internal/loader"
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
)

// Store holds the current State and serializes dispatches. Fetches run
// outside the lock; only their completions go through Dispatch.
type Store struct {
	mu       sync.Mutex
	state    State
	reducer  *Reducer
	resolver *resolver.Resolver
	loader   *loader.Loader
	now      func() time.Time
}

func NewStore(r *resolver.Resolver, l *loader.Loader) *Store {
	return &Store{
		state:    NewState(),
		reducer:  NewReducer(r),
		resolver: r,
		loader:   l,
		now:      time.Now,
	}
}

// Dispatch applies action and returns the resulting state.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.reducer.Reduce(s.state, action)
	logrus.Debugf("dispatched %s", action.Type())
	return s.state
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Lookup resolves paths against the node table first, then against every node
// the resolver has produced.
func (s *Store) Lookup() node.Lookup {
	st := s.State()
	return node.Chain(st.Nodes, s.resolver.Lookup())
}

// Expand opens n and, unless its properties are already known, loads them.
// A failed load leaves n expanded with no children.
func (s *Store) Expand(ctx context.Context, n *node.Node) error {
	if n == nil {
		return nil
	}
	st := s.Dispatch(NodeExpand{Node: n})
	if !st.IsExpanded(n.Path) || st.LoadedProperties.Has(n.Path) {
		return nil
	}
	return s.LoadProperties(ctx, n)
}

// LoadProperties fetches n's properties and records them.
func (s *Store) LoadProperties(ctx context.Context, n *node.Node) error {
	st := s.State()
	n = st.Latest(n)
	lookup := node.Chain(st.Nodes, s.resolver.Lookup())

	props, err := s.loader.Load(ctx, n, lookup, st.LoadedProperties)
	if err != nil {
		return err
	}

	s.Dispatch(NodePropertiesLoaded{
		Node:       n,
		Actor:      node.Actor(n, st.Roots, lookup),
		Properties: props,
	})
	return nil
}

func (s *Store) Collapse(n *node.Node) {
	s.Dispatch(NodeCollapse{Node: n})
}

func (s *Store) Focus(n *node.Node) {
	s.Dispatch(NodeFocus{Node: n})
}

// SetRoots replaces the root set. Actors reachable only from the previous
// roots are released, each exactly once.
func (s *Store) SetRoots(ctx context.Context, roots []*node.Node) State {
	return s.commit(ctx, func(st State) (Action, []string) {
		return RootsChanged{Old: st.Roots, New: roots}, ExclusiveActors(st, st.Roots, roots)
	})
}

// InvokeGetter evaluates the getter behind n and stores the result.
func (s *Store) InvokeGetter(ctx context.Context, n *node.Node) error {
	st := s.State()
	n = st.Latest(n)

	v, err := s.loader.InvokeGetter(ctx, n, node.Chain(st.Nodes, s.resolver.Lookup()))
	if err != nil {
		return err
	}

	s.commit(ctx, func(st State) (Action, []string) {
		return GetterInvoked{Node: n, Value: v, Timestamp: s.now()}, StaleGetterActors(st, n.Path)
	})
	return nil
}

// commit reduces the action built from the current state and, within the same
// critical section, collects the actors it strands. Those are released once
// the lock is dropped, so a load finishing meanwhile sees the new state.
func (s *Store) commit(ctx context.Context, build func(State) (Action, []string)) State {
	s.mu.Lock()
	action, stranded := build(s.state)
	s.state = s.reducer.Reduce(s.state, action)
	st := s.state
	s.mu.Unlock()
	logrus.Debugf("dispatched %s, releasing %d actors", action.Type(), len(stranded))

	for _, actor := range stranded {
		s.loader.Release(ctx, actor)
	}
	return st
}

func (s *Store) Resume() {
	s.Dispatch(Resume{})
}

func (s *Store) Navigate() {
	s.Dispatch(Navigate{})
}

// Close releases every tracked actor and resets the state.
func (s *Store) Close(ctx context.Context) {
	s.commit(ctx, func(st State) (Action, []string) {
		return Resume{}, ExclusiveActors(st, st.Roots, nil)
	})
}

// Children returns the children of n in the current state. Entries replaced
// in the node table since they were resolved are swapped into the memoized
// list, which is then returned as is on every later call.
func (s *Store) Children(n *node.Node) []*node.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	children := s.resolver.GetChildren(st.LoadedProperties, st.Latest(n))
	if reconciled, ok := s.resolver.Reconcile(n.Path, st.Latest); ok {
		return reconciled
	}
	return children
}

func (s *Store) NodeKey(n *node.Node) string {
	return node.Key(n)
}

func (s *Store) Expanded(n *node.Node) bool {
	return n != nil && s.State().IsExpanded(n.Path)
}

// Node returns the latest version of the node at p.
func (s *Store) Node(p node.Path) *node.Node {
	return s.State().Node(p)
}
