package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/loader"
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
)

type stubIterator struct {
	props *grip.Properties
}

func (it stubIterator) Count() int { return len(it.props.OwnProperties) }

func (it stubIterator) Slice(context.Context, int, int) (*grip.Properties, error) {
	return it.props, nil
}

type stubObject struct {
	client *stubClient
	actor  string
}

func (o stubObject) EnumProperties(_ context.Context, opts loader.EnumOptions) (loader.Iterator, error) {
	if err := o.client.failFor[o.actor]; err != nil {
		return nil, err
	}
	if opts.IgnoreNonIndexedProperties {
		return stubIterator{props: &grip.Properties{}}, nil
	}
	props, ok := o.client.objects[o.actor]
	if !ok {
		props = &grip.Properties{}
	}
	return stubIterator{props: props}, nil
}

func (o stubObject) EnumEntries(context.Context) (loader.Iterator, error) {
	return stubIterator{props: &grip.Properties{}}, nil
}

func (o stubObject) EnumSymbols(context.Context) (loader.Iterator, error) {
	return stubIterator{props: &grip.Properties{}}, nil
}

func (o stubObject) GetPrototype(context.Context) (*grip.Value, error) {
	return grip.Null(), nil
}

func (o stubObject) GetPropertyValue(context.Context, string, *grip.Value) (*grip.Value, error) {
	return o.client.getterResult, nil
}

type stubString struct{ full string }

func (s stubString) Substring(_ context.Context, start, end int) (string, error) {
	return grip.UTF16Slice(s.full, start, end), nil
}

type stubClient struct {
	mu           sync.Mutex
	objects      map[string]*grip.Properties
	strings      map[string]string
	failFor      map[string]error
	getterResult *grip.Value
	released     []string
}

func newStubClient() *stubClient {
	return &stubClient{
		objects: map[string]*grip.Properties{},
		strings: map[string]string{},
		failFor: map[string]error{},
	}
}

func (c *stubClient) CreateObjectClient(v *grip.Value) loader.ObjectClient {
	return stubObject{client: c, actor: v.Actor()}
}

func (c *stubClient) CreateLongStringClient(v *grip.Value) loader.LongStringClient {
	return stubString{full: c.strings[v.Actor()]}
}

func (c *stubClient) ReleaseActor(_ context.Context, actor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = append(c.released, actor)
	return nil
}

func (c *stubClient) releasedSorted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]string(nil), c.released...)
	sort.Strings(out)
	return out
}

func newStore(t *testing.T, client *stubClient) *Store {
	t.Helper()
	r, err := resolver.New(resolver.Config{CacheSize: 256})
	require.NoError(t, err)
	return NewStore(r, loader.New(client))
}

func props(entries map[string]*grip.Value) *grip.Properties {
	out := &grip.Properties{OwnProperties: map[string]*grip.Descriptor{}}
	for k, v := range entries {
		out.OwnProperties[k] = grip.ValueDescriptor(v)
	}
	return out
}

func child(t *testing.T, s *Store, parent *node.Node, name string) *node.Node {
	t.Helper()
	for _, c := range s.Children(parent) {
		if c.Name == name {
			return c
		}
	}
	require.FailNowf(t, "child not found", "%s has no child %q", parent.Path, name)
	return nil
}

func TestExpandLoadsAndRegistersChildren(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = props(map[string]*grip.Value{
		"x": grip.Object("Object", "x1"),
		"n": grip.Number(1),
	})
	client.objects["x1"] = props(map[string]*grip.Value{"deep": grip.Bool(true)})

	s := newStore(t, client)
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})

	assert.Empty(t, s.Children(root), "children are pending until loaded")
	require.NoError(t, s.Expand(ctx, root))

	st := s.State()
	assert.True(t, st.IsExpanded(root.Path))
	assert.True(t, st.LoadedProperties.Has(root.Path))
	assert.Empty(t, st.Actors, "root actors are never tracked")
	assert.Equal(t, []string{"n", "x"}, names(s.Children(root)))

	x := child(t, s, root, "x")
	require.NoError(t, s.Expand(ctx, x))
	st = s.State()
	assert.Equal(t, "x1", st.Actors[x.Path])
	assert.Equal(t, []string{"deep"}, names(NodeChildren(st, x)))
	assert.Same(t, st.Node(x.Path), x)
}

func TestChildrenKeepIdentityAcrossCalls(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = props(map[string]*grip.Value{"k": grip.Number(1)})
	s := newStore(t, client)
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})
	require.NoError(t, s.Expand(ctx, root))

	first := s.Children(root)
	second := s.Children(root)
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0])
}

func TestChildrenKeepIdentityAfterPatchedChild(t *testing.T) {
	client := newStubClient()
	client.strings["ls1"] = "abcdef"
	client.objects["a"] = &grip.Properties{OwnProperties: map[string]*grip.Descriptor{
		"s": grip.ValueDescriptor(decode(t, `{"type":"longString","initial":"abc","length":6,"actor":"ls1"}`)),
		"k": grip.ValueDescriptor(grip.Number(1)),
	}}
	s := newStore(t, client)
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})
	require.NoError(t, s.Expand(ctx, root))
	require.NoError(t, s.Expand(ctx, child(t, s, root, "s")))

	first := s.Children(root)
	second := s.Children(root)
	require.Len(t, first, 2)
	assert.Same(t, &first[0], &second[0])

	patched := child(t, s, root, "s")
	assert.True(t, node.HasFullText(patched))
	assert.Same(t, s.State().Node(patched.Path), patched)
}

func TestChildrenKeepIdentityAfterGetter(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = &grip.Properties{OwnProperties: map[string]*grip.Descriptor{
		"computed": grip.AccessorDescriptor(grip.Object("Function", "fn"), grip.Undefined()),
	}}
	client.getterResult = grip.Number(7)
	s := newStore(t, client)
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})
	require.NoError(t, s.Expand(ctx, root))
	require.NoError(t, s.InvokeGetter(ctx, child(t, s, root, "computed")))

	first := s.Children(root)
	second := s.Children(root)
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0])
	assert.True(t, node.HasGetterValue(first[0]))
}

func TestExpandPrimitiveIsNoop(t *testing.T) {
	s := newStore(t, newStubClient())
	n := node.NewRoot("n", grip.Number(3))
	s.SetRoots(context.Background(), []*node.Node{n})

	require.NoError(t, s.Expand(context.Background(), n))
	assert.False(t, s.Expanded(n))
	assert.False(t, s.State().LoadedProperties.Has(n.Path))
}

func TestCollapseKeepsLoadedData(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = props(map[string]*grip.Value{"k": grip.Number(1)})
	s := newStore(t, client)
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})
	require.NoError(t, s.Expand(ctx, root))

	s.Collapse(root)
	st := s.State()
	assert.False(t, st.IsExpanded(root.Path))
	assert.True(t, st.LoadedProperties.Has(root.Path))
	assert.Len(t, s.Children(root), 1)
}

func TestFailedLoadStaysPending(t *testing.T) {
	client := newStubClient()
	client.failFor["a"] = errors.New("no such actor")
	s := newStore(t, client)
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})

	err := s.Expand(ctx, root)
	require.Error(t, err)

	st := s.State()
	assert.True(t, st.IsExpanded(root.Path))
	assert.False(t, st.LoadedProperties.Has(root.Path))
	assert.Empty(t, s.Children(root))

	delete(client.failFor, "a")
	client.objects["a"] = props(map[string]*grip.Value{"k": grip.Number(1)})
	require.NoError(t, s.LoadProperties(ctx, root))
	assert.Len(t, s.Children(root), 1)
}

func TestRootsChangedPurgesOldSubtree(t *testing.T) {
	client := newStubClient()
	shared := grip.Object("Object", "shared")
	client.objects["a"] = props(map[string]*grip.Value{
		"x": grip.Object("Object", "x1"),
		"y": shared,
		"z": shared,
	})
	client.objects["x1"] = props(map[string]*grip.Value{"inner": grip.Object("Object", "i1")})
	client.objects["b"] = props(map[string]*grip.Value{"q": grip.Number(1)})

	s := newStore(t, client)
	ctx := context.Background()
	a := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{a})
	require.NoError(t, s.Expand(ctx, a))

	x := child(t, s, a, "x")
	require.NoError(t, s.Expand(ctx, x))
	require.NoError(t, s.Expand(ctx, child(t, s, x, "inner")))
	require.NoError(t, s.Expand(ctx, child(t, s, a, "y")))
	require.NoError(t, s.Expand(ctx, child(t, s, a, "z")))

	before := s.State()
	oldPaths := before.reachable(a.Path)
	require.Greater(t, len(oldPaths), 4)

	b := node.NewRoot("B", grip.Object("Object", "b"))
	after := s.SetRoots(ctx, []*node.Node{b})

	for p := range oldPaths {
		assert.NotContains(t, after.LoadedProperties, p)
		assert.NotContains(t, after.ExpandedPaths, p)
		assert.NotContains(t, after.Children, p)
		assert.NotContains(t, after.Nodes, p)
		assert.NotContains(t, after.Actors, p)
		assert.NotContains(t, after.Evaluations, p)
	}
	assert.Equal(t, []string{"i1", "shared", "x1"}, client.releasedSorted())
	assert.Contains(t, after.Nodes, b.Path)
	assert.Equal(t, []*node.Node{b}, after.Roots)

	// applying the same roots again must not release anything twice
	s.SetRoots(ctx, []*node.Node{b})
	assert.Len(t, client.releasedSorted(), 3)
}

func TestRootsChangedNeverReleasesNewRootActor(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = props(map[string]*grip.Value{"x": grip.Object("Object", "x1")})
	s := newStore(t, client)
	ctx := context.Background()
	a := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{a})
	require.NoError(t, s.Expand(ctx, a))
	require.NoError(t, s.Expand(ctx, child(t, s, a, "x")))

	s.SetRoots(ctx, []*node.Node{node.NewRoot("X", grip.Object("Object", "x1"))})
	assert.Empty(t, client.releasedSorted())
}

func TestSameNamedRootsDoNotReuseStaleChildren(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = props(map[string]*grip.Value{"old": grip.Number(1)})
	client.objects["b"] = props(map[string]*grip.Value{"new": grip.Number(2)})
	s := newStore(t, client)
	ctx := context.Background()

	first := node.NewRoot("root", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{first})
	require.NoError(t, s.Expand(ctx, first))
	assert.Equal(t, []string{"old"}, names(s.Children(first)))

	second := node.NewRoot("root", grip.Object("Object", "b"))
	s.SetRoots(ctx, []*node.Node{second})
	assert.Empty(t, s.Children(second))
	require.NoError(t, s.Expand(ctx, second))
	assert.Equal(t, []string{"new"}, names(s.Children(second)))
}

// gatedClient holds every release until the gate opens.
type gatedClient struct {
	*stubClient
	entered chan string
	gate    chan struct{}
}

func (c *gatedClient) ReleaseActor(ctx context.Context, actor string) error {
	c.entered <- actor
	<-c.gate
	return c.stubClient.ReleaseActor(ctx, actor)
}

func TestSetRootsDropsLoadsFinishingDuringRelease(t *testing.T) {
	stub := newStubClient()
	stub.objects["a"] = props(map[string]*grip.Value{
		"x": grip.Object("Object", "x1"),
		"y": grip.Object("Object", "y1"),
	})
	client := &gatedClient{stubClient: stub, entered: make(chan string, 1), gate: make(chan struct{})}

	r, err := resolver.New(resolver.Config{CacheSize: 256})
	require.NoError(t, err)
	s := NewStore(r, loader.New(client))
	ctx := context.Background()
	a := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{a})
	require.NoError(t, s.Expand(ctx, a))
	require.NoError(t, s.Expand(ctx, child(t, s, a, "x")))
	y := child(t, s, a, "y")

	done := make(chan State)
	go func() { done <- s.SetRoots(ctx, nil) }()
	assert.Equal(t, "x1", <-client.entered)

	// y finishes loading while x1 is being released
	require.NoError(t, s.LoadProperties(ctx, y))
	assert.Empty(t, s.State().Actors)
	assert.NotContains(t, s.State().LoadedProperties, y.Path)

	close(client.gate)
	after := <-done
	assert.Empty(t, after.Actors)
	assert.Equal(t, []string{"x1"}, stub.releasedSorted())
}

func TestResumeResetsEverything(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = props(map[string]*grip.Value{"k": grip.Number(1)})
	s := newStore(t, client)
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})
	require.NoError(t, s.Expand(ctx, root))

	s.Resume()
	st := s.State()
	assert.Empty(t, st.Roots)
	assert.Empty(t, st.ExpandedPaths)
	assert.Empty(t, st.LoadedProperties)
	assert.Empty(t, st.Nodes)
	assert.Empty(t, st.Children)

	s.SetRoots(ctx, []*node.Node{root})
	s.Navigate()
	assert.Empty(t, s.State().Nodes)
}

func TestLateCompletionForPrunedPathIsDropped(t *testing.T) {
	client := newStubClient()
	s := newStore(t, client)
	ctx := context.Background()
	a := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{a})
	s.SetRoots(ctx, []*node.Node{node.NewRoot("B", grip.Object("Object", "b"))})

	st := s.Dispatch(NodePropertiesLoaded{Node: a, Properties: &grip.Properties{}})
	assert.NotContains(t, st.LoadedProperties, a.Path)
}

func TestInvokeGetterRecordsEvaluation(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = &grip.Properties{OwnProperties: map[string]*grip.Descriptor{
		"computed": grip.AccessorDescriptor(grip.Object("Function", "fn"), grip.Undefined()),
	}}
	client.getterResult = grip.Object("Object", "result")

	s := newStore(t, client)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.SetRoots(ctx, []*node.Node{root})
	require.NoError(t, s.Expand(ctx, root))

	getter := child(t, s, root, "computed")
	require.True(t, node.HasAccessors(getter))
	require.NoError(t, s.Expand(ctx, getter))
	assert.Equal(t, []string{node.NameGet}, names(s.Children(getter)))

	require.NoError(t, s.InvokeGetter(ctx, getter))
	st := s.State()

	eval, ok := GetEvaluation(st, getter)
	require.True(t, ok)
	assert.Equal(t, fixed, eval.Timestamp)
	assert.Equal(t, "result", eval.GetterValue.Actor())

	evaluated := st.Node(getter.Path)
	assert.True(t, node.HasGetterValue(evaluated))
	assert.True(t, st.IsExpanded(getter.Path))
	assert.NotContains(t, st.Nodes, getter.Path.Child(node.NameGet))
	assert.Same(t, evaluated, child(t, s, root, "computed"))
}

func TestLongStringFullTextIsPatched(t *testing.T) {
	client := newStubClient()
	client.strings["ls1"] = "abcdef"
	ls := node.NewRoot("s", decode(t, `{"type":"longString","initial":"abc","length":6,"actor":"ls1"}`))

	s := newStore(t, client)
	ctx := context.Background()
	s.SetRoots(ctx, []*node.Node{ls})
	require.NoError(t, s.Expand(ctx, ls))

	st := s.State()
	assert.True(t, node.HasFullText(st.Node(ls.Path)))
	assert.Equal(t, `"abcdef"`, node.Value(st.Node(ls.Path)).String())
	children := s.Children(ls)
	require.Len(t, children, 1)
	assert.Same(t, st.Node(ls.Path), children[0])
}

func TestSelectorsFilterByRoots(t *testing.T) {
	client := newStubClient()
	client.objects["a"] = props(map[string]*grip.Value{"k": grip.Number(1)})
	client.objects["b"] = props(map[string]*grip.Value{"j": grip.Number(2)})
	s := newStore(t, client)
	ctx := context.Background()
	a := node.NewRoot("A", grip.Object("Object", "a"))
	b := node.NewRoot("B", grip.Object("Object", "b"))
	s.SetRoots(ctx, []*node.Node{a, b})
	require.NoError(t, s.Expand(ctx, a))
	require.NoError(t, s.Expand(ctx, b))

	st := s.State()
	onlyA := []*node.Node{a}
	assert.Equal(t, map[node.Path]struct{}{a.Path: {}}, ExpandedPathsFromRoots(st, onlyA))
	loaded := LoadedPropertiesFromRoots(st, onlyA)
	assert.Len(t, loaded, 1)
	assert.True(t, loaded.Has(a.Path))
	assert.Len(t, ExpandedPathsFromRoots(st, []*node.Node{a, b}), 2)

	_, ok := GetEvaluation(st, a)
	assert.False(t, ok)
}

func TestFocus(t *testing.T) {
	s := newStore(t, newStubClient())
	root := node.NewRoot("A", grip.Object("Object", "a"))
	s.Focus(root)
	assert.Equal(t, root.Path, s.State().Focused)
}

func TestActionTypeString(t *testing.T) {
	assert.Equal(t, "ROOTS_CHANGED", RootsChanged{}.Type().String())
	assert.Equal(t, "NODE_PROPERTIES_LOADED", NodePropertiesLoaded{}.Type().String())
}

func names(nodes []*node.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func decode(t *testing.T, raw string) *grip.Value {
	t.Helper()
	v := &grip.Value{}
	require.NoError(t, json.Unmarshal([]byte(raw), v))
	return v
}
