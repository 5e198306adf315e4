package rdp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/loader"
)

// fakeServer answers packets with canned replies keyed by "actor/type".
type fakeServer struct {
	mu       sync.Mutex
	replies  map[string]map[string]any
	received []map[string]any
}

func (f *fakeServer) packets() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.received...)
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	_ = ws.WriteJSON(map[string]any{"from": "root", "applicationType": "browser"})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var packet map[string]any
		if err := json.Unmarshal(data, &packet); err != nil {
			return
		}
		to, _ := packet["to"].(string)
		typ, _ := packet["type"].(string)

		f.mu.Lock()
		f.received = append(f.received, packet)
		resp, ok := f.replies[to+"/"+typ]
		f.mu.Unlock()

		out := map[string]any{"from": to}
		if !ok {
			out["error"] = "unrecognizedPacketType"
			out["message"] = "no handler for " + typ
		}
		for k, v := range resp {
			out[k] = v
		}
		if err := ws.WriteJSON(out); err != nil {
			return
		}
	}
}

func dialFake(t *testing.T, replies map[string]map[string]any) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{replies: replies}
	server := httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(server.Close)

	url := strings.Replace(server.URL, "http", "ws", 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn), fake
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestEnumPropertiesAndSlice(t *testing.T) {
	client, fake := dialFake(t, map[string]map[string]any{
		"obj1/enumProperties": {"iterator": map[string]any{"actor": "it1", "count": 2}},
		"it1/slice": {"ownProperties": map[string]any{
			"a": map[string]any{"value": 1, "enumerable": true},
			"b": map[string]any{"value": "two"},
		}},
	})
	ctx := testContext(t)

	obj := client.CreateObjectClient(grip.Object("Object", "obj1"))
	it, err := obj.EnumProperties(ctx, loader.EnumOptions{IgnoreIndexedProperties: true})
	require.NoError(t, err)
	assert.Equal(t, 2, it.Count())

	props, err := it.Slice(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, props.OwnProperties, 2)
	assert.Equal(t, float64(1), props.OwnProperties["a"].Value.Primitive())
	assert.Equal(t, "two", props.OwnProperties["b"].Value.Primitive())

	packets := fake.packets()
	require.Len(t, packets, 2)
	options := packets[0]["options"].(map[string]any)
	assert.Equal(t, true, options["ignoreIndexedProperties"])
	assert.Equal(t, float64(0), packets[1]["start"])
	assert.Equal(t, float64(2), packets[1]["count"])
}

func TestPrototypeAndPropertyValue(t *testing.T) {
	client, fake := dialFake(t, map[string]map[string]any{
		"obj1/prototype":     {"prototype": map[string]any{"type": "object", "class": "Object", "actor": "proto1"}},
		"obj2/prototype":     {"prototype": map[string]any{"type": "null"}},
		"obj1/propertyValue": {"value": map[string]any{"return": "Ada"}},
	})
	ctx := testContext(t)

	proto, err := client.CreateObjectClient(grip.Object("Object", "obj1")).GetPrototype(ctx)
	require.NoError(t, err)
	assert.Equal(t, "proto1", proto.Actor())

	none, err := client.CreateObjectClient(grip.Object("Object", "obj2")).GetPrototype(ctx)
	require.NoError(t, err)
	assert.True(t, none.IsNull())

	v, err := client.CreateObjectClient(grip.Object("Object", "obj1")).
		GetPropertyValue(ctx, "fullName", grip.Object("Object", "recv1"))
	require.NoError(t, err)
	assert.Equal(t, "Ada", v.Primitive())

	last := fake.packets()[2]
	assert.Equal(t, "fullName", last["name"])
	assert.Equal(t, "recv1", last["receiverId"])
}

func TestSubstringAndRelease(t *testing.T) {
	client, fake := dialFake(t, map[string]map[string]any{
		"str1/substring": {"substring": "ipsum"},
		"obj1/release":   {},
	})
	ctx := testContext(t)

	ls := &grip.Grip{Type: "longString", Actor: "str1"}
	text, err := client.CreateLongStringClient(grip.FromGrip(ls)).Substring(ctx, 6, 11)
	require.NoError(t, err)
	assert.Equal(t, "ipsum", text)

	require.NoError(t, client.ReleaseActor(ctx, "obj1"))
	assert.Equal(t, "release", fake.packets()[1]["type"])
}

func TestProtocolError(t *testing.T) {
	client, _ := dialFake(t, nil)

	_, err := client.CreateObjectClient(grip.Object("Object", "obj9")).EnumSymbols(testContext(t))
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "obj9", perr.Actor)
	assert.Equal(t, "unrecognizedPacketType", perr.Code)
}

func TestEvaluate(t *testing.T) {
	client, _ := dialFake(t, map[string]map[string]any{
		"console1/evaluateJS": {"result": map[string]any{"type": "object", "class": "Window", "actor": "win1"}},
		"console2/evaluateJS": {
			"result":           map[string]any{"type": "undefined"},
			"exception":        map[string]any{"type": "object", "class": "ReferenceError", "actor": "err1"},
			"exceptionMessage": "ReferenceError: nope is not defined",
		},
	})
	ctx := testContext(t)

	v, err := client.Evaluate(ctx, "console1", "window")
	require.NoError(t, err)
	assert.Equal(t, "Window", v.Class())

	_, err = client.Evaluate(ctx, "console2", "nope")
	assert.ErrorContains(t, err, "nope is not defined")
}

func TestRepliesMatchedPerActor(t *testing.T) {
	client, _ := dialFake(t, map[string]map[string]any{
		"a/substring": {"substring": "from a"},
		"b/substring": {"substring": "from b"},
	})
	ctx := testContext(t)

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actor := "a"
			if i%2 == 1 {
				actor = "b"
			}
			ls := grip.FromGrip(&grip.Grip{Type: "longString", Actor: actor})
			text, err := client.CreateLongStringClient(ls).Substring(ctx, 0, 6)
			if err == nil {
				results[i] = text
			}
		}()
	}
	wg.Wait()

	for i, text := range results {
		if i%2 == 1 {
			assert.Equal(t, "from b", text)
		} else {
			assert.Equal(t, "from a", text)
		}
	}
}

func TestClosedConnectionFailsPending(t *testing.T) {
	client, _ := dialFake(t, nil)
	require.NoError(t, client.conn.Close())

	select {
	case <-client.conn.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("read loop did not stop")
	}
	err := client.ReleaseActor(testContext(t), "obj1")
	assert.Error(t, err)
}
