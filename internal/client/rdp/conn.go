// Package rdp talks to a remote debugging server over a websocket. Requests
// are JSON packets addressed to an actor; each actor answers its requests in
// the order it received them.
package rdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var ErrClosed = errors.New("connection closed")

// ProtocolError is an error packet returned by an actor.
type ProtocolError struct {
	Actor   string
	Code    string
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Actor, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Actor, e.Code, e.Message)
}

type reply struct {
	data []byte
	err  error
}

// Conn multiplexes requests over one websocket.
type Conn struct {
	ws *websocket.Conn

	// writeMu orders queue registration and the write together, so replies
	// are matched to requests in send order.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string][]chan reply
	err     error
	done    chan struct{}
}

func Dial(ctx context.Context, url string) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return newConn(ws), nil
}

func newConn(ws *websocket.Conn) *Conn {
	c := &Conn{
		ws:      ws,
		pending: make(map[string][]chan reply),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Request sends a packet of the given type to actor and decodes the reply
// into out, which may be nil.
func (c *Conn) Request(ctx context.Context, actor, packetType string, params map[string]any, out any) error {
	packet := map[string]any{"to": actor, "type": packetType}
	maps.Copy(packet, params)

	data, err := json.Marshal(packet)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", packetType, err)
	}

	ch := make(chan reply, 1)
	if err := c.send(actor, ch, data); err != nil {
		return err
	}

	select {
	case r := <-ch:
		if r.err != nil {
			return r.err
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(r.data, out); err != nil {
			return fmt.Errorf("decode %s reply: %w", packetType, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Conn) send(actor string, ch chan reply, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return c.err
	}
	c.pending[actor] = append(c.pending[actor], ch)
	c.mu.Unlock()

	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.mu.Lock()
		queue := c.pending[actor]
		c.pending[actor] = queue[:len(queue)-1]
		c.mu.Unlock()
		return fmt.Errorf("write to %s: %w", actor, err)
	}
	return nil
}

func (c *Conn) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}

		var head struct {
			From    string `json:"from"`
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			logrus.Warnf("dropping malformed packet: %v", err)
			continue
		}

		c.mu.Lock()
		queue := c.pending[head.From]
		if len(queue) == 0 {
			c.mu.Unlock()
			logrus.Debugf("unsolicited packet from %s", head.From)
			continue
		}
		ch := queue[0]
		c.pending[head.From] = queue[1:]
		c.mu.Unlock()

		if head.Error != "" {
			ch <- reply{err: &ProtocolError{Actor: head.From, Code: head.Error, Message: head.Message}}
			continue
		}
		ch <- reply{data: data}
	}
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		err = ErrClosed
	}
	c.err = err
	for actor, queue := range c.pending {
		for _, ch := range queue {
			ch <- reply{err: err}
		}
		delete(c.pending, actor)
	}
	close(c.done)
}

// Done is closed once the connection stops reading.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) Close() error {
	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.ws.Close()
}
