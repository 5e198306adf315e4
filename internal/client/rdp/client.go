package rdp

import (
	"context"
	"fmt"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/loader"
)

// Client adapts a Conn to loader.Client.
type Client struct {
	conn *Conn
}

func NewClient(conn *Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) CreateObjectClient(v *grip.Value) loader.ObjectClient {
	return &objectClient{conn: c.conn, actor: v.Actor()}
}

func (c *Client) CreateLongStringClient(v *grip.Value) loader.LongStringClient {
	return &longStringClient{conn: c.conn, actor: v.Actor()}
}

func (c *Client) ReleaseActor(ctx context.Context, actor string) error {
	return c.conn.Request(ctx, actor, "release", nil, nil)
}

// Evaluate runs text through a console actor and returns the resulting value.
func (c *Client) Evaluate(ctx context.Context, console, text string) (*grip.Value, error) {
	var resp struct {
		Result           *grip.Value `json:"result"`
		Exception        *grip.Value `json:"exception"`
		ExceptionMessage string      `json:"exceptionMessage"`
	}
	if err := c.conn.Request(ctx, console, "evaluateJS", map[string]any{"text": text}, &resp); err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", text, err)
	}
	if resp.Exception != nil && !resp.Exception.IsUndefined() {
		return nil, fmt.Errorf("evaluate %q: %s", text, resp.ExceptionMessage)
	}
	if resp.Result == nil {
		return grip.Undefined(), nil
	}
	return resp.Result, nil
}

type objectClient struct {
	conn  *Conn
	actor string
}

type iteratorReply struct {
	Iterator struct {
		Actor string `json:"actor"`
		Count int    `json:"count"`
	} `json:"iterator"`
}

func (o *objectClient) iterator(ctx context.Context, packetType string, params map[string]any) (loader.Iterator, error) {
	var resp iteratorReply
	if err := o.conn.Request(ctx, o.actor, packetType, params, &resp); err != nil {
		return nil, err
	}
	return &iterator{conn: o.conn, actor: resp.Iterator.Actor, count: resp.Iterator.Count}, nil
}

func (o *objectClient) EnumProperties(ctx context.Context, opts loader.EnumOptions) (loader.Iterator, error) {
	return o.iterator(ctx, "enumProperties", map[string]any{"options": opts})
}

func (o *objectClient) EnumEntries(ctx context.Context) (loader.Iterator, error) {
	return o.iterator(ctx, "enumEntries", nil)
}

func (o *objectClient) EnumSymbols(ctx context.Context) (loader.Iterator, error) {
	return o.iterator(ctx, "enumSymbols", nil)
}

func (o *objectClient) GetPrototype(ctx context.Context) (*grip.Value, error) {
	var resp struct {
		Prototype *grip.Value `json:"prototype"`
	}
	if err := o.conn.Request(ctx, o.actor, "prototype", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Prototype == nil {
		return grip.Null(), nil
	}
	return resp.Prototype, nil
}

func (o *objectClient) GetPropertyValue(ctx context.Context, name string, receiver *grip.Value) (*grip.Value, error) {
	params := map[string]any{"name": name}
	if actor := receiver.Actor(); actor != "" {
		params["receiverId"] = actor
	}

	var resp struct {
		Value struct {
			Return *grip.Value `json:"return"`
			Throw  *grip.Value `json:"throw"`
		} `json:"value"`
	}
	if err := o.conn.Request(ctx, o.actor, "propertyValue", params, &resp); err != nil {
		return nil, err
	}
	switch {
	case resp.Value.Return != nil:
		return resp.Value.Return, nil
	case resp.Value.Throw != nil:
		return resp.Value.Throw, nil
	default:
		return grip.Undefined(), nil
	}
}

type iterator struct {
	conn  *Conn
	actor string
	count int
}

func (it *iterator) Count() int {
	return it.count
}

func (it *iterator) Slice(ctx context.Context, start, count int) (*grip.Properties, error) {
	var props grip.Properties
	if err := it.conn.Request(ctx, it.actor, "slice", map[string]any{"start": start, "count": count}, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

type longStringClient struct {
	conn  *Conn
	actor string
}

func (l *longStringClient) Substring(ctx context.Context, start, end int) (string, error) {
	var resp struct {
		Substring string `json:"substring"`
	}
	if err := l.conn.Request(ctx, l.actor, "substring", map[string]any{"start": start, "end": end}, &resp); err != nil {
		return "", err
	}
	return resp.Substring, nil
}
