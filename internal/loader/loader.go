package loader

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
)

var ErrNoClient = errors.New("no debugger client")

// Loader runs the fetches needed to expand a node.
type Loader struct {
	client Client
}

func New(client Client) *Loader {
	return &Loader{client: client}
}

// Load fetches everything n still needs and merges the responses into one
// record. A path already present in loaded is returned without any fetch.
// When one fetch fails, the error is logged and returned and no record is
// produced.
func (l *Loader) Load(ctx context.Context, n *node.Node, lookup node.Lookup, loaded resolver.LoadedProperties) (*grip.Properties, error) {
	if n == nil {
		return nil, fmt.Errorf("load properties: nil node")
	}
	if props, ok := loaded[n.Path]; ok {
		return props, nil
	}
	if l.client == nil {
		return nil, ErrNoClient
	}

	value := node.Value(node.ClosestGripNode(n, lookup))
	objectClient := sync.OnceValue(func() ObjectClient {
		return l.client.CreateObjectClient(value)
	})

	var (
		mu        sync.Mutex
		responses []*grip.Properties
	)
	collect := func(p *grip.Properties) {
		mu.Lock()
		defer mu.Unlock()
		responses = append(responses, p)
	}

	g, gctx := errgroup.WithContext(ctx)

	if ShouldLoadIndexed(n, lookup, loaded) {
		g.Go(func() error {
			it, err := objectClient().EnumProperties(gctx, EnumOptions{IgnoreNonIndexedProperties: true})
			if err != nil {
				return fmt.Errorf("enum indexed properties: %w", err)
			}
			p, err := slice(gctx, it, n.Meta)
			if err != nil {
				return fmt.Errorf("slice indexed properties: %w", err)
			}
			collect(p)
			return nil
		})
	}

	if ShouldLoadNonIndexed(n, lookup, loaded) {
		g.Go(func() error {
			it, err := objectClient().EnumProperties(gctx, EnumOptions{IgnoreIndexedProperties: true})
			if err != nil {
				return fmt.Errorf("enum non-indexed properties: %w", err)
			}
			p, err := slice(gctx, it, n.Meta)
			if err != nil {
				return fmt.Errorf("slice non-indexed properties: %w", err)
			}
			collect(p)
			return nil
		})
	}

	if ShouldLoadEntries(n, lookup, loaded) {
		g.Go(func() error {
			it, err := objectClient().EnumEntries(gctx)
			if err != nil {
				return fmt.Errorf("enum entries: %w", err)
			}
			p, err := slice(gctx, it, n.Meta)
			if err != nil {
				return fmt.Errorf("slice entries: %w", err)
			}
			collect(&grip.Properties{OwnProperties: p.OwnProperties})
			return nil
		})
	}

	if ShouldLoadPrototype(n, loaded) {
		g.Go(func() error {
			proto, err := objectClient().GetPrototype(gctx)
			if err != nil {
				return fmt.Errorf("get prototype: %w", err)
			}
			collect(&grip.Properties{Prototype: proto})
			return nil
		})
	}

	if ShouldLoadSymbols(n, loaded) {
		g.Go(func() error {
			it, err := objectClient().EnumSymbols(gctx)
			if err != nil {
				return fmt.Errorf("enum symbols: %w", err)
			}
			p, err := slice(gctx, it, n.Meta)
			if err != nil {
				return fmt.Errorf("slice symbols: %w", err)
			}
			collect(&grip.Properties{OwnSymbols: p.OwnSymbols})
			return nil
		})
	}

	if ShouldLoadFullText(n, loaded) {
		g.Go(func() error {
			text, err := l.fullText(gctx, node.Value(n))
			if err != nil {
				return fmt.Errorf("get full text: %w", err)
			}
			collect(&grip.Properties{FullText: text})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  n.Path.String(),
			"actor": value.Actor(),
		}).Errorf("failed to load properties: %v", err)
		return nil, err
	}

	return grip.Merge(responses...), nil
}

func (l *Loader) fullText(ctx context.Context, v *grip.Value) (string, error) {
	g := v.Grip()
	if g == nil {
		return "", fmt.Errorf("not a long string")
	}
	rest, err := l.client.CreateLongStringClient(v).Substring(ctx, grip.UTF16Len(g.Initial), g.Length)
	if err != nil {
		return "", err
	}
	return g.Initial + rest, nil
}

// InvokeGetter evaluates the getter behind n against the closest object
// that is not a prototype.
func (l *Loader) InvokeGetter(ctx context.Context, n *node.Node, lookup node.Lookup) (*grip.Value, error) {
	if l.client == nil {
		return nil, ErrNoClient
	}

	target := node.ParentGripValue(n, lookup)
	if target == nil {
		return nil, fmt.Errorf("invoke getter %s: no parent object", n.Path)
	}
	receiver := node.NonPrototypeParentGripValue(n, lookup)

	v, err := l.client.CreateObjectClient(target).GetPropertyValue(ctx, propertyName(n), receiver)
	if err != nil {
		logrus.WithField("path", n.Path.String()).Errorf("failed to invoke getter: %v", err)
		return nil, fmt.Errorf("invoke getter %s: %w", n.Path, err)
	}
	return v, nil
}

// Release frees a remote object. Failures are logged and otherwise ignored.
func (l *Loader) Release(ctx context.Context, actor string) {
	if l.client == nil || actor == "" {
		return
	}
	if err := l.client.ReleaseActor(ctx, actor); err != nil {
		logrus.Debugf("release %s: %v", actor, err)
	}
}

func propertyName(n *node.Node) string {
	if unquoted, err := strconv.Unquote(n.Name); err == nil {
		return unquoted
	}
	return n.Name
}

func slice(ctx context.Context, it Iterator, meta *node.BucketMeta) (*grip.Properties, error) {
	start, count := 0, it.Count()
	if meta != nil {
		start = meta.StartIndex
		count = meta.EndIndex - meta.StartIndex + 1
	}
	p, err := it.Slice(ctx, start, count)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &grip.Properties{}
	}
	return p, nil
}
