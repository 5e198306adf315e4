package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mabhi256/gripview/internal/inspector"
	"github.com/mabhi256/gripview/internal/node"
)

// DumpOptions controls a non-interactive dump.
type DumpOptions struct {
	// Depth is how many levels below the roots get expanded.
	Depth int
	// Parallel bounds concurrent loads per level.
	Parallel int
	Timeout  time.Duration
}

// Dump expands the tree level by level up to opts.Depth and writes it to w.
// Failed loads are reported inline; they never stop the dump.
func Dump(ctx context.Context, w io.Writer, store *inspector.Store, opts DumpOptions) error {
	if opts.Parallel <= 0 {
		opts.Parallel = 8
	}

	failures := &failureSet{errs: make(map[node.Path]error)}
	level := store.State().Roots
	for depth := 0; depth < opts.Depth && len(level) > 0; depth++ {
		if err := expandLevel(ctx, store, level, opts, failures); err != nil {
			return err
		}

		var next []*node.Node
		for _, n := range level {
			if store.Expanded(n) && !node.IsLongString(n) {
				next = append(next, store.Children(n)...)
			}
		}
		level = next
	}

	d := &dumper{w: w, store: store, failures: failures.errs, now: time.Now()}
	return d.write(store.State().Roots, 0)
}

type failureSet struct {
	mu   sync.Mutex
	errs map[node.Path]error
}

func (f *failureSet) add(p node.Path, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[p] = err
}

func expandLevel(ctx context.Context, store *inspector.Store, level []*node.Node, opts DumpOptions, failures *failureSet) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)

	for _, n := range level {
		if node.IsPrimitive(n) {
			continue
		}
		g.Go(func() error {
			loadCtx := gctx
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				loadCtx, cancel = context.WithTimeout(gctx, opts.Timeout)
				defer cancel()
			}
			if err := store.Expand(loadCtx, n); err != nil {
				logrus.WithField("path", n.Path.String()).Warnf("expand failed: %v", err)
				failures.add(n.Path, err)
			}
			return gctx.Err()
		})
	}
	return g.Wait()
}

type dumper struct {
	w        io.Writer
	store    *inspector.Store
	failures map[node.Path]error
	now      time.Time
}

func (d *dumper) write(nodes []*node.Node, depth int) error {
	st := d.store.State()
	indent := strings.Repeat("  ", depth)

	for _, n := range nodes {
		n = st.Latest(n)

		line := indent + n.Name
		if desc := Describe(d.store, n, d.now); desc != "" {
			line += ": " + desc
		}
		if _, err := fmt.Fprintln(d.w, line); err != nil {
			return err
		}

		if err, ok := d.failures[n.Path]; ok {
			if _, werr := fmt.Fprintf(d.w, "%s  (failed: %v)\n", indent, err); werr != nil {
				return werr
			}
			continue
		}
		if !st.IsExpanded(n.Path) || node.IsLongString(n) {
			continue
		}
		if err := d.write(d.store.Children(n), depth+1); err != nil {
			return err
		}
	}
	return nil
}
