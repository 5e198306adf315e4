package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mabhi256/gripview/internal/client/rdp"
	"github.com/mabhi256/gripview/internal/client/snapshot"
	"github.com/mabhi256/gripview/internal/config"
	"github.com/mabhi256/gripview/internal/inspector"
	"github.com/mabhi256/gripview/internal/loader"
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/internal/resolver"
	"github.com/mabhi256/gripview/utils"
)

// sourceFlags select where grips come from. They are shared by inspect and
// dump.
type sourceFlags struct {
	url              string
	console          string
	eval             []string
	cacheSize        int
	windowProperties string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "Remote debugging websocket URL (instead of a snapshot file)")
	cmd.Flags().StringVar(&f.console, "console", "", "Console actor used to evaluate --eval expressions")
	cmd.Flags().StringArrayVarP(&f.eval, "eval", "e", nil, "Expression whose result becomes a root (repeatable)")
	cmd.Flags().IntVar(&f.cacheSize, "cache-size", 0, "Children cache capacity")
	cmd.Flags().StringVar(&f.windowProperties, "window-properties", "", "File listing default window globals, one per line")

	cmd.ValidArgsFunction = utils.CompleteFilesByExtension(".json")
}

// apply lets flags override the loaded configuration.
func (f *sourceFlags) apply(c *config.Config) {
	if f.url != "" {
		c.Remote.URL = f.url
	}
	if f.console != "" {
		c.Remote.Console = f.console
	}
	if f.cacheSize > 0 {
		c.Inspect.CacheSize = f.cacheSize
	}
	if f.windowProperties != "" {
		c.Inspect.WindowProperties = f.windowProperties
	}
}

// session is a Store wired to a client, plus whatever must be closed with it.
type session struct {
	title string
	store *inspector.Store
	conn  *rdp.Conn
}

func openSession(ctx context.Context, f *sourceFlags, args []string) (*session, error) {
	f.apply(cfg)

	window, err := loadWindowProperties(cfg.Inspect.WindowProperties)
	if err != nil {
		return nil, err
	}
	r, err := resolver.New(resolver.Config{
		CacheSize:        cfg.Inspect.CacheSize,
		WindowProperties: window,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	if len(args) == 1 {
		snap, err := snapshot.Open(args[0])
		if err != nil {
			return nil, err
		}
		store := inspector.NewStore(r, loader.New(snap))
		store.SetRoots(ctx, snap.Roots())
		logrus.Infof("opened snapshot %s with %d roots", args[0], len(snap.Roots()))
		return &session{title: filepath.Base(args[0]), store: store}, nil
	}

	if cfg.Remote.URL == "" {
		return nil, fmt.Errorf("either a snapshot file or --url is required")
	}
	return openRemote(ctx, r, f.eval)
}

func openRemote(ctx context.Context, r *resolver.Resolver, exprs []string) (*session, error) {
	if cfg.Remote.Console == "" {
		return nil, fmt.Errorf("--console is required with --url")
	}
	if len(exprs) == 0 {
		return nil, fmt.Errorf("at least one --eval expression is required with --url")
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Remote.Timeout)
	defer cancel()
	conn, err := rdp.Dial(dialCtx, cfg.Remote.URL)
	if err != nil {
		return nil, err
	}
	client := rdp.NewClient(conn)

	roots := make([]*node.Node, 0, len(exprs))
	for _, expr := range exprs {
		evalCtx, cancel := context.WithTimeout(ctx, cfg.Remote.Timeout)
		v, err := client.Evaluate(evalCtx, cfg.Remote.Console, expr)
		cancel()
		if err != nil {
			conn.Close()
			return nil, err
		}
		roots = append(roots, node.NewRoot(expr, v))
	}

	store := inspector.NewStore(r, loader.New(client))
	store.SetRoots(ctx, roots)
	logrus.Infof("connected to %s with %d roots", cfg.Remote.URL, len(roots))
	return &session{title: cfg.Remote.URL, store: store, conn: conn}, nil
}

// Close releases every actor the session discovered and drops the
// connection.
func (s *session) Close(ctx context.Context) {
	closeCtx, cancel := context.WithTimeout(ctx, cfg.Remote.Timeout)
	defer cancel()
	s.store.Close(closeCtx)

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Debugf("close connection: %v", err)
		}
	}
}

func loadWindowProperties(path string) (node.WindowProperties, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open window properties: %w", err)
	}
	defer file.Close()

	return node.ReadWindowProperties(file)
}
