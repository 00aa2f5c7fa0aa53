package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/a-menaf-altintas/codescan/internal/store"
	"github.com/a-menaf-altintas/codescan/internal/tools"
	"github.com/a-menaf-altintas/codescan/internal/watcher"
)

var (
	serveDB    string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scanner over MCP stdio",
	Long: `Run an MCP server on stdin/stdout exposing scan_project, extract_file,
list_languages and, with a store, search_entities, get_entity_code,
list_projects and delete_project.

With --watch the given root is scanned into the store at startup and
re-scanned whenever it changes, next to the server. --watch without --db
uses the per-project database in the cache directory.

Examples:
  codescan serve
  codescan serve --db ~/.cache/codescan/shop.db
  codescan serve --watch ./shop`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite chunk store backing the search tools ('auto' for the cache dir)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "project root to keep indexed while serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("db") {
		cfg.Store.Path = serveDB
	}
	if serveWatch != "" && cfg.Store.Path == "" {
		cfg.Store.Path = autoDB
	}

	root := serveWatch
	if root == "" {
		root = "."
	}
	st, err := openStore(cfg.Store.Path, root)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	srv := tools.NewServer(cfg, st)
	if serveWatch == "" {
		err = srv.Run(cmd.Context())
	} else {
		err = serveWithWatcher(cmd.Context(), srv, st, serveWatch)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveWithWatcher runs the MCP server and a watcher over root side by side.
// When either stops the other is cancelled.
func serveWithWatcher(ctx context.Context, srv *tools.Server, st *store.Store, root string) error {
	opts := cfg.PipelineOptions()
	index := func(ctx context.Context) error {
		res, ps, err := srv.Index(ctx, root, opts)
		if err != nil {
			return err
		}
		slog.Info("serve.indexed", "project", res.ProjectName, "chunks", len(res.Chunks), "db", st.Path(), "persisted", ps != nil)
		return nil
	}
	if err := index(ctx); err != nil {
		return fmt.Errorf("initial index: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return srv.Run(gctx)
	})
	g.Go(func() error {
		watcher.New(root, cfg.WatcherOptions(), index).Run(gctx)
		return nil
	})
	return g.Wait()
}
