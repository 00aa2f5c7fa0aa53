package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-menaf-altintas/codescan/internal/watcher"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [root] [output]",
	Short: "Re-run the scan whenever files change",
	Long: `Scan once, then poll the project tree and scan again whenever an
eligible file is added, removed or modified. The poll interval adapts to
the size of the tree unless --interval fixes it.

Examples:
  codescan watch ./shop
  codescan watch ./shop out/shop.json --db auto --interval 5s`,
	Args: cobra.MaximumNArgs(2),
	RunE: runWatch,
}

func init() {
	addScanFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "fixed poll interval (default: adaptive)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	applyScanFlags(cmd, cfg)
	if cmd.Flags().Changed("interval") {
		cfg.Watch.Interval = watchInterval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	root, out := scanArgs(args, cfg)

	st, err := openStore(cfg.Store.Path, root)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	ctx := cmd.Context()
	scan := func(ctx context.Context) error {
		_, paths, err := scanOnce(ctx, cfg, st, root, out)
		if err != nil {
			return err
		}
		printPaths(cmd.OutOrStdout(), paths)
		return nil
	}
	if err := scan(ctx); err != nil {
		return fmt.Errorf("initial scan: %w", err)
	}

	w := watcher.New(root, cfg.WatcherOptions(), scan)
	w.Run(ctx)
	slog.Info("watch.done", "scans", w.Scans())
	return nil
}
