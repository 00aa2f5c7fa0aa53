package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a-menaf-altintas/codescan/internal/config"
	"github.com/a-menaf-altintas/codescan/internal/pipeline"
	"github.com/a-menaf-altintas/codescan/internal/report"
	"github.com/a-menaf-altintas/codescan/internal/store"
)

// autoDB selects the per-project database in the cache directory.
const autoDB = "auto"

var (
	scanIncludeOnly  []string
	scanModule       string
	scanArea         string
	scanNamesOnly    bool
	scanIncludeTests bool
	scanFormat       string
	scanDB           string
	scanName         string
	scanStats        bool
	scanFull         bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [root] [output]",
	Short: "Scan a project and write its code chunks",
	Long: `Scan a project tree and write the result.

Without an output path the scan is written to ./<project>_ast_scan.json
plus a plain-text sibling ./<project>_ast_scan.txt. An output ending in
.json also gets the .txt sibling; any other extension is written as text
only.

Examples:
  codescan scan
  codescan scan ./shop out/shop.json
  codescan scan ./shop --include-only java,ts --scan-area backend --module order
  codescan scan ./shop --names-only
  codescan scan ./shop --db auto
  codescan scan ./shop --db auto --full`,
	Args: cobra.MaximumNArgs(2),
	RunE: runScan,
}

func init() {
	addScanFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanFormat, "format", "", "output format without an explicit output path: json or text")
	scanCmd.Flags().BoolVar(&scanStats, "stats", true, "print scan statistics to stdout")
	scanCmd.Flags().BoolVar(&scanFull, "full", false, "rewrite every stored file, ignoring unchanged content hashes")
}

// addScanFlags registers the filter and store flags shared by scan and watch.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&scanIncludeOnly, "include-only", nil, "only include these extensions (e.g. java,ts)")
	cmd.Flags().StringVar(&scanModule, "module", "", "only scan <scan-area or backend>/<module>/")
	cmd.Flags().StringVar(&scanArea, "scan-area", "", "only scan the frontend or backend directory")
	cmd.Flags().BoolVar(&scanNamesOnly, "names-only", false, "list file names per directory without extracting entities")
	cmd.Flags().BoolVar(&scanIncludeTests, "include-tests", false, "include test files")
	cmd.Flags().StringVar(&scanDB, "db", "", "persist chunks into this SQLite database ('auto' for the cache dir)")
	cmd.Flags().StringVar(&scanName, "name", "", "project name (default: base name of root)")
}

// applyScanFlags overrides configuration values with the flags that were set.
func applyScanFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("include-only") {
		c.Scan.IncludeExts = scanIncludeOnly
	}
	if flags.Changed("module") {
		c.Scan.Module = scanModule
	}
	if flags.Changed("scan-area") {
		c.Scan.ScanArea = scanArea
	}
	if flags.Changed("names-only") {
		c.Scan.NamesOnly = scanNamesOnly
	}
	if flags.Changed("include-tests") {
		c.Scan.IncludeTests = scanIncludeTests
	}
	if flags.Changed("db") {
		c.Store.Path = scanDB
	}
	if flags.Changed("name") {
		c.Project.Name = scanName
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		c.Output.Format = scanFormat
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	applyScanFlags(cmd, cfg)
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

	res, paths, err := scanOnce(cmd.Context(), cfg, st, root, out)
	if err != nil {
		return err
	}
	printPaths(cmd.OutOrStdout(), paths)
	if scanStats {
		return report.WriteStats(cmd.OutOrStdout(), res)
	}
	return nil
}

// scanArgs returns the root and output path from positional arguments,
// falling back to the configuration.
func scanArgs(args []string, c *config.Config) (root, out string) {
	root, out = ".", c.Output.Path
	if len(args) > 0 {
		root = args[0]
	}
	if len(args) > 1 {
		out = args[1]
	}
	return root, out
}

// openStore opens the chunk store at path. An empty path disables the store.
func openStore(path, root string) (*store.Store, error) {
	switch path {
	case "":
		return nil, nil
	case autoDB:
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve root: %w", err)
		}
		return store.Open(pipeline.ProjectNameFromPath(abs))
	default:
		return store.OpenPath(path)
	}
}

// scanOnce runs one scan, writes its output files and persists it when a
// store is open.
func scanOnce(ctx context.Context, c *config.Config, st *store.Store, root, out string) (*pipeline.Result, report.Paths, error) {
	var paths report.Paths
	res, err := pipeline.New(root, c.PipelineOptions()).Run(ctx)
	if err != nil {
		return nil, paths, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, paths, fmt.Errorf("working dir: %w", err)
	}
	if out == "" && c.Output.Format == "text" {
		out = filepath.Join(cwd, res.ProjectName+"_ast_scan.txt")
	}
	paths = report.OutputPaths(res.ProjectName, out, cwd)
	if err := report.WriteFiles(paths, res); err != nil {
		return nil, paths, err
	}
	slog.Info("scan.written", "json", paths.JSON, "text", paths.Text)

	if st != nil && !res.Config.NamesOnly {
		persist := pipeline.Persist
		if scanFull {
			persist = pipeline.PersistFull
		}
		ps, err := persist(st, res)
		if err != nil {
			return nil, paths, fmt.Errorf("persist: %w", err)
		}
		slog.Info("scan.persisted", "db", st.Path(), "changed", ps.Changed, "unchanged", ps.Unchanged, "removed", ps.Removed)
	}
	return res, paths, nil
}

// printPaths lists the written files, one per line.
func printPaths(w io.Writer, p report.Paths) {
	for _, path := range []string{p.JSON, p.Text} {
		if path != "" {
			fmt.Fprintln(w, path)
		}
	}
}
