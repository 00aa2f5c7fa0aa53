package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a-menaf-altintas/codescan/internal/config"
	"github.com/a-menaf-altintas/codescan/internal/tools"
)

var (
	// Version information (set by build flags)
	Version = "dev"

	cfgFile   string
	verbose   bool
	logFormat string
	cfg       *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "codescan",
	Short: "Extract program entities from a project tree",
	Long: `codescan walks a project, parses every supported source file with
tree-sitter and emits one byte-exact code chunk per class, interface,
function, method, constructor, enum and the other declarations the
language catalog knows about.

The scan is written as a JSON document plus a plain-text rendering, can be
persisted into a SQLite chunk store, re-run on change, and served to
editors and agents over MCP.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.codescan.yaml or ~/.codescan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log handler: text or json")

	rootCmd.SetVersionTemplate("codescan {{.Version}}\n")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration and installs the process logger. Logs go to
// stderr so stdout stays free for MCP stdio and piped output.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-format") {
		loaded.Log.Format = logFormat
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	logger, err := loaded.Log.NewLogger(cmd.ErrOrStderr(), verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	tools.Version = Version
	cfg = loaded
	return nil
}
