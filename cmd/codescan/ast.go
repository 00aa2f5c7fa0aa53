package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a-menaf-altintas/codescan/internal/parser"
)

var astMaxText int

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Print the syntax tree of one file",
	Long: `Print the tree-sitter syntax tree of a source file: node kind, field
name, line span and a clipped excerpt of the node text. Useful when
writing or debugging catalog patterns.`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

func init() {
	astCmd.Flags().IntVar(&astMaxText, "max-text", 60, "clip node text to this many bytes (0 for no limit)")
}

func runAST(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	reg := parser.NewRegistry()
	defer reg.Close()

	l, ok := reg.Resolve(filepath.Ext(path))
	if !ok {
		return fmt.Errorf("%s: %w", path, parser.ErrUnsupportedLanguage)
	}
	g, err := reg.Load(l)
	if err != nil {
		return err
	}
	tree, err := g.Parse(source)
	if err != nil {
		return err
	}
	defer tree.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "=== %s (%s) ===\n", path, l)
	parser.Dump(cmd.OutOrStdout(), tree.RootNode(), source, astMaxText)
	return nil
}
