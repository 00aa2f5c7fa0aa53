package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a-menaf-altintas/codescan/internal/lang"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and the entity kinds extracted for each",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LANGUAGE\tEXTENSIONS\tENTITY KINDS")
		for _, l := range lang.AllLanguages() {
			spec := lang.ForLanguage(l)
			if spec == nil {
				continue
			}
			kinds := make([]string, 0, len(spec.Entities))
			for _, k := range spec.Kinds() {
				kinds = append(kinds, string(k))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", l, strings.Join(spec.FileExtensions, " "), strings.Join(kinds, ", "))
		}
		return tw.Flush()
	},
}
