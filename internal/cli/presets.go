package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"image-editor/internal/algorithms"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List preset filters and adjustable parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tFILTER")
			for _, p := range algorithms.Presets() {
				fmt.Fprintf(w, "%s\t%s\n", p, algorithms.Describe(algorithms.Recipe(p)))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "PARAMETER\tRANGE\tDEFAULT")
			for _, f := range algorithms.Fields() {
				fmt.Fprintf(w, "%s\t%s..%s\t%s\n", f.Field, f.FormatValue(f.Min), f.FormatValue(f.Max), f.FormatValue(f.Default))
			}
			return w.Flush()
		},
	}
}
