// internal/cli/render_range.go
package perfreport

import "github.com/spf13/cobra"

var renderRangeInput, renderRangeOutput string

// renderRangeCmd implements 'render range', which renders one per-range page.
var renderRangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Render a per-range page from a range payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRenderRange(GetConfig(), renderRangeInput, renderRangeOutput, cmd.OutOrStdout())
	},
}

func init() {
	renderCmd.AddCommand(renderRangeCmd)
	renderRangeCmd.Flags().StringVarP(&renderRangeInput, "input", "i", "", "range payload JSON file")
	_ = renderRangeCmd.MarkFlagRequired("input")
	renderRangeCmd.Flags().StringVarP(&renderRangeOutput, "output", "o", "", "HTML file to write")
	_ = renderRangeCmd.MarkFlagRequired("output")
}
