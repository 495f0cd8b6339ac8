// internal/cli/render_summary.go
package perfreport

import "github.com/spf13/cobra"

var renderSummaryInput, renderSummaryOutput string

// renderSummaryCmd implements 'render summary', which renders summary.html.
var renderSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Render the summary page from a summary payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRenderSummary(GetConfig(), renderSummaryInput, renderSummaryOutput, cmd.OutOrStdout())
	},
}

func init() {
	renderCmd.AddCommand(renderSummaryCmd)
	renderSummaryCmd.Flags().StringVarP(&renderSummaryInput, "input", "i", "", "summary payload JSON file")
	_ = renderSummaryCmd.MarkFlagRequired("input")
	renderSummaryCmd.Flags().StringVarP(&renderSummaryOutput, "output", "o", "", "HTML file to write")
	_ = renderSummaryCmd.MarkFlagRequired("output")
}
