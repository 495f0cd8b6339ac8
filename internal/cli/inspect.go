// internal/cli/inspect.go
package perfreport

import "github.com/spf13/cobra"

var inspectInput string

// inspectCmd implements 'inspect', which prints a per-range overview of a
// capture to the terminal.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a per-range overview of a capture",
	Long:  `The 'inspect' command lists every range of a capture with its duration, GR Engine Active% and most utilized unit, without writing a report.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(GetConfig(), inspectInput, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectInput, "input", "i", "", "capture JSON file")
	_ = inspectCmd.MarkFlagRequired("input")
}
