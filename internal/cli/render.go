// internal/cli/render.go
package perfreport

import "github.com/spf13/cobra"

// renderCmd represents the 'render' command group for single pages.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Group commands for rendering a single page from a payload",
	Long:  `The 'render' command groups subcommands that turn one embedded payload JSON document into its HTML page.`,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
