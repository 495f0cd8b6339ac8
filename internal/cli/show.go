// internal/cli/show.go
package perfreport

import (
	"github.com/spf13/cobra"
)

// showCmd represents the 'show' command group for displaying settings.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying settings",
	Long:  `The 'show' command groups subcommands that display settings or information related to perfreport.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
