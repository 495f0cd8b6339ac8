// internal/cli/show_config.go
package perfreport

import (
	"github.com/spf13/cobra"
)

var showConfigVerbose bool

// showConfigCmd implements 'show config', which prints the effective
// configuration after the config file and flags have been merged.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		runShowConfig(cmd.OutOrStdout(), showConfigVerbose)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	showConfigCmd.Flags().BoolVarP(&showConfigVerbose, "verbose", "v", false, "dump the full configuration struct")
}
