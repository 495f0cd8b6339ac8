// internal/cli/generate.go
package perfreport

import (
	"github.com/mwiater/perfreport/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type generateOptions struct {
	inputPath string
}

var generateOpts generateOptions

// generateCmd turns a capture bundle into the report directory.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the HTML and CSV report for a capture",
	Long: `Read a capture bundle (device information plus every profiled range), then
write readme.html, one page per range, summary.html and the CSV exports into
the output directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), GetConfig(), generateOpts.inputPath, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	defaults := appconfig.Default()
	generateCmd.Flags().StringVarP(&generateOpts.inputPath, "input", "i", "", "capture JSON file")
	_ = generateCmd.MarkFlagRequired("input")
	generateCmd.Flags().StringP("output", "o", defaults.OutputDir, "directory the report is written to")
	generateCmd.Flags().Bool("timestamped", defaults.Timestamped, "write into a YYYYMMDD_HHMMSS subdirectory named after the collection time")
	generateCmd.Flags().Bool("html", defaults.HTML, "write the HTML pages")
	generateCmd.Flags().Bool("csv", defaults.CSV, "write the CSV exports")
	generateCmd.Flags().Bool("populateDummyValues", defaults.PopulateDummyValues, "replace missing metric values with random ones")
	generateCmd.Flags().Int("workers", defaults.Workers, "pages rendered concurrently (0 = one per CPU)")

	_ = viper.BindPFlag("outputDir", generateCmd.Flags().Lookup("output"))
	for _, name := range []string{"timestamped", "html", "csv", "populateDummyValues", "workers"} {
		_ = viper.BindPFlag(name, generateCmd.Flags().Lookup(name))
	}
}
