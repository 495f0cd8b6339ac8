// internal/cli/readme.go
package perfreport

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/mwiater/perfreport/internal/report"
	"github.com/spf13/cobra"
)

var readmeOutputDir string

// readmeCmd implements 'readme', which writes only readme.html.
var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Write readme.html into a directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := readmeOutputDir
		if dir == "" {
			dir = GetConfig().OutputDirectory()
		}
		return runReadme(dir, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(readmeCmd)
	readmeCmd.Flags().StringVarP(&readmeOutputDir, "output", "o", "", "directory to write readme.html into (default: configured output directory)")
}

func runReadme(dir string, out io.Writer) error {
	if dir == "" {
		return fmt.Errorf("output directory is required")
	}
	return writePage(filepath.Join(dir, report.ReadmeFileName), out, report.RenderReadme)
}
