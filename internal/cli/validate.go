// internal/cli/validate.go
package perfreport

import "github.com/spf13/cobra"

var (
	validateInputs  []string
	validatePayload string
)

// validateCmd implements 'validate', which checks input files against their
// JSON schema.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check capture or payload files against their schema",
	Long: `The 'validate' command checks each --input file against the capture schema, or
against a payload schema when --payload is given (--payload alone means a
range payload, --payload=summary a summary payload). Every problem is listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(validateInputs, validatePayload, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringSliceVarP(&validateInputs, "input", "i", nil, "files to validate (repeatable or comma-separated)")
	_ = validateCmd.MarkFlagRequired("input")
	validateCmd.Flags().StringVar(&validatePayload, "payload", "", "validate as a payload: range or summary")
	validateCmd.Flags().Lookup("payload").NoOptDefVal = "range"
}
