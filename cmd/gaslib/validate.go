// cmd/gaslib/validate.go
package main

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-check stored libraries against their current READMEs",
	Long: `Re-scrape every pending and published library and report the ones
whose README no longer yields the stored script ID. Without --apply this is a
dry run; with it, failing libraries are moved to rejected.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("apply", false, "Move libraries that fail validation to rejected")
}

func runValidate(cmd *cobra.Command, args []string) error {
	apply, _ := cmd.Flags().GetBool("apply")

	report, err := application.Service.ValidateAll(cmd.Context(), apply)
	if report != nil {
		if perr := printJSON(cmd.OutOrStdout(), report); perr != nil {
			return perr
		}
	}
	return err
}
