// cmd/gaslib/ingest.go
package main

import (
	"github.com/spf13/cobra"

	"gaslib-catalog/internal/catalog"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <owner/repo|url>...",
	Short: "Ingest one or more repositories into the catalog",
	Long: `Scrape each repository, extract its script ID and create or update
the matching catalog entry. A repository whose latest commit has not moved
since the last ingestion is left unchanged.

Examples:
  gaslib ingest tanaikech/RunAll
  gaslib ingest https://github.com/tanaikech/RunAll gsuitedevs/apps-script-oauth2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		out, err := application.Service.Ingest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	report, err := application.Service.IngestBatch(cmd.Context(), args)
	if perr := printJSON(cmd.OutOrStdout(), report); perr != nil {
		return perr
	}
	return batchErr(report, err)
}

// batchErr turns a batch with failures into a non-zero exit.
func batchErr(report *catalog.BatchReport, err error) error {
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return errBatchFailures{failed: report.Failed, total: report.Total}
	}
	return nil
}
