// cmd/gaslib/scrape.go
package main

import (
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <owner/repo|url>",
	Short: "Show what ingestion would store for a repository",
	Long: `Run the scraping pipeline for one repository and print the resulting
library record and the pattern that matched its script ID. Nothing is written
to the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	res, err := application.Service.Scrape(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"library": res.Record,
		"pattern": res.Match.Pattern,
	})
}
