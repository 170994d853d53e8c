// cmd/gaslib/batch.go
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type errBatchFailures struct {
	failed, total int
}

func (e errBatchFailures) Error() string {
	return fmt.Sprintf("%d of %d repositories failed", e.failed, e.total)
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest every repository listed in a file",
	Long: `Read repository references, one per line, and ingest them in paced
chunks. Blank lines and lines starting with # are ignored. Use --file - to
read from standard input.

Examples:
  gaslib batch --file repos.txt
  cat repos.txt | gaslib batch --file -`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("file", "f", "", "File with one repository reference per line (- for stdin)")
	_ = batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	refs, err := readReferences(r)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("no repository references found in %s", path)
	}

	report, err := application.Service.IngestBatch(cmd.Context(), refs)
	if perr := printJSON(cmd.OutOrStdout(), report); perr != nil {
		return perr
	}
	return batchErr(report, err)
}

func readReferences(r io.Reader) ([]string, error) {
	var refs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read references: %w", err)
	}
	return refs, nil
}
