// cmd/gaslib/root.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gaslib-catalog/internal/app"
	"gaslib-catalog/internal/config"
)

var (
	application *app.App
	logger      *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gaslib",
	Short: "Manage the Google Apps Script library catalog",
	Long: `gaslib ingests GitHub repositories that publish Google Apps Script
libraries, extracts their script IDs and keeps the catalog up to date.

Configuration is read from the environment or a .env file, the same way
the HTTP service reads it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipSetup(cmd) {
			return nil
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger = app.NewLogger(os.Stderr, cfg.LogLevel)

		application, err = app.New(cmd.Context(), cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Close()
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

// skipSetup reports whether cmd runs without config or storage: help and
// shell completion, including cobra's hidden __complete helpers.
func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
