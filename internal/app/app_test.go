// internal/app/app_test.go
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaslib-catalog/internal/catalog"
	"gaslib-catalog/internal/config"
)

const fixtureJSON = `{
	"owner/repo": {
		"description": "Sheet helpers",
		"stars": 4,
		"readme": "Script ID: 1B7FSrk5Zi6L1rSxxTDgDEUsPzlukDsi4KGuTMorsTQHhGBzBkMun4iDF",
		"latestCommit": "2024-05-01T10:00:00Z"
	}
}`

func TestNew_MemoryStoreWithFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o600))

	cfg := &config.Config{
		Store:            config.StoreMemory,
		GithubMode:       config.GithubModeFixture,
		GithubFixtures:   path,
		BatchConcurrency: 2,
	}
	logger := NewLogger(io.Discard, "debug")

	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer a.Close()

	out, err := a.Service.Ingest(context.Background(), "owner/repo")
	require.NoError(t, err)
	assert.Equal(t, catalog.ActionCreated, out.Action)
	assert.Equal(t, "Sheet helpers", out.Library.Description)
	assert.Empty(t, out.Library.SummaryEN, "summaries are off without an API key")
}

func TestNew_MissingFixtureFile(t *testing.T) {
	cfg := &config.Config{
		Store:          config.StoreMemory,
		GithubMode:     config.GithubModeFixture,
		GithubFixtures: filepath.Join(t.TempDir(), "missing.json"),
	}

	_, err := New(context.Background(), cfg, NewLogger(io.Discard, "info"))

	assert.Error(t, err)
}

func TestSetLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			v := new(slog.LevelVar)
			SetLogLevel(in, v)
			assert.Equal(t, want, v.Level())
		})
	}
}
