// internal/github/fixture_test.go
package github

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
)

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Octo/Lib": {
			"description": "A library",
			"stars": 7,
			"readme": "Script ID: 1abcdefghijklmnopqrstuvwxyz",
			"licenseType": "MIT License",
			"latestCommit": "2024-05-01T10:00:00Z"
		},
		"octo/empty": {}
	}`), 0o600))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	ctx := context.Background()

	meta, err := f.Repository(ctx, "octo", "lib")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/Octo/Lib", meta.URL, "the registered casing is canonical")
	assert.Equal(t, "Octo", meta.AuthorName)
	assert.Equal(t, 7, meta.StarsCount)

	readme, err := f.Readme(ctx, "octo", "lib")
	require.NoError(t, err)
	assert.Contains(t, readme, "Script ID")

	lic, err := f.License(ctx, "octo", "lib")
	require.NoError(t, err)
	assert.Equal(t, "MIT License", lic.Type)

	ts, ok, err := f.LatestCommit(ctx, "octo", "lib")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	_, ok, err = f.LatestCommit(ctx, "octo", "empty")
	require.NoError(t, err)
	assert.False(t, ok)

	lic, err = f.License(ctx, "octo", "empty")
	require.NoError(t, err)
	assert.Equal(t, model.UnknownLicense, lic)
}

func TestFixture_UnknownRepository(t *testing.T) {
	f := NewFixture()

	_, err := f.Repository(context.Background(), "nobody", "nothing")

	assert.ErrorIs(t, err, custom_errors.ErrNotFound)
}

func TestLoadFixture_InvalidKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not a repo": {}}`), 0o600))

	_, err := LoadFixture(path)

	assert.Error(t, err)
}

func TestFixture_CanonicalCasing(t *testing.T) {
	f := NewFixture()
	f.Set("Octo", "Lib", FixtureRepo{Readme: "readme"})
	ctx := context.Background()

	lower, err := f.Repository(ctx, "octo", "lib")
	require.NoError(t, err)
	upper, err := f.Repository(ctx, "OCTO", "LIB")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/Octo/Lib", lower.URL)
	assert.Equal(t, lower.URL, upper.URL)
	assert.Equal(t, "Octo", upper.Owner)
	assert.Equal(t, "Lib", upper.Name)
	assert.Equal(t, "https://github.com/Octo", upper.AuthorURL)
}
