// internal/github/client_test.go
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
	"gaslib-catalog/internal/ratelimit"
)

const testMaxAttempts = 3

// setupTestClient creates a httptest server and a github client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient("", Options{
		RequestInterval: 0,
		MaxAttempts:     testMaxAttempts,
		BackoffBase:     5 * time.Millisecond,
		BackoffMax:      20 * time.Millisecond,
	}, logger)

	// Override the client's internal http client to point to our test server.
	testClient, err := github.NewClient(server.Client()).WithEnterpriseURLs(server.URL, server.URL)
	require.NoError(t, err)
	client.gh = testClient

	return client, server
}

// The enterprise client prefixes every path with /api/v3.
const apiPrefix = "/api/v3"

const repoJSON = `{
	"id": 1,
	"name": "repo",
	"description": null,
	"html_url": "https://github.com/test/repo",
	"stargazers_count": 42,
	"owner": {"login": "test", "html_url": "https://github.com/test"}
}`

func TestClient_Repository(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiPrefix+"/repos/test/repo", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, repoJSON)
	})
	client, server := setupTestClient(t, handler)
	defer server.Close()

	meta, err := client.Repository(context.Background(), "test", "repo")

	require.NoError(t, err)
	assert.Equal(t, &model.RepositoryMetadata{
		Owner:       "test",
		Name:        "repo",
		Description: "",
		URL:         "https://github.com/test/repo",
		AuthorName:  "test",
		AuthorURL:   "https://github.com/test",
		StarsCount:  42,
	}, meta)
}

func TestClient_Repository_Retry(t *testing.T) {
	t.Run("succeeds on first try", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, repoJSON)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		repo, err := client.Repository(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
		assert.Equal(t, "repo", repo.Name)
	})

	t.Run("retries on 503 server error and succeeds", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				w.WriteHeader(http.StatusServiceUnavailable) // Fail first time
				return
			}
			w.WriteHeader(http.StatusOK) // Succeed second time
			fmt.Fprintln(w, repoJSON)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.Repository(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount), "should have made two requests")
	})

	t.Run("retries on forbidden response", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprintln(w, `{"message": "Forbidden"}`)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, repoJSON)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.Repository(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})

	t.Run("handles rate limit error", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				// A reset time already in the past lets the retry go through immediately.
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(-time.Second).Unix(), 10))
				w.WriteHeader(http.StatusForbidden) // RateLimitError is a 403
				fmt.Fprintln(w, `{"message": "API rate limit exceeded for 127.0.0.1."}`)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, repoJSON)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.Repository(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})

	t.Run("fails after max retries on persistent server error", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.Repository(context.Background(), "test", "repo")

		require.Error(t, err)
		assert.ErrorIs(t, err, custom_errors.ErrExternalServiceUnavailable)
		var ghErr *github.ErrorResponse
		assert.ErrorAs(t, err, &ghErr)
		assert.Equal(t, http.StatusInternalServerError, ghErr.Response.StatusCode)
		assert.Equal(t, int32(testMaxAttempts), atomic.LoadInt32(&requestCount))
	})

	t.Run("does not retry a missing repository", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.Repository(context.Background(), "test", "repo")

		assert.ErrorIs(t, err, custom_errors.ErrNotFound)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})
}

func TestClient_Readme(t *testing.T) {
	t.Run("decodes base64 content", func(t *testing.T) {
		body := "# Lib\n\nScript ID: 1abcdefghijklmnopqrstuvwxyz\n"
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, apiPrefix+"/repos/test/repo/readme", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "content": %q}`, base64.StdEncoding.EncodeToString([]byte(body)))
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		readme, err := client.Readme(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, body, readme)
	})

	t.Run("missing readme is empty, not an error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		readme, err := client.Readme(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Empty(t, readme)
	})
}

func TestClient_License(t *testing.T) {
	t.Run("returns license name and url", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, apiPrefix+"/repos/test/repo/license", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"name": "LICENSE",
				"html_url": "https://github.com/test/repo/blob/main/LICENSE",
				"license": {"key": "mit", "name": "MIT License", "url": "https://api.github.com/licenses/mit"}
			}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		lic, err := client.License(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, model.License{Type: "MIT License", URL: "https://api.github.com/licenses/mit"}, lic)
	})

	t.Run("missing license falls back to unknown", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		lic, err := client.License(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, model.UnknownLicense, lic)
	})
}

func TestClient_LatestCommit(t *testing.T) {
	t.Run("returns committer date of the newest commit", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, apiPrefix+"/repos/test/repo/commits", r.URL.Path)
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[{"sha": "abc", "commit": {
				"author": {"date": "2024-01-01T12:00:00Z"},
				"committer": {"date": "2024-01-02T08:30:00Z"}
			}}]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		ts, ok, err := client.LatestCommit(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, ts.Equal(time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)))
	})

	t.Run("empty repository is unavailable", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusConflict)
			fmt.Fprintln(w, `{"message": "Git Repository is empty."}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, ok, err := client.LatestCommit(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})

	t.Run("no commits is unavailable", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, ok, err := client.LatestCommit(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestClient_CanceledDuringBackoff(t *testing.T) {
	var requestCount int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client, server := setupTestClient(t, handler)
	defer server.Close()
	client.policy.Backoff = ratelimit.Backoff{Base: time.Hour, Max: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Repository(ctx, "test", "repo")

	require.Error(t, err)
	assert.Equal(t, custom_errors.ReasonCanceled, custom_errors.ReasonOf(err))
	assert.NotErrorIs(t, err, custom_errors.ErrExternalServiceUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
}
