// internal/api/handler_test.go
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaslib-catalog/internal/catalog"
	"gaslib-catalog/internal/github"
	"gaslib-catalog/internal/model"
	"gaslib-catalog/internal/scraper"
	"gaslib-catalog/internal/store/memory"
	"gaslib-catalog/internal/summary"
)

const scriptID = "1B7FSrk5Zi6L1rSxxTDgDEUsPzlukDsi4KGuTMorsTQHhGBzBkMun4iDF"

type testEnv struct {
	server  *httptest.Server
	fixture *github.Fixture
	svc     *catalog.Service
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fx := github.NewFixture()
	commit := time.Now().Add(-24 * time.Hour)
	fx.Set("owner", "repo", github.FixtureRepo{
		Description:  "Date helpers",
		Stars:        5,
		Readme:       "# repo\n\nScript ID: " + scriptID + "\n",
		LatestCommit: &commit,
	})
	fx.Set("owner", "plain", github.FixtureRepo{Readme: "# nothing\n", LatestCommit: &commit})

	svc := catalog.NewService(memory.New(), scraper.New(fx, nil, logger), summary.Nop{}, catalog.Options{BatchSize: 2}, logger)
	server := httptest.NewServer(NewRouter(svc, logger))
	t.Cleanup(server.Close)
	return &testEnv{server: server, fixture: fx, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header ...string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func errorReason(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	reason, _ := e["reason"].(string)
	return reason
}

func errorMessage(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func TestHealth(t *testing.T) {
	env := setupTestServer(t)

	resp, body := env.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestIngestLifecycle(t *testing.T) {
	env := setupTestServer(t)

	resp, body := env.do(t, http.MethodPost, "/v1/admin/ingest", `{"repository": "owner/repo"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", body["action"])
	lib := body["library"].(map[string]any)
	id := lib["id"].(string)
	assert.Equal(t, scriptID, lib["scriptId"])
	assert.Equal(t, "pending", lib["status"])

	resp, body = env.do(t, http.MethodPost, "/v1/admin/ingest", `{"repository": "https://github.com/owner/repo"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unchanged", body["action"])

	// Pending libraries are invisible to the public directory.
	resp, body = env.do(t, http.MethodGet, "/v1/libraries/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorReason(body))

	resp, body = env.do(t, http.MethodPatch, "/v1/admin/libraries/"+id+"/status", `{"status": "published"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "published", body["status"])

	resp, body = env.do(t, http.MethodGet, "/v1/libraries?q=date", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])
	listed := body["libraries"].([]any)[0].(map[string]any)
	assert.Equal(t, id, listed["id"])
	assert.NotContains(t, listed, "readmeContent")

	resp, body = env.do(t, http.MethodPost, "/v1/libraries/"+id+"/copy", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["copyCount"])

	resp, body = env.do(t, http.MethodGet, "/v1/libraries/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["readmeContent"], scriptID)
}

func TestIngestFailures(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name       string
		body       string
		lang       string
		wantCode   int
		wantReason string
		wantMsg    string
	}{
		{"malformed reference", `{"repository": "nope"}`, "en", http.StatusBadRequest, "invalid_reference", "The repository reference is malformed"},
		{"unknown repository", `{"repository": "owner/missing"}`, "en", http.StatusNotFound, "not_found", ""},
		{"no script id in japanese", `{"repository": "owner/plain"}`, "ja-JP,ja;q=0.9", http.StatusUnprocessableEntity, "no_script_id", "README からスクリプトIDが見つかりませんでした"},
		{"bad json", `{"repository":`, "en", http.StatusBadRequest, "invalid_request", ""},
		{"unknown field", `{"repo": "owner/repo"}`, "en", http.StatusBadRequest, "invalid_request", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/v1/admin/ingest", tt.body, "Accept-Language", tt.lang)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantReason, errorReason(body))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, errorMessage(body))
			}
		})
	}
}

func TestDuplicateIsConflict(t *testing.T) {
	env := setupTestServer(t)
	commit := time.Now().Add(-time.Hour)
	env.fixture.Set("fork", "repo", github.FixtureRepo{Readme: "Script ID: " + scriptID, LatestCommit: &commit})

	resp, _ := env.do(t, http.MethodPost, "/v1/admin/ingest", `{"repository": "owner/repo"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/v1/admin/ingest", `{"repository": "fork/repo"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "duplicate_script_id", errorReason(body))
}

func TestScrapeDoesNotPersist(t *testing.T) {
	env := setupTestServer(t)

	resp, body := env.do(t, http.MethodPost, "/v1/admin/scrape", `{"repository": "owner/repo"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "label_script_id", body["pattern"])
	_, total, err := env.svc.List(context.Background(), model.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestIngestBatch(t *testing.T) {
	env := setupTestServer(t)

	resp, body := env.do(t, http.MethodPost, "/v1/admin/ingest/batch", `{"repositories": ["owner/repo", "owner/plain", "bad"]}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(1), body["created"])
	assert.Equal(t, float64(2), body["failed"])
	assert.Equal(t, map[string]any{"no_script_id": float64(1), "invalid_reference": float64(1)}, body["failures"])

	resp, body = env.do(t, http.MethodPost, "/v1/admin/ingest/batch", `{"repositories": []}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", errorReason(body))
}

func TestValidate(t *testing.T) {
	env := setupTestServer(t)
	resp, _ := env.do(t, http.MethodPost, "/v1/admin/ingest", `{"repository": "owner/repo"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/v1/admin/validate?apply=false", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["valid"])
	assert.Equal(t, false, body["applied"])

	resp, body = env.do(t, http.MethodPost, "/v1/admin/validate?apply=maybe", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", errorReason(body))
}

func TestAdminListAndQueryValidation(t *testing.T) {
	env := setupTestServer(t)
	resp, _ := env.do(t, http.MethodPost, "/v1/admin/ingest", `{"repository": "owner/repo"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/v1/admin/libraries?status=pending", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])

	resp, body = env.do(t, http.MethodGet, "/v1/libraries", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["total"])

	for _, path := range []string{
		"/v1/admin/libraries?status=archived",
		"/v1/libraries?limit=0",
		"/v1/libraries?limit=101",
		"/v1/libraries?offset=-1",
	} {
		resp, body = env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "invalid_request", errorReason(body), path)
	}

	resp, body = env.do(t, http.MethodPatch, "/v1/admin/libraries/missing/status", `{"status": "published"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorReason(body))
}
