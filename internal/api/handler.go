// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gaslib-catalog/internal/catalog"
	"gaslib-catalog/internal/model"
	"gaslib-catalog/internal/scraper"
)

const (
	maxBodyBytes = 1 << 20
	maxBatchSize = 200
)

// Catalog is the service surface exposed over HTTP.
type Catalog interface {
	Ingest(ctx context.Context, raw string) (*catalog.Outcome, error)
	Scrape(ctx context.Context, raw string) (*scraper.Result, error)
	IngestBatch(ctx context.Context, refs []string) (*catalog.BatchReport, error)
	ValidateAll(ctx context.Context, apply bool) (*catalog.ValidationReport, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.LibraryRecord, int, error)
	Get(ctx context.Context, id string) (*model.LibraryRecord, error)
	SetStatus(ctx context.Context, id string, status model.Status) (*model.LibraryRecord, error)
	RecordCopy(ctx context.Context, id string) (*model.LibraryRecord, error)
}

// Handler is the container for API dependencies.
type Handler struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(c Catalog, logger *slog.Logger) http.Handler {
	h := &Handler{
		catalog: c,
		logger:  logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/libraries", h.listLibraries)
			r.Get("/libraries/{id}", h.getLibrary)
			r.Post("/libraries/{id}/copy", h.recordCopy)
		})

		// Batch and validation runs are paced on purpose and can take minutes.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Timeout(15 * time.Minute))
			r.Post("/ingest", h.ingest)
			r.Post("/ingest/batch", h.ingestBatch)
			r.Post("/scrape", h.scrape)
			r.Post("/validate", h.validate)
			r.Get("/libraries", h.adminListLibraries)
			r.Patch("/libraries/{id}/status", h.setStatus)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type listResponse struct {
	Libraries []*model.LibraryRecord `json:"libraries"`
	Total     int                    `json:"total"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
}

// listLibraries serves the public directory.
// GET /v1/libraries?q=&limit=&offset=
func (h *Handler) listLibraries(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseListFilter(w, r)
	if !ok {
		return
	}
	published := model.StatusPublished
	filter.Status = &published
	h.list(w, r, filter)
}

// adminListLibraries lists libraries in any status.
// GET /v1/admin/libraries?status=&q=&limit=&offset=
func (h *Handler) adminListLibraries(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseListFilter(w, r)
	if !ok {
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, valid := model.ParseStatus(raw)
		if !valid {
			h.respondWithBadRequest(w, r, "Invalid 'status' parameter. Must be one of pending, published, rejected.")
			return
		}
		filter.Status = &status
	}
	h.list(w, r, filter)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, filter model.ListFilter) {
	filter = filter.Normalize()
	recs, total, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}
	for _, rec := range recs {
		rec.ReadmeContent = ""
	}
	respondWithJSON(w, http.StatusOK, listResponse{
		Libraries: recs,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	})
}

func (h *Handler) parseListFilter(w http.ResponseWriter, r *http.Request) (model.ListFilter, bool) {
	q := r.URL.Query()
	filter := model.ListFilter{Query: q.Get("q")}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 || limit > model.MaxListLimit {
			h.respondWithBadRequest(w, r, "Invalid 'limit' parameter. Must be an integer between 1 and 100.")
			return filter, false
		}
		filter.Limit = limit
	}
	if s := q.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil || offset < 0 {
			h.respondWithBadRequest(w, r, "Invalid 'offset' parameter. Must be a non-negative integer.")
			return filter, false
		}
		filter.Offset = offset
	}
	return filter, true
}

// getLibrary returns a published library.
// GET /v1/libraries/{id}
func (h *Handler) getLibrary(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.published(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// recordCopy counts a copy of a published library's script ID.
// POST /v1/libraries/{id}/copy
func (h *Handler) recordCopy(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.published(w, r); !ok {
		return
	}
	rec, err := h.catalog.RecordCopy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"id": rec.ID, "copyCount": rec.CopyCount})
}

// published loads the library named in the URL, answering 404 unless it is published.
func (h *Handler) published(w http.ResponseWriter, r *http.Request) (*model.LibraryRecord, bool) {
	rec, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err == nil && rec.Status != model.StatusPublished {
		err = catalog.ErrNotFound
	}
	if err != nil {
		h.respondWithFailure(w, r, err)
		return nil, false
	}
	return rec, true
}

type repositoryRequest struct {
	Repository string `json:"repository"`
}

type batchRequest struct {
	Repositories []string `json:"repositories"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// ingest runs the ingestion pipeline for one repository.
// POST /v1/admin/ingest
func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	var req repositoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.catalog.Ingest(r.Context(), req.Repository)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}
	code := http.StatusOK
	if out.Action == catalog.ActionCreated {
		code = http.StatusCreated
	}
	respondWithJSON(w, code, out)
}

// scrape previews what ingestion would store, without writing.
// POST /v1/admin/scrape
func (h *Handler) scrape(w http.ResponseWriter, r *http.Request) {
	var req repositoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.catalog.Scrape(r.Context(), req.Repository)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"library": res.Record,
		"pattern": res.Match.Pattern,
	})
}

// ingestBatch ingests many repositories and reports per-outcome counts.
// POST /v1/admin/ingest/batch
func (h *Handler) ingestBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Repositories) == 0 || len(req.Repositories) > maxBatchSize {
		h.respondWithBadRequest(w, r, "'repositories' must contain between 1 and "+strconv.Itoa(maxBatchSize)+" entries.")
		return
	}
	report, err := h.catalog.IngestBatch(r.Context(), req.Repositories)
	if err != nil {
		h.logger.Warn("Batch ingestion interrupted", "error", err)
	}
	respondWithJSON(w, http.StatusOK, report)
}

// validate re-checks every live library against its current README.
// POST /v1/admin/validate?apply=true|false
func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	apply := false
	if s := r.URL.Query().Get("apply"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			h.respondWithBadRequest(w, r, "Invalid 'apply' parameter. Must be true or false.")
			return
		}
		apply = v
	}
	report, err := h.catalog.ValidateAll(r.Context(), apply)
	if err != nil && report == nil {
		h.respondWithFailure(w, r, err)
		return
	}
	if err != nil {
		h.logger.Warn("Validation interrupted", "error", err)
	}
	respondWithJSON(w, http.StatusOK, report)
}

// setStatus moderates a library.
// PATCH /v1/admin/libraries/{id}/status
func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	status, ok := model.ParseStatus(req.Status)
	if !ok {
		h.respondWithBadRequest(w, r, "Invalid 'status'. Must be one of pending, published, rejected.")
		return
	}
	rec, err := h.catalog.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.respondWithBadRequest(w, r, "Invalid request body: "+strings.TrimPrefix(err.Error(), "json: "))
		return false
	}
	return true
}
