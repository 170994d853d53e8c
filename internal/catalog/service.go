// internal/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gaslib-catalog/internal/batch"
	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
	"gaslib-catalog/internal/scraper"
	"gaslib-catalog/internal/summary"
)

// ErrInvalidStatus is returned when a status transition names an unknown status.
var ErrInvalidStatus = errors.New("invalid library status")

// Action says what an ingestion did to the catalog.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
)

// Outcome is the result of a successful ingestion.
type Outcome struct {
	Action  Action               `json:"action"`
	Library *model.LibraryRecord `json:"library"`
}

// Options controls batch pacing.
type Options struct {
	BatchSize  int
	BatchDelay time.Duration
}

// DefaultOptions returns the batch pacing used when nothing is configured.
func DefaultOptions() Options {
	return Options{BatchSize: 3, BatchDelay: 2 * time.Second}
}

// Service orchestrates scraping, change detection, validation and persistence.
type Service struct {
	store      Store
	scraper    *scraper.Scraper
	summarizer summary.Summarizer
	opts       Options
	logger     *slog.Logger
}

// NewService wires a Service. A nil summarizer disables summaries.
func NewService(store Store, sc *scraper.Scraper, summarizer summary.Summarizer, opts Options, logger *slog.Logger) *Service {
	if summarizer == nil {
		summarizer = summary.Nop{}
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultOptions().BatchSize
	}
	return &Service{
		store:      store,
		scraper:    sc,
		summarizer: summarizer,
		opts:       opts,
		logger:     logger,
	}
}

// Scrape runs the scraping pipeline without touching storage.
func (s *Service) Scrape(ctx context.Context, raw string) (*scraper.Result, error) {
	return s.scraper.Scrape(ctx, raw)
}

// Ingest scrapes raw and creates, updates or leaves alone the matching library.
// Re-ingesting a repository whose latest commit has not moved is a no-op.
func (s *Service) Ingest(ctx context.Context, raw string) (*Outcome, error) {
	res, err := s.scraper.Scrape(ctx, raw)
	if err != nil {
		return nil, err
	}
	rec := res.Record
	logger := s.logger.With("owner", rec.Owner, "repo", rec.Repo)

	status, err := CheckCommitStatus(ctx, s.store, rec.RepositoryURL, rec.LastCommitAt)
	if err != nil {
		return nil, err
	}

	switch {
	case status.IsNew:
		return s.create(ctx, logger, rec)
	case !status.ShouldUpdate:
		logger.Info("Repository unchanged since last ingestion", "library_id", status.LibraryID)
		return &Outcome{Action: ActionUnchanged, Library: status.Existing}, nil
	default:
		return s.update(ctx, logger, status.Existing, rec)
	}
}

func (s *Service) create(ctx context.Context, logger *slog.Logger, rec *model.LibraryRecord) (*Outcome, error) {
	if err := ValidateUnique(ctx, s.store, rec.ScriptID, rec.RepositoryURL); err != nil {
		logger.Info("Rejected new library", "reason", custom_errors.ReasonOf(err))
		return nil, err
	}

	rec.ID = uuid.NewString()
	s.summarize(ctx, logger, rec)

	created, err := s.store.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	logger.Info("Library created", "library_id", created.ID, "script_id", created.ScriptID)
	return &Outcome{Action: ActionCreated, Library: created}, nil
}

func (s *Service) update(ctx context.Context, logger *slog.Logger, existing, fresh *model.LibraryRecord) (*Outcome, error) {
	logger = logger.With("library_id", existing.ID)

	if fresh.ScriptID != existing.ScriptID {
		other, err := s.store.FindByScriptID(ctx, fresh.ScriptID)
		switch {
		case err == nil && other.ID != existing.ID:
			return nil, custom_errors.New(custom_errors.ReasonDuplicateScriptID, existing.RepositoryURL, nil)
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("failed to check uniqueness: %w", err)
		}
		logger.Info("Script ID changed", "from", existing.ScriptID, "to", fresh.ScriptID)
	}

	next := *existing
	next.Name = fresh.Name
	next.ScriptID = fresh.ScriptID
	next.ScriptIDKind = fresh.ScriptIDKind
	next.AuthorName = fresh.AuthorName
	next.AuthorURL = fresh.AuthorURL
	next.Description = fresh.Description
	next.ReadmeContent = fresh.ReadmeContent
	next.LicenseType = fresh.LicenseType
	next.LicenseURL = fresh.LicenseURL
	next.StarsCount = fresh.StarsCount
	next.LastCommitAt = fresh.LastCommitAt

	if next.ReadmeContent != existing.ReadmeContent || (next.SummaryJA == "" && next.SummaryEN == "") {
		s.summarize(ctx, logger, &next)
	}

	updated, err := s.store.Update(ctx, &next)
	if err != nil {
		return nil, err
	}
	logger.Info("Library updated", "last_commit_at", updated.LastCommitAt)
	return &Outcome{Action: ActionUpdated, Library: updated}, nil
}

// summarize fills in the record's summaries. Failures are logged and leave
// the previous summaries in place.
func (s *Service) summarize(ctx context.Context, logger *slog.Logger, rec *model.LibraryRecord) {
	sum, err := s.summarizer.Summarize(ctx, rec.Name, rec.ReadmeContent)
	if err != nil {
		logger.Warn("Failed to generate summary", "error", err)
		return
	}
	if sum.JA != "" || sum.EN != "" {
		rec.SummaryJA = sum.JA
		rec.SummaryEN = sum.EN
	}
}

// ItemResult is the outcome for one reference in a batch.
type ItemResult struct {
	Reference string               `json:"reference"`
	Action    Action               `json:"action,omitempty"`
	LibraryID string               `json:"libraryId,omitempty"`
	Reason    custom_errors.Reason `json:"reason,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// BatchReport aggregates a batch ingestion.
type BatchReport struct {
	Total     int                          `json:"total"`
	Processed int                          `json:"processed"`
	Created   int                          `json:"created"`
	Updated   int                          `json:"updated"`
	Unchanged int                          `json:"unchanged"`
	Failed    int                          `json:"failed"`
	Failures  map[custom_errors.Reason]int `json:"failures"`
	Items     []ItemResult                 `json:"items"`
}

// IngestBatch ingests refs in chunks. A failing reference never stops the
// batch. If ctx is canceled the report covers the references processed so
// far and the context error is returned with it.
func (s *Service) IngestBatch(ctx context.Context, refs []string) (*BatchReport, error) {
	s.logger.Info("Starting batch ingestion", "count", len(refs), "chunk_size", s.opts.BatchSize)

	items, err := batch.Chunked(ctx, refs, s.opts.BatchSize, s.opts.BatchDelay, func(ctx context.Context, ref string) ItemResult {
		out, err := s.Ingest(ctx, ref)
		if err != nil {
			reason := custom_errors.ReasonOf(err)
			s.logger.Warn("Failed to ingest repository", "reference", ref, "reason", reason, "error", err)
			return ItemResult{Reference: ref, Reason: reason, Error: err.Error()}
		}
		return ItemResult{Reference: ref, Action: out.Action, LibraryID: out.Library.ID}
	})

	report := &BatchReport{
		Total:    len(refs),
		Failures: make(map[custom_errors.Reason]int),
		Items:    items,
	}
	for _, it := range items {
		report.Processed++
		switch {
		case it.Reason != "":
			report.Failed++
			report.Failures[it.Reason]++
		case it.Action == ActionCreated:
			report.Created++
		case it.Action == ActionUpdated:
			report.Updated++
		case it.Action == ActionUnchanged:
			report.Unchanged++
		}
	}

	s.logger.Info("Batch ingestion finished",
		"processed", report.Processed,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
	)
	return report, err
}

// Get returns a single library.
func (s *Service) Get(ctx context.Context, id string) (*model.LibraryRecord, error) {
	return s.store.FindByID(ctx, id)
}

// List returns one page of libraries matching filter and the total match count.
func (s *Service) List(ctx context.Context, filter model.ListFilter) ([]*model.LibraryRecord, int, error) {
	return s.store.List(ctx, filter.Normalize())
}

// SetStatus moves a library to status.
func (s *Service) SetStatus(ctx context.Context, id string, status model.Status) (*model.LibraryRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	rec, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Library status changed", "library_id", id, "status", status)
	return rec, nil
}

// RecordCopy counts one copy of a library's script ID.
func (s *Service) RecordCopy(ctx context.Context, id string) (*model.LibraryRecord, error) {
	return s.store.IncrementCopyCount(ctx, id)
}
