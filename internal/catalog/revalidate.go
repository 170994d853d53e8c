// internal/catalog/revalidate.go
package catalog

import (
	"context"
	"fmt"

	"gaslib-catalog/internal/batch"
	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
	"gaslib-catalog/internal/scraper"
)

// Verdict is the re-validation result for a stored library.
type Verdict string

const (
	VerdictValid    Verdict = "valid"
	VerdictRejected Verdict = "rejected"
	VerdictErrored  Verdict = "errored"
)

// Validation describes how one stored library fared against its current README.
type Validation struct {
	LibraryID      string               `json:"libraryId"`
	RepositoryURL  string               `json:"repositoryUrl"`
	Verdict        Verdict              `json:"verdict"`
	Reason         custom_errors.Reason `json:"reason,omitempty"`
	StoredScriptID string               `json:"storedScriptId"`
	FoundScriptID  string               `json:"foundScriptId,omitempty"`
}

// ValidationReport aggregates a ValidateAll run.
type ValidationReport struct {
	Total      int          `json:"total"`
	Valid      int          `json:"valid"`
	Rejected   int          `json:"rejected"`
	Errored    int          `json:"errored"`
	Applied    bool         `json:"applied"`
	Rejections []Validation `json:"rejections"`
	Errors     []Validation `json:"errors"`
}

// ValidateAll re-scrapes every pending and published library and checks that
// its README still yields the stored script ID. With apply set, libraries
// that fail the check are moved to rejected; otherwise nothing is written.
func (s *Service) ValidateAll(ctx context.Context, apply bool) (*ValidationReport, error) {
	var records []*model.LibraryRecord
	for _, st := range []model.Status{model.StatusPending, model.StatusPublished} {
		recs, err := s.listAll(ctx, st)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	s.logger.Info("Starting re-validation", "count", len(records), "apply", apply)

	results, err := batch.Chunked(ctx, records, s.opts.BatchSize, s.opts.BatchDelay, s.revalidate)

	report := &ValidationReport{Total: len(records), Applied: apply}
	for _, v := range results {
		if v.Verdict == VerdictRejected && apply {
			if _, uerr := s.store.UpdateStatus(ctx, v.LibraryID, model.StatusRejected); uerr != nil {
				s.logger.Error("Failed to reject library", "library_id", v.LibraryID, "error", uerr)
				v.Verdict = VerdictErrored
				v.Reason = custom_errors.ReasonOf(uerr)
			}
		}
		switch v.Verdict {
		case VerdictValid:
			report.Valid++
		case VerdictRejected:
			report.Rejected++
			report.Rejections = append(report.Rejections, v)
		case VerdictErrored:
			report.Errored++
			report.Errors = append(report.Errors, v)
		}
	}

	s.logger.Info("Re-validation finished",
		"valid", report.Valid,
		"rejected", report.Rejected,
		"errored", report.Errored,
	)
	return report, err
}

func (s *Service) revalidate(ctx context.Context, rec *model.LibraryRecord) Validation {
	v := Validation{
		LibraryID:      rec.ID,
		RepositoryURL:  rec.RepositoryURL,
		StoredScriptID: rec.ScriptID,
	}

	res, err := s.scraper.Scrape(ctx, rec.RepositoryURL)
	if err != nil {
		v.Reason = custom_errors.ReasonOf(err)
		v.Verdict = VerdictErrored
		if v.Reason != custom_errors.ReasonNoScriptID {
			return v
		}
		// Only a README that was actually read may reject a library.
		if cause, degraded := scraper.ReadmeFailure(err); degraded {
			v.Reason = cause
			return v
		}
		v.Verdict = VerdictRejected
		return v
	}

	v.FoundScriptID = res.Record.ScriptID
	if v.FoundScriptID != rec.ScriptID {
		v.Verdict = VerdictRejected
		v.Reason = custom_errors.ReasonScriptIDMismatch
		return v
	}
	v.Verdict = VerdictValid
	return v
}

func (s *Service) listAll(ctx context.Context, status model.Status) ([]*model.LibraryRecord, error) {
	var all []*model.LibraryRecord
	filter := model.ListFilter{Status: &status, Limit: model.MaxListLimit}
	for {
		page, total, err := s.store.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s libraries: %w", status, err)
		}
		all = append(all, page...)
		filter.Offset += len(page)
		if len(page) == 0 || filter.Offset >= total {
			return all, nil
		}
	}
}
