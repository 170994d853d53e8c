// internal/scraper/scraper.go
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/extractor"
	"gaslib-catalog/internal/github"
	"gaslib-catalog/internal/model"
)

// Result is a successfully scraped repository, ready for validation and persistence.
type Result struct {
	Reference github.Reference
	Record    *model.LibraryRecord
	Match     extractor.Candidate
}

// Scraper turns a repository reference into a candidate LibraryRecord.
// It never touches storage, so it is safe to use for dry runs.
type Scraper struct {
	api       github.API
	extractor *extractor.Extractor
	logger    *slog.Logger
}

// New creates a Scraper. A nil extractor uses the default patterns.
func New(api github.API, ext *extractor.Extractor, logger *slog.Logger) *Scraper {
	if ext == nil {
		ext = extractor.New()
	}
	return &Scraper{api: api, extractor: ext, logger: logger}
}

// Scrape resolves raw, fetches everything ingestion needs and assembles a
// pending LibraryRecord. Failures are returned as *errors.IngestError.
func (s *Scraper) Scrape(ctx context.Context, raw string) (*Result, error) {
	ref, err := github.ParseReference(raw)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("owner", ref.Owner, "repo", ref.Name)
	logger.Info("Scraping repository")

	// All four fetches settle before any of them is interpreted; a failure in
	// one never cancels the others.
	var (
		g         errgroup.Group
		meta      *model.RepositoryMetadata
		metaErr   error
		readme    string
		readmeErr error
		license   model.License
		licErr    error
		commitAt  time.Time
		hasCommit bool
		commitErr error
	)
	g.Go(func() error {
		meta, metaErr = s.api.Repository(ctx, ref.Owner, ref.Name)
		return nil
	})
	g.Go(func() error {
		readme, readmeErr = s.api.Readme(ctx, ref.Owner, ref.Name)
		return nil
	})
	g.Go(func() error {
		license, licErr = s.api.License(ctx, ref.Owner, ref.Name)
		return nil
	})
	g.Go(func() error {
		commitAt, hasCommit, commitErr = s.api.LatestCommit(ctx, ref.Owner, ref.Name)
		return nil
	})
	_ = g.Wait()

	if metaErr != nil {
		return nil, withReason(ref, metaErr)
	}
	if commitErr != nil {
		return nil, withReason(ref, commitErr)
	}
	if !hasCommit {
		return nil, custom_errors.New(custom_errors.ReasonMissingCommitData, ref.FullName(), nil)
	}
	if readmeErr != nil {
		logger.Warn("README unavailable, continuing without it", "error", readmeErr)
		readme = ""
		readmeErr = withReason(ref, readmeErr)
	}
	if licErr != nil {
		logger.Warn("License unavailable, continuing without it", "error", licErr)
		license = model.UnknownLicense
	}
	if license.IsUnknown() {
		license = model.UnknownLicense
	}

	match, ok := s.extractor.Extract(readme)
	if !ok {
		logger.Info("No script ID found in README")
		// A README that could not be read stays attached as the cause.
		return nil, custom_errors.New(custom_errors.ReasonNoScriptID, ref.FullName(), readmeErr)
	}
	logger.Info("Script ID extracted", "pattern", match.Pattern, "kind", match.Kind)

	return &Result{
		Reference: ref,
		Record:    buildRecord(ref, meta, readme, license, commitAt, match),
		Match:     match,
	}, nil
}

func buildRecord(ref github.Reference, meta *model.RepositoryMetadata, readme string, license model.License, commitAt time.Time, match extractor.Candidate) *model.LibraryRecord {
	name := meta.Name
	if name == "" {
		name = ref.Name
	}
	url := meta.URL
	if url == "" {
		url = ref.URL()
	}
	return &model.LibraryRecord{
		Name:          name,
		ScriptID:      match.ScriptID,
		ScriptIDKind:  match.Kind,
		RepositoryURL: url,
		Owner:         ref.Owner,
		Repo:          ref.Name,
		AuthorName:    meta.AuthorName,
		AuthorURL:     meta.AuthorURL,
		Description:   meta.Description,
		ReadmeContent: readme,
		LicenseType:   license.Type,
		LicenseURL:    license.URL,
		StarsCount:    max(meta.StarsCount, 0),
		Status:        model.StatusPending,
		LastCommitAt:  commitAt,
	}
}

// ReadmeFailure reports whether err is a NoScriptID failure caused by the
// README being unreadable rather than by a README without a script ID, and if
// so returns the reason the README fetch failed.
func ReadmeFailure(err error) (custom_errors.Reason, bool) {
	var ie *custom_errors.IngestError
	if !errors.As(err, &ie) || ie.Reason != custom_errors.ReasonNoScriptID || ie.Err == nil {
		return "", false
	}
	return custom_errors.ReasonOf(ie.Err), true
}

// withReason makes sure err carries an ingestion reason.
func withReason(ref github.Reference, err error) error {
	if reason := custom_errors.ReasonOf(err); reason != custom_errors.ReasonInternal {
		return err
	}
	return custom_errors.New(custom_errors.ReasonTransientNetwork, ref.FullName(), err)
}
