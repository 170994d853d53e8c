// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gaslib-catalog/internal/catalog"
	"gaslib-catalog/internal/github"
	"gaslib-catalog/internal/model"
)

// Catalog is the part of catalog.Service the syncer drives.
type Catalog interface {
	List(ctx context.Context, filter model.ListFilter) ([]*model.LibraryRecord, int, error)
	IngestBatch(ctx context.Context, refs []string) (*catalog.BatchReport, error)
}

// Syncer periodically re-ingests every live library plus a fixed seed list,
// so catalog entries follow new commits without manual intervention.
type Syncer struct {
	catalog      Catalog
	logger       *slog.Logger
	seeds        []string
	syncInterval time.Duration
}

// NewSyncer creates a new Syncer instance. Every seed must be a valid repository reference.
func NewSyncer(c Catalog, logger *slog.Logger, seeds []string, interval time.Duration) (*Syncer, error) {
	parsed, err := parseSeeds(seeds)
	if err != nil {
		return nil, err
	}

	return &Syncer{
		catalog:      c,
		logger:       logger,
		seeds:        parsed,
		syncInterval: interval,
	}, nil
}

// Start begins the continuous synchronization process.
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Starting syncer", "interval", s.syncInterval.String(), "seeds", len(s.seeds))
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	s.runSyncCycle(ctx) // Initial sync

	for {
		select {
		case <-ticker.C:
			s.runSyncCycle(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

// runSyncCycle re-ingests all pending and published libraries and the seeds.
func (s *Syncer) runSyncCycle(ctx context.Context) {
	s.logger.Info("Starting new sync cycle")

	refs, err := s.collectReferences(ctx)
	if err != nil {
		s.logger.Error("Failed to collect libraries to sync", "error", err)
		return
	}
	if len(refs) == 0 {
		s.logger.Info("Nothing to sync")
		return
	}

	report, err := s.catalog.IngestBatch(ctx, refs)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Sync cycle finished with an error", "error", err)
		return
	}
	if report != nil {
		s.logger.Info("Sync cycle finished",
			"created", report.Created,
			"updated", report.Updated,
			"unchanged", report.Unchanged,
			"failed", report.Failed,
		)
	}
}

// collectReferences returns the seeds followed by the repository URL of every
// live library, without duplicates.
func (s *Syncer) collectReferences(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var refs []string
	add := func(raw string) {
		ref, err := github.ParseReference(raw)
		if err != nil {
			s.logger.Warn("Skipping unparsable repository reference", "reference", raw, "error", err)
			return
		}
		key := strings.ToLower(ref.FullName())
		if seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, raw)
	}

	for _, seed := range s.seeds {
		add(seed)
	}

	for _, status := range []model.Status{model.StatusPending, model.StatusPublished} {
		filter := model.ListFilter{Status: &status, Limit: model.MaxListLimit}
		for {
			page, total, err := s.catalog.List(ctx, filter)
			if err != nil {
				return nil, err
			}
			for _, rec := range page {
				add(rec.RepositoryURL)
			}
			filter.Offset += len(page)
			if len(page) == 0 || filter.Offset >= total {
				break
			}
		}
	}
	return refs, nil
}

func parseSeeds(seeds []string) ([]string, error) {
	var out []string
	for _, raw := range seeds {
		if _, err := github.ParseReference(raw); err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}
