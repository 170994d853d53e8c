// internal/store/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"gaslib-catalog/internal/catalog"
	"gaslib-catalog/internal/database"
	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
)

const (
	uniqueViolation      = "23505"
	scriptIDConstraint   = "libraries_script_id_key"
	repositoryConstraint = "libraries_repository_url_key"
)

// Store is a catalog.Store backed by PostgreSQL.
type Store struct {
	q database.Querier
}

var _ catalog.Store = (*Store)(nil)

// New creates a Store running its queries through q.
func New(q database.Querier) *Store {
	return &Store{q: q}
}

// Open connects a pool to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*model.LibraryRecord, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, id)
	}
	row, err := s.q.GetLibraryByID(ctx, uid)
	return fromRow(row, err, "id "+id)
}

func (s *Store) FindByScriptID(ctx context.Context, scriptID string) (*model.LibraryRecord, error) {
	row, err := s.q.GetLibraryByScriptID(ctx, scriptID)
	return fromRow(row, err, "script id "+scriptID)
}

func (s *Store) FindByRepositoryURL(ctx context.Context, url string) (*model.LibraryRecord, error) {
	row, err := s.q.GetLibraryByRepositoryURL(ctx, url)
	return fromRow(row, err, "repository url "+url)
}

func (s *Store) Create(ctx context.Context, rec *model.LibraryRecord) (*model.LibraryRecord, error) {
	uid, ok := parseID(rec.ID)
	if !ok {
		return nil, fmt.Errorf("invalid library id %q", rec.ID)
	}
	status := rec.Status
	if status == "" {
		status = model.StatusPending
	}

	row, err := s.q.CreateLibrary(ctx, database.CreateLibraryParams{
		ID:            uid,
		Name:          rec.Name,
		ScriptID:      rec.ScriptID,
		ScriptIDKind:  string(rec.ScriptIDKind),
		RepositoryUrl: rec.RepositoryURL,
		Owner:         rec.Owner,
		Repo:          rec.Repo,
		AuthorName:    rec.AuthorName,
		AuthorUrl:     rec.AuthorURL,
		Description:   rec.Description,
		ReadmeContent: rec.ReadmeContent,
		LicenseType:   rec.LicenseType,
		LicenseUrl:    rec.LicenseURL,
		StarsCount:    int32(rec.StarsCount),
		Status:        status.String(),
		SummaryJa:     rec.SummaryJA,
		SummaryEn:     rec.SummaryEN,
		LastCommitAt:  toTimestamptz(rec.LastCommitAt),
	})
	if err != nil {
		return nil, translate(err, rec.RepositoryURL)
	}
	return toRecord(row), nil
}

func (s *Store) Update(ctx context.Context, rec *model.LibraryRecord) (*model.LibraryRecord, error) {
	uid, ok := parseID(rec.ID)
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, rec.ID)
	}
	row, err := s.q.UpdateLibrary(ctx, database.UpdateLibraryParams{
		ID:            uid,
		Name:          rec.Name,
		ScriptID:      rec.ScriptID,
		ScriptIDKind:  string(rec.ScriptIDKind),
		AuthorName:    rec.AuthorName,
		AuthorUrl:     rec.AuthorURL,
		Description:   rec.Description,
		ReadmeContent: rec.ReadmeContent,
		LicenseType:   rec.LicenseType,
		LicenseUrl:    rec.LicenseURL,
		StarsCount:    int32(rec.StarsCount),
		SummaryJa:     rec.SummaryJA,
		SummaryEn:     rec.SummaryEN,
		LastCommitAt:  toTimestamptz(rec.LastCommitAt),
	})
	return fromRow(row, translate(err, rec.RepositoryURL), "id "+rec.ID)
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.LibraryRecord, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, id)
	}
	row, err := s.q.UpdateLibraryStatus(ctx, database.UpdateLibraryStatusParams{ID: uid, Status: status.String()})
	return fromRow(row, err, "id "+id)
}

func (s *Store) IncrementCopyCount(ctx context.Context, id string) (*model.LibraryRecord, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, id)
	}
	row, err := s.q.IncrementCopyCount(ctx, uid)
	return fromRow(row, err, "id "+id)
}

func (s *Store) List(ctx context.Context, filter model.ListFilter) ([]*model.LibraryRecord, int, error) {
	filter = filter.Normalize()

	var status, query pgtype.Text
	if filter.Status != nil {
		status = pgtype.Text{String: filter.Status.String(), Valid: true}
	}
	if filter.Query != "" {
		query = pgtype.Text{String: filter.Query, Valid: true}
	}

	rows, err := s.q.ListLibraries(ctx, database.ListLibrariesParams{
		Status: status,
		Query:  query,
		Limit:  int32(filter.Limit),
		Offset: int32(filter.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list libraries: %w", err)
	}
	total, err := s.q.CountLibraries(ctx, database.CountLibrariesParams{Status: status, Query: query})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count libraries: %w", err)
	}

	recs := make([]*model.LibraryRecord, len(rows))
	for i, row := range rows {
		recs[i] = toRecord(row)
	}
	return recs, int(total), nil
}

// translate maps unique violations onto the catalog's duplicate reasons.
func translate(err error, repoURL string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case scriptIDConstraint:
		return custom_errors.New(custom_errors.ReasonDuplicateScriptID, repoURL, err)
	case repositoryConstraint:
		return custom_errors.New(custom_errors.ReasonDuplicateRepositoryURL, repoURL, err)
	}
	return err
}

func fromRow(row database.Library, err error, what string) (*model.LibraryRecord, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, what)
	}
	if err != nil {
		return nil, err
	}
	return toRecord(row), nil
}

func toRecord(row database.Library) *model.LibraryRecord {
	rec := &model.LibraryRecord{
		Name:          row.Name,
		ScriptID:      row.ScriptID,
		ScriptIDKind:  model.ScriptIDKind(row.ScriptIDKind),
		RepositoryURL: row.RepositoryUrl,
		Owner:         row.Owner,
		Repo:          row.Repo,
		AuthorName:    row.AuthorName,
		AuthorURL:     row.AuthorUrl,
		Description:   row.Description,
		ReadmeContent: row.ReadmeContent,
		LicenseType:   row.LicenseType,
		LicenseURL:    row.LicenseUrl,
		StarsCount:    int(row.StarsCount),
		CopyCount:     int(row.CopyCount),
		Status:        model.Status(row.Status),
		SummaryJA:     row.SummaryJa,
		SummaryEN:     row.SummaryEn,
	}
	if row.ID.Valid {
		rec.ID = uuid.UUID(row.ID.Bytes).String()
	}
	if row.LastCommitAt.Valid {
		rec.LastCommitAt = row.LastCommitAt.Time
	}
	if row.CreatedAt.Valid {
		rec.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		rec.UpdatedAt = row.UpdatedAt.Time
	}
	return rec
}

func parseID(id string) (pgtype.UUID, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: u, Valid: true}, true
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}
