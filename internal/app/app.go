// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"gaslib-catalog/internal/catalog"
	"gaslib-catalog/internal/config"
	"gaslib-catalog/internal/database"
	"gaslib-catalog/internal/github"
	"gaslib-catalog/internal/scraper"
	"gaslib-catalog/internal/store/memory"
	"gaslib-catalog/internal/store/postgres"
	"gaslib-catalog/internal/summary"
)

// App bundles the components built from a Config.
type App struct {
	Service *catalog.Service
	closers []func()
}

// New builds the store, GitHub API, summarizer and catalog service described by cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	api, err := newGithubAPI(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	summarizer, err := newSummarizer(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Service = catalog.NewService(
		store,
		scraper.New(api, nil, logger),
		summarizer,
		catalog.Options{BatchSize: cfg.BatchConcurrency, BatchDelay: cfg.BatchDelay},
		logger,
	)
	return a, nil
}

// Close releases everything New opened.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Store, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("Using in-memory store, data is lost on exit")
		return memory.New(), nil
	}

	if err := RunMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	pool, err := postgres.Open(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	logger.Info("Database connection established")

	return postgres.New(database.New(pool)), nil
}

func newGithubAPI(cfg *config.Config, logger *slog.Logger) (github.API, error) {
	if cfg.GithubMode == config.GithubModeFixture {
		fx, err := github.LoadFixture(cfg.GithubFixtures)
		if err != nil {
			return nil, err
		}
		logger.Info("Serving GitHub data from fixtures", "path", cfg.GithubFixtures)
		return fx, nil
	}

	if cfg.GithubToken == "" {
		logger.Warn("GITHUB_TOKEN is not set, using unauthenticated requests")
	}
	return github.NewClient(cfg.GithubToken, github.Options{
		RequestInterval: cfg.RequestInterval,
		MaxAttempts:     cfg.MaxAttempts,
		BackoffBase:     cfg.BackoffBase,
		BackoffMax:      cfg.BackoffMax,
	}, logger), nil
}

func newSummarizer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (summary.Summarizer, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Info("GEMINI_API_KEY is not set, summaries are disabled")
		return summary.Nop{}, nil
	}
	g, err := summary.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RunMigrations applies all pending migrations from source to dbURL.
func RunMigrations(source, dbURL string) error {
	m, err := migrate.New(source, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// NewLogger returns a JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	v := new(slog.LevelVar)
	SetLogLevel(level, v)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: v}))
}

// SetLogLevel maps a config string onto v, defaulting to info.
func SetLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
