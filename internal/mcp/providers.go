package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/honeycarbs/alumni-jobs/internal/config"
	"github.com/honeycarbs/alumni-jobs/internal/dashboard"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	adzunaProvider "github.com/honeycarbs/alumni-jobs/internal/domain/job/providers/adzuna"
	"github.com/honeycarbs/alumni-jobs/internal/export"
	"github.com/honeycarbs/alumni-jobs/internal/metrics"
	"github.com/honeycarbs/alumni-jobs/internal/repository"
	"github.com/honeycarbs/alumni-jobs/internal/storage/memory"
	"github.com/honeycarbs/alumni-jobs/internal/storage/neo4j"
	"github.com/honeycarbs/alumni-jobs/internal/storage/postgres"
	"github.com/honeycarbs/alumni-jobs/pkg/adzuna"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
	n4j "github.com/honeycarbs/alumni-jobs/pkg/neo4j"
	"github.com/honeycarbs/alumni-jobs/pkg/sheets"
)

// provideNeo4jConfig extracts Neo4j config from main config
func provideNeo4jConfig(cfg config.Config, logger *logging.Logger) n4j.Config {
	return n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Logger:   logger,
	}
}

// providePostgresConfig extracts the DSN from main config
func providePostgresConfig(cfg config.Config) postgres.Config {
	return postgres.Config{DSN: cfg.Postgres.URL}
}

// provideStore opens the backend named by STORAGE_BACKEND
func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.Store, error) {
	logger = logging.OrNop(logger)
	switch cfg.Backend {
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, providePostgresConfig(cfg), logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendNeo4j:
		client, err := n4j.NewClient(ctx, provideNeo4jConfig(cfg, logger))
		if err != nil {
			return nil, err
		}
		return neo4j.NewStore(client, logger), nil
	case config.BackendMemory, "":
		logger.Warn("using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("mcp: unknown storage backend %q", cfg.Backend)
}

// provideAdzunaConfig extracts Adzuna config from main config
func provideAdzunaConfig(cfg config.Config) adzuna.Config {
	return adzuna.Config{
		AppID:      cfg.Adzuna.AppID,
		AppKey:     cfg.Adzuna.AppKey,
		Country:    cfg.Adzuna.Country,
		HTTPClient: &http.Client{Timeout: cfg.HTTPClientTimeout},
	}
}

// provideJobProviders returns the import sources that have credentials
func provideJobProviders(cfg config.Config, logger *logging.Logger) ([]job.Provider, error) {
	logger = logging.OrNop(logger)
	if !cfg.AdzunaEnabled() {
		logger.Info("adzuna credentials not set, job import disabled")
		return nil, nil
	}
	client, err := adzuna.NewClient(provideAdzunaConfig(cfg))
	if err != nil {
		return nil, err
	}
	p, err := adzunaProvider.NewProvider(client)
	if err != nil {
		return nil, err
	}
	return []job.Provider{p}, nil
}

// provideSheetsWriter returns nil when export is not configured
func provideSheetsWriter(ctx context.Context, cfg config.Config) (export.Writer, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func providePolicy(cfg config.Config) (application.TransitionPolicy, error) {
	return application.ParsePolicy(cfg.TransitionPolicy)
}

func newResources(
	cfg config.Config,
	store repository.Store,
	jobService job.Service,
	appService application.Service,
	agg *dashboard.Aggregator,
	exporter *export.Exporter,
	m *metrics.Metrics,
) *Resources {
	return &Resources{
		Store:        store,
		JobService:   jobService,
		AppService:   appService,
		Dashboard:    agg,
		Exporter:     exporter,
		Metrics:      m,
		ListRate:     cfg.ListRatePerMinute,
		StorageLabel: cfg.Backend,
	}
}

// Migrate bootstraps the schema of the configured backend
func Migrate(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	logger = logging.OrNop(logger)

	switch cfg.Backend {
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, providePostgresConfig(cfg), logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()
		return store.Migrate(ctx)
	case config.BackendNeo4j:
		client, err := n4j.NewClient(ctx, provideNeo4jConfig(cfg, logger))
		if err != nil {
			return err
		}
		store := neo4j.NewStore(client, logger)
		defer func() { _ = store.Close(ctx) }()
		return store.EnsureSchema(ctx)
	}
	logger.Info("backend needs no migration", "backend", cfg.Backend)
	return nil
}
