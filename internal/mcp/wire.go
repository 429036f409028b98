//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/alumni-jobs/internal/config"
	"github.com/honeycarbs/alumni-jobs/internal/dashboard"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/export"
	"github.com/honeycarbs/alumni-jobs/internal/metrics"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, error) {
	wire.Build(
		// Infrastructure
		provideStore,
		provideJobProviders,
		provideSheetsWriter,
		metrics.New,

		// Services
		providePolicy,
		wire.Bind(new(application.TransitionObserver), new(*metrics.Metrics)),
		job.NewServiceWithDeps,
		application.NewServiceWithDeps,
		dashboard.NewAggregator,
		export.NewExporter,

		newResources,
	)

	return &Resources{}, nil
}
