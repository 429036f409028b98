package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/alumni-jobs/internal/dashboard"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/export"
	"github.com/honeycarbs/alumni-jobs/internal/mcp/tools"
	"github.com/honeycarbs/alumni-jobs/internal/metrics"
	"github.com/honeycarbs/alumni-jobs/internal/repository"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// Resources is everything the server hosts, built by InitializeResources
type Resources struct {
	Store        repository.Store
	JobService   job.Service
	AppService   application.Service
	Dashboard    *dashboard.Aggregator
	Exporter     *export.Exporter
	Metrics      *metrics.Metrics
	ListRate     int
	StorageLabel string
}

// Close releases the storage backend
func (r *Resources) Close(ctx context.Context) error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close(ctx)
}

type ToolRegistry struct {
	logger *logging.Logger
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logging.OrNop(logger)}
}

// RegisterAll installs every tool the resources can back
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) ([]string, error) {
	if res == nil || res.JobService == nil || res.AppService == nil {
		return nil, errors.New("mcp: job and application services are required")
	}

	names := tools.Register(server, r.logger,
		tools.WithJobTools(res.JobService),
		tools.WithApplicationTools(res.AppService, res.Dashboard),
		tools.WithExportTool(res.Exporter),
	)
	return names, nil
}
