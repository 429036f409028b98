// Package httpapi serves the Job/Application REST API. Identity arrives in
// trusted headers set by the upstream auth gateway.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/honeycarbs/alumni-jobs/internal/dashboard"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/metrics"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// Identity headers
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
	HeaderTenantID = "X-Tenant-ID"
)

// DefaultListRatePerMinute is the per-actor budget for GET /api/jobs
const DefaultListRatePerMinute = 60

// Option configures API
type Option func(*API)

// WithMetrics sets the collectors used for request counts
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) {
		a.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(a *API) {
		a.logger = l
	}
}

// WithListRate sets the per-actor list budget; zero or less disables it
func WithListRate(perMinute int) Option {
	return func(a *API) {
		a.listRate = perMinute
	}
}

// API holds the REST handlers
type API struct {
	jobs     job.Service
	apps     application.Service
	agg      *dashboard.Aggregator
	metrics  *metrics.Metrics
	logger   *logging.Logger
	listRate int
	limiter  *actorLimiter
}

// New builds the API over the catalog and lifecycle services
func New(jobs job.Service, apps application.Service, agg *dashboard.Aggregator, opts ...Option) (*API, error) {
	if jobs == nil || apps == nil || agg == nil {
		return nil, fmt.Errorf("httpapi: job, application and dashboard services are required")
	}

	a := &API{
		jobs:     jobs,
		apps:     apps,
		agg:      agg,
		listRate: DefaultListRatePerMinute,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger).Named("http")
	if a.listRate > 0 {
		a.limiter = newActorLimiter(a.listRate)
	}
	return a, nil
}

// Register mounts every route on mux
func (a *API) Register(mux *http.ServeMux) {
	handle := func(pattern string, h apiHandler) {
		mux.Handle(pattern, a.instrument(a.authenticated(h)))
	}

	handle("GET /api/jobs", a.limited(a.listJobs))
	handle("POST /api/jobs", a.createJob)
	handle("POST /api/jobs/import", a.importJobs)
	handle("GET /api/jobs/saved", a.savedJobs)
	handle("GET /api/jobs/{id}", a.getJob)
	handle("PUT /api/jobs/{id}", a.updateJob)
	handle("DELETE /api/jobs/{id}", a.deleteJob)
	handle("POST /api/jobs/{id}/save", a.saveJob)
	handle("DELETE /api/jobs/{id}/save", a.unsaveJob)

	handle("POST /api/jobs/{id}/applications", a.submitApplication)
	handle("GET /api/jobs/{id}/applications", a.jobApplications)
	handle("GET /api/jobs/{id}/applications/stats", a.applicationStats)
	handle("GET /api/applications/me", a.myApplications)
	handle("GET /api/applications/received", a.receivedApplications)
	handle("PATCH /api/applications/{id}/status", a.reviewApplication)
	handle("DELETE /api/applications/{id}", a.deleteApplication)

	handle("GET /api/dashboard", a.dashboardLayout)
	handle("GET /api/dashboard/candidate", a.candidateDashboard)
}

// Handler returns a mux with the API, health and metrics endpoints mounted
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}
	return mux
}
