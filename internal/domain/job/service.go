package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/access"
	"github.com/honeycarbs/alumni-jobs/internal/repository"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// Service is the Job Catalog
type Service interface {
	ListJobs(ctx context.Context, actor domain.Actor, spec domain.FilterSpec) (domain.JobListResult, error)
	GetJob(ctx context.Context, actor domain.Actor, id domain.JobID) (domain.Job, error)
	ListJobsByPoster(ctx context.Context, actor domain.Actor) ([]domain.Job, error)
	CreateJob(ctx context.Context, actor domain.Actor, in domain.JobInput) (domain.Job, error)
	UpdateJob(ctx context.Context, actor domain.Actor, id domain.JobID, in domain.JobInput) (domain.Job, error)
	DeleteJob(ctx context.Context, actor domain.Actor, id domain.JobID) error
	SaveJob(ctx context.Context, actor domain.Actor, id domain.JobID) error
	UnsaveJob(ctx context.Context, actor domain.Actor, id domain.JobID) error
	SavedJobIDs(ctx context.Context, actor domain.Actor) ([]domain.JobID, error)
	ImportJobs(ctx context.Context, actor domain.Actor, q ImportQuery) (ImportResult, error)
}

// ImportResult summarises an external import run
type ImportResult struct {
	Imported    []domain.Job `json:"imported"`
	Skipped     int          `json:"skipped"`
	SourceCount int          `json:"sourceCount"`
	FetchedAt   time.Time    `json:"fetchedAt"`
}

// Option configures Service
type Option func(*config)

type config struct {
	providers []Provider
	jobs      repository.JobRepository
	saved     repository.SavedJobRepository
	auth      access.Authorizer
	logger    *logging.Logger
	clock     func() time.Time
}

// WithProviders sets external listing providers used by ImportJobs
func WithProviders(providers ...Provider) Option {
	return func(c *config) {
		c.providers = providers
	}
}

// WithRepository sets the job repository
func WithRepository(repo repository.JobRepository) Option {
	return func(c *config) {
		c.jobs = repo
	}
}

// WithSavedRepository sets the saved-jobs repository
func WithSavedRepository(repo repository.SavedJobRepository) Option {
	return func(c *config) {
		c.saved = repo
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		auth:  access.NewAuthorizer(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.jobs == nil {
		return nil, fmt.Errorf("job.Service: repository is required")
	}
	if cfg.saved == nil {
		return nil, fmt.Errorf("job.Service: saved-jobs repository is required")
	}

	return &service{
		providers: cfg.providers,
		jobs:      cfg.jobs,
		saved:     cfg.saved,
		auth:      cfg.auth,
		logger:    logging.OrNop(cfg.logger).Named("catalog"),
		clock:     cfg.clock,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(store repository.Store, providers []Provider, logger *logging.Logger) (Service, error) {
	return NewService(
		WithRepository(store),
		WithSavedRepository(store),
		WithProviders(providers...),
		WithLogger(logger),
	)
}

type service struct {
	providers []Provider
	jobs      repository.JobRepository
	saved     repository.SavedJobRepository
	auth      access.Authorizer
	logger    *logging.Logger
	clock     func() time.Time
}

func requireTenant(actor domain.Actor) error {
	if actor.TenantID == "" || actor.UserID == "" {
		return fmt.Errorf("%w: missing tenant or user identity", domain.ErrForbidden)
	}
	return nil
}

// ListJobs validates and normalizes spec, then runs the server-side query
func (s *service) ListJobs(ctx context.Context, actor domain.Actor, spec domain.FilterSpec) (domain.JobListResult, error) {
	if err := requireTenant(actor); err != nil {
		return domain.JobListResult{}, err
	}
	if err := spec.Validate(); err != nil {
		return domain.JobListResult{}, err
	}

	res, err := s.jobs.ListJobs(ctx, actor.TenantID, spec.Normalize())
	if err != nil {
		return domain.JobListResult{}, fmt.Errorf("list jobs: %w", err)
	}
	if res.Jobs == nil {
		res.Jobs = []domain.Job{}
	}
	return res, nil
}

func (s *service) GetJob(ctx context.Context, actor domain.Actor, id domain.JobID) (domain.Job, error) {
	if err := requireTenant(actor); err != nil {
		return domain.Job{}, err
	}
	return s.jobs.GetJob(ctx, actor.TenantID, id)
}

// ListJobsByPoster returns the actor's own postings with application counts
func (s *service) ListJobsByPoster(ctx context.Context, actor domain.Actor) ([]domain.Job, error) {
	if err := requireTenant(actor); err != nil {
		return nil, err
	}
	return s.jobs.ListJobsByPoster(ctx, actor.TenantID, actor.UserID)
}

func (s *service) CreateJob(ctx context.Context, actor domain.Actor, in domain.JobInput) (domain.Job, error) {
	if err := requireTenant(actor); err != nil {
		return domain.Job{}, err
	}
	if err := s.auth.CanCreateJob(actor); err != nil {
		return domain.Job{}, err
	}

	now := s.clock().UTC()
	in = normalizeInput(in)
	if err := ValidateInput(in, now); err != nil {
		return domain.Job{}, err
	}

	j := domain.Job{
		ID:        uuid.New(),
		TenantID:  actor.TenantID,
		PostedBy:  domain.Poster{UserID: actor.UserID, Name: actor.Name},
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(&j)

	if err := s.jobs.CreateJob(ctx, j); err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job created", "job_id", j.ID, "tenant", j.TenantID, "posted_by", actor.UserID)
	return j, nil
}

func (s *service) UpdateJob(ctx context.Context, actor domain.Actor, id domain.JobID, in domain.JobInput) (domain.Job, error) {
	if err := requireTenant(actor); err != nil {
		return domain.Job{}, err
	}

	j, err := s.jobs.GetJob(ctx, actor.TenantID, id)
	if err != nil {
		return domain.Job{}, err
	}
	if err := s.auth.CanEditJob(actor, j); err != nil {
		return domain.Job{}, err
	}

	in = normalizeInput(in)
	if err := ValidateInput(in, j.CreatedAt); err != nil {
		return domain.Job{}, err
	}

	in.Apply(&j)
	j.UpdatedAt = s.clock().UTC()

	if err := s.jobs.UpdateJob(ctx, j); err != nil {
		return domain.Job{}, fmt.Errorf("update job: %w", err)
	}

	s.logger.Info("job updated", "job_id", j.ID, "by", actor.UserID)
	return j, nil
}

func (s *service) DeleteJob(ctx context.Context, actor domain.Actor, id domain.JobID) error {
	if err := requireTenant(actor); err != nil {
		return err
	}

	j, err := s.jobs.GetJob(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if err := s.auth.CanDeleteJob(actor, j); err != nil {
		return err
	}

	if err := s.jobs.DeleteJob(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	s.logger.Info("job deleted", "job_id", id, "by", actor.UserID, "applications", j.ApplicationsCount)
	return nil
}

func (s *service) SaveJob(ctx context.Context, actor domain.Actor, id domain.JobID) error {
	if err := requireTenant(actor); err != nil {
		return err
	}
	if _, err := s.jobs.GetJob(ctx, actor.TenantID, id); err != nil {
		return err
	}
	return s.saved.SaveJob(ctx, actor.TenantID, actor.UserID, id)
}

func (s *service) UnsaveJob(ctx context.Context, actor domain.Actor, id domain.JobID) error {
	if err := requireTenant(actor); err != nil {
		return err
	}
	return s.saved.UnsaveJob(ctx, actor.TenantID, actor.UserID, id)
}

func (s *service) SavedJobIDs(ctx context.Context, actor domain.Actor) ([]domain.JobID, error) {
	if err := requireTenant(actor); err != nil {
		return nil, err
	}
	return s.saved.SavedJobIDs(ctx, actor.TenantID, actor.UserID)
}

// ImportJobs queries providers and stores new listings as jobs posted by actor.
// Listings already imported (same external id) are skipped.
func (s *service) ImportJobs(ctx context.Context, actor domain.Actor, q ImportQuery) (ImportResult, error) {
	if err := requireTenant(actor); err != nil {
		return ImportResult{}, err
	}
	if err := s.auth.CanCreateJob(actor); err != nil {
		return ImportResult{}, err
	}
	if q.Query == "" {
		return ImportResult{}, domain.FieldError("query", "is required")
	}
	if len(s.providers) == 0 {
		return ImportResult{}, fmt.Errorf("import jobs: no providers configured")
	}

	now := s.clock().UTC()
	res := ImportResult{FetchedAt: now, Imported: []domain.Job{}}
	seen := make(map[string]bool)

	for _, p := range s.providers {
		listings, err := p.Search(ctx, q)
		if err != nil {
			s.logger.Warn("provider search failed", "provider", p.Name(), "err", err)
			continue
		}
		if len(listings) > 0 {
			res.SourceCount++
		}

		for _, l := range listings {
			if l.ExternalID == "" || seen[l.ExternalID] {
				res.Skipped++
				continue
			}
			seen[l.ExternalID] = true

			_, err := s.jobs.FindByExternalID(ctx, actor.TenantID, l.ExternalID)
			switch {
			case err == nil:
				res.Skipped++
				continue
			case !errors.Is(err, domain.ErrNotFound):
				return res, fmt.Errorf("import jobs: lookup %s: %w", l.ExternalID, err)
			}

			l.ID = uuid.New()
			l.TenantID = actor.TenantID
			l.PostedBy = domain.Poster{UserID: actor.UserID, Name: actor.Name}
			l.CreatedAt = now
			l.UpdatedAt = now
			if l.Type == "" {
				l.Type = "full-time"
			}

			if err := s.jobs.CreateJob(ctx, l); err != nil {
				return res, fmt.Errorf("import jobs: store %s: %w", l.ExternalID, err)
			}
			res.Imported = append(res.Imported, l)
		}
	}

	s.logger.Info("jobs imported",
		"tenant", actor.TenantID,
		"imported", len(res.Imported),
		"skipped", res.Skipped,
		"sources", res.SourceCount,
	)
	return res, nil
}
