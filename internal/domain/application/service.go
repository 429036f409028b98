// Package application implements the application lifecycle: submission,
// review decisions and withdrawal, with role and ownership checks.
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/access"
	"github.com/honeycarbs/alumni-jobs/internal/repository"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// DefaultCandidateLimit bounds candidate listings when the caller passes no limit
const DefaultCandidateLimit = 500

// Service is the Application Lifecycle Manager
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, jobID domain.JobID, p SubmitPayload) (domain.Application, error)
	Review(ctx context.Context, actor domain.Actor, id domain.ApplicationID, status domain.Status, notes string) (domain.Application, error)
	Delete(ctx context.Context, actor domain.Actor, id domain.ApplicationID) error
	ListForJob(ctx context.Context, actor domain.Actor, jobID domain.JobID) ([]domain.Application, error)
	ListForCandidate(ctx context.Context, actor domain.Actor, candidate domain.UserID, limit int) ([]domain.Application, error)
	ListReceived(ctx context.Context, actor domain.Actor) ([]Received, error)
}

// Received pairs a job the actor posted with the applications it collected
type Received struct {
	Job          domain.Job           `json:"job"`
	Applications []domain.Application `json:"applications"`
}

// TransitionObserver is notified after every committed status change
type TransitionObserver interface {
	ApplicationTransition(from, to string)
}

// Option configures Service
type Option func(*config)

type config struct {
	apps     repository.ApplicationRepository
	jobs     repository.JobRepository
	policy   TransitionPolicy
	auth     access.Authorizer
	observer TransitionObserver
	logger   *logging.Logger
	clock    func() time.Time
}

// WithRepositories sets the application and job repositories
func WithRepositories(apps repository.ApplicationRepository, jobs repository.JobRepository) Option {
	return func(c *config) {
		c.apps = apps
		c.jobs = jobs
	}
}

// WithPolicy sets the transition policy; the default is Permissive
func WithPolicy(p TransitionPolicy) Option {
	return func(c *config) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithObserver sets the transition observer, typically the metrics collector
func WithObserver(o TransitionObserver) Option {
	return func(c *config) {
		c.observer = o
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
		policy: Permissive{},
		auth:   access.NewAuthorizer(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.apps == nil || cfg.jobs == nil {
		return nil, fmt.Errorf("application.Service: repositories are required")
	}

	return &service{
		apps:     cfg.apps,
		jobs:     cfg.jobs,
		policy:   cfg.policy,
		auth:     cfg.auth,
		observer: cfg.observer,
		logger:   logging.OrNop(cfg.logger).Named("applications"),
		clock:    cfg.clock,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(store repository.Store, policy TransitionPolicy, observer TransitionObserver, logger *logging.Logger) (Service, error) {
	return NewService(
		WithRepositories(store, store),
		WithPolicy(policy),
		WithObserver(observer),
		WithLogger(logger),
	)
}

type service struct {
	apps     repository.ApplicationRepository
	jobs     repository.JobRepository
	policy   TransitionPolicy
	auth     access.Authorizer
	observer TransitionObserver
	logger   *logging.Logger
	clock    func() time.Time
}

func requireTenant(actor domain.Actor) error {
	if actor.TenantID == "" || actor.UserID == "" {
		return fmt.Errorf("%w: missing tenant or user identity", domain.ErrForbidden)
	}
	return nil
}

// Submit creates an Applied application for the actor
func (s *service) Submit(ctx context.Context, actor domain.Actor, jobID domain.JobID, p SubmitPayload) (domain.Application, error) {
	if err := requireTenant(actor); err != nil {
		return domain.Application{}, err
	}

	p = normalizePayload(p)
	if err := ValidatePayload(p); err != nil {
		return domain.Application{}, err
	}

	j, err := s.jobs.GetJob(ctx, actor.TenantID, jobID)
	if err != nil {
		return domain.Application{}, err
	}

	now := s.clock().UTC()
	if j.Deadline != nil && now.After(*j.Deadline) {
		return domain.Application{}, domain.FieldError("job", "the application deadline has passed")
	}

	app := domain.Application{
		ID:          uuid.New(),
		TenantID:    actor.TenantID,
		JobID:       jobID,
		ApplicantID: actor.UserID,
		Contact:     p.Contact,
		Skills:      p.Skills,
		Experience:  p.Experience,
		Message:     p.Message,
		Resume:      p.Resume,
		Status:      domain.StatusApplied,
		AppliedAt:   now,
	}

	if err := s.apps.CreateApplication(ctx, app); err != nil {
		return domain.Application{}, fmt.Errorf("submit application: %w", err)
	}

	s.logger.Info("application submitted", "application_id", app.ID, "job_id", jobID, "applicant", actor.UserID)
	return app, nil
}

// Review sets a new status and stamps the review metadata. Re-applying the
// current status only refreshes ReviewedAt, plus the notes when new ones are
// given; the original reviewer is kept and no transition is recorded.
func (s *service) Review(ctx context.Context, actor domain.Actor, id domain.ApplicationID, status domain.Status, notes string) (domain.Application, error) {
	if err := requireTenant(actor); err != nil {
		return domain.Application{}, err
	}
	if !status.Valid() {
		return domain.Application{}, domain.FieldError("status", fmt.Sprintf("unknown status %q", status))
	}

	app, err := s.apps.GetApplication(ctx, actor.TenantID, id)
	if err != nil {
		return domain.Application{}, err
	}
	j, err := s.jobs.GetJob(ctx, actor.TenantID, app.JobID)
	if err != nil {
		return domain.Application{}, err
	}
	if err := s.auth.CanReview(actor, j); err != nil {
		return domain.Application{}, err
	}
	if err := s.policy.Allow(app.Status, status); err != nil {
		return domain.Application{}, err
	}

	from := app.Status
	now := s.clock().UTC()
	repeat := from == status
	if repeat {
		app.Review.ReviewedAt = &now
		if app.Review.ReviewedBy == "" {
			app.Review.ReviewedBy = actor.UserID
		}
		if strings.TrimSpace(notes) != "" {
			app.Review.Notes = notes
		}
	} else {
		app.Status = status
		app.Review = domain.Review{ReviewedBy: actor.UserID, ReviewedAt: &now, Notes: notes}
	}

	if err := s.apps.UpdateReview(ctx, app); err != nil {
		return domain.Application{}, fmt.Errorf("review application: %w", err)
	}

	if s.observer != nil && !repeat {
		s.observer.ApplicationTransition(string(from), string(status))
	}
	s.logger.Info("application reviewed",
		"application_id", id,
		"from", from,
		"to", status,
		"by", actor.UserID,
	)
	return app, nil
}

// Delete withdraws (applicant) or removes (reviewer) an application
func (s *service) Delete(ctx context.Context, actor domain.Actor, id domain.ApplicationID) error {
	if err := requireTenant(actor); err != nil {
		return err
	}

	app, err := s.apps.GetApplication(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	j, err := s.jobs.GetJob(ctx, actor.TenantID, app.JobID)
	if err != nil {
		return err
	}
	if err := s.auth.CanDeleteApplication(actor, app, j); err != nil {
		return err
	}

	if err := s.apps.DeleteApplication(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}

	s.logger.Info("application deleted", "application_id", id, "job_id", app.JobID, "by", actor.UserID)
	return nil
}

// ListForJob is restricted to reviewers of the job
func (s *service) ListForJob(ctx context.Context, actor domain.Actor, jobID domain.JobID) ([]domain.Application, error) {
	if err := requireTenant(actor); err != nil {
		return nil, err
	}

	j, err := s.jobs.GetJob(ctx, actor.TenantID, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.CanReview(actor, j); err != nil {
		return nil, err
	}
	return s.apps.ListByJob(ctx, actor.TenantID, jobID)
}

func (s *service) ListForCandidate(ctx context.Context, actor domain.Actor, candidate domain.UserID, limit int) ([]domain.Application, error) {
	if err := requireTenant(actor); err != nil {
		return nil, err
	}
	if candidate == "" {
		candidate = actor.UserID
	}
	if err := s.auth.CanViewCandidate(actor, candidate); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return s.apps.ListByCandidate(ctx, actor.TenantID, candidate, limit)
}

// ListReceived returns the applications collected by every job the actor posted
func (s *service) ListReceived(ctx context.Context, actor domain.Actor) ([]Received, error) {
	if err := requireTenant(actor); err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListJobsByPoster(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list received: %w", err)
	}

	out := make([]Received, 0, len(jobs))
	for _, j := range jobs {
		apps, err := s.apps.ListByJob(ctx, actor.TenantID, j.ID)
		if err != nil {
			return nil, fmt.Errorf("list received for job %s: %w", j.ID, err)
		}
		out = append(out, Received{Job: j, Applications: apps})
	}
	return out, nil
}
