package repository

import (
	"context"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// JobRepository defines tenant-scoped job storage operations
type JobRepository interface {
	CreateJob(ctx context.Context, job domain.Job) error
	// UpdateJob replaces a stored job; returns domain.ErrNotFound when absent
	UpdateJob(ctx context.Context, job domain.Job) error
	// DeleteJob removes the job together with its applications and saved entries
	DeleteJob(ctx context.Context, tenant domain.TenantID, id domain.JobID) error
	GetJob(ctx context.Context, tenant domain.TenantID, id domain.JobID) (domain.Job, error)
	// ListJobs applies every active facet of a normalized spec, then paginates
	ListJobs(ctx context.Context, tenant domain.TenantID, spec domain.FilterSpec) (domain.JobListResult, error)
	ListJobsByPoster(ctx context.Context, tenant domain.TenantID, poster domain.UserID) ([]domain.Job, error)
	FindByExternalID(ctx context.Context, tenant domain.TenantID, externalID string) (domain.Job, error)
}

// ApplicationRepository defines application storage operations
type ApplicationRepository interface {
	// CreateApplication returns domain.ErrDuplicateApplication when the
	// (job, applicant) pair already exists
	CreateApplication(ctx context.Context, app domain.Application) error
	GetApplication(ctx context.Context, tenant domain.TenantID, id domain.ApplicationID) (domain.Application, error)
	// UpdateReview persists status and review metadata
	UpdateReview(ctx context.Context, app domain.Application) error
	DeleteApplication(ctx context.Context, tenant domain.TenantID, id domain.ApplicationID) error
	ListByJob(ctx context.Context, tenant domain.TenantID, jobID domain.JobID) ([]domain.Application, error)
	// ListByCandidate returns newest first; limit <= 0 means no limit
	ListByCandidate(ctx context.Context, tenant domain.TenantID, candidate domain.UserID, limit int) ([]domain.Application, error)
}

// SavedJobRepository stores the server-side copy of each user's saved jobs
type SavedJobRepository interface {
	SaveJob(ctx context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error
	UnsaveJob(ctx context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error
	SavedJobIDs(ctx context.Context, tenant domain.TenantID, user domain.UserID) ([]domain.JobID, error)
}

// Store bundles every repository a storage backend provides
type Store interface {
	JobRepository
	ApplicationRepository
	SavedJobRepository
	Close(ctx context.Context) error
}
