// Package memory provides in-process repositories guarded by a RWMutex.
// Records are cloned on the way in and out, so callers never share
// slices or pointers with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type pairKey struct {
	tenant    domain.TenantID
	job       domain.JobID
	applicant domain.UserID
}

type userKey struct {
	tenant domain.TenantID
	user   domain.UserID
}

// Store implements every repository interface in memory
type Store struct {
	mu     sync.RWMutex
	jobs   map[domain.JobID]domain.Job
	apps   map[domain.ApplicationID]domain.Application
	byPair map[pairKey]domain.ApplicationID
	saved  map[userKey]map[domain.JobID]time.Time
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		jobs:   make(map[domain.JobID]domain.Job),
		apps:   make(map[domain.ApplicationID]domain.Application),
		byPair: make(map[pairKey]domain.ApplicationID),
		saved:  make(map[userKey]map[domain.JobID]time.Time),
	}
}

func (s *Store) Close(context.Context) error { return nil }

func notFound(kind string, id fmt.Stringer) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

func (s *Store) CreateJob(_ context.Context, j domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[j.ID]; ok {
		return fmt.Errorf("job %s already exists", j.ID)
	}
	j.ApplicationsCount = 0
	s.jobs[j.ID] = cloneJob(j)
	return nil
}

func (s *Store) UpdateJob(_ context.Context, j domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.jobs[j.ID]
	if !ok || cur.TenantID != j.TenantID {
		return notFound("job", j.ID)
	}
	s.jobs[j.ID] = cloneJob(j)
	return nil
}

func (s *Store) DeleteJob(_ context.Context, tenant domain.TenantID, id domain.JobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.jobs[id]
	if !ok || cur.TenantID != tenant {
		return notFound("job", id)
	}
	delete(s.jobs, id)

	for appID, app := range s.apps {
		if app.JobID == id {
			delete(s.apps, appID)
			delete(s.byPair, pairKey{tenant: app.TenantID, job: app.JobID, applicant: app.ApplicantID})
		}
	}
	for k, set := range s.saved {
		if k.tenant == tenant {
			delete(set, id)
		}
	}
	return nil
}

func (s *Store) GetJob(_ context.Context, tenant domain.TenantID, id domain.JobID) (domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok || j.TenantID != tenant {
		return domain.Job{}, notFound("job", id)
	}
	return s.annotate(j), nil
}

func (s *Store) FindByExternalID(_ context.Context, tenant domain.TenantID, externalID string) (domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.jobs {
		if j.TenantID == tenant && externalID != "" && j.ExternalID == externalID {
			return s.annotate(j), nil
		}
	}
	return domain.Job{}, fmt.Errorf("job with external id %q: %w", externalID, domain.ErrNotFound)
}

// ListJobs filters with the catalog predicates, orders newest first and paginates
func (s *Store) ListJobs(_ context.Context, tenant domain.TenantID, spec domain.FilterSpec) (domain.JobListResult, error) {
	spec = spec.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Job, 0)
	for _, j := range s.jobs {
		if j.TenantID == tenant && job.Matches(j, spec) {
			matched = append(matched, j)
		}
	}
	sortNewestFirst(matched)

	p := domain.NewPagination(spec.Page, spec.PageSize, len(matched))
	start := min(p.Offset(), len(matched))
	end := min(start+p.PageSize, len(matched))

	page := make([]domain.Job, 0, end-start)
	for _, j := range matched[start:end] {
		page = append(page, s.annotate(j))
	}
	return domain.JobListResult{Jobs: page, Pagination: p}, nil
}

func (s *Store) ListJobsByPoster(_ context.Context, tenant domain.TenantID, poster domain.UserID) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Job, 0)
	for _, j := range s.jobs {
		if j.TenantID == tenant && j.PostedBy.UserID == poster {
			out = append(out, s.annotate(j))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) CreateApplication(_ context.Context, app domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[app.JobID]
	if !ok || j.TenantID != app.TenantID {
		return notFound("job", app.JobID)
	}

	key := pairKey{tenant: app.TenantID, job: app.JobID, applicant: app.ApplicantID}
	if _, dup := s.byPair[key]; dup {
		return domain.ErrDuplicateApplication
	}

	s.apps[app.ID] = cloneApplication(app)
	s.byPair[key] = app.ID
	return nil
}

func (s *Store) GetApplication(_ context.Context, tenant domain.TenantID, id domain.ApplicationID) (domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[id]
	if !ok || app.TenantID != tenant {
		return domain.Application{}, notFound("application", id)
	}
	return cloneApplication(app), nil
}

func (s *Store) UpdateReview(_ context.Context, app domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.apps[app.ID]
	if !ok || cur.TenantID != app.TenantID {
		return notFound("application", app.ID)
	}
	cur.Status = app.Status
	cur.Review = app.Review
	s.apps[app.ID] = cloneApplication(cur)
	return nil
}

func (s *Store) DeleteApplication(_ context.Context, tenant domain.TenantID, id domain.ApplicationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok || app.TenantID != tenant {
		return notFound("application", id)
	}
	delete(s.apps, id)
	delete(s.byPair, pairKey{tenant: app.TenantID, job: app.JobID, applicant: app.ApplicantID})
	return nil
}

func (s *Store) ListByJob(_ context.Context, tenant domain.TenantID, jobID domain.JobID) ([]domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Application, 0)
	for _, app := range s.apps {
		if app.TenantID == tenant && app.JobID == jobID {
			out = append(out, cloneApplication(app))
		}
	}
	sortApplications(out)
	return out, nil
}

func (s *Store) ListByCandidate(_ context.Context, tenant domain.TenantID, candidate domain.UserID, limit int) ([]domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Application, 0)
	for _, app := range s.apps {
		if app.TenantID == tenant && app.ApplicantID == candidate {
			out = append(out, cloneApplication(app))
		}
	}
	sortApplications(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SaveJob(_ context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok || j.TenantID != tenant {
		return notFound("job", jobID)
	}

	k := userKey{tenant: tenant, user: user}
	set, ok := s.saved[k]
	if !ok {
		set = make(map[domain.JobID]time.Time)
		s.saved[k] = set
	}
	if _, already := set[jobID]; !already {
		set[jobID] = time.Now().UTC()
	}
	return nil
}

func (s *Store) UnsaveJob(_ context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.saved[userKey{tenant: tenant, user: user}]; ok {
		delete(set, jobID)
	}
	return nil
}

func (s *Store) SavedJobIDs(_ context.Context, tenant domain.TenantID, user domain.UserID) ([]domain.JobID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.saved[userKey{tenant: tenant, user: user}]
	type entry struct {
		id domain.JobID
		at time.Time
	}
	entries := make([]entry, 0, len(set))
	for id, at := range set {
		entries = append(entries, entry{id: id, at: at})
	}
	sort.Slice(entries, func(i, k int) bool {
		if !entries[i].at.Equal(entries[k].at) {
			return entries[i].at.After(entries[k].at)
		}
		return entries[i].id.String() < entries[k].id.String()
	})

	ids := make([]domain.JobID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.id)
	}
	return ids, nil
}

// annotate fills the derived applications count; caller holds the lock
func (s *Store) annotate(j domain.Job) domain.Job {
	out := cloneJob(j)
	out.ApplicationsCount = 0
	for _, app := range s.apps {
		if app.JobID == j.ID {
			out.ApplicationsCount++
		}
	}
	return out
}

func sortNewestFirst(jobs []domain.Job) {
	sort.Slice(jobs, func(i, k int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
		}
		return jobs[i].ID.String() < jobs[k].ID.String()
	})
}

func sortApplications(apps []domain.Application) {
	sort.Slice(apps, func(i, k int) bool {
		if !apps[i].AppliedAt.Equal(apps[k].AppliedAt) {
			return apps[i].AppliedAt.After(apps[k].AppliedAt)
		}
		return apps[i].ID.String() < apps[k].ID.String()
	})
}
