package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

const tenant = "tenant-1"

func seedJobs(t *testing.T, s *Store, n int) []domain.Job {
	t.Helper()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := make([]domain.Job, 0, n)
	for i := 0; i < n; i++ {
		j := domain.Job{
			ID:        uuid.New(),
			TenantID:  tenant,
			Company:   fmt.Sprintf("Company %d", i),
			Position:  "Engineer",
			Location:  "Remote",
			Type:      "full-time",
			Remote:    i%2 == 0,
			PostedBy:  domain.Poster{UserID: "poster"},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.CreateJob(context.Background(), j))
		jobs = append(jobs, j)
	}
	return jobs
}

func TestStore_ListJobsPaginatesAfterFiltering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	jobs := seedJobs(t, s, 25)

	res, err := s.ListJobs(ctx, tenant, domain.FilterSpec{RemoteMode: "remote", Page: 2, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, 13, res.Pagination.Total)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	require.Len(t, res.Jobs, 5)
	for _, j := range res.Jobs {
		assert.True(t, j.Remote)
	}

	// newest first: page 1 starts with the last seeded remote job (index 24)
	first, err := s.ListJobs(ctx, tenant, domain.FilterSpec{RemoteMode: "remote", PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, jobs[24].ID, first.Jobs[0].ID)

	past, err := s.ListJobs(ctx, tenant, domain.FilterSpec{Page: 99})
	require.NoError(t, err)
	assert.Empty(t, past.Jobs)
	assert.Equal(t, 25, past.Pagination.Total)
}

func TestStore_TenantIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	jobs := seedJobs(t, s, 1)

	_, err := s.GetJob(ctx, "other", jobs[0].ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	res, err := s.ListJobs(ctx, "other", domain.FilterSpec{})
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)
}

func TestStore_ApplicationUniquenessAndCounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	j := seedJobs(t, s, 1)[0]

	app := domain.Application{ID: uuid.New(), TenantID: tenant, JobID: j.ID, ApplicantID: "cand", Status: domain.StatusApplied}
	require.NoError(t, s.CreateApplication(ctx, app))

	dup := app
	dup.ID = uuid.New()
	require.ErrorIs(t, s.CreateApplication(ctx, dup), domain.ErrDuplicateApplication)

	got, err := s.GetJob(ctx, tenant, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ApplicationsCount)

	require.NoError(t, s.DeleteApplication(ctx, tenant, app.ID))
	got, err = s.GetJob(ctx, tenant, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ApplicationsCount)

	// the pair is free again after withdrawal
	require.NoError(t, s.CreateApplication(ctx, dup))
}

func TestStore_DeleteJobCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	j := seedJobs(t, s, 1)[0]

	app := domain.Application{ID: uuid.New(), TenantID: tenant, JobID: j.ID, ApplicantID: "cand"}
	require.NoError(t, s.CreateApplication(ctx, app))
	require.NoError(t, s.SaveJob(ctx, tenant, "cand", j.ID))

	require.NoError(t, s.DeleteJob(ctx, tenant, j.ID))

	_, err := s.GetApplication(ctx, tenant, app.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	saved, err := s.SavedJobIDs(ctx, tenant, "cand")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestStore_SavedJobsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	j := seedJobs(t, s, 1)[0]

	require.NoError(t, s.SaveJob(ctx, tenant, "u", j.ID))
	require.NoError(t, s.SaveJob(ctx, tenant, "u", j.ID))

	ids, err := s.SavedJobIDs(ctx, tenant, "u")
	require.NoError(t, err)
	assert.Equal(t, []domain.JobID{j.ID}, ids)

	require.NoError(t, s.UnsaveJob(ctx, tenant, "u", j.ID))
	require.NoError(t, s.UnsaveJob(ctx, tenant, "u", j.ID))

	require.ErrorIs(t, s.SaveJob(ctx, tenant, "u", uuid.New()), domain.ErrNotFound)
}

func TestStore_ReturnsClones(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	j := seedJobs(t, s, 1)[0]

	got, err := s.GetJob(ctx, tenant, j.ID)
	require.NoError(t, err)
	got.Tags = append(got.Tags, "mutated")

	again, err := s.GetJob(ctx, tenant, j.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Tags)
}
