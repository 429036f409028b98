package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

func openIntegrationStore(t *testing.T) (*Store, domain.TenantID) {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL must be set to run this test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(ctx, Config{DSN: dsn, PingAttempts: 1}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	// a fresh tenant isolates each run from leftovers
	return s, "it-" + uuid.NewString()
}

func TestStoreIntegration(t *testing.T) {
	s, tenant := openIntegrationStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mk := func(floor int, remote bool, age time.Duration) domain.Job {
		j := domain.Job{
			ID:        uuid.New(),
			TenantID:  tenant,
			Company:   "Acme",
			Position:  "Engineer",
			Location:  "Berlin",
			Type:      "full-time",
			Remote:    remote,
			Salary:    &domain.Salary{Min: floor, Max: floor + 10000, Currency: "EUR"},
			Tags:      []string{"golang"},
			PostedBy:  domain.Poster{UserID: "poster", Name: "Pat"},
			CreatedAt: now.Add(-age),
			UpdatedAt: now.Add(-age),
		}
		require.NoError(t, s.CreateJob(ctx, j))
		return j
	}

	low := mk(90000, true, 2*time.Hour)
	high := mk(120000, true, time.Hour)
	mk(130000, false, 0)

	res, err := s.ListJobs(ctx, tenant, domain.FilterSpec{SalaryBucket: "100k-150k", RemoteMode: "remote"})
	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, high.ID, res.Jobs[0].ID)
	assert.Equal(t, 1, res.Pagination.Total)

	all, err := s.ListJobs(ctx, tenant, domain.FilterSpec{SearchText: "GOLANG", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)
	require.Len(t, all.Jobs, 2)

	app := domain.Application{
		ID:          uuid.New(),
		TenantID:    tenant,
		JobID:       low.ID,
		ApplicantID: "cand",
		Contact:     domain.Contact{Name: "Cam", Email: "cam@example.com", Phone: "5551234567"},
		Skills:      []string{"React"},
		Experience:  "three years of frontend",
		Resume:      &domain.ResumeRef{Ref: "file-1", SizeBytes: 1024, MIMEType: "application/pdf"},
		Status:      domain.StatusApplied,
		AppliedAt:   now,
	}
	require.NoError(t, s.CreateApplication(ctx, app))

	dup := app
	dup.ID = uuid.New()
	require.ErrorIs(t, s.CreateApplication(ctx, dup), domain.ErrDuplicateApplication)

	got, err := s.GetJob(ctx, tenant, low.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ApplicationsCount)

	reviewedAt := now.Add(time.Minute)
	app.Status = domain.StatusShortlisted
	app.Review = domain.Review{ReviewedBy: "poster", ReviewedAt: &reviewedAt, Notes: "strong"}
	require.NoError(t, s.UpdateReview(ctx, app))

	stored, err := s.GetApplication(ctx, tenant, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShortlisted, stored.Status)
	require.NotNil(t, stored.Resume)
	assert.Equal(t, "file-1", stored.Resume.Ref)
	require.NotNil(t, stored.Review.ReviewedAt)
	assert.True(t, reviewedAt.Equal(*stored.Review.ReviewedAt))

	require.NoError(t, s.SaveJob(ctx, tenant, "cand", low.ID))
	require.NoError(t, s.SaveJob(ctx, tenant, "cand", low.ID))
	require.ErrorIs(t, s.SaveJob(ctx, tenant, "cand", uuid.New()), domain.ErrNotFound)

	require.NoError(t, s.DeleteJob(ctx, tenant, low.ID))

	_, err = s.GetApplication(ctx, tenant, app.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	saved, err := s.SavedJobIDs(ctx, tenant, "cand")
	require.NoError(t, err)
	assert.Empty(t, saved)
}
