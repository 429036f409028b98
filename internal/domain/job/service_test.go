package job_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/storage/memory"
)

var (
	owner = domain.Actor{UserID: "owner", Name: "Olivia Owner", Role: "alumni", TenantID: "t1"}
	admin = domain.Actor{UserID: "admin", Role: "college_admin", TenantID: "t1"}
	other = domain.Actor{UserID: "other", Role: "staff", TenantID: "t1"}
	guest = domain.Actor{UserID: "guest", Role: "visitor", TenantID: "t1"}
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, opts ...job.Option) (job.Service, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	base := []job.Option{
		job.WithRepository(store),
		job.WithSavedRepository(store),
		job.WithClock(func() time.Time { return fixedNow }),
	}
	svc, err := job.NewService(append(base, opts...)...)
	require.NoError(t, err)
	return svc, store
}

func validInput() domain.JobInput {
	return domain.JobInput{
		Company:  "Acme",
		Position: "Backend Engineer",
		Location: "Remote",
		Type:     "Full-Time",
		Remote:   true,
		Salary:   &domain.Salary{Min: 100000, Max: 140000, Currency: "USD"},
		Tags:     []string{" go ", ""},
	}
}

func TestNewService_RequiresRepositories(t *testing.T) {
	t.Parallel()

	_, err := job.NewService()
	require.Error(t, err)
}

func TestCreateJob(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	j, err := svc.CreateJob(ctx, owner, validInput())
	require.NoError(t, err)
	assert.Equal(t, "full-time", j.Type)
	assert.Equal(t, []string{"go"}, j.Tags)
	assert.Equal(t, owner.UserID, j.PostedBy.UserID)
	assert.Equal(t, "Olivia Owner", j.PostedBy.Name)
	assert.Equal(t, fixedNow, j.CreatedAt)

	_, err = svc.CreateJob(ctx, guest, validInput())
	require.ErrorIs(t, err, domain.ErrForbidden)

	bad := validInput()
	bad.Company = ""
	bad.Salary = &domain.Salary{Min: 10, Max: 5}
	_, err = svc.CreateJob(ctx, owner, bad)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "company")
	assert.Contains(t, verr.Fields, "salary.max")
}

func TestUpdateAndDeleteAuthorization(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	j, err := svc.CreateJob(ctx, owner, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Position = "Staff Engineer"

	_, err = svc.UpdateJob(ctx, other, j.ID, in)
	require.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.UpdateJob(ctx, admin, j.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Position)
	assert.Equal(t, owner.UserID, updated.PostedBy.UserID, "editing never transfers ownership")

	require.ErrorIs(t, svc.DeleteJob(ctx, other, j.ID), domain.ErrForbidden)
	require.NoError(t, svc.DeleteJob(ctx, owner, j.ID))

	_, err = svc.GetJob(ctx, owner, j.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	for _, floor := range []int{90000, 120000} {
		in := validInput()
		in.Salary = &domain.Salary{Min: floor, Max: floor + 10000}
		_, err := svc.CreateJob(ctx, owner, in)
		require.NoError(t, err)
	}

	res, err := svc.ListJobs(ctx, other, domain.FilterSpec{SalaryBucket: "100k-150k", RemoteMode: "remote"})
	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, 120000, res.Jobs[0].Salary.Min)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Equal(t, domain.DefaultPageSize, res.Pagination.PageSize)

	_, err = svc.ListJobs(ctx, other, domain.FilterSpec{SalaryBucket: "huge"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ListJobs(ctx, domain.Actor{UserID: "x"}, domain.FilterSpec{})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSaveAndUnsave(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	j, err := svc.CreateJob(ctx, owner, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.SaveJob(ctx, other, j.ID))
	ids, err := svc.SavedJobIDs(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, []domain.JobID{j.ID}, ids)

	require.NoError(t, svc.UnsaveJob(ctx, other, j.ID))
	ids, err = svc.SavedJobIDs(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type fakeProvider struct {
	jobs []domain.Job
	err  error
}

func (p fakeProvider) Name() string { return "fake" }

func (p fakeProvider) Search(context.Context, job.ImportQuery) ([]domain.Job, error) {
	return p.jobs, p.err
}

func TestImportJobs(t *testing.T) {
	t.Parallel()

	listings := []domain.Job{
		{ExternalID: "adzuna:1", Company: "Acme", Position: "SRE", Location: "Remote", Remote: true, ApplyURL: "https://example.com/1"},
		{ExternalID: "adzuna:1", Company: "Acme", Position: "SRE", Location: "Remote"},
		{ExternalID: "", Company: "NoID"},
	}
	svc, _ := newService(t, job.WithProviders(fakeProvider{jobs: listings}, fakeProvider{err: errors.New("down")}))
	ctx := context.Background()

	res, err := svc.ImportJobs(ctx, admin, job.ImportQuery{Query: "sre"})
	require.NoError(t, err)
	require.Len(t, res.Imported, 1)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.SourceCount)
	assert.Equal(t, admin.UserID, res.Imported[0].PostedBy.UserID)

	// a second run skips listings already stored
	again, err := svc.ImportJobs(ctx, admin, job.ImportQuery{Query: "sre"})
	require.NoError(t, err)
	assert.Empty(t, again.Imported)

	_, err = svc.ImportJobs(ctx, guest, job.ImportQuery{Query: "sre"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ImportJobs(ctx, admin, job.ImportQuery{})
	require.ErrorIs(t, err, domain.ErrValidation)
}
