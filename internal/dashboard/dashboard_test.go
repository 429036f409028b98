package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/access"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/storage/memory"
)

const tenant = "t1"

var (
	poster    = domain.Actor{UserID: "poster", Name: "Pat", Role: "alumni", TenantID: tenant}
	candidate = domain.Actor{UserID: "cand", Name: "Cam", Role: "alumni", TenantID: tenant}
	other     = domain.Actor{UserID: "other", Role: "alumni", TenantID: tenant}
)

type env struct {
	agg  *Aggregator
	jobs job.Service
	apps application.Service
	now  time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{now: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return e.now }
	store := memory.NewStore()

	jobs, err := job.NewService(job.WithRepository(store), job.WithSavedRepository(store), job.WithClock(clock))
	require.NoError(t, err)
	apps, err := application.NewService(application.WithRepositories(store, store), application.WithClock(clock))
	require.NoError(t, err)
	agg, err := NewAggregator(jobs, apps, nil)
	require.NoError(t, err)

	e.agg, e.jobs, e.apps = agg, jobs, apps
	return e
}

func (e *env) postJob(t *testing.T, company, position string) domain.Job {
	t.Helper()
	j, err := e.jobs.CreateJob(context.Background(), poster, domain.JobInput{
		Company: company, Position: position, Location: "Remote", Type: "full-time", Remote: true,
	})
	require.NoError(t, err)
	return j
}

func (e *env) apply(t *testing.T, who domain.Actor, jobID domain.JobID) domain.Application {
	t.Helper()
	e.now = e.now.Add(time.Minute)
	app, err := e.apps.Submit(context.Background(), who, jobID, application.SubmitPayload{
		Contact:    domain.Contact{Name: who.Name + " Doe", Email: who.UserID + "@example.com", Phone: "0123456789"},
		Skills:     []string{"go"},
		Experience: "several years of backend work",
	})
	require.NoError(t, err)
	return app
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	s := ComputeStats([]domain.Application{
		{Status: domain.StatusApplied},
		{Status: domain.StatusApplied},
		{Status: domain.StatusHired},
		{Status: domain.StatusRejected},
	})
	assert.Equal(t, Stats{Applied: 2, Rejected: 1, Hired: 1, Total: 4}, s)
	assert.Equal(t, 2, s.Count(domain.StatusApplied))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestCandidateView(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	zeta := e.postJob(t, "Zeta", "Backend Engineer")
	alpha := e.postJob(t, "Alpha", "React Developer")
	first := e.apply(t, candidate, zeta.ID)
	e.apply(t, candidate, alpha.ID)

	_, err := e.apps.Review(ctx, poster, first.ID, domain.StatusShortlisted, "")
	require.NoError(t, err)

	res, err := e.agg.CandidateView(ctx, candidate, CandidateQuery{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Alpha", res.Rows[0].Job.Company, "newest application first")
	assert.Equal(t, Stats{Applied: 1, Shortlisted: 1, Total: 2}, res.Counts)

	res, err = e.agg.CandidateView(ctx, candidate, CandidateQuery{SortBy: SortCompany})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", res.Rows[0].Job.Company)
	assert.Equal(t, "Zeta", res.Rows[1].Job.Company)

	res, err = e.agg.CandidateView(ctx, candidate, CandidateQuery{SortBy: SortStatus})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, res.Rows[0].Application.Status)

	res, err = e.agg.CandidateView(ctx, candidate, CandidateQuery{Search: "react"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, alpha.ID, res.Rows[0].Job.ID)
	assert.Equal(t, 2, res.Counts.Total, "counts ignore the search")

	res, err = e.agg.CandidateView(ctx, candidate, CandidateQuery{Status: domain.StatusShortlisted})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, zeta.ID, res.Rows[0].Job.ID)
}

func TestPosterBoard_SingleExpansion(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	a := e.postJob(t, "Acme", "SRE")
	b := e.postJob(t, "Acme", "DBA")
	e.apply(t, candidate, a.ID)

	board := e.agg.PosterBoard(poster)
	jobs, err := board.Jobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	exp, err := board.Expand(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, 1, exp.Stats.Total)

	exp, err = board.Expand(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, exp)
	got, ok := board.Expanded()
	require.True(t, ok)
	assert.Equal(t, b.ID, got.JobID, "expanding another job collapses the first")

	exp, err = board.Expand(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, exp)
	_, ok = board.Expanded()
	assert.False(t, ok)

	_, err = e.agg.PosterBoard(other).Expand(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPosterBoard_ReviewAndDeleteRecomputeStats(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	j := e.postJob(t, "Acme", "SRE")
	app := e.apply(t, candidate, j.ID)
	e.apply(t, other, j.ID)

	board := e.agg.PosterBoard(poster)
	_, err := board.Expand(ctx, j.ID)
	require.NoError(t, err)

	_, err = board.Review(ctx, app.ID, domain.StatusHired, "welcome")
	require.NoError(t, err)
	exp, _ := board.Expanded()
	assert.Equal(t, Stats{Applied: 1, Hired: 1, Total: 2}, exp.Stats)

	require.NoError(t, board.Delete(ctx, j.ID, app.ID))
	exp, _ = board.Expanded()
	assert.Equal(t, Stats{Applied: 1, Total: 1}, exp.Stats)
	require.Len(t, exp.Applications, 1)

	// gone from the candidate projection too
	res, err := e.agg.CandidateView(ctx, candidate, CandidateQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)

	jobs, err := board.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, jobs[0].ApplicationsCount)

	received, err := e.agg.Received(ctx, poster)
	require.NoError(t, err)
	require.Len(t, received.Jobs, 1)
	assert.Equal(t, Stats{Applied: 1, Total: 1}, received.Totals)
}

func TestForRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role access.Role
		want []Panel
	}{
		{access.SuperAdmin, []Panel{PanelModeration, PanelReceived, PanelAnalytics}},
		{access.CollegeAdmin, []Panel{PanelModeration, PanelReceived, PanelAnalytics}},
		{access.HOD, []Panel{PanelReceived, PanelPostings}},
		{access.Staff, []Panel{PanelReceived, PanelPostings}},
		{access.Alumni, []Panel{PanelMyApplications, PanelSaved, PanelReceived, PanelPostings}},
		{access.UnknownRole, []Panel{PanelAccessDenied}},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			v := ForRole(tt.role)
			assert.Equal(t, tt.want, v.Panels())
			assert.Equal(t, tt.role, v.Role())
		})
	}
}
