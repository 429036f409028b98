package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/alumni-jobs/internal/dashboard"
	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/export"
	"github.com/honeycarbs/alumni-jobs/internal/storage/memory"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

var (
	poster    = map[string]any{"user_id": "poster", "name": "Pat", "role": "alumni", "tenant_id": "t1"}
	candidate = map[string]any{"user_id": "cand", "name": "Cam", "role": "alumni", "tenant_id": "t1"}
	outsider  = map[string]any{"user_id": "other", "role": "alumni", "tenant_id": "t1"}
)

type sheetStub struct{ rows int }

func (s *sheetStub) Append(_ context.Context, _, _ string, rows [][]any) (int, error) {
	s.rows += len(rows)
	return len(rows), nil
}

func (s *sheetStub) Replace(_ context.Context, _, _ string, rows [][]any) (int, error) {
	s.rows = len(rows)
	return len(rows), nil
}

type harness struct {
	session *sdkmcp.ClientSession
	names   []string
	sheet   *sheetStub
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := memory.NewStore()

	jobs, err := job.NewService(job.WithRepository(store), job.WithSavedRepository(store), job.WithClock(clock))
	require.NoError(t, err)
	apps, err := application.NewService(application.WithRepositories(store, store), application.WithClock(clock))
	require.NoError(t, err)
	agg, err := dashboard.NewAggregator(jobs, apps, nil)
	require.NoError(t, err)

	sheet := &sheetStub{}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "alumni-jobs-test", Version: "test"}, nil)
	names := Register(server, logging.NewNop(),
		WithJobTools(jobs),
		WithApplicationTools(apps, agg),
		WithExportTool(export.NewExporter(jobs, apps, sheet, nil)),
	)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "tools-test", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return &harness{session: session, names: names, sheet: sheet}
}

func (h *harness) call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := h.session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

// ok calls a tool that must succeed and decodes its structured output into out
func (h *harness) ok(t *testing.T, name string, args map[string]any, out any) string {
	t.Helper()
	res := h.call(t, name, args)
	require.False(t, res.IsError, "%s failed: %s", name, text(res))
	if out != nil {
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return text(res)
}

func (h *harness) fails(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	res := h.call(t, name, args)
	require.True(t, res.IsError, "%s unexpectedly succeeded: %s", name, text(res))
	return text(res)
}

func text(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func (h *harness) postJob(t *testing.T, position string, salaryMin int) domain.Job {
	t.Helper()
	var j domain.Job
	h.ok(t, "create_job", map[string]any{
		"actor": poster,
		"job": map[string]any{
			"company":              "Acme",
			"position":             position,
			"location":             "Remote",
			"type":                 "full-time",
			"remote":               true,
			"salary":               map[string]any{"min": salaryMin, "max": salaryMin + 20000, "currency": "USD"},
			"application_deadline": "2026-12-01",
		},
	}, &j)
	return j
}

func submitArgs(jobID domain.JobID) map[string]any {
	return map[string]any{
		"actor":      candidate,
		"job_id":     jobID.String(),
		"contact":    map[string]any{"name": "Cam Doe", "email": "cam@example.com", "phone": "0123456789"},
		"skills":     []string{"React", "TypeScript"},
		"experience": "three years building dashboards",
	}
}

func TestRegister_AllTools(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.ElementsMatch(t, []string{
		"list_jobs", "create_job", "update_job", "delete_job", "save_job", "unsave_job", "import_jobs",
		"submit_application", "review_application", "delete_application", "job_applications",
		"application_stats", "my_applications", "received_applications", "export_applications",
	}, h.names)

	listed, err := h.session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, listed.Tools, len(h.names))
}

func TestRegister_SkipsUnconfigured(t *testing.T) {
	t.Parallel()

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "empty", Version: "test"}, nil)
	names := Register(server, nil, WithJobTools(nil), WithExportTool(export.NewExporter(nil, nil, nil, nil)))
	assert.Empty(t, names)
}

func TestJobTools_CatalogFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	high := h.postJob(t, "Staff Engineer", 120000)
	h.postJob(t, "Junior Engineer", 90000)
	require.NotNil(t, high.Deadline)
	assert.Equal(t, "2026-12-01", high.Deadline.Format(time.DateOnly))

	var res domain.JobListResult
	msg := h.ok(t, "list_jobs", map[string]any{
		"actor":   candidate,
		"filters": map[string]any{"salary": "100k-150k", "remote": "remote"},
	}, &res)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, high.ID, res.Jobs[0].ID)
	assert.Contains(t, msg, "1 job in total")

	var updated domain.Job
	h.ok(t, "update_job", map[string]any{
		"actor":  poster,
		"job_id": high.ID.String(),
		"job":    map[string]any{"company": "Acme", "position": "Principal Engineer", "location": "Remote", "type": "full-time"},
	}, &updated)
	assert.Equal(t, "Principal Engineer", updated.Position)

	errText := h.fails(t, "update_job", map[string]any{
		"actor":  outsider,
		"job_id": high.ID.String(),
		"job":    map[string]any{"company": "Acme", "position": "Hijacked", "location": "Remote", "type": "full-time"},
	})
	assert.Contains(t, errText, "forbidden")

	var saved SavedResult
	h.ok(t, "save_job", map[string]any{"actor": candidate, "job_id": high.ID.String()}, &saved)
	assert.True(t, saved.Saved)
	assert.Equal(t, []domain.JobID{high.ID}, saved.SavedIDs)

	h.ok(t, "unsave_job", map[string]any{"actor": candidate, "job_id": high.ID.String()}, &saved)
	assert.False(t, saved.Saved)
	assert.Empty(t, saved.SavedIDs)

	h.ok(t, "delete_job", map[string]any{"actor": poster, "job_id": high.ID.String()}, nil)
	h.fails(t, "delete_job", map[string]any{"actor": poster, "job_id": high.ID.String()})
}

func TestJobTools_BadArguments(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Contains(t, h.fails(t, "delete_job", map[string]any{"actor": poster, "job_id": "nope"}), "job_id")
	assert.Contains(t, h.fails(t, "create_job", map[string]any{
		"actor": poster,
		"job": map[string]any{
			"company": "Acme", "position": "SRE", "location": "Remote", "type": "full-time",
			"application_deadline": "next week",
		},
	}), "application_deadline")
}

func TestApplicationTools_Lifecycle(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	j := h.postJob(t, "Frontend Engineer", 110000)

	var app domain.Application
	h.ok(t, "submit_application", submitArgs(j.ID), &app)
	assert.Equal(t, domain.StatusApplied, app.Status)

	assert.Contains(t, h.fails(t, "submit_application", submitArgs(j.ID)), "already submitted")

	h.fails(t, "review_application", map[string]any{
		"actor": outsider, "application_id": app.ID.String(), "status": "Shortlisted",
	})
	h.ok(t, "review_application", map[string]any{
		"actor": poster, "application_id": app.ID.String(), "status": "Shortlisted", "notes": "strong portfolio",
	}, &app)
	assert.Equal(t, domain.StatusShortlisted, app.Status)
	assert.Equal(t, "poster", app.Review.ReviewedBy)

	var stats dashboard.Stats
	msg := h.ok(t, "application_stats", map[string]any{"actor": poster, "job_id": j.ID.String()}, &stats)
	assert.Equal(t, 1, stats.Shortlisted)
	assert.Contains(t, msg, "Shortlisted 1")

	var listed JobApplications
	h.ok(t, "job_applications", map[string]any{"actor": poster, "job_id": j.ID.String()}, &listed)
	require.Len(t, listed.Applications, 1)
	assert.Equal(t, "Cam Doe", listed.Applications[0].Contact.Name)

	var mine dashboard.CandidateResult
	h.ok(t, "my_applications", map[string]any{"actor": candidate}, &mine)
	require.Len(t, mine.Rows, 1)
	assert.Equal(t, "Frontend Engineer", mine.Rows[0].Job.Position)

	var received dashboard.ReceivedResult
	h.ok(t, "received_applications", map[string]any{"actor": poster}, &received)
	assert.Equal(t, 1, received.Totals.Total)

	h.ok(t, "delete_application", map[string]any{"actor": candidate, "application_id": app.ID.String()}, nil)
	h.ok(t, "application_stats", map[string]any{"actor": poster, "job_id": j.ID.String()}, &stats)
	assert.Equal(t, 0, stats.Total)
}

func TestExportTool(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	j := h.postJob(t, "Data Engineer", 100000)
	h.ok(t, "submit_application", submitArgs(j.ID), nil)

	var res export.Result
	msg := h.ok(t, "export_applications", map[string]any{
		"actor":  poster,
		"job_id": j.ID.String(),
		"target": map[string]any{"spreadsheet_id": "sheet-1", "tab": "Data"},
	}, &res)
	assert.Equal(t, 2, res.RowsWritten)
	assert.Equal(t, 2, h.sheet.rows)
	assert.Contains(t, msg, "wrote 2 rows")

	h.fails(t, "export_applications", map[string]any{
		"actor":  candidate,
		"job_id": j.ID.String(),
		"target": map[string]any{"spreadsheet_id": "sheet-1"},
	})
}
