package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/alumni-jobs/internal/dashboard"
	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
)

// SubmitApplicationParams defines the arguments for the submit_application tool
type SubmitApplicationParams struct {
	Actor      domain.Actor      `json:"actor"`
	JobID      string            `json:"job_id"`
	Contact    domain.Contact    `json:"contact" jsonschema:"Name, email and phone as entered by the candidate"`
	Skills     []string          `json:"skills" jsonschema:"At least one skill"`
	Experience string            `json:"experience"`
	Message    string            `json:"message,omitempty"`
	Resume     *domain.ResumeRef `json:"resume,omitempty" jsonschema:"Reference returned by the file service"`
}

// ReviewApplicationParams defines the arguments for the review_application tool
type ReviewApplicationParams struct {
	Actor         domain.Actor `json:"actor"`
	ApplicationID string       `json:"application_id"`
	Status        string       `json:"status" jsonschema:"Applied, Shortlisted, Rejected or Hired"`
	Notes         string       `json:"notes,omitempty"`
}

// ApplicationRefParams addresses one application
type ApplicationRefParams struct {
	Actor         domain.Actor `json:"actor"`
	ApplicationID string       `json:"application_id"`
}

// MyApplicationsParams defines the arguments for the my_applications tool
type MyApplicationsParams struct {
	Actor  domain.Actor `json:"actor"`
	Search string       `json:"search,omitempty" jsonschema:"Matches position or company"`
	Status string       `json:"status,omitempty"`
	SortBy string       `json:"sort_by,omitempty" jsonschema:"applied, status or company"`
}

// ActorParams carries only the caller
type ActorParams struct {
	Actor domain.Actor `json:"actor"`
}

// JobApplications is the output of job_applications
type JobApplications struct {
	JobID        domain.JobID         `json:"job_id"`
	Applications []domain.Application `json:"applications"`
	Stats        dashboard.Stats      `json:"stats"`
}

type applicationTools struct {
	apps application.Service
	agg  *dashboard.Aggregator
}

// WithApplicationTools registers the lifecycle and dashboard tools
func WithApplicationTools(apps application.Service, agg *dashboard.Aggregator) Option {
	return func(reg *registry) {
		if apps == nil {
			reg.logger.Warn("application service not configured, lifecycle tools skipped")
			return
		}
		t := applicationTools{apps: apps, agg: agg}
		add(reg, "submit_application", "Apply to a job as the calling candidate", t.submit)
		add(reg, "review_application", "Move an application to a new status with optional notes", t.review)
		add(reg, "delete_application", "Withdraw or remove an application", t.delete)
		add(reg, "job_applications", "List the applications a job received with per-status counts", t.forJob)
		add(reg, "application_stats", "Count a job's applications per status", t.stats)
		if agg == nil {
			return
		}
		add(reg, "my_applications", "Show the caller's applications joined with their jobs", t.mine)
		add(reg, "received_applications", "Show applications received across every job the caller posted", t.received)
	}
}

func (t applicationTools) submit(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitApplicationParams) (*sdkmcp.CallToolResult, any, error) {
	jobID, err := parseID("job_id", in.JobID)
	if err != nil {
		return nil, nil, err
	}
	app, err := t.apps.Submit(ctx, in.Actor, jobID, application.SubmitPayload{
		Contact:    in.Contact,
		Skills:     in.Skills,
		Experience: in.Experience,
		Message:    in.Message,
		Resume:     in.Resume,
	})
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("[submit_application] applied to %s id=%s status=%s", jobID, app.ID, app.Status)), app, nil
}

func (t applicationTools) review(ctx context.Context, _ *sdkmcp.CallToolRequest, in ReviewApplicationParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseID("application_id", in.ApplicationID)
	if err != nil {
		return nil, nil, err
	}
	app, err := t.apps.Review(ctx, in.Actor, id, domain.Status(strings.TrimSpace(in.Status)), in.Notes)
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("[review_application] %s is now %s", app.ID, app.Status)), app, nil
}

func (t applicationTools) delete(ctx context.Context, _ *sdkmcp.CallToolRequest, in ApplicationRefParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseID("application_id", in.ApplicationID)
	if err != nil {
		return nil, nil, err
	}
	if err := t.apps.Delete(ctx, in.Actor, id); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("[delete_application] deleted %s", id)), map[string]any{"application_id": id, "deleted": true}, nil
}

func (t applicationTools) forJob(ctx context.Context, _ *sdkmcp.CallToolRequest, in JobRefParams) (*sdkmcp.CallToolResult, any, error) {
	jobID, err := parseID("job_id", in.JobID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := t.apps.ListForJob(ctx, in.Actor, jobID)
	if err != nil {
		return nil, nil, err
	}

	out := JobApplications{JobID: jobID, Applications: apps, Stats: dashboard.ComputeStats(apps)}
	var b strings.Builder
	fmt.Fprintf(&b, "[job_applications] %s", plural(out.Stats.Total, "application"))
	writeStats(&b, out.Stats)
	for _, a := range apps {
		fmt.Fprintf(&b, "\n- %s <%s> %s id=%s", a.Contact.Name, a.Contact.Email, a.Status, a.ID)
	}
	return textResult(b.String()), out, nil
}

func (t applicationTools) stats(ctx context.Context, _ *sdkmcp.CallToolRequest, in JobRefParams) (*sdkmcp.CallToolResult, any, error) {
	jobID, err := parseID("job_id", in.JobID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := t.apps.ListForJob(ctx, in.Actor, jobID)
	if err != nil {
		return nil, nil, err
	}

	stats := dashboard.ComputeStats(apps)
	var b strings.Builder
	fmt.Fprintf(&b, "[application_stats] %s", plural(stats.Total, "application"))
	writeStats(&b, stats)
	return textResult(b.String()), stats, nil
}

func (t applicationTools) mine(ctx context.Context, _ *sdkmcp.CallToolRequest, in MyApplicationsParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.agg.CandidateView(ctx, in.Actor, dashboard.CandidateQuery{
		Search: in.Search,
		Status: domain.Status(strings.TrimSpace(in.Status)),
		SortBy: in.SortBy,
	})
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[my_applications] %s", plural(len(res.Rows), "application"))
	writeStats(&b, res.Counts)
	for _, r := range res.Rows {
		title := fmt.Sprintf("%s at %s", r.Job.Position, r.Job.Company)
		if r.Job.Missing {
			title = "job no longer available"
		}
		fmt.Fprintf(&b, "\n- %s: %s", title, r.Application.Status)
	}
	return textResult(b.String()), res, nil
}

func (t applicationTools) received(ctx context.Context, _ *sdkmcp.CallToolRequest, in ActorParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.agg.Received(ctx, in.Actor)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[received_applications] %s across %s",
		plural(res.Totals.Total, "application"), plural(len(res.Jobs), "job"))
	writeStats(&b, res.Totals)
	for _, j := range res.Jobs {
		fmt.Fprintf(&b, "\n- %s at %s: %d", j.Job.Position, j.Job.Company, j.Stats.Total)
	}
	return textResult(b.String()), res, nil
}

func writeStats(b *strings.Builder, s dashboard.Stats) {
	parts := make([]string, 0, len(domain.Statuses))
	for _, st := range domain.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", st, s.Count(st)))
	}
	fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
}
