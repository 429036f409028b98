package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
)

// JobFields is the editable part of a posting as tools receive it
type JobFields struct {
	Company      string         `json:"company" jsonschema:"Hiring company"`
	Position     string         `json:"position" jsonschema:"Job title"`
	Location     string         `json:"location" jsonschema:"City or Remote or Hybrid - City"`
	Type         string         `json:"type" jsonschema:"full-time, part-time, contract or internship"`
	Experience   string         `json:"experience,omitempty" jsonschema:"Experience level"`
	Industry     string         `json:"industry,omitempty"`
	Remote       bool           `json:"remote,omitempty"`
	Salary       *domain.Salary `json:"salary,omitempty"`
	Vacancies    *int           `json:"vacancies,omitempty"`
	Requirements []string       `json:"requirements,omitempty"`
	Benefits     []string       `json:"benefits,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Description  string         `json:"description,omitempty"`
	Deadline     string         `json:"application_deadline,omitempty" jsonschema:"RFC 3339 timestamp or YYYY-MM-DD"`
	ApplyURL     string         `json:"apply_url,omitempty"`
}

func (f JobFields) input() (domain.JobInput, error) {
	deadline, err := parseDeadline(f.Deadline)
	if err != nil {
		return domain.JobInput{}, err
	}
	return domain.JobInput{
		Company:      f.Company,
		Position:     f.Position,
		Location:     f.Location,
		Type:         f.Type,
		Experience:   f.Experience,
		Industry:     f.Industry,
		Remote:       f.Remote,
		Salary:       f.Salary,
		Vacancies:    f.Vacancies,
		Requirements: f.Requirements,
		Benefits:     f.Benefits,
		Tags:         f.Tags,
		Description:  f.Description,
		Deadline:     deadline,
		ApplyURL:     f.ApplyURL,
	}, nil
}

// ListJobsParams defines the arguments for the list_jobs tool
type ListJobsParams struct {
	Actor   domain.Actor      `json:"actor" jsonschema:"Caller identity"`
	Filters domain.FilterSpec `json:"filters,omitempty" jsonschema:"Search text, facets and paging; omitted facets match everything"`
}

// CreateJobParams defines the arguments for the create_job tool
type CreateJobParams struct {
	Actor domain.Actor `json:"actor"`
	Job   JobFields    `json:"job"`
}

// UpdateJobParams defines the arguments for the update_job tool
type UpdateJobParams struct {
	Actor domain.Actor `json:"actor"`
	JobID string       `json:"job_id"`
	Job   JobFields    `json:"job"`
}

// JobRefParams addresses one job
type JobRefParams struct {
	Actor domain.Actor `json:"actor"`
	JobID string       `json:"job_id"`
}

// ImportJobsParams defines the arguments for the import_jobs tool
type ImportJobsParams struct {
	Actor    domain.Actor `json:"actor"`
	Query    string       `json:"query" jsonschema:"Keywords sent to external job boards"`
	Location string       `json:"location,omitempty"`
	Remote   *bool        `json:"remote,omitempty" jsonschema:"Restrict to remote postings"`
}

// SavedResult reports the caller's saved set after a change
type SavedResult struct {
	JobID    domain.JobID   `json:"job_id"`
	Saved    bool           `json:"saved"`
	SavedIDs []domain.JobID `json:"saved_job_ids"`
}

type jobTools struct {
	jobs job.Service
}

// WithJobTools registers the catalog tools
func WithJobTools(jobs job.Service) Option {
	return func(reg *registry) {
		if jobs == nil {
			reg.logger.Warn("job service not configured, catalog tools skipped")
			return
		}
		t := jobTools{jobs: jobs}
		add(reg, "list_jobs", "Search the tenant's job catalog with facet filters and pagination", t.list)
		add(reg, "create_job", "Post a new job as the calling user", t.create)
		add(reg, "update_job", "Edit a job; only its poster or an admin may do so", t.update)
		add(reg, "delete_job", "Delete a job together with its applications", t.delete)
		add(reg, "save_job", "Add a job to the caller's saved jobs", t.save)
		add(reg, "unsave_job", "Remove a job from the caller's saved jobs", t.unsave)
		add(reg, "import_jobs", "Import listings from external job boards into the catalog", t.importJobs)
	}
}

func (t jobTools) list(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListJobsParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.jobs.ListJobs(ctx, in.Actor, in.Filters)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[list_jobs] page %d of %d, %s in total",
		res.Pagination.Page, res.Pagination.TotalPages, plural(res.Pagination.Total, "job"))
	for _, j := range res.Jobs {
		fmt.Fprintf(&b, "\n- %s at %s (%s) id=%s", j.Position, j.Company, j.Location, j.ID)
	}
	return textResult(b.String()), res, nil
}

func (t jobTools) create(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateJobParams) (*sdkmcp.CallToolResult, any, error) {
	input, err := in.Job.input()
	if err != nil {
		return nil, nil, err
	}
	j, err := t.jobs.CreateJob(ctx, in.Actor, input)
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("[create_job] posted %s at %s id=%s", j.Position, j.Company, j.ID)), j, nil
}

func (t jobTools) update(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateJobParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseID("job_id", in.JobID)
	if err != nil {
		return nil, nil, err
	}
	input, err := in.Job.input()
	if err != nil {
		return nil, nil, err
	}
	j, err := t.jobs.UpdateJob(ctx, in.Actor, id, input)
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("[update_job] updated %s at %s", j.Position, j.Company)), j, nil
}

func (t jobTools) delete(ctx context.Context, _ *sdkmcp.CallToolRequest, in JobRefParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseID("job_id", in.JobID)
	if err != nil {
		return nil, nil, err
	}
	if err := t.jobs.DeleteJob(ctx, in.Actor, id); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("[delete_job] deleted %s", id)), map[string]any{"job_id": id, "deleted": true}, nil
}

func (t jobTools) save(ctx context.Context, _ *sdkmcp.CallToolRequest, in JobRefParams) (*sdkmcp.CallToolResult, any, error) {
	return t.toggle(ctx, in, true)
}

func (t jobTools) unsave(ctx context.Context, _ *sdkmcp.CallToolRequest, in JobRefParams) (*sdkmcp.CallToolResult, any, error) {
	return t.toggle(ctx, in, false)
}

func (t jobTools) toggle(ctx context.Context, in JobRefParams, saved bool) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseID("job_id", in.JobID)
	if err != nil {
		return nil, nil, err
	}

	verb := "saved"
	if saved {
		err = t.jobs.SaveJob(ctx, in.Actor, id)
	} else {
		verb = "unsaved"
		err = t.jobs.UnsaveJob(ctx, in.Actor, id)
	}
	if err != nil {
		return nil, nil, err
	}

	ids, err := t.jobs.SavedJobIDs(ctx, in.Actor)
	if err != nil {
		return nil, nil, err
	}
	out := SavedResult{JobID: id, Saved: saved, SavedIDs: ids}
	return textResult(fmt.Sprintf("[%s_job] %s %s; %s saved", strings.TrimSuffix(verb, "d"), verb, id, plural(len(ids), "job"))), out, nil
}

func (t jobTools) importJobs(ctx context.Context, _ *sdkmcp.CallToolRequest, in ImportJobsParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.jobs.ImportJobs(ctx, in.Actor, job.ImportQuery{Query: in.Query, Location: in.Location, Remote: in.Remote})
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[import_jobs] imported %s from %s, skipped %d",
		plural(len(res.Imported), "job"), plural(res.SourceCount, "source"), res.Skipped)
	for _, j := range res.Imported {
		fmt.Fprintf(&b, "\n- %s at %s id=%s", j.Position, j.Company, j.ID)
	}
	return textResult(b.String()), res, nil
}
