package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// SpecQuery encodes the active facets of spec as list query parameters
func SpecQuery(spec domain.FilterSpec) url.Values {
	spec = spec.Normalize()
	q := url.Values{}
	if spec.SearchText != "" {
		q.Set("search", spec.SearchText)
	}
	for _, f := range domain.Facets {
		if v := spec.Value(f); v != "" {
			q.Set(string(f), v)
		}
	}
	q.Set("page", strconv.Itoa(spec.Page))
	q.Set("limit", strconv.Itoa(spec.PageSize))
	return q
}

// ListJobs runs a catalog query. Both the bare array and the wrapped
// {jobs, pagination} response shapes are accepted.
func (c *Client) ListJobs(ctx context.Context, spec domain.FilterSpec) (domain.JobListResult, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/api/jobs", SpecQuery(spec), nil)
	if err != nil {
		return domain.JobListResult{}, err
	}
	return DecodeJobList(raw, spec)
}

type wrappedJobList struct {
	Jobs       []domain.Job       `json:"jobs"`
	Data       []domain.Job       `json:"data"`
	Pagination *domain.Pagination `json:"pagination"`
}

// DecodeJobList collapses both list shapes into a JobListResult. For a bare
// array the pagination is derived from spec and the array length.
func DecodeJobList(raw []byte, spec domain.FilterSpec) (domain.JobListResult, error) {
	spec = spec.Normalize()
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var jobs []domain.Job
		if err := json.Unmarshal(trimmed, &jobs); err != nil {
			return domain.JobListResult{}, fmt.Errorf("client: decode job list: %w", err)
		}
		if jobs == nil {
			jobs = []domain.Job{}
		}
		total := (spec.Page-1)*spec.PageSize + len(jobs)
		return domain.JobListResult{Jobs: jobs, Pagination: domain.NewPagination(spec.Page, spec.PageSize, total)}, nil
	}

	var w wrappedJobList
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return domain.JobListResult{}, fmt.Errorf("client: decode job list: %w", err)
	}
	jobs := w.Jobs
	if jobs == nil {
		jobs = w.Data
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	p := domain.NewPagination(spec.Page, spec.PageSize, len(jobs))
	if w.Pagination != nil {
		p = *w.Pagination
		if p.TotalPages == 0 && p.PageSize > 0 {
			p = domain.NewPagination(p.Page, p.PageSize, p.Total)
		}
	}
	return domain.JobListResult{Jobs: jobs, Pagination: p}, nil
}

func (c *Client) GetJob(ctx context.Context, id domain.JobID) (domain.Job, error) {
	var j domain.Job
	err := c.do(ctx, http.MethodGet, "/api/jobs/"+id.String(), nil, nil, &j)
	return j, err
}

func (c *Client) CreateJob(ctx context.Context, in domain.JobInput) (domain.Job, error) {
	var j domain.Job
	err := c.do(ctx, http.MethodPost, "/api/jobs", nil, in, &j)
	return j, err
}

func (c *Client) UpdateJob(ctx context.Context, id domain.JobID, in domain.JobInput) (domain.Job, error) {
	var j domain.Job
	err := c.do(ctx, http.MethodPut, "/api/jobs/"+id.String(), nil, in, &j)
	return j, err
}

func (c *Client) DeleteJob(ctx context.Context, id domain.JobID) error {
	return c.do(ctx, http.MethodDelete, "/api/jobs/"+id.String(), nil, nil, nil)
}

func (c *Client) SaveJob(ctx context.Context, id domain.JobID) error {
	return c.do(ctx, http.MethodPost, "/api/jobs/"+id.String()+"/save", nil, nil, nil)
}

func (c *Client) UnsaveJob(ctx context.Context, id domain.JobID) error {
	return c.do(ctx, http.MethodDelete, "/api/jobs/"+id.String()+"/save", nil, nil, nil)
}

func (c *Client) SavedJobIDs(ctx context.Context) ([]domain.JobID, error) {
	var out struct {
		JobIDs []domain.JobID `json:"jobIds"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/jobs/saved", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.JobIDs, nil
}
