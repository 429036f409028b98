package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// Sort orders for the candidate view
const (
	SortApplied = "applied"
	SortStatus  = "status"
	SortCompany = "company"
)

// CandidateQuery narrows the candidate's own applications
type CandidateQuery struct {
	Search string        `json:"search,omitempty"`
	Status domain.Status `json:"status,omitempty"`
	SortBy string        `json:"sortBy,omitempty"`
}

// JobSnapshot is the slice of a job shown next to an application
type JobSnapshot struct {
	ID       domain.JobID  `json:"id"`
	Position string        `json:"position"`
	Company  string        `json:"company"`
	Location string        `json:"location"`
	PostedBy domain.Poster `json:"postedBy"`
	// Missing is set when the job could not be loaded
	Missing bool `json:"missing,omitempty"`
}

// CandidateRow is one application with its job
type CandidateRow struct {
	Application domain.Application `json:"application"`
	Job         JobSnapshot        `json:"job"`
}

// CandidateResult is the candidate dashboard
type CandidateResult struct {
	Rows   []CandidateRow `json:"rows"`
	Counts Stats          `json:"counts"`
}

// Aggregator joins catalog and lifecycle data into dashboard projections
type Aggregator struct {
	jobs   job.Service
	apps   application.Service
	logger *logging.Logger
}

// NewAggregator builds an Aggregator
func NewAggregator(jobs job.Service, apps application.Service, logger *logging.Logger) (*Aggregator, error) {
	if jobs == nil || apps == nil {
		return nil, fmt.Errorf("dashboard: job and application services are required")
	}
	return &Aggregator{jobs: jobs, apps: apps, logger: logging.OrNop(logger).Named("dashboard")}, nil
}

// CandidateView lists the actor's applications. Counts cover every
// application, before search and status filters apply.
func (a *Aggregator) CandidateView(ctx context.Context, actor domain.Actor, q CandidateQuery) (CandidateResult, error) {
	apps, err := a.apps.ListForCandidate(ctx, actor, actor.UserID, application.DefaultCandidateLimit)
	if err != nil {
		return CandidateResult{}, err
	}

	snapshots := make(map[domain.JobID]JobSnapshot)
	rows := make([]CandidateRow, 0, len(apps))
	for _, app := range apps {
		snap, ok := snapshots[app.JobID]
		if !ok {
			snap, err = a.snapshot(ctx, actor, app.JobID)
			if err != nil {
				return CandidateResult{}, err
			}
			snapshots[app.JobID] = snap
		}
		rows = append(rows, CandidateRow{Application: app, Job: snap})
	}

	res := CandidateResult{Counts: ComputeStats(apps)}
	res.Rows = lo.Filter(rows, func(r CandidateRow, _ int) bool {
		return matchesCandidateQuery(r, q)
	})
	sortRows(res.Rows, q.SortBy)
	return res, nil
}

func (a *Aggregator) snapshot(ctx context.Context, actor domain.Actor, id domain.JobID) (JobSnapshot, error) {
	j, err := a.jobs.GetJob(ctx, actor, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.logger.Debug("job missing for application", "job_id", id)
		return JobSnapshot{ID: id, Missing: true}, nil
	case err != nil:
		return JobSnapshot{}, err
	}
	return JobSnapshot{
		ID:       j.ID,
		Position: j.Position,
		Company:  j.Company,
		Location: j.Location,
		PostedBy: j.PostedBy,
	}, nil
}

func matchesCandidateQuery(r CandidateRow, q CandidateQuery) bool {
	if q.Status != "" && r.Application.Status != q.Status {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(q.Search))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Job.Position), text) ||
		strings.Contains(strings.ToLower(r.Job.Company), text)
}

func statusRank(s domain.Status) int {
	return slices.Index(domain.Statuses, s)
}

func sortRows(rows []CandidateRow, by string) {
	newest := func(a, b CandidateRow) int {
		return b.Application.AppliedAt.Compare(a.Application.AppliedAt)
	}
	switch by {
	case SortStatus:
		slices.SortStableFunc(rows, func(a, b CandidateRow) int {
			if d := statusRank(a.Application.Status) - statusRank(b.Application.Status); d != 0 {
				return d
			}
			return newest(a, b)
		})
	case SortCompany:
		slices.SortStableFunc(rows, func(a, b CandidateRow) int {
			if c := strings.Compare(strings.ToLower(a.Job.Company), strings.ToLower(b.Job.Company)); c != 0 {
				return c
			}
			return newest(a, b)
		})
	default:
		slices.SortStableFunc(rows, newest)
	}
}
