package dashboard

import (
	"context"

	"github.com/samber/lo"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
)

// ReceivedJob summarises the applications one posting collected
type ReceivedJob struct {
	Job          domain.Job           `json:"job"`
	Applications []domain.Application `json:"applications"`
	Stats        Stats                `json:"stats"`
}

// ReceivedResult is the poster's inbox across all their jobs
type ReceivedResult struct {
	Jobs   []ReceivedJob `json:"jobs"`
	Totals Stats         `json:"totals"`
}

// Received groups the applications sent to jobs the actor posted
func (a *Aggregator) Received(ctx context.Context, actor domain.Actor) (ReceivedResult, error) {
	received, err := a.apps.ListReceived(ctx, actor)
	if err != nil {
		return ReceivedResult{}, err
	}

	jobs := lo.Map(received, func(r application.Received, _ int) ReceivedJob {
		return ReceivedJob{Job: r.Job, Applications: r.Applications, Stats: ComputeStats(r.Applications)}
	})
	all := lo.FlatMap(received, func(r application.Received, _ int) []domain.Application {
		return r.Applications
	})
	return ReceivedResult{Jobs: jobs, Totals: ComputeStats(all)}, nil
}
