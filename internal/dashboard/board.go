package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// Expansion is the application table of the expanded job
type Expansion struct {
	JobID        domain.JobID         `json:"jobId"`
	Applications []domain.Application `json:"applications"`
	Stats        Stats                `json:"stats"`
}

// PosterBoard is a poster's per-session view over their own jobs. At most
// one job is expanded at a time.
type PosterBoard struct {
	agg   *Aggregator
	actor domain.Actor

	mu       sync.Mutex
	expanded *Expansion
}

// PosterBoard starts a board session for actor
func (a *Aggregator) PosterBoard(actor domain.Actor) *PosterBoard {
	return &PosterBoard{agg: a, actor: actor}
}

// Jobs lists the actor's postings with their application counts
func (b *PosterBoard) Jobs(ctx context.Context) ([]domain.Job, error) {
	return b.agg.jobs.ListJobsByPoster(ctx, b.actor)
}

// Expand toggles jobID: expanding another job collapses the current one,
// expanding the current one collapses it. It returns the new expansion, or
// nil when the board ends up collapsed.
func (b *PosterBoard) Expand(ctx context.Context, jobID domain.JobID) (*Expansion, error) {
	b.mu.Lock()
	if b.expanded != nil && b.expanded.JobID == jobID {
		b.expanded = nil
		b.mu.Unlock()
		return nil, nil
	}
	b.mu.Unlock()

	exp, err := b.load(ctx, jobID)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.expanded = exp
	b.mu.Unlock()
	return cloneExpansion(exp), nil
}

// Expanded returns the current expansion
func (b *PosterBoard) Expanded() (*Expansion, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.expanded == nil {
		return nil, false
	}
	return cloneExpansion(b.expanded), true
}

// Collapse closes the expanded job, if any
func (b *PosterBoard) Collapse() {
	b.mu.Lock()
	b.expanded = nil
	b.mu.Unlock()
}

// Review changes an application's status and refreshes the expansion
func (b *PosterBoard) Review(ctx context.Context, id domain.ApplicationID, status domain.Status, notes string) (domain.Application, error) {
	app, err := b.agg.apps.Review(ctx, b.actor, id, status, notes)
	if err != nil {
		return domain.Application{}, err
	}
	if err := b.refresh(ctx, app.JobID); err != nil {
		return app, err
	}
	return app, nil
}

// Delete removes an application and refreshes the expansion
func (b *PosterBoard) Delete(ctx context.Context, jobID domain.JobID, id domain.ApplicationID) error {
	if err := b.agg.apps.Delete(ctx, b.actor, id); err != nil {
		return err
	}
	return b.refresh(ctx, jobID)
}

func (b *PosterBoard) refresh(ctx context.Context, jobID domain.JobID) error {
	b.mu.Lock()
	current := b.expanded != nil && b.expanded.JobID == jobID
	b.mu.Unlock()
	if !current {
		return nil
	}

	exp, err := b.load(ctx, jobID)
	if err != nil {
		return fmt.Errorf("dashboard: refresh job %s: %w", jobID, err)
	}

	b.mu.Lock()
	if b.expanded != nil && b.expanded.JobID == jobID {
		b.expanded = exp
	}
	b.mu.Unlock()
	return nil
}

func (b *PosterBoard) load(ctx context.Context, jobID domain.JobID) (*Expansion, error) {
	apps, err := b.agg.apps.ListForJob(ctx, b.actor, jobID)
	if err != nil {
		return nil, err
	}
	return &Expansion{JobID: jobID, Applications: apps, Stats: ComputeStats(apps)}, nil
}

func cloneExpansion(e *Expansion) *Expansion {
	out := *e
	out.Applications = append([]domain.Application(nil), e.Applications...)
	return &out
}
