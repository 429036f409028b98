// Package membership keeps the user's saved and applied job sets close at
// hand and reconciles them with the server over an unreliable network.
package membership

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// DefaultHydrateLimit bounds the applied-jobs fetch
const DefaultHydrateLimit = 500

// Remote is the server side of the membership sets
type Remote interface {
	ListAppliedJobIDs(ctx context.Context, limit int) ([]domain.JobID, error)
	SaveJob(ctx context.Context, id domain.JobID) error
	UnsaveJob(ctx context.Context, id domain.JobID) error
}

// SyncObserver is told about every server call the reconciler makes
type SyncObserver interface {
	MembershipSync(op string, ok bool)
}

// ToggleResult describes a saved-job toggle
type ToggleResult struct {
	JobID domain.JobID `json:"jobId"`
	Saved bool         `json:"saved"`
	// LocalOnly is set when the server did not confirm the change
	LocalOnly bool `json:"localOnly"`
}

// Option configures Reconciler
type Option func(*Reconciler)

// WithRemote sets the server collaborator; without one every toggle is local-only
func WithRemote(r Remote) Option {
	return func(rc *Reconciler) {
		rc.remote = r
	}
}

// WithHydrateLimit sets the applied-jobs fetch bound
func WithHydrateLimit(n int) Option {
	return func(rc *Reconciler) {
		if n > 0 {
			rc.hydrateLimit = n
		}
	}
}

// WithObserver sets the sync observer
func WithObserver(o SyncObserver) Option {
	return func(rc *Reconciler) {
		rc.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(rc *Reconciler) {
		rc.logger = l
	}
}

// Reconciler owns the two membership sets of one user
type Reconciler struct {
	port         Port
	remote       Remote
	observer     SyncObserver
	logger       *logging.Logger
	hydrateLimit int

	// persistMu orders port writes so they land in mutation order
	persistMu sync.Mutex
	mu        sync.Mutex
	saved     map[domain.JobID]struct{}
	applied   map[domain.JobID]struct{}
}

// New loads both sets from port
func New(port Port, opts ...Option) (*Reconciler, error) {
	if port == nil {
		return nil, fmt.Errorf("membership: port is required")
	}

	rc := &Reconciler{
		port:         port,
		hydrateLimit: DefaultHydrateLimit,
	}
	for _, opt := range opts {
		opt(rc)
	}
	rc.logger = logging.OrNop(rc.logger).Named("membership")

	saved, err := rc.load(KeySaved)
	if err != nil {
		return nil, err
	}
	applied, err := rc.load(KeyApplied)
	if err != nil {
		return nil, err
	}
	rc.saved = saved
	rc.applied = applied
	return rc, nil
}

func (rc *Reconciler) load(key string) (map[domain.JobID]struct{}, error) {
	raw, err := rc.port.Get(key)
	if err != nil {
		return nil, fmt.Errorf("membership: load %s: %w", key, err)
	}

	set := make(map[domain.JobID]struct{}, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			rc.logger.Warn("skipping malformed job id", "key", key, "value", s)
			continue
		}
		set[id] = struct{}{}
	}
	return set, nil
}

// HydrateApplied replaces the applied set with the server's view. On failure
// the last known set is kept.
func (rc *Reconciler) HydrateApplied(ctx context.Context) error {
	if rc.remote == nil {
		return fmt.Errorf("membership: hydrate applied: %w: no remote configured", domain.ErrNetwork)
	}

	ids, err := rc.remote.ListAppliedJobIDs(ctx, rc.hydrateLimit)
	rc.observe("hydrate_applied", err == nil)
	if err != nil {
		rc.logger.Warn("hydrate applied failed, keeping cached set", "err", err)
		return fmt.Errorf("membership: hydrate applied: %w", err)
	}

	set := make(map[domain.JobID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	rc.update(KeyApplied, func() {
		rc.applied = set
	})
	return nil
}

// ToggleSaved flips the saved flag locally, then tells the server. A server
// failure leaves the local change in place and marks the result LocalOnly.
func (rc *Reconciler) ToggleSaved(ctx context.Context, id domain.JobID) (ToggleResult, error) {
	var was bool
	rc.update(KeySaved, func() {
		_, was = rc.saved[id]
		if was {
			delete(rc.saved, id)
		} else {
			rc.saved[id] = struct{}{}
		}
	})

	res := ToggleResult{JobID: id, Saved: !was}
	if rc.remote == nil {
		res.LocalOnly = true
		return res, nil
	}

	var err error
	op := "save"
	if was {
		op = "unsave"
		err = rc.remote.UnsaveJob(ctx, id)
	} else {
		err = rc.remote.SaveJob(ctx, id)
	}
	rc.observe(op, err == nil)

	if err != nil {
		res.LocalOnly = true
		rc.logger.Warn("saved job toggle not confirmed by server, kept locally",
			"job_id", id,
			"saved", res.Saved,
			"err", err,
		)
	}
	return res, nil
}

// MarkApplied records a successful submission
func (rc *Reconciler) MarkApplied(id domain.JobID) {
	rc.persistMu.Lock()
	defer rc.persistMu.Unlock()

	rc.mu.Lock()
	rc.applied[id] = struct{}{}
	rc.mu.Unlock()

	if err := rc.port.Merge(KeyApplied, []string{id.String()}); err != nil {
		rc.logger.Warn("persist applied failed", "job_id", id, "err", err)
	}
}

// ForgetApplied records a withdrawal
func (rc *Reconciler) ForgetApplied(id domain.JobID) {
	rc.update(KeyApplied, func() {
		delete(rc.applied, id)
	})
}

func (rc *Reconciler) IsSaved(id domain.JobID) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	_, ok := rc.saved[id]
	return ok
}

func (rc *Reconciler) IsApplied(id domain.JobID) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	_, ok := rc.applied[id]
	return ok
}

// Saved returns the saved set in a stable order
func (rc *Reconciler) Saved() []domain.JobID {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return idsOf(rc.saved)
}

// Applied returns the applied set in a stable order
func (rc *Reconciler) Applied() []domain.JobID {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return idsOf(rc.applied)
}

// update applies mutate under the set lock and writes the resulting set to
// the port before the next update can start
func (rc *Reconciler) update(key string, mutate func()) {
	rc.persistMu.Lock()
	defer rc.persistMu.Unlock()

	rc.mu.Lock()
	mutate()
	set := rc.saved
	if key == KeyApplied {
		set = rc.applied
	}
	snapshot := sortedIDs(set)
	rc.mu.Unlock()

	if err := rc.port.Set(key, snapshot); err != nil {
		rc.logger.Warn("persist membership failed", "key", key, "err", err)
	}
}

func (rc *Reconciler) observe(op string, ok bool) {
	if rc.observer != nil {
		rc.observer.MembershipSync(op, ok)
	}
}

func idsOf(set map[domain.JobID]struct{}) []domain.JobID {
	out := make([]domain.JobID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b domain.JobID) int {
		return slices.Compare(a[:], b[:])
	})
	return out
}

func sortedIDs(set map[domain.JobID]struct{}) []string {
	ids := idsOf(set)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
