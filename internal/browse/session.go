// Package browse holds the client-side state of a catalog listing: the
// active filters, the current page and the last page the server returned.
package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/internal/governor"
	"github.com/honeycarbs/alumni-jobs/internal/schedule"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// DefaultDebounce delays search-text queries while the user is typing
const DefaultDebounce = 500 * time.Millisecond

// Catalog is the server-side list query
type Catalog interface {
	ListJobs(ctx context.Context, spec domain.FilterSpec) (domain.JobListResult, error)
}

// View is what the listing screen renders
type View struct {
	Spec       domain.FilterSpec `json:"filters"`
	Jobs       []domain.Job      `json:"jobs"`
	Pagination domain.Pagination `json:"pagination"`
	// Loading is set while a query is outstanding
	Loading bool `json:"loading"`
	// Stale is set when Jobs come from an older query re-filtered locally
	Stale bool  `json:"stale"`
	Err   error `json:"-"`
}

// Option configures Session
type Option func(*Session)

// WithGovernor sets the request governor; by default each session owns one
func WithGovernor(g *governor.Governor) Option {
	return func(s *Session) {
		s.gov = g
	}
}

// WithDebouncer sets the debouncer used for search text
func WithDebouncer(d *schedule.Debouncer) Option {
	return func(s *Session) {
		s.debouncer = d
	}
}

// WithDebounce sets the search-text delay
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithInitialSpec sets the filters the session starts with
func WithInitialSpec(spec domain.FilterSpec) Option {
	return func(s *Session) {
		s.spec = spec.Normalize()
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// Session is safe for concurrent use
type Session struct {
	catalog   Catalog
	gov       *governor.Governor
	debouncer *schedule.Debouncer
	delay     time.Duration
	logger    *logging.Logger

	mu      sync.Mutex
	spec    domain.FilterSpec
	result  domain.JobListResult
	fetched domain.FilterSpec // spec that produced result
	has     bool
	seq     uint64
	loading bool
	lastErr error
}

// New builds a Session over catalog
func New(catalog Catalog, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, fmt.Errorf("browse: catalog is required")
	}

	s := &Session{
		catalog: catalog,
		delay:   DefaultDebounce,
		spec:    domain.FilterSpec{}.Normalize(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gov == nil {
		s.gov = governor.New()
	}
	if s.debouncer == nil {
		s.debouncer = schedule.NewDebouncer()
	}
	s.logger = logging.OrNop(s.logger).Named("browse")
	return s, nil
}

// Spec returns the active filters
func (s *Session) Spec() domain.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Refresh re-runs the current query
func (s *Session) Refresh(ctx context.Context) error {
	return s.query(ctx)
}

// SetFacet changes one facet, resets to page 1 and queries
func (s *Session) SetFacet(ctx context.Context, facet domain.Facet, value string) error {
	next := s.Spec().WithFacet(facet, value)
	if err := next.Validate(); err != nil {
		return err
	}
	return s.apply(ctx, next)
}

// SetFilters replaces every facet at once, keeping the search text
func (s *Session) SetFilters(ctx context.Context, spec domain.FilterSpec) error {
	cur := s.Spec()
	spec.SearchText = cur.SearchText
	spec.PageSize = cur.PageSize
	spec.Page = 1
	if err := spec.Validate(); err != nil {
		return err
	}
	return s.apply(ctx, spec)
}

// ClearFilters drops every facet and the search text
func (s *Session) ClearFilters(ctx context.Context) error {
	s.debouncer.Stop()
	return s.apply(ctx, s.Spec().Cleared())
}

// SetPage moves to another page of the same result set
func (s *Session) SetPage(ctx context.Context, page int) error {
	return s.apply(ctx, s.Spec().WithPage(page))
}

// SetPageSize changes the page size and resets to page 1
func (s *Session) SetPageSize(ctx context.Context, size int) error {
	return s.apply(ctx, s.Spec().WithPageSize(size))
}

// SetSearchText updates the search text right away so View re-filters, and
// schedules the server query after the debounce delay. Only the last call
// within the delay reaches the server.
func (s *Session) SetSearchText(ctx context.Context, text string) schedule.Handle {
	s.mu.Lock()
	s.spec = s.spec.WithSearchText(text).Normalize()
	s.mu.Unlock()

	return s.debouncer.Schedule(s.delay, func() {
		if err := s.query(ctx); err != nil {
			s.logger.Debug("debounced search failed", "err", err)
		}
	})
}

// Retry clears an expired rate-limit block and re-runs the current query
func (s *Session) Retry(ctx context.Context) error {
	if err := s.gov.Retry(); err != nil {
		s.setErr(err)
		return err
	}
	return s.query(ctx)
}

// LastError is the error of the latest failed query, nil after a success
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// View returns the last good page. When it was fetched for other filters it
// is re-filtered under the current ones.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Spec:       s.spec,
		Jobs:       []domain.Job{},
		Pagination: s.result.Pagination,
		Loading:    s.loading,
		Err:        s.lastErr,
	}
	if !s.has {
		return v
	}
	if s.fetched == s.spec {
		v.Jobs = append(v.Jobs, s.result.Jobs...)
		return v
	}
	v.Jobs = append(v.Jobs, job.Refilter(s.result.Jobs, s.spec)...)
	v.Stale = true
	return v
}

// Close cancels any pending debounced query
func (s *Session) Close() {
	s.debouncer.Stop()
}

func (s *Session) apply(ctx context.Context, spec domain.FilterSpec) error {
	s.mu.Lock()
	s.spec = spec.Normalize()
	s.mu.Unlock()
	return s.query(ctx)
}

// query issues the current spec through the governor. A response that is not
// for the latest issued query is discarded and the latest one is re-issued
// once the slot is free.
func (s *Session) query(ctx context.Context) error {
	for {
		s.mu.Lock()
		s.seq++
		id := s.seq
		spec := s.spec
		s.loading = true
		s.mu.Unlock()

		err := s.gov.Do(ctx, func(ctx context.Context) error {
			res, err := s.catalog.ListJobs(ctx, spec)
			if err != nil {
				return err
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			if id != s.seq {
				return nil
			}
			if res.Jobs == nil {
				res.Jobs = []domain.Job{}
			}
			s.result = res
			s.fetched = spec
			s.has = true
			s.lastErr = nil
			return nil
		})

		if errors.Is(err, governor.ErrDropped) {
			// the outstanding call re-issues the latest spec when it lands
			return nil
		}

		s.mu.Lock()
		superseded := id != s.seq
		if !superseded {
			s.loading = false
		}
		s.mu.Unlock()

		switch {
		case superseded:
			continue
		case err != nil:
			s.setErr(err)
			s.logger.Warn("list jobs failed, keeping last page", "err", err)
			return err
		default:
			return nil
		}
	}
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
