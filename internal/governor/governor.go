// Package governor throttles catalog list calls: one call in flight at a
// time, and a fixed cooldown after the server answers 429.
package governor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// DefaultCooldown is how long calls fail fast after a 429
const DefaultCooldown = 30 * time.Second

// ErrDropped is returned when a call arrives while another is in flight.
// Dropped calls are never queued.
var ErrDropped = errors.New("governor: call dropped, another request is in flight")

// Outcome labels reported to the observer
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeDropped     = "dropped"
	OutcomeRateLimited = "rate_limited"
	OutcomeBlocked     = "blocked"
)

// Observer receives one outcome per Do call
type Observer interface {
	GovernorOutcome(outcome string)
}

// Option configures Governor
type Option func(*Governor)

// WithCooldown sets the block window after a rate-limit response
func WithCooldown(d time.Duration) Option {
	return func(g *Governor) {
		if d > 0 {
			g.cooldown = d
		}
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(g *Governor) {
		g.clock = clock
	}
}

// WithObserver sets the outcome observer
func WithObserver(o Observer) Option {
	return func(g *Governor) {
		g.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(g *Governor) {
		g.logger = l
	}
}

// Governor is safe for concurrent use
type Governor struct {
	cooldown time.Duration
	clock    func() time.Time
	observer Observer
	logger   *logging.Logger

	mu           sync.Mutex
	inFlight     bool
	blockedUntil time.Time
	retries      int
}

// New builds a Governor
func New(opts ...Option) *Governor {
	g := &Governor{
		cooldown: DefaultCooldown,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrNop(g.logger).Named("governor")
	return g
}

// Do runs fn unless a call is already in flight or the cooldown is active
func (g *Governor) Do(ctx context.Context, fn func(context.Context) error) error {
	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		g.observe(OutcomeDropped)
		return ErrDropped
	}
	if wait := g.remainingLocked(); wait > 0 {
		g.mu.Unlock()
		g.observe(OutcomeBlocked)
		return &domain.RateLimitError{RetryAfter: wait}
	}
	g.inFlight = true
	g.mu.Unlock()

	err := fn(ctx)

	g.mu.Lock()
	g.inFlight = false
	outcome := OutcomeOK
	switch {
	case err == nil:
		g.retries = 0
	case errors.Is(err, domain.ErrRateLimited):
		g.retries++
		g.blockedUntil = g.clock().Add(g.cooldown)
		outcome = OutcomeRateLimited
		err = &domain.RateLimitError{RetryAfter: g.cooldown}
	default:
		g.retries++
		outcome = OutcomeError
	}
	retries := g.retries
	g.mu.Unlock()

	g.observe(outcome)
	if outcome == OutcomeRateLimited {
		g.logger.Warn("rate limited, blocking calls", "cooldown", g.cooldown, "retries", retries)
	}
	return err
}

// Retry clears an expired block. Inside the window it reports the time left.
func (g *Governor) Retry() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if wait := g.remainingLocked(); wait > 0 {
		return &domain.RateLimitError{RetryAfter: wait}
	}
	g.blockedUntil = time.Time{}
	return nil
}

// Blocked reports whether calls currently fail fast
func (g *Governor) Blocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked() > 0
}

// RetryAfter is the time left in the current cooldown, zero when unblocked
func (g *Governor) RetryAfter() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked()
}

// Retries is the number of consecutive failed calls
func (g *Governor) Retries() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.retries
}

// InFlight reports whether a call is outstanding
func (g *Governor) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

func (g *Governor) remainingLocked() time.Duration {
	if g.blockedUntil.IsZero() {
		return 0
	}
	wait := g.blockedUntil.Sub(g.clock())
	if wait <= 0 {
		g.blockedUntil = time.Time{}
		return 0
	}
	return wait
}

func (g *Governor) observe(outcome string) {
	if g.observer != nil {
		g.observer.GovernorOutcome(outcome)
	}
}
