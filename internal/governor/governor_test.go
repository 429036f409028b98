package governor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type outcomes map[string]int

func (o outcomes) GovernorOutcome(outcome string) { o[outcome]++ }

func newTestGovernor() (*Governor, *fakeClock, outcomes) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	obs := outcomes{}
	return New(WithClock(clock.Now), WithObserver(obs)), clock, obs
}

func ok(context.Context) error { return nil }

func TestDo_DropsWhileInFlight(t *testing.T) {
	t.Parallel()

	g, _, obs := newTestGovernor()
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- g.Do(ctx, func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	require.True(t, g.InFlight())
	require.ErrorIs(t, g.Do(ctx, ok), ErrDropped)

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, g.Do(ctx, ok))

	assert.Equal(t, 1, obs[OutcomeDropped])
	assert.Equal(t, 2, obs[OutcomeOK])
}

func TestDo_RateLimitCooldown(t *testing.T) {
	t.Parallel()

	g, clock, obs := newTestGovernor()
	ctx := context.Background()

	err := g.Do(ctx, func(context.Context) error {
		return fmt.Errorf("list jobs: %w", domain.ErrRateLimited)
	})
	var rl *domain.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, DefaultCooldown, rl.RetryAfter)
	assert.True(t, g.Blocked())

	// calls inside the window fail fast without invoking fn
	clock.now = clock.now.Add(29 * time.Second)
	called := false
	err = g.Do(ctx, func(context.Context) error { called = true; return nil })
	require.ErrorIs(t, err, domain.ErrRateLimited)
	assert.False(t, called)
	assert.Equal(t, time.Second, g.RetryAfter())
	require.ErrorIs(t, g.Retry(), domain.ErrRateLimited)

	clock.now = clock.now.Add(time.Second)
	require.NoError(t, g.Retry())
	assert.False(t, g.Blocked())
	require.NoError(t, g.Do(ctx, ok))

	assert.Equal(t, 1, obs[OutcomeRateLimited])
	assert.Equal(t, 1, obs[OutcomeBlocked])
}

func TestDo_BlockClearsAutomatically(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	g := New(WithClock(clock.Now), WithCooldown(5*time.Second))

	_ = g.Do(context.Background(), func(context.Context) error { return domain.ErrRateLimited })
	clock.now = clock.now.Add(5 * time.Second)
	require.NoError(t, g.Do(context.Background(), ok))
}

func TestDo_RetryCounter(t *testing.T) {
	t.Parallel()

	g, _, _ := newTestGovernor()
	ctx := context.Background()
	boom := errors.New("connection reset")

	require.ErrorIs(t, g.Do(ctx, func(context.Context) error { return boom }), boom)
	require.ErrorIs(t, g.Do(ctx, func(context.Context) error { return boom }), boom)
	assert.Equal(t, 2, g.Retries())

	require.NoError(t, g.Do(ctx, ok))
	assert.Equal(t, 0, g.Retries())
}
