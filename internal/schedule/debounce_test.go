package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: fn, delay: d}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every timer that was not stopped, as the runtime would
func (c *manualClock) fire() {
	c.mu.Lock()
	timers := append([]*manualTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func TestDebouncer_OnlyLatestFires(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	d := NewDebouncer(WithAfterFunc(clock.AfterFunc))

	var got []string
	d.Schedule(500*time.Millisecond, func() { got = append(got, "r") })
	d.Schedule(500*time.Millisecond, func() { got = append(got, "re") })
	d.Schedule(500*time.Millisecond, func() { got = append(got, "react") })
	require.True(t, d.Pending())

	clock.fire()
	assert.Equal(t, []string{"react"}, got)
	assert.False(t, d.Pending())
	assert.Equal(t, 500*time.Millisecond, clock.timers[2].delay)
}

func TestDebouncer_StaleCallbackIgnored(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	d := NewDebouncer(WithAfterFunc(clock.AfterFunc))

	fired := 0
	d.Schedule(time.Second, func() { fired++ })
	stale := clock.timers[0]
	d.Schedule(time.Second, func() { fired += 10 })

	// a timer that raced past Stop still must not run its task
	stale.fn()
	assert.Equal(t, 0, fired)

	clock.fire()
	assert.Equal(t, 10, fired)
}

func TestHandle_Cancel(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	d := NewDebouncer(WithAfterFunc(clock.AfterFunc))

	ran := false
	h := d.Schedule(time.Second, func() { ran = true })
	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel())

	clock.fire()
	assert.False(t, ran)

	h = d.Schedule(time.Second, func() {})
	clock.fire()
	assert.False(t, h.Cancel(), "already ran")

	old := d.Schedule(time.Second, func() {})
	d.Schedule(time.Second, func() {})
	assert.False(t, old.Cancel(), "superseded handles are inert")
	assert.True(t, d.Stop())

	assert.False(t, Handle{}.Cancel())
}

func TestDebouncer_RealTimer(t *testing.T) {
	t.Parallel()

	d := NewDebouncer()
	done := make(chan struct{})
	d.Schedule(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task did not run")
	}
}
