// Package schedule runs deferred tasks that can be cancelled before they fire.
package schedule

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the debouncer needs
type Timer interface {
	Stop() bool
}

// AfterFunc starts a timer that runs fn after d
type AfterFunc func(d time.Duration, fn func()) Timer

func stdAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Handle identifies one scheduled task
type Handle struct {
	d   *Debouncer
	seq uint64
}

// Cancel stops the task and reports whether that prevented it from running
func (h Handle) Cancel() bool {
	if h.d == nil {
		return false
	}
	return h.d.cancel(h.seq)
}

// Debouncer keeps at most one pending task: scheduling a new one cancels the
// previous. The zero value is not usable, call NewDebouncer.
type Debouncer struct {
	after AfterFunc

	mu      sync.Mutex
	seq     uint64
	pending Timer
}

// Option configures Debouncer
type Option func(*Debouncer)

// WithAfterFunc replaces time.AfterFunc, mostly for tests
func WithAfterFunc(f AfterFunc) Option {
	return func(d *Debouncer) {
		d.after = f
	}
}

// NewDebouncer builds a Debouncer
func NewDebouncer(opts ...Option) *Debouncer {
	d := &Debouncer{after: stdAfterFunc}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schedule runs fn after delay unless another Schedule or Cancel comes first
func (d *Debouncer) Schedule(delay time.Duration, fn func()) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = d.after(delay, func() {
		d.mu.Lock()
		current := seq == d.seq && d.pending != nil
		if current {
			d.pending = nil
		}
		d.mu.Unlock()

		if current {
			fn()
		}
	})
	return Handle{d: d, seq: seq}
}

// Stop cancels whatever task is pending
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	seq := d.seq
	d.mu.Unlock()
	return d.cancel(seq)
}

// Pending reports whether a task is waiting to fire
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) cancel(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq || d.pending == nil {
		return false
	}
	d.pending.Stop()
	d.pending = nil
	d.seq++
	return true
}
