package budget

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teranos/chartparse/errors"
)

// Limiter caps how many operations may start per window, using a sliding
// window over start times.
type Limiter struct {
	max       int
	window    time.Duration
	mu        sync.Mutex
	starts    []time.Time
	timeNow   func() time.Time // Injectable for testing
	retryWait time.Duration
}

// NewLimiter allows maxPerMinute starts in any 60 second window.
// maxPerMinute <= 0 disables limiting.
func NewLimiter(maxPerMinute int) *Limiter {
	return NewLimiterWithClock(maxPerMinute, time.Minute, time.Now)
}

// NewLimiterWithClock creates a limiter with an explicit window and clock.
func NewLimiterWithClock(max int, window time.Duration, timeNow func() time.Time) *Limiter {
	capacity := max
	if capacity < 0 {
		capacity = 0
	}
	return &Limiter{
		max:       max,
		window:    window,
		starts:    make([]time.Time, 0, capacity),
		timeNow:   timeNow,
		retryWait: 100 * time.Millisecond,
	}
}

// Allow records a start, or returns ErrBudgetExhausted when the window is
// full.
func (r *Limiter) Allow() error {
	if r.max <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeNow()
	r.removeExpired(now)

	if len(r.starts) >= r.max {
		retry := r.starts[0].Add(r.window).Sub(now)
		err := errors.Wrapf(errors.ErrBudgetExhausted, "%d parses per %s", r.max, r.window)
		err = errors.WithDetail(err, fmt.Sprintf("Starts in window: %d", len(r.starts)))
		err = errors.WithHint(err, fmt.Sprintf("Retry in %s", retry.Round(time.Millisecond)))
		return err
	}

	r.starts = append(r.starts, now)
	return nil
}

// Wait blocks until Allow succeeds or ctx is done.
func (r *Limiter) Wait(ctx context.Context) error {
	for {
		if err := r.Allow(); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.retryWait):
		}
	}
}

// removeExpired drops starts that left the window. Caller holds mu.
func (r *Limiter) removeExpired(now time.Time) {
	cutoff := now.Add(-r.window)

	expired := 0
	for _, t := range r.starts {
		if t.After(cutoff) {
			break
		}
		expired++
	}
	r.starts = r.starts[expired:]
}

// Reset forgets every recorded start.
func (r *Limiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.starts = r.starts[:0]
}

// Stats reports the starts inside the window and the remaining capacity.
// An unlimited limiter reports -1 remaining.
func (r *Limiter) Stats() (inWindow int, remaining int) {
	if r.max <= 0 {
		return 0, -1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeExpired(r.timeNow())

	inWindow = len(r.starts)
	remaining = r.max - inWindow
	if remaining < 0 {
		remaining = 0
	}
	return inWindow, remaining
}
