// Package budget bounds work.
//
// A Token is polled cooperatively by long-running loops such as the chart
// parser's fixpoint iteration; once it reports Stop the loop winds down and
// keeps what it has. A Limiter caps how often an operation may start.
package budget

import (
	"context"
	"sync/atomic"
	"time"
)

// Token tells a loop whether to stop. Stop is polled once per unit of work.
type Token interface {
	Stop() bool
}

type never struct{}

func (never) Stop() bool { return false }

// Never is a token that never stops.
func Never() Token {
	return never{}
}

type steps struct {
	max   int64
	polls atomic.Int64
}

// Steps allows n polls and stops on the next one. n <= 0 means unlimited.
func Steps(n int) Token {
	if n <= 0 {
		return never{}
	}
	return &steps{max: int64(n)}
}

func (s *steps) Stop() bool {
	return s.polls.Add(1) > s.max
}

type deadline struct {
	at      time.Time
	timeNow func() time.Time
}

// Deadline stops once d has elapsed. d <= 0 means unlimited.
func Deadline(d time.Duration) Token {
	return DeadlineWithClock(d, time.Now)
}

// DeadlineWithClock is Deadline with an injectable clock.
func DeadlineWithClock(d time.Duration, timeNow func() time.Time) Token {
	if d <= 0 {
		return never{}
	}
	return &deadline{at: timeNow().Add(d), timeNow: timeNow}
}

func (d *deadline) Stop() bool {
	return !d.timeNow().Before(d.at)
}

type ctxToken struct {
	ctx context.Context
}

// Context stops once ctx is done.
func Context(ctx context.Context) Token {
	return ctxToken{ctx: ctx}
}

func (c ctxToken) Stop() bool {
	return c.ctx.Err() != nil
}

type anyToken []Token

// Any stops as soon as one of tokens stops. Every token is polled each time
// so step counters stay in sync.
func Any(tokens ...Token) Token {
	var live anyToken
	for _, t := range tokens {
		if t != nil {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return never{}
	}
	if len(live) == 1 {
		return live[0]
	}
	return live
}

func (a anyToken) Stop() bool {
	stop := false
	for _, t := range a {
		if t.Stop() {
			stop = true
		}
	}
	return stop
}
