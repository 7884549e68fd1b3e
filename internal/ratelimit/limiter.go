// Package ratelimit tracks outbound search-API usage against sliding
// per-minute, per-hour, and per-day quotas.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Window boundaries.
const (
	windowMinute = time.Minute
	windowHour   = time.Hour
	windowDay    = 24 * time.Hour
)

// Limits holds the per-window ceilings. Zero or negative means unlimited
// for that window.
type Limits struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

// DefaultLimits are conservative defaults for free-tier search APIs.
func DefaultLimits() Limits {
	return Limits{
		PerMinute: 10,
		PerHour:   100,
		PerDay:    500,
	}
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed    bool
	Reason     string
	RetryAfter time.Duration // time until the violated window frees a slot
}

// WindowCounts reports current usage per trailing window.
type WindowCounts struct {
	LastMinute int
	LastHour   int
	LastDay    int
	Limits     Limits
}

// Limiter is a sliding-window quota tracker. One limiter instance guards
// one outbound API budget; it is safe for concurrent callers.
type Limiter struct {
	mu         sync.Mutex
	limits     Limits
	timestamps []time.Time
	now        func() time.Time
}

// NewLimiter creates a limiter with the given ceilings.
func NewLimiter(limits Limits) *Limiter {
	return &Limiter{
		limits: limits,
		now:    time.Now,
	}
}

// CanMakeQuery checks the trailing windows against their ceilings without
// mutating state. The broadest window is checked first, so a violation of
// several limits at once is reported as the daily one; retryAfter derives
// from the oldest timestamp inside the violated window.
func (l *Limiter) CanMakeQuery() Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	checks := []struct {
		limit  int
		window time.Duration
		label  string
	}{
		{l.limits.PerDay, windowDay, "daily"},
		{l.limits.PerHour, windowHour, "hourly"},
		{l.limits.PerMinute, windowMinute, "per-minute"},
	}

	for _, c := range checks {
		if c.limit <= 0 {
			continue
		}
		count, oldest := l.windowStateLocked(now, c.window)
		if count >= c.limit {
			retryAfter := c.window - now.Sub(oldest)
			if retryAfter < 0 {
				retryAfter = 0
			}
			return Decision{
				Allowed:    false,
				Reason:     fmt.Sprintf("%s query limit reached (%d per %s)", c.label, c.limit, c.window),
				RetryAfter: retryAfter,
			}
		}
	}

	return Decision{Allowed: true}
}

// RecordQuery records one outbound query at the current time.
func (l *Limiter) RecordQuery(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestamps = append(l.timestamps, l.now())
	_ = query // recorded timestamps are what matter; the text is for callers' logs
}

// Counts returns current usage in each trailing window.
func (l *Limiter) Counts() WindowCounts {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	minute, _ := l.windowStateLocked(now, windowMinute)
	hour, _ := l.windowStateLocked(now, windowHour)
	day, _ := l.windowStateLocked(now, windowDay)

	return WindowCounts{
		LastMinute: minute,
		LastHour:   hour,
		LastDay:    day,
		Limits:     l.limits,
	}
}

// windowStateLocked returns the count of timestamps inside the trailing
// window and the oldest of them. Timestamps are append-only and therefore
// ordered, so a linear scan from the front suffices.
func (l *Limiter) windowStateLocked(now time.Time, window time.Duration) (int, time.Time) {
	cutoff := now.Add(-window)
	for i, ts := range l.timestamps {
		if ts.After(cutoff) {
			return len(l.timestamps) - i, ts
		}
	}
	return 0, time.Time{}
}

// Sweep discards timestamps older than the longest window to bound
// memory. It satisfies the maintenance worker's Sweeper interface.
func (l *Limiter) Sweep(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-windowDay)
	idx := 0
	for idx < len(l.timestamps) && !l.timestamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.timestamps = append([]time.Time(nil), l.timestamps[idx:]...)
	}
	return nil
}
