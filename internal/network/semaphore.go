// This file implements the sliding-window rate limiter shared by all
// adapters of one site. It is the primary defense against tripping
// anti-scraping bans on target sites.

package network

import (
	"context"
	"sync"
	"time"
)

// TimeSpanSemaphore allows at most limit acquisitions within any
// sliding window of the configured duration. Waiters are served in
// submission order; a canceled waiter gives its reservation back.
type TimeSpanSemaphore struct {
	sem    chan struct{}
	window time.Duration

	mu       sync.Mutex
	finished []time.Time // completion stamps of the last `limit` releases, oldest first
}

// NewTimeSpanSemaphore creates a semaphore granting limit slots per
// window.
func NewTimeSpanSemaphore(limit int, window time.Duration) *TimeSpanSemaphore {
	if limit < 1 {
		limit = 1
	}
	return &TimeSpanSemaphore{
		sem:    make(chan struct{}, limit),
		window: window,
	}
}

// Acquire blocks until a slot is free and the sliding window allows
// another dispatch. Every successful Acquire must be paired with a
// Release.
func (s *TimeSpanSemaphore) Acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	var oldest time.Time
	if len(s.finished) == cap(s.sem) {
		oldest = s.finished[0]
		s.finished = s.finished[1:]
	}
	s.mu.Unlock()

	if oldest.IsZero() {
		return nil
	}
	wait := s.window - time.Since(oldest)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		// Give the reservation back so later waiters are not starved.
		s.mu.Lock()
		s.finished = append([]time.Time{oldest}, s.finished...)
		s.mu.Unlock()
		<-s.sem
		return ctx.Err()
	}
}

// Limit returns the number of slots per window.
func (s *TimeSpanSemaphore) Limit() int {
	return cap(s.sem)
}

// Release frees the slot and stamps the sliding window.
func (s *TimeSpanSemaphore) Release() {
	s.mu.Lock()
	s.finished = append(s.finished, time.Now())
	if len(s.finished) > cap(s.sem) {
		s.finished = s.finished[len(s.finished)-cap(s.sem):]
	}
	s.mu.Unlock()
	<-s.sem
}
