package core

// export_limiter.go bounds the number of exports in flight.
//
// Each export holds a temporary archive on disk until its response has been
// written, so the limiter also bounds temp-disk usage. When all slots are
// occupied, new exports wait up to maxWait before failing with
// ErrTooManyExports. WaitForDrain lets shutdown block until in-flight
// exports finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyExports is returned when no export slot frees up within the wait time.
var ErrTooManyExports = errors.New("too many concurrent exports")

// DefaultMaxConcurrentExports is used when a non-positive limit is configured.
const DefaultMaxConcurrentExports = 8

// DefaultExportWaitTime is used when a non-positive wait is configured.
const DefaultExportWaitTime = 10 * time.Second

// ExportLimiter is a semaphore over export slots.
type ExportLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewExportLimiter creates a limiter allowing at most maxConcurrent exports.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultExportWaitTime
	}

	return &ExportLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. The caller must Release it.
func (l *ExportLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		return ErrTooManyExports
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *ExportLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of exports currently holding a slot.
func (l *ExportLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no export holds a slot or ctx ends.
func (l *ExportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ExportLimiterStatus is a snapshot of limiter occupancy.
type ExportLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ExportLimiter) Status() ExportLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return ExportLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
