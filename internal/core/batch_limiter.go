package core

// batch_limiter.go bounds how many batches are parsed and merged at once.
//
// Each batch holds every uploaded file plus the merged table in memory, so
// the limiter is what keeps a burst of uploads from exhausting the heap.
// Callers that cannot get a slot within maxWait receive ErrTooManyBatches.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyBatches is returned when every processing slot stays busy for
// the whole wait period. Clients should retry after a short delay.
var ErrTooManyBatches = errors.New("too many batches in progress, please try again later")

const (
	// DefaultMaxConcurrentBatches is used when no positive limit is given.
	DefaultMaxConcurrentBatches = 4

	// DefaultMaxWaitTime is how long Acquire waits for a slot by default.
	DefaultMaxWaitTime = 30 * time.Second
)

// BatchLimiter is a weighted semaphore with one unit per batch.
type BatchLimiter struct {
	sem     *semaphore.Weighted
	max     int64
	maxWait time.Duration
	active  atomic.Int64
}

// LimiterStatus is a snapshot of limiter occupancy.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// NewBatchLimiter allows at most maxConcurrent batches in flight.
func NewBatchLimiter(maxConcurrent int, maxWait time.Duration) *BatchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentBatches
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &BatchLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. It returns ctx's error if
// ctx ends first. The caller must Release after a nil return.
func (l *BatchLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyBatches
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free right now.
func (l *BatchLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *BatchLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// ActiveCount returns the number of batches holding a slot.
func (l *BatchLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *BatchLimiter) MaxConcurrent() int {
	return int(l.max)
}

// Available returns the number of free slots.
func (l *BatchLimiter) Available() int {
	return int(l.max) - l.ActiveCount()
}

// WaitForDrain blocks until every slot is free or ctx ends. New batches
// queue behind the drain while it waits.
func (l *BatchLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.max); err != nil {
		return err
	}
	l.sem.Release(l.max)
	return nil
}

// Status returns the current occupancy for health reporting.
func (l *BatchLimiter) Status() LimiterStatus {
	active := l.ActiveCount()
	return LimiterStatus{
		Active:        active,
		Available:     int(l.max) - active,
		MaxConcurrent: int(l.max),
	}
}
