package core

// upload_limiter.go bounds how many upload batches are parsed at once.
//
// Parsing holds whole files in memory, so the session service takes a slot
// before reading a batch. Callers wait up to maxWait for a slot and then fail
// with ErrTooManyUploads.

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultMaxConcurrentUploads is used when a non-positive limit is configured.
	DefaultMaxConcurrentUploads = 2

	// DefaultMaxWaitTime is used when a non-positive wait is configured.
	DefaultMaxWaitTime = 10 * time.Second
)

// UploadLimiter is a counting semaphore for upload batches.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int32
	drained chan struct{} // closed and replaced whenever active drops to zero
	mu      sync.Mutex
}

// NewUploadLimiter allows at most maxConcurrent batches at once.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &UploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		drained: make(chan struct{}),
	}
}

// Acquire waits for a slot and returns the function that frees it.
// The release function is safe to call more than once.
func (l *UploadLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return l.take(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooManyUploads
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *UploadLimiter) TryAcquire() (release func(), ok bool) {
	select {
	case l.slots <- struct{}{}:
		return l.take(), true
	default:
		return nil, false
	}
}

func (l *UploadLimiter) take() func() {
	l.active.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.slots
			if l.active.Add(-1) == 0 {
				l.mu.Lock()
				close(l.drained)
				l.drained = make(chan struct{})
				l.mu.Unlock()
			}
		})
	}
}

// WaitForDrain blocks until no batch holds a slot or ctx ends.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	for {
		l.mu.Lock()
		ch := l.drained
		l.mu.Unlock()
		if l.active.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// LimiterStatus is a snapshot of the limiter for the status endpoint.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current slot usage.
func (l *UploadLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
