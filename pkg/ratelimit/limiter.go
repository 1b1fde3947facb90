package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds how often a given key may perform an action.
type Limiter interface {
	// Allow records an attempt for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset clears the attempt history for key.
	Reset(ctx context.Context, key string) error
}

// MemoryLimiter is a fixed-window limiter held in process memory.
// State is per-instance; use the Redis limiter when running more than one replica.
type MemoryLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	entries     map[string]*windowEntry
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter creates an in-memory limiter allowing maxAttempts per window
func NewMemoryLimiter(maxAttempts int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		entries:     make(map[string]*windowEntry),
	}
}

// Allow records an attempt for key and reports whether it is within the limit
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}

	entry.count++
	return entry.count <= l.maxAttempts, nil
}

// Reset clears the attempt history for key
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}
