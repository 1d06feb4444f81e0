package lock

import (
	"context"
	"sync"
	"time"
)

type memoryLockEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker implements Locker with process-local state. Suitable
// for single-instance deployments and tests.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryLockEntry
}

// NewMemoryLocker creates an in-memory locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[string]memoryLockEntry),
	}
}

// Acquire tries to take the lock, honoring expiry of stale holders
func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if entry, ok := l.locks[key]; ok && entry.expiresAt.After(now) {
		return false, "", nil
	}

	token := newToken()
	l.locks[key] = memoryLockEntry{
		token:     token,
		expiresAt: now.Add(ttl),
	}
	return true, token, nil
}

// Release frees the lock when token still owns it
func (l *MemoryLocker) Release(_ context.Context, key string, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.locks[key]; ok && entry.token == token {
		delete(l.locks, key)
	}
	return nil
}

var _ Locker = (*MemoryLocker)(nil)
