package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Locker provides short-lived exclusive locks over named resources.
// Acquire is a single attempt: when the lock is already held the call
// returns granted=false immediately, it never blocks or retries.
type Locker interface {
	// Acquire tries to take the lock for key with the given TTL. On
	// success it returns granted=true and an owner token that must be
	// presented to Release.
	Acquire(ctx context.Context, key string, ttl time.Duration) (granted bool, token string, err error)
	// Release frees the lock only when token still owns it. Releasing
	// a lock held by someone else (or already expired) is a no-op.
	Release(ctx context.Context, key string, token string) error
}

// newToken returns a random owner token
func newToken() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand read failures are not recoverable here
		panic(err)
	}
	return hex.EncodeToString(b)
}
