package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_AcquireAndRelease(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	granted, token, err := l.Acquire(ctx, "store1:prod1", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.NotEmpty(t, token)

	require.NoError(t, l.Release(ctx, "store1:prod1", token))

	granted, _, err = l.Acquire(ctx, "store1:prod1", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted, "lock must be reacquirable after release")
}

func TestMemoryLocker_SecondAcquireDenied(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	granted, _, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, granted)

	granted, token, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Empty(t, token)
}

func TestMemoryLocker_DistinctKeysAreIndependent(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	granted, _, err := l.Acquire(ctx, "store1:prod1", time.Minute)
	require.NoError(t, err)
	require.True(t, granted)

	granted, _, err = l.Acquire(ctx, "store1:prod2", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, _, err = l.Acquire(ctx, "store2:prod1", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestMemoryLocker_ExpiredLockCanBeTaken(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	granted, _, err := l.Acquire(ctx, "k", time.Millisecond)
	require.NoError(t, err)
	require.True(t, granted)

	time.Sleep(5 * time.Millisecond)

	granted, _, err = l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestMemoryLocker_ReleaseWithWrongTokenIsNoOp(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	granted, _, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, granted)

	require.NoError(t, l.Release(ctx, "k", "not-the-owner"))

	granted, _, err = l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, granted, "lock must survive a release by a non-owner")
}

func TestMemoryLocker_OnlyOneWinnerUnderContention(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			granted, _, err := l.Acquire(ctx, "contended", time.Minute)
			require.NoError(t, err)
			if granted {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
