package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
)

func newLockFixture(t *testing.T) (*miniredis.Miniredis, *Client, LockFactory) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&Config{Mode: "standalone", Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return mr, client, NewLockFactory(client, logging.NewNopLogger())
}

func TestMutex_Lock_Unlock(t *testing.T) {
	mr, _, factory := newLockFixture(t)

	ctx := context.Background()
	lock := factory.NewMutex("analysis:abc", WithLockTTL(time.Second))

	err := lock.Lock(ctx)
	assert.NoError(t, err)
	assert.True(t, mr.Exists("lexbridge:lock:analysis:abc"))

	err = lock.Unlock(ctx)
	assert.NoError(t, err)
	assert.False(t, mr.Exists("lexbridge:lock:analysis:abc"))
}

func TestMutex_Lock_Contention(t *testing.T) {
	_, _, factory := newLockFixture(t)

	ctx := context.Background()
	lock1 := factory.NewMutex("analysis:abc", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))
	lock2 := factory.NewMutex("analysis:abc", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))

	err := lock1.Lock(ctx)
	assert.NoError(t, err)

	err = lock2.Lock(ctx)
	assert.Equal(t, ErrLockNotAcquired, err)

	require.NoError(t, lock1.Unlock(ctx))

	err = lock2.Lock(ctx)
	assert.NoError(t, err)
}

func TestMutex_TryLock(t *testing.T) {
	_, _, factory := newLockFixture(t)

	ctx := context.Background()
	lock1 := factory.NewMutex("analysis:abc")
	lock2 := factory.NewMutex("analysis:abc")

	ok, err := lock1.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock2.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock1.Unlock(ctx))

	ok, err = lock2.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMutex_UnlockByNonOwner(t *testing.T) {
	mr, _, factory := newLockFixture(t)

	ctx := context.Background()
	owner := factory.NewMutex("analysis:abc")
	intruder := factory.NewMutex("analysis:abc")

	require.NoError(t, owner.Lock(ctx))

	err := intruder.Unlock(ctx)
	assert.Equal(t, ErrLockNotHeld, err)
	assert.True(t, mr.Exists("lexbridge:lock:analysis:abc"), "lock must survive a non-owner unlock")
}

func TestMutex_Extend(t *testing.T) {
	_, _, factory := newLockFixture(t)

	ctx := context.Background()
	lock := factory.NewMutex("analysis:abc", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	ok, err := lock.Extend(ctx, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := lock.TTL(ctx)
	require.NoError(t, err)
	assert.True(t, ttl > time.Second, "ttl %v should reflect the extension", ttl)
}

func TestMutex_ExtendByNonOwner(t *testing.T) {
	_, _, factory := newLockFixture(t)

	ctx := context.Background()
	owner := factory.NewMutex("analysis:abc")
	intruder := factory.NewMutex("analysis:abc")

	require.NoError(t, owner.Lock(ctx))

	ok, err := intruder.Extend(ctx, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMutex_ExpiredLockCanBeReacquired(t *testing.T) {
	mr, _, factory := newLockFixture(t)

	ctx := context.Background()
	lock1 := factory.NewMutex("analysis:abc", WithLockTTL(time.Second))
	lock2 := factory.NewMutex("analysis:abc")

	require.NoError(t, lock1.Lock(ctx))
	mr.FastForward(2 * time.Second)

	ok, err := lock2.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMutex_WatchdogStopsOnUnlock(t *testing.T) {
	mr, _, factory := newLockFixture(t)

	ctx := context.Background()
	lock := factory.NewMutex("analysis:abc",
		WithLockTTL(time.Second),
		WithWatchdog(true),
		WithWatchdogInterval(20*time.Millisecond),
	)

	require.NoError(t, lock.Lock(ctx))
	time.Sleep(60 * time.Millisecond)
	assert.True(t, mr.Exists("lexbridge:lock:analysis:abc"))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("lexbridge:lock:analysis:abc"))
}
