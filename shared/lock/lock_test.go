package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"hall/config"
	otelMock "hall/infras/otel/mocks"
	"hall/shared/failure"
	"hall/shared/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyedMutex(waitMS int) *lock.KeyedMutex {
	cfg := &config.Config{}
	cfg.Booking.LockWaitMS = waitMS

	return lock.NewKeyedMutex(cfg, otelMock.NewOtel())
}

func TestKeyedMutexMutualExclusion(t *testing.T) {
	locker := newKeyedMutex(2000)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			release, err := locker.Acquire(context.Background(), "room-1")
			require.NoError(t, err)
			defer release()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, maxSeen, "only one holder at a time per key")
}

func TestKeyedMutexBoundedWait(t *testing.T) {
	locker := newKeyedMutex(50)

	release, err := locker.Acquire(context.Background(), "room-1")
	require.NoError(t, err)

	start := time.Now()
	_, err = locker.Acquire(context.Background(), "room-1")
	require.Error(t, err)
	assert.Equal(t, 503, failure.GetCode(err))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	release()

	release, err = locker.Acquire(context.Background(), "room-1")
	require.NoError(t, err)
	release()
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	locker := newKeyedMutex(50)

	releaseA, err := locker.Acquire(context.Background(), "room-a")
	require.NoError(t, err)
	defer releaseA()

	// A held lock on one room must not delay another room.
	releaseB, err := locker.Acquire(context.Background(), "room-b")
	require.NoError(t, err)
	releaseB()
}

func TestKeyedMutexContextCancelled(t *testing.T) {
	locker := newKeyedMutex(5000)

	release, err := locker.Acquire(context.Background(), "room-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = locker.Acquire(ctx, "room-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
