package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLocalSlotLocker_SerialisesSameKey(t *testing.T) {
	locker := NewLocalSlotLocker(discardLogger())
	defer locker.Stop()

	key := SlotKey("d1", "2025-01-06", "09:00")
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), key)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}

func TestLocalSlotLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewLocalSlotLocker(discardLogger())
	defer locker.Stop()

	unlockA, err := locker.Lock(context.Background(), SlotKey("d1", "2025-01-06", "09:00"))
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB, err := locker.Lock(context.Background(), SlotKey("d1", "2025-01-06", "09:30"))
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different slot blocked")
	}
}

func TestLocalSlotLocker_CancelledContext(t *testing.T) {
	locker := NewLocalSlotLocker(discardLogger())
	defer locker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalSlotLocker_CleanupSkipsHeldMutex(t *testing.T) {
	locker := NewLocalSlotLocker(discardLogger())
	defer locker.Stop()

	unlock, err := locker.Lock(context.Background(), "held")
	require.NoError(t, err)
	unlockIdle, err := locker.Lock(context.Background(), "idle")
	require.NoError(t, err)
	unlockIdle()

	cleaned := locker.cleanupStaleMutexes(time.Now().Add(time.Hour))
	assert.Equal(t, 1, cleaned)

	_, stillThere := locker.slotMu.Load("held")
	assert.True(t, stillThere)
	unlock()

	// A fresh lock after cleanup still works.
	unlockIdle, err = locker.Lock(context.Background(), "idle")
	require.NoError(t, err)
	unlockIdle()
}

func TestLocalSlotLocker_StopIsIdempotent(t *testing.T) {
	locker := NewLocalSlotLocker(discardLogger())
	locker.Stop()
	locker.Stop()
}

func TestWaitForSlotLock_RetriesUntilReleased(t *testing.T) {
	calls := 0
	err := waitForSlotLock(context.Background(), time.Second, func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitForSlotLock_BusyAfterMaxWait(t *testing.T) {
	start := time.Now()
	err := waitForSlotLock(context.Background(), 100*time.Millisecond, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, ErrSlotBusy)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaitForSlotLock_StopsOnError(t *testing.T) {
	redisDown := errors.New("connection refused")
	calls := 0
	err := waitForSlotLock(context.Background(), time.Second, func(ctx context.Context) (bool, error) {
		calls++
		return false, redisDown
	})

	assert.ErrorIs(t, err, redisDown)
	assert.Equal(t, 1, calls)
}

func TestWaitForSlotLock_ZeroWaitTriesOnce(t *testing.T) {
	calls := 0
	err := waitForSlotLock(context.Background(), 0, func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})

	assert.ErrorIs(t, err, ErrSlotBusy)
	assert.Equal(t, 1, calls)
}

func TestWaitForSlotLock_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := waitForSlotLock(ctx, time.Minute, func(ctx context.Context) (bool, error) {
		cancel()
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
