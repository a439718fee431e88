package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotBusy is returned when another booking currently holds the slot lock.
var ErrSlotBusy = errors.New("slot is being booked by another request")

// releaseLockScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by someone else is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisSlotLockKeyPrefix = "slot:lock:"

	// Timeout for individual Redis operations
	redisLockTimeout = 5 * time.Second

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute

	// Backoff bounds while waiting for a held Redis slot lock
	lockRetryInitialInterval = 20 * time.Millisecond
	lockRetryMaxInterval     = 500 * time.Millisecond
)

// SlotLocker serialises bookings of one doctor slot. Lock returns the
// function that releases it.
type SlotLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
	Stop()
}

// SlotKey identifies one doctor slot.
func SlotKey(doctorID, date, slotTime string) string {
	return doctorID + "|" + date + "|" + slotTime
}

// =============================================================================
// In-process locker
// =============================================================================

// LocalSlotLocker keeps one mutex per slot key. Unused mutexes are dropped by
// a background goroutine; call Stop during shutdown.
type LocalSlotLocker struct {
	log *logrus.Logger

	slotMu sync.Map // map[string]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

func NewLocalSlotLocker(log *logrus.Logger) *LocalSlotLocker {
	l := &LocalSlotLocker{
		log:      log,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupMutexMapLoop()

	return l
}

func (l *LocalSlotLocker) Lock(ctx context.Context, key string) (func(), error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mt := l.getSlotMutex(key)
		mt.mu.Lock()

		// The cleanup loop may have dropped this mutex between the lookup and
		// the Lock; retry with whatever the map holds now.
		if current, ok := l.slotMu.Load(key); !ok || current != mt {
			mt.mu.Unlock()
			continue
		}

		mt.lastUsed.Store(time.Now().Unix())
		return mt.mu.Unlock, nil
	}
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *LocalSlotLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("LocalSlotLocker stopped")
	}
}

// getSlotMutex returns mutex for a specific slot key
func (l *LocalSlotLocker) getSlotMutex(key string) *mutexWithTimestamp {
	mt, _ := l.slotMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (l *LocalSlotLocker) cleanupMutexMapLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. A mutex that is
// held is skipped.
func (l *LocalSlotLocker) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffTime := cutoff.Unix()
	var cleaned int

	l.slotMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				l.slotMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale slot mutexes", cleaned)
	}
	return cleaned
}

// =============================================================================
// Redis locker
// =============================================================================

// RedisSlotLocker takes the slot lock with SET NX PX, so API instances that
// share one storage backend also exclude each other. A held lock is retried
// with backoff for up to the lock TTL before it is reported as ErrSlotBusy.
type RedisSlotLocker struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewRedisSlotLocker(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *RedisSlotLocker {
	return &RedisSlotLocker{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func (l *RedisSlotLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := RedisSlotLockKeyPrefix + key
	token := uuid.New().String()

	err := waitForSlotLock(ctx, l.ttl, func(ctx context.Context) (bool, error) {
		opCtx, cancel := context.WithTimeout(ctx, redisLockTimeout)
		defer cancel()
		return l.redisClient.SetNX(opCtx, lockKey, token, l.ttl).Result()
	})
	if err != nil {
		if errors.Is(err, ErrSlotBusy) || ctx.Err() != nil {
			return nil, err
		}
		l.log.Warnf("Failed to acquire slot lock %s: %+v", lockKey, err)
		return nil, fmt.Errorf("acquire slot lock %s: %w", lockKey, err)
	}

	unlock := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), redisLockTimeout)
		defer cancel()

		if err := releaseLockScript.Run(releaseCtx, l.redisClient, []string{lockKey}, token).Err(); err != nil {
			l.log.Warnf("Failed to release slot lock %s: %+v", lockKey, err)
		}
	}
	return unlock, nil
}

// Stop is a no-op; lock keys expire on their own.
func (l *RedisSlotLocker) Stop() {}

// waitForSlotLock calls try with exponential backoff until it reports the lock
// acquired or maxWait has passed. Errors from try stop the wait at once. A
// non-positive maxWait tries exactly once.
func waitForSlotLock(ctx context.Context, maxWait time.Duration, try func(ctx context.Context) (bool, error)) error {
	var policy backoff.BackOff = &backoff.StopBackOff{}
	if maxWait > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = lockRetryInitialInterval
		exp.MaxInterval = lockRetryMaxInterval
		exp.MaxElapsedTime = maxWait
		exp.Reset()
		policy = exp
	}

	return backoff.Retry(func() error {
		acquired, err := try(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !acquired {
			return ErrSlotBusy
		}
		return nil
	}, backoff.WithContext(policy, ctx))
}
