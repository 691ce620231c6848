package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hall/config"
	"hall/infras/otel"
	"hall/shared/constant"
	"hall/shared/failure"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Locker serializes critical sections per key. Acquire blocks until the lock
// is held, the wait budget runs out, or ctx is done. The returned release
// function must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ErrLockWaitExceeded signals that the wait budget elapsed before the lock
// could be taken. No state was touched and the caller may retry.
var ErrLockWaitExceeded = failure.ServiceUnavailable("timed out waiting for reservation lock")

func New(cfg *config.Config, client *redis.Client, otl otel.Otel) Locker {
	if cfg.Booking.DistributedLock {
		return NewRedisLocker(cfg, client, otl)
	}

	return NewKeyedMutex(cfg, otl)
}

// KeyedMutex is an in-process Locker backed by one buffered channel slot per
// key. Sufficient when a single instance owns all writes for its rooms.
type KeyedMutex struct {
	mu      sync.Mutex
	slots   map[string]chan struct{}
	maxWait time.Duration
	otel    otel.Otel
}

func NewKeyedMutex(cfg *config.Config, otl otel.Otel) *KeyedMutex {
	return &KeyedMutex{
		slots:   map[string]chan struct{}{},
		maxWait: time.Duration(cfg.Booking.LockWaitMS) * time.Millisecond,
		otel:    otl,
	}
}

func (k *KeyedMutex) slot(key string) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()

	slot, ok := k.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		k.slots[key] = slot
	}

	return slot
}

func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".KeyedMutex.Acquire")
	defer scope.End()

	scope.SetAttribute("lock.key", key)

	slot := k.slot(key)

	timer := time.NewTimer(k.maxWait)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-timer.C:
		scope.TraceError(ErrLockWaitExceeded)

		return nil, ErrLockWaitExceeded
	case <-ctx.Done():
		scope.TraceError(ctx.Err())

		return nil, fmt.Errorf("waiting for lock on %s: %w", key, ctx.Err())
	}
}

// releaseScript deletes the lease only if the holder token still matches, so
// an expired lease taken over by another holder is never released by us.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

const retryInterval = 50 * time.Millisecond

// RedisLocker is a Locker backed by a redis SET NX PX lease, for deployments
// where several instances may write bookings for the same room.
type RedisLocker struct {
	client  *redis.Client
	maxWait time.Duration
	ttl     time.Duration
	otel    otel.Otel
}

func NewRedisLocker(cfg *config.Config, client *redis.Client, otl otel.Otel) *RedisLocker {
	return &RedisLocker{
		client:  client,
		maxWait: time.Duration(cfg.Booking.LockWaitMS) * time.Millisecond,
		ttl:     time.Duration(cfg.Booking.LockTTLMS) * time.Millisecond,
		otel:    otl,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".RedisLocker.Acquire")
	defer scope.End()

	scope.SetAttribute("lock.key", key)

	token := uuid.NewString()
	deadline := time.Now().Add(r.maxWait)

	for {
		ok, err := r.client.SetNX(ctx, "lock:"+key, token, r.ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to take reservation lease")
			scope.TraceError(err)

			return nil, failure.ServiceUnavailable("reservation lock unavailable")
		}

		if ok {
			return func() { r.release(key, token) }, nil
		}

		if time.Now().After(deadline) {
			scope.TraceError(ErrLockWaitExceeded)

			return nil, ErrLockWaitExceeded
		}

		select {
		case <-time.After(retryInterval):
		case <-ctx.Done():
			scope.TraceError(ctx.Err())

			return nil, fmt.Errorf("waiting for lock on %s: %w", key, ctx.Err())
		}
	}
}

func (r *RedisLocker) release(key, token string) {
	// Detached from the request context so a cancelled request still
	// returns its lease.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := r.client.Eval(ctx, releaseScript, []string{"lock:" + key}, token).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to release reservation lease")
	}
}
