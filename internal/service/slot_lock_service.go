package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockNotAcquired is returned when another request holds the slot lock.
var ErrLockNotAcquired = errors.New("slot lock not acquired")

const RedisSlotLockKeyPrefix = "lock:slot:"

// SlotLocker guards a booking critical section per slot key. The lock does
// not wait: a held key fails fast with ErrLockNotAcquired.
type SlotLocker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// releaseScript deletes the key only while it still carries our token, so an
// expired lock that was re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisSlotLocker(client *redis.Client, ttl time.Duration, log *logrus.Logger) SlotLocker {
	return &redisSlotLocker{client: client, ttl: ttl, log: log}
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	redisKey := RedisSlotLockKeyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		// The slot row's status CAS still rejects double bookings.
		l.log.Warnf("Slot lock unavailable for %s, continuing unlocked: %+v", redisKey, err)
		return fn(ctx)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		// Release on a fresh context: the caller's may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()
		if _, err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Result(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warnf("Failed to release slot lock %s: %+v", redisKey, err)
		}
	}()

	lockedCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockedCtx)
}

// localSlotLocker is the single-process stand-in used when Redis is absent.
type localSlotLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalSlotLocker() SlotLocker {
	return &localSlotLocker{held: make(map[string]struct{})}
}

func (l *localSlotLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	if _, busy := l.held[key]; busy {
		l.mu.Unlock()
		return ErrLockNotAcquired
	}
	l.held[key] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}()

	return fn(ctx)
}
