package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	RedisQueueKeyPrefix = "reception:queue:"

	redisOpTimeout = 5 * time.Second
	queueKeyLayout = "20060102"
)

// raiseQueueScript lifts the counter to ARGV[1] if it is lower, never down.
var raiseQueueScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	local floor = tonumber(ARGV[1])
	if current < floor then
		redis.call('SET', KEYS[1], floor, 'PX', ARGV[2])
		return floor
	end
	return current
`)

// QueueService hands out per-day reception queue numbers. Numbers only grow
// and are never reused, even when a check-in fails after taking one.
type QueueService interface {
	Next(ctx context.Context, date time.Time) (int, error)
	// Sync raises the day's counter to at least floor, typically the highest
	// number already persisted.
	Sync(ctx context.Context, date time.Time, floor int) error
}

type redisQueueService struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisQueueService(client *redis.Client, log *logrus.Logger) QueueService {
	return &redisQueueService{client: client, log: log}
}

func queueKey(date time.Time) string {
	return RedisQueueKeyPrefix + date.Format(queueKeyLayout)
}

func (s *redisQueueService) Next(ctx context.Context, date time.Time) (int, error) {
	key := queueKey(date)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, calculateTTL(date))
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to take queue number for %s: %+v", key, err)
		return 0, fmt.Errorf("incr queue %s: %w", key, err)
	}

	return int(incr.Val()), nil
}

func (s *redisQueueService) Sync(ctx context.Context, date time.Time, floor int) error {
	key := queueKey(date)
	ttl := calculateTTL(date)

	current, err := raiseQueueScript.Run(ctx, s.client, []string{key}, floor, ttl.Milliseconds()).Int()
	if err != nil {
		s.log.Warnf("Failed to sync queue counter %s: %+v", key, err)
		return fmt.Errorf("sync queue %s: %w", key, err)
	}

	s.log.Debugf("Synced queue counter %s: %d", key, current)
	return nil
}

type localQueueService struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewLocalQueueService() QueueService {
	return &localQueueService{counters: make(map[string]int)}
}

func (s *localQueueService) Next(_ context.Context, date time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := queueKey(date)
	s.counters[key]++
	return s.counters[key], nil
}

func (s *localQueueService) Sync(_ context.Context, date time.Time, floor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := queueKey(date)
	if s.counters[key] < floor {
		s.counters[key] = floor
	}
	return nil
}

// calculateTTL returns TTL: 24 hours after the given date
func calculateTTL(date time.Time) time.Duration {
	expireAt := date.AddDate(0, 0, 1)
	ttl := time.Until(expireAt)

	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}

	return ttl
}
