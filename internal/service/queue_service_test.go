package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueServices(t *testing.T) {
	_, client := newRedis(t)
	impls := map[string]func() QueueService{
		"redis": func() QueueService {
			client.FlushAll(context.Background())
			return NewRedisQueueService(client, quietLogger())
		},
		"local": NewLocalQueueService,
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	ctx := context.Background()

	for name, newQueue := range impls {
		t.Run(name+" numbers grow per day", func(t *testing.T) {
			q := newQueue()
			for want := 1; want <= 3; want++ {
				got, err := q.Next(ctx, tomorrow)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			other, err := q.Next(ctx, tomorrow.AddDate(0, 0, 1))
			require.NoError(t, err)
			assert.Equal(t, 1, other)
		})

		t.Run(name+" sync only raises", func(t *testing.T) {
			q := newQueue()
			require.NoError(t, q.Sync(ctx, tomorrow, 7))
			next, err := q.Next(ctx, tomorrow)
			require.NoError(t, err)
			assert.Equal(t, 8, next)

			require.NoError(t, q.Sync(ctx, tomorrow, 2))
			next, err = q.Next(ctx, tomorrow)
			require.NoError(t, err)
			assert.Equal(t, 9, next)
		})

		t.Run(name+" concurrent numbers are unique", func(t *testing.T) {
			q := newQueue()
			var (
				mu   sync.Mutex
				seen = map[int]bool{}
				wg   sync.WaitGroup
			)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					n, err := q.Next(ctx, tomorrow)
					assert.NoError(t, err)
					mu.Lock()
					seen[n] = true
					mu.Unlock()
				}()
			}
			wg.Wait()
			assert.Len(t, seen, 20)
		})
	}
}

func TestRedisQueueKeyExpires(t *testing.T) {
	mr, client := newRedis(t)
	q := NewRedisQueueService(client, quietLogger())
	tomorrow := time.Now().AddDate(0, 0, 1)

	_, err := q.Next(context.Background(), tomorrow)
	require.NoError(t, err)

	ttl := mr.TTL(queueKey(tomorrow))
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 48*time.Hour)
}

func TestCalculateTTL(t *testing.T) {
	assert.Equal(t, time.Minute, calculateTTL(time.Now().AddDate(0, 0, -3)))
	assert.Greater(t, calculateTTL(time.Now()), time.Duration(0))
}
