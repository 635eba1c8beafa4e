package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrNotAcquired is returned when the lock is held by someone else for
// the whole acquire timeout.
var ErrNotAcquired = errors.New("lock: not acquired")

// RedisLock is a TTL-based mutual exclusion keyed by an arbitrary string
// (the assembly workflow keys it by cart id). The TTL auto-releases the
// lock if the holder crashes mid-workflow.
type RedisLock struct {
	client *redis.Client
	prefix string

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{
		client: client,
		prefix: "booking:lock:",
		tokens: make(map[string]string),
	}
}

// Acquire polls SET NX until it wins or the timeout elapses.
func (l *RedisLock) Acquire(ctx context.Context, key string, timeout, ttl time.Duration) error {
	token := uuid.NewString()
	deadline := time.Now().Add(timeout)

	for {
		ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			l.mu.Lock()
			l.tokens[key] = token
			l.mu.Unlock()
			return nil
		}
		if time.Now().After(deadline) {
			return ErrNotAcquired
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// release only deletes the key if we still own it, so an expired lock
// re-acquired by another holder is never released from here.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0
`)

func (l *RedisLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err()
}
