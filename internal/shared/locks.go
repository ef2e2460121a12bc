package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RetentionLockKey builds the redis key guarding the audit retention sweep.
func RetentionLockKey() string {
	return "audit:retention:lock"
}

// releaseScript deletes the lock key only when it still holds our token, so
// an expired lock re-acquired by another worker is never released by us.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// Lock is a coarse redis mutex for background maintenance critical sections.
type Lock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// NewLock constructs a lock on the given key with the given expiry.
func NewLock(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: key, token: uuid.NewString(), ttl: ttl}
}

// Acquire attempts to take the lock without blocking. It returns false when
// another holder owns the key.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("shared: acquire lock %s: %w", l.key, err)
	}
	return ok, nil
}

// Release drops the lock if this instance still holds it.
func (l *Lock) Release(ctx context.Context) error {
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("shared: release lock %s: %w", l.key, err)
	}
	return nil
}
