// Package cache keeps short-lived session state in Redis: revoked token ids and
// failed sign-in counters.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type SessionCache struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewSessionCache(rdb *redis.Client, timeout time.Duration) *SessionCache {
	return &SessionCache{
		rdb:     rdb,
		timeout: timeout,
	}
}

func revokedKey(jti string) string {
	return fmt.Sprintf("revoked_token_%s", jti)
}

func attemptsKey(email string) string {
	return fmt.Sprintf("sign_in_attempts_%s", email)
}

// Revoke marks the token id as signed out until the token would have expired anyway.
func (c *SessionCache) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (c *SessionCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.rdb.Get(ctx, revokedKey(jti)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}

// AddFailedAttempt counts a failed sign-in for email within window and returns the
// count so far. The window starts at the first failure.
func (c *SessionCache) AddFailedAttempt(ctx context.Context, email string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	key := attemptsKey(email)
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

func (c *SessionCache) FailedAttempts(ctx context.Context, email string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.rdb.Get(ctx, attemptsKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *SessionCache) ResetAttempts(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.rdb.Del(ctx, attemptsKey(email)).Err()
}
