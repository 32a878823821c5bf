package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLoginWindow = 15 * time.Minute

// LoginAttempts counts failed credential checks per username in fixed windows.
// Key format: login:fail:<username>
//
// A non-positive maxAttempts disables throttling: Blocked always reports false
// and failures are not recorded.
type LoginAttempts struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginAttempts creates a LoginAttempts wrapping the given Redis client.
// If window <= 0, defaultLoginWindow is used.
func NewLoginAttempts(client *redis.Client, maxAttempts int, window time.Duration) *LoginAttempts {
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginAttempts{client: client, maxAttempts: maxAttempts, window: window}
}

// Blocked reports whether username has reached the failure limit in the
// current window.
func (a *LoginAttempts) Blocked(ctx context.Context, username string) (bool, error) {
	if a.maxAttempts <= 0 {
		return false, nil
	}
	n, err := a.client.Get(ctx, a.key(username)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login attempts check: %w", err)
	}
	return n >= a.maxAttempts, nil
}

// RecordFailure increments the failure counter. The increment and the window
// expiry go out in one MULTI/EXEC; EXPIRE NX only arms a counter that has no
// TTL yet, so later failures never extend the window.
func (a *LoginAttempts) RecordFailure(ctx context.Context, username string) error {
	if a.maxAttempts <= 0 {
		return nil
	}
	key := a.key(username)
	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, a.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login attempts record: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful validation.
func (a *LoginAttempts) Reset(ctx context.Context, username string) error {
	if a.maxAttempts <= 0 {
		return nil
	}
	return a.client.Del(ctx, a.key(username)).Err()
}

func (a *LoginAttempts) key(username string) string {
	return "login:fail:" + username
}
