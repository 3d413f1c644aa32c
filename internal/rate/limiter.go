package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScopeConfig tunes one throttling scope (IP or identity).
type ScopeConfig struct {
	FreeRetries int
	MinWait     time.Duration
	MaxWait     time.Duration
}

// Config holds limiter tuning parameters.
type Config struct {
	IP       ScopeConfig
	Identity ScopeConfig
	Lifetime time.Duration
}

// Limiter enforces per-IP and per-identity failure budgets using Redis
// hash counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

func ipKey(ip string) string             { return "bf:ip:" + ip }
func identityKey(identity string) string { return "bf:id:" + identity }

// Check reports whether a login attempt for the identity+IP pair is
// currently allowed. Returns a [LimitError] when a cooldown is active.
// Missing keys pass; absence of a counter must not reveal anything about
// account existence.
func (l *Limiter) Check(ctx context.Context, identity, ip string) error {
	if identity != "" {
		if err := l.checkKey(ctx, identityKey(identity), l.config.Identity); err != nil {
			return err
		}
	}
	if ip != "" {
		if err := l.checkKey(ctx, ipKey(ip), l.config.IP); err != nil {
			return err
		}
	}

	return nil
}

// RecordFailure registers a failed authentication attempt against both keys.
// Increments are atomic per key, so concurrent failures never undercount.
func (l *Limiter) RecordFailure(ctx context.Context, identity, ip string) error {
	now := time.Now()
	if identity != "" {
		if err := l.recordKey(ctx, identityKey(identity), now); err != nil {
			return err
		}
	}
	if ip != "" {
		if err := l.recordKey(ctx, ipKey(ip), now); err != nil {
			return err
		}
	}

	return nil
}

// Reset clears the counters for the identity+IP pair after a successful
// authentication.
func (l *Limiter) Reset(ctx context.Context, identity, ip string) error {
	keys := make([]string, 0, 2)
	if identity != "" {
		keys = append(keys, identityKey(identity))
	}
	if ip != "" {
		keys = append(keys, ipKey(ip))
	}
	if len(keys) == 0 {
		return nil
	}

	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// FailureCount returns the current failure counter for an identity.
func (l *Limiter) FailureCount(ctx context.Context, identity string) (int, error) {
	count, err := l.redis.HGet(ctx, identityKey(identity), "count").Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return int(count), nil
}

func (l *Limiter) checkKey(ctx context.Context, key string, scope ScopeConfig) error {
	fields, err := l.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil
	}

	var count, lastUnix int64
	fmt.Sscan(fields["count"], &count)
	fmt.Sscan(fields["last"], &lastUnix)

	if count <= int64(scope.FreeRetries) {
		return nil
	}

	retryAt := time.Unix(lastUnix, 0).Add(cooldown(count, scope))
	if time.Now().Before(retryAt) {
		return &LimitError{RetryAt: retryAt}
	}

	return nil
}

func (l *Limiter) recordKey(ctx context.Context, key string, now time.Time) error {
	pipe := l.redis.TxPipeline()
	pipe.HIncrBy(ctx, key, "count", 1)
	pipe.HSet(ctx, key, "last", now.Unix())
	pipe.HSetNX(ctx, key, "first", now.Unix())
	pipe.Expire(ctx, key, l.config.Lifetime)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// cooldown doubles per failure beyond the free budget, capped at MaxWait.
func cooldown(count int64, scope ScopeConfig) time.Duration {
	over := count - int64(scope.FreeRetries)
	if over < 1 {
		return 0
	}

	wait := scope.MinWait
	for i := int64(1); i < over; i++ {
		wait *= 2
		if wait >= scope.MaxWait {
			return scope.MaxWait
		}
	}
	if wait > scope.MaxWait {
		return scope.MaxWait
	}

	return wait
}
