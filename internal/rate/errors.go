package rate

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited indicates the attempt budget for a key is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable indicates the counter backend is unreachable.
	ErrRedisUnavailable = errors.New("rate limiter backend unavailable")
)

// LimitError carries the computed next-allowed-retry time alongside
// [ErrRateLimited].
type LimitError struct {
	RetryAt time.Time
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.RetryAt.Format(time.RFC3339))
}

// Unwrap makes errors.Is(err, ErrRateLimited) hold for LimitError values.
func (e *LimitError) Unwrap() error { return ErrRateLimited }
