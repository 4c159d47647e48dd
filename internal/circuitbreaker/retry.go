package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// RetryConfig bounds the exponential backoff used for transient failures.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetryConfig returns the retry policy used for collaborator calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     200 * time.Millisecond,
		Multiplier:      2,
	}
}

func (c RetryConfig) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		b.MaxInterval = c.MaxInterval
	}
	if c.Multiplier > 0 {
		b.Multiplier = c.Multiplier
	}
	b.MaxElapsedTime = 0

	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// Retry runs fn through the breaker, retrying transient failures with
// bounded exponential backoff. An open circuit stops retrying at once.
func Retry[T any](ctx context.Context, cb *CircuitBreaker, cfg RetryConfig, fn func(context.Context) (T, error)) (T, error) {
	op := func() (T, error) {
		result, err := Call(ctx, cb, func() (T, error) { return fn(ctx) })
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return result, backoff.Permanent(err)
		}
		var perm *PermanentError
		if errors.As(err, &perm) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, wait time.Duration) {
		log.Debug().
			Err(err).
			Str("circuit_breaker", cb.Name()).
			Dur("wait", wait).
			Msg("Retrying dependency call")
	}

	return backoff.RetryNotifyWithData(op, cfg.policy(ctx), notify)
}

// PermanentError marks a failure that retrying cannot fix, such as a 404.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Retry gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}
