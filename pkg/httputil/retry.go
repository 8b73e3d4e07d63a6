package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy describes how often and how patiently an operation is retried.
type Policy struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait before the second try; doubles afterwards

	// OnRetry, if set, is called before each wait with the 1-based number
	// of the attempt that just failed.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy is used by [RetryWithBackoff]: 3 attempts, 1s initial delay.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// are used up, or ctx is cancelled.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i == attempts-1 {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(i+1, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}

// Retry executes fn up to attempts times with exponential backoff.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryWithBackoff retries fn with [DefaultPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultPolicy.Do(ctx, fn)
}

// IsRetryable reports whether err carries a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
