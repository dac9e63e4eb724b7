// Package httputil provides retry support for registry API calls.
package httputil

import (
	"context"
	"errors"
	"time"
)

// Transient marks an error as worth retrying. Network failures and 5xx
// responses from the registry should be wrapped with it so [Retry] attempts
// the call again; validation and not-found errors should not.
type Transient struct{ Err error }

func (e *Transient) Error() string { return e.Err.Error() }
func (e *Transient) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// Only errors wrapped in [Transient] are retried; anything else is returned
// immediately. The delay doubles after each failed attempt. Returns the last
// error if all attempts fail, or ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func isTransient(err error) bool {
	return errors.As(err, new(*Transient))
}
