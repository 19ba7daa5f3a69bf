// Package httputil provides the retry policy and error classification shared
// by every remote call in the acquisition pipeline.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// DefaultAttempts bounds how many times a single remote call is issued.
const DefaultAttempts = 3

// DefaultDelay is the fixed pause between attempts. Tests override it.
var DefaultDelay = time.Second

// ErrNotFound marks a remote lookup that succeeded but found nothing.
// It is never retried.
var ErrNotFound = errors.New("not found")

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Policy configures Do.
type Policy struct {
	// Attempts includes the first call. Zero means DefaultAttempts.
	Attempts int
	// Delay is slept between attempts after a transient failure. Zero means
	// DefaultDelay; a negative value disables the pause.
	Delay time.Duration
	// OnRetry, when set, observes each transient failure that will be retried.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy returns the standard three-attempt policy.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

func (p Policy) attempts() int {
	if p.Attempts <= 0 {
		return DefaultAttempts
	}
	return p.Attempts
}

func (p Policy) delay() time.Duration {
	switch {
	case p.Delay < 0:
		return 0
	case p.Delay == 0:
		return DefaultDelay
	default:
		return p.Delay
	}
}

// Do calls fn until it succeeds, returns a non-transient error, or the
// attempt budget is spent. The last error is returned on exhaustion. If ctx
// is done while waiting between attempts, ctx.Err() is returned.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.attempts()
	var lastErr error
	for i := 0; i < attempts; i++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !IsTransient(err) || i == attempts-1 {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(i+1, err)
		}
		if d := p.delay(); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return zero, ctx.Err()
			case <-t.C:
			}
		}
	}
	return zero, lastErr
}

// IsTransient reports whether err is worth retrying: timeouts, network
// failures, HTTP 5xx and 429.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	var ne net.Error
	return errors.As(err, &ne)
}
