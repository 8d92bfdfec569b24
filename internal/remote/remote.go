// Package remote holds what every remote store backend shares: failure classification,
// the retry policy and the reachability probe.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/avast/retry-go"
)

// ErrTransient marks failures worth retrying later: network errors, timeouts and server-side errors.
var ErrTransient = errors.New("transient remote failure")

// StatusError is a non-2xx response from the remote store.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: response error %d: %s", e.Op, e.StatusCode, e.Body)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout
}

// IsTransient classifies err as a TransientRemoteFailure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

//go:generate mockgen -source=remote.go -destination=../mocks/remote/mock_remote.go -package=mock_remote

// Prober checks that the remote store is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

// RetryPolicy bounds how often a transient failure is retried in place.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

// Do runs fn until it succeeds, fails permanently, or the attempts run out.
// Only the last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 1
	}
	delay := p.Delay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return retry.Do(
		func() error {
			err := fn(ctx)
			if err != nil && !IsTransient(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}
