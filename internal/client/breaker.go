package client

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	Name string
	// Failures is the number of consecutive transport failures that open
	// the breaker.
	Failures uint32
	// Timeout is how long the breaker stays open before letting one probe
	// request through.
	Timeout time.Duration
	// OnState, when set, receives every state the breaker moves into.
	OnState func(name string, state gobreaker.State)
}

func NewBreaker(cfg BreakerConfig, log *slog.Logger) *gobreaker.CircuitBreaker {
	failures := cfg.Failures
	if failures == 0 {
		failures = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		IsSuccessful: func(err error) bool {
			var aborted *abortedError
			return err == nil || errors.As(err, &aborted)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			if cfg.OnState != nil {
				cfg.OnState(name, to)
			}
		},
	})
}

// abortedError is a round trip cut short by the caller's own context. It
// says nothing about the backend, so the breaker does not count it.
type abortedError struct {
	err error
}

func (e *abortedError) Error() string { return e.err.Error() }

func (e *abortedError) Unwrap() error { return e.err }
