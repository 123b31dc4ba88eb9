package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds configuration for the search circuit breaker
type BreakerConfig struct {
	MaxRequests      uint32        // requests allowed through while half-open
	Interval         time.Duration // closed-state window before counts reset
	Timeout          time.Duration // open-state duration before trying half-open
	FailureThreshold float64       // failure ratio that trips the breaker
	MinRequests      uint32        // requests seen before the ratio is evaluated
}

// DefaultBreakerConfig returns the default circuit breaker configuration
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

func newBreaker(cfg BreakerConfig, c *Client) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Only trip if we have enough requests to make a decision
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if c.logger != nil {
				c.logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
		IsSuccessful: isBreakerSuccess,
	})
}

// isBreakerSuccess decides what counts against the breaker: transport failures,
// timeouts, rate limiting and server errors. Rejected queries (bad qualifiers,
// validation errors) and requests the caller cancelled do not.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusForbidden,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= 500:
			return false
		default:
			return true
		}
	}
	return false
}
