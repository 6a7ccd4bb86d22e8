// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package catalog

import (
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/wallreel/scheduler/internal/logging"
	"github.com/wallreel/scheduler/internal/metrics"
)

// newBreaker builds the circuit breaker fronting every CatalogStore call
// (spec.md §4.1 "Failures: CatalogUnavailable if the read view is
// unreachable"), grounded on the teacher's
// internal/sync/circuit_breaker.go: opens after >=10 requests with a >=60%
// failure rate, half-open after a 2-minute cooldown.
func newBreaker() *gobreaker.CircuitBreaker[interface{}] {
	const name = "catalog-store"

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= 0.6 {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).
					Msg("catalog circuit breaker opening")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).
				Msg("catalog circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// execute runs fn through the breaker, recording success/failure/rejection
// metrics, grounded on the teacher's CircuitBreakerClient.execute.
func (s *Service) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues("catalog-store", "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues("catalog-store", "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues("catalog-store", "success").Inc()
	return result, nil
}

// castResult type-asserts a breaker result, surfacing a Fatal error on a
// type mismatch that should never occur in practice.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("catalog circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}
