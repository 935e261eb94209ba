// internal/adapter/storage/resilient_source.go

package storage

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
	"chanalytics/internal/logging"
	"chanalytics/internal/metrics"
)

// BreakerConfig configures the channel source circuit breaker
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// ResilientSource wraps a channel source with a circuit breaker.
// Lookups of unknown channels and cancelled requests do not count as failures.
type ResilientSource struct {
	source channel.Source
	cb     *gobreaker.CircuitBreaker[*channel.Channel]
	name   string
}

// NewResilientSource creates a new circuit-breaking channel source
func NewResilientSource(source channel.Source, config BreakerConfig) *ResilientSource {
	if config.Name == "" {
		config.Name = "channel-source"
	}
	if config.MinRequests == 0 {
		config.MinRequests = 5
	}
	if config.FailureRatio <= 0 {
		config.FailureRatio = 0.6
	}

	metrics.SourceBreakerState.WithLabelValues(config.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*channel.Channel](gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureRatio
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")

			metrics.SourceBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},

		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, analytics.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &ResilientSource{
		source: source,
		cb:     cb,
		name:   config.Name,
	}
}

// GetChannel retrieves a channel snapshot through the circuit breaker
func (r *ResilientSource) GetChannel(ctx context.Context, title string) (*channel.Channel, error) {
	ch, err := r.cb.Execute(func() (*channel.Channel, error) {
		return r.source.GetChannel(ctx, title)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Ctx(ctx).Warn().Err(err).Str("breaker", r.name).Msg("Channel lookup rejected")
	}

	return ch, err
}

// State returns the current breaker state
func (r *ResilientSource) State() gobreaker.State {
	return r.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
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
