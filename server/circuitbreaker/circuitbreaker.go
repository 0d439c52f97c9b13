// Package circuitbreaker guards calls to the generative model with a
// sony/gobreaker breaker and exports its state to Prometheus.
package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config holds configuration for the circuit breaker
type Config struct {
	Name             string
	MaxRequests      uint32        // requests let through while half-open
	Interval         time.Duration // closed-state window for clearing counts
	Timeout          time.Duration // open-state duration before half-open
	FailureThreshold uint32        // consecutive failures that trip the breaker
	TestMode         bool          // skip metric registration
}

// CircuitBreaker wraps gobreaker with metrics and logging.
type CircuitBreaker struct {
	name    string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger

	stateGauge prometheus.Gauge
	tripsTotal prometheus.Counter
}

// NewCircuitBreaker creates a circuit breaker. Metrics are registered on
// registry unless it is nil or TestMode is set.
func NewCircuitBreaker(cfg Config, logger *zap.Logger, registry *prometheus.Registry) (*CircuitBreaker, error) {
	if cfg.FailureThreshold == 0 {
		return nil, fmt.Errorf("circuit breaker %q: failure threshold must be positive", cfg.Name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := &CircuitBreaker{
		name:   cfg.Name,
		logger: logger,
		stateGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "legalease_circuit_breaker_state",
			Help:        "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
			ConstLabels: prometheus.Labels{"name": cfg.Name},
		}),
		tripsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "legalease_circuit_breaker_trips_total",
			Help:        "Total number of times the circuit breaker has tripped",
			ConstLabels: prometheus.Labels{"name": cfg.Name},
		}),
	}

	if !cfg.TestMode && registry != nil {
		for _, c := range []prometheus.Collector{cb.stateGauge, cb.tripsTotal} {
			if err := registry.Register(c); err != nil {
				return nil, fmt.Errorf("register circuit breaker metrics: %w", err)
			}
		}
	}

	threshold := cfg.FailureThreshold
	cb.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: cb.onStateChange,
		IsSuccessful:  isSuccessful,
	})

	return cb, nil
}

// isSuccessful keeps caller cancellation from counting against the
// upstream.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

func (cb *CircuitBreaker) onStateChange(name string, from, to gobreaker.State) {
	cb.stateGauge.Set(float64(to))
	if to == gobreaker.StateOpen {
		cb.tripsTotal.Inc()
		cb.logger.Warn("circuit breaker tripped",
			zap.String("name", name),
			zap.String("from", from.String()),
		)
		return
	}
	cb.logger.Info("circuit breaker state changed",
		zap.String("name", name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

// Execute runs f if the breaker allows it. Rejected calls return
// ErrCircuitOpen.
func (cb *CircuitBreaker) Execute(f func() error) error {
	_, err := cb.breaker.Execute(func() (interface{}, error) {
		return nil, f()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the breaker's name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Counts returns the breaker's counters for the current generation.
func (cb *CircuitBreaker) Counts() gobreaker.Counts {
	return cb.breaker.Counts()
}
