package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/teilomillet/legalease/server/circuitbreaker"
	"github.com/teilomillet/legalease/server/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Call outcomes recorded in legalease_model_requests_total.
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeCanceled    = "canceled"
)

type endpointKey struct{}

// WithEndpoint tags ctx with the API endpoint issuing the call, used as a
// metric label.
func WithEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, endpointKey{}, endpoint)
}

// EndpointFrom returns the endpoint set by WithEndpoint, or "unknown".
func EndpointFrom(ctx context.Context) string {
	if v, ok := ctx.Value(endpointKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// GuardOptions configures a Guarded client. The zero value passes calls
// straight through.
type GuardOptions struct {
	// Timeout bounds each upstream call. Zero disables it.
	Timeout time.Duration

	// Breaker rejects calls while the upstream keeps failing.
	Breaker *circuitbreaker.CircuitBreaker

	// Dedupe shares one upstream call between concurrent identical prompts.
	Dedupe bool

	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Guarded wraps a Client with a timeout, a circuit breaker, optional
// in-flight de-duplication, metrics and logging. It never retries.
type Guarded struct {
	next    Client
	opts    GuardOptions
	group   *singleflight.Group
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewGuarded wraps next.
func NewGuarded(next Client, opts GuardOptions) *Guarded {
	g := &Guarded{
		next:    next,
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if opts.Dedupe {
		g.group = &singleflight.Group{}
	}
	return g
}

// Generate calls the wrapped client once.
func (g *Guarded) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := EndpointFrom(ctx)
	start := time.Now()

	var (
		reply string
		err   error
	)
	if g.group != nil {
		var v interface{}
		var shared bool
		v, err, shared = g.group.Do(promptKey(prompt), func() (interface{}, error) {
			return g.call(ctx, prompt)
		})
		if shared && g.metrics != nil {
			g.metrics.DedupedRequests.Inc()
		}
		if err == nil {
			reply = v.(string)
		}
	} else {
		reply, err = g.call(ctx, prompt)
	}

	elapsed := time.Since(start)
	outcome := classify(err)
	if g.metrics != nil {
		g.metrics.ModelRequests.WithLabelValues(endpoint, outcome).Inc()
		g.metrics.ModelLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	}

	if err != nil {
		g.logger.Warn("model call failed",
			zap.String("endpoint", endpoint),
			zap.String("outcome", outcome),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	g.logger.Debug("model call succeeded",
		zap.String("endpoint", endpoint),
		zap.Duration("elapsed", elapsed),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("reply_chars", len(reply)),
	)
	return reply, nil
}

func (g *Guarded) call(ctx context.Context, prompt string) (string, error) {
	var reply string
	run := func() error {
		callCtx := ctx
		if g.opts.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
			defer cancel()
		}

		r, err := g.next.Generate(callCtx, prompt)
		if err != nil {
			// SDKs do not reliably wrap the context error, so look at the
			// context itself
			if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w after %s: %w", ErrTimeout, g.opts.Timeout, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
				return fmt.Errorf("%w: %w", ctxErr, err)
			}
			return err
		}
		reply = r
		return nil
	}

	var err error
	if g.opts.Breaker != nil {
		err = g.opts.Breaker.Execute(run)
	} else {
		err = run()
	}
	return reply, err
}

func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return OutcomeCircuitOpen
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
