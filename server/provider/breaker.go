package provider

import (
	"context"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/platewise/platewise/config"
)

// breakerProvider wraps a Provider with a circuit breaker. After the
// configured number of consecutive failures the breaker opens and calls fail
// fast without touching the backend until the cooldown elapses. It never
// retries; the single-attempt-per-request contract is preserved.
type breakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps p with a circuit breaker built from cfg. When the breaker
// is disabled in configuration, p is returned unchanged.
func WithBreaker(p Provider, cfg config.CircuitBreakerConfig, logger *zap.Logger) Provider {
	if !cfg.Enabled {
		return p
	}

	settings := gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &breakerProvider{
		inner: p,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// Analyze implements Provider.
func (b *breakerProvider) Analyze(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	reply, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Analyze(ctx, prompt, image, mime)
	})
	if err != nil {
		return "", err
	}
	return reply.(string), nil
}

// Name implements Provider.
func (b *breakerProvider) Name() string { return b.inner.Name() }

// Model implements Provider.
func (b *breakerProvider) Model() string { return b.inner.Model() }
