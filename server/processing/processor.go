package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/server/metrics"
	"github.com/platewise/platewise/server/provider"
)

// Sentinel errors classifying analysis failures. Both map to the same
// generic client response; the distinction drives logging and metrics.
var (
	// ErrBackend wraps any failure of the backend call itself: network or
	// auth errors, context expiry, or an empty reply.
	ErrBackend = errors.New("ai backend request failed")

	// ErrBadReply wraps a reply that could not be parsed as a JSON object.
	ErrBadReply = errors.New("model reply is not valid JSON")
)

// Processor orchestrates one meal analysis: prompt construction, the bounded
// backend call, and reply normalization. It holds only read-only wiring
// (templates, provider handle, timeout) and is safe for concurrent use; all
// per-request state stays on the stack.
type Processor struct {
	provider   provider.Provider
	builder    *PromptBuilder
	normalizer *Normalizer
	tokens     *TokenCounter
	timeout    time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewProcessor creates a processor from configuration and a provider.
// Templates are compiled eagerly so invalid configuration fails at startup.
// Token counting is best-effort: if the tokenizer cannot be initialized the
// processor works without it.
func NewProcessor(cfg *config.Config, p provider.Provider, logger *zap.Logger, m *metrics.Metrics) (*Processor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}

	builder, err := NewPromptBuilder(cfg.Processing)
	if err != nil {
		return nil, err
	}

	tokens, err := NewTokenCounter()
	if err != nil {
		logger.Warn("token counter unavailable, prompt token accounting disabled",
			zap.Error(err),
		)
		tokens = nil
	}

	return &Processor{
		provider:   p,
		builder:    builder,
		normalizer: NewNormalizer(cfg.Normalizer),
		tokens:     tokens,
		timeout:    cfg.LLM.Timeout,
		logger:     logger,
		metrics:    m,
	}, nil
}

// Analyze runs the full pipeline for one query. The backend call runs under
// the configured timeout; expiry surfaces as an ErrBackend failure like any
// other backend error. Errors are classified via ErrBackend and ErrBadReply
// for the caller's errors.Is checks.
func (p *Processor) Analyze(ctx context.Context, q MealQuery) (NutritionEstimate, error) {
	prompt, err := p.builder.Build(q)
	if err != nil {
		return NutritionEstimate{}, fmt.Errorf("build prompt: %w", err)
	}

	if p.tokens != nil {
		n := p.tokens.Count(prompt)
		if p.metrics != nil {
			p.metrics.PromptTokens.Observe(float64(n))
		}
		p.logger.Debug("prompt built",
			zap.Int("prompt_tokens", n),
			zap.Bool("has_image", len(q.Image) > 0),
		)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	reply, err := p.provider.Analyze(ctx, prompt, q.Image, q.ImageMIME)
	if err != nil {
		return NutritionEstimate{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	est, err := p.normalizer.Normalize(reply, q.Description)
	if err != nil {
		return NutritionEstimate{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}

	return est, nil
}
