package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// WithFallback wraps a primary provider so that any primary failure degrades
// to the fallback instead of surfacing past the engine boundary.
type WithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewWithFallback pairs a primary provider with a fallback. Both must
// produce vectors of the same dimension.
func NewWithFallback(primary, fallback Provider, logger *zap.Logger) (*WithFallback, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary provider is required")
	}
	if fallback == nil {
		fallback = NewDeterministic(primary.Dim())
	}
	if primary.Dim() != fallback.Dim() {
		return nil, fmt.Errorf("dimension mismatch: primary %d, fallback %d", primary.Dim(), fallback.Dim())
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}, nil
}

// Embed tries the primary provider first. A timed-out call is treated the
// same as any other provider error: the fallback result is returned.
func (w *WithFallback) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := w.primary.Embed(ctx, text)
	if err == nil {
		return vec, nil
	}

	w.logger.Warn("embedding provider failed, using fallback", zap.Error(err))

	return w.fallback.Embed(ctx, text)
}

func (w *WithFallback) Dim() int {
	return w.primary.Dim()
}
