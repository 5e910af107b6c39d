package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithFallbackUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &countingProvider{dim: 8}
	wrapped, err := NewWithFallback(primary, NewDeterministic(8), zap.NewNop())
	require.NoError(t, err)

	vec, err := wrapped.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 8, wrapped.Dim())
}

func TestWithFallbackDegradesOnPrimaryError(t *testing.T) {
	primary := &countingProvider{dim: 8, err: errors.New("timeout")}
	wrapped, err := NewWithFallback(primary, NewDeterministic(8), zap.NewNop())
	require.NoError(t, err)

	vec, err := wrapped.Embed(context.Background(), "text")
	require.NoError(t, err)

	expected, _ := NewDeterministic(8).Embed(context.Background(), "text")
	assert.Equal(t, expected, vec)
}

func TestWithFallbackDefaultsToDeterministic(t *testing.T) {
	primary := &countingProvider{dim: 8, err: errors.New("down")}
	wrapped, err := NewWithFallback(primary, nil, nil)
	require.NoError(t, err)

	vec, err := wrapped.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
}

func TestWithFallbackRejectsDimensionMismatch(t *testing.T) {
	_, err := NewWithFallback(&countingProvider{dim: 8}, NewDeterministic(16), nil)
	assert.Error(t, err)
}

func TestWithFallbackRequiresPrimary(t *testing.T) {
	_, err := NewWithFallback(nil, NewDeterministic(8), nil)
	assert.Error(t, err)
}
