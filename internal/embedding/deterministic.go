package embedding

import (
	"context"
	"hash/fnv"
)

// lcg constants from Knuth's MMIX generator.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// Deterministic derives a reproducible pseudo-random vector from a stable
// hash of the input text. Identical text always yields an identical vector,
// across runs and processes. It never fails, which makes it the terminal
// fallback when the remote provider is unavailable.
type Deterministic struct {
	dim int
}

// NewDeterministic creates a deterministic provider with the given vector
// dimension. Non-positive dimensions fall back to DefaultDimension.
func NewDeterministic(dim int) *Deterministic {
	if dim <= 0 {
		dim = DefaultDimension
	}

	return &Deterministic{dim: dim}
}

// Embed expands an FNV-64a hash of the text into d.dim entries in
// [-0.5, 0.5) via a linear congruential generator.
func (d *Deterministic) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, d.dim)
	for i := range vec {
		state = state*lcgMultiplier + lcgIncrement
		// Top 53 bits give a uniform float64 in [0, 1).
		vec[i] = float32(float64(state>>11)/(1<<53)) - 0.5
	}

	return vec, nil
}

func (d *Deterministic) Dim() int {
	return d.dim
}
