// Package embedding turns profile text into fixed-length vectors. A remote
// provider produces real semantic embeddings; the deterministic provider is
// the offline fallback used when the remote one is unavailable.
package embedding

import "context"

// DefaultDimension is the vector dimension used when the caller does not
// configure one.
const DefaultDimension = 256

// Provider embeds text into a fixed-length float vector.
//
// Implementations must return vectors of exactly Dim() entries for every
// input.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dim() int
}
