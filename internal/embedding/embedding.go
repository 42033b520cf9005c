// Package embedding defines the embedding provider contract and the
// vector math used to rank documents against a query.
package embedding

import (
	"context"
	"math"
)

// Embedder produces embedding vectors for text.
type Embedder interface {
	// Embed returns the embedding vector for a single input.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Close releases any resources held by the provider.
	Close() error
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different lengths are not comparable and score -1.
// A zero vector has no direction and scores 0 against anything.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return -1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}

	inv := 1 / math.Sqrt(norm)
	for i := range v {
		v[i] *= inv
	}
	return v
}
