package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

const defaultMockDimensions = 384

// Mock is a deterministic in-process Embedder for tests and offline
// runs. The same text always maps to the same unit vector, and
// different texts map to different vectors with high probability.
type Mock struct {
	dimensions int

	mu    sync.Mutex
	calls []string
}

// NewMock returns a Mock emitting vectors of the given dimension.
// A non-positive dimension falls back to the default.
func NewMock(dimensions int) *Mock {
	if dimensions <= 0 {
		dimensions = defaultMockDimensions
	}
	return &Mock{dimensions: dimensions}
}

func (m *Mock) Embed(_ context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float64, m.dimensions)
	for i := range vec {
		x := float64(seed%1000)/1000.0 + float64(i)*0.1
		vec[i] = math.Sin(x)
		seed = seed*6364136223846793005 + 1442695040888963407
	}
	return Normalize(vec), nil
}

func (m *Mock) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (m *Mock) Close() error { return nil }

// Calls returns the texts embedded so far, in call order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
