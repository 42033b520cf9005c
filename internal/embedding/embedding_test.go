package embedding

import (
	"context"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2, 3},
			want: 1,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 0},
			b:    []float64{-1, 0},
			want: -1,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0,
		},
		{
			name: "mismatched lengths",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2},
			want: -1,
		},
		{
			name: "zero vector left",
			a:    []float64{0, 0, 0},
			b:    []float64{1, 2, 3},
			want: 0,
		},
		{
			name: "zero vector right",
			a:    []float64{1, 2, 3},
			b:    []float64{0, 0, 0},
			want: 0,
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float64{0.3, -0.7, 0.2, 0.9}
	b := []float64{-0.1, 0.4, 0.8, -0.2}

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float64{3, 4})

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("normalized vector has norm %v, want 1", math.Sqrt(norm))
	}

	zero := Normalize([]float64{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector changed by Normalize: %v", zero)
	}
}

func TestMockDeterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMock(64)

	a1, err := m.Embed(ctx, "alpha")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	a2, err := m.Embed(ctx, "alpha")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	b, err := m.Embed(ctx, "beta")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if sim := CosineSimilarity(a1, a2); math.Abs(sim-1) > 1e-9 {
		t.Errorf("same text similarity = %v, want 1", sim)
	}
	if sim := CosineSimilarity(a1, b); math.Abs(sim-1) < 1e-9 {
		t.Errorf("different texts produced identical vectors")
	}

	calls := m.Calls()
	if len(calls) != 3 {
		t.Fatalf("Calls() length = %d, want 3", len(calls))
	}
	if calls[0] != "alpha" || calls[2] != "beta" {
		t.Errorf("Calls() = %v", calls)
	}
}

func TestMockBatchOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMock(32)

	vecs, err := m.EmbedBatch(ctx, []string{"one", "two"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("EmbedBatch() returned %d vectors, want 2", len(vecs))
	}

	one, _ := m.Embed(ctx, "one")
	if sim := CosineSimilarity(vecs[0], one); math.Abs(sim-1) > 1e-9 {
		t.Errorf("batch vector differs from single embed, sim = %v", sim)
	}
}
