package openai

import (
	"context"
	"fmt"

	"github.com/notesmith/autoflow/internal/embedding"
)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embedder implements embedding.Embedder against the embeddings
// endpoint.
type Embedder struct {
	client *Client
	model  string
}

var _ embedding.Embedder = (*Embedder)(nil)

// NewEmbedder returns an Embedder bound to model.
func NewEmbedder(client *Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := embeddingRequest{Model: e.model, Input: texts}
	var resp embeddingResponse
	if err := e.client.post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The API documents data as ordered, but index is authoritative.
	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding: index %d out of range", d.Index)
		}
		out[d.Index] = embedding.Normalize(d.Embedding)
	}
	return out, nil
}

func (e *Embedder) Close() error { return nil }
