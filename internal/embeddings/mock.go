// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package embeddings

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder produces deterministic vectors from a text hash. Identical
// text always maps to the identical vector, which is what tests rely on.
type MockEmbedder struct {
	dim int
}

// NewMockEmbedder creates a mock embedder with the given dimension.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{dim: dim}
}

// Dimension returns the embedding dimension.
func (e *MockEmbedder) Dimension() int {
	return e.dim
}

// EmbedText generates a deterministic unit vector seeded by the text.
func (e *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, e.dim)
	for i := 0; i < e.dim; i++ {
		embedding[i] = float32(math.Sin(float64(seed*uint32(i+1)) * 0.1))
	}

	var sum float32
	for _, v := range embedding {
		sum += v * v
	}
	norm := float32(math.Sqrt(float64(sum)))
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}

	return embedding, nil
}

// EmbedBatch embeds each text independently.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = embedding
	}
	return result, nil
}
