// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package embeddings turns retrieval-unit text into vectors for the index.
package embeddings

import (
	"context"
	"fmt"
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedText generates an embedding vector for the given text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call where
	// the backend supports it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the width of the vectors this embedder produces.
	Dimension() int
}

// Options selects and configures an embedding backend.
type Options struct {
	Type      string // "openai", "ollama", "mock"
	Model     string
	APIKey    string
	BaseURL   string
	Dimension int
}

// New creates an embedder for the given options.
func New(opts Options) (Embedder, error) {
	switch opts.Type {
	case "openai":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai embedder requires an api key")
		}
		model := opts.Model
		if model == "" {
			model = "text-embedding-3-small"
		}
		return NewOpenAIEmbedder(opts.APIKey, model), nil
	case "ollama":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model := opts.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaEmbedder(baseURL, model), nil
	case "mock":
		dim := opts.Dimension
		if dim <= 0 {
			dim = 384
		}
		return NewMockEmbedder(dim), nil
	default:
		return nil, fmt.Errorf("unknown embedder type: %s", opts.Type)
	}
}
