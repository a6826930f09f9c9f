// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package vectordb

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryVectorDB is an in-memory index with cosine scoring. It backs tests
// and local runs without a Qdrant instance.
type MemoryVectorDB struct {
	mu       sync.RWMutex
	vectors  map[string][]float32
	payloads map[string]map[string]string
}

// NewMemoryVectorDB creates an empty in-memory index.
func NewMemoryVectorDB() *MemoryVectorDB {
	return &MemoryVectorDB{
		vectors:  make(map[string][]float32),
		payloads: make(map[string]map[string]string),
	}
}

// AddDocuments stores vectors and payloads, overwriting existing ids.
func (m *MemoryVectorDB) AddDocuments(ctx context.Context, ids []string, vectors [][]float32, payloads []map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		m.vectors[id] = vectors[i]
		m.payloads[id] = payloads[i]
	}
	return nil
}

// Search returns the topK stored vectors by cosine similarity.
func (m *MemoryVectorDB) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 10
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.vectors))
	for id, v := range m.vectors {
		matches = append(matches, Match{
			ID:       id,
			Score:    cosine(queryVector, v),
			Metadata: m.payloads[id],
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes points by id.
func (m *MemoryVectorDB) Delete(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.vectors, id)
		delete(m.payloads, id)
	}
	return nil
}

// Count returns the number of stored points.
func (m *MemoryVectorDB) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
