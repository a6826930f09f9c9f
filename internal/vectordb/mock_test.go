// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package vectordb

import (
	"context"
	"testing"
)

func TestMemoryVectorDBSearchRanksByCosine(t *testing.T) {
	db := NewMemoryVectorDB()
	ctx := context.Background()

	err := db.AddDocuments(ctx,
		[]string{"a", "b", "c"},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0.9, 0.1, 0},
		},
		[]map[string]string{
			{"text": "excavation"},
			{"text": "piling"},
			{"text": "earthworks"},
		},
	)
	if err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	matches, err := db.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "a" {
		t.Errorf("best match = %s, want a", matches[0].ID)
	}
	if matches[1].ID != "c" {
		t.Errorf("second match = %s, want c", matches[1].ID)
	}
	if matches[0].Metadata["text"] != "excavation" {
		t.Errorf("payload not returned: %v", matches[0].Metadata)
	}
}

func TestMemoryVectorDBUpsertOverwrites(t *testing.T) {
	db := NewMemoryVectorDB()
	ctx := context.Background()

	db.AddDocuments(ctx, []string{"a"}, [][]float32{{1, 0}}, []map[string]string{{"v": "1"}})
	db.AddDocuments(ctx, []string{"a"}, [][]float32{{0, 1}}, []map[string]string{{"v": "2"}})

	if db.Count() != 1 {
		t.Fatalf("count = %d, want 1", db.Count())
	}
	matches, _ := db.Search(ctx, []float32{0, 1}, 1)
	if matches[0].Metadata["v"] != "2" {
		t.Errorf("payload = %v, want overwritten", matches[0].Metadata)
	}
}

func TestMemoryVectorDBDelete(t *testing.T) {
	db := NewMemoryVectorDB()
	ctx := context.Background()

	db.AddDocuments(ctx, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}, []map[string]string{{}, {}})
	if err := db.Delete(ctx, []string{"a"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if db.Count() != 1 {
		t.Errorf("count = %d, want 1", db.Count())
	}
}
