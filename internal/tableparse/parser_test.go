// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package tableparse

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/proplens/internal/schema"
)

// fakeModel answers chunk prompts from a canned function and records how
// many calls it saw.
type fakeModel struct {
	mu    sync.Mutex
	calls int
	fn    func(prompt string) map[string]interface{}
}

func (f *fakeModel) ParseTableChunk(ctx context.Context, prompt string) map[string]interface{} {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(prompt)
}

func bigTable(rows int) schema.RawTable {
	table := schema.RawTable{{"ID", "Task", "Dur", "Start", "Finish"}}
	for i := 1; i <= rows; i++ {
		table = append(table, []string{"1", "Task", "1d", "", ""})
	}
	return table
}

func TestParseTable_ChunksAndCollects(t *testing.T) {
	model := &fakeModel{fn: func(prompt string) map[string]interface{} {
		return map[string]interface{}{
			"tasks": []interface{}{
				map[string]interface{}{"task_id": float64(1), "task_name": "Excavation"},
			},
		}
	}}
	p := NewParser(model, 10, 2)

	candidates := p.ParseTable(context.Background(), bigTable(25), 1)

	// 25 data rows at 10 per chunk is 3 chunks, one candidate each.
	if model.calls != 3 {
		t.Errorf("expected 3 chunk calls, got %d", model.calls)
	}
	if len(candidates) != 3 {
		t.Errorf("expected 3 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if c.Source != "llm" {
			t.Errorf("candidate source = %q, want llm", c.Source)
		}
	}
}

func TestParseTable_ChunkFailureIsIsolated(t *testing.T) {
	model := &fakeModel{fn: func(prompt string) map[string]interface{} {
		// The chunk containing the marker row fails entirely.
		if strings.Contains(prompt, "POISON") {
			return map[string]interface{}{}
		}
		return map[string]interface{}{
			"tasks": []interface{}{
				map[string]interface{}{"task_id": float64(2), "task_name": "Survives"},
			},
		}
	}}
	p := NewParser(model, 1, 4)

	table := schema.RawTable{
		{"ID", "Task", "Dur"},
		{"1", "Good row", "1d"},
		{"2", "POISON", "1d"},
		{"3", "Another good row", "1d"},
	}
	candidates := p.ParseTable(context.Background(), table, 1)
	if len(candidates) != 2 {
		t.Fatalf("one failing chunk must not affect others: got %d candidates", len(candidates))
	}
}

func TestParseTable_EmptyTable(t *testing.T) {
	model := &fakeModel{fn: func(string) map[string]interface{} { return nil }}
	p := NewParser(model, 10, 2)
	if got := p.ParseTable(context.Background(), schema.RawTable{}, 1); len(got) != 0 {
		t.Errorf("empty table must yield no candidates, got %d", len(got))
	}
	if model.calls != 0 {
		t.Errorf("no chunks should be dispatched for an empty table, got %d calls", model.calls)
	}
}

func TestBuildChunkPrompt(t *testing.T) {
	prompt := buildChunkPrompt([][]string{{"1", "Excavation", "10d", "", ""}}, 1)
	if !strings.Contains(prompt, "1 | Excavation | 10d | ") {
		t.Errorf("rows must be pipe-delimited, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "'tasks'") {
		t.Error("prompt must mandate the tasks key")
	}
}

func TestNewParser_Defaults(t *testing.T) {
	p := NewParser(&fakeModel{}, 0, 0)
	if p.MaxRowsPerChunk != 25 || p.Workers != 4 {
		t.Errorf("defaults wrong: %d rows, %d workers", p.MaxRowsPerChunk, p.Workers)
	}
}
