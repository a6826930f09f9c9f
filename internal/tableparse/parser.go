// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package tableparse dispatches normalized table rows to a model-query
// collaborator in bounded row-group chunks. It is the recall-oriented track:
// the model can read rows that defeat the strict column heuristics, at the
// cost of per-chunk failure modes that must never abort the rest of the
// table.
package tableparse

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
)

// ChunkModel is the model-query collaborator for table chunks.
type ChunkModel interface {
	ParseTableChunk(ctx context.Context, prompt string) map[string]interface{}
}

// Parser chunks tables and queries the model concurrently.
type Parser struct {
	model ChunkModel

	// MaxRowsPerChunk trades model-call count against per-call row
	// confusion. Workers bounds concurrent model calls.
	MaxRowsPerChunk int
	Workers         int
}

// NewParser builds a parser with the given chunking knobs. Zero values fall
// back to 25 rows per chunk and 4 workers.
func NewParser(model ChunkModel, maxRowsPerChunk, workers int) *Parser {
	if maxRowsPerChunk < 1 {
		maxRowsPerChunk = 25
	}
	if workers < 1 {
		workers = 4
	}
	return &Parser{
		model:           model,
		MaxRowsPerChunk: maxRowsPerChunk,
		Workers:         workers,
	}
}

// ParseTable normalizes the table, splits it into row-group chunks and
// collects candidates from every chunk that succeeds. Chunk failures are
// logged and excluded; ordering across chunks is not guaranteed.
func (p *Parser) ParseTable(ctx context.Context, table schema.RawTable, pageNum int) []schema.Candidate {
	normalized := NormalizeForModel(table)
	if len(normalized) == 0 {
		return nil
	}

	var chunks [][][]string
	for start := 0; start < len(normalized); start += p.MaxRowsPerChunk {
		end := start + p.MaxRowsPerChunk
		if end > len(normalized) {
			end = len(normalized)
		}
		chunks = append(chunks, normalized[start:end])
	}

	// Each worker writes only its own result slot; results are combined
	// after every chunk's outcome has been observed.
	results := make([][]schema.Candidate, len(chunks))
	sem := make(chan struct{}, p.Workers)
	var wg sync.WaitGroup

	for idx, chunk := range chunks {
		wg.Add(1)
		go func(idx int, chunk [][]string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := p.model.ParseTableChunk(ctx, buildChunkPrompt(chunk, pageNum))
			items, ok := result["tasks"].([]interface{})
			if !ok || len(items) == 0 {
				logger.Warnf("tableparse: chunk %d of page %d yielded no tasks", idx, pageNum)
				return
			}
			results[idx] = schema.CandidatesFromList(items, "llm")
		}(idx, chunk)
	}
	wg.Wait()

	var all []schema.Candidate
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// buildChunkPrompt renders rows pipe-delimited under a strict-JSON
// instruction. The constraints against merging rows matter: without them
// models collapse adjacent rows into one invented task.
func buildChunkPrompt(rows [][]string, pageHint int) string {
	var lines []string
	for _, r := range rows {
		lines = append(lines, strings.Join(r, " | "))
	}

	return fmt.Sprintf(`You are a Data Engineer. Extract construction tasks from this table fragment.

Context:
- Columns: ID | Task Name | Duration | Start | Finish

Instructions:
1. Return ONLY valid JSON with a key 'tasks'.
2. Schema: { "task_id": int, "task_name": str, "duration_days": int, "start_date": "YYYY-MM-DD", "finish_date": "YYYY-MM-DD" }
3. CRITICAL: Do NOT merge multiple rows into one task. Keep task_name short and precise.
4. If a row has multiple unrelated concepts, split them or pick the main one.
5. Skip rows where ID is empty or not a number.

Table Data:
%s`, strings.Join(lines, "\n"))
}
