// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package pipeline orchestrates ingestion end to end: extract records from a
// document, persist them, build retrieval units, embed and index them.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/proplens/internal/chunk"
	"github.com/proplens/internal/embeddings"
	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
	"github.com/proplens/internal/store"
	"github.com/proplens/internal/vectordb"
)

// ScheduleSource extracts task records from a schedule document.
type ScheduleSource interface {
	ExtractSchedule(ctx context.Context, path string) []schema.TaskRecord
}

// RuleSource extracts regulatory rules from a circular document.
type RuleSource interface {
	ExtractRules(ctx context.Context, path string) ([]schema.RuleRecord, error)
}

// BatchKind tells the loader what a UnitBatch carries.
type BatchKind int

const (
	// KindRowSummary carries per-row units plus per-group summary units.
	KindRowSummary BatchKind = iota
	// KindFlat carries a single flat list of units.
	KindFlat
)

// UnitBatch is the loader's explicit input shape. The kind is declared by the
// producer, never inferred from which slices happen to be populated.
type UnitBatch struct {
	Kind      BatchKind
	Rows      []chunk.Unit
	Summaries []chunk.Unit
	Flat      []chunk.Unit
}

// Units flattens the batch into the list to index.
func (b UnitBatch) Units() []chunk.Unit {
	switch b.Kind {
	case KindRowSummary:
		units := make([]chunk.Unit, 0, len(b.Rows)+len(b.Summaries))
		units = append(units, b.Rows...)
		units = append(units, b.Summaries...)
		return units
	default:
		return b.Flat
	}
}

// Hit is one search result.
type Hit struct {
	Text     string
	Score    float32
	Metadata map[string]string
}

// Pipeline wires the extraction, persistence and indexing collaborators.
type Pipeline struct {
	schedules ScheduleSource
	circulars RuleSource
	store     *store.Store
	events    *store.EventLog
	embedder  embeddings.Embedder
	index     vectordb.VectorDB
}

// New builds a pipeline from its collaborators. store and events may be nil
// when persistence is not wanted (search-only processes).
func New(schedules ScheduleSource, circulars RuleSource, st *store.Store, events *store.EventLog, embedder embeddings.Embedder, index vectordb.VectorDB) *Pipeline {
	return &Pipeline{
		schedules: schedules,
		circulars: circulars,
		store:     st,
		events:    events,
		embedder:  embedder,
		index:     index,
	}
}

// IngestSchedule extracts a project schedule, saves the tasks and indexes
// row and summary units.
func (p *Pipeline) IngestSchedule(ctx context.Context, path string) (int, error) {
	doc := filepath.Base(path)
	records := p.schedules.ExtractSchedule(ctx, path)
	logger.Printf("pipeline: extracted %d tasks from %s", len(records), doc)

	if p.store != nil {
		if err := p.store.SaveTasks(records); err != nil {
			p.logEvent("error", doc, err.Error())
			return 0, fmt.Errorf("failed to save tasks: %w", err)
		}
	}

	summaries := chunk.AggregateByBuilding(records)
	rows, sums := chunk.BuildRetrievalUnits(records, summaries)
	batch := UnitBatch{Kind: KindRowSummary, Rows: rows, Summaries: sums}

	if err := p.loadUnits(ctx, batch); err != nil {
		p.logEvent("error", doc, err.Error())
		return 0, err
	}

	p.logEvent("ingest", doc, fmt.Sprintf("%d tasks, %d units", len(records), len(rows)+len(sums)))
	return len(records), nil
}

// IngestCircular extracts regulatory rules, saves them and indexes one unit
// per rule.
func (p *Pipeline) IngestCircular(ctx context.Context, path string) (int, error) {
	doc := filepath.Base(path)
	rules, err := p.circulars.ExtractRules(ctx, path)
	if err != nil {
		p.logEvent("error", doc, err.Error())
		return 0, fmt.Errorf("failed to extract rules: %w", err)
	}
	logger.Printf("pipeline: extracted %d rules from %s", len(rules), doc)

	if p.store != nil {
		if err := p.store.SaveRules(rules); err != nil {
			p.logEvent("error", doc, err.Error())
			return 0, fmt.Errorf("failed to save rules: %w", err)
		}
	}

	batch := UnitBatch{Kind: KindFlat, Flat: chunk.BuildRuleUnits(rules)}
	if err := p.loadUnits(ctx, batch); err != nil {
		p.logEvent("error", doc, err.Error())
		return 0, err
	}

	p.logEvent("ingest", doc, fmt.Sprintf("%d rules", len(rules)))
	return len(rules), nil
}

// loadUnits embeds the batch and upserts it into the vector index. The unit
// text rides in the payload so search can return it without a second lookup.
func (p *Pipeline) loadUnits(ctx context.Context, batch UnitBatch) error {
	units := batch.Units()
	if len(units) == 0 {
		return nil
	}

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed %d units: %w", len(units), err)
	}

	ids := make([]string, len(units))
	payloads := make([]map[string]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
		payload := chunk.SanitizeMetadata(u.Metadata)
		payload["text"] = u.Text
		payloads[i] = payload
	}

	if err := p.index.AddDocuments(ctx, ids, vectors, payloads); err != nil {
		return fmt.Errorf("failed to index %d units: %w", len(units), err)
	}
	return nil
}

// Search embeds the query and returns the topK indexed units.
func (p *Pipeline) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	vector, err := p.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := p.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(matches))
	for i, m := range matches {
		text := m.Metadata["text"]
		meta := make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			if k != "text" {
				meta[k] = v
			}
		}
		hits[i] = Hit{Text: text, Score: m.Score, Metadata: meta}
	}
	return hits, nil
}

func (p *Pipeline) logEvent(eventType, doc, details string) {
	if p.events == nil {
		return
	}
	if err := p.events.LogEvent(eventType, doc, details); err != nil {
		logger.Warnf("pipeline: failed to log event: %v", err)
	}
}
