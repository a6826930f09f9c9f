// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package extract runs the full schedule extraction: table discovery, both
// parser tracks and the merge pass. It is the seam where the precision-first
// rule track and the recall-oriented model track are reconciled.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/proplens/internal/discovery"
	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/merge"
	"github.com/proplens/internal/rulebased"
	"github.com/proplens/internal/schema"
	"github.com/proplens/internal/tableparse"
)

// TableParser is the model-assisted track over one raw table.
type TableParser interface {
	ParseTable(ctx context.Context, table schema.RawTable, pageNum int) []schema.Candidate
}

// Discovery finds raw tables in a document.
type Discovery interface {
	CollectTables(path string) []schema.RawTable
}

// VisionSource is the alternate page-image extraction path.
type VisionSource interface {
	ExtractTasks(ctx context.Context, path string) ([]schema.Candidate, error)
}

// Extractor drives schedule extraction for one document at a time.
type Extractor struct {
	cascade Discovery
	parser  TableParser
	vision  VisionSource

	// UseVision switches to the page-image cascade variant, skipping the
	// grid, layout and OCR tiers entirely.
	UseVision bool
}

// NewExtractor wires the classical cascade with both parser tracks. vision
// may be nil when the vision variant is disabled.
func NewExtractor(cascade Discovery, parser TableParser, vision VisionSource, useVision bool) *Extractor {
	return &Extractor{
		cascade:   cascade,
		parser:    parser,
		vision:    vision,
		UseVision: useVision && vision != nil,
	}
}

// ExtractSchedule returns the canonical task records for one document. A
// document in which nothing can be extracted yields an empty slice, not an
// error.
func (e *Extractor) ExtractSchedule(ctx context.Context, path string) []schema.TaskRecord {
	if e.UseVision {
		return e.extractVision(ctx, path)
	}

	logger.Printf("extract: starting hybrid extraction for %s", path)

	tables := e.collectTables(path)
	logger.Printf("extract: found %d raw tables", len(tables))

	var candidates []schema.Candidate

	// Rule-based track.
	ruleCount := 0
	for idx, table := range tables {
		tasks := rulebased.ParseTableRows(table, idx+1)
		for _, t := range tasks {
			candidates = append(candidates, schema.CandidateFromTask(t, "rule"))
		}
		ruleCount += len(tasks)
	}

	// Model-assisted track.
	llmCount := 0
	for idx, table := range tables {
		parsed := e.parser.ParseTable(ctx, table, idx+1)
		candidates = append(candidates, parsed...)
		llmCount += len(parsed)
	}

	logger.Printf("extract: merging %d rule candidates and %d model candidates", ruleCount, llmCount)
	final := merge.MergeTasks(candidates)
	logger.Printf("extract: completed, %d valid tasks", len(final))
	return final
}

func (e *Extractor) extractVision(ctx context.Context, path string) []schema.TaskRecord {
	logger.Printf("extract: starting vision extraction for %s", path)
	candidates, err := e.vision.ExtractTasks(ctx, path)
	if err != nil {
		logger.Errorf("extract: vision extraction failed: %v", err)
		return nil
	}
	final := merge.MergeTasks(candidates)
	logger.Printf("extract: completed, %d valid tasks", len(final))
	return final
}

// collectTables routes spreadsheets to the workbook reader and everything
// else through the discovery cascade.
func (e *Extractor) collectTables(path string) []schema.RawTable {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xlsm" {
		tables, err := discovery.CollectWorkbookTables(path)
		if err != nil {
			logger.Errorf("extract: workbook read failed: %v", err)
			return nil
		}
		return tables
	}
	return e.cascade.CollectTables(path)
}
