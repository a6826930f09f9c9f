// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package discovery finds tabular data in source documents. Strategies are
// tried in order of fidelity: grid detection from word positions, then
// text-layout detection, then an opt-in OCR fallback that synthesizes
// pseudo-tables. An empty result is a valid outcome, never an error.
package discovery

import (
	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
)

// Strategy is one table-extraction attempt over a whole document.
type Strategy func(path string) ([]schema.RawTable, error)

// Cascade runs discovery strategies tier by tier, short-circuiting on the
// first tier that yields tables.
type Cascade struct {
	OCRIfNeeded bool

	grid   Strategy
	stream Strategy
	ocr    Strategy
}

// NewCascade builds the standard three-tier cascade.
func NewCascade(ocrIfNeeded bool) *Cascade {
	return &Cascade{
		OCRIfNeeded: ocrIfNeeded,
		grid:        collectGridTables,
		stream:      collectStreamTables,
		ocr:         collectOCRTables,
	}
}

// CollectTables runs the cascade over one document. Tier failures are logged
// and the cascade advances; finding no tables at all returns an empty slice.
func (c *Cascade) CollectTables(path string) []schema.RawTable {
	tables, err := c.grid(path)
	if err != nil {
		logger.Debugf("discovery: grid detection failed: %v", err)
		tables = nil
	}

	if len(tables) == 0 {
		tables, err = c.stream(path)
		if err != nil {
			logger.Errorf("discovery: text-layout detection failed: %v", err)
			tables = nil
		}
	}

	if len(tables) == 0 && c.OCRIfNeeded {
		logger.Printf("discovery: no tables found, running OCR on %s", path)
		tables, err = c.ocr(path)
		if err != nil {
			logger.Errorf("discovery: OCR failed: %v", err)
			tables = nil
		}
	}

	return tables
}
