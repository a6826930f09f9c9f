// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
)

const (
	// rowTolerance groups positioned words onto the same visual row.
	rowTolerance = 2.0
	// cellGap is the horizontal whitespace that separates two cells.
	cellGap = 10.0
	// columnTolerance aligns cell start positions across rows.
	columnTolerance = 15.0
	// minGridRows and minGridColumns are the smallest shape accepted as a
	// table rather than incidental alignment.
	minGridRows    = 2
	minGridColumns = 2
)

// cell is a run of words sharing a row, keyed by its left edge.
type cell struct {
	x    float64
	text string
}

// collectGridTables detects column-aligned tables from word positions using
// the pure-Go PDF reader. The reader panics on some malformed content
// streams, so every page is processed behind a recover; a bad page is
// skipped, not fatal.
func collectGridTables(path string) ([]schema.RawTable, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for grid detection: %w", err)
	}
	defer f.Close()

	var tables []schema.RawTable
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		pageTables := gridTablesFromPage(r, pageNum)
		tables = append(tables, pageTables...)
	}
	return tables, nil
}

func gridTablesFromPage(r *pdf.Reader, pageNum int) (tables []schema.RawTable) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warnf("discovery: grid detection panicked on page %d: %v", pageNum, rec)
			tables = nil
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}

	rows := cellRows(page.Content().Text)
	return detectGrids(rows)
}

// cellRows groups positioned words into visual rows of cells.
func cellRows(texts []pdf.Text) [][]cell {
	words := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" {
			words = append(words, t)
		}
	}
	if len(words) == 0 {
		return nil
	}

	// Top of page first, then left to right.
	sort.Slice(words, func(i, j int) bool {
		if words[i].Y != words[j].Y {
			return words[i].Y > words[j].Y
		}
		return words[i].X < words[j].X
	})

	var rows [][]cell
	var current []pdf.Text
	currentY := words[0].Y
	flush := func() {
		if len(current) > 0 {
			rows = append(rows, cellsFromWords(current))
			current = nil
		}
	}
	for _, w := range words {
		if currentY-w.Y > rowTolerance {
			flush()
			currentY = w.Y
		}
		current = append(current, w)
	}
	flush()
	return rows
}

// cellsFromWords merges adjacent fragments and splits on cell-sized gaps.
// Fragments are assumed sorted by X.
func cellsFromWords(words []pdf.Text) []cell {
	var cells []cell
	var b strings.Builder
	start := words[0].X
	prevEnd := words[0].X

	for i, w := range words {
		gap := w.X - prevEnd
		if i > 0 && gap > cellGap {
			cells = append(cells, cell{x: start, text: strings.TrimSpace(b.String())})
			b.Reset()
			start = w.X
		} else if i > 0 && gap > 1.0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.S)
		prevEnd = w.X + w.W
	}
	cells = append(cells, cell{x: start, text: strings.TrimSpace(b.String())})
	return cells
}

// detectGrids scans for consecutive runs of multi-cell rows whose cell start
// positions align, and projects each run onto its shared columns.
func detectGrids(rows [][]cell) []schema.RawTable {
	var tables []schema.RawTable
	var run [][]cell
	flush := func() {
		if t := projectRun(run); t != nil {
			tables = append(tables, t)
		}
		run = nil
	}
	for _, row := range rows {
		if len(row) >= minGridColumns {
			run = append(run, row)
			continue
		}
		flush()
	}
	flush()
	return tables
}

// projectRun builds the column set for a run of rows and maps every cell to
// its nearest column. Runs too small, or without enough shared columns, are
// not tables.
func projectRun(run [][]cell) schema.RawTable {
	if len(run) < minGridRows {
		return nil
	}

	var xs []float64
	for _, row := range run {
		for _, c := range row {
			xs = append(xs, c.x)
		}
	}
	sort.Float64s(xs)

	var columns []float64
	for _, x := range xs {
		if len(columns) == 0 || x-columns[len(columns)-1] > columnTolerance {
			columns = append(columns, x)
		}
	}
	if len(columns) < minGridColumns {
		return nil
	}

	table := make(schema.RawTable, 0, len(run))
	for _, row := range run {
		cells := make([]string, len(columns))
		for _, c := range row {
			idx := nearestColumn(columns, c.x)
			if cells[idx] == "" {
				cells[idx] = c.text
			} else {
				cells[idx] += " " + c.text
			}
		}
		table = append(table, cells)
	}
	return table
}

func nearestColumn(columns []float64, x float64) int {
	best := 0
	for i := range columns {
		if abs(x-columns[i]) < abs(x-columns[best]) {
			best = i
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
