// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package tableparse

import (
	"strings"

	"github.com/proplens/internal/schema"
	"github.com/proplens/internal/textutil"
)

// logicalColumns is the shape every normalized row is projected onto:
// id, task, duration, start, end.
const logicalColumns = 5

// headerScanRows limits how deep into a table the header search goes.
const headerScanRows = 5

// NormalizeForModel reduces a raw table to the five logical columns the
// model prompt declares. A header row is located heuristically; when both an
// id and a task column can be mapped, every following row is re-projected
// onto the logical order regardless of the table's original column count or
// order. Without a recognizable header, rows are truncated to the first five
// cells as-is.
func NormalizeForModel(table schema.RawTable) [][]string {
	rows := make([][]string, len(table))
	for i, row := range table {
		cleaned := make([]string, len(row))
		for j, c := range row {
			cleaned[j] = textutil.CleanText(c)
		}
		rows[i] = cleaned
	}

	header, headerIdx := findHeader(rows)
	if header != nil {
		if indices, ok := mapColumns(header); ok {
			norm := make([][]string, 0, len(rows)-headerIdx-1)
			for _, r := range rows[headerIdx+1:] {
				projected := make([]string, logicalColumns)
				for out, src := range indices {
					if src >= 0 && src < len(r) {
						projected[out] = r[src]
					}
				}
				norm = append(norm, projected)
			}
			return norm
		}
	}

	norm := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) > logicalColumns {
			r = r[:logicalColumns]
		}
		norm[i] = r
	}
	return norm
}

// findHeader scans the leading rows for one that mentions an id column and a
// task/description column.
func findHeader(rows [][]string) ([]string, int) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		combined := strings.ToLower(strings.Join(rows[i], " "))
		if strings.Contains(combined, "id") &&
			(strings.Contains(combined, "task") || strings.Contains(combined, "description")) {
			return rows[i], i
		}
	}
	return nil, 0
}

// mapColumns infers the source index of each logical column by substring
// matching the header cells. Mapping succeeds only when both the id and the
// task column were located; -1 marks a logical column with no source.
func mapColumns(header []string) ([logicalColumns]int, bool) {
	indices := [logicalColumns]int{-1, -1, -1, -1, -1}
	for idx, h := range header {
		lh := strings.ToLower(h)
		switch {
		case strings.Contains(lh, "id"):
			if indices[0] == -1 {
				indices[0] = idx
			}
		case strings.Contains(lh, "task") || strings.Contains(lh, "activity"):
			if indices[1] == -1 {
				indices[1] = idx
			}
		case strings.Contains(lh, "dur"):
			if indices[2] == -1 {
				indices[2] = idx
			}
		case strings.Contains(lh, "start"):
			if indices[3] == -1 {
				indices[3] = idx
			}
		case strings.Contains(lh, "finish") || strings.Contains(lh, "end"):
			if indices[4] == -1 {
				indices[4] = idx
			}
		}
	}
	if indices[0] == -1 || indices[1] == -1 {
		return indices, false
	}
	return indices, true
}
