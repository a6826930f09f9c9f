// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
)

var columnSplit = regexp.MustCompile(`\t|\s{2,}`)

// collectStreamTables extracts borderless tables from page text layout using
// go-fitz (MuPDF). Lines whose text splits into two or more columns on tab
// or wide-space runs are treated as table rows; consecutive runs of such
// lines form one table.
func collectStreamTables(path string) ([]schema.RawTable, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var tables []schema.RawTable
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			logger.Warnf("discovery: text extraction failed on page %d: %v", i+1, err)
			continue
		}
		tables = append(tables, streamTablesFromText(pageText)...)
	}
	return tables, nil
}

func streamTablesFromText(text string) []schema.RawTable {
	var tables []schema.RawTable
	var run schema.RawTable
	flush := func() {
		if len(run) >= minGridRows {
			tables = append(tables, run)
		}
		run = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cells := splitColumns(line)
		if len(cells) >= minGridColumns {
			run = append(run, cells)
		} else {
			flush()
		}
	}
	flush()
	return tables
}

func splitColumns(line string) []string {
	parts := columnSplit.Split(strings.TrimSpace(line), -1)
	cells := parts[:0]
	for _, p := range parts {
		if p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}
