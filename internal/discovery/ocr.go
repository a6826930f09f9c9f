// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package discovery

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/rulebased"
	"github.com/proplens/internal/schema"
)

// collectOCRTables rasterizes each page, runs optical recognition, and
// synthesizes pseudo-tables from lines that match the id/name/duration
// pattern. Start and finish cells are left blank: line-based OCR text does
// not separate date columns reliably enough to trust.
func collectOCRTables(path string) ([]schema.RawTable, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for OCR: %w", err)
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()

	var tables []schema.RawTable
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			logger.Warnf("discovery: failed to rasterize page %d: %v", i+1, err)
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			logger.Warnf("discovery: failed to encode page %d: %v", i+1, err)
			continue
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			logger.Warnf("discovery: OCR rejected page %d: %v", i+1, err)
			continue
		}
		text, err := client.Text()
		if err != nil {
			logger.Warnf("discovery: OCR failed on page %d: %v", i+1, err)
			continue
		}

		parsed := rulebased.ParseTextBlock(text, i+1)
		if len(parsed) == 0 {
			continue
		}
		table := make(schema.RawTable, 0, len(parsed))
		for _, t := range parsed {
			table = append(table, []string{
				strconv.Itoa(t.TaskID),
				t.TaskName,
				strconv.Itoa(t.DurationDays),
				"",
				"",
			})
		}
		tables = append(tables, table)
	}
	return tables, nil
}
