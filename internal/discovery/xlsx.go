// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package discovery

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
)

// CollectWorkbookTables treats each non-empty worksheet as one raw table,
// so spreadsheet schedules flow into the same parser tracks as PDF tables.
func CollectWorkbookTables(path string) ([]schema.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var tables []schema.RawTable
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			// Password-protected or corrupt sheets are skipped.
			logger.Warnf("discovery: unable to read sheet %s: %v", sheet, err)
			continue
		}
		var table schema.RawTable
		for _, row := range rows {
			if len(row) > 0 {
				table = append(table, row)
			}
		}
		if len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return tables, nil
}
