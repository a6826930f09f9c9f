// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package rulebased converts raw tables into task records using strict
// column-position heuristics. It is the precision-first track: rows that do
// not carry a clean integer id in column 0 and a plausible name in column 1
// are dropped silently, so messy tables under-produce rather than pollute.
package rulebased

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/proplens/internal/schema"
	"github.com/proplens/internal/textutil"
)

// ParseTableRows parses one raw table. Column layout is assumed to be
// id, name, duration, start, finish; trailing columns are optional.
func ParseTableRows(table schema.RawTable, pageNum int) []schema.TaskRecord {
	var tasks []schema.TaskRecord

	rows := make([][]string, len(table))
	for i, row := range table {
		cleaned := make([]string, len(row))
		for j, c := range row {
			cleaned[j] = textutil.CleanText(c)
		}
		rows[i] = cleaned
	}

	// Header heuristic: a leading row whose first cell mentions "id" is not
	// data.
	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && strings.Contains(strings.ToLower(rows[0][0]), "id") {
		start = 1
	}

	for _, r := range rows[start:] {
		if !anyNonEmpty(r) {
			continue
		}

		var id int
		var ok bool
		if len(r) > 0 {
			id, ok = textutil.ParseIntSafe(r[0])
		}
		if !ok || id == 0 {
			continue
		}

		var name string
		if len(r) > 1 {
			name, ok = textutil.CleanTaskName(r[1])
		} else {
			ok = false
		}
		if !ok {
			continue
		}

		task := schema.TaskRecord{
			TaskID:   id,
			TaskName: name,
		}
		if len(r) > 2 {
			task.DurationDays = textutil.ParseDuration(r[2])
		}
		if len(r) > 3 {
			task.StartDate = textutil.ParseDateFlexible(r[3])
		}
		if len(r) > 4 {
			task.FinishDate = textutil.ParseDateFlexible(r[4])
		}
		tasks = append(tasks, task)
	}

	return tasks
}

// taskLine matches "123 Task Name 10d ..." in recognized text.
var taskLine = regexp.MustCompile(`(?i)^(\d+)\s+(.+?)\s+(\d+)\s*d`)

// ParseTextBlock is the OCR fallback parser: it scans recognized text line
// by line for the id/name/duration pattern. Dates are not attempted here
// since line-based OCR output does not reliably separate date columns.
func ParseTextBlock(text string, pageNum int) []schema.TaskRecord {
	var tasks []schema.TaskRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		m := taskLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		dur, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		tasks = append(tasks, schema.TaskRecord{
			TaskID:       id,
			TaskName:     strings.TrimSpace(m[2]),
			DurationDays: dur,
		})
	}
	return tasks
}

func anyNonEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return true
		}
	}
	return false
}
