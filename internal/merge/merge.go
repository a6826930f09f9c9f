// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package merge reconciles candidate records from the rule-based and
// model-assisted tracks into one canonical record per task id.
package merge

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/proplens/internal/schema"
	"github.com/proplens/internal/textutil"
)

// entry is the reconciled state for one task id while a merge pass runs.
type entry struct {
	name     string
	duration int
	start    *time.Time
	finish   *time.Time
}

// MergeTasks deduplicates candidates keyed by task id and applies the
// field-level precedence rules: a strictly longer cleaned name replaces the
// stored one, and empty start/finish/duration values are backfilled from
// later candidates. Ties are broken first-seen-wins, so a later equal-length
// name or an equally-present value never overwrites. Output is ordered by
// ascending id.
func MergeTasks(candidates []schema.Candidate) []schema.TaskRecord {
	final := make(map[int]*entry)

	for _, c := range candidates {
		id, ok := candidateID(c)
		if !ok {
			// Identity is mandatory for merge.
			continue
		}

		// Model-produced dates arrive as raw strings; the canonical
		// record type does not accept those, so they are parsed here.
		start := c.Start
		if start == nil && c.StartDate != "" {
			start = textutil.ParseDateFlexible(c.StartDate)
		}
		finish := c.Finish
		if finish == nil && c.FinishDate != "" {
			finish = textutil.ParseDateFlexible(c.FinishDate)
		}
		duration := candidateDuration(c)
		name := textutil.CleanText(c.TaskName)

		e, exists := final[id]
		if !exists {
			final[id] = &entry{
				name:     name,
				duration: duration,
				start:    start,
				finish:   finish,
			}
			continue
		}

		if len(name) > len(e.name) {
			e.name = name
		}
		if e.start == nil && start != nil {
			e.start = start
		}
		if e.finish == nil && finish != nil {
			e.finish = finish
		}
		if e.duration == 0 && duration != 0 {
			e.duration = duration
		}
	}

	ids := make([]int, 0, len(final))
	for id := range final {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	records := make([]schema.TaskRecord, 0, len(ids))
	for _, id := range ids {
		e := final[id]
		records = append(records, schema.TaskRecord{
			TaskID:       id,
			TaskName:     e.name,
			DurationDays: e.duration,
			StartDate:    e.start,
			FinishDate:   e.finish,
		})
	}
	return records
}

// candidateID coerces the loosely-typed id field to a positive integer.
func candidateID(c schema.Candidate) (int, bool) {
	s := strings.TrimSpace(c.TaskID.String())
	if s == "" {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		// Model output occasionally carries a float-typed id.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		id = int(f)
	}
	if id <= 0 {
		return 0, false
	}
	return id, true
}

func candidateDuration(c schema.Candidate) int {
	s := strings.TrimSpace(c.DurationDays.String())
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	// Tolerate unit-suffixed strings like "10 days".
	return textutil.ParseDuration(s)
}
