// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package chunk turns canonical records into retrieval units for the
// semantic index: row-level units for individual tasks, summary-level units
// per building group, and rule units for regulatory circulars.
package chunk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/proplens/internal/schema"
)

// UnspecifiedGroup buckets records that carry no grouping key.
const UnspecifiedGroup = "UNSPECIFIED"

// Summary holds per-building aggregate statistics.
type Summary struct {
	Building          string
	Tasks             []schema.TaskRecord
	NumTasks          int
	TotalDurationDays int
	Longest           schema.TaskRecord
}

// Unit is one retrieval unit: opaque text, flat metadata and a generated id.
type Unit struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// AggregateByBuilding buckets records by building and computes count, total
// duration and the longest task per group. Duration ties go to the first
// record encountered in iteration order.
func AggregateByBuilding(records []schema.TaskRecord) map[string]Summary {
	groups := make(map[string][]schema.TaskRecord)
	var order []string
	for _, r := range records {
		b := r.Building
		if b == "" {
			b = UnspecifiedGroup
		}
		if _, seen := groups[b]; !seen {
			order = append(order, b)
		}
		groups[b] = append(groups[b], r)
	}

	summaries := make(map[string]Summary, len(groups))
	for _, b := range order {
		rows := groups[b]
		total := 0
		longest := rows[0]
		for _, r := range rows {
			total += r.DurationDays
			if r.DurationDays > longest.DurationDays {
				longest = r
			}
		}
		summaries[b] = Summary{
			Building:          b,
			Tasks:             rows,
			NumTasks:          len(rows),
			TotalDurationDays: total,
			Longest:           longest,
		}
	}
	return summaries
}

// BuildRetrievalUnits emits one row-level unit per record and one
// summary-level unit per group.
func BuildRetrievalUnits(records []schema.TaskRecord, summaries map[string]Summary) (rows []Unit, sums []Unit) {
	for _, t := range records {
		var b strings.Builder
		fmt.Fprintf(&b, "Task %d: %s. Duration: %d days.", t.TaskID, t.TaskName, t.DurationDays)
		if t.StartDate != nil {
			fmt.Fprintf(&b, " Start: %s.", t.StartDate.Format("2006-01-02"))
		}
		if t.FinishDate != nil {
			fmt.Fprintf(&b, " Finish: %s.", t.FinishDate.Format("2006-01-02"))
		}

		building := t.Building
		if building == "" {
			building = "UNKNOWN"
		}
		rows = append(rows, Unit{
			ID:   uuid.New().String(),
			Text: b.String(),
			Metadata: map[string]string{
				"type":     "task",
				"building": building,
				"task_id":  fmt.Sprintf("%d", t.TaskID),
				"source":   "Schedule",
			},
		})
	}

	// Deterministic summary order keeps re-ingestion diffs readable.
	buildings := make([]string, 0, len(summaries))
	for b := range summaries {
		buildings = append(buildings, b)
	}
	sort.Strings(buildings)

	for _, building := range buildings {
		s := summaries[building]
		lines := []string{
			fmt.Sprintf("%s — Summary:", building),
			fmt.Sprintf("Total tasks: %d", s.NumTasks),
			fmt.Sprintf("Total duration: %d days", s.TotalDurationDays),
			fmt.Sprintf("Longest task: %s (%d days)", s.Longest.TaskName, s.Longest.DurationDays),
		}

		byDuration := append([]schema.TaskRecord{}, s.Tasks...)
		sort.SliceStable(byDuration, func(i, j int) bool {
			return byDuration[i].DurationDays > byDuration[j].DurationDays
		})
		for _, t := range byDuration {
			lines = append(lines, fmt.Sprintf("- %s (%d days)", t.TaskName, t.DurationDays))
		}

		sums = append(sums, Unit{
			ID:   uuid.New().String(),
			Text: strings.Join(lines, "\n"),
			Metadata: map[string]string{
				"type":     "summary",
				"building": building,
				"source":   "Schedule",
			},
		})
	}

	return rows, sums
}

// BuildRuleUnits emits one unit per regulatory rule.
func BuildRuleUnits(rules []schema.RuleRecord) []Unit {
	units := make([]Unit, 0, len(rules))
	for _, r := range rules {
		text := fmt.Sprintf("Rule %s: %s. Measurement Basis: %s", r.RuleID, r.RuleSummary, r.MeasurementBasis)
		units = append(units, Unit{
			ID:   uuid.New().String(),
			Text: text,
			Metadata: map[string]string{
				"type":    "rule",
				"rule_id": r.RuleID,
				"source":  "URA-Circular",
			},
		})
	}
	return units
}

// SanitizeMetadata replaces empty metadata values; the index rejects them.
func SanitizeMetadata(meta map[string]string) map[string]string {
	clean := make(map[string]string, len(meta))
	for k, v := range meta {
		if v == "" {
			v = "UNKNOWN"
		}
		clean[k] = v
	}
	return clean
}
