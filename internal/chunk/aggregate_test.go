// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunk

import (
	"strings"
	"testing"
	"time"

	"github.com/proplens/internal/schema"
)

func rec(id int, name string, dur int, building string) schema.TaskRecord {
	return schema.TaskRecord{TaskID: id, TaskName: name, DurationDays: dur, Building: building}
}

func TestAggregateByBuilding(t *testing.T) {
	records := []schema.TaskRecord{
		rec(1, "Excavation", 5, "A"),
		rec(2, "Piling", 10, "A"),
		rec(3, "Fit-out", 3, "B"),
	}

	summaries := AggregateByBuilding(records)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(summaries))
	}

	a := summaries["A"]
	if a.NumTasks != 2 || a.TotalDurationDays != 15 {
		t.Errorf("group A: %+v", a)
	}
	if a.Longest.TaskID != 2 {
		t.Errorf("longest in A should be id 2, got %d", a.Longest.TaskID)
	}
	b := summaries["B"]
	if b.NumTasks != 1 || b.TotalDurationDays != 3 {
		t.Errorf("group B: %+v", b)
	}
}

func TestAggregateByBuilding_SentinelGroup(t *testing.T) {
	summaries := AggregateByBuilding([]schema.TaskRecord{rec(1, "Orphan", 2, "")})
	s, ok := summaries[UnspecifiedGroup]
	if !ok {
		t.Fatalf("missing sentinel group, got %v", summaries)
	}
	if s.NumTasks != 1 {
		t.Errorf("got %+v", s)
	}
}

func TestAggregateByBuilding_LongestTieFirstWins(t *testing.T) {
	summaries := AggregateByBuilding([]schema.TaskRecord{
		rec(1, "First", 7, "A"),
		rec(2, "Second", 7, "A"),
	})
	if summaries["A"].Longest.TaskID != 1 {
		t.Errorf("tie must keep first-encountered record, got id %d", summaries["A"].Longest.TaskID)
	}
}

func TestBuildRetrievalUnits(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []schema.TaskRecord{
		{TaskID: 1, TaskName: "Excavation", DurationDays: 10, StartDate: &start, Building: "A"},
		rec(2, "Piling", 20, "A"),
	}
	summaries := AggregateByBuilding(records)

	rows, sums := BuildRetrievalUnits(records, summaries)
	if len(rows) != 2 {
		t.Fatalf("expected 2 row units, got %d", len(rows))
	}
	if len(sums) != 1 {
		t.Fatalf("expected 1 summary unit, got %d", len(sums))
	}

	if !strings.Contains(rows[0].Text, "Task 1: Excavation") || !strings.Contains(rows[0].Text, "Start: 2024-01-01") {
		t.Errorf("row text: %q", rows[0].Text)
	}
	if strings.Contains(rows[1].Text, "Start:") {
		t.Errorf("absent dates must not appear: %q", rows[1].Text)
	}
	if rows[0].Metadata["type"] != "task" || rows[0].Metadata["task_id"] != "1" {
		t.Errorf("row metadata: %v", rows[0].Metadata)
	}

	sum := sums[0]
	if sum.Metadata["type"] != "summary" || sum.Metadata["building"] != "A" {
		t.Errorf("summary metadata: %v", sum.Metadata)
	}
	if !strings.Contains(sum.Text, "Total tasks: 2") || !strings.Contains(sum.Text, "Total duration: 30 days") {
		t.Errorf("summary text: %q", sum.Text)
	}
	if !strings.Contains(sum.Text, "Longest task: Piling (20 days)") {
		t.Errorf("summary text: %q", sum.Text)
	}
	// Task list sorted by descending duration.
	if strings.Index(sum.Text, "- Piling") > strings.Index(sum.Text, "- Excavation") {
		t.Errorf("tasks not sorted by duration:\n%s", sum.Text)
	}

	seen := map[string]bool{}
	for _, u := range append(rows, sums...) {
		if u.ID == "" || seen[u.ID] {
			t.Errorf("unit ids must be unique and non-empty, got %q", u.ID)
		}
		seen[u.ID] = true
	}
}

func TestBuildRuleUnits(t *testing.T) {
	units := BuildRuleUnits([]schema.RuleRecord{
		{RuleID: "GFA-1", RuleSummary: "Balconies count toward GFA", MeasurementBasis: "Outer wall face"},
	})
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	u := units[0]
	if !strings.Contains(u.Text, "Rule GFA-1") || u.Metadata["type"] != "rule" {
		t.Errorf("got %+v", u)
	}
}

func TestSanitizeMetadata(t *testing.T) {
	out := SanitizeMetadata(map[string]string{"building": "", "type": "task"})
	if out["building"] != "UNKNOWN" || out["type"] != "task" {
		t.Errorf("got %v", out)
	}
}

func TestTextChunker(t *testing.T) {
	c := NewTextChunker(100, 0)
	text := strings.Repeat("This is a sentence about regulatory floor area. ", 10)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch) > 100 {
			t.Errorf("chunk %d exceeds window: %d chars", i, len(ch))
		}
	}
	if c.Split("") != nil {
		t.Error("empty text must yield no chunks")
	}
}
