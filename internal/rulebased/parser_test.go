// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package rulebased

import (
	"testing"
	"time"

	"github.com/proplens/internal/schema"
)

func TestParseTableRows_EndToEnd(t *testing.T) {
	table := schema.RawTable{
		{"ID", "Task", "Dur", "Start", "Finish"},
		{"1", "Excavation", "10d", "01-Jan-24", "10-Jan-24"},
	}

	tasks := ParseTableRows(table, 1)
	if len(tasks) != 1 {
		t.Fatalf("expected exactly 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.TaskID != 1 || got.TaskName != "Excavation" || got.DurationDays != 10 {
		t.Errorf("unexpected record: %+v", got)
	}
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantFinish := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if got.StartDate == nil || !got.StartDate.Equal(wantStart) {
		t.Errorf("start date = %v, want %v", got.StartDate, wantStart)
	}
	if got.FinishDate == nil || !got.FinishDate.Equal(wantFinish) {
		t.Errorf("finish date = %v, want %v", got.FinishDate, wantFinish)
	}
}

func TestParseTableRows_SkipsBadRows(t *testing.T) {
	table := schema.RawTable{
		{"abc", "No id here", "5d"},          // id not an integer
		{"123456", "Merged cell id", "5d"},   // id beyond the safe bound
		{"7", "12345", "5d"},                 // numeric-only name
		{"8", "Task", "5d"},                  // header echo as name
		{"", "", ""},                         // empty row
		{"9", "Real work package", "3 days"}, // good
	}

	tasks := ParseTableRows(table, 1)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 surviving task, got %d", len(tasks))
	}
	if tasks[0].TaskID != 9 || tasks[0].DurationDays != 3 {
		t.Errorf("unexpected record: %+v", tasks[0])
	}
}

func TestParseTableRows_ShortRows(t *testing.T) {
	table := schema.RawTable{
		{"4", "Only id and name"},
	}
	tasks := ParseTableRows(table, 1)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.DurationDays != 0 || got.StartDate != nil || got.FinishDate != nil {
		t.Errorf("missing columns must default: %+v", got)
	}
}

func TestParseTableRows_UnparsableDatesAreNil(t *testing.T) {
	table := schema.RawTable{
		{"2", "Roof works", "5d", "sometime soon", "later"},
	}
	tasks := ParseTableRows(table, 1)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].StartDate != nil || tasks[0].FinishDate != nil {
		t.Errorf("unparsable dates should be nil: %+v", tasks[0])
	}
}

func TestParseTextBlock(t *testing.T) {
	text := "Page header noise\n" +
		"12 Structural steel erection 15d 01-02-20 01-17-20\n" +
		"13 Facade installation 30 d\n" +
		"no match line\n"

	tasks := ParseTextBlock(text, 1)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].TaskID != 12 || tasks[0].TaskName != "Structural steel erection" || tasks[0].DurationDays != 15 {
		t.Errorf("unexpected first record: %+v", tasks[0])
	}
	if tasks[0].StartDate != nil {
		t.Error("OCR text parsing must leave dates nil")
	}
	if tasks[1].TaskID != 13 || tasks[1].DurationDays != 30 {
		t.Errorf("unexpected second record: %+v", tasks[1])
	}
}
