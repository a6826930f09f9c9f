// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/proplens/internal/schema"
)

type fakeDiscovery struct {
	tables []schema.RawTable
}

func (f *fakeDiscovery) CollectTables(string) []schema.RawTable { return f.tables }

type fakeParser struct {
	candidates []schema.Candidate
}

func (f *fakeParser) ParseTable(context.Context, schema.RawTable, int) []schema.Candidate {
	return f.candidates
}

type fakeVision struct {
	candidates []schema.Candidate
	err        error
}

func (f *fakeVision) ExtractTasks(context.Context, string) ([]schema.Candidate, error) {
	return f.candidates, f.err
}

func TestExtractSchedule_MergesBothTracks(t *testing.T) {
	disc := &fakeDiscovery{tables: []schema.RawTable{
		{
			{"ID", "Task", "Dur", "Start", "Finish"},
			{"1", "Excavation", "10d", "01-Jan-24", ""},
		},
	}}
	// The model track sees the same task with a richer name and the
	// missing finish date.
	parser := &fakeParser{candidates: []schema.Candidate{
		{TaskID: "1", TaskName: "Excavation of basement", FinishDate: "10-Jan-24", Source: "llm"},
	}}

	e := NewExtractor(disc, parser, nil, false)
	tasks := e.ExtractSchedule(context.Background(), "schedule.pdf")

	if len(tasks) != 1 {
		t.Fatalf("expected 1 merged task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.TaskName != "Excavation of basement" {
		t.Errorf("longer model name should win, got %q", got.TaskName)
	}
	if got.DurationDays != 10 {
		t.Errorf("rule duration should survive, got %d", got.DurationDays)
	}
	if got.StartDate == nil || got.FinishDate == nil {
		t.Errorf("fields not unified across tracks: %+v", got)
	}
}

func TestExtractSchedule_NoTablesIsEmptyNotError(t *testing.T) {
	e := NewExtractor(&fakeDiscovery{}, &fakeParser{}, nil, false)
	if tasks := e.ExtractSchedule(context.Background(), "empty.pdf"); len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}
}

func TestExtractSchedule_VisionMode(t *testing.T) {
	vision := &fakeVision{candidates: []schema.Candidate{
		{TaskID: "3", TaskName: "Roofing", DurationDays: "7", Source: "vision"},
	}}
	e := NewExtractor(&fakeDiscovery{}, &fakeParser{}, vision, true)

	tasks := e.ExtractSchedule(context.Background(), "schedule.pdf")
	if len(tasks) != 1 || tasks[0].TaskID != 3 || tasks[0].DurationDays != 7 {
		t.Errorf("got %+v", tasks)
	}
}

func TestExtractSchedule_VisionFailureYieldsEmpty(t *testing.T) {
	vision := &fakeVision{err: errors.New("cannot open")}
	e := NewExtractor(&fakeDiscovery{}, &fakeParser{}, vision, true)
	if tasks := e.ExtractSchedule(context.Background(), "broken.pdf"); len(tasks) != 0 {
		t.Errorf("expected empty result, got %d", len(tasks))
	}
}

func TestNewExtractor_VisionDisabledWithoutSource(t *testing.T) {
	e := NewExtractor(&fakeDiscovery{}, &fakeParser{}, nil, true)
	if e.UseVision {
		t.Error("vision mode must not enable without a vision source")
	}
}
