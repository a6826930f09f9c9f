// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package merge

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/proplens/internal/schema"
)

func cand(id, name string) schema.Candidate {
	return schema.Candidate{TaskID: json.Number(id), TaskName: name}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestMergeTasks_Idempotence(t *testing.T) {
	list := []schema.Candidate{
		{TaskID: "1", TaskName: "Excavation", DurationDays: "10", StartDate: "01-Jan-24"},
		{TaskID: "2", TaskName: "Piling", DurationDays: "20"},
	}

	once := MergeTasks(list)
	twice := MergeTasks(append(append([]schema.Candidate{}, list...), list...))

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging a doubled list must equal merging it once:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if len(once) != 2 {
		t.Fatalf("expected 2 canonical records, got %d", len(once))
	}
}

func TestMergeTasks_LongerNameWins(t *testing.T) {
	out := MergeTasks([]schema.Candidate{cand("1", "A"), cand("1", "Alpha Task")})
	if len(out) != 1 || out[0].TaskName != "Alpha Task" {
		t.Errorf("got %+v", out)
	}

	// Reversed order keeps the longer name too.
	out = MergeTasks([]schema.Candidate{cand("1", "Alpha Task"), cand("1", "A")})
	if len(out) != 1 || out[0].TaskName != "Alpha Task" {
		t.Errorf("reversed order: got %+v", out)
	}
}

func TestMergeTasks_EqualLengthFirstSeenWins(t *testing.T) {
	out := MergeTasks([]schema.Candidate{cand("1", "First"), cand("1", "Later")})
	if out[0].TaskName != "First" {
		t.Errorf("equal-length name must not overwrite, got %q", out[0].TaskName)
	}
}

func TestMergeTasks_DateBackfill(t *testing.T) {
	a := schema.Candidate{TaskID: "1", TaskName: "Task A", Finish: datePtr(2024, 1, 10)}
	b := schema.Candidate{TaskID: "1", TaskName: "Task B", Start: datePtr(2024, 1, 1)}

	out := MergeTasks([]schema.Candidate{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].StartDate == nil || !out[0].StartDate.Equal(*datePtr(2024, 1, 1)) {
		t.Errorf("start not backfilled: %+v", out[0])
	}
	if out[0].FinishDate == nil || !out[0].FinishDate.Equal(*datePtr(2024, 1, 10)) {
		t.Errorf("finish lost during merge: %+v", out[0])
	}
}

func TestMergeTasks_DateBackfillDoesNotOverwrite(t *testing.T) {
	a := schema.Candidate{TaskID: "1", TaskName: "Task A", Start: datePtr(2024, 1, 1)}
	b := schema.Candidate{TaskID: "1", TaskName: "Task B", Start: datePtr(2024, 6, 6)}

	out := MergeTasks([]schema.Candidate{a, b})
	if !out[0].StartDate.Equal(*datePtr(2024, 1, 1)) {
		t.Errorf("present value must not be overwritten: %+v", out[0])
	}
}

func TestMergeTasks_StringDatesParsed(t *testing.T) {
	c := schema.Candidate{TaskID: "5", TaskName: "From model", StartDate: "2024-03-01", FinishDate: "15-Mar-24"}
	out := MergeTasks([]schema.Candidate{c})
	if out[0].StartDate == nil || !out[0].StartDate.Equal(*datePtr(2024, 3, 1)) {
		t.Errorf("ISO string date not parsed: %+v", out[0])
	}
	if out[0].FinishDate == nil || !out[0].FinishDate.Equal(*datePtr(2024, 3, 15)) {
		t.Errorf("abbreviated string date not parsed: %+v", out[0])
	}
}

func TestMergeTasks_DurationBackfill(t *testing.T) {
	out := MergeTasks([]schema.Candidate{
		{TaskID: "1", TaskName: "T", DurationDays: "0"},
		{TaskID: "1", TaskName: "T", DurationDays: "12"},
	})
	if out[0].DurationDays != 12 {
		t.Errorf("zero duration must be backfilled, got %d", out[0].DurationDays)
	}
}

func TestMergeTasks_MissingOrBadIDsDropped(t *testing.T) {
	out := MergeTasks([]schema.Candidate{
		{TaskName: "No id at all"},
		{TaskID: "abc", TaskName: "Junk id"},
		{TaskID: "0", TaskName: "Zero id"},
		{TaskID: "3", TaskName: "Kept"},
	})
	if len(out) != 1 || out[0].TaskID != 3 {
		t.Errorf("got %+v", out)
	}
}

func TestMergeTasks_FloatIDCoerced(t *testing.T) {
	out := MergeTasks([]schema.Candidate{{TaskID: "7.0", TaskName: "Float id"}})
	if len(out) != 1 || out[0].TaskID != 7 {
		t.Errorf("got %+v", out)
	}
}

func TestMergeTasks_CrossTrackDisjointFields(t *testing.T) {
	rule := schema.CandidateFromTask(schema.TaskRecord{
		TaskID: 4, TaskName: "Slab pour", StartDate: datePtr(2024, 2, 1),
	}, "rule")
	model := schema.Candidate{TaskID: "4", TaskName: "Slab pour level 3", FinishDate: "10-Feb-24", Source: "llm"}

	forward := MergeTasks([]schema.Candidate{rule, model})
	backward := MergeTasks([]schema.Candidate{model, rule})

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("disjoint-field merge must be order independent:\n%+v\n%+v", forward, backward)
	}
	got := forward[0]
	if got.TaskName != "Slab pour level 3" || got.StartDate == nil || got.FinishDate == nil {
		t.Errorf("fields not unified: %+v", got)
	}
}
