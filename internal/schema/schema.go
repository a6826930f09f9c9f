// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package schema

import (
	"encoding/json"
	"strconv"
	"time"
)

// TaskRecord is a finalized schedule task. Records only exist in this form
// after they have passed name/id validation and the merge pass; at most one
// record per task id survives a merge.
type TaskRecord struct {
	TaskID       int        `json:"task_id"`
	TaskName     string     `json:"task_name"`
	DurationDays int        `json:"duration_days"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	FinishDate   *time.Time `json:"finish_date,omitempty"`
	Building     string     `json:"building,omitempty"`
}

// RuleRecord is a single extracted regulatory rule. Rules are not merged;
// duplicate ids are left for the loader to ignore.
type RuleRecord struct {
	RuleID           string `json:"rule_id"`
	RuleSummary      string `json:"rule_summary"`
	MeasurementBasis string `json:"measurement_basis"`
}

// RawTable is the output of one discovery strategy: rows of text cells with
// no inherent schema. Rows may be jagged.
type RawTable [][]string

// Candidate is a loosely-typed extraction result pending merge. The two
// parser tracks disagree on types: model output carries dates as raw strings
// and ids as JSON numbers, while rule-based output is already parsed. Both
// shapes fit here; the merge engine performs the validating conversion.
type Candidate struct {
	TaskID       json.Number `json:"task_id"`
	TaskName     string      `json:"task_name"`
	DurationDays json.Number `json:"duration_days"`
	StartDate    string      `json:"start_date"`
	FinishDate   string      `json:"finish_date"`

	// Start/Finish are set by producers that already parsed the dates
	// (the rule-based track). When set they take precedence over the
	// raw StartDate/FinishDate strings.
	Start  *time.Time `json:"-"`
	Finish *time.Time `json:"-"`

	// Source tags which track produced this candidate ("rule", "llm",
	// "vision"). Informational only.
	Source string `json:"-"`
}

// CandidateFromTask converts a validated TaskRecord into the transitional
// candidate shape so both tracks can flow through the same merge.
func CandidateFromTask(t TaskRecord, source string) Candidate {
	return Candidate{
		TaskID:       json.Number(strconv.Itoa(t.TaskID)),
		TaskName:     t.TaskName,
		DurationDays: json.Number(strconv.Itoa(t.DurationDays)),
		Start:        t.StartDate,
		Finish:       t.FinishDate,
		Source:       source,
	}
}
