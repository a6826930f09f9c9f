// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CandidateFromMap converts one decoded model-output item into a Candidate.
// Model responses are not trusted to type fields consistently: ids arrive as
// numbers or digit strings, durations sometimes as strings with units. Every
// field is coerced; validation happens later, at merge time.
func CandidateFromMap(m map[string]interface{}, source string) Candidate {
	return Candidate{
		TaskID:       toNumber(m["task_id"]),
		TaskName:     toString(m["task_name"]),
		DurationDays: toNumber(m["duration_days"]),
		StartDate:    toString(m["start_date"]),
		FinishDate:   toString(m["finish_date"]),
		Source:       source,
	}
}

// CandidatesFromList converts a decoded "tasks" JSON array, skipping items
// that are not objects.
func CandidatesFromList(items []interface{}, source string) []Candidate {
	out := make([]Candidate, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, CandidateFromMap(m, source))
	}
	return out
}

func toNumber(v interface{}) json.Number {
	switch x := v.(type) {
	case nil:
		return ""
	case json.Number:
		return x
	case float64:
		return json.Number(strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		return json.Number(strconv.Itoa(x))
	case string:
		return json.Number(x)
	default:
		return ""
	}
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
