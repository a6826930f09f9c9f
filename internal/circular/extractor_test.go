// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package circular

import (
	"testing"
)

func TestRuleFromMap_Defaults(t *testing.T) {
	r := ruleFromMap(map[string]interface{}{
		"rule_summary": "Covered walkways are excluded",
	})
	if r.RuleID != "Unknown" {
		t.Errorf("missing id must default, got %q", r.RuleID)
	}
	if r.MeasurementBasis != "N/A" {
		t.Errorf("missing basis must default, got %q", r.MeasurementBasis)
	}
	if r.RuleSummary != "Covered walkways are excluded" {
		t.Errorf("got %q", r.RuleSummary)
	}
}

func TestRuleFromMap_NonStringID(t *testing.T) {
	r := ruleFromMap(map[string]interface{}{
		"rule_id":           float64(12),
		"rule_summary":      "Numeric id",
		"measurement_basis": "Wall face",
	})
	if r.RuleID != "12" {
		t.Errorf("numeric id must be stringified, got %q", r.RuleID)
	}
}
