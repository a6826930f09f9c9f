// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package textutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonNameChars  = regexp.MustCompile(`^[\d\W]+$`)
)

// headerTokens are cell values that are table headers echoed into data rows
// by the extraction layer. They must never become task names.
var headerTokens = map[string]bool{
	"task name":   true,
	"task":        true,
	"name":        true,
	"activity":    true,
	"description": true,
}

// CleanText collapses whitespace runs to single spaces, strips newlines and
// tabs and trims. Empty input yields an empty string.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// CleanTaskName sanitizes a candidate task name and reports whether it is
// usable. Extraction noise frequently yields header echoes, numeric-only
// garbage, or absurdly long run-together cells; all of those are rejected.
func CleanTaskName(name string) (string, bool) {
	name = CleanText(name)
	if name == "" {
		return "", false
	}
	if len(name) > 200 {
		return "", false
	}
	if nonNameChars.MatchString(name) {
		return "", false
	}
	if headerTokens[strings.ToLower(name)] {
		return "", false
	}
	return name, true
}
