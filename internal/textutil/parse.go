// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxTaskID rejects merged/concatenated table cells that would otherwise
// parse as a spuriously huge id.
const maxTaskID = 99999

var (
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	durationDays = regexp.MustCompile(`(\d+)\s*d`)
	digitRun     = regexp.MustCompile(`\d+`)
)

// dateFormats is ordered most-specific/common first so that ambiguous
// strings resolve the same way every time.
var dateFormats = []string{
	"2-Jan-06",
	"2-Jan-2006",
	"2006-01-02",
	"1/2/06",
	"1/2/2006",
	"2.1.06",
}

// ParseIntSafe parses identifier integers. The string must be digits only
// after trimming, and values above 99999 are rejected.
func ParseIntSafe(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !digitsOnly.MatchString(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v > maxTaskID {
		return 0, false
	}
	return v, true
}

// ParseDuration extracts integer days from strings like "10 days", "10d" or
// a bare "10". Returns 0 when nothing matches.
func ParseDuration(s string) int {
	if s == "" {
		return 0
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if m := durationDays.FindStringSubmatch(s); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
		return 0
	}
	if m := digitRun.FindString(s); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			return v
		}
	}
	return 0
}

// ParseDateFlexible tries a fixed list of date layouts after scrubbing common
// OCR noise (stray pipes, lowercase l read for the digit 1). Returns nil when
// no layout matches.
func ParseDateFlexible(s string) *time.Time {
	if s == "" {
		return nil
	}
	s = CleanText(s)
	s = strings.ReplaceAll(s, "|", "")
	s = strings.ReplaceAll(s, "l", "1")
	s = strings.TrimSpace(s)

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
