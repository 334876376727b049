// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import (
	"fmt"
	"time"
)

// ClockFormatHelp describes the accepted SET CLOCK time token, as date -s
const ClockFormatHelp = "MMDDhhmm[[CC]YY][.ss]"

// AscTime is the layout used to report the controller clock
const AscTime = "Mon Jan _2 15:04:05 2006"

type clockLayout struct {
	layout  string
	hasYear bool
}

// clockLayouts selects the strict layout by token length
var clockLayouts = map[int]clockLayout{
	8:  {"01021504", false},       // MMDDhhmm
	10: {"0102150406", true},      // MMDDhhmmYY
	11: {"01021504.05", false},    // MMDDhhmm.ss
	12: {"010215042006", true},    // MMDDhhmmCCYY
	13: {"0102150406.05", true},   // MMDDhhmmYY.ss
	15: {"010215042006.05", true}, // MMDDhhmmCCYY.ss
}

// ParseClock parses a SET CLOCK time token in local time.
// Tokens without a year take the year from now. Missing seconds are zero.
func ParseClock(token string, now time.Time) (time.Time, error) {
	cl, ok := clockLayouts[len(token)]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q (use %s)", ErrInvalidTimeFormat, token, ClockFormatHelp)
	}

	t, err := time.ParseInLocation(cl.layout, token, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimeFormat, token, err)
	}
	if !cl.hasYear {
		// Parsed in year 0, a leap year; Feb 29 must exist in now's year too
		y := time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
		if y.Month() != t.Month() || y.Day() != t.Day() {
			return time.Time{}, fmt.Errorf("%w: %q: day out of range in %d", ErrInvalidTimeFormat, token, now.Year())
		}
		t = y
	}
	return t, nil
}
