// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package find

import (
	"time"

	"github.com/findq/findq/internal/filter"
)

// Anchors carries the walk-lifetime date context: today's date and the most
// recent occurrence of each weekday, captured once when the walker is built
// so a walk spanning midnight stays consistent.
type Anchors struct {
	today    string
	weekdays map[string]string
}

// weekdayNames orders the anchor identifiers Monday through Sunday.
var weekdayNames = [7]string{"mo", "tu", "we", "th", "fr", "sa", "su"}

// NewAnchors resolves the anchors against now. Each weekday anchor is the
// most recent date on or before now that fell on that weekday, so on a
// Tuesday "tu" is today and "we" is six days back.
func NewAnchors(now time.Time) *Anchors {
	a := &Anchors{
		today:    now.Format(dateLayout),
		weekdays: make(map[string]string, len(weekdayNames)),
	}
	for i, name := range weekdayNames {
		// time.Weekday counts Sunday=0..Saturday=6; our table starts Monday.
		target := (i + 1) % 7
		back := (int(now.Weekday()) - target + 7) % 7
		a.weekdays[name] = now.AddDate(0, 0, -back).Format(dateLayout)
	}
	return a
}

// Lookup resolves a date-anchor identifier. The second result is false for
// identifiers that are not anchors.
func (a *Anchors) Lookup(name string) (filter.Value, bool) {
	if name == "today" {
		return filter.Text(a.today), true
	}
	if d, ok := a.weekdays[name]; ok {
		return filter.Text(d), true
	}
	return filter.Null, false
}
