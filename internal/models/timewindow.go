package models

import (
	"encoding/json"
	"sort"
)

// Minutes in a day; all window bounds are minutes since midnight.
const DayMinutes = 1440

// TimeWindow is a half-open service interval in minutes since midnight.
type TimeWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FullDay is the default window applied when an order carries none.
func FullDay() TimeWindow { return TimeWindow{Start: 0, End: DayMinutes} }

// windowRecord is the object-shaped variant accepted in raw input.
type windowRecord struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

// ParseTimeWindows normalizes the raw time_windows column into a sorted,
// non-empty window list. Accepted shapes:
//
//	[480, 660]                          flat pair (legacy)
//	[[480, 660], [840, 1020]]           list of pairs
//	[{"start":480,"end":660}, ...]      list of records
//	null / [] / missing                 full day
//
// Elements of an unrecognized shape fall back to the full-day window, so the
// result is always usable.
func ParseTimeWindows(raw []byte) []TimeWindow {
	if len(raw) == 0 {
		return []TimeWindow{FullDay()}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || len(elems) == 0 {
		return []TimeWindow{FullDay()}
	}

	// Flat pair: exactly two scalar ints.
	if len(elems) == 2 {
		var start, end int
		if json.Unmarshal(elems[0], &start) == nil && json.Unmarshal(elems[1], &end) == nil {
			return []TimeWindow{{Start: start, End: end}}
		}
	}

	windows := make([]TimeWindow, 0, len(elems))
	for _, el := range elems {
		windows = append(windows, parseWindowElement(el))
	}

	sort.SliceStable(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return windows
}

func parseWindowElement(el json.RawMessage) TimeWindow {
	var pair []int
	if err := json.Unmarshal(el, &pair); err == nil && len(pair) >= 2 {
		return TimeWindow{Start: pair[0], End: pair[1]}
	}

	var rec windowRecord
	if err := json.Unmarshal(el, &rec); err == nil && (rec.Start != nil || rec.End != nil) {
		w := FullDay()
		if rec.Start != nil {
			w.Start = *rec.Start
		}
		if rec.End != nil {
			w.End = *rec.End
		}
		return w
	}

	return FullDay()
}
