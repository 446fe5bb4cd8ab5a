package schedule

import (
	"sort"
	"time"
)

// TimeRange is a span of time, used both for occupied slots and for the
// free gaps computed between them.
type TimeRange struct {
	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Minutes returns the whole-minute length of the range.
func (r TimeRange) Minutes() int {
	return int(r.Duration().Minutes())
}

// FreeGaps computes the maximal unoccupied ranges inside the window
// [windowStart, windowEnd) that are at least minDurationMinutes long.
//
// The occupied input does not need to be sorted and may contain overlapping
// entries; it is never modified. Ranges that merely touch (one ends exactly
// when the next starts) are treated as distinct, not merged.
func FreeGaps(windowStart, windowEnd time.Time, minDurationMinutes int, occupied []TimeRange) []TimeRange {
	busy := mergeOverlapping(sortedByStart(occupied))

	var gaps []TimeRange
	cursor := windowStart
	for _, b := range busy {
		if cursor.Before(b.Start) {
			gaps = append(gaps, TimeRange{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(windowEnd) {
		gaps = append(gaps, TimeRange{Start: cursor, End: windowEnd})
	}

	var filtered []TimeRange
	for _, g := range gaps {
		if g.Minutes() >= minDurationMinutes {
			filtered = append(filtered, g)
		}
	}

	// Safety pass: the sweep already yields sorted, disjoint gaps, but the
	// returned list must hold that invariant no matter what the filter left.
	return mergeOverlapping(sortedByStart(filtered))
}

// sortedByStart returns a copy of ranges ordered by start time ascending.
func sortedByStart(ranges []TimeRange) []TimeRange {
	out := make([]TimeRange, len(ranges))
	copy(out, ranges)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// mergeOverlapping collapses overlapping ranges into single spans covering
// both. Input must be sorted by start time. Touching ranges (end == next
// start) are left separate. A new list is returned.
func mergeOverlapping(sorted []TimeRange) []TimeRange {
	if len(sorted) == 0 {
		return nil
	}

	merged := []TimeRange{sorted[0]}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if last.End.After(next.Start) {
			last.End = next.End
			continue
		}
		merged = append(merged, next)
	}
	return merged
}
