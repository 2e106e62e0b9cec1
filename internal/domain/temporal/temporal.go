// Package temporal computes the calendar-bound analytics: daily-maximum
// speaker credit ("dragon king"), night activity classification and
// streaks ("night owl"), continuous check-in streaks, and
// days-since-last-message ("diving") rankings.
//
// All calendar math happens in an explicit *time.Location and against an
// explicit "now" instant so every function stays deterministic under a
// fixed Options value.
package temporal

import (
	"fmt"
	"sort"
	"time"
)

const (
	secondsPerDay  = 86400
	minutesPerHour = 60
	dateLayout     = "2006-01-02"
	nightStartHour = 23
	nightEndHour   = 5 // exclusive
)

// Options configures the temporal analytics.
type Options struct {
	// Location for calendar-date attribution. Defaults to time.Local.
	Location *time.Location
	// Now anchors "today" for current-streak and diving computations.
	// Defaults to time.Now() when zero.
	Now time.Time
}

// DefaultOptions returns Options with the local timezone and a zero Now
// (resolved to wall-clock time at use).
func DefaultOptions() Options {
	return Options{Location: time.Local}
}

func (o Options) normalized() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// day is a calendar date as days since the unix epoch, computed from the
// local date components. Consecutive dates differ by exactly 1
// regardless of DST transitions.
type day int64

func (o Options) dayOf(ts int64) day {
	t := time.Unix(ts, 0).In(o.Location)
	return civilDay(t.Date())
}

func civilDay(year int, month time.Month, dom int) day {
	return day(time.Date(year, month, dom, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

func (d day) String() string {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC().Format(dateLayout)
}

// minuteOfDay returns minutes since local midnight for ts.
func (o Options) minuteOfDay(ts int64) int {
	t := time.Unix(ts, 0).In(o.Location)
	return t.Hour()*minutesPerHour + t.Minute()
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/minutesPerHour, m%minutesPerHour)
}

// longestRun returns the longest run of consecutive days in the sorted
// slice along with its bounds. A gap of exactly one day continues the
// run. days must be sorted ascending and deduplicated.
func longestRun(days []day) (length int, start, end day) {
	if len(days) == 0 {
		return 0, 0, 0
	}
	bestLen, bestStart := 1, days[0]
	curLen, curStart := 1, days[0]
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]+1 {
			curLen++
		} else {
			curLen, curStart = 1, days[i]
		}
		if curLen > bestLen {
			bestLen, bestStart = curLen, curStart
		}
	}
	return bestLen, bestStart, bestStart + day(bestLen-1)
}

// trailingRun returns the length of the consecutive run ending at the
// last element of the sorted, deduplicated slice.
func trailingRun(days []day) int {
	if len(days) == 0 {
		return 0
	}
	n := 1
	for i := len(days) - 1; i > 0; i-- {
		if days[i-1] != days[i]-1 {
			break
		}
		n++
	}
	return n
}

// sortedDays converts a day set to a sorted slice.
func sortedDays(set map[day]bool) []day {
	out := make([]day, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// memberIDs returns the map keys ascending for deterministic iteration.
func memberIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
