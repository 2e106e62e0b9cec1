// Package rank holds the shared ranking helpers: fixed-point rounding,
// percentage computation and stable Top-N truncation used by every
// analytics package.
package rank

import (
	"math"
	"sort"
)

const percentScale = 100

// Round2 rounds x to two decimal places. All ratio and score outputs go
// through this; raw counts stay exact integers.
func Round2(x float64) float64 {
	return math.Round(x*percentScale) / percentScale
}

// Percentage returns part/whole as a percentage rounded to two decimals.
// A zero whole yields 0 rather than NaN.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(part / whole * percentScale)
}

// TopN truncates s to at most n entries. n <= 0 keeps everything.
func TopN[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// SortStable is a thin wrapper over sort.SliceStable so callers rank with
// one idiom. less must describe a strict weak ordering; rankings pass a
// descending primary key with an explicit deterministic tie-break.
func SortStable[T any](s []T, less func(a, b T) bool) {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}
