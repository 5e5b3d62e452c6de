// ABOUTME: Slice position primitives used by every reorder operation
// ABOUTME: Move one element within a slice or from one slice into another

// Package reorder keeps tasks and sections densely ordered.
//
// Every function is pure: inputs are never modified and each call returns a
// new collection. Unknown ids are no-ops and indices are clamped, so there is
// no error path. Callers persist the difference between the old and new
// collection (see DiffTasks and DiffSections).
package reorder

// clamp limits v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveWithin returns a copy of s with the element at from moved to index to.
// Both indices are clamped into range; the length never changes.
func MoveWithin[T any](s []T, from, to int) []T {
	out := make([]T, len(s))
	copy(out, s)
	if len(s) == 0 {
		return out
	}

	last := len(s) - 1
	from = clamp(from, 0, last)
	to = clamp(to, 0, last)
	if from == to {
		return out
	}

	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}

// MoveBetween removes src[from] and inserts it into dst at index to, which
// is clamped into [0, len(dst)]. An out-of-range from returns unchanged copies.
func MoveBetween[T any](src, dst []T, from, to int) ([]T, []T) {
	if from < 0 || from >= len(src) {
		return append([]T(nil), src...), append([]T(nil), dst...)
	}

	moved := src[from]
	newSrc := make([]T, 0, len(src)-1)
	newSrc = append(newSrc, src[:from]...)
	newSrc = append(newSrc, src[from+1:]...)

	return newSrc, insertAt(dst, clamp(to, 0, len(dst)), moved)
}

// insertAt returns a copy of s with values inserted at index i.
func insertAt[T any](s []T, i int, values ...T) []T {
	out := make([]T, 0, len(s)+len(values))
	out = append(out, s[:i]...)
	out = append(out, values...)
	out = append(out, s[i:]...)
	return out
}
