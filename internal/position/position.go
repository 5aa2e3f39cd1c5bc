// Package position provides source ranges for the Kite front-end.
// Every token, AST node and diagnostic carries a Range so that errors
// can be pointed at the exact bytes they came from.
package position

import (
	"fmt"
)

// Pos is a zero-based byte offset into UTF-8 source text.
type Pos = int

// Range is a half-open byte interval [Start, End) in source text.
// Start <= End always holds for ranges built through this package.
type Range struct {
	Start Pos // inclusive
	End   Pos // exclusive
}

// New creates the range covering the contiguous interval [start, end).
func New(start, end Pos) Range {
	if start > end {
		panic(fmt.Sprintf("position: inverted range [%d, %d)", start, end))
	}
	return Range{Start: start, End: end}
}

// At returns the empty range sitting at pos.
func At(pos Pos) Range {
	return Range{Start: pos, End: pos}
}

// String returns a string representation of the range
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if pos lies inside the range
func (r Range) Contains(pos Pos) bool {
	return r.Start <= pos && pos < r.End
}

// Merge returns the smallest range spanning both r and other.
// Merge is commutative and associative, and r.Merge(r) == r.
func (r Range) Merge(other Range) Range {
	return Range{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

// ExtendStart moves the start back to start if that is earlier.
func (r Range) ExtendStart(start Pos) Range {
	return Range{Start: min(r.Start, start), End: r.End}
}

// ExtendEnd moves the end forward to end if that is later.
func (r Range) ExtendEnd(end Pos) Range {
	return Range{Start: r.Start, End: max(r.End, end)}
}

// Compare orders ranges by start, then by end. It returns -1, 0 or +1.
func (r Range) Compare(other Range) int {
	switch {
	case r.Start < other.Start:
		return -1
	case r.Start > other.Start:
		return 1
	case r.End < other.End:
		return -1
	case r.End > other.End:
		return 1
	default:
		return 0
	}
}

// Before returns true if r sorts before other
func (r Range) Before(other Range) bool {
	return r.Compare(other) < 0
}

// Span merges all of the given ranges. It returns the zero range when
// called without arguments.
func Span(ranges ...Range) Range {
	if len(ranges) == 0 {
		return Range{}
	}
	out := ranges[0]
	for _, r := range ranges[1:] {
		out = out.Merge(r)
	}
	return out
}

// Located pairs a value with the range it was parsed from.
type Located[T any] struct {
	Value T
	Range Range
}

// Locate attaches r to v.
func Locate[T any](v T, r Range) Located[T] {
	return Located[T]{Value: v, Range: r}
}

// Map transforms the located value and keeps its range unchanged.
func Map[T, U any](l Located[T], f func(T) U) Located[U] {
	return Located[U]{Value: f(l.Value), Range: l.Range}
}

// String returns a string representation of the located value
func (l Located[T]) String() string {
	return fmt.Sprintf("%v@%s", l.Value, l.Range)
}
