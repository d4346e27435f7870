// Package intervalset implements CodepointSet: an ordered, non-overlapping,
// non-adjacent sequence of half-open codepoint intervals supporting set
// algebra with value semantics.
package intervalset

import (
	"sort"

	"github.com/unicode-primitives/unidata/internal/uint24"
)

// MaxCodepoint is the exclusive upper bound of the codepoint domain.
const MaxCodepoint = 0x110000

// Set is an immutable-by-convention, copy-on-write codepoint set. The zero
// value is the empty set.
//
// As with uint24.Array, Go does not run code on `b := a`, so Set aliases
// its boundary storage across a plain assignment without bumping the
// underlying refcount. Read-only use of a copy is safe; if both sides may
// be mutated independently, copy with Clone.
type Set struct {
	b uint24.Array
}

// Clone returns a Set sharing storage with s until one side is mutated.
func (s Set) Clone() Set { return Set{b: s.b.Clone()} }

// Interval is a half-open codepoint range [Lo, Hi).
type Interval struct {
	Lo, Hi uint32
}

// New builds a Set from a list of (possibly unsorted, possibly overlapping)
// intervals.
func New(intervals ...Interval) Set {
	var s Set
	for _, iv := range intervals {
		s.Add(iv.Lo, iv.Hi)
	}
	return s
}

// boundaries returns the raw boundary sequence as a plain slice.
func (s Set) boundaries() []uint32 {
	if s.b.Len() == 0 {
		return nil
	}
	return s.b.ToSlice()
}

func (s *Set) setBoundaries(bs []uint32) {
	a, err := uint24.New(bs...)
	if err != nil {
		// Codepoints are bounded by MaxCodepoint (21 bits), well under the
		// 24-bit uint24 ceiling; this can only fire on programmer error.
		panic(err)
	}
	s.b = a
}

// lowerBound returns the smallest index i such that bs[i] >= x, or len(bs)
// if no such index exists. A branchless, power-of-two-unrolled variant is
// behaviourally interchangeable and left as a micro-optimization.
func lowerBound(bs []uint32, x uint32) int {
	return sort.Search(len(bs), func(i int) bool { return bs[i] >= x })
}

// Contains reports whether codepoint c is a member: true iff the count of
// boundaries <= c is odd.
func (s Set) Contains(c uint32) bool {
	bs := s.boundaries()
	if len(bs) == 0 {
		return false
	}
	count := lowerBound(bs, c+1) // first boundary > c == count of boundaries <= c
	return count%2 == 1
}

// Len returns the sum of (hi-lo) across all intervals.
func (s Set) Len() uint64 {
	bs := s.boundaries()
	var total uint64
	for i := 0; i+1 < len(bs); i += 2 {
		total += uint64(bs[i+1] - bs[i])
	}
	return total
}

// IntervalCount returns the number of disjoint intervals.
func (s Set) IntervalCount() int { return len(s.boundaries()) / 2 }

// addInterval merges [a, b) into bs, maintaining the sorted/non-adjacent
// invariant. hint is accepted but not used: both lower_bound searches run
// over the whole of bs.
func addInterval(bs []uint32, a, b uint32, hint int) []uint32 {
	if a >= b {
		return bs
	}
	lo := lowerBound(bs, a)
	hi := lowerBound(bs, b)

	out := make([]uint32, 0, len(bs)-(hi-lo)+2)
	out = append(out, bs[:lo]...)

	if lo%2 == 0 {
		out = append(out, a)
	}
	if hi%2 == 0 {
		if hi < len(bs) && bs[hi] == b {
			hi++ // b touches the next interval's start: coalesce
		} else {
			out = append(out, b)
		}
	}
	out = append(out, bs[hi:]...)
	_ = hint
	return out
}

// Add merges the half-open interval [a, b) into the set, coalescing
// overlapping or adjacent intervals.
func (s *Set) Add(a, b uint32) {
	if a >= b {
		return
	}
	if b > MaxCodepoint {
		b = MaxCodepoint
	}
	s.setBoundaries(addInterval(s.boundaries(), a, b, 0))
}

// Remove deletes the half-open interval [a, b) from the set.
func (s *Set) Remove(a, b uint32) {
	if a >= b {
		return
	}
	s.setBoundaries(removeInterval(s.boundaries(), a, b))
}

// removeInterval deletes [a, b) from bs, the dual of addInterval.
func removeInterval(bs []uint32, a, b uint32) []uint32 {
	if a >= b {
		return bs
	}
	lo := lowerBound(bs, a)
	hi := lowerBound(bs, b)

	out := make([]uint32, 0, len(bs))
	out = append(out, bs[:lo]...)

	if lo%2 == 1 {
		if lo == 0 || bs[lo-1] != a {
			out = append(out, a)
		}
	}
	if hi%2 == 1 {
		if hi < len(bs) && bs[hi] == b {
			hi++ // the interval ends exactly at b: drop its end too
		} else {
			out = append(out, b)
		}
	}
	out = append(out, bs[hi:]...)
	return out
}

// skipUpTo advances a cursor position within bs to the first interval
// boundary >= x without removing anything it passes over. If x falls
// strictly inside an open interval [s, e), that interval's start s is
// consumed and replaced by a degenerate placeholder [x, x) so the cursor
// can still land on an even (start) index; if x equals e, the cursor moves
// to the next start instead. It returns the boundary slice (rewritten only
// when a split occurred) and the new cursor.
//
// The production set-algebra operators (Union, Intersect, Subtract,
// SymmetricDifference) do not build on skipUpTo/dropUpTo; they use the
// independent merge in combine() below, so this pair only needs to honor
// its own contract as a cursor primitive.
func skipUpTo(bs []uint32, cursor int, x uint32) ([]uint32, int) {
	idx := cursor + lowerBound(bs[cursor:], x)
	if idx%2 == 1 && idx < len(bs) && bs[idx] == x {
		return bs, idx + 1
	}
	if idx%2 == 1 {
		out := make([]uint32, 0, len(bs)+1)
		out = append(out, bs[:idx-1]...)
		out = append(out, x, x)
		out = append(out, bs[idx:]...)
		return out, idx - 1
	}
	return bs, idx
}

// dropUpTo removes every boundary strictly less than x starting at cursor,
// leaving the cursor position pointing at an even (start) index holding x
// (or the next surviving boundary >= x if no split was needed). Note that,
// like skipUpTo, the returned slice is a transient scratch buffer for a
// cursor-driven consumer (it may be odd-length mid-algorithm, e.g. right
// after a split and before the matching close arrives) and is not itself a
// valid standalone Set boundary list.
func dropUpTo(bs []uint32, cursor int, x uint32) []uint32 {
	split, idx := skipUpTo(bs, cursor, x)
	out := make([]uint32, 0, cursor+len(split)-idx)
	out = append(out, split[:cursor]...)
	out = append(out, split[idx:]...)
	return out
}

// combine merges two boundary streams under a pointwise predicate over
// (inA, inB) membership, emitting a boundary exactly when the combined
// output toggles. This realizes Union/Intersect/SymmetricDifference/
// Subtract uniformly and keeps the result provably sorted, non-overlapping
// and non-adjacent by construction.
func combine(a, b []uint32, op func(inA, inB bool) bool) []uint32 {
	var out []uint32
	i, j := 0, 0
	var inA, inB, prev bool
	for i < len(a) || j < len(b) {
		var x uint32
		switch {
		case j >= len(b) || (i < len(a) && a[i] <= b[j]):
			x = a[i]
			inA = !inA
			i++
			if j < len(b) && b[j] == x {
				inB = !inB
				j++
			}
		default:
			x = b[j]
			inB = !inB
			j++
		}
		if out2 := op(inA, inB); out2 != prev {
			out = append(out, x)
			prev = out2
		}
	}
	return out
}

// Union returns a ∪ b: a codepoint is a member iff it is a member of
// either input.
func Union(a, b Set) Set {
	var s Set
	s.setBoundaries(combine(a.boundaries(), b.boundaries(), func(inA, inB bool) bool { return inA || inB }))
	return s
}

// Intersect returns a ∩ b.
func Intersect(a, b Set) Set {
	var s Set
	s.setBoundaries(combine(a.boundaries(), b.boundaries(), func(inA, inB bool) bool { return inA && inB }))
	return s
}

// Subtract returns a − b.
func Subtract(a, b Set) Set {
	var s Set
	s.setBoundaries(combine(a.boundaries(), b.boundaries(), func(inA, inB bool) bool { return inA && !inB }))
	return s
}

// SymmetricDifference returns (a ∪ b) − (a ∩ b).
func SymmetricDifference(a, b Set) Set {
	var s Set
	s.setBoundaries(combine(a.boundaries(), b.boundaries(), func(inA, inB bool) bool { return inA != inB }))
	return s
}

// Invert toggles membership over [0, MaxCodepoint).
func (s Set) Invert() Set {
	bs := s.boundaries()
	var out []uint32
	if len(bs) == 0 {
		out = []uint32{0, MaxCodepoint}
	} else {
		start := 0
		if bs[0] == 0 {
			start = 1
		} else {
			out = append(out, 0)
		}
		out = append(out, bs[start:]...)
		if n := len(bs); bs[n-1] == MaxCodepoint {
			out = out[:len(out)-1]
		} else {
			out = append(out, MaxCodepoint)
		}
	}
	var inv Set
	inv.setBoundaries(out)
	return inv
}

// Equal reports whether a and b contain exactly the same codepoints.
func Equal(a, b Set) bool {
	return uint24.Equal(a.b, b.b)
}

// Intervals returns the set's intervals in ascending order.
func (s Set) Intervals() []Interval {
	bs := s.boundaries()
	out := make([]Interval, 0, len(bs)/2)
	for i := 0; i+1 < len(bs); i += 2 {
		out = append(out, Interval{Lo: bs[i], Hi: bs[i+1]})
	}
	return out
}

// IntervalIterator supports lazy forward and backward traversal over a
// Set's disjoint intervals.
type IntervalIterator struct {
	bs  []uint32
	pos int // index of the interval's low boundary
}

// IntervalIter returns a forward iterator positioned before the first
// interval.
func (s Set) IntervalIter() *IntervalIterator {
	return &IntervalIterator{bs: s.boundaries(), pos: -2}
}

// Next advances to the next interval, returning ok=false when exhausted.
func (it *IntervalIterator) Next() (Interval, bool) {
	it.pos += 2
	if it.pos+1 >= len(it.bs) {
		it.pos = len(it.bs)
		return Interval{}, false
	}
	return Interval{Lo: it.bs[it.pos], Hi: it.bs[it.pos+1]}, true
}

// Prev retreats to the previous interval, returning ok=false when exhausted.
func (it *IntervalIterator) Prev() (Interval, bool) {
	if it.pos <= 0 {
		it.pos = -2
		return Interval{}, false
	}
	it.pos -= 2
	return Interval{Lo: it.bs[it.pos], Hi: it.bs[it.pos+1]}, true
}

// CodepointIterator lazily enumerates member codepoints in ascending
// order.
type CodepointIterator struct {
	bs       []uint32
	ivIdx    int
	cur, end uint32
}

// CodepointIter returns a lazy enumerator of member codepoints.
func (s Set) CodepointIter() *CodepointIterator {
	return &CodepointIterator{bs: s.boundaries()}
}

// Next returns the next member codepoint in ascending order.
func (it *CodepointIterator) Next() (uint32, bool) {
	for it.cur >= it.end {
		if it.ivIdx+1 >= len(it.bs) {
			return 0, false
		}
		it.cur = it.bs[it.ivIdx]
		it.end = it.bs[it.ivIdx+1]
		it.ivIdx += 2
	}
	c := it.cur
	it.cur++
	return c, true
}
