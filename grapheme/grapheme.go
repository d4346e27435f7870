// Package grapheme implements the small-buffer-optimized Grapheme type and
// a bare grapheme-cluster-boundary state machine: CR/LF, regional
// indicator pairs, Hangul jamo clustering, and a trailing
// Extend/SpacingMark run. Full UAX #29 segmentation rules are out of
// scope.
package grapheme

import (
	"github.com/pkg/errors"

	"github.com/unicode-primitives/unidata/internal/udata"
)

// inlineCap is the number of codepoints a Grapheme stores without heap
// allocation — enough for the overwhelming majority of clusters, which are
// a base codepoint plus at most one combining mark. On 64-bit platforms the
// struct is five machine words, not two or three: one for the inline runes,
// one for the length and three for the heap slice header.
const inlineCap = 2

// ErrEmptyInput is returned when decoding a grapheme from no input.
var ErrEmptyInput = errors.New("grapheme: cannot decode from empty input")

// Grapheme is one user-perceived character: a short sequence of
// codepoints, stored inline up to inlineCap and heap-allocated beyond
// that. Copying a Grapheme copies only the slice header, so copies share
// the heap buffer rather than duplicating it; no method writes to that
// buffer, so copies still behave as independent values.
type Grapheme struct {
	inline [inlineCap]rune
	n      int
	heap   []rune
}

// New builds a Grapheme from a codepoint sequence.
func New(runes ...rune) Grapheme {
	var g Grapheme
	if len(runes) <= inlineCap {
		copy(g.inline[:], runes)
		g.n = len(runes)
		return g
	}
	g.heap = append([]rune(nil), runes...)
	g.n = len(runes)
	return g
}

// Len reports the number of codepoints in the cluster.
func (g Grapheme) Len() int { return g.n }

// Runes returns the cluster's codepoints as a freshly allocated slice.
func (g Grapheme) Runes() []rune {
	if g.heap != nil {
		out := make([]rune, len(g.heap))
		copy(out, g.heap)
		return out
	}
	out := make([]rune, g.n)
	copy(out, g.inline[:g.n])
	return out
}

// At returns the i'th codepoint of the cluster.
func (g Grapheme) At(i int) rune {
	if g.heap != nil {
		return g.heap[i]
	}
	return g.inline[i]
}

// state is a grapheme-boundary state machine position.
type state int

const (
	stateStart state = iota
	stateCR
	stateRI
	stateL
	stateV
	stateLVT
	stateDone
)

// DecodeGrapheme consumes one grapheme cluster from the front of runes
// using the caller-supplied binary-property tables, returning the cluster
// and the number of codepoints consumed. Returns ErrEmptyInput if runes is
// empty.
func DecodeGrapheme(runes []rune, tables *udata.GraphemeTables) (Grapheme, int, error) {
	if len(runes) == 0 {
		return Grapheme{}, 0, ErrEmptyInput
	}

	n := scanCluster(runes, tables)
	return New(runes[:n]...), n, nil
}

// scanCluster returns the length, in codepoints, of the first grapheme
// cluster in runes. Control characters only cut short the trailing
// extension phase (extendTail); the leading codepoint always drives the
// normal state dispatch below, which is how CR correctly reaches the CR
// state instead of terminating immediately.
func scanCluster(runes []rune, tables *udata.GraphemeTables) int {
	i := 0
	c := runes[0]
	i++

	st := stateStart
	switch {
	case c == '\r':
		st = stateCR
	case isRegionalIndicator(c):
		st = stateRI
	case isHangulL(c):
		st = stateL
	case isHangulV(c) || isHangulLV(c):
		st = stateV
	case isHangulT(c) || isHangulLVT(c):
		st = stateLVT
	default:
		st = stateDone
	}

	switch st {
	case stateCR:
		if i < len(runes) && runes[i] == '\n' {
			return i + 1
		}
		return extendTail(runes, i, tables)
	case stateRI:
		if i < len(runes) && isRegionalIndicator(runes[i]) {
			i++
		}
		return extendTail(runes, i, tables)
	case stateL:
		for i < len(runes) {
			next := runes[i]
			switch {
			case isHangulL(next):
				i++
			case isHangulV(next) || isHangulLV(next):
				i++
				return scanFromV(runes, i, tables)
			case isHangulLVT(next):
				i++
				return scanFromLVT(runes, i, tables)
			default:
				return extendTail(runes, i, tables)
			}
		}
		return extendTail(runes, i, tables)
	case stateV:
		return scanFromV(runes, i, tables)
	case stateLVT:
		return scanFromLVT(runes, i, tables)
	default:
		return extendTail(runes, i, tables)
	}
}

func scanFromV(runes []rune, i int, tables *udata.GraphemeTables) int {
	for i < len(runes) {
		next := runes[i]
		switch {
		case isHangulV(next):
			i++
		case isHangulT(next):
			i++
			return scanFromT(runes, i, tables)
		default:
			return extendTail(runes, i, tables)
		}
	}
	return extendTail(runes, i, tables)
}

func scanFromLVT(runes []rune, i int, tables *udata.GraphemeTables) int {
	return scanFromT(runes, i, tables)
}

func scanFromT(runes []rune, i int, tables *udata.GraphemeTables) int {
	for i < len(runes) && isHangulT(runes[i]) {
		i++
	}
	return extendTail(runes, i, tables)
}

// extendTail consumes trailing Grapheme_Extend/SpacingMark codepoints
// after any terminal state, stopping immediately at a control character.
func extendTail(runes []rune, i int, tables *udata.GraphemeTables) int {
	for i < len(runes) {
		c := runes[i]
		if isControl(c) {
			return i
		}
		if tables.Extend(c) || tables.SpacingMark(c) {
			i++
			continue
		}
		return i
	}
	return i
}

// isControl reports membership in the fixed set of C0/C1 controls, NEL,
// LF, FF, VT, CR, and separators that immediately terminate a cluster
// before any extension is considered.
func isControl(c rune) bool {
	switch {
	case c == '\n', c == '\r', c == '\v', c == '\f':
		return true
	case c >= 0x00 && c <= 0x1F:
		return true
	case c >= 0x7F && c <= 0x9F:
		return true
	case c == 0x2028, c == 0x2029: // LINE/PARAGRAPH SEPARATOR
		return true
	default:
		return false
	}
}

func isRegionalIndicator(c rune) bool { return c >= 0x1F1E6 && c <= 0x1F1FF }

const (
	hangulLBase = 0x1100
	hangulLEnd  = 0x1112
	hangulVBase = 0x1161
	hangulVEnd  = 0x1175
	hangulTBase = 0x11A8
	hangulTEnd  = 0x11C2
	hangulSBase = 0xAC00
	hangulSEnd  = 0xD7A3
	hangulTCount = 28
)

func isHangulL(c rune) bool { return c >= hangulLBase && c <= hangulLEnd }
func isHangulV(c rune) bool { return c >= hangulVBase && c <= hangulVEnd }
func isHangulT(c rune) bool { return c >= hangulTBase && c <= hangulTEnd }

// isHangulLV reports whether c is a precomposed syllable with no trailing
// consonant (an "LV" syllable, which behaves like a V for clustering).
func isHangulLV(c rune) bool {
	return c >= hangulSBase && c <= hangulSEnd && (c-hangulSBase)%hangulTCount == 0
}

// isHangulLVT reports whether c is a precomposed syllable with a trailing
// consonant (an "LVT" syllable, which behaves like a T for clustering).
func isHangulLVT(c rune) bool {
	return c >= hangulSBase && c <= hangulSEnd && (c-hangulSBase)%hangulTCount != 0
}

// Iterator walks a rune slice emitting one Grapheme per cluster.
type Iterator struct {
	runes  []rune
	tables *udata.GraphemeTables
	pos    int
}

// NewIterator creates an Iterator over runes using tables for the
// Extend/SpacingMark continuation tests.
func NewIterator(runes []rune, tables *udata.GraphemeTables) *Iterator {
	return &Iterator{runes: runes, tables: tables}
}

// Next returns the next cluster and true, or a zero Grapheme and false at
// end of input.
func (it *Iterator) Next() (Grapheme, bool) {
	if it.pos >= len(it.runes) {
		return Grapheme{}, false
	}
	g, n, err := DecodeGrapheme(it.runes[it.pos:], it.tables)
	if err != nil {
		return Grapheme{}, false
	}
	it.pos += n
	return g, true
}
