package casefold

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unicode-primitives/unidata/internal/udata"
)

// fullFoldTable maps ß (U+00DF) to the "ss" full case-fold expansion; no
// simple (single-codepoint) equivalence exists between ß and s.
func fullFoldTable() udata.CaseFoldFunc {
	return func(c rune) (udata.CaseBucket, bool) {
		if c == 0xDF {
			return udata.CaseBucket{
				{Seq: []rune{'s', 's'}, IsLower: true},
			}, true
		}
		return nil, false
	}
}

func simpleFoldTable() udata.CaseFoldFunc {
	return func(c rune) (udata.CaseBucket, bool) {
		return nil, false
	}
}

func TestFullCompareMatchesExpandedSharpS(t *testing.T) {
	got := FullCompare([]rune("ßa"), []rune("ssa"), fullFoldTable())
	assert.Equal(t, 0, got)
}

func TestSimpleCompareDoesNotExpandSharpS(t *testing.T) {
	got := SimpleCompare([]rune("ßa"), []rune("ssa"), simpleFoldTable())
	assert.NotEqual(t, 0, got)
}

func TestToLowerUpperASCIIFastPath(t *testing.T) {
	noop := simpleFoldTable()
	assert.Equal(t, 'a', ToLower('A', noop))
	assert.Equal(t, 'A', ToUpper('a', noop))
}

func TestToLowerUsesBucketOutsideASCII(t *testing.T) {
	table := func(c rune) (udata.CaseBucket, bool) {
		if c == 0x0391 { // Greek capital alpha
			return udata.CaseBucket{{Seq: []rune{0x03B1}, IsLower: true}}, true
		}
		return nil, false
	}
	assert.Equal(t, rune(0x03B1), ToLower(0x0391, table))
}

func TestCompareLengthMismatchFavorsShorter(t *testing.T) {
	noop := simpleFoldTable()
	assert.Equal(t, -1, SimpleCompare([]rune("ab"), []rune("abc"), noop))
	assert.Equal(t, 1, SimpleCompare([]rune("abc"), []rune("ab"), noop))
}
