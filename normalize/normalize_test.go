package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unicode-primitives/unidata/internal/udata"
)

// fakeTables builds a tiny, hand-verified NormalizationTables fixture
// covering exactly the codepoints exercised by the scenarios below: it is
// not real Unicode data, only enough to drive the normalization algorithm
// end to end.
func fakeTables() *udata.NormalizationTables {
	combiningClass := func(c rune) uint8 {
		if c == 0x0308 {
			return 230
		}
		return 0
	}
	canonDecomp := func(c rune) ([]rune, bool) {
		if c == 0xC4 {
			return []rune{0x41, 0x0308}, true
		}
		return nil, false
	}
	compatDecomp := func(c rune) ([]rune, bool) {
		switch c {
		case 0xB9:
			return []rune{'1'}, true
		case 0x2070:
			return []rune{'0'}, true
		default:
			return nil, false
		}
	}
	compose := func(l, c rune) (rune, bool) {
		if l == 0x41 && c == 0x0308 {
			return 0xC4, true
		}
		return 0, false
	}
	notAllowed := map[rune]bool{0x0308: true, 0xC4: true, 0xB9: true, 0x2070: true}
	qc := func(form string) udata.QuickCheckFunc {
		return func(c rune) udata.QuickCheck {
			if notAllowed[c] {
				return udata.QCNo
			}
			return udata.QCYes
		}
	}
	return &udata.NormalizationTables{
		CombiningClass: combiningClass,
		CanonDecomp:    canonDecomp,
		CompatDecomp:   compatDecomp,
		Compose:        compose,
		NFC:            qc("NFC"),
		NFD:            qc("NFD"),
		NFKC:           qc("NFKC"),
		NFKD:           qc("NFKD"),
	}
}

func TestNFCComposesCombiningDiaeresis(t *testing.T) {
	tables := fakeTables()
	got := String(NFC, tables, "Äffin")
	assert.Equal(t, "Äffin", got)
}

func TestNFDDecomposesPrecomposed(t *testing.T) {
	tables := fakeTables()
	got := String(NFD, tables, "Äffin")
	assert.Equal(t, "Äffin", got)
}

func TestNFKDDecomposesCompatibility(t *testing.T) {
	tables := fakeTables()
	got := String(NFKD, tables, "2¹⁰")
	assert.Equal(t, "210", got)
}

func TestAlreadyNormalizedReturnsIdenticalString(t *testing.T) {
	tables := fakeTables()
	s := "plain ascii text"
	got := String(NFC, tables, s)
	assert.Equal(t, s, got)
}

func TestNFCIdempotent(t *testing.T) {
	tables := fakeTables()
	once := String(NFC, tables, "Äffin")
	twice := String(NFC, tables, once)
	assert.Equal(t, once, twice)
}

func TestComposeJamoScenario(t *testing.T) {
	lv, ok := ComposeJamo(0x1100, 0x1161)
	assert.True(t, ok)
	assert.Equal(t, rune(0xAC00), lv)

	lvt, ok := ComposeJamo(0x1100, 0x1161, 0x11A8)
	assert.True(t, ok)
	assert.Equal(t, rune(0xAC01), lvt)
}

func TestDecomposeHangulRoundTrip(t *testing.T) {
	l, v, tjamo, ok := DecomposeHangul(0xAC01)
	assert.True(t, ok)
	assert.Equal(t, rune(0x1100), l)
	assert.Equal(t, rune(0x1161), v)
	assert.Equal(t, rune(0x11A8), tjamo)
}

func TestHangulComposeRecomposition(t *testing.T) {
	runes := []rune{0x1100, 0x1161, 0x11A8}
	deleted := make([]bool, len(runes))
	composeHangulPass(runes, deleted)
	var out []rune
	for i, c := range runes {
		if !deleted[i] {
			out = append(out, c)
		}
	}
	assert.Equal(t, []rune{0xAC01}, out)
}
