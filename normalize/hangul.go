// Package normalize implements NFC, NFD, NFKC, and NFKD: decomposition,
// canonical reordering by combining class, and recomposition, including
// algorithmic Hangul syllable handling. The precompiled Unicode tables
// the engine queries are supplied by the caller through
// internal/udata.NormalizationTables; this package owns no table data.
package normalize

// Hangul algorithmic constants (Unicode §3.12, Algorithm H-AC).
const (
	SBase  = 0xAC00
	LBase  = 0x1100
	VBase  = 0x1161
	TBase  = 0x11A7
	LCount = 19
	VCount = 21
	TCount = 28
	NCount = VCount * TCount
	SCount = LCount * NCount
)

// DecomposeHangul splits a precomposed Hangul syllable into its L, V, and
// (if present) T jamo.
func DecomposeHangul(c rune) (l, v, t rune, ok bool) {
	if c < SBase || c >= SBase+SCount {
		return 0, 0, 0, false
	}
	idxLV := c - SBase
	idxL := idxLV / NCount
	idxV := (idxLV % NCount) / TCount
	idxT := idxLV % TCount

	l = LBase + idxL
	v = VBase + idxV
	if idxT > 0 {
		t = TBase + idxT
	}
	return l, v, t, true
}

// ComposeJamo performs algorithmic L+V -> LV and LV+T -> LVT Hangul
// recomposition.
func ComposeJamo(l, v rune, t ...rune) (rune, bool) {
	if l < LBase || l >= LBase+LCount || v < VBase || v >= VBase+VCount {
		return 0, false
	}
	idxL := l - LBase
	idxV := v - VBase
	lv := SBase + idxL*NCount + idxV*TCount

	if len(t) == 0 {
		return lv, true
	}
	if len(t) > 1 {
		return 0, false
	}
	tc := t[0]
	if tc == 0 {
		return lv, true
	}
	if tc <= TBase || tc >= TBase+TCount {
		return 0, false
	}
	return lv + (tc - TBase), true
}

// composeLV composes a starter L with a following V, used inline by the
// Hangul recomposition pass over an already-decomposed sequence.
func composeLV(l, v rune) (rune, bool) {
	return ComposeJamo(l, v)
}

// composeLVT composes an LV syllable with a following T.
func composeLVT(lv, t rune) (rune, bool) {
	if !isHangulS(lv) {
		return 0, false
	}
	if (lv-SBase)%TCount != 0 {
		return 0, false // lv must itself carry no trailing consonant yet
	}
	if t <= TBase || t >= TBase+TCount {
		return 0, false
	}
	return lv + (t - TBase), true
}

func isHangulL(c rune) bool  { return c >= LBase && c < LBase+LCount }
func isHangulV(c rune) bool  { return c >= VBase && c < VBase+VCount }
func isHangulT(c rune) bool  { return c > TBase && c < TBase+TCount }
func isHangulLV(c rune) bool { return isHangulS(c) && (c-SBase)%TCount == 0 }
func isHangulS(c rune) bool  { return c >= SBase && c < SBase+SCount }
