package normalize

import (
	"sort"

	"github.com/unicode-primitives/unidata/internal/udata"
)

// Form selects one of the four standard normalization forms.
type Form int

const (
	NFC Form = iota
	NFD
	NFKC
	NFKD
)

func (f Form) String() string {
	switch f {
	case NFC:
		return "NFC"
	case NFD:
		return "NFD"
	case NFKC:
		return "NFKC"
	case NFKD:
		return "NFKD"
	default:
		return "unknown"
	}
}

// compat reports whether f uses compatibility decomposition (NFKC/NFKD).
func (f Form) compat() bool { return f == NFKC || f == NFKD }

// composes reports whether f recomposes after decomposition (NFC/NFKC).
func (f Form) composes() bool { return f == NFC || f == NFKC }

func (f Form) quickCheckFunc(t *udata.NormalizationTables) udata.QuickCheckFunc {
	switch f {
	case NFC:
		return t.NFC
	case NFD:
		return t.NFD
	case NFKC:
		return t.NFKC
	case NFKD:
		return t.NFKD
	default:
		panic("normalize: unknown form")
	}
}

// String normalizes s to form f using the caller-supplied tables. If s is
// already normalized, the original string is returned unchanged without
// allocation.
func String(f Form, tables *udata.NormalizationTables, s string) string {
	if s == "" {
		return s
	}
	qc := f.quickCheckFunc(tables)

	// Run the anchor scan over s itself first, so an already-normalized
	// input is returned before any rune slice is allocated.
	var prevCC uint8
	normalized := true
	for _, c := range s {
		cc := tables.CombiningClass(c)
		if (prevCC != 0 && cc < prevCC) || !udata.AllowedIn(qc(c)) {
			normalized = false
			break
		}
		prevCC = cc
	}
	if normalized {
		return s
	}

	runes := []rune(s)
	p, _ := scanViolation(tables, qc, runes)

	start := seekStableBackward(tables, qc, runes, p)
	end := seekStableForward(tables, qc, runes, p)

	span := append([]rune(nil), runes[start:end]...)
	span = decomposeSpan(tables, f.compat(), span)
	reorder(tables, span)
	if f.composes() {
		span = composeSpan(tables, span)
	}

	out := make([]rune, 0, start+len(span)+(len(runes)-end))
	out = append(out, runes[:start]...)
	out = append(out, span...)
	out = append(out, runes[end:]...)
	return string(out)
}

// IsNormalized reports whether s is already in form f, without allocating a
// normalized copy.
func IsNormalized(f Form, tables *udata.NormalizationTables, s string) bool {
	if s == "" {
		return true
	}
	qc := f.quickCheckFunc(tables)
	_, violated := scanViolation(tables, qc, []rune(s))
	return !violated
}

// scanViolation is the Quick_Check anchor scan: text is already-normalized
// through position i iff the combining class never decreases across a
// non-zero run and every codepoint's quick-check value allows the form.
// It returns the first position that violates either condition.
func scanViolation(tables *udata.NormalizationTables, qc udata.QuickCheckFunc, runes []rune) (int, bool) {
	var prevCC uint8
	for i, c := range runes {
		cc := tables.CombiningClass(c)
		orderOK := prevCC == 0 || cc >= prevCC
		if !orderOK || !udata.AllowedIn(qc(c)) {
			return i, true
		}
		prevCC = cc
	}
	return 0, false
}

func isStable(tables *udata.NormalizationTables, qc udata.QuickCheckFunc, c rune) bool {
	return tables.CombiningClass(c) == 0 && udata.AllowedIn(qc(c))
}

func seekStableBackward(tables *udata.NormalizationTables, qc udata.QuickCheckFunc, runes []rune, from int) int {
	for i := from; i >= 0; i-- {
		if i < len(runes) && isStable(tables, qc, runes[i]) {
			return i
		}
	}
	return 0
}

func seekStableForward(tables *udata.NormalizationTables, qc udata.QuickCheckFunc, runes []rune, from int) int {
	for i := from; i < len(runes); i++ {
		if isStable(tables, qc, runes[i]) {
			return i
		}
	}
	return len(runes)
}

// decomposeSpan decomposes every codepoint in the span: algorithmic Hangul
// first, then the precomputed (already fully recursive) canonical or
// compatibility decomposition table, else the codepoint unchanged.
func decomposeSpan(tables *udata.NormalizationTables, compat bool, runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	for _, c := range runes {
		if l, v, t, ok := DecomposeHangul(c); ok {
			out = append(out, l, v)
			if t != 0 {
				out = append(out, t)
			}
			continue
		}

		var seq []rune
		var ok bool
		if compat {
			seq, ok = tables.CompatDecomp(c)
			if !ok {
				seq, ok = tables.CanonDecomp(c)
			}
		} else {
			seq, ok = tables.CanonDecomp(c)
		}
		if ok {
			out = append(out, seq...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// reorder stable-sorts each maximal run of non-zero combining class
// codepoints ascending by class (canonical ordering).
func reorder(tables *udata.NormalizationTables, runes []rune) {
	i := 0
	for i < len(runes) {
		if tables.CombiningClass(runes[i]) == 0 {
			i++
			continue
		}
		j := i
		for j < len(runes) && tables.CombiningClass(runes[j]) != 0 {
			j++
		}
		run := runes[i:j]
		sort.SliceStable(run, func(a, b int) bool {
			return tables.CombiningClass(run[a]) < tables.CombiningClass(run[b])
		})
		i = j
	}
}

// composeSpan runs the primary pairwise composition pass followed by the
// algorithmic Hangul recomposition pass, then compacts out the tombstoned
// positions.
func composeSpan(tables *udata.NormalizationTables, runes []rune) []rune {
	if len(runes) == 0 {
		return runes
	}
	deleted := make([]bool, len(runes))
	composePrimary(tables, runes, deleted)
	composeHangulPass(runes, deleted)

	out := make([]rune, 0, len(runes))
	for i, c := range runes {
		if !deleted[i] {
			out = append(out, c)
		}
	}
	return out
}

// composePrimary is the starter/accumCC walk: a combining character
// composes into the current starter only if its class exceeds every class
// seen since that starter (the canonical "blocking" rule).
func composePrimary(tables *udata.NormalizationTables, runes []rune, deleted []bool) {
	n := len(runes)
	start := 0
	for start < n && deleted[start] {
		start++
	}
	if start >= n {
		return
	}
	var accumCC uint8
	for i := start + 1; i < n; i++ {
		if deleted[i] {
			continue
		}
		cc := tables.CombiningClass(runes[i])
		switch {
		case cc == 0:
			start = i
			accumCC = 0
		case cc > accumCC:
			if result, ok := tables.Compose(runes[start], runes[i]); ok {
				runes[start] = result
				deleted[i] = true
			} else {
				accumCC = cc
			}
		}
	}
}

// composeHangulPass composes L+V -> LV and LV+T -> LVT over the adjacent
// non-tombstoned positions left by composePrimary.
func composeHangulPass(runes []rune, deleted []bool) {
	n := len(runes)
	next := func(from int) int {
		for from < n && deleted[from] {
			from++
		}
		return from
	}

	for i := 0; i < n; i++ {
		if deleted[i] {
			continue
		}
		switch {
		case isHangulL(runes[i]):
			j := next(i + 1)
			if j >= n || !isHangulV(runes[j]) {
				continue
			}
			lv, ok := composeLV(runes[i], runes[j])
			if !ok {
				continue
			}
			runes[i] = lv
			deleted[j] = true

			k := next(j + 1)
			if k < n && isHangulT(runes[k]) {
				if lvt, ok := composeLVT(runes[i], runes[k]); ok {
					runes[i] = lvt
					deleted[k] = true
				}
			}
		case isHangulLV(runes[i]):
			j := next(i + 1)
			if j >= n || !isHangulT(runes[j]) {
				continue
			}
			if lvt, ok := composeLVT(runes[i], runes[j]); ok {
				runes[i] = lvt
				deleted[j] = true
			}
		}
	}
}
