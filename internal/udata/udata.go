// Package udata declares the external table surface the core consumes as
// opaque collaborators. The precompiled Unicode tables themselves
// (property sets, combining classes, case-fold buckets, decomposition
// tables, Quick_Check tables) are out of scope for this core — callers
// supply them, typically backed by trie.Trie[V] lookups or
// intervalset.Set membership tests, through the small function-typed
// interfaces below.
package udata

// QuickCheck is the Unicode Quick_Check property value for a codepoint
// under a given normalization form.
type QuickCheck uint8

const (
	QCYes QuickCheck = iota
	QCNo
	QCMaybe
)

// CombiningClassFunc returns a codepoint's Canonical_Combining_Class.
type CombiningClassFunc func(c rune) uint8

// DecompFunc returns a codepoint's canonical or compatibility
// decomposition (already fully recursively expanded to base codepoints),
// and whether one exists.
type DecompFunc func(c rune) (seq []rune, ok bool)

// ComposeFunc looks up the canonical composite of a starter l followed by
// c.
type ComposeFunc func(l, c rune) (result rune, ok bool)

// QuickCheckFunc reports the Quick_Check value of a codepoint for one
// normalization form.
type QuickCheckFunc func(c rune) QuickCheck

// MembershipFunc reports set membership for a binary property (e.g.
// Grapheme_Extend, hangLV).
type MembershipFunc func(c rune) bool

// CaseEntry is one codepoint-equivalence-class member. Seq has length 1 for
// simple case folding (single-codepoint equivalents only) and may hold
// more than one codepoint for full case folding (e.g. "ss" as the
// lowercase equivalent of "ß").
type CaseEntry struct {
	Seq     []rune
	IsLower bool
	IsUpper bool
}

// CaseBucket is the set of codepoints/sequences case-equivalent to one
// another. Buckets are small, typically 2-5 entries.
type CaseBucket []CaseEntry

// CaseFoldFunc resolves a codepoint to its case bucket, reporting ok=false
// for the sentinel "no mapping" case.
type CaseFoldFunc func(c rune) (CaseBucket, bool)

// NormalizationTables bundles everything the normalize package needs,
// dependency-injected so the core never embeds real Unicode data.
type NormalizationTables struct {
	CombiningClass CombiningClassFunc
	CanonDecomp    DecompFunc
	CompatDecomp   DecompFunc
	Compose        ComposeFunc
	NFC            QuickCheckFunc
	NFD            QuickCheckFunc
	NFKC           QuickCheckFunc
	NFKD           QuickCheckFunc
}

// CaseTables bundles the case-folding lookup tables.
type CaseTables struct {
	Simple CaseFoldFunc
	Full   CaseFoldFunc
}

// GraphemeTables bundles the binary properties the grapheme state machine
// consults after reaching a terminal class.
type GraphemeTables struct {
	Extend     MembershipFunc
	SpacingMark MembershipFunc
}

// AllowedIn reports whether qc is acceptable for the "is this codepoint
// already normalized" scan: Quick_Check = NO is never allowed, and MAYBE
// is conservatively also treated as not-allowed, forcing the isolating
// renormalization path even though it does more work than strictly
// necessary. A build that wants the optimization can special-case
// QCMaybe here once its quick-check tables distinguish it from QCNo.
func AllowedIn(qc QuickCheck) bool {
	return qc == QCYes
}
