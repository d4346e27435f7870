// Package casefold implements case-insensitive comparison and single
// codepoint case conversion on top of caller-supplied case-bucket tables.
// A bucket groups all codepoints considered equivalent under folding;
// "simple" buckets hold only single-codepoint equivalents, while "full"
// buckets may additionally hold multi-codepoint sequences such as the
// "ss" expansion of German ß.
package casefold

import "github.com/unicode-primitives/unidata/internal/udata"

// ToLower maps a single codepoint to its lowercase equivalent using the
// ASCII fast path, falling back to the simple case-fold bucket.
func ToLower(c rune, simple udata.CaseFoldFunc) rune {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	bucket, ok := simple(c)
	if !ok {
		return c
	}
	for _, e := range bucket {
		if e.IsLower && len(e.Seq) == 1 {
			return e.Seq[0]
		}
	}
	return c
}

// ToUpper maps a single codepoint to its uppercase equivalent, symmetric
// with ToLower.
func ToUpper(c rune, simple udata.CaseFoldFunc) rune {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	bucket, ok := simple(c)
	if !ok {
		return c
	}
	for _, e := range bucket {
		if e.IsUpper && len(e.Seq) == 1 {
			return e.Seq[0]
		}
	}
	return c
}

// representative resolves c to a canonical comparison value: if c belongs
// to a bucket whose first entry is a single codepoint, that codepoint
// stands in for every member; otherwise (no bucket, or a first entry that
// is a multi-codepoint sequence) c compares against itself.
func representative(c rune, fold udata.CaseFoldFunc) rune {
	bucket, ok := fold(c)
	if !ok || len(bucket) == 0 {
		return c
	}
	if len(bucket[0].Seq) == 1 {
		return bucket[0].Seq[0]
	}
	return c
}

// SimpleCompare performs a simple case-insensitive, codepoint-by-codepoint
// comparison. Returns <0, 0, or >0 the way strings.Compare does; a length
// mismatch after exhausting the shorter side's runes favors the shorter
// string.
func SimpleCompare(a, b []rune, simple udata.CaseFoldFunc) int {
	i := 0
	for i < len(a) && i < len(b) {
		ca, cb := a[i], b[i]
		if ca != cb {
			ra := representative(ca, simple)
			rb := representative(cb, simple)
			if ra != rb {
				return sign(int64(ra) - int64(rb))
			}
		}
		i++
	}
	return sign(int64(len(a)) - int64(len(b)))
}

// FullCompare is like SimpleCompare, but a bucket entry may be a
// multi-codepoint sequence (e.g. ß <-> "ss"). When
// the left codepoint's bucket contains an entry whose first codepoint
// equals the right codepoint and whose remaining codepoints are a prefix
// of the remaining right input, the match consumes that whole run.
func FullCompare(a, b []rune, full udata.CaseFoldFunc) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if ca == cb {
			i++
			j++
			continue
		}

		if consumed, ok := matchBucket(ca, b[j:], full); ok {
			i++
			j += consumed
			continue
		}
		if consumed, ok := matchBucket(cb, a[i:], full); ok {
			j++
			i += consumed
			continue
		}

		ra := representative(ca, full)
		rb := representative(cb, full)
		if ra != rb {
			return sign(int64(ra) - int64(rb))
		}
		i++
		j++
	}
	return sign(int64(len(a)-i) - int64(len(b)-j))
}

// matchBucket reports whether c's bucket has an entry whose sequence
// matches the start of rest, returning how many runes of rest it consumes.
func matchBucket(c rune, rest []rune, full udata.CaseFoldFunc) (int, bool) {
	bucket, ok := full(c)
	if !ok {
		return 0, false
	}
	for _, e := range bucket {
		if len(e.Seq) == 0 || len(e.Seq) > len(rest) {
			continue
		}
		match := true
		for k, r := range e.Seq {
			if rest[k] != r {
				match = false
				break
			}
		}
		if match {
			return len(e.Seq), true
		}
	}
	return 0, false
}

func sign(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
