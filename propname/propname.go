// Package propname resolves a requested Unicode property name to a
// precompiled or composed CodepointSet, using loose equality matching:
// whitespace, '-', and '_' are ignored and ASCII case is folded.
package propname

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/unicode-primitives/unidata/intervalset"
)

// ErrUnknownProperty is returned when a requested name matches no
// precompiled or composed set.
var ErrUnknownProperty = errors.New("propname: unknown property name")

// Resolver looks up precompiled property sets by their canonical name and
// composes a fixed set of derived names ("L", "graphical", "any",
// "ascii").
type Resolver struct {
	loose map[string]intervalset.Set
}

// NewResolver builds a Resolver over a caller-supplied table of precompiled
// sets (e.g. General_Category values, Script, Block, binary properties),
// keyed by their canonical names. The composed names ("L", "graphical",
// "any", "ascii") are added automatically from constituents looked up by
// canonical name, when present.
func NewResolver(precompiled map[string]intervalset.Set) *Resolver {
	r := &Resolver{loose: make(map[string]intervalset.Set, len(precompiled)+4)}
	for name, set := range precompiled {
		r.loose[normalize(name)] = set
	}

	r.loose[normalize("any")] = intervalset.New(intervalset.Interval{Lo: 0, Hi: intervalset.MaxCodepoint})
	r.loose[normalize("ascii")] = intervalset.New(intervalset.Interval{Lo: 0, Hi: 0x80})

	if l, ok := r.composeUnion("Lu", "Ll", "Lt", "Lo", "Lm"); ok {
		r.loose[normalize("L")] = l
	}
	if g, ok := r.composeGraphical(); ok {
		r.loose[normalize("graphical")] = g
	}
	return r
}

// composeUnion unions the named constituent sets, reporting ok=false if
// none of them are present in the table.
func (r *Resolver) composeUnion(names ...string) (intervalset.Set, bool) {
	var out intervalset.Set
	found := false
	for _, n := range names {
		part, ok := r.loose[normalize(n)]
		if !ok {
			continue
		}
		if !found {
			out = part.Clone()
			found = true
			continue
		}
		out = intervalset.Union(out, part)
	}
	return out, found
}

// composeGraphical builds "graphical" = Alphabetic ∪ marks ∪ numbers ∪
// punctuation ∪ Zs ∪ symbols, from whichever constituents the caller's
// precompiled table provides.
func (r *Resolver) composeGraphical() (intervalset.Set, bool) {
	return r.composeUnion("Alphabetic", "Mark", "Number", "Punctuation", "Zs", "Symbol")
}

// Resolve looks up name under loose-equality matching, returning
// ErrUnknownProperty if nothing matches.
func (r *Resolver) Resolve(name string) (intervalset.Set, error) {
	set, ok := r.loose[normalize(name)]
	if !ok {
		return intervalset.Set{}, errors.Wrapf(ErrUnknownProperty, "%q", name)
	}
	return set, nil
}

// normalize applies the loose-equality rule: drop whitespace, '-', and
// '_', then fold to lowercase.
func normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '-' || r == '_':
			continue
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			continue
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
