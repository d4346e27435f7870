package propname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicode-primitives/unidata/intervalset"
)

func fixture() map[string]intervalset.Set {
	return map[string]intervalset.Set{
		"Lu": intervalset.New(intervalset.Interval{Lo: 'A', Hi: 'Z' + 1}),
		"Ll": intervalset.New(intervalset.Interval{Lo: 'a', Hi: 'z' + 1}),
	}
}

func TestResolveLooseEquality(t *testing.T) {
	r := NewResolver(fixture())

	for _, name := range []string{"Lu", "lu", "L-U", "l_u", " l u "} {
		set, err := r.Resolve(name)
		require.NoError(t, err, name)
		assert.True(t, set.Contains('A'), name)
		assert.False(t, set.Contains('a'), name)
	}
}

func TestResolveUnknownProperty(t *testing.T) {
	r := NewResolver(fixture())
	_, err := r.Resolve("NoSuchProperty")
	assert.ErrorIs(t, err, ErrUnknownProperty)
}

func TestComposedLUnionsLetterCategories(t *testing.T) {
	r := NewResolver(fixture())
	l, err := r.Resolve("L")
	require.NoError(t, err)
	assert.True(t, l.Contains('A'))
	assert.True(t, l.Contains('a'))
	assert.False(t, l.Contains('5'))
}

func TestAnyAndASCII(t *testing.T) {
	r := NewResolver(fixture())

	any, err := r.Resolve("any")
	require.NoError(t, err)
	assert.True(t, any.Contains(0x10FFFF))

	ascii, err := r.Resolve("ascii")
	require.NoError(t, err)
	assert.True(t, ascii.Contains(0x41))
	assert.False(t, ascii.Contains(0x100))
}
