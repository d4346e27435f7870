package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimple(t *testing.T, assignments map[uint32]uint8, stageKeyBits []int) *Trie[uint8] {
	t.Helper()
	b := NewBuilder[uint8](0, stageKeyBits)
	var keys []uint32
	for k := range assignments {
		keys = append(keys, k)
	}
	// insertion must be monotone; sort manually since keys is small in tests
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	for _, k := range keys {
		require.NoError(t, b.Put(k, assignments[k]))
	}
	return b.Build()
}

func TestTrieLookupMatchesAssignments(t *testing.T) {
	assignments := map[uint32]uint8{
		0x41: 1, 0x42: 1, 0x43: 1,
		0x61: 2, 0x62: 2,
		0x3000: 3,
	}
	tr := buildSimple(t, assignments, []int{4, 4, 8})

	for k, v := range assignments {
		assert.Equal(t, v, tr.Get(k), "key %#x", k)
	}
	assert.Equal(t, uint8(0), tr.Get(0x44), "unassigned key reads fill")
	assert.Equal(t, uint8(0), tr.Get(0xffff), "unassigned key within domain reads fill")
}

func TestTrieOrderRejected(t *testing.T) {
	b := NewBuilder[uint8](0, []int{4, 4, 8})
	require.NoError(t, b.Put(100, 1))
	err := b.Put(50, 2)
	assert.ErrorIs(t, err, ErrOrder)
}

func TestTriePutRangeMonotone(t *testing.T) {
	b := NewBuilder[uint8](0, []int{4, 4, 8})
	require.NoError(t, b.PutRange(10, 20, 7))
	require.NoError(t, b.PutRange(20, 30, 9))
	err := b.PutRange(5, 8, 1)
	assert.ErrorIs(t, err, ErrOrder)

	tr := b.Build()
	assert.Equal(t, uint8(7), tr.Get(15))
	assert.Equal(t, uint8(9), tr.Get(25))
	assert.Equal(t, uint8(0), tr.Get(9))
}

func TestTriePageDeduplicationSharesIdenticalPages(t *testing.T) {
	// Two identical 16-wide runs of the fill value should fold onto the
	// same compressed page at the innermost stage.
	b := NewBuilder[uint8](0, []int{4, 4, 8})
	require.NoError(t, b.Put(0x100, 9))
	require.NoError(t, b.Put(0x200, 9))
	tr := b.Build()

	assert.Equal(t, uint8(9), tr.Get(0x100))
	assert.Equal(t, uint8(9), tr.Get(0x200))
	assert.Equal(t, uint8(0), tr.Get(0x101))

	// A non-trivial trie should compress well below the dense 1<<16 entry
	// count at the terminal stage once duplicate pages fold together.
	assert.Less(t, tr.TotalWords(), 1<<16)
}

func TestTrieStagesReversedRootFirst(t *testing.T) {
	tr := buildSimple(t, map[uint32]uint8{1: 5}, []int{4, 4, 8})
	require.Equal(t, 3, tr.Stages())
	assert.Equal(t, 1<<8, tr.packed.Len(0), "stage 0 is the root, indexed by the last 8 key bits")
}
