// Package trie implements a multi-stage, page-deduplicating, bit-packed
// lookup table: a generic N-stage Trie[V] built once by Builder[V] from
// monotone key insertions, then queried in O(k) array reads (k = stage
// count).
//
// The build works by chunking the key domain into per-stage pages, hashing
// each completed page to find a candidate for reuse, falling back to an
// exact compare, and folding the result upward stage by stage. Repeated
// pages collapse to a single stored copy, and a freshly appended page may
// share trailing words with the previous one, so a large sparse or
// repetitive domain compresses to a handful of distinct pages plus a small
// offset table per stage.
package trie

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/unicode-primitives/unidata/internal/bitpack"
)

// ErrOrder is returned when Builder.Put/PutRange receives a key lower than
// one already inserted.
var ErrOrder = errors.New("trie: keys must be inserted in non-decreasing order")

// stage is one level of the built trie: a page table of raw (pre-pack)
// values plus the shift/mask pair used to extract this stage's slice of
// the global key.
type stage struct {
	values []uint64
	shift  int
	mask   int
}

// Trie is an immutable multi-stage lookup table mapping a key (typically a
// codepoint) to a value of type V. Once built, a Trie is read-only and may
// be shared freely across goroutines without synchronization.
type Trie[V constraints.Unsigned] struct {
	packed *bitpack.MultiArray
	shifts []int
	masks  []int
	fill   V
}

// Get performs the multi-stage lookup: k array reads, one per stage,
// starting from the coarsest (root) stage down to the terminal stage that
// holds V.
func (t *Trie[V]) Get(key uint32) V {
	var idx uint64
	stages := t.packed.Stages()
	for s := 0; s < stages; s++ {
		sel := (uint64(key) >> uint(t.shifts[s])) & uint64(t.masks[s])
		idx = t.packed.Get(s, int(idx+sel))
	}
	return V(idx)
}

// Stages reports the number of stages the trie was built with.
func (t *Trie[V]) Stages() int { return t.packed.Stages() }

// TotalWords reports the size, in 64-bit words, of the trie's single
// contiguous backing buffer.
func (t *Trie[V]) TotalWords() int { return t.packed.TotalWords() }

// Builder accumulates monotone (key, value) / (range, value) insertions
// and folds them, page by page, into an immutable Trie.
type Builder[V constraints.Unsigned] struct {
	stageKeyBits []int // per-stage number of key bits consumed, innermost first
	fill         V
	values       []uint64
	lastKey      int
	hasAny       bool
}

// NewBuilder creates a Builder for a trie whose stages consume
// stageKeyBits[0], stageKeyBits[1], ... bits of the key in order from the
// terminal (value-holding) stage outward to the root. Keys never
// explicitly assigned read back as fill.
func NewBuilder[V constraints.Unsigned](fill V, stageKeyBits []int) *Builder[V] {
	if len(stageKeyBits) == 0 {
		panic("trie: at least one stage is required")
	}
	return &Builder[V]{stageKeyBits: append([]int(nil), stageKeyBits...), fill: fill}
}

func (b *Builder[V]) domainBits() int {
	total := 0
	for _, s := range b.stageKeyBits {
		total += s
	}
	return total
}

func (b *Builder[V]) padTo(n int) {
	for len(b.values) < n {
		b.values = append(b.values, uint64(b.fill))
	}
}

// Put inserts a single (key, value) pair. key must be >= every previously
// inserted key.
func (b *Builder[V]) Put(key uint32, v V) error {
	if b.hasAny && int(key) < b.lastKey {
		return errors.Wrapf(ErrOrder, "key %d follows %d", key, b.lastKey)
	}
	b.padTo(int(key))
	for len(b.values) <= int(key) {
		b.values = append(b.values, uint64(b.fill))
	}
	b.values[key] = uint64(v)
	b.lastKey = int(key)
	b.hasAny = true
	return nil
}

// PutRange inserts the same value for every key in [lo, hi).
func (b *Builder[V]) PutRange(lo, hi uint32, v V) error {
	if lo >= hi {
		return nil
	}
	if b.hasAny && int(lo) < b.lastKey {
		return errors.Wrapf(ErrOrder, "range start %d follows %d", lo, b.lastKey)
	}
	b.padTo(int(lo))
	for c := lo; c < hi; c++ {
		if err := b.Put(c, v); err != nil {
			return err
		}
	}
	return nil
}

// Build finalizes the trie: pads the terminal stage up to the full key
// domain with the fill value, then folds it upward through the configured
// stages with page-level deduplication.
func (b *Builder[V]) Build() *Trie[V] {
	full := 1 << uint(b.domainBits())
	b.padTo(full)
	if len(b.values) > full {
		b.values = b.values[:full]
	}

	stages := buildStages(b.values, b.stageKeyBits)

	widths := make([]bitpack.Width, len(stages))
	lens := make([]int, len(stages))
	for i, s := range stages {
		lens[i] = len(s.values)
		widths[i] = minWidth(maxOf(s.values))
	}
	packed := bitpack.NewMultiArray(widths, lens)
	shifts := make([]int, len(stages))
	masks := make([]int, len(stages))
	for i, s := range stages {
		shifts[i] = s.shift
		masks[i] = s.mask
		for j, v := range s.values {
			packed.Set(i, j, v)
		}
	}

	return &Trie[V]{packed: packed, shifts: shifts, masks: masks, fill: b.fill}
}

// buildStages folds the fully padded, dense value array upward through
// len(shifts)-1 page-deduplicated levels; the page offsets left after the
// last fold become the root stage, which consumes the final shift's key
// bits. The result is reversed so it reads root-first / terminal-last.
func buildStages(uncompressed []uint64, shifts []int) []stage {
	var cumulativeShift int
	var stages []stage

	for _, shift := range shifts[:len(shifts)-1] {
		chunkSize := 1 << uint(shift)
		cache := map[uint64][]int{}
		compressed := make([]uint64, 0, len(uncompressed))
		offsets := make([]uint64, 0, len(uncompressed)/chunkSize+1)

		for i := 0; i < len(uncompressed); i += chunkSize {
			end := i + chunkSize
			if end > len(uncompressed) {
				end = len(uncompressed)
			}
			chunk := uncompressed[i:end]

			h := hashChunk(chunk)
			offset := -1
			for _, cand := range cache[h] {
				if cand+len(chunk) <= len(compressed) && equalChunk(compressed[cand:cand+len(chunk)], chunk) {
					offset = cand
					break
				}
			}
			if offset < 0 {
				overlap := measureOverlap(compressed, chunk)
				compressed = append(compressed, chunk[overlap:]...)
				offset = len(compressed) - len(chunk)
				cache[h] = append(cache[h], offset)
			}
			offsets = append(offsets, uint64(offset))
		}

		stages = append(stages, stage{values: compressed, shift: cumulativeShift, mask: chunkSize - 1})
		uncompressed = offsets
		cumulativeShift += shift
	}

	stages = append(stages, stage{values: uncompressed, shift: cumulativeShift, mask: math.MaxInt32})

	for i, j := 0, len(stages)-1; i < j; i, j = i+1, j-1 {
		stages[i], stages[j] = stages[j], stages[i]
	}
	return stages
}

// hashChunk hashes a candidate page's contents for dedup-bucket lookup.
// The hash only narrows the candidate set; equalChunk still performs an
// exact compare before two pages are unified.
func hashChunk(chunk []uint64) uint64 {
	buf := make([]byte, len(chunk)*8)
	for i, v := range chunk {
		o := i * 8
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
		buf[o+4] = byte(v >> 32)
		buf[o+5] = byte(v >> 40)
		buf[o+6] = byte(v >> 48)
		buf[o+7] = byte(v >> 56)
	}
	return xxhash.Sum64(buf)
}

func equalChunk(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// measureOverlap returns the amount by which prev's tail overlaps next's
// head, so a freshly appended page can share trailing words with the
// previous one instead of duplicating them.
func measureOverlap(prev, next []uint64) int {
	max := len(prev)
	if len(next) < max {
		max = len(next)
	}
	for overlap := max; overlap > 0; overlap-- {
		if equalChunk(prev[len(prev)-overlap:], next[:overlap]) {
			return overlap
		}
	}
	return 0
}

func maxOf(vs []uint64) uint64 {
	var m uint64
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

func minWidth(max uint64) bitpack.Width {
	switch {
	case max == 0:
		return bitpack.Width1
	case max < 1<<8:
		return bitpack.Width8
	case max < 1<<16:
		return bitpack.Width16
	case max < 1<<32:
		return bitpack.Width32
	default:
		return bitpack.Width64
	}
}
