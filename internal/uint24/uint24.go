// Package uint24 implements a copy-on-write array of 24-bit unsigned
// integers, the storage primitive underneath intervalset.Set's boundary
// list.
package uint24

import "github.com/pkg/errors"

// Max is the largest value a uint24 slot can hold.
const Max = 1<<24 - 1

// ErrOutOfRange is a contract violation: writing a value that does not fit
// in 24 bits.
var ErrOutOfRange = errors.New("uint24: value exceeds 24 bits")

// buffer is the shared, reference-counted payload. refcount is not
// protected by a mutex: an Array must not be mutated from one goroutine
// while aliased-and-read from another.
type buffer struct {
	data     []byte // 3 bytes per element
	refcount int32
}

// Array is a copy-on-write vector of 24-bit unsigned integers. The zero
// value is a valid empty array.
//
// Go has no copy constructors, so a plain `b := a` only copies the struct
// header (the *buffer pointer and length) without bumping refcount — unlike
// the D/C++ source this is ported from, where a postblit or copy
// constructor does that automatically. Read-only aliasing via `:=` is
// still safe (Get never mutates), but if both the original and the copy
// may be mutated independently, copy with Clone instead of `:=` so the
// shared buffer's refcount reflects reality and Set/Append/Truncate know
// to copy-if-shared. This is the explicit-clone alternative sanctioned for
// ports without compiler-assisted copy hooks.
type Array struct {
	buf *buffer
	n   int
}

func newBuffer(n int) *buffer {
	if n == 0 {
		return nil
	}
	return &buffer{data: make([]byte, n*3), refcount: 1}
}

// New builds an Array from the given values.
func New(values ...uint32) (Array, error) {
	a := Array{}
	if len(values) == 0 {
		return a, nil
	}
	a.buf = newBuffer(len(values))
	a.n = len(values)
	for i, v := range values {
		if v > Max {
			return Array{}, errors.Wrapf(ErrOutOfRange, "value %d at index %d", v, i)
		}
		putAt(a.buf.data, i, v)
	}
	return a, nil
}

func putAt(data []byte, i int, v uint32) {
	o := i * 3
	data[o] = byte(v)
	data[o+1] = byte(v >> 8)
	data[o+2] = byte(v >> 16)
}

func getAt(data []byte, i int) uint32 {
	o := i * 3
	return uint32(data[o]) | uint32(data[o+1])<<8 | uint32(data[o+2])<<16
}

// Len returns the number of elements.
func (a Array) Len() int { return a.n }

// Get reads element i.
func (a Array) Get(i int) uint32 {
	if i < 0 || i >= a.n {
		panic("uint24: index out of range")
	}
	return getAt(a.buf.data, i)
}

// shared reports whether the backing buffer has more than one owner.
func (a Array) shared() bool {
	return a.buf != nil && a.buf.refcount > 1
}

// makeUnique performs copy-if-shared: if the backing buffer is aliased, it
// is replaced by a private copy sized to the current logical length.
func (a *Array) makeUnique() {
	if a.buf == nil {
		return
	}
	if !a.shared() {
		return
	}
	old := a.buf
	old.refcount--
	nb := &buffer{data: append([]byte(nil), old.data[:a.n*3]...), refcount: 1}
	a.buf = nb
}

// Set writes value v at index i, performing copy-on-write first.
func (a *Array) Set(i int, v uint32) error {
	if i < 0 || i >= a.n {
		panic("uint24: index out of range")
	}
	if v > Max {
		return errors.Wrapf(ErrOutOfRange, "value %d at index %d", v, i)
	}
	a.makeUnique()
	putAt(a.buf.data, i, v)
	return nil
}

// Append grows the array by one element, appending v.
func (a *Array) Append(v uint32) error {
	if v > Max {
		return errors.Wrapf(ErrOutOfRange, "value %d at append index %d", v, a.n)
	}
	if a.buf == nil {
		a.buf = &buffer{refcount: 1}
	} else {
		a.makeUnique()
	}
	a.buf.data = append(a.buf.data[:a.n*3], byte(v), byte(v>>8), byte(v>>16))
	a.n++
	return nil
}

// Truncate shortens the logical length to n (n <= Len()), performing
// copy-on-write first. The backing allocation is not shrunk immediately.
func (a *Array) Truncate(n int) {
	if n < 0 || n > a.n {
		panic("uint24: truncate length out of range")
	}
	if n == a.n {
		return
	}
	a.makeUnique()
	a.n = n
}

// Slice returns a new Array holding a copy of elements [lo, hi). It is not
// a view: the result never shares storage with a, so mutating either one
// leaves the other unchanged.
func (a Array) Slice(lo, hi int) Array {
	if lo < 0 || hi > a.n || lo > hi {
		panic("uint24: slice out of range")
	}
	if a.buf == nil || lo == hi {
		return Array{}
	}
	// A byte-offset view would break the "3 bytes per element from offset
	// 0" assumption makeUnique relies on, so slicing materializes a
	// reference-counted copy of just the requested range.
	sub := &buffer{data: append([]byte(nil), a.buf.data[lo*3:hi*3]...), refcount: 1}
	return Array{buf: sub, n: hi - lo}
}

// Clone returns an Array aliasing the same buffer as a, with the shared
// refcount incremented — the Go equivalent of the source's `B = A`, which
// relies on a copy constructor to do this implicitly. Both a and the
// result remain valid; the next mutation of either copies the buffer.
func (a Array) Clone() Array {
	if a.buf != nil {
		a.buf.refcount++
	}
	return a
}

// Release decrements the shared refcount. The Go garbage collector
// reclaims the backing slice once all referencing Arrays are unreachable
// regardless of refcount, so Release exists only to keep the bookkeeping
// invariant in §4.2 ("no two distinct allocations share a refcount slot")
// observable and testable; it is not required for memory safety here.
func (a Array) Release() {
	if a.buf == nil {
		return
	}
	a.buf.refcount--
}

// Equal reports whether a and b hold the same sequence of values.
func Equal(a, b Array) bool {
	if a.n != b.n {
		return false
	}
	if a.n == 0 {
		return true
	}
	if a.buf == b.buf {
		return true
	}
	for i := 0; i < a.n; i++ {
		if getAt(a.buf.data, i) != getAt(b.buf.data, i) {
			return false
		}
	}
	return true
}

// ToSlice materializes the array as a []uint32, for callers that need a
// plain Go slice (e.g. the interval-set source emitter).
func (a Array) ToSlice() []uint32 {
	out := make([]uint32, a.n)
	for i := range out {
		out[i] = getAt(a.buf.data, i)
	}
	return out
}
