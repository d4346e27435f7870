// Package varint implements the compressed interval-run encoding used to
// embed property tables in static data: first-difference coding of
// cumulative deltas with a variable-length byte format.
//
//   - a byte with top bit 0 carries a 7-bit value.
//   - a byte 0b100xxxxx introduces one payload byte (13-bit total value).
//   - a byte 0b101xxxxx introduces two payload bytes (21-bit total value).
//
// The decoded values are cumulative deltas forming ascending interval
// boundaries; an odd-length stream implies an implicit trailing boundary
// at 0x110000.
package varint

import "github.com/pkg/errors"

// ErrTruncated reports a malformed stream: a lead byte promised payload
// bytes that were not present.
var ErrTruncated = errors.New("varint: truncated interval stream")

const (
	tag1Byte  = 0b0000_0000
	tag2Byte  = 0b1000_0000
	tag3Byte  = 0b1010_0000
	mask1Byte = 0b1000_0000
	mask2Byte = 0b1110_0000
)

// Encode writes the ascending boundary sequence bs as a first-difference
// variable-length byte stream.
func Encode(bs []uint32) []byte {
	var out []byte
	var prev uint32
	for _, b := range bs {
		delta := b - prev
		out = appendValue(out, delta)
		prev = b
	}
	return out
}

func appendValue(out []byte, v uint32) []byte {
	switch {
	case v < 1<<7:
		return append(out, byte(v))
	case v < 1<<13:
		return append(out, tag2Byte|byte(v>>8), byte(v))
	case v < 1<<21:
		return append(out, tag3Byte|byte(v>>16), byte(v>>8), byte(v))
	default:
		panic("varint: delta too large to encode")
	}
}

// Decode reconstructs the ascending boundary sequence from an encoded
// stream, returning ErrTruncated if a lead byte's payload bytes are
// missing. If the decoded sequence has odd length, an implicit trailing
// boundary at 0x110000 is appended.
func Decode(data []byte) ([]uint32, error) {
	var out []uint32
	var cum uint32
	i := 0
	for i < len(data) {
		lead := data[i]
		var v uint32
		switch {
		case lead&mask1Byte == tag1Byte:
			v = uint32(lead)
			i++
		case lead&mask2Byte == tag2Byte:
			if i+1 >= len(data) {
				return nil, errors.Wrapf(ErrTruncated, "at byte %d", i)
			}
			v = uint32(lead&^mask2Byte)<<8 | uint32(data[i+1])
			i += 2
		case lead&mask2Byte == tag3Byte:
			if i+2 >= len(data) {
				return nil, errors.Wrapf(ErrTruncated, "at byte %d", i)
			}
			v = uint32(lead&^mask2Byte)<<16 | uint32(data[i+1])<<8 | uint32(data[i+2])
			i += 3
		default:
			return nil, errors.Wrapf(ErrTruncated, "invalid lead byte %#02x at %d", lead, i)
		}
		cum += v
		out = append(out, cum)
	}
	if len(out)%2 == 1 {
		out = append(out, 0x110000)
	}
	return out, nil
}
