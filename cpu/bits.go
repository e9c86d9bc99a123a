package cpu

import (
	"slices"
	"strings"

	"github.com/holiman/uint256"
)

// Bits is a little-endian sequence of bits. Index 0 is the least
// significant bit of any integer stored in it.
type Bits []bool

// NewBits returns a zeroed bit sequence of length n.
func NewBits(n uint) Bits {
	return make(Bits, n)
}

// ParseBits parses a string of '0' and '1' characters. Spaces and
// underscores are ignored.
func ParseBits(text string) (bits Bits, err error) {
	bits = Bits{}
	for _, ch := range text {
		switch ch {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case ' ', '_':
			// separator
		default:
			err = ErrBitsSyntax
			return
		}
	}

	return
}

// BitsFromBytes expands the first n bits of data, each byte LSB first.
func BitsFromBytes(data []byte, n uint) (bits Bits) {
	bits = NewBits(n)
	for i := range n {
		if int(i/8) >= len(data) {
			break
		}
		bits[i] = ((data[i/8] >> (i % 8)) & 1) != 0
	}

	return
}

// Bytes packs the bits, LSB first. A trailing partial byte is zero padded.
func (b Bits) Bytes() (data []byte) {
	data = make([]byte, (len(b)+7)/8)
	for i, bit := range b {
		if bit {
			data[i/8] |= 1 << (i % 8)
		}
	}

	return
}

// Equal returns true if both sequences have the same length and bits.
func (b Bits) Equal(other Bits) bool {
	return slices.Equal(b, other)
}

// String returns the bits as '0' and '1' characters, in groups of eight.
func (b Bits) String() string {
	var sb strings.Builder
	for i, bit := range b {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// Uint64 decodes width bits (at most 64) starting at start.
func (b Bits) Uint64(start, width uint) (value uint64) {
	for n := range width {
		if b[start+n] {
			value |= 1 << n
		}
	}

	return
}

// PutUint64 encodes the low width bits (at most 64) of value at start.
func (b Bits) PutUint64(start, width uint, value uint64) {
	for n := range width {
		b[start+n] = ((value >> n) & 1) != 0
	}
}

// Uint256 decodes width bits (at most 256) starting at start.
func (b Bits) Uint256(start, width uint) (value *uint256.Int) {
	value = new(uint256.Int)
	for n := range width {
		if b[start+n] {
			value[n/64] |= 1 << (n % 64)
		}
	}

	return
}

// PutUint256 encodes the low width bits (at most 256) of value at start.
func (b Bits) PutUint256(start, width uint, value *uint256.Int) {
	for n := range width {
		b[start+n] = ((value[n/64] >> (n % 64)) & 1) != 0
	}
}
