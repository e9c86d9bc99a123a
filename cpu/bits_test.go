package cpu

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestBitsParse(t *testing.T) {
	assert := assert.New(t)

	bits, err := ParseBits("1100_1010 01")
	assert.NoError(err)
	assert.Equal(Bits{true, true, false, false, true, false, true, false, false, true}, bits)
	assert.Equal("11001010 01", bits.String())

	bits, err = ParseBits("")
	assert.NoError(err)
	assert.Equal(0, len(bits))
	assert.Equal("", bits.String())

	_, err = ParseBits("0102")
	assert.Equal(ErrBitsSyntax, err)
}

func TestBitsUint(t *testing.T) {
	assert := assert.New(t)

	bits := NewBits(48)
	bits.PutUint64(0, 16, 3)
	bits.PutUint64(16, 32, 0xdeadbeef)

	assert.Equal(uint64(3), bits.Uint64(0, 16))
	assert.Equal(uint64(0xdeadbeef), bits.Uint64(16, 32))
	assert.True(bits[0])
	assert.True(bits[1])
	assert.False(bits[2])

	// Bits above the width are dropped.
	bits.PutUint64(0, 2, 7)
	assert.Equal(uint64(3), bits.Uint64(0, 16))
}

func TestBitsUint256(t *testing.T) {
	assert := assert.New(t)

	value := uint256.NewInt(0)
	value.Lsh(uint256.NewInt(1), 254)
	value.AddUint64(value, 5)

	bits := NewBits(260)
	bits.PutUint256(2, 255, value)
	assert.False(bits[0])
	assert.True(bits[2])
	assert.True(bits[4])
	assert.True(bits[256])
	assert.Equal(value, bits.Uint256(2, 255))
}

func TestBitsBytes(t *testing.T) {
	assert := assert.New(t)

	bits := BitsFromBytes([]byte{0x01, 0x80, 0xff}, 20)
	assert.Equal("10000000 00000001 1111", bits.String())
	assert.Equal([]byte{0x01, 0x80, 0x0f}, bits.Bytes())

	short := BitsFromBytes([]byte{0x03}, 12)
	assert.Equal("11000000 0000", short.String())
}
