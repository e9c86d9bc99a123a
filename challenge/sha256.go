package challenge

import (
	"encoding/binary"
	"math/bits"
	"math/rand/v2"

	"github.com/ezrec/woodsim/cpu"
)

const (
	SHA256_BLOCK_BITS = 512
	SHA256_STATE_BITS = 256
)

// Sha256Iv is the initial SHA-256 hash state.
var Sha256Iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// Sha256Compress runs the SHA-256 compression function over one block,
// including the final addition of the incoming state.
func Sha256Compress(state [8]uint32, block [64]byte) (out [8]uint32) {
	var w [64]uint32
	for i := range 16 {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := bits.RotateLeft32(w[i-15], -7) ^ bits.RotateLeft32(w[i-15], -18) ^ (w[i-15] >> 3)
		s1 := bits.RotateLeft32(w[i-2], -17) ^ bits.RotateLeft32(w[i-2], -19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]
	for i := range 64 {
		s1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + sha256K[i] + w[i]
		s0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		h = g
		g = f
		f = e
		e = d + t1
		d = c
		c = b
		b = a
		a = t1 + t2
	}

	out = [8]uint32{
		state[0] + a, state[1] + b, state[2] + c, state[3] + d,
		state[4] + e, state[5] + f, state[6] + g, state[7] + h,
	}

	return
}

// Sha256Challenge outputs one SHA-256 compression of a block and state.
func Sha256Challenge() *Challenge {
	return &Challenge{
		Id:         ID_SHA256,
		Name:       "sha256-compress",
		InputBits:  SHA256_BLOCK_BITS + SHA256_STATE_BITS,
		OutputBits: SHA256_STATE_BITS,
		Generate: func(rng *rand.Rand) Problem {
			var block [64]byte
			for i := range block {
				block[i] = byte(rng.Uint32())
			}
			var state [8]uint32
			for i := range state {
				state[i] = rng.Uint32()
			}
			return Sha256Problem(state, block)
		},
	}
}

// putState stores the words of state in reverse order, each LSB first.
func putState(b cpu.Bits, start uint, state [8]uint32) {
	for i := range uint(8) {
		b.PutUint64(start+i*32, 32, uint64(state[7-i]))
	}
}

// Sha256Problem is the compression problem for a given input.
//
// The input holds the block bytes, each LSB first, followed by the state.
// States are stored as eight 32 bit words where word i holds state[7-i].
func Sha256Problem(state [8]uint32, block [64]byte) (p Problem) {
	p = Problem{
		Input:  cpu.BitsFromBytes(block[:], SHA256_BLOCK_BITS+SHA256_STATE_BITS),
		Output: cpu.NewBits(SHA256_STATE_BITS),
	}
	putState(p.Input, SHA256_BLOCK_BITS, state)
	putState(p.Output, 0, Sha256Compress(state, block))

	return
}
