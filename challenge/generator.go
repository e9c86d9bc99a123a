package challenge

import (
	"math/rand/v2"

	"github.com/holiman/uint256"

	"github.com/ezrec/woodsim/cpu"
)

// XorChallenge outputs the XOR of two input bits.
func XorChallenge() *Challenge {
	return &Challenge{
		Id:         ID_XOR,
		Name:       "xor",
		InputBits:  2,
		OutputBits: 1,
		Generate: func(rng *rand.Rand) Problem {
			a := rng.IntN(2) == 1
			b := rng.IntN(2) == 1
			return XorProblem(a, b)
		},
	}
}

// XorProblem is the xor problem for a given input.
func XorProblem(a, b bool) Problem {
	return Problem{
		Input:  cpu.Bits{a, b},
		Output: cpu.Bits{a != b},
	}
}

// OneBitAddChallenge outputs the 2 bit sum of two input bits.
func OneBitAddChallenge() *Challenge {
	return &Challenge{
		Id:         ID_ONE_BIT_ADD,
		Name:       "one-bit-add",
		InputBits:  2,
		OutputBits: 2,
		Generate: func(rng *rand.Rand) Problem {
			return OneBitAddProblem(rng.Uint64N(2), rng.Uint64N(2))
		},
	}
}

// OneBitAddProblem is the one bit add problem for a given input.
func OneBitAddProblem(a, b uint64) (p Problem) {
	p = Problem{
		Input:  cpu.NewBits(2),
		Output: cpu.NewBits(2),
	}
	p.Input.PutUint64(0, 1, a)
	p.Input.PutUint64(1, 1, b)
	p.Output.PutUint64(0, 2, a+b)

	return
}

// FullAddChallenge outputs the width+1 bit sum of two width bit inputs.
func FullAddChallenge(width uint) *Challenge {
	return &Challenge{
		Id:         ID_FULL_ADD,
		Name:       "full-add",
		InputBits:  2 * width,
		OutputBits: width + 1,
		Generate: func(rng *rand.Rand) Problem {
			a := randUint256(rng, width)
			b := randUint256(rng, width)
			return FullAddProblem(width, a, b)
		},
	}
}

// FullAddProblem is the full add problem for a given input. Width is at
// most 255 bits.
func FullAddProblem(width uint, a, b *uint256.Int) (p Problem) {
	p = Problem{
		Input:  cpu.NewBits(2 * width),
		Output: cpu.NewBits(width + 1),
	}
	p.Input.PutUint256(0, width, a)
	p.Input.PutUint256(width, width, b)

	// Re-read the inputs, so bits above width do not leak into the sum.
	sum := new(uint256.Int).Add(p.Input.Uint256(0, width), p.Input.Uint256(width, width))
	p.Output.PutUint256(0, width+1, sum)

	return
}

// MultiplyChallenge outputs the 32 bit product of two 16 bit inputs.
func MultiplyChallenge() *Challenge {
	return &Challenge{
		Id:         ID_MULTIPLY,
		Name:       "multiply",
		InputBits:  32,
		OutputBits: 32,
		Generate: func(rng *rand.Rand) Problem {
			return MultiplyProblem(uint16(rng.Uint32()), uint16(rng.Uint32()))
		},
	}
}

// MultiplyProblem is the multiply problem for a given input.
func MultiplyProblem(a, b uint16) (p Problem) {
	p = Problem{
		Input:  cpu.NewBits(32),
		Output: cpu.NewBits(32),
	}
	p.Input.PutUint64(0, 16, uint64(a))
	p.Input.PutUint64(16, 16, uint64(b))
	p.Output.PutUint64(0, 32, uint64(a)*uint64(b))

	return
}

// randUint256 returns a random value of width bits.
func randUint256(rng *rand.Rand, width uint) (value *uint256.Int) {
	value = &uint256.Int{rng.Uint64(), rng.Uint64(), rng.Uint64(), rng.Uint64()}
	if width < 256 {
		mask := new(uint256.Int).Lsh(uint256.NewInt(1), width)
		mask.SubUint64(mask, 1)
		value.And(value, mask)
	}

	return
}
