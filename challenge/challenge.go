// Package challenge holds the catalog of WoodSIM challenge problems.
//
// Every challenge generates random problems: an input bit pattern loaded at
// address 0, and the output bit pattern expected right after it once the
// program has run. Generators draw all randomness from the *rand.Rand they
// are handed, so a seeded source replays the same problems.
package challenge

import (
	"fmt"
	"iter"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/woodsim/cpu"
)

// Id identifies a challenge within a catalog.
type Id int

const (
	ID_XOR         = Id(0) // xor
	ID_ONE_BIT_ADD = Id(1) // one-bit-add
	ID_FULL_ADD    = Id(2) // full-add
	ID_MULTIPLY    = Id(3) // multiply
	ID_SHA256      = Id(8) // sha256-compress
)

// Problem is a single randomized instance of a challenge.
type Problem struct {
	Input  cpu.Bits // Loaded at address 0.
	Output cpu.Bits // Expected right after the input.
}

// Generator makes a problem from a random source.
type Generator func(rng *rand.Rand) Problem

// Challenge describes one entry of a catalog.
type Challenge struct {
	Id         Id
	Name       string
	InputBits  uint
	OutputBits uint
	Generate   Generator
}

// NewRand returns a freshly seeded random source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand returns a random source that replays for the same seed.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// Problem generates a problem. A nil rng uses a freshly seeded source.
func (ch *Challenge) Problem(rng *rand.Rand) Problem {
	if rng == nil {
		rng = NewRand()
	}

	return ch.Generate(rng)
}

// MemoryBits returns the smallest memory that holds input and output.
func (ch *Challenge) MemoryBits() uint {
	return ch.InputBits + ch.OutputBits
}

// Defines returns the assembler equates describing the challenge layout.
func (ch *Challenge) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"INPUT_BITS":  fmt.Sprintf("%v", ch.InputBits),
		"OUTPUT_BITS": fmt.Sprintf("%v", ch.OutputBits),
		"OUTPUT_ADDR": fmt.Sprintf("%v", ch.InputBits),
	})
}

// String returns a one line description.
func (ch *Challenge) String() string {
	return fmt.Sprintf("%d: %v (%d bits in, %d bits out)", ch.Id, ch.Name, ch.InputBits, ch.OutputBits)
}
