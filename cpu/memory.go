package cpu

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// MemoryPolicy selects what happens when the address register would leave
// the memory arena.
type MemoryPolicy int

//go:generate go tool stringer -linecomment -type=MemoryPolicy
const (
	POLICY_FAULT = MemoryPolicy(0) // fault
	POLICY_WRAP  = MemoryPolicy(1) // wrap
	POLICY_GROW  = MemoryPolicy(2) // grow
)

const (
	MEMORY_GROW_LIMIT = uint(1 << 30) // Largest arena POLICY_GROW will allocate, in bits.
)

// ParseMemoryPolicy returns the policy for its name.
func ParseMemoryPolicy(name string) (policy MemoryPolicy, err error) {
	for _, policy = range []MemoryPolicy{POLICY_FAULT, POLICY_WRAP, POLICY_GROW} {
		if policy.String() == name {
			return
		}
	}

	err = ErrPolicy
	return
}

// Memory is a bit arena with an explicit capacity.
type Memory struct {
	Policy MemoryPolicy // Address overflow policy.

	bits    *bitset.BitSet
	size    uint
	initial uint
}

// NewMemory creates a zeroed arena of size bits. An arena always has at
// least one bit, so address 0 is valid.
func NewMemory(size uint) (mem *Memory) {
	size = max(size, 1)

	mem = &Memory{
		bits:    bitset.New(size),
		size:    size,
		initial: size,
	}

	return
}

// Len returns the current capacity in bits.
func (mem *Memory) Len() uint {
	return mem.size
}

// Count returns the number of set bits.
func (mem *Memory) Count() uint {
	return mem.bits.Count()
}

// Reset zeros the arena and restores its constructed capacity.
func (mem *Memory) Reset() {
	if mem.size != mem.initial {
		mem.bits = bitset.New(mem.initial)
		mem.size = mem.initial
		return
	}

	mem.bits.ClearAll()
}

// Test returns the bit at addr. Bits outside the arena read as zero.
func (mem *Memory) Test(addr uint) bool {
	return mem.bits.Test(addr)
}

// Flip inverts the bit at addr.
func (mem *Memory) Flip(addr uint) {
	mem.bits.Flip(addr)
}

// SetTo sets the bit at addr.
func (mem *Memory) SetTo(addr uint, value bool) {
	mem.bits.SetTo(addr, value)
}

// Write copies data into the arena starting at addr.
func (mem *Memory) Write(addr uint, data Bits) (err error) {
	end := addr + uint(len(data))
	if end < addr {
		return ErrMemoryRange
	}
	if end > mem.size {
		if mem.Policy != POLICY_GROW {
			return ErrMemoryRange
		}
		err = mem.grow(end - 1)
		if err != nil {
			return
		}
	}

	for n, bit := range data {
		mem.bits.SetTo(addr+uint(n), bit)
	}

	return
}

// Read copies count bits out of the arena starting at addr.
func (mem *Memory) Read(addr, count uint) (data Bits, err error) {
	end := addr + count
	if end < addr || end > mem.size {
		err = ErrMemoryRange
		return
	}

	data = NewBits(count)
	for n := range count {
		data[n] = mem.bits.Test(addr + n)
	}

	return
}

// Bits returns a copy of the whole arena.
func (mem *Memory) Bits() Bits {
	data, _ := mem.Read(0, mem.size)
	return data
}

// Advance returns addr moved up by count, according to the policy.
func (mem *Memory) Advance(addr, count uint) (next uint, err error) {
	switch mem.Policy {
	case POLICY_FAULT:
		if count >= mem.size-addr {
			err = ErrOutOfMemory
			return
		}
		next = addr + count
	case POLICY_WRAP:
		next = (addr + count%mem.size) % mem.size
	case POLICY_GROW:
		if count > math.MaxUint-addr {
			err = ErrOutOfMemory
			return
		}
		next = addr + count
		err = mem.grow(next)
		if err != nil {
			return
		}
	default:
		err = ErrPolicy
	}

	return
}

// Retreat returns addr moved down by count, according to the policy.
func (mem *Memory) Retreat(addr, count uint) (next uint, err error) {
	switch mem.Policy {
	case POLICY_FAULT, POLICY_GROW:
		if count > addr {
			err = ErrNegativeAddr
			return
		}
		next = addr - count
	case POLICY_WRAP:
		next = (addr + mem.size - count%mem.size) % mem.size
	default:
		err = ErrPolicy
	}

	return
}

// grow doubles the capacity until addr is inside the arena.
func (mem *Memory) grow(addr uint) (err error) {
	if addr < mem.size {
		return
	}
	if addr >= MEMORY_GROW_LIMIT {
		return ErrOutOfMemory
	}

	size := mem.size
	for addr >= size {
		size *= 2
	}
	size = min(size, MEMORY_GROW_LIMIT)

	bigger := bitset.New(size)
	mem.bits.Copy(bigger)
	mem.bits = bigger
	mem.size = size

	return
}
