package cpu

import (
	"fmt"
)

// CodeOp is an instruction operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_INC  = CodeOp(0) // INC
	OP_INV  = CodeOp(1) // INV
	OP_LOAD = CodeOp(2) // LOAD
	OP_CDEC = CodeOp(3) // CDEC
)

// opMap maps mnemonics to operations. Mnemonics are case-sensitive.
var opMap = map[string]CodeOp{
	"INC":  OP_INC,
	"INV":  OP_INV,
	"LOAD": OP_LOAD,
	"CDEC": OP_CDEC,
}

// Counted returns true if the operation takes a repetition count.
func (op CodeOp) Counted() bool {
	return op == OP_INC || op == OP_CDEC
}

// Code is a single decoded instruction.
type Code struct {
	Op    CodeOp
	Count uint // Repetition count of INC and CDEC.
}

// MakeCodeInc creates an address increment instruction.
func MakeCodeInc(count uint) Code {
	return Code{Op: OP_INC, Count: count}
}

// MakeCodeInv creates a bit inversion instruction.
func MakeCodeInv() Code {
	return Code{Op: OP_INV}
}

// MakeCodeLoad creates a store latch load instruction.
func MakeCodeLoad() Code {
	return Code{Op: OP_LOAD}
}

// MakeCodeCdec creates a conditional address decrement instruction.
func MakeCodeCdec(count uint) Code {
	return Code{Op: OP_CDEC, Count: count}
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	if code.Op.Counted() && code.Count != 1 {
		return fmt.Sprintf("%v %d", code.Op.String(), code.Count)
	}

	return code.Op.String()
}
