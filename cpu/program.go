package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Program is an assembled, immutable instruction listing.
type Program struct {
	Bits    uint     // Declared memory size in bits, or 0 if undeclared.
	Opcodes []Opcode // One opcode per executed step.
}

// Opcode is one assembled source line.
type Opcode struct {
	LineNo int      // 0-based source line number.
	Words  []string // Source words, after equate substitution.
	Code   Code
}

// Debug relates a program step to its source.
type Debug struct {
	*Opcode
	Step int
}

// NewProgram creates a program from bare codes, with no source lines.
func NewProgram(codes ...Code) (prog *Program) {
	prog = &Program{}
	for n, code := range codes {
		prog.Opcodes = append(prog.Opcodes, Opcode{LineNo: n, Code: code})
	}

	return
}

// Len returns the number of steps in the program.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Code returns the instruction executed at step.
func (prog *Program) Code(step int) (code Code, ok bool) {
	if step < 0 || step >= len(prog.Opcodes) {
		return
	}

	return prog.Opcodes[step].Code, true
}

// Debug returns the source opcode for step. The Opcode is nil when step is
// outside of the program.
func (prog *Program) Debug(step int) (dbg Debug) {
	if step < 0 || step >= len(prog.Opcodes) {
		return
	}

	dbg = Debug{
		Opcode: &prog.Opcodes[step],
		Step:   step,
	}

	return
}

// Codes iterates over the program's steps and instructions.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(step int, code Code) bool) {
		for step, op := range prog.Opcodes {
			if !yield(step, op.Code) {
				return
			}
		}
	}
}

// String returns the program as assembler source.
func (prog *Program) String() string {
	var sb strings.Builder
	if prog.Bits != 0 {
		fmt.Fprintf(&sb, "bits: %d\n", prog.Bits)
	}
	for _, code := range prog.Codes() {
		sb.WriteString(code.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
