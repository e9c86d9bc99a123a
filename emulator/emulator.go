// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/woodsim/cpu"
	"github.com/ezrec/woodsim/internal"
)

const (
	INPUT_ADDR = 0 // Address the input bits are loaded at.
)

var _emulator_defines = map[string]string{
	"INPUT_ADDR": fmt.Sprintf("%v", INPUT_ADDR),
}

// Emulator state. CPU + program listing + input.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Input cpu.Bits // Input loaded by the last reset.
}

// NewEmulator creates a new emulator with at least bits of memory. A
// program declaring a larger memory gets its declared size.
func NewEmulator(bits uint, prog *cpu.Program) (emu *Emulator) {
	if prog == nil {
		prog = &cpu.Program{}
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(max(bits, prog.Bits), prog),
		Program: prog,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the emulator, and load input at INPUT_ADDR.
func (emu *Emulator) Reset(input cpu.Bits) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Program = emu.Program
	emu.Cpu.Reset()

	emu.Input = input

	err = emu.Cpu.Memory.Write(INPUT_ADDR, input)
	if err != nil {
		err = &ErrRuntime{LineNo: -1, Err: err}
		return
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the next instruction to execute.
func (emu *Emulator) Code() (code cpu.Code, ok bool) {
	return emu.Program.Code(emu.Cpu.Step)
}

// LineNo returns the source line number of the next instruction, or -1
// when the program is done.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Step)
	if dbg.Opcode == nil {
		return -1
	}

	return dbg.LineNo
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Done {
		done = true
		return
	}

	lineno := emu.LineNo()
	step := emu.Cpu.Step
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Step: step, Err: err}
		}
	}()

	err = emu.Cpu.Forward()
	if err != nil {
		return
	}

	done = emu.Cpu.Done

	return
}

// Untick steps the emulator back by one instruction.
func (emu *Emulator) Untick() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	step := emu.Cpu.Step - 1
	lineno := -1
	if dbg := emu.Program.Debug(step); dbg.Opcode != nil {
		lineno = dbg.LineNo
	}

	err = emu.Cpu.Backward()
	if err != nil {
		err = &ErrRuntime{LineNo: lineno, Step: step, Err: err}
		return
	}

	return
}

// Run ticks until the program is done, or faults.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}

// Output returns count bits of memory starting at addr.
func (emu *Emulator) Output(addr, count uint) (data cpu.Bits, err error) {
	return emu.Cpu.Memory.Read(addr, count)
}
