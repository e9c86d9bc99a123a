package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

// Delta is the engine state before a step executed; enough to undo it.
type Delta struct {
	Step  int  // Step that executed.
	Addr  uint // Address register before the step.
	Store bool // Store latch before the step.
}

// Cpu is the simulation context for the bit engine.
type Cpu struct {
	Verbose    bool // Set to enable verbose logging.
	Reversible bool // Set to record a trace, making Backward exact.

	Memory  *Memory  // Bit memory.
	Program *Program // Program being executed.

	Addr  uint // Address register.
	Store bool // Store latch.
	Step  int  // Program counter.
	Done  bool // Set when Step reaches the end of the program.

	Ticks int // Instructions executed since reset, in either direction.

	trace []Delta
}

// NewCpu creates a new engine with size bits of memory, running prog.
func NewCpu(size uint, prog *Program) (cpu *Cpu) {
	if prog == nil {
		prog = &Program{}
	}

	cpu = &Cpu{
		Memory:  NewMemory(size),
		Program: prog,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_BITS": fmt.Sprintf("%v", cpu.Memory.Len()),
	})
}

// String returns the current engine state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"step", "addr", "store", "done", "bits"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "step":
			strval = fmt.Sprintf("%d / %d", cpu.Step, cpu.Program.Len())
		case "addr":
			strval = fmt.Sprintf("0x%012x", cpu.Addr)
		case "store":
			strval = fmt.Sprintf("%v", cpu.Store)
		case "done":
			strval = fmt.Sprintf("%v", cpu.Done)
		case "bits":
			strval = fmt.Sprintf("%d", cpu.Memory.Len())
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Reset the engine state.
// - Zeros the memory, and restores its capacity.
// - Clears the address register and store latch.
// - Rewinds the program counter, and drops the trace.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Addr = 0
	cpu.Store = false
	cpu.Step = 0
	cpu.Done = cpu.Program.Len() == 0
	cpu.Ticks = 0
	cpu.trace = cpu.trace[:0]
}

// Code returns the next instruction to execute.
func (cpu *Cpu) Code() (code Code, ok bool) {
	return cpu.Program.Code(cpu.Step)
}

// Execute executes a single instruction, without moving the program
// counter. A faulting instruction leaves the state unchanged.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	switch code.Op {
	case OP_INC:
		var addr uint
		addr, err = cpu.Memory.Advance(cpu.Addr, code.Count)
		if err != nil {
			return
		}
		cpu.Addr = addr
	case OP_INV:
		cpu.Memory.Flip(cpu.Addr)
	case OP_LOAD:
		cpu.Store = cpu.Memory.Test(cpu.Addr)
	case OP_CDEC:
		if !cpu.Store {
			return
		}
		var addr uint
		addr, err = cpu.Memory.Retreat(cpu.Addr, code.Count)
		if err != nil {
			return
		}
		cpu.Addr = addr
	default:
		err = ErrOpcodeDecode
	}

	return
}

// Forward executes the instruction at the program counter, then advances
// it. Does nothing once the program is done. On a fault the program
// counter stays at the faulting step.
func (cpu *Cpu) Forward() (err error) {
	if cpu.Done {
		return
	}

	code, ok := cpu.Code()
	if !ok {
		cpu.Done = true
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %04d: %v", cpu.Step, code)
	}

	delta := Delta{Step: cpu.Step, Addr: cpu.Addr, Store: cpu.Store}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	if cpu.Reversible {
		cpu.trace = append(cpu.trace, delta)
	}

	cpu.Ticks++
	cpu.Step++
	cpu.Done = cpu.Step == cpu.Program.Len()

	return
}

// Backward undoes the most recently executed instruction, and moves the
// program counter back.
//
// Undo is exact when the step was recorded in the trace. Otherwise the
// inverse instruction is executed: INV flips again, INC and CDEC move the
// other way (gated by the store latch), and LOAD re-samples the addressed
// bit, which is only correct if that bit has not changed since.
func (cpu *Cpu) Backward() (err error) {
	if cpu.Step == 0 {
		return ErrStepFirst
	}

	code, _ := cpu.Program.Code(cpu.Step - 1)

	if cpu.Verbose {
		log.Printf("cpu: %04d: undo %v", cpu.Step-1, code)
	}

	if n := len(cpu.trace); n > 0 && cpu.trace[n-1].Step == cpu.Step-1 {
		delta := cpu.trace[n-1]
		cpu.trace = cpu.trace[:n-1]
		if code.Op == OP_INV {
			cpu.Memory.Flip(delta.Addr)
		}
		cpu.Addr = delta.Addr
		cpu.Store = delta.Store
	} else {
		err = cpu.undo(code)
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
			return
		}
	}

	cpu.Ticks++
	cpu.Step--
	cpu.Done = false

	return
}

// Run executes until the program is done, or an instruction faults. The
// state at the fault is kept for inspection.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Done {
		err = cpu.Forward()
		if err != nil {
			return
		}
	}

	return
}

// undo executes the inverse of code.
func (cpu *Cpu) undo(code Code) (err error) {
	addr := cpu.Addr

	switch code.Op {
	case OP_INC:
		addr, err = cpu.Memory.Retreat(cpu.Addr, code.Count)
	case OP_INV:
		cpu.Memory.Flip(cpu.Addr)
	case OP_LOAD:
		cpu.Store = cpu.Memory.Test(cpu.Addr)
	case OP_CDEC:
		if cpu.Store {
			addr, err = cpu.Memory.Advance(cpu.Addr, code.Count)
		}
	default:
		err = ErrOpcodeDecode
	}
	if err != nil {
		return
	}

	cpu.Addr = addr

	return
}
