// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package debugger is a line oriented stepper over a WoodSIM emulator.
package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/woodsim/cpu"
	"github.com/ezrec/woodsim/emulator"
	"github.com/ezrec/woodsim/translate"
)

const helpText = `n [k]  step forward k instructions (default 1)
b [k]  step backward k instructions (default 1)
r      run to the end, or to a fault
z      reset to the loaded input
s      show the state
m      show the memory
h      show this help
q      quit
`

// Debugger steps an emulator back and forth.
type Debugger struct {
	Emulator *emulator.Emulator
	Prompt   string

	FinalStep int   // Step where the last run stopped.
	Result    error // Result of the last run.

	last string
}

// NewDebugger creates a debugger positioned where a run of emu stopped,
// with result the outcome of that run.
func NewDebugger(emu *emulator.Emulator, result error) *Debugger {
	return &Debugger{
		Emulator:  emu,
		Prompt:    "> ",
		FinalStep: emu.Step,
		Result:    result,
	}
}

// FaultName returns the short name of a run result.
func FaultName(err error) string {
	switch {
	case err == nil:
		return "[none]"
	case errors.Is(err, cpu.ErrOutOfMemory):
		return "MEM"
	case errors.Is(err, cpu.ErrNegativeAddr):
		return "NEG"
	default:
		return err.Error()
	}
}

// Status writes the current state to w.
func (dbg *Debugger) Status(w io.Writer) (err error) {
	emu := dbg.Emulator

	command := "<INIT>"
	if code, ok := emu.Program.Code(emu.Step - 1); ok {
		command = code.String()
	}

	fault := "[none]"
	if emu.Step == dbg.FinalStep {
		fault = FaultName(dbg.Result)
	}

	_, err = translate.Fprintf(w, "   step: %d / %d\ncommand: %v\n  error: %v\naddress: 0x%012x\n  store: %v\n",
		emu.Step, dbg.FinalStep, command, fault, emu.Addr, emu.Store)

	return
}

// Memory writes the memory dump to w.
func (dbg *Debugger) Memory(w io.Writer) (err error) {
	for _, line := range MemoryLines(dbg.Emulator.Memory.Bits()) {
		_, err = fmt.Fprintln(w, line)
		if err != nil {
			return
		}
	}

	return
}

// forward steps count instructions, stopping at a fault.
func (dbg *Debugger) forward(count int) (err error) {
	emu := dbg.Emulator
	for range count {
		var done bool
		done, err = emu.Tick()
		if err != nil {
			dbg.FinalStep = emu.Step
			dbg.Result = err
			return
		}
		if done {
			break
		}
	}

	if emu.Step > dbg.FinalStep {
		dbg.FinalStep = emu.Step
		dbg.Result = nil
	}

	return
}

// backward steps back count instructions.
func (dbg *Debugger) backward(count int) (err error) {
	for range count {
		err = dbg.Emulator.Untick()
		if err != nil {
			return
		}
	}

	return
}

// parseCount parses the optional count argument.
func parseCount(args []string) (count int, err error) {
	switch len(args) {
	case 0:
		return 1, nil
	case 1:
		count, err = strconv.Atoi(args[0])
		if err != nil || count < 1 {
			err = ErrCommandCount
		}
	default:
		err = ErrCommandCount
	}

	return
}

// Command executes a single command line, writing its output to w. Quit
// is true for the quit command.
func (dbg *Debugger) Command(line string, w io.Writer) (quit bool, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		if dbg.last == "" {
			return
		}
		words = strings.Fields(dbg.last)
	}

	dbg.last = strings.Join(words, " ")

	show := false
	switch words[0] {
	case "n", "b":
		var count int
		count, err = parseCount(words[1:])
		if err != nil {
			return
		}
		if words[0] == "n" {
			err = dbg.forward(count)
		} else {
			err = dbg.backward(count)
		}
		show = true
	case "r":
		err = dbg.forward(dbg.Emulator.Program.Len())
		show = true
	case "z":
		err = dbg.Emulator.Reset(dbg.Emulator.Input)
		show = true
	case "s":
		show = true
	case "m":
		err = dbg.Memory(w)
	case "h":
		_, err = io.WriteString(w, helpText)
	case "q":
		quit = true
	default:
		err = ErrCommandUnknown
	}

	if show {
		_err := dbg.Status(w)
		if err == nil {
			err = _err
		}
	}

	return
}

// Interact reads commands from r until quit or end of input.
func (dbg *Debugger) Interact(r io.Reader, w io.Writer) (err error) {
	err = dbg.Status(w)
	if err != nil {
		return
	}

	scanner := bufio.NewScanner(r)
	for {
		_, err = io.WriteString(w, dbg.Prompt)
		if err != nil {
			return
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		quit, cmdErr := dbg.Command(scanner.Text(), w)
		if cmdErr != nil {
			_, err = translate.Fprintf(w, "error: %v\n", cmdErr)
			if err != nil {
				return
			}
		}
		if quit {
			return
		}
	}
}
