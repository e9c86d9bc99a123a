// Package grader evaluates WoodSIM programs against catalog challenges.
//
// A single engine is built per evaluation, and reset between randomized
// trials. Every trial steps the program exactly once per instruction, then
// compares the memory just past the input against the expected output.
package grader

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/woodsim/challenge"
	"github.com/ezrec/woodsim/cpu"
	"github.com/ezrec/woodsim/emulator"
	"github.com/ezrec/woodsim/internal"
	"github.com/ezrec/woodsim/translate"
)

// Grader runs challenge trials.
type Grader struct {
	Verbose bool               // If set, logs every trial.
	Catalog *challenge.Catalog // Challenge catalog.
	Rand    *rand.Rand         // Problem source. If nil, every problem is freshly seeded.
	Trials  int                // Trial count. If 0, the catalog's count.
	Bits    uint               // Minimum memory size in bits.
	Policy  cpu.MemoryPolicy   // Memory overflow policy.
}

// Failure describes the first failing trial.
type Failure struct {
	Trial    int      // 1-based trial number.
	Input    cpu.Bits // Input loaded at address 0.
	Actual   cpu.Bits // Output region after the run.
	Expected cpu.Bits // Expected output region.
	Fault    error    // Set if the run faulted.
}

// Outcome of an evaluation.
type Outcome struct {
	Challenge *challenge.Challenge
	Trials    int      // Trials requested.
	Passed    int      // Trials passed.
	Failure   *Failure // First failure, or nil on success.
}

// NewGrader creates a grader over the latest catalog.
func NewGrader() *Grader {
	return &Grader{
		Catalog: challenge.Latest(),
	}
}

// Challenge returns the challenge for id from the grader's catalog.
func (g *Grader) Challenge(id challenge.Id) (ch *challenge.Challenge, err error) {
	if g.Catalog == nil {
		err = ErrCatalogMissing
		return
	}

	return g.Catalog.Get(id)
}

// MemoryBits returns the memory size used to evaluate prog against ch.
func (g *Grader) MemoryBits(ch *challenge.Challenge, prog *cpu.Program) uint {
	return max(g.Bits, ch.MemoryBits(), prog.Bits)
}

// Defines returns the assembler equates for a solution to id.
func (g *Grader) Defines(id challenge.Id) (defines iter.Seq2[string, string], err error) {
	ch, err := g.Challenge(id)
	if err != nil {
		return
	}

	defines = internal.IterSeq2Concat(ch.Defines(),
		maps.All(map[string]string{
			"MEMORY_BITS": fmt.Sprintf("%v", max(g.Bits, ch.MemoryBits())),
			"TRIALS":      fmt.Sprintf("%v", g.trials()),
		}),
	)

	return
}

func (g *Grader) trials() int {
	if g.Trials != 0 || g.Catalog == nil {
		return g.Trials
	}

	return g.Catalog.Trials
}

// Evaluate runs prog against every trial of challenge id, stopping at the
// first failure. A fault during a trial is a failure, not an error.
func (g *Grader) Evaluate(id challenge.Id, prog *cpu.Program) (outcome *Outcome, err error) {
	ch, err := g.Challenge(id)
	if err != nil {
		return
	}

	trials := g.trials()
	if trials <= 0 {
		err = ErrTrialCount
		return
	}

	emu := emulator.NewEmulator(g.MemoryBits(ch, prog), prog)
	emu.Verbose = g.Verbose
	emu.Memory.Policy = g.Policy

	outcome = &Outcome{
		Challenge: ch,
		Trials:    trials,
	}

	for trial := 1; trial <= trials; trial++ {
		problem := ch.Problem(g.Rand)

		var failure *Failure
		failure, err = g.trial(emu, ch, problem)
		if err != nil {
			outcome = nil
			return
		}

		if failure != nil {
			failure.Trial = trial
			outcome.Failure = failure
			if g.Verbose {
				log.Printf("grader: %v: trial %d failed", ch.Name, trial)
			}
			return
		}

		outcome.Passed++
		if g.Verbose {
			log.Printf("grader: %v: trial %d passed", ch.Name, trial)
		}
	}

	return
}

// trial runs a single problem. Errors are reserved for harness failures.
func (g *Grader) trial(emu *emulator.Emulator, ch *challenge.Challenge, problem challenge.Problem) (failure *Failure, err error) {
	err = emu.Reset(problem.Input)
	if err != nil {
		return
	}

	var fault error
	for range emu.Program.Len() {
		_, fault = emu.Tick()
		if fault != nil {
			break
		}
	}

	actual, err := emu.Output(ch.InputBits, ch.OutputBits)
	if err != nil {
		return
	}

	if fault != nil || !actual.Equal(problem.Output) {
		failure = &Failure{
			Input:    problem.Input,
			Actual:   actual,
			Expected: problem.Output,
			Fault:    fault,
		}
	}

	return
}

// Ok returns true if every trial passed.
func (outcome *Outcome) Ok() bool {
	return outcome.Failure == nil && outcome.Passed == outcome.Trials
}

// Report writes a human readable summary to w.
func (outcome *Outcome) Report(w io.Writer) (err error) {
	ch := outcome.Challenge

	if outcome.Ok() {
		_, err = translate.Fprintf(w, "challenge %d (%v): passed %d of %d trials\n",
			ch.Id, ch.Name, outcome.Passed, outcome.Trials)
		return
	}

	failure := outcome.Failure
	if failure == nil {
		return errors.New(f("challenge %d (%v): incomplete", ch.Id, ch.Name))
	}

	if failure.Fault != nil {
		_, err = translate.Fprintf(w, "challenge %d (%v): trial %d faulted: %v\n",
			ch.Id, ch.Name, failure.Trial, failure.Fault)
	} else {
		_, err = translate.Fprintf(w, "challenge %d (%v): trial %d output mismatch\n",
			ch.Id, ch.Name, failure.Trial)
	}
	if err != nil {
		return
	}

	_, err = translate.Fprintf(w, "   input: %v\n  actual: %v\nexpected: %v\n",
		failure.Input, failure.Actual, failure.Expected)

	return
}
