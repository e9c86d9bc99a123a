package main

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/ezrec/woodsim/challenge"
	"github.com/ezrec/woodsim/cpu"
	"github.com/ezrec/woodsim/debugger"
	"github.com/ezrec/woodsim/emulator"
	"github.com/ezrec/woodsim/grader"
	"github.com/ezrec/woodsim/translate"
)

var f = translate.From

var (
	ErrUsage     = errors.New(f("wrong number of arguments"))
	ErrChallenge = errors.New(f("challenge id invalid"))
)

var (
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log every assembled line and executed instruction",
	}
	bitsFlag = &cli.UintFlag{
		Name:  "bits",
		Usage: "Minimum memory size in bits",
	}
	policyFlag = &cli.StringFlag{
		Name:  "policy",
		Value: cpu.POLICY_FAULT.String(),
		Usage: "Memory overflow policy: fault, wrap or grow",
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Bits loaded at address 0, as '0' and '1' characters",
	}
	catalogFlag = &cli.IntFlag{
		Name:  "catalog",
		Value: challenge.CATALOG_LATEST,
		Usage: "Challenge catalog version",
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Replay the trials generated from a seed",
	}
	trialsFlag = &cli.IntFlag{
		Name:  "trials",
		Usage: "Number of trials (default: the catalog's)",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "woodsim",
		Usage: "Bit addressed machine simulator and challenge grader",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a program, and dump the memory",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{verboseFlag, bitsFlag, policyFlag, inputFlag},
				Action:    runAction,
			},
			{
				Name:      "debug",
				Usage:     "Run a program, then step through it",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{verboseFlag, bitsFlag, policyFlag, inputFlag},
				Action:    debugAction,
			},
			{
				Name:      "solve",
				Usage:     "Grade a program against a challenge",
				ArgsUsage: "<challenge> <file>",
				Flags:     []cli.Flag{verboseFlag, bitsFlag, policyFlag, catalogFlag, seedFlag, trialsFlag},
				Action:    solveAction,
			},
			{
				Name:   "list",
				Usage:  "List the challenges of a catalog",
				Flags:  []cli.Flag{catalogFlag},
				Action: listAction,
			},
		},
	}
}

// assemble parses the program at path.
func assemble(path string, defines iter.Seq2[string, string], verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range defines {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}

// loadEmulator assembles the program argument, and loads the input.
func loadEmulator(c *cli.Context) (emu *emulator.Emulator, err error) {
	if c.NArg() != 1 {
		err = ErrUsage
		return
	}

	policy, err := cpu.ParseMemoryPolicy(c.String("policy"))
	if err != nil {
		return
	}

	input, err := cpu.ParseBits(c.String("input"))
	if err != nil {
		return
	}

	verbose := c.Bool("verbose")
	bits := c.Uint("bits")

	prog, err := assemble(c.Args().First(), emulator.NewEmulator(bits, nil).Defines(), verbose)
	if err != nil {
		return
	}

	emu = emulator.NewEmulator(bits, prog)
	emu.Verbose = verbose
	emu.Memory.Policy = policy

	err = emu.Reset(input)
	if err != nil {
		return
	}

	return
}

func runAction(c *cli.Context) (err error) {
	emu, err := loadEmulator(c)
	if err != nil {
		return
	}

	result := emu.Run()

	w := c.App.Writer
	translate.Fprintf(w, "Memory usage consisted of %d bits.\n", emu.Memory.Len())
	translate.Fprintf(w, "Memory at program finish:\n")
	for _, line := range debugger.MemoryLines(emu.Memory.Bits()) {
		fmt.Fprintln(w, line)
	}

	if result != nil {
		return cli.Exit(result, 1)
	}

	return
}

func debugAction(c *cli.Context) (err error) {
	emu, err := loadEmulator(c)
	if err != nil {
		return
	}

	emu.Reversible = true
	result := emu.Run()
	if result != nil && emu.Verbose {
		log.Printf("woodsim: %v", result)
	}

	dbg := debugger.NewDebugger(emu, result)

	return dbg.Interact(c.App.Reader, c.App.Writer)
}

func solveAction(c *cli.Context) (err error) {
	if c.NArg() != 2 {
		err = ErrUsage
		return
	}

	id, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		err = errors.Join(ErrChallenge, err)
		return
	}

	cat, err := challenge.CatalogVersion(c.Int("catalog"))
	if err != nil {
		return
	}

	policy, err := cpu.ParseMemoryPolicy(c.String("policy"))
	if err != nil {
		return
	}

	g := &grader.Grader{
		Verbose: c.Bool("verbose"),
		Catalog: cat,
		Trials:  c.Int("trials"),
		Bits:    c.Uint("bits"),
		Policy:  policy,
	}
	if c.IsSet("seed") {
		g.Rand = challenge.NewSeededRand(c.Uint64("seed"))
	}

	defines, err := g.Defines(challenge.Id(id))
	if err != nil {
		return
	}

	prog, err := assemble(c.Args().Get(1), defines, g.Verbose)
	if err != nil {
		return
	}

	outcome, err := g.Evaluate(challenge.Id(id), prog)
	if err != nil {
		return
	}

	err = outcome.Report(c.App.Writer)
	if err != nil {
		return
	}

	if !outcome.Ok() {
		return cli.Exit("", 1)
	}

	return
}

func listAction(c *cli.Context) (err error) {
	cat, err := challenge.CatalogVersion(c.Int("catalog"))
	if err != nil {
		return
	}

	w := c.App.Writer
	_, err = translate.Fprintf(w, "catalog %d, %d trials per challenge\n", cat.Version, cat.Trials)
	if err != nil {
		return
	}

	for _, ch := range cat.All() {
		_, err = fmt.Fprintln(w, ch)
		if err != nil {
			return
		}
	}

	return
}
