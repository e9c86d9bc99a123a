package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/woodsim/cpu"
)

const xorSource = `bits: 6
; constant one at OUTPUT_ADDR + 3
INC $(OUTPUT_ADDR + 3)
INV
LOAD
CDEC 5
; a
LOAD
INC 3
CDEC
INV
INC 2
LOAD
CDEC
; b
INC
LOAD
CDEC 4
LOAD
INC 2
CDEC
INV
`

func runApp(t *testing.T, stdin string, args ...string) (output string, err error) {
	app := newApp()
	buf := &bytes.Buffer{}
	app.Writer = buf
	app.Reader = strings.NewReader(stdin)

	err = app.Run(append([]string{"woodsim"}, args...))
	output = buf.String()

	return
}

func writeSource(t *testing.T, source string) (path string) {
	path = filepath.Join(t.TempDir(), "program.ws")
	err := os.WriteFile(path, []byte(source), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestList(t *testing.T) {
	assert := assert.New(t)

	output, err := runApp(t, "", "list")
	assert.NoError(err)
	assert.Contains(output, "catalog 2, 100 trials per challenge\n")
	assert.Contains(output, "0: xor (2 bits in, 1 bits out)\n")
	assert.Contains(output, "8: sha256-compress (768 bits in, 256 bits out)\n")

	output, err = runApp(t, "", "list", "--catalog", "1")
	assert.NoError(err)
	assert.Contains(output, "catalog 1, 50 trials per challenge\n")
	assert.NotContains(output, "multiply")
}

func TestSolve(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, xorSource)

	output, err := runApp(t, "", "solve", "--seed", "42", "0", path)
	assert.NoError(err)
	assert.Equal("challenge 0 (xor): passed 100 of 100 trials\n", output)

	output, err = runApp(t, "", "solve", "--trials", "5", "0", path)
	assert.NoError(err)
	assert.Equal("challenge 0 (xor): passed 5 of 5 trials\n", output)

	_, err = runApp(t, "", "solve", "x", path)
	assert.True(errors.Is(err, ErrChallenge))

	_, err = runApp(t, "", "solve", "0")
	assert.Equal(ErrUsage, err)
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, strings.ReplaceAll(xorSource, "OUTPUT_ADDR", "2"))

	output, err := runApp(t, "", "run", "--input", "10", path)
	assert.NoError(err)
	assert.Equal("Memory usage consisted of 6 bits.\n"+
		"Memory at program finish:\n"+
		"[ADDR 0x000000000000] 101101__ ________ ________ ________\n", output)

	bad := writeSource(t, "INC\nJUMP\n")
	_, err = runApp(t, "", "run", bad)
	var syntax *cpu.ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(1, syntax.LineNo)
	assert.Equal("JUMP", syntax.Token)

	_, err = runApp(t, "", "run", "--policy", "bounce", path)
	assert.Equal(cpu.ErrPolicy, err)

	_, err = runApp(t, "", "run", "--input", "12", path)
	assert.Equal(cpu.ErrBitsSyntax, err)
}

func TestDebug(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "bits: 4\nINC 2\nINV\nLOAD\nCDEC 3\n")

	output, err := runApp(t, "b\nq\n", "debug", path)
	assert.NoError(err)
	assert.Contains(output, "   step: 3 / 3\ncommand: LOAD\n  error: NEG\n")
	assert.Contains(output, "   step: 2 / 3\ncommand: INV\n  error: [none]\n")
}
