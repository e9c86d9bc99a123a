package debugger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/woodsim/cpu"
	"github.com/ezrec/woodsim/emulator"
)

func TestMemoryLines(t *testing.T) {
	assert := assert.New(t)

	bits := cpu.NewBits(10)
	bits[0] = true
	bits[9] = true

	assert.Equal([]string{
		"[ADDR 0x000000000000] 10000000 01______ ________ ________",
	}, MemoryLines(bits))

	bits = cpu.NewBits(40)
	bits[32] = true
	assert.Equal([]string{
		"[ADDR 0x000000000000] 00000000 00000000 00000000 00000000",
		"[ADDR 0x000000000020] 10000000 ________ ________ ________",
	}, MemoryLines(bits))

	assert.Empty(MemoryLines(nil))
}

func TestFaultName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("[none]", FaultName(nil))
	assert.Equal("MEM", FaultName(errors.Join(cpu.ErrOpcode(cpu.MakeCodeInc(1)), cpu.ErrOutOfMemory)))
	assert.Equal("NEG", FaultName(&emulator.ErrRuntime{Err: cpu.ErrNegativeAddr}))
	assert.Equal(cpu.ErrStepFirst.Error(), FaultName(cpu.ErrStepFirst))
}

func newDebugger(t *testing.T, codes ...cpu.Code) (dbg *Debugger) {
	emu := emulator.NewEmulator(8, cpu.NewProgram(codes...))
	emu.Reversible = true

	err := emu.Reset(cpu.Bits{true})
	if err != nil {
		t.Fatal(err)
	}

	return NewDebugger(emu, emu.Run())
}

func TestDebuggerStatus(t *testing.T) {
	assert := assert.New(t)

	dbg := newDebugger(t, cpu.MakeCodeLoad(), cpu.MakeCodeInc(3), cpu.MakeCodeInv())
	assert.Nil(dbg.Result)
	assert.Equal(3, dbg.FinalStep)

	buf := &bytes.Buffer{}
	err := dbg.Status(buf)
	assert.NoError(err)
	assert.Equal("   step: 3 / 3\ncommand: INV\n  error: [none]\naddress: 0x000000000003\n  store: true\n", buf.String())
}

func TestDebuggerFault(t *testing.T) {
	assert := assert.New(t)

	dbg := newDebugger(t, cpu.MakeCodeInc(4), cpu.MakeCodeInc(4), cpu.MakeCodeInv())
	assert.True(errors.Is(dbg.Result, cpu.ErrOutOfMemory))
	assert.Equal(1, dbg.FinalStep)

	buf := &bytes.Buffer{}
	err := dbg.Status(buf)
	assert.NoError(err)
	assert.Contains(buf.String(), "  error: MEM\n")
	assert.Contains(buf.String(), "command: INC 4\n")

	buf.Reset()
	_, err = dbg.Command("b", buf)
	assert.NoError(err)
	assert.Contains(buf.String(), "  error: [none]\n")
	assert.Contains(buf.String(), "command: <INIT>\n")
}

func TestDebuggerCommands(t *testing.T) {
	assert := assert.New(t)

	dbg := newDebugger(t, cpu.MakeCodeInc(2), cpu.MakeCodeInv(), cpu.MakeCodeInc(1), cpu.MakeCodeInv())
	emu := dbg.Emulator
	assert.Equal(4, emu.Step)
	assert.True(emu.Memory.Test(2))
	assert.True(emu.Memory.Test(3))

	buf := &bytes.Buffer{}

	quit, err := dbg.Command("b 2", buf)
	assert.NoError(err)
	assert.False(quit)
	assert.Equal(2, emu.Step)
	assert.True(emu.Memory.Test(2))
	assert.False(emu.Memory.Test(3))

	// An empty line repeats the last command.
	_, err = dbg.Command("", buf)
	assert.NoError(err)
	assert.Equal(0, emu.Step)
	assert.False(emu.Memory.Test(2))

	_, err = dbg.Command("b", buf)
	assert.True(errors.Is(err, cpu.ErrStepFirst))

	_, err = dbg.Command("n 3", buf)
	assert.NoError(err)
	assert.Equal(3, emu.Step)

	_, err = dbg.Command("r", buf)
	assert.NoError(err)
	assert.True(emu.Done)

	_, err = dbg.Command("z", buf)
	assert.NoError(err)
	assert.Equal(0, emu.Step)
	assert.True(emu.Memory.Test(0))
	assert.False(emu.Memory.Test(2))

	buf.Reset()
	_, err = dbg.Command("m", buf)
	assert.NoError(err)
	assert.Equal("[ADDR 0x000000000000] 10000000 ________ ________ ________\n", buf.String())

	_, err = dbg.Command("n x", buf)
	assert.Equal(ErrCommandCount, err)

	_, err = dbg.Command("b 0", buf)
	assert.Equal(ErrCommandCount, err)

	_, err = dbg.Command("jump", buf)
	assert.Equal(ErrCommandUnknown, err)

	buf.Reset()
	_, err = dbg.Command("h", buf)
	assert.NoError(err)
	assert.Equal(helpText, buf.String())

	quit, err = dbg.Command("q", buf)
	assert.NoError(err)
	assert.True(quit)
}

func TestDebuggerInteract(t *testing.T) {
	assert := assert.New(t)

	dbg := newDebugger(t, cpu.MakeCodeInc(2), cpu.MakeCodeInv())

	in := strings.NewReader("b\nwhat\nq\nn\n")
	out := &bytes.Buffer{}

	err := dbg.Interact(in, out)
	assert.NoError(err)
	assert.Equal(1, dbg.Emulator.Step)
	assert.Contains(out.String(), "   step: 2 / 2\n")
	assert.Contains(out.String(), "   step: 1 / 2\n")
	assert.Contains(out.String(), "error: "+ErrCommandUnknown.Error())

	// End of input also ends the session.
	err = dbg.Interact(strings.NewReader("n\n"), out)
	assert.NoError(err)
	assert.Equal(2, dbg.Emulator.Step)
}
