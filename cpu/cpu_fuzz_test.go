package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fuzzProgram decodes each byte as an instruction: the low two bits are the
// operation, the next three bits the repetition count.
func fuzzProgram(data []byte) (prog *Program) {
	prog = &Program{}
	for n, b := range data {
		code := Code{Op: CodeOp(b & 3)}
		if code.Op.Counted() {
			code.Count = uint((b >> 2) & 7)
		}
		prog.Opcodes = append(prog.Opcodes, Opcode{LineNo: n, Code: code})
	}

	return
}

func FuzzCpuReversible(f *testing.F) {
	f.Add([]byte{0x04, 0x02, 0x07, 0x01}, uint8(0), uint16(0x0002))
	f.Add([]byte{0x01, 0x02, 0x07, 0x07, 0x08}, uint8(1), uint16(0xffff))
	f.Add([]byte{0x1c, 0x1c, 0x1c, 0x01, 0x02, 0x1f}, uint8(2), uint16(0x8001))

	f.Fuzz(func(t *testing.T, data []byte, policy uint8, input uint16) {
		assert := assert.New(t)

		cpu := NewCpu(16, fuzzProgram(data))
		cpu.Reversible = true
		cpu.Memory.Policy = MemoryPolicy(policy % 3)

		initial := NewBits(16)
		initial.PutUint64(0, 16, uint64(input))
		assert.NoError(cpu.Memory.Write(0, initial))

		var states []Delta
		var memories []Bits
		for !cpu.Done {
			state := snapshot(cpu)
			memory := cpu.Memory.Bits()
			err := cpu.Forward()
			if err != nil {
				assert.True(errors.Is(err, ErrOutOfMemory) || errors.Is(err, ErrNegativeAddr), err.Error())
				assert.Equal(state, snapshot(cpu))
				assert.Equal(memory, cpu.Memory.Bits())
				break
			}
			states = append(states, state)
			memories = append(memories, memory)
			assert.True(cpu.Addr < cpu.Memory.Len())
			assert.Equal(cpu.Step == cpu.Program.Len(), cpu.Done)
		}

		for n := len(states) - 1; n >= 0; n-- {
			assert.NoError(cpu.Backward())
			assert.Equal(states[n], snapshot(cpu))
			// Grown memory stays grown; only compare the original part.
			now, err := cpu.Memory.Read(0, uint(len(memories[n])))
			assert.NoError(err)
			assert.Equal(memories[n], now)
		}

		assert.Equal(0, cpu.Step)
		assert.Equal(ErrStepFirst, cpu.Backward())
	})
}
