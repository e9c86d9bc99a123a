package debugger

import (
	"fmt"
	"strings"

	"github.com/ezrec/woodsim/cpu"
)

const (
	BYTES_PER_LINE = 4 // Eight bit groups per memory dump line.
)

// MemoryLines formats bits as dump lines of BYTES_PER_LINE groups, each
// prefixed with the address of its first bit. The last line is padded
// with '_'.
func MemoryLines(bits cpu.Bits) (lines []string) {
	bitsPerLine := BYTES_PER_LINE * 8

	for addr := 0; addr < len(bits); addr += bitsPerLine {
		var sb strings.Builder
		fmt.Fprintf(&sb, "[ADDR 0x%012x]", addr)
		for group := range BYTES_PER_LINE {
			sb.WriteByte(' ')
			for n := range 8 {
				index := addr + group*8 + n
				switch {
				case index >= len(bits):
					sb.WriteByte('_')
				case bits[index]:
					sb.WriteByte('1')
				default:
					sb.WriteByte('0')
				}
			}
		}
		lines = append(lines, sb.String())
	}

	return
}
