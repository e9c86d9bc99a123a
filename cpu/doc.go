// Package cpu implements the bit addressed engine and assembler for the
// WoodSIM system.
//
// The engine has a single bit addressable memory, an address register, a one
// bit store latch and a program counter. Programs are built from four
// instructions: INC, INV, LOAD and CDEC. Every executed step may be undone,
// either exactly from the step trace, or approximately by inverting the
// instruction.
//
// The assembler reads the textual program format, one instruction per line,
// with equates and compile-time expression evaluation.
package cpu
