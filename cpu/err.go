package cpu

import (
	"errors"

	"github.com/ezrec/woodsim/translate"
)

var f = translate.From

var (
	// Addressing faults
	ErrNegativeAddr = errors.New(f("attempted to move below address 0"))
	ErrOutOfMemory  = errors.New(f("attempted to move beyond memory end"))

	// Cpu errors
	ErrStepFirst    = errors.New(f("no step to undo"))
	ErrPolicy       = errors.New(f("memory policy invalid"))
	ErrMemoryRange  = errors.New(f("memory range invalid"))
	ErrOpcodeDecode = errors.New(f("decode"))

	// Assembler errors
	ErrCommandInvalid     = errors.New(f("invalid command"))
	ErrBitCount           = errors.New(f("invalid bit count specification"))
	ErrBitCountLate       = errors.New(f("bit count must precede instructions"))
	ErrCountInvalid       = errors.New(f("invalid repetition count"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrBitsSyntax         = errors.New(f("bit string syntax"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrSyntax locates an assembly failure. LineNo is 0-based.
type ErrSyntax struct {
	LineNo int
	Token  string
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Token, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOpcode indicates the instruction that failed to execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v", Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
