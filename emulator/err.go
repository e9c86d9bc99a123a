package emulator

import (
	"github.com/ezrec/woodsim/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error. LineNo is -1 when
// the error is not tied to a source line.
type ErrRuntime struct {
	LineNo int
	Step   int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo < 0 {
		return err.Err.Error()
	}
	return f("line %d step %d %v", err.LineNo, err.Step, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
