package debugger

import (
	"errors"

	"github.com/ezrec/woodsim/translate"
)

var f = translate.From

var (
	ErrCommandUnknown = errors.New(f("unknown command, 'h' for help"))
	ErrCommandCount   = errors.New(f("invalid step count"))
)
