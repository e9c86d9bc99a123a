package grader

import (
	"errors"

	"github.com/ezrec/woodsim/translate"
)

var f = translate.From

var (
	ErrCatalogMissing = errors.New(f("no catalog selected"))
	ErrTrialCount     = errors.New(f("trial count invalid"))
)
