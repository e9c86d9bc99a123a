package challenge

import (
	"errors"

	"github.com/ezrec/woodsim/translate"
)

var f = translate.From

var (
	ErrChallengeInvalid = errors.New(f("no such challenge exists"))
	ErrCatalogInvalid   = errors.New(f("no such catalog version"))
)
