package emulator

import (
	"strconv"

	"github.com/ezrec/nsb8/translate"
)

var f = translate.From

// ErrRuntime indicates the source line of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %v %v", strconv.Itoa(err.LineNo), err.Err.Error())
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
