package cpu

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ezrec/nsb8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted        = errors.New(f("cpu halted"))
	ErrOpcodeIllegal = errors.New(f("illegal opcode"))
)

// ErrOpcode reports the instruction that failed to execute, and why.
type ErrOpcode struct {
	Addr        uint16
	Instruction Instruction
	Err         error
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%v at 0x%v (%v): %v",
		hex(uint(eo.Instruction.Op), 2), hex(uint(eo.Addr), 4), eo.Instruction.String(), eo.Err)
}

func (eo ErrOpcode) Unwrap() error {
	return eo.Err
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrUnknownMnemonic string

func (err ErrUnknownMnemonic) Error() string {
	return f("Unknown mnemonic '%v'", string(err))
}

type ErrOperandsMissing struct {
	Mnemonic string
	Count    int
}

func (err ErrOperandsMissing) Error() string {
	return f("'%v' needs %v operand(s).", err.Mnemonic, decimal(err.Count))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", decimal(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// Reason strips source location wrappers from an assembler error,
// leaving the message a user should see.
func Reason(err error) error {
	var se *ErrSyntax
	for errors.As(err, &se) {
		err = se.Err
	}
	return err
}

// decimal and hex pre-format numbers, as the message printer would
// otherwise apply locale digit grouping.
func decimal(n int) string {
	return strconv.Itoa(n)
}

func hex(n uint, width int) string {
	return fmt.Sprintf("%0*x", width, n)
}
