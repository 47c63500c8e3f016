// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	LINE_LIMIT = 1 << 20 // Longest accepted source line.
	EXPR_STEPS = 100000  // Starlark steps allowed per $() expression.
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a single pass, address oblivious assembler for the 8008
// instruction subset. Operands are decimal literals; there are no labels.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates visible to $() expressions.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// token is a whitespace separated word with its source location.
type token struct {
	word   string
	lineno int
	line   string
}

// parseNumber parses a base-10 operand.
func parseNumber(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	thread.SetMaxExecutionSteps(EXPR_STEPS)
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Non-integer equates are not visible to expressions.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		if asm.Verbose {
			log.Printf("asm: $(%v): %v", expr, err)
		}
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine splits a comment free line into upper case words, after
// replacing $(...) expressions with their decimal value.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return strconv.FormatInt(value, 10)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ToUpper(line))

	return
}

// currentAddr gets the address of the next instruction.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + last.Instruction.Size()
}

// Parse parses an input stream into a Program.
//
// Tokens flow across line breaks, so an operand may sit on the line after
// its mnemonic. Any error abandons the whole program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, LINE_LIMIT)

	var line string
	var lineno int

	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	var tokens []token
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(strings.Split(text, ";")[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}

		for _, word := range words {
			tokens = append(tokens, token{word: word, lineno: lineno, line: line})
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	for n := 0; n < len(tokens); {
		mnemonic := tokens[n]
		n++

		var operands []token
		operands, err = asm.parseTokens(mnemonic, tokens[n:])
		if err != nil {
			err = &ErrSyntax{LineNo: mnemonic.lineno, Line: mnemonic.line, Err: err}
			return
		}
		n += len(operands)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseTokens assembles one mnemonic, consuming its operands from rest.
func (asm *Assembler) parseTokens(mnemonic token, rest []token) (operands []token, err error) {
	op, ok := LookupMnemonic(mnemonic.word)
	if !ok {
		err = ErrUnknownMnemonic(mnemonic.word)
		return
	}

	count := op.Operands()
	if count > len(rest) {
		err = ErrOperandsMissing{Mnemonic: mnemonic.word, Count: count}
		return
	}
	operands = rest[:count]

	words := []string{mnemonic.word}
	values := make([]int64, 0, count)
	for _, operand := range operands {
		var value int64
		value, err = parseNumber(operand.word)
		if err != nil {
			return
		}
		words = append(words, operand.word)
		values = append(values, value)
	}

	ins := Instruction{Op: op}
	switch op.Operand() {
	case OPERAND_IMM:
		// Out of range literals keep their low 8 bits.
		ins.Imm = uint8(values[0])
	case OPERAND_ADDR:
		// The second address token is consumed but carries no meaning.
		ins.Addr = uint16(values[0])
	}

	opcode := Opcode{
		LineNo:      mnemonic.lineno,
		Addr:        asm.currentAddr(),
		Words:       words,
		Instruction: ins,
	}
	asm.Opcode = append(asm.Opcode, opcode)

	return
}

// Assemble assembles source text into bytecode, returning a status
// message suitable for a report. On failure code is nil and the status
// is a single "Error: ..." line.
func (asm *Assembler) Assemble(text string) (code []byte, status string, err error) {
	prog, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		status = f("Error: %v", Reason(err).Error())
		return
	}

	code = prog.Binary()
	status = f("Assembled successfully. Program size: %v bytes.", decimal(len(code)))

	return
}
