package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode is one assembled instruction with its source location.
type Opcode struct {
	LineNo      int
	Addr        int
	Words       []string
	Instruction Instruction
}

// Program is the output of the assembler.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int // Byte offset of the address within the instruction.
}

// Debug finds the opcode covering addr. The zero Debug is returned for
// addresses outside the program.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+op.Instruction.Size() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the bytecode image, to be loaded at address 0.
func (prog *Program) Binary() (bins []byte) {
	for _, ins := range prog.Instructions() {
		bins = append(bins, ins.Encode()...)
	}

	return
}

// Size returns the bytecode length.
func (prog *Program) Size() (size int) {
	for _, ins := range prog.Instructions() {
		size += ins.Size()
	}
	return
}

// Instructions iterates over the program instructions by address.
func (prog *Program) Instructions() iter.Seq2[uint16, Instruction] {
	return func(yield func(addr uint16, ins Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Addr), op.Instruction) {
				return
			}
		}
	}
}

// Listing returns an address annotated disassembly. Each line is valid
// assembler input.
func (prog *Program) Listing() string {
	var sb strings.Builder
	for _, op := range prog.Opcodes {
		var encoded []string
		for _, b := range op.Instruction.Encode() {
			encoded = append(encoded, fmt.Sprintf("%02X", b))
		}
		fmt.Fprintf(&sb, "%-16v ; %04X: %-8v line %d\n",
			op.Instruction.String(), op.Addr, strings.Join(encoded, " "), op.LineNo)
	}
	return sb.String()
}
