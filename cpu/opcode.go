package cpu

import (
	"fmt"
)

// OpCode is the single byte encoding of an instruction.
type OpCode byte

const (
	OP_HLT = OpCode(0x01) // HLT
	OP_LAI = OpCode(0x06) // LAI
	OP_LBI = OpCode(0x0e) // LBI
	OP_LCI = OpCode(0x16) // LCI
	OP_LDI = OpCode(0x26) // LDI
	OP_LEI = OpCode(0x2e) // LEI
	OP_LHI = OpCode(0x36) // LHI
	OP_LLI = OpCode(0x3e) // LLI
	OP_LAB = OpCode(0xc1) // LAB
	OP_LBA = OpCode(0x87) // LBA
	OP_ADB = OpCode(0x80) // ADB
	OP_LAM = OpCode(0xc6) // LAM
	OP_LMA = OpCode(0x77) // LMA
	OP_JMP = OpCode(0x44) // JMP
	OP_INB = OpCode(0x0c) // INB
	OP_DCB = OpCode(0x0d) // DCB
	OP_SUI = OpCode(0x96) // SUI
	OP_JFC = OpCode(0x40) // JFC
	OP_JTC = OpCode(0x48) // JTC
	OP_CAL = OpCode(0x46) // CAL
)

// OperandKind describes what follows an opcode byte.
type OperandKind int

const (
	OPERAND_NONE = OperandKind(0) // no operand
	OPERAND_IMM  = OperandKind(1) // one 8-bit immediate
	OPERAND_ADDR = OperandKind(2) // one 16-bit little endian address
)

type opInfo struct {
	mnemonic string
	operand  OperandKind
}

var opTable = map[OpCode]opInfo{
	OP_HLT: {"HLT", OPERAND_NONE},
	OP_LAI: {"LAI", OPERAND_IMM},
	OP_LBI: {"LBI", OPERAND_IMM},
	OP_LCI: {"LCI", OPERAND_IMM},
	OP_LDI: {"LDI", OPERAND_IMM},
	OP_LEI: {"LEI", OPERAND_IMM},
	OP_LHI: {"LHI", OPERAND_IMM},
	OP_LLI: {"LLI", OPERAND_IMM},
	OP_LAB: {"LAB", OPERAND_NONE},
	OP_LBA: {"LBA", OPERAND_NONE},
	OP_ADB: {"ADB", OPERAND_NONE},
	OP_LAM: {"LAM", OPERAND_NONE},
	OP_LMA: {"LMA", OPERAND_NONE},
	OP_JMP: {"JMP", OPERAND_ADDR},
	OP_INB: {"INB", OPERAND_NONE},
	OP_DCB: {"DCB", OPERAND_NONE},
	OP_SUI: {"SUI", OPERAND_IMM},
	OP_JFC: {"JFC", OPERAND_ADDR},
	OP_JTC: {"JTC", OPERAND_ADDR},
	OP_CAL: {"CAL", OPERAND_ADDR},
}

// mnemonicMap maps upper case mnemonics to opcodes.
var mnemonicMap = func() map[string]OpCode {
	mm := make(map[string]OpCode, len(opTable))
	for op, info := range opTable {
		mm[info.mnemonic] = op
	}
	return mm
}()

// LookupMnemonic returns the opcode for an upper case mnemonic.
func LookupMnemonic(mnemonic string) (op OpCode, ok bool) {
	op, ok = mnemonicMap[mnemonic]
	return
}

// Valid returns true if the opcode is part of the instruction set.
func (op OpCode) Valid() bool {
	_, ok := opTable[op]
	return ok
}

// Operand returns the kind of operand the opcode takes.
func (op OpCode) Operand() OperandKind {
	return opTable[op].operand
}

// Operands returns the number of source tokens the assembler consumes
// after the mnemonic. Address instructions consume two tokens, of which
// only the first is the address.
func (op OpCode) Operands() int {
	return int(op.Operand())
}

// Size returns the encoded size of the instruction in bytes.
func (op OpCode) Size() int {
	switch op.Operand() {
	case OPERAND_IMM:
		return 2
	case OPERAND_ADDR:
		return 3
	}
	return 1
}

// String returns the mnemonic, or a data byte pseudo-op for unknown opcodes.
func (op OpCode) String() string {
	info, ok := opTable[op]
	if !ok {
		return fmt.Sprintf("DB 0x%02X", byte(op))
	}
	return info.mnemonic
}

// Instruction is a decoded instruction.
type Instruction struct {
	Op   OpCode
	Imm  uint8  // Immediate, for OPERAND_IMM opcodes.
	Addr uint16 // Raw 16-bit target, for OPERAND_ADDR opcodes.
}

// Decode decodes the instruction at addr.
func Decode(mem *Memory, addr uint16) (ins Instruction) {
	ins.Op = OpCode(mem.Read(addr))
	switch ins.Op.Operand() {
	case OPERAND_IMM:
		ins.Imm = mem.Read(addr + 1)
	case OPERAND_ADDR:
		lo := mem.Read(addr + 1)
		hi := mem.Read(addr + 2)
		ins.Addr = (uint16(hi) << 8) | uint16(lo)
	}
	return
}

// Size returns the encoded size of the instruction in bytes.
func (ins Instruction) Size() int {
	return ins.Op.Size()
}

// Encode returns the byte encoding of the instruction.
func (ins Instruction) Encode() (data []byte) {
	data = append(data, byte(ins.Op))
	switch ins.Op.Operand() {
	case OPERAND_IMM:
		data = append(data, ins.Imm)
	case OPERAND_ADDR:
		data = append(data, byte(ins.Addr&0xff), byte(ins.Addr>>8))
	}
	return
}

// Target returns the 14-bit branch target.
func (ins Instruction) Target() uint16 {
	return ins.Addr & ADDR_MASK
}

// String returns the assembly language form of the instruction.
// Address instructions are written with a trailing 0 filler token so the
// text assembles back to the same bytes.
func (ins Instruction) String() string {
	switch ins.Op.Operand() {
	case OPERAND_IMM:
		return fmt.Sprintf("%v %d", ins.Op, ins.Imm)
	case OPERAND_ADDR:
		return fmt.Sprintf("%v %d 0", ins.Op, ins.Addr)
	}
	return ins.Op.String()
}
