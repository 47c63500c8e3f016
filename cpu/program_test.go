package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("LAI 65\nHLT\n\nJMP 0 0"))
	assert.NoError(err)
	assert.Equal(3, len(prog.Opcodes))
	assert.Equal(6, prog.Size())

	expected := []Opcode{
		{1, 0, []string{"LAI", "65"}, Instruction{Op: OP_LAI, Imm: 65}},
		{2, 2, []string{"HLT"}, Instruction{Op: OP_HLT}},
		{4, 3, []string{"JMP", "0", "0"}, Instruction{Op: OP_JMP}},
	}
	assert.Equal(expected, prog.Opcodes)

	table := [](struct {
		addr   uint16
		lineno int
		index  int
	}){
		{0, 1, 0},
		{1, 1, 1},
		{2, 2, 0},
		{5, 4, 2},
	}
	for _, entry := range table {
		dbg := prog.Debug(entry.addr)
		if assert.NotNil(dbg.Opcode, entry.addr) {
			assert.Equal(entry.lineno, dbg.LineNo, entry.addr)
			assert.Equal(entry.index, dbg.Index, entry.addr)
		}
	}

	assert.Nil(prog.Debug(6).Opcode)
}

func TestProgramListing(t *testing.T) {
	assert := assert.New(t)

	source := "lhi 14 lli 238\nlai 65 lma\nCAL 300 0 SUI 255 JTC 9 9 HLT"

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	assert.NoError(err)

	listing := prog.Listing()
	lines := strings.Split(strings.TrimSuffix(listing, "\n"), "\n")
	assert.Equal(len(prog.Opcodes), len(lines))
	assert.True(strings.HasPrefix(lines[0], "LHI 14 "))
	assert.Contains(lines[0], "; 0000: 36 0E")
	assert.Contains(lines[4], "CAL 300 0")
	assert.Contains(lines[4], "0007: 46 2C 01")
	assert.Contains(lines[4], "line 3")

	// The listing assembles back to the same bytes.
	relisted, err := (&Assembler{}).Parse(strings.NewReader(listing))
	assert.NoError(err)
	assert.Equal(prog.Binary(), relisted.Binary())
}

func TestInstructionDecode(t *testing.T) {
	assert := assert.New(t)

	for op := range opTable {
		ins := Instruction{Op: op}
		switch op.Operand() {
		case OPERAND_IMM:
			ins.Imm = 0xa5
		case OPERAND_ADDR:
			ins.Addr = 0x1234
		}

		mem := &Memory{}
		mem.Load(0x100, ins.Encode())
		assert.Equal(ins, Decode(mem, 0x100), op.String())
		assert.Equal(op.Size(), len(ins.Encode()), op.String())
	}

	ins := Decode(&Memory{0xff}, 0)
	assert.False(ins.Op.Valid())
	assert.Equal(1, ins.Size())
	assert.Equal("DB 0xFF", ins.String())

	assert.Equal(uint16(0x0005), Instruction{Op: OP_JMP, Addr: 0xc005}.Target())
	assert.Equal("JMP 49157 0", Instruction{Op: OP_JMP, Addr: 0xc005}.String())
	assert.Equal("SUI 3", Instruction{Op: OP_SUI, Imm: 3}.String())
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.Write(0x4000|0x123, 9)
	assert.Equal(byte(9), mem[0x123])
	assert.Equal(byte(9), mem.Read(0xc123))

	mem.Load(ADDR_MASK, []byte{1, 2})
	assert.Equal(byte(1), mem[ADDR_MASK])
	assert.Equal(byte(2), mem[0])

	mem[SCREEN_END] = 'z'
	screen := mem.Screen()
	assert.Equal(byte('z'), screen[len(screen)-1])
	screen[0] = 1
	assert.Equal(byte(0), mem[SCREEN_START])
}
