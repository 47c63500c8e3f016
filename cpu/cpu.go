package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	CYCLE_BUDGET = 300000 // Default instructions executed before Run gives up.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":  fmt.Sprintf("%d", MEMORY_SIZE),
	"ADDR_MASK":    fmt.Sprintf("%#x", ADDR_MASK),
	"SCREEN_START": fmt.Sprintf("%#x", SCREEN_START),
	"SCREEN_END":   fmt.Sprintf("%#x", SCREEN_END),
	"SCREEN_SIZE":  fmt.Sprintf("%d", SCREEN_SIZE),
	"STACK_DEPTH":  fmt.Sprintf("%d", STACK_DEPTH),
}

// HaltReason is why Run stopped.
type HaltReason int

const (
	HALT_NONE        = HaltReason(0) // still running
	HALT_NORMAL      = HaltReason(1) // HLT executed
	HALT_CYCLE_LIMIT = HaltReason(2) // cycle budget exhausted
)

func (hr HaltReason) String() string {
	switch hr {
	case HALT_NORMAL:
		return f("Execution halted normally.")
	case HALT_CYCLE_LIMIT:
		return f("Warning: Execution hit max cycle limit.")
	}
	return f("Execution not started.")
}

// Cpu is the simulation context of the 8-bit processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Strict  bool // Set to fail on opcodes outside the instruction set.
	Budget  int  // Instructions Run may execute; CYCLE_BUDGET if not positive.

	Memory Memory    // Flat 14-bit address space.
	Reg    Registers // Register file.
	Flags  Flags     // Condition flags.
	Pc     uint16    // Program counter, always masked to 14 bits.
	Stack  Stack     // Call stack ring.
	Halted bool      // Set by HLT.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a reset CPU with the given cycle budget.
// A budget of zero or less selects CYCLE_BUDGET.
func NewCpu(budget int) (cpu *Cpu) {
	cpu = &Cpu{Budget: budget}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	defines := maps.Clone(_cpu_defines)
	defines["CYCLE_BUDGET"] = fmt.Sprintf("%d", cpu.budget())
	return maps.All(defines)
}

func (cpu *Cpu) budget() int {
	if cpu.Budget <= 0 {
		return CYCLE_BUDGET
	}
	return cpu.Budget
}

// Reset the CPU to its cold start state.
// - Clears memory, registers, stack and statistics.
// - Sets Zero and Parity, clears Carry and Sign.
// - Sets PC to 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	cpu.Reg = Registers{}
	cpu.Flags.Reset()
	cpu.Pc = 0
	cpu.Stack.Reset()
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load copies code into memory at address 0.
func (cpu *Cpu) Load(code []byte) {
	if cpu.Verbose {
		log.Printf("cpu: load %d bytes", len(code))
	}

	cpu.Memory.Load(0, code)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"a", "b", "c", "d", "e", "h", "l",
		"hl",
		"flags",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.Pc)
		case "a":
			strval = fmt.Sprintf("%02X", cpu.Reg.A)
		case "b":
			strval = fmt.Sprintf("%02X", cpu.Reg.B)
		case "c":
			strval = fmt.Sprintf("%02X", cpu.Reg.C)
		case "d":
			strval = fmt.Sprintf("%02X", cpu.Reg.D)
		case "e":
			strval = fmt.Sprintf("%02X", cpu.Reg.E)
		case "h":
			strval = fmt.Sprintf("%02X", cpu.Reg.H)
		case "l":
			strval = fmt.Sprintf("%02X", cpu.Reg.L)
		case "hl":
			strval = fmt.Sprintf("%04X", cpu.Reg.HL())
		case "flags":
			strval = cpu.Flags.String()
		case "stack":
			val, ok := cpu.Stack.Peek()
			if ok {
				strval = fmt.Sprintf("%04X (%d/%d)", val, cpu.Stack.Depth(), STACK_DEPTH)
			} else {
				strval = "----"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Tick executes a single fetch, decode and execute cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		return ErrHalted
	}

	ins := Decode(&cpu.Memory, cpu.Pc)

	return cpu.Execute(ins)
}

// Execute executes a single decoded instruction located at the PC.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = ErrOpcode{Addr: cpu.Pc, Instruction: ins, Err: err}
		}
	}()
	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, ins)
	}

	reg := &cpu.Reg
	fl := &cpu.Flags

	next_pc := (cpu.Pc + uint16(ins.Size())) & ADDR_MASK

	switch ins.Op {
	case OP_HLT:
		cpu.Halted = true
	case OP_LAI:
		reg.A = ins.Imm
	case OP_LBI:
		reg.B = ins.Imm
	case OP_LCI:
		reg.C = ins.Imm
	case OP_LDI:
		reg.D = ins.Imm
	case OP_LEI:
		reg.E = ins.Imm
	case OP_LHI:
		reg.H = ins.Imm
	case OP_LLI:
		reg.L = ins.Imm
	case OP_LAB:
		reg.A = reg.B
	case OP_LBA:
		reg.B = reg.A
	case OP_ADB:
		sum := uint16(reg.A) + uint16(reg.B)
		fl.Carry = sum > 0xff
		reg.A = uint8(sum)
		fl.Update(reg.A)
	case OP_LAM:
		reg.A = cpu.Memory.Read(reg.HL())
	case OP_LMA:
		cpu.Memory.Write(reg.HL(), reg.A)
	case OP_JMP:
		next_pc = ins.Target()
	case OP_JFC:
		if !fl.Carry {
			next_pc = ins.Target()
		}
	case OP_JTC:
		if fl.Carry {
			next_pc = ins.Target()
		}
	case OP_CAL:
		cpu.Stack.Push(next_pc)
		next_pc = ins.Target()
	case OP_INB:
		reg.B++
		fl.Update(reg.B)
	case OP_DCB:
		reg.B--
		fl.Update(reg.B)
	case OP_SUI:
		diff := int(reg.A) - int(ins.Imm)
		fl.Carry = diff < 0
		reg.A = uint8(diff)
		fl.Update(reg.A)
	default:
		if cpu.Strict {
			err = ErrOpcodeIllegal
			return
		}
		if cpu.Verbose {
			log.Printf("cpu: %04x: opcode 0x%02x ignored", cpu.Pc, byte(ins.Op))
		}
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// Run executes instructions until HLT or until the cycle budget is spent.
// Exhausting the budget is reported as HALT_CYCLE_LIMIT, not an error.
func (cpu *Cpu) Run() (reason HaltReason, err error) {
	budget := cpu.budget()

	for n := 0; n < budget && !cpu.Halted; n++ {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	reason = HALT_CYCLE_LIMIT
	if cpu.Halted {
		reason = HALT_NORMAL
	}

	if cpu.Verbose {
		log.Printf("cpu: %v after %d ticks", reason, cpu.Ticks)
	}

	return
}
