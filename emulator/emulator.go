// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/nsb8/cpu"
	"github.com/ezrec/nsb8/internal"
)

const (
	PRINTABLE_FIRST = 32   // First byte rendered as itself on the screen.
	PRINTABLE_LAST  = 126  // Last byte rendered as itself on the screen.
	PLACEHOLDER     = "·" // Rendering of unprintable screen bytes.
)

var _emulator_defines = map[string]string{
	"PRINTABLE_FIRST": fmt.Sprintf("%v", PRINTABLE_FIRST),
	"PRINTABLE_LAST":  fmt.Sprintf("%v", PRINTABLE_LAST),
}

// Emulator state. Assembler + CPU.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.
}

// NewEmulator creates a new emulator with the given cycle budget.
// A budget of zero or less selects cpu.CYCLE_BUDGET.
func NewEmulator(budget int) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(budget),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles text into the emulator's program.
// The status is the report line for the assembly.
func (emu *Emulator) Assemble(text string) (status string, err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	code, status, err := asm.Assemble(text)
	if err != nil {
		return
	}

	emu.Program = &cpu.Program{Opcodes: asm.Opcode}
	if emu.Verbose {
		log.Printf("emulator: %d bytes, %d opcodes", len(code), len(emu.Program.Opcodes))
	}

	return
}

// Reset the CPU and load the program at address 0.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Load(emu.Program.Binary())
}

// LineNo returns the source line number of the instruction at the PC,
// or 0 when the PC is outside the program.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	err = emu.Cpu.Tick()
	if err != nil {
		err = &ErrRuntime{LineNo: lineno, Err: err}
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run runs the loaded program to HLT or to the cycle budget.
func (emu *Emulator) Run() (reason cpu.HaltReason, err error) {
	emu.Cpu.Verbose = emu.Verbose

	reason, err = emu.Cpu.Run()
	if err != nil {
		err = &ErrRuntime{LineNo: emu.LineNo(), Err: err}
	}

	return
}

// Screen renders the screen region as text.
func (emu *Emulator) Screen() string {
	var sb strings.Builder
	for _, c := range emu.Cpu.Memory.Screen() {
		if c >= PRINTABLE_FIRST && c <= PRINTABLE_LAST {
			sb.WriteByte(c)
		} else {
			sb.WriteString(PLACEHOLDER)
		}
	}

	return sb.String()
}

// State renders the register and flag dump line.
func (emu *Emulator) State() string {
	r := &emu.Cpu.Reg
	return fmt.Sprintf("Final A:%d B:%d C:%d D:%d E:%d H:%d L:%d | Flags(CZSP):%v",
		r.A, r.B, r.C, r.D, r.E, r.H, r.L, emu.Cpu.Flags)
}

// Report renders the final report of a run.
func (emu *Emulator) Report(status string, reason cpu.HaltReason) string {
	lines := []string{
		status,
		reason.String(),
		"---",
		fmt.Sprintf("Screen (0x%X-%X):", cpu.SCREEN_START, cpu.SCREEN_END),
		emu.Screen(),
		"---",
		emu.State(),
	}

	return strings.Join(lines, "\n")
}

// Execute assembles and runs text from a cold reset, returning the
// report. A non-empty prefix is written as the first line of a
// successful report. Failures produce a single "Error: ..." line.
func (emu *Emulator) Execute(prefix string, text string) (report string) {
	status, err := emu.Assemble(text)
	if err != nil {
		return status
	}

	if emu.Program.Size() == 0 {
		report = status
	} else {
		emu.Reset()
		var reason cpu.HaltReason
		reason, err = emu.Run()
		if err != nil {
			return f("Error: %v", err.Error())
		}
		report = emu.Report(status, reason)
	}

	if len(prefix) != 0 {
		report = prefix + "\n" + report
	}

	return
}
