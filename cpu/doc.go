// Package cpu implements the processor and assembler for the nsb8 system.
//
// The processor is a subset of the Intel 8008: seven 8-bit registers
// (A, B, C, D, E, H, L), Carry/Zero/Sign/Parity flags, a 14-bit program
// counter over 16 KiB of memory, and a seven entry call stack ring.
// Memory is reached indirectly through the HL pair, and the window
// SCREEN_START..SCREEN_END is read back as a text screen.
//
// The assembler turns whitespace separated mnemonics and decimal
// operands into a byte stream. It has no labels; jump targets are raw
// addresses. Compile-time $(...) expressions are evaluated with Starlark.
package cpu
