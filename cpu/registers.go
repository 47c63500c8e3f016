package cpu

import (
	"math/bits"
)

// Registers is the 8-bit register file.
type Registers struct {
	A, B, C, D, E, H, L uint8
}

// HL returns the 14-bit address formed by the H and L pair.
// Only the low 6 bits of H are used.
func (r *Registers) HL() uint16 {
	return (uint16(r.H&0x3f) << 8) | uint16(r.L)
}

// Flags is the condition flag set.
type Flags struct {
	Carry  bool
	Zero   bool
	Sign   bool
	Parity bool // Set on even parity.
}

// Reset sets the flags to the state of a zero result.
func (fl *Flags) Reset() {
	*fl = Flags{Zero: true, Parity: true}
}

// Update recomputes Zero, Sign and Parity from value. Carry is untouched.
func (fl *Flags) Update(value uint8) {
	fl.Zero = value == 0
	fl.Sign = (value & 0x80) != 0
	fl.Parity = bits.OnesCount8(value)%2 == 0
}

// String returns the flags as four 0/1 digits in Carry, Zero, Sign,
// Parity order.
func (fl Flags) String() string {
	digit := func(b bool) byte {
		if b {
			return '1'
		}
		return '0'
	}
	return string([]byte{digit(fl.Carry), digit(fl.Zero), digit(fl.Sign), digit(fl.Parity)})
}
