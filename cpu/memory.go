package cpu

const (
	MEMORY_SIZE  = 16384          // Bytes of addressable memory.
	ADDR_MASK    = MEMORY_SIZE - 1 // Mask applied to every address.
	SCREEN_START = 0xeee           // First byte of the text screen.
	SCREEN_END   = 0xfff           // Last byte of the text screen (inclusive).
	SCREEN_SIZE  = SCREEN_END - SCREEN_START + 1
)

// Memory is the flat address space of the CPU.
// Addresses wrap silently at 14 bits.
type Memory [MEMORY_SIZE]byte

// Read returns the byte at the masked address.
func (mem *Memory) Read(addr uint16) byte {
	return mem[addr&ADDR_MASK]
}

// Write stores a byte at the masked address.
func (mem *Memory) Write(addr uint16, value byte) {
	mem[addr&ADDR_MASK] = value
}

// Load copies data into memory starting at addr, wrapping at the end of
// the address space. Memory outside the copied range is left alone.
func (mem *Memory) Load(addr uint16, data []byte) {
	for n, value := range data {
		mem.Write(addr+uint16(n), value)
	}
}

// Screen returns a copy of the text screen region.
func (mem *Memory) Screen() (screen []byte) {
	screen = make([]byte, SCREEN_SIZE)
	copy(screen, mem[SCREEN_START:SCREEN_END+1])
	return
}
