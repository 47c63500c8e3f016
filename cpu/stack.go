package cpu

const (
	STACK_DEPTH = 7 // Return address slots in the call stack ring.
)

// Stack is the call stack ring. Pushes past STACK_DEPTH overwrite the
// oldest slot. The instruction set has no return, so nothing pops it.
type Stack struct {
	Data    [STACK_DEPTH]uint16
	Pointer int // Slot the next push writes.

	depth int
}

// Push writes value to the next slot, overwriting the oldest when full.
func (s *Stack) Push(value uint16) {
	s.Data[s.Pointer] = value
	s.Pointer = (s.Pointer + 1) % STACK_DEPTH
	if s.depth < STACK_DEPTH {
		s.depth++
	}
}

// Peek returns the most recently pushed value.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[(s.Pointer+STACK_DEPTH-1)%STACK_DEPTH], true
}

// Empty reports whether nothing has been pushed since reset.
func (s *Stack) Empty() bool {
	return s.depth == 0
}

// Depth returns the number of live slots, saturating at STACK_DEPTH.
func (s *Stack) Depth() int {
	return s.depth
}

// Reset clears every slot.
func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Pointer = 0
	s.depth = 0
}
