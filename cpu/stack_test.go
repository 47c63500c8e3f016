package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())

	s.Push(0x1234)
	assert.False(s.Empty())
	assert.Equal(1, s.Depth())
	assert.Equal(1, s.Pointer)
	assert.Equal(uint16(0x1234), s.Data[0])
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0x3abc)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x3abc), val)
	assert.Equal(2, s.Depth())
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Peek()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := range STACK_DEPTH {
		s.Push(uint16(i + 1))
	}
	assert.Equal(0, s.Pointer)
	assert.Equal(STACK_DEPTH, s.Depth())

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(STACK_DEPTH), val)

	// Overflow overwrites the oldest slot without complaint.
	s.Push(100)
	assert.Equal(1, s.Pointer)
	assert.Equal(STACK_DEPTH, s.Depth())
	assert.Equal(uint16(100), s.Data[0])
	assert.Equal(uint16(2), s.Data[1])

	val, _ = s.Peek()
	assert.Equal(uint16(100), val)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0x3abc)

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, s.Pointer)
	assert.Equal([STACK_DEPTH]uint16{}, s.Data)
}
