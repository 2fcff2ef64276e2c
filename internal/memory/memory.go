// Package memory implements the flat 4 KB address space of the CHIP-8 VM.
package memory

import (
	"errors"
	"fmt"
)

// Memory layout constants
const (
	Size        = 0x1000 // 4 KB global memory
	MaxAddress  = Size - 1
	ProgramAddr = 0x200 // conventional load address, 0x000-0x1FF belongs to the interpreter
)

var (
	// ErrOutOfBounds is returned for any access beyond MaxAddress.
	ErrOutOfBounds = errors.New("address out of bounds")
	// ErrProgramTooLarge is returned when a program does not fit between
	// its origin and the end of memory.
	ErrProgramTooLarge = errors.New("program size exceeds the available memory")
)

// Memory is a bounds-checked byte store. It knows nothing about instructions.
type Memory struct {
	data [Size]uint8
}

// New returns zeroed memory.
func New() *Memory {
	return &Memory{}
}

// Read returns the byte stored at addr.
func (m *Memory) Read(addr uint16) (uint8, error) {
	if addr > MaxAddress {
		return 0, fmt.Errorf("reading 0x%04X: %w", addr, ErrOutOfBounds)
	}
	return m.data[addr], nil
}

// Write stores v at addr.
func (m *Memory) Write(addr uint16, v uint8) error {
	if addr > MaxAddress {
		return fmt.Errorf("writing 0x%04X: %w", addr, ErrOutOfBounds)
	}
	m.data[addr] = v
	return nil
}

// Load copies program into memory starting at origin. Nothing is written
// if the program does not fit.
func (m *Memory) Load(program []byte, origin uint16) error {
	if origin > MaxAddress {
		return fmt.Errorf("loading at 0x%04X: %w", origin, ErrOutOfBounds)
	}
	if free := Size - int(origin); len(program) > free {
		return fmt.Errorf("%w (program size: %d, free memory: %d)", ErrProgramTooLarge, len(program), free)
	}
	copy(m.data[origin:], program)
	return nil
}

// Reset zeroes the whole address space.
func (m *Memory) Reset() {
	m.data = [Size]uint8{}
}
