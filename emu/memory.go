package emu

import (
	"encoding/binary"
	"fmt"
)

// DefaultMemorySize is the default size of the data memory in bytes.
const DefaultMemorySize = 32 * 1024

// Memory is a flat little-endian byte-addressable data memory. It is
// separate from the register file.
type Memory struct {
	data []byte
}

// NewMemory creates a zeroed memory of the given size in bytes.
func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

func (m *Memory) slice(addr int64, n int) ([]byte, error) {
	if addr < 0 || addr > int64(len(m.data))-int64(n) {
		return nil, fmt.Errorf("%w: %d-byte access at 0x%X (size 0x%X)",
			ErrMemoryBounds, n, addr, len(m.data))
	}

	return m.data[addr : addr+int64(n)], nil
}

// check validates an n-byte access without performing it.
func (m *Memory) check(addr int64, n int) error {
	_, err := m.slice(addr, n)
	return err
}

// Read8 reads a byte.
func (m *Memory) Read8(addr int64) (uint8, error) {
	b, err := m.slice(addr, 1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Read16 reads a half-word.
func (m *Memory) Read16(addr int64) (uint16, error) {
	b, err := m.slice(addr, 2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

// Read32 reads a word.
func (m *Memory) Read32(addr int64) (uint32, error) {
	b, err := m.slice(addr, 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr int64, value uint8) error {
	b, err := m.slice(addr, 1)
	if err != nil {
		return err
	}
	b[0] = value

	return nil
}

// Write16 writes a half-word.
func (m *Memory) Write16(addr int64, value uint16) error {
	b, err := m.slice(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)

	return nil
}

// Write32 writes a word.
func (m *Memory) Write32(addr int64, value uint32) error {
	b, err := m.slice(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)

	return nil
}

// LoadBytes copies data into memory starting at addr.
func (m *Memory) LoadBytes(addr int64, data []byte) error {
	b, err := m.slice(addr, len(data))
	if err != nil {
		return err
	}
	copy(b, data)

	return nil
}
