// Package emu provides functional emulation of a reduced ARM-like
// instruction set driven by textual assembly.
package emu

import (
	"fmt"
	"sort"
)

// Special register names.
const (
	RegSP      = "sp"
	RegFP      = "fp"
	RegLR      = "lr"
	RegPC      = "pc"
	RegScratch = "_a"
)

// RegFile represents the register file.
// It contains the general-purpose registers r0..r(N-1) followed by
// fp, sp, lr, pc and one scratch cell. Every cell is 32 bits wide and
// every write wraps modulo 2^32.
type RegFile struct {
	cells []uint32
	index map[string]int
}

// NewRegFile creates a register file with n general-purpose registers.
func NewRegFile(n int) *RegFile {
	names := make([]string, 0, n+5)
	for i := 0; i < n; i++ {
		names = append(names, fmt.Sprintf("r%d", i))
	}
	names = append(names, RegFP, RegSP, RegLR, RegPC, RegScratch)

	r := &RegFile{
		cells: make([]uint32, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		r.index[name] = i
	}

	return r
}

// Lookup returns the cell index of a named register.
func (r *RegFile) Lookup(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Names returns all register names in cell order.
func (r *RegFile) Names() []string {
	names := make([]string, 0, len(r.index))
	for name := range r.index {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return r.index[names[i]] < r.index[names[j]]
	})

	return names
}

// ReadIndex reads a register cell by index.
func (r *RegFile) ReadIndex(i int) uint32 {
	return r.cells[i]
}

// WriteIndex writes a register cell by index, keeping the low 32 bits.
func (r *RegFile) WriteIndex(i int, value int64) {
	r.cells[i] = uint32(value)
}

// Read reads a named register. Unknown names read as 0.
func (r *RegFile) Read(name string) uint32 {
	i, ok := r.index[name]
	if !ok {
		return 0
	}

	return r.cells[i]
}

// Write writes a named register, keeping the low 32 bits.
// Writes to unknown names are ignored.
func (r *RegFile) Write(name string, value int64) {
	i, ok := r.index[name]
	if !ok {
		return
	}
	r.cells[i] = uint32(value)
}

// PC returns the program counter, an index into the instruction sequence.
func (r *RegFile) PC() uint32 {
	return r.Read(RegPC)
}

// SetPC sets the program counter.
func (r *RegFile) SetPC(pc int64) {
	r.Write(RegPC, pc)
}
