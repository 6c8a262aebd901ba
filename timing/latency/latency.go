// Package latency provides a per-class cycle estimate for executed
// instructions.
//
// The estimate does not model pipelining or caches. Each retired
// instruction costs the latency of its functional class.
package latency

import (
	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given instruction.
func (t *Table) GetLatency(inst *emu.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	return t.ClassLatency(inst.Class)
}

// ClassLatency returns the latency of a functional class.
func (t *Table) ClassLatency(class insts.Class) uint64 {
	switch class {
	case insts.ClassNop:
		return t.config.NopLatency
	case insts.ClassALU:
		return t.config.ALULatency
	case insts.ClassMultiply:
		return t.config.MultiplyLatency
	case insts.ClassDivide:
		return t.config.DivideLatency
	case insts.ClassLoad:
		return t.config.LoadLatency
	case insts.ClassStore:
		return t.config.StoreLatency
	case insts.ClassBranch:
		return t.config.BranchLatency
	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction accesses memory.
func (t *Table) IsMemoryOp(inst *emu.Instruction) bool {
	return t.IsLoadOp(inst) || t.IsStoreOp(inst)
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst *emu.Instruction) bool {
	return inst != nil && inst.Class == insts.ClassLoad
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst *emu.Instruction) bool {
	return inst != nil && inst.Class == insts.ClassStore
}

// IsBranchOp returns true if the instruction is a branch operation.
func (t *Table) IsBranchOp(inst *emu.Instruction) bool {
	return inst != nil && inst.Class == insts.ClassBranch
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
