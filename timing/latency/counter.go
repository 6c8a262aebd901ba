package latency

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/insts"
)

// Statistics holds the totals gathered by a Counter.
type Statistics struct {
	// Cycles is the estimated number of cycles.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Skipped is the number of retired instructions whose condition failed.
	Skipped uint64
	// Loads is the number of executed loads.
	Loads uint64
	// Stores is the number of executed stores.
	Stores uint64
	// Branches is the number of branches taken.
	Branches uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Counter is a hook that estimates cycles for a machine's retired
// instructions. Attach it with Machine.AcceptHook.
type Counter struct {
	table *Table
	stats Statistics
}

// NewCounter creates a counter that prices instructions with table.
func NewCounter(table *Table) *Counter {
	return &Counter{table: table}
}

// Func implements sim.Hook.
func (c *Counter) Func(ctx sim.HookCtx) {
	if ctx.Pos != emu.HookPosRetire {
		return
	}

	inst, ok := ctx.Item.(*emu.Instruction)
	if !ok {
		return
	}
	taken, _ := ctx.Detail.(bool)

	c.Record(inst, taken)
}

// Record adds one retired instruction to the totals.
func (c *Counter) Record(inst *emu.Instruction, taken bool) {
	c.stats.Instructions++

	if !taken {
		c.stats.Skipped++
		c.stats.Cycles += c.table.Config().SkippedLatency
		return
	}

	c.stats.Cycles += c.table.GetLatency(inst)

	switch inst.Class {
	case insts.ClassLoad:
		c.stats.Loads++
	case insts.ClassStore:
		c.stats.Stores++
	case insts.ClassBranch:
		c.stats.Branches++
	}
}

// Stats returns the totals gathered so far.
func (c *Counter) Stats() Statistics {
	return c.stats
}

// Reset clears the totals.
func (c *Counter) Reset() {
	c.stats = Statistics{}
}
