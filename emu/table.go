package emu

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/armsim/insts"
)

// Constructor builds an instruction for machine m from the mnemonic as
// written and its operand tokens.
type Constructor func(m *Machine, mnemonic string, ops []string) (*Instruction, error)

type tableEntry struct {
	variant insts.Variant
	ctor    Constructor
}

// Table maps mnemonic text to instruction constructors. It is filled once
// by NewTable and only read afterwards, so one Table can serve any number
// of machines.
type Table struct {
	entries map[string]tableEntry
}

// NewTable creates a table holding every supported mnemonic variant.
func NewTable() *Table {
	t := &Table{entries: make(map[string]tableEntry)}

	t.mustRegister(insts.Variant{Mnemonic: "nop", Base: "nop", Cond: insts.CondAL}, newNop)
	registerALU(t)
	registerLoadStore(t)
	registerBranch(t)

	return t
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// DefaultTable returns the shared table, building it on first use.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = NewTable()
	})

	return defaultTable
}

// Register stores one mnemonic mapping. Registering a mnemonic twice is an
// error.
func (t *Table) Register(v insts.Variant, ctor Constructor) error {
	if _, ok := t.entries[v.Mnemonic]; ok {
		return fmt.Errorf("mnemonic %q registered twice", v.Mnemonic)
	}
	t.entries[v.Mnemonic] = tableEntry{variant: v, ctor: ctor}

	return nil
}

func (t *Table) mustRegister(v insts.Variant, ctor Constructor) {
	if err := t.Register(v, ctor); err != nil {
		panic(err)
	}
}

// registerVariants registers every spelling of base with the same
// constructor.
func (t *Table) registerVariants(base string, statusCapable bool, ctor Constructor) {
	for _, v := range insts.Variants(base, statusCapable) {
		t.mustRegister(v, ctor)
	}
}

// Lookup returns the variant metadata registered for a mnemonic.
func (t *Table) Lookup(mnemonic string) (insts.Variant, bool) {
	e, ok := t.entries[mnemonic]
	return e.variant, ok
}

// Len returns the number of registered mnemonics.
func (t *Table) Len() int {
	return len(t.entries)
}

// Mnemonics returns all registered mnemonics in sorted order.
func (t *Table) Mnemonics() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Decode builds an instruction for m from one line of assembly.
func (t *Table) Decode(m *Machine, line string) (*Instruction, error) {
	mnemonic, text := insts.SplitMnemonic(line)

	e, ok := t.entries[mnemonic]
	if !ok {
		return nil, fmt.Errorf("%w %s [%s]", ErrUnknownOpcode, mnemonic, line)
	}

	ops, err := insts.ParseOperands(text)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", line, err)
	}

	inst, err := e.ctor(m, mnemonic, ops)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", line, err)
	}

	return inst, nil
}

func operandCountError(mnemonic string, got, lo, hi int) error {
	if lo == hi {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrOperandCount, mnemonic, lo, got)
	}

	return fmt.Errorf("%w: %s takes %d to %d, got %d", ErrOperandCount, mnemonic, lo, hi, got)
}
