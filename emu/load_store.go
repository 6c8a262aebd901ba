package emu

import (
	"fmt"

	"github.com/sarchlab/armsim/insts"
)

// transferSize is the size suffix of a load/store mnemonic.
type transferSize struct {
	suffix string
	bytes  int
	signed bool
}

var transferSizes = []transferSize{
	{suffix: "", bytes: 4},
	{suffix: "b", bytes: 1},
	{suffix: "h", bytes: 2},
	{suffix: "sb", bytes: 1, signed: true},
	{suffix: "sh", bytes: 2, signed: true},
}

func registerLoadStore(t *Table) {
	for _, size := range transferSizes {
		t.registerVariants("ldr"+size.suffix, false, transferConstructor("ldr"+size.suffix, size, true))
		t.registerVariants("str"+size.suffix, false, transferConstructor("str"+size.suffix, size, false))
	}
}

// transferConstructor builds ldr/str instructions. Operand 0 is the value
// register, operand 1 the address and the optional operand 2 a post-index
// amount added into the base register after the transfer.
func transferConstructor(base string, size transferSize, load bool) Constructor {
	class := insts.ClassStore
	if load {
		class = insts.ClassLoad
	}

	return func(m *Machine, mnemonic string, ops []string) (*Instruction, error) {
		cond, _, err := insts.ParseSuffix(base, mnemonic, false)
		if err != nil {
			return nil, err
		}

		if len(ops) < 2 || len(ops) > 3 {
			return nil, operandCountError(mnemonic, len(ops), 2, 3)
		}

		args, err := m.Args(ops)
		if err != nil {
			return nil, err
		}

		if _, ok := args[0].(*Register); !ok {
			return nil, fmt.Errorf("%w: %s needs a register, got %s", ErrBadOperand, mnemonic, args[0])
		}
		addr, ok := args[1].(*Address)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs an address, got %s", ErrBadOperand, mnemonic, args[1])
		}
		if len(args) == 3 {
			if _, ok := addr.Components[0].(*Register); !ok {
				return nil, fmt.Errorf("%w: post-index needs a base register in %s", ErrBadOperand, addr)
			}
		}

		exec := size.store
		if load {
			exec = size.load
		}

		return &Instruction{
			Mnemonic: mnemonic,
			Base:     base,
			Class:    class,
			Cond:     cond,
			Args:     args,
			exec:     exec,
		}, nil
	}
}

// load reads memory into operand 0.
func (s transferSize) load(m *Machine, inst *Instruction) error {
	addr := inst.Args[1].(*Address)

	a := addr.Get()
	if err := m.memory.check(a, s.bytes); err != nil {
		return err
	}
	if _, err := addr.Resolve(); err != nil {
		return err
	}

	var value int64
	switch {
	case s.bytes == 4:
		v, _ := m.memory.Read32(a)
		value = int64(v)
	case s.bytes == 2 && s.signed:
		v, _ := m.memory.Read16(a)
		value = int64(int16(v))
	case s.bytes == 2:
		v, _ := m.memory.Read16(a)
		value = int64(v)
	case s.signed:
		v, _ := m.memory.Read8(a)
		value = int64(int8(v))
	default:
		v, _ := m.memory.Read8(a)
		value = int64(v)
	}

	if err := inst.Args[0].Set(value); err != nil {
		return err
	}

	return postIndex(inst, addr)
}

// store writes operand 0 to memory.
func (s transferSize) store(m *Machine, inst *Instruction) error {
	if s.signed {
		return fmt.Errorf("%w: %s", ErrSignedStore, inst.Mnemonic)
	}

	addr := inst.Args[1].(*Address)
	value := inst.Args[0].Get()

	a := addr.Get()
	if err := m.memory.check(a, s.bytes); err != nil {
		return err
	}
	if _, err := addr.Resolve(); err != nil {
		return err
	}

	switch s.bytes {
	case 4:
		_ = m.memory.Write32(a, uint32(value))
	case 2:
		_ = m.memory.Write16(a, uint16(value))
	default:
		_ = m.memory.Write8(a, uint8(value))
	}

	return postIndex(inst, addr)
}

func postIndex(inst *Instruction, addr *Address) error {
	if len(inst.Args) < 3 {
		return nil
	}

	return addr.Advance(inst.Args[2].Get())
}
