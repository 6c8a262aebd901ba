package emu

import (
	"strings"

	"github.com/sarchlab/armsim/insts"
)

// execFunc runs a decoded instruction whose condition has already passed.
type execFunc func(m *Machine, inst *Instruction) error

// Instruction is a decoded instruction. Operands are resolved once, at
// decode time, and the instruction is never modified afterwards.
type Instruction struct {
	Mnemonic string      // Mnemonic as written, e.g. "addsne"
	Base     string      // Base mnemonic, e.g. "add"
	Class    insts.Class // Functional unit
	Cond     insts.Cond  // Condition code
	SetFlags bool        // true for the "s" variants
	Args     []Arg       // Resolved operands

	exec execFunc
}

// Execute runs the instruction on m. It returns false without touching any
// state if the condition code does not hold.
func (i *Instruction) Execute(m *Machine) (bool, error) {
	if i.Cond != insts.CondAL && !m.status.Check(i.Cond) {
		return false, nil
	}

	if err := i.exec(m, i); err != nil {
		return false, err
	}

	return true, nil
}

// String returns the instruction in assembly syntax.
func (i *Instruction) String() string {
	if len(i.Args) == 0 {
		return i.Mnemonic
	}

	ops := make([]string, len(i.Args))
	for j, a := range i.Args {
		ops[j] = a.String()
	}

	return i.Mnemonic + " " + strings.Join(ops, ", ")
}

func nopExec(*Machine, *Instruction) error {
	return nil
}

// newNop builds the no-operation instruction.
func newNop(m *Machine, mnemonic string, ops []string) (*Instruction, error) {
	if len(ops) != 0 {
		return nil, operandCountError(mnemonic, len(ops), 0, 0)
	}

	return &Instruction{
		Mnemonic: mnemonic,
		Base:     "nop",
		Class:    insts.ClassNop,
		Cond:     insts.CondAL,
		exec:     nopExec,
	}, nil
}
