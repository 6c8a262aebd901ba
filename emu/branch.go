package emu

import (
	"strings"

	"github.com/sarchlab/armsim/insts"
)

// Branch base mnemonics. The x forms may also take a register target.
var branchBases = []string{"b", "bl", "bx", "blx"}

func registerBranch(t *Table) {
	for _, base := range branchBases {
		t.registerVariants(base, false, branchConstructor(base))
	}
}

// branchConstructor builds branches. The target is a register name or a
// label; labels must already be known when the branch is decoded.
func branchConstructor(base string) Constructor {
	link := strings.HasPrefix(base, "bl")

	return func(m *Machine, mnemonic string, ops []string) (*Instruction, error) {
		cond, _, err := insts.ParseSuffix(base, mnemonic, false)
		if err != nil {
			return nil, err
		}

		if len(ops) != 1 {
			return nil, operandCountError(mnemonic, len(ops), 1, 1)
		}

		var target Arg
		if reg, err := m.Reg(ops[0]); err == nil {
			target = reg
		} else {
			index, err := m.LabelIndex(ops[0])
			if err != nil {
				return nil, err
			}
			target = &Label{Name: ops[0], Index: index}
		}

		exec := branchExec
		if link {
			exec = branchLinkExec
		}

		return &Instruction{
			Mnemonic: mnemonic,
			Base:     base,
			Class:    insts.ClassBranch,
			Cond:     cond,
			Args:     []Arg{target},
			exec:     exec,
		}, nil
	}
}

// branchExec overwrites pc with the target.
func branchExec(m *Machine, inst *Instruction) error {
	m.regFile.SetPC(inst.Args[0].Get())
	return nil
}

// branchLinkExec saves the return index, which is the already advanced pc,
// into lr and branches. The target is read first in case it is lr.
func branchLinkExec(m *Machine, inst *Instruction) error {
	target := inst.Args[0].Get()
	ret := int64(m.regFile.PC())

	m.regFile.SetPC(target)
	m.regFile.Write(RegLR, ret)

	return nil
}
