package emu

import "github.com/sarchlab/armsim/insts"

// Status represents the processor status flags.
// Flags change only when a status-setting instruction executes.
type Status struct {
	// N is the negative flag.
	N bool
	// Z is the zero flag.
	Z bool
	// C is the carry flag.
	C bool
	// V is the overflow flag.
	V bool
}

// Check evaluates a condition code against the current flags.
// Codes come in pairs: an odd code negates the test of the even code
// before it.
func (s *Status) Check(cond insts.Cond) bool {
	var res bool

	switch cond >> 1 {
	case insts.CondEQ >> 1:
		// EQ/NE: Z
		res = s.Z
	case insts.CondCS >> 1:
		// CS/CC: C
		res = s.C
	case insts.CondMI >> 1:
		// MI/PL: N
		res = s.N
	case insts.CondVS >> 1:
		// VS/VC: V
		res = s.V
	case insts.CondHI >> 1:
		// HI/LS: C && !Z
		res = s.C && !s.Z
	case insts.CondGE >> 1:
		// GE/LT: N == V
		res = s.N == s.V
	case insts.CondGT >> 1:
		// GT/LE: !Z && N == V
		res = !s.Z && s.N == s.V
	default:
		// AL
		return true
	}

	if cond&1 == 1 {
		res = !res
	}

	return res
}

// setNZ sets N from bit 31 and Z from the zero-ness of a 32-bit value.
func (s *Status) setNZ(value uint32) {
	s.N = value&0x80000000 != 0
	s.Z = value == 0
}
