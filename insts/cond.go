package insts

import (
	"errors"
	"fmt"
)

// ErrUnknownCondition is returned when a mnemonic carries a suffix that is
// not a condition code.
var ErrUnknownCondition = errors.New("unknown condition code")

// Cond represents a 4-bit ARM condition code.
type Cond uint8

// ARM condition codes. Odd codes negate the test of the preceding even code.
const (
	CondEQ Cond = 0b0000 // Equal (Z == 1)
	CondNE Cond = 0b0001 // Not Equal (Z == 0)
	CondCS Cond = 0b0010 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0b0011 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0b0100 // Minus / Negative (N == 1)
	CondPL Cond = 0b0101 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0b0110 // Overflow (V == 1)
	CondVC Cond = 0b0111 // No overflow (V == 0)
	CondHI Cond = 0b1000 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0b1001 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0b1010 // Signed greater than or equal (N == V)
	CondLT Cond = 0b1011 // Signed less than (N != V)
	CondGT Cond = 0b1100 // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0b1101 // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0b1110 // Always (unconditional)
)

// condSuffixes holds the mnemonic suffix of every code below CondAL.
var condSuffixes = [...]string{
	CondEQ: "eq",
	CondNE: "ne",
	CondCS: "cs",
	CondCC: "cc",
	CondMI: "mi",
	CondPL: "pl",
	CondVS: "vs",
	CondVC: "vc",
	CondHI: "hi",
	CondLS: "ls",
	CondGE: "ge",
	CondLT: "lt",
	CondGT: "gt",
	CondLE: "le",
}

// Conditions returns the 14 codes that have their own mnemonic suffix, in
// encoding order. CondAL is implied by the absence of a suffix.
func Conditions() []Cond {
	conds := make([]Cond, 0, len(condSuffixes))
	for c := range condSuffixes {
		conds = append(conds, Cond(c))
	}

	return conds
}

// Suffix returns the two-letter mnemonic suffix, or "" for CondAL.
func (c Cond) Suffix() string {
	if int(c) < len(condSuffixes) {
		return condSuffixes[c]
	}

	return ""
}

// String returns the upper-case condition name.
func (c Cond) String() string {
	switch {
	case c == CondAL:
		return "AL"
	case int(c) < len(condSuffixes):
		s := condSuffixes[c]
		return string([]byte{s[0] - 'a' + 'A', s[1] - 'a' + 'A'})
	default:
		return fmt.Sprintf("Cond(%d)", uint8(c))
	}
}

// ParseCond maps a two-letter suffix to its condition code.
func ParseCond(suffix string) (Cond, error) {
	for c, s := range condSuffixes {
		if s == suffix {
			return Cond(c), nil
		}
	}

	return CondAL, fmt.Errorf("%w: %q", ErrUnknownCondition, suffix)
}
