// Package insts provides the textual instruction syntax of the simulator.
//
// This package knows nothing about machine state. It supports:
//   - Condition codes and their two-letter mnemonic suffixes
//   - Splitting an assembly line into label, mnemonic and operand text
//   - Tokenising a comma-separated operand list with bracket awareness
//   - Expanding a base mnemonic into its condition/status-suffix variants
//
// Usage:
//
//	ops, err := insts.ParseOperands("r1, [r2, #4]!") // ["r1", "[r2, #4]!"]
//	for _, v := range insts.Variants("add", true) {
//		fmt.Println(v.Mnemonic, v.Cond, v.SetFlags)
//	}
package insts

// Class groups mnemonics by the functional unit that executes them.
type Class uint8

// Instruction classes.
const (
	ClassNop Class = iota
	ClassALU
	ClassMultiply
	ClassDivide
	ClassLoad
	ClassStore
	ClassBranch
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassNop:
		return "nop"
	case ClassALU:
		return "alu"
	case ClassMultiply:
		return "multiply"
	case ClassDivide:
		return "divide"
	case ClassLoad:
		return "load"
	case ClassStore:
		return "store"
	case ClassBranch:
		return "branch"
	default:
		return "unknown"
	}
}
