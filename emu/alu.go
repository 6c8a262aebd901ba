package emu

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/armsim/insts"
)

// aluFunc computes a raw result from the two source operand values. The
// result is not yet reduced to 32 bits so that flag functions can see
// carries and borrows.
type aluFunc func(m *Machine, a, b int64) (int64, error)

// flagFunc updates the status flags after an ALU operation. written is the
// value left in the destination, or the 32-bit result for compare
// instructions.
type flagFunc func(s *Status, a, b, result int64, written uint32)

// aluOp describes one arithmetic/logic base mnemonic.
type aluOp struct {
	class insts.Class
	exec  aluFunc
	flags flagFunc

	// statusCapable registers the "s" variants.
	statusCapable bool
	// compare marks cmp/cmn/tst/teq: no destination, flags always set.
	compare bool

	minArgs, maxArgs int
}

func aluOps() map[string]aluOp {
	ops := map[string]aluOp{
		"mov": {class: insts.ClassALU, exec: movExec, statusCapable: true, minArgs: 2, maxArgs: 2},
		"add": {class: insts.ClassALU, exec: addExec, flags: setAddFlags, statusCapable: true},
		"adc": {class: insts.ClassALU, exec: adcExec, flags: setAddFlags, statusCapable: true},
		"sub": {class: insts.ClassALU, exec: subExec, flags: setSubFlags, statusCapable: true},
		"mul": {class: insts.ClassMultiply, exec: mulExec, flags: setMulFlags, statusCapable: true},
		"div": {class: insts.ClassDivide, exec: divExec},
		"and": {class: insts.ClassALU, exec: andExec, flags: setLogicFlags, statusCapable: true},
		"orr": {class: insts.ClassALU, exec: orrExec, flags: setLogicFlags, statusCapable: true},
		"eor": {class: insts.ClassALU, exec: eorExec, flags: setLogicFlags, statusCapable: true},
		"bic": {class: insts.ClassALU, exec: bicExec, flags: setLogicFlags, statusCapable: true},
		"asr": {class: insts.ClassALU, exec: asrExec, flags: setLogicFlags, statusCapable: true, minArgs: 3, maxArgs: 3},
		"lsr": {class: insts.ClassALU, exec: lsrExec, flags: setLogicFlags, statusCapable: true, minArgs: 3, maxArgs: 3},
		"lsl": {class: insts.ClassALU, exec: lslExec, flags: setLogicFlags, statusCapable: true, minArgs: 3, maxArgs: 3},
		"ror": {class: insts.ClassALU, exec: rorExec, flags: setLogicFlags, statusCapable: true, minArgs: 3, maxArgs: 3},
		"cmp": {class: insts.ClassALU, exec: subExec, flags: setSubFlags, compare: true, minArgs: 2, maxArgs: 2},
		"cmn": {class: insts.ClassALU, exec: addExec, flags: setAddFlags, compare: true, minArgs: 2, maxArgs: 2},
		"tst": {class: insts.ClassALU, exec: andExec, flags: setLogicFlags, compare: true, minArgs: 2, maxArgs: 2},
		"teq": {class: insts.ClassALU, exec: eorExec, flags: setLogicFlags, compare: true, minArgs: 2, maxArgs: 2},
	}

	// Aliases.
	ops["or"] = ops["orr"]
	ops["xor"] = ops["eor"]

	return ops
}

func registerALU(t *Table) {
	for base, op := range aluOps() {
		t.registerVariants(base, op.statusCapable, aluConstructor(base, op))
	}
}

func aluConstructor(base string, op aluOp) Constructor {
	minArgs, maxArgs := op.minArgs, op.maxArgs
	if minArgs == 0 {
		minArgs, maxArgs = 2, 3
	}

	return func(m *Machine, mnemonic string, ops []string) (*Instruction, error) {
		cond, setFlags, err := insts.ParseSuffix(base, mnemonic, op.statusCapable)
		if err != nil {
			return nil, err
		}

		if len(ops) < minArgs || len(ops) > maxArgs {
			return nil, operandCountError(mnemonic, len(ops), minArgs, maxArgs)
		}

		args, err := m.Args(ops)
		if err != nil {
			return nil, err
		}

		return &Instruction{
			Mnemonic: mnemonic,
			Base:     base,
			Class:    op.class,
			Cond:     cond,
			SetFlags: setFlags || op.compare,
			Args:     args,
			exec:     op.execute,
		}, nil
	}
}

// execute applies the operation to the two right-most operands. Operand 0
// is the destination unless the operation is a compare.
func (op aluOp) execute(m *Machine, inst *Instruction) error {
	src1, src2 := inst.Args[0], inst.Args[1]
	if len(inst.Args) == 3 {
		src1, src2 = inst.Args[1], inst.Args[2]
	}

	a, b := src1.Get(), src2.Get()

	result, err := op.exec(m, a, b)
	if err != nil {
		return fmt.Errorf("%s: %w", inst.Mnemonic, err)
	}

	written := uint32(result)
	if !op.compare {
		dest := inst.Args[0]
		if err := dest.Set(result); err != nil {
			return err
		}
		written = uint32(dest.Get())
	}

	if inst.SetFlags && op.flags != nil {
		op.flags(&m.status, a, b, result, written)
	}

	return nil
}

func movExec(_ *Machine, _, b int64) (int64, error) {
	return b, nil
}

func addExec(_ *Machine, a, b int64) (int64, error) {
	return a + b, nil
}

func adcExec(m *Machine, a, b int64) (int64, error) {
	var carry int64
	if m.status.C {
		carry = 1
	}

	return a + b + carry, nil
}

func subExec(_ *Machine, a, b int64) (int64, error) {
	return a - b, nil
}

func mulExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint64(a) * uint64(b)), nil
}

func divExec(_ *Machine, a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}

	return a / b, nil
}

func andExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint32(a) & uint32(b)), nil
}

func orrExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint32(a) | uint32(b)), nil
}

func eorExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint32(a) ^ uint32(b)), nil
}

func bicExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint32(a) &^ uint32(b)), nil
}

// Shift amounts use the low five bits of the operand.

func asrExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint32(int32(uint32(a)) >> (uint32(b) & 31))), nil
}

func lsrExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint32(a) >> (uint32(b) & 31)), nil
}

func lslExec(_ *Machine, a, b int64) (int64, error) {
	return int64(uint32(a) << (uint32(b) & 31)), nil
}

func rorExec(_ *Machine, a, b int64) (int64, error) {
	if a < 0 {
		return 0, fmt.Errorf("%w: %d", ErrRotateNegative, a)
	}

	return int64(bits.RotateLeft32(uint32(a), -int(uint32(b)&31))), nil
}

// setAddFlags sets NZCV flags for addition. C is set when the unwrapped
// sum exceeds 0x7fffffff.
func setAddFlags(s *Status, a, b, result int64, written uint32) {
	s.N = uint32(result)&0x80000000 != 0
	s.Z = written == 0
	s.C = result > 0x7fffffff

	aSign := uint32(a) >> 31
	bSign := uint32(b) >> 31
	resultSign := uint32(result) >> 31
	s.V = aSign == bSign && aSign != resultSign
}

// setSubFlags sets NZCV flags for subtraction. C is set when no borrow
// occurred.
func setSubFlags(s *Status, a, b, result int64, written uint32) {
	s.N = uint32(result)&0x80000000 != 0
	s.Z = written == 0
	s.C = result >= 0

	aSign := uint32(a) >> 31
	bSign := uint32(b) >> 31
	resultSign := uint32(result) >> 31
	s.V = aSign != bSign && aSign != resultSign
}

// setMulFlags sets NZ flags for multiplication. C and V are unchanged.
func setMulFlags(s *Status, _, _, result int64, written uint32) {
	s.N = uint32(result)&0x80000000 != 0
	s.Z = written == 0
}

// setLogicFlags sets NZ flags for logic and shift operations. C and V are
// unchanged.
func setLogicFlags(s *Status, _, _, _ int64, written uint32) {
	s.setNZ(written)
}
