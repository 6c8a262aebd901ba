package emu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/armsim/insts"
)

// Arg is a resolved instruction operand. The set of implementations is
// closed: *Literal, *Register, *Label and *Address.
type Arg interface {
	// Get returns the operand value. It never has side effects.
	Get() int64

	// Set stores a value. Literals, labels and addresses are immutable.
	Set(value int64) error

	// String returns the operand in assembly syntax.
	String() string

	isArg()
}

// Literal is an immediate value such as #42.
type Literal struct {
	Value int64
}

// Get returns the literal value unchanged, which may be negative.
func (l *Literal) Get() int64 { return l.Value }

// Set always fails.
func (l *Literal) Set(int64) error {
	return fmt.Errorf("%w: literal #%d", ErrImmutableOperand, l.Value)
}

func (l *Literal) String() string { return "#" + strconv.FormatInt(l.Value, 10) }

func (*Literal) isArg() {}

// Register is a handle on one register-file cell.
type Register struct {
	Name  string
	index int
	regs  *RegFile
}

// Get returns the register value in [0, 2^32).
func (r *Register) Get() int64 { return int64(r.regs.ReadIndex(r.index)) }

// Set stores value modulo 2^32.
func (r *Register) Set(value int64) error {
	r.regs.WriteIndex(r.index, value)
	return nil
}

func (r *Register) String() string { return r.Name }

func (*Register) isArg() {}

// Label is a symbolic instruction index.
type Label struct {
	Name  string
	Index int
}

// Get returns the instruction index the label is bound to.
func (l *Label) Get() int64 { return int64(l.Index) }

// Set always fails.
func (l *Label) Set(int64) error {
	return fmt.Errorf("%w: label %s", ErrImmutableOperand, l.Name)
}

func (l *Label) String() string { return l.Name }

func (*Label) isArg() {}

// Address is a computed memory address: the sum of its components.
// With WriteBack set (syntax "[base, #off]!"), resolving the address for a
// transfer also adds the trailing literal offset into the base register.
type Address struct {
	Components []Arg
	WriteBack  bool
}

// Get previews the address without applying write-back.
func (a *Address) Get() int64 {
	var sum int64
	for _, c := range a.Components {
		sum += c.Get()
	}

	return sum
}

// Set always fails. Use Resolve and Advance to update the base register.
func (a *Address) Set(int64) error {
	return fmt.Errorf("%w: address %s", ErrImmutableOperand, a)
}

// Resolve returns the effective address and performs pre-index write-back.
func (a *Address) Resolve() (int64, error) {
	addr := a.Get()
	if a.WriteBack {
		offset := a.Components[len(a.Components)-1].Get()
		if err := a.Advance(offset); err != nil {
			return 0, err
		}
	}

	return addr, nil
}

// Advance adds delta into the base register, the first component.
func (a *Address) Advance(delta int64) error {
	base := a.Components[0]
	return base.Set(base.Get() + delta)
}

func (a *Address) String() string {
	parts := make([]string, len(a.Components))
	for i, c := range a.Components {
		parts[i] = c.String()
	}

	s := "[" + strings.Join(parts, ", ") + "]"
	if a.WriteBack {
		s += "!"
	}

	return s
}

func (*Address) isArg() {}

// parseArgs resolves operand tokens against a register file.
func parseArgs(regs *RegFile, names []string) ([]Arg, error) {
	args := make([]Arg, 0, len(names))

	for _, name := range names {
		arg, err := parseArg(regs, name)
		if err != nil {
			return nil, fmt.Errorf("%w (parsed from %v)", err, names)
		}
		args = append(args, arg)
	}

	return args, nil
}

func parseArg(regs *RegFile, name string) (Arg, error) {
	if i, ok := regs.Lookup(name); ok {
		return &Register{Name: name, index: i, regs: regs}, nil
	}

	switch {
	case strings.HasPrefix(name, "#"):
		v, err := parseLiteral(name[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadOperand, name)
		}
		return &Literal{Value: v}, nil

	case strings.HasPrefix(name, "["):
		return parseAddress(regs, name)

	default:
		return nil, fmt.Errorf("%w: %q", ErrBadOperand, name)
	}
}

// parseLiteral reads a decimal integer, or a hex one with an explicit 0x
// prefix. Leading zeros are decimal.
func parseLiteral(text string) (int64, error) {
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")

	lower := strings.ToLower(digits)
	if !strings.HasPrefix(lower, "0x") {
		return strconv.ParseInt(text, 10, 64)
	}

	hex := lower[2:]
	if strings.HasPrefix(hex, "-") || strings.HasPrefix(hex, "+") {
		return 0, fmt.Errorf("misplaced sign in %q", text)
	}

	v, err := strconv.ParseInt(hex, 16, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}

	return v, nil
}

func parseAddress(regs *RegFile, name string) (Arg, error) {
	var inner string
	writeBack := false

	switch {
	case strings.HasSuffix(name, "]!"):
		inner = name[1 : len(name)-2]
		writeBack = true
	case strings.HasSuffix(name, "]"):
		inner = name[1 : len(name)-1]
	default:
		return nil, fmt.Errorf("%w: %q", insts.ErrMismatchedBracket, name)
	}

	list := strings.Split(inner, ",")
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}

	components, err := parseArgs(regs, list)
	if err != nil {
		return nil, err
	}

	if writeBack {
		_, baseOK := components[0].(*Register)
		_, offsetOK := components[len(components)-1].(*Literal)
		if len(components) < 2 || !baseOK || !offsetOK {
			return nil, fmt.Errorf("%w: %q", ErrWriteBackOffset, name)
		}
	}

	return &Address{Components: components, WriteBack: writeBack}, nil
}
