package emu

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/armsim/insts"
)

// Machine defaults.
const (
	DefaultStackSize = 2 << 16
	DefaultRegisters = 10

	// StackBase is the initial value of sp. fp starts at StackBase plus the
	// stack size.
	StackBase = 0x1000
)

// ErrDuplicateLabel is returned when a label is defined twice.
var ErrDuplicateLabel = errors.New("label already defined")

// HookPosRetire marks the hook invoked after each executed instruction.
// The hook Item is the *Instruction and Detail is a bool reporting whether
// its condition held.
var HookPosRetire = &sim.HookPos{Name: "Retire"}

// Machine holds the architectural state and the decoded program.
type Machine struct {
	*sim.HookableBase

	regFile *RegFile
	memory  *Memory
	status  Status
	table   *Table

	program []*Instruction
	labels  map[string]int

	// Construction parameters
	memorySize int
	stackSize  int
	registers  int
	source     []string

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// MachineOption is a functional option for configuring the Machine.
type MachineOption func(*Machine)

// WithMemorySize sets the data memory size in bytes.
func WithMemorySize(size int) MachineOption {
	return func(m *Machine) {
		m.memorySize = size
	}
}

// WithStackSize sets the stack size used to place the initial fp.
func WithStackSize(size int) MachineOption {
	return func(m *Machine) {
		m.stackSize = size
	}
}

// WithRegisters sets the number of general-purpose registers.
func WithRegisters(n int) MachineOption {
	return func(m *Machine) {
		m.registers = n
	}
}

// WithProgram sets the initial program, one line per element.
func WithProgram(lines []string) MachineOption {
	return func(m *Machine) {
		m.source = lines
	}
}

// WithSource sets the initial program from newline-separated text.
func WithSource(text string) MachineOption {
	return WithProgram(strings.Split(text, "\n"))
}

// WithTable sets the opcode table used for decoding.
func WithTable(t *Table) MachineOption {
	return func(m *Machine) {
		m.table = t
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) MachineOption {
	return func(m *Machine) {
		m.maxInstructions = max
	}
}

// NewMachine creates a machine and loads its initial program. Without
// WithProgram the program is a single nop.
func NewMachine(opts ...MachineOption) (*Machine, error) {
	m := &Machine{
		HookableBase: sim.NewHookableBase(),
		labels:       make(map[string]int),
		memorySize:   DefaultMemorySize,
		stackSize:    DefaultStackSize,
		registers:    DefaultRegisters,
		source:       []string{"nop"},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.table == nil {
		m.table = DefaultTable()
	}
	if m.registers < 0 || m.memorySize < 0 {
		return nil, fmt.Errorf("invalid machine size: %d registers, %d bytes",
			m.registers, m.memorySize)
	}

	m.regFile = NewRegFile(m.registers)
	m.memory = NewMemory(m.memorySize)
	m.regFile.Write(RegSP, StackBase)
	m.regFile.Write(RegFP, int64(StackBase+m.stackSize))

	if err := m.LoadProgram(m.source); err != nil {
		return nil, err
	}

	return m, nil
}

// RegFile returns the machine's register file.
func (m *Machine) RegFile() *RegFile {
	return m.regFile
}

// Memory returns the machine's data memory.
func (m *Machine) Memory() *Memory {
	return m.memory
}

// Status returns the machine's status flags.
func (m *Machine) Status() *Status {
	return &m.status
}

// Table returns the opcode table the machine decodes with.
func (m *Machine) Table() *Table {
	return m.table
}

// Program returns the decoded instruction sequence.
func (m *Machine) Program() []*Instruction {
	return m.program
}

// InstructionCount returns the number of instructions executed.
func (m *Machine) InstructionCount() uint64 {
	return m.instructionCount
}

// Reg returns a handle on the named register.
func (m *Machine) Reg(name string) (Arg, error) {
	i, ok := m.regFile.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown register %q", ErrBadOperand, name)
	}

	return &Register{Name: name, index: i, regs: m.regFile}, nil
}

// Args resolves operand tokens into operands.
func (m *Machine) Args(names []string) ([]Arg, error) {
	return parseArgs(m.regFile, names)
}

// LabelIndex returns the instruction index a label is bound to.
func (m *Machine) LabelIndex(name string) (int, error) {
	i, ok := m.labels[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrLabelNotFound, name)
	}

	return i, nil
}

// Labels returns a copy of the label table.
func (m *Machine) Labels() map[string]int {
	labels := make(map[string]int, len(m.labels))
	for k, v := range m.labels {
		labels[k] = v
	}

	return labels
}

// LineError reports the program line that failed to load. Index is the
// position of the line in the slice given to LoadProgram.
type LineError struct {
	Index int
	Text  string
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Index+1, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// LoadProgram appends lines to the program. Labels in lines are bound
// before any instruction is decoded, so branches may refer to labels
// defined further down. On error neither labels nor instructions are
// added.
func (m *Machine) LoadProgram(lines []string) error {
	pending := make(map[string]int)
	next := len(m.program)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, ok := insts.ParseLabel(line)
		if !ok {
			next++
			continue
		}

		_, seen := pending[name]
		if _, bound := m.labels[name]; bound || seen {
			return &LineError{Index: i, Text: line,
				Err: fmt.Errorf("%w: %s", ErrDuplicateLabel, name)}
		}
		pending[name] = next
	}

	// Decoding resolves labels through m.labels, so the pending ones are
	// visible during decode and removed again on failure.
	for name, index := range pending {
		m.labels[name] = index
	}

	decoded := make([]*Instruction, 0, next-len(m.program))
	for i, line := range lines {
		if _, ok := insts.ParseLabel(line); ok || strings.TrimSpace(line) == "" {
			continue
		}

		inst, err := m.table.Decode(m, line)
		if err != nil {
			for name := range pending {
				delete(m.labels, name)
			}
			return &LineError{Index: i, Text: strings.TrimSpace(line), Err: err}
		}
		decoded = append(decoded, inst)
	}
	m.program = append(m.program, decoded...)

	return nil
}

// Insert appends one line, a label or an instruction, to the program.
func (m *Machine) Insert(line string) error {
	return m.LoadProgram([]string{line})
}

// Instruction decodes a line without adding it to the program.
func (m *Machine) Instruction(line string) (*Instruction, error) {
	return m.table.Decode(m, line)
}

// Step executes a single instruction.
// It returns true while pc indexes a remaining instruction and false once
// pc equals the program length.
func (m *Machine) Step() (bool, error) {
	if m.maxInstructions > 0 && m.instructionCount >= m.maxInstructions {
		return false, fmt.Errorf("%w: %d", ErrMaxInstructions, m.maxInstructions)
	}

	pc := int64(m.regFile.PC())
	if pc >= int64(len(m.program)) {
		return false, fmt.Errorf("%w: at %d", ErrInstructionNotFound, pc)
	}

	// pc moves first so that a branch can overwrite it.
	m.regFile.SetPC(pc + 1)

	inst := m.program[pc]
	taken, err := inst.Execute(m)
	if err != nil {
		return false, fmt.Errorf("instruction %d (%s): %w", pc, inst, err)
	}
	m.instructionCount++

	if m.NumHooks() > 0 {
		m.InvokeHook(sim.HookCtx{
			Domain: m,
			Pos:    HookPosRetire,
			Item:   inst,
			Detail: taken,
		})
	}

	next := int64(m.regFile.PC())
	switch {
	case next < int64(len(m.program)):
		return true, nil
	case next == int64(len(m.program)):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %d / %d", ErrInvalidPC, next, len(m.program))
	}
}

// Run executes instructions until pc reaches the end of the program.
// A positive limit bounds the wall-clock time of the run.
func (m *Machine) Run(limit time.Duration) error {
	start := time.Now()

	for {
		if limit > 0 && time.Since(start) > limit {
			return fmt.Errorf("%w: %v", ErrTimeLimit, limit)
		}

		more, err := m.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// RetireHook adapts a function to a hook that receives every executed
// instruction.
type RetireHook func(m *Machine, inst *Instruction)

// Func implements sim.Hook.
func (h RetireHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosRetire {
		return
	}

	m, ok := ctx.Domain.(*Machine)
	if !ok {
		return
	}

	h(m, ctx.Item.(*Instruction))
}
