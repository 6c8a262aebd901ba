package emu

import "errors"

// Decode errors.
var (
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrBadOperand      = errors.New("argument not implemented")
	ErrOperandCount    = errors.New("invalid number of arguments")
	ErrWriteBackOffset = errors.New("write-back requires a trailing literal offset")
	ErrLabelNotFound   = errors.New("label not found")
)

// Runtime errors.
var (
	ErrImmutableOperand    = errors.New("trying to store in immutable operand")
	ErrRotateNegative      = errors.New("cannot rotate negative value")
	ErrDivideByZero        = errors.New("division by zero")
	ErrSignedStore         = errors.New("signed transfer not allowed for store")
	ErrMemoryBounds        = errors.New("memory access out of bounds")
	ErrInstructionNotFound = errors.New("instruction not found")
	ErrInvalidPC           = errors.New("invalid program counter")
	ErrTimeLimit           = errors.New("time limit exceeded")
	ErrMaxInstructions     = errors.New("max instructions reached")
)
