package insts

import (
	"errors"
	"fmt"
	"strings"
)

// Operand syntax errors.
var (
	ErrMismatchedBracket = errors.New("invalid syntax, mismatched bracket")
	ErrOperandTooShort   = errors.New("operand too short")
)

// ParseOperands splits a comma-separated operand list into trimmed tokens.
//
// Commas inside a [...] group do not split. A '!' directly after a closing
// bracket stays with its token as the write-back marker. Empty input yields
// an empty list.
func ParseOperands(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	var (
		ops   []string
		stack []byte
		begin int
	)

	for i := 0; i <= len(text); i++ {
		end := i == len(text)

		if (end || text[i] == ',') && len(stack) == 0 {
			op := strings.TrimSpace(text[begin:i])
			if len(op) < 2 {
				return nil, fmt.Errorf("%w: %q in %q", ErrOperandTooShort, op, text)
			}
			ops = append(ops, op)
			begin = i + 1
			continue
		}
		if end {
			break
		}

		switch text[i] {
		case '[':
			stack = append(stack, '[')
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return nil, fmt.Errorf("%w: stray ']' in %q", ErrMismatchedBracket, text)
			}
			stack = stack[:len(stack)-1]
			if i+1 < len(text) && text[i+1] == '!' {
				i++
			}
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed '[' in %q", ErrMismatchedBracket, text)
	}

	return ops, nil
}
