package insts

import (
	"regexp"
	"strings"
)

var labelRegex = regexp.MustCompile(`^(\.?[A-Za-z_][A-Za-z0-9_]*):$`)

// ParseLabel reports whether line is a label definition and returns the
// label name without the trailing colon.
func ParseLabel(line string) (string, bool) {
	m := labelRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}

	return m[1], true
}

// SplitMnemonic splits an instruction line at its first whitespace into the
// lower-cased mnemonic and the untrimmed operand text.
func SplitMnemonic(line string) (mnemonic, operands string) {
	line = strings.TrimSpace(line)

	s := strings.IndexAny(line, " \t")
	if s == -1 {
		return strings.ToLower(line), ""
	}

	return strings.ToLower(line[:s]), line[s:]
}
