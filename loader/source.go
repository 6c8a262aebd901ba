// Package loader reads assembly source files into program lines.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/armsim/insts"
)

// commentMarkers start a comment that runs to the end of the line.
var commentMarkers = []string{"//", "@", ";"}

// Line is one program line together with its position in the source.
type Line struct {
	// Number is the 1-based source line number.
	Number int
	// Text is the cleaned line: a label or an instruction.
	Text string
}

// Program represents a loaded assembly source ready for a machine.
type Program struct {
	// Path is the file the program was read from, if any.
	Path string
	// Lines contains the labels and instructions in source order.
	Lines []Line
}

// Text returns the cleaned lines without their positions.
func (p *Program) Text() []string {
	lines := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = l.Text
	}

	return lines
}

// Position returns a "path:line" label for the i-th program line, or the
// empty string when i is out of range.
func (p *Program) Position(i int) string {
	if i < 0 || i >= len(p.Lines) {
		return ""
	}

	path := p.Path
	if path == "" {
		path = "<stdin>"
	}

	return fmt.Sprintf("%s:%d", path, p.Lines[i].Number)
}

// Load reads an assembly source file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Parse reads assembly source from r. Comments, assembler directives and
// blank lines are dropped, tabs become spaces, and a label that shares a
// line with an instruction is split onto its own line.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}

	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++

		text := clean(scanner.Text())
		if text == "" {
			continue
		}

		if label, rest, ok := splitLabel(text); ok {
			prog.Lines = append(prog.Lines, Line{Number: number, Text: label})
			text = rest
			if text == "" {
				continue
			}
		}

		if strings.HasPrefix(text, ".") {
			continue
		}

		prog.Lines = append(prog.Lines, Line{Number: number, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan source: %w", err)
	}

	return prog, nil
}

// ParseString reads assembly source from a string.
func ParseString(src string) (*Program, error) {
	return Parse(strings.NewReader(src))
}

func clean(line string) string {
	for _, marker := range commentMarkers {
		if i := strings.Index(line, marker); i >= 0 {
			line = line[:i]
		}
	}

	line = strings.ReplaceAll(line, "\t", " ")

	return strings.TrimSpace(line)
}

// splitLabel separates a leading "name:" from the rest of the line.
func splitLabel(line string) (label, rest string, ok bool) {
	i := strings.Index(line, ":")
	if i < 0 {
		return "", "", false
	}

	label = line[:i+1]
	if _, ok := insts.ParseLabel(label); !ok {
		return "", "", false
	}

	return label, strings.TrimSpace(line[i+1:]), true
}
