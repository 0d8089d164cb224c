// Package program holds the translated, loop-resolved form of a source text.
package program

import (
	"strings"

	"github.com/deepnoodle-ai/bfi/errz"
	"github.com/deepnoodle-ai/bfi/op"
)

// Program is an immutable instruction sequence together with the source it
// was translated from. It is safe for concurrent use; every run keeps its
// own tape.
type Program struct {
	instructions []op.Instruction
	locations    []errz.SourceLocation
	hasInput     bool
	lineStarts   []int // byte offset of each line in source

	// Metadata
	source   string
	filename string
}

// New creates a Program. The slices are copied. locations may be nil or
// must have one entry per instruction.
func New(instructions []op.Instruction, locations []errz.SourceLocation, source, filename string) *Program {
	p := &Program{
		instructions: append([]op.Instruction(nil), instructions...),
		lineStarts:   lineOffsets(source),
		source:       source,
		filename:     filename,
	}
	if len(locations) == len(instructions) {
		p.locations = append([]errz.SourceLocation(nil), locations...)
	}
	for _, instr := range instructions {
		if instr.Code == op.InputByte {
			p.hasInput = true
			break
		}
	}
	return p
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// At returns the instruction at index i.
func (p *Program) At(i int) op.Instruction {
	return p.instructions[i]
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []op.Instruction {
	return append([]op.Instruction(nil), p.instructions...)
}

// HasInput reports whether the program contains at least one InputByte
// instruction.
func (p *Program) HasInput() bool {
	return p.hasInput
}

// Position returns the 1-based line and column of instruction i. ok is false
// when the position is unknown.
func (p *Program) Position(i int) (line, column int, ok bool) {
	if i < 0 || i >= len(p.locations) {
		return 0, 0, false
	}
	return p.locations[i].Line, p.locations[i].Column, true
}

// Location returns where instruction i appears in the source, including the
// text of its line. The zero value is returned when unknown.
func (p *Program) Location(i int) errz.SourceLocation {
	if i < 0 || i >= len(p.locations) {
		return errz.SourceLocation{}
	}
	loc := p.locations[i]
	loc.Filename = p.filename
	loc.Source = p.SourceLine(loc.Line)
	return loc
}

// SourceLine returns the text of the given 1-based line of the source.
func (p *Program) SourceLine(line int) string {
	if line < 1 || line > len(p.lineStarts) {
		return ""
	}
	start, end := p.lineStarts[line-1], len(p.source)
	if line < len(p.lineStarts) {
		end = p.lineStarts[line] - 1
	}
	return strings.TrimSuffix(p.source[start:end], "\r")
}

func lineOffsets(source string) []int {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Source returns the original source text.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Line returns the text of the given 1-based line of source, without its
// line terminator. It returns "" when the line does not exist.
func Line(source string, line int) string {
	if line < 1 {
		return ""
	}
	for n := 1; ; n++ {
		end := strings.IndexByte(source, '\n')
		if n == line {
			if end < 0 {
				return strings.TrimSuffix(source, "\r")
			}
			return strings.TrimSuffix(source[:end], "\r")
		}
		if end < 0 {
			return ""
		}
		source = source[end+1:]
	}
}
