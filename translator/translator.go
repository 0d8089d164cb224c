// Package translator turns source text into a loop-resolved program.
//
// # Filtering
//
// Only the eight characters `+ - > < . , [ ]` are significant. Everything
// else, whitespace and comment text included, is discarded before indexing,
// so instruction indices refer to the filtered text and not to the original.
// The line and column of every kept character are recorded so that errors
// can point back into the source.
//
// # Bracket Pairing
//
// Each '[' is paired by scanning forward from the next instruction with a
// nesting counter: a further '[' increments it, a ']' decrements it, and a
// ']' seen while the counter is zero is the partner. A ']' is paired by the
// mirror-image backward scan. Every LoopStart therefore points at its
// LoopEnd and vice versa. The scan is linear per bracket, quadratic in the
// worst case, which is fine for programs of this kind.
//
// A bracket without a partner stops translation with an
// errz.ErrUnbalancedBrackets error and no program is produced.
package translator

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/bfi/errz"
	"github.com/deepnoodle-ai/bfi/op"
	"github.com/deepnoodle-ai/bfi/program"
)

// Option configures a translation.
type Option func(*config)

type config struct {
	filename string
}

// WithFilename sets the filename recorded in the program and its errors.
func WithFilename(filename string) Option {
	return func(c *config) {
		c.filename = filename
	}
}

// symbol is one significant character of the source and where it was found.
type symbol struct {
	code op.Code
	loc  errz.SourceLocation
}

// Translate filters the source, maps each symbol to an instruction and
// resolves loop targets. It fails with an ErrUnbalancedBrackets error on
// the first bracket, in instruction order, that has no partner.
func Translate(source string, opts ...Option) (*program.Program, error) {
	cfg, symbols, codes := prepare(source, opts)

	instructions := make([]op.Instruction, len(symbols))
	locations := make([]errz.SourceLocation, len(symbols))
	for i, s := range symbols {
		locations[i] = s.loc
		switch s.code {
		case op.LoopStart:
			end, ok := findClosing(codes, i)
			if !ok {
				return nil, bracketError(source, cfg.filename, i, s)
			}
			instructions[i] = op.Jump(op.LoopStart, end)
		case op.LoopEnd:
			start, ok := findOpening(codes, i)
			if !ok {
				return nil, bracketError(source, cfg.filename, i, s)
			}
			instructions[i] = op.Jump(op.LoopEnd, start)
		default:
			instructions[i] = op.New(s.code)
		}
	}
	return program.New(instructions, locations, source, cfg.filename), nil
}

// Check reports every unmatched bracket in the source rather than only the
// first. The result is nil or a *multierror.Error whose entries are
// *errz.StructuredError values in instruction order.
func Check(source string, opts ...Option) error {
	cfg, symbols, codes := prepare(source, opts)

	var result *multierror.Error
	for i, s := range symbols {
		var ok bool
		switch s.code {
		case op.LoopStart:
			_, ok = findClosing(codes, i)
		case op.LoopEnd:
			_, ok = findOpening(codes, i)
		default:
			continue
		}
		if !ok {
			result = multierror.Append(result, bracketError(source, cfg.filename, i, s))
		}
	}
	return result.ErrorOrNil()
}

// Filter returns only the significant characters of the source.
func Filter(source string) string {
	var b strings.Builder
	for _, r := range source {
		if op.IsSymbol(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func prepare(source string, opts []Option) (*config, []symbol, []op.Code) {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	symbols := scan(source)
	codes := make([]op.Code, len(symbols))
	for i, s := range symbols {
		codes[i] = s.code
	}
	return cfg, symbols, codes
}

func scan(source string) []symbol {
	var symbols []symbol
	line, column := 1, 0
	for _, r := range source {
		column++
		if r == '\n' {
			line++
			column = 0
			continue
		}
		if code, ok := op.FromSymbol(r); ok {
			symbols = append(symbols, symbol{
				code: code,
				loc:  errz.SourceLocation{Line: line, Column: column},
			})
		}
	}
	return symbols
}

// findClosing returns the index of the LoopEnd matching the LoopStart at
// index.
func findClosing(codes []op.Code, index int) (int, bool) {
	opened := 0
	for i := index + 1; i < len(codes); i++ {
		switch codes[i] {
		case op.LoopStart:
			opened++
		case op.LoopEnd:
			if opened == 0 {
				return i, true
			}
			opened--
		}
	}
	return 0, false
}

// findOpening returns the index of the LoopStart matching the LoopEnd at
// index.
func findOpening(codes []op.Code, index int) (int, bool) {
	closed := 0
	for i := index - 1; i >= 0; i-- {
		switch codes[i] {
		case op.LoopEnd:
			closed++
		case op.LoopStart:
			if closed == 0 {
				return i, true
			}
			closed--
		}
	}
	return 0, false
}

func bracketError(source, filename string, index int, s symbol) *errz.StructuredError {
	loc := s.loc
	loc.Filename = filename
	loc.Source = program.Line(source, loc.Line)
	return errz.UnbalancedBrackets(index, loc, s.code == op.LoopStart)
}
