// Package op defines the instruction codes executed by the bfi virtual machine.
package op

import "fmt"

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Cell arithmetic
	IncrementCell Code = 1
	DecrementCell Code = 2

	// Pointer movement
	MoveRight Code = 3
	MoveLeft  Code = 4

	// I/O
	OutputByte Code = 5
	InputByte  Code = 6

	// Loops
	LoopStart Code = 7
	LoopEnd   Code = 8
)

// String returns the opcode name, for example "MOVE_RIGHT".
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return fmt.Sprintf("INVALID(%d)", uint8(c))
}

// Symbol returns the source character for the opcode, or 0 for Invalid.
func (c Code) Symbol() rune {
	return infos[c].Symbol
}

// IsJump returns true for the two loop opcodes, which carry a target.
func (c Code) IsJump() bool {
	return infos[c].HasTarget
}

// Info contains information about an opcode.
type Info struct {
	Code      Code
	Name      string
	Symbol    rune
	HasTarget bool
}

var (
	infos   = make([]Info, 256)
	symbols = map[rune]Code{}
)

func init() {
	type opInfo struct {
		op     Code
		name   string
		symbol rune
		target bool
	}
	ops := []opInfo{
		{IncrementCell, "INCREMENT_CELL", '+', false},
		{DecrementCell, "DECREMENT_CELL", '-', false},
		{MoveRight, "MOVE_RIGHT", '>', false},
		{MoveLeft, "MOVE_LEFT", '<', false},
		{OutputByte, "OUTPUT_BYTE", '.', false},
		{InputByte, "INPUT_BYTE", ',', false},
		{LoopStart, "LOOP_START", '[', true},
		{LoopEnd, "LOOP_END", ']', true},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:      o.op,
			Name:      o.name,
			Symbol:    o.symbol,
			HasTarget: o.target,
		}
		symbols[o.symbol] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// FromSymbol returns the opcode for a source character. The second return
// value is false for characters that carry no meaning.
func FromSymbol(r rune) (Code, bool) {
	code, ok := symbols[r]
	return code, ok
}

// IsSymbol reports whether r is one of the eight significant characters.
func IsSymbol(r rune) bool {
	_, ok := symbols[r]
	return ok
}
