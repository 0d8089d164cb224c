// Package dis renders translated programs as readable instruction listings.
package dis

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/deepnoodle-ai/bfi/program"
)

// Formats accepted by Encode.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Instruction is one disassembled instruction.
type Instruction struct {
	Offset int    `json:"offset" yaml:"offset"`
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Target *int   `json:"target,omitempty" yaml:"target,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Location returns "line:column", or "" when the location is unknown.
func (i Instruction) Location() string {
	if i.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// Disassemble lists the instructions of prog in order.
func Disassemble(prog *program.Program) []Instruction {
	instructions := make([]Instruction, 0, prog.Len())
	for offset := 0; offset < prog.Len(); offset++ {
		instr := prog.At(offset)
		line, column, _ := prog.Position(offset)
		item := Instruction{
			Offset: offset,
			Name:   instr.Code.String(),
			Symbol: string(instr.Code.Symbol()),
			Line:   line,
			Column: column,
		}
		if instr.Code.IsJump() {
			target := instr.Target
			item.Target = &target
		}
		instructions = append(instructions, item)
	}
	return instructions
}

// Print writes instructions to w as a table.
func Print(instructions []Instruction, w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Offset", "Opcode", "Symbol", "Target", "Location"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})
	for _, instr := range instructions {
		var target any = ""
		if instr.Target != nil {
			target = *instr.Target
		}
		tw.AppendRow(table.Row{instr.Offset, instr.Name, instr.Symbol, target, instr.Location()})
	}
	tw.Render()
}

// Encode writes instructions to w in the given format. Colorized JSON is
// produced only when color is true.
func Encode(instructions []Instruction, format string, color bool, w io.Writer) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		Print(instructions, w)
		return nil
	case FormatJSON:
		var (
			data []byte
			err  error
		)
		if color {
			data, err = prettyjson.Marshal(instructions)
		} else {
			data, err = json.MarshalIndent(instructions, "", "  ")
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(instructions); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
