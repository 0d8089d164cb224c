package op

import "fmt"

// Instruction is a single decoded operation. Target is only meaningful for
// LoopStart and LoopEnd, where it holds the index of the partner bracket.
type Instruction struct {
	Code   Code `json:"code"`
	Target int  `json:"target,omitempty"`
}

// New returns an instruction that carries no target.
func New(code Code) Instruction {
	return Instruction{Code: code}
}

// Jump returns a loop instruction pointing at the partner bracket.
func Jump(code Code, target int) Instruction {
	return Instruction{Code: code, Target: target}
}

func (i Instruction) String() string {
	if i.Code.IsJump() {
		return fmt.Sprintf("%s -> %d", i.Code, i.Target)
	}
	return i.Code.String()
}
