// Package errz defines the structured errors returned by the translator and
// the virtual machine.
package errz

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrUnbalancedBrackets indicates a loop bracket without a partner.
	ErrUnbalancedBrackets ErrorKind = iota
	// ErrPointerUnderflow indicates a left move at tape position 0.
	ErrPointerUnderflow
	// ErrInput indicates a failure of the interactive terminal.
	ErrInput
	// ErrCancelled indicates the run was stopped by its context or observer.
	ErrCancelled
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnbalancedBrackets:
		return "unbalanced brackets"
	case ErrPointerUnderflow:
		return "pointer underflow"
	case ErrInput:
		return "input error"
	case ErrCancelled:
		return "cancelled"
	default:
		return "error"
	}
}

// SourceLocation identifies a character in the original source text. Line
// and Column are 1-based; the zero value means the location is unknown.
type SourceLocation struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Source   string `json:"-"` // text of the line, for snippets
}

// IsZero returns true if no position is recorded.
func (l SourceLocation) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

func (l SourceLocation) String() string {
	if l.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// StructuredError is the error type produced by translation and execution.
// Index is the position of the offending instruction in the filtered program.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Index    int
	Location SourceLocation
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%d:%d)", e.Kind.String(), e.Message, e.Location.Line, e.Location.Column)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// UnbalancedBrackets reports a bracket at the given instruction index that
// has no partner. opening is true for '[' and false for ']'.
func UnbalancedBrackets(index int, loc SourceLocation, opening bool) *StructuredError {
	msg := fmt.Sprintf("no matching '[' for ']' at instruction %d", index)
	if opening {
		msg = fmt.Sprintf("no matching ']' for '[' at instruction %d", index)
	}
	return &StructuredError{
		Message:  msg,
		Kind:     ErrUnbalancedBrackets,
		Index:    index,
		Location: loc,
	}
}

// PointerUnderflow reports a left move at tape position 0.
func PointerUnderflow(index int, loc SourceLocation) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf("cannot move left of cell 0 at instruction %d", index),
		Kind:     ErrPointerUnderflow,
		Index:    index,
		Location: loc,
	}
}

// Input reports a terminal failure while executing the instruction at index.
func Input(index int, loc SourceLocation, cause error) *StructuredError {
	msg := "terminal failure"
	if cause != nil {
		msg = cause.Error()
	}
	return (&StructuredError{
		Message:  msg,
		Kind:     ErrInput,
		Index:    index,
		Location: loc,
	}).WithCause(cause)
}

// Cancelled reports a run stopped before the instruction at index.
func Cancelled(index int, cause error) *StructuredError {
	msg := "execution halted"
	if cause != nil {
		msg = cause.Error()
	}
	return (&StructuredError{
		Message: msg,
		Kind:    ErrCancelled,
		Index:   index,
	}).WithCause(cause)
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
