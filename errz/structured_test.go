package errz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "unbalanced brackets", ErrUnbalancedBrackets.String())
	assert.Equal(t, "pointer underflow", ErrPointerUnderflow.String())
	assert.Equal(t, "input error", ErrInput.String())
	assert.Equal(t, "cancelled", ErrCancelled.String())
	assert.Equal(t, "error", ErrorKind(99).String())
}

func TestUnbalancedBrackets(t *testing.T) {
	err := UnbalancedBrackets(3, SourceLocation{Line: 2, Column: 5}, true)
	assert.Equal(t, ErrUnbalancedBrackets, err.Kind)
	assert.Equal(t, 3, err.Index)
	assert.Equal(t, "unbalanced brackets: no matching ']' for '[' at instruction 3 (2:5)", err.Error())

	err = UnbalancedBrackets(0, SourceLocation{}, false)
	assert.Equal(t, "unbalanced brackets: no matching '[' for ']' at instruction 0", err.Error())
}

func TestPointerUnderflow(t *testing.T) {
	err := PointerUnderflow(0, SourceLocation{Line: 1, Column: 1})
	assert.Equal(t, ErrPointerUnderflow, err.Kind)
	assert.Contains(t, err.Error(), "pointer underflow")
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("running: %w", PointerUnderflow(4, SourceLocation{}))
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrPointerUnderflow, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestCauseIsUnwrapped(t *testing.T) {
	err := Cancelled(10, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "cancelled: context canceled", err.Error())

	cause := errors.New("read failed")
	err = Input(2, SourceLocation{}, cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrInput, err.Kind)
}

func TestFriendlyErrorMessage(t *testing.T) {
	err := UnbalancedBrackets(1, SourceLocation{
		Filename: "hello.bf",
		Line:     3,
		Column:   3,
		Source:   "+\t[-",
	}, true)
	expected := "unbalanced brackets: no matching ']' for '[' at instruction 1\n" +
		" --> hello.bf:3:3\n" +
		"  |\n" +
		"3 | +    [-\n" +
		"  |      ^\n"
	assert.Equal(t, expected, err.FriendlyErrorMessage())
}

func TestFriendlyErrorMessageWithoutLocation(t *testing.T) {
	err := Cancelled(0, nil)
	assert.Equal(t, "cancelled: execution halted\n", err.FriendlyErrorMessage())
}

func TestWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := PointerUnderflow(3, SourceLocation{Line: 1, Column: 4}).WithCause(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrPointerUnderflow, err.Kind)

	assert.Nil(t, Cancelled(0, nil).Cause)
	assert.Equal(t, "cancelled: execution halted", Cancelled(0, nil).Error())
	assert.Equal(t, "input error: terminal failure", Input(0, SourceLocation{}, nil).Error())
}
