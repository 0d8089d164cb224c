// Package terminal provides implementations of vm.Terminal: an interactive
// keyboard-driven one for TTYs and a stream one for pipes and tests.
package terminal

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/deepnoodle-ai/bfi/vm"
)

var (
	// ErrAlreadyAcquired is returned by a second call to Acquire.
	ErrAlreadyAcquired = errors.New("terminal already acquired")

	// ErrNotAcquired is returned when Release is called without a matching
	// Acquire, or more than once.
	ErrNotAcquired = errors.New("terminal not acquired")
)

// lifecycle enforces that a terminal is acquired and released at most once.
type lifecycle struct {
	mu       sync.Mutex
	acquired bool
	released bool
}

func (l *lifecycle) acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.acquired {
		return ErrAlreadyAcquired
	}
	l.acquired = true
	return nil
}

func (l *lifecycle) release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.acquired || l.released {
		return ErrNotAcquired
	}
	l.released = true
	return nil
}

// active reports whether the terminal is between Acquire and Release.
func (l *lifecycle) active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired && !l.released
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Auto returns a Keyboard when both in and out are interactive terminals
// and a Stream reading from in otherwise. A Stream discards displayed
// characters; its caller prints the final output.
func Auto(in *os.File, out io.Writer) vm.Terminal {
	if f, ok := out.(*os.File); ok && IsTerminal(in) && IsTerminal(f) {
		return NewKeyboard(in, out)
	}
	return NewStream(in, nil)
}
