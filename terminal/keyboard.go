package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/containerd/console"
	"github.com/hashicorp/go-multierror"
	"github.com/tebeka/atexit"

	"github.com/deepnoodle-ai/bfi/vm"
)

const (
	enterAltScreen = "\x1b[?1049h\x1b[H"
	leaveAltScreen = "\x1b[?1049l"
)

// ErrInterrupted is returned by ReadInput when the user presses Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// ErrNotTerminal is returned by Acquire when stdin is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// consoleState restores a terminal to a previously saved mode.
type consoleState interface {
	Reset() error
}

// Keyboard is an interactive Terminal. While acquired it shows program
// output on the alternate screen and reads single key presses in raw mode,
// so input is delivered without waiting for Enter. Releasing it returns to
// the normal screen and the console mode saved by Acquire, leaving the
// caller to print the final output.
type Keyboard struct {
	lifecycle
	in     *os.File
	out    *bufio.Writer
	listen func(func(keys.Key) (bool, error)) error
	saved  consoleState
}

// NewKeyboard returns a Keyboard reading key presses from in, which must be
// the process stdin, and displaying to out.
func NewKeyboard(in *os.File, out io.Writer) *Keyboard {
	return &Keyboard{
		in:     in,
		out:    bufio.NewWriter(out),
		listen: keyboard.Listen,
	}
}

func (k *Keyboard) Acquire() error {
	if !IsTerminal(k.in) {
		return ErrNotTerminal
	}
	if err := k.acquire(); err != nil {
		return err
	}
	// A failed key read can leave the console in raw mode.
	saved, err := console.ConsoleFromFile(k.in)
	if err != nil {
		return fmt.Errorf("save console state: %w", err)
	}
	k.saved = saved
	// Leave the alternate screen even if the process exits mid-run.
	atexit.Register(func() {
		if k.active() {
			k.restore()
		}
	})
	if _, err := k.out.WriteString(enterAltScreen); err != nil {
		return err
	}
	return k.out.Flush()
}

func (k *Keyboard) Release() error {
	if err := k.release(); err != nil {
		return err
	}
	return k.restore()
}

func (k *Keyboard) restore() error {
	var result *multierror.Error
	if k.saved != nil {
		if err := k.saved.Reset(); err != nil {
			result = multierror.Append(result, fmt.Errorf("reset console: %w", err))
		}
	}
	if _, err := k.out.WriteString(leaveAltScreen); err != nil {
		result = multierror.Append(result, err)
	} else if err := k.out.Flush(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (k *Keyboard) ReadInput() (byte, error) {
	var (
		value       byte
		interrupted bool
	)
	err := k.listen(func(key keys.Key) (bool, error) {
		if key.Code == keys.CtrlC {
			interrupted = true
			return true, nil
		}
		b, ok := keyToByte(key)
		if ok {
			value = b
		}
		return ok, nil
	})
	if err != nil {
		return 0, fmt.Errorf("read key: %w", err)
	}
	if interrupted {
		return 0, ErrInterrupted
	}
	return value, nil
}

func (k *Keyboard) Display(ch rune) error {
	var err error
	// Raw mode does not translate newlines.
	if ch == '\n' {
		_, err = k.out.WriteString("\r\n")
	} else {
		_, err = k.out.WriteRune(ch)
	}
	return err
}

func (k *Keyboard) Refresh() error {
	return k.out.Flush()
}

// keyToByte converts a key press to the byte a program reads. Keys with no
// byte equivalent, such as arrows, report false and are skipped.
func keyToByte(key keys.Key) (byte, bool) {
	switch key.Code {
	case keys.RuneKey:
		if len(key.Runes) == 0 || key.Runes[0] > 0xff {
			return 0, false
		}
		return byte(key.Runes[0]), true
	case keys.Space:
		return ' ', true
	case keys.Enter:
		return '\n', true
	case keys.CtrlD:
		return vm.EndOfTransmission, true
	}
	// Remaining control keys carry their ASCII code.
	if key.Code >= 0 && key.Code < 0x80 {
		return byte(key.Code), true
	}
	return 0, false
}

var _ vm.Terminal = (*Keyboard)(nil)
