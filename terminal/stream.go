package terminal

import (
	"bufio"
	"errors"
	"io"

	"github.com/deepnoodle-ai/bfi/vm"
)

// Stream is a Terminal over plain readers and writers. End of input reads
// as vm.EndOfTransmission, which programs observe as 0.
type Stream struct {
	lifecycle
	in  *bufio.Reader
	out *bufio.Writer
}

// NewStream returns a Stream reading from in and displaying to out. A nil
// out discards displayed characters.
func NewStream(in io.Reader, out io.Writer) *Stream {
	if out == nil {
		out = io.Discard
	}
	return &Stream{
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
	}
}

func (s *Stream) Acquire() error {
	return s.acquire()
}

func (s *Stream) Release() error {
	if err := s.release(); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Stream) ReadInput() (byte, error) {
	b, err := s.in.ReadByte()
	if errors.Is(err, io.EOF) {
		return vm.EndOfTransmission, nil
	}
	if err != nil {
		return 0, err
	}
	return b, nil
}

func (s *Stream) Display(ch rune) error {
	_, err := s.out.WriteRune(ch)
	return err
}

func (s *Stream) Refresh() error {
	return s.out.Flush()
}

var _ vm.Terminal = (*Stream)(nil)
