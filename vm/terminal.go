package vm

// EndOfTransmission is the byte a terminal returns for Ctrl-D. The VM stores
// it as 0 so programs see a conventional end-of-input marker.
const EndOfTransmission byte = 4

// Terminal is the interactive I/O capability used by programs that read
// input. The VM acquires it once before running such a program, refreshes
// it after every instruction and releases it once when the run ends, on
// every exit path. Programs without an input instruction never touch it.
type Terminal interface {
	// Acquire prepares the terminal for a run.
	Acquire() error

	// Release restores the terminal after a run.
	Release() error

	// ReadInput blocks until one byte of input is available.
	ReadInput() (byte, error)

	// Display shows one output character.
	Display(ch rune) error

	// Refresh makes displayed characters visible.
	Refresh() error
}
