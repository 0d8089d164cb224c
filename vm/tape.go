package vm

// Tape is the memory of a run: a sequence of byte cells and a pointer into
// it. It starts as a single zero cell, grows one cell at a time as the
// pointer moves right and never shrinks. The pointer is always a valid index.
type Tape struct {
	cells   []byte
	pointer int
}

// NewTape returns a tape holding one zero cell.
func NewTape() *Tape {
	return &Tape{cells: []byte{0}}
}

// Get returns the value of the current cell.
func (t *Tape) Get() byte {
	return t.cells[t.pointer]
}

// Set stores value in the current cell.
func (t *Tape) Set(value byte) {
	t.cells[t.pointer] = value
}

// Inc adds one to the current cell, wrapping 255 to 0.
func (t *Tape) Inc() {
	t.cells[t.pointer]++
}

// Dec subtracts one from the current cell, wrapping 0 to 255.
func (t *Tape) Dec() {
	t.cells[t.pointer]--
}

// Right advances the pointer, appending a zero cell when it moves past the
// end.
func (t *Tape) Right() {
	t.pointer++
	if t.pointer == len(t.cells) {
		t.cells = append(t.cells, 0)
	}
}

// Left moves the pointer back one cell. It returns false, leaving the
// pointer unchanged, when the pointer is already at 0.
func (t *Tape) Left() bool {
	if t.pointer == 0 {
		return false
	}
	t.pointer--
	return true
}

// Pointer returns the index of the current cell.
func (t *Tape) Pointer() int {
	return t.pointer
}

// Len returns the number of cells allocated so far.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Cells returns a copy of the tape contents.
func (t *Tape) Cells() []byte {
	return append([]byte(nil), t.cells...)
}
