package screen

// DefaultScrollbackLines is used when a non-positive size is requested.
const DefaultScrollbackLines = 10000

// Scrollback stores rows that scrolled off the top of the viewport in a
// ring buffer, oldest first.
type Scrollback struct {
	lines    [][]rune
	maxLines int
	// head is the index of the oldest line
	head int
	// tail is where the next line goes
	tail int
	full bool
}

// NewScrollback creates a scrollback buffer holding at most maxLines rows.
func NewScrollback(maxLines int) *Scrollback {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackLines
	}
	return &Scrollback{
		lines:    make([][]rune, maxLines),
		maxLines: maxLines,
	}
}

// PushLine appends a row, overwriting the oldest one once the buffer is full.
func (sb *Scrollback) PushLine(line []rune) {
	lineCopy := make([]rune, len(line))
	copy(lineCopy, line)

	sb.lines[sb.tail] = lineCopy
	sb.tail = (sb.tail + 1) % sb.maxLines

	if sb.full {
		sb.head = (sb.head + 1) % sb.maxLines
	}
	if sb.tail == sb.head {
		sb.full = true
	}
}

// Len returns the number of rows held.
func (sb *Scrollback) Len() int {
	if sb.full {
		return sb.maxLines
	}
	if sb.tail >= sb.head {
		return sb.tail - sb.head
	}
	return sb.maxLines - sb.head + sb.tail
}

// Line returns row index, 0 being the oldest. Out of range gives nil.
func (sb *Scrollback) Line(index int) []rune {
	if index < 0 || index >= sb.Len() {
		return nil
	}
	return sb.lines[(sb.head+index)%sb.maxLines]
}

// Clear removes all rows.
func (sb *Scrollback) Clear() {
	sb.head = 0
	sb.tail = 0
	sb.full = false
	for i := range sb.lines {
		sb.lines[i] = nil
	}
}

// MaxLines returns the capacity of the buffer.
func (sb *Scrollback) MaxLines() int {
	return sb.maxLines
}
