package screen

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxSettleRounds bounds how often text-change notifications are
// redelivered when listeners write input while handling one.
const maxSettleRounds = 8

// Cell is one composited screen cell as returned by Memory.Cells.
// Content is 0 for the continuation cell of a wide rune.
type Cell struct {
	Content rune
	Style   Style
	Cursor  bool
}

// MemOverlay is an overlay created by Memory.
type MemOverlay struct {
	id            int
	x, y          int
	width, height int
	style         Style
	rows          []string
	styles        []Style
}

func (o *MemOverlay) SetRow(col, row int, text string, style Style) {
	if row < 0 || row >= o.height || col < 0 || col >= o.width {
		return
	}
	line := []rune(padCells(o.rows[row], o.width))
	cells := toCells(text)
	for i, r := range cells {
		if col+i >= len(line) {
			break
		}
		line[col+i] = r
	}
	o.rows[row] = strings.TrimRight(string(line), " ")
	o.styles[row] = style
}

// Rect returns the overlay origin and size.
func (o *MemOverlay) Rect() (x, y, width, height int) {
	return o.x, o.y, o.width, o.height
}

// Rows returns the decoded text of every overlay row.
func (o *MemOverlay) Rows() []string {
	out := make([]string, len(o.rows))
	for i, r := range o.rows {
		out[i] = strings.ReplaceAll(r, string(WideFiller), "")
	}
	return out
}

// Styles returns the style last applied to every overlay row.
func (o *MemOverlay) Styles() []Style {
	return slices.Clone(o.styles)
}

// Memory is a line-oriented terminal kept entirely in memory.
// The last viewport row is the prompt row the user types into; older rows
// scroll into a bounded scrollback.
type Memory struct {
	rows, cols int
	prompt     string
	viewport   [][]rune
	scrollback *Scrollback
	curCol     int

	overlays  map[int]*MemOverlay
	nextID    int
	listeners []Listener

	input       []byte
	dirty       bool
	dispatching bool
	redraws     int
}

// NewMemory creates a rows x cols surface whose prompt row starts with
// prompt. scrollbackLines bounds the history kept off screen.
func NewMemory(rows, cols int, prompt string, scrollbackLines int) *Memory {
	m := &Memory{
		rows:       max(rows, 2),
		cols:       max(cols, 1),
		prompt:     prompt,
		scrollback: NewScrollback(scrollbackLines),
		overlays:   make(map[int]*MemOverlay),
	}
	m.newPromptRow()
	return m
}

// LoadText appends text above the prompt row as if it had been printed.
func (m *Memory) LoadText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	promptRow := m.viewport[len(m.viewport)-1]
	m.viewport = m.viewport[:len(m.viewport)-1]
	for _, line := range strings.Split(text, "\n") {
		m.appendRow(toCells(line))
	}
	m.appendRow(promptRow)
}

// ScrollbackLines returns the capacity of the scrollback.
func (m *Memory) ScrollbackLines() int {
	return m.scrollback.MaxLines()
}

// SetScrollbackLines changes the scrollback capacity, keeping the newest
// rows that still fit.
func (m *Memory) SetScrollbackLines(n int) {
	next := NewScrollback(n)
	if next.MaxLines() == m.scrollback.MaxLines() {
		return
	}
	for i := max(0, m.scrollback.Len()-next.MaxLines()); i < m.scrollback.Len(); i++ {
		next.PushLine(m.scrollback.Line(i))
	}
	m.scrollback = next
}

// Resize changes the viewport size. Rows pushed out go to scrollback.
func (m *Memory) Resize(rows, cols int) {
	m.rows = max(rows, 2)
	m.cols = max(cols, 1)
	for len(m.viewport) > m.rows {
		m.scrollback.PushLine(m.viewport[0])
		m.viewport = m.viewport[1:]
	}
}

func (m *Memory) appendRow(row []rune) {
	if len(m.viewport) == m.rows {
		m.scrollback.PushLine(m.viewport[0])
		m.viewport = m.viewport[1:]
	}
	m.viewport = append(m.viewport, row)
}

func (m *Memory) newPromptRow() {
	m.appendRow(toCells(m.prompt))
	m.curCol = len(m.viewport[len(m.viewport)-1])
}

func (m *Memory) promptRow() int {
	return len(m.viewport) - 1
}

func (m *Memory) promptStart() int {
	return len(toCells(m.prompt))
}

// VisibleText implements Surface.
func (m *Memory) VisibleText(scrollback bool) string {
	var b strings.Builder
	if scrollback {
		for i := 0; i < m.scrollback.Len(); i++ {
			b.WriteString(string(m.scrollback.Line(i)))
			b.WriteByte('\n')
		}
	}
	for i, row := range m.viewport {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return m.Decode(b.String())
}

func (m *Memory) Cursor() (row, col int) {
	return m.promptRow(), m.curCol
}

// SetCursor moves the cursor within the prompt row. Hosts use it for
// cursor keys, tests to simulate jumps.
func (m *Memory) SetCursor(col int) {
	row := m.viewport[m.promptRow()]
	col = max(col, m.promptStart())
	col = min(col, len(row))
	for col > 0 && col < len(row) && row[col] == WideFiller {
		col--
	}
	if col != m.curCol {
		m.curCol = col
		m.dirty = true
	}
}

func (m *Memory) RowText(row int) string {
	if row < 0 || row >= len(m.viewport) {
		return ""
	}
	return string(m.viewport[row])
}

func (m *Memory) Decode(text string) string {
	return strings.ReplaceAll(text, string(WideFiller), "")
}

func (m *Memory) Encode(text string) []byte {
	return []byte(m.Decode(text))
}

// WriteInput inserts b at the cursor as if typed. Listeners are told
// about the change once the current key dispatch finishes, or on Settle.
func (m *Memory) WriteInput(b []byte) {
	if len(b) == 0 {
		return
	}
	m.input = append(m.input, b...)

	row := m.promptRow()
	line := m.viewport[row]
	ins := toCells(string(b))
	next := make([]rune, 0, len(line)+len(ins))
	next = append(next, line[:m.curCol]...)
	next = append(next, ins...)
	next = append(next, line[m.curCol:]...)
	m.viewport[row] = next
	m.curCol += len(ins)
	m.dirty = true
}

// Input returns every byte written through WriteInput so far.
func (m *Memory) Input() []byte {
	return slices.Clone(m.input)
}

func (m *Memory) CreateOverlay(x, y, width, height int, style Style) Overlay {
	m.nextID++
	o := &MemOverlay{
		id:     m.nextID,
		x:      x,
		y:      y,
		width:  width,
		height: height,
		style:  style,
		rows:   make([]string, height),
		styles: make([]Style, height),
	}
	for i := range o.styles {
		o.styles[i] = style
	}
	m.overlays[o.id] = o
	return o
}

func (m *Memory) ReleaseOverlay(o Overlay) {
	if mo, ok := o.(*MemOverlay); ok {
		delete(m.overlays, mo.id)
	}
}

// Overlays returns the live overlays in creation order.
func (m *Memory) Overlays() []*MemOverlay {
	out := make([]*MemOverlay, 0, len(m.overlays))
	for _, o := range m.overlays {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b *MemOverlay) int { return a.id - b.id })
	return out
}

func (m *Memory) RequestRedraw() {
	m.redraws++
}

// Redraws counts RequestRedraw calls.
func (m *Memory) Redraws() int {
	return m.redraws
}

func (m *Memory) Size() (rows, cols int) {
	return m.rows, m.cols
}

func (m *Memory) Subscribe(l Listener) {
	if slices.Contains(m.listeners, l) {
		return
	}
	m.listeners = append(m.listeners, l)
}

func (m *Memory) Unsubscribe(l Listener) {
	m.listeners = slices.DeleteFunc(m.listeners, func(x Listener) bool { return x == l })
}

// Key feeds a key press into the surface. Subscribed listeners see it
// first; when none consumes it the prompt row is edited. It returns
// whether a listener consumed the key.
func (m *Memory) Key(ev KeyEvent) bool {
	m.dispatching = true
	consumed := false
	for _, l := range slices.Clone(m.listeners) {
		if l.OnKey(ev) {
			consumed = true
			break
		}
	}
	if !consumed {
		m.edit(ev)
	}
	m.dispatching = false
	m.Settle()
	return consumed
}

// Settle delivers pending text-change notifications. Key calls it after
// every dispatch; hosts call it after running a command outside Key.
func (m *Memory) Settle() {
	if m.dispatching {
		return
	}
	for i := 0; m.dirty && i < maxSettleRounds; i++ {
		m.dirty = false
		for _, l := range slices.Clone(m.listeners) {
			l.OnTextChanged()
		}
	}
}

func (m *Memory) edit(ev KeyEvent) {
	row := m.promptRow()
	line := m.viewport[row]

	switch ev.Key {
	case KeyRune:
		if ev.Plain() {
			m.WriteInput([]byte(string(ev.Rune)))
		}
	case KeySpace:
		if ev.Plain() {
			m.WriteInput([]byte(" "))
		}
	case KeyBackspace:
		if m.curCol <= m.promptStart() {
			return
		}
		start := m.curCol - 1
		for start > m.promptStart() && line[start] == WideFiller {
			start--
		}
		m.viewport[row] = append(line[:start:start], line[m.curCol:]...)
		m.curCol = start
		m.dirty = true
	case KeyEnter:
		m.newPromptRow()
		m.dirty = true
	case KeyLeft:
		m.SetCursor(m.curCol - 1)
	case KeyRight:
		next := m.curCol + 1
		for next < len(line) && line[next] == WideFiller {
			next++
		}
		m.SetCursor(next)
	case KeyHome:
		m.SetCursor(m.promptStart())
	case KeyEnd:
		m.SetCursor(len(line))
	}
}

// Cells composites the viewport and live overlays into rows x cols cells.
func (m *Memory) Cells() [][]Cell {
	grid := make([][]Cell, m.rows)
	for y := range grid {
		grid[y] = make([]Cell, m.cols)
		for x := range grid[y] {
			grid[y][x] = Cell{Content: ' '}
		}
		if y < len(m.viewport) {
			for x, r := range m.viewport[y] {
				if x >= m.cols {
					break
				}
				grid[y][x].Content = fillerToZero(r)
			}
		}
	}

	for _, o := range m.Overlays() {
		for r := 0; r < o.height; r++ {
			y := o.y + r
			if y < 0 || y >= m.rows {
				continue
			}
			cells := []rune(padCells(o.rows[r], o.width))
			for i, c := range cells {
				x := o.x + i
				if x < 0 || x >= m.cols {
					continue
				}
				putCell(grid[y], x, Cell{Content: fillerToZero(c), Style: o.styles[r]})
			}
		}
	}

	row, col := m.Cursor()
	if row < m.rows && col < m.cols {
		grid[row][col].Cursor = true
	}
	return grid
}

// putCell writes c at x, blanking halves of wide runes it would split.
func putCell(line []Cell, x int, c Cell) {
	if line[x].Content == 0 && x > 0 && c.Content != 0 {
		line[x-1] = Cell{Content: ' ', Style: line[x-1].Style}
	}
	if runewidth.RuneWidth(line[x].Content) == 2 && x+1 < len(line) && line[x+1].Content == 0 {
		line[x+1] = Cell{Content: ' ', Style: c.Style}
	}
	line[x] = c
}

func fillerToZero(r rune) rune {
	if r == WideFiller {
		return 0
	}
	return r
}

// toCells converts text into the internal encoding, one rune per cell with
// a filler after every double-width rune.
func toCells(text string) []rune {
	cells := make([]rune, 0, len(text))
	for _, r := range text {
		if r == WideFiller {
			continue
		}
		cells = append(cells, r)
		if runewidth.RuneWidth(r) == 2 {
			cells = append(cells, WideFiller)
		}
	}
	return cells
}

// padCells pads s, already in the internal encoding, with spaces to width cells.
func padCells(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
