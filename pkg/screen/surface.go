/*
Package screen defines the terminal surface the completion engine works
against, plus Memory, an in-memory implementation used by the interactive
host and the tests.

A surface exposes the text of its rows in an internal encoding. Wide runes
occupy two cells; the second one holds WideFiller so that a column index is
also an index into the row's runes. Decode removes the fillers before the
text is matched, Encode turns matched text into bytes for the input stream.

Notifications flow the other way: a host feeds key presses into the
surface, subscribed listeners see them first and may consume them, and
text-change notifications follow once the key has been fully handled.
*/
package screen

// WideFiller occupies the continuation cell of a double-width rune.
const WideFiller = '\uffff'

// Style selects how an overlay row is drawn. Hosts map it to colors.
type Style int

const (
	StyleDefault Style = iota
	StyleNormal
	StyleSelected
	StyleStatus
)

func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleSelected:
		return "selected"
	case StyleStatus:
		return "status"
	}
	return "default"
}

// Overlay is a rectangular region drawn on top of the terminal content.
type Overlay interface {
	// SetRow writes text at (col, row) relative to the overlay origin.
	SetRow(col, row int, text string, style Style)
}

// Listener receives notifications while subscribed to a Surface.
type Listener interface {
	// OnKey returns true when the key was consumed.
	OnKey(ev KeyEvent) bool
	OnTextChanged()
}

// Surface is everything the completion engine needs from a terminal.
type Surface interface {
	// VisibleText joins the viewport rows, preceded by the scrollback
	// rows when scrollback is true. The result is decoded.
	VisibleText(scrollback bool) string
	Cursor() (row, col int)
	// RowText returns a viewport row in the internal encoding.
	RowText(row int) string
	Decode(text string) string
	Encode(text string) []byte
	WriteInput(b []byte)

	CreateOverlay(x, y, width, height int, style Style) Overlay
	ReleaseOverlay(o Overlay)
	RequestRedraw()

	Size() (rows, cols int)

	Subscribe(l Listener)
	Unsubscribe(l Listener)
}
