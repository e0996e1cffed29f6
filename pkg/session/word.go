package session

import (
	"strings"

	"github.com/bastiangx/screencomp/internal/utils"
	"github.com/bastiangx/screencomp/pkg/screen"
)

// CursorWord is the partial word left of the cursor and where it was read.
type CursorWord struct {
	Row, Col int
	Word     string
}

// WordBeforeCursor reads the word ending at the cursor: the trailing run
// of non-blank text on the cursor row, without leading brackets or quotes.
func WordBeforeCursor(s screen.Surface) CursorWord {
	row, col := s.Cursor()
	cells := []rune(s.RowText(row))
	col = min(max(col, 0), len(cells))

	left := s.Decode(string(cells[:col]))
	word := strings.TrimLeftFunc(utils.LastField(left), utils.IsOpener)
	return CursorWord{Row: row, Col: col, Word: word}
}

// IsNarrowing reports whether cur continues typing prev: same row, the
// cursor moved forward and the word grew with prev.Word as its prefix.
// Anything else, including deleting and retyping up to the same length,
// is a restart.
func IsNarrowing(prev, cur CursorWord) bool {
	return cur.Row == prev.Row &&
		cur.Col > prev.Col &&
		len(cur.Word) > len(prev.Word) &&
		strings.HasPrefix(cur.Word, prev.Word)
}
