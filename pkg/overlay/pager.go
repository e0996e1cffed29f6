// Package overlay keeps the paginated candidate list drawn below (or above)
// the cursor: its geometry, the selected row and the visible window.
package overlay

import (
	"fmt"
	"strings"

	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/bastiangx/screencomp/pkg/suggest"
	"github.com/mattn/go-runewidth"
)

// Anchor is the cursor position the overlay attaches to.
// PrefixWidth is the display width of the typed prefix, so that
// candidates line up under it.
type Anchor struct {
	Row, Col    int
	PrefixWidth int
}

// Geometry is the overlay rectangle, fixed when the pager opens.
// Height includes the status row.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Pager owns the overlay of one completion session.
type Pager struct {
	surface    screen.Surface
	overlay    screen.Overlay
	candidates []suggest.Candidate
	geometry   Geometry
	visible    int
	selected   int
	pageStart  int
}

// Open computes the geometry for candidates around anchor and creates the
// overlay on surface. The first candidate is selected.
func Open(surface screen.Surface, candidates []suggest.Candidate, anchor Anchor) *Pager {
	p := &Pager{
		surface:    surface,
		candidates: candidates,
	}
	termRows, termCols := surface.Size()

	p.visible = visibleRows(len(candidates), termRows)

	width := runewidth.StringWidth(statusLine(len(candidates), len(candidates)))
	for _, c := range candidates {
		width = max(width, runewidth.StringWidth(c.Display))
	}
	width = max(min(width, termCols), 1)

	height := p.visible + 1
	y := anchor.Row + 1
	if y+height > termRows {
		y = max(anchor.Row-height, 0)
	}

	x := max(anchor.Col-anchor.PrefixWidth, 0)
	if x+width > termCols {
		x = max(termCols-width, 0)
	}

	p.geometry = Geometry{X: x, Y: y, Width: width, Height: height}
	p.overlay = surface.CreateOverlay(x, y, width, height, screen.StyleNormal)
	return p
}

// visibleRows is min(n, rows/2), never below one row.
func visibleRows(n, termRows int) int {
	return max(min(n, termRows/2), 1)
}

func statusLine(selected, n int) string {
	return fmt.Sprintf("[%d of %d]", selected, n)
}

func (p *Pager) Geometry() Geometry {
	return p.geometry
}

// Visible returns how many candidate rows the overlay shows.
func (p *Pager) Visible() int {
	return p.visible
}

func (p *Pager) Selected() int {
	return p.selected
}

func (p *Pager) PageStart() int {
	return p.pageStart
}

func (p *Pager) Len() int {
	return len(p.candidates)
}

// Current returns the selected candidate.
func (p *Pager) Current() (suggest.Candidate, bool) {
	if p.selected < 0 || p.selected >= len(p.candidates) {
		return suggest.Candidate{}, false
	}
	return p.candidates[p.selected], true
}

// Candidates returns the list the pager pages through.
func (p *Pager) Candidates() []suggest.Candidate {
	return p.candidates
}

// Step moves the selection by dir (-1 or +1), wrapping at both ends, and
// scrolls the page by the least amount that keeps it visible.
func (p *Pager) Step(dir int) {
	n := len(p.candidates)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+dir)%n + n) % n

	if p.selected < p.pageStart {
		p.pageStart = p.selected
	} else if p.selected >= p.pageStart+p.visible {
		p.pageStart = p.selected - p.visible + 1
	}
}

// StepPage moves the visible window by one page in dir, keeping the
// selection at the same row within the page. Going back from a non-zero
// page start stops at 0; from 0 it wraps to the last page. Going forward
// stops flush with the end; from the last page it wraps to 0. Lists that
// fit on one page do not move.
func (p *Pager) StepPage(dir int) {
	n := len(p.candidates)
	if n <= p.visible {
		return
	}

	page := max(p.visible-1, 1)
	offset := p.selected - p.pageStart
	lastStart := n - p.visible

	start := p.pageStart + dir*page
	switch {
	case dir < 0 && start < 0:
		if p.pageStart > 0 {
			start = 0
		} else {
			start = lastStart
		}
	case dir > 0 && p.pageStart >= lastStart:
		start = 0
	case start > lastStart:
		start = lastStart
	}

	p.pageStart = start
	p.selected = start + offset
}

// SetCandidates swaps in a narrowed list. Origin and width stay as opened;
// the number of rows shrinks with the list and the selection is clamped.
func (p *Pager) SetCandidates(candidates []suggest.Candidate) {
	p.candidates = candidates
	n := len(candidates)
	p.visible = max(min(p.visible, n), 1)

	if p.selected >= n {
		p.selected = max(n-1, 0)
	}
	p.pageStart = max(min(p.pageStart, n-p.visible), 0)
	if p.selected < p.pageStart {
		p.pageStart = p.selected
	} else if p.selected >= p.pageStart+p.visible {
		p.pageStart = p.selected - p.visible + 1
	}
}

// Render redraws every overlay row. Rows are blanked first so a shorter
// candidate never shows the tail of the previous one.
func (p *Pager) Render() {
	if p.overlay == nil {
		return
	}
	w := p.geometry.Width
	blank := strings.Repeat(" ", w)

	for row := 0; row < p.geometry.Height-1; row++ {
		p.overlay.SetRow(0, row, blank, screen.StyleNormal)
		if row >= p.visible {
			continue
		}
		idx := p.pageStart + row
		if idx >= len(p.candidates) {
			continue
		}
		style := screen.StyleNormal
		if idx == p.selected {
			style = screen.StyleSelected
		}
		text := runewidth.Truncate(p.candidates[idx].Display, w, "")
		p.overlay.SetRow(0, row, runewidth.FillRight(text, w), style)
	}

	status := runewidth.Truncate(statusLine(p.selected+1, len(p.candidates)), w, "")
	statusRow := p.geometry.Height - 1
	p.overlay.SetRow(0, statusRow, blank, screen.StyleStatus)
	p.overlay.SetRow(0, statusRow, status, screen.StyleStatus)

	p.surface.RequestRedraw()
}

// Close releases the overlay. Calling it again is a no-op.
func (p *Pager) Close() {
	if p.overlay == nil {
		return
	}
	p.surface.ReleaseOverlay(p.overlay)
	p.overlay = nil
	p.surface.RequestRedraw()
}

// IsOpen reports whether the overlay is still held.
func (p *Pager) IsOpen() bool {
	return p.overlay != nil
}
