/*
Package session drives one interactive completion at a time.

A Session is inactive until the host runs Activate. Activation reads the
word left of the cursor, builds the candidate set from the text on screen
and opens the overlay pager; a lone candidate is written out straight away
instead. While active the session is subscribed to the surface: keys are
looked up in its Keymap, and text changes either narrow the candidates
(the user kept typing the same word) or restart the session from the new
cursor position. Every way out of the active state releases the overlay.
*/
package session

import (
	"github.com/bastiangx/screencomp/pkg/overlay"
	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/bastiangx/screencomp/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
)

// Options tune a Session.
type Options struct {
	// Scrollback includes scrollback rows in the scanned text.
	Scrollback bool
	// MinPrefix is the shortest word Activate starts a session for.
	MinPrefix int
	// Keymap defaults to DefaultKeymap.
	Keymap Keymap
	Logger *log.Logger
}

// Session is the completion state of one terminal.
type Session struct {
	surface screen.Surface
	builder suggest.ICompleter
	keymap  Keymap
	opts    Options
	log     *log.Logger

	id         string
	active     bool
	prefix     string
	candidates []suggest.Candidate
	pager      *overlay.Pager
	anchor     CursorWord
	last       CursorWord
}

// New creates an inactive session for surface.
func New(surface screen.Surface, builder suggest.ICompleter, opts Options) *Session {
	s := &Session{
		surface: surface,
		builder: builder,
		keymap:  opts.Keymap,
		opts:    opts,
		log:     opts.Logger,
	}
	if s.keymap == nil {
		s.keymap = DefaultKeymap
	}
	if s.log == nil {
		s.log = log.Default()
	}
	return s
}

// SetOptions replaces the options. The logger is kept when opts has none.
// An active session keeps running with the new keymap.
func (s *Session) SetOptions(opts Options) {
	if opts.Logger == nil {
		opts.Logger = s.log
	}
	s.opts = opts
	s.log = opts.Logger
	s.keymap = opts.Keymap
	if s.keymap == nil {
		s.keymap = DefaultKeymap
	}
}

// SetCompleter replaces the candidate builder. An active session keeps its
// candidates and narrows them with the new builder.
func (s *Session) SetCompleter(c suggest.ICompleter) {
	s.builder = c
}

// Completer returns the candidate builder in use.
func (s *Session) Completer() suggest.ICompleter {
	return s.builder
}

func (s *Session) Active() bool {
	return s.active
}

// ID identifies the current activation in logs. Empty when inactive.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) Prefix() string {
	return s.prefix
}

func (s *Session) Candidates() []suggest.Candidate {
	return s.candidates
}

// Anchor returns the cursor word the session was activated on.
func (s *Session) Anchor() CursorWord {
	return s.anchor
}

// Pager returns the open pager, nil when inactive.
func (s *Session) Pager() *overlay.Pager {
	return s.pager
}

// Activate starts a session at the cursor. It reports whether a session
// is active afterwards; an empty candidate set or an immediate commit of
// a single candidate both leave it inactive.
func (s *Session) Activate() bool {
	return s.activate(false)
}

func (s *Session) activate(restart bool) bool {
	if s.active {
		return true
	}

	word := WordBeforeCursor(s.surface)
	if len(word.Word) < s.opts.MinPrefix {
		s.log.Debug("Prefix below minimum", "prefix", word.Word, "min", s.opts.MinPrefix)
		return false
	}

	text := s.surface.VisibleText(s.opts.Scrollback)
	candidates := s.builder.Build(text, word.Word)
	if len(candidates) == 0 {
		s.log.Debug("No candidates", "prefix", word.Word)
		return false
	}

	s.prefix = word.Word
	s.candidates = candidates
	s.anchor = word
	s.last = word

	if len(candidates) == 1 && !restart {
		s.log.Debug("Single candidate, committing", "prefix", s.prefix, "candidate", candidates[0].Raw)
		s.write(candidates[0], len(s.prefix), len(candidates[0].Raw))
		s.reset()
		return false
	}

	s.id = uuid.NewString()
	s.pager = overlay.Open(s.surface, candidates, overlay.Anchor{
		Row:         word.Row,
		Col:         word.Col,
		PrefixWidth: runewidth.StringWidth(word.Word),
	})
	s.active = true
	s.surface.Subscribe(s)
	s.pager.Render()

	s.log.Debug("Session opened",
		"session", s.id,
		"prefix", s.prefix,
		"candidates", len(candidates),
		"restart", restart)
	return true
}

// OnTextChanged implements screen.Listener.
func (s *Session) OnTextChanged() {
	if !s.active {
		return
	}

	cur := WordBeforeCursor(s.surface)
	if cur == s.last {
		return
	}

	if IsNarrowing(s.last, cur) {
		s.narrow(cur)
		return
	}

	s.log.Debug("Cursor moved off the word, restarting",
		"session", s.id,
		"from", s.last,
		"to", cur)
	s.Deactivate()
	s.activate(true)
}

func (s *Session) narrow(cur CursorWord) {
	s.prefix = cur.Word
	s.last = cur
	s.candidates = s.builder.Narrow(s.candidates, s.prefix)
	if len(s.candidates) == 0 {
		s.log.Debug("Narrowed to nothing", "session", s.id, "prefix", s.prefix)
		s.Deactivate()
		return
	}
	s.pager.SetCandidates(s.candidates)
	s.pager.Render()
}

// OnKey implements screen.Listener. Keys without an action are not
// consumed.
func (s *Session) OnKey(ev screen.KeyEvent) bool {
	if !s.active {
		return false
	}

	action := s.keymap.Lookup(ev)
	switch action {
	case Cancel:
		s.Deactivate()
	case Prev:
		s.pager.Step(-1)
		s.pager.Render()
	case Next:
		s.pager.Step(1)
		s.pager.Render()
	case PagePrev:
		s.pager.StepPage(-1)
		s.pager.Render()
	case PageNext:
		s.pager.StepPage(1)
		s.pager.Render()
	case Commit:
		s.Commit()
	case Expand:
		s.expand()
	default:
		return false
	}
	return true
}

// expand completes the common prefix of the remaining candidates, commits
// a lone candidate, and otherwise selects the next one.
func (s *Session) expand() {
	if len(s.candidates) == 1 {
		s.Commit()
		return
	}

	common := suggest.CommonPrefix(s.candidates)
	if len(common) > len(s.prefix) {
		s.Forward(len(s.prefix), len(common))
		return
	}
	s.pager.Step(1)
	s.pager.Render()
}

// Commit writes the rest of the selected candidate and closes the session.
func (s *Session) Commit() {
	if !s.active {
		return
	}
	if c, ok := s.pager.Current(); ok {
		s.log.Debug("Commit", "session", s.id, "candidate", c.Raw)
		s.write(c, len(s.prefix), len(c.Raw))
	}
	s.Deactivate()
}

// Forward writes bytes [prefixLen, targetLen) of the selected candidate
// and keeps the session open with the prefix extended to targetLen.
func (s *Session) Forward(prefixLen, targetLen int) {
	if !s.active {
		return
	}
	c, ok := s.pager.Current()
	if !ok {
		return
	}
	targetLen = min(targetLen, len(c.Raw))
	if prefixLen >= targetLen {
		return
	}

	ext := c.Raw[prefixLen:targetLen]
	s.write(c, prefixLen, targetLen)
	s.prefix = c.Raw[:targetLen]
	s.last = CursorWord{
		Row:  s.last.Row,
		Col:  s.last.Col + runewidth.StringWidth(ext),
		Word: s.prefix,
	}
}

func (s *Session) write(c suggest.Candidate, from, to int) {
	if from >= to || to > len(c.Raw) {
		return
	}
	s.surface.WriteInput(s.surface.Encode(c.Raw[from:to]))
}

// Deactivate closes the session. It is safe to call when inactive.
func (s *Session) Deactivate() {
	s.surface.Unsubscribe(s)
	if s.pager != nil {
		s.pager.Close()
	}
	if s.active {
		s.log.Debug("Session closed", "session", s.id)
	}
	s.reset()
}

func (s *Session) reset() {
	s.id = ""
	s.active = false
	s.prefix = ""
	s.candidates = nil
	s.pager = nil
	s.anchor = CursorWord{}
	s.last = CursorWord{}
}
