/*
Package host runs the completion engine inside a bubbletea program.

The program owns an in-memory surface seeded with some text and a prompt
row the user types into. Key presses are translated to surface events;
the activation binding starts a completion session and the overlay it
opens is drawn on top of the text.
*/
package host

import (
	"strings"

	"github.com/bastiangx/screencomp/pkg/config"
	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/bastiangx/screencomp/pkg/session"
	"github.com/bastiangx/screencomp/pkg/suggest"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// ConfigMsg carries a reloaded config into the program.
type ConfigMsg struct {
	Config *config.Config
}

// Model is the bubbletea model of the host.
type Model struct {
	mem     *screen.Memory
	session *session.Session
	keys    KeyMap
	styles  Styles
	log     *log.Logger
}

// NewModel wires a surface and a session into a model.
func NewModel(mem *screen.Memory, sess *session.Session, keys KeyMap, styles Styles, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	return &Model{
		mem:     mem,
		session: sess,
		keys:    keys,
		styles:  styles,
		log:     logger,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		if m.session.Active() {
			m.session.Deactivate()
		}
		m.mem.Resize(msg.Height, msg.Width)
		return m, nil

	case ConfigMsg:
		m.applyConfig(msg.Config)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.session.Deactivate()
		return m, tea.Quit
	}

	if !m.session.Active() && key.Matches(msg, m.keys.Activate) {
		if m.session.Activate() {
			m.log.Debug("session opened", "id", m.session.ID(), "prefix", m.session.Prefix(), "candidates", len(m.session.Candidates()))
		}
		m.mem.Settle()
		return m, nil
	}

	for _, ev := range TranslateKey(msg) {
		m.mem.Key(ev)
	}
	return m, nil
}

func (m *Model) applyConfig(cfg *config.Config) {
	km, err := session.KeymapFromBindings(cfg.Keys.Bindings())
	if err != nil {
		m.log.Warn("keeping previous keymap", "err", err)
		return
	}
	m.session.SetOptions(session.Options{
		Scrollback: cfg.Engine.Scrollback,
		MinPrefix:  cfg.Engine.MinPrefix,
		Keymap:     km,
	})
	if b, ok := m.session.Completer().(*suggest.Builder); !ok || b.URLTokens() != cfg.Engine.URLTokens {
		m.session.SetCompleter(suggest.NewBuilder(cfg.Engine.URLTokens))
	}
	m.mem.SetScrollbackLines(cfg.Engine.ScrollbackLines)
	m.keys = NewKeyMap(cfg.Keys.Activate, cfg.Keys.Quit)
	m.styles.Normal = m.styles.Normal.
		Foreground(colorOf(cfg.Overlay.NormalFg)).
		Background(colorOf(cfg.Overlay.NormalBg))
	m.styles.Selected = m.styles.Selected.
		Foreground(colorOf(cfg.Overlay.SelectedFg)).
		Background(colorOf(cfg.Overlay.SelectedBg))
	m.styles.Status = m.styles.Status.
		Foreground(colorOf(cfg.Overlay.StatusFg)).
		Background(colorOf(cfg.Overlay.StatusBg))
	m.log.Debug("config applied")
}

// View implements tea.Model. Runs of cells sharing a style are rendered
// together; continuation cells of wide runes are skipped.
func (m *Model) View() string {
	grid := m.mem.Cells()
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		m.renderRow(&b, row)
	}
	return b.String()
}

func (m *Model) renderRow(b *strings.Builder, row []screen.Cell) {
	var run strings.Builder
	var cur screen.Cell
	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := m.styles.of(cur.Style)
		if cur.Cursor {
			style = m.styles.Cursor
		}
		b.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for i, c := range row {
		if c.Content == 0 {
			continue
		}
		if i > 0 && (c.Style != cur.Style || c.Cursor != cur.Cursor) {
			flush()
		}
		cur = c
		run.WriteRune(c.Content)
	}
	flush()
}
