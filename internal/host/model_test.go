package host

import (
	"io"
	"strings"
	"testing"

	"github.com/bastiangx/screencomp/internal/logger"
	"github.com/bastiangx/screencomp/pkg/config"
	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/bastiangx/screencomp/pkg/session"
	"github.com/bastiangx/screencomp/pkg/suggest"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

func newTestModel(t *testing.T, seed string) (*Model, *screen.Memory, *session.Session) {
	t.Helper()
	cfg := config.DefaultConfig()
	mem := screen.NewMemory(10, 40, Prompt, 100)
	mem.LoadText(seed)
	sess := session.New(mem, suggest.NewBuilder(true), session.Options{
		Scrollback: true,
		Logger:     logger.Discard(),
	})
	styles := NewStyles(cfg.Overlay, io.Discard, termenv.Ascii)
	m := NewModel(mem, sess, NewKeyMap(cfg.Keys.Activate, cfg.Keys.Quit), styles, logger.Discard())
	return m, mem, sess
}

func typeKeys(m *Model, s string) {
	for _, r := range s {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func viewLines(m *Model) []string {
	lines := strings.Split(m.View(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

var altSlash = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}, Alt: true}

func TestModelCompletes(t *testing.T) {
	m, mem, sess := newTestModel(t, "hello world help")
	typeKeys(m, "he")

	_, cmd := m.Update(altSlash)
	assert.Nil(t, cmd)
	require.True(t, sess.Active())

	lines := viewLines(m)
	require.Len(t, lines, 10)
	assert.Equal(t, "hello world help", lines[0])
	assert.Equal(t, "$ he", lines[1])
	assert.Equal(t, "  hello", lines[2])
	assert.Equal(t, "  help", lines[3])
	assert.Equal(t, "  [1 of 2]", lines[4])

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "  [2 of 2]", viewLines(m)[4])

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, sess.Active())
	assert.Equal(t, "$ help", mem.RowText(1))
	assert.Equal(t, "", viewLines(m)[2], "overlay is gone")
}

func TestModelSingleCandidate(t *testing.T) {
	m, mem, sess := newTestModel(t, "a unique word")
	typeKeys(m, "uni")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlCloseBracket})
	assert.False(t, sess.Active())
	assert.Equal(t, "$ unique", mem.RowText(1))
}

func TestModelTypingNarrows(t *testing.T) {
	m, _, sess := newTestModel(t, "hello help helium")
	typeKeys(m, "he")
	m.Update(altSlash)
	require.Len(t, sess.Candidates(), 3)

	typeKeys(m, "ll")
	assert.True(t, sess.Active())
	assert.Len(t, sess.Candidates(), 1)
	assert.Equal(t, "$ hell", viewLines(m)[1])
}

func TestModelActivateKeyInsideSession(t *testing.T) {
	m, mem, sess := newTestModel(t, "hello help")
	typeKeys(m, "he")
	m.Update(altSlash)
	id := sess.ID()

	m.Update(altSlash)
	assert.Equal(t, id, sess.ID(), "activation while active keeps the session")
	assert.Equal(t, "$ he", mem.RowText(1))
}

func TestModelQuit(t *testing.T) {
	m, mem, sess := newTestModel(t, "hello help")
	typeKeys(m, "he")
	m.Update(altSlash)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, sess.Active())
	assert.Empty(t, mem.Overlays())
}

func TestModelResizeClosesSession(t *testing.T) {
	m, mem, sess := newTestModel(t, "hello help")
	typeKeys(m, "he")
	m.Update(altSlash)
	require.True(t, sess.Active())

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.False(t, sess.Active())
	rows, cols := mem.Size()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 60, cols)
	assert.Len(t, viewLines(m), 20)
}

func TestModelConfigReload(t *testing.T) {
	m, _, sess := newTestModel(t, "hello help")
	cfg := config.DefaultConfig()
	cfg.Keys.Activate = []string{"ctrl+t"}
	cfg.Keys.Commit = []string{"ctrl+y"}
	m.Update(ConfigMsg{Config: cfg})

	typeKeys(m, "he")
	m.Update(altSlash)
	assert.False(t, sess.Active(), "old activation key is gone")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	require.True(t, sess.Active())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.False(t, sess.Active())
	assert.Equal(t, "$ hello", viewLines(m)[1])
}

func TestViewSkipsWideContinuation(t *testing.T) {
	m, _, _ := newTestModel(t, "日本語 text")
	assert.Equal(t, "日本語 text", viewLines(m)[0])
}

func TestModelConfigReloadEngine(t *testing.T) {
	m, mem, sess := newTestModel(t, "<https://example.com>")
	typeKeys(m, "https")

	cfg := config.DefaultConfig()
	cfg.Engine.URLTokens = false
	cfg.Engine.ScrollbackLines = 3
	m.Update(ConfigMsg{Config: cfg})

	assert.Equal(t, 3, mem.ScrollbackLines())
	m.Update(altSlash)
	assert.False(t, sess.Active())
	assert.Equal(t, "$ https", mem.RowText(1), "no url candidates after reload")

	m.Update(ConfigMsg{Config: config.DefaultConfig()})
	m.Update(altSlash)
	assert.Equal(t, "$ https://example.com", mem.RowText(1))
}
