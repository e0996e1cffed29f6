package host

import (
	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the bindings the host handles itself. Everything else is
// forwarded to the surface.
type KeyMap struct {
	Activate key.Binding
	Quit     key.Binding
}

// NewKeyMap builds bindings from key names such as "alt+/".
func NewKeyMap(activate, quit []string) KeyMap {
	return KeyMap{
		Activate: key.NewBinding(key.WithKeys(activate...), key.WithHelp(first(activate), "complete")),
		Quit:     key.NewBinding(key.WithKeys(quit...), key.WithHelp(first(quit), "quit")),
	}
}

func first(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// TranslateKey turns a bubbletea key message into surface key events.
// A pasted or buffered run of runes yields one event per rune.
func TranslateKey(msg tea.KeyMsg) []screen.KeyEvent {
	var mod screen.Mod
	if msg.Alt {
		mod |= screen.ModAlt
	}

	switch msg.Type {
	case tea.KeyRunes:
		events := make([]screen.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, screen.Rune(r, mod))
		}
		return events
	case tea.KeySpace:
		return []screen.KeyEvent{{Key: screen.KeySpace, Mod: mod}}
	case tea.KeyEnter:
		return []screen.KeyEvent{{Key: screen.KeyEnter, Mod: mod}}
	case tea.KeyTab:
		return []screen.KeyEvent{{Key: screen.KeyTab, Mod: mod}}
	case tea.KeyEsc:
		return []screen.KeyEvent{{Key: screen.KeyEscape, Mod: mod}}
	case tea.KeyBackspace:
		return []screen.KeyEvent{{Key: screen.KeyBackspace, Mod: mod}}
	case tea.KeyUp:
		return []screen.KeyEvent{{Key: screen.KeyUp, Mod: mod}}
	case tea.KeyDown:
		return []screen.KeyEvent{{Key: screen.KeyDown, Mod: mod}}
	case tea.KeyLeft:
		return []screen.KeyEvent{{Key: screen.KeyLeft, Mod: mod}}
	case tea.KeyRight:
		return []screen.KeyEvent{{Key: screen.KeyRight, Mod: mod}}
	case tea.KeyPgUp:
		return []screen.KeyEvent{{Key: screen.KeyPageUp, Mod: mod}}
	case tea.KeyPgDown:
		return []screen.KeyEvent{{Key: screen.KeyPageDown, Mod: mod}}
	case tea.KeyHome:
		return []screen.KeyEvent{{Key: screen.KeyHome, Mod: mod}}
	case tea.KeyEnd:
		return []screen.KeyEvent{{Key: screen.KeyEnd, Mod: mod}}
	case tea.KeyCtrlCloseBracket:
		return []screen.KeyEvent{screen.Rune(']', mod|screen.ModCtrl)}
	}

	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		r := 'a' + rune(msg.Type-tea.KeyCtrlA)
		return []screen.KeyEvent{screen.Rune(r, mod|screen.ModCtrl)}
	}
	return nil
}
