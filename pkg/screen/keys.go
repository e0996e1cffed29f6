package screen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key is a decoded key symbol.
type Key int

const (
	KeyRune Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeySpace
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

var keyNames = map[Key]string{
	KeyEscape:    "esc",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeySpace:     "space",
	KeyBackspace: "backspace",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyHome:      "home",
	KeyEnd:       "end",
}

// Mod is a set of key modifiers.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// KeyEvent is one key press. Rune is only meaningful for KeyRune.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mod  Mod
}

// Rune builds a KeyEvent for a printable rune with optional modifiers.
func Rune(r rune, mod Mod) KeyEvent {
	if r == ' ' {
		return KeyEvent{Key: KeySpace, Mod: mod}
	}
	return KeyEvent{Key: KeyRune, Rune: r, Mod: mod}
}

// Ctrl and Alt are shorthands for modified runes.
func Ctrl(r rune) KeyEvent { return Rune(r, ModCtrl) }
func Alt(r rune) KeyEvent  { return Rune(r, ModAlt) }

// Plain reports whether the event carries no ctrl or alt modifier.
func (k KeyEvent) Plain() bool {
	return k.Mod&(ModCtrl|ModAlt) == 0
}

// String renders the event the way key bindings are written, e.g.
// "ctrl+p", "alt+v" or "pgdown".
func (k KeyEvent) String() string {
	var parts []string
	if k.Mod&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if k.Mod&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if k.Mod&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if k.Key == KeyRune {
		parts = append(parts, string(k.Rune))
	} else {
		parts = append(parts, keyNames[k.Key])
	}
	return strings.Join(parts, "+")
}

var namedKeys = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+4)
	for k, name := range keyNames {
		m[name] = k
	}
	m["escape"] = KeyEscape
	m["return"] = KeyEnter
	m["pageup"] = KeyPageUp
	m["pagedown"] = KeyPageDown
	return m
}()

// ParseKey reads a binding such as "ctrl+p", "alt+v", "pgdown" or "/".
func ParseKey(s string) (KeyEvent, error) {
	if s == "" {
		return KeyEvent{}, fmt.Errorf("empty key binding")
	}
	if s == "+" {
		return Rune('+', 0), nil
	}

	parts := strings.Split(s, "+")
	if strings.HasSuffix(s, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}

	var mod Mod
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "ctrl", "c":
			mod |= ModCtrl
		case "alt", "meta", "m":
			mod |= ModAlt
		case "shift", "s":
			mod |= ModShift
		default:
			return KeyEvent{}, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}

	last := parts[len(parts)-1]
	if k, ok := namedKeys[strings.ToLower(last)]; ok {
		if k == KeySpace {
			return Rune(' ', mod), nil
		}
		return KeyEvent{Key: k, Mod: mod}, nil
	}
	if utf8.RuneCountInString(last) == 1 {
		r, _ := utf8.DecodeRuneInString(last)
		return Rune(r, mod), nil
	}
	return KeyEvent{}, fmt.Errorf("unknown key %q in %q", last, s)
}
