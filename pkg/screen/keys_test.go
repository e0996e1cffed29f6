package screen

import (
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want KeyEvent
	}{
		{"esc", KeyEvent{Key: KeyEscape}},
		{"escape", KeyEvent{Key: KeyEscape}},
		{"enter", KeyEvent{Key: KeyEnter}},
		{"tab", KeyEvent{Key: KeyTab}},
		{"space", KeyEvent{Key: KeySpace}},
		{"up", KeyEvent{Key: KeyUp}},
		{"pgdown", KeyEvent{Key: KeyPageDown}},
		{"pageup", KeyEvent{Key: KeyPageUp}},
		{"ctrl+p", Ctrl('p')},
		{"alt+v", Alt('v')},
		{"ctrl+]", Ctrl(']')},
		{"alt+/", Alt('/')},
		{"ctrl+alt+x", KeyEvent{Key: KeyRune, Rune: 'x', Mod: ModCtrl | ModAlt}},
		{"ctrl++", Ctrl('+')},
		{"+", Rune('+', 0)},
		{"x", Rune('x', 0)},
		{"CTRL+N", Ctrl('N')},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if err != nil {
				t.Fatalf("ParseKey(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseKeyErrors(t *testing.T) {
	for _, in := range []string{"", "hyper+x", "ctrl+nope", "ctrl+"} {
		if _, err := ParseKey(in); err == nil {
			t.Errorf("ParseKey(%q) expected error", in)
		}
	}
}

func TestKeyEventStringRoundTrip(t *testing.T) {
	events := []KeyEvent{
		Ctrl('p'), Alt('v'), Ctrl('v'), Rune('a', 0),
		{Key: KeyPageDown}, {Key: KeyEscape}, {Key: KeyTab}, {Key: KeySpace},
	}
	for _, ev := range events {
		got, err := ParseKey(ev.String())
		if err != nil {
			t.Fatalf("ParseKey(%q) error: %v", ev.String(), err)
		}
		if got != ev {
			t.Errorf("round trip of %q gave %+v", ev.String(), got)
		}
	}
}

func TestRuneSpaceIsSpaceKey(t *testing.T) {
	if ev := Rune(' ', 0); ev.Key != KeySpace {
		t.Errorf("Rune(' ') = %+v, want KeySpace", ev)
	}
	if Alt('x').Plain() {
		t.Error("alt+x reported plain")
	}
	if !Rune('x', ModShift).Plain() {
		t.Error("shift+x reported not plain")
	}
}
