package screen

import (
	"testing"
)

func TestScrollback(t *testing.T) {
	sb := NewScrollback(3)
	if sb.Len() != 0 {
		t.Fatalf("Len = %d, want 0", sb.Len())
	}

	for _, s := range []string{"a", "b", "c", "d", "e"} {
		sb.PushLine([]rune(s))
	}

	if sb.Len() != 3 {
		t.Fatalf("Len = %d, want 3", sb.Len())
	}
	for i, want := range []string{"c", "d", "e"} {
		if got := string(sb.Line(i)); got != want {
			t.Errorf("Line(%d) = %q, want %q", i, got, want)
		}
	}
	if sb.Line(3) != nil || sb.Line(-1) != nil {
		t.Error("out of range lines should be nil")
	}

	sb.Clear()
	if sb.Len() != 0 {
		t.Errorf("Len after Clear = %d", sb.Len())
	}
}

func TestScrollbackCopiesLines(t *testing.T) {
	sb := NewScrollback(2)
	line := []rune("abc")
	sb.PushLine(line)
	line[0] = 'x'
	if got := string(sb.Line(0)); got != "abc" {
		t.Errorf("Line(0) = %q, stored line was aliased", got)
	}
}

func TestScrollbackDefaultSize(t *testing.T) {
	if got := NewScrollback(0).MaxLines(); got != DefaultScrollbackLines {
		t.Errorf("MaxLines = %d, want %d", got, DefaultScrollbackLines)
	}
}
