package suggest

import (
	"slices"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		urls bool
		want []string
	}{
		{
			name: "plain words",
			text: "hello world",
			want: []string{"hello", "world"},
		},
		{
			name: "punctuation yields both forms",
			text: "foo(bar)",
			want: []string{"foo(bar)", "foo", "bar"},
		},
		{
			name: "url pass",
			text: "see https://example.com/x?y=1 now",
			urls: true,
			want: []string{"https://example.com/x?y=1", "example", "com"},
		},
		{
			name: "url pass off",
			text: "see https://example.com/x now",
			urls: false,
			want: []string{"https://example.com/x", "https", "example", "com"},
		},
		{
			name: "unicode letters",
			text: "naïve café",
			want: []string{"naïve", "café"},
		},
		{
			name: "decomposed latin word",
			text: "nai\u0308ve",
			want: []string{"nai\u0308ve"},
		},
		{
			name: "devanagari vowel signs",
			text: "नमस्ते दुनिया",
			want: []string{"नमस्ते", "दुनिया"},
		},
		{
			name: "connector punctuation",
			text: "snake_case tie‿bar",
			want: []string{"snake_case", "tie‿bar"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text, tt.urls)
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("Tokenize(%q) = %q, missing %q", tt.text, got, w)
				}
			}
			if tt.want == nil && len(got) != 0 {
				t.Errorf("Tokenize(%q) = %q, want none", tt.text, got)
			}
		})
	}
}

func TestTokenizeNeverEmpty(t *testing.T) {
	text := "  a\t\tb--c  ,, https://x.y  \n\n  ((d))  "
	for _, tok := range Tokenize(text, true) {
		if tok == "" {
			t.Fatalf("empty token in %q", Tokenize(text, true))
		}
	}
}

func TestTokenizeKeepsMarksWithLetters(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"decomposed latin", "(nai\u0308ve)", []string{"(nai\u0308ve)", "nai\u0308ve"}},
		{"devanagari", "[नमस्ते]", []string{"[नमस्ते]", "नमस्ते"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text, false)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
