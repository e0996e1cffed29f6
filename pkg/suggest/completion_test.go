package suggest

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raws(set []Candidate) []string {
	out := make([]string, len(set))
	for i, c := range set {
		out[i] = c.Raw
	}
	return out
}

func TestBuild(t *testing.T) {
	b := NewBuilder(true)

	tests := []struct {
		name   string
		text   string
		prefix string
		want   []string
	}{
		{"two matches", "hello world help", "he", []string{"hello", "help"}},
		{"single match", "unique thing", "uni", []string{"unique"}},
		{"no match", "hello world", "xyz", []string{}},
		{"exact word excluded", "he hello", "he", []string{"hello"}},
		{"duplicates folded", "help help help hello", "hel", []string{"hello", "help"}},
		{"byte order", "format formatter format_string", "for", []string{"format", "format_string", "formatter"}},
		{"empty prefix lists everything", "b a c", "", []string{"a", "b", "c"}},
		{"whitespace token kept", "call foo(bar) again", "foo", []string{"foo(bar)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Build(tt.text, tt.prefix)
			assert.Equal(t, tt.want, raws(got))
		})
	}
}

func TestBuildProperties(t *testing.T) {
	b := NewBuilder(true)
	text := "alpha alphabet alpine (alps) al al-ahram http://alpha.example/al 123 al_pha"
	prefix := "al"

	got := b.Build(text, prefix)
	require.NotEmpty(t, got)

	seen := make(map[string]bool)
	for _, c := range got {
		assert.True(t, strings.HasPrefix(c.Raw, prefix), "%q lacks prefix", c.Raw)
		assert.Greater(t, len(c.Raw), len(prefix))
		assert.False(t, seen[c.Raw], "duplicate %q", c.Raw)
		seen[c.Raw] = true
	}
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Raw < got[j].Raw }))

	for _, tok := range Tokenize(text, true) {
		if strings.HasPrefix(tok, prefix) && len(tok) > len(prefix) {
			assert.True(t, seen[tok], "token %q missing from candidates", tok)
		}
	}
}

func TestBuildReusesIndex(t *testing.T) {
	b := NewBuilder(false)
	b.Build("one two three", "t")
	b.Build("one two three", "o")
	b.Build("four", "f")

	stats := b.Stats()
	assert.Equal(t, 3, stats["builds"])
	assert.Equal(t, 2, stats["scans"])
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 1, stats["indexedTokens"])
}

func TestNarrow(t *testing.T) {
	set := []Candidate{
		NewCandidate("helium"),
		NewCandidate("hello"),
		NewCandidate("help"),
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"hel", []string{"helium", "hello", "help"}},
		{"hell", []string{"hello"}},
		{"help", []string{}},
		{"x", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := Narrow(set, tt.prefix)
			assert.Equal(t, tt.want, raws(got))
		})
	}
	assert.Len(t, set, 3, "Narrow must not modify its input")
}

func TestNarrowMatchesRebuild(t *testing.T) {
	b := NewBuilder(true)
	text := "configure config confirm conflict cone connect conn"
	set := b.Build(text, "con")

	for _, p := range []string{"conf", "confi", "conn", "cone", "conx"} {
		assert.Equal(t, raws(b.Build(text, p)), raws(b.Narrow(set, p)), "prefix %q", p)
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		name string
		set  []string
		want string
	}{
		{"empty", nil, ""},
		{"single is itself", []string{"hello"}, "hello"},
		{"shared", []string{"format", "format_string", "formatter"}, "format"},
		{"nothing shared", []string{"abc", "xyz"}, ""},
		{"stops before split rune", []string{"café", "cafè"}, "caf"},
		{"multibyte shared", []string{"日本語", "日本人"}, "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := make([]Candidate, len(tt.set))
			for i, s := range tt.set {
				set[i] = NewCandidate(s)
			}
			got := CommonPrefix(set)
			assert.Equal(t, tt.want, got)
			for _, c := range set {
				assert.True(t, strings.HasPrefix(c.Raw, got))
			}
		})
	}
}

func TestCandidateDisplay(t *testing.T) {
	c := NewCandidate("a\x1bb")
	assert.Equal(t, "a\x1bb", c.Raw)
	assert.Equal(t, "a?b", c.Display)
}

func TestBuildCombiningMarks(t *testing.T) {
	b := NewBuilder(false)

	assert.Equal(t, []string{"nai\u0308ve"}, raws(b.Build("nai\u0308ve", "na")))
	assert.Equal(t, []string{"नमस्ते"}, raws(b.Build("नमस्ते", "नम")))
}
