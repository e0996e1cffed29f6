package suggest

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/screencomp/internal/utils"
)

// Candidate is a completion taken from screen content.
// Raw is the decoded text written back on commit, Display is what the
// overlay draws.
type Candidate struct {
	Raw     string
	Display string
}

func NewCandidate(raw string) Candidate {
	return Candidate{
		Raw:     raw,
		Display: utils.SanitizeDisplay(raw),
	}
}

// Matches reports whether c still completes prefix.
func (c Candidate) Matches(prefix string) bool {
	return len(c.Raw) > len(prefix) && strings.HasPrefix(c.Raw, prefix)
}

// Builder turns screen text into candidate sets.
type Builder struct {
	cache   *IndexCache
	builds  int
	narrows int
	mu      sync.Mutex
}

// NewBuilder creates a Builder. urls toggles the URL extraction pass.
func NewBuilder(urls bool) *Builder {
	return &Builder{
		cache: NewIndexCache(urls),
	}
}

// URLTokens reports whether the URL pass runs when text is indexed.
func (b *Builder) URLTokens() bool {
	return b.cache.urls
}

// Build returns the deduplicated, sorted candidates of text for prefix.
func (b *Builder) Build(text, prefix string) []Candidate {
	b.mu.Lock()
	b.builds++
	b.mu.Unlock()

	return SearchTrie(b.cache.Index(text), prefix)
}

// Narrow filters set down to prefix. It never rescans text.
func (b *Builder) Narrow(set []Candidate, prefix string) []Candidate {
	b.mu.Lock()
	b.narrows++
	b.mu.Unlock()

	return Narrow(set, prefix)
}

func (b *Builder) Stats() map[string]int {
	b.mu.Lock()
	stats := map[string]int{
		"builds":  b.builds,
		"narrows": b.narrows,
	}
	b.mu.Unlock()

	for k, v := range b.cache.Stats() {
		stats[k] = v
	}
	return stats
}

// Narrow returns the members of set that still match prefix, in their
// original order. A filtered subsequence of a sorted set stays sorted.
func Narrow(set []Candidate, prefix string) []Candidate {
	narrowed := make([]Candidate, 0, len(set))
	for _, c := range set {
		if c.Matches(prefix) {
			narrowed = append(narrowed, c)
		}
	}
	return narrowed
}

// CommonPrefix returns the longest prefix shared by every candidate.
// A single candidate is its own common prefix. The result never ends in a
// partial UTF-8 sequence.
func CommonPrefix(set []Candidate) string {
	if len(set) == 0 {
		return ""
	}

	common := set[0].Raw
	for _, c := range set[1:] {
		n := min(len(common), len(c.Raw))
		i := 0
		for i < n && common[i] == c.Raw[i] {
			i++
		}
		common = common[:i]
		if common == "" {
			return ""
		}
	}

	for len(common) > 0 && !utf8.ValidString(common) {
		common = common[:len(common)-1]
	}
	return common
}
