package suggest

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var testPrefixes = []string{
	"a", "ab", "abc",
	"h", "he", "hel", "hell",
	"w", "wo", "wor", "worl",
	"p", "pr", "pro", "prog",
	"c", "co", "com", "comp",
}

// screenText builds a screenful of words with every prefix above present.
func screenText(lines int) string {
	words := []string{
		"abc", "abcd", "abacus", "hello", "help", "helium", "world", "word",
		"worker", "program", "progress", "proxy", "computer", "compile",
		"commit", "https://example.com/path", "foo(bar)", "x_y_z",
	}
	var b strings.Builder
	for i := 0; i < lines; i++ {
		for j := range 8 {
			b.WriteString(words[(i+j)%len(words)])
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "line%d\n", i)
	}
	return b.String()
}

func TestBuilderConcurrent(t *testing.T) {
	b := NewBuilder(true)
	texts := []string{screenText(24), screenText(48), screenText(96)}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				text := texts[(w+i)%len(texts)]
				prefix := testPrefixes[(w*7+i)%len(testPrefixes)]
				set := b.Build(text, prefix)
				for _, c := range set {
					if !c.Matches(prefix) {
						t.Errorf("candidate %q does not match %q", c.Raw, prefix)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()

	if got := b.Stats()["builds"]; got != 800 {
		t.Errorf("builds = %d, want 800", got)
	}
}

func TestBuilderMemoryStable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping memory stability test in short mode")
	}

	b := NewBuilder(true)
	run := func() {
		for i := 0; i < 200; i++ {
			// a new text every time defeats the index cache
			text := screenText(48) + fmt.Sprintf("nonce%d", i)
			b.Build(text, testPrefixes[i%len(testPrefixes)])
		}
	}

	run()
	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	for range 5 {
		run()
	}
	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	growth := int64(after.HeapAlloc) - int64(before.HeapAlloc)
	if growth > 8<<20 {
		t.Errorf("heap grew by %d bytes over repeated builds", growth)
	}
}

func BenchmarkBuild(b *testing.B) {
	text := screenText(200)
	for _, prefix := range []string{"", "c", "com", "comp"} {
		b.Run(fmt.Sprintf("prefix_%q", prefix), func(b *testing.B) {
			builder := NewBuilder(true)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				builder.cache.Reset()
				builder.Build(text, prefix)
			}
		})
	}
}

func BenchmarkBuildCached(b *testing.B) {
	text := screenText(200)
	builder := NewBuilder(true)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		builder.Build(text, testPrefixes[i%len(testPrefixes)])
	}
}

func BenchmarkNarrow(b *testing.B) {
	builder := NewBuilder(true)
	set := builder.Build(screenText(200), "")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Narrow(set, testPrefixes[i%len(testPrefixes)])
	}
}
