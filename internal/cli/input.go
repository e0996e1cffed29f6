// Package cli handles cmd line input and candidate listings for DBG and testing the engine
package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/screencomp/internal/utils"
	"github.com/bastiangx/screencomp/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads prefixes line by line and lists the candidates found
// in a seed text. Lines starting with "+" append to the seed, ":stats"
// dumps the completer counters and ":text" prints the current seed.
type InputHandler struct {
	completer    suggest.ICompleter
	text         string
	maxPrefix    int
	suggestLimit int
	requestCount int
	out          *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, text string, maxPrefix, limit int, out *log.Logger) *InputHandler {
	if out == nil {
		out = log.Default()
	}
	return &InputHandler{
		completer:    completer,
		text:         text,
		maxPrefix:    maxPrefix,
		suggestLimit: limit,
		out:          out,
	}
}

// Start runs the loop until r is exhausted.
func (h *InputHandler) Start(r io.Reader) error {
	h.out.Print("screencomp CLI [DBG]")
	h.out.Printf("seed text has %s bytes", utils.FormatWithCommas(len(h.text)))
	h.out.Print("type a prefix and press Enter to list candidates (Ctrl+C to exit):")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	for scanner.Scan() {
		h.handleInput(scanner.Text())
	}
	return scanner.Err()
}

// Text returns the current seed text.
func (h *InputHandler) Text() string {
	return h.text
}

// handleInput processes one line of input.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	switch {
	case strings.HasPrefix(line, "+"):
		h.text += "\n" + strings.TrimPrefix(line, "+")
		h.out.Debug("seed extended", "bytes", len(h.text))
		return
	case strings.TrimSpace(line) == ":stats":
		h.printStats()
		return
	case strings.TrimSpace(line) == ":text":
		h.out.Print(h.text)
		return
	}

	prefix := strings.TrimSpace(line)
	if len(prefix) > h.maxPrefix {
		h.out.Errorf("Prefix too long: %s", prefix)
		return
	}

	start := time.Now()
	candidates := h.completer.Build(h.text, prefix)
	elapsed := time.Since(start)
	h.out.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(candidates) == 0 {
		h.out.Warnf("No candidates found for prefix: '%s'", prefix)
		return
	}

	h.out.Printf("Found %d candidates for prefix '%s' (common: '%s'):",
		len(candidates), prefix, suggest.CommonPrefix(candidates))
	shown := candidates
	if h.suggestLimit > 0 && len(shown) > h.suggestLimit {
		shown = shown[:h.suggestLimit]
	}
	for i, c := range shown {
		h.out.Printf("%2d. %s", i+1, wordStyle.Render(c.Display))
	}
	if len(shown) < len(candidates) {
		h.out.Printf("... %d more", len(candidates)-len(shown))
	}
}

func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.out.Print(fmt.Sprintf("%-10s %s", k, utils.FormatWithCommas(stats[k])))
	}
	h.out.Print(fmt.Sprintf("%-10s %s", "lines", utils.FormatWithCommas(h.requestCount)))
}
