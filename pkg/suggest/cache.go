package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// IndexCache keeps the token trie of the last scanned text so that a
// restart over an unchanged screen does not tokenize it again.
type IndexCache struct {
	trie     *patricia.Trie
	text     string
	distinct int
	urls     bool
	scans    int64
	hits     int64
	mu       sync.RWMutex
}

func NewIndexCache(urls bool) *IndexCache {
	return &IndexCache{urls: urls}
}

// Index returns the trie holding every distinct token of text.
func (ic *IndexCache) Index(text string) *patricia.Trie {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	if ic.trie != nil && ic.text == text {
		ic.hits++
		return ic.trie
	}

	trie := patricia.NewTrie()
	distinct := 0
	for _, tok := range Tokenize(text, ic.urls) {
		if trie.Insert(patricia.Prefix(tok), struct{}{}) {
			distinct++
		}
	}

	ic.trie = trie
	ic.text = text
	ic.distinct = distinct
	ic.scans++
	log.Debugf("Indexed %d distinct tokens from %d bytes", distinct, len(text))
	return trie
}

// Reset drops the cached trie.
func (ic *IndexCache) Reset() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.trie = nil
	ic.text = ""
	ic.distinct = 0
}

func (ic *IndexCache) Stats() map[string]int {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	return map[string]int{
		"indexedTokens": ic.distinct,
		"indexedBytes":  len(ic.text),
		"scans":         int(ic.scans),
		"cacheHits":     int(ic.hits),
	}
}
