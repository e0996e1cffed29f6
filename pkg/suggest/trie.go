package suggest

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// SearchTrie collects every key under prefix that is strictly longer than
// it, sorted ascending by bytes.
func SearchTrie(trie *patricia.Trie, prefix string) []Candidate {
	if trie == nil {
		return []Candidate{}
	}

	var candidates []Candidate
	visit := func(p patricia.Prefix, _ patricia.Item) error {
		if len(p) <= len(prefix) {
			return nil
		}
		candidates = append(candidates, NewCandidate(string(p)))
		return nil
	}

	var err error
	if prefix == "" {
		err = trie.Visit(visit)
	} else {
		err = trie.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return []Candidate{}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Raw < candidates[j].Raw
	})
	return candidates
}
