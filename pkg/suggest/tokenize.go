package suggest

import (
	"regexp"
	"strings"
)

var (
	// runs of word characters, i.e. the text split on runs of non-word
	// characters. Combining marks belong to the letter they follow.
	wordRun = regexp.MustCompile(`[\p{L}\p{M}\p{N}\p{Pc}]+`)

	urlLike = regexp.MustCompile(
		`(?:[A-Za-z][A-Za-z0-9+.\-]*://|mailto:|www\.)[\p{L}\p{M}\p{N}_\-@;/?:&=%$.+!*'(),~#]+`)
)

// Tokenize runs the whitespace, word and URL passes over text and returns
// every token found. The passes overlap on purpose and duplicates are left
// for the caller to fold.
func Tokenize(text string, urls bool) []string {
	tokens := strings.Fields(text)
	tokens = append(tokens, wordRun.FindAllString(text, -1)...)
	if urls {
		tokens = append(tokens, urlLike.FindAllString(text, -1)...)
	}
	return tokens
}
