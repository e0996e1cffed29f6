// Package suggest is the core, extracting candidate words from screen text and filtering them by prefix.
package suggest

// ICompleter defines the interface for candidate set builders
type ICompleter interface {
	// Build scans text and returns the sorted candidates for prefix
	Build(text, prefix string) []Candidate

	// Narrow filters a previously built set down to an extended prefix
	Narrow(set []Candidate, prefix string) []Candidate

	// Stats returns counters about scans and filters done so far
	Stats() map[string]int
}
