package syntax

import "github.com/aledsdavies/weave/internal/search"

// Match pairs a located delimiter occurrence with its tag Kind.
type Match struct {
	Kind  Kind
	Start int
	End   int
}

// Searcher finds the next configured delimiter tag in template source,
// wrapping the generic Aho-Corasick automaton with a Kind mapping.
// Grounded on upon's compile/search/mod.rs.
type Searcher struct {
	ac *search.AhoCorasick
}

func newSearcher(patterns []string) *Searcher {
	return &Searcher{ac: search.New(patterns)}
}

// FindAt returns the next delimiter tag at or after byte offset at.
func (s *Searcher) FindAt(haystack string, at int) (Match, bool) {
	m, ok := s.ac.FindAt(haystack, at)
	if !ok {
		return Match{}, false
	}
	return Match{Kind: kindFromIndex(m.PatternID), Start: m.Start, End: m.End}, true
}

// StartsWith returns the delimiter tag if one begins exactly at offset
// at, or false otherwise.
func (s *Searcher) StartsWith(haystack string, at int) (Match, bool) {
	m, ok := s.FindAt(haystack, at)
	if !ok || m.Start != at {
		return Match{}, false
	}
	return m, true
}
