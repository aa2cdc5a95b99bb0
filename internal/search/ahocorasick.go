// Package search implements a byte-oriented Aho-Corasick multi-pattern
// automaton with leftmost-longest, non-overlapping match semantics,
// grounded on upon's compile/search/ahocorasick/*.rs. It is used to
// find template delimiter tags inside raw source.
package search

// Match is one located occurrence of a registered pattern.
type Match struct {
	PatternID int
	Start     int
	End       int
}

// AhoCorasick is a compiled multi-pattern automaton.
type AhoCorasick struct {
	states []*state
}

// New compiles patterns (registration order defines each pattern's id)
// into an automaton.
func New(patterns []string) *AhoCorasick {
	return build(patterns)
}

func (a *AhoCorasick) nextState(id stateID, b byte) stateID {
	state := id
	for {
		next := a.states[state].nextState(b)
		if next != failState {
			return next
		}
		if state == startState {
			return startState
		}
		state = a.states[state].fail
	}
}

func (a *AhoCorasick) getMatch(id stateID, matchIdx, end int) (Match, bool) {
	matches := a.states[id].matches
	if matchIdx >= len(matches) {
		return Match{}, false
	}
	p := matches[matchIdx]
	return Match{PatternID: p.id, Start: end - p.len, End: end}, true
}

// FindAt runs the automaton over haystack starting at byte offset at,
// returning the leftmost-longest match beginning at or after at, or
// false if none exists before the haystack ends.
func (a *AhoCorasick) FindAt(haystack string, at int) (Match, bool) {
	state := startState
	lastMatch, hasLast := a.getMatch(state, 0, at)

	for at < len(haystack) {
		state = a.nextState(state, haystack[at])
		at++
		if state == deadState {
			return lastMatch, hasLast
		}
		if m, ok := a.getMatch(state, 0, at); ok {
			lastMatch = m
			hasLast = true
		}
	}
	return lastMatch, hasLast
}
