// Package span tracks byte ranges into template source for error reporting
// and span-combination during parsing.
package span

import "fmt"

// Span is a half-open byte range [Start, End) into a template's source.
type Span struct {
	Start int
	End   int
}

// New builds a Span from two byte offsets.
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Combine returns the smallest span covering both s and other.
func (s Span) Combine(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// Slice returns the substring of source covered by s.
func (s Span) Slice(source string) string {
	return source[s.Start:s.End]
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
