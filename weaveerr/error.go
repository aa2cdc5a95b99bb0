// Package weaveerr implements the error type surfaced by weave's
// template pipeline: syntax errors from the lexer/parser, render
// errors from the interpreter, format errors from formatters, and I/O
// errors from the output sink. Grounded on upon's src/error.rs (the
// Error{kind, span} shape and its pretty-printer) and on the
// Type/Message/Cause/Context structured-error idiom in
// opal-lang-opal/pkgs/errors/errors.go.
package weaveerr

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/weave/internal/span"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/width"
)

// Kind classifies what stage of the pipeline raised the error.
type Kind string

const (
	KindSyntax        Kind = "syntax"
	KindRender        Kind = "render"
	KindFormat        Kind = "format"
	KindIO            Kind = "io"
	KindSerialization Kind = "serialization"
)

// Error is the error type returned by parsing, compiling and rendering.
// Configuration and I/O helpers outside that pipeline (syntax.Builder,
// schema.New, loader.New, value.DecodeCBOR) return plain errors, and
// KindSerialization is not produced anywhere in this module.
type Error struct {
	Kind    Kind
	Message string
	Source  string // full template source, for pretty-printing; empty if n/a
	Span    span.Span
	HasSpan bool
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Kind) + " error"
}

func (e *Error) Unwrap() error { return e.Cause }

// WithSpan attaches source + span context to an error for pretty
// printing, mirroring upon's Error::with_span.
func (e *Error) WithSpan(source string, sp span.Span) *Error {
	e.Source = source
	e.Span = sp
	e.HasSpan = true
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Syntax(source string, sp span.Span, message string) *Error {
	return (&Error{Kind: KindSyntax, Message: message}).WithSpan(source, sp)
}

func Render(source string, sp span.Span, message string) *Error {
	return (&Error{Kind: KindRender, Message: message}).WithSpan(source, sp)
}

func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Suggest appends a "did you mean %q?" hint to message when one of
// candidates is a close fuzzy match for name, grounded on the typo
// suggestion use of fuzzysearch in
// opal-lang-opal/runtime/planner/planner.go.
func Suggest(message, name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(name, c)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if best == "" || bestDist > 2 {
		return message
	}
	return fmt.Sprintf("%s (did you mean %q?)", message, best)
}

// Pretty renders the three-line gutter/caret snippet upon produces for
// span-carrying errors: an empty gutter line, the numbered source line,
// then a caret underline sized by
// the span's terminal display width (not byte or rune count), grounded
// on upon's src/error.rs::fmt_pretty.
func (e *Error) Pretty() string {
	if !e.HasSpan {
		return e.Error()
	}
	lineNum, col, lineText := locate(e.Source, e.Span.Start)
	w := displayWidth(e.Source[e.Span.Start:e.Span.End])
	if w < 1 {
		w = 1
	}

	gutter := strings.Repeat(" ", len(fmt.Sprintf("%d", lineNum+1)))
	var b strings.Builder
	fmt.Fprintf(&b, "%s |\n", gutter)
	fmt.Fprintf(&b, "%d | %s\n", lineNum+1, lineText)
	fmt.Fprintf(&b, "%s | %s%s %s\n",
		gutter,
		strings.Repeat(" ", col),
		strings.Repeat("^", w),
		e.Message,
	)
	return b.String()
}

// locate finds the 0-based line index, 0-based display-width column,
// and full line text containing byte offset.
func locate(source string, offset int) (line, col int, lineText string) {
	lines := strings.Split(source, "\n")
	consumed := 0
	for i, l := range lines {
		lineLen := len(l) + 1 // +1 for the stripped newline
		if consumed+lineLen > offset || i == len(lines)-1 {
			col = displayWidth(l[:min(offset-consumed, len(l))])
			return i, col, l
		}
		consumed += lineLen
	}
	return len(lines) - 1, 0, lines[len(lines)-1]
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		p := width.LookupRune(r)
		switch p.Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
