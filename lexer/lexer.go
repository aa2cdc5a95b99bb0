// Package lexer implements weave's stateful tokenizer: a four-mode
// scanner (Template, Block, BlockPath, Comment) driven by the
// configured Syntax's delimiter searcher. Grounded on the mode-enum
// scanning idiom of opal-lang-opal/runtime/lexer/lexer.go and the exact
// state machine of upon's compile/lex.rs.
package lexer

import (
	"log/slog"

	"github.com/aledsdavies/weave/internal/span"
	"github.com/aledsdavies/weave/syntax"
	"github.com/aledsdavies/weave/token"
	"github.com/aledsdavies/weave/weaveerr"
)

type mode int

const (
	modeTemplate mode = iota
	modeBlock
	modeBlockPath
	modeComment
)

// Lexer scans template source into a stream of Tokens, tracking which
// delimiter tag it is currently inside.
type Lexer struct {
	syn    *syntax.Syntax
	source string
	cursor int

	mode        mode
	blockEndTok token.Kind   // expected end-token kind while inside a tag
	leftTrim    bool         // next raw run should be left-trimmed
	pending     *token.Token // a tag token buffered behind a raw-text gap

	logger *slog.Logger
}

// New constructs a Lexer over source using the given delimiter syntax.
func New(syn *syntax.Syntax, source string) *Lexer {
	return &Lexer{syn: syn, source: source, logger: slog.Default()}
}

// WithLogger replaces the lexer's logger (slog.Default() unless set).
// The lexer stores it but writes no log records; mode transitions are
// not traced.
func (l *Lexer) WithLogger(logger *slog.Logger) *Lexer {
	l.logger = logger
	return l
}

// Next returns the next non-whitespace token. Whitespace tokens are
// still consumed from the stream (they advance the cursor and can
// trigger trim behavior) but are never handed to the parser.
func (l *Lexer) Next() (token.Token, bool, error) {
	for {
		tok, ok, err := l.lex()
		if err != nil {
			return token.Token{}, false, err
		}
		if !ok {
			return token.Token{}, false, nil
		}
		if tok.Kind == token.Whitespace {
			continue
		}
		return tok, true, nil
	}
}

func (l *Lexer) lex() (token.Token, bool, error) {
	if l.pending != nil {
		t := *l.pending
		l.pending = nil
		return t, true, nil
	}
	if l.cursor >= len(l.source) {
		if l.mode != modeTemplate {
			return token.Token{}, false, l.errUnclosed(l.cursor)
		}
		return token.Token{}, false, nil
	}
	switch l.mode {
	case modeTemplate:
		return l.lexTemplate()
	case modeBlock:
		return l.lexBlock(false)
	case modeBlockPath:
		return l.lexBlock(true)
	case modeComment:
		return l.lexComment()
	}
	return token.Token{}, false, nil
}

// tagKindInfo maps a syntax.Kind to the token.Kind it produces and
// whether it carries a whitespace-trim flag.
func tagKindInfo(k syntax.Kind) (tok token.Kind, trim bool) {
	switch k {
	case syntax.BeginExpr:
		return token.BeginExpr, false
	case syntax.BeginExprTrim:
		return token.BeginExpr, true
	case syntax.EndExpr:
		return token.EndExpr, false
	case syntax.EndExprTrim:
		return token.EndExpr, true
	case syntax.BeginBlock:
		return token.BeginBlock, false
	case syntax.BeginBlockTrim:
		return token.BeginBlock, true
	case syntax.EndBlock:
		return token.EndBlock, false
	case syntax.EndBlockTrim:
		return token.EndBlock, true
	case syntax.BeginComment:
		return token.BeginComment, false
	case syntax.BeginCommentTrim:
		return token.BeginComment, true
	case syntax.EndComment:
		return token.EndComment, false
	case syntax.EndCommentTrim:
		return token.EndComment, true
	}
	return token.Raw, false
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func (l *Lexer) lexTemplate() (token.Token, bool, error) {
	i := l.cursor
	m, ok := l.syn.Searcher().FindAt(l.source, i)
	if !ok {
		start, end := i, len(l.source)
		if l.leftTrim {
			for start < end && isSpaceByte(l.source[start]) {
				start++
			}
			l.leftTrim = false
		}
		l.cursor = len(l.source)
		return token.Token{Kind: token.Raw, Span: span.New(start, end)}, true, nil
	}

	tok, trim := tagKindInfo(m.Kind)
	rawStart, rawEnd := i, m.Start
	if l.leftTrim {
		for rawStart < rawEnd && isSpaceByte(l.source[rawStart]) {
			rawStart++
		}
		l.leftTrim = false
	}
	if trim {
		for rawEnd > rawStart && isSpaceByte(l.source[rawEnd-1]) {
			rawEnd--
		}
	}

	tagTok := token.Token{Kind: tok, Span: span.New(m.Start, m.End)}

	if rawStart < rawEnd {
		l.pending = &tagTok
		l.cursor = m.Start
		l.transitionIntoTag(tok, m.End)
		return token.Token{Kind: token.Raw, Span: span.New(rawStart, rawEnd)}, true, nil
	}

	l.cursor = m.Start
	l.transitionIntoTag(tok, m.End)
	return tagTok, true, nil
}

// transitionIntoTag moves the lexer from Template mode into Block or
// Comment mode after a begin-tag has been produced, and advances the
// cursor to the tag's end.
func (l *Lexer) transitionIntoTag(tok token.Kind, end int) {
	l.cursor = end
	switch tok {
	case token.BeginComment:
		l.mode = modeComment
		l.blockEndTok = token.EndComment
	case token.BeginBlock:
		l.mode = modeBlock
		l.blockEndTok = token.EndBlock
	case token.BeginExpr:
		l.mode = modeBlock
		l.blockEndTok = token.EndExpr
	}
}

func (l *Lexer) lexBlock(isPath bool) (token.Token, bool, error) {
	i := l.cursor
	if m, ok := l.syn.Searcher().StartsWith(l.source, i); ok {
		tok, trim := tagKindInfo(m.Kind)
		if tok == token.BeginExpr || tok == token.BeginBlock || tok == token.BeginComment {
			return token.Token{}, false, l.errUnclosed(i)
		}
		if tok != l.blockEndTok {
			return token.Token{}, false, l.errUnexpectedToken(tok, span.New(m.Start, m.End))
		}
		l.cursor = m.End
		l.leftTrim = trim
		l.mode = modeTemplate
		return token.Token{Kind: tok, Span: span.New(m.Start, m.End)}, true, nil
	}

	b := l.source[i]
	switch {
	case b == '.':
		l.cursor++
		return token.Token{Kind: token.Dot, Span: span.New(i, i+1)}, true, nil
	case b == '?':
		return l.lexQuestionDot(i)
	case b == '|':
		l.cursor++
		if l.mode == modeBlockPath {
			l.mode = modeBlock
		}
		return token.Token{Kind: token.Pipe, Span: span.New(i, i+1)}, true, nil
	case b == ',':
		l.cursor++
		if l.mode == modeBlockPath {
			l.mode = modeBlock
		}
		return token.Token{Kind: token.Comma, Span: span.New(i, i+1)}, true, nil
	case b == ':':
		l.cursor++
		if l.mode == modeBlockPath {
			l.mode = modeBlock
		}
		return token.Token{Kind: token.Colon, Span: span.New(i, i+1)}, true, nil
	case b == '+':
		l.cursor++
		return token.Token{Kind: token.Plus, Span: span.New(i, i+1)}, true, nil
	case b == '-':
		l.cursor++
		return token.Token{Kind: token.Minus, Span: span.New(i, i+1)}, true, nil
	case b == '"':
		return l.lexString(i)
	case int(b) < 128 && isDigit[b]:
		if isPath {
			return l.lexIndex(i)
		}
		return l.lexNumber(i)
	case int(b) < 128 && isWhitespace[b]:
		return l.lexWhitespace(i)
	case int(b) < 128 && isIdentStart[b]:
		return l.lexIdentOrKeyword(i)
	default:
		return token.Token{}, false, l.errUnexpectedCharacter(i)
	}
}

func (l *Lexer) lexQuestionDot(i int) (token.Token, bool, error) {
	if i+1 >= len(l.source) || l.source[i+1] != '.' {
		return token.Token{}, false, l.errUnexpectedCharacter(i)
	}
	l.cursor = i + 2
	return token.Token{Kind: token.QuestionDot, Span: span.New(i, i+2)}, true, nil
}

func (l *Lexer) lexString(i int) (token.Token, bool, error) {
	j := i + 1
	for j < len(l.source) {
		c := l.source[j]
		if c == '\n' || c == '\r' {
			return token.Token{}, false, l.errUndelimitedString(span.New(i, j))
		}
		if c == '\\' {
			j += 2
			continue
		}
		if c == '"' {
			j++
			l.cursor = j
			return token.Token{Kind: token.String, Span: span.New(i, j)}, true, nil
		}
		j++
	}
	return token.Token{}, false, l.errUndelimitedString(span.New(i, j))
}

func isNumberChar(b byte) bool {
	if b >= 128 {
		return false
	}
	return isIdentPart[b] || b == '-' || b == '+' || b == '.'
}

func (l *Lexer) lexNumber(i int) (token.Token, bool, error) {
	j := i
	for j < len(l.source) && isNumberChar(l.source[j]) {
		j++
	}
	l.cursor = j
	return token.Token{Kind: token.Number, Span: span.New(i, j)}, true, nil
}

func (l *Lexer) lexIndex(i int) (token.Token, bool, error) {
	j := i
	for j < len(l.source) && l.source[j] < 128 && isIndexDigit[l.source[j]] {
		j++
	}
	l.cursor = j
	return token.Token{Kind: token.Index, Span: span.New(i, j)}, true, nil
}

func (l *Lexer) lexWhitespace(i int) (token.Token, bool, error) {
	j := i
	for j < len(l.source) && l.source[j] < 128 && isWhitespace[l.source[j]] {
		j++
	}
	l.cursor = j
	return token.Token{Kind: token.Whitespace, Span: span.New(i, j)}, true, nil
}

func (l *Lexer) lexIdentOrKeyword(i int) (token.Token, bool, error) {
	j := i + 1
	for j < len(l.source) && l.source[j] < 128 && isIdentPart[l.source[j]] {
		j++
	}
	raw := l.source[i:j]
	l.cursor = j

	kind := token.Ident
	if _, ok := token.Lookup(raw); ok {
		kind = token.Keyword
	}
	if kind == token.Ident && l.mode == modeBlock {
		l.mode = modeBlockPath
	}
	return token.Token{Kind: kind, Span: span.New(i, j)}, true, nil
}

func (l *Lexer) lexComment() (token.Token, bool, error) {
	i := l.cursor
	searchAt := i
	for {
		m, ok := l.syn.Searcher().FindAt(l.source, searchAt)
		if !ok {
			return token.Token{}, false, l.errUnclosed(i)
		}
		tok, trim := tagKindInfo(m.Kind)
		if tok != token.EndComment {
			// Other delimiter-looking text inside a comment is literal;
			// keep scanning past it.
			searchAt = m.Start + 1
			continue
		}

		endTag := token.Token{Kind: token.EndComment, Span: span.New(m.Start, m.End)}
		l.mode = modeTemplate
		l.leftTrim = trim

		if i < m.Start {
			l.pending = &endTag
			l.cursor = m.End
			return token.Token{Kind: token.Raw, Span: span.New(i, m.Start)}, true, nil
		}
		l.cursor = m.End
		return endTag, true, nil
	}
}

func (l *Lexer) errUnclosed(at int) error {
	human := l.blockEndTok.Human()
	return weaveerr.Syntax(l.source, span.New(at, min(at+1, len(l.source))), "unclosed "+human)
}

func (l *Lexer) errUnexpectedToken(tok token.Kind, sp span.Span) error {
	return weaveerr.Syntax(l.source, sp, "unexpected "+tok.Human())
}

func (l *Lexer) errUnexpectedCharacter(at int) error {
	end := at + 1
	if end > len(l.source) {
		end = len(l.source)
	}
	return weaveerr.Syntax(l.source, span.New(at, end), "unexpected character")
}

func (l *Lexer) errUndelimitedString(sp span.Span) error {
	return weaveerr.Syntax(l.source, sp, "undelimited string")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
