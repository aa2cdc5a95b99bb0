// Package token defines the closed set of lexical tokens and keywords
// produced by the lexer, grounded on upon's compile/lex.rs Token enum
// and Keyword set.
package token

import "github.com/aledsdavies/weave/internal/span"

// Kind enumerates every token the lexer can produce.
type Kind int

const (
	Raw Kind = iota
	BeginExpr
	EndExpr
	BeginBlock
	EndBlock
	BeginComment
	EndComment
	Dot
	QuestionDot
	Pipe
	Comma
	Colon
	Plus
	Minus
	Whitespace
	Keyword
	Ident
	Index
	Number
	String
)

var kindNames = [...]string{
	"raw", "begin-expr", "end-expr", "begin-block", "end-block",
	"begin-comment", "end-comment", ".", "?.", "|", ",", ":", "+", "-",
	"whitespace", "keyword", "identifier", "index", "number", "string",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Human returns the display name used in diagnostics, e.g.
// "end expression" instead of the bare delimiter string.
func (k Kind) Human() string {
	switch k {
	case Raw:
		return "raw text"
	case BeginExpr:
		return "begin expression"
	case EndExpr:
		return "end expression"
	case BeginBlock:
		return "begin block"
	case EndBlock:
		return "end block"
	case BeginComment:
		return "begin comment"
	case EndComment:
		return "end comment"
	case Dot:
		return "`.`"
	case QuestionDot:
		return "`?.`"
	case Pipe:
		return "`|`"
	case Comma:
		return "`,`"
	case Colon:
		return "`:`"
	case Plus:
		return "`+`"
	case Minus:
		return "`-`"
	case Whitespace:
		return "whitespace"
	case Keyword:
		return "keyword"
	case Ident:
		return "identifier"
	case Index:
		return "index"
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "token"
	}
}

// IsBeginTag reports whether k opens a block/expr/comment tag.
func (k Kind) IsBeginTag() bool {
	return k == BeginExpr || k == BeginBlock || k == BeginComment
}

// Token is one lexed token: its kind and source span.
type Token struct {
	Kind Kind
	Span span.Span
}
