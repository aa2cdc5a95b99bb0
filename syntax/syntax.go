// Package syntax defines the configurable delimiter set (expression,
// block, comment tags and their whitespace-trim variants) and compiles
// it into a Searcher. Grounded on upon's types/syntax.rs.
package syntax

import "fmt"

// Kind identifies which delimiter tag an Aho-Corasick match corresponds
// to. The explicit ordering matches upon's types/syntax.rs: the four
// variants of each tag (begin, end, begin-trim, end-trim) are grouped
// together, expression first, then block, then comment.
type Kind int

const (
	BeginExpr Kind = iota
	EndExpr
	BeginExprTrim
	EndExprTrim
	BeginBlock
	EndBlock
	BeginBlockTrim
	EndBlockTrim
	BeginComment
	EndComment
	BeginCommentTrim
	EndCommentTrim
)

func (k Kind) String() string {
	names := [...]string{
		"BeginExpr", "EndExpr", "BeginExprTrim", "EndExprTrim",
		"BeginBlock", "EndBlock", "BeginBlockTrim", "EndBlockTrim",
		"BeginComment", "EndComment", "BeginCommentTrim", "EndCommentTrim",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Kind(?)"
	}
	return names[k]
}

// kindFromIndex maps a pattern's registration index back to its Kind.
func kindFromIndex(i int) Kind {
	return Kind(i)
}

// Syntax is a compiled, immutable delimiter configuration.
type Syntax struct {
	patterns []string // indexed by Kind
	searcher *Searcher
}

// Default returns the standard `{{ }}` / `{% %}` / `{# #}` delimiter
// set, matching upon's Default impl.
func Default() *Syntax {
	s, err := NewBuilder().Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Pattern returns the literal delimiter string for a Kind.
func (s *Syntax) Pattern(k Kind) string {
	return s.patterns[k]
}

// Searcher returns the compiled Aho-Corasick searcher over all twelve
// delimiter variants.
func (s *Syntax) Searcher() *Searcher {
	return s.searcher
}

// Builder configures a custom delimiter set before compiling it into a
// Syntax. Trim variants (`{{-`, `-}}`, ...) are derived automatically.
type Builder struct {
	exprBegin, exprEnd       string
	blockBegin, blockEnd     string
	commentBegin, commentEnd string
}

// NewBuilder seeds a Builder with the default delimiter set.
func NewBuilder() *Builder {
	return &Builder{
		exprBegin: "{{", exprEnd: "}}",
		blockBegin: "{%", blockEnd: "%}",
		commentBegin: "{#", commentEnd: "#}",
	}
}

func (b *Builder) Expr(begin, end string) *Builder {
	b.exprBegin, b.exprEnd = begin, end
	return b
}

func (b *Builder) Block(begin, end string) *Builder {
	b.blockBegin, b.blockEnd = begin, end
	return b
}

func (b *Builder) Comment(begin, end string) *Builder {
	b.commentBegin, b.commentEnd = begin, end
	return b
}

// Build validates and compiles the configured delimiters.
func (b *Builder) Build() (*Syntax, error) {
	for _, s := range []string{b.exprBegin, b.exprEnd, b.blockBegin, b.blockEnd, b.commentBegin, b.commentEnd} {
		if s == "" {
			return nil, fmt.Errorf("syntax: delimiter must not be empty")
		}
	}

	patterns := make([]string, 12)
	patterns[BeginExpr] = b.exprBegin
	patterns[EndExpr] = b.exprEnd
	patterns[BeginExprTrim] = b.exprBegin + "-"
	patterns[EndExprTrim] = "-" + b.exprEnd
	patterns[BeginBlock] = b.blockBegin
	patterns[EndBlock] = b.blockEnd
	patterns[BeginBlockTrim] = b.blockBegin + "-"
	patterns[EndBlockTrim] = "-" + b.blockEnd
	patterns[BeginComment] = b.commentBegin
	patterns[EndComment] = b.commentEnd
	patterns[BeginCommentTrim] = b.commentBegin + "-"
	patterns[EndCommentTrim] = "-" + b.commentEnd

	searcher := newSearcher(patterns)
	return &Syntax{patterns: patterns, searcher: searcher}, nil
}
