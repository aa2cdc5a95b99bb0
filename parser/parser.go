// Package parser implements weave's hand-written, pull-based
// recursive-descent parser: a single-token-lookahead scanner over the
// lexer's token stream, driven by a block-frame stack (if/for/with)
// paired with a scope stack, grounded on upon's compile/parse.rs and
// on the two-stack parsing idiom of
// opal-lang-opal/runtime/parser/parser.go.
package parser

import (
	"fmt"

	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/internal/span"
	"github.com/aledsdavies/weave/lexer"
	"github.com/aledsdavies/weave/syntax"
	"github.com/aledsdavies/weave/token"
	"github.com/aledsdavies/weave/weaveerr"
)

type peeked struct {
	tok token.Token
	ok  bool
}

// Parser turns a token stream into an ast.Template.
type Parser struct {
	lex    *lexer.Lexer
	source string
	peek   *peeked
}

// Parse lexes and parses source into a Template.
func Parse(syn *syntax.Syntax, source string) (*ast.Template, error) {
	p := &Parser{lex: lexer.New(syn, source), source: source}
	return p.parseTemplate()
}

func (p *Parser) next() (token.Token, bool, error) {
	if p.peek != nil {
		pk := *p.peek
		p.peek = nil
		return pk.tok, pk.ok, nil
	}
	return p.lex.Next()
}

func (p *Parser) peekTok() (token.Token, bool, error) {
	if p.peek == nil {
		tok, ok, err := p.lex.Next()
		if err != nil {
			return token.Token{}, false, err
		}
		p.peek = &peeked{tok: tok, ok: ok}
	}
	return p.peek.tok, p.peek.ok, nil
}

func (p *Parser) expect(want token.Kind) (token.Token, error) {
	tok, ok, err := p.next()
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		return token.Token{}, p.errUnexpectedEOF(want)
	}
	if tok.Kind != want {
		return token.Token{}, p.errUnexpectedToken(want, tok)
	}
	return tok, nil
}

func (p *Parser) isNext(k token.Kind) (bool, error) {
	tok, ok, err := p.peekTok()
	if err != nil || !ok {
		return false, err
	}
	return tok.Kind == k, nil
}

// --- block frame stack ---

type frameKind int

const (
	frameIf frameKind = iota
	frameFor
	frameWith
)

type frame struct {
	kind frameKind

	// frameIf
	ifNot     bool
	ifCond    ast.Expr
	ifSpan    span.Span
	ifHasElse bool

	// frameFor
	forVars     ast.LoopVars
	forIterable ast.Expr
	forSpan     span.Span

	// frameWith
	withExpr ast.Expr
	withName ast.Ident
	withSpan span.Span
}

func (p *Parser) parseTemplate() (*ast.Template, error) {
	var blocks []frame
	scopes := []ast.Scope{{}}

	for {
		tok, ok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		switch tok.Kind {
		case token.Raw:
			top := len(scopes) - 1
			scopes[top].Stmts = append(scopes[top].Stmts, ast.Raw{
				Text: tok.Span.Slice(p.source),
				Span: tok.Span,
			})

		case token.BeginComment:
			if _, err := p.expect(token.Raw); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.EndComment); err != nil {
				return nil, err
			}

		case token.BeginExpr:
			begin := tok.Span
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.EndExpr)
			if err != nil {
				return nil, err
			}
			top := len(scopes) - 1
			scopes[top].Stmts = append(scopes[top].Stmts, ast.InlineExpr{
				Expr: expr,
				Span: begin.Combine(end.Span),
			})

		case token.BeginBlock:
			begin := tok.Span
			blk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.EndBlock)
			if err != nil {
				return nil, err
			}
			fullSpan := begin.Combine(end.Span)

			if err := p.applyBlock(blk, fullSpan, &blocks, &scopes); err != nil {
				return nil, err
			}

		default:
			return nil, p.errUnexpectedTokenSpan(tok)
		}
	}

	if len(blocks) > 0 {
		last := blocks[len(blocks)-1]
		return nil, p.errUnclosedFrame(last)
	}
	if len(scopes) != 1 {
		return nil, weaveerr.Syntax(p.source, span.New(0, 0), "parser left unbalanced scopes")
	}

	return &ast.Template{Source: p.source, Scope: scopes[0]}, nil
}

func (p *Parser) applyBlock(blk parsedBlock, fullSpan span.Span, blocks *[]frame, scopes *[]ast.Scope) error {
	switch blk.kind {
	case blockIf:
		*blocks = append(*blocks, frame{kind: frameIf, ifNot: blk.ifNot, ifCond: blk.ifCond, ifSpan: fullSpan})
		*scopes = append(*scopes, ast.Scope{})
		return nil

	case blockElse:
		if len(*blocks) == 0 {
			return p.errUnexpectedKeyword("else", fullSpan)
		}
		top := &(*blocks)[len(*blocks)-1]
		if top.kind != frameIf || top.ifHasElse {
			return p.errUnexpectedKeyword("else", fullSpan)
		}
		top.ifHasElse = true
		*scopes = append(*scopes, ast.Scope{})
		return nil

	case blockEndIf:
		if len(*blocks) == 0 || (*blocks)[len(*blocks)-1].kind != frameIf {
			return p.errUnexpectedKeyword("endif", fullSpan)
		}
		top := (*blocks)[len(*blocks)-1]
		*blocks = (*blocks)[:len(*blocks)-1]

		var elseBranch *ast.Scope
		if top.ifHasElse {
			es := (*scopes)[len(*scopes)-1]
			*scopes = (*scopes)[:len(*scopes)-1]
			elseBranch = &es
		}
		thenBranch := (*scopes)[len(*scopes)-1]
		*scopes = (*scopes)[:len(*scopes)-1]

		stmt := ast.IfElse{
			Not:        top.ifNot,
			Cond:       top.ifCond,
			ThenBranch: thenBranch,
			ElseBranch: elseBranch,
			Span:       top.ifSpan.Combine(fullSpan),
		}
		parent := len(*scopes) - 1
		(*scopes)[parent].Stmts = append((*scopes)[parent].Stmts, stmt)
		return nil

	case blockFor:
		*blocks = append(*blocks, frame{kind: frameFor, forVars: blk.forVars, forIterable: blk.forIterable, forSpan: fullSpan})
		*scopes = append(*scopes, ast.Scope{})
		return nil

	case blockEndFor:
		if len(*blocks) == 0 || (*blocks)[len(*blocks)-1].kind != frameFor {
			return p.errUnexpectedKeyword("endfor", fullSpan)
		}
		top := (*blocks)[len(*blocks)-1]
		*blocks = (*blocks)[:len(*blocks)-1]
		body := (*scopes)[len(*scopes)-1]
		*scopes = (*scopes)[:len(*scopes)-1]

		stmt := ast.ForLoop{
			Vars:     top.forVars,
			Iterable: top.forIterable,
			Body:     body,
			Span:     top.forSpan.Combine(fullSpan),
		}
		parent := len(*scopes) - 1
		(*scopes)[parent].Stmts = append((*scopes)[parent].Stmts, stmt)
		return nil

	case blockWith:
		*blocks = append(*blocks, frame{kind: frameWith, withExpr: blk.withExpr, withName: blk.withName, withSpan: fullSpan})
		*scopes = append(*scopes, ast.Scope{})
		return nil

	case blockEndWith:
		if len(*blocks) == 0 || (*blocks)[len(*blocks)-1].kind != frameWith {
			return p.errUnexpectedKeyword("endwith", fullSpan)
		}
		top := (*blocks)[len(*blocks)-1]
		*blocks = (*blocks)[:len(*blocks)-1]
		body := (*scopes)[len(*scopes)-1]
		*scopes = (*scopes)[:len(*scopes)-1]

		stmt := ast.With{
			Expr: top.withExpr,
			Name: top.withName,
			Body: body,
			Span: top.withSpan.Combine(fullSpan),
		}
		parent := len(*scopes) - 1
		(*scopes)[parent].Stmts = append((*scopes)[parent].Stmts, stmt)
		return nil

	case blockInclude:
		parent := len(*scopes) - 1
		(*scopes)[parent].Stmts = append((*scopes)[parent].Stmts, ast.Include{
			Name:    blk.includeName,
			Globals: blk.includeGlobals,
			Span:    fullSpan,
		})
		return nil
	}
	return fmt.Errorf("parser: unreachable block kind")
}

func (p *Parser) errUnclosedFrame(f frame) error {
	switch f.kind {
	case frameIf:
		return weaveerr.Syntax(p.source, f.ifSpan, "unclosed `if` block")
	case frameFor:
		return weaveerr.Syntax(p.source, f.forSpan, "unclosed `for` block")
	default:
		return weaveerr.Syntax(p.source, f.withSpan, "unclosed `with` block")
	}
}

func (p *Parser) errUnexpectedEOF(want token.Kind) error {
	return weaveerr.Syntax(p.source, span.New(len(p.source), len(p.source)), "expected "+want.Human()+", found end of input")
}

func (p *Parser) errUnexpectedToken(want token.Kind, got token.Token) error {
	return weaveerr.Syntax(p.source, got.Span, fmt.Sprintf("expected %s, found %s", want.Human(), got.Kind.Human()))
}

func (p *Parser) errUnexpectedTokenSpan(got token.Token) error {
	return weaveerr.Syntax(p.source, got.Span, "unexpected "+got.Kind.Human())
}

func (p *Parser) errUnexpectedKeyword(kw string, sp span.Span) error {
	return weaveerr.Syntax(p.source, sp, "unexpected keyword `"+kw+"`")
}
