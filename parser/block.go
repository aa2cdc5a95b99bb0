package parser

import (
	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/internal/span"
	"github.com/aledsdavies/weave/token"
)

type blockKind int

const (
	blockIf blockKind = iota
	blockElse
	blockEndIf
	blockFor
	blockEndFor
	blockWith
	blockEndWith
	blockInclude
)

type parsedBlock struct {
	kind blockKind

	ifNot  bool
	ifCond ast.Expr

	forVars     ast.LoopVars
	forIterable ast.Expr

	withExpr ast.Expr
	withName ast.Ident

	includeName    ast.String
	includeGlobals ast.Expr
}

// parseBlock parses the content of a `{% ... %}` tag, dispatching on
// its leading keyword.
func (p *Parser) parseBlock() (parsedBlock, error) {
	kw, err := p.parseKeyword()
	if err != nil {
		return parsedBlock{}, err
	}

	switch kw {
	case token.KwIf:
		not, cond, err := p.parseIfCond()
		if err != nil {
			return parsedBlock{}, err
		}
		return parsedBlock{kind: blockIf, ifNot: not, ifCond: cond}, nil

	case token.KwElse:
		return parsedBlock{kind: blockElse}, nil

	case token.KwEndIf:
		return parsedBlock{kind: blockEndIf}, nil

	case token.KwFor:
		vars, err := p.parseLoopVars()
		if err != nil {
			return parsedBlock{}, err
		}
		if _, err := p.expectKeyword(token.KwIn); err != nil {
			return parsedBlock{}, err
		}
		iterable, err := p.parseExpr()
		if err != nil {
			return parsedBlock{}, err
		}
		return parsedBlock{kind: blockFor, forVars: vars, forIterable: iterable}, nil

	case token.KwEndFor:
		return parsedBlock{kind: blockEndFor}, nil

	case token.KwWith:
		expr, err := p.parseExpr()
		if err != nil {
			return parsedBlock{}, err
		}
		if _, err := p.expectKeyword(token.KwAs); err != nil {
			return parsedBlock{}, err
		}
		name, err := p.parseIdent()
		if err != nil {
			return parsedBlock{}, err
		}
		return parsedBlock{kind: blockWith, withExpr: expr, withName: name}, nil

	case token.KwEndWith:
		return parsedBlock{kind: blockEndWith}, nil

	case token.KwInclude:
		name, err := p.parseStringLiteralNode()
		if err != nil {
			return parsedBlock{}, err
		}
		var globals ast.Expr
		isWith, err := p.isNextKeyword(token.KwWith)
		if err != nil {
			return parsedBlock{}, err
		}
		if isWith {
			if _, err := p.next(); err != nil {
				return parsedBlock{}, err
			}
			globals, err = p.parseExpr()
			if err != nil {
				return parsedBlock{}, err
			}
		}
		return parsedBlock{kind: blockInclude, includeName: name, includeGlobals: globals}, nil

	default:
		return parsedBlock{}, p.errUnexpectedKeyword(kw.String(), span.Span{})
	}
}

func (p *Parser) parseIfCond() (bool, ast.Expr, error) {
	isNot, err := p.isNextKeyword(token.KwNot)
	if err != nil {
		return false, nil, err
	}
	if isNot {
		if _, err := p.next(); err != nil {
			return false, nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return false, nil, err
		}
		return true, expr, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return false, nil, err
	}
	return false, expr, nil
}

func (p *Parser) parseLoopVars() (ast.LoopVars, error) {
	first, err := p.parseIdent()
	if err != nil {
		return ast.LoopVars{}, err
	}
	isComma, err := p.isNext(token.Comma)
	if err != nil {
		return ast.LoopVars{}, err
	}
	if !isComma {
		return ast.LoopVars{Item: &first, Span: first.Span}, nil
	}
	if _, err := p.next(); err != nil {
		return ast.LoopVars{}, err
	}
	second, err := p.parseIdent()
	if err != nil {
		return ast.LoopVars{}, err
	}
	return ast.LoopVars{Key: &first, Value: &second, Span: first.Span.Combine(second.Span)}, nil
}
