package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/internal/span"
	"github.com/aledsdavies/weave/token"
	"github.com/aledsdavies/weave/weaveerr"
)

func (p *Parser) parseKeyword() (token.Keyword, error) {
	tok, err := p.expect(token.Keyword)
	if err != nil {
		return 0, err
	}
	raw := tok.Span.Slice(p.source)
	kw, ok := token.Lookup(raw)
	if !ok {
		return 0, weaveerr.Syntax(p.source, tok.Span, "unknown keyword")
	}
	return kw, nil
}

func (p *Parser) expectKeyword(want token.Keyword) (token.Token, error) {
	tok, err := p.expect(token.Keyword)
	if err != nil {
		return token.Token{}, err
	}
	raw := tok.Span.Slice(p.source)
	kw, ok := token.Lookup(raw)
	if !ok || kw != want {
		return token.Token{}, weaveerr.Syntax(p.source, tok.Span, fmt.Sprintf("expected keyword `%s`, found `%s`", want, raw))
	}
	return tok, nil
}

func (p *Parser) isNextKeyword(want token.Keyword) (bool, error) {
	tok, ok, err := p.peekTok()
	if err != nil || !ok || tok.Kind != token.Keyword {
		return false, err
	}
	kw, ok2 := token.Lookup(tok.Span.Slice(p.source))
	return ok2 && kw == want, nil
}

func (p *Parser) parseIdent() (ast.Ident, error) {
	tok, err := p.expect(token.Ident)
	if err != nil {
		return ast.Ident{}, err
	}
	return ast.Ident{Raw: tok.Span.Slice(p.source), Span: tok.Span}, nil
}

func (p *Parser) parseStringLiteralNode() (ast.String, error) {
	tok, err := p.expect(token.String)
	if err != nil {
		return ast.String{}, err
	}
	val, err := p.unescapeString(tok.Span)
	if err != nil {
		return ast.String{}, err
	}
	return ast.String{Value: val, Span: tok.Span}, nil
}

// parseExpr parses a variable-or-literal base expression followed by
// zero or more left-associative `| name` / `| name: args` filter
// applications, grounded on upon's compile/parse.rs::parse_expr.
func (p *Parser) parseExpr() (ast.Expr, error) {
	expr, err := p.parseBaseExpr()
	if err != nil {
		return nil, err
	}

	for {
		isPipe, err := p.isNext(token.Pipe)
		if err != nil {
			return nil, err
		}
		if !isPipe {
			break
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		callSpan := name.Span.Combine(expr.ExprSpan())

		var args *ast.Args
		isColon, err := p.isNext(token.Colon)
		if err != nil {
			return nil, err
		}
		if isColon {
			colonTok, err := p.expect(token.Colon)
			if err != nil {
				return nil, err
			}
			a, err := p.parseArgs(colonTok.Span)
			if err != nil {
				return nil, err
			}
			args = a
			callSpan = callSpan.Combine(a.Span)
		}

		expr = ast.Call{Name: name, Args: args, Receiver: expr, Span: callSpan}
	}

	return expr, nil
}

func (p *Parser) parseBaseExpr() (ast.Expr, error) {
	isIdent, err := p.isNext(token.Ident)
	if err != nil {
		return nil, err
	}
	if isIdent {
		v, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseVar() (ast.Var, error) {
	first, err := p.parseIdentOrIndex()
	if err != nil {
		return ast.Var{}, err
	}
	path := []ast.Member{first}
	last := first

	for {
		var op ast.AccessOp
		isDot, err := p.isNext(token.Dot)
		if err != nil {
			return ast.Var{}, err
		}
		isQDot := false
		if !isDot {
			isQDot, err = p.isNext(token.QuestionDot)
			if err != nil {
				return ast.Var{}, err
			}
		}
		if !isDot && !isQDot {
			break
		}
		if isDot {
			op = ast.AccessDirect
		} else {
			op = ast.AccessOptional
		}
		if _, err := p.next(); err != nil {
			return ast.Var{}, err
		}
		next, err := p.parseIdentOrIndexWithOp(op)
		if err != nil {
			return ast.Var{}, err
		}
		path = append(path, next)
		last = next
	}

	return ast.Var{Path: path, Span: first.Span.Combine(last.Span)}, nil
}

func (p *Parser) parseIdentOrIndex() (ast.Member, error) {
	return p.parseIdentOrIndexWithOp(ast.AccessDirect)
}

func (p *Parser) parseIdentOrIndexWithOp(op ast.AccessOp) (ast.Member, error) {
	tok, ok, err := p.next()
	if err != nil {
		return ast.Member{}, err
	}
	if !ok {
		return ast.Member{}, p.errUnexpectedEOF(token.Ident)
	}
	switch tok.Kind {
	case token.Index:
		n, convErr := strconv.Atoi(tok.Span.Slice(p.source))
		if convErr != nil {
			return ast.Member{}, weaveerr.Syntax(p.source, tok.Span, "invalid index literal")
		}
		return ast.Member{Kind: ast.MemberIndex, Index: n, Op: op, Span: tok.Span}, nil
	case token.Ident:
		return ast.Member{Kind: ast.MemberKey, Name: tok.Span.Slice(p.source), Op: op, Span: tok.Span}, nil
	default:
		return ast.Member{}, p.errUnexpectedToken(token.Ident, tok)
	}
}

func (p *Parser) parseArgs(colonSpan span.Span) (*ast.Args, error) {
	var args []ast.Arg
	fullSpan := colonSpan

	for {
		isIdent, err := p.isNext(token.Ident)
		if err != nil {
			return nil, err
		}
		var arg ast.Arg
		if isIdent {
			v, err := p.parseVar()
			if err != nil {
				return nil, err
			}
			arg = ast.Arg{Var: &v}
			fullSpan = fullSpan.Combine(v.Span)
		} else {
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			lv := lit.(ast.Literal)
			arg = ast.Arg{Literal: &lv}
			fullSpan = fullSpan.Combine(lv.Span)
		}
		args = append(args, arg)

		isComma, err := p.isNext(token.Comma)
		if err != nil {
			return nil, err
		}
		if !isComma {
			break
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}

	return &ast.Args{Values: args, Span: fullSpan}, nil
}

func (p *Parser) parseLiteral() (ast.Expr, error) {
	tok, ok, err := p.peekTok()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.errUnexpectedEOF(token.Number)
	}

	switch tok.Kind {
	case token.Keyword:
		return p.parseBool()
	case token.Plus, token.Minus:
		sign := 1.0
		if tok.Kind == token.Minus {
			sign = -1.0
		}
		startSpan := tok.Span
		if _, err := p.next(); err != nil {
			return nil, err
		}
		numTok, err := p.expect(token.Number)
		if err != nil {
			return nil, err
		}
		return p.parseNumber(numTok.Span.Slice(p.source), startSpan.Combine(numTok.Span), sign)
	case token.Number:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return p.parseNumber(tok.Span.Slice(p.source), tok.Span, 1.0)
	case token.String:
		str, err := p.parseStringLiteralNode()
		if err != nil {
			return nil, err
		}
		return ast.Literal{Kind: ast.LiteralString, Str: str.Value, Span: str.Span}, nil
	default:
		return nil, p.errUnexpectedTokenSpan(tok)
	}
}

func (p *Parser) parseBool() (ast.Expr, error) {
	tok, err := p.expect(token.Keyword)
	if err != nil {
		return nil, err
	}
	raw := tok.Span.Slice(p.source)
	switch raw {
	case "true":
		return ast.Literal{Kind: ast.LiteralBool, Bool: true, Span: tok.Span}, nil
	case "false":
		return ast.Literal{Kind: ast.LiteralBool, Bool: false, Span: tok.Span}, nil
	default:
		return nil, weaveerr.Syntax(p.source, tok.Span, "unexpected keyword `"+raw+"`")
	}
}

func (p *Parser) parseNumber(raw string, sp span.Span, sign float64) (ast.Expr, error) {
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, weaveerr.Syntax(p.source, sp, "invalid float literal")
		}
		return ast.Literal{Kind: ast.LiteralFloat, Float: sign * f, Span: sp}, nil
	}
	base := 10
	digits := raw
	switch {
	case strings.HasPrefix(raw, "0b"), strings.HasPrefix(raw, "0B"):
		base, digits = 2, raw[2:]
	case strings.HasPrefix(raw, "0o"), strings.HasPrefix(raw, "0O"):
		base, digits = 8, raw[2:]
	case strings.HasPrefix(raw, "0x"), strings.HasPrefix(raw, "0X"):
		base, digits = 16, raw[2:]
	}
	digits = strings.ReplaceAll(digits, "_", "")
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return nil, weaveerr.Syntax(p.source, sp, fmt.Sprintf("invalid digit for base %d literal", base))
	}
	return ast.Literal{Kind: ast.LiteralInteger, Int: int64(sign) * n, Span: sp}, nil
}

// unescapeString decodes a lexed string token's quoted source text into
// its literal value, grounded on upon's compile/parse.rs::parse_string.
func (p *Parser) unescapeString(sp span.Span) (string, error) {
	raw := sp.Slice(p.source)
	inner := raw[1 : len(raw)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner, nil
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(inner) {
			return "", weaveerr.Syntax(p.source, sp, "unknown escape character")
		}
		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			return "", weaveerr.Syntax(p.source, sp, "unknown escape character")
		}
	}
	return b.String(), nil
}
