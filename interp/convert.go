package interp

import (
	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/value"
)

// pathOf converts an ast.Var's Member chain into a value.Access chain.
func pathOf(v ast.Var) []value.Access {
	out := make([]value.Access, len(v.Path))
	for i, m := range v.Path {
		out[i] = memberAccess(m)
	}
	return out
}

func memberAccess(m ast.Member) value.Access {
	op := value.AccessDirect
	if m.Op == ast.AccessOptional {
		op = value.AccessOptional
	}
	if m.Kind == ast.MemberIndex {
		return value.Access{Kind: value.AccessIndex, Index: m.Index, Op: op}
	}
	return value.Access{Kind: value.AccessKey, Key: m.Name, Op: op}
}

// literalValue converts an ast.Literal into its runtime value.Value.
func literalValue(l ast.Literal) value.Value {
	switch l.Kind {
	case ast.LiteralBool:
		return value.Bool(l.Bool)
	case ast.LiteralInteger:
		return value.Integer(l.Int)
	case ast.LiteralFloat:
		return value.Float(l.Float)
	case ast.LiteralString:
		return value.String(l.Str)
	default:
		return value.None
	}
}

// argValues evaluates a filter call's Args against the current variable
// stack, producing the positional value.Value slice a FilterFunc sees.
func argValues(args *ast.Args, lookup func(ast.Var) (value.Value, error)) ([]value.Value, error) {
	if args == nil {
		return nil, nil
	}
	out := make([]value.Value, len(args.Values))
	for i, a := range args.Values {
		if a.Var != nil {
			v, err := lookup(*a.Var)
			if err != nil {
				return nil, err
			}
			out[i] = v
		} else {
			out[i] = literalValue(*a.Literal)
		}
	}
	return out, nil
}
