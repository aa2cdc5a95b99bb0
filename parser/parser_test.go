package parser

import (
	"testing"

	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawAndExpr(t *testing.T) {
	tmpl, err := Parse(syntax.Default(), "hi {{ name }}!")
	require.NoError(t, err)
	require.Len(t, tmpl.Scope.Stmts, 3)
	assert.IsType(t, ast.Raw{}, tmpl.Scope.Stmts[0])
	assert.IsType(t, ast.InlineExpr{}, tmpl.Scope.Stmts[1])
	assert.IsType(t, ast.Raw{}, tmpl.Scope.Stmts[2])
}

func TestParseIfElseNesting(t *testing.T) {
	tmpl, err := Parse(syntax.Default(), "{% if a %}{% if b %}x{% endif %}{% else %}y{% endif %}")
	require.NoError(t, err)
	require.Len(t, tmpl.Scope.Stmts, 1)
	outer, ok := tmpl.Scope.Stmts[0].(ast.IfElse)
	require.True(t, ok)
	require.NotNil(t, outer.ElseBranch)
	require.Len(t, outer.ThenBranch.Stmts, 1)
	assert.IsType(t, ast.IfElse{}, outer.ThenBranch.Stmts[0])
}

func TestParseForKeyValue(t *testing.T) {
	tmpl, err := Parse(syntax.Default(), "{% for k, v in m %}{% endfor %}")
	require.NoError(t, err)
	loop, ok := tmpl.Scope.Stmts[0].(ast.ForLoop)
	require.True(t, ok)
	require.NotNil(t, loop.Vars.Key)
	require.NotNil(t, loop.Vars.Value)
	assert.Equal(t, "k", loop.Vars.Key.Raw)
	assert.Equal(t, "v", loop.Vars.Value.Raw)
}

func TestParseIncludeWith(t *testing.T) {
	tmpl, err := Parse(syntax.Default(), `{% include "partial" with user %}`)
	require.NoError(t, err)
	inc, ok := tmpl.Scope.Stmts[0].(ast.Include)
	require.True(t, ok)
	assert.Equal(t, "partial", inc.Name.Value)
	assert.NotNil(t, inc.Globals)
}

func TestParseUnclosedIfErrors(t *testing.T) {
	_, err := Parse(syntax.Default(), "{% if a %}x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed")
}

func TestParseMismatchedEndForErrors(t *testing.T) {
	_, err := Parse(syntax.Default(), "{% if a %}x{% endfor %}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endfor")
}

func TestParseStrayElseErrors(t *testing.T) {
	_, err := Parse(syntax.Default(), "{% else %}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "else")
}

func TestParseDoubleElseErrors(t *testing.T) {
	_, err := Parse(syntax.Default(), "{% if a %}x{% else %}y{% else %}z{% endif %}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "else")
}

func TestParseOptionalAccessPath(t *testing.T) {
	tmpl, err := Parse(syntax.Default(), "{{ user?.name.first }}")
	require.NoError(t, err)
	expr, ok := tmpl.Scope.Stmts[0].(ast.InlineExpr)
	require.True(t, ok)
	v, ok := expr.Expr.(ast.Var)
	require.True(t, ok)
	require.Len(t, v.Path, 3)
	assert.Equal(t, ast.AccessDirect, v.Path[0].Op)
	assert.Equal(t, ast.AccessOptional, v.Path[1].Op)
	assert.Equal(t, ast.AccessDirect, v.Path[2].Op)
}
