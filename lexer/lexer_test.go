package lexer

import (
	"testing"

	"github.com/aledsdavies/weave/syntax"
	"github.com/aledsdavies/weave/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, source string) []token.Kind {
	t.Helper()
	l := New(syntax.Default(), source)
	var kinds []token.Kind
	for {
		tok, ok, err := l.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestRawOnly(t *testing.T) {
	assert.Equal(t, []token.Kind{token.Raw}, collect(t, "hello world"))
}

func TestEmpty(t *testing.T) {
	assert.Nil(t, collect(t, ""))
}

func TestBeginExpr(t *testing.T) {
	got := collect(t, "hi {{ name }} bye")
	want := []token.Kind{token.Raw, token.BeginExpr, token.Ident, token.EndExpr, token.Raw}
	assert.Equal(t, want, got)
}

func TestDottedPath(t *testing.T) {
	got := collect(t, "{{ a.b?.c }}")
	want := []token.Kind{
		token.BeginExpr, token.Ident, token.Dot, token.Ident,
		token.QuestionDot, token.Ident, token.EndExpr,
	}
	assert.Equal(t, want, got)
}

func TestIndexPath(t *testing.T) {
	got := collect(t, "{{ items.0.name }}")
	want := []token.Kind{
		token.BeginExpr, token.Ident, token.Dot, token.Index,
		token.Dot, token.Ident, token.EndExpr,
	}
	assert.Equal(t, want, got)
}

func TestFilterPipe(t *testing.T) {
	got := collect(t, "{{ name | upper }}")
	want := []token.Kind{token.BeginExpr, token.Ident, token.Pipe, token.Ident, token.EndExpr}
	assert.Equal(t, want, got)
}

func TestBeginBlockIfKeyword(t *testing.T) {
	got := collect(t, "{% if cond %}x{% endif %}")
	want := []token.Kind{
		token.BeginBlock, token.Keyword, token.Ident, token.EndBlock,
		token.Raw,
		token.BeginBlock, token.Keyword, token.EndBlock,
	}
	assert.Equal(t, want, got)
}

func TestTrimRight(t *testing.T) {
	got := collect(t, "a   {{- x }}")
	want := []token.Kind{token.Raw, token.BeginExpr, token.Ident, token.EndExpr}
	assert.Equal(t, want, got)

	l := New(syntax.Default(), "a   {{- x }}")
	tok, _, _ := l.Next()
	require.Equal(t, token.Raw, tok.Kind)
	assert.Equal(t, "a", "a   {{- x }}"[tok.Span.Start:tok.Span.End])
}

func TestTrimLeft(t *testing.T) {
	l := New(syntax.Default(), "{{ x -}}   b")
	var last token.Token
	for {
		tok, ok, err := l.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		last = tok
	}
	assert.Equal(t, token.Raw, last.Kind)
	source := "{{ x -}}   b"
	assert.Equal(t, "b", source[last.Span.Start:last.Span.End])
}

func TestCommentIsOpaque(t *testing.T) {
	got := collect(t, "a{# this {{ is ignored #}b")
	want := []token.Kind{
		token.Raw, token.BeginComment, token.Raw, token.EndComment, token.Raw,
	}
	assert.Equal(t, want, got)
}

func TestCommentUnclosed(t *testing.T) {
	l := New(syntax.Default(), "{# never closed")
	_, _, err := l.Next()
	require.NoError(t, err)
	_, _, err = l.Next()
	require.Error(t, err)
}

func TestUnclosedBlock(t *testing.T) {
	l := New(syntax.Default(), "{% if x")
	for i := 0; i < 3; i++ {
		_, _, err := l.Next()
		require.NoError(t, err)
	}
	_, _, err := l.Next()
	require.Error(t, err)
}

func TestStringLiteral(t *testing.T) {
	got := collect(t, `{{ "hi" }}`)
	want := []token.Kind{token.BeginExpr, token.String, token.EndExpr}
	assert.Equal(t, want, got)
}

func TestNumberLiteral(t *testing.T) {
	got := collect(t, "{{ 42 }}")
	want := []token.Kind{token.BeginExpr, token.Number, token.EndExpr}
	assert.Equal(t, want, got)
}
