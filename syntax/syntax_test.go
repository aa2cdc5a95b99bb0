package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPatterns(t *testing.T) {
	s := Default()
	assert.Equal(t, "{{", s.Pattern(BeginExpr))
	assert.Equal(t, "}}", s.Pattern(EndExpr))
	assert.Equal(t, "{{-", s.Pattern(BeginExprTrim))
	assert.Equal(t, "-}}", s.Pattern(EndExprTrim))
	assert.Equal(t, "{%", s.Pattern(BeginBlock))
	assert.Equal(t, "{#", s.Pattern(BeginComment))
}

func TestBuilderRejectsEmptyDelimiter(t *testing.T) {
	_, err := NewBuilder().Expr("", "}}").Build()
	require.Error(t, err)
}

func TestSearcherFindsNearestTag(t *testing.T) {
	s := Default()
	m, ok := s.Searcher().FindAt("hello {{ name }} bye", 0)
	require.True(t, ok)
	assert.Equal(t, BeginExpr, m.Kind)
	assert.Equal(t, 6, m.Start)
	assert.Equal(t, 8, m.End)
}

func TestSearcherPrefersTrimVariant(t *testing.T) {
	s := Default()
	m, ok := s.Searcher().StartsWith("{{- name -}}", 0)
	require.True(t, ok)
	assert.Equal(t, BeginExprTrim, m.Kind)
	assert.Equal(t, 3, m.End)
}

func TestCustomDelimiters(t *testing.T) {
	s, err := NewBuilder().Expr("<<", ">>").Build()
	require.NoError(t, err)
	m, ok := s.Searcher().StartsWith("<< x >>", 0)
	require.True(t, ok)
	assert.Equal(t, BeginExpr, m.Kind)
}
