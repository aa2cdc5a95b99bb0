package weaveerr

import (
	"testing"

	"github.com/aledsdavies/weave/internal/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	e := New(KindSyntax, "unexpected token")
	assert.Equal(t, "unexpected token", e.Error())
}

func TestPrettyPrintsCaret(t *testing.T) {
	source := "hello {{ nam }} world"
	e := Syntax(source, span.New(9, 12), "not found in this scope")
	out := e.Pretty()
	assert.Contains(t, out, "hello {{ nam }} world")
	assert.Contains(t, out, "^^^")
	assert.Contains(t, out, "not found in this scope")
}

func TestSuggestFindsCloseMatch(t *testing.T) {
	msg := Suggest("unknown filter", "uper", []string{"upper", "lower", "append"})
	assert.Contains(t, msg, "did you mean")
	assert.Contains(t, msg, "upper")
}

func TestSuggestNoCloseMatch(t *testing.T) {
	msg := Suggest("unknown filter", "zzzzzzz", []string{"upper", "lower"})
	assert.Equal(t, "unknown filter", msg)
}

func TestWrapUnwraps(t *testing.T) {
	cause := assertErr{}
	e := Wrap(KindIO, cause)
	require.ErrorIs(t, e, cause)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
