package builtins

import (
	"strings"
	"testing"

	"github.com/aledsdavies/weave/interp"
	"github.com/aledsdavies/weave/value"
)

func TestRegisterAddsAllFive(t *testing.T) {
	fns := map[string]interp.Function{}
	Register(fns)
	for _, name := range []string{"upper", "lower", "append", "default", "json"} {
		if _, ok := fns[name]; !ok {
			t.Fatalf("missing builtin %q", name)
		}
	}
}

func TestUpperLower(t *testing.T) {
	u, err := upperFilter(value.String("ada"), nil)
	if err != nil || u.AsString() != "ADA" {
		t.Fatalf("upper: got %v, %v", u, err)
	}
	l, err := lowerFilter(value.String("ADA"), nil)
	if err != nil || l.AsString() != "ada" {
		t.Fatalf("lower: got %v, %v", l, err)
	}
}

func TestAppend(t *testing.T) {
	out, err := appendFilter(value.String("hi"), []value.Value{value.String("!")})
	if err != nil || out.AsString() != "hi!" {
		t.Fatalf("got %v, %v", out, err)
	}
	if _, err := appendFilter(value.String("hi"), nil); err == nil {
		t.Fatal("expected error with missing argument")
	}
}

func TestDefault(t *testing.T) {
	out, err := defaultFilter(value.None, []value.Value{value.String("anon")})
	if err != nil || out.AsString() != "anon" {
		t.Fatalf("got %v, %v", out, err)
	}
	out2, err := defaultFilter(value.String("set"), []value.Value{value.String("anon")})
	if err != nil || out2.AsString() != "set" {
		t.Fatalf("got %v, %v", out2, err)
	}
}

func TestJSONFormatter(t *testing.T) {
	v := value.Map(map[string]value.Value{
		"b": value.Integer(2),
		"a": value.List([]value.Value{value.String("x")}),
	})
	var b strings.Builder
	if err := jsonFormatter(&b, v); err != nil {
		t.Fatalf("format: %v", err)
	}
	if b.String() != `{"a":["x"],"b":2}` {
		t.Fatalf("got %q", b.String())
	}
}
