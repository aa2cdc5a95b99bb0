package interp

import (
	"strings"
	"testing"

	"github.com/aledsdavies/weave/compiler"
	"github.com/aledsdavies/weave/parser"
	"github.com/aledsdavies/weave/program"
	"github.com/aledsdavies/weave/syntax"
	"github.com/aledsdavies/weave/value"
)

func render(t *testing.T, src string, globals value.Value, cfg *Config) string {
	t.Helper()
	ast, err := parser.Parse(syntax.Default(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog := compiler.Compile(ast)
	if cfg == nil {
		cfg = &Config{}
	}
	var b strings.Builder
	if err := Render(prog, globals, &b, cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestRenderRawAndExpr(t *testing.T) {
	globals := value.Map(map[string]value.Value{"name": value.String("Ada")})
	got := render(t, "Hello, {{ name }}!", globals, nil)
	if got != "Hello, Ada!" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderIfElse(t *testing.T) {
	cfg := &Config{}
	globals := value.Map(map[string]value.Value{"ok": value.Bool(true)})
	got := render(t, "{% if ok %}yes{% else %}no{% endif %}", globals, cfg)
	if got != "yes" {
		t.Fatalf("got %q", got)
	}

	globals2 := value.Map(map[string]value.Value{"ok": value.Bool(false)})
	got2 := render(t, "{% if ok %}yes{% else %}no{% endif %}", globals2, cfg)
	if got2 != "no" {
		t.Fatalf("got %q", got2)
	}
}

func TestRenderIfNot(t *testing.T) {
	globals := value.Map(map[string]value.Value{"ok": value.Bool(false)})
	got := render(t, "{% if not ok %}yes{% endif %}", globals, nil)
	if got != "yes" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderForList(t *testing.T) {
	globals := value.Map(map[string]value.Value{
		"items": value.List([]value.Value{value.String("a"), value.String("b"), value.String("c")}),
	})
	got := render(t, "{% for x in items %}{{ x }},{% endfor %}", globals, nil)
	if got != "a,b,c," {
		t.Fatalf("got %q", got)
	}
}

func TestRenderForMap(t *testing.T) {
	globals := value.Map(map[string]value.Value{
		"m": value.Map(map[string]value.Value{"b": value.Integer(2), "a": value.Integer(1)}),
	})
	got := render(t, "{% for k, v in m %}{{ k }}={{ v }};{% endfor %}", globals, nil)
	if got != "a=1;b=2;" {
		t.Fatalf("got %q (expected deterministic key-sorted order)", got)
	}
}

func TestRenderWith(t *testing.T) {
	globals := value.Map(map[string]value.Value{
		"user": value.Map(map[string]value.Value{"name": value.String("Grace")}),
	})
	got := render(t, "{% with user as u %}{{ u.name }}{% endwith %}", globals, nil)
	if got != "Grace" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderInclude(t *testing.T) {
	partialAST, err := parser.Parse(syntax.Default(), "partial:{{ name }}")
	if err != nil {
		t.Fatalf("parse partial: %v", err)
	}
	partial := compiler.Compile(partialAST)

	cfg := &Config{Templates: map[string]*program.Template{"partial": partial}}
	globals := value.Map(map[string]value.Value{"name": value.String("X")})
	got := render(t, `before {% include "partial" %} after`, globals, cfg)
	if got != "before partial:X after" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderIncludeWithIsolated(t *testing.T) {
	partialAST, err := parser.Parse(syntax.Default(), "{{ inner }}")
	if err != nil {
		t.Fatalf("parse partial: %v", err)
	}
	partial := compiler.Compile(partialAST)

	cfg := &Config{Templates: map[string]*program.Template{"p": partial}}
	globals := value.Map(map[string]value.Value{
		"inner": value.String("outer-should-not-leak"),
		"data":  value.Map(map[string]value.Value{"inner": value.String("scoped")}),
	})
	got := render(t, `{% include "p" with data %}`, globals, cfg)
	if got != "scoped" {
		t.Fatalf("got %q, include-with must not see the outer scope", got)
	}
}

func TestRenderFilterApply(t *testing.T) {
	cfg := &Config{Functions: map[string]Function{
		"upper": {Filter: func(v value.Value, args []value.Value) (value.Value, error) {
			return value.String(strings.ToUpper(v.AsString())), nil
		}},
	}}
	globals := value.Map(map[string]value.Value{"name": value.String("ada")})
	got := render(t, "{{ name | upper }}", globals, cfg)
	if got != "ADA" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderUnknownFilterSuggestsName(t *testing.T) {
	cfg := &Config{Functions: map[string]Function{
		"upper": {Filter: func(v value.Value, args []value.Value) (value.Value, error) { return v, nil }},
	}}
	ast, err := parser.Parse(syntax.Default(), "{{ name | upperr }}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog := compiler.Compile(ast)
	globals := value.Map(map[string]value.Value{"name": value.String("ada")})
	var b strings.Builder
	renderErr := Render(prog, globals, &b, cfg)
	if renderErr == nil {
		t.Fatal("expected an unknown-filter error")
	}
	if !strings.Contains(renderErr.Error(), `did you mean "upper"`) {
		t.Fatalf("expected suggestion to mention %q, got %q", "upper", renderErr.Error())
	}
}

func TestRenderOptionalAccessMiss(t *testing.T) {
	globals := value.Map(map[string]value.Value{"user": value.Map(map[string]value.Value{})})
	got := render(t, "{{ user?.nickname }}", globals, nil)
	if got != "" {
		t.Fatalf("got %q, want empty output for propagated None", got)
	}
}

func TestRenderDirectAccessMissErrors(t *testing.T) {
	ast, err := parser.Parse(syntax.Default(), "{{ user.nickname }}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog := compiler.Compile(ast)
	globals := value.Map(map[string]value.Value{"user": value.Map(map[string]value.Value{})})
	var b strings.Builder
	if err := Render(prog, globals, &b, &Config{}); err == nil {
		t.Fatal("expected a hard lookup error for direct access miss")
	}
}

func TestRenderMaxIncludeDepthExceeded(t *testing.T) {
	selfAST, err := parser.Parse(syntax.Default(), `{% include "self" %}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	self := compiler.Compile(selfAST)
	cfg := &Config{Templates: map[string]*program.Template{"self": self}, MaxIncludeDepth: 3}
	var b strings.Builder
	if err := Render(self, value.None, &b, cfg); err == nil {
		t.Fatal("expected max include depth error")
	}
}
