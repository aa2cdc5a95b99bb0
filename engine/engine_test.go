package engine

import (
	"strings"
	"testing"

	"github.com/aledsdavies/weave/schema"
	"github.com/aledsdavies/weave/value"
)

func TestAddTemplateAndRender(t *testing.T) {
	e := New()
	h, err := e.AddTemplate("greeting", "Hello, {{ name }}!")
	if err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}
	out, err := h.Render(value.Map(map[string]value.Value{"name": value.String("Ada")}))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello, Ada!" {
		t.Fatalf("got %q", out)
	}
}

func TestGetTemplateRoundTrip(t *testing.T) {
	e := New()
	if _, err := e.AddTemplate("t", "x{{ n }}y"); err != nil {
		t.Fatal(err)
	}
	h, ok := e.GetTemplate("t")
	if !ok {
		t.Fatal("expected template to be found")
	}
	out, err := h.Render(value.Map(map[string]value.Value{"n": value.Integer(1)}))
	if err != nil {
		t.Fatal(err)
	}
	if out != "x1y" {
		t.Fatalf("got %q", out)
	}
}

func TestAddFilterAndRender(t *testing.T) {
	e := New()
	e.AddFilter("shout", func(v value.Value, args []value.Value) (value.Value, error) {
		return value.String(strings.ToUpper(v.AsString()) + "!"), nil
	})
	h, err := e.AddTemplate("t", "{{ name | shout }}")
	if err != nil {
		t.Fatal(err)
	}
	out, err := h.Render(value.Map(map[string]value.Value{"name": value.String("hi")}))
	if err != nil {
		t.Fatal(err)
	}
	if out != "HI!" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderToUsesIOWriter(t *testing.T) {
	e := New()
	h, err := e.AddTemplate("t", "hi")
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := h.RenderTo(&b, value.None); err != nil {
		t.Fatal(err)
	}
	if b.String() != "hi" {
		t.Fatalf("got %q", b.String())
	}
}

func TestIncludeAcrossTemplates(t *testing.T) {
	e := New()
	if _, err := e.AddTemplate("footer", "bye"); err != nil {
		t.Fatal(err)
	}
	h, err := e.AddTemplate("page", `hi {% include "footer" %}`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := h.Render(value.None)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hi bye" {
		t.Fatalf("got %q", out)
	}
}

func TestWithTemplateFnResolvesDynamically(t *testing.T) {
	e := New()
	h, err := e.AddTemplate("page", `hi {% include "dyn" %}`)
	if err != nil {
		t.Fatal(err)
	}
	h.WithTemplateFn(func(name string) (string, bool) {
		if name == "dyn" {
			return "dynamic-content", true
		}
		return "", false
	})
	out, err := h.Render(value.None)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hi dynamic-content" {
		t.Fatalf("got %q", out)
	}
}

func TestGlobalsSchemaRejectsInvalidGlobals(t *testing.T) {
	v, err := schema.New(map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"name"},
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
	})
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	e := New(WithGlobalsSchema(v))
	h, err := e.AddTemplate("t", "hi {{ name }}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Render(value.Map(map[string]value.Value{})); err == nil {
		t.Fatal("expected schema validation error for missing required field")
	}
	out, err := h.Render(value.Map(map[string]value.Value{"name": value.String("Ada")}))
	if err != nil {
		t.Fatalf("Render with valid globals: %v", err)
	}
	if out != "hi Ada" {
		t.Fatalf("got %q", out)
	}
}

func TestSetGlobalsSchemaClearsWithNil(t *testing.T) {
	v, err := schema.New(map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"name"},
	})
	if err != nil {
		t.Fatal(err)
	}
	e := New(WithGlobalsSchema(v))
	h, err := e.AddTemplate("t", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Render(value.Map(map[string]value.Value{})); err == nil {
		t.Fatal("expected schema validation error before clearing")
	}
	e.SetGlobalsSchema(nil)
	if _, err := h.Render(value.Map(map[string]value.Value{})); err != nil {
		t.Fatalf("expected no schema error after clearing, got %v", err)
	}
}

func TestRemoveTemplateAndFilter(t *testing.T) {
	e := New()
	if _, err := e.AddTemplate("t", "x"); err != nil {
		t.Fatal(err)
	}
	e.RemoveTemplate("t")
	if _, ok := e.GetTemplate("t"); ok {
		t.Fatal("expected template to be removed")
	}

	e.AddFilter("f", func(v value.Value, args []value.Value) (value.Value, error) { return v, nil })
	e.RemoveFilter("f")
	h, err := e.AddTemplate("t2", "{{ n | f }}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Render(value.Map(map[string]value.Value{"n": value.Integer(1)})); err == nil {
		t.Fatal("expected unknown-filter error after removal")
	}
}
