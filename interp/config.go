// Package interp implements weave's stack-based bytecode interpreter:
// it walks a compiled program.Template's Instr stream against a scope
// stack of Scope/Var/Loop/Boundary frames, dispatching filters and
// formatters and handling nested includes. Grounded on upon's
// src/render/{core,stack,iter,value}.rs and the instruction-dispatch
// idiom of opal-lang-opal/runtime/execution/evaluator.go.
package interp

import (
	"sort"

	"github.com/aledsdavies/weave/program"
	"github.com/aledsdavies/weave/value"
)

// FilterFunc transforms a receiver value given zero or more positional
// arguments, e.g. `name | upper` or `name | append: "!"`.
type FilterFunc func(v value.Value, args []value.Value) (value.Value, error)

// Function is either a Filter (usable in an Apply or a bare EmitWith
// position) or a Formatter (usable only as a bare EmitWith formatter).
// Exactly one of the two is set.
type Function struct {
	Filter    FilterFunc
	Formatter value.FormatFunc
}

const defaultMaxIncludeDepth = 64

// Config bundles everything the interpreter needs beyond the compiled
// program and the render globals: the template table (plus an
// optional dynamic fallback), the filter/formatter registry, the
// default formatter, and the include-depth limit.
type Config struct {
	Templates        map[string]*program.Template
	TemplateFn       func(name string) (*program.Template, bool)
	Functions        map[string]Function
	DefaultFormatter value.FormatFunc
	MaxIncludeDepth  int
}

func (c *Config) lookupTemplate(name string) (*program.Template, bool) {
	if t, ok := c.Templates[name]; ok {
		return t, true
	}
	if c.TemplateFn != nil {
		return c.TemplateFn(name)
	}
	return nil, false
}

func (c *Config) templateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for n := range c.Templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Config) functionNames() []string {
	names := make([]string, 0, len(c.Functions))
	for n := range c.Functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Config) defaultFormat() value.FormatFunc {
	if c.DefaultFormatter != nil {
		return c.DefaultFormatter
	}
	return value.DefaultFormat
}

func (c *Config) maxDepth() int {
	if c.MaxIncludeDepth > 0 {
		return c.MaxIncludeDepth
	}
	return defaultMaxIncludeDepth
}
