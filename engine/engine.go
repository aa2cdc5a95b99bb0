// Package engine is weave's public entry point: it owns the delimiter
// Syntax, the compiled-template table, the filter/formatter registry,
// and the default formatter, and hands out TemplateHandles that render
// against that configuration. Grounded on spec.md §6's Engine surface
// and the functional-options constructor idiom of
// opal-lang-opal/core/types/validation.go's NewValidator and
// runtime/parser's ParserOpt.
package engine

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aledsdavies/weave/compiler"
	"github.com/aledsdavies/weave/interp"
	"github.com/aledsdavies/weave/parser"
	"github.com/aledsdavies/weave/program"
	"github.com/aledsdavies/weave/schema"
	"github.com/aledsdavies/weave/syntax"
	"github.com/aledsdavies/weave/value"
	"github.com/aledsdavies/weave/weaveerr"
)

// Engine is immutable once templates have been added for rendering; it
// may be shared by reference across goroutines, but compiling new
// templates concurrently requires external synchronization (spec.md §5).
type Engine struct {
	syntax    *syntax.Syntax
	maxDepth  int
	logger    *slog.Logger
	formatter value.FormatFunc

	mu            sync.RWMutex
	templates     map[string]*program.Template
	functions     map[string]interp.Function
	globalsSchema *schema.Validator
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSyntax sets the delimiter configuration. Defaults to syntax.Default().
func WithSyntax(s *syntax.Syntax) Option {
	return func(e *Engine) { e.syntax = s }
}

// WithMaxIncludeDepth sets the include-nesting limit. Defaults to 64.
func WithMaxIncludeDepth(n int) Option {
	return func(e *Engine) { e.maxDepth = n }
}

// WithLogger attaches a structured logger for diagnostic tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDefaultFormatter sets the formatter used for bare `{{ expr }}`
// emission. Defaults to value.DefaultFormat.
func WithDefaultFormatter(f value.FormatFunc) Option {
	return func(e *Engine) { e.formatter = f }
}

// WithGlobalsSchema attaches a schema.Validator that every RenderTo call
// checks the render globals against before interpretation begins.
func WithGlobalsSchema(v *schema.Validator) Option {
	return func(e *Engine) { e.globalsSchema = v }
}

// New constructs an Engine, applying opts over the default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		syntax:    syntax.Default(),
		maxDepth:  64,
		logger:    slog.Default(),
		templates: map[string]*program.Template{},
		functions: map[string]interp.Function{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddTemplate parses and compiles source under name, storing the result
// for later lookup via GetTemplate or `{% include %}`.
func (e *Engine) AddTemplate(name, source string) (*TemplateHandle, error) {
	tmpl, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.templates[name] = tmpl
	e.mu.Unlock()
	e.logger.Debug("engine: added template", "name", name)
	return e.handleFor(tmpl), nil
}

// Compile parses and compiles source without storing it under any name.
func (e *Engine) Compile(source string) (*program.Template, error) {
	ast, err := parser.Parse(e.syntax, source)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(ast), nil
}

// GetTemplate returns a handle to a previously added template.
func (e *Engine) GetTemplate(name string) (*TemplateHandle, bool) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.handleFor(tmpl), true
}

// RemoveTemplate drops a previously added template.
func (e *Engine) RemoveTemplate(name string) {
	e.mu.Lock()
	delete(e.templates, name)
	e.mu.Unlock()
}

// AddFilter registers a named filter, usable both in `| name` filter
// chains and as a bare EmitWith target.
func (e *Engine) AddFilter(name string, fn interp.FilterFunc) {
	e.mu.Lock()
	e.functions[name] = interp.Function{Filter: fn}
	e.mu.Unlock()
}

// AddFormatter registers a named formatter, usable only as a bare
// EmitWith target (e.g. `{{ value | json }}`).
func (e *Engine) AddFormatter(name string, fn value.FormatFunc) {
	e.mu.Lock()
	e.functions[name] = interp.Function{Formatter: fn}
	e.mu.Unlock()
}

// RemoveFilter drops a previously registered filter or formatter.
func (e *Engine) RemoveFilter(name string) {
	e.mu.Lock()
	delete(e.functions, name)
	e.mu.Unlock()
}

// RemoveFormatter is an alias of RemoveFilter: filters and formatters
// share one namespace.
func (e *Engine) RemoveFormatter(name string) { e.RemoveFilter(name) }

// SetDefaultFormatter sets the formatter used for bare `{{ expr }}` emission.
func (e *Engine) SetDefaultFormatter(fn value.FormatFunc) {
	e.mu.Lock()
	e.formatter = fn
	e.mu.Unlock()
}

// SetGlobalsSchema attaches or clears (pass nil) the schema.Validator
// every RenderTo call checks render globals against.
func (e *Engine) SetGlobalsSchema(v *schema.Validator) {
	e.mu.Lock()
	e.globalsSchema = v
	e.mu.Unlock()
}

func (e *Engine) globalsValidator() *schema.Validator {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.globalsSchema
}

func (e *Engine) handleFor(tmpl *program.Template) *TemplateHandle {
	return &TemplateHandle{engine: e, tmpl: tmpl}
}

func (e *Engine) snapshotConfig() *interp.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	templates := make(map[string]*program.Template, len(e.templates))
	for k, v := range e.templates {
		templates[k] = v
	}
	functions := make(map[string]interp.Function, len(e.functions))
	for k, v := range e.functions {
		functions[k] = v
	}
	return &interp.Config{
		Templates:        templates,
		Functions:        functions,
		DefaultFormatter: e.formatter,
		MaxIncludeDepth:  e.maxDepth,
	}
}

// TemplateHandle renders one compiled Program against its owning
// Engine's registered templates, filters, and formatters.
type TemplateHandle struct {
	engine     *Engine
	tmpl       *program.Template
	templateFn func(name string) (*program.Template, bool)
}

// WithTemplateFn attaches a dynamic include-resolution fallback,
// consulted when `{% include %}` names a template not in the owning
// Engine's table. fn returns the named template's source text; it is
// compiled and cached on first use.
func (h *TemplateHandle) WithTemplateFn(fn func(name string) (string, bool)) *TemplateHandle {
	var mu sync.Mutex
	cache := map[string]*program.Template{}
	h.templateFn = func(name string) (*program.Template, bool) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := cache[name]; ok {
			return t, true
		}
		src, ok := fn(name)
		if !ok {
			return nil, false
		}
		t, err := h.engine.Compile(src)
		if err != nil {
			return nil, false
		}
		cache[name] = t
		return t, true
	}
	return h
}

// Render executes the template against globals and returns the output
// as a string.
func (h *TemplateHandle) Render(globals value.Value) (string, error) {
	var b bytes.Buffer
	if err := h.RenderTo(&b, globals); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderTo executes the template against globals, writing output to w.
// If the owning Engine has a globals schema attached (WithGlobalsSchema/
// SetGlobalsSchema), globals is validated against it before interpretation.
func (h *TemplateHandle) RenderTo(w io.Writer, globals value.Value) error {
	if v := h.engine.globalsValidator(); v != nil {
		if err := v.Validate(globals); err != nil {
			return weaveerr.Wrap(weaveerr.KindRender, err)
		}
	}
	cfg := h.engine.snapshotConfig()
	if h.templateFn != nil {
		cfg.TemplateFn = h.templateFn
	}
	sink := value.NewWriter(w)
	if err := interp.Render(h.tmpl, globals, sink, cfg); err != nil {
		if ioErr := sink.TakeErr(); ioErr != nil {
			return weaveerr.Wrap(weaveerr.KindIO, ioErr)
		}
		return err
	}
	return nil
}

func (e *Engine) String() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fmt.Sprintf("engine.Engine{templates=%d, functions=%d}", len(e.templates), len(e.functions))
}
