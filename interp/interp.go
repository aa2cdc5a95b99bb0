package interp

import (
	"fmt"

	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/program"
	"github.com/aledsdavies/weave/value"
	"github.com/aledsdavies/weave/weaveerr"
)

// Render executes tmpl against globals, writing all output to sink.
// Grounded on upon's render/mod.rs::TemplateRender::render_impl: an
// outer driver owns a stack of active template frames (one per nested
// include), each drained instruction-by-instruction by renderOne until
// it finishes or itself asks for a nested include.
func Render(tmpl *program.Template, globals value.Value, sink value.Sink, cfg *Config) error {
	stack := newVarStack(globals)
	frames := []*frame{{tmpl: tmpl}}

	for len(frames) > 0 {
		top := frames[len(frames)-1]
		next, err := renderOne(top, stack, sink, cfg)
		if err != nil {
			return err
		}

		switch next.kind {
		case stepDone:
			if top.scoped {
				stack.pop() // the pushed scope
				stack.pop() // the boundary beneath it
			}
			frames = frames[:len(frames)-1]

		case stepInclude:
			frames = append(frames, &frame{tmpl: next.tmpl})

		case stepIncludeWith:
			stack.pushBoundary()
			stack.pushScope(next.globals)
			frames = append(frames, &frame{tmpl: next.tmpl, scoped: true})
		}

		if len(frames) > cfg.maxDepth() {
			return weaveerr.New(weaveerr.KindRender, fmt.Sprintf("max include depth exceeded (%d)", cfg.maxDepth()))
		}
	}
	return nil
}

// frame is one active template activation: a program plus its current
// instruction pointer. scoped marks a frame entered via `include with`,
// whose matching Boundary/Scope pair must be popped when it finishes.
type frame struct {
	tmpl   *program.Template
	pc     int
	scoped bool
}

type stepKind int

const (
	stepDone stepKind = iota
	stepInclude
	stepIncludeWith
)

// step is renderOne's result: either the frame ran to completion, or it
// needs a nested template pushed on top of it.
type step struct {
	kind    stepKind
	tmpl    *program.Template
	globals value.Value
}

// renderOne drains f's instruction stream from its current pc, writing
// output to sink, until the stream ends or an Include/IncludeWith hands
// control to the outer driver. expr holds the single pending expression
// slot an ExprStart*/Apply chain fills before a consuming Emit*/Loop/With
// instruction, mirroring upon's render/core.rs::render_one.
func renderOne(f *frame, stack *varStack, sink value.Sink, cfg *Config) (step, error) {
	var expr *value.Value
	tmpl := f.tmpl

	for {
		if f.pc >= len(tmpl.Instrs) {
			return step{kind: stepDone}, nil
		}
		in := tmpl.Instrs[f.pc]

		switch in.Op {
		case program.OpJump:
			f.pc = in.Jump
			continue

		case program.OpJumpIfTrue:
			cond := (*expr).Truthy()
			expr = nil
			if cond {
				f.pc = in.Jump
				continue
			}

		case program.OpJumpIfFalse:
			cond := (*expr).Truthy()
			expr = nil
			if !cond {
				f.pc = in.Jump
				continue
			}

		case program.OpEmit:
			v := *expr
			expr = nil
			if err := cfg.defaultFormat()(sink, v); err != nil {
				return step{}, (&weaveerr.Error{Kind: weaveerr.KindFormat, Message: err.Error(), Cause: err}).WithSpan(tmpl.Source, in.Span)
			}

		case program.OpEmitRaw:
			if _, err := sink.WriteString(in.Span.Slice(tmpl.Source)); err != nil {
				return step{}, err
			}

		case program.OpEmitWith:
			v := *expr
			expr = nil
			fn, ok := cfg.Functions[in.Ident.Raw]
			if !ok {
				msg := weaveerr.Suggest(fmt.Sprintf("unknown filter or formatter %q", in.Ident.Raw), in.Ident.Raw, cfg.functionNames())
				return step{}, weaveerr.Render(tmpl.Source, in.Ident.Span, msg)
			}
			if fn.Filter != nil {
				result, ferr := fn.Filter(v, nil)
				if ferr != nil {
					return step{}, weaveerr.Render(tmpl.Source, in.Ident.Span, ferr.Error())
				}
				if err := cfg.defaultFormat()(sink, result); err != nil {
					return step{}, (&weaveerr.Error{Kind: weaveerr.KindFormat, Message: err.Error(), Cause: err}).WithSpan(tmpl.Source, in.Ident.Span)
				}
			} else {
				if err := fn.Formatter(sink, v); err != nil {
					return step{}, (&weaveerr.Error{Kind: weaveerr.KindFormat, Message: err.Error(), Cause: err}).WithSpan(tmpl.Source, in.Ident.Span)
				}
			}

		case program.OpLoopStart:
			v := *expr
			expr = nil
			ls, err := newLoopState(in.LoopVars, v)
			if err != nil {
				return step{}, weaveerr.Render(tmpl.Source, in.Span, err.Error())
			}
			stack.pushLoop(ls)

		case program.OpLoopNext:
			top := stack.top()
			if top.kind != frameLoop {
				return step{}, weaveerr.New(weaveerr.KindRender, "loop-next with no active loop frame")
			}
			if top.loop.iterate() {
				f.pc++
				continue
			}
			stack.pop()
			f.pc = in.Jump
			continue

		case program.OpWithStart:
			v := *expr
			expr = nil
			stack.pushVar(in.Ident.Raw, v)

		case program.OpWithEnd:
			stack.pop()

		case program.OpInclude:
			f.pc++
			t, ok := cfg.lookupTemplate(in.Name.Value)
			if !ok {
				msg := weaveerr.Suggest(fmt.Sprintf("unknown template %q", in.Name.Value), in.Name.Value, cfg.templateNames())
				return step{}, weaveerr.Render(tmpl.Source, in.Name.Span, msg)
			}
			return step{kind: stepInclude, tmpl: t}, nil

		case program.OpIncludeWith:
			v := *expr
			expr = nil
			f.pc++
			t, ok := cfg.lookupTemplate(in.Name.Value)
			if !ok {
				msg := weaveerr.Suggest(fmt.Sprintf("unknown template %q", in.Name.Value), in.Name.Value, cfg.templateNames())
				return step{}, weaveerr.Render(tmpl.Source, in.Name.Span, msg)
			}
			return step{kind: stepIncludeWith, tmpl: t, globals: v}, nil

		case program.OpExprStart:
			v, err := stack.lookupPath(pathOf(in.Var))
			if err != nil {
				return step{}, weaveerr.Render(tmpl.Source, in.Var.Span, err.Error())
			}
			expr = &v

		case program.OpExprStartLit:
			v := literalValue(in.Lit)
			expr = &v

		case program.OpApply:
			v := *expr
			fn, ok := cfg.Functions[in.Ident.Raw]
			if !ok {
				msg := weaveerr.Suggest(fmt.Sprintf("unknown filter %q", in.Ident.Raw), in.Ident.Raw, cfg.functionNames())
				return step{}, weaveerr.Render(tmpl.Source, in.Ident.Span, msg)
			}
			if fn.Filter == nil {
				return step{}, weaveerr.Render(tmpl.Source, in.Ident.Span, fmt.Sprintf("%q is a formatter, not a filter", in.Ident.Raw))
			}
			args, err := argValues(in.Args, func(vr ast.Var) (value.Value, error) { return stack.lookupPath(pathOf(vr)) })
			if err != nil {
				return step{}, weaveerr.Render(tmpl.Source, in.Ident.Span, err.Error())
			}
			result, ferr := fn.Filter(v, args)
			if ferr != nil {
				return step{}, weaveerr.Render(tmpl.Source, in.Ident.Span, ferr.Error())
			}
			expr = &result
		}

		f.pc++
	}
}
