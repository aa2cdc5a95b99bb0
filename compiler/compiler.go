// Package compiler linearizes an ast.Template into a program.Template:
// a flat Instr stream with forward/backward jump patching and the
// bare-filter EmitWith peephole fold. Grounded on upon's
// compile/mod.rs and the IR-lowering idiom of
// opal-lang-opal/runtime/planner/ir_builder.go.
package compiler

import (
	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/internal/span"
	"github.com/aledsdavies/weave/program"
)

// Compiler accumulates the instruction stream for one template.
type Compiler struct {
	instrs []program.Instr
}

// Compile lowers a parsed Template into a compiled program.Template.
func Compile(t *ast.Template) *program.Template {
	c := &Compiler{}
	c.compileScope(t.Scope)
	return &program.Template{Source: t.Source, Instrs: c.instrs}
}

func (c *Compiler) push(in program.Instr) int {
	idx := len(c.instrs)
	c.instrs = append(c.instrs, in)
	return idx
}

// updateJump patches the jump target of the instruction at i to the
// current end of the instruction stream.
func (c *Compiler) updateJump(i int) {
	n := len(c.instrs)
	switch c.instrs[i].Op {
	case program.OpJump, program.OpJumpIfTrue, program.OpJumpIfFalse, program.OpLoopNext:
		c.instrs[i].Jump = n
	default:
		panic("compiler: updateJump on a non-jump instruction")
	}
}

func (c *Compiler) compileScope(s ast.Scope) {
	for _, stmt := range s.Stmts {
		c.compileStmt(stmt)
	}
}

func (c *Compiler) compileStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case ast.Raw:
		c.push(program.Instr{Op: program.OpEmitRaw, Span: s.Span})

	case ast.InlineExpr:
		c.compileExpr(s.Expr)
		c.popEmitExpr(s.Span)

	case ast.Include:
		if s.Globals != nil {
			c.compileExpr(s.Globals)
			c.push(program.Instr{Op: program.OpIncludeWith, Name: s.Name})
		} else {
			c.push(program.Instr{Op: program.OpInclude, Name: s.Name})
		}

	case ast.IfElse:
		c.compileExpr(s.Cond)
		var j int
		if s.Not {
			j = c.push(program.Instr{Op: program.OpJumpIfTrue, Jump: program.FixmeTarget})
		} else {
			j = c.push(program.Instr{Op: program.OpJumpIfFalse, Jump: program.FixmeTarget})
		}
		c.compileScope(s.ThenBranch)
		if s.ElseBranch != nil {
			j2 := c.push(program.Instr{Op: program.OpJump, Jump: program.FixmeTarget})
			c.updateJump(j)
			c.compileScope(*s.ElseBranch)
			c.updateJump(j2)
		} else {
			c.updateJump(j)
		}

	case ast.ForLoop:
		c.compileExpr(s.Iterable)
		c.push(program.Instr{Op: program.OpLoopStart, LoopVars: s.Vars, Span: s.Span})
		j := c.push(program.Instr{Op: program.OpLoopNext, Jump: program.FixmeTarget})
		c.compileScope(s.Body)
		c.push(program.Instr{Op: program.OpJump, Jump: j})
		c.updateJump(j)

	case ast.With:
		c.compileExpr(s.Expr)
		c.push(program.Instr{Op: program.OpWithStart, Ident: s.Name})
		c.compileScope(s.Body)
		c.push(program.Instr{Op: program.OpWithEnd})
	}
}

func (c *Compiler) compileExpr(e ast.Expr) {
	switch ex := e.(type) {
	case ast.Call:
		c.compileExpr(ex.Receiver)
		c.push(program.Instr{Op: program.OpApply, Ident: ex.Name, Span: ex.Span, Args: ex.Args})
	default:
		c.compileBaseExpr(e)
	}
}

func (c *Compiler) compileBaseExpr(e ast.Expr) {
	switch ex := e.(type) {
	case ast.Var:
		c.push(program.Instr{Op: program.OpExprStart, Var: ex})
	case ast.Literal:
		c.push(program.Instr{Op: program.OpExprStartLit, Lit: ex})
	}
}

// popEmitExpr implements the peephole optimization: a trailing bare
// filter call (no `: args`) used as a statement expression is folded
// into a single EmitWith instruction instead of Apply-then-Emit.
// Grounded on upon's compile/mod.rs::pop_emit_expr.
func (c *Compiler) popEmitExpr(sp span.Span) {
	last := len(c.instrs) - 1
	in := c.instrs[last]
	if in.Op == program.OpApply && in.Args == nil {
		c.instrs = c.instrs[:last]
		c.push(program.Instr{Op: program.OpEmitWith, Ident: in.Ident, Span: sp})
		return
	}
	c.push(program.Instr{Op: program.OpEmit, Span: sp})
}
