// Package program defines the compiled bytecode representation weave's
// interpreter executes: the closed Instr instruction set and the
// compiled Template (source + instruction stream). Grounded on upon's
// types/program.rs and on the linear IR idiom of
// opal-lang-opal/runtime/ir/ir.go.
package program

import (
	"encoding/binary"
	"fmt"

	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/internal/span"
	"golang.org/x/crypto/blake2b"
)

// FixmeTarget marks a jump target not yet patched by the compiler.
const FixmeTarget = -1

// Op identifies an instruction's operation.
type Op int

const (
	OpJump Op = iota
	OpJumpIfTrue
	OpJumpIfFalse
	OpEmit
	OpEmitRaw
	OpEmitWith
	OpLoopStart
	OpLoopNext
	OpWithStart
	OpWithEnd
	OpInclude
	OpIncludeWith
	OpExprStart
	OpExprStartLit
	OpApply
)

// Instr is one bytecode instruction. Only the fields relevant to Op are
// populated; this mirrors the single tagged-enum Instr of upon's
// program.rs flattened into one Go struct for simplicity.
type Instr struct {
	Op Op

	Jump int // OpJump/OpJumpIfTrue/OpJumpIfFalse/OpLoopNext target

	Span span.Span // OpEmit/OpEmitRaw/OpEmitWith/OpLoopStart/OpApply

	Ident ast.Ident // OpEmitWith/OpWithStart name; OpApply filter name

	LoopVars ast.LoopVars // OpLoopStart

	Name ast.String // OpInclude/OpIncludeWith template name

	Var ast.Var // OpExprStart

	Lit ast.Literal // OpExprStartLit

	Args *ast.Args // OpApply, nil for a bare filter
}

// Template is a compiled program ready for interpretation.
type Template struct {
	Source string
	Instrs []Instr
}

func (t *Template) String() string {
	return fmt.Sprintf("program.Template{instrs=%d}", len(t.Instrs))
}

// Fingerprint returns a content-addressed BLAKE2b-256 hash of the
// template source and its compiled instruction stream, suitable as a compiled-template cache
// key. Grounded on the blake2b identifier derivation in
// opal-lang-opal/core/sdk/secret/idfactory.go.
func (t *Template) Fingerprint() [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(t.Source))
	for _, in := range t.Instrs {
		var buf [9]byte
		buf[0] = byte(in.Op)
		binary.LittleEndian.PutUint32(buf[1:5], uint32(in.Jump))
		binary.LittleEndian.PutUint32(buf[5:9], uint32(in.Span.Start))
		h.Write(buf[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
