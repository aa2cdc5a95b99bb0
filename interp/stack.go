package interp

import (
	"fmt"
	"sort"

	"github.com/aledsdavies/weave/value"
	"github.com/aledsdavies/weave/weaveerr"
)

type frameKind int

const (
	frameScope frameKind = iota
	frameVar
	frameLoop
	frameBoundary
)

// valueFrame is one entry on the interpreter's variable-resolution
// stack, grounded on upon's render/stack.rs::State.
type valueFrame struct {
	kind frameKind

	scope value.Value // frameScope

	name string      // frameVar
	val  value.Value // frameVar

	loop *loopState // frameLoop
}

// varStack is the scope stack the interpreter consults to resolve
// variable paths, searched top-down, stopping at a Boundary sentinel
// to enforce include isolation.
type varStack struct {
	frames []valueFrame
}

func newVarStack(globals value.Value) *varStack {
	return &varStack{frames: []valueFrame{{kind: frameScope, scope: globals}}}
}

func (s *varStack) pushScope(v value.Value)   { s.frames = append(s.frames, valueFrame{kind: frameScope, scope: v}) }
func (s *varStack) pushVar(name string, v value.Value) {
	s.frames = append(s.frames, valueFrame{kind: frameVar, name: name, val: v})
}
func (s *varStack) pushLoop(l *loopState) { s.frames = append(s.frames, valueFrame{kind: frameLoop, loop: l}) }
func (s *varStack) pushBoundary()         { s.frames = append(s.frames, valueFrame{kind: frameBoundary}) }

func (s *varStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *varStack) top() *valueFrame {
	return &s.frames[len(s.frames)-1]
}

// lookupPath resolves a variable path by walking frames top-down,
// grounded on upon's render/stack.rs::Stack::lookup_path.
func (s *varStack) lookupPath(path []value.Access) (value.Value, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		switch f.kind {
		case frameScope:
			v, found, err := value.LookupPathMaybe(f.scope, path)
			if err != nil {
				return value.None, err
			}
			if found {
				return v, nil
			}
			continue

		case frameVar:
			if len(path) == 0 || path[0].Kind != value.AccessKey || path[0].Key != f.name {
				continue
			}
			return value.LookupPath(f.val, path[1:])

		case frameLoop:
			v, ok, err := f.loop.resolvePath(path)
			if err != nil {
				return value.None, err
			}
			if ok {
				return v, nil
			}
			continue

		case frameBoundary:
			name := "?"
			if len(path) > 0 {
				name = path[0].Key
			}
			return value.None, &weaveerr.Error{Kind: weaveerr.KindRender, Message: fmt.Sprintf("not found in this scope: %q", name)}
		}
	}
	name := "?"
	if len(path) > 0 {
		name = path[0].Key
	}
	return value.None, &weaveerr.Error{Kind: weaveerr.KindRender, Message: fmt.Sprintf("not found in this scope: %q", name)}
}

// sortedMapKeys returns m's keys in lexicographic order, the chosen
// deterministic map-iteration order (see SPEC_FULL.md §6).
func sortedMapKeys(m map[string]value.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
