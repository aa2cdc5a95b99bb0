package interp

import (
	"fmt"

	"github.com/aledsdavies/weave/ast"
	"github.com/aledsdavies/weave/value"
	"github.com/aledsdavies/weave/weaveerr"
)

// loopState drives one `for` loop's iteration and resolves its bound
// variable(s) during the body's rendering. Grounded on upon's
// render/iter.rs::LoopState, collapsed from that file's four
// Borrowed/Owned x List/Map variants into one: Go's GC removes the
// motivation for the borrow/own split (see DESIGN.md).
type loopState struct {
	isMap bool

	itemName string

	keyName string
	valName string

	list    []value.Value
	listIdx int
	curItem value.Value

	mapKeys []string
	mapVals map[string]value.Value
	mapIdx  int
	curKey  string
	curVal  value.Value

	started bool
}

func newLoopState(vars ast.LoopVars, iterable value.Value) (*loopState, error) {
	switch iterable.Kind() {
	case value.KindList:
		if vars.Item == nil {
			return nil, &weaveerr.Error{Kind: weaveerr.KindRender, Message: "cannot unpack list item into two variables"}
		}
		return &loopState{isMap: false, itemName: vars.Item.Raw, list: iterable.AsList(), listIdx: -1}, nil

	case value.KindMap:
		if vars.Key == nil || vars.Value == nil {
			return nil, &weaveerr.Error{Kind: weaveerr.KindRender, Message: "cannot unpack map item into one variable"}
		}
		m := iterable.AsMap()
		return &loopState{
			isMap: true, keyName: vars.Key.Raw, valName: vars.Value.Raw,
			mapKeys: sortedMapKeys(m), mapVals: m, mapIdx: -1,
		}, nil

	default:
		return nil, &weaveerr.Error{Kind: weaveerr.KindRender, Message: fmt.Sprintf("expected iterable, but expression evaluated to %s", iterable.Human())}
	}
}

// iterate advances to the next element, returning false once the
// iterable is exhausted.
func (l *loopState) iterate() bool {
	if l.isMap {
		l.mapIdx++
		if l.mapIdx >= len(l.mapKeys) {
			return false
		}
		l.curKey = l.mapKeys[l.mapIdx]
		l.curVal = l.mapVals[l.curKey]
		return true
	}
	l.listIdx++
	if l.listIdx >= len(l.list) {
		return false
	}
	l.curItem = l.list[l.listIdx]
	return true
}

// resolvePath resolves path against this loop's currently bound
// variable(s), grounded on upon's render/iter.rs::LoopState::resolve_path.
func (l *loopState) resolvePath(path []value.Access) (value.Value, bool, error) {
	if len(path) == 0 || path[0].Kind != value.AccessKey {
		return value.None, false, nil
	}
	name := path[0].Key

	if l.isMap {
		switch name {
		case l.keyName:
			if len(path) > 1 {
				return value.None, false, &weaveerr.Error{Kind: weaveerr.KindRender, Message: "cannot index into string"}
			}
			return value.String(l.curKey), true, nil
		case l.valName:
			v, err := value.LookupPath(l.curVal, path[1:])
			return v, true, err
		default:
			return value.None, false, nil
		}
	}

	if name != l.itemName {
		return value.None, false, nil
	}
	v, err := value.LookupPath(l.curItem, path[1:])
	return v, true, err
}
