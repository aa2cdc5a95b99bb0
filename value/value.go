// Package value implements the dynamic data model rendered by weave
// templates: a closed set of kinds (None, Bool, Integer, Float, String,
// List, Map), truthiness, member/index lookup with optional-access
// semantics, and a clone-on-write wrapper (Cow). The interpreter passes
// plain Values and does not use Cow.
package value

import (
	"fmt"
	"sort"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the dynamic value a template variable, literal, or filter
// result carries at render time.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

// None is the zero/absent value.
var None = Value{kind: KindNone}

func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func List(items []Value) Value {
	return Value{kind: KindList, list: items}
}
func Map(m map[string]Value) Value {
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool     { return v.b }
func (v Value) AsInteger() int64 { return v.i }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsString() string { return v.s }
func (v Value) AsList() []Value  { return v.list }
func (v Value) AsMap() map[string]Value { return v.m }

// Human names the value's kind for use in error messages, grounded on
// upon's Value::human().
func (v Value) Human() string { return v.kind.String() }

// Truthy implements the exact truthiness table: None, false, zero
// integer/float, empty string/list/map are false; everything else is
// true. Infallible — there is no error case for truthiness.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNone:
		return false
	case KindBool:
		return v.b
	case KindInteger:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindList:
		return len(v.list) != 0
	case KindMap:
		return len(v.m) != 0
	default:
		return false
	}
}

// SortedKeys returns the map's keys in lexicographic order, resolving
// the map-iteration-order open question in favor of deterministic,
// key-sorted rendering.
func (v Value) SortedKeys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindList:
		return fmt.Sprintf("list(%d)", len(v.list))
	case KindMap:
		return fmt.Sprintf("map(%d)", len(v.m))
	default:
		return "?"
	}
}
