package value

import (
	"github.com/fxamacker/cbor/v2"
)

// wireValue is the CBOR-friendly shape of a Value, used only at the
// encode/decode boundary. Lists and maps recurse; scalars map onto
// native CBOR types directly. Grounded on the canonical CBOR node
// encoding in opal-lang-opal's core/planfmt/canonical.go, adapted from
// a plan-step tree to a template data value.
type wireValue struct {
	Kind  string                 `cbor:"kind"`
	Bool  bool                   `cbor:"bool,omitempty"`
	Int   int64                  `cbor:"int,omitempty"`
	Float float64                `cbor:"float,omitempty"`
	Str   string                 `cbor:"str,omitempty"`
	List  []wireValue            `cbor:"list,omitempty"`
	Map   map[string]wireValue   `cbor:"map,omitempty"`
}

func toWire(v Value) wireValue {
	switch v.Kind() {
	case KindNone:
		return wireValue{Kind: "none"}
	case KindBool:
		return wireValue{Kind: "bool", Bool: v.AsBool()}
	case KindInteger:
		return wireValue{Kind: "integer", Int: v.AsInteger()}
	case KindFloat:
		return wireValue{Kind: "float", Float: v.AsFloat()}
	case KindString:
		return wireValue{Kind: "string", Str: v.AsString()}
	case KindList:
		items := v.AsList()
		out := make([]wireValue, len(items))
		for i, item := range items {
			out[i] = toWire(item)
		}
		return wireValue{Kind: "list", List: out}
	case KindMap:
		m := v.AsMap()
		out := make(map[string]wireValue, len(m))
		for k, item := range m {
			out[k] = toWire(item)
		}
		return wireValue{Kind: "map", Map: out}
	default:
		return wireValue{Kind: "none"}
	}
}

func fromWire(w wireValue) Value {
	switch w.Kind {
	case "bool":
		return Bool(w.Bool)
	case "integer":
		return Integer(w.Int)
	case "float":
		return Float(w.Float)
	case "string":
		return String(w.Str)
	case "list":
		items := make([]Value, len(w.List))
		for i, item := range w.List {
			items[i] = fromWire(item)
		}
		return List(items)
	case "map":
		m := make(map[string]Value, len(w.Map))
		for k, item := range w.Map {
			m[k] = fromWire(item)
		}
		return Map(m)
	default:
		return None
	}
}

// EncodeCBOR serializes a Value to its canonical CBOR wire form, for
// callers that need to persist or transmit render globals/results.
func EncodeCBOR(v Value) ([]byte, error) {
	opts := cbor.CanonicalEncOptions()
	em, err := opts.EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(toWire(v))
}

// DecodeCBOR deserializes a Value from its CBOR wire form.
func DecodeCBOR(data []byte) (Value, error) {
	var w wireValue
	if err := cbor.Unmarshal(data, &w); err != nil {
		return None, err
	}
	return fromWire(w), nil
}
