// Package builtins provides a minimal set of filters and formatters so
// an Engine is usable end-to-end without requiring a caller to supply
// every function by hand. Filter/formatter registration itself is out
// of the core engine's scope; this package is a small, optional
// convenience layer on top of interp.Config, grounded on the builtin
// command catalog idiom of opal-lang-opal/core/sdk/builtin/registry.go.
package builtins

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aledsdavies/weave/interp"
	"github.com/aledsdavies/weave/value"
)

// Register adds the builtin filters (upper, lower, append, default) and
// the json formatter into fns, overwriting any existing entries with
// the same names.
func Register(fns map[string]interp.Function) {
	fns["upper"] = interp.Function{Filter: upperFilter}
	fns["lower"] = interp.Function{Filter: lowerFilter}
	fns["append"] = interp.Function{Filter: appendFilter}
	fns["default"] = interp.Function{Filter: defaultFilter}
	fns["json"] = interp.Function{Formatter: jsonFormatter}
}

func upperFilter(v value.Value, args []value.Value) (value.Value, error) {
	if v.Kind() != value.KindString {
		return value.None, fmt.Errorf("upper: expected string, found %s", v.Human())
	}
	return value.String(strings.ToUpper(v.AsString())), nil
}

func lowerFilter(v value.Value, args []value.Value) (value.Value, error) {
	if v.Kind() != value.KindString {
		return value.None, fmt.Errorf("lower: expected string, found %s", v.Human())
	}
	return value.String(strings.ToLower(v.AsString())), nil
}

// appendFilter concatenates its single string argument onto a string
// receiver, e.g. `name | append: "!"`.
func appendFilter(v value.Value, args []value.Value) (value.Value, error) {
	if v.Kind() != value.KindString {
		return value.None, fmt.Errorf("append: expected string, found %s", v.Human())
	}
	if len(args) != 1 || args[0].Kind() != value.KindString {
		return value.None, fmt.Errorf("append: expects exactly one string argument")
	}
	return value.String(v.AsString() + args[0].AsString()), nil
}

// defaultFilter substitutes its argument when the receiver is None,
// e.g. `nickname | default: "anonymous"`.
func defaultFilter(v value.Value, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.None, fmt.Errorf("default: expects exactly one argument")
	}
	if v.Kind() == value.KindNone {
		return args[0], nil
	}
	return v, nil
}

// jsonFormatter serializes the receiver to JSON, native Go maps keying
// on string so encoding/json's own alphabetical key ordering matches
// the deterministic map-rendering order used elsewhere (see
// SPEC_FULL.md's map-iteration-order decision).
func jsonFormatter(sink value.Sink, v value.Value) error {
	out, err := json.Marshal(v.Native())
	if err != nil {
		return &value.FormatError{Message: "json: marshal failed", Cause: err}
	}
	_, err = sink.WriteString(string(out))
	return err
}
