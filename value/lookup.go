package value

import "fmt"

// AccessOp distinguishes a direct ("."), hard-erroring member access
// from an optional ("?."), propagate-None-on-miss access.
type AccessOp int

const (
	AccessDirect AccessOp = iota
	AccessOptional
)

// AccessKind distinguishes map-key access from list-index access.
type AccessKind int

const (
	AccessKey AccessKind = iota
	AccessIndex
)

// Access is one path segment: either .name / ?.name against a map, or
// .N / ?.N against a list.
type Access struct {
	Kind  AccessKind
	Key   string
	Index int
	Op    AccessOp
}

// LookupError reports a hard member-access failure (out-of-bounds index,
// unsupported access kind for the value's type). Missing-via-optional
// access is not an error: it resolves to None.
type LookupError struct {
	Message string
}

func (e *LookupError) Error() string { return e.Message }

// Lookup resolves one Access against v, grounded on upon's
// render/value.rs::lookup. Returns (value, found). found is false only
// when an AccessOptional segment missed; a direct miss returns an error.
func Lookup(v Value, a Access) (Value, bool, error) {
	switch a.Kind {
	case AccessIndex:
		if v.Kind() != KindList {
			if a.Op == AccessOptional {
				return None, false, nil
			}
			return None, false, &LookupError{Message: fmt.Sprintf("%s does not support integer-based access", v.Human())}
		}
		list := v.AsList()
		idx := a.Index
		if idx < 0 || idx >= len(list) {
			if a.Op == AccessOptional {
				return None, false, nil
			}
			return None, false, &LookupError{Message: fmt.Sprintf("index out of bounds, the length is %d", len(list))}
		}
		return list[idx], true, nil

	case AccessKey:
		if v.Kind() != KindMap {
			if a.Op == AccessOptional {
				return None, false, nil
			}
			return None, false, &LookupError{Message: fmt.Sprintf("%s does not support key-based access", v.Human())}
		}
		m := v.AsMap()
		val, ok := m[a.Key]
		if !ok {
			if a.Op == AccessOptional {
				return None, false, nil
			}
			return None, false, &LookupError{Message: fmt.Sprintf("not found in map, the key is %q", a.Key)}
		}
		return val, true, nil
	}
	return None, false, &LookupError{Message: "invalid access kind"}
}

// LookupPath walks v through every segment of path. If any AccessOptional
// segment misses, the entire remaining chain collapses to None (missing
// propagates through the rest of the path), grounded on
// render/value.rs::lookup_path.
func LookupPath(v Value, path []Access) (Value, error) {
	cur := v
	for _, a := range path {
		next, found, err := Lookup(cur, a)
		if err != nil {
			return None, err
		}
		if !found {
			return None, nil
		}
		cur = next
	}
	return cur, nil
}

// LookupPathMaybe resolves path against v the same way LookupPath does,
// except a miss or error on the FIRST segment means "this root name is
// not present in this scope at all" rather than a hard error — the
// caller should try the next scope frame down. Grounded on upon's
// render/value.rs::lookup_path_maybe, used by the interpreter's
// frame-by-frame variable resolution.
func LookupPathMaybe(v Value, path []Access) (Value, bool, error) {
	if len(path) == 0 {
		return v, true, nil
	}
	first, found, err := Lookup(v, path[0])
	if err != nil || !found {
		return None, false, nil
	}
	rest, err := LookupPath(first, path[1:])
	if err != nil {
		return None, false, err
	}
	return rest, true, nil
}
