package value

// Native converts v into a plain Go value (nil, bool, int64, float64,
// string, []interface{}, map[string]interface{}) suitable for
// encoding/json or jsonschema, which operate over interface{} trees
// rather than Value directly.
func (v Value) Native() interface{} {
	switch v.kind {
	case KindNone:
		return nil
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.Native()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.Native()
		}
		return out
	default:
		return nil
	}
}
