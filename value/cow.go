package value

// Cow is a clone-on-write wrapper around a Value: it either borrows a
// value produced elsewhere in the render (a scope, a loop item) or owns
// one materialized during rendering (a literal, a filter result).
// Mirrors upon's ValueCow and preserves it as a named architectural
// concept even though Go's GC makes the borrow/own split unnecessary
// for memory-safety reasons; the distinction stays useful for making
// explicit which values are render-local versus engine/scope-owned.
type Cow struct {
	owned    *Value
	borrowed *Value
}

// Borrow wraps a reference to a value owned by a longer-lived scope.
func Borrow(v *Value) Cow { return Cow{borrowed: v} }

// Own wraps a value materialized just for this render step.
func Own(v Value) Cow { return Cow{owned: &v} }

// Get returns the underlying value regardless of ownership.
func (c Cow) Get() Value {
	if c.owned != nil {
		return *c.owned
	}
	if c.borrowed != nil {
		return *c.borrowed
	}
	return None
}

// ToOwned materializes an owned copy: a snapshot of the value at the
// time of the call, unaffected by later changes to the borrowed source.
func (c Cow) ToOwned() Cow {
	v := c.Get()
	return Cow{owned: &v}
}
