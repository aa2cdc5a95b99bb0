package value

import "testing"

func TestCowBorrowGet(t *testing.T) {
	v := String("hi")
	c := Borrow(&v)
	if c.Get().AsString() != "hi" {
		t.Fatalf("got %v", c.Get())
	}
}

func TestCowOwnGet(t *testing.T) {
	c := Own(Integer(42))
	if c.Get().AsInteger() != 42 {
		t.Fatalf("got %v", c.Get())
	}
}

func TestCowToOwnedIsIndependentOfSource(t *testing.T) {
	v := String("original")
	borrowed := Borrow(&v)
	owned := borrowed.ToOwned()

	v = String("mutated")
	if borrowed.Get().AsString() != "mutated" {
		t.Fatalf("borrowed Cow should reflect the live value it points to")
	}
	if owned.Get().AsString() != "original" {
		t.Fatalf("ToOwned should snapshot the value at the time it was called, got %q", owned.Get().AsString())
	}
}

func TestCowGetDefaultsToNone(t *testing.T) {
	var c Cow
	if c.Get().Kind() != KindNone {
		t.Fatalf("got %v", c.Get())
	}
}
