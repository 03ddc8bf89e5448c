package value

import (
	"math"
	"testing"
)

func TestToBoolean(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"undefined", Undefined, false},
		{"null", Null, false},
		{"zero", Number(0), false},
		{"nan", Number(math.NaN()), false},
		{"one", Number(1), true},
		{"empty string", Str(NewInterner().Intern("")), false},
		{"nonempty string", Str(NewInterner().Intern("x")), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.ToBoolean(); got != c.want {
				t.Errorf("ToBoolean() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestStrictEqualsNaNNeverEqual(t *testing.T) {
	nan := Number(math.NaN())
	if StrictEquals(nan, nan) {
		t.Error("NaN === NaN should be false")
	}
}

func TestStrictEqualsNegativeZero(t *testing.T) {
	if !StrictEquals(Number(0), Number(math.Copysign(0, -1))) {
		t.Error("+0 === -0 should be true under StrictEquals")
	}
}

func TestSameValueDistinguishesZeroSigns(t *testing.T) {
	if SameValue(Number(0), Number(math.Copysign(0, -1))) {
		t.Error("Object.is(+0, -0) should be false")
	}
}

func TestSameValueNaNEqualsItself(t *testing.T) {
	nan := Number(math.NaN())
	if !SameValue(nan, nan) {
		t.Error("Object.is(NaN, NaN) should be true")
	}
}

func TestInternerDedupesEqualStrings(t *testing.T) {
	in := NewInterner()
	a := in.Intern("hello")
	b := in.Intern("hello")
	if a != b {
		t.Error("interning the same text twice should return the same *String")
	}
}

func TestObjWrapsCallableAsFunctionKind(t *testing.T) {
	v := Obj(fakeCallable{callable: true})
	if v.Kind() != KindFunction {
		t.Errorf("Obj() of a callable ref should report KindFunction, got %s", v.Kind())
	}
	v2 := Obj(fakeCallable{callable: false})
	if v2.Kind() != KindObject {
		t.Errorf("Obj() of a non-callable ref should report KindObject, got %s", v2.Kind())
	}
}

type fakeCallable struct{ callable bool }

func (f fakeCallable) IsCallable() bool  { return f.callable }
func (f fakeCallable) ClassName() string { return "Fake" }
