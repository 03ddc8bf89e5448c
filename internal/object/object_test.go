package object

import (
	"testing"

	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

func TestSetOnNewPropertyFollowsShapeTransition(t *testing.T) {
	cache := shape.NewCache()
	o := New(cache, nil)
	root := o.Shape()

	o.Set(nil, value.Obj(o), "x", value.Number(1))

	if o.Shape() == root {
		t.Error("Set on a new property name should transition to a child shape")
	}
	got := o.Get(nil, value.Obj(o), "x")
	if !got.IsNumber() || got.Float() != 1 {
		t.Errorf("Get(\"x\") = %v, want 1", got)
	}
}

func TestTwoObjectsWithSamePropertiesShareShape(t *testing.T) {
	cache := shape.NewCache()
	a := New(cache, nil)
	b := New(cache, nil)

	a.Set(nil, value.Obj(a), "x", value.Number(1))
	a.Set(nil, value.Obj(a), "y", value.Number(2))
	b.Set(nil, value.Obj(b), "x", value.Number(10))
	b.Set(nil, value.Obj(b), "y", value.Number(20))

	if a.Shape() != b.Shape() {
		t.Error("objects built with the same property names/order should share one Shape")
	}
}

func TestGetWalksPrototypeChain(t *testing.T) {
	cache := shape.NewCache()
	proto := New(cache, nil)
	proto.Set(nil, value.Obj(proto), "inherited", value.Number(99))

	child := New(cache, proto)
	got := child.Get(nil, value.Obj(child), "inherited")
	if !got.IsNumber() || got.Float() != 99 {
		t.Errorf("Get should resolve inherited property via prototype chain, got %v", got)
	}
}

func TestSetRespectsNonWritableAttribute(t *testing.T) {
	cache := shape.NewCache()
	o := New(cache, nil)
	o.DefineDataProperty("frozen", value.Number(1), shape.Attributes{Writable: false, Enumerable: true, Configurable: true})

	o.Set(nil, value.Obj(o), "frozen", value.Number(2))

	got := o.Get(nil, value.Obj(o), "frozen")
	if got.Float() != 1 {
		t.Errorf("non-writable property should reject the write, got %v", got)
	}
}

func TestArrayElementStorageIsSeparateFromNamedProperties(t *testing.T) {
	cache := shape.NewCache()
	arr := NewArray(cache, nil)
	arr.SetElement(3, value.Number(42))

	if arr.Length() != 4 {
		t.Errorf("Length() = %d, want 4", arr.Length())
	}
	v, ok := arr.GetElement(0)
	if !ok || !v.IsUndefined() {
		t.Errorf("GetElement(0) on a sparse array should be Undefined, got %v", v)
	}
	v3, ok := arr.GetElement(3)
	if !ok || v3.Float() != 42 {
		t.Errorf("GetElement(3) = %v, want 42", v3)
	}
	if arr.Shape() != cache.Root() {
		t.Error("array element writes should never transition the named-property shape")
	}
}

func TestSetLengthTruncatesElements(t *testing.T) {
	cache := shape.NewCache()
	arr := NewArray(cache, nil)
	arr.Push(value.Number(1))
	arr.Push(value.Number(2))
	arr.Push(value.Number(3))

	arr.SetLength(1)

	if arr.Length() != 1 {
		t.Errorf("Length() after SetLength(1) = %d, want 1", arr.Length())
	}
}

func TestDeleteReindexesAccessorsAfterPrecedingSlotRemoved(t *testing.T) {
	cache := shape.NewCache()
	o := New(cache, nil)
	o.DefineDataProperty("a", value.Number(1), shape.Attributes{Writable: true, Enumerable: true, Configurable: true})

	getter := NewFunction(cache, nil, "get", func(ctx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(77), nil
	})
	o.DefineAccessorProperty("b", value.Obj(getter), value.Undefined, true, true)

	if !o.Delete("a") {
		t.Fatal("Delete(\"a\") should succeed on a configurable property")
	}

	got := o.Get(nil, value.Obj(o), "b")
	if !got.IsNumber() || got.Float() != 77 {
		t.Errorf("Get(\"b\") after deleting a preceding slot = %v, want 77 (accessor should follow its reindexed slot)", got)
	}
}

func TestPreventExtensionsBlocksNewProperties(t *testing.T) {
	cache := shape.NewCache()
	o := New(cache, nil)
	o.PreventExtensions()

	o.Set(nil, value.Obj(o), "x", value.Number(1))

	if o.HasProperty("x") {
		t.Error("Set should not add a new property once the object is non-extensible")
	}
}
