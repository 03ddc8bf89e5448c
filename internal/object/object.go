// Package object implements the Object model of spec §3/§4.4: a shape-typed
// property store plus separate dense array-element storage, grounded on the
// teacher's internal/interp/runtime.Object (slots vector keyed by shape
// slot index, prototype pointer, extensibility flag) generalized from
// DWScript's single-inheritance record/class layout to ECMAScript's
// dynamic, per-instance shape transitions.
package object

import (
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// Accessor pairs a getter/setter function value for accessor properties.
type Accessor struct {
	Get value.Value // Undefined if no getter
	Set value.Value // Undefined if no setter
}

// NativeFunc is a Go-implemented callable (host functions, builtins).
type NativeFunc func(ctx any, this value.Value, args []value.Value) (value.Value, error)

// Object is the runtime heap object backing both plain objects and
// callable functions. Field layout follows spec §3: shape pointer, slot
// vector, nullable prototype, extensibility flag, optional array storage.
type Object struct {
	shapeCache *shape.Cache
	sh         *shape.Shape
	slots      []value.Value // parallel to sh.Properties(), data or Accessor-wrapped
	accessors  map[int]*Accessor

	proto       *Object
	extensible  bool
	className   string

	isArray  bool
	elements []value.Value // dense array storage, separate from named properties

	// callable, when non-nil, makes this Object invocable (spec §3: Value's
	// Function variant is "a shared reference to an Object with callable
	// capability" -- capability, not a distinct heap type).
	callable NativeFunc
	// ctorProto is the prototype installed on objects this function
	// constructs via `new` (spec §4.3 new-call rule).
	ctorProto *Object
}

// New creates a plain object rooted at the cache's empty shape, with the
// given (possibly nil) prototype.
func New(cache *shape.Cache, proto *Object) *Object {
	return &Object{
		shapeCache: cache,
		sh:         cache.Root(),
		proto:      proto,
		extensible: true,
		className:  "Object",
	}
}

// NewArray creates an array-exotic object: its own dense element store,
// length tracked as len(elements).
func NewArray(cache *shape.Cache, proto *Object) *Object {
	o := New(cache, proto)
	o.isArray = true
	o.className = "Array"
	return o
}

// NewFunction wraps a native callable as a Function-capable object.
func NewFunction(cache *shape.Cache, proto *Object, name string, fn NativeFunc) *Object {
	o := New(cache, proto)
	o.className = "Function"
	o.callable = fn
	_ = name
	return o
}

func (o *Object) Shape() *shape.Shape  { return o.sh }
func (o *Object) Prototype() *Object   { return o.proto }
func (o *Object) SetPrototype(p *Object) { o.proto = p }
func (o *Object) IsExtensible() bool   { return o.extensible }
func (o *Object) PreventExtensions()   { o.extensible = false }
func (o *Object) IsArray() bool        { return o.isArray }
func (o *Object) ClassName() string    { return o.className }
func (o *Object) IsCallable() bool     { return o.callable != nil }

func (o *Object) ConstructorPrototype() *Object     { return o.ctorProto }
func (o *Object) SetConstructorPrototype(p *Object) { o.ctorProto = p }

// Call invokes the native callable with the given this-binding and
// arguments. Panics if IsCallable() is false; callers must check first
// (the evaluator raises a TypeError instead of calling this on a
// non-callable).
func (o *Object) Call(ctx any, this value.Value, args []value.Value) (value.Value, error) {
	return o.callable(ctx, this, args)
}

// OwnSlotValue reads slot i directly (used by the inline-cache fast path
// once shape+slot have already been resolved).
func (o *Object) OwnSlotValue(i int) value.Value { return o.slots[i] }

// GetOwn looks up name on this object only (no prototype walk), returning
// the stored value for data properties, or resolving the getter for
// accessor properties. ok is false when the object doesn't carry name.
func (o *Object) GetOwn(ctx any, this value.Value, name string) (value.Value, bool) {
	slot := o.sh.SlotOf(name)
	if slot < 0 {
		return value.Undefined, false
	}
	desc := o.sh.Descriptor(slot)
	if desc.Kind == shape.KindAccessor {
		acc := o.accessors[slot]
		if acc == nil || acc.Get.IsUndefined() {
			return value.Undefined, true
		}
		fn, ok := acc.Get.ObjectVal().(*Object)
		if !ok || !fn.IsCallable() {
			return value.Undefined, true
		}
		v, err := fn.Call(ctx, this, nil)
		if err != nil {
			return value.Undefined, true
		}
		return v, true
	}
	return o.slots[slot], true
}

// Get resolves name by own-property lookup, falling back up the
// prototype chain (spec §4.4 get protocol).
func (o *Object) Get(ctx any, this value.Value, name string) value.Value {
	for cur := o; cur != nil; cur = cur.proto {
		if v, ok := cur.GetOwn(ctx, this, name); ok {
			return v
		}
	}
	return value.Undefined
}

// HasProperty reports whether name resolves anywhere on the prototype
// chain (the `in` operator, spec §4.3).
func (o *Object) HasProperty(name string) bool {
	for cur := o; cur != nil; cur = cur.proto {
		if cur.sh.Has(name) {
			return true
		}
	}
	return false
}

// Set implements spec §4.4's set protocol: existing own data property
// writes into its recorded slot; accessor property calls the setter; a
// new property follows or creates a shape transition, extends the slot
// vector, and stores the value. Invariant maintained: len(slots) ==
// shape.PropertyCount() after every call.
func (o *Object) Set(ctx any, this value.Value, name string, v value.Value) {
	if slot := o.sh.SlotOf(name); slot >= 0 {
		desc := o.sh.Descriptor(slot)
		if desc.Kind == shape.KindAccessor {
			acc := o.accessors[slot]
			if acc != nil && !acc.Set.IsUndefined() {
				if fn, ok := acc.Set.ObjectVal().(*Object); ok && fn.IsCallable() {
					_, _ = fn.Call(ctx, this, []value.Value{v})
				}
			}
			return
		}
		if !desc.Attrs.Writable {
			return
		}
		o.slots[slot] = v
		return
	}
	if !o.extensible {
		return
	}
	child := o.shapeCache.Transition(o.sh, name, shape.KindData, shape.Attributes{Writable: true, Enumerable: true, Configurable: true})
	o.sh = child
	o.slots = append(o.slots, v)
}

// DefineDataProperty installs or overwrites name as a data property with
// explicit attributes (used by Object.defineProperty / literal
// construction, which don't always default to writable/enumerable/
// configurable true).
func (o *Object) DefineDataProperty(name string, v value.Value, attrs shape.Attributes) {
	if slot := o.sh.SlotOf(name); slot >= 0 {
		desc := o.sh.Descriptor(slot)
		if desc.Kind != shape.KindData || desc.Attrs != attrs {
			o.sh = o.shapeCache.WithReconfigured(o.sh, name, attrs)
		}
		o.slots[slot] = v
		return
	}
	o.sh = o.shapeCache.Transition(o.sh, name, shape.KindData, attrs)
	o.slots = append(o.slots, v)
}

// DefineAccessorProperty installs name as an accessor property.
func (o *Object) DefineAccessorProperty(name string, get, set value.Value, enumerable, configurable bool) {
	attrs := shape.Attributes{Enumerable: enumerable, Configurable: configurable}
	slot := o.sh.SlotOf(name)
	if slot < 0 {
		o.sh = o.shapeCache.Transition(o.sh, name, shape.KindAccessor, attrs)
		slot = o.sh.SlotOf(name)
		o.slots = append(o.slots, value.Undefined)
	}
	if o.accessors == nil {
		o.accessors = map[int]*Accessor{}
	}
	o.accessors[slot] = &Accessor{Get: get, Set: set}
}

// Delete removes an own property, deprecating the shape so inline caches
// keyed on it invalidate (spec §4.4 cache-invalidation protocol). The
// object itself moves back toward a fresh shape lineage rooted at the
// cache's empty shape plus its remaining properties, since shapes cannot
// be un-transitioned.
func (o *Object) Delete(name string) bool {
	slot := o.sh.SlotOf(name)
	if slot < 0 {
		return true
	}
	desc := o.sh.Descriptor(slot)
	if !desc.Attrs.Configurable {
		return false
	}
	o.sh.Deprecate()

	newSlots := make([]value.Value, 0, len(o.slots)-1)
	var newAccessors map[int]*Accessor
	sh := o.shapeCache.Root()
	for _, d := range o.sh.Properties() {
		if d.Name == name {
			continue
		}
		sh = o.shapeCache.Transition(sh, d.Name, d.Kind, d.Attrs)
		newSlot := len(newSlots)
		newSlots = append(newSlots, o.slots[d.Slot])
		if acc := o.accessors[d.Slot]; acc != nil {
			if newAccessors == nil {
				newAccessors = map[int]*Accessor{}
			}
			newAccessors[newSlot] = acc
		}
	}
	o.sh = sh
	o.slots = newSlots
	o.accessors = newAccessors
	return true
}

// OwnPropertyNames returns own property names in insertion (shape) order,
// filtered to enumerable when onlyEnumerable is set (for-in / Object.keys
// semantics, spec §4.3).
func (o *Object) OwnPropertyNames(onlyEnumerable bool) []string {
	props := o.sh.Properties()
	names := make([]string, 0, len(props))
	for _, d := range props {
		if onlyEnumerable && !d.Attrs.Enumerable {
			continue
		}
		names = append(names, d.Name)
	}
	return names
}
