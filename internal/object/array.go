package object

import "github.com/ecmago/ecmago/internal/value"

// Array elements are stored separately from named properties (spec §4.4);
// `length` is always max(assigned index)+1, never tracked independently.

// GetElement reads array index i; ok is false past the current length.
func (o *Object) GetElement(i int) (value.Value, bool) {
	if i < 0 || i >= len(o.elements) {
		return value.Undefined, false
	}
	return o.elements[i], true
}

// SetElement writes array index i, growing the element store (filling the
// gap with Undefined, spec scenario 6: `a[3]=1` makes `a.length===4` and
// `typeof a[0] === "undefined"`) when i is beyond the current length.
func (o *Object) SetElement(i int, v value.Value) {
	if i < 0 {
		return
	}
	if i >= len(o.elements) {
		grown := make([]value.Value, i+1)
		copy(grown, o.elements)
		for j := len(o.elements); j < i; j++ {
			grown[j] = value.Undefined
		}
		o.elements = grown
	}
	o.elements[i] = v
}

// Length returns the array's current length.
func (o *Object) Length() int { return len(o.elements) }

// SetLength truncates the element store to n (spec §4.4: "Setting length
// to a smaller value truncates elements"), or extends it with Undefined
// elements when n exceeds the current length.
func (o *Object) SetLength(n int) {
	if n < 0 {
		return
	}
	if n >= len(o.elements) {
		grown := make([]value.Value, n)
		copy(grown, o.elements)
		for j := len(o.elements); j < n; j++ {
			grown[j] = value.Undefined
		}
		o.elements = grown
		return
	}
	o.elements = o.elements[:n]
}

// Elements exposes the backing slice for bulk operations (push/pop/splice
// builtins, and the JIT's bulk-push native tier, spec §9 open question 2:
// native writes mutate this object's element store in place, identity
// preserved).
func (o *Object) Elements() []value.Value { return o.elements }

func (o *Object) Push(v value.Value) int {
	o.elements = append(o.elements, v)
	return len(o.elements)
}

func (o *Object) Pop() (value.Value, bool) {
	n := len(o.elements)
	if n == 0 {
		return value.Undefined, false
	}
	v := o.elements[n-1]
	o.elements = o.elements[:n-1]
	return v, true
}

// AppendBulk extends the element store by vs in one operation, for the
// JIT's "constant-per-iteration push into an array" native pattern (spec
// §4.5). Object identity is preserved: this mutates o in place.
func (o *Object) AppendBulk(vs []value.Value) {
	o.elements = append(o.elements, vs...)
}
