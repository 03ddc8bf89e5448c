// Package value implements the tagged Value representation at the root of
// the runtime (spec §3 DATA MODEL), grounded on the teacher's evaluator
// value type: a small fixed-size struct carrying a kind tag plus the
// minimum payload for that kind, rather than an interface{} (interface
// values box and allocate; this does not, except for the heap-owned kinds).
package value

import "math"

// Kind identifies which variant of Value is populated.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindSymbol
	KindBigInt
	KindObject
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindBigInt:
		return "bigint"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// ObjectRef is satisfied by *object.Object; value cannot import object
// directly (object embeds Values in its slots), so the dependency is
// inverted through this interface, mirroring the teacher's forward
// reference pattern between its runtime and interp packages.
type ObjectRef interface {
	IsCallable() bool
	ClassName() string
}

// Value is the tagged union described in spec §3. Undefined/Null/Boolean/
// Number never allocate; String/Symbol/BigInt/Object/Function hold a
// pointer to heap-owned data.
type Value struct {
	kind Kind
	num  float64 // Number payload, and bool payload (0/1)
	str  *String
	sym  *Symbol
	big  *BigInt
	obj  ObjectRef
}

var Undefined = Value{kind: KindUndefined}
var Null = Value{kind: KindNull}
var True = Value{kind: KindBoolean, num: 1}
var False = Value{kind: KindBoolean, num: 0}

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func Str(s *String) Value { return Value{kind: KindString, str: s} }

func Sym(s *Symbol) Value { return Value{kind: KindSymbol, sym: s} }

func Big(b *BigInt) Value { return Value{kind: KindBigInt, big: b} }

func Obj(o ObjectRef) Value {
	if o != nil && o.IsCallable() {
		return Value{kind: KindFunction, obj: o}
	}
	return Value{kind: KindObject, obj: o}
}

// ObjAs forces Object kind even for callables (used when constructing plain
// data wrappers around something that happens to implement IsCallable).
func ObjAs(o ObjectRef) Value { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsNullish() bool   { return v.kind == KindUndefined || v.kind == KindNull }
func (v Value) IsBoolean() bool   { return v.kind == KindBoolean }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsSymbol() bool    { return v.kind == KindSymbol }
func (v Value) IsBigInt() bool    { return v.kind == KindBigInt }
func (v Value) IsObject() bool    { return v.kind == KindObject || v.kind == KindFunction }
func (v Value) IsFunction() bool  { return v.kind == KindFunction }

func (v Value) Bool() bool       { return v.num != 0 }
func (v Value) Float() float64   { return v.num }
func (v Value) StringVal() *String { return v.str }
func (v Value) SymbolVal() *Symbol { return v.sym }
func (v Value) BigIntVal() *BigInt { return v.big }
func (v Value) ObjectVal() ObjectRef { return v.obj }

// TypeOf implements the `typeof` operator (spec §4.3).
func (v Value) TypeOf() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindBigInt:
		return "bigint"
	case KindFunction:
		return "function"
	default:
		return "object"
	}
}

// ToBoolean implements the ToBoolean abstract operation.
func (v Value) ToBoolean() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.num != 0
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindString:
		return v.str != nil && len(v.str.Value()) > 0
	case KindBigInt:
		return v.big != nil && !v.big.IsZero()
	default:
		return true
	}
}

// SameValue implements Object.is (spec §4.3): -0 and +0 differ, NaN equals
// itself.
func SameValue(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		if math.IsNaN(a.num) && math.IsNaN(b.num) {
			return true
		}
		if a.num == 0 && b.num == 0 {
			return math.Signbit(a.num) == math.Signbit(b.num)
		}
		return a.num == b.num
	case KindString:
		return a.str.Value() == b.str.Value()
	case KindBigInt:
		return a.big.Cmp(b.big) == 0
	case KindBoolean:
		return a.num == b.num
	case KindSymbol:
		return a.sym == b.sym
	case KindObject, KindFunction:
		return a.obj == b.obj
	default:
		return true // Undefined, Null
	}
}

// StrictEquals implements === (spec §4.3): NaN is never equal, -0 == +0.
func StrictEquals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str.Value() == b.str.Value()
	case KindBigInt:
		return a.big.Cmp(b.big) == 0
	case KindBoolean:
		return a.num == b.num
	case KindSymbol:
		return a.sym == b.sym
	case KindObject, KindFunction:
		return a.obj == b.obj
	default:
		return true
	}
}
