// Package jsonrt implements JSON.parse/JSON.stringify (spec §4.5 JSON
// module): decode via tidwall/gjson's read-only parsed tree (no need for a
// hand-rolled JSON parser when the pack already carries one), encode by
// assembling raw JSON text with tidwall/sjson's path-based raw-value
// setter. Coercer inverts the dependency on internal/interp's ToNumber/
// ToStringValue so this package needn't import internal/interp.
package jsonrt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/value"
)

// MaxDepth bounds recursion for both stringify and the resulting parsed
// tree (spec: "circular-reference detection, depth limit default 100").
const MaxDepth = 100

// Coercer supplies the abstract ToNumber/ToStringValue operations that
// live on interp.Context, avoiding an import cycle.
type Coercer interface {
	ToNumber(v value.Value) (float64, error)
	ToStringValue(v value.Value) (string, error)
}

// ObjectFactory constructs plain objects/arrays rooted at the host's
// prototypes and shape cache -- also supplied by the caller to avoid
// importing internal/shape's cache wiring here.
type ObjectFactory interface {
	NewPlainObject() *object.Object
	NewArray() *object.Object
	CallReplacer(fn value.Value, this value.Value, key string, v value.Value) (value.Value, error)
	CallReviver(fn value.Value, holder value.Value, key string, v value.Value) (value.Value, error)
	InternString(s string) *value.String
}

// Stringify implements JSON.stringify, dropping undefined/function/symbol
// values (becoming absent in objects, null in arrays), rejecting circular
// references and depths beyond MaxDepth with a RangeError/TypeError,
// matching spec §8 scenario 5: "undefined values are dropped in objects
// and become null in arrays; NaN and Infinity serialize as null".
func Stringify(of ObjectFactory, co Coercer, v value.Value, replacer value.Value) (string, bool, error) {
	seen := map[*object.Object]bool{}
	raw, ok, err := encode(of, co, v, replacer, "", seen, 0)
	if err != nil {
		return "", false, err
	}
	return raw, ok, nil
}

func encode(of ObjectFactory, co Coercer, v value.Value, replacer value.Value, key string, seen map[*object.Object]bool, depth int) (string, bool, error) {
	if depth > MaxDepth {
		return "", false, errors.New(errors.RangeError, "JSON stringify depth limit exceeded")
	}
	if replacer.IsFunction() {
		rv, err := of.CallReplacer(replacer, value.Undefined, key, v)
		if err != nil {
			return "", false, err
		}
		v = rv
	}
	if obj, ok := v.ObjectVal().(*object.Object); ok && !obj.IsArray() {
		if tj, ok := obj.GetOwn(nil, v, "toJSON"); ok && tj.IsFunction() {
			// toJSON hook: call with no ctx dependency beyond Call's ctx any,
			// which native functions ignore if they don't need it.
			if fn, ok := tj.ObjectVal().(*object.Object); ok {
				rv, err := fn.Call(nil, v, nil)
				if err == nil {
					v = rv
				}
			}
		}
	}

	switch v.Kind() {
	case value.KindUndefined, value.KindSymbol, value.KindFunction:
		return "", false, nil
	case value.KindNull:
		return "null", true, nil
	case value.KindBoolean:
		if v.Bool() {
			return "true", true, nil
		}
		return "false", true, nil
	case value.KindNumber:
		n := v.Float()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "null", true, nil
		}
		return formatNumber(n), true, nil
	case value.KindBigInt:
		return "", false, errors.New(errors.TypeError, "Do not know how to serialize a BigInt")
	case value.KindString:
		b, _ := json.Marshal(v.StringVal().Value())
		return string(b), true, nil
	default:
		obj, ok := v.ObjectVal().(*object.Object)
		if !ok {
			return "null", true, nil
		}
		if seen[obj] {
			return "", false, errors.New(errors.TypeError, "Converting circular structure to JSON")
		}
		seen[obj] = true
		defer delete(seen, obj)

		if obj.IsArray() {
			acc := "[]"
			elems := obj.Elements()
			for i, ev := range elems {
				raw, ok, err := encode(of, co, ev, replacer, strconv.Itoa(i), seen, depth+1)
				if err != nil {
					return "", false, err
				}
				if !ok {
					raw = "null"
				}
				acc, err = sjson.SetRaw(acc, strconv.Itoa(i), raw)
				if err != nil {
					return "", false, err
				}
			}
			return acc, true, nil
		}

		acc := "{}"
		for _, name := range obj.OwnPropertyNames(true) {
			pv, _ := obj.GetOwn(nil, v, name)
			raw, ok, err := encode(of, co, pv, replacer, name, seen, depth+1)
			if err != nil {
				return "", false, err
			}
			if !ok {
				continue
			}
			acc, err = sjson.SetRaw(acc, sjsonEscapePath(name), raw)
			if err != nil {
				return "", false, err
			}
		}
		return acc, true, nil
	}
}

// sjsonEscapePath escapes path separators sjson treats specially so plain
// object keys round-trip (spec scope: arbitrary key names are a non-goal
// beyond what sjson's path syntax already tolerates).
func sjsonEscapePath(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' || c == '*' || c == '?' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// formatNumber renders a finite number the way JSON.stringify's Quote
// operation does (ECMA-262 requires the same Number::toString algorithm
// encode uses for a string context). Duplicated from internal/interp's
// formatNumber rather than shared, since internal/interp already imports
// this package for JSON.parse/stringify wiring and sharing it would
// create an import cycle; Go's 'g' verb diverges from the spec algorithm
// at small/large magnitudes (e.g. 1e-7 -> "1e-07" instead of "1e-7").
func formatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	abs := math.Abs(n)

	mant := strconv.FormatFloat(abs, 'e', -1, 64)
	ePos := strings.IndexByte(mant, 'e')
	digits := strings.Replace(mant[:ePos], ".", "", 1)
	exp, _ := strconv.Atoi(mant[ePos+1:])
	k := len(digits)
	nExp := exp + 1

	var out string
	switch {
	case k <= nExp && nExp <= 21:
		out = digits + strings.Repeat("0", nExp-k)
	case 0 < nExp && nExp <= 21:
		out = digits[:nExp] + "." + digits[nExp:]
	case -6 < nExp && nExp <= 0:
		out = "0." + strings.Repeat("0", -nExp) + digits
	default:
		e := nExp - 1
		sign := "+"
		if e < 0 {
			sign = "-"
			e = -e
		}
		if k == 1 {
			out = digits + "e" + sign + strconv.Itoa(e)
		} else {
			out = digits[:1] + "." + digits[1:] + "e" + sign + strconv.Itoa(e)
		}
	}
	if neg {
		return "-" + out
	}
	return out
}

// Parse implements JSON.parse, walking gjson's parsed representation into
// the engine's Value tree, then applying an optional reviver bottom-up
// (spec: JSON.parse(text, reviver)).
func Parse(of ObjectFactory, text string, reviver value.Value) (value.Value, error) {
	if !gjson.Valid(text) {
		return value.Undefined, errors.New(errors.SyntaxError, "Unexpected token in JSON")
	}
	root := gjson.Parse(text)
	v, err := decode(of, root, 0)
	if err != nil {
		return value.Undefined, err
	}
	if reviver.IsFunction() {
		holder := of.NewPlainObject()
		holder.Set(nil, value.Obj(holder), "", v)
		return walkRevive(of, value.Obj(holder), "", reviver)
	}
	return v, nil
}

func decode(of ObjectFactory, r gjson.Result, depth int) (value.Value, error) {
	if depth > MaxDepth {
		return value.Undefined, errors.New(errors.RangeError, "JSON parse depth limit exceeded")
	}
	switch {
	case r.IsArray():
		arr := of.NewArray()
		for _, el := range r.Array() {
			ev, err := decode(of, el, depth+1)
			if err != nil {
				return value.Undefined, err
			}
			arr.Push(ev)
		}
		return value.Obj(arr), nil
	case r.IsObject():
		obj := of.NewPlainObject()
		var outerErr error
		r.ForEach(func(k, v gjson.Result) bool {
			dv, err := decode(of, v, depth+1)
			if err != nil {
				outerErr = err
				return false
			}
			obj.Set(nil, value.Obj(obj), k.String(), dv)
			return true
		})
		if outerErr != nil {
			return value.Undefined, outerErr
		}
		return value.Obj(obj), nil
	case r.Type == gjson.Null:
		return value.Null, nil
	case r.Type == gjson.True:
		return value.True, nil
	case r.Type == gjson.False:
		return value.False, nil
	case r.Type == gjson.Number:
		return value.Number(r.Float()), nil
	case r.Type == gjson.String:
		return value.Str(of.InternString(r.String())), nil
	default:
		return value.Undefined, fmt.Errorf("unexpected JSON node type")
	}
}

func walkRevive(of ObjectFactory, holder value.Value, key string, reviver value.Value) (value.Value, error) {
	obj, ok := holder.ObjectVal().(*object.Object)
	if !ok {
		return holder, nil
	}
	v, _ := obj.GetOwn(nil, holder, key)
	if inner, ok := v.ObjectVal().(*object.Object); ok {
		if inner.IsArray() {
			for i, ev := range append([]value.Value{}, inner.Elements()...) {
				nv, err := walkRevive(of, value.Obj(inner), strconv.Itoa(i), reviver)
				if err != nil {
					return value.Undefined, err
				}
				inner.SetElement(i, nv)
				_ = ev
			}
		} else {
			for _, name := range append([]string{}, inner.OwnPropertyNames(true)...) {
				nv, err := walkRevive(of, value.Obj(inner), name, reviver)
				if err != nil {
					return value.Undefined, err
				}
				if nv.IsUndefined() {
					inner.Delete(name)
				} else {
					inner.Set(nil, value.Obj(inner), name, nv)
				}
			}
		}
	}
	return of.CallReviver(reviver, holder, key, v)
}
