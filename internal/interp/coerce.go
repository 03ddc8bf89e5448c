package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/value"
)

// ToPrimitive implements the abstract operation of the same name (spec
// §4.3): objects are reduced to a primitive by calling valueOf/toString,
// in the order the hint dictates. Symbol.toPrimitive is not consulted.
func (ctx *Context) ToPrimitive(v value.Value, hintString bool) (value.Value, error) {
	if !v.IsObject() {
		return v, nil
	}
	obj, _ := v.ObjectVal().(*object.Object)
	if obj == nil {
		return v, nil
	}
	order := []string{"valueOf", "toString"}
	if hintString {
		order = []string{"toString", "valueOf"}
	}
	for _, name := range order {
		fnVal := obj.Get(ctx, v, name)
		fn, ok := fnVal.ObjectVal().(*object.Object)
		if !ok || !fn.IsCallable() {
			continue
		}
		result, err := fn.Call(ctx, v, nil)
		if err != nil {
			return value.Undefined, err
		}
		if !result.IsObject() {
			return result, nil
		}
	}
	return value.Undefined, errors.New(errors.TypeError, "Cannot convert object to primitive value")
}

// ToNumber implements the ToNumber abstract operation (spec §4.3).
func (ctx *Context) ToNumber(v value.Value) (float64, error) {
	switch v.Kind() {
	case value.KindNumber:
		return v.Float(), nil
	case value.KindBoolean:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case value.KindUndefined:
		return math.NaN(), nil
	case value.KindNull:
		return 0, nil
	case value.KindString:
		return stringToNumber(v.StringVal().Value()), nil
	case value.KindBigInt:
		return 0, errors.New(errors.TypeError, "Cannot convert a BigInt value to a number")
	case value.KindSymbol:
		return 0, errors.New(errors.TypeError, "Cannot convert a Symbol value to a number")
	default:
		prim, err := ctx.ToPrimitive(v, false)
		if err != nil {
			return 0, err
		}
		if prim.IsObject() {
			return math.NaN(), nil
		}
		return ctx.ToNumber(prim)
	}
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if n, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
			return float64(n)
		}
	}
	return math.NaN()
}

// ToStringValue implements the ToString abstract operation (spec §4.3),
// named to avoid colliding with fmt.Stringer.
func (ctx *Context) ToStringValue(v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindString:
		return v.StringVal().Value(), nil
	case value.KindUndefined:
		return "undefined", nil
	case value.KindNull:
		return "null", nil
	case value.KindBoolean:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case value.KindNumber:
		return formatNumber(v.Float()), nil
	case value.KindBigInt:
		return v.BigIntVal().String(), nil
	case value.KindSymbol:
		return "", errors.New(errors.TypeError, "Cannot convert a Symbol value to a string")
	default:
		prim, err := ctx.ToPrimitive(v, true)
		if err != nil {
			return "", err
		}
		if prim.IsObject() {
			return "[object Object]", nil
		}
		return ctx.ToStringValue(prim)
	}
}

// formatNumber implements ECMAScript Number::toString's default (radix 10)
// formatting (spec §6.1.6.1.20): NaN/Infinity spelled out, shortest
// round-trip digits laid out in decimal or exponential notation per the
// same n/k/s rule the spec uses, not Go's 'g' verb, which zero-pads
// exponents and switches notation at different thresholds (1e-7 would
// come out "1e-07" instead of "1e-7").
func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
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
	nExp := exp + 1 // spec's n: value == 0.digits * 10^n

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

// ToInt32/ToUint32 implement the matching abstract operations (spec §4.3).
func ToInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	u := uint32(int64(math.Trunc(n)))
	return int32(u)
}

func ToUint32(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(n)))
}

// LooseEquals implements == (spec §4.3 coercion table), a strict subset
// covering the common cases: nullish pairs, number/string, booleans and
// object-to-primitive. Any other pair of differing kinds (BigInt against
// Number or String, a Symbol against a non-Symbol) compares unequal
// without raising an error.
func (ctx *Context) LooseEquals(a, b value.Value) (bool, error) {
	if a.Kind() == b.Kind() {
		return value.StrictEquals(a, b), nil
	}
	if a.IsNullish() && b.IsNullish() {
		return true, nil
	}
	if a.IsNullish() || b.IsNullish() {
		return false, nil
	}
	if a.IsNumber() && b.IsString() {
		bn, err := ctx.ToNumber(b)
		if err != nil {
			return false, err
		}
		return a.Float() == bn, nil
	}
	if a.IsString() && b.IsNumber() {
		return ctx.LooseEquals(b, a)
	}
	if a.IsBoolean() {
		return ctx.LooseEquals(value.Number(boolToFloat(a.Bool())), b)
	}
	if b.IsBoolean() {
		return ctx.LooseEquals(a, value.Number(boolToFloat(b.Bool())))
	}
	if a.IsObject() && !b.IsObject() {
		prim, err := ctx.ToPrimitive(a, false)
		if err != nil {
			return false, err
		}
		return ctx.LooseEquals(prim, b)
	}
	if b.IsObject() && !a.IsObject() {
		return ctx.LooseEquals(b, a)
	}
	return false, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
