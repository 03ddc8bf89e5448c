package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/value"
)

// installNumberConstructor wires Number.prototype.toString/valueOf plus the
// Number global's static constants and parse helpers (spec SPEC_FULL §D).
func installNumberConstructor(ctx *Context) {
	asNumber := func(ctx *Context, this value.Value) float64 {
		if this.IsNumber() {
			return this.Float()
		}
		n, _ := ctx.ToNumber(this)
		return n
	}
	ctx.method(ctx.numberProto, "toString", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		n := asNumber(ctx, this)
		radix := 10
		if len(args) > 0 && !args[0].IsUndefined() {
			radix = int(argNumber(ctx, args, 0))
		}
		if radix == 10 {
			return value.Str(ctx.Strings.Intern(formatNumber(n))), nil
		}
		return value.Str(ctx.Strings.Intern(strconv.FormatInt(int64(n), radix))), nil
	})
	ctx.method(ctx.numberProto, "valueOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(asNumber(ctx, this)), nil
	})
	ctx.method(ctx.numberProto, "toFixed", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		n := asNumber(ctx, this)
		digits := int(argNumber(ctx, args, 0))
		return value.Str(ctx.Strings.Intern(strconv.FormatFloat(n, 'f', digits, 64))), nil
	})

	ctor := object.NewFunction(ctx.Shapes, ctx.functionProto, "Number", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Number(0), nil
		}
		n, err := ctx.ToNumber(args[0])
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(n), nil
	})
	ctor.SetConstructorPrototype(ctx.numberProto)
	ctor.DefineDataProperty("MAX_SAFE_INTEGER", value.Number(9007199254740991), dataAttrs())
	ctor.DefineDataProperty("MIN_SAFE_INTEGER", value.Number(-9007199254740991), dataAttrs())
	ctor.DefineDataProperty("MAX_VALUE", value.Number(math.MaxFloat64), dataAttrs())
	ctor.DefineDataProperty("EPSILON", value.Number(2.220446049250313e-16), dataAttrs())
	ctor.DefineDataProperty("POSITIVE_INFINITY", value.Number(math.Inf(1)), dataAttrs())
	ctor.DefineDataProperty("NEGATIVE_INFINITY", value.Number(math.Inf(-1)), dataAttrs())
	ctor.DefineDataProperty("NaN", value.Number(math.NaN()), dataAttrs())
	ctx.method(ctor, "isInteger", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		v := argValue(args, 0)
		if !v.IsNumber() {
			return value.False, nil
		}
		n := v.Float()
		return value.Bool(!math.IsNaN(n) && !math.IsInf(n, 0) && n == math.Trunc(n)), nil
	})
	ctx.method(ctor, "isFinite", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		v := argValue(args, 0)
		return value.Bool(v.IsNumber() && !math.IsNaN(v.Float()) && !math.IsInf(v.Float(), 0)), nil
	})
	ctx.method(ctor, "isNaN", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		v := argValue(args, 0)
		return value.Bool(v.IsNumber() && math.IsNaN(v.Float())), nil
	})
	ctx.method(ctor, "parseFloat", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(parseLeadingFloat(argString(ctx, args, 0))), nil
	})
	ctx.method(ctor, "parseInt", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		radix := 10
		if len(args) > 1 && !args[1].IsUndefined() {
			radix = int(argNumber(ctx, args, 1))
		}
		return value.Number(parseLeadingInt(argString(ctx, args, 0), radix)), nil
	})
	ctx.globalConstructor("Number", ctor)

	ctx.method(ctx.booleanProto, "toString", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if this.ToBoolean() {
			return value.Str(ctx.Strings.Intern("true")), nil
		}
		return value.Str(ctx.Strings.Intern("false")), nil
	})
	ctx.method(ctx.booleanProto, "valueOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(this.ToBoolean()), nil
	})
	boolCtor := object.NewFunction(ctx.Shapes, ctx.functionProto, "Boolean", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(argValue(args, 0).ToBoolean()), nil
	})
	boolCtor.SetConstructorPrototype(ctx.booleanProto)
	ctx.globalConstructor("Boolean", boolCtor)

	ctx.defineGlobal("parseInt", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "parseInt", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		radix := 10
		if len(args) > 1 && !args[1].IsUndefined() {
			radix = int(argNumber(ctx, args, 1))
		}
		return value.Number(parseLeadingInt(argString(ctx, args, 0), radix)), nil
	})))
	ctx.defineGlobal("parseFloat", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "parseFloat", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(parseLeadingFloat(argString(ctx, args, 0))), nil
	})))
	ctx.defineGlobal("isNaN", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "isNaN", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		n, err := ctx.ToNumber(argValue(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Bool(math.IsNaN(n)), nil
	})))
}

// parseLeadingFloat finds the longest prefix of s that parses as a float,
// per Number.parseFloat's "parse as much as looks numeric" contract.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	for end := len(s); end > 0; end-- {
		if n, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return n
		}
	}
	return math.NaN()
}

func parseLeadingInt(s string, radix int) float64 {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if radix == 16 || ((radix == 0 || radix == 10) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"))) {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}
	end := 0
	for end < len(s) && isDigitForRadix(s[end], radix) {
		end++
	}
	if end == 0 {
		return math.NaN()
	}
	n, err := strconv.ParseInt(s[:end], radix, 64)
	if err != nil {
		return math.NaN()
	}
	if neg {
		return -float64(n)
	}
	return float64(n)
}

func isDigitForRadix(c byte, radix int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < radix
}
