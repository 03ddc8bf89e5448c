package interp

import (
	"math"
	"math/rand"

	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/value"
)

// installMathNamespace wires the Math global (spec SPEC_FULL §D), each
// method a thin NativeFunc wrapper over the stdlib math package -- this is
// one of the few places stdlib is the right tool: there is no ecosystem
// "JS Math polyfill" library in the pack, and math.Sqrt/math.Pow etc. are
// exactly the operations ECMAScript's Math object specifies.
func installMathNamespace(ctx *Context) {
	m := object.New(ctx.Shapes, ctx.objectProto)

	unary := func(name string, fn func(float64) float64) {
		ctx.method(m, name, func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
			n, err := ctx.ToNumber(argValue(args, 0))
			if err != nil {
				return value.Undefined, err
			}
			return value.Number(fn(n)), nil
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("exp", math.Exp)
	unary("sign", func(n float64) float64 {
		switch {
		case math.IsNaN(n):
			return math.NaN()
		case n > 0:
			return 1
		case n < 0:
			return -1
		default:
			return n
		}
	})
	unary("round", func(n float64) float64 { return math.Floor(n + 0.5) })

	ctx.method(m, "pow", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		base, err := ctx.ToNumber(argValue(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		exp, err := ctx.ToNumber(argValue(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(math.Pow(base, exp)), nil
	})
	ctx.method(m, "max", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Number(math.Inf(-1)), nil
		}
		best := math.Inf(-1)
		for _, a := range args {
			n, err := ctx.ToNumber(a)
			if err != nil {
				return value.Undefined, err
			}
			if math.IsNaN(n) {
				return value.Number(math.NaN()), nil
			}
			if n > best {
				best = n
			}
		}
		return value.Number(best), nil
	})
	ctx.method(m, "min", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Number(math.Inf(1)), nil
		}
		best := math.Inf(1)
		for _, a := range args {
			n, err := ctx.ToNumber(a)
			if err != nil {
				return value.Undefined, err
			}
			if math.IsNaN(n) {
				return value.Number(math.NaN()), nil
			}
			if n < best {
				best = n
			}
		}
		return value.Number(best), nil
	})
	ctx.method(m, "random", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(rand.Float64()), nil
	})
	ctx.method(m, "hypot", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		sum := 0.0
		for _, a := range args {
			n, err := ctx.ToNumber(a)
			if err != nil {
				return value.Undefined, err
			}
			sum += n * n
		}
		return value.Number(math.Sqrt(sum)), nil
	})

	m.DefineDataProperty("PI", value.Number(math.Pi), dataAttrs())
	m.DefineDataProperty("E", value.Number(math.E), dataAttrs())
	m.DefineDataProperty("LN2", value.Number(math.Ln2), dataAttrs())
	m.DefineDataProperty("LN10", value.Number(math.Log(10)), dataAttrs())
	m.DefineDataProperty("SQRT2", value.Number(math.Sqrt2), dataAttrs())

	ctx.defineGlobal("Math", value.Obj(m))
}
