package interp

import (
	"strings"

	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/value"
)

// stringProperty implements primitive string auto-boxing (spec §4.4):
// .length is the UTF-16 code-unit count, index access reads straight off
// the rune content, everything else falls back to String.prototype.
// Indices are by Unicode code point rather than UTF-16 code unit, the one
// documented simplification from full ECMAScript string indexing; for text
// outside the BMP, .length is therefore larger than the number of indices.
func (ctx *Context) stringProperty(v value.Value, name string) (value.Value, error) {
	s := v.StringVal().Value()
	if name == "length" {
		return value.Number(float64(v.StringVal().Len16())), nil
	}
	if idx, ok := arrayIndex(name); ok {
		runes := []rune(s)
		if idx < 0 || idx >= len(runes) {
			return value.Undefined, nil
		}
		return value.Str(ctx.Strings.Intern(string(runes[idx]))), nil
	}
	return ctx.stringProto.Get(ctx, v, name), nil
}

func installStringPrototype(ctx *Context) {
	self := func(ctx *Context, this value.Value) string {
		s, _ := ctx.ToStringValue(this)
		return s
	}

	ctx.method(ctx.stringProto, "toString", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(self(ctx, this))), nil
	})
	ctx.method(ctx.stringProto, "valueOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(self(ctx, this))), nil
	})
	ctx.method(ctx.stringProto, "charAt", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		runes := []rune(self(ctx, this))
		i := int(argNumber(ctx, args, 0))
		if i < 0 || i >= len(runes) {
			return value.Str(ctx.Strings.Intern("")), nil
		}
		return value.Str(ctx.Strings.Intern(string(runes[i]))), nil
	})
	ctx.method(ctx.stringProto, "charCodeAt", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		str := this
		if !str.IsString() {
			str = value.Str(ctx.Strings.Intern(self(ctx, this)))
		}
		i := int(argNumber(ctx, args, 0))
		u, ok := str.StringVal().CharAt16(i)
		if !ok {
			return value.Number(nan()), nil
		}
		return value.Number(float64(u)), nil
	})
	ctx.method(ctx.stringProto, "indexOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(float64(strings.Index(self(ctx, this), argString(ctx, args, 0)))), nil
	})
	ctx.method(ctx.stringProto, "lastIndexOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(float64(strings.LastIndex(self(ctx, this), argString(ctx, args, 0)))), nil
	})
	ctx.method(ctx.stringProto, "includes", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(strings.Contains(self(ctx, this), argString(ctx, args, 0))), nil
	})
	ctx.method(ctx.stringProto, "startsWith", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(strings.HasPrefix(self(ctx, this), argString(ctx, args, 0))), nil
	})
	ctx.method(ctx.stringProto, "endsWith", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(strings.HasSuffix(self(ctx, this), argString(ctx, args, 0))), nil
	})
	ctx.method(ctx.stringProto, "toUpperCase", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(strings.ToUpper(self(ctx, this)))), nil
	})
	ctx.method(ctx.stringProto, "toLowerCase", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(strings.ToLower(self(ctx, this)))), nil
	})
	ctx.method(ctx.stringProto, "trim", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(strings.TrimSpace(self(ctx, this)))), nil
	})
	ctx.method(ctx.stringProto, "trimStart", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(strings.TrimLeft(self(ctx, this), " \t\n\r"))), nil
	})
	ctx.method(ctx.stringProto, "trimEnd", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(strings.TrimRight(self(ctx, this), " \t\n\r"))), nil
	})
	ctx.method(ctx.stringProto, "slice", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		runes := []rune(self(ctx, this))
		start, end := sliceBounds(len(runes), args, ctx)
		if start >= end {
			return value.Str(ctx.Strings.Intern("")), nil
		}
		return value.Str(ctx.Strings.Intern(string(runes[start:end]))), nil
	})
	ctx.method(ctx.stringProto, "substring", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		runes := []rune(self(ctx, this))
		a := clampIndex(int(argNumber(ctx, args, 0)), len(runes))
		b := len(runes)
		if len(args) > 1 && !argValue(args, 1).IsUndefined() {
			b = clampIndex(int(argNumber(ctx, args, 1)), len(runes))
		}
		if a > b {
			a, b = b, a
		}
		return value.Str(ctx.Strings.Intern(string(runes[a:b]))), nil
	})
	ctx.method(ctx.stringProto, "split", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := object.NewArray(ctx.Shapes, ctx.arrayProto)
		s := self(ctx, this)
		if len(args) == 0 || argValue(args, 0).IsUndefined() {
			arr.Push(value.Str(ctx.Strings.Intern(s)))
			return value.Obj(arr), nil
		}
		sep := argString(ctx, args, 0)
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		for _, p := range parts {
			arr.Push(value.Str(ctx.Strings.Intern(p)))
		}
		return value.Obj(arr), nil
	})
	ctx.method(ctx.stringProto, "replace", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		s := self(ctx, this)
		return value.Str(ctx.Strings.Intern(strings.Replace(s, argString(ctx, args, 0), argString(ctx, args, 1), 1))), nil
	})
	ctx.method(ctx.stringProto, "replaceAll", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		s := self(ctx, this)
		return value.Str(ctx.Strings.Intern(strings.ReplaceAll(s, argString(ctx, args, 0), argString(ctx, args, 1)))), nil
	})
	ctx.method(ctx.stringProto, "repeat", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		n := int(argNumber(ctx, args, 0))
		if n < 0 {
			return value.Undefined, errors.New(errors.RangeError, "Invalid count value")
		}
		return value.Str(ctx.Strings.Intern(strings.Repeat(self(ctx, this), n))), nil
	})
	ctx.method(ctx.stringProto, "padStart", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(pad(self(ctx, this), args, ctx, true))), nil
	})
	ctx.method(ctx.stringProto, "padEnd", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Str(ctx.Strings.Intern(pad(self(ctx, this), args, ctx, false))), nil
	})
	ctx.method(ctx.stringProto, "concat", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		var b strings.Builder
		b.WriteString(self(ctx, this))
		for _, a := range args {
			s, err := ctx.ToStringValue(a)
			if err != nil {
				return value.Undefined, err
			}
			b.WriteString(s)
		}
		return value.Str(ctx.Strings.Intern(b.String())), nil
	})

	ctor := object.NewFunction(ctx.Shapes, ctx.functionProto, "String", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Str(ctx.Strings.Intern("")), nil
		}
		s, err := ctx.ToStringValue(args[0])
		if err != nil {
			return value.Undefined, err
		}
		return value.Str(ctx.Strings.Intern(s)), nil
	})
	ctor.SetConstructorPrototype(ctx.stringProto)
	ctx.method(ctor, "fromCharCode", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		var b strings.Builder
		for _, a := range args {
			n, err := ctx.ToNumber(a)
			if err != nil {
				return value.Undefined, err
			}
			b.WriteRune(rune(int(n)))
		}
		return value.Str(ctx.Strings.Intern(b.String())), nil
	})
	ctx.globalConstructor("String", ctor)
}

func sliceBounds(n int, args []value.Value, ctx *Context) (int, int) {
	start := clampIndex(int(argNumber(ctx, args, 0)), n)
	end := n
	if len(args) > 1 && !argValue(args, 1).IsUndefined() {
		end = clampIndex(int(argNumber(ctx, args, 1)), n)
	}
	return start, end
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func pad(s string, args []value.Value, ctx *Context, start bool) string {
	target := int(argNumber(ctx, args, 0))
	fill := " "
	if len(args) > 1 && !argValue(args, 1).IsUndefined() {
		fill = argString(ctx, args, 1)
	}
	runes := []rune(s)
	if len(runes) >= target || fill == "" {
		return s
	}
	var b strings.Builder
	for b.Len() < target-len(runes) {
		b.WriteString(fill)
	}
	padStr := []rune(b.String())[:target-len(runes)]
	if start {
		return string(padStr) + s
	}
	return s + string(padStr)
}

func argNumber(ctx *Context, args []value.Value, i int) float64 {
	if i >= len(args) {
		return nan()
	}
	n, err := ctx.ToNumber(args[i])
	if err != nil {
		return nan()
	}
	return n
}
