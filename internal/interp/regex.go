package interp

import (
	"github.com/dlclark/regexp2"

	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// makeRegexObject compiles a /pattern/flags literal via regexp2's
// ECMAScript-compatibility mode -- the one third-party dependency the
// pack wires for regex (no example ships a hand-rolled NFA, and Go's
// stdlib regexp is RE2-only, lacking backreferences/lookaround ECMAScript
// patterns rely on), grounded on internal/interp/regex.go's RegExp
// object: a thin wrapper exposing exec/test plus source/flags/lastIndex.
func (ctx *Context) makeRegexObject(pattern, flags string) (value.Value, error) {
	opts := regexp2.ECMAScript
	if containsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if containsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	if containsRune(flags, 's') {
		opts |= regexp2.Singleline
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return value.Undefined, errors.New(errors.SyntaxError, "Invalid regular expression: %s", err.Error())
	}

	obj := object.New(ctx.Shapes, ctx.objectProto)
	obj.DefineDataProperty("source", value.Str(ctx.Strings.Intern(pattern)), shape.Attributes{})
	obj.DefineDataProperty("flags", value.Str(ctx.Strings.Intern(flags)), shape.Attributes{})
	obj.DefineDataProperty("global", value.Bool(containsRune(flags, 'g')), shape.Attributes{})
	obj.DefineDataProperty("lastIndex", value.Number(0), shape.Attributes{Writable: true})

	obj.DefineDataProperty("test", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "test", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		s := argString(ctx, args, 0)
		m, err := re.FindStringMatch(s)
		if err != nil {
			return value.False, nil
		}
		return value.Bool(m != nil), nil
	})), shape.Attributes{Writable: true, Configurable: true})

	obj.DefineDataProperty("exec", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "exec", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		s := argString(ctx, args, 0)
		m, err := re.FindStringMatch(s)
		if err != nil || m == nil {
			return value.Null, nil
		}
		arr := object.NewArray(ctx.Shapes, ctx.arrayProto)
		arr.Push(value.Str(ctx.Strings.Intern(m.String())))
		for _, g := range m.Groups()[1:] {
			if len(g.Captures) == 0 {
				arr.Push(value.Undefined)
				continue
			}
			arr.Push(value.Str(ctx.Strings.Intern(g.String())))
		}
		arr.Set(ctx, value.Obj(arr), "index", value.Number(float64(m.Index)))
		arr.Set(ctx, value.Obj(arr), "input", value.Str(ctx.Strings.Intern(s)))
		return value.Obj(arr), nil
	})), shape.Attributes{Writable: true, Configurable: true})

	return value.Obj(obj), nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func argString(ctx *Context, args []value.Value, i int) string {
	if i >= len(args) {
		return ""
	}
	s, err := ctx.ToStringValue(args[i])
	if err != nil {
		return ""
	}
	return s
}

func argValue(args []value.Value, i int) value.Value {
	if i >= len(args) {
		return value.Undefined
	}
	return args[i]
}
