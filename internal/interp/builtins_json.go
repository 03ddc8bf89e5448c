package interp

import (
	"github.com/ecmago/ecmago/internal/jsonrt"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/value"
)

// NewPlainObject/NewArray/CallReplacer/CallReviver/InternString satisfy
// jsonrt.ObjectFactory, letting internal/jsonrt build Values without
// importing internal/interp (spec §4.5 JSON module).
func (ctx *Context) NewPlainObject() *object.Object { return object.New(ctx.Shapes, ctx.objectProto) }
func (ctx *Context) NewArray() *object.Object       { return object.NewArray(ctx.Shapes, ctx.arrayProto) }
func (ctx *Context) InternString(s string) *value.String { return ctx.Strings.Intern(s) }

func (ctx *Context) CallReplacer(fnVal value.Value, this value.Value, key string, v value.Value) (value.Value, error) {
	fn, ok := fnVal.ObjectVal().(*object.Object)
	if !ok || !fn.IsCallable() {
		return v, nil
	}
	return fn.Call(ctx, this, []value.Value{value.Str(ctx.Strings.Intern(key)), v})
}

func (ctx *Context) CallReviver(fnVal value.Value, holder value.Value, key string, v value.Value) (value.Value, error) {
	fn, ok := fnVal.ObjectVal().(*object.Object)
	if !ok || !fn.IsCallable() {
		return v, nil
	}
	return fn.Call(ctx, holder, []value.Value{value.Str(ctx.Strings.Intern(key)), v})
}

// installJSONNamespace wires the JSON global onto internal/jsonrt's
// Stringify/Parse (spec SPEC_FULL §D Domain Stack: gjson/sjson).
func installJSONNamespace(ctx *Context) {
	j := object.New(ctx.Shapes, ctx.objectProto)

	ctx.method(j, "stringify", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		replacer := argValue(args, 1)
		raw, ok, err := jsonrt.Stringify(ctx, ctx, argValue(args, 0), replacer)
		if err != nil {
			return value.Undefined, err
		}
		if !ok {
			return value.Undefined, nil
		}
		return value.Str(ctx.Strings.Intern(raw)), nil
	})
	ctx.method(j, "parse", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		text := argString(ctx, args, 0)
		v, err := jsonrt.Parse(ctx, text, argValue(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		return v, nil
	})

	ctx.defineGlobal("JSON", value.Obj(j))
}
