package interp

import (
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// installErrorConstructors wires the generic Error constructor plus one
// subclass constructor per diagnostic Kind (spec §7: "TypeError, RangeError,
// ReferenceError, SyntaxError, URIError all inherit from Error"), each
// subclass prototype chained to errorProto so `e instanceof Error` holds
// for every thrown value the engine itself raises.
func installErrorConstructors(ctx *Context) {
	ctx.errorProtos = map[errors.Kind]*object.Object{}

	ctx.method(ctx.errorProto, "toString", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := this.ObjectVal().(*object.Object)
		if !ok {
			return value.Str(ctx.Strings.Intern("Error")), nil
		}
		name := "Error"
		if nv, ok := obj.GetOwn(ctx, this, "name"); ok {
			if s, err := ctx.ToStringValue(nv); err == nil {
				name = s
			}
		}
		msg := ""
		if mv, ok := obj.GetOwn(ctx, this, "message"); ok {
			if s, err := ctx.ToStringValue(mv); err == nil {
				msg = s
			}
		}
		if msg == "" {
			return value.Str(ctx.Strings.Intern(name)), nil
		}
		return value.Str(ctx.Strings.Intern(name + ": " + msg)), nil
	})
	ctx.errorProto.DefineDataProperty("name", value.Str(ctx.Strings.Intern("Error")), shape.Attributes{Writable: true, Configurable: true})
	ctx.errorProto.DefineDataProperty("message", value.Str(ctx.Strings.Intern("")), shape.Attributes{Writable: true, Configurable: true})

	ctx.globalConstructor("Error", ctx.makeErrorCtor("Error", ctx.errorProto, errors.Internal))

	subtypes := []struct {
		name string
		kind errors.Kind
	}{
		{"TypeError", errors.TypeError},
		{"RangeError", errors.RangeError},
		{"ReferenceError", errors.ReferenceError},
		{"SyntaxError", errors.SyntaxError},
		{"URIError", errors.URIError},
	}
	for _, st := range subtypes {
		proto := object.New(ctx.Shapes, ctx.errorProto)
		proto.DefineDataProperty("name", value.Str(ctx.Strings.Intern(st.name)), shape.Attributes{Writable: true, Configurable: true})
		ctx.errorProtos[st.kind] = proto
		ctx.globalConstructor(st.name, ctx.makeErrorCtor(st.name, proto, st.kind))
	}
	ctx.errorProtos[errors.Internal] = ctx.errorProto
}

func (ctx *Context) makeErrorCtor(name string, proto *object.Object, kind errors.Kind) *object.Object {
	ctor := object.NewFunction(ctx.Shapes, ctx.functionProto, name, func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		inst := this
		if obj, ok := this.ObjectVal().(*object.Object); !ok || obj == nil {
			inst = value.Obj(object.New(ctx.Shapes, proto))
		}
		obj := inst.ObjectVal().(*object.Object)
		msg := ""
		if len(args) > 0 && !args[0].IsUndefined() {
			s, err := ctx.ToStringValue(args[0])
			if err != nil {
				return value.Undefined, err
			}
			msg = s
		}
		obj.DefineDataProperty("message", value.Str(ctx.Strings.Intern(msg)), shape.Attributes{Writable: true, Configurable: true})
		obj.DefineDataProperty("stack", value.Str(ctx.Strings.Intern(name+": "+msg)), shape.Attributes{Writable: true, Configurable: true})
		return inst, nil
	})
	ctor.SetConstructorPrototype(proto)
	proto.DefineDataProperty("constructor", value.Obj(ctor), shape.Attributes{Writable: true, Configurable: true})
	return ctor
}

// newErrorObject builds a script-visible Error instance of the matching
// subtype for an internally raised *errors.RuntimeError (spec §7: engine
// faults like "x is not a function" surface as catchable TypeError
// instances, not uncatchable Go panics).
func (ctx *Context) newErrorObject(kind errors.Kind, message string) *object.Object {
	proto := ctx.errorProtos[kind]
	if proto == nil {
		proto = ctx.errorProto
	}
	obj := object.New(ctx.Shapes, proto)
	obj.DefineDataProperty("message", value.Str(ctx.Strings.Intern(message)), shape.Attributes{Writable: true, Configurable: true})
	obj.DefineDataProperty("stack", value.Str(ctx.Strings.Intern(kind.String()+": "+message)), shape.Attributes{Writable: true, Configurable: true})
	return obj
}
