package interp

import (
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// installBuiltins wires the prototype chain and global constructors/
// namespaces a freshly-constructed Context exposes (spec §D SUPPLEMENTED
// FEATURES), grounded on the teacher's one-file-per-builtin-family layout
// (builtins_strings.go / builtins_math.go): each family gets its own file,
// this one only wires the prototype skeleton and the global bindings.
func installBuiltins(ctx *Context) {
	ctx.objectProto = object.New(ctx.Shapes, nil)
	ctx.functionProto = object.NewFunction(ctx.Shapes, ctx.objectProto, "", func(any, value.Value, []value.Value) (value.Value, error) {
		return value.Undefined, nil
	})
	ctx.arrayProto = object.NewArray(ctx.Shapes, ctx.objectProto)
	ctx.stringProto = object.New(ctx.Shapes, ctx.objectProto)
	ctx.numberProto = object.New(ctx.Shapes, ctx.objectProto)
	ctx.booleanProto = object.New(ctx.Shapes, ctx.objectProto)
	ctx.errorProto = object.New(ctx.Shapes, ctx.objectProto)

	installObjectPrototype(ctx)
	installArrayPrototype(ctx)
	installStringPrototype(ctx)
	installMathNamespace(ctx)
	installNumberConstructor(ctx)
	installJSONNamespace(ctx)
	installErrorConstructors(ctx)
	installGlobalConsole(ctx)

	ctx.defineGlobal("undefined", value.Undefined)
	ctx.defineGlobal("NaN", value.Number(nan()))
	ctx.defineGlobal("Infinity", value.Number(inf()))
}

// method installs a native function as a writable, configurable,
// non-enumerable-by-default data property (matching the attributes real
// prototype methods carry).
func (ctx *Context) method(target *object.Object, name string, fn object.NativeFunc) {
	f := object.NewFunction(ctx.Shapes, ctx.functionProto, name, fn)
	target.DefineDataProperty(name, value.Obj(f), shape.Attributes{Writable: true, Configurable: true})
}

func (ctx *Context) defineGlobal(name string, v value.Value) {
	ctx.Global.Set(ctx, value.Obj(ctx.Global), name, v)
	ctx.Env.DeclareVar(name, v)
}

func (ctx *Context) globalConstructor(name string, ctor *object.Object) {
	ctx.defineGlobal(name, value.Obj(ctor))
}

// dataAttrs is the attribute set for read-only namespace constants (Math.PI
// and friends): present but not writable/enumerable/configurable.
func dataAttrs() shape.Attributes { return shape.Attributes{} }

func nan() float64 { var z float64; return z / z }
func inf() float64 { return 1e308 * 10 }

func installObjectPrototype(ctx *Context) {
	ctx.method(ctx.objectProto, "hasOwnProperty", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := this.ObjectVal().(*object.Object)
		if !ok {
			return value.False, nil
		}
		name := argString(ctx, args, 0)
		_, has := obj.GetOwn(ctx, this, name)
		return value.Bool(has), nil
	})
	ctx.method(ctx.objectProto, "isPrototypeOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		self, ok := this.ObjectVal().(*object.Object)
		target, ok2 := argValue(args, 0).ObjectVal().(*object.Object)
		if !ok || !ok2 {
			return value.False, nil
		}
		for cur := target.Prototype(); cur != nil; cur = cur.Prototype() {
			if cur == self {
				return value.True, nil
			}
		}
		return value.False, nil
	})
	ctx.method(ctx.objectProto, "toString", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		cls := "Object"
		if obj, ok := this.ObjectVal().(*object.Object); ok {
			cls = obj.ClassName()
		}
		return value.Str(ctx.Strings.Intern("[object " + cls + "]")), nil
	})
	ctx.method(ctx.objectProto, "valueOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return this, nil
	})

	ctor := object.NewFunction(ctx.Shapes, ctx.functionProto, "Object", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) > 0 && args[0].IsObject() {
			return args[0], nil
		}
		return value.Obj(object.New(ctx.Shapes, ctx.objectProto)), nil
	})
	ctor.SetConstructorPrototype(ctx.objectProto)
	ctx.method(ctor, "keys", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return ctx.ownNamesArray(argValue(args, 0), true), nil
	})
	ctx.method(ctor, "values", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if obj, ok := argValue(args, 0).ObjectVal().(*object.Object); ok {
			for _, name := range obj.OwnPropertyNames(true) {
				v, _ := obj.GetOwn(ctx, argValue(args, 0), name)
				arr.Push(v)
			}
		}
		return value.Obj(arr), nil
	})
	ctx.method(ctor, "entries", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if obj, ok := argValue(args, 0).ObjectVal().(*object.Object); ok {
			for _, name := range obj.OwnPropertyNames(true) {
				v, _ := obj.GetOwn(ctx, argValue(args, 0), name)
				pair := object.NewArray(ctx.Shapes, ctx.arrayProto)
				pair.Push(value.Str(ctx.Strings.Intern(name)))
				pair.Push(v)
				arr.Push(value.Obj(pair))
			}
		}
		return value.Obj(arr), nil
	})
	ctx.method(ctor, "assign", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Undefined, nil
		}
		target, ok := args[0].ObjectVal().(*object.Object)
		if !ok {
			return args[0], nil
		}
		for _, src := range args[1:] {
			if srcObj, ok := src.ObjectVal().(*object.Object); ok {
				for _, name := range srcObj.OwnPropertyNames(true) {
					v, _ := srcObj.GetOwn(ctx, src, name)
					target.Set(ctx, args[0], name, v)
				}
			}
		}
		return args[0], nil
	})
	ctx.method(ctor, "freeze", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if obj, ok := argValue(args, 0).ObjectVal().(*object.Object); ok {
			obj.PreventExtensions()
		}
		return argValue(args, 0), nil
	})
	ctx.method(ctor, "getPrototypeOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		if obj, ok := argValue(args, 0).ObjectVal().(*object.Object); ok && obj.Prototype() != nil {
			return value.ObjAs(obj.Prototype()), nil
		}
		return value.Null, nil
	})
	ctx.method(ctor, "create", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		var proto *object.Object
		if p, ok := argValue(args, 0).ObjectVal().(*object.Object); ok {
			proto = p
		}
		return value.Obj(object.New(ctx.Shapes, proto)), nil
	})
	ctx.globalConstructor("Object", ctor)
}

func (ctx *Context) ownNamesArray(v value.Value, enumerableOnly bool) value.Value {
	arr := object.NewArray(ctx.Shapes, ctx.arrayProto)
	if obj, ok := v.ObjectVal().(*object.Object); ok {
		for _, name := range obj.OwnPropertyNames(enumerableOnly) {
			arr.Push(value.Str(ctx.Strings.Intern(name)))
		}
	}
	return value.Obj(arr)
}

func installGlobalConsole(ctx *Context) {
	console := object.New(ctx.Shapes, ctx.objectProto)
	logFn := func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		return value.Undefined, nil
	}
	ctx.method(console, "log", logFn)
	ctx.method(console, "error", logFn)
	ctx.method(console, "warn", logFn)
	ctx.defineGlobal("console", value.Obj(console))
}
