package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// evalClassLiteral desugars a class to a constructor function plus a
// prototype object carrying its methods, the classic pre-ES6 pattern the
// engine's object model already supports directly (spec §4.2: "classes are
// sugar over function + prototype").
func (ctx *Context) evalClassLiteral(n *ast.ClassLiteral, env *runtime.Environment, this value.Value) (value.Value, error) {
	var superCtor *object.Object
	protoParent := ctx.objectProto
	if n.SuperClass != nil {
		sv, err := ctx.EvalExpr(n.SuperClass, env, this)
		if err != nil {
			return value.Undefined, err
		}
		sc, ok := sv.ObjectVal().(*object.Object)
		if !ok || !sc.IsCallable() {
			return value.Undefined, errors.New(errors.TypeError, "Class extends value is not a constructor")
		}
		superCtor = sc
		if sc.ConstructorPrototype() != nil {
			protoParent = sc.ConstructorPrototype()
		}
	}

	proto := object.New(ctx.Shapes, protoParent)

	var ctorNode *ast.FunctionLiteral
	var fields []*ast.ClassMember
	for _, m := range n.Members {
		if m.Kind == ast.ClassMethod {
			if id, ok := m.Key.(*ast.Identifier); ok && id.Name == "constructor" && !m.Static {
				ctorNode, _ = m.Value.(*ast.FunctionLiteral)
				continue
			}
		}
		if m.Kind == ast.ClassField && !m.Static {
			fields = append(fields, m)
			continue
		}
	}

	className := ""
	if n.Name != nil {
		className = n.Name.Name
	}

	classEnv := env.NewChild()
	ctorFn := ctx.makeClassConstructor(classEnv, className, ctorNode, fields, superCtor, this)
	ctorFn.SetConstructorPrototype(proto)
	proto.DefineDataProperty("constructor", value.Obj(ctorFn), shape.Attributes{Writable: true, Configurable: true})
	if n.Name != nil {
		classEnv.DeclareConst(n.Name.Name)
		classEnv.Initialize(n.Name.Name, value.Obj(ctorFn))
	}

	for _, m := range n.Members {
		name, err := ctx.propertyKeyName(classEnv, m.Key, m.Computed)
		if err != nil {
			return value.Undefined, err
		}
		target := proto
		if m.Static {
			target = ctorFn
		}
		switch m.Kind {
		case ast.ClassMethod:
			if name == "constructor" && !m.Static {
				continue
			}
			fn := ctx.makeFunction(m.Value.(*ast.FunctionLiteral), classEnv, nil)
			target.DefineDataProperty(name, value.Obj(fn), shape.Attributes{Writable: true, Configurable: true})
		case ast.ClassGetter, ast.ClassSetter:
			fn := value.Obj(ctx.makeFunction(m.Value.(*ast.FunctionLiteral), classEnv, nil))
			get, set := value.Undefined, value.Undefined
			if m.Kind == ast.ClassGetter {
				get = fn
			} else {
				set = fn
			}
			target.DefineAccessorProperty(name, get, set, false, true)
		case ast.ClassField:
			if m.Static {
				var fv value.Value = value.Undefined
				if m.Value != nil {
					v, err := ctx.EvalExpr(m.Value, classEnv, value.Obj(ctorFn))
					if err != nil {
						return value.Undefined, err
					}
					fv = v
				}
				ctorFn.DefineDataProperty(name, fv, shape.Attributes{Writable: true, Enumerable: true, Configurable: true})
			}
		}
	}

	return value.Obj(ctorFn), nil
}

// makeClassConstructor builds the NativeFunc backing `new ClassName(...)`:
// runs the superclass constructor against the same instance (if any),
// initializes instance fields, then runs the explicit constructor body.
func (ctx *Context) makeClassConstructor(env *runtime.Environment, name string, ctorNode *ast.FunctionLiteral, fields []*ast.ClassMember, superCtor *object.Object, defEnvThis value.Value) *object.Object {
	impl := func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		c := rawCtx.(*Context)
		if superCtor != nil {
			if _, err := superCtor.Call(c, this, args); err != nil {
				return value.Undefined, err
			}
		}
		for _, f := range fields {
			fname, err := c.propertyKeyName(env, f.Key, f.Computed)
			if err != nil {
				return value.Undefined, err
			}
			var fv value.Value = value.Undefined
			if f.Value != nil {
				v, err := c.EvalExpr(f.Value, env, this)
				if err != nil {
					return value.Undefined, err
				}
				fv = v
			}
			if obj, ok := this.ObjectVal().(*object.Object); ok {
				obj.DefineDataProperty(fname, fv, shape.Attributes{Writable: true, Enumerable: true, Configurable: true})
			}
		}
		if ctorNode == nil {
			return value.Undefined, nil
		}
		uf := &userFunction{ctx: c, node: ctorNode, closureEnv: env, name: name}
		return c.invokeUserFunction(uf, this, args)
	}
	fn := object.NewFunction(ctx.Shapes, ctx.functionProto, name, impl)
	fn.DefineDataProperty("name", value.Str(ctx.Strings.Intern(name)), shape.Attributes{Configurable: true})
	return fn
}
