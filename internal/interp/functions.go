package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// userFunction is the closure state behind every script-defined function
// (spec §4.2 functions/closures): the defining AST, the environment it
// closed over, and its this-binding mode (arrow functions capture the
// enclosing this lexically; everything else binds dynamically per call).
type userFunction struct {
	ctx        *Context
	node       *ast.FunctionLiteral
	closureEnv *runtime.Environment
	lexicalThis *value.Value // non-nil only for arrow functions
	name        string
}

// makeFunction wraps a FunctionLiteral as a callable *object.Object, the
// Value.Function variant spec §3 describes as "a shared reference to an
// Object with callable capability".
func (ctx *Context) makeFunction(node *ast.FunctionLiteral, env *runtime.Environment, this *value.Value) *object.Object {
	name := ""
	if node.Name != nil {
		name = node.Name.Name
	}
	uf := &userFunction{ctx: ctx, node: node, closureEnv: env, lexicalThis: this, name: name}
	fn := object.NewFunction(ctx.Shapes, ctx.functionProto, name, uf.call)
	if !node.IsArrow {
		proto := object.New(ctx.Shapes, ctx.objectProto)
		proto.DefineDataProperty("constructor", value.Obj(fn), shape.Attributes{Writable: true, Configurable: true})
		fn.SetConstructorPrototype(proto)
	}
	fn.DefineDataProperty("length", value.Number(float64(countRequiredParams(node.Params))), shape.Attributes{Configurable: true})
	fn.DefineDataProperty("name", value.Str(ctx.Strings.Intern(name)), shape.Attributes{Configurable: true})
	return fn
}

func countRequiredParams(params []*ast.Parameter) int {
	n := 0
	for _, p := range params {
		if p.Default != nil || p.Rest {
			break
		}
		n++
	}
	return n
}

// call implements the NativeFunc signature so a userFunction can back an
// object.Object. Generator functions instead return an iterator object
// without running the body eagerly (see generator.go).
func (uf *userFunction) call(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
	ctx := rawCtx.(*Context)
	if uf.node.IsGenerator {
		return value.Obj(ctx.newGeneratorObject(uf, this, args)), nil
	}
	return ctx.invokeUserFunction(uf, this, args)
}

func (ctx *Context) invokeUserFunction(uf *userFunction, this value.Value, args []value.Value) (value.Value, error) {
	if err := ctx.Stack.Push(runtime.Frame{FunctionName: uf.name}); err != nil {
		return value.Undefined, err
	}
	defer ctx.Stack.Pop()

	env := uf.closureEnv.NewChild()
	effectiveThis := this
	if uf.lexicalThis != nil {
		effectiveThis = *uf.lexicalThis
	}
	ctx.bindParameters(env, uf.node.Params, args)

	if !uf.node.IsArrow {
		env.DeclareVar("arguments", makeArgumentsObject(ctx, args))
	}

	if uf.node.ExprBody != nil {
		return ctx.EvalExpr(uf.node.ExprBody, env, effectiveThis)
	}

	comp, err := ctx.execBlock(uf.node.Body, env, effectiveThis)
	if err != nil {
		return value.Undefined, err
	}
	switch comp.Kind {
	case Return:
		return comp.Value, nil
	case Throw:
		return value.Undefined, &ThrownError{Value: comp.Value}
	default:
		return value.Undefined, nil
	}
}

func makeArgumentsObject(ctx *Context, args []value.Value) value.Value {
	obj := object.NewArray(ctx.Shapes, ctx.objectProto)
	obj.AppendBulk(args)
	return value.Obj(obj)
}

// bindParameters performs parameter binding, including defaults and the
// trailing rest parameter (spec §4.2 parameter binding; destructuring
// patterns delegate to bindPattern in patterns.go).
func (ctx *Context) bindParameters(env *runtime.Environment, params []*ast.Parameter, args []value.Value) {
	for i, p := range params {
		if p.Rest {
			rest := []value.Value{}
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			arr := object.NewArray(ctx.Shapes, ctx.objectProto)
			arr.AppendBulk(rest)
			ctx.bindPattern(env, p.Pattern, value.Obj(arr))
			return
		}
		var v value.Value = value.Undefined
		if i < len(args) {
			v = args[i]
		}
		if v.IsUndefined() && p.Default != nil {
			dv, err := ctx.EvalExpr(p.Default, env, value.Undefined)
			if err == nil {
				v = dv
			}
		}
		ctx.bindPattern(env, p.Pattern, v)
	}
}

// Construct implements the `new` operator's function-object branch (spec
// §4.3): a fresh object is created with the function's recorded
// constructor-prototype, the body runs with this bound to it, and an
// object return value overrides the implicit one.
func (ctx *Context) Construct(fn *object.Object, args []value.Value) (value.Value, error) {
	if !fn.IsCallable() {
		return value.Undefined, errors.New(errors.TypeError, "not a constructor")
	}
	proto := fn.ConstructorPrototype()
	if proto == nil {
		proto = ctx.objectProto
	}
	inst := object.New(ctx.Shapes, proto)
	result, err := fn.Call(ctx, value.Obj(inst), args)
	if err != nil {
		return value.Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return value.Obj(inst), nil
}

// ThrownError carries a script-level thrown value across Go call
// boundaries (the call stack can be many Go frames deep; only this
// boundary -- not intra-function control flow -- uses a Go error rather
// than a Completion, per spec §9's note that Completion replaces
// exception-based control flow inside the tree walker itself).
type ThrownError struct {
	Value value.Value
}

func (t *ThrownError) Error() string {
	s, err := globalCtxToString(t.Value)
	if err != nil {
		return "uncaught exception"
	}
	return "uncaught exception: " + s
}

// globalCtxToString is a best-effort, context-free stringification used
// only for Go error messages (never for script-observable behaviour).
func globalCtxToString(v value.Value) (string, error) {
	if v.IsString() {
		return v.StringVal().Value(), nil
	}
	return v.TypeOf(), nil
}
