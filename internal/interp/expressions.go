package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/value"
)

// EvalExpr evaluates an expression node in env with the given this-binding,
// dispatching exhaustively over the closed ast.Expression set (spec §4
// evaluator). A thrown script value surfaces as a *ThrownError.
func (ctx *Context) EvalExpr(node ast.Expression, env *runtime.Environment, this value.Value) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return value.Number(n.Value), nil
	case *ast.BigIntLiteral:
		b, ok := value.ParseBigInt(n.Raw)
		if !ok {
			return value.Undefined, errors.New(errors.SyntaxError, "invalid BigInt literal %q", n.Raw)
		}
		return value.Big(b), nil
	case *ast.StringLiteral:
		return value.Str(ctx.Strings.Intern(n.Value)), nil
	case *ast.BooleanLiteral:
		return value.Bool(n.Value), nil
	case *ast.NullLiteral:
		return value.Null, nil
	case *ast.UndefinedLiteral:
		return value.Undefined, nil
	case *ast.Identifier:
		v, err := env.Get(n.Name)
		if err != nil {
			return value.Undefined, err
		}
		return v, nil
	case *ast.ThisExpression:
		return this, nil
	case *ast.TemplateLiteral:
		return ctx.evalTemplateLiteral(n, env, this)
	case *ast.RegexLiteral:
		return ctx.makeRegexObject(n.Pattern, n.Flags)
	case *ast.ArrayLiteral:
		return ctx.evalArrayLiteral(n, env, this)
	case *ast.ObjectLiteral:
		return ctx.evalObjectLiteral(n, env, this)
	case *ast.FunctionLiteral:
		return value.Obj(ctx.makeFunction(n, env, nil)), nil
	case *ast.ClassLiteral:
		return ctx.evalClassLiteral(n, env, this)
	case *ast.UnaryExpression:
		return ctx.evalUnary(n, env, this)
	case *ast.UpdateExpression:
		return ctx.evalUpdate(n, env, this)
	case *ast.BinaryExpression:
		return ctx.evalBinary(n, env, this)
	case *ast.LogicalExpression:
		return ctx.evalLogical(n, env, this)
	case *ast.AssignmentExpression:
		return ctx.evalAssignment(n, env, this)
	case *ast.ConditionalExpression:
		t, err := ctx.EvalExpr(n.Test, env, this)
		if err != nil {
			return value.Undefined, err
		}
		if t.ToBoolean() {
			return ctx.EvalExpr(n.Consequent, env, this)
		}
		return ctx.EvalExpr(n.Alternate, env, this)
	case *ast.SequenceExpression:
		var last value.Value = value.Undefined
		for _, e := range n.Expressions {
			v, err := ctx.EvalExpr(e, env, this)
			if err != nil {
				return value.Undefined, err
			}
			last = v
		}
		return last, nil
	case *ast.MemberExpression:
		v, _, err := ctx.evalMember(n, env, this)
		return v, err
	case *ast.CallExpression:
		return ctx.evalCall(n, env, this)
	case *ast.NewExpression:
		return ctx.evalNew(n, env, this)
	case *ast.SpreadElement:
		return ctx.EvalExpr(n.Argument, env, this)
	case *ast.YieldExpression:
		return ctx.evalYield(n, env, this)
	case *ast.AwaitExpression:
		return ctx.EvalExpr(n.Argument, env, this)
	case *ast.TaggedTemplateExpression:
		return ctx.evalTaggedTemplate(n, env, this)
	case *ast.SuperExpression:
		return this, nil
	default:
		return value.Undefined, errors.New(errors.Internal, "unhandled expression node %T", node)
	}
}

func (ctx *Context) evalTemplateLiteral(n *ast.TemplateLiteral, env *runtime.Environment, this value.Value) (value.Value, error) {
	estimate := 0
	for _, q := range n.Quasis {
		estimate += len(q)
	}
	estimate += 16 * len(n.Expressions)
	if estimate < 32 {
		estimate = 32
	}

	// Borrow scratch space for the common case; a handle too large for the
	// arena just means b grows onto the regular heap like any other slice
	// (spec §4.7: pool exhaustion is never language-visible).
	var b []byte
	if handle, ok := ctx.Scratch.Allocate(estimate); ok {
		b = ctx.Scratch.Bytes(handle)[:0]
		defer ctx.Scratch.Deallocate(handle)
	}
	for i, q := range n.Quasis {
		b = append(b, q...)
		if i < len(n.Expressions) {
			v, err := ctx.EvalExpr(n.Expressions[i], env, this)
			if err != nil {
				return value.Undefined, err
			}
			s, err := ctx.ToStringValue(v)
			if err != nil {
				return value.Undefined, err
			}
			b = append(b, s...)
		}
	}
	return value.Str(ctx.Strings.Intern(string(b))), nil
}

func (ctx *Context) evalTaggedTemplate(n *ast.TaggedTemplateExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	fnVal, err := ctx.EvalExpr(n.Tag, env, this)
	if err != nil {
		return value.Undefined, err
	}
	fn, ok := fnVal.ObjectVal().(*object.Object)
	if !ok || !fn.IsCallable() {
		return value.Undefined, errors.New(errors.TypeError, "tag is not a function")
	}
	strings := object.NewArray(ctx.Shapes, ctx.arrayProto)
	raw := object.NewArray(ctx.Shapes, ctx.arrayProto)
	for i, q := range n.Quasi.Quasis {
		strings.Push(value.Str(ctx.Strings.Intern(q)))
		raw.Push(value.Str(ctx.Strings.Intern(n.Quasi.Raw[i])))
	}
	strings.Set(ctx, value.Obj(strings), "raw", value.Obj(raw))
	args := []value.Value{value.Obj(strings)}
	for _, e := range n.Quasi.Expressions {
		v, err := ctx.EvalExpr(e, env, this)
		if err != nil {
			return value.Undefined, err
		}
		args = append(args, v)
	}
	return fn.Call(ctx, value.Undefined, args)
}

func (ctx *Context) evalArrayLiteral(n *ast.ArrayLiteral, env *runtime.Environment, this value.Value) (value.Value, error) {
	arr := object.NewArray(ctx.Shapes, ctx.arrayProto)
	for _, el := range n.Elements {
		if el == nil {
			arr.Push(value.Undefined)
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			v, err := ctx.EvalExpr(spread.Argument, env, this)
			if err != nil {
				return value.Undefined, err
			}
			arr.AppendBulk(ctx.iterableToSlice(v))
			continue
		}
		v, err := ctx.EvalExpr(el, env, this)
		if err != nil {
			return value.Undefined, err
		}
		arr.Push(v)
	}
	return value.Obj(arr), nil
}

func (ctx *Context) evalObjectLiteral(n *ast.ObjectLiteral, env *runtime.Environment, this value.Value) (value.Value, error) {
	obj := object.New(ctx.Shapes, ctx.objectProto)
	for _, prop := range n.Properties {
		if prop.Kind == ast.PropSpread {
			v, err := ctx.EvalExpr(prop.Value, env, this)
			if err != nil {
				return value.Undefined, err
			}
			if src, ok := v.ObjectVal().(*object.Object); ok {
				for _, name := range src.OwnPropertyNames(true) {
					pv, _ := src.GetOwn(ctx, v, name)
					obj.Set(ctx, value.Obj(obj), name, pv)
				}
			}
			continue
		}
		name, err := ctx.propertyKeyName(env, prop.Key, prop.Computed)
		if err != nil {
			return value.Undefined, err
		}
		switch prop.Kind {
		case ast.PropGet, ast.PropSet:
			fnLit, _ := prop.Value.(*ast.FunctionLiteral)
			fn := value.Obj(ctx.makeFunction(fnLit, env, nil))
			get, set := value.Undefined, value.Undefined
			if prop.Kind == ast.PropGet {
				get = fn
			} else {
				set = fn
			}
			obj.DefineAccessorProperty(name, get, set, true, true)
		default:
			v, err := ctx.EvalExpr(prop.Value, env, this)
			if err != nil {
				return value.Undefined, err
			}
			obj.Set(ctx, value.Obj(obj), name, v)
		}
	}
	return value.Obj(obj), nil
}

// evalMember resolves a.b / a[b] / a?.b, returning the resolved value and
// the receiver object the access was performed on (needed by call
// expressions for method this-binding).
func (ctx *Context) evalMember(n *ast.MemberExpression, env *runtime.Environment, this value.Value) (value.Value, value.Value, error) {
	objVal, err := ctx.EvalExpr(n.Object, env, this)
	if err != nil {
		return value.Undefined, value.Undefined, err
	}
	if n.Optional && objVal.IsNullish() {
		return value.Undefined, value.Undefined, nil
	}
	name, err := ctx.propertyKeyName(env, n.Property, n.Computed)
	if err != nil {
		return value.Undefined, value.Undefined, err
	}
	v, err := ctx.getProperty(objVal, name)
	if err != nil {
		return value.Undefined, value.Undefined, err
	}
	return v, objVal, nil
}

// getProperty reads name off v, auto-boxing primitives (string/number)
// against their prototype (spec §4.4: "primitive auto-boxing for property
// access"), and raising TypeError on null/undefined receivers (spec §8
// testable property, scenario 4).
func (ctx *Context) getProperty(v value.Value, name string) (value.Value, error) {
	if v.IsNullish() {
		return value.Undefined, errors.New(errors.TypeError, "Cannot read properties of %s (reading '%s')", v.TypeOf(), name)
	}
	if obj, ok := v.ObjectVal().(*object.Object); ok {
		if obj.IsArray() {
			if name == "length" {
				return value.Number(float64(obj.Length())), nil
			}
			if idx, ok := arrayIndex(name); ok {
				if ev, ok := obj.GetElement(idx); ok {
					return ev, nil
				}
				return value.Undefined, nil
			}
		}
		return obj.Get(ctx, v, name), nil
	}
	if v.IsString() {
		return ctx.stringProperty(v, name)
	}
	proto := ctx.protoFor(v)
	if proto != nil {
		return proto.Get(ctx, v, name), nil
	}
	return value.Undefined, nil
}

func (ctx *Context) protoFor(v value.Value) *object.Object {
	switch v.Kind() {
	case value.KindNumber:
		return ctx.numberProto
	case value.KindBoolean:
		return ctx.booleanProto
	default:
		return nil
	}
}

func arrayIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	n := 0
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (ctx *Context) setProperty(v value.Value, name string, nv value.Value) error {
	if v.IsNullish() {
		return errors.New(errors.TypeError, "Cannot set properties of %s (setting '%s')", v.TypeOf(), name)
	}
	obj, ok := v.ObjectVal().(*object.Object)
	if !ok {
		return nil
	}
	if obj.IsArray() {
		if name == "length" {
			n, err := ctx.ToNumber(nv)
			if err != nil {
				return err
			}
			obj.SetLength(int(n))
			return nil
		}
		if idx, ok := arrayIndex(name); ok {
			obj.SetElement(idx, nv)
			return nil
		}
	}
	obj.Set(ctx, v, name, nv)
	return nil
}

func (ctx *Context) assignMember(env *runtime.Environment, this value.Value, m *ast.MemberExpression, v value.Value) error {
	objVal, err := ctx.EvalExpr(m.Object, env, this)
	if err != nil {
		return err
	}
	name, err := ctx.propertyKeyName(env, m.Property, m.Computed)
	if err != nil {
		return err
	}
	return ctx.setProperty(objVal, name, v)
}

func (ctx *Context) evalCall(n *ast.CallExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	var calleeVal value.Value
	var receiver value.Value = value.Undefined
	var err error

	if m, ok := n.Callee.(*ast.MemberExpression); ok {
		calleeVal, receiver, err = ctx.evalMember(m, env, this)
		if err != nil {
			return value.Undefined, err
		}
		if m.Optional && receiver.IsNullish() {
			return value.Undefined, nil
		}
	} else {
		calleeVal, err = ctx.EvalExpr(n.Callee, env, this)
		if err != nil {
			return value.Undefined, err
		}
	}
	if n.Optional && calleeVal.IsNullish() {
		return value.Undefined, nil
	}
	fn, ok := calleeVal.ObjectVal().(*object.Object)
	if !ok || !fn.IsCallable() {
		return value.Undefined, errors.New(errors.TypeError, "%s is not a function", calleeName(n.Callee))
	}
	args, err := ctx.evalArguments(n.Arguments, env, this)
	if err != nil {
		return value.Undefined, err
	}
	ctx.JIT.CallFeedback(n).Record(fn)
	return fn.Call(ctx, receiver, args)
}

func calleeName(e ast.Expression) string {
	switch c := e.(type) {
	case *ast.Identifier:
		return c.Name
	case *ast.MemberExpression:
		return c.String()
	default:
		return "expression"
	}
}

func (ctx *Context) evalArguments(list []ast.Expression, env *runtime.Environment, this value.Value) ([]value.Value, error) {
	args := make([]value.Value, 0, len(list))
	for _, a := range list {
		if spread, ok := a.(*ast.SpreadElement); ok {
			v, err := ctx.EvalExpr(spread.Argument, env, this)
			if err != nil {
				return nil, err
			}
			args = append(args, ctx.iterableToSlice(v)...)
			continue
		}
		v, err := ctx.EvalExpr(a, env, this)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (ctx *Context) evalNew(n *ast.NewExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	calleeVal, err := ctx.EvalExpr(n.Callee, env, this)
	if err != nil {
		return value.Undefined, err
	}
	fn, ok := calleeVal.ObjectVal().(*object.Object)
	if !ok || !fn.IsCallable() {
		return value.Undefined, errors.New(errors.TypeError, "%s is not a constructor", calleeName(n.Callee))
	}
	args, err := ctx.evalArguments(n.Arguments, env, this)
	if err != nil {
		return value.Undefined, err
	}
	return ctx.Construct(fn, args)
}
