package interp

import (
	"math"

	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/jit"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/value"
)

func primitiveKindOf(v value.Value) jit.PrimitiveKind {
	switch v.Kind() {
	case value.KindNumber:
		return jit.KindNumberP
	case value.KindString:
		return jit.KindStringP
	case value.KindBoolean:
		return jit.KindBoolP
	case value.KindBigInt:
		return jit.KindBigIntP
	case value.KindFunction:
		return jit.KindFunctionP
	case value.KindObject:
		return jit.KindObjectP
	default:
		return jit.KindOther
	}
}

func (ctx *Context) evalUnary(n *ast.UnaryExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	if n.Operator == "typeof" {
		if id, ok := n.Argument.(*ast.Identifier); ok && !env.Has(id.Name) {
			return value.Str(ctx.Strings.Intern("undefined")), nil
		}
	}
	if n.Operator == "delete" {
		if m, ok := n.Argument.(*ast.MemberExpression); ok {
			objVal, err := ctx.EvalExpr(m.Object, env, this)
			if err != nil {
				return value.Undefined, err
			}
			name, err := ctx.propertyKeyName(env, m.Property, m.Computed)
			if err != nil {
				return value.Undefined, err
			}
			if obj, ok := objVal.ObjectVal().(*object.Object); ok {
				return value.Bool(obj.Delete(name)), nil
			}
		}
		return value.True, nil
	}

	v, err := ctx.EvalExpr(n.Argument, env, this)
	if err != nil {
		return value.Undefined, err
	}
	ctx.JIT.Feedback(n).Record(primitiveKindOf(v))

	switch n.Operator {
	case "void":
		return value.Undefined, nil
	case "typeof":
		return value.Str(ctx.Strings.Intern(v.TypeOf())), nil
	case "!":
		return value.Bool(!v.ToBoolean()), nil
	case "-":
		if v.IsBigInt() {
			return value.Big(v.BigIntVal().Neg()), nil
		}
		n, err := ctx.ToNumber(v)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(-n), nil
	case "+":
		n, err := ctx.ToNumber(v)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(n), nil
	case "~":
		if v.IsBigInt() {
			zero := value.NewBigIntFromInt64(0)
			return value.Big(zero.Sub(v.BigIntVal()).Sub(value.NewBigIntFromInt64(1))), nil
		}
		n, err := ctx.ToNumber(v)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(^ToInt32(n))), nil
	default:
		return value.Undefined, errors.New(errors.Internal, "unhandled unary operator %q", n.Operator)
	}
}

func (ctx *Context) evalUpdate(n *ast.UpdateExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	old, err := ctx.EvalExpr(n.Argument, env, this)
	if err != nil {
		return value.Undefined, err
	}
	var next value.Value
	if old.IsBigInt() {
		delta := value.NewBigIntFromInt64(1)
		if n.Operator == "++" {
			next = value.Big(old.BigIntVal().Add(delta))
		} else {
			next = value.Big(old.BigIntVal().Sub(delta))
		}
	} else {
		num, err := ctx.ToNumber(old)
		if err != nil {
			return value.Undefined, err
		}
		old = value.Number(num)
		if n.Operator == "++" {
			next = value.Number(num + 1)
		} else {
			next = value.Number(num - 1)
		}
	}
	if err := ctx.assignTo(env, this, n.Argument, next); err != nil {
		return value.Undefined, err
	}
	if n.Prefix {
		return next, nil
	}
	return old, nil
}

func (ctx *Context) assignTo(env *runtime.Environment, this value.Value, target ast.Expression, v value.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return env.Set(t.Name, v)
	case *ast.MemberExpression:
		return ctx.assignMember(env, this, t, v)
	default:
		return ctx.assignPattern(env, this, target, v)
	}
}

func (ctx *Context) evalLogical(n *ast.LogicalExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	left, err := ctx.EvalExpr(n.Left, env, this)
	if err != nil {
		return value.Undefined, err
	}
	switch n.Operator {
	case "&&":
		if !left.ToBoolean() {
			return left, nil
		}
	case "||":
		if left.ToBoolean() {
			return left, nil
		}
	case "??":
		if !left.IsNullish() {
			return left, nil
		}
	}
	return ctx.EvalExpr(n.Right, env, this)
}

func (ctx *Context) evalBinary(n *ast.BinaryExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	left, err := ctx.EvalExpr(n.Left, env, this)
	if err != nil {
		return value.Undefined, err
	}

	if n.Operator == "instanceof" {
		right, err := ctx.EvalExpr(n.Right, env, this)
		if err != nil {
			return value.Undefined, err
		}
		return ctx.instanceOf(left, right)
	}
	if n.Operator == "in" {
		right, err := ctx.EvalExpr(n.Right, env, this)
		if err != nil {
			return value.Undefined, err
		}
		name, err := ctx.ToStringValue(left)
		if err != nil {
			return value.Undefined, err
		}
		obj, ok := right.ObjectVal().(*object.Object)
		if !ok {
			return value.Undefined, errors.New(errors.TypeError, "Cannot use 'in' operator on non-object")
		}
		return value.Bool(obj.HasProperty(name)), nil
	}

	right, err := ctx.EvalExpr(n.Right, env, this)
	if err != nil {
		return value.Undefined, err
	}
	ctx.JIT.Feedback(n).Record(primitiveKindOf(left))
	return ctx.applyBinaryOp(n.Operator, left, right)
}

func (ctx *Context) instanceOf(left, right value.Value) (value.Value, error) {
	ctor, ok := right.ObjectVal().(*object.Object)
	if !ok || !ctor.IsCallable() {
		return value.Undefined, errors.New(errors.TypeError, "Right-hand side of 'instanceof' is not callable")
	}
	proto := ctor.ConstructorPrototype()
	obj, ok := left.ObjectVal().(*object.Object)
	if !ok {
		return value.False, nil
	}
	for cur := obj.Prototype(); cur != nil; cur = cur.Prototype() {
		if cur == proto {
			return value.True, nil
		}
	}
	return value.False, nil
}

func (ctx *Context) applyBinaryOp(op string, left, right value.Value) (value.Value, error) {
	switch op {
	case "===":
		return value.Bool(value.StrictEquals(left, right)), nil
	case "!==":
		return value.Bool(!value.StrictEquals(left, right)), nil
	case "==":
		eq, err := ctx.LooseEquals(left, right)
		if err != nil {
			return value.Undefined, err
		}
		return value.Bool(eq), nil
	case "!=":
		eq, err := ctx.LooseEquals(left, right)
		if err != nil {
			return value.Undefined, err
		}
		return value.Bool(!eq), nil
	}

	if op == "+" && (left.IsString() || right.IsString()) {
		ls, err := ctx.ToStringValue(left)
		if err != nil {
			return value.Undefined, err
		}
		rs, err := ctx.ToStringValue(right)
		if err != nil {
			return value.Undefined, err
		}
		return value.Str(ctx.Strings.Intern(ls + rs)), nil
	}

	if left.IsBigInt() && right.IsBigInt() {
		return ctx.applyBigIntOp(op, left.BigIntVal(), right.BigIntVal())
	}
	if left.IsBigInt() != right.IsBigInt() && isArithmeticOp(op) {
		return value.Undefined, errors.New(errors.TypeError, "Cannot mix BigInt and other types, use explicit conversions")
	}

	switch op {
	case "<", ">", "<=", ">=":
		return ctx.compare(op, left, right)
	}

	ln, err := ctx.ToNumber(left)
	if err != nil {
		return value.Undefined, err
	}
	rn, err := ctx.ToNumber(right)
	if err != nil {
		return value.Undefined, err
	}
	switch op {
	case "+":
		return value.Number(ln + rn), nil
	case "-":
		return value.Number(ln - rn), nil
	case "*":
		return value.Number(ln * rn), nil
	case "/":
		return value.Number(ln / rn), nil
	case "%":
		return value.Number(math.Mod(ln, rn)), nil
	case "**":
		return value.Number(math.Pow(ln, rn)), nil
	case "&":
		return value.Number(float64(ToInt32(ln) & ToInt32(rn))), nil
	case "|":
		return value.Number(float64(ToInt32(ln) | ToInt32(rn))), nil
	case "^":
		return value.Number(float64(ToInt32(ln) ^ ToInt32(rn))), nil
	case "<<":
		return value.Number(float64(ToInt32(ln) << (ToUint32(rn) & 31))), nil
	case ">>":
		return value.Number(float64(ToInt32(ln) >> (ToUint32(rn) & 31))), nil
	case ">>>":
		return value.Number(float64(ToUint32(ln) >> (ToUint32(rn) & 31))), nil
	default:
		return value.Undefined, errors.New(errors.Internal, "unhandled binary operator %q", op)
	}
}

func isArithmeticOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func (ctx *Context) compare(op string, left, right value.Value) (value.Value, error) {
	if left.IsString() && right.IsString() {
		ls, rs := left.StringVal().Value(), right.StringVal().Value()
		switch op {
		case "<":
			return value.Bool(ls < rs), nil
		case ">":
			return value.Bool(ls > rs), nil
		case "<=":
			return value.Bool(ls <= rs), nil
		default:
			return value.Bool(ls >= rs), nil
		}
	}
	ln, err := ctx.ToNumber(left)
	if err != nil {
		return value.Undefined, err
	}
	rn, err := ctx.ToNumber(right)
	if err != nil {
		return value.Undefined, err
	}
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return value.False, nil
	}
	switch op {
	case "<":
		return value.Bool(ln < rn), nil
	case ">":
		return value.Bool(ln > rn), nil
	case "<=":
		return value.Bool(ln <= rn), nil
	default:
		return value.Bool(ln >= rn), nil
	}
}

func (ctx *Context) applyBigIntOp(op string, l, r *value.BigInt) (value.Value, error) {
	switch op {
	case "+":
		return value.Big(l.Add(r)), nil
	case "-":
		return value.Big(l.Sub(r)), nil
	case "*":
		return value.Big(l.Mul(r)), nil
	case "/":
		q, ok := l.Div(r)
		if !ok {
			return value.Undefined, errors.New(errors.RangeError, "Division by zero")
		}
		return value.Big(q), nil
	case "%":
		m, ok := l.Mod(r)
		if !ok {
			return value.Undefined, errors.New(errors.RangeError, "Division by zero")
		}
		return value.Big(m), nil
	case "**":
		p, ok := l.Pow(r)
		if !ok {
			return value.Undefined, errors.New(errors.RangeError, "Exponent must be non-negative")
		}
		return value.Big(p), nil
	case "&":
		return value.Big(l.And(r)), nil
	case "|":
		return value.Big(l.Or(r)), nil
	case "^":
		return value.Big(l.Xor(r)), nil
	case "<<":
		if r.Sign() < 0 {
			return value.Undefined, errors.New(errors.RangeError, "BigInt negative shift amount")
		}
		return value.Big(l.Shl(uint(r.Float64()))), nil
	case ">>":
		if r.Sign() < 0 {
			return value.Undefined, errors.New(errors.RangeError, "BigInt negative shift amount")
		}
		return value.Big(l.Shr(uint(r.Float64()))), nil
	case "<":
		return value.Bool(l.Cmp(r) < 0), nil
	case ">":
		return value.Bool(l.Cmp(r) > 0), nil
	case "<=":
		return value.Bool(l.Cmp(r) <= 0), nil
	case ">=":
		return value.Bool(l.Cmp(r) >= 0), nil
	default:
		return value.Undefined, errors.New(errors.TypeError, "unsupported BigInt operator %q", op)
	}
}

func (ctx *Context) evalAssignment(n *ast.AssignmentExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	if n.Operator == "=" {
		v, err := ctx.EvalExpr(n.Value, env, this)
		if err != nil {
			return value.Undefined, err
		}
		if err := ctx.assignTo(env, this, n.Target, v); err != nil {
			return value.Undefined, err
		}
		return v, nil
	}

	if op, ok := logicalAssignOp(n.Operator); ok {
		cur, err := ctx.EvalExpr(n.Target, env, this)
		if err != nil {
			return value.Undefined, err
		}
		skip := false
		switch op {
		case "&&":
			skip = !cur.ToBoolean()
		case "||":
			skip = cur.ToBoolean()
		case "??":
			skip = !cur.IsNullish()
		}
		if skip {
			return cur, nil
		}
		v, err := ctx.EvalExpr(n.Value, env, this)
		if err != nil {
			return value.Undefined, err
		}
		if err := ctx.assignTo(env, this, n.Target, v); err != nil {
			return value.Undefined, err
		}
		return v, nil
	}

	cur, err := ctx.EvalExpr(n.Target, env, this)
	if err != nil {
		return value.Undefined, err
	}
	rhs, err := ctx.EvalExpr(n.Value, env, this)
	if err != nil {
		return value.Undefined, err
	}
	op := n.Operator[:len(n.Operator)-1]
	result, err := ctx.applyBinaryOp(op, cur, rhs)
	if err != nil {
		return value.Undefined, err
	}
	if err := ctx.assignTo(env, this, n.Target, result); err != nil {
		return value.Undefined, err
	}
	return result, nil
}

func logicalAssignOp(op string) (string, bool) {
	switch op {
	case "&&=":
		return "&&", true
	case "||=":
		return "||", true
	case "??=":
		return "??", true
	}
	return "", false
}
