package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/value"
)

// bindPattern destructures v into pattern, declaring each bound name in
// env with DeclareVar (initialized and mutable, var semantics). It serves
// parameters, var declarators and var loop targets; let/const declarators
// go through initPattern and assignment targets through assignPattern.
func (ctx *Context) bindPattern(env *runtime.Environment, pattern ast.Expression, v value.Value) error {
	switch p := pattern.(type) {
	case *ast.Identifier:
		env.DeclareVar(p.Name, v)
		return nil
	case *ast.ArrayPattern:
		return ctx.bindArrayPattern(env, p, v)
	case *ast.ObjectPattern:
		return ctx.bindObjectPattern(env, p, v)
	default:
		env.DeclareVar(pattern.String(), v)
		return nil
	}
}

func (ctx *Context) bindArrayPattern(env *runtime.Environment, p *ast.ArrayPattern, v value.Value) error {
	elems := ctx.iterableToSlice(v)
	for i, el := range p.Elements {
		if el == nil || el.Pattern == nil {
			continue
		}
		if el.Rest {
			rest := []value.Value{}
			if i < len(elems) {
				rest = append(rest, elems[i:]...)
			}
			arr := object.NewArray(ctx.Shapes, ctx.objectProto)
			arr.AppendBulk(rest)
			if err := ctx.bindPattern(env, el.Pattern, value.Obj(arr)); err != nil {
				return err
			}
			return nil
		}
		var ev value.Value = value.Undefined
		if i < len(elems) {
			ev = elems[i]
		}
		if ev.IsUndefined() && el.Default != nil {
			dv, err := ctx.EvalExpr(el.Default, env, value.Undefined)
			if err != nil {
				return err
			}
			ev = dv
		}
		if err := ctx.bindPattern(env, el.Pattern, ev); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *Context) bindObjectPattern(env *runtime.Environment, p *ast.ObjectPattern, v value.Value) error {
	obj, _ := v.ObjectVal().(*object.Object)
	used := map[string]bool{}
	for _, prop := range p.Properties {
		if prop.Rest {
			rest := object.New(ctx.Shapes, ctx.objectProto)
			if obj != nil {
				for _, name := range obj.OwnPropertyNames(true) {
					if used[name] {
						continue
					}
					pv, _ := obj.GetOwn(ctx, v, name)
					rest.Set(ctx, value.Obj(rest), name, pv)
				}
			}
			if id, ok := prop.Value.(*ast.Identifier); ok {
				env.DeclareVar(id.Name, value.Obj(rest))
			}
			continue
		}
		name, err := ctx.propertyKeyName(env, prop.Key, prop.Computed)
		if err != nil {
			return err
		}
		used[name] = true
		var pv value.Value = value.Undefined
		if obj != nil {
			pv = obj.Get(ctx, v, name)
		}
		target := prop.Value
		var defaultExpr ast.Expression
		if assign, ok := target.(*ast.AssignmentExpression); ok && assign.Operator == "=" {
			target = assign.Target
			defaultExpr = assign.Value
		}
		if pv.IsUndefined() && defaultExpr != nil {
			dv, err := ctx.EvalExpr(defaultExpr, env, value.Undefined)
			if err != nil {
				return err
			}
			pv = dv
		}
		if err := ctx.bindPattern(env, target, pv); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *Context) propertyKeyName(env *runtime.Environment, key ast.Expression, computed bool) (string, error) {
	if computed {
		kv, err := ctx.EvalExpr(key, env, value.Undefined)
		if err != nil {
			return "", err
		}
		return ctx.ToStringValue(kv)
	}
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name, nil
	case *ast.StringLiteral:
		return k.Value, nil
	case *ast.NumberLiteral:
		return formatNumber(k.Value), nil
	default:
		return key.String(), nil
	}
}

// assignPattern destructures v into an already-existing binding/member
// target (used by `[a, b] = rhs` assignment expressions, as opposed to
// bindPattern's declaration form).
func (ctx *Context) assignPattern(env *runtime.Environment, this value.Value, target ast.Expression, v value.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return env.Set(t.Name, v)
	case *ast.MemberExpression:
		return ctx.assignMember(env, this, t, v)
	case *ast.ArrayPattern:
		elems := ctx.iterableToSlice(v)
		for i, el := range t.Elements {
			if el == nil || el.Pattern == nil {
				continue
			}
			if el.Rest {
				rest := []value.Value{}
				if i < len(elems) {
					rest = append(rest, elems[i:]...)
				}
				arr := object.NewArray(ctx.Shapes, ctx.objectProto)
				arr.AppendBulk(rest)
				return ctx.assignPattern(env, this, el.Pattern, value.Obj(arr))
			}
			var ev value.Value = value.Undefined
			if i < len(elems) {
				ev = elems[i]
			}
			if err := ctx.assignPattern(env, this, el.Pattern, ev); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		obj, _ := v.ObjectVal().(*object.Object)
		for _, prop := range t.Properties {
			name, err := ctx.propertyKeyName(env, prop.Key, prop.Computed)
			if err != nil {
				return err
			}
			var pv value.Value = value.Undefined
			if obj != nil {
				pv = obj.Get(ctx, v, name)
			}
			if err := ctx.assignPattern(env, this, prop.Value, pv); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// iterableToSlice materializes an iterable (currently: array-exotic
// objects and strings) into a slice for destructuring and for-of, per
// spec §4.6's iteration-protocol simplification to concrete array/string
// sources.
func (ctx *Context) iterableToSlice(v value.Value) []value.Value {
	if v.IsString() {
		s := v.StringVal().Value()
		runes := []rune(s)
		out := make([]value.Value, len(runes))
		for i, r := range runes {
			out[i] = value.Str(ctx.Strings.Intern(string(r)))
		}
		return out
	}
	obj, ok := v.ObjectVal().(*object.Object)
	if !ok || !obj.IsArray() {
		return nil
	}
	return append([]value.Value{}, obj.Elements()...)
}
