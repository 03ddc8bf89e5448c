package interp

import (
	"sort"

	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/value"
)

// installArrayPrototype wires Array.prototype's common iteration/mutation
// methods (spec SPEC_FULL §D), grounded on the teacher's evaluator builtin
// layout: each method is a small NativeFunc closure reading/writing the
// receiver's element store directly via internal/object's array API.
func installArrayPrototype(ctx *Context) {
	selfArr := func(this value.Value) *object.Object {
		o, _ := this.ObjectVal().(*object.Object)
		return o
	}
	callFn := func(fnVal value.Value, this value.Value, args []value.Value) (value.Value, error) {
		fn, ok := fnVal.ObjectVal().(*object.Object)
		if !ok || !fn.IsCallable() {
			return value.Undefined, nil
		}
		return fn.Call(ctx, this, args)
	}

	ctx.method(ctx.arrayProto, "push", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Number(0), nil
		}
		arr.AppendBulk(args)
		return value.Number(float64(arr.Length())), nil
	})
	ctx.method(ctx.arrayProto, "pop", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Undefined, nil
		}
		v, ok := arr.Pop()
		if !ok {
			return value.Undefined, nil
		}
		return v, nil
	})
	ctx.method(ctx.arrayProto, "shift", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil || arr.Length() == 0 {
			return value.Undefined, nil
		}
		elems := arr.Elements()
		first := elems[0]
		rest := append([]value.Value{}, elems[1:]...)
		arr.SetLength(0)
		arr.AppendBulk(rest)
		return first, nil
	})
	ctx.method(ctx.arrayProto, "unshift", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Number(0), nil
		}
		merged := append(append([]value.Value{}, args...), arr.Elements()...)
		arr.SetLength(0)
		arr.AppendBulk(merged)
		return value.Number(float64(arr.Length())), nil
	})
	ctx.method(ctx.arrayProto, "slice", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		out := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if arr == nil {
			return value.Obj(out), nil
		}
		start, end := sliceBounds(arr.Length(), args, ctx)
		if start < end {
			out.AppendBulk(append([]value.Value{}, arr.Elements()[start:end]...))
		}
		return value.Obj(out), nil
	})
	ctx.method(ctx.arrayProto, "splice", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		removed := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if arr == nil {
			return value.Obj(removed), nil
		}
		n := arr.Length()
		start := clampIndex(int(argNumber(ctx, args, 0)), n)
		deleteCount := n - start
		if len(args) > 1 {
			dc := int(argNumber(ctx, args, 1))
			if dc < 0 {
				dc = 0
			}
			if dc < deleteCount {
				deleteCount = dc
			}
		}
		elems := arr.Elements()
		removed.AppendBulk(append([]value.Value{}, elems[start:start+deleteCount]...))
		var inserts []value.Value
		if len(args) > 2 {
			inserts = args[2:]
		}
		merged := append([]value.Value{}, elems[:start]...)
		merged = append(merged, inserts...)
		merged = append(merged, elems[start+deleteCount:]...)
		arr.SetLength(0)
		arr.AppendBulk(merged)
		return value.Obj(removed), nil
	})
	ctx.method(ctx.arrayProto, "concat", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		out := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if arr := selfArr(this); arr != nil {
			out.AppendBulk(append([]value.Value{}, arr.Elements()...))
		}
		for _, a := range args {
			if other, ok := a.ObjectVal().(*object.Object); ok && other.IsArray() {
				out.AppendBulk(append([]value.Value{}, other.Elements()...))
				continue
			}
			out.Push(a)
		}
		return value.Obj(out), nil
	})
	ctx.method(ctx.arrayProto, "join", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			sep = argString(ctx, args, 0)
		}
		if arr == nil {
			return value.Str(ctx.Strings.Intern("")), nil
		}
		parts := make([]string, 0, arr.Length())
		for _, e := range arr.Elements() {
			if e.IsNullish() {
				parts = append(parts, "")
				continue
			}
			s, err := ctx.ToStringValue(e)
			if err != nil {
				return value.Undefined, err
			}
			parts = append(parts, s)
		}
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += sep
			}
			out += p
		}
		return value.Str(ctx.Strings.Intern(out)), nil
	})
	ctx.method(ctx.arrayProto, "indexOf", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Number(-1), nil
		}
		target := argValue(args, 0)
		for i, e := range arr.Elements() {
			if value.StrictEquals(e, target) {
				return value.Number(float64(i)), nil
			}
		}
		return value.Number(-1), nil
	})
	ctx.method(ctx.arrayProto, "includes", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.False, nil
		}
		target := argValue(args, 0)
		for _, e := range arr.Elements() {
			if value.SameValue(e, target) {
				return value.True, nil
			}
		}
		return value.False, nil
	})
	ctx.method(ctx.arrayProto, "reverse", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return this, nil
		}
		elems := arr.Elements()
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
		return this, nil
	})
	ctx.method(ctx.arrayProto, "forEach", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Undefined, nil
		}
		fnVal := argValue(args, 0)
		for i, e := range append([]value.Value{}, arr.Elements()...) {
			if _, err := callFn(fnVal, argValue(args, 1), []value.Value{e, value.Number(float64(i)), this}); err != nil {
				return value.Undefined, err
			}
		}
		return value.Undefined, nil
	})
	ctx.method(ctx.arrayProto, "map", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		out := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if arr == nil {
			return value.Obj(out), nil
		}
		fnVal := argValue(args, 0)
		for i, e := range append([]value.Value{}, arr.Elements()...) {
			v, err := callFn(fnVal, argValue(args, 1), []value.Value{e, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			out.Push(v)
		}
		return value.Obj(out), nil
	})
	ctx.method(ctx.arrayProto, "filter", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		out := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if arr == nil {
			return value.Obj(out), nil
		}
		fnVal := argValue(args, 0)
		for i, e := range append([]value.Value{}, arr.Elements()...) {
			v, err := callFn(fnVal, argValue(args, 1), []value.Value{e, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if v.ToBoolean() {
				out.Push(e)
			}
		}
		return value.Obj(out), nil
	})
	ctx.method(ctx.arrayProto, "find", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Undefined, nil
		}
		fnVal := argValue(args, 0)
		for i, e := range append([]value.Value{}, arr.Elements()...) {
			v, err := callFn(fnVal, argValue(args, 1), []value.Value{e, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if v.ToBoolean() {
				return e, nil
			}
		}
		return value.Undefined, nil
	})
	ctx.method(ctx.arrayProto, "findIndex", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Number(-1), nil
		}
		fnVal := argValue(args, 0)
		for i, e := range append([]value.Value{}, arr.Elements()...) {
			v, err := callFn(fnVal, argValue(args, 1), []value.Value{e, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if v.ToBoolean() {
				return value.Number(float64(i)), nil
			}
		}
		return value.Number(-1), nil
	})
	ctx.method(ctx.arrayProto, "some", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.False, nil
		}
		fnVal := argValue(args, 0)
		for i, e := range append([]value.Value{}, arr.Elements()...) {
			v, err := callFn(fnVal, argValue(args, 1), []value.Value{e, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if v.ToBoolean() {
				return value.True, nil
			}
		}
		return value.False, nil
	})
	ctx.method(ctx.arrayProto, "every", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.True, nil
		}
		fnVal := argValue(args, 0)
		for i, e := range append([]value.Value{}, arr.Elements()...) {
			v, err := callFn(fnVal, argValue(args, 1), []value.Value{e, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if !v.ToBoolean() {
				return value.False, nil
			}
		}
		return value.True, nil
	})
	ctx.method(ctx.arrayProto, "reduce", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		elems := []value.Value{}
		if arr != nil {
			elems = append(elems, arr.Elements()...)
		}
		fnVal := argValue(args, 0)
		i := 0
		var acc value.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(elems) == 0 {
				return value.Undefined, errors.New(errors.TypeError, "Reduce of empty array with no initial value")
			}
			acc = elems[0]
			i = 1
		}
		for ; i < len(elems); i++ {
			v, err := callFn(fnVal, value.Undefined, []value.Value{acc, elems[i], value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			acc = v
		}
		return acc, nil
	})
	ctx.method(ctx.arrayProto, "sort", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return this, nil
		}
		elems := arr.Elements()
		var sortErr error
		fnVal := argValue(args, 0)
		hasCmp := fnVal.IsObject() && fnVal.IsFunction()
		sort.SliceStable(elems, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if hasCmp {
				v, err := callFn(fnVal, value.Undefined, []value.Value{elems[i], elems[j]})
				if err != nil {
					sortErr = err
					return false
				}
				n, _ := ctx.ToNumber(v)
				return n < 0
			}
			si, _ := ctx.ToStringValue(elems[i])
			sj, _ := ctx.ToStringValue(elems[j])
			return si < sj
		})
		if sortErr != nil {
			return value.Undefined, sortErr
		}
		return this, nil
	})
	ctx.method(ctx.arrayProto, "toString", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := selfArr(this)
		if arr == nil {
			return value.Str(ctx.Strings.Intern("")), nil
		}
		joinFn := ctx.arrayProto.Get(ctx, this, "join")
		if fn, ok := joinFn.ObjectVal().(*object.Object); ok && fn.IsCallable() {
			return fn.Call(ctx, this, nil)
		}
		return value.Str(ctx.Strings.Intern("")), nil
	})

	ctor := object.NewFunction(ctx.Shapes, ctx.functionProto, "Array", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		arr := object.NewArray(ctx.Shapes, ctx.arrayProto)
		if len(args) == 1 && args[0].IsNumber() {
			arr.SetLength(int(args[0].Float()))
			return value.Obj(arr), nil
		}
		arr.AppendBulk(args)
		return value.Obj(arr), nil
	})
	ctor.SetConstructorPrototype(ctx.arrayProto)
	ctx.method(ctor, "isArray", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := argValue(args, 0).ObjectVal().(*object.Object)
		return value.Bool(ok && obj.IsArray()), nil
	})
	ctx.method(ctor, "from", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		out := object.NewArray(ctx.Shapes, ctx.arrayProto)
		out.AppendBulk(ctx.iterableToSlice(argValue(args, 0)))
		if len(args) > 1 {
			fnVal := args[1]
			mapped := object.NewArray(ctx.Shapes, ctx.arrayProto)
			for i, e := range out.Elements() {
				v, err := callFn(fnVal, value.Undefined, []value.Value{e, value.Number(float64(i))})
				if err != nil {
					return value.Undefined, err
				}
				mapped.Push(v)
			}
			return value.Obj(mapped), nil
		}
		return value.Obj(out), nil
	})
	ctx.method(ctor, "of", func(rawCtx any, this value.Value, args []value.Value) (value.Value, error) {
		out := object.NewArray(ctx.Shapes, ctx.arrayProto)
		out.AppendBulk(args)
		return value.Obj(out), nil
	})
	ctx.globalConstructor("Array", ctor)
}
