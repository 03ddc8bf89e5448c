package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// genState is the coroutine handoff between a generator's consumer (the
// goroutine calling .next()) and its body (running on its own goroutine),
// grounded on the standard Go generator-via-channel idiom: exactly one
// side runs at a time, synchronized by unbuffered channel sends, so the
// two goroutines never execute the script concurrently.
type genState struct {
	resumeCh chan resumeMsg
	yieldCh  chan yieldMsg
	started  bool
	done     bool
}

type resumeMsg struct {
	value value.Value
	kind  resumeKind
}

type resumeKind uint8

const (
	resumeNext resumeKind = iota
	resumeReturn
	resumeThrow
)

type yieldMsg struct {
	value value.Value
	done  bool
	err   error
}

// newGeneratorObject builds the iterator object returned by calling a
// function* (spec §4.2/§4.6): {next, return, throw}, each advancing the
// suspended body via genState's channels.
func (ctx *Context) newGeneratorObject(uf *userFunction, this value.Value, args []value.Value) *object.Object {
	gs := &genState{
		resumeCh: make(chan resumeMsg),
		yieldCh:  make(chan yieldMsg),
	}

	start := func() {
		gs.started = true
		go func() {
			ctx.genStack = append(ctx.genStack, gs)
			first := <-gs.resumeCh
			var result value.Value
			var err error
			if first.kind == resumeThrow {
				err = &ThrownError{Value: first.value}
			} else {
				result, err = ctx.invokeUserFunction(uf, this, args)
			}
			ctx.genStack = ctx.genStack[:len(ctx.genStack)-1]
			if rs, ok := err.(*returnSignal); ok {
				result, err = rs.value, nil
			}
			if err != nil {
				gs.yieldCh <- yieldMsg{err: err}
				return
			}
			gs.yieldCh <- yieldMsg{value: result, done: true}
		}()
	}

	iter := object.New(ctx.Shapes, ctx.objectProto)
	makeMethod := func(kind resumeKind) object.NativeFunc {
		return func(rawCtx any, methodThis value.Value, margs []value.Value) (value.Value, error) {
			var arg value.Value = value.Undefined
			if len(margs) > 0 {
				arg = margs[0]
			}
			if gs.done {
				return ctx.iterResult(value.Undefined, true), nil
			}
			if !gs.started {
				if kind != resumeNext {
					gs.done = true
					return ctx.iterResult(arg, true), nil
				}
				start()
			}
			gs.resumeCh <- resumeMsg{value: arg, kind: kind}
			msg := <-gs.yieldCh
			if msg.done {
				gs.done = true
			}
			if msg.err != nil {
				gs.done = true
				return value.Undefined, msg.err
			}
			return ctx.iterResult(msg.value, msg.done), nil
		}
	}
	iter.DefineDataProperty("next", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "next", makeMethod(resumeNext))), shape.Attributes{Writable: true, Configurable: true})
	iter.DefineDataProperty("return", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "return", makeMethod(resumeReturn))), shape.Attributes{Writable: true, Configurable: true})
	iter.DefineDataProperty("throw", value.Obj(object.NewFunction(ctx.Shapes, ctx.functionProto, "throw", makeMethod(resumeThrow))), shape.Attributes{Writable: true, Configurable: true})
	return iter
}

func (ctx *Context) iterResult(v value.Value, done bool) value.Value {
	o := object.New(ctx.Shapes, ctx.objectProto)
	o.Set(ctx, value.Obj(o), "value", v)
	o.Set(ctx, value.Obj(o), "done", value.Bool(done))
	return value.Obj(o)
}

// evalYield suspends the currently-running generator body, handing a
// value to the consumer and blocking until resumed.
func (ctx *Context) evalYield(n *ast.YieldExpression, env *runtime.Environment, this value.Value) (value.Value, error) {
	if len(ctx.genStack) == 0 {
		return value.Undefined, nil
	}
	gs := ctx.genStack[len(ctx.genStack)-1]

	var v value.Value = value.Undefined
	if n.Argument != nil {
		av, err := ctx.EvalExpr(n.Argument, env, this)
		if err != nil {
			return value.Undefined, err
		}
		v = av
	}
	gs.yieldCh <- yieldMsg{value: v, done: false}
	msg := <-gs.resumeCh
	if msg.kind == resumeThrow {
		return value.Undefined, &ThrownError{Value: msg.value}
	}
	if msg.kind == resumeReturn {
		return value.Undefined, &returnSignal{value: msg.value}
	}
	return msg.value, nil
}

// returnSignal unwinds a generator body when its iterator's .return() is
// called mid-execution, converted back to a Return completion by the
// generator's top-level invokeUserFunction call via errors.As-style check.
type returnSignal struct{ value value.Value }

func (r *returnSignal) Error() string { return "generator return" }
