package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/jit"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/value"
)

// CompletionKind is re-exported from completion.go; execStatement/execBlock
// are the statement-level counterpart to EvalExpr, threading Completion
// records for return/break/continue/throw instead of Go panics (spec §9
// Design Note).

// execBlock runs a block's statements in a fresh child environment, after
// hoisting var and function declarations (spec §4.2 hoisting: var
// declarations and function declarations are visible from the top of
// their enclosing function/block before the declaring statement runs).
func (ctx *Context) execBlock(block *ast.BlockStatement, env *runtime.Environment, this value.Value) (Completion, error) {
	child := env.NewChild()
	ctx.hoist(block.Statements, child, this)
	return ctx.execStatements(block.Statements, child, this)
}

func (ctx *Context) execStatements(stmts []ast.Statement, env *runtime.Environment, this value.Value) (Completion, error) {
	for _, s := range stmts {
		comp, err := ctx.execStatement(s, env, this)
		if err != nil {
			return Completion{}, err
		}
		if comp.IsAbrupt() {
			return comp, nil
		}
	}
	return normal(), nil
}

// hoist pre-declares var/function bindings in env so forward references
// within the same scope resolve (spec §4.2). Nested function/block bodies
// are not descended into beyond var declarators, matching the teacher's
// single-pass-per-scope hoisting rather than full recursive hoisting.
func (ctx *Context) hoist(stmts []ast.Statement, env *runtime.Environment, this value.Value) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.VariableDeclaration:
			if st.Kind != ast.DeclVar {
				continue
			}
			for _, d := range st.Declarators {
				hoistPatternNames(d.Target, env)
			}
		case *ast.FunctionLiteral:
			if st.Name != nil {
				env.DeclareVar(st.Name.Name, value.Obj(ctx.makeFunction(st, env, nil)))
			}
		}
	}
}

func hoistPatternNames(target ast.Expression, env *runtime.Environment) {
	switch t := target.(type) {
	case *ast.Identifier:
		if !env.HasOwn(t.Name) {
			env.DeclareVar(t.Name, value.Undefined)
		}
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			if el != nil && el.Pattern != nil {
				hoistPatternNames(el.Pattern, env)
			}
		}
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			hoistPatternNames(p.Value, env)
		}
	}
}

func (ctx *Context) execStatement(s ast.Statement, env *runtime.Environment, this value.Value) (Completion, error) {
	if err := ctx.tickDeadline(); err != nil {
		return Completion{}, err
	}
	switch st := s.(type) {
	case *ast.ExpressionStatement:
		_, err := ctx.EvalExpr(st.Expr, env, this)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		return normal(), nil
	case *ast.EmptyStatement:
		return normal(), nil
	case *ast.BlockStatement:
		return ctx.execBlock(st, env, this)
	case *ast.VariableDeclaration:
		return ctx.execVarDecl(st, env, this)
	case *ast.FunctionLiteral:
		return normal(), nil // already hoisted
	case *ast.ClassLiteral:
		v, err := ctx.evalClassLiteral(st, env, this)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if st.Name != nil {
			env.DeclareVar(st.Name.Name, v)
		}
		return normal(), nil
	case *ast.ReturnStatement:
		var v value.Value = value.Undefined
		if st.Argument != nil {
			rv, err := ctx.EvalExpr(st.Argument, env, this)
			if err != nil {
				return ctx.completionFromErr(err)
			}
			v = rv
		}
		return ret(v), nil
	case *ast.IfStatement:
		t, err := ctx.EvalExpr(st.Test, env, this)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if t.ToBoolean() {
			return ctx.execStatement(st.Consequent, env, this)
		}
		if st.Alternate != nil {
			return ctx.execStatement(st.Alternate, env, this)
		}
		return normal(), nil
	case *ast.WhileStatement:
		return ctx.execWhile(st, env, this, "")
	case *ast.DoWhileStatement:
		return ctx.execDoWhile(st, env, this, "")
	case *ast.ForStatement:
		return ctx.execFor(st, env, this, "")
	case *ast.ForInStatement:
		return ctx.execForIn(st, env, this, "")
	case *ast.BreakStatement:
		label := ""
		if st.Label != nil {
			label = st.Label.Name
		}
		return brk(label), nil
	case *ast.ContinueStatement:
		label := ""
		if st.Label != nil {
			label = st.Label.Name
		}
		return cont(label), nil
	case *ast.LabeledStatement:
		return ctx.execLabeled(st, env, this)
	case *ast.SwitchStatement:
		return ctx.execSwitch(st, env, this)
	case *ast.TryStatement:
		return ctx.execTry(st, env, this)
	case *ast.ThrowStatement:
		v, err := ctx.EvalExpr(st.Argument, env, this)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		return thrown(v), nil
	default:
		return Completion{}, errors.New(errors.Internal, "unhandled statement node %T", s)
	}
}

// completionFromErr converts a *ThrownError into a Throw completion so the
// caller's loop/try handling can treat script exceptions uniformly with
// break/continue/return; any other Go error (stack overflow, internal
// fault) propagates unchanged.
func (ctx *Context) completionFromErr(err error) (Completion, error) {
	if te, ok := err.(*ThrownError); ok {
		return thrown(te.Value), nil
	}
	if re, ok := err.(*errors.RuntimeError); ok {
		return thrown(value.Obj(ctx.newErrorObject(re.ErrKind, re.Message))), nil
	}
	return Completion{}, err
}

func (ctx *Context) execVarDecl(st *ast.VariableDeclaration, env *runtime.Environment, this value.Value) (Completion, error) {
	for _, d := range st.Declarators {
		var v value.Value = value.Undefined
		if d.Init != nil {
			iv, err := ctx.EvalExpr(d.Init, env, this)
			if err != nil {
				return ctx.completionFromErr(err)
			}
			v = iv
		}
		switch st.Kind {
		case ast.DeclVar:
			if id, ok := d.Target.(*ast.Identifier); ok {
				if env.HasOwn(id.Name) {
					_ = env.Set(id.Name, v)
				} else {
					env.DeclareVar(id.Name, v)
				}
				continue
			}
			if err := ctx.bindPattern(env, d.Target, v); err != nil {
				return ctx.completionFromErr(err)
			}
		case ast.DeclLet:
			if id, ok := d.Target.(*ast.Identifier); ok {
				env.DeclareLet(id.Name)
				env.Initialize(id.Name, v)
				continue
			}
			predeclare(env, d.Target, false)
			if err := ctx.initPattern(env, d.Target, v); err != nil {
				return ctx.completionFromErr(err)
			}
		case ast.DeclConst:
			if id, ok := d.Target.(*ast.Identifier); ok {
				env.DeclareConst(id.Name)
				env.Initialize(id.Name, v)
				continue
			}
			predeclare(env, d.Target, true)
			if err := ctx.initPattern(env, d.Target, v); err != nil {
				return ctx.completionFromErr(err)
			}
		}
	}
	return normal(), nil
}

func predeclare(env *runtime.Environment, target ast.Expression, isConst bool) {
	switch t := target.(type) {
	case *ast.Identifier:
		if isConst {
			env.DeclareConst(t.Name)
		} else {
			env.DeclareLet(t.Name)
		}
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			if el != nil && el.Pattern != nil {
				predeclare(env, el.Pattern, isConst)
			}
		}
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			predeclare(env, p.Value, isConst)
		}
	}
}

// initPattern destructures v into already-TDZ-predeclared let/const
// bindings, calling Initialize instead of DeclareVar for identifiers.
func (ctx *Context) initPattern(env *runtime.Environment, target ast.Expression, v value.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		env.Initialize(t.Name, v)
		return nil
	case *ast.ArrayPattern:
		elems := ctx.iterableToSlice(v)
		for i, el := range t.Elements {
			if el == nil || el.Pattern == nil {
				continue
			}
			var ev value.Value = value.Undefined
			if i < len(elems) {
				ev = elems[i]
			}
			if err := ctx.initPattern(env, el.Pattern, ev); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		obj := objectOrNil(v)
		for _, p := range t.Properties {
			name, err := ctx.propertyKeyName(env, p.Key, p.Computed)
			if err != nil {
				return err
			}
			var pv value.Value = value.Undefined
			if obj != nil {
				pv = obj.Get(ctx, v, name)
			}
			if err := ctx.initPattern(env, p.Value, pv); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (ctx *Context) execWhile(st *ast.WhileStatement, env *runtime.Environment, this value.Value, label string) (Completion, error) {
	if _, cur := ctx.JIT.RecordExecution(st); cur >= jit.TierBytecode {
		handled, err := ctx.tryBytecodeLoop(st, env)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if handled {
			return normal(), nil
		}
	}
	for {
		t, err := ctx.EvalExpr(st.Test, env, this)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if !t.ToBoolean() {
			return normal(), nil
		}
		comp, err := ctx.execStatement(st.Body, env, this)
		if err != nil {
			return Completion{}, err
		}
		if stop, out, err := handleLoopCompletion(comp, label); stop {
			return out, err
		}
	}
}

func (ctx *Context) execDoWhile(st *ast.DoWhileStatement, env *runtime.Environment, this value.Value, label string) (Completion, error) {
	for {
		comp, err := ctx.execStatement(st.Body, env, this)
		if err != nil {
			return Completion{}, err
		}
		if stop, out, err := handleLoopCompletion(comp, label); stop {
			return out, err
		}
		t, err := ctx.EvalExpr(st.Test, env, this)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if !t.ToBoolean() {
			return normal(), nil
		}
	}
}

func (ctx *Context) execFor(st *ast.ForStatement, env *runtime.Environment, this value.Value, label string) (Completion, error) {
	loopEnv := env.NewChild()
	if st.Init != nil {
		switch init := st.Init.(type) {
		case *ast.VariableDeclaration:
			if _, err := ctx.execVarDecl(init, loopEnv, this); err != nil {
				return Completion{}, err
			}
		case ast.Expression:
			if _, err := ctx.EvalExpr(init, loopEnv, this); err != nil {
				return ctx.completionFromErr(err)
			}
		}
	}

	_, cur := ctx.JIT.RecordExecution(st)
	if cur >= jit.TierOptimized {
		handled, err := ctx.tryNativeLoop(st, loopEnv, this, cur)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if handled {
			return normal(), nil
		}
		cur = ctx.JIT.TierOf(st) // tryNativeLoop may have deoptimised the site
	}
	if cur >= jit.TierBytecode {
		handled, err := ctx.tryBytecodeLoop(st, loopEnv)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if handled {
			return normal(), nil
		}
	}
	for {
		if st.Test != nil {
			t, err := ctx.EvalExpr(st.Test, loopEnv, this)
			if err != nil {
				return ctx.completionFromErr(err)
			}
			if !t.ToBoolean() {
				return normal(), nil
			}
		}
		comp, err := ctx.execStatement(st.Body, loopEnv, this)
		if err != nil {
			return Completion{}, err
		}
		if stop, out, err := handleLoopCompletion(comp, label); stop {
			return out, err
		}
		if st.Update != nil {
			if _, err := ctx.EvalExpr(st.Update, loopEnv, this); err != nil {
				return ctx.completionFromErr(err)
			}
		}
	}
}

func (ctx *Context) execForIn(st *ast.ForInStatement, env *runtime.Environment, this value.Value, label string) (Completion, error) {
	rightVal, err := ctx.EvalExpr(st.Right, env, this)
	if err != nil {
		return ctx.completionFromErr(err)
	}

	var keys []value.Value
	if st.IsOf {
		keys = ctx.iterableToSlice(rightVal)
	} else {
		if obj := objectOrNil(rightVal); obj != nil {
			seen := map[string]bool{}
			for cur := obj; cur != nil; cur = cur.Prototype() {
				for _, name := range cur.OwnPropertyNames(true) {
					if seen[name] {
						continue
					}
					seen[name] = true
					keys = append(keys, value.Str(ctx.Strings.Intern(name)))
				}
			}
		}
	}

	for _, k := range keys {
		iterEnv := env.NewChild()
		if st.Decl != nil {
			target := st.Decl.Declarators[0].Target
			switch st.Decl.Kind {
			case ast.DeclVar:
				if err := ctx.bindPattern(iterEnv, target, k); err != nil {
					return ctx.completionFromErr(err)
				}
			default:
				predeclare(iterEnv, target, st.Decl.Kind == ast.DeclConst)
				if err := ctx.initPattern(iterEnv, target, k); err != nil {
					return ctx.completionFromErr(err)
				}
			}
		} else if st.Left != nil {
			if err := ctx.assignTo(iterEnv, this, st.Left, k); err != nil {
				return ctx.completionFromErr(err)
			}
		}
		comp, err := ctx.execStatement(st.Body, iterEnv, this)
		if err != nil {
			return Completion{}, err
		}
		if stop, out, err := handleLoopCompletion(comp, label); stop {
			return out, err
		}
	}
	return normal(), nil
}

// handleLoopCompletion interprets a loop body's completion: Break matching
// this loop's label (or unlabeled) terminates it as Normal; Continue
// matching resumes the loop; anything else (Return, Throw, or a
// differently-labeled Break/Continue) propagates to the caller.
func handleLoopCompletion(comp Completion, label string) (stop bool, out Completion, err error) {
	switch comp.Kind {
	case Normal:
		return false, Completion{}, nil
	case Continue:
		if comp.Label == "" || comp.Label == label {
			return false, Completion{}, nil
		}
		return true, comp, nil
	case Break:
		if comp.Label == "" || comp.Label == label {
			return true, normal(), nil
		}
		return true, comp, nil
	default:
		return true, comp, nil
	}
}

func (ctx *Context) execLabeled(st *ast.LabeledStatement, env *runtime.Environment, this value.Value) (Completion, error) {
	label := st.Label.Name
	var comp Completion
	var err error
	switch body := st.Body.(type) {
	case *ast.WhileStatement:
		comp, err = ctx.execWhile(body, env, this, label)
	case *ast.DoWhileStatement:
		comp, err = ctx.execDoWhile(body, env, this, label)
	case *ast.ForStatement:
		comp, err = ctx.execFor(body, env, this, label)
	case *ast.ForInStatement:
		comp, err = ctx.execForIn(body, env, this, label)
	default:
		comp, err = ctx.execStatement(st.Body, env, this)
	}
	if err != nil {
		return Completion{}, err
	}
	if comp.Kind == Break && comp.Label == label {
		return normal(), nil
	}
	return comp, nil
}

func (ctx *Context) execSwitch(st *ast.SwitchStatement, env *runtime.Environment, this value.Value) (Completion, error) {
	d, err := ctx.EvalExpr(st.Discriminant, env, this)
	if err != nil {
		return ctx.completionFromErr(err)
	}
	switchEnv := env.NewChild()

	matched := -1
	defaultIdx := -1
	for i, c := range st.Cases {
		if c.Test == nil {
			defaultIdx = i
			continue
		}
		tv, err := ctx.EvalExpr(c.Test, switchEnv, this)
		if err != nil {
			return ctx.completionFromErr(err)
		}
		if value.StrictEquals(d, tv) {
			matched = i
			break
		}
	}
	if matched < 0 {
		matched = defaultIdx
	}
	if matched < 0 {
		return normal(), nil
	}
	for i := matched; i < len(st.Cases); i++ {
		comp, err := ctx.execStatements(st.Cases[i].Consequent, switchEnv, this)
		if err != nil {
			return Completion{}, err
		}
		if comp.Kind == Break && comp.Label == "" {
			return normal(), nil
		}
		if comp.IsAbrupt() {
			return comp, nil
		}
	}
	return normal(), nil
}

func (ctx *Context) execTry(st *ast.TryStatement, env *runtime.Environment, this value.Value) (Completion, error) {
	comp, err := ctx.execBlock(st.Block, env, this)
	if err != nil {
		return Completion{}, err
	}

	if comp.Kind == Throw && st.Handler != nil {
		handlerEnv := env.NewChild()
		if st.Handler.Param != nil {
			handlerEnv.DeclareVar(st.Handler.Param.Name, comp.Value)
		}
		comp, err = ctx.execBlock(st.Handler.Body, handlerEnv, this)
		if err != nil {
			return Completion{}, err
		}
	}

	if st.Finally != nil {
		fComp, err := ctx.execBlock(st.Finally, env, this)
		if err != nil {
			return Completion{}, err
		}
		if fComp.IsAbrupt() {
			return fComp, nil
		}
	}
	return comp, nil
}

func objectOrNil(v value.Value) *object.Object {
	o, _ := v.ObjectVal().(*object.Object)
	return o
}
