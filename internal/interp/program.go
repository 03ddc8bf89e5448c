package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/value"
)

// EvalProgram runs a parsed Program against the Context's global
// environment and returns the value of its last top-level expression
// statement, the way a host's `eval` of a full script reports a
// completion value (spec §4.1 Program evaluation). Declarations hoist
// into the global environment first, exactly as execBlock hoists into a
// block's child environment.
func (ctx *Context) EvalProgram(program *ast.Program) (value.Value, error) {
	env := ctx.Env
	this := value.Obj(ctx.Global)
	ctx.hoist(program.Statements, env, this)

	last := value.Undefined
	for _, s := range program.Statements {
		if es, ok := s.(*ast.ExpressionStatement); ok {
			v, err := ctx.EvalExpr(es.Expr, env, this)
			if err != nil {
				if te, ok := err.(*ThrownError); ok {
					return value.Undefined, te
				}
				comp, cerr := ctx.completionFromErr(err)
				if cerr != nil {
					return value.Undefined, cerr
				}
				return value.Undefined, &ThrownError{Value: comp.Value}
			}
			last = v
			continue
		}

		comp, err := ctx.execStatement(s, env, this)
		if err != nil {
			return value.Undefined, err
		}
		switch comp.Kind {
		case Throw:
			return value.Undefined, &ThrownError{Value: comp.Value}
		case Return:
			return comp.Value, nil
		}
	}
	return last, nil
}
