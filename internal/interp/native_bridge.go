package interp

import (
	"math"

	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/jit"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/value"
)

// loopPatternKind distinguishes the two closed forms the MachineCode tier
// recognises (spec §4.5: "Recognised patterns include 'sum of i from 0 to
// N' and 'constant-per-iteration push into an array'").
type loopPatternKind uint8

const (
	loopPatternNone loopPatternKind = iota
	loopPatternCountedSum
	loopPatternBulkPush
)

// countedSumShape matches a for-loop counting loopVar by a step of +1
// (`i++` with `<`) or -1 (`i--` with `>`), whose entire body accumulates
// loopVar into another variable.
type countedSumShape struct {
	loopVar  string
	hiExpr   ast.Expression
	step     float64
	accumVar string
}

// bulkPushShape matches a for-loop counting loopVar, whose entire body
// pushes one loop-invariant expression into an array.
type bulkPushShape struct {
	loopVar  string
	hiExpr   ast.Expression
	step     float64
	arrVar   string
	pushExpr ast.Expression
}

// optEntry is what's cached in the JIT's per-node "optimized" slot: which
// pattern (if any) the loop matched, so pattern matching runs once per
// site rather than once per call.
type optEntry struct {
	kind loopPatternKind
	sum  countedSumShape
	push bulkPushShape
}

// recognizeLoopPattern tries each recognised shape against st in turn.
// Only the strict comparisons the native Run closed forms actually
// compute (internal/jit/native.go loops while `i < hi` or `i > hi`) are
// accepted; anything else -- inclusive bounds, a multi-statement body, a
// non-identifier target -- fails every match and the loop runs at the
// Bytecode tier instead.
func recognizeLoopPattern(st *ast.ForStatement) optEntry {
	loopVar, hiExpr, step, ok := recognizeCountedHeader(st)
	if !ok {
		return optEntry{}
	}
	body := singleBodyStatement(st.Body)
	exprStmt, ok := body.(*ast.ExpressionStatement)
	if !ok {
		return optEntry{}
	}

	if sum, ok := matchAccumulate(exprStmt, loopVar); ok {
		return optEntry{kind: loopPatternCountedSum, sum: countedSumShape{
			loopVar: loopVar, hiExpr: hiExpr, step: step, accumVar: sum,
		}}
	}
	if arrVar, pushExpr, ok := matchArrayPush(exprStmt, loopVar); ok {
		return optEntry{kind: loopPatternBulkPush, push: bulkPushShape{
			loopVar: loopVar, hiExpr: hiExpr, step: step, arrVar: arrVar, pushExpr: pushExpr,
		}}
	}
	return optEntry{}
}

// recognizeCountedHeader matches the `for (let i = ...; i < hi; i++)`
// (or the mirrored `--`/`>` form) shape common to both native patterns.
func recognizeCountedHeader(st *ast.ForStatement) (loopVar string, hiExpr ast.Expression, step float64, ok bool) {
	decl, ok := st.Init.(*ast.VariableDeclaration)
	if !ok || len(decl.Declarators) != 1 {
		return "", nil, 0, false
	}
	loopID, ok := decl.Declarators[0].Target.(*ast.Identifier)
	if !ok || decl.Declarators[0].Init == nil {
		return "", nil, 0, false
	}

	test, ok := st.Test.(*ast.BinaryExpression)
	if !ok {
		return "", nil, 0, false
	}
	testID, ok := test.Left.(*ast.Identifier)
	if !ok || testID.Name != loopID.Name {
		return "", nil, 0, false
	}

	upd, ok := st.Update.(*ast.UpdateExpression)
	if !ok {
		return "", nil, 0, false
	}
	updID, ok := upd.Argument.(*ast.Identifier)
	if !ok || updID.Name != loopID.Name {
		return "", nil, 0, false
	}

	switch {
	case upd.Operator == "++" && test.Operator == "<":
		return loopID.Name, test.Right, 1, true
	case upd.Operator == "--" && test.Operator == ">":
		return loopID.Name, test.Right, -1, true
	default:
		return "", nil, 0, false
	}
}

// matchAccumulate matches `accum += loopVar;`.
func matchAccumulate(stmt *ast.ExpressionStatement, loopVar string) (accumVar string, ok bool) {
	assign, ok := stmt.Expr.(*ast.AssignmentExpression)
	if !ok || assign.Operator != "+=" {
		return "", false
	}
	accumID, ok := assign.Target.(*ast.Identifier)
	if !ok {
		return "", false
	}
	valID, ok := assign.Value.(*ast.Identifier)
	if !ok || valID.Name != loopVar {
		return "", false
	}
	return accumID.Name, true
}

// matchArrayPush matches `arr.push(expr);` where expr is a literal, or an
// identifier other than loopVar. Anything else -- in particular a call
// expression -- is rejected: the closed form evaluates the pushed value
// once and replicates it, which is only sound when that value is truly
// loop-invariant and side-effect-free.
func matchArrayPush(stmt *ast.ExpressionStatement, loopVar string) (arrVar string, pushExpr ast.Expression, ok bool) {
	call, ok := stmt.Expr.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 1 {
		return "", nil, false
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok || member.Computed {
		return "", nil, false
	}
	arrID, ok := member.Object.(*ast.Identifier)
	if !ok {
		return "", nil, false
	}
	prop, ok := member.Property.(*ast.Identifier)
	if !ok || prop.Name != "push" {
		return "", nil, false
	}
	switch arg := call.Arguments[0].(type) {
	case *ast.Identifier:
		if arg.Name == loopVar {
			return "", nil, false
		}
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral:
	default:
		return "", nil, false
	}
	return arrID.Name, call.Arguments[0], true
}

func singleBodyStatement(s ast.Statement) ast.Statement {
	if block, ok := s.(*ast.BlockStatement); ok {
		if len(block.Statements) != 1 {
			return nil
		}
		return block.Statements[0]
	}
	return s
}

// loopShapeFor recognises (and caches, per node) which native pattern, if
// any, st matches. The Optimized tier uses the cached shape purely as a
// guard: once a site is promoted, its operands are expected to stay the
// same kind, and a mismatch deoptimises the site (spec §4.5 "on guard
// failure the site deoptimises to the bytecode tier").
func (ctx *Context) loopShapeFor(node *ast.ForStatement) optEntry {
	cached := ctx.JIT.Optimized(node)
	entry, ok := cached.(*optEntry)
	if !ok {
		e := recognizeLoopPattern(node)
		entry = &e
		ctx.JIT.CacheOptimized(node, entry)
	}
	return *entry
}

// tryNativeLoop is the Optimized/MachineCode tier entry point for a for
// statement. At TierOptimized it only validates the guard (the loop's
// operands are still the expected kind) -- a failure here deoptimises the
// site so the spec §8 tier-up/tier-down property has an actual tier-down
// to exercise. At TierMachineCode, once the guard holds, it also invokes
// the closed-form NativeCode and writes the result back, replacing the
// loop entirely.
func (ctx *Context) tryNativeLoop(node *ast.ForStatement, env *runtime.Environment, this value.Value, cur jit.Tier) (handled bool, err error) {
	entry := ctx.loopShapeFor(node)
	switch entry.kind {
	case loopPatternCountedSum:
		return ctx.tryCountedSum(node, entry.sum, env, this, cur)
	case loopPatternBulkPush:
		return ctx.tryBulkPush(node, entry.push, env, this, cur)
	default:
		return false, nil
	}
}

func (ctx *Context) tryCountedSum(node *ast.ForStatement, shape countedSumShape, env *runtime.Environment, this value.Value, cur jit.Tier) (handled bool, err error) {
	loVal, getErr := env.Get(shape.loopVar)
	if getErr != nil || !loVal.IsNumber() {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}
	hiVal, evalErr := ctx.EvalExpr(shape.hiExpr, env, this)
	if evalErr != nil {
		return false, evalErr
	}
	accumVal, getErr := env.Get(shape.accumVar)
	if getErr != nil || !hiVal.IsNumber() || !accumVal.IsNumber() {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}
	ctx.JIT.Feedback(node).Record(jit.KindNumberP)

	if cur < jit.TierMachineCode {
		return false, nil
	}

	code := ctx.JIT.MachineCodeFor(node)
	if code == nil {
		code = jit.NewCountedSumCode()
		ctx.JIT.CacheMachineCode(node, code)
	}

	sum, ok := code.Invoke([]float64{loVal.Float(), hiVal.Float(), shape.step})
	if !ok {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}

	if setErr := env.Set(shape.accumVar, value.Number(accumVal.Float()+sum)); setErr != nil {
		return false, setErr
	}
	if setErr := env.Set(shape.loopVar, value.Number(countedFinal(loVal.Float(), hiVal.Float(), shape.step))); setErr != nil {
		return false, setErr
	}
	return true, nil
}

func (ctx *Context) tryBulkPush(node *ast.ForStatement, shape bulkPushShape, env *runtime.Environment, this value.Value, cur jit.Tier) (handled bool, err error) {
	loVal, getErr := env.Get(shape.loopVar)
	if getErr != nil || !loVal.IsNumber() {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}
	hiVal, evalErr := ctx.EvalExpr(shape.hiExpr, env, this)
	if evalErr != nil {
		return false, evalErr
	}
	if !hiVal.IsNumber() {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}
	arrVal, getErr := env.Get(shape.arrVar)
	if getErr != nil {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}
	arr := objectOrNil(arrVal)
	if arr == nil || !arr.IsArray() {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}
	pushVal, evalErr := ctx.EvalExpr(shape.pushExpr, env, this)
	if evalErr != nil {
		return false, evalErr
	}
	ctx.JIT.Feedback(node).Record(jit.KindObjectP)

	if cur < jit.TierMachineCode {
		return false, nil
	}

	code := ctx.JIT.MachineCodeFor(node)
	if code == nil {
		code = jit.NewBulkArrayPushCode()
		ctx.JIT.CacheMachineCode(node, code)
	}
	count, ok := code.Invoke([]float64{loVal.Float(), hiVal.Float(), shape.step})
	if !ok {
		ctx.JIT.Deoptimize(node)
		return false, nil
	}

	if n := int(count); n > 0 {
		vs := make([]value.Value, n)
		for i := range vs {
			vs[i] = pushVal
		}
		arr.AppendBulk(vs)
	}
	if setErr := env.Set(shape.loopVar, value.Number(countedFinal(loVal.Float(), hiVal.Float(), shape.step))); setErr != nil {
		return false, setErr
	}
	return true, nil
}

// countedFinal computes the loop variable's value the moment a counted
// loop's test first fails, matching what repeated +=step tree walking
// would leave it at.
func countedFinal(lo, hi, step float64) float64 {
	if step > 0 {
		if hi <= lo {
			return lo
		}
		return lo + math.Ceil(hi-lo)*step
	}
	if hi >= lo {
		return lo
	}
	return lo + math.Ceil(lo-hi)*step
}
