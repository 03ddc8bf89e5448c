// Package ecmago is the public embedding surface over internal/interp,
// grounded on the teacher's pkg/dwscript exported-function registration
// pattern (pkg/dwscript_test.go's engine.RegisterFunction/Eval/SetOutput):
// a Runtime wraps one Context, scripts run against it with Eval/EvalFile,
// and host Go functions are exposed to script code through Register or the
// reflective RegisterFunction convenience.
package ecmago

import (
	"fmt"
	"os"

	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/interp"
	"github.com/ecmago/ecmago/internal/lexer"
	"github.com/ecmago/ecmago/internal/parser"
	"github.com/ecmago/ecmago/internal/value"
)

// Value is the script value type returned by Eval and accepted by Register
// callbacks. It is an alias for internal/value.Value: embedders never
// construct one by hand, only read results back with its To* accessors or
// round-trip one they received from a prior Eval/Register call.
type Value = value.Value

// Option configures a Runtime at construction, re-exporting
// internal/interp's functional options (spec SPEC_FULL §A Configuration).
type Option = interp.Option

var (
	WithStrictByDefault = interp.WithStrictByDefault
	WithStackLimit      = interp.WithStackLimit
	WithFilename        = interp.WithFilename
)

// HostFunc is the signature of a Go function registered into script
// global scope (spec §6 Host API contract).
type HostFunc = interp.HostFunc

// Runtime owns one interp.Context: its global object, environment, call
// stack, shape cache and JIT state. It is not safe for concurrent use by
// multiple goroutines (spec §5: "Context state...is owned by one
// goroutine").
type Runtime struct {
	ctx *interp.Context
}

// New constructs a Runtime with its builtins installed.
func New(opts ...Option) *Runtime {
	return &Runtime{ctx: interp.New(opts...)}
}

// CompileError reports lexer/parser failures from Eval/EvalFile, rendering
// every accumulated error (spec.md §4.2: parsing never aborts on the first
// mistake; it resynchronises and keeps collecting).
type CompileError struct {
	Errors []error
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d compile errors, first: %s", len(e.Errors), e.Errors[0])
}

// EvalFile reads path and evaluates it as a script through Eval, passing
// path unchanged as the filename argument.
func (r *Runtime) EvalFile(path string) (Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return value.Undefined, err
	}
	return r.Eval(string(src), path)
}

// Eval parses and evaluates source, returning the completion value of its
// last statement (spec §4.1 Program evaluation).
func (r *Runtime) Eval(source string, filename string) (Value, error) {
	p := parser.New(source)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		out := make([]error, len(errs))
		for i, e := range errs {
			out[i] = &errors.CompilerError{Message: e.Message, Pos: e.Pos, Source: source}
		}
		return value.Undefined, &CompileError{Errors: out}
	}
	return r.ctx.EvalProgram(program)
}

// LexOnly tokenizes source without parsing, for the CLI's `lex` subcommand
// and for embedders that just want a token dump.
func LexOnly(source string) ([]string, []error) {
	l := lexer.New(source)
	var toks []string
	for {
		t := l.Next()
		toks = append(toks, t.Type.String()+" "+t.Literal)
		if t.Type.String() == "EOF" {
			break
		}
	}
	errs := make([]error, len(l.Errors()))
	for i, e := range l.Errors() {
		errs[i] = e
	}
	return toks, errs
}

// ParseOnly parses source and returns its AST's textual dump, for the
// CLI's `parse` subcommand.
func ParseOnly(source string) (string, []error) {
	p := parser.New(source)
	program := p.ParseProgram()
	errs := make([]error, len(p.Errors()))
	for i, e := range p.Errors() {
		errs[i] = e
	}
	return program.String(), errs
}

// Register installs a Go function under name, reachable from script code
// as a plain callable global (spec §6).
func (r *Runtime) Register(name string, fn HostFunc) {
	r.ctx.Register(name, fn)
}

// SetDeadline bounds script execution to n statements executed by the
// tree-walking evaluator (loops run by the bytecode or native tiers are
// not counted); 0 disables the check (spec §5 cancellation/timeout model).
func (r *Runtime) SetDeadline(n int64) {
	r.ctx.SetDeadline(n)
}

// Global reads a property of the global object, as script code would see
// it via an unqualified identifier.
func (r *Runtime) Global(name string) Value {
	return r.ctx.Global.Get(r.ctx, value.Obj(r.ctx.Global), name)
}

// SetGlobal defines or overwrites a global property, visible to script
// code as an unqualified identifier from that point on.
func (r *Runtime) SetGlobal(name string, v Value) {
	r.ctx.Global.Set(r.ctx, value.Obj(r.ctx.Global), name, v)
	r.ctx.Env.DeclareVar(name, v)
}

// ToString coerces v the way script code's String(v) or `${v}` would
// (spec §3 ToString abstract operation).
func (r *Runtime) ToString(v Value) (string, error) { return r.ctx.ToStringValue(v) }

// ToNumber coerces v the way script code's Number(v) or unary + would
// (spec §3 ToNumber abstract operation).
func (r *Runtime) ToNumber(v Value) (float64, error) { return r.ctx.ToNumber(v) }

// ToBoolean coerces v the way script code's an `if` test would; this
// conversion never fails.
func (r *Runtime) ToBoolean(v Value) bool { return v.ToBoolean() }
