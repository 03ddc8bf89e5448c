package interp

import (
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/hostapi"
	"github.com/ecmago/ecmago/internal/jit"
	"github.com/ecmago/ecmago/internal/mempool"
	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// Config is the functional-options construction surface for a Context,
// the same shape as the teacher's interp.Options / runner.NewWithOptions
// pattern (spec SPEC_FULL §A Configuration).
type Config struct {
	StrictByDefault bool
	StackLimit      int
	JITThresholds   jit.TierThresholds
	Filename        string
}

// Option mutates a Config during New.
type Option func(*Config)

func WithStrictByDefault(strict bool) Option { return func(c *Config) { c.StrictByDefault = strict } }
func WithStackLimit(n int) Option            { return func(c *Config) { c.StackLimit = n } }
func WithJITThresholds(t jit.TierThresholds) Option { return func(c *Config) { c.JITThresholds = t } }
func WithFilename(name string) Option        { return func(c *Config) { c.Filename = name } }

func defaultConfig() Config {
	return Config{
		StackLimit:    runtime.DefaultStackLimit,
		JITThresholds: jit.DefaultTierThresholds(),
		Filename:      "<script>",
	}
}

// Context owns every process-wide and per-run collaborator the evaluator
// needs (spec §2: "A Context owns the global Object, the current
// Environment, the CallStack, the ShapeCache, the Interner, and the
// JITCompiler").
type Context struct {
	Config Config

	Shapes  *shape.Cache
	Strings *value.Interner
	Symbols *value.SymbolRegistry

	Global *object.Object
	Env    *runtime.Environment
	Stack  *runtime.CallStack

	JIT *jit.Compiler

	Host *hostapi.Registry

	// Scratch is the transient-allocation arena of spec §4.7: a per-Context
	// arena for short-lived buffers (template-literal concatenation is the
	// one user) that don't warrant heap objects the GC has to track. Exhaustion is never language-visible -- callers fall back to a
	// plain heap allocation (see evalTemplateLiteral).
	Scratch *mempool.Pool

	// Prototype objects shared by every instance of their kind, installed
	// by installBuiltins.
	objectProto   *object.Object
	functionProto *object.Object
	arrayProto    *object.Object
	stringProto   *object.Object
	numberProto   *object.Object
	booleanProto  *object.Object
	errorProto    *object.Object

	// errorProtos maps each diagnostic Kind (spec §7) to the prototype its
	// constructor (TypeError, RangeError, ...) installs, so internally
	// raised *errors.RuntimeError values surface as the matching script
	// Error subtype when converted to a Throw completion.
	errorProtos map[errors.Kind]*object.Object

	// deadline, when non-zero, is decremented once per statement the tree
	// walker executes (execStatement); loops run by the bytecode or native
	// tiers do not decrement it. 0 means unlimited (spec §5
	// cancellation/timeout model).
	deadline int64

	// genStack tracks the currently-suspended generator bodies, innermost
	// last; evalYield always targets genStack's top (see generator.go).
	genStack []*genState
}

// HostFunc is the signature host-registered functions implement (spec §6:
// "fn : (ctx, args[]) → Value").
type HostFunc func(ctx *Context, args []value.Value) (value.Value, error)

// New constructs a Context with its global object and prototype chain
// installed (builtins wired in builtins.go).
func New(opts ...Option) *Context {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	ctx := &Context{
		Config:  cfg,
		Shapes:  shape.NewCache(),
		Strings: value.NewInterner(),
		Symbols: value.NewSymbolRegistry(),
		Stack:   runtime.NewCallStack(cfg.StackLimit),
		Host:    hostapi.NewRegistry(),
		Scratch: mempool.New(64 * 1024),
	}
	ctx.Global = object.New(ctx.Shapes, nil)
	ctx.Env = runtime.NewGlobal()
	ctx.JIT = jit.NewCompiler(cfg.JITThresholds)
	installBuiltins(ctx)
	return ctx
}

// Register installs a host function under name, reachable from script
// code through the global object (spec §6 Host API contract).
func (ctx *Context) Register(name string, fn HostFunc) {
	ctx.Host.Register(name, func(rawCtx any, args []value.Value) (value.Value, error) {
		return fn(ctx, args)
	})
	wrapped := object.NewFunction(ctx.Shapes, ctx.functionProto, name, func(inner any, this value.Value, args []value.Value) (value.Value, error) {
		return fn(ctx, args)
	})
	ctx.Global.Set(ctx, value.Undefined, name, value.Obj(wrapped))
}

// SetDeadline sets the statement-count budget described on deadline; 0
// disables the check (spec §5).
func (ctx *Context) SetDeadline(n int64) { ctx.deadline = n }

func (ctx *Context) tickDeadline() error {
	if ctx.deadline == 0 {
		return nil
	}
	ctx.deadline--
	if ctx.deadline <= 0 {
		return cancellationError()
	}
	return nil
}
