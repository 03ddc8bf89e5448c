package interp

import (
	"testing"

	"github.com/ecmago/ecmago/internal/object"
	"github.com/ecmago/ecmago/internal/parser"
	"github.com/ecmago/ecmago/internal/shape"
	"github.com/ecmago/ecmago/internal/value"
)

// evalScriptToString parses and runs src, coercing the completion value to
// a string for assertion.
func evalScriptToString(t *testing.T, ctx *Context, src string) string {
	t.Helper()
	p := parser.New(src)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	v, err := ctx.EvalProgram(program)
	if err != nil {
		t.Fatalf("EvalProgram returned error: %v", err)
	}
	s, err := ctx.ToStringValue(v)
	if err != nil {
		t.Fatalf("ToStringValue returned error: %v", err)
	}
	return s
}

var enumerableWritable = shape.Attributes{Writable: true, Enumerable: true, Configurable: true}

// TestForInWalksPrototypeChain confirms an enumerable property defined on
// a prototype is visited by for-in, not just the object's own keys.
func TestForInWalksPrototypeChain(t *testing.T) {
	ctx := New()
	proto := object.New(ctx.Shapes, ctx.objectProto)
	proto.DefineDataProperty("fromProto", value.Str(ctx.Strings.Intern("proto")), enumerableWritable)
	child := object.New(ctx.Shapes, proto)
	child.DefineDataProperty("own", value.Str(ctx.Strings.Intern("own")), enumerableWritable)
	ctx.Env.DeclareVar("o", value.Obj(child))

	got := evalScriptToString(t, ctx, `let seen = ""; for (let k in o) { seen += k + ","; } seen;`)
	want := "own,fromProto,"
	if got != want {
		t.Errorf("for-in keys = %q, want %q", got, want)
	}
}

// TestForInSkipsShadowedPrototypeProperty confirms a property shadowed by
// an own property of the same name is visited only once.
func TestForInSkipsShadowedPrototypeProperty(t *testing.T) {
	ctx := New()
	proto := object.New(ctx.Shapes, ctx.objectProto)
	proto.DefineDataProperty("x", value.Str(ctx.Strings.Intern("proto")), enumerableWritable)
	child := object.New(ctx.Shapes, proto)
	child.DefineDataProperty("x", value.Str(ctx.Strings.Intern("own")), enumerableWritable)
	ctx.Env.DeclareVar("o", value.Obj(child))

	got := evalScriptToString(t, ctx, `let seen = ""; for (let k in o) { seen += k + ","; } seen;`)
	want := "x,"
	if got != want {
		t.Errorf("for-in keys = %q, want %q (shadowed property should appear once)", got, want)
	}
}

// TestForInSkipsNonEnumerableInheritedProperty confirms prototype-chain
// enumeration still respects the enumerable attribute (spec §4.3).
func TestForInSkipsNonEnumerableInheritedProperty(t *testing.T) {
	ctx := New()
	proto := object.New(ctx.Shapes, ctx.objectProto)
	proto.DefineDataProperty("hidden", value.Str(ctx.Strings.Intern("proto")), shape.Attributes{Writable: true, Enumerable: false, Configurable: true})
	child := object.New(ctx.Shapes, proto)
	child.DefineDataProperty("own", value.Str(ctx.Strings.Intern("own")), enumerableWritable)
	ctx.Env.DeclareVar("o", value.Obj(child))

	got := evalScriptToString(t, ctx, `let seen = ""; for (let k in o) { seen += k + ","; } seen;`)
	want := "own,"
	if got != want {
		t.Errorf("for-in keys = %q, want %q (non-enumerable inherited property should be skipped)", got, want)
	}
}
