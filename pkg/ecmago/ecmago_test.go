package ecmago

import (
	"testing"

	"github.com/ecmago/ecmago/internal/interp"
	"github.com/ecmago/ecmago/internal/value"
)

func TestEvalArithmetic(t *testing.T) {
	rt := New()
	v, err := rt.Eval("1 + 2 * 3;", "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	n, err := rt.ToNumber(v)
	if err != nil {
		t.Fatalf("ToNumber returned error: %v", err)
	}
	if n != 7 {
		t.Errorf("result = %v, want 7", n)
	}
}

func TestEvalStringConcatenation(t *testing.T) {
	rt := New()
	v, err := rt.Eval(`"foo" + "bar";`, "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	s, err := rt.ToString(v)
	if err != nil {
		t.Fatalf("ToString returned error: %v", err)
	}
	if s != "foobar" {
		t.Errorf("result = %q, want %q", s, "foobar")
	}
}

func TestEvalClosureCapturesOuterVariable(t *testing.T) {
	rt := New()
	src := `
		function makeCounter() {
			let count = 0;
			return function() { count = count + 1; return count; };
		}
		let counter = makeCounter();
		counter();
		counter();
		counter();
	`
	v, err := rt.Eval(src, "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	n, err := rt.ToNumber(v)
	if err != nil {
		t.Fatalf("ToNumber returned error: %v", err)
	}
	if n != 3 {
		t.Errorf("counter() third call = %v, want 3", n)
	}
}

func TestEvalTryCatchCatchesTypeErrorOnNullAccess(t *testing.T) {
	rt := New()
	src := `
		let caught = "";
		try {
			let x = null;
			x.y;
		} catch (e) {
			caught = e.name;
		}
		caught;
	`
	v, err := rt.Eval(src, "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	s, err := rt.ToString(v)
	if err != nil {
		t.Fatalf("ToString returned error: %v", err)
	}
	if s != "TypeError" {
		t.Errorf("caught.name = %q, want %q", s, "TypeError")
	}
}

func TestEvalJSONRoundTrip(t *testing.T) {
	rt := New()
	src := `JSON.stringify(JSON.parse('{"a":1,"b":[2,3]}'));`
	v, err := rt.Eval(src, "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	s, err := rt.ToString(v)
	if err != nil {
		t.Fatalf("ToString returned error: %v", err)
	}
	want := `{"a":1,"b":[2,3]}`
	if s != want {
		t.Errorf("round-trip = %q, want %q", s, want)
	}
}

func TestEvalJSONStringifyDropsUndefined(t *testing.T) {
	rt := New()
	src := `JSON.stringify({a: 1, b: undefined, c: NaN});`
	v, err := rt.Eval(src, "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	s, err := rt.ToString(v)
	if err != nil {
		t.Fatalf("ToString returned error: %v", err)
	}
	want := `{"a":1,"c":null}`
	if s != want {
		t.Errorf("stringify = %q, want %q", s, want)
	}
}

func TestRegisterExposesHostFunction(t *testing.T) {
	rt := New()
	rt.Register("double", func(_ *interp.Context, args []value.Value) (value.Value, error) {
		if len(args) == 0 || !args[0].IsNumber() {
			return value.Undefined, nil
		}
		return value.Number(args[0].Float() * 2), nil
	})
	v, err := rt.Eval("double(21);", "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	n, err := rt.ToNumber(v)
	if err != nil {
		t.Fatalf("ToNumber returned error: %v", err)
	}
	if n != 42 {
		t.Errorf("double(21) = %v, want 42", n)
	}
}

func TestEvalCompileErrorOnSyntaxError(t *testing.T) {
	rt := New()
	_, err := rt.Eval("let = ;", "<test>")
	if err == nil {
		t.Fatal("expected a CompileError for invalid syntax")
	}
	if _, ok := err.(*CompileError); !ok {
		t.Errorf("error = %T, want *CompileError", err)
	}
}

func TestSetGlobalIsVisibleToScript(t *testing.T) {
	rt := New()
	rt.SetGlobal("answer", value.Number(42))
	v, err := rt.Eval("answer;", "<test>")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	n, err := rt.ToNumber(v)
	if err != nil {
		t.Fatalf("ToNumber returned error: %v", err)
	}
	if n != 42 {
		t.Errorf("answer = %v, want 42", n)
	}
}
