package interp

import (
	"testing"

	"github.com/ecmago/ecmago/internal/jit"
	"github.com/ecmago/ecmago/internal/parser"
)

// evalScript parses and runs src against ctx, returning its completion
// value coerced to a number.
func evalScript(t *testing.T, ctx *Context, src string) float64 {
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
	n, err := ctx.ToNumber(v)
	if err != nil {
		t.Fatalf("ToNumber returned error: %v", err)
	}
	return n
}

// lowThresholds promotes a site to MachineCode after only a handful of
// loop entries, so a test doesn't need to run the loop thousands of times.
func lowThresholds() jit.TierThresholds {
	return jit.TierThresholds{Bytecode: 1, Optimized: 2, MachineCode: 3}
}

func TestCountedSumLoopReachesMachineCodeTier(t *testing.T) {
	ctx := New(WithJITThresholds(lowThresholds()))
	src := `
		let total = 0;
		function run() {
			let sum = 0;
			for (let i = 0; i < 5; i++) { sum += i; }
			return sum;
		}
		for (let k = 0; k < 4; k++) { total += run(); }
		total;
	`
	got := evalScript(t, ctx, src)
	want := 4 * 10.0 // sum(0..4) == 10, called 4 times
	if got != want {
		t.Errorf("total = %v, want %v", got, want)
	}
}

// TestCountedSumLoopIdenticalAcrossEveryTier calls the same counted-sum
// loop enough times that it is tree-walked, then Bytecode, then
// Optimized-guarded, then finally replaced by the MachineCode closed
// form -- and checks every call returns the tree-walked answer (spec §8:
// "the observable result ... is identical at every tier").
func TestCountedSumLoopIdenticalAcrossEveryTier(t *testing.T) {
	ctx := New(WithJITThresholds(lowThresholds()))
	src := `
		function run() {
			let sum = 0;
			for (let i = 0; i < 37; i++) { sum += i; }
			return sum;
		}
		let results = [];
		for (let k = 0; k < 6; k++) { results.push(run()); }
		results;
	`
	p := parser.New(src)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	v, err := ctx.EvalProgram(program)
	if err != nil {
		t.Fatalf("EvalProgram returned error: %v", err)
	}
	arr := objectOrNil(v)
	if arr == nil {
		t.Fatal("expected an array result")
	}
	for i, el := range arr.Elements() {
		if !el.IsNumber() || el.Float() != 666 { // sum(0..36)
			t.Errorf("results[%d] = %v, want 666", i, el)
		}
	}
}

func TestBulkArrayPushLoopReachesMachineCodeTier(t *testing.T) {
	ctx := New(WithJITThresholds(lowThresholds()))
	src := `
		function run() {
			let arr = [];
			for (let i = 0; i < 4; i++) { arr.push(7); }
			return arr.length;
		}
		let lengths = 0;
		for (let k = 0; k < 4; k++) { lengths += run(); }
		lengths;
	`
	got := evalScript(t, ctx, src)
	if got != 16 { // 4 calls x 4 pushes
		t.Errorf("lengths = %v, want 16", got)
	}
}

// TestDeoptimizeOnTypeMismatchFallsBackToCorrectResult forces a
// counted-sum site to promote on numeric operands, then calls it once
// more with a non-numeric accumulator; the guard must fail and
// deoptimise rather than silently invoke the closed form on the wrong
// type.
func TestDeoptimizeOnTypeMismatchFallsBackToCorrectResult(t *testing.T) {
	ctx := New(WithJITThresholds(lowThresholds()))
	src := `
		function run(seed) {
			let sum = seed;
			for (let i = 0; i < 5; i++) { sum += i; }
			return sum;
		}
		let total = 0;
		total += run(0);
		total += run(0);
		total += run("");
		total;
	`
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
	// run(0) twice: sum stays numeric, 0+0+1+2+3+4 == 10 each -> total 20.
	// run("") third: sum starts as a string, so "" + 0 + 1 + 2 + 3 + 4
	// concatenates to "01234"; 20 + "01234" concatenates to "2001234".
	want := "2001234"
	if s != want {
		t.Errorf("total = %q, want %q", s, want)
	}
}
