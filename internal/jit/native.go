package jit

import "time"

// Pattern identifies one of the closed set of shapes the machine-code tier
// recognises (spec §4.5: "Recognised patterns include 'sum of i from 0 to
// N' and 'constant-per-iteration push into an array'"). This engine does
// not emit literal machine bytes (no safe way to allocate executable
// memory from pure Go without cgo/assembly, which no pack example uses);
// instead each Pattern maps to a Go function playing the role spec §4.5
// assigns to "native emission". These functions step through the loop's
// range in a plain Go loop; none evaluates a closed-form formula. The
// observable contract
// (identical result to the interpreter, tier transitions, deopt-on-
// mismatch) is what the spec actually requires, not literal codegen (see
// DESIGN.md).
type Pattern uint8

const (
	PatternNone Pattern = iota
	PatternCountedSum
	PatternBulkArrayPush
)

// NativeCode is the "callable pointer" spec §4.5 describes returned by
// emission; Run executes the Go implementation for Pattern.
type NativeCode struct {
	Pattern Pattern
	Run     func(args []float64) (result float64, ok bool)

	hitCount int64
	totalNs  int64
}

// NewCountedSumCode builds the "sum of i from lo to hi (exclusive),
// accumulated with step" pattern as a native-tier callable; Run adds the
// values up one step at a time in a Go loop.
func NewCountedSumCode() *NativeCode {
	return &NativeCode{
		Pattern: PatternCountedSum,
		Run: func(args []float64) (float64, bool) {
			if len(args) != 3 {
				return 0, false
			}
			lo, hi, step := args[0], args[1], args[2]
			if step == 0 {
				return 0, false
			}
			sum := 0.0
			for i := lo; (step > 0 && i < hi) || (step < 0 && i > hi); i += step {
				sum += i
			}
			return sum, true
		},
	}
}

// Invoke runs the native code, recording hit-rate and wall-clock
// statistics (spec §4.5: "Execution records wall-clock time and hit-rate
// statistics").
func (n *NativeCode) Invoke(args []float64) (float64, bool) {
	start := time.Now()
	result, ok := n.Run(args)
	n.hitCount++
	n.totalNs += time.Since(start).Nanoseconds()
	return result, ok
}

func (n *NativeCode) HitCount() int64   { return n.hitCount }
func (n *NativeCode) TotalNanos() int64 { return n.totalNs }

// NewBulkArrayPushCode builds the "push a loop-invariant constant into an
// array once per iteration" pattern (spec §4.5: "constant-per-iteration
// push into an array"). Run counts, one step at a time, the iterations the
// equivalent counted loop would take; the array mutation itself happens
// once, in bulk, back at the call site (internal/interp's native bridge),
// since NativeCode's Run is float64-in/float64-out and has no object
// model to push into.
func NewBulkArrayPushCode() *NativeCode {
	return &NativeCode{
		Pattern: PatternBulkArrayPush,
		Run: func(args []float64) (float64, bool) {
			if len(args) != 3 {
				return 0, false
			}
			lo, hi, step := args[0], args[1], args[2]
			if step == 0 {
				return 0, false
			}
			count := 0.0
			for i := lo; (step > 0 && i < hi) || (step < 0 && i > hi); i += step {
				count++
			}
			return count, true
		},
	}
}
