package jit

import "testing"

func TestRecordExecutionTiersUpAtEachThreshold(t *testing.T) {
	c := NewCompiler(TierThresholds{Bytecode: 2, Optimized: 4, MachineCode: 6})
	node := new(int)

	var cur Tier
	for i := 0; i < 6; i++ {
		_, cur = c.RecordExecution(node)
	}
	if cur != TierMachineCode {
		t.Fatalf("TierOf after 6 executions = %v, want %v", cur, TierMachineCode)
	}
}

func TestDeoptimizeDropsToBytecodeAndClearsCaches(t *testing.T) {
	c := NewCompiler(DefaultTierThresholds())
	node := new(int)
	c.CacheOptimized(node, "anything")
	c.CacheMachineCode(node, NewCountedSumCode())

	c.Deoptimize(node)

	if got := c.TierOf(node); got != TierBytecode {
		t.Errorf("TierOf after Deoptimize = %v, want %v", got, TierBytecode)
	}
	if c.Optimized(node) != nil {
		t.Error("Deoptimize should clear the cached optimized representation")
	}
	if c.MachineCodeFor(node) != nil {
		t.Error("Deoptimize should clear the cached native code")
	}
}

func TestRepeatedDeoptimizeReachesBlockedTerminal(t *testing.T) {
	c := NewCompiler(DefaultTierThresholds())
	node := new(int)

	for i := 0; i < maxDeoptsBeforeBlocked; i++ {
		c.Deoptimize(node)
	}

	if got := c.TierOf(node); got != TierBlocked {
		t.Errorf("TierOf after %d deopts = %v, want %v", maxDeoptsBeforeBlocked, got, TierBlocked)
	}

	// Once blocked, further executions never resume tiering up.
	_, cur := c.RecordExecution(node)
	if cur != TierBlocked {
		t.Errorf("RecordExecution on a blocked site returned %v, want %v", cur, TierBlocked)
	}
}

func TestNewCountedSumCodeMatchesTreeWalkedSum(t *testing.T) {
	code := NewCountedSumCode()
	sum, ok := code.Invoke([]float64{0, 5, 1})
	if !ok {
		t.Fatal("Invoke reported failure for a well-formed counted range")
	}
	if sum != 10 { // 0+1+2+3+4
		t.Errorf("Invoke sum = %v, want 10", sum)
	}
	if code.HitCount() != 1 {
		t.Errorf("HitCount = %d, want 1", code.HitCount())
	}
}

func TestNewBulkArrayPushCodeCountsIterations(t *testing.T) {
	code := NewBulkArrayPushCode()
	count, ok := code.Invoke([]float64{0, 3, 1})
	if !ok {
		t.Fatal("Invoke reported failure for a well-formed counted range")
	}
	if count != 3 {
		t.Errorf("Invoke count = %v, want 3", count)
	}
}

func TestNativeCodeInvokeRejectsZeroStep(t *testing.T) {
	code := NewCountedSumCode()
	if _, ok := code.Invoke([]float64{0, 5, 0}); ok {
		t.Error("Invoke should fail on a zero step (infinite loop guard)")
	}
}
