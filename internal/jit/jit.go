// Package jit implements the tiered accelerator of spec §4.5: per-AST-node
// tier state, TypeFeedback/CallSiteFeedback recording, and (pattern-limited)
// native emission, grounded on the teacher's staged-compilation approach in
// internal/bytecode (bytecode caching keyed per AST node) generalized with
// the extra Optimized/MachineCode tiers DWScript's fixed-type language never
// needed.
package jit

// Tier is the state machine from spec §4.5/§4.7: Interpreter -> Bytecode ->
// Optimized -> MachineCode, with a deopt edge back to Bytecode and a
// terminal Blocked state after repeated deopt failures.
type Tier uint8

const (
	TierInterpreter Tier = iota
	TierBytecode
	TierOptimized
	TierMachineCode
	TierBlocked
)

func (t Tier) String() string {
	switch t {
	case TierInterpreter:
		return "Interpreter"
	case TierBytecode:
		return "Bytecode"
	case TierOptimized:
		return "Optimized"
	case TierMachineCode:
		return "MachineCode"
	case TierBlocked:
		return "Blocked"
	default:
		return "Unknown"
	}
}

// TierThresholds configures the execution counts that trigger each tier-up
// (spec §4.5 defaults: 100 / 1000 / 10000).
type TierThresholds struct {
	Bytecode    int64
	Optimized   int64
	MachineCode int64
}

func DefaultTierThresholds() TierThresholds {
	return TierThresholds{Bytecode: 100, Optimized: 1000, MachineCode: 10000}
}

// maxDeoptsBeforeBlocked caps how many times a site may deoptimise before
// the JIT gives up on it permanently (spec §4.7 terminal "blocked" state).
const maxDeoptsBeforeBlocked = 5

// siteState is the per-AST-node bookkeeping the JIT keeps. AST nodes are
// identified by pointer identity (ast.Node is always *T), used as a map
// key via the NodeKey wrapper so this package need not import internal/ast.
type siteState struct {
	tier        Tier
	execCount   int64
	deoptCount  int
	feedback    *TypeFeedback
	callSite    *CallSiteFeedback
	bytecode    any // the interp bridge's cached entry around a *bytecode.Chunk, kept untyped to avoid an import cycle
	optimized   any
	machineCode *NativeCode
}

// NodeKey identifies an AST node by identity for JIT bookkeeping, without
// internal/jit importing internal/ast (the evaluator passes ast.Node values
// in as `any`; only pointer identity is used as a map key).
type NodeKey = any

// Compiler owns one Context's tier state, code caches, and counters (spec
// §5: "JITCompiler state...is owned by one Context and not shared").
type Compiler struct {
	thresholds TierThresholds
	sites      map[NodeKey]*siteState
	trace      []string // recent tier-transition/deopt diagnostic lines
}

func NewCompiler(thresholds TierThresholds) *Compiler {
	return &Compiler{thresholds: thresholds, sites: map[NodeKey]*siteState{}}
}

func (c *Compiler) siteFor(node NodeKey) *siteState {
	s, ok := c.sites[node]
	if !ok {
		s = &siteState{tier: TierInterpreter, feedback: NewTypeFeedback(), callSite: NewCallSiteFeedback()}
		c.sites[node] = s
	}
	return s
}

// TierOf reports the current tier for node (TierInterpreter if never
// observed before).
func (c *Compiler) TierOf(node NodeKey) Tier { return c.siteFor(node).tier }

// Feedback returns the TypeFeedback recorder for node, creating it on
// first access.
func (c *Compiler) Feedback(node NodeKey) *TypeFeedback { return c.siteFor(node).feedback }

// CallFeedback returns the CallSiteFeedback recorder for a call expression
// node.
func (c *Compiler) CallFeedback(node NodeKey) *CallSiteFeedback { return c.siteFor(node).callSite }

// RecordExecution increments the hit counter for node and returns the tier
// it should now run at, tiering up when a threshold is crossed. Returns
// the *previous* tier alongside the new one so the caller can detect and
// log a transition.
func (c *Compiler) RecordExecution(node NodeKey) (prev, cur Tier) {
	s := c.siteFor(node)
	prev = s.tier
	if s.tier == TierBlocked {
		return prev, prev
	}
	s.execCount++
	switch {
	case s.tier == TierInterpreter && s.execCount >= c.thresholds.Bytecode:
		s.tier = TierBytecode
		c.logTransition(node, prev, s.tier)
	case s.tier == TierBytecode && s.execCount >= c.thresholds.Optimized:
		s.tier = TierOptimized
		c.logTransition(node, prev, s.tier)
	case s.tier == TierOptimized && s.execCount >= c.thresholds.MachineCode:
		s.tier = TierMachineCode
		c.logTransition(node, prev, s.tier)
	}
	return prev, s.tier
}

// CacheBytecode/Bytecode store and retrieve the compiled program for a
// node (spec §4.5: "Bytecode is cached per AST node").
func (c *Compiler) CacheBytecode(node NodeKey, prog any) { c.siteFor(node).bytecode = prog }
func (c *Compiler) Bytecode(node NodeKey) any            { return c.siteFor(node).bytecode }

func (c *Compiler) CacheOptimized(node NodeKey, prog any) { c.siteFor(node).optimized = prog }
func (c *Compiler) Optimized(node NodeKey) any            { return c.siteFor(node).optimized }

func (c *Compiler) CacheMachineCode(node NodeKey, code *NativeCode) { c.siteFor(node).machineCode = code }
func (c *Compiler) MachineCodeFor(node NodeKey) *NativeCode         { return c.siteFor(node).machineCode }

// Deoptimize drops node back to the Bytecode tier (spec §4.5: "on guard
// failure the site deoptimises to the bytecode tier and the optimisation
// is removed"). Deoptimisation never loses evaluator state: it only
// discards cached specialised code (spec §4.5 "always safe"). After
// maxDeoptsBeforeBlocked failures the site is permanently blocked from
// re-promotion.
func (c *Compiler) Deoptimize(node NodeKey) {
	s := c.siteFor(node)
	from := s.tier
	s.optimized = nil
	s.machineCode = nil
	s.deoptCount++
	if s.deoptCount >= maxDeoptsBeforeBlocked {
		s.tier = TierBlocked
	} else {
		s.tier = TierBytecode
	}
	c.logTransition(node, from, s.tier)
}

func (c *Compiler) logTransition(node NodeKey, from, to Tier) {
	c.trace = append(c.trace, from.String()+" -> "+to.String())
	if len(c.trace) > 256 {
		c.trace = c.trace[len(c.trace)-256:]
	}
}

// Trace returns the recent tier-transition diagnostic lines the compiler
// keeps in memory.
func (c *Compiler) Trace() []string { return c.trace }
