package interp

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/bytecode"
	"github.com/ecmago/ecmago/internal/runtime"
	"github.com/ecmago/ecmago/internal/value"
)

// bcEntry is what Context caches in the JIT's per-node bytecode slot
// (jit.Compiler.CacheBytecode takes an untyped `any` to avoid an import
// cycle with internal/bytecode -- spec §4.5/§5 layering).
type bcEntry struct {
	chunk       *bytecode.Chunk
	unsupported bool
}

// tryBytecodeLoop runs a while/for loop statement through the Bytecode
// tier once the JIT has promoted it past the threshold (spec §4.5). It
// reports handled=false whenever the loop can't run in bytecode this time
// -- either because the body fell outside the compiler's supported subset,
// or because a live variable wasn't a plain number at this call -- and the
// caller falls back to the ordinary tree-walking loop, which remains
// correct and is always tried first-hand as the baseline.
func (ctx *Context) tryBytecodeLoop(node ast.Node, env *runtime.Environment) (handled bool, err error) {
	cached := ctx.JIT.Bytecode(node)
	entry, ok := cached.(*bcEntry)
	if !ok {
		chunk, compiled := bytecode.Compile(node)
		entry = &bcEntry{chunk: chunk, unsupported: !compiled}
		ctx.JIT.CacheBytecode(node, entry)
	}
	if entry.unsupported || entry.chunk == nil {
		return false, nil
	}
	chunk := entry.chunk

	regs := make([]float64, chunk.NumRegisters)
	for name, reg := range chunk.Locals {
		v, getErr := env.Get(name)
		if getErr != nil {
			return false, nil
		}
		if !v.IsNumber() {
			return false, nil
		}
		regs[reg] = v.Float()
	}

	vm := bytecode.NewVM(nil)
	if _, runErr := vm.Run(chunk, regs); runErr != nil {
		return false, nil
	}

	for name, reg := range chunk.Locals {
		if setErr := env.Set(name, value.Number(regs[reg])); setErr != nil {
			return false, setErr
		}
	}
	return true, nil
}
