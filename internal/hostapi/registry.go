// Package hostapi implements the pluggable host-function registry spec §1/§6
// describe as the engine's embedding surface: Go code registers named
// functions the script can call, without the evaluator knowing anything
// about the embedder. Grounded on the teacher's pkg/dwscript exported-
// function registration pattern, generalized from DWScript's typed
// function signatures to ECMAScript's (ctx, args[]) -> Value host contract.
package hostapi

import (
	"sort"
	"sync"

	"github.com/ecmago/ecmago/internal/value"
)

// Func is the signature every host-registered function implements (spec
// §6: "fn : (ctx, args[]) → Value"). ctx is passed through as `any` so
// this package doesn't import internal/interp.
type Func func(ctx any, args []value.Value) (value.Value, error)

// Registry holds the set of host functions a Context exposes to script
// code, keyed by the global name they're bound under.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{fns: map[string]Func{}}
}

// Register installs fn under name, overwriting any previous registration
// (spec §6: re-registration is legal and simply rebinds the name).
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
}

// Lookup returns the function registered under name, if any.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[name]
	return fn, ok
}

// Unregister removes name, reporting whether it had been registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fns[name]; !ok {
		return false
	}
	delete(r.fns, name)
	return true
}

// Names returns the registered function names in sorted order, for
// diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.fns))
	for name := range r.fns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
