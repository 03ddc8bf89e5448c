// Package runtime implements the lexical-scope chain and call-stack
// bookkeeping (spec §3 Environment/CallStack), grounded on the teacher's
// internal/interp/runtime package (frame-chain-of-maps environment, bounded
// call-stack slice) generalized with the TDZ (temporal-dead-zone) binding
// states ECMAScript's let/const require that DWScript's var-only bindings
// never needed.
package runtime

import (
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/internal/value"
)

// bindingState tracks TDZ for let/const bindings (spec §3: "let/const
// bindings start uninitialized; reading before initialization fails with
// a reference error").
type bindingState uint8

const (
	bindingUninitialized bindingState = iota
	bindingInitialized
)

type binding struct {
	value   value.Value
	mutable bool
	state   bindingState
}

// Environment is one frame of the singly-linked scope chain (spec §3).
// The outermost frame backs the global object; every inner frame is a
// plain name->binding map.
type Environment struct {
	parent   *Environment
	bindings map[string]*binding
}

// NewGlobal creates the root environment with no parent.
func NewGlobal() *Environment {
	return &Environment{bindings: map[string]*binding{}}
}

// NewChild creates a new frame whose parent is env (function call,
// block scope, for-loop per-iteration scope).
func (env *Environment) NewChild() *Environment {
	return &Environment{parent: env, bindings: map[string]*binding{}}
}

func (env *Environment) Parent() *Environment { return env.parent }

// DeclareVar creates an already-initialized, mutable binding (var and
// function parameters skip TDZ).
func (env *Environment) DeclareVar(name string, v value.Value) {
	env.bindings[name] = &binding{value: v, mutable: true, state: bindingInitialized}
}

// DeclareLet creates an uninitialized mutable binding; Initialize must run
// before any read (TDZ).
func (env *Environment) DeclareLet(name string) {
	env.bindings[name] = &binding{mutable: true, state: bindingUninitialized}
}

// DeclareConst creates an uninitialized immutable binding.
func (env *Environment) DeclareConst(name string) {
	env.bindings[name] = &binding{mutable: false, state: bindingUninitialized}
}

// Initialize transitions a let/const binding out of TDZ with its first
// value, regardless of mutability (const is only write-once via this
// call).
func (env *Environment) Initialize(name string, v value.Value) {
	if b, ok := env.bindings[name]; ok {
		b.value = v
		b.state = bindingInitialized
	}
}

// Resolve walks the frame chain outward for name, returning the binding
// or nil if unresolved anywhere (ReferenceError at the call site).
func (env *Environment) resolve(name string) *binding {
	for e := env; e != nil; e = e.parent {
		if b, ok := e.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// Get reads a binding, enforcing TDZ and raising ReferenceError for both
// an uninitialized and an unresolved name (spec §3, §7).
func (env *Environment) Get(name string) (value.Value, error) {
	b := env.resolve(name)
	if b == nil {
		return value.Undefined, errors.New(errors.ReferenceError, "%s is not defined", name)
	}
	if b.state == bindingUninitialized {
		return value.Undefined, errors.New(errors.ReferenceError, "Cannot access '%s' before initialization", name)
	}
	return b.value, nil
}

// Set assigns an existing binding, enforcing const-immutability and TDZ.
func (env *Environment) Set(name string, v value.Value) error {
	b := env.resolve(name)
	if b == nil {
		return errors.New(errors.ReferenceError, "%s is not defined", name)
	}
	if b.state == bindingUninitialized {
		return errors.New(errors.ReferenceError, "Cannot access '%s' before initialization", name)
	}
	if !b.mutable {
		return errors.New(errors.TypeError, "Assignment to constant variable '%s'", name)
	}
	b.value = v
	return nil
}

// HasOwn reports whether name is bound directly in this frame (not an
// ancestor), used by var-hoisting to avoid re-declaring in a nested scope.
func (env *Environment) HasOwn(name string) bool {
	_, ok := env.bindings[name]
	return ok
}

// Has reports whether name resolves anywhere in the chain.
func (env *Environment) Has(name string) bool { return env.resolve(name) != nil }
