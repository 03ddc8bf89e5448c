package value

import "sync"

// Symbol is a globally unique identity with an optional description;
// equality is pointer identity (spec §3), never content.
type Symbol struct {
	id          uint64
	Description string
}

func (s *Symbol) ID() uint64 { return s.id }

// SymbolRegistry mints fresh symbols and keeps the well-known symbols
// (Symbol.iterator and friends) reachable by name, process-wide (spec §5).
// The evaluator does not look these symbols up: for-of and ToPrimitive
// work without consulting Symbol.iterator or Symbol.toPrimitive.
type SymbolRegistry struct {
	mu   sync.Mutex
	next uint64

	Iterator      *Symbol
	AsyncIterator *Symbol
	ToPrimitive   *Symbol
	ToStringTag   *Symbol
}

func NewSymbolRegistry() *SymbolRegistry {
	r := &SymbolRegistry{}
	r.Iterator = r.newLocked("Symbol.iterator")
	r.AsyncIterator = r.newLocked("Symbol.asyncIterator")
	r.ToPrimitive = r.newLocked("Symbol.toPrimitive")
	r.ToStringTag = r.newLocked("Symbol.toStringTag")
	return r
}

func (r *SymbolRegistry) newLocked(desc string) *Symbol {
	r.next++
	return &Symbol{id: r.next, Description: desc}
}

// New mints a fresh, globally unique symbol.
func (r *SymbolRegistry) New(description string) *Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newLocked(description)
}
