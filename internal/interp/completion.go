// Package interp implements the tree-walking evaluator (spec §4.3),
// grounded on the teacher's internal/interp + internal/interp/evaluator
// packages: a single exhaustive-switch dispatcher over the closed AST node
// set, threading an explicit completion value instead of using Go panics
// for control flow (spec §9 design note: "Replace with an explicit
// completion value {kind, value?, label?}").
package interp

import "github.com/ecmago/ecmago/internal/value"

// CompletionKind is the closed set from spec §9.
type CompletionKind uint8

const (
	Normal CompletionKind = iota
	Return
	Throw
	Break
	Continue
)

// Completion is the tagged result of evaluating a statement-level
// construct. Value carries the return/throw payload; Label carries a
// break/continue target (empty for the innermost loop/switch).
type Completion struct {
	Kind  CompletionKind
	Value value.Value
	Label string
}

func normal() Completion { return Completion{Kind: Normal} }

func ret(v value.Value) Completion { return Completion{Kind: Return, Value: v} }

func thrown(v value.Value) Completion { return Completion{Kind: Throw, Value: v} }

func brk(label string) Completion { return Completion{Kind: Break, Label: label} }

func cont(label string) Completion { return Completion{Kind: Continue, Label: label} }

// IsAbrupt reports whether a completion should stop statement-list
// execution and propagate outward (everything except Normal).
func (c Completion) IsAbrupt() bool { return c.Kind != Normal }
