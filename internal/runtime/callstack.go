package runtime

import (
	"github.com/ecmago/ecmago/internal/errors"
	"github.com/ecmago/ecmago/pkg/token"
)

// DefaultStackLimit is the default CallStack depth limit (spec §3: "Bounded
// vector (default limit 1000)").
const DefaultStackLimit = 1000

// Frame is one call-stack entry (spec §3 CallStack fields).
type Frame struct {
	FunctionName string
	Filename     string
	CallSite     token.Position
	FunctionRef  any // the callable Object, kept untyped to avoid an import cycle with object
}

// CallStack is a bounded frame vector, mutated only by Push on call and
// Pop on return (including exception unwinding), per spec §3.
type CallStack struct {
	frames []Frame
	limit  int
}

func NewCallStack(limit int) *CallStack {
	if limit <= 0 {
		limit = DefaultStackLimit
	}
	return &CallStack{limit: limit}
}

// Push adds a frame, failing with a RangeError stack-overflow once the
// configured limit is exceeded (spec §3, §7).
func (cs *CallStack) Push(f Frame) error {
	if len(cs.frames) >= cs.limit {
		return errors.New(errors.RangeError, "Maximum call stack size exceeded")
	}
	cs.frames = append(cs.frames, f)
	return nil
}

// Pop removes the innermost frame. Safe to call on an empty stack (a
// no-op), since unwinding code may pop defensively after partial pushes.
func (cs *CallStack) Pop() {
	if len(cs.frames) == 0 {
		return
	}
	cs.frames = cs.frames[:len(cs.frames)-1]
}

func (cs *CallStack) Depth() int { return len(cs.frames) }

// Snapshot returns a copy of the current frames, innermost last, for
// building an errors.StackTrace at a throw site.
func (cs *CallStack) Snapshot() []Frame {
	out := make([]Frame, len(cs.frames))
	copy(out, cs.frames)
	return out
}

// ToStackTrace renders the current frames innermost-first (reverse of
// Snapshot's call order) as an errors.StackTrace.
func (cs *CallStack) ToStackTrace() errors.StackTrace {
	st := make(errors.StackTrace, len(cs.frames))
	for i, f := range cs.frames {
		st[len(cs.frames)-1-i] = errors.StackFrame{
			FunctionName: f.FunctionName,
			Filename:     f.Filename,
			Pos:          f.CallSite,
		}
	}
	return st
}
