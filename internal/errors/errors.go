// Package errors defines the engine's diagnostic error taxonomy (spec §7),
// grounded on the teacher's internal/errors package: a closed Kind enum
// plus a formatted error type carrying position and an optional rendered
// stack trace, rather than ad hoc fmt.Errorf strings throughout the
// evaluator.
package errors

import (
	"fmt"
	"strings"

	"github.com/ecmago/ecmago/pkg/token"
)

// Kind is the closed set of engine-visible error categories (spec §7).
type Kind int

const (
	SyntaxError Kind = iota
	TypeError
	ReferenceError
	RangeError
	URIError
	Internal
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case TypeError:
		return "TypeError"
	case ReferenceError:
		return "ReferenceError"
	case RangeError:
		return "RangeError"
	case URIError:
		return "URIError"
	case Internal:
		return "InternalError"
	default:
		return "Error"
	}
}

// CompilerError is a lexer/parser-stage SyntaxError with a caret-pointer
// source rendering, grounded on the teacher's CompilerError.Format.
type CompilerError struct {
	Message string
	Pos     token.Position
	Source  string // full source text, for caret rendering; may be empty
}

func (e *CompilerError) Error() string { return e.Format() }

// Format renders "SyntaxError: message (line:col)" plus the offending
// source line and a caret line under its column when source text is
// available.
func (e *CompilerError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SyntaxError: %s (%d:%d)", e.Message, e.Pos.Line, e.Pos.Column)
	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		b.WriteString("\n  " + line)
		b.WriteString("\n  " + strings.Repeat(" ", max(0, e.Pos.Column-1)) + "^")
	}
	return b.String()
}

func sourceLine(src string, lineNo int) string {
	if src == "" {
		return ""
	}
	lines := strings.Split(src, "\n")
	if lineNo < 1 || lineNo > len(lines) {
		return ""
	}
	return lines[lineNo-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// StackFrame is one call-stack entry captured at throw time (spec §3
// CallStack fields, §7 "at <function> (<file>:<line>:<column>)").
type StackFrame struct {
	FunctionName string
	Filename     string
	Pos          token.Position
}

func (f StackFrame) String() string {
	name := f.FunctionName
	if name == "" {
		name = "<anonymous>"
	}
	file := f.Filename
	if file == "" {
		file = "<script>"
	}
	return fmt.Sprintf("    at %s (%s:%d:%d)", name, file, f.Pos.Line, f.Pos.Column)
}

// StackTrace is an ordered innermost-first list of frames.
type StackTrace []StackFrame

func (st StackTrace) Format() string {
	lines := make([]string, len(st))
	for i, f := range st {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}

// RuntimeError is a JS-visible thrown error (TypeError, RangeError, etc.)
// with a captured stack snapshot, matching spec §7's "name: message"
// header plus "    at f (file:line:col)" frames.
type RuntimeError struct {
	ErrKind Kind
	Message string
	Stack   StackTrace
}

func New(kind Kind, format string, args ...any) *RuntimeError {
	return &RuntimeError{ErrKind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string { return e.Format() }

// Format renders the user-visible `stack` string: a header line followed
// by indented call frames (spec §7).
func (e *RuntimeError) Format() string {
	header := fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
	if len(e.Stack) == 0 {
		return header
	}
	return header + "\n" + e.Stack.Format()
}

// WithStack attaches a captured call-stack snapshot, returning the same
// error for chaining at the throw site.
func (e *RuntimeError) WithStack(st StackTrace) *RuntimeError {
	e.Stack = st
	return e
}
