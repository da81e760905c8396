// Package simerr defines the precondition-violation error type used across
// si-taxi for conditions that indicate a programming error: invalid station
// indices, negative time, misshaped matrices, infeasible action row sums, an
// unset handler, or a min-cost-flow solve that the uncapacitated construction
// was supposed to guarantee feasible. These fail loudly — callers are
// expected to let the panic propagate and abort the run, per the no-retry,
// no-partial-failure contract described in the package documentation.
package simerr

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Kind classifies a Violation.
type Kind string

const (
	// Precondition covers invalid indices, negative time, misshaped
	// matrices, infeasible action rows, and unset handler references.
	Precondition Kind = "precondition"
	// Infeasible covers a min-cost-flow solve that failed despite the
	// uncapacitated construction guaranteeing feasibility.
	Infeasible Kind = "infeasible"
	// Tolerance covers CDF-sum drift beyond a configurable tolerance.
	Tolerance Kind = "tolerance"
)

// Violation is a precondition/invariant failure captured with enough
// context for post-mortem analysis: the file and line of the call that
// raised it, and a full stack trace.
type Violation struct {
	Kind    Kind
	Message string
	File    string
	Line    int
	Stack   []byte
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s (%s:%d)", v.Kind, v.Message, v.File, v.Line)
}

// New constructs a Violation, capturing the caller's file/line and the
// current goroutine's stack trace.
func New(kind Kind, format string, args ...any) *Violation {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	return &Violation{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Line:    line,
		Stack:   debug.Stack(),
	}
}

// Require panics with a *Violation of kind Precondition if cond is false.
func Require(cond bool, format string, args ...any) {
	if cond {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	panic(&Violation{
		Kind:    Precondition,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Line:    line,
		Stack:   debug.Stack(),
	})
}

// ErrStreamExhausted is returned (not panicked) by a deterministic pax
// stream drained past the requests it was given — caller-supplied-data
// exhaustion, not a programmer error.
var ErrStreamExhausted = fmt.Errorf("paxstream: deterministic stream exhausted")
