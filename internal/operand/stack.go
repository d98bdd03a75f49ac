// Package operand implements the operand stack that an instruction trace
// reads from and writes to while the instruction handler emits Go source.
//
// The stack is empty at the start of every function and must be empty
// again immediately after the terminal Return instruction; the handler
// package enforces that invariant and reports ErrInternal when it is
// violated.
package operand

import (
	"fmt"
	"strings"

	"github.com/arcjet/gravity/internal/gravityerr"
)

// Kind distinguishes the three operand shapes that flow through a trace.
type Kind int

const (
	// Literal is a Go expression string with no side effects, substituted
	// inline wherever it is consumed.
	Literal Kind = iota
	// Single is the name of one Go variable already in scope.
	Single
	// Multi is an ordered list of variable names, used by records, tuples,
	// and multi-word return layouts.
	Multi
)

// Operand is a value flowing through an instruction trace.
type Operand struct {
	Kind  Kind
	Expr  string   // Literal
	Name  string   // Single
	Names []string // Multi
}

// Lit builds a Literal operand from a pre-formatted Go expression.
func Lit(expr string) Operand { return Operand{Kind: Literal, Expr: expr} }

// LitF builds a Literal operand with fmt.Sprintf-style formatting.
func LitF(format string, args ...any) Operand {
	return Operand{Kind: Literal, Expr: fmt.Sprintf(format, args...)}
}

// Var builds a Single operand referencing an already-bound variable name.
func Var(name string) Operand { return Operand{Kind: Single, Name: name} }

// Vars builds a Multi operand from a list of already-bound variable names.
func Vars(names ...string) Operand { return Operand{Kind: Multi, Names: names} }

// Ref renders the Go expression that reads this operand's current value:
// the literal text for Literal, the variable name for Single, and a
// comma-joined list for Multi (callers that need per-name access should use
// Names directly instead).
func (o Operand) Ref() string {
	switch o.Kind {
	case Literal:
		return o.Expr
	case Single:
		return o.Name
	case Multi:
		return strings.Join(o.Names, ", ")
	default:
		return ""
	}
}

// Stack is the per-function operand stack plus its associated temporary
// name counter and emitted Go source body. Nothing on a Stack outlives a
// single function's generation.
type Stack struct {
	items   []Operand
	counter map[string]int
	body    strings.Builder
	fn      string // function name, for Internal error diagnostics
}

// New creates an empty stack scoped to the named function (used only for
// diagnostics).
func New(fnName string) *Stack {
	return &Stack{counter: make(map[string]int), fn: fnName}
}

// Push places an operand on top of the stack.
func (s *Stack) Push(op Operand) { s.items = append(s.items, op) }

// Pop removes and returns the top operand. It fails with ErrInternal if the
// stack is empty, per the handler's "must only read operands it produced"
// contract.
func (s *Stack) Pop() (Operand, error) {
	if len(s.items) == 0 {
		return Operand{}, fmt.Errorf("%w: pop on empty operand stack in %s", gravityerr.ErrInternal, s.fn)
	}
	last := len(s.items) - 1
	op := s.items[last]
	s.items = s.items[:last]
	return op, nil
}

// PopN removes and returns the top k operands in original (bottom-to-top)
// order.
func (s *Stack) PopN(k int) ([]Operand, error) {
	if k < 0 || len(s.items) < k {
		return nil, fmt.Errorf("%w: pop %d on operand stack of size %d in %s", gravityerr.ErrInternal, k, len(s.items), s.fn)
	}
	start := len(s.items) - k
	out := make([]Operand, k)
	copy(out, s.items[start:])
	s.items = s.items[:start]
	return out, nil
}

// Len reports the number of operands currently on the stack.
func (s *Stack) Len() int { return len(s.items) }

// Empty reports whether the stack holds no operands; used to check I1 at
// Start and Terminated.
func (s *Stack) Empty() bool { return len(s.items) == 0 }

// NewTemp returns a fresh, function-unique name with the given prefix
// ("value", "err", "ptr", "len", ...), guaranteeing I2.
func (s *Stack) NewTemp(prefix string) string {
	n := s.counter[prefix]
	s.counter[prefix] = n + 1
	return fmt.Sprintf("%s%d", prefix, n)
}

// Emit appends a formatted line of Go source to the function body.
func (s *Stack) Emit(format string, args ...any) {
	fmt.Fprintf(&s.body, format, args...)
	if !strings.HasSuffix(format, "\n") {
		s.body.WriteByte('\n')
	}
}

// Body returns the Go source accumulated so far.
func (s *Stack) Body() string { return s.body.String() }
