package operand

import (
	"errors"
	"testing"

	"github.com/arcjet/gravity/internal/gravityerr"
)

func TestPushPopOrder(t *testing.T) {
	s := New("test")
	s.Push(Var("a"))
	s.Push(Var("b"))

	top, err := s.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if top.Name != "b" {
		t.Errorf("Pop() = %q, want b", top.Name)
	}

	bottom, err := s.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if bottom.Name != "a" {
		t.Errorf("Pop() = %q, want a", bottom.Name)
	}

	if !s.Empty() {
		t.Error("stack should be empty after draining both pushes")
	}
}

func TestPopEmptyReturnsErrInternal(t *testing.T) {
	s := New("test")
	_, err := s.Pop()
	if !errors.Is(err, gravityerr.ErrInternal) {
		t.Fatalf("Pop() on empty stack error = %v, want ErrInternal", err)
	}
}

func TestPopNOrderAndUnderflow(t *testing.T) {
	s := New("test")
	s.Push(Var("a"))
	s.Push(Var("b"))
	s.Push(Var("c"))

	ops, err := s.PopN(2)
	if err != nil {
		t.Fatalf("PopN: %v", err)
	}
	if len(ops) != 2 || ops[0].Name != "b" || ops[1].Name != "c" {
		t.Fatalf("PopN(2) = %+v, want [b c]", ops)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	_, err = s.PopN(5)
	if !errors.Is(err, gravityerr.ErrInternal) {
		t.Fatalf("PopN underflow error = %v, want ErrInternal", err)
	}
}

func TestNewTempIsUniquePerPrefix(t *testing.T) {
	s := New("test")
	if got := s.NewTemp("value"); got != "value0" {
		t.Errorf("NewTemp = %q, want value0", got)
	}
	if got := s.NewTemp("value"); got != "value1" {
		t.Errorf("NewTemp = %q, want value1", got)
	}
	if got := s.NewTemp("err"); got != "err0" {
		t.Errorf("NewTemp = %q, want err0 (separate counter per prefix)", got)
	}
}

func TestOperandRef(t *testing.T) {
	if got := Lit("42").Ref(); got != "42" {
		t.Errorf("Lit.Ref() = %q", got)
	}
	if got := Var("x").Ref(); got != "x" {
		t.Errorf("Var.Ref() = %q", got)
	}
	if got := Vars("a", "b").Ref(); got != "a, b" {
		t.Errorf("Vars.Ref() = %q", got)
	}
	if got := LitF("%s+%d", "a", 1).Ref(); got != "a+1" {
		t.Errorf("LitF.Ref() = %q", got)
	}
}

func TestEmitAppendsNewline(t *testing.T) {
	s := New("test")
	s.Emit("foo := 1")
	s.Emit("bar := 2\n")
	want := "foo := 1\nbar := 2\n"
	if got := s.Body(); got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
}
