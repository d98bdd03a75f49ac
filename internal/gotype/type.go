// Package gotype models the Go semantic types that WIT values are lifted
// into and lowered from. It is the closed tagged variant described in the
// generator's data model: every WIT shape the generator supports maps to
// exactly one of these kinds.
package gotype

import (
	"fmt"
	"strings"
)

// Kind is the tag of the closed type variant.
type Kind int

const (
	Bool Kind = iota
	Byte
	Uint32
	Uint64
	Float32
	Float64
	String
	Slice
	Option
	Struct
	Enum
	Tuple
	Error
)

// Field is one member of a named struct, in declaration order.
type Field struct {
	WitName string
	GoName  string
	Type    Type
}

// Type is a Go semantic type value. Only the fields relevant to Kind are
// populated; this mirrors the closed-variant shape in the data model rather
// than modeling each kind as its own Go type, which keeps the instruction
// handler's dispatch (switch on Kind) simple.
type Type struct {
	Kind Kind

	// Elem is the element type for Slice and Option.
	Elem *Type

	// Name is the declared type name for Struct and Enum.
	Name string

	// Fields are the members of a Struct, in declaration order.
	Fields []Field

	// Variants are the ordered names of an Enum, starting at 0.
	Variants []string

	// Elems are the member types of a Tuple (anonymous, used only for
	// multi-value WIT results that are not named records).
	Elems []Type
}

// SliceOf constructs a slice<Elem> type.
func SliceOf(elem Type) Type { return Type{Kind: Slice, Elem: &elem} }

// OptionOf constructs an option<Elem> type.
func OptionOf(elem Type) Type { return Type{Kind: Option, Elem: &elem} }

// StructOf constructs a named struct type.
func StructOf(name string, fields []Field) Type {
	return Type{Kind: Struct, Name: name, Fields: fields}
}

// EnumOf constructs a named, uint32-backed enum type.
func EnumOf(name string, variants []string) Type {
	return Type{Kind: Enum, Name: name, Variants: variants}
}

// TupleOf constructs an anonymous tuple type.
func TupleOf(elems ...Type) Type {
	return Type{Kind: Tuple, Elems: elems}
}

var (
	BoolType    = Type{Kind: Bool}
	ByteType    = Type{Kind: Byte}
	Uint32Type  = Type{Kind: Uint32}
	Uint64Type  = Type{Kind: Uint64}
	Float32Type = Type{Kind: Float32}
	Float64Type = Type{Kind: Float64}
	StringType  = Type{Kind: String}
	ErrorType   = Type{Kind: Error}
)

// GoString renders the Go type literal for t: "uint32", "[]string",
// "*string", "FooRecord", "error", and so on.
func (t Type) GoString() string {
	switch t.Kind {
	case Bool:
		return "bool"
	case Byte:
		return "byte"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Slice:
		return "[]" + t.Elem.GoString()
	case Option:
		return "*" + t.Elem.GoString()
	case Struct, Enum:
		return t.Name
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.GoString()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("<unknown-kind-%d>", t.Kind)
	}
}

// ZeroLiteral renders the Go expression used for an early-return default
// value of this type, placed directly in the return statement of a failure
// path (a failed memory read, allocation or guest call).
func (t Type) ZeroLiteral() string {
	switch t.Kind {
	case Bool:
		return "false"
	case Byte, Uint32, Uint64:
		return "0"
	case Float32, Float64:
		return "0"
	case String:
		return `""`
	case Slice, Option:
		return "nil"
	case Struct:
		return t.Name + "{}"
	case Enum:
		if len(t.Variants) == 0 {
			return t.Name + "(0)"
		}
		return t.Name + "(0)"
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.ZeroLiteral()
		}
		return strings.Join(parts, ", ")
	case Error:
		return "nil"
	default:
		return "nil"
	}
}
