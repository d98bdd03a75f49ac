// Package abi is Gravity's realization of the "ABI front-end" contract
// described in SPEC_FULL.md §6.5: given a function's WIT signature, it
// resolves the WIT type shapes (via the WitType model below, itself backed
// by go.bytecodealliance.org/wit's world/interface/type graph through
// internal/witadapter) and produces the Canonical-ABI instruction trace
// that the instruction handler drives.
//
// This package intentionally does not emit any Go source itself — that is
// the instruction handler's job (internal/codegen/handler). abi only
// decides *which* instructions a shape needs, in what order.
package abi

// WitKind enumerates the WIT type shapes in the supported floor
// (SPEC_FULL.md / spec.md §6.3).
type WitKind int

const (
	WitBool WitKind = iota
	WitU8
	WitU16
	WitU32
	WitU64
	WitS8
	WitS16
	WitS32
	WitS64
	WitF32
	WitF64
	WitString
	WitList
	WitOptionString
	WitResultStringErr // result<string, string>
	WitResultErrOnly   // result<_, string>
	WitRecord
	WitEnum
)

// WitType is the neutral WIT type model that abi and gotype both consume.
type WitType struct {
	Kind WitKind

	// Elem is the list element type for WitList.
	Elem *WitType

	// Name is the declared name for WitRecord / WitEnum.
	Name string

	// Fields are the members of a WitRecord, in declaration order.
	Fields []WitField

	// Variants are the ordered case names of a WitEnum.
	Variants []string
}

// WitField is one record member.
type WitField struct {
	Name string
	Type WitType
}

// IsNumeric reports whether k is one of the fixed-width integer or float
// kinds with a direct core-Wasm representation.
func (k WitKind) IsNumeric() bool {
	switch k {
	case WitBool, WitU8, WitU16, WitU32, WitU64, WitS8, WitS16, WitS32, WitS64, WitF32, WitF64:
		return true
	default:
		return false
	}
}
