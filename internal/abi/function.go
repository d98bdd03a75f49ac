package abi

// Direction distinguishes import (host-provided) from export
// (guest-provided) functions, since several instructions emit different Go
// for the same name depending on which side of the boundary they run on
// (§9, "direction-dependent instruction handling").
type Direction int

const (
	Import Direction = iota
	Export
)

// CoreType is a core-Wasm value type.
type CoreType int

const (
	CoreI32 CoreType = iota
	CoreI64
	CoreF32
	CoreF64
)

// Param is one WIT function parameter.
type Param struct {
	Name string
	Type WitType
}

// Function is a world import or export, as described in the data model:
// fully qualified name, direction, WIT parameter list, WIT result shape,
// and the pre-computed core-Wasm signature needed for the import
// bool/enum-result shortcut (R1).
type Function struct {
	// QualifiedName is "namespace:package/interface.name"; InterfaceName
	// and ShortName are its parsed components.
	QualifiedName string
	InterfaceName string
	ShortName     string

	Direction Direction
	Params    []Param

	// Result is nil for an empty WIT result, otherwise the single
	// (possibly record/tuple) result type.
	Result *WitType

	// CoreParams / CoreResults are the Wasm-level core signature, recorded
	// per the data model invariant that some result mappings (bool, enum)
	// are derived from the core signature rather than from WIT.
	CoreParams  []CoreType
	CoreResults []CoreType

	// PostReturnName is the cabi_post_<name> function name, or "" if the
	// export has no post-return.
	PostReturnName string
}

// World is the unit of generation: a name plus its ordered imports and
// exports, immutable once the Wasm stage has produced it.
type World struct {
	Name    string
	Imports []Function
	Exports []Function
}
