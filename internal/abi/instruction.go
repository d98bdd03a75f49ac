package abi

import "github.com/arcjet/gravity/internal/gotype"

// Op names one Canonical-ABI instruction family from §4.4. The instruction
// handler switches on Op; the accompanying fields on Instruction carry
// whatever that family needs (a numeric-cast pair, a struct/enum type, a
// call's core signature, and so on).
type Op int

const (
	// OpLoadArg pushes the parameter name(s) for one WIT parameter onto the
	// stack (a single Var for one name, a Vars operand for a multi-slot
	// one), so the instructions that immediately follow it in the trace
	// have something to pop. For an import, BuildImportTrace assigns the
	// arg0, arg1, ... core-parameter names, one per core slot; for an
	// export it records the Go parameter name.
	OpLoadArg Op = iota

	// OpNumCast covers the identity integer/float casts: I32FromU32,
	// U32FromI32, I32FromS32, S32FromI32, the U8/S8/U16/S16 analogues,
	// I64FromU64/U64FromI64 and signed analogues, and
	// F32FromCoreF32/F64FromCoreF64 and their inverses. From/To name the
	// Go types on either side of the identity cast.
	OpNumCast Op = iota

	// OpBoolFromI32 pops an integer and pushes "(x != 0)".
	OpBoolFromI32
	// OpI32FromBool pops a bool and pushes a uint32 temporary set to 1 when
	// the bool is true and 0 otherwise.
	OpI32FromBool

	// OpStringLowerMemory pops a Go string and pushes a (ptr, len) pair.
	OpStringLowerMemory
	// OpStringLiftMemory pops a (ptr, len) pair and pushes a Go string.
	OpStringLiftMemory

	// OpListLowerMemory / OpListLiftMemory do the same for slice<T>, using
	// Elem for the element type and its byte stride.
	OpListLowerMemory
	OpListLiftMemory

	// OpRecordLower pops one struct-valued operand and pushes a single
	// operand holding every field's lowered core value(s), in declaration
	// order. OpRecordLift is the mirror: it pops that flattened operand and
	// pushes one composite struct value.
	OpRecordLower
	OpRecordLift

	// OpEnumLower / OpEnumLift convert between the enum's uint32
	// representation and its named Go type.
	OpEnumLower
	OpEnumLift

	// OpOptionLower / OpOptionLift implement option<string>'s two-arm
	// discriminated encoding.
	OpOptionLower
	OpOptionLift

	// OpResultLower / OpResultLift implement result<string,string> and
	// result<_,string>'s ok/err encoding; at an export's return position
	// OpResultLift yields the Go (T, error) pair.
	OpResultLower
	OpResultLift

	// OpCallWasm bridges an export body to the guest export; OpCallInterface
	// bridges an import body to the user-supplied Go interface method.
	OpCallWasm
	OpCallInterface

	// OpPushLiteral pushes a precomputed Go expression with no side
	// effects, used to supply the implicit nil error operand on an
	// export's happy-return path when the WIT result itself carries no
	// error arm.
	OpPushLiteral

	// OpReturn terminates the function.
	OpReturn
)

// Instruction is one step of a function's Canonical-ABI trace. Only the
// fields relevant to Op are populated.
type Instruction struct {
	Op Op

	// OpNumCast
	From, To gotype.Kind

	// OpListLowerMemory/Lift, OpOptionLower/Lift: element type.
	Elem gotype.Type

	// OpRecordLower/Lift, OpEnumLower/Lift: the struct/enum type.
	Type gotype.Type

	// OpRecordLower/Lift: the WIT-level field list, used by the handler to
	// recurse into each field's own lower/lift instruction without
	// flattening the whole record into the surrounding trace.
	WitFields []WitField

	// OpPushLiteral: the literal Go expression to push, verbatim.
	LiteralExpr string

	// OpLoadArg: the core-parameter name(s) backing this WIT parameter.
	ArgNames []string

	// OpResultLower/Lift: the payload type of the ok arm, nil for
	// result<_, string>.
	OkType *gotype.Type

	// OpCallWasm
	WasmFuncName   string
	CoreParams     []CoreType
	CoreResults    []CoreType
	PostReturnName string

	// OpCallInterface
	IfaceName  string
	MethodName string
	ParamTypes []gotype.Type
	ResultType *gotype.Type

	// OpReturn: the ordered Go result types of the enclosing function,
	// used to render zero-value literals on early-return error paths.
	Results []gotype.Type
}
