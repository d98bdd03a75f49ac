package abi

import (
	"fmt"

	"github.com/arcjet/gravity/internal/gotype"
	"github.com/arcjet/gravity/internal/gravityerr"
	"github.com/arcjet/gravity/internal/ident"
)

func scalarGoKind(k WitKind) gotype.Kind {
	switch k {
	case WitU8, WitS8:
		return gotype.Byte
	case WitU16, WitS16, WitU32, WitS32:
		return gotype.Uint32
	case WitU64, WitS64:
		return gotype.Uint64
	case WitF32:
		return gotype.Float32
	case WitF64:
		return gotype.Float64
	default:
		return gotype.Uint32
	}
}

// ValueLowerInstrs returns the instructions that convert one Go value of
// type t into its core-Wasm representation, in the order the handler must
// execute them. A record yields exactly one OpRecordLower instruction
// carrying its WIT fields; the handler recurses into each field's own
// ValueLowerInstrs itself rather than having the trace flatten them, since a
// single linear operand stack cannot hold several partially-converted
// sibling values at once (the instruction being applied to field i would
// otherwise end up popping field i-1's already-converted result instead).
func ValueLowerInstrs(t WitType) ([]Instruction, error) {
	switch t.Kind {
	case WitBool:
		return []Instruction{{Op: OpI32FromBool}}, nil
	case WitU8, WitS8, WitU16, WitS16, WitU32, WitS32:
		return []Instruction{{Op: OpNumCast, From: scalarGoKind(t.Kind), To: gotype.Uint32}}, nil
	case WitU64, WitS64:
		return []Instruction{{Op: OpNumCast, From: gotype.Uint64, To: gotype.Uint64}}, nil
	case WitF32:
		return []Instruction{{Op: OpNumCast, From: gotype.Float32, To: gotype.Float32}}, nil
	case WitF64:
		return []Instruction{{Op: OpNumCast, From: gotype.Float64, To: gotype.Float64}}, nil
	case WitString:
		return []Instruction{{Op: OpStringLowerMemory}}, nil
	case WitList:
		if t.Elem == nil {
			return nil, fmt.Errorf("%w: list with no element type", gravityerr.ErrInternal)
		}
		elemGo, err := ResolveWitType(*t.Elem)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpListLowerMemory, Elem: elemGo}}, nil
	case WitOptionString:
		return []Instruction{{Op: OpOptionLower, Elem: gotype.StringType}}, nil
	case WitRecord:
		structGo, err := ResolveWitType(t)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpRecordLower, Type: structGo, WitFields: t.Fields}}, nil
	case WitEnum:
		enumGo, err := ResolveWitType(t)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpEnumLower, Type: enumGo}}, nil
	default:
		return nil, fmt.Errorf("%w: cannot lower wit kind %d", gravityerr.ErrUnsupportedType, t.Kind)
	}
}

// ValueLiftInstrs returns the instructions that convert a core-Wasm
// representation back into a Go value of type t. See ValueLowerInstrs for
// why a record yields a single OpRecordLift rather than a flattened
// per-field sequence.
func ValueLiftInstrs(t WitType) ([]Instruction, error) {
	switch t.Kind {
	case WitBool:
		return []Instruction{{Op: OpBoolFromI32}}, nil
	case WitU8, WitS8, WitU16, WitS16, WitU32, WitS32:
		return []Instruction{{Op: OpNumCast, From: gotype.Uint32, To: scalarGoKind(t.Kind)}}, nil
	case WitU64, WitS64:
		return []Instruction{{Op: OpNumCast, From: gotype.Uint64, To: gotype.Uint64}}, nil
	case WitF32:
		return []Instruction{{Op: OpNumCast, From: gotype.Float32, To: gotype.Float32}}, nil
	case WitF64:
		return []Instruction{{Op: OpNumCast, From: gotype.Float64, To: gotype.Float64}}, nil
	case WitString:
		return []Instruction{{Op: OpStringLiftMemory}}, nil
	case WitList:
		if t.Elem == nil {
			return nil, fmt.Errorf("%w: list with no element type", gravityerr.ErrInternal)
		}
		elemGo, err := ResolveWitType(*t.Elem)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpListLiftMemory, Elem: elemGo}}, nil
	case WitOptionString:
		return []Instruction{{Op: OpOptionLift, Elem: gotype.StringType}}, nil
	case WitResultStringErr:
		ok := gotype.StringType
		return []Instruction{{Op: OpResultLift, OkType: &ok}}, nil
	case WitResultErrOnly:
		return []Instruction{{Op: OpResultLift, OkType: nil}}, nil
	case WitRecord:
		structGo, err := ResolveWitType(t)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpRecordLift, Type: structGo, WitFields: t.Fields}}, nil
	case WitEnum:
		enumGo, err := ResolveWitType(t)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpEnumLift, Type: enumGo}}, nil
	default:
		return nil, fmt.Errorf("%w: cannot lift wit kind %d", gravityerr.ErrUnsupportedType, t.Kind)
	}
}

// resultGoTypes renders the ordered Go result types for fn's return
// position.
//
// An export method always reports failure through a trailing error: its WIT
// result maps result<T,string> -> (T, error) and result<_,string> -> error
// as usual, but a plain (non-result) WIT result or no result at all still
// gets an (T, error) or (error) Go signature, since the wrapper's own
// memory-read and call-into-guest steps can fail even when the WIT
// signature itself carries no error arm. An import host function never
// returns an error (a failed memory read panics, since there is no channel
// back to the guest to report it on), so its result type list is exactly
// the core-derived lift-side types.
func resultGoTypes(fn Function) ([]gotype.Type, error) {
	switch fn.Direction {
	case Export:
		if fn.Result == nil {
			return []gotype.Type{gotype.ErrorType}, nil
		}
		switch fn.Result.Kind {
		case WitResultStringErr:
			return []gotype.Type{gotype.StringType, gotype.ErrorType}, nil
		case WitResultErrOnly:
			return []gotype.Type{gotype.ErrorType}, nil
		default:
			t, err := ResolveWitType(*fn.Result)
			if err != nil {
				return nil, err
			}
			return []gotype.Type{t, gotype.ErrorType}, nil
		}
	case Import:
		if fn.Result == nil {
			return nil, nil
		}
		if isBoolEnumCoreShortcut(fn) {
			t, err := ResolveWitType(*fn.Result)
			if err != nil {
				return nil, err
			}
			return []gotype.Type{t}, nil
		}
		out := make([]gotype.Type, len(fn.CoreResults))
		for i, c := range fn.CoreResults {
			out[i] = ResolveWasmType(c)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown direction %d", gravityerr.ErrInternal, fn.Direction)
	}
}

// exportResultHasErrorArm reports whether fn's WIT result already carries an
// error arm, meaning BuildExportTrace's lift sequence leaves the error
// operand on the stack itself and no implicit nil needs to be pushed.
func exportResultHasErrorArm(fn Function) bool {
	return fn.Result != nil && (fn.Result.Kind == WitResultStringErr || fn.Result.Kind == WitResultErrOnly)
}

// isBoolEnumCoreShortcut implements R1: an import whose sole core result is
// an i32 representing a bool or enum skips the result-lowering sequence
// entirely, and its emitted Go return type is the resolved WIT type
// (ResolveWitType), the same type the interface method returns.
func isBoolEnumCoreShortcut(fn Function) bool {
	return fn.Result != nil &&
		len(fn.CoreResults) == 1 &&
		fn.CoreResults[0] == CoreI32 &&
		(fn.Result.Kind == WitBool || fn.Result.Kind == WitEnum)
}

// BuildImportTrace builds the instruction trace for a world import's host
// function body: lift the Wasm-level arguments, call the user interface
// method, lower any return value back into core Wasm types.
func BuildImportTrace(fn Function) ([]Instruction, error) {
	if fn.Result != nil && (fn.Result.Kind == WitResultStringErr || fn.Result.Kind == WitResultErrOnly) {
		return nil, fmt.Errorf("%w: import %s: result<_, string> return values are not supported for imports (no channel to report a Go error back through the host-function boundary)", gravityerr.ErrUnsupportedType, fn.QualifiedName)
	}

	var trace []Instruction
	paramTypes := make([]gotype.Type, 0, len(fn.Params))
	argN := 0

	for _, p := range fn.Params {
		width := CoreWidth(p.Type)
		names := make([]string, width)
		for i := range names {
			names[i] = fmt.Sprintf("arg%d", argN)
			argN++
		}
		trace = append(trace, Instruction{Op: OpLoadArg, ArgNames: names})

		instrs, err := ValueLiftInstrs(p.Type)
		if err != nil {
			return nil, fmt.Errorf("import %s: param %s: %w", fn.QualifiedName, p.Name, err)
		}
		trace = append(trace, instrs...)
		gt, err := ResolveWitType(p.Type)
		if err != nil {
			return nil, err
		}
		paramTypes = append(paramTypes, gt)
	}

	var resultType *gotype.Type
	if fn.Result != nil {
		rt, err := ResolveWitType(*fn.Result)
		if err != nil {
			return nil, err
		}
		resultType = &rt
	}

	trace = append(trace, Instruction{
		Op:         OpCallInterface,
		IfaceName:  fn.InterfaceName,
		MethodName: ident.Pascal(fn.ShortName),
		ParamTypes: paramTypes,
		ResultType: resultType,
	})

	if fn.Result != nil && !isBoolEnumCoreShortcut(fn) {
		instrs, err := ValueLowerInstrs(*fn.Result)
		if err != nil {
			return nil, fmt.Errorf("import %s: result: %w", fn.QualifiedName, err)
		}
		trace = append(trace, instrs...)
	}

	results, err := resultGoTypes(fn)
	if err != nil {
		return nil, err
	}
	trace = append(trace, Instruction{Op: OpReturn, Results: results})
	return trace, nil
}

// ExportParamName is the Go parameter name an export method's signature
// uses for its i'th WIT parameter; genexport must render the same name when
// it assembles that signature, since BuildExportTrace's OpLoadArg
// instructions reference it directly.
func ExportParamName(witName string, i int) string {
	if witName == "" {
		return fmt.Sprintf("p%d", i)
	}
	return witName
}

// BuildExportTrace builds the instruction trace for a world export's Go
// wrapper method: lower Go arguments into core Wasm values, call the guest
// via CallWasm (deferring cabi_post_* when present), lift the return.
func BuildExportTrace(fn Function) ([]Instruction, error) {
	var trace []Instruction

	for i, p := range fn.Params {
		trace = append(trace, Instruction{Op: OpLoadArg, ArgNames: []string{ident.Camel(ExportParamName(p.Name, i))}})
		instrs, err := ValueLowerInstrs(p.Type)
		if err != nil {
			return nil, fmt.Errorf("export %s: param %s: %w", fn.QualifiedName, p.Name, err)
		}
		trace = append(trace, instrs...)
	}

	trace = append(trace, Instruction{
		Op:             OpCallWasm,
		WasmFuncName:   fn.ShortName,
		CoreParams:     fn.CoreParams,
		CoreResults:    fn.CoreResults,
		PostReturnName: fn.PostReturnName,
	})

	if fn.Result != nil {
		instrs, err := ValueLiftInstrs(*fn.Result)
		if err != nil {
			return nil, fmt.Errorf("export %s: result: %w", fn.QualifiedName, err)
		}
		trace = append(trace, instrs...)
	}

	if !exportResultHasErrorArm(fn) {
		trace = append(trace, Instruction{Op: OpPushLiteral, LiteralExpr: "nil"})
	}

	results, err := resultGoTypes(fn)
	if err != nil {
		return nil, err
	}
	trace = append(trace, Instruction{Op: OpReturn, Results: results})
	return trace, nil
}

// BuildTrace dispatches to BuildImportTrace or BuildExportTrace based on
// fn.Direction.
func BuildTrace(fn Function) ([]Instruction, error) {
	switch fn.Direction {
	case Import:
		return BuildImportTrace(fn)
	case Export:
		return BuildExportTrace(fn)
	default:
		return nil, fmt.Errorf("%w: unknown direction %d", gravityerr.ErrInternal, fn.Direction)
	}
}
