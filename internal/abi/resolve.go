package abi

import (
	"fmt"

	"github.com/arcjet/gravity/internal/gotype"
	"github.com/arcjet/gravity/internal/gravityerr"
	"github.com/arcjet/gravity/internal/ident"
)

// ResolveWitType implements §4.1's resolve_wit_type: it yields the Go
// semantic type that faithfully represents t at the API boundary.
func ResolveWitType(t WitType) (gotype.Type, error) {
	switch t.Kind {
	case WitBool:
		return gotype.BoolType, nil
	case WitU8, WitS8:
		return gotype.ByteType, nil
	case WitU16, WitS16, WitU32, WitS32:
		return gotype.Uint32Type, nil
	case WitU64, WitS64:
		return gotype.Uint64Type, nil
	case WitF32:
		return gotype.Float32Type, nil
	case WitF64:
		return gotype.Float64Type, nil
	case WitString:
		return gotype.StringType, nil
	case WitList:
		if t.Elem == nil {
			return gotype.Type{}, fmt.Errorf("%w: list with no element type", gravityerr.ErrInternal)
		}
		elem, err := ResolveWitType(*t.Elem)
		if err != nil {
			return gotype.Type{}, err
		}
		return gotype.SliceOf(elem), nil
	case WitOptionString:
		return gotype.OptionOf(gotype.StringType), nil
	case WitResultStringErr:
		// At the API boundary this maps onto a Go (string, error) return
		// pair; callers that need the payload type alone use OkType on the
		// relevant Instruction rather than this function.
		return gotype.StringType, nil
	case WitResultErrOnly:
		return gotype.ErrorType, nil
	case WitRecord:
		fields := make([]gotype.Field, len(t.Fields))
		for i, f := range t.Fields {
			ft, err := ResolveWitType(f.Type)
			if err != nil {
				return gotype.Type{}, err
			}
			fields[i] = gotype.Field{WitName: f.Name, GoName: ident.Pascal(f.Name), Type: ft}
		}
		return gotype.StructOf(ident.Pascal(t.Name), fields), nil
	case WitEnum:
		return gotype.EnumOf(ident.Pascal(t.Name), t.Variants), nil
	default:
		return gotype.Type{}, fmt.Errorf("%w: wit kind %d", gravityerr.ErrUnsupportedType, t.Kind)
	}
}

// ResolveWasmType implements §4.1's resolve_wasm_type: the Go type for a
// Wasm core type, used for an import host function's core parameter types
// and for its return types (except under the bool/enum shortcut, which
// returns the resolved WIT type instead).
func ResolveWasmType(c CoreType) gotype.Type {
	switch c {
	case CoreI32:
		return gotype.Uint32Type
	case CoreI64:
		return gotype.Uint64Type
	case CoreF32:
		return gotype.Float32Type
	case CoreF64:
		return gotype.Float64Type
	default:
		return gotype.Uint32Type
	}
}
