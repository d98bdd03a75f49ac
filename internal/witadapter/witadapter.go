// Package witadapter converts a resolved go.bytecodealliance.org/wit type
// graph into Gravity's neutral abi.World/abi.Function/abi.WitType model
// (spec §6.5's "ABI front-end contract"). Nothing downstream of this
// package imports go.bytecodealliance.org/wit directly: once a *wit.Resolve
// has been converted, the rest of the generator works exclusively in terms
// of internal/abi's own types.
package witadapter

import (
	"fmt"
	"sort"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/gravityerr"
	"github.com/arcjet/gravity/internal/ident"
	"go.bytecodealliance.org/wit"
)

// Convert resolves worldName against res and returns the abi.World built
// from its imports and exports. worldName must name exactly one *wit.World
// in res.Worlds.
func Convert(res *wit.Resolve, worldName string) (*abi.World, error) {
	w, err := findWorld(res, worldName)
	if err != nil {
		return nil, err
	}

	out := &abi.World{Name: w.Name}

	imports, err := convertItems(w.Name, w.Imports, abi.Import)
	if err != nil {
		return nil, err
	}
	out.Imports = imports

	exports, err := convertItems(w.Name, w.Exports, abi.Export)
	if err != nil {
		return nil, err
	}
	out.Exports = exports

	return out, nil
}

func findWorld(res *wit.Resolve, worldName string) (*wit.World, error) {
	for _, w := range res.Worlds {
		if w.Name == worldName {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: world %q not found", gravityerr.ErrWorldNotFound, worldName)
}

// convertItems walks a world's import or export map (interfaces and
// freestanding functions alike) in sorted key order, so two runs over the
// same WIT module always produce functions in the same order (L2).
func convertItems(worldName string, items map[string]wit.WorldItem, dir abi.Direction) ([]abi.Function, error) {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []abi.Function
	for _, name := range names {
		switch item := items[name].(type) {
		case *wit.Interface:
			fns, err := convertInterface(name, item, dir)
			if err != nil {
				return nil, err
			}
			out = append(out, fns...)
		case *wit.Function:
			fn, err := convertFunction(worldName, "", name, item, dir)
			if err != nil {
				return nil, err
			}
			out = append(out, fn)
		case *wit.TypeDef:
			// Worlds may import standalone types (used only as parameter/result
			// shapes elsewhere); they contribute no function of their own.
		default:
			return nil, fmt.Errorf("%w: unsupported world item %T for %q", gravityerr.ErrUnsupportedType, item, name)
		}
	}
	return out, nil
}

func convertInterface(ifaceName string, iface *wit.Interface, dir abi.Direction) ([]abi.Function, error) {
	names := make([]string, 0, len(iface.Functions))
	for name := range iface.Functions {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []abi.Function
	for _, name := range names {
		fn, err := convertFunction(ifaceName, ifaceName, name, iface.Functions[name], dir)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
	}
	return out, nil
}

func convertFunction(pkgName, ifaceName, shortName string, f *wit.Function, dir abi.Direction) (abi.Function, error) {
	if _, ok := f.Kind.(*wit.Freestanding); !ok {
		return abi.Function{}, fmt.Errorf("%w: %s.%s: resource methods/statics/constructors are not supported", gravityerr.ErrUnsupportedType, pkgName, shortName)
	}

	qualified := shortName
	if ifaceName != "" {
		qualified = ifaceName + "." + shortName
	} else {
		qualified = pkgName + "." + shortName
	}

	params := make([]abi.Param, len(f.Params))
	var coreParams []abi.CoreType
	for i, p := range f.Params {
		wt, err := convertType(p.Type)
		if err != nil {
			return abi.Function{}, fmt.Errorf("%s: param %s: %w", qualified, p.Name, err)
		}
		params[i] = abi.Param{Name: p.Name, Type: wt}
		coreParams = append(coreParams, abi.CoreTypesOf(wt)...)
	}

	var result *abi.WitType
	var coreResults []abi.CoreType
	var postReturn string
	switch len(f.Results) {
	case 0:
		// no result
	case 1:
		wt, err := convertType(f.Results[0].Type)
		if err != nil {
			return abi.Function{}, fmt.Errorf("%s: result: %w", qualified, err)
		}
		result = &wt
		coreResults = abi.CoreTypesOf(wt)
		if dir == abi.Export && abi.HasHeapPayload(wt) {
			postReturn = "cabi_post_" + shortName
		}
	default:
		return abi.Function{}, fmt.Errorf("%w: %s: multiple named results are not supported", gravityerr.ErrUnsupportedType, qualified)
	}

	return abi.Function{
		QualifiedName:  qualified,
		InterfaceName:  ifaceName,
		ShortName:      shortName,
		Direction:      dir,
		Params:         params,
		Result:         result,
		CoreParams:     coreParams,
		CoreResults:    coreResults,
		PostReturnName: postReturn,
	}, nil
}

// convertType maps a wit.Type into abi's neutral WitType model, rejecting
// every shape outside the supported floor (spec.md §6.3) with
// ErrUnsupportedType.
func convertType(t wit.Type) (abi.WitType, error) {
	switch t := t.(type) {
	case wit.Bool:
		return abi.WitType{Kind: abi.WitBool}, nil
	case wit.U8:
		return abi.WitType{Kind: abi.WitU8}, nil
	case wit.U16:
		return abi.WitType{Kind: abi.WitU16}, nil
	case wit.U32:
		return abi.WitType{Kind: abi.WitU32}, nil
	case wit.U64:
		return abi.WitType{Kind: abi.WitU64}, nil
	case wit.S8:
		return abi.WitType{Kind: abi.WitS8}, nil
	case wit.S16:
		return abi.WitType{Kind: abi.WitS16}, nil
	case wit.S32:
		return abi.WitType{Kind: abi.WitS32}, nil
	case wit.S64:
		return abi.WitType{Kind: abi.WitS64}, nil
	case wit.F32:
		return abi.WitType{Kind: abi.WitF32}, nil
	case wit.F64:
		return abi.WitType{Kind: abi.WitF64}, nil
	case wit.String:
		return abi.WitType{Kind: abi.WitString}, nil
	case *wit.TypeDef:
		return convertTypeDef(t)
	default:
		return abi.WitType{}, fmt.Errorf("%w: wit type %T", gravityerr.ErrUnsupportedType, t)
	}
}

func convertTypeDef(t *wit.TypeDef) (abi.WitType, error) {
	root := t.Root()
	name := ""
	if root.Name != nil {
		name = *root.Name
	}

	switch kind := root.Kind.(type) {
	case *wit.Record:
		fields := make([]abi.WitField, len(kind.Fields))
		for i, f := range kind.Fields {
			ft, err := convertType(f.Type)
			if err != nil {
				return abi.WitType{}, fmt.Errorf("record %s field %s: %w", name, f.Name, err)
			}
			fields[i] = abi.WitField{Name: f.Name, Type: ft}
		}
		return abi.WitType{Kind: abi.WitRecord, Name: ident.Pascal(name), Fields: fields}, nil

	case *wit.Enum:
		variants := make([]string, len(kind.Cases))
		for i, c := range kind.Cases {
			variants[i] = c.Name
		}
		return abi.WitType{Kind: abi.WitEnum, Name: ident.Pascal(name), Variants: variants}, nil

	case *wit.List:
		elem, err := convertType(kind.Type)
		if err != nil {
			return abi.WitType{}, fmt.Errorf("list element: %w", err)
		}
		return abi.WitType{Kind: abi.WitList, Elem: &elem}, nil

	case *wit.Option:
		if _, ok := kind.Type.(wit.String); !ok {
			return abi.WitType{}, fmt.Errorf("%w: option<%T>: only option<string> is supported", gravityerr.ErrUnsupportedType, kind.Type)
		}
		return abi.WitType{Kind: abi.WitOptionString}, nil

	case *wit.Result:
		errStr, ok := kind.Err.(wit.String)
		if !ok || kind.Err == nil {
			return abi.WitType{}, fmt.Errorf("%w: result<_, %T>: only a string error type is supported", gravityerr.ErrUnsupportedType, kind.Err)
		}
		_ = errStr
		if kind.OK == nil {
			return abi.WitType{Kind: abi.WitResultErrOnly}, nil
		}
		if _, ok := kind.OK.(wit.String); !ok {
			return abi.WitType{}, fmt.Errorf("%w: result<%T, string>: only a string ok type is supported", gravityerr.ErrUnsupportedType, kind.OK)
		}
		return abi.WitType{Kind: abi.WitResultStringErr}, nil

	default:
		return abi.WitType{}, fmt.Errorf("%w: %s: type %T (tuples, resources, flags, variants, streams and futures are not supported at the boundary)", gravityerr.ErrUnsupportedType, name, kind)
	}
}
