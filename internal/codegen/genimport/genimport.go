// Package genimport implements spec.md §4.5: for each world import, derive
// the host function's Go signature and drive its Canonical-ABI trace to
// produce the function body that bridges a wazero host-module callback to
// the user-supplied interface implementation.
package genimport

import (
	"fmt"
	"strings"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/codegen/handler"
	"github.com/arcjet/gravity/internal/codegen/imports"
	"github.com/arcjet/gravity/internal/gotype"
	"github.com/arcjet/gravity/internal/ident"
)

// Generated is one import's rendered Go closure, ready to be wired into a
// host module builder's WithFunc call.
type Generated struct {
	Function   abi.Function
	ExportName string // the name registered on the host module, fn.ShortName
	ParamList  string // "ctx context.Context, mod api.Module, arg0 uint32"
	ResultList string // "", "uint32", or "(uint32, uint32)"
	Body       string // the Go statements forming the closure body
}

// Generate renders fn's host-function closure. implExpr is the Go
// expression reaching the user-supplied interface implementation in scope
// at the point the closure literal is written (e.g. "imports.Logging").
func Generate(fn abi.Function, implExpr string, req *imports.Set) (*Generated, error) {
	if fn.Direction != abi.Import {
		return nil, fmt.Errorf("genimport: %s is not an import", fn.QualifiedName)
	}

	trace, err := abi.BuildImportTrace(fn)
	if err != nil {
		return nil, err
	}
	results := trace[len(trace)-1].Results

	ctx := handler.New(fn.QualifiedName, abi.Import, "mod", implExpr, "", req, results)
	for _, instr := range trace {
		if err := handler.Emit(ctx, instr); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.QualifiedName, err)
		}
	}

	req.Add("context")
	req.Add("github.com/tetratelabs/wazero/api")

	return &Generated{
		Function:   fn,
		ExportName: fn.ShortName,
		ParamList:  paramList(fn),
		ResultList: resultList(results),
		Body:       ctx.Body(),
	}, nil
}

// paramList renders the closure's fixed ctx/mod parameters followed by one
// Go core-typed parameter per Wasm core parameter, joined so the separator
// is only inserted when there is something to join (R3).
func paramList(fn abi.Function) string {
	parts := []string{"ctx context.Context", "mod api.Module"}
	for i, c := range fn.CoreParams {
		parts = append(parts, fmt.Sprintf("arg%d %s", i, abi.ResolveWasmType(c).GoString()))
	}
	return strings.Join(parts, ", ")
}

func resultList(results []gotype.Type) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return results[0].GoString()
	default:
		parts := make([]string, len(results))
		for i, r := range results {
			parts[i] = r.GoString()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

// IfaceMethodName is the PascalCase method name genimport expects to find
// on the interface implementation for fn, matching what OpCallInterface's
// trace records.
func IfaceMethodName(fn abi.Function) string {
	return ident.Pascal(fn.ShortName)
}

// InterfaceMethodSignature renders the method declaration the bindings
// assembler places inside the I<World><Iface> interface for fn: a leading
// context.Context parameter (OpCallInterface always supplies one, whether or
// not fn's own WIT signature needs it) followed by fn's WIT parameters
// resolved to their Go semantic types, and fn's WIT result resolved the same
// way. The user-supplied implementation never returns an error here — a
// failed import call has no Canonical-ABI channel to report one through, so
// the interface contract is a plain value-returning method.
func InterfaceMethodSignature(fn abi.Function) (string, error) {
	parts := []string{"ctx context.Context"}
	for _, p := range fn.Params {
		gt, err := abi.ResolveWitType(p.Type)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s %s", ident.Camel(p.Name), gt.GoString()))
	}
	sig := fmt.Sprintf("%s(%s)", IfaceMethodName(fn), strings.Join(parts, ", "))
	if fn.Result == nil {
		return sig, nil
	}
	gt, err := abi.ResolveWitType(*fn.Result)
	if err != nil {
		return "", err
	}
	return sig + " " + gt.GoString(), nil
}
