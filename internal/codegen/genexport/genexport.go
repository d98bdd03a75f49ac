// Package genexport implements spec.md §4.6: for each world export, derive
// the Go method signature on <World>Instance and drive its Canonical-ABI
// trace to produce the method body that calls into the guest module.
package genexport

import (
	"fmt"
	"strings"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/codegen/handler"
	"github.com/arcjet/gravity/internal/codegen/imports"
	"github.com/arcjet/gravity/internal/gotype"
	"github.com/arcjet/gravity/internal/ident"
)

// Generated is one export's rendered Go method.
type Generated struct {
	Function   abi.Function
	MethodName string
	ParamList  string // "ctx context.Context, name string"
	ResultList string // "(string, error)", "error", ""
	Body       string
}

// Generate renders fn's <World>Instance method. moduleExpr is the Go
// expression reaching the instance's api.Module field (e.g. "i.module");
// reallocExpr reaches its cached cabi_realloc api.Function (e.g.
// "i.realloc").
func Generate(fn abi.Function, moduleExpr, reallocExpr string, req *imports.Set) (*Generated, error) {
	if fn.Direction != abi.Export {
		return nil, fmt.Errorf("genexport: %s is not an export", fn.QualifiedName)
	}

	trace, err := abi.BuildExportTrace(fn)
	if err != nil {
		return nil, err
	}
	results := trace[len(trace)-1].Results

	ctx := handler.New(fn.QualifiedName, abi.Export, moduleExpr, "", reallocExpr, req, results)
	for _, instr := range trace {
		if err := handler.Emit(ctx, instr); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.QualifiedName, err)
		}
	}

	req.Add("context")

	params, err := paramList(fn)
	if err != nil {
		return nil, err
	}

	return &Generated{
		Function:   fn,
		MethodName: ident.Pascal(fn.ShortName),
		ParamList:  params,
		ResultList: resultList(results),
		Body:       ctx.Body(),
	}, nil
}

// paramList renders "ctx context.Context" followed by one Go-typed
// parameter per WIT parameter, named to match abi.ExportParamName so the
// trace's OpLoadArg instructions reference the right identifier.
func paramList(fn abi.Function) (string, error) {
	parts := []string{"ctx context.Context"}
	for i, p := range fn.Params {
		gt, err := abi.ResolveWitType(p.Type)
		if err != nil {
			return "", err
		}
		name := ident.Camel(abi.ExportParamName(p.Name, i))
		parts = append(parts, fmt.Sprintf("%s %s", name, gt.GoString()))
	}
	return strings.Join(parts, ", "), nil
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
