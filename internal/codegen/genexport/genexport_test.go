package genexport

import (
	"strings"
	"testing"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/codegen/imports"
)

func TestGenerateRejectsImportDirection(t *testing.T) {
	fn := abi.Function{QualifiedName: "a.b", ShortName: "b", Direction: abi.Import}
	if _, err := Generate(fn, "i.module", "i.realloc", imports.NewSet()); err == nil {
		t.Fatal("Generate should reject a non-export function")
	}
}

func TestGenerateParamListNoTrailingComma(t *testing.T) {
	fn := abi.Function{
		QualifiedName: "ns:pkg/iface.ping",
		ShortName:     "ping",
		Direction:     abi.Export,
		CoreResults:   []abi.CoreType{},
	}
	gen, err := Generate(fn, "i.module", "i.realloc", imports.NewSet())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.ParamList != "ctx context.Context" {
		t.Errorf("ParamList = %q, want just ctx context.Context (R3)", gen.ParamList)
	}
}

func TestGenerateUsesCachedReallocForStringParam(t *testing.T) {
	fn := abi.Function{
		QualifiedName: "ns:pkg/iface.greet",
		ShortName:     "greet",
		Direction:     abi.Export,
		Params:        []abi.Param{{Name: "name", Type: abi.WitType{Kind: abi.WitString}}},
		CoreParams:    []abi.CoreType{abi.CoreI32, abi.CoreI32},
		CoreResults:   []abi.CoreType{},
	}
	gen, err := Generate(fn, "i.module", "i.realloc", imports.NewSet())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gen.Body, "i.realloc.Call(") {
		t.Errorf("export method body should call the cached i.realloc function, got: %s", gen.Body)
	}
	if strings.Contains(gen.Body, `ExportedFunction("cabi_realloc")`) {
		t.Errorf("export method body should not look up cabi_realloc by name: %s", gen.Body)
	}
}

func TestGenerateResultWithErrorArm(t *testing.T) {
	fn := abi.Function{
		QualifiedName: "ns:pkg/iface.risky",
		ShortName:     "risky",
		Direction:     abi.Export,
		Result:        &abi.WitType{Kind: abi.WitResultStringErr},
		CoreResults:   []abi.CoreType{abi.CoreI32, abi.CoreI32, abi.CoreI32},
	}
	gen, err := Generate(fn, "i.module", "i.realloc", imports.NewSet())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.ResultList != "(string, error)" {
		t.Errorf("ResultList = %q, want (string, error)", gen.ResultList)
	}
}
