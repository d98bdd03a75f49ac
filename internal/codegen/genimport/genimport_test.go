package genimport

import (
	"strings"
	"testing"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/codegen/imports"
)

func TestGenerateRejectsExportDirection(t *testing.T) {
	fn := abi.Function{QualifiedName: "a.b", ShortName: "b", Direction: abi.Export}
	if _, err := Generate(fn, "impl", imports.NewSet()); err == nil {
		t.Fatal("Generate should reject a non-import function")
	}
}

func TestGenerateParamListNoTrailingComma(t *testing.T) {
	fn := abi.Function{
		QualifiedName: "ns:pkg/iface.ping",
		InterfaceName: "ns:pkg/iface",
		ShortName:     "ping",
		Direction:     abi.Import,
	}
	gen, err := Generate(fn, "impl", imports.NewSet())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := "ctx context.Context, mod api.Module"
	if gen.ParamList != want {
		t.Errorf("ParamList = %q, want %q (R3: no trailing comma for a zero-arg WIT function)", gen.ParamList, want)
	}
	if strings.HasSuffix(gen.ParamList, ",") {
		t.Errorf("ParamList has trailing comma: %q", gen.ParamList)
	}
}

func TestGenerateWithOneCoreParam(t *testing.T) {
	fn := abi.Function{
		QualifiedName: "ns:pkg/iface.add-one",
		InterfaceName: "ns:pkg/iface",
		ShortName:     "add-one",
		Direction:     abi.Import,
		Params:        []abi.Param{{Name: "x", Type: abi.WitType{Kind: abi.WitU32}}},
		Result:        &abi.WitType{Kind: abi.WitU32},
		CoreParams:    []abi.CoreType{abi.CoreI32},
		CoreResults:   []abi.CoreType{abi.CoreI32},
	}
	gen, err := Generate(fn, "impl", imports.NewSet())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gen.ParamList, "arg0 uint32") {
		t.Errorf("ParamList = %q, want it to contain arg0 uint32", gen.ParamList)
	}
	if !strings.Contains(gen.Body, "impl.AddOne") {
		t.Errorf("Body missing call to interface method: %s", gen.Body)
	}
}

func TestInterfaceMethodSignatureNoResult(t *testing.T) {
	fn := abi.Function{ShortName: "ping"}
	sig, err := InterfaceMethodSignature(fn)
	if err != nil {
		t.Fatalf("InterfaceMethodSignature: %v", err)
	}
	if sig != "Ping(ctx context.Context)" {
		t.Errorf("sig = %q", sig)
	}
}

func TestInterfaceMethodSignatureWithParamsAndResult(t *testing.T) {
	fn := abi.Function{
		ShortName: "greet",
		Params:    []abi.Param{{Name: "name", Type: abi.WitType{Kind: abi.WitString}}},
		Result:    &abi.WitType{Kind: abi.WitString},
	}
	sig, err := InterfaceMethodSignature(fn)
	if err != nil {
		t.Fatalf("InterfaceMethodSignature: %v", err)
	}
	want := "Greet(ctx context.Context, name string) string"
	if sig != want {
		t.Errorf("sig = %q, want %q", sig, want)
	}
}
