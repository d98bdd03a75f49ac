package assembler

import (
	"strings"
	"testing"

	"github.com/arcjet/gravity/internal/abi"
)

func simpleWorld() *abi.World {
	return &abi.World{
		Name: "my-world",
		Imports: []abi.Function{
			{
				QualifiedName: "ns:pkg/logging.log",
				InterfaceName: "ns:pkg/logging",
				ShortName:     "log",
				Direction:     abi.Import,
				Params:        []abi.Param{{Name: "message", Type: abi.WitType{Kind: abi.WitString}}},
				CoreParams:    []abi.CoreType{abi.CoreI32, abi.CoreI32},
			},
		},
		Exports: []abi.Function{
			{
				QualifiedName: "run",
				ShortName:     "run",
				Direction:     abi.Export,
				Result:        &abi.WitType{Kind: abi.WitU32},
				CoreResults:   []abi.CoreType{abi.CoreI32},
			},
		},
	}
}

func TestGenerateProducesDeterministicOutput(t *testing.T) {
	world := simpleWorld()
	wasmBytes := []byte{0x00, 0x61, 0x73, 0x6d}

	first, err := Generate(world, wasmBytes, "bindings")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(world, wasmBytes, "bindings")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(first) != string(second) {
		t.Error("Generate is not deterministic across identical inputs (L2 violated)")
	}
}

func TestGenerateContainsExpectedScaffolding(t *testing.T) {
	world := simpleWorld()
	src, err := Generate(world, []byte{0x00, 0x61, 0x73, 0x6d}, "bindings")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	s := string(src)

	for _, want := range []string{
		"package bindings",
		"type MyWorldFactory struct",
		"func NewMyWorldFactory(",
		"type MyWorldInstance struct",
		"func (f *MyWorldFactory) Instantiate(",
		"func (i *MyWorldInstance) Run(",
		"var myWorldWasm = []byte{",
		"type IMyWorldNsPkgLogging interface",
		"Log(ctx context.Context, message string)",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestGenerateFreestandingImportsGetSynthesizedHostInterface(t *testing.T) {
	world := &abi.World{
		Name: "bare",
		Imports: []abi.Function{
			{QualifiedName: "bare.ping", ShortName: "ping", Direction: abi.Import},
		},
	}
	src, err := Generate(world, nil, "bindings")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(src), "type IBareHost interface") {
		t.Errorf("expected a synthesized IBareHost interface for freestanding imports, got: %s", src)
	}
}

func TestGenerateNoTrailingCommaOnZeroImportFactory(t *testing.T) {
	world := &abi.World{Name: "empty"}
	src, err := Generate(world, nil, "bindings")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(string(src), "func NewEmptyFactory(ctx context.Context, )") {
		t.Errorf("factory constructor has a trailing comma with zero imports: %s", src)
	}
	if !strings.Contains(string(src), "func NewEmptyFactory(ctx context.Context)") {
		t.Errorf("expected a clean zero-import constructor signature, got: %s", src)
	}
}

func TestRenderWasmLiteralWrapsBytes(t *testing.T) {
	out := renderWasmLiteral("fooWasm", []byte{0x01, 0x02, 0x03})
	if !strings.Contains(out, "var fooWasm = []byte{") {
		t.Errorf("renderWasmLiteral missing var declaration: %s", out)
	}
	if !strings.Contains(out, "0x01, 0x02, 0x03,") {
		t.Errorf("renderWasmLiteral missing hex bytes: %s", out)
	}
}

func TestResultPrefix(t *testing.T) {
	if got := resultPrefix(""); got != "" {
		t.Errorf("resultPrefix(\"\") = %q, want empty", got)
	}
	if got := resultPrefix("error"); got != "error " {
		t.Errorf("resultPrefix(\"error\") = %q, want %q", got, "error ")
	}
}
