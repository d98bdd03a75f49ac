package gotype

import "testing"

func TestGoString(t *testing.T) {
	cases := []struct {
		name string
		in   Type
		want string
	}{
		{"bool", BoolType, "bool"},
		{"byte", ByteType, "byte"},
		{"uint32", Uint32Type, "uint32"},
		{"uint64", Uint64Type, "uint64"},
		{"float32", Float32Type, "float32"},
		{"float64", Float64Type, "float64"},
		{"string", StringType, "string"},
		{"error", ErrorType, "error"},
		{"slice", SliceOf(StringType), "[]string"},
		{"option", OptionOf(Uint32Type), "*uint32"},
		{"struct", StructOf("Widget", nil), "Widget"},
		{"enum", EnumOf("Color", []string{"red", "blue"}), "Color"},
		{"tuple", TupleOf(StringType, Uint32Type), "(string, uint32)"},
		{"nested slice of option", SliceOf(OptionOf(StringType)), "[]*string"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.in.GoString(); got != c.want {
				t.Errorf("GoString() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestZeroLiteral(t *testing.T) {
	cases := []struct {
		name string
		in   Type
		want string
	}{
		{"bool", BoolType, "false"},
		{"uint32", Uint32Type, "0"},
		{"float64", Float64Type, "0"},
		{"string", StringType, `""`},
		{"slice", SliceOf(StringType), "nil"},
		{"option", OptionOf(Uint32Type), "nil"},
		{"struct", StructOf("Widget", nil), "Widget{}"},
		{"enum", EnumOf("Color", []string{"red"}), "Color(0)"},
		{"error", ErrorType, "nil"},
		{"tuple", TupleOf(Uint32Type, StringType), `0, ""`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.in.ZeroLiteral(); got != c.want {
				t.Errorf("ZeroLiteral() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestStructOfPreservesFieldOrder(t *testing.T) {
	fields := []Field{
		{WitName: "a", GoName: "A", Type: StringType},
		{WitName: "b", GoName: "B", Type: Uint32Type},
	}
	st := StructOf("Pair", fields)
	if len(st.Fields) != 2 || st.Fields[0].GoName != "A" || st.Fields[1].GoName != "B" {
		t.Fatalf("StructOf did not preserve field order: %+v", st.Fields)
	}
}
