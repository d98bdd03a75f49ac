// Package assembler implements spec.md §4.7: it composes the package
// clause, the import block, the embedded optimized Wasm payload, the
// factory/instance scaffolding, the per-interface host contracts, and the
// per-export methods produced by genimport/genexport into one deterministic
// Go source file (L2).
package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/codegen/genexport"
	"github.com/arcjet/gravity/internal/codegen/genimport"
	"github.com/arcjet/gravity/internal/codegen/imports"
	"github.com/arcjet/gravity/internal/ident"
)

// ifaceGroup collects one imported WIT interface's functions under the Go
// interface the bindings assembler declares for it. Freestanding world-level
// imports (no WIT interface) are grouped under a synthesized "host"
// interface, since §6.4 only names "one interface per imported interface"
// and says nothing about bare world imports.
type ifaceGroup struct {
	witName   string // "" for the synthesized freestanding group
	goName    string // I<World><Iface>, or I<World>Host
	fieldName string // the factory constructor parameter / field name
	moduleKey string // the wazero host-module name this group registers under
	fns       []abi.Function
}

// Generate renders the full Go source for world, embedding wasmBytes as the
// var <world>Wasm payload, in package pkgName.
func Generate(world *abi.World, wasmBytes []byte, pkgName string) ([]byte, error) {
	req := imports.NewSet()
	req.Add("context")
	req.Add("fmt")
	req.Add("github.com/tetratelabs/wazero")
	req.Add("github.com/tetratelabs/wazero/api")

	groups := groupImports(world)

	var hostBuilders strings.Builder
	var ifaceDecls strings.Builder
	var ctorParams []string
	var factoryFields []string
	var ctorAssigns []string

	for gi, g := range groups {
		ifaceDecls.WriteString(renderInterface(g))
		ifaceDecls.WriteString("\n")

		ctorParams = append(ctorParams, fmt.Sprintf("%s %s", g.fieldName, g.goName))
		factoryFields = append(factoryFields, fmt.Sprintf("\t%s %s", g.fieldName, g.goName))
		ctorAssigns = append(ctorAssigns, fmt.Sprintf("%s: %s", g.fieldName, g.fieldName))

		builderVar := fmt.Sprintf("host%d", gi)
		hostBuilders.WriteString(fmt.Sprintf("\t%s := runtime.NewHostModuleBuilder(%q)\n", builderVar, g.moduleKey))
		for _, fn := range g.fns {
			gen, err := genimport.Generate(fn, g.fieldName, req)
			if err != nil {
				return nil, err
			}
			hostBuilders.WriteString(fmt.Sprintf("\t%s.NewFunctionBuilder().WithFunc(func(%s) %s{\n", builderVar, gen.ParamList, resultPrefix(gen.ResultList)))
			hostBuilders.WriteString(indent(gen.Body, "\t\t"))
			hostBuilders.WriteString(fmt.Sprintf("\t}).Export(%q)\n", gen.ExportName))
		}
		hostBuilders.WriteString(fmt.Sprintf("\tif _, err := %s.Instantiate(ctx); err != nil {\n", builderVar))
		hostBuilders.WriteString("\t\truntime.Close(ctx)\n")
		hostBuilders.WriteString(fmt.Sprintf("\t\treturn nil, fmt.Errorf(\"instantiate host module %s: %%w\", err)\n", g.moduleKey))
		hostBuilders.WriteString("\t}\n")
	}

	factoryName := ident.Factory(world.Name)
	instanceName := ident.Instance(world.Name)
	wasmVar := ident.Camel(world.Name) + "Wasm"

	var exportMethods strings.Builder
	for _, fn := range world.Exports {
		gen, err := genexport.Generate(fn, "i.module", "i.realloc", req)
		if err != nil {
			return nil, err
		}
		exportMethods.WriteString(fmt.Sprintf("func (i *%s) %s(%s) %s{\n", instanceName, gen.MethodName, gen.ParamList, resultPrefix(gen.ResultList)))
		exportMethods.WriteString(indent(gen.Body, "\t"))
		exportMethods.WriteString("}\n\n")
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("package %s\n\n", pkgName))

	writeImportBlock(&b, req)

	b.WriteString(renderWasmLiteral(wasmVar, wasmBytes))
	b.WriteString("\n")

	b.WriteString(ifaceDecls.String())

	b.WriteString(fmt.Sprintf("// %s constructs the compiled guest module and the host functions its\n", factoryName))
	b.WriteString(fmt.Sprintf("// imports need. It may be shared across goroutines once built; each call to\n"))
	b.WriteString(fmt.Sprintf("// Instantiate starts an independent %s.\n", instanceName))
	b.WriteString(fmt.Sprintf("type %s struct {\n", factoryName))
	b.WriteString("\truntime  wazero.Runtime\n")
	b.WriteString("\tcompiled wazero.CompiledModule\n")
	for _, f := range factoryFields {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")

	b.WriteString(fmt.Sprintf("// New%s compiles %s and registers the given interface implementations as\n", factoryName, wasmVar))
	b.WriteString("// the guest module's host functions.\n")
	factoryParams := append([]string{"ctx context.Context"}, ctorParams...)
	b.WriteString(fmt.Sprintf("func New%s(%s) (*%s, error) {\n", factoryName, strings.Join(factoryParams, ", "), factoryName))
	b.WriteString("\truntime := wazero.NewRuntime(ctx)\n")
	b.WriteString(hostBuilders.String())
	b.WriteString(fmt.Sprintf("\tcompiled, err := runtime.CompileModule(ctx, %s)\n", wasmVar))
	b.WriteString("\tif err != nil {\n")
	b.WriteString("\t\truntime.Close(ctx)\n")
	b.WriteString("\t\treturn nil, fmt.Errorf(\"compile module: %w\", err)\n")
	b.WriteString("\t}\n")
	b.WriteString(fmt.Sprintf("\treturn &%s{\n", factoryName))
	b.WriteString("\t\truntime:  runtime,\n")
	b.WriteString("\t\tcompiled: compiled,\n")
	for _, a := range ctorAssigns {
		b.WriteString("\t\t" + a + ",\n")
	}
	b.WriteString("\t}, nil\n")
	b.WriteString("}\n\n")

	b.WriteString(fmt.Sprintf("// Instantiate starts a new %s against the factory's compiled module. Each\n", instanceName))
	b.WriteString(fmt.Sprintf("// %s holds exclusive access to its own guest linear memory and must not be\n", instanceName))
	b.WriteString("// called from more than one goroutine at a time.\n")
	b.WriteString(fmt.Sprintf("func (f *%s) Instantiate(ctx context.Context) (*%s, error) {\n", factoryName, instanceName))
	b.WriteString("\tmod, err := f.runtime.InstantiateModule(ctx, f.compiled, wazero.NewModuleConfig())\n")
	b.WriteString("\tif err != nil {\n")
	b.WriteString("\t\treturn nil, fmt.Errorf(\"instantiate guest module: %w\", err)\n")
	b.WriteString("\t}\n")
	b.WriteString(fmt.Sprintf("\treturn &%s{module: mod, realloc: mod.ExportedFunction(\"cabi_realloc\")}, nil\n", instanceName))
	b.WriteString("}\n\n")

	b.WriteString(fmt.Sprintf("// Close releases the factory's compiled module and the wazero runtime\n"))
	b.WriteString("// backing it. Call it exactly once, after every derived instance has\n")
	b.WriteString("// itself been closed.\n")
	b.WriteString(fmt.Sprintf("func (f *%s) Close(ctx context.Context) error {\n", factoryName))
	b.WriteString("\treturn f.runtime.Close(ctx)\n")
	b.WriteString("}\n\n")

	b.WriteString(fmt.Sprintf("// %s wraps one instantiation of the guest module. It is not\n", instanceName))
	b.WriteString("// concurrency-safe: guest linear memory is held exclusively for the\n")
	b.WriteString("// duration of each exported call.\n")
	b.WriteString(fmt.Sprintf("type %s struct {\n", instanceName))
	b.WriteString("\tmodule  api.Module\n")
	b.WriteString("\trealloc api.Function\n")
	b.WriteString("}\n\n")

	b.WriteString(fmt.Sprintf("// Close releases this instance's guest module. Call it exactly once.\n"))
	b.WriteString(fmt.Sprintf("func (i *%s) Close(ctx context.Context) error {\n", instanceName))
	b.WriteString("\treturn i.module.Close(ctx)\n")
	b.WriteString("}\n\n")

	b.WriteString(exportMethods.String())

	return []byte(b.String()), nil
}

// groupImports partitions world's imports by their WIT interface, in stable
// order: named interfaces first (sorted by name), then the synthesized
// freestanding group if any freestanding imports exist. Within a group,
// witadapter has already sorted functions by name (L2).
func groupImports(world *abi.World) []ifaceGroup {
	byIface := make(map[string][]abi.Function)
	var ifaceNames []string
	var freestanding []abi.Function

	for _, fn := range world.Imports {
		if fn.InterfaceName == "" {
			freestanding = append(freestanding, fn)
			continue
		}
		if _, ok := byIface[fn.InterfaceName]; !ok {
			ifaceNames = append(ifaceNames, fn.InterfaceName)
		}
		byIface[fn.InterfaceName] = append(byIface[fn.InterfaceName], fn)
	}
	sort.Strings(ifaceNames)

	var out []ifaceGroup
	for _, name := range ifaceNames {
		out = append(out, ifaceGroup{
			witName:   name,
			goName:    ident.Iface(world.Name, name),
			fieldName: ident.Camel(name),
			moduleKey: name,
			fns:       byIface[name],
		})
	}
	if len(freestanding) > 0 {
		out = append(out, ifaceGroup{
			witName:   "",
			goName:    "I" + ident.Pascal(world.Name) + "Host",
			fieldName: "host",
			moduleKey: world.Name,
			fns:       freestanding,
		})
	}
	return out
}

func renderInterface(g ifaceGroup) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("// %s is the host contract for the %q import(s) of this world;\n", g.goName, g.moduleKey))
	b.WriteString("// the caller of New<World>Factory must supply an implementation.\n")
	b.WriteString(fmt.Sprintf("type %s interface {\n", g.goName))
	for _, fn := range g.fns {
		sig, err := genimport.InterfaceMethodSignature(fn)
		if err != nil {
			// convertFunction/ResolveWitType already validated every function's
			// types during the Wasm stage; reaching this means a function was
			// added to a world's import list without going through it.
			sig = fmt.Sprintf("// %s: %v", fn.ShortName, err)
		}
		b.WriteString("\t" + sig + "\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func writeImportBlock(b *strings.Builder, req *imports.Set) {
	b.WriteString("import (\n")
	for _, p := range req.Sorted() {
		b.WriteString(fmt.Sprintf("\t%q\n", p))
	}
	b.WriteString(")\n\n")
}

// renderWasmLiteral emits the optimized module as a hex-encoded byte slice
// literal (§9's documented trade-off: larger output, no sibling-file
// dependency), wrapped at a fixed width for readability.
func renderWasmLiteral(varName string, raw []byte) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("var %s = []byte{\n", varName))
	const perLine = 16
	for i := 0; i < len(raw); i += perLine {
		end := i + perLine
		if end > len(raw) {
			end = len(raw)
		}
		b.WriteString("\t")
		for j := i; j < end; j++ {
			b.WriteString(fmt.Sprintf("0x%02x, ", raw[j]))
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// resultPrefix renders a result-type clause followed by a trailing space,
// or the empty string when results is empty, so the signature line never
// ends up with a stray double space before its opening brace.
func resultPrefix(results string) string {
	if results == "" {
		return ""
	}
	return results + " "
}

// indent prefixes every non-empty line of s with prefix, used to nest a
// generated function body inside the enclosing closure or method.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
