package bindings

import (
	"context"
	"errors"
	"fmt"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var tinyWasm = []byte{
	0x00, 0x61, 0x73, 0x6d,
}

// TinyFactory constructs the compiled guest module and the host functions its
// imports need. It may be shared across goroutines once built; each call to
// Instantiate starts an independent TinyInstance.
type TinyFactory struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// NewTinyFactory compiles tinyWasm and registers the given interface implementations as
// the guest module's host functions.
func NewTinyFactory(ctx context.Context) (*TinyFactory, error) {
	runtime := wazero.NewRuntime(ctx)
	compiled, err := runtime.CompileModule(ctx, tinyWasm)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("compile module: %w", err)
	}
	return &TinyFactory{
		runtime:  runtime,
		compiled: compiled,
	}, nil
}

// Instantiate starts a new TinyInstance against the factory's compiled module. Each
// TinyInstance holds exclusive access to its own guest linear memory and must not be
// called from more than one goroutine at a time.
func (f *TinyFactory) Instantiate(ctx context.Context) (*TinyInstance, error) {
	mod, err := f.runtime.InstantiateModule(ctx, f.compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("instantiate guest module: %w", err)
	}
	return &TinyInstance{module: mod, realloc: mod.ExportedFunction("cabi_realloc")}, nil
}

// Close releases the factory's compiled module and the wazero runtime
// backing it. Call it exactly once, after every derived instance has
// itself been closed.
func (f *TinyFactory) Close(ctx context.Context) error {
	return f.runtime.Close(ctx)
}

// TinyInstance wraps one instantiation of the guest module. It is not
// concurrency-safe: guest linear memory is held exclusively for the
// duration of each exported call.
type TinyInstance struct {
	module  api.Module
	realloc api.Function
}

// Close releases this instance's guest module. Call it exactly once.
func (i *TinyInstance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}

func (i *TinyInstance) Run(ctx context.Context) (uint32, error) {
	raw0, err := i.module.ExportedFunction("run").Call(ctx)
	if err != nil {
		return 0, errors.New("call to run failed")
	}
	return uint32(uint32(raw0[0])), nil
}

