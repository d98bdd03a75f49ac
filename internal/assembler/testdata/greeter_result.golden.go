package bindings

import (
	"context"
	"errors"
	"fmt"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var greeterWasm = []byte{
	0x00, 0x61, 0x73, 0x6d,
}

// GreeterFactory constructs the compiled guest module and the host functions its
// imports need. It may be shared across goroutines once built; each call to
// Instantiate starts an independent GreeterInstance.
type GreeterFactory struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// NewGreeterFactory compiles greeterWasm and registers the given interface implementations as
// the guest module's host functions.
func NewGreeterFactory(ctx context.Context) (*GreeterFactory, error) {
	runtime := wazero.NewRuntime(ctx)
	compiled, err := runtime.CompileModule(ctx, greeterWasm)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("compile module: %w", err)
	}
	return &GreeterFactory{
		runtime:  runtime,
		compiled: compiled,
	}, nil
}

// Instantiate starts a new GreeterInstance against the factory's compiled module. Each
// GreeterInstance holds exclusive access to its own guest linear memory and must not be
// called from more than one goroutine at a time.
func (f *GreeterFactory) Instantiate(ctx context.Context) (*GreeterInstance, error) {
	mod, err := f.runtime.InstantiateModule(ctx, f.compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("instantiate guest module: %w", err)
	}
	return &GreeterInstance{module: mod, realloc: mod.ExportedFunction("cabi_realloc")}, nil
}

// Close releases the factory's compiled module and the wazero runtime
// backing it. Call it exactly once, after every derived instance has
// itself been closed.
func (f *GreeterFactory) Close(ctx context.Context) error {
	return f.runtime.Close(ctx)
}

// GreeterInstance wraps one instantiation of the guest module. It is not
// concurrency-safe: guest linear memory is held exclusively for the
// duration of each exported call.
type GreeterInstance struct {
	module  api.Module
	realloc api.Function
}

// Close releases this instance's guest module. Call it exactly once.
func (i *GreeterInstance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}

func (i *GreeterInstance) Hello(ctx context.Context) (string, error) {
	raw0, err := i.module.ExportedFunction("hello").Call(ctx)
	if err != nil {
		return "", errors.New("call to hello failed")
	}
	defer func() {
		if _, err := i.module.ExportedFunction("cabi_post_hello").Call(ctx, raw0...); err != nil {
			panic(err)
		}
	}()
	buf0, ok0 := i.module.Memory().Read(uint32(uint32(raw0[1])), uint32(uint32(raw0[2])))
	if !ok0 {
		return "", errors.New("failed to read bytes from memory")
	}
	str0 := string(buf0)
	var value0 string
	var err0 error
	if uint32(raw0[0]) != 0 {
		err0 = errors.New(str0)
	} else {
		value0 = str0
	}
	return value0, err0
}

