package bindings

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"math"
)

var demoWasm = []byte{
	0x00, 0x61, 0x73, 0x6d,
}

// DemoFactory constructs the compiled guest module and the host functions its
// imports need. It may be shared across goroutines once built; each call to
// Instantiate starts an independent DemoInstance.
type DemoFactory struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// NewDemoFactory compiles demoWasm and registers the given interface implementations as
// the guest module's host functions.
func NewDemoFactory(ctx context.Context) (*DemoFactory, error) {
	runtime := wazero.NewRuntime(ctx)
	compiled, err := runtime.CompileModule(ctx, demoWasm)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("compile module: %w", err)
	}
	return &DemoFactory{
		runtime:  runtime,
		compiled: compiled,
	}, nil
}

// Instantiate starts a new DemoInstance against the factory's compiled module. Each
// DemoInstance holds exclusive access to its own guest linear memory and must not be
// called from more than one goroutine at a time.
func (f *DemoFactory) Instantiate(ctx context.Context) (*DemoInstance, error) {
	mod, err := f.runtime.InstantiateModule(ctx, f.compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("instantiate guest module: %w", err)
	}
	return &DemoInstance{module: mod, realloc: mod.ExportedFunction("cabi_realloc")}, nil
}

// Close releases the factory's compiled module and the wazero runtime
// backing it. Call it exactly once, after every derived instance has
// itself been closed.
func (f *DemoFactory) Close(ctx context.Context) error {
	return f.runtime.Close(ctx)
}

// DemoInstance wraps one instantiation of the guest module. It is not
// concurrency-safe: guest linear memory is held exclusively for the
// duration of each exported call.
type DemoInstance struct {
	module  api.Module
	realloc api.Function
}

// Close releases this instance's guest module. Call it exactly once.
func (i *DemoInstance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}

func (i *DemoInstance) ModifyFoo(ctx context.Context, p Foo) (Foo, error) {
	ptr0 := uint64(1)
	len0 := uint64(0)
	if len(p.Vf32) > 0 {
		raw0, err := i.realloc.Call(ctx, 0, 0, 4, uint64(len(p.Vf32)*4))
		if err != nil {
			return Foo{}, errors.New("failed to allocate guest memory")
		}
		ptr0 = uint64(raw0[0])
		len0 = uint64(len(p.Vf32))
		buf := make([]byte, 0, len(p.Vf32)*4)
		for _, v := range p.Vf32 {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
		if !i.module.Memory().Write(uint32(ptr0), buf) {
			return Foo{}, errors.New("failed to write bytes to memory")
		}
	}
	ptr1 := uint64(1)
	len1 := uint64(0)
	if len(p.Vf64) > 0 {
		raw1, err := i.realloc.Call(ctx, 0, 0, 8, uint64(len(p.Vf64)*8))
		if err != nil {
			return Foo{}, errors.New("failed to allocate guest memory")
		}
		ptr1 = uint64(raw1[0])
		len1 = uint64(len(p.Vf64))
		buf := make([]byte, 0, len(p.Vf64)*8)
		for _, v := range p.Vf64 {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		if !i.module.Memory().Write(uint32(ptr1), buf) {
			return Foo{}, errors.New("failed to write bytes to memory")
		}
	}
	raw2, err := i.module.ExportedFunction("modify-foo").Call(ctx, uint64(ptr0), uint64(len0), uint64(ptr1), uint64(len1))
	if err != nil {
		return Foo{}, errors.New("call to modify-foo failed")
	}
	buf0, ok0 := i.module.Memory().Read(uint32(uint32(raw2[0])), uint32(uint32(raw2[1]))*4)
	if !ok0 {
		return Foo{}, errors.New("failed to read bytes from memory")
	}
	value0 := make([]float32, uint32(raw2[1]))
	for i := range value0 {
		value0[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf0[i*4:]))
	}
	buf1, ok1 := i.module.Memory().Read(uint32(uint32(raw2[2])), uint32(uint32(raw2[3]))*8)
	if !ok1 {
		return Foo{}, errors.New("failed to read bytes from memory")
	}
	value1 := make([]float64, uint32(raw2[3]))
	for i := range value1 {
		value1[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf1[i*8:]))
	}
	value2 := Foo{Vf32: value0, Vf64: value1}
	return value2, nil
}

