package memory

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-array/errors"
)

// memoryModule is a minimal module with one page of memory exported as "memory".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory"
	0x02, 0x00, // kind: memory, index 0
}

// Standalone is a guest memory with no guest code: a memory-only module
// instantiated in its own wazero runtime, managed by a host-side Heap.
type Standalone struct {
	Runtime wazero.Runtime
	Module  api.Module
	Memory  *Wrapper
	Heap    *Heap
}

// NewStandalone instantiates a fresh memory-only module.
func NewStandalone(ctx context.Context, cfg HeapConfig) (*Standalone, error) {
	rtCfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(cfg.maxPages())
	rt := wazero.NewRuntimeWithConfig(ctx, rtCfg)

	mod, err := rt.Instantiate(ctx, memoryModule)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	mem := WrapMemory(mod.ExportedMemory("memory"))
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "memory export", "memory")
	}

	if cfg.InitialPages > 1 {
		if _, ok := mem.Grow(cfg.InitialPages - 1); !ok {
			_ = rt.Close(ctx)
			return nil, errors.New(errors.PhaseLoad, errors.KindAllocation).
				Detail("cannot grow memory to %d pages", cfg.InitialPages).
				Build()
		}
	}

	return &Standalone{
		Runtime: rt,
		Module:  mod,
		Memory:  mem,
		Heap:    NewHeap(mem, cfg),
	}, nil
}

// Close releases the runtime and the guest memory with it.
func (s *Standalone) Close(ctx context.Context) error {
	return s.Runtime.Close(ctx)
}
