package memory

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmarray "github.com/wippyai/wasm-array"
	"github.com/wippyai/wasm-array/errors"
)

// WrapMemory wraps a wazero api.Memory as a wasmarray.Memory.
func WrapMemory(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator wraps a guest cabi_realloc export as a wasmarray.Allocator.
func WrapAllocator(ctx context.Context, fn api.Function) *AllocatorWrapper {
	if fn == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Fn: fn}
}

var (
	_ wasmarray.Memory      = (*Wrapper)(nil)
	_ wasmarray.MemorySizer = (*Wrapper)(nil)
	_ wasmarray.Allocator   = (*AllocatorWrapper)(nil)
)

// Wrapper adapts wazero api.Memory to the wasmarray.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Grow extends memory by deltaPages 64KiB pages.
func (m *Wrapper) Grow(deltaPages uint32) (uint32, bool) {
	return m.Mem.Grow(deltaPages)
}

// Read returns a write-through view of guest memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.MemoryOutOfBounds("read", offset, length)
	}
	return data, nil
}

func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return errors.MemoryOutOfBounds("write", offset, uint32(len(data)))
	}
	return nil
}

func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	return v, readErr(ok, offset, 1)
}

func (m *Wrapper) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	return v, readErr(ok, offset, 2)
}

func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	return v, readErr(ok, offset, 4)
}

func (m *Wrapper) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	return v, readErr(ok, offset, 8)
}

func (m *Wrapper) WriteU8(offset uint32, value uint8) error {
	return writeErr(m.Mem.WriteByte(offset, value), offset, 1)
}

func (m *Wrapper) WriteU16(offset uint32, value uint16) error {
	return writeErr(m.Mem.WriteUint16Le(offset, value), offset, 2)
}

func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	return writeErr(m.Mem.WriteUint32Le(offset, value), offset, 4)
}

func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	return writeErr(m.Mem.WriteUint64Le(offset, value), offset, 8)
}

func readErr(ok bool, offset, length uint32) error {
	if ok {
		return nil
	}
	return errors.MemoryOutOfBounds("read", offset, length)
}

func writeErr(ok bool, offset, length uint32) error {
	if ok {
		return nil
	}
	return errors.MemoryOutOfBounds("write", offset, length)
}

// AllocatorWrapper adapts a guest cabi_realloc export to wasmarray.Allocator.
type AllocatorWrapper struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc allocates memory using cabi_realloc(0, 0, align, size).
func (a *AllocatorWrapper) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseAlloc, errors.KindAllocation, err, "cabi_realloc")
	}
	if len(results) == 0 {
		return 0, errors.InvalidData(errors.PhaseAlloc, nil, "cabi_realloc returned no result")
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	return ptr, nil
}

// Free deallocates memory using cabi_realloc(ptr, size, align, 0).
func (a *AllocatorWrapper) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	if _, err := a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0); err != nil {
		Logger().Warn("Free: cabi_realloc deallocation failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}
