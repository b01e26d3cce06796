// Package memory provides guest memory adapters for wazero.
//
// # Memory Wrapper
//
// Wraps wazero api.Memory as a wasmarray.Memory:
//
//	mem := memory.WrapMemory(module.ExportedMemory("memory"))
//
// Read returns views that alias guest memory. They become invalid once the
// memory grows, since wazero may move the backing buffer.
//
// # Allocators
//
// Two wasmarray.Allocator implementations are provided:
//
//	alloc := memory.WrapAllocator(ctx, module.ExportedFunction("cabi_realloc"))
//	heap := memory.NewHeap(mem, memory.HeapConfig{MaxPages: 256})
//
// The first delegates to the guest's own allocator. Heap manages memory from
// the host for modules that have none; it must be the only allocator touching
// that memory.
//
// # Standalone Memory
//
// NewStandalone creates a memory-only module with a Heap attached. It is what
// tests and the arraydump command use as a guest.
package memory
