// Package wasmarray provides typed, growable arrays whose elements live in
// WebAssembly guest linear memory.
//
// The guest side knows nothing about Go types: an array there is an untyped,
// reference-counted header with an element size and a pointer to element
// storage. This library lays a typed view over it and keeps the element-size
// contract in one place.
//
// # Architecture Overview
//
//	wasmarray/        Root package with the Memory and Allocator boundary interfaces
//	├── memory/       wazero adapters, host-managed heap, standalone guest memory
//	├── garray/       Untyped reference-counted dynamic array in guest memory
//	├── elem/         Element layout (WIT types) and Go type checks
//	├── array/        Array[T]: typed views, construction, conversion
//	├── convert/      Borrowed, full-transfer and none-transfer element conversions
//	├── resource/     Handle table with borrow tracking
//	├── snapshot/     Persist and restore array contents
//	├── errors/       Structured error types
//	└── cmd/arraydump CLI for building and inspecting arrays
//
// # Quick Start
//
//	sa, err := memory.NewStandalone(ctx, memory.HeapConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sa.Close(ctx)
//
//	arena := garray.NewArena(sa.Memory, sa.Heap, garray.Options{})
//	a := array.FromSlice(arena, []uint32{1, 2, 3})
//	defer a.Release()
//
//	fmt.Println(a.Slice()) // [1 2 3]
//
// # Ownership
//
// An Array[T] owns exactly one reference to the guest array. Elements can be
// turned into Go values three ways:
//
//   - Convert: borrowed, the element is only read
//   - ConvertNone: the Go value takes its own claim, the guest keeps its own
//   - IntoFull: the Go value takes over the guest claim; the array is consumed
//
// # Failure Model
//
// Violations of the element-size contract, capacity overflow and allocation
// failure are programming errors. They panic with *errors.Error instead of
// returning an error value.
//
// # Thread Safety
//
// Arrays, arenas and heaps are NOT thread-safe. Use one goroutine per guest
// memory, or synchronize externally.
//
// # Memory Model
//
// Guest memory can only grow. Growth may move the host buffer that backs it,
// so slices returned by Slice or Borrow must not be kept across allocations.
package wasmarray
