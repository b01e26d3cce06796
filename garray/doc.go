// Package garray implements an untyped, reference-counted dynamic array that
// lives entirely in guest linear memory.
//
// # Layout
//
// A handle is the guest address of a 24-byte header:
//
//	Offset  Field     Meaning
//	──────────────────────────────────────────────────
//	0       data      pointer to element storage (0 if none)
//	4       len       elements stored
//	8       cap       elements reserved
//	12      elemSize  bytes per element
//	16      refs      reference count
//	20      flags     bit 0 zero-terminated, bit 1 clear-on-alloc
//
// Element storage is a separate allocation. Zero-terminated arrays reserve one
// extra element that is kept zeroed, so guest code can walk them like C arrays.
//
// # Primitive Operations
//
//	h := arena.SizedNew(false, false, 4, 16)  // allocate-sized, 0 on failure
//	arena.AppendVals(h, src, 3)               // append-bytes
//	arena.Data(h), arena.Len(h)               // accessors
//	arena.ElementSize(h)
//	arena.Ref(h); arena.Unref(h)              // reference counting
//
// The last Unref frees storage and header through the arena's allocator.
//
// # Ownership
//
// Array is the Go owner of exactly one reference. Wrap adopts a reference the
// caller already owns; WrapNone takes a new one. Release is idempotent.
package garray
