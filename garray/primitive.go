package garray

// Handle is the guest address of an array header. Handle 0 is null.
type Handle uint32

// Ptr is a guest memory address. Ptr 0 is null.
type Ptr uint32

// Primitive is the untyped dynamic array the typed layer is built on.
// Element size is a property of each array, not of the Go code reading it.
//
// Accessors panic with *errors.Error when handed a null or corrupt handle.
type Primitive interface {
	// SizedNew allocates an empty array with room for reserved elements.
	// Returns 0 when the array cannot be allocated.
	SizedNew(zeroTerminated, clearOnAlloc bool, elementSize, reserved uint32) Handle

	// AppendVals copies count elements from src, growing storage as needed.
	// src must not alias guest memory.
	AppendVals(h Handle, src []byte, count uint32)

	Data(h Handle) Ptr
	Len(h Handle) uint32
	ElementSize(h Handle) uint32

	// Bytes returns a write-through view of the Len*ElementSize element bytes.
	Bytes(h Handle) []byte

	Ref(h Handle)
	// Unref drops one reference; the last one frees storage and header.
	Unref(h Handle)
}
