package array

import (
	"math"
	"unsafe"

	"github.com/wippyai/wasm-array/convert"
	"github.com/wippyai/wasm-array/elem"
	"github.com/wippyai/wasm-array/errors"
	"github.com/wippyai/wasm-array/garray"
)

// FromSlice copies src into a new guest array of exactly len(src) elements.
// The bytes are appended in one call; an empty src appends nothing.
//
// src must not alias guest memory of p.
func FromSlice[T any](p garray.Primitive, src []T) *Array[T] {
	size := elementSize[T]()
	n := checkLength(len(src))
	ga := allocate(p, size, n)

	ok := false
	defer func() {
		if !ok {
			ga.Release()
		}
	}()
	if n > 0 {
		ga.Append(bytesOf(src), n)
	}
	a := Wrap[T](ga)
	ok = true
	return a
}

// FromSliceNone lowers every value of src and appends the results one at a
// time. The returned Stash holds the guards that keep the elements'
// referents alive; release it once the guest no longer needs them.
//
// If lowering or appending panics, everything built so far is released
// before the panic continues.
func FromSliceNone[T convert.Pointer, U any](p garray.Primitive, src []U, lower convert.Lowerer[U, T]) (*Array[T], *Stash[T]) {
	size := elementSize[T]()
	n := checkLength(len(src))
	ga := allocate(p, size, n)
	st := newStash[T](len(src))

	ok := false
	defer func() {
		if !ok {
			st.Release()
			ga.Release()
		}
	}()
	for _, v := range src {
		st.add(lower(v))
	}
	for i := range st.values {
		ga.Append(bytesOf(st.values[i:i+1]), 1)
	}
	a := Wrap[T](ga)
	ok = true
	return a, st
}

// FromBytes builds an array from a raw little-endian element image.
func FromBytes[T any](p garray.Primitive, raw []byte) *Array[T] {
	size := elementSize[T]()
	if len(raw)%int(size) != 0 {
		errors.Fatal(errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			GoType(elem.TypeName[T]()).
			Detail("%d bytes is not a whole number of %d-byte elements", len(raw), size).
			Build())
	}
	n := checkLength(len(raw) / int(size))
	ga := allocate(p, size, n)

	ok := false
	defer func() {
		if !ok {
			ga.Release()
		}
	}()
	if n > 0 {
		ga.Append(raw, n)
	}
	a := Wrap[T](ga)
	ok = true
	return a
}

// elementSize validates T for storage in guest memory and returns its size.
func elementSize[T any]() uint32 {
	if ok, where := elem.PlainOf[T](); !ok {
		errors.Fatal(errors.New(errors.PhaseBuild, errors.KindNotPlain).
			GoType(elem.TypeName[T]()).
			Detail("element type holds Go pointers: %s", where).
			Build())
	}
	size := elem.SizeOf[T]()
	if size == 0 {
		errors.Fatal(errors.Unsupported(errors.PhaseBuild, "zero-size element type "+elem.TypeName[T]()))
	}
	if !elem.FitsU32(size) {
		errors.Fatal(errors.New(errors.PhaseBuild, errors.KindOverflow).
			GoType(elem.TypeName[T]()).
			Value(size).
			Detail("type is too large to fit into a guest array").
			Build())
	}
	return uint32(size)
}

func checkLength(n int) uint32 {
	if !elem.FitsU32(n) {
		errors.Fatal(errors.New(errors.PhaseBuild, errors.KindOverflow).
			WitType("u32").
			Value(n).
			Detail("slice of %d elements is too long to fit into a guest array (max %d)", n, uint64(math.MaxUint32)).
			Build())
	}
	return uint32(n)
}

func allocate(p garray.Primitive, size, n uint32) *garray.Array {
	ga := garray.New(p, false, false, size, n)
	if ga == nil {
		errors.Fatal(errors.New(errors.PhaseBuild, errors.KindAllocation).
			Detail("out of memory: %d elements of %d bytes", n, size).
			Build())
	}
	return ga
}

func bytesOf[T any](src []T) []byte {
	if len(src) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(src))), len(src)*int(elem.SizeOf[T]()))
}
