package array

import (
	"unsafe"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-array/elem"
	"github.com/wippyai/wasm-array/errors"
	"github.com/wippyai/wasm-array/garray"
)

// Array is a typed view of a guest array holding elements of type T.
//
// An Array owns one reference to its guest array. It is not safe for
// concurrent use, and the element bytes may be aliased by other references
// to the same guest array.
type Array[T any] struct {
	ga        *garray.Array
	shared    int
	exclusive bool
}

// Wrap takes ownership of ga and reinterprets its elements as T.
//
// T must be free of Go pointers and exactly as large as the guest element
// size. Either violation releases ga and panics.
func Wrap[T any](ga *garray.Array) *Array[T] {
	if ga.Released() {
		errors.Fatal(errors.New(errors.PhaseWrap, errors.KindInvalidInput).
			GoType(elem.TypeName[T]()).
			Detail("null array").
			Build())
	}
	if ok, where := elem.PlainOf[T](); !ok {
		ga.Release()
		errors.Fatal(errors.New(errors.PhaseWrap, errors.KindNotPlain).
			GoType(elem.TypeName[T]()).
			Detail("element type holds Go pointers: %s", where).
			Build())
	}
	size := elem.SizeOf[T]()
	if foreign := uintptr(ga.ElementSize()); foreign != size {
		ga.Release()
		errors.Fatal(errors.SizeMismatch(errors.PhaseWrap, elem.TypeName[T](), size, foreign))
	}
	return &Array[T]{ga: ga}
}

// WrapWIT is Wrap with an additional check that the guest elements are laid
// out as the WIT type t.
func WrapWIT[T any](ga *garray.Array, t wit.Type) *Array[T] {
	if !ga.Released() {
		info := elem.Of(t)
		if foreign := uint32(ga.ElementSize()); info.Size != foreign {
			ga.Release()
			e := errors.SizeMismatch(errors.PhaseWrap, elem.TypeName[T](), uintptr(info.Size), uintptr(foreign))
			e.WitType = elem.Name(t)
			errors.Fatal(e)
		}
	}
	return Wrap[T](ga)
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	a.live()
	return a.ga.Len()
}

// ElementSize returns the guest element size in bytes.
func (a *Array[T]) ElementSize() int {
	a.live()
	return a.ga.ElementSize()
}

// At returns element i.
func (a *Array[T]) At(i int) T {
	s := a.Slice()
	if i < 0 || i >= len(s) {
		errors.Fatal(errors.OutOfBounds(errors.PhaseView, nil, i, len(s)))
	}
	return s[i]
}

// Set stores v at index i.
func (a *Array[T]) Set(i int, v T) {
	s := a.SliceMut()
	if i < 0 || i >= len(s) {
		errors.Fatal(errors.OutOfBounds(errors.PhaseView, nil, i, len(s)))
	}
	s[i] = v
}

// ToSlice returns a copy of the elements. The result is never nil.
func (a *Array[T]) ToSlice() []T {
	s := a.Slice()
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Clone returns a second Array sharing the same guest array.
func (a *Array[T]) Clone() *Array[T] {
	a.live()
	return &Array[T]{ga: a.ga.Clone()}
}

// Garray returns the untyped array. Ownership stays with a.
func (a *Array[T]) Garray() *garray.Array {
	a.live()
	return a.ga
}

// Release drops the reference to the guest array. Releasing while a borrow
// is outstanding panics. Safe to call more than once.
func (a *Array[T]) Release() {
	if a.ga.Released() {
		return
	}
	if a.exclusive || a.shared > 0 {
		errors.Fatal(errors.BorrowConflict(elem.TypeName[T](), "release while borrowed"))
	}
	a.ga.Release()
}

// Released reports whether the array has been released.
func (a *Array[T]) Released() bool {
	return a.ga.Released()
}

func (a *Array[T]) live() {
	if a.ga.Released() {
		errors.Fatal(errors.Released(errors.PhaseView, elem.TypeName[T]()))
	}
}

// view reinterprets the element bytes as []T.
func (a *Array[T]) view() []T {
	b := a.ga.Bytes()
	if len(b) == 0 {
		return nil
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%elem.AlignOf[T]() != 0 {
		errors.Fatal(errors.New(errors.PhaseView, errors.KindInvalidData).
			GoType(elem.TypeName[T]()).
			Detail("element storage at %p is not aligned to %d", p, elem.AlignOf[T]()).
			Build())
	}
	return unsafe.Slice((*T)(p), len(b)/int(elem.SizeOf[T]()))
}
