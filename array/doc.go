// Package array provides Array[T], a typed view over an untyped guest array.
//
// The guest array knows only its element size. Array[T] checks once, when
// wrapping, that T is exactly that size and holds no Go pointers, and from
// then on hands out the element bytes as []T without copying.
//
// # Building
//
//	a := array.FromSlice(arena, []uint32{1, 2, 3})
//	defer a.Release()
//
// FromSlice allocates exactly len(src) elements and copies them in one call.
// FromSliceNone lowers each value first (for example a Go string into a
// guest C string) and returns the staging Stash alongside the array:
//
//	a, stash := array.FromSliceNone(arena, names, convert.LowerString(mem, heap))
//	callGuest(a)
//	a.Release()
//	stash.Release()
//
// # Reading
//
// Slice and SliceMut alias guest memory. Borrow and BorrowMut do the same but
// record the borrow, and any overlapping access that would break it panics.
// ToSlice copies.
//
// Elements convert through one of three free functions:
//
//	Convert     - plain values
//	ConvertNone - pointers the array keeps owning; repeatable
//	IntoFull    - pointers whose ownership moves to the results; consumes the array
//
// # Failure
//
// Size mismatch, length overflow, allocation failure and misuse such as use
// after release all panic with *errors.Error. Construction releases whatever
// it had built before the panic leaves it.
//
// # Memory growth
//
// Views returned by Slice, SliceMut and the borrow methods point into guest
// memory. Growing that memory may move it, so views must not be held across
// anything that allocates in the guest.
package array
