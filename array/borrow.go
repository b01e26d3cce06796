package array

import (
	"github.com/wippyai/wasm-array/elem"
	"github.com/wippyai/wasm-array/errors"
)

// Slice returns the elements as a slice aliasing guest memory.
//
// The slice is invalidated by anything that grows guest memory or frees the
// array. Panics while an exclusive borrow is active.
func (a *Array[T]) Slice() []T {
	a.live()
	if a.exclusive {
		errors.Fatal(errors.BorrowConflict(elem.TypeName[T](), "read while mutably borrowed"))
	}
	return a.view()
}

// SliceMut returns a writable slice aliasing guest memory.
// Panics while any borrow is active.
func (a *Array[T]) SliceMut() []T {
	a.live()
	if a.exclusive || a.shared > 0 {
		errors.Fatal(errors.BorrowConflict(elem.TypeName[T](), "write while borrowed"))
	}
	return a.view()
}

// Borrow returns a shared view and a function that ends the borrow.
// Any number of shared borrows may be active at once.
func (a *Array[T]) Borrow() ([]T, func()) {
	s := a.Slice()
	a.shared++
	done := false
	return s, func() {
		if done {
			return
		}
		done = true
		a.shared--
	}
}

// BorrowMut returns an exclusive view and a function that ends the borrow.
func (a *Array[T]) BorrowMut() ([]T, func()) {
	s := a.SliceMut()
	a.exclusive = true
	done := false
	return s, func() {
		if done {
			return
		}
		done = true
		a.exclusive = false
	}
}

// Borrowed reports whether any borrow is active.
func (a *Array[T]) Borrowed() bool {
	return a.exclusive || a.shared > 0
}
