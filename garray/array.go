package garray

import (
	"github.com/wippyai/wasm-array/errors"
)

// Array owns one reference to a guest array.
type Array struct {
	p Primitive
	h Handle
}

// Wrap takes over an existing reference to h. Returns nil for a null handle.
func Wrap(p Primitive, h Handle) *Array {
	if h == 0 {
		return nil
	}
	return &Array{p: p, h: h}
}

// WrapNone acquires a new reference to h; the caller keeps its own.
func WrapNone(p Primitive, h Handle) *Array {
	if h == 0 {
		return nil
	}
	p.Ref(h)
	return &Array{p: p, h: h}
}

// New allocates a guest array. Returns nil if the primitive refused.
func New(p Primitive, zeroTerminated, clearOnAlloc bool, elementSize, reserved uint32) *Array {
	return Wrap(p, p.SizedNew(zeroTerminated, clearOnAlloc, elementSize, reserved))
}

// Handle returns the guest header address without giving up ownership.
func (a *Array) Handle() Handle {
	a.live()
	return a.h
}

// Primitive returns the implementation the array lives in.
func (a *Array) Primitive() Primitive {
	return a.p
}

func (a *Array) Len() int {
	a.live()
	return int(a.p.Len(a.h))
}

func (a *Array) ElementSize() int {
	a.live()
	return int(a.p.ElementSize(a.h))
}

func (a *Array) Data() Ptr {
	a.live()
	return a.p.Data(a.h)
}

// Bytes returns a write-through view of the element bytes.
func (a *Array) Bytes() []byte {
	a.live()
	return a.p.Bytes(a.h)
}

// Append copies count elements from src into the array.
func (a *Array) Append(src []byte, count uint32) {
	a.live()
	a.p.AppendVals(a.h, src, count)
}

// Clone returns a second owner of the same guest array.
func (a *Array) Clone() *Array {
	a.live()
	return WrapNone(a.p, a.h)
}

// Steal gives up ownership and returns the handle. The caller now owns the reference.
func (a *Array) Steal() Handle {
	a.live()
	h := a.h
	a.h = 0
	return h
}

// Release drops the reference. Safe to call more than once.
func (a *Array) Release() {
	if a == nil || a.h == 0 {
		return
	}
	h := a.h
	a.h = 0
	a.p.Unref(h)
}

// Released reports whether the array no longer holds a reference.
func (a *Array) Released() bool {
	return a == nil || a.h == 0
}

func (a *Array) live() {
	if a.h == 0 {
		errors.Fatal(errors.Released(errors.PhaseRuntime, "garray.Array"))
	}
}
