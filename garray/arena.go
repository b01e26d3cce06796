package garray

import (
	"math"

	"go.uber.org/zap"

	wasmarray "github.com/wippyai/wasm-array"
	"github.com/wippyai/wasm-array/errors"
)

// Header layout in guest memory. All fields are little-endian u32.
const (
	offData     = 0
	offLen      = 4
	offCap      = 8
	offElemSize = 12
	offRefs     = 16
	offFlags    = 20

	HeaderSize  = 24
	headerAlign = 8
)

const (
	flagZeroTerminated uint32 = 1 << 0
	flagClear          uint32 = 1 << 1
)

// DefaultAlign is the storage alignment used when Options.Align is zero.
const DefaultAlign = 8

// Options configures an Arena.
type Options struct {
	// Align is the alignment of element storage. Must be a power of two.
	Align uint32
}

// Arena implements Primitive on top of guest memory and a guest allocator.
type Arena struct {
	mem   wasmarray.Memory
	alloc wasmarray.Allocator
	align uint32
}

var _ Primitive = (*Arena)(nil)

// NewArena creates an arena. The allocator must hand out blocks of mem.
func NewArena(mem wasmarray.Memory, alloc wasmarray.Allocator, opts Options) *Arena {
	align := opts.Align
	if align == 0 {
		align = DefaultAlign
	}
	return &Arena{mem: mem, alloc: alloc, align: align}
}

// Memory returns the guest memory the arena lives in.
func (a *Arena) Memory() wasmarray.Memory {
	return a.mem
}

// Allocator returns the guest allocator used for headers and storage.
func (a *Arena) Allocator() wasmarray.Allocator {
	return a.alloc
}

func (a *Arena) SizedNew(zeroTerminated, clearOnAlloc bool, elementSize, reserved uint32) Handle {
	if elementSize == 0 {
		Logger().Debug("SizedNew: zero element size")
		return 0
	}
	slots := uint64(reserved)
	if zeroTerminated {
		slots++
	}
	storage := slots * uint64(elementSize)
	if storage > math.MaxUint32 {
		Logger().Debug("SizedNew: storage size overflows u32",
			zap.Uint32("elemSize", elementSize),
			zap.Uint32("reserved", reserved))
		return 0
	}

	hdr, err := a.alloc.Alloc(HeaderSize, headerAlign)
	if err != nil {
		Logger().Debug("SizedNew: header allocation failed", zap.Error(err))
		return 0
	}

	var data uint32
	if storage > 0 {
		data, err = a.alloc.Alloc(uint32(storage), a.align)
		if err != nil {
			a.alloc.Free(hdr, HeaderSize, headerAlign)
			Logger().Debug("SizedNew: storage allocation failed",
				zap.Uint64("bytes", storage),
				zap.Error(err))
			return 0
		}
		switch {
		case clearOnAlloc:
			a.zero(data, uint32(storage))
		case zeroTerminated:
			a.zero(data, elementSize)
		}
	}

	var flags uint32
	if zeroTerminated {
		flags |= flagZeroTerminated
	}
	if clearOnAlloc {
		flags |= flagClear
	}

	h := Handle(hdr)
	a.put(h, offData, data)
	a.put(h, offLen, 0)
	a.put(h, offCap, reserved)
	a.put(h, offElemSize, elementSize)
	a.put(h, offRefs, 1)
	a.put(h, offFlags, flags)
	return h
}

func (a *Arena) AppendVals(h Handle, src []byte, count uint32) {
	if count == 0 {
		return
	}
	es := a.get(h, offElemSize)
	n := uint64(count) * uint64(es)
	if n > math.MaxUint32 {
		errors.Fatal(errors.Overflow(errors.PhaseAlloc, n, "u32"))
	}
	if uint64(len(src)) < n {
		errors.Fatal(errors.New(errors.PhaseAlloc, errors.KindInvalidInput).
			Detail("append of %d elements needs %d bytes, source has %d", count, n, len(src)).
			Build())
	}

	length := a.get(h, offLen)
	need := uint64(length) + uint64(count)
	if need > math.MaxUint32 {
		errors.Fatal(errors.Overflow(errors.PhaseAlloc, need, "u32"))
	}
	if uint32(need) > a.get(h, offCap) {
		a.grow(h, uint32(need))
	}

	data := a.get(h, offData)
	dst := a.view(data+length*es, uint32(n))
	copy(dst, src[:n])
	a.put(h, offLen, uint32(need))

	if a.get(h, offFlags)&flagZeroTerminated != 0 {
		a.zero(data+uint32(need)*es, es)
	}
}

// grow moves storage to a block with room for at least need elements.
func (a *Arena) grow(h Handle, need uint32) {
	es := a.get(h, offElemSize)
	oldCap := a.get(h, offCap)
	length := a.get(h, offLen)
	flags := a.get(h, offFlags)

	newCap := uint64(oldCap) * 2
	if newCap < uint64(need) {
		newCap = uint64(need)
	}
	var zt uint64
	if flags&flagZeroTerminated != 0 {
		zt = 1
	}
	bytes := (newCap + zt) * uint64(es)
	if bytes > math.MaxUint32 {
		newCap = uint64(need)
		bytes = (newCap + zt) * uint64(es)
		if bytes > math.MaxUint32 {
			errors.Fatal(errors.Overflow(errors.PhaseAlloc, bytes, "u32"))
		}
	}

	newData, err := a.alloc.Alloc(uint32(bytes), a.align)
	if err != nil {
		errors.Fatal(errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("out of memory: growing array to %d elements", newCap).
			Cause(err).
			Build())
	}

	oldData := a.get(h, offData)
	if used := length * es; used > 0 {
		copy(a.view(newData, used), a.view(oldData, used))
	}
	if flags&flagClear != 0 {
		a.zero(newData+length*es, uint32(bytes)-length*es)
	}
	if oldData != 0 {
		a.alloc.Free(oldData, uint32((uint64(oldCap)+zt)*uint64(es)), a.align)
	}

	a.put(h, offData, newData)
	a.put(h, offCap, uint32(newCap))

	Logger().Debug("array storage grown",
		zap.Uint32("handle", uint32(h)),
		zap.Uint32("from", oldCap),
		zap.Uint64("to", newCap))
}

func (a *Arena) Data(h Handle) Ptr {
	return Ptr(a.get(h, offData))
}

func (a *Arena) Len(h Handle) uint32 {
	return a.get(h, offLen)
}

// Cap returns the number of elements storage has room for.
func (a *Arena) Cap(h Handle) uint32 {
	return a.get(h, offCap)
}

func (a *Arena) ElementSize(h Handle) uint32 {
	return a.get(h, offElemSize)
}

// Refs returns the current reference count.
func (a *Arena) Refs(h Handle) uint32 {
	return a.get(h, offRefs)
}

// ZeroTerminated reports whether the array keeps a zeroed element past the end.
func (a *Arena) ZeroTerminated(h Handle) bool {
	return a.get(h, offFlags)&flagZeroTerminated != 0
}

func (a *Arena) Bytes(h Handle) []byte {
	length := a.get(h, offLen)
	if length == 0 {
		return nil
	}
	return a.view(a.get(h, offData), length*a.get(h, offElemSize))
}

func (a *Arena) Ref(h Handle) {
	a.put(h, offRefs, a.get(h, offRefs)+1)
}

func (a *Arena) Unref(h Handle) {
	refs := a.get(h, offRefs)
	if refs == 0 {
		Logger().Warn("Unref: array has no references left",
			zap.Uint32("handle", uint32(h)))
		return
	}
	refs--
	a.put(h, offRefs, refs)
	if refs > 0 {
		return
	}

	data := a.get(h, offData)
	if data != 0 {
		slots := uint64(a.get(h, offCap))
		if a.get(h, offFlags)&flagZeroTerminated != 0 {
			slots++
		}
		a.alloc.Free(data, uint32(slots*uint64(a.get(h, offElemSize))), a.align)
	}
	a.alloc.Free(uint32(h), HeaderSize, headerAlign)
}

func (a *Arena) get(h Handle, off uint32) uint32 {
	if h == 0 {
		errors.Fatal(errors.InvalidInput(errors.PhaseRuntime, "null array handle"))
	}
	v, err := a.mem.ReadU32(uint32(h) + off)
	if err != nil {
		errors.Fatal(errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "read array header"))
	}
	return v
}

func (a *Arena) put(h Handle, off, v uint32) {
	if err := a.mem.WriteU32(uint32(h)+off, v); err != nil {
		errors.Fatal(errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "write array header"))
	}
}

func (a *Arena) view(ptr, n uint32) []byte {
	b, err := a.mem.Read(ptr, n)
	if err != nil {
		errors.Fatal(errors.Wrap(errors.PhaseRuntime, errors.KindOutOfBounds, err, "array storage"))
	}
	return b
}

func (a *Arena) zero(ptr, n uint32) {
	if n == 0 {
		return
	}
	clear(a.view(ptr, n))
}
