package memory

import (
	"math"
	"math/bits"
	"sort"

	"go.uber.org/zap"

	wasmarray "github.com/wippyai/wasm-array"
	"github.com/wippyai/wasm-array/errors"
)

// PageSize is the WebAssembly page size in bytes.
const PageSize = 65536

// MaxPages is the largest page count addressable by 32-bit linear memory.
const MaxPages = 65536

// heapBase keeps address 0 out of the heap so that 0 means "no allocation".
const heapBase = 8

// Growable is guest memory that can be extended by whole pages.
// wazero's api.Memory and Wrapper satisfy it.
type Growable interface {
	Size() uint32
	Grow(deltaPages uint32) (previousPages uint32, ok bool)
}

// HeapConfig bounds a Heap.
type HeapConfig struct {
	// InitialPages is the memory size Standalone starts with. Zero means 1.
	InitialPages uint32
	// MaxPages caps growth. Zero means MaxPages.
	MaxPages uint32
}

func (c HeapConfig) maxPages() uint32 {
	if c.MaxPages == 0 || c.MaxPages > MaxPages {
		return MaxPages
	}
	return c.MaxPages
}

type span struct {
	ptr  uint32
	size uint32
}

// Heap is a host-managed first-fit allocator over guest linear memory.
// It is used when the guest module does not export cabi_realloc.
// Free spans are kept sorted and coalesced; memory grows page-wise on demand.
type Heap struct {
	mem      Growable
	free     []span
	live     map[uint32]uint32
	top      uint32
	maxPages uint32
	inUse    uint64
}

var _ wasmarray.Allocator = (*Heap)(nil)

// NewHeap creates a heap that owns all of mem from a small reserved prefix up.
func NewHeap(mem Growable, cfg HeapConfig) *Heap {
	return &Heap{
		mem:      mem,
		live:     make(map[uint32]uint32),
		top:      heapBase,
		maxPages: cfg.maxPages(),
	}
}

// Alloc returns a block of size bytes aligned to align (a power of two).
func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "zero-size allocation")
	}
	if align == 0 {
		align = 1
	}
	if bits.OnesCount32(align) != 1 {
		return 0, errors.New(errors.PhaseAlloc, errors.KindInvalidInput).
			Detail("alignment %d is not a power of two", align).
			Build()
	}

	if ptr, ok := h.takeFree(size, align); ok {
		h.track(ptr, size)
		return ptr, nil
	}

	start := alignUp(uint64(h.top), align)
	end := start + uint64(size)
	if end > math.MaxUint32 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	if err := h.ensure(end); err != nil {
		return 0, err
	}
	if start > uint64(h.top) {
		h.insertFree(span{ptr: h.top, size: uint32(start) - h.top})
	}
	h.top = uint32(end)

	ptr := uint32(start)
	h.track(ptr, size)
	return ptr, nil
}

// Free returns a block to the heap. Unknown pointers are logged and ignored.
func (h *Heap) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	liveSize, ok := h.live[ptr]
	if !ok {
		Logger().Warn("Free: pointer is not a live heap allocation",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size))
		return
	}
	if liveSize != size {
		Logger().Warn("Free: size differs from allocation, using recorded size",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Uint32("allocated", liveSize))
	}
	delete(h.live, ptr)
	h.inUse -= uint64(liveSize)
	h.insertFree(span{ptr: ptr, size: liveSize})
	h.trimTop()
}

// Live returns the number of outstanding allocations.
func (h *Heap) Live() int {
	return len(h.live)
}

// InUse returns the number of bytes held by outstanding allocations.
func (h *Heap) InUse() uint64 {
	return h.inUse
}

func (h *Heap) track(ptr, size uint32) {
	h.live[ptr] = size
	h.inUse += uint64(size)
}

func (h *Heap) takeFree(size, align uint32) (uint32, bool) {
	for i, s := range h.free {
		start := alignUp(uint64(s.ptr), align)
		end := uint64(s.ptr) + uint64(s.size)
		if start+uint64(size) > end {
			continue
		}

		var rest []span
		if start > uint64(s.ptr) {
			rest = append(rest, span{ptr: s.ptr, size: uint32(start) - s.ptr})
		}
		if tail := end - (start + uint64(size)); tail > 0 {
			rest = append(rest, span{ptr: uint32(start) + size, size: uint32(tail)})
		}
		h.free = append(h.free[:i], append(rest, h.free[i+1:]...)...)
		return uint32(start), true
	}
	return 0, false
}

func (h *Heap) insertFree(s span) {
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].ptr >= s.ptr })
	h.free = append(h.free, span{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = s

	if i+1 < len(h.free) && h.free[i].ptr+h.free[i].size == h.free[i+1].ptr {
		h.free[i].size += h.free[i+1].size
		h.free = append(h.free[:i+1], h.free[i+2:]...)
	}
	if i > 0 && h.free[i-1].ptr+h.free[i-1].size == h.free[i].ptr {
		h.free[i-1].size += h.free[i].size
		h.free = append(h.free[:i], h.free[i+1:]...)
	}
}

// trimTop gives the highest free span back to the bump region.
func (h *Heap) trimTop() {
	if n := len(h.free); n > 0 {
		last := h.free[n-1]
		if last.ptr+last.size == h.top {
			h.top = last.ptr
			h.free = h.free[:n-1]
		}
	}
}

func (h *Heap) ensure(end uint64) error {
	size := uint64(h.mem.Size())
	if end <= size {
		return nil
	}
	pages := uint32((end - size + PageSize - 1) / PageSize)
	current := uint32(size / PageSize)
	if uint64(current)+uint64(pages) > uint64(h.maxPages) {
		return errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("out of memory: growing to %d pages exceeds limit %d", current+pages, h.maxPages).
			Build()
	}
	if _, ok := h.mem.Grow(pages); !ok {
		return errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("out of memory: memory.grow by %d pages failed", pages).
			Build()
	}
	Logger().Debug("heap grew guest memory",
		zap.Uint32("pages", pages),
		zap.Uint32("total", current+pages))
	return nil
}

func alignUp(v uint64, align uint32) uint64 {
	a := uint64(align)
	return (v + a - 1) &^ (a - 1)
}
