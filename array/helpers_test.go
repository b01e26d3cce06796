package array

import (
	"context"
	"testing"

	"github.com/wippyai/wasm-array/errors"
	"github.com/wippyai/wasm-array/garray"
	"github.com/wippyai/wasm-array/memory"
)

type testEnv struct {
	sa    *memory.Standalone
	arena *garray.Arena
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	sa, err := memory.NewStandalone(ctx, memory.HeapConfig{})
	if err != nil {
		t.Fatalf("NewStandalone failed: %v", err)
	}
	t.Cleanup(func() { sa.Close(ctx) })
	return &testEnv{sa: sa, arena: garray.NewArena(sa.Memory, sa.Heap, garray.Options{})}
}

func (e *testEnv) assertNoLeaks(t *testing.T) {
	t.Helper()
	if n := e.sa.Heap.Live(); n != 0 {
		t.Fatalf("%d guest allocations still live", n)
	}
}

// countingPrimitive records AppendVals calls.
type countingPrimitive struct {
	garray.Primitive
	appends int
	counts  []uint32
}

func (c *countingPrimitive) AppendVals(h garray.Handle, src []byte, count uint32) {
	c.appends++
	c.counts = append(c.counts, count)
	c.Primitive.AppendVals(h, src, count)
}

func mustPanicKind(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with kind %s", kind)
		}
		e, ok := errors.FromPanic(r)
		if !ok {
			t.Fatalf("panic value is %T, want *errors.Error", r)
		}
		if e.Kind != kind {
			t.Fatalf("panic kind = %s, want %s (%v)", e.Kind, kind, e)
		}
	}()
	fn()
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
