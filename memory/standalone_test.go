package memory

import (
	"context"
	"testing"
)

func TestNewStandalone_InitialPages(t *testing.T) {
	ctx := context.Background()
	sa, err := NewStandalone(ctx, HeapConfig{InitialPages: 3})
	if err != nil {
		t.Fatalf("NewStandalone failed: %v", err)
	}
	defer sa.Close(ctx)

	if sa.Memory.Size() != 3*PageSize {
		t.Errorf("Size = %d, want %d", sa.Memory.Size(), 3*PageSize)
	}
	if sa.Heap == nil || sa.Module == nil {
		t.Fatal("standalone is missing heap or module")
	}
}

func TestNewStandalone_InitialAboveLimit(t *testing.T) {
	ctx := context.Background()
	if _, err := NewStandalone(ctx, HeapConfig{InitialPages: 8, MaxPages: 4}); err == nil {
		t.Fatal("expected error when initial pages exceed the limit")
	}
}
