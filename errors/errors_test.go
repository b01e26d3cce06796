package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseWrap,
				Kind:    KindSizeMismatch,
				Path:    []string{"items", "3"},
				GoType:  "uint64",
				WitType: "u32",
				Detail:  "wrong size",
			},
			contains: []string{"[wrap]", "size_mismatch", "items.3", "uint64", "u32", "wrong size"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseView,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[view]", "out_of_bounds"},
		},
		{
			name: "go type only",
			err: &Error{
				Phase:  PhaseView,
				Kind:   KindReleased,
				GoType: "int32",
				Detail: "gone",
			},
			contains: []string{"Go type int32 - gone"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAlloc,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[alloc]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseSnapshot,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseBuild,
		Kind:  KindOverflow,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseBuild, Kind: KindOverflow}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseWrap, Kind: KindOverflow}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseBuild, Kind: KindAllocation}) {
		t.Error("Is should not match different kind")
	}

	var target *Error
	if !errors.As(error(err), &target) || target.Kind != KindOverflow {
		t.Error("errors.As should extract *Error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConvert, KindInvalidData).
		Path("strings", "1").
		GoType("string").
		WitType("string").
		Value(42).
		Cause(cause).
		Detail("bad pointer %d", 7).
		Build()

	if err.Phase != PhaseConvert {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConvert)
	}
	if err.Kind != KindInvalidData {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
	}
	if len(err.Path) != 2 || err.Path[0] != "strings" {
		t.Errorf("Path = %v", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "bad pointer 7" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestFatal(t *testing.T) {
	defer func() {
		e, ok := FromPanic(recover())
		if !ok {
			t.Fatal("expected *Error panic value")
		}
		if e.Kind != KindSizeMismatch || e.Phase != PhaseWrap {
			t.Errorf("got %v", e)
		}
	}()
	Fatal(SizeMismatch(PhaseWrap, "uint16", 2, 4))
	t.Fatal("Fatal returned")
}

func TestBuilderPanic(t *testing.T) {
	defer func() {
		e, ok := FromPanic(recover())
		if !ok || e.Kind != KindBorrowConflict {
			t.Fatalf("unexpected panic value %v", e)
		}
	}()
	New(PhaseView, KindBorrowConflict).Detail("twice").Panic()
}

func TestFromPanic_Foreign(t *testing.T) {
	if _, ok := FromPanic("boom"); ok {
		t.Error("string panic value should not be recognized")
	}
	if _, ok := FromPanic(nil); ok {
		t.Error("nil should not be recognized")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("SizeMismatch", func(t *testing.T) {
		err := SizeMismatch(PhaseWrap, "uint64", 8, 4)
		if err.Kind != KindSizeMismatch {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Detail, "8") || !strings.Contains(err.Detail, "4") {
			t.Errorf("Detail = %q, should contain both sizes", err.Detail)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseAlloc, 1024, 8)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Detail, "out of memory") || !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseBuild, uint64(1)<<40, "u32")
		if err.Kind != KindOverflow || err.WitType != "u32" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseView, nil, 10, 5)
		if err.Kind != KindOutOfBounds || err.Value != 10 {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("MemoryOutOfBounds", func(t *testing.T) {
		err := MemoryOutOfBounds("read", 70000, 4)
		if err.Phase != PhaseRuntime || !strings.Contains(err.Detail, "offset=70000") {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Released", func(t *testing.T) {
		err := Released(PhaseView, "uint8")
		if err.Kind != KindReleased || err.GoType != "uint8" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("io")
		err := Wrap(PhaseSnapshot, KindInvalidData, cause, "read header")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep cause")
		}
	})

	t.Run("Instantiation", func(t *testing.T) {
		err := Instantiation(errors.New("x"))
		if err.Phase != PhaseLoad || err.Kind != KindInstantiation {
			t.Errorf("got %+v", err)
		}
	})
}
