package convert

import (
	"bytes"
	"strings"
	"unicode/utf8"

	wasmarray "github.com/wippyai/wasm-array"
	"github.com/wippyai/wasm-array/errors"
	"github.com/wippyai/wasm-array/garray"
)

// MaxStringSize bounds the scan for a string terminator.
const MaxStringSize = 16 << 20

// LowerString copies host strings into guest memory as NUL-terminated
// strings. The guard frees the guest copy.
func LowerString(mem wasmarray.Memory, alloc wasmarray.Allocator) Lowerer[string, garray.Ptr] {
	return func(s string) (garray.Ptr, Guard) {
		if !utf8.ValidString(s) {
			errors.Fatal(errors.InvalidData(errors.PhaseConvert, nil, "string is not valid UTF-8"))
		}
		if strings.IndexByte(s, 0) >= 0 {
			errors.Fatal(errors.New(errors.PhaseConvert, errors.KindInvalidInput).
				Value(s).
				Detail("string contains an interior NUL").
				Build())
		}
		if len(s) >= MaxStringSize {
			errors.Fatal(errors.New(errors.PhaseConvert, errors.KindOverflow).
				Detail("string size %d exceeds maximum %d", len(s), MaxStringSize).
				Build())
		}

		size := uint32(len(s)) + 1
		ptr, err := alloc.Alloc(size, 1)
		if err != nil {
			errors.Fatal(errors.New(errors.PhaseConvert, errors.KindAllocation).
				Detail("out of memory: %d bytes for string", size).
				Cause(err).
				Build())
		}
		buf := make([]byte, size)
		copy(buf, s)
		if err := mem.Write(ptr, buf); err != nil {
			alloc.Free(ptr, size, 1)
			errors.Fatal(errors.Wrap(errors.PhaseConvert, errors.KindOutOfBounds, err, "write string"))
		}
		return garray.Ptr(ptr), GuardFunc(func() { alloc.Free(ptr, size, 1) })
	}
}

// StringNone reads guest strings without taking ownership.
func StringNone(mem wasmarray.Memory) None[garray.Ptr, string] {
	return func(p garray.Ptr) string {
		s, _ := readString(mem, p)
		return s
	}
}

// StringFull reads guest strings and frees them afterwards.
// The strings must have been allocated from alloc with alignment 1.
func StringFull(mem wasmarray.Memory, alloc wasmarray.Allocator) Full[garray.Ptr, string] {
	return func(p garray.Ptr) string {
		s, n := readString(mem, p)
		if p != 0 {
			alloc.Free(uint32(p), n+1, 1)
		}
		return s
	}
}

// readString returns the string at p and its length in bytes.
// A null pointer reads as the empty string.
func readString(mem wasmarray.Memory, p garray.Ptr) (string, uint32) {
	if p == 0 {
		return "", 0
	}
	n := strlen(mem, uint32(p))
	if n == 0 {
		return "", 0
	}
	b, err := mem.Read(uint32(p), n)
	if err != nil {
		errors.Fatal(errors.Wrap(errors.PhaseConvert, errors.KindOutOfBounds, err, "read string"))
	}
	return string(b), n
}

func strlen(mem wasmarray.Memory, ptr uint32) uint32 {
	if sz, ok := mem.(wasmarray.MemorySizer); ok {
		size := sz.Size()
		if ptr >= size {
			errors.Fatal(errors.MemoryOutOfBounds("read", ptr, 1))
		}
		window := size - ptr
		if window > MaxStringSize {
			window = MaxStringSize
		}
		b, err := mem.Read(ptr, window)
		if err == nil {
			if i := bytes.IndexByte(b, 0); i >= 0 {
				return uint32(i)
			}
			unterminated(ptr)
		}
	}

	for n := uint32(0); n < MaxStringSize; n++ {
		c, err := mem.ReadU8(ptr + n)
		if err != nil {
			errors.Fatal(errors.Wrap(errors.PhaseConvert, errors.KindOutOfBounds, err, "read string"))
		}
		if c == 0 {
			return n
		}
	}
	unterminated(ptr)
	return 0
}

func unterminated(ptr uint32) {
	errors.Fatal(errors.New(errors.PhaseConvert, errors.KindInvalidData).
		Value(ptr).
		Detail("string at 0x%x is not NUL-terminated", ptr).
		Build())
}
