package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-array/array"
	"github.com/wippyai/wasm-array/convert"
	"github.com/wippyai/wasm-array/elem"
	"github.com/wippyai/wasm-array/garray"
)

// elemKind describes one element type the tool can build and print.
type elemKind struct {
	wit      wit.Type
	build    func(s *session, values []string) (*garray.Array, error)
	format   func(s *session, ga *garray.Array) []string
	name     string
	size     uint32
	portable bool
}

var kinds = map[string]elemKind{
	"u8":     numeric("u8", wit.U8{}, parseUint[uint8](8)),
	"s8":     numeric("s8", wit.S8{}, parseInt[int8](8)),
	"u16":    numeric("u16", wit.U16{}, parseUint[uint16](16)),
	"s16":    numeric("s16", wit.S16{}, parseInt[int16](16)),
	"u32":    numeric("u32", wit.U32{}, parseUint[uint32](32)),
	"s32":    numeric("s32", wit.S32{}, parseInt[int32](32)),
	"u64":    numeric("u64", wit.U64{}, parseUint[uint64](64)),
	"s64":    numeric("s64", wit.S64{}, parseInt[int64](64)),
	"f32":    numeric("f32", wit.F32{}, parseFloat[float32](32)),
	"f64":    numeric("f64", wit.F64{}, parseFloat[float64](64)),
	"string": stringKind(),
}

func kindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// unsignedBySize picks a kind for a snapshot when no type was given.
var unsignedBySize = map[uint32]string{1: "u8", 2: "u16", 4: "u32", 8: "u64"}

func numeric[T convert.Number](name string, w wit.Type, parse func(string) (T, error)) elemKind {
	return elemKind{
		name:     name,
		wit:      w,
		size:     uint32(elem.SizeOf[T]()),
		portable: true,
		build: func(s *session, values []string) (*garray.Array, error) {
			vals := make([]T, len(values))
			for i, v := range values {
				x, err := parse(strings.TrimSpace(v))
				if err != nil {
					return nil, fmt.Errorf("value %d (%q): %w", i, v, err)
				}
				vals[i] = x
			}
			a := array.FromSlice(s.arena, vals)
			ga := a.Garray().Clone()
			a.Release()
			return ga, nil
		},
		format: func(_ *session, ga *garray.Array) []string {
			a := array.WrapWIT[T](ga.Clone(), w)
			defer a.Release()
			return array.Convert(a, func(v T) string { return fmt.Sprint(v) })
		},
	}
}

func stringKind() elemKind {
	return elemKind{
		name: "string",
		size: uint32(elem.SizeOf[garray.Ptr]()),
		build: func(s *session, values []string) (*garray.Array, error) {
			a, stash := array.FromSliceNone(s.arena, values, convert.LowerString(s.sa.Memory, s.sa.Heap))
			s.onClose(stash.Release)
			ga := a.Garray().Clone()
			a.Release()
			return ga, nil
		},
		format: func(s *session, ga *garray.Array) []string {
			a := array.Wrap[garray.Ptr](ga.Clone())
			defer a.Release()
			return array.ConvertNone(a, convert.StringNone(s.sa.Memory))
		},
	}
}

func parseUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 0, bits)
		return T(v), err
	}
}

func parseInt[T ~int8 | ~int16 | ~int32 | ~int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 0, bits)
		return T(v), err
	}
}

func parseFloat[T ~float32 | ~float64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	}
}
