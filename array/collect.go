package array

import (
	"github.com/wippyai/wasm-array/convert"
)

// Convert maps every element through a borrowed conversion.
func Convert[T, U any](a *Array[T], f convert.Borrowed[T, U]) []U {
	return mapAll(a.ToSlice(), f)
}

// ConvertNone maps every element through a none-transfer conversion. The
// array keeps its claims, so this may be called any number of times.
func ConvertNone[T convert.Pointer, U any](a *Array[T], f convert.None[T, U]) []U {
	return mapAll(a.ToSlice(), f)
}

// IntoFull maps every element through a full-transfer conversion and
// releases a. The results own what the elements referred to; a cannot be
// used afterwards, so no element is transferred twice.
func IntoFull[T convert.Pointer, U any](a *Array[T], f convert.Full[T, U]) []U {
	vals := a.ToSlice()
	a.Release()
	return mapAll(vals, f)
}

func mapAll[T, U any, F ~func(T) U](vals []T, f F) []U {
	out := make([]U, len(vals))
	for i, v := range vals {
		out[i] = f(v)
	}
	return out
}
