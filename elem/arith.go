package elem

import "math"

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// FitsU32 reports whether n can be used as a guest length or size.
func FitsU32[N ~int | ~uint | ~uintptr | ~uint64 | ~int64](n N) bool {
	return n >= 0 && uint64(n) <= math.MaxUint32
}

func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
