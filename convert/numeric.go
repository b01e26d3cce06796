package convert

// Number is any fixed-size numeric type.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr |
		~float32 | ~float64
}

// Identity returns a borrowed converter that yields its input.
func Identity[T any]() Borrowed[T, T] {
	return func(v T) T { return v }
}

// Cast returns a borrowed numeric conversion with Go conversion semantics.
func Cast[T, U Number]() Borrowed[T, U] {
	return func(v T) U { return U(v) }
}
