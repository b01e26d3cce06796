package convert

// Pointer is the element constraint for transfer conversions: a 32-bit
// guest pointer or handle whose referent has an owner.
type Pointer interface {
	~uint32
}

// Borrowed converts an element without any ownership implication.
type Borrowed[T, U any] func(T) U

// Full converts an element and takes ownership of whatever it points to.
// It must run at most once per element.
type Full[T Pointer, U any] func(T) U

// None converts an element without taking ownership. The referent stays
// owned by the array's side and the conversion may run any number of times.
type None[T Pointer, U any] func(T) U

// Lowerer produces a foreign element from a host value. The element stays
// valid until the returned guard is released.
type Lowerer[U any, T Pointer] func(U) (T, Guard)

// Guard keeps a lowered element's referent alive.
type Guard interface {
	Release()
}

// GuardFunc adapts a function to Guard.
type GuardFunc func()

func (f GuardFunc) Release() {
	if f != nil {
		f()
	}
}

// NopGuard is a Guard with nothing to release.
var NopGuard Guard = GuardFunc(nil)
