package elem

import (
	"reflect"
	"unsafe"
)

// SizeOf returns the in-memory size of T.
func SizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// AlignOf returns the alignment of T.
func AlignOf[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// TypeName returns the Go spelling of T.
func TypeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Plain reports whether values of t can live in guest memory: fixed size and
// no Go pointers anywhere inside. The garbage collector does not scan guest
// memory, so a pointer stored there would dangle.
// When t is not plain, where names the offending component.
func Plain(t reflect.Type) (ok bool, where string) {
	return plain(t, t.String())
}

func plain(t reflect.Type, path string) (bool, string) {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true, ""
	case reflect.Array:
		return plain(t.Elem(), path+"[]")
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if ok, where := plain(f.Type, path+"."+f.Name); !ok {
				return false, where
			}
		}
		return true, ""
	}
	return false, path + " (" + t.Kind().String() + ")"
}

// PlainOf is Plain for a type parameter.
func PlainOf[T any]() (bool, string) {
	return Plain(reflect.TypeFor[T]())
}
