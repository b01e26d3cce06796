// Package convert defines the element conversion disciplines used when
// reading or building arrays.
//
// Elements that are plain values convert with a Borrowed function. Elements
// that point at something with an owner (guest strings, resource handles)
// convert with one of two transfer disciplines:
//
//	Full - the conversion takes ownership and must run once per element
//	None - the conversion copies or borrows; the array side keeps ownership
//
// A Lowerer goes the other way: it turns a host value into a foreign element
// plus a Guard that keeps the element's referent alive. Guards are collected
// in staging storage next to the array they were lowered for.
//
// Guest strings are NUL-terminated byte sequences addressed by garray.Ptr.
// Conversions that detect corrupt input panic with *errors.Error.
package convert
