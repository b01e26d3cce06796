// Package elem describes array elements: their guest layout derived from WIT
// types, and whether a Go type may be stored in guest memory at all.
//
// # Layout Rules
//
// Element layout follows the canonical ABI:
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Records and tuples: fields in order, padded to alignment
//   - Variants, options, results: discriminant followed by largest payload
//   - Strings and lists: (pointer, length) pair, content elsewhere
//   - own/borrow handles: one u32
//
// # Plain Types
//
// Guest memory is invisible to the Go garbage collector, so only types made of
// numbers, bools, arrays and structs of those can be elements. Plain reports
// the first offending field otherwise.
package elem
