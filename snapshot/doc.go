// Package snapshot saves and restores the full buffer of a guest array.
//
// A snapshot is one CBOR map in core deterministic encoding:
//
//	v     format version (1)
//	elem  element size in bytes
//	len   element count
//	comp  compression of data (0 none, 1 lz4, 2 zstd, 3 group+lz4)
//	raw   uncompressed size of data
//	data  element bytes
//	sum   BLAKE3-256 of the uncompressed element bytes
//
// Data that does not get smaller is stored uncompressed whatever the
// requested compression. Read verifies the checksum and the element count
// before returning an Image.
//
// Restore rebuilds a typed array and returns an error, rather than panicking,
// when the snapshot's element size does not match T.
package snapshot
