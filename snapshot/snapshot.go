package snapshot

import (
	"bytes"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/wippyai/wasm-array/array"
	"github.com/wippyai/wasm-array/elem"
	"github.com/wippyai/wasm-array/errors"
	"github.com/wippyai/wasm-array/garray"
)

// Version is the snapshot format version written by this package.
const Version = 1

// Options configures Encode and Write.
type Options struct {
	Compression Compression
}

// Image is the full buffer of an array, detached from guest memory.
type Image struct {
	Data        []byte
	ElementSize uint32
	Len         uint32
}

type envelope struct {
	Version     uint     `cbor:"v"`
	ElementSize uint32   `cbor:"elem"`
	Len         uint32   `cbor:"len"`
	Compression uint8    `cbor:"comp"`
	Raw         uint32   `cbor:"raw"`
	Data        []byte   `cbor:"data"`
	Sum         [32]byte `cbor:"sum"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Capture copies the elements of ga out of guest memory.
func Capture(ga *garray.Array) *Image {
	return &Image{
		Data:        bytes.Clone(ga.Bytes()),
		ElementSize: uint32(ga.ElementSize()),
		Len:         uint32(ga.Len()),
	}
}

// Write encodes img to w.
func Write(w io.Writer, img *Image, opts Options) error {
	if err := img.validate(); err != nil {
		return err
	}
	data, comp, err := compress(img.Data, opts.Compression, int(img.ElementSize))
	if err != nil {
		return err
	}
	env := envelope{
		Version:     Version,
		ElementSize: img.ElementSize,
		Len:         img.Len,
		Compression: uint8(comp),
		Raw:         uint32(len(img.Data)),
		Data:        data,
		Sum:         blake3.Sum256(img.Data),
	}
	if err := encMode.NewEncoder(w).Encode(&env); err != nil {
		return errors.Wrap(errors.PhaseSnapshot, errors.KindInvalidData, err, "encode snapshot")
	}
	return nil
}

// Read decodes and verifies one snapshot from r.
func Read(r io.Reader) (*Image, error) {
	var env envelope
	if err := decMode.NewDecoder(r).Decode(&env); err != nil {
		return nil, errors.Wrap(errors.PhaseSnapshot, errors.KindInvalidData, err, "decode snapshot")
	}
	if env.Version != Version {
		return nil, errors.Unsupported(errors.PhaseSnapshot, "snapshot version")
	}
	if want := uint64(env.Len) * uint64(env.ElementSize); uint64(env.Raw) != want {
		return nil, errors.New(errors.PhaseSnapshot, errors.KindInvalidData).
			Detail("raw size %d does not match %d elements of %d bytes", env.Raw, env.Len, env.ElementSize).
			Build()
	}
	data, err := decompress(env.Data, Compression(env.Compression), int(env.ElementSize), int(env.Raw))
	if err != nil {
		return nil, err
	}
	if blake3.Sum256(data) != env.Sum {
		return nil, errors.InvalidData(errors.PhaseSnapshot, nil, "checksum mismatch")
	}
	img := &Image{Data: data, ElementSize: env.ElementSize, Len: env.Len}
	if err := img.validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Encode captures ga and writes it to w.
func Encode(w io.Writer, ga *garray.Array, opts Options) error {
	return Write(w, Capture(ga), opts)
}

// Decode reads a snapshot and rebuilds it as a new guest array in p.
func Decode(r io.Reader, p garray.Primitive) (*garray.Array, error) {
	img, err := Read(r)
	if err != nil {
		return nil, err
	}
	return img.Build(p)
}

// Restore reads a snapshot of T elements into a new typed array.
func Restore[T any](r io.Reader, p garray.Primitive) (*array.Array[T], error) {
	img, err := Read(r)
	if err != nil {
		return nil, err
	}
	if ok, where := elem.PlainOf[T](); !ok {
		return nil, errors.New(errors.PhaseSnapshot, errors.KindNotPlain).
			GoType(elem.TypeName[T]()).
			Detail("%s holds Go pointers", where).
			Build()
	}
	if size := elem.SizeOf[T](); uintptr(img.ElementSize) != size {
		return nil, errors.SizeMismatch(errors.PhaseSnapshot, elem.TypeName[T](), size, uintptr(img.ElementSize))
	}
	ga, err := img.Build(p)
	if err != nil {
		return nil, err
	}
	return array.Wrap[T](ga), nil
}

// Build allocates a guest array in p holding the image's elements.
func (img *Image) Build(p garray.Primitive) (*garray.Array, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	ga := garray.New(p, false, false, img.ElementSize, img.Len)
	if ga == nil {
		return nil, errors.New(errors.PhaseSnapshot, errors.KindAllocation).
			Detail("out of memory: %d elements of %d bytes", img.Len, img.ElementSize).
			Build()
	}
	if img.Len > 0 {
		ga.Append(img.Data, img.Len)
	}
	return ga, nil
}

func (img *Image) validate() error {
	if img.ElementSize == 0 {
		return errors.InvalidData(errors.PhaseSnapshot, nil, "zero element size")
	}
	if want := uint64(img.Len) * uint64(img.ElementSize); uint64(len(img.Data)) != want {
		return errors.New(errors.PhaseSnapshot, errors.KindInvalidData).
			Detail("%d elements of %d bytes need %d bytes, have %d", img.Len, img.ElementSize, want, len(img.Data)).
			Build()
	}
	return nil
}
