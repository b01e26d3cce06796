package snapshot

import (
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/wasm-array/errors"
)

// Compression identifies how the element bytes of a snapshot are stored.
// The values are written to snapshot files and must not change.
type Compression uint8

const (
	None Compression = 0
	LZ4  Compression = 1
	Zstd Compression = 2
	// Group transposes the bytes of each element by position before LZ4,
	// so that byte 0 of every element comes first, then byte 1, and so on.
	Group Compression = 3
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	case Group:
		return "group"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name as printed by String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	case "group":
		return Group, nil
	}
	return 0, errors.New(errors.PhaseSnapshot, errors.KindInvalidInput).
		Value(name).
		Detail("unknown compression %q", name).
		Build()
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(math.MaxUint32))
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

// compress returns the compressed form of data and the compression actually
// used. Data that does not shrink is stored uncompressed.
func compress(data []byte, c Compression, width int) ([]byte, Compression, error) {
	if len(data) == 0 {
		return data, None, nil
	}
	var out []byte
	switch c {
	case None:
		return data, None, nil
	case LZ4:
		out = compressLZ4(data)
	case Zstd:
		out = zstdEncoder.EncodeAll(data, nil)
	case Group:
		out = compressLZ4(groupBytes(data, width))
	default:
		return nil, 0, errors.Unsupported(errors.PhaseSnapshot, "compression "+c.String())
	}
	if out == nil || len(out) >= len(data) {
		return data, None, nil
	}
	return out, c, nil
}

// maxLZ4Ratio bounds how far an LZ4 block can expand: every 255 output
// bytes of a match cost at least one input byte.
const maxLZ4Ratio = 255

// decompress expands data to exactly size bytes. size comes from the file, so
// it is checked against what data can possibly expand to before allocating.
func decompress(data []byte, c Compression, width, size int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case None:
		out = data
	case LZ4, Group:
		if uint64(size) > maxLZ4Ratio*uint64(len(data))+64 {
			return nil, errors.New(errors.PhaseSnapshot, errors.KindInvalidData).
				Detail("%s block of %d bytes cannot expand to %d", c, len(data), size).
				Build()
		}
		out, err = decompressLZ4(data, size)
		if err == nil && c == Group {
			out = ungroupBytes(out, width)
		}
	case Zstd:
		var hdr zstd.Header
		if hdr.Decode(data) == nil && hdr.HasFCS && hdr.FrameContentSize != uint64(size) {
			return nil, errors.New(errors.PhaseSnapshot, errors.KindInvalidData).
				Detail("zstd frame holds %d bytes, expected %d", hdr.FrameContentSize, size).
				Build()
		}
		out, err = zstdDecoder.DecodeAll(data, nil)
	default:
		return nil, errors.Unsupported(errors.PhaseSnapshot, "compression "+c.String())
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSnapshot, errors.KindInvalidData, err, c.String()+" decompress")
	}
	if len(out) != size {
		return nil, errors.New(errors.PhaseSnapshot, errors.KindInvalidData).
			Detail("%s decompress: got %d bytes, expected %d", c, len(out), size).
			Build()
	}
	return out, nil
}

// compressLZ4 returns nil when data is incompressible.
func compressLZ4(data []byte) []byte {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil || n == 0 {
		return nil
	}
	return dst[:n]
}

func decompressLZ4(data []byte, size int) ([]byte, error) {
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// groupBytes transposes data made of width-byte elements so that equal byte
// positions are adjacent. Trailing bytes that do not fill an element are kept
// as-is at the end.
func groupBytes(data []byte, width int) []byte {
	if width <= 1 {
		return data
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for i := 0; i < n; i++ {
		for b := 0; b < width; b++ {
			out[b*n+i] = data[i*width+b]
		}
	}
	copy(out[n*width:], data[n*width:])
	return out
}

func ungroupBytes(data []byte, width int) []byte {
	if width <= 1 {
		return data
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for i := 0; i < n; i++ {
		for b := 0; b < width; b++ {
			out[i*width+b] = data[b*n+i]
		}
	}
	copy(out[n*width:], data[n*width:])
	return out
}
