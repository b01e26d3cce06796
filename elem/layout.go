package elem

import (
	"go.bytecodealliance.org/wit"
)

// Info is the size and alignment of one element in guest memory.
type Info struct {
	Size  uint32
	Align uint32
}

// Of returns the canonical ABI layout of t as an array element.
// Unknown kinds report size 0, which never matches a Go element type.
func Of(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case wit.String:
		return Info{Size: 8, Align: 4}
	case *wit.TypeDef:
		return ofTypeDef(typ)
	}
	return Info{Size: 0, Align: 1}
}

func ofTypeDef(td *wit.TypeDef) Info {
	switch k := td.Kind.(type) {
	case *wit.Record:
		types := make([]wit.Type, len(k.Fields))
		for i, f := range k.Fields {
			types[i] = f.Type
		}
		return sequence(types)
	case *wit.Tuple:
		return sequence(k.Types)
	case *wit.List:
		return Info{Size: 8, Align: 4}
	case *wit.Own, *wit.Borrow:
		return Info{Size: 4, Align: 4}
	case *wit.Enum:
		d := DiscriminantSize(len(k.Cases))
		return Info{Size: d, Align: d}
	case *wit.Flags:
		return flags(len(k.Flags))
	case *wit.Option:
		return tagged(1, k.Type)
	case *wit.Result:
		return tagged(1, k.OK, k.Err)
	case *wit.Variant:
		payloads := make([]wit.Type, len(k.Cases))
		for i, c := range k.Cases {
			payloads[i] = c.Type
		}
		return tagged(DiscriminantSize(len(k.Cases)), payloads...)
	case wit.Type:
		return Of(k)
	}
	return Info{Size: 0, Align: 1}
}

// sequence lays types out one after another, padding each to its alignment.
func sequence(types []wit.Type) Info {
	if len(types) == 0 {
		return Info{Size: 0, Align: 1}
	}
	align := uint32(1)
	offset := uint32(0)
	for _, t := range types {
		l := Of(t)
		offset = AlignTo(offset, l.Align) + l.Size
		align = max(align, l.Align)
	}
	return Info{Size: AlignTo(offset, align), Align: align}
}

// tagged is a discriminant followed by the largest payload. Nil payloads are empty cases.
func tagged(disc uint32, payloads ...wit.Type) Info {
	align := disc
	size := uint32(0)
	for _, p := range payloads {
		if p == nil {
			continue
		}
		l := Of(p)
		align = max(align, l.Align)
		size = max(size, l.Size)
	}
	return Info{Size: AlignTo(AlignTo(disc, align)+size, align), Align: align}
}

func flags(n int) Info {
	switch {
	case n == 0:
		return Info{Size: 0, Align: 1}
	case n <= 8:
		return Info{Size: 1, Align: 1}
	case n <= 16:
		return Info{Size: 2, Align: 2}
	}
	return Info{Size: uint32((n+31)/32) * 4, Align: 4}
}

// DiscriminantSize is the byte width of a tag distinguishing numCases cases.
func DiscriminantSize(numCases int) uint32 {
	switch {
	case numCases <= 256:
		return 1
	case numCases <= 65536:
		return 2
	}
	return 4
}

// Name returns a short WIT spelling of t for error messages.
func Name(t wit.Type) string {
	switch typ := t.(type) {
	case nil:
		return "nil"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		switch typ.Kind.(type) {
		case *wit.Record:
			return "record"
		case *wit.Tuple:
			return "tuple"
		case *wit.List:
			return "list"
		case *wit.Own:
			return "own"
		case *wit.Borrow:
			return "borrow"
		case *wit.Enum:
			return "enum"
		case *wit.Flags:
			return "flags"
		case *wit.Option:
			return "option"
		case *wit.Result:
			return "result"
		case *wit.Variant:
			return "variant"
		}
	}
	return "unknown"
}
