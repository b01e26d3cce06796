package elem

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestOf_Primitives(t *testing.T) {
	tests := []struct {
		typ   wit.Type
		name  string
		size  uint32
		align uint32
	}{
		{wit.Bool{}, "bool", 1, 1},
		{wit.U8{}, "u8", 1, 1},
		{wit.S8{}, "s8", 1, 1},
		{wit.U16{}, "u16", 2, 2},
		{wit.S16{}, "s16", 2, 2},
		{wit.U32{}, "u32", 4, 4},
		{wit.S32{}, "s32", 4, 4},
		{wit.U64{}, "u64", 8, 8},
		{wit.S64{}, "s64", 8, 8},
		{wit.F32{}, "f32", 4, 4},
		{wit.F64{}, "f64", 8, 8},
		{wit.Char{}, "char", 4, 4},
		{wit.String{}, "string", 8, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := Of(tc.typ)
			if info.Size != tc.size || info.Align != tc.align {
				t.Errorf("got %+v, want size %d align %d", info, tc.size, tc.align)
			}
			if Name(tc.typ) != tc.name {
				t.Errorf("Name = %q, want %q", Name(tc.typ), tc.name)
			}
		})
	}
}

func TestOf_Compound(t *testing.T) {
	point := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.U8{}},
		{Name: "y", Type: wit.U32{}},
		{Name: "z", Type: wit.U16{}},
	}}}

	tests := []struct {
		name  string
		typ   wit.Type
		size  uint32
		align uint32
	}{
		{"record padded", point, 12, 4},
		{"empty record", &wit.TypeDef{Kind: &wit.Record{}}, 0, 1},
		{"tuple", &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U64{}, wit.U8{}}}}, 16, 8},
		{"list", &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, 8, 4},
		{"own", &wit.TypeDef{Kind: &wit.Own{}}, 4, 4},
		{"borrow", &wit.TypeDef{Kind: &wit.Borrow{}}, 4, 4},
		{"enum", &wit.TypeDef{Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "a"}, {Name: "b"}}}}, 1, 1},
		{"flags 9", &wit.TypeDef{Kind: &wit.Flags{Flags: make([]wit.Flag, 9)}}, 2, 2},
		{"flags 70", &wit.TypeDef{Kind: &wit.Flags{Flags: make([]wit.Flag, 70)}}, 12, 4},
		{"option u32", &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}, 8, 4},
		{"result u64/none", &wit.TypeDef{Kind: &wit.Result{OK: wit.U64{}}}, 16, 8},
		{"result none/none", &wit.TypeDef{Kind: &wit.Result{}}, 1, 1},
		{"variant", &wit.TypeDef{Kind: &wit.Variant{Cases: []wit.Case{
			{Name: "a", Type: wit.U16{}},
			{Name: "b"},
		}}}, 4, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := Of(tc.typ)
			if info.Size != tc.size || info.Align != tc.align {
				t.Errorf("got %+v, want size %d align %d", info, tc.size, tc.align)
			}
		})
	}
}

func TestDiscriminantSize(t *testing.T) {
	cases := map[int]uint32{1: 1, 256: 1, 257: 2, 65536: 2, 65537: 4}
	for n, want := range cases {
		if got := DiscriminantSize(n); got != want {
			t.Errorf("DiscriminantSize(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestName_Unknown(t *testing.T) {
	if Name(nil) != "nil" {
		t.Error("nil type should be named nil")
	}
	if Name(&wit.TypeDef{Kind: &wit.Record{}}) != "record" {
		t.Error("anonymous record should be named record")
	}
}
