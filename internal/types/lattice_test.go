package types

import "testing"

func TestIntegerWideningSameSignedness(t *testing.T) {
	if !ConvertibleTo(Atomic{Kind: SInt8}, Atomic{Kind: SInt32}) {
		t.Fatal("sint8 should widen to sint32")
	}
	if ConvertibleTo(Atomic{Kind: SInt32}, Atomic{Kind: SInt8}) {
		t.Fatal("sint32 should not narrow to sint8")
	}
	if !ConvertibleTo(Atomic{Kind: UInt16}, Atomic{Kind: UInt64}) {
		t.Fatal("uint16 should widen to uint64")
	}
}

func TestUnsignedIntoWiderSigned(t *testing.T) {
	if !ConvertibleTo(Atomic{Kind: UInt8}, Atomic{Kind: SInt16}) {
		t.Fatal("uint8 should convert into sint16 (8 < 16)")
	}
	if ConvertibleTo(Atomic{Kind: UInt16}, Atomic{Kind: SInt16}) {
		t.Fatal("uint16 must not convert into sint16 (16 !< 16)")
	}
	if ConvertibleTo(Atomic{Kind: SInt16}, Atomic{Kind: UInt16}) {
		t.Fatal("signed never widens into unsigned")
	}
}

func TestFloatWidening(t *testing.T) {
	if !ConvertibleTo(Atomic{Kind: FP32}, Atomic{Kind: FP64}) {
		t.Fatal("fp32 should widen to fp64")
	}
	if ConvertibleTo(Atomic{Kind: FP64}, Atomic{Kind: FP32}) {
		t.Fatal("fp64 should not narrow to fp32")
	}
}

func TestIntegerLiteralFitsTarget(t *testing.T) {
	if !ConvertibleTo(SIntLit{Value: 100}, Atomic{Kind: SInt8}) {
		t.Fatal("100 should fit in sint8")
	}
	if ConvertibleTo(SIntLit{Value: 200}, Atomic{Kind: SInt8}) {
		t.Fatal("200 should not fit in sint8")
	}
	if !ConvertibleTo(SIntLit{Value: 200}, Atomic{Kind: UInt8}) {
		t.Fatal("200 should fit in uint8")
	}
}

func TestUIntLitBoundaryCase(t *testing.T) {
	// 9223372036854775808 == 2^63, exceeds SInt64's range, representable
	// only as UIntLit/uint64 (spec.md §8 boundary case).
	big := UIntLit{Value: 9223372036854775808}
	if !ConvertibleTo(big, Atomic{Kind: UInt64}) {
		t.Fatal("2^63 should fit in uint64")
	}
	if ConvertibleTo(big, Atomic{Kind: SInt64}) {
		t.Fatal("2^63 should not fit in sint64")
	}
}

func TestNegativeBoundaryFitsSInt64(t *testing.T) {
	min := SIntLit{Value: -9223372036854775808}
	if !ConvertibleTo(min, Atomic{Kind: SInt64}) {
		t.Fatal("-2^63 should fit in sint64")
	}
}

func TestStringLiteralToArrayOfChar(t *testing.T) {
	lit := StringLitType{Encoding: UTF8, Value: "hi"}
	n := 2
	target := ArrayType{Component: Atomic{Kind: UInt8}, Size: &n}
	if !ConvertibleTo(lit, target) {
		t.Fatal("2-char string literal should convert to a fixed 2-element uint8 array")
	}
	wrong := 5
	target.Size = &wrong
	if ConvertibleTo(lit, target) {
		t.Fatal("string literal should not convert to a mismatched fixed-size array")
	}
}

func TestArrayWidening(t *testing.T) {
	src := ArrayType{Component: Atomic{Kind: SInt8}}
	dst := ArrayType{Component: Atomic{Kind: SInt32}}
	if !ConvertibleTo(src, dst) {
		t.Fatal("array of sint8 should widen to array of sint32 when target size is unspecified")
	}
	n := 3
	dstFixed := ArrayType{Component: Atomic{Kind: SInt32}, Size: &n}
	if ConvertibleTo(src, dstFixed) {
		t.Fatal("unspecified-length source should not convert to a fixed-length target")
	}
}

func TestTupleWidening(t *testing.T) {
	src := TupleType{Members: []Type{Atomic{Kind: SInt8}, Atomic{Kind: FP32}}}
	dst := TupleType{Members: []Type{Atomic{Kind: SInt32}, Atomic{Kind: FP64}}}
	if !ConvertibleTo(src, dst) {
		t.Fatal("tuple should widen pointwise")
	}
}

func TestStructureWideningWithReorderAndDrop(t *testing.T) {
	src := StructureType{
		Names: []string{"x", "y", "extra"},
		Types: []Type{Atomic{Kind: SInt8}, Atomic{Kind: Bool}, Atomic{Kind: FP64}},
	}
	dst := StructureType{
		Names: []string{"y", "x"},
		Types: []Type{Atomic{Kind: Bool}, Atomic{Kind: SInt32}},
	}
	if !ConvertibleTo(src, dst) {
		t.Fatal("struct should convert when target fields are a reordered subset with widening types")
	}
	missing := StructureType{Names: []string{"nope"}, Types: []Type{Atomic{Kind: Bool}}}
	if ConvertibleTo(src, missing) {
		t.Fatal("struct conversion should fail when target names a field the source lacks")
	}
}

func TestAnyAcceptsEveryReferenceType(t *testing.T) {
	refs := []Type{
		ArrayType{Component: Atomic{Kind: SInt8}},
		TupleType{Members: []Type{Atomic{Kind: Bool}}},
		StructureType{Names: []string{"a"}, Types: []Type{Atomic{Kind: Bool}}},
	}
	for _, r := range refs {
		if !ConvertibleTo(r, AnyType{}) {
			t.Errorf("%v should convert to any", r)
		}
	}
	if ConvertibleTo(Atomic{Kind: SInt32}, AnyType{}) {
		t.Fatal("atomic (stack) types should not convert to any")
	}
}

func TestJoinAtomicWidening(t *testing.T) {
	got, ok := Join(Atomic{Kind: SInt8}, Atomic{Kind: SInt32})
	if !ok || !TypesEqual(got, Atomic{Kind: SInt32}) {
		t.Fatalf("join(sint8, sint32) = %v, %v", got, ok)
	}
}

func TestJoinLiteralWithAtomic(t *testing.T) {
	got, ok := Join(SIntLit{Value: 5}, Atomic{Kind: FP64})
	if !ok {
		t.Fatal("expected literal to join with a wider-compatible atomic")
	}
	_ = got
}

func TestJoinTwoIntLiterals(t *testing.T) {
	got, ok := Join(SIntLit{Value: 5}, SIntLit{Value: 300})
	if !ok || !TypesEqual(got, Atomic{Kind: SInt16}) {
		t.Fatalf("join(5, 300) = %v, %v, want sint16", got, ok)
	}
}

func TestJoinIncompatibleFails(t *testing.T) {
	_, ok := Join(Atomic{Kind: Bool}, Atomic{Kind: SInt32})
	if ok {
		t.Fatal("bool and sint32 should not have a join")
	}
}

func TestJoinTwoReferenceTypesFallsBackToAny(t *testing.T) {
	a := StructureType{Names: []string{"x"}, Types: []Type{Atomic{Kind: SInt8}}}
	b := StructureType{Names: []string{"y"}, Types: []Type{Atomic{Kind: Bool}}}
	got, ok := Join(a, b)
	if !ok || !TypesEqual(got, AnyType{}) {
		t.Fatalf("join of unrelated structs should fall back to any, got %v, %v", got, ok)
	}
}
