package runtime

import (
	"testing"

	"github.com/michael-golfi/rules/internal/types"
)

func TestInternReturnsSameIdentityForEqualShapes(t *testing.T) {
	tb := NewTable()
	a := types.StructureType{Names: []string{"x", "y"}, Types: []types.Type{types.Atomic{Kind: types.SInt32}, types.Atomic{Kind: types.Bool}}}
	b := types.StructureType{Names: []string{"x", "y"}, Types: []types.Type{types.Atomic{Kind: types.SInt32}, types.Atomic{Kind: types.Bool}}}
	ia := tb.Intern(a)
	ib := tb.Intern(b)
	if ia != ib {
		t.Fatalf("expected two structurally identical structs to share one TypeIdentity")
	}
}

func TestInternDistinguishesDifferentLayouts(t *testing.T) {
	tb := NewTable()
	ia := tb.Intern(types.Atomic{Kind: types.SInt32})
	ib := tb.Intern(types.TupleType{Members: []types.Type{types.Atomic{Kind: types.SInt32}}})
	if ia == ib {
		t.Fatalf("expected different shapes to get different identities")
	}
}

func TestStackPushPopRoundTrip(t *testing.T) {
	s := NewStack(16)
	s.PushBytes(42, 4)
	s.PushBytes(7, 1)
	if got := s.PopBytes(1); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := s.PopBytes(4); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if s.UsedSize() != 0 {
		t.Fatalf("expected an empty stack after popping everything, got used=%d", s.UsedSize())
	}
}

func TestStackAddrRoundTrip(t *testing.T) {
	s := NewStack(16)
	s.PushAddr(100)
	if got := s.PeekAddr(); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := s.PopAddr(); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestHeapAllocWritesIdentityHeader(t *testing.T) {
	tb := NewTable()
	h := NewHeap(tb)
	ti := tb.Intern(types.TupleType{Members: []types.Type{types.Atomic{Kind: types.SInt32}, types.Atomic{Kind: types.Bool}}})
	addr := h.Alloc(ti, ti.DataSize())
	got := h.Identity(addr)
	if got != ti {
		t.Fatalf("expected Identity(addr) to resolve back to the allocating identity")
	}
}

func TestHeapTupleMemberOffsets(t *testing.T) {
	tb := NewTable()
	tuple := types.TupleType{Members: []types.Type{types.Atomic{Kind: types.SInt32}, types.Atomic{Kind: types.Bool}}}
	ti := tb.Intern(tuple)
	if ti.MemberOffsetByIndex(0) != 0 {
		t.Fatalf("expected first member at offset 0, got %d", ti.MemberOffsetByIndex(0))
	}
	if ti.MemberOffsetByIndex(1) != 4 {
		t.Fatalf("expected second member (after a 4-byte sint32) at offset 4, got %d", ti.MemberOffsetByIndex(1))
	}
}

func TestHeapStructMemberOffsetByName(t *testing.T) {
	tb := NewTable()
	st := types.StructureType{Names: []string{"x", "y"}, Types: []types.Type{types.Atomic{Kind: types.SInt64}, types.Atomic{Kind: types.SInt8}}}
	ti := tb.Intern(st)
	off, ok := ti.MemberOffsetByName("y")
	if !ok || off != 8 {
		t.Fatalf("expected field y at offset 8, got offset=%d ok=%v", off, ok)
	}
}

func TestArrayIdentityCarriesComponentSize(t *testing.T) {
	tb := NewTable()
	n := 3
	ti := tb.Intern(types.ArrayType{Component: types.Atomic{Kind: types.SInt16}, Size: &n})
	if ti.ComponentSize != 2 {
		t.Fatalf("expected a sint16 array's component size to be 2, got %d", ti.ComponentSize)
	}
}

func TestIsNullSentinel(t *testing.T) {
	if !IsNull(NullAddr) {
		t.Fatalf("expected NullAddr to be recognized as null")
	}
	if IsNull(0) {
		t.Fatalf("expected address 0 to be a valid, non-null address")
	}
}
