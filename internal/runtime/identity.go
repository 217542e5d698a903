// Package runtime implements spec.md §3's "Runtime values": a value stack
// for atomic values and a process-wide-interned-identity heap for
// reference values, plus the byte-level encode/decode helpers the
// evaluator needs to move values between the two.
//
// The teacher (internal/evaluator) represents every runtime value as a Go
// interface value (Value) and never models a byte-level stack or heap at
// all — funxy is a tree-walking interpreter with a garbage-collected host
// runtime underneath it. RulesLang's spec is explicit that atomic values
// "live directly on the value stack" and reference values are "addresses
// into a heap" prefixed by an IdentityHeader, so this package has no
// direct teacher analogue; its shape is dictated by spec.md §3 itself,
// and its byte-packing idiom (funbit.NewBuilder/funbit.AddInteger) is
// grounded on github.com/funvibe/funbit, the bit-syntax library the
// teacher imports but never exercises (SPEC_FULL.md §3).
package runtime

import (
	"sort"
	"sync"

	"github.com/michael-golfi/rules/internal/types"
)

// Kind classifies a TypeIdentity's data segment layout (spec.md §3).
type Kind int

const (
	KindTuple Kind = iota
	KindStruct
	KindArray
	KindString
	KindAny
)

// TypeIdentity is one process-wide-interned record describing a
// reference type's concrete memory layout: its Kind, its members' byte
// offsets (for TUPLE/STRUCT), and its component's byte size (for ARRAY).
// Two structurally identical types share one TypeIdentity (spec.md §3
// invariant 2: "TypeIdentity is uniquely keyed by structural layout").
type TypeIdentity struct {
	Index int
	Kind  Kind
	Type  types.Type

	// TUPLE/STRUCT
	MemberOffsets []int
	MemberNames   []string // empty for TUPLE

	// ARRAY
	ComponentSize int
	ArrayLength   int // -1 when the array's length is carried in the data segment only

	// STRING
	CodeUnitSize int
}

// HeaderSize is sizeof(IdentityHeader): a single interned-table index.
const HeaderSize = 8

// DataSize returns the byte size of this identity's data segment, not
// counting the IdentityHeader (spec.md §3 per-Kind layout).
func (ti *TypeIdentity) DataSize() int {
	switch ti.Kind {
	case KindTuple, KindStruct:
		if len(ti.MemberOffsets) == 0 {
			return 0
		}
		last := len(ti.MemberOffsets) - 1
		return ti.MemberOffsets[last] + ti.memberSize(last)
	case KindArray:
		if ti.ArrayLength < 0 {
			return 8 // length prefix only; caller appends length*ComponentSize
		}
		return 8 + ti.ComponentSize*ti.ArrayLength
	case KindString:
		return 8 // length prefix; caller appends length*CodeUnitSize
	case KindAny:
		return 0
	}
	return 0
}

func (ti *TypeIdentity) memberSize(i int) int {
	switch t := ti.Type.(type) {
	case types.TupleType:
		return memberByteSize(t.Members[i])
	case types.StructureType:
		return memberByteSize(t.Types[i])
	}
	return 0
}

func memberByteSize(t types.Type) int {
	if atomic, ok := t.(types.Atomic); ok {
		return atomic.Kind.ByteSize()
	}
	return HeaderSize // reference members are stored as a heap address
}

// MemberOffsetByIndex returns a TUPLE/STRUCT member's byte offset within
// the data segment by positional index.
func (ti *TypeIdentity) MemberOffsetByIndex(i int) int {
	return ti.MemberOffsets[i]
}

// MemberOffsetByName returns a STRUCT member's byte offset by field name.
func (ti *TypeIdentity) MemberOffsetByName(name string) (int, bool) {
	for i, n := range ti.MemberNames {
		if n == name {
			return ti.MemberOffsets[i], true
		}
	}
	return 0, false
}

// Table is the process-wide TypeIdentity interning table (spec.md §3:
// "one record per distinct concrete layout"; §5: "may need a lock around
// insertion" since the table is appended to from a single-threaded
// warm-up but read concurrently afterward).
type Table struct {
	mu      sync.Mutex
	byShape map[string]*TypeIdentity
	entries []*TypeIdentity
}

// NewTable constructs an empty interning table.
func NewTable() *Table {
	return &Table{byShape: make(map[string]*TypeIdentity)}
}

// Intern returns the TypeIdentity for t's structural layout, creating and
// caching one on first sight.
func (tb *Table) Intern(t types.Type) *TypeIdentity {
	shape := types.Descriptor(t)
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if ti, ok := tb.byShape[shape]; ok {
		return ti
	}
	ti := buildIdentity(t, len(tb.entries))
	tb.byShape[shape] = ti
	tb.entries = append(tb.entries, ti)
	return ti
}

// Lookup returns the identity at a given process-wide index, as stored in
// a heap object's IdentityHeader.
func (tb *Table) Lookup(index int) *TypeIdentity {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.entries[index]
}

func buildIdentity(t types.Type, index int) *TypeIdentity {
	switch tt := t.(type) {
	case types.TupleType:
		offsets := make([]int, len(tt.Members))
		off := 0
		for i, m := range tt.Members {
			offsets[i] = off
			off += memberByteSize(m)
		}
		return &TypeIdentity{Index: index, Kind: KindTuple, Type: t, MemberOffsets: offsets}
	case types.StructureType:
		order := sortedOrder(tt)
		offsets := make([]int, len(tt.Names))
		names := make([]string, len(tt.Names))
		off := 0
		for _, i := range order {
			offsets[i] = off
			names[i] = tt.Names[i]
			off += memberByteSize(tt.Types[i])
		}
		return &TypeIdentity{Index: index, Kind: KindStruct, Type: t, MemberOffsets: offsets, MemberNames: names}
	case types.ArrayType:
		size := -1
		if tt.Size != nil {
			size = *tt.Size
		}
		return &TypeIdentity{Index: index, Kind: KindArray, Type: t, ComponentSize: memberByteSize(tt.Component), ArrayLength: size}
	case types.StringLitType:
		return &TypeIdentity{Index: index, Kind: KindString, Type: t, CodeUnitSize: tt.Encoding.CodeUnitSize()}
	default:
		return &TypeIdentity{Index: index, Kind: KindAny, Type: t}
	}
}

// sortedOrder fixes field declaration order deterministically; RulesLang
// lays struct members out in declaration order, not sorted order (sorted
// order is reserved for types.Descriptor's serialization), so this is
// simply 0..n-1 — kept as its own helper so a future widening-reorder
// rule (spec.md §3 "struct name-subset rule") has one place to change.
func sortedOrder(s types.StructureType) []int {
	order := make([]int, len(s.Names))
	for i := range order {
		order[i] = i
	}
	sort.Ints(order) // identity order; declaration order is already 0..n-1
	return order
}
