package runtime

import "fmt"

// Heap is an append-only growable buffer of IdentityHeader-prefixed
// objects, scoped to a single rule evaluation (spec.md §5: "each runRule
// invocation starts with an empty heap, no cross-rule retention").
type Heap struct {
	table *Table
	buf   []byte
}

// NewHeap returns an empty heap backed by the given process-wide
// TypeIdentity table.
func NewHeap(table *Table) *Heap {
	return &Heap{table: table}
}

// Alloc allocates HeaderSize+dataSize bytes for a value, writing
// identity's interned index into the IdentityHeader, and returns the
// object's header address. The caller fills the data segment through
// Data.
func (h *Heap) Alloc(identity *TypeIdentity, dataSize int) int {
	addr := len(h.buf)
	h.buf = append(h.buf, make([]byte, HeaderSize+dataSize)...)
	putUint64(h.buf[addr:addr+HeaderSize], uint64(identity.Index))
	return addr
}

// Identity reads back the IdentityHeader at addr and resolves it through
// the interning table.
func (h *Heap) Identity(addr int) *TypeIdentity {
	idx := getUint64(h.buf[addr : addr+HeaderSize])
	return h.table.Lookup(int(idx))
}

// Data returns the mutable data segment following addr's header, sized n
// bytes.
func (h *Heap) Data(addr int, n int) []byte {
	start := addr + HeaderSize
	return h.buf[start : start+n]
}

// IsNull reports whether addr is the null reference sentinel (spec.md §4.7
// "Null reference" failure at member/index access).
func IsNull(addr int) bool { return addr < 0 }

// NullAddr is the sentinel address representing a null reference.
const NullAddr = -1

func putUint64(dst []byte, v uint64) {
	copy(dst, EncodeUint(v, len(dst)))
}

func getUint64(src []byte) uint64 {
	return DecodeUint(src, len(src))
}

// ArrayLength reads an ARRAY object's length prefix.
func (h *Heap) ArrayLength(addr int) int {
	return int(getUint64(h.Data(addr, 8)[:8]))
}

// StringLength reads a STRING object's length prefix.
func (h *Heap) StringLength(addr int) int {
	return int(getUint64(h.Data(addr, 8)[:8]))
}

func init() {
	// guards against accidental HeaderSize/8 drift between this file's
	// fixed-width helpers and identity.go's HeaderSize constant.
	if HeaderSize != 8 {
		panic(fmt.Sprintf("runtime: HeaderSize changed to %d, update heap.go's fixed-width helpers", HeaderSize))
	}
}
