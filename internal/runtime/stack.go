package runtime

import "fmt"

// Stack is the value stack of spec.md §3: a byte buffer with a used-size
// cursor; each push writes at the cursor with no alignment padding.
// Atomic values (bool, integers, floats) live here directly; reference
// values push/pop their heap address (an int, HeaderSize bytes wide).
type Stack struct {
	buf  []byte
	used int
}

// NewStack returns an empty value stack with cap bytes pre-allocated.
func NewStack(cap int) *Stack {
	return &Stack{buf: make([]byte, 0, cap)}
}

// UsedSize returns the stack's current used byte size, printed by the
// shell after each statement-mode submission (spec.md §6).
func (s *Stack) UsedSize() int { return s.used }

func (s *Stack) grow(n int) []byte {
	if s.used+n > len(s.buf) {
		s.buf = append(s.buf, make([]byte, s.used+n-len(s.buf))...)
	}
	at := s.used
	s.used += n
	return s.buf[at : at+n]
}

// PushBytes pushes n raw bytes onto the stack, little-endian, at the
// current used-size cursor (no padding is inserted).
func (s *Stack) PushBytes(v uint64, n int) {
	dst := s.grow(n)
	copy(dst, EncodeUint(v, n))
}

// PopBytes pops the top n bytes and returns them as a little-endian
// uint64.
func (s *Stack) PopBytes(n int) uint64 {
	if s.used < n {
		panic(fmt.Sprintf("runtime: stack underflow popping %d bytes, used=%d", n, s.used))
	}
	s.used -= n
	return DecodeUint(s.buf[s.used:s.used+n], n)
}

// PeekBytes reads the top n bytes without popping them.
func (s *Stack) PeekBytes(n int) uint64 {
	if s.used < n {
		panic(fmt.Sprintf("runtime: stack underflow peeking %d bytes, used=%d", n, s.used))
	}
	return DecodeUint(s.buf[s.used-n:s.used], n)
}

// PushFloat32/PushFloat64 push an IEEE-754 bit pattern already reduced to
// its uint32/uint64 form by the caller (internal/eval owns the
// float<->bits conversion so this package stays free of math bit-casts
// beyond plain shifting).
func (s *Stack) PushFloat32(bits uint32) { s.PushBytes(uint64(bits), 4) }
func (s *Stack) PushFloat64(bits uint64) { s.PushBytes(bits, 8) }
func (s *Stack) PopFloat32() uint32      { return uint32(s.PopBytes(4)) }
func (s *Stack) PopFloat64() uint64      { return s.PopBytes(8) }

// PushAddr/PopAddr move a heap reference's address across the stack.
func (s *Stack) PushAddr(addr int) { s.PushBytes(uint64(addr), HeaderSize) }
func (s *Stack) PopAddr() int      { return int(s.PopBytes(HeaderSize)) }
func (s *Stack) PeekAddr() int     { return int(s.PeekBytes(HeaderSize)) }

// PopTo pops n bytes and writes them into dst at the given offset — used
// by composite-literal evaluation to place a member's value directly into
// its heap slot (spec.md §4.7: "evaluate value[i], push, popTo member
// offset").
func (s *Stack) PopTo(n int, dst []byte, offset int) {
	v := s.PopBytes(n)
	copy(dst[offset:offset+n], EncodeUint(v, n))
}

// PushFrom reads n bytes from src at offset and pushes them — the inverse
// of PopTo, used by member/index access to lift a value out of a heap
// object and onto the stack.
func (s *Stack) PushFrom(n int, src []byte, offset int) {
	s.PushBytes(DecodeUint(src[offset:offset+n], n), n)
}

// Truncate resets the stack to a previously recorded used size, used when
// a function frame or statement's temporaries must be discarded.
func (s *Stack) Truncate(to int) { s.used = to }
