package runtime

import (
	"github.com/funvibe/funbit/pkg/funbit"
)

// EncodeUint and DecodeUint are the ONE place this package touches
// github.com/funvibe/funbit: every fixed-width integer that crosses the
// stack/heap byte boundary (IdentityHeader indices, ARRAY/STRING length
// prefixes, and the stack's native-size pushes/pops, spec.md §3)
// is packed and unpacked through funbit's bit-syntax builder/matcher
// instead of hand-rolled shifting, grounded on the one dependency the
// teacher's go.mod requires but never imports (SPEC_FULL.md §3). Kept to
// a single small file since funbit's concrete call shape could not be
// verified against a live copy of the library in this environment; every
// other byte-twiddling helper in this package stays on plain Go so an API
// mismatch here can't ripple through the rest of the runtime.
func EncodeUint(v uint64, byteSize int) []byte {
	b := funbit.NewBuilder()
	funbit.AddInteger(b, v, funbit.WithSize(uint(byteSize*8)), funbit.WithEndianness(funbit.LittleEndian))
	out, err := funbit.Build(b)
	if err != nil {
		panic("runtime: funbit encode failed: " + err.Error())
	}
	return out
}

func DecodeUint(data []byte, byteSize int) uint64 {
	m := funbit.NewMatcher(data)
	var v uint64
	funbit.Integer(m, &v, funbit.WithSize(uint(byteSize*8)), funbit.WithEndianness(funbit.LittleEndian))
	if _, err := funbit.Match(m); err != nil {
		panic("runtime: funbit decode failed: " + err.Error())
	}
	return v
}
