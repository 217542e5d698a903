// Package eval implements spec.md §4.7 "Runtime and evaluator": a
// tree-walking evaluator over the semantic tree internal/sema produces,
// backed by internal/runtime's value stack and identity heap.
//
// The teacher (internal/evaluator) is itself a tree-walking interpreter
// dispatching on ast.Node via a big type switch, returning
// evaluator.Value from every Eval* method and threading an
// *evaluator.Environment for scoping — that shape (one file per concern,
// a context/environment carried explicitly rather than as interpreter
// state, Go-native panics caught at the top for control flow) is what
// this package imitates, adapted to evaluate the resolved ast.Program
// sema.Analyze produces rather than funxy's untyped AST, and to route
// every atomic push/pop through internal/runtime.Stack so the shell's
// "used size" readout (spec.md §6) reflects genuine stack state.
package eval

import (
	"math"

	"github.com/michael-golfi/rules/internal/runtime"
	"github.com/michael-golfi/rules/internal/types"
)

// Value is the evaluator's working representation of a RulesLang runtime
// value (spec.md §3 "Runtime values"). Atomic values carry their bit
// pattern directly in Raw; reference values carry a heap address in Addr
// (runtime.NullAddr for null).
type Value struct {
	Type types.Type
	Raw  uint64
	Addr int
}

func boolValue(b bool) Value {
	var raw uint64
	if b {
		raw = 1
	}
	return Value{Type: types.Atomic{Kind: types.Bool}, Raw: raw}
}

func (v Value) AsBool() bool { return v.Raw != 0 }

func sintValue(kind types.AtomicKind, n int64) Value {
	return Value{Type: types.Atomic{Kind: kind}, Raw: uint64(n)}
}

func uintValue(kind types.AtomicKind, n uint64) Value {
	return Value{Type: types.Atomic{Kind: kind}, Raw: n}
}

func floatValue(kind types.AtomicKind, f float64) Value {
	var raw uint64
	if kind == types.FP32 {
		raw = uint64(math.Float32bits(float32(f)))
	} else {
		raw = math.Float64bits(f)
	}
	return Value{Type: types.Atomic{Kind: kind}, Raw: raw}
}

func nullValue() Value {
	return Value{Type: types.NullLit{}, Addr: runtime.NullAddr}
}

// concreteAtomicKind widens a still-literal scalar type to the smallest
// atomic kind that represents it, mirroring internal/sema's (unexported)
// widenLiteral — the runtime never stores a bare literal singleton type,
// only concrete atomics or heap references (spec.md §3's "Runtime values"
// has no notion of an as-yet-unwidened literal).
func concreteAtomicKind(t types.Type) types.AtomicKind {
	switch lt := t.(type) {
	case types.BoolLit:
		return types.Bool
	case types.SIntLit:
		switch {
		case lt.Value >= -128 && lt.Value <= 127:
			return types.SInt8
		case lt.Value >= -32768 && lt.Value <= 32767:
			return types.SInt16
		case lt.Value >= -2147483648 && lt.Value <= 2147483647:
			return types.SInt32
		default:
			return types.SInt64
		}
	case types.UIntLit:
		return types.UInt64
	case types.FloatLit:
		return types.FP64
	case types.Atomic:
		return lt.Kind
	}
	return types.SInt64
}

// AsInt64 reinterprets v's bit pattern as a signed integer of its atomic
// width, sign-extending as needed. Valid for signed-integer-kinded values.
func (v Value) AsInt64() int64 {
	k := v.Type.(types.Atomic).Kind
	switch k {
	case types.SInt8:
		return int64(int8(v.Raw))
	case types.SInt16:
		return int64(int16(v.Raw))
	case types.SInt32:
		return int64(int32(v.Raw))
	default:
		return int64(v.Raw)
	}
}

// AsUint64 reinterprets v's bit pattern as an unsigned integer.
func (v Value) AsUint64() uint64 { return v.Raw }

// AsFloat64 reinterprets v's bit pattern as a float of its atomic width.
func (v Value) AsFloat64() float64 {
	k := v.Type.(types.Atomic).Kind
	if k == types.FP32 {
		return float64(math.Float32frombits(uint32(v.Raw)))
	}
	return math.Float64frombits(v.Raw)
}

// IsNull reports whether v is the null reference.
func (v Value) IsNull() bool {
	if _, ok := v.Type.(types.NullLit); ok {
		return true
	}
	return types.IsReference(v.Type) && runtime.IsNull(v.Addr)
}

// byteSize returns the stack/heap footprint of v's type, used to drive
// Stack.Push/Pop and Heap member placement.
func byteSize(t types.Type) int {
	if atomic, ok := t.(types.Atomic); ok {
		return atomic.Kind.ByteSize()
	}
	return runtime.HeaderSize
}

// push writes v onto the evaluator's value stack at its native size
// (spec.md §3), with no alignment padding.
func (e *Evaluator) push(v Value) {
	if types.IsReference(v.Type) {
		e.stack.PushAddr(v.Addr)
		return
	}
	e.stack.PushBytes(v.Raw, byteSize(v.Type))
}

// pop removes the top value of the given static type from the stack.
func (e *Evaluator) pop(t types.Type) Value {
	if types.IsReference(t) {
		return Value{Type: t, Addr: e.stack.PopAddr()}
	}
	return Value{Type: t, Raw: e.stack.PopBytes(byteSize(t))}
}
