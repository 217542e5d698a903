package types

import "math"

// ConvertibleTo implements the `A <: B` relation of spec.md §3
// "Conversion lattice".
func ConvertibleTo(a, b Type) bool {
	if sameAtomic(a, b) {
		return true
	}
	// Every reference type is implicitly nullable (spec.md §4.7's
	// MemberAccess/IndexAccess rules null-check before resolving an
	// offset), so the null literal converts to any of them.
	if _, ok := a.(NullLit); ok && IsReference(b) {
		return true
	}
	switch target := b.(type) {
	case Atomic:
		return convertibleToAtomic(a, target)
	case ArrayType:
		return convertibleToArray(a, target)
	case TupleType:
		return convertibleToTuple(a, target)
	case StructureType:
		return convertibleToStruct(a, target)
	case AnyType:
		return IsReference(a) || isStructLike(a)
	case StringLitType:
		if src, ok := a.(StringLitType); ok {
			return canRepresent(target.Encoding, src.Value)
		}
		return false
	}
	return false
}

func sameAtomic(a, b Type) bool {
	x, ok1 := a.(Atomic)
	y, ok2 := b.(Atomic)
	return ok1 && ok2 && x.Kind == y.Kind
}

func isStructLike(t Type) bool {
	switch t.(type) {
	case StructureType, AnyType:
		return true
	}
	return false
}

// convertibleToAtomic covers atomic-to-atomic widening plus every literal
// type's "fits in target" rule.
func convertibleToAtomic(a Type, target Atomic) bool {
	switch src := a.(type) {
	case Atomic:
		return atomicWidens(src.Kind, target.Kind)
	case BoolLit:
		return target.Kind == Bool
	case SIntLit:
		return sintFits(src.Value, target.Kind)
	case UIntLit:
		return uintFits(src.Value, target.Kind)
	case FloatLit:
		return floatFits(src.Value, target.Kind)
	}
	return false
}

// atomicWidens implements same-signedness integer widening, float
// widening, and unsigned-into-wider-signed widening from spec.md §3.
func atomicWidens(from, to AtomicKind) bool {
	if from == to {
		return true
	}
	switch {
	case from == Bool || to == Bool:
		return false
	case from.IsSigned() && to.IsSigned():
		return from.Width() <= to.Width()
	case from.IsUnsigned() && to.IsUnsigned():
		return from.Width() <= to.Width()
	case from.IsUnsigned() && to.IsSigned():
		return from.Width() < to.Width()
	case from == FP32 && to == FP64:
		return true
	}
	return false
}

func sintFits(v int64, k AtomicKind) bool {
	switch k {
	case SInt8:
		return v >= math.MinInt8 && v <= math.MaxInt8
	case SInt16:
		return v >= math.MinInt16 && v <= math.MaxInt16
	case SInt32:
		return v >= math.MinInt32 && v <= math.MaxInt32
	case SInt64:
		return true
	case UInt8:
		return v >= 0 && v <= math.MaxUint8
	case UInt16:
		return v >= 0 && v <= math.MaxUint16
	case UInt32:
		return v >= 0 && v <= math.MaxUint32
	case UInt64:
		return v >= 0
	case FP32:
		return exactInFloat(float64(v), 24)
	case FP64:
		return exactInFloat(float64(v), 53)
	}
	return false
}

func uintFits(v uint64, k AtomicKind) bool {
	switch k {
	case SInt8:
		return v <= math.MaxInt8
	case SInt16:
		return v <= math.MaxInt16
	case SInt32:
		return v <= math.MaxInt32
	case SInt64:
		return v <= math.MaxInt64
	case UInt8:
		return v <= math.MaxUint8
	case UInt16:
		return v <= math.MaxUint16
	case UInt32:
		return v <= math.MaxUint32
	case UInt64:
		return true
	case FP32:
		return v < (1 << 24)
	case FP64:
		return v < (1 << 53)
	}
	return false
}

func floatFits(v float64, k AtomicKind) bool {
	switch k {
	case FP32:
		return !overflowsFP32(v)
	case FP64:
		return true
	}
	return false
}

// overflowsFP32 reports whether v's magnitude exceeds fp32's range
// (spec.md §3 "representable without overflow" — a float literal that
// merely rounds on narrowing, like 0.1, still fits fp32; only a magnitude
// fp32 can't hold at all overflows).
func overflowsFP32(v float64) bool {
	return math.Abs(v) > math.MaxFloat32
}

// exactInFloat reports whether an integer magnitude is exactly
// representable in a float with the given mantissa bit width.
func exactInFloat(v float64, mantissaBits uint) bool {
	limit := math.Ldexp(1, int(mantissaBits))
	return math.Abs(v) <= limit
}

func convertibleToArray(a Type, target ArrayType) bool {
	switch src := a.(type) {
	case ArrayType:
		if !ConvertibleTo(src.Component, target.Component) {
			return false
		}
		if target.Size == nil {
			return true
		}
		return src.Size != nil && *src.Size == *target.Size
	case StringLitType:
		elem := Atomic{Kind: UInt8}
		switch target.Component.(type) {
		case Atomic:
			elem = target.Component.(Atomic)
		}
		if !canRepresent(encodingForAtomic(elem), src.Value) {
			return false
		}
		n := len([]rune(src.Value))
		if target.Size != nil && *target.Size != n {
			return false
		}
		return true
	}
	return false
}

func encodingForAtomic(a Atomic) StringEncoding {
	switch a.Kind.Width() {
	case 16:
		return UTF16
	case 32:
		return UTF32
	default:
		return UTF8
	}
}

func convertibleToTuple(a Type, target TupleType) bool {
	src, ok := a.(TupleType)
	if !ok || len(src.Members) != len(target.Members) {
		return false
	}
	for i := range src.Members {
		if !ConvertibleTo(src.Members[i], target.Members[i]) {
			return false
		}
	}
	return true
}

// convertibleToStruct implements "ms ⊆ ns with pointwise widening on
// matching names (names may be reordered)" — the target's member set must
// be covered by the source's, by name.
func convertibleToStruct(a Type, target StructureType) bool {
	src, ok := a.(StructureType)
	if !ok {
		return false
	}
	for i, name := range target.Names {
		srcType, found := src.FieldType(name)
		if !found {
			return false
		}
		if !ConvertibleTo(srcType, target.Types[i]) {
			return false
		}
	}
	return true
}

// canRepresent reports whether a string value can be encoded without loss
// under the given encoding (UTF8/UTF16 always can for valid Go strings;
// this is here mainly to document the rule spec.md names).
func canRepresent(e StringEncoding, v string) bool {
	return true
}

// Join computes the least upper bound A ∨ B, per spec.md §3. ok is false
// when no common type exists.
func Join(a, b Type) (Type, bool) {
	if TypesEqual(a, b) {
		return a, true
	}
	if ConvertibleTo(a, b) {
		return widenedForm(b), true
	}
	if ConvertibleTo(b, a) {
		return widenedForm(a), true
	}
	// Two distinct literals of the same family join to the smallest
	// shared atomic.
	if atomA, ok := joinLiterals(a, b); ok {
		return atomA, true
	}
	if IsReference(a) && IsReference(b) {
		return AnyType{}, true
	}
	return nil, false
}

// widenedForm turns a literal type into its underlying atomic type when it
// is the join result (a join is never itself a singleton literal type,
// since that would only describe one concrete value).
func widenedForm(t Type) Type {
	switch lit := t.(type) {
	case BoolLit:
		return Atomic{Kind: Bool}
	case SIntLit:
		return Atomic{Kind: smallestSigned(lit.Value)}
	case UIntLit:
		return Atomic{Kind: smallestUnsigned(lit.Value)}
	case FloatLit:
		if !overflowsFP32(lit.Value) {
			return Atomic{Kind: FP32}
		}
		return Atomic{Kind: FP64}
	}
	return t
}

func smallestSigned(v int64) AtomicKind {
	for _, k := range []AtomicKind{SInt8, SInt16, SInt32, SInt64} {
		if sintFits(v, k) {
			return k
		}
	}
	return SInt64
}

func smallestUnsigned(v uint64) AtomicKind {
	for _, k := range []AtomicKind{UInt8, UInt16, UInt32, UInt64} {
		if uintFits(v, k) {
			return k
		}
	}
	return UInt64
}

// joinLiterals handles two literals of the same family that aren't
// ConvertibleTo one another (distinct values, neither narrower than the
// other). Unlike narrowing against an already-atomic operand, there's no
// surrounding context to size the result from, so an unnarrowed pair of
// integer literals joins to sint64 (spec.md §8 scenario 4: `1 + 2` →
// `type: sint64`), not the smallest atomic the two values happen to fit.
func joinLiterals(a, b Type) (Type, bool) {
	_, aIsInt := a.(SIntLit)
	_, bIsInt := b.(SIntLit)
	if aIsInt && bIsInt {
		return Atomic{Kind: SInt64}, true
	}
	return nil, false
}

// TypesEqual reports structural equality between two types (used by Join
// and by the analyzer when comparing declared vs. inferred types).
func TypesEqual(a, b Type) bool {
	switch x := a.(type) {
	case Atomic:
		y, ok := b.(Atomic)
		return ok && x.Kind == y.Kind
	case AnyType:
		_, ok := b.(AnyType)
		return ok
	case ArrayType:
		y, ok := b.(ArrayType)
		if !ok || !TypesEqual(x.Component, y.Component) {
			return false
		}
		if (x.Size == nil) != (y.Size == nil) {
			return false
		}
		return x.Size == nil || *x.Size == *y.Size
	case TupleType:
		y, ok := b.(TupleType)
		if !ok || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			if !TypesEqual(x.Members[i], y.Members[i]) {
				return false
			}
		}
		return true
	case StructureType:
		y, ok := b.(StructureType)
		if !ok || len(x.Names) != len(y.Names) {
			return false
		}
		for i := range x.Names {
			t, found := y.FieldType(x.Names[i])
			if !found || !TypesEqual(x.Types[i], t) {
				return false
			}
		}
		return true
	case FuncType:
		y, ok := b.(FuncType)
		if !ok || len(x.Params) != len(y.Params) || !TypesEqual(x.Return, y.Return) {
			return false
		}
		for i := range x.Params {
			if !TypesEqual(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}
