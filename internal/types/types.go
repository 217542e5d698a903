// Package types implements RulesLang's type lattice (spec.md §3 "Type
// lattice", §4.5 "Type system"): atomic types, singleton literal types,
// algebraic composite types, function types, and the conversion/join
// relations between them.
//
// The teacher (internal/typesystem) implements full Hindley-Milner
// polymorphism with type variables and substitution; RulesLang's lattice
// is simpler and closed (no type variables, no unification) — a subtyping
// lattice with explicit widening, per spec.md. The `Type` interface shape
// (String/Kind) and the "one concrete struct per case, dispatched with a
// type switch" idiom are carried over from internal/typesystem/types.go.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// StringEncoding is the code-unit width backing a string value (spec.md
// §3: "StringLit(encoding, value) with encoding ∈ {UTF8, UTF16, UTF32}").
type StringEncoding int

const (
	UTF8 StringEncoding = iota
	UTF16
	UTF32
)

func (e StringEncoding) String() string {
	switch e {
	case UTF8:
		return "utf8"
	case UTF16:
		return "utf16"
	case UTF32:
		return "utf32"
	}
	return "?"
}

// CodeUnitSize returns the byte width of one code unit under this
// encoding, used by the runtime heap's STRING layout (spec.md §3).
func (e StringEncoding) CodeUnitSize() int {
	switch e {
	case UTF8:
		return 1
	case UTF16:
		return 2
	case UTF32:
		return 4
	}
	return 1
}

// AtomicKind enumerates the non-composite, non-literal types of spec.md
// §3: bool plus the signed/unsigned integer and float families.
type AtomicKind int

const (
	Bool AtomicKind = iota
	SInt8
	SInt16
	SInt32
	SInt64
	UInt8
	UInt16
	UInt32
	UInt64
	FP32
	FP64
)

var atomicNames = map[AtomicKind]string{
	Bool: "bool", SInt8: "sint8", SInt16: "sint16", SInt32: "sint32", SInt64: "sint64",
	UInt8: "uint8", UInt16: "uint16", UInt32: "uint32", UInt64: "uint64",
	FP32: "fp32", FP64: "fp64",
}

func (k AtomicKind) String() string { return atomicNames[k] }

// Width returns the bit width of an integer/float atomic kind (1 for Bool).
func (k AtomicKind) Width() int {
	switch k {
	case SInt8, UInt8:
		return 8
	case SInt16, UInt16:
		return 16
	case SInt32, UInt32, FP32:
		return 32
	case SInt64, UInt64, FP64:
		return 64
	}
	return 1
}

// IsSigned reports whether k is a signed integer kind.
func (k AtomicKind) IsSigned() bool {
	switch k {
	case SInt8, SInt16, SInt32, SInt64:
		return true
	}
	return false
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k AtomicKind) IsUnsigned() bool {
	switch k {
	case UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// IsInteger reports whether k is any integer kind (signed or unsigned).
func (k AtomicKind) IsInteger() bool { return k.IsSigned() || k.IsUnsigned() }

// IsFloat reports whether k is FP32 or FP64.
func (k AtomicKind) IsFloat() bool { return k == FP32 || k == FP64 }

// ByteSize returns the value's footprint on the value stack / inside a
// heap layout, in bytes (spec.md §3 "Runtime values").
func (k AtomicKind) ByteSize() int {
	if k == Bool {
		return 1
	}
	return k.Width() / 8
}

// Type is the interface every lattice member implements.
type Type interface {
	String() string
	typeNode()
}

// Atomic is a plain atomic type: bool, an integer kind, or a float kind.
type Atomic struct{ Kind AtomicKind }

func (Atomic) typeNode()       {}
func (a Atomic) String() string { return a.Kind.String() }

// BoolLit is the singleton literal type carrying a boolean's value.
type BoolLit struct{ Value bool }

func (BoolLit) typeNode()        {}
func (l BoolLit) String() string { return fmt.Sprintf("boollit(%v)", l.Value) }

// SIntLit is the singleton literal type of a signed integer literal.
type SIntLit struct{ Value int64 }

func (SIntLit) typeNode()        {}
func (l SIntLit) String() string { return fmt.Sprintf("sintlit(%d)", l.Value) }

// UIntLit is the singleton literal type of an unsigned integer literal
// (used when a decimal literal exceeds the signed 64-bit range, spec.md §8
// boundary case).
type UIntLit struct{ Value uint64 }

func (UIntLit) typeNode()        {}
func (l UIntLit) String() string { return fmt.Sprintf("uintlit(%d)", l.Value) }

// FloatLit is the singleton literal type of a float literal.
type FloatLit struct{ Value float64 }

func (FloatLit) typeNode()        {}
func (l FloatLit) String() string { return fmt.Sprintf("floatlit(%v)", l.Value) }

// StringLitType is the singleton literal type of a string literal.
type StringLitType struct {
	Encoding StringEncoding
	Value    string
}

func (StringLitType) typeNode() {}
func (l StringLitType) String() string {
	return fmt.Sprintf("stringlit(%s,%q)", l.Encoding, l.Value)
}

// NullLit is the singleton literal type of the null literal.
type NullLit struct{}

func (NullLit) typeNode()        {}
func (NullLit) String() string { return "nulllit" }

// ArrayType is a fixed- or unspecified-length homogeneous array.
type ArrayType struct {
	Component Type
	Size      *int // nil means "unspecified length" (only legal as a conversion target)
}

func (ArrayType) typeNode() {}
func (a ArrayType) String() string {
	if a.Size == nil {
		return fmt.Sprintf("[%s]", a.Component)
	}
	return fmt.Sprintf("[%s;%d]", a.Component, *a.Size)
}

// TupleType is a fixed-arity, positionally-typed product.
type TupleType struct{ Members []Type }

func (TupleType) typeNode() {}
func (t TupleType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// StructureType is a named-member product. Member names are unique within
// one StructureType; widening may reorder them (spec.md §3).
type StructureType struct {
	Name  string // empty for an anonymous/inline struct type
	Names []string
	Types []Type
}

func (StructureType) typeNode() {}
func (s StructureType) String() string {
	parts := make([]string, len(s.Names))
	for i := range s.Names {
		parts[i] = fmt.Sprintf("%s:%s", s.Names[i], s.Types[i])
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// FieldType looks up a member's type by name, in declaration order.
func (s StructureType) FieldType(name string) (Type, bool) {
	for i, n := range s.Names {
		if n == name {
			return s.Types[i], true
		}
	}
	return nil, false
}

// AnyType is the empty, open struct — the supertype of every reference
// type (spec.md §3).
type AnyType struct{}

func (AnyType) typeNode()        {}
func (AnyType) String() string { return "any" }

// FuncType is a first-order function signature.
type FuncType struct {
	Name    string
	Params  []Type
	Return  Type
}

func (FuncType) typeNode() {}
func (f FuncType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s)->%s", strings.Join(parts, ","), f.Return)
}

// IsReference reports whether t is a heap-backed reference type (array,
// tuple, struct, string, any, function) as opposed to a stack-resident
// atomic value — used by the runtime to decide stack vs. heap placement.
func IsReference(t Type) bool {
	switch t.(type) {
	case ArrayType, TupleType, StructureType, AnyType, FuncType, StringLitType:
		return true
	}
	return false
}

// sortedStructFields returns a StructureType's (name,type) pairs sorted by
// name, used by Descriptor for deterministic output.
func sortedStructFields(s StructureType) []int {
	idx := make([]int, len(s.Names))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return s.Names[idx[i]] < s.Names[idx[j]] })
	return idx
}
