package types

import "strings"

// Descriptor renders a Type as a rule input descriptor string (SPEC_FULL.md
// §5.1): `sint8|...|bool|string`, `[T]`/`[T;N]` for arrays, `(T1,T2,...)`
// for tuples, and `{name:T,...}` with members sorted by name for structs.
// It is the textual contract a host program reads to know what shape of
// JSON a compiled Rule expects.
func Descriptor(t Type) string {
	switch v := t.(type) {
	case Atomic:
		return v.Kind.String()
	case StringLitType, NullLit:
		return "string"
	case ArrayType:
		if v.Size == nil {
			return "[" + Descriptor(v.Component) + "]"
		}
		return "[" + Descriptor(v.Component) + ";" + itoa(*v.Size) + "]"
	case TupleType:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = Descriptor(m)
		}
		return "(" + strings.Join(parts, ",") + ")"
	case StructureType:
		idx := sortedStructFields(v)
		parts := make([]string, len(idx))
		for i, j := range idx {
			parts[i] = v.Names[j] + ":" + Descriptor(v.Types[j])
		}
		return "{" + strings.Join(parts, ",") + "}"
	case AnyType:
		return "any"
	case FuncType:
		return v.String()
	}
	return "?"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
