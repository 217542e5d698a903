package eval

import (
	"fmt"

	"github.com/michael-golfi/rules/internal/runtime"
	"github.com/michael-golfi/rules/internal/types"
)

// DecodeJSON builds a runtime Value of static type t from a
// json.Unmarshal-produced interface{} tree (numbers as float64, objects as
// map[string]interface{}, arrays as []interface{}). internal/rule calls
// this once per rule invocation to turn the caller's input JSON into the
// rule function's sole argument (spec.md §6 "runRule(inputJSON)").
func (e *Evaluator) DecodeJSON(raw interface{}, t types.Type) (Value, error) {
	if raw == nil {
		if !types.IsReference(t) {
			return Value{}, fmt.Errorf("json null is not assignable to %s", t)
		}
		return nullValue(), nil
	}
	switch target := t.(type) {
	case types.Atomic:
		return e.decodeAtomic(raw, target.Kind)
	case types.StringLitType:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected a JSON string for %s, got %T", t, raw)
		}
		return e.allocString(s, target.Encoding), nil
	case types.ArrayType:
		return e.decodeArray(raw, target)
	case types.TupleType:
		return e.decodeTuple(raw, target)
	case types.StructureType:
		return e.decodeStruct(raw, target)
	case types.AnyType:
		return e.decodeDynamic(raw)
	}
	return Value{}, fmt.Errorf("cannot decode JSON into %s", t)
}

func (e *Evaluator) decodeAtomic(raw interface{}, kind types.AtomicKind) (Value, error) {
	switch v := raw.(type) {
	case bool:
		if kind != types.Bool {
			return Value{}, fmt.Errorf("expected %s, got JSON boolean", kind)
		}
		return boolValue(v), nil
	case float64:
		if kind == types.Bool {
			return Value{}, fmt.Errorf("expected JSON boolean, got number")
		}
		if kind.IsFloat() {
			return floatValue(kind, v), nil
		}
		if kind.IsUnsigned() {
			return uintValue(kind, uint64(v)), nil
		}
		return sintValue(kind, int64(v)), nil
	}
	return Value{}, fmt.Errorf("expected a JSON number or boolean for %s, got %T", kind, raw)
}

func (e *Evaluator) decodeArray(raw interface{}, target types.ArrayType) (Value, error) {
	elems, ok := raw.([]interface{})
	if !ok {
		return Value{}, fmt.Errorf("expected a JSON array for %s, got %T", target, raw)
	}
	length := len(elems)
	if target.Size != nil && *target.Size != length {
		return Value{}, fmt.Errorf("array %s expects length %d, got %d", target, *target.Size, length)
	}
	identity := e.table.Intern(target)
	dataSize := 8 + identity.ComponentSize*length
	addr := e.heap.Alloc(identity, dataSize)
	data := e.heap.Data(addr, dataSize)
	copy(data[:8], runtime.EncodeUint(uint64(length), 8))
	for i, el := range elems {
		v, err := e.DecodeJSON(el, target.Component)
		if err != nil {
			return Value{}, fmt.Errorf("array element %d: %w", i, err)
		}
		e.writeMember(addr, 8+identity.ComponentSize*i, v)
	}
	return Value{Type: target, Addr: addr}, nil
}

func (e *Evaluator) decodeTuple(raw interface{}, target types.TupleType) (Value, error) {
	elems, ok := raw.([]interface{})
	if !ok {
		return Value{}, fmt.Errorf("expected a JSON array for %s, got %T", target, raw)
	}
	if len(elems) != len(target.Members) {
		return Value{}, fmt.Errorf("tuple %s expects %d elements, got %d", target, len(target.Members), len(elems))
	}
	identity := e.table.Intern(target)
	addr := e.heap.Alloc(identity, identity.DataSize())
	for i, el := range elems {
		v, err := e.DecodeJSON(el, target.Members[i])
		if err != nil {
			return Value{}, fmt.Errorf("tuple member %d: %w", i, err)
		}
		e.writeMember(addr, identity.MemberOffsetByIndex(i), v)
	}
	return Value{Type: target, Addr: addr}, nil
}

func (e *Evaluator) decodeStruct(raw interface{}, target types.StructureType) (Value, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return Value{}, fmt.Errorf("expected a JSON object for %s, got %T", target, raw)
	}
	identity := e.table.Intern(target)
	addr := e.heap.Alloc(identity, identity.DataSize())
	for i, name := range target.Names {
		field, ok := obj[name]
		if !ok {
			return Value{}, fmt.Errorf("missing field %q for %s", name, target)
		}
		v, err := e.DecodeJSON(field, target.Types[i])
		if err != nil {
			return Value{}, fmt.Errorf("field %q: %w", name, err)
		}
		off, _ := identity.MemberOffsetByName(name)
		e.writeMember(addr, off, v)
	}
	return Value{Type: target, Addr: addr}, nil
}

// decodeDynamic infers a concrete type from raw's JSON shape, mirroring
// internal/sema's inferBareComposite: objects become structs, arrays
// become arrays (mixed-type arrays get an `any` component), scalars become the
// smallest atomic that represents them. Used for an `any`-typed rule
// input, whose shape isn't known ahead of the call.
func (e *Evaluator) decodeDynamic(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return nullValue(), nil
	case bool:
		return boolValue(v), nil
	case float64:
		if v == float64(int64(v)) {
			return sintValue(concreteAtomicKind(types.SIntLit{Value: int64(v)}), int64(v)), nil
		}
		return floatValue(types.FP64, v), nil
	case string:
		return e.allocString(v, types.UTF8), nil
	case []interface{}:
		return e.decodeDynamicArray(v)
	case map[string]interface{}:
		return e.decodeDynamicStruct(v)
	}
	return Value{}, fmt.Errorf("cannot infer a RulesLang type for JSON value %T", raw)
}

func (e *Evaluator) decodeDynamicArray(elems []interface{}) (Value, error) {
	values := make([]Value, len(elems))
	var component types.Type
	for i, el := range elems {
		v, err := e.decodeDynamic(el)
		if err != nil {
			return Value{}, fmt.Errorf("array element %d: %w", i, err)
		}
		values[i] = v
		if i == 0 {
			component = v.Type
		} else if !types.TypesEqual(component, v.Type) {
			component = types.AnyType{}
		}
	}
	if component == nil {
		component = types.AnyType{}
	}
	target := types.ArrayType{Component: component, Size: intPtr(len(elems))}
	identity := e.table.Intern(target)
	dataSize := 8 + identity.ComponentSize*len(elems)
	addr := e.heap.Alloc(identity, dataSize)
	data := e.heap.Data(addr, dataSize)
	copy(data[:8], runtime.EncodeUint(uint64(len(elems)), 8))
	for i, v := range values {
		e.writeMember(addr, 8+identity.ComponentSize*i, v)
	}
	return Value{Type: target, Addr: addr}, nil
}

func (e *Evaluator) decodeDynamicStruct(obj map[string]interface{}) (Value, error) {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	structTypes := make([]types.Type, len(names))
	values := make([]Value, len(names))
	for i, name := range names {
		v, err := e.decodeDynamic(obj[name])
		if err != nil {
			return Value{}, fmt.Errorf("field %q: %w", name, err)
		}
		values[i] = v
		structTypes[i] = v.Type
	}
	target := types.StructureType{Names: names, Types: structTypes}
	identity := e.table.Intern(target)
	addr := e.heap.Alloc(identity, identity.DataSize())
	for i, name := range names {
		off, _ := identity.MemberOffsetByName(name)
		e.writeMember(addr, off, values[i])
	}
	return Value{Type: target, Addr: addr}, nil
}

func intPtr(n int) *int { return &n }

// EncodeJSON converts a runtime Value back into a json.Marshal-able
// interface{} tree — the rule function's return value, serialized as
// spec.md §6's "runRule... returns... a JSON value" success case.
func (e *Evaluator) EncodeJSON(v Value) (interface{}, error) {
	if v.IsNull() {
		return nil, nil
	}
	switch t := v.Type.(type) {
	case types.Atomic:
		if t.Kind == types.Bool {
			return v.AsBool(), nil
		}
		if t.Kind.IsFloat() {
			return v.AsFloat64(), nil
		}
		if t.Kind.IsUnsigned() {
			return v.AsUint64(), nil
		}
		return v.AsInt64(), nil
	case types.StringLitType:
		return e.stringOf(v), nil
	case types.ArrayType:
		return e.encodeArray(v, t)
	case types.TupleType:
		return e.encodeTuple(v, t)
	case types.StructureType:
		return e.encodeStruct(v, t)
	case types.NullLit:
		return nil, nil
	}
	return nil, fmt.Errorf("cannot encode value of type %s to JSON", v.Type)
}

func (e *Evaluator) encodeArray(v Value, t types.ArrayType) (interface{}, error) {
	identity := e.heap.Identity(v.Addr)
	length := e.heap.ArrayLength(v.Addr)
	out := make([]interface{}, length)
	for i := 0; i < length; i++ {
		elem := e.readMember(v.Addr, 8+identity.ComponentSize*i, t.Component)
		enc, err := e.EncodeJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		out[i] = enc
	}
	return out, nil
}

func (e *Evaluator) encodeTuple(v Value, t types.TupleType) (interface{}, error) {
	identity := e.heap.Identity(v.Addr)
	out := make([]interface{}, len(t.Members))
	for i, mt := range t.Members {
		elem := e.readMember(v.Addr, identity.MemberOffsetByIndex(i), mt)
		enc, err := e.EncodeJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("tuple member %d: %w", i, err)
		}
		out[i] = enc
	}
	return out, nil
}

func (e *Evaluator) encodeStruct(v Value, t types.StructureType) (interface{}, error) {
	identity := e.heap.Identity(v.Addr)
	out := make(map[string]interface{}, len(t.Names))
	for i, name := range t.Names {
		off, _ := identity.MemberOffsetByName(name)
		elem := e.readMember(v.Addr, off, t.Types[i])
		enc, err := e.EncodeJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = enc
	}
	return out, nil
}
