package eval

import (
	"unicode/utf16"

	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/runtime"
	"github.com/michael-golfi/rules/internal/sema"
	"github.com/michael-golfi/rules/internal/token"
	"github.com/michael-golfi/rules/internal/types"
)

// evalExpr dispatches on e's concrete type, mirroring internal/sema's
// inferExpr switch one-to-one (spec.md §4.7's evaluation rules are stated
// per the same node kinds sema's typing rules cover).
func (e *Evaluator) evalExpr(expr ast.Expression) Value {
	switch ex := expr.(type) {
	case *ast.BooleanLiteral:
		return boolValue(ex.Value)
	case *ast.IntegerLiteral:
		kind := concreteAtomicKind(e.typeOf(ex))
		if kind.IsUnsigned() {
			if ex.Unsigned {
				return uintValue(kind, ex.UnsignedValue)
			}
			return uintValue(kind, uint64(ex.Value))
		}
		return sintValue(kind, ex.Value)
	case *ast.FloatLiteral:
		kind := concreteAtomicKind(e.typeOf(ex))
		return floatValue(kind, ex.Value)
	case *ast.StringLiteral:
		return e.allocString(ex.Value, types.UTF8)
	case *ast.NullLiteral:
		return nullValue()
	case *ast.Identifier:
		v, ok := e.top.lookup(ex.Name)
		if !ok {
			rlerrors.Internal("eval: identifier %q escaped semantic analysis unbound", ex.Name)
		}
		return *v
	case *ast.ContextFieldAccess:
		if v, ok := e.context[ex.Name]; ok {
			return v
		}
		return nullValue()
	case *ast.FieldAccess:
		return e.evalFieldAccess(ex)
	case *ast.IndexAccess:
		return e.evalIndexAccess(ex)
	case *ast.FunctionCall:
		return e.evalFunctionCall(ex)
	case *ast.Sign:
		return e.evalSign(ex)
	case *ast.LogicalNot:
		v := e.evalExpr(ex.Operand)
		return boolValue(!v.AsBool())
	case *ast.BitwiseNot:
		v := e.evalExpr(ex.Operand)
		return e.evalBitwiseNot(v)
	case *ast.Infix:
		return e.evalInfix(ex)
	case *ast.BinaryExpr:
		return e.evalBinary(ex)
	case *ast.CompareChain:
		return e.evalCompareChain(ex)
	case *ast.Conditional:
		cond := e.evalExpr(ex.Condition)
		if cond.AsBool() {
			return e.evalExpr(ex.Then)
		}
		return e.evalExpr(ex.Else)
	case *ast.CompositeLiteral:
		return e.evalCompositeLiteral(ex, e.typeOf(ex))
	case *ast.Initializer:
		return e.evalCompositeLiteral(ex.Literal, e.typeOf(ex))
	case *ast.TypeConversion:
		return e.evalTypeConversion(ex)
	}
	rlerrors.Internal("evalExpr: unhandled expression %T", expr)
	return Value{}
}

func (e *Evaluator) evalSign(ex *ast.Sign) Value {
	v := e.evalExpr(ex.Operand)
	if !ex.Negative {
		return v
	}
	atomic := v.Type.(types.Atomic)
	if atomic.Kind.IsFloat() {
		return floatValue(atomic.Kind, -v.AsFloat64())
	}
	return sintValue(atomic.Kind, -v.AsInt64())
}

func (e *Evaluator) evalBitwiseNot(v Value) Value {
	atomic := v.Type.(types.Atomic)
	if atomic.Kind.IsUnsigned() {
		mask := uint64(1)<<uint(atomic.Kind.Width()) - 1
		if atomic.Kind.Width() == 64 {
			mask = ^uint64(0)
		}
		return uintValue(atomic.Kind, ^v.AsUint64()&mask)
	}
	return sintValue(atomic.Kind, ^v.AsInt64())
}

// evalFieldAccess implements spec.md §4.7's MemberAccess rule: evaluate
// the object, null-check, resolve the member's offset from its heap
// identity, push the member value.
func (e *Evaluator) evalFieldAccess(fa *ast.FieldAccess) Value {
	obj := e.evalExpr(fa.Value)
	if obj.IsNull() {
		e.runtimeError(rlerrors.ErrE002, fa.Span(), fa.Name, "Null reference")
	}
	identity := e.heap.Identity(obj.Addr)
	memberType, off, ok := e.resolveMember(identity, fa.Name)
	if !ok {
		rlerrors.Internal("eval: field %q missing from interned identity for %s", fa.Name, identity.Type)
	}
	return e.readMember(obj.Addr, off, memberType)
}

func (e *Evaluator) resolveMember(identity *runtime.TypeIdentity, name string) (types.Type, int, bool) {
	switch identity.Kind {
	case runtime.KindStruct:
		off, ok := identity.MemberOffsetByName(name)
		if !ok {
			return nil, 0, false
		}
		st := identity.Type.(types.StructureType)
		mt, _ := st.FieldType(name)
		return mt, off, true
	case runtime.KindTuple:
		idx, ok := tupleIndex(name)
		if !ok {
			return nil, 0, false
		}
		tt := identity.Type.(types.TupleType)
		if idx < 0 || idx >= len(tt.Members) {
			return nil, 0, false
		}
		return tt.Members[idx], identity.MemberOffsetByIndex(idx), true
	}
	return nil, 0, false
}

func tupleIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	n := 0
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (e *Evaluator) readMember(objAddr, offset int, memberType types.Type) Value {
	n := byteSize(memberType)
	data := e.heap.Data(objAddr, offset+n)
	if types.IsReference(memberType) {
		addr := int(runtime.DecodeUint(data[offset:offset+n], n))
		return Value{Type: memberType, Addr: addr}
	}
	return Value{Type: memberType, Raw: runtime.DecodeUint(data[offset:offset+n], n)}
}

func (e *Evaluator) writeMember(objAddr, offset int, v Value) {
	n := byteSize(v.Type)
	data := e.heap.Data(objAddr, offset+n)
	if types.IsReference(v.Type) {
		copy(data[offset:offset+n], runtime.EncodeUint(uint64(v.Addr), n))
		return
	}
	copy(data[offset:offset+n], runtime.EncodeUint(v.Raw, n))
}

// evalIndexAccess implements spec.md §4.7's IndexAccess rule for ARRAY
// values: bounds-checked, offset = sizeof(length)+componentSize*index.
func (e *Evaluator) evalIndexAccess(ix *ast.IndexAccess) Value {
	obj := e.evalExpr(ix.Value)
	idx := e.evalExpr(ix.Index)
	if obj.IsNull() {
		e.runtimeError(rlerrors.ErrE002, ix.Span(), "", "Null reference")
	}
	identity := e.heap.Identity(obj.Addr)
	if identity.Kind != runtime.KindArray {
		rlerrors.Internal("eval: index access on non-array identity %s", identity.Type)
	}
	length := e.heap.ArrayLength(obj.Addr)
	i := idx.AsInt64()
	if i < 0 || i >= int64(length) {
		e.runtimeError(rlerrors.ErrE003, ix.Index.Span(), "", "index %d out of bounds for array of length %d", i, length)
	}
	component := identity.Type.(types.ArrayType).Component
	offset := 8 + identity.ComponentSize*int(i)
	return e.readMember(obj.Addr, offset, component)
}

// evalFunctionCall implements spec.md §4.7's FunctionCall rule: evaluate
// arguments in reverse declaration order (the first argument ends up on
// top of the stack), invoke the resolved overload in a fresh frame, pop
// arguments into parameter slots, execute the body, and surface its
// return value.
func (e *Evaluator) evalFunctionCall(call *ast.FunctionCall) Value {
	fn, ok := e.sem.CallTarget[call]
	if !ok {
		rlerrors.Internal("eval: call site missing its resolved overload")
	}
	return e.invoke(fn, call.Args)
}

func (e *Evaluator) evalInfix(in *ast.Infix) Value {
	fn, ok := e.sem.InfixTarget[in]
	if !ok {
		rlerrors.Internal("eval: infix call site missing its resolved overload")
	}
	return e.invoke(fn, []ast.Expression{in.Left, in.Right})
}

func (e *Evaluator) invoke(fn *sema.Function, args []ast.Expression) Value {
	values := make([]Value, len(args))
	for i := len(args) - 1; i >= 0; i-- {
		values[i] = e.evalExpr(args[i])
		e.push(values[i])
	}
	for i := range values {
		values[i] = e.pop(fn.Params[i])
	}
	return e.invokeValues(fn, values)
}

// InvokeWithValues calls fn with already-materialized argument values
// rather than unevaluated ast.Expression nodes. internal/rule uses this to
// dispatch a rule's entry-point function against its JSON-decoded input,
// which never existed as source-level arguments to evaluate.
func (e *Evaluator) InvokeWithValues(fn *sema.Function, args []Value) Value {
	return e.invokeValues(fn, args)
}

func (e *Evaluator) invokeValues(fn *sema.Function, args []Value) Value {
	callee := fn.Def
	e.pushFrame()
	for i := range callee.Params {
		e.top.declare(callee.Params[i].Name, args[i])
	}
	var result Value
	for _, s := range callee.Body {
		flow := e.evalStatement(s)
		if flow.Action == Return {
			if flow.Value != nil {
				result = *flow.Value
			}
			break
		}
	}
	e.popFrame()
	return result
}

func (e *Evaluator) evalCompareChain(c *ast.CompareChain) Value {
	left := e.evalExpr(c.Left)
	for _, step := range c.Comparisons {
		right := e.evalExpr(step.Right)
		ok := e.compareValues(step.Op, left, right)
		if !ok {
			return boolValue(false)
		}
		left = right
	}
	if c.TypeCompare != nil {
		target := e.sem.TypeCompareTarget[c]
		if !evalTypeCompare(c.TypeCompare.Op, left.Type, target) {
			return boolValue(false)
		}
	}
	return boolValue(true)
}

// evalTypeCompare implements spec.md §4.3's trailing type-compare clause
// (`e (::|!:|<:|>:|<<:|>>:) T`) against a value's dynamic runtime type —
// meaningful chiefly when that value's static type was AnyType and its
// runtime type narrows at evaluation time.
func evalTypeCompare(op string, actual, target types.Type) bool {
	equal := types.TypesEqual(actual, target)
	switch op {
	case "::":
		return equal
	case "!:":
		return !equal
	case "<:":
		return types.ConvertibleTo(actual, target)
	case ">:":
		return types.ConvertibleTo(target, actual)
	case "<<:":
		return !equal && types.ConvertibleTo(actual, target)
	case ">>:":
		return !equal && types.ConvertibleTo(target, actual)
	}
	rlerrors.Internal("eval: unhandled type-compare operator %q", op)
	return false
}

// compareValues implements one step of spec.md §4.3's compare chain.
// Atomic operands compare by numeric value; reference operands (string,
// array, tuple, struct) compare structurally — RulesLang values are
// copied by value onto the stack and into parameter slots, so equality
// means equal content, not equal heap address. Ordering beyond ==/!= is
// only meaningful for numeric and string-like (string/array) operands,
// per internal/sema's isStringLike classification.
func (e *Evaluator) compareValues(op string, left, right Value) bool {
	if types.IsReference(left.Type) || types.IsReference(right.Type) {
		return e.compareReferences(op, left, right)
	}
	if left.IsNull() || right.IsNull() {
		switch op {
		case "==", "===":
			return left.IsNull() == right.IsNull()
		case "!=", "!==":
			return left.IsNull() != right.IsNull()
		}
		rlerrors.Internal("eval: ordering comparison %q on a null operand", op)
	}
	if isFloatValue(left) || isFloatValue(right) {
		l, r := asFloat(left), asFloat(right)
		switch op {
		case "<":
			return l < r
		case ">":
			return l > r
		case "<=":
			return l <= r
		case ">=":
			return l >= r
		case "==", "===":
			return l == r
		case "!=", "!==":
			return l != r
		}
	}
	if isUnsignedValue(left) || isUnsignedValue(right) {
		l, r := left.AsUint64(), right.AsUint64()
		switch op {
		case "<":
			return l < r
		case ">":
			return l > r
		case "<=":
			return l <= r
		case ">=":
			return l >= r
		case "==", "===":
			return l == r
		case "!=", "!==":
			return l != r
		}
	}
	l, r := asComparableInt(left), asComparableInt(right)
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	case "==", "===":
		return l == r
	case "!=", "!==":
		return l != r
	}
	rlerrors.Internal("eval: unhandled comparison operator %q", op)
	return false
}

// compareReferences handles comparisons where at least one operand is a
// reference type (string, array, tuple, struct, or null).
func (e *Evaluator) compareReferences(op string, left, right Value) bool {
	switch op {
	case "==", "===":
		return e.valuesEqual(left, right)
	case "!=", "!==":
		return !e.valuesEqual(left, right)
	case "<", ">", "<=", ">=":
		cmp := e.compareOrdered(left, right)
		switch op {
		case "<":
			return cmp < 0
		case ">":
			return cmp > 0
		case "<=":
			return cmp <= 0
		case ">=":
			return cmp >= 0
		}
	}
	rlerrors.Internal("eval: unhandled comparison operator %q on reference operands", op)
	return false
}

// valuesEqual performs structural equality: strings compare by decoded
// content, arrays/tuples/structs compare member-by-member, everything
// else falls back to Raw/Addr identity.
func (e *Evaluator) valuesEqual(left, right Value) bool {
	if left.IsNull() || right.IsNull() {
		return left.IsNull() && right.IsNull()
	}
	if _, ok := left.Type.(types.StringLitType); ok {
		if _, ok := right.Type.(types.StringLitType); !ok {
			return false
		}
		return e.stringOf(left) == e.stringOf(right)
	}
	if !types.IsReference(left.Type) || !types.IsReference(right.Type) {
		return left.Raw == right.Raw
	}
	leftIdentity := e.heap.Identity(left.Addr)
	rightIdentity := e.heap.Identity(right.Addr)
	if leftIdentity.Index != rightIdentity.Index {
		return false
	}
	switch leftIdentity.Kind {
	case runtime.KindArray:
		n := e.heap.ArrayLength(left.Addr)
		if n != e.heap.ArrayLength(right.Addr) {
			return false
		}
		component := leftIdentity.Type.(types.ArrayType).Component
		for i := 0; i < n; i++ {
			off := 8 + leftIdentity.ComponentSize*i
			if !e.valuesEqual(e.readMember(left.Addr, off, component), e.readMember(right.Addr, off, component)) {
				return false
			}
		}
		return true
	case runtime.KindTuple:
		tt := leftIdentity.Type.(types.TupleType)
		for i, mt := range tt.Members {
			off := leftIdentity.MemberOffsetByIndex(i)
			if !e.valuesEqual(e.readMember(left.Addr, off, mt), e.readMember(right.Addr, off, mt)) {
				return false
			}
		}
		return true
	case runtime.KindStruct:
		st := leftIdentity.Type.(types.StructureType)
		for i, name := range st.Names {
			mt := st.Types[i]
			off, _ := leftIdentity.MemberOffsetByName(name)
			if !e.valuesEqual(e.readMember(left.Addr, off, mt), e.readMember(right.Addr, off, mt)) {
				return false
			}
		}
		return true
	}
	return left.Addr == right.Addr
}

// compareOrdered lexicographically orders string/array operands, the
// only reference kinds spec.md §4.3 treats as ordered ("isStringLike"
// covers both). Returns -1, 0, or 1.
func (e *Evaluator) compareOrdered(left, right Value) int {
	if _, ok := left.Type.(types.StringLitType); ok {
		a, b := e.stringOf(left), e.stringOf(right)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	at, ok := left.Type.(types.ArrayType)
	if !ok {
		rlerrors.Internal("eval: ordering comparison on non-string-like reference type %s", left.Type)
	}
	ln, rn := e.heap.ArrayLength(left.Addr), e.heap.ArrayLength(right.Addr)
	n := ln
	if rn < n {
		n = rn
	}
	for i := 0; i < n; i++ {
		off := 8 + e.heap.Identity(left.Addr).ComponentSize*i
		lv := e.readMember(left.Addr, off, at.Component)
		rv := e.readMember(right.Addr, off, at.Component)
		if cmp := e.compareScalar(lv, rv); cmp != 0 {
			return cmp
		}
	}
	switch {
	case ln < rn:
		return -1
	case ln > rn:
		return 1
	default:
		return 0
	}
}

func (e *Evaluator) compareScalar(left, right Value) int {
	if types.IsReference(left.Type) {
		if e.valuesEqual(left, right) {
			return 0
		}
		return e.compareOrdered(left, right)
	}
	l, r := asComparableInt(left), asComparableInt(right)
	if isFloatValue(left) || isFloatValue(right) {
		lf, rf := asFloat(left), asFloat(right)
		switch {
		case lf < rf:
			return -1
		case lf > rf:
			return 1
		default:
			return 0
		}
	}
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func isFloatValue(v Value) bool {
	a, ok := v.Type.(types.Atomic)
	return ok && a.Kind.IsFloat()
}

func isUnsignedValue(v Value) bool {
	a, ok := v.Type.(types.Atomic)
	return ok && a.Kind.IsUnsigned()
}

func asFloat(v Value) float64 {
	if isFloatValue(v) {
		return v.AsFloat64()
	}
	if isUnsignedValue(v) {
		return float64(v.AsUint64())
	}
	if _, ok := v.Type.(types.Atomic); ok {
		return float64(v.AsInt64())
	}
	return 0
}

func asComparableInt(v Value) int64 {
	if _, ok := v.Type.(types.Atomic); ok {
		return v.AsInt64()
	}
	return int64(v.Raw)
}

// evalBinary implements spec.md §4.7's evaluation for the operator
// categories internal/sema's inferBinary types (Range, Concatenate,
// Logical, Bitwise, Shift, Additive/Multiplicative/Exponent).
func (e *Evaluator) evalBinary(b *ast.BinaryExpr) Value {
	left := e.evalExpr(b.Left)

	switch b.Category {
	case token.Range:
		right := e.evalExpr(b.Right)
		// Range's static type is always sint64 (spec.md §3's inferBinary
		// judgment); RulesLang's grammar has no for-loop to consume a
		// range as an iteration source, so its runtime value is defined
		// here as the range's element count (b - a), the one sint64-shaped
		// quantity consistent with its static typing.
		return sintValue(types.SInt64, right.AsInt64()-left.AsInt64())
	case token.Concatenate:
		right := e.evalExpr(b.Right)
		return e.allocString(e.stringOf(left)+e.stringOf(right), types.UTF8)
	case token.LogicalAnd:
		if !left.AsBool() {
			return boolValue(false)
		}
		return boolValue(e.evalExpr(b.Right).AsBool())
	case token.LogicalOr:
		if left.AsBool() {
			return boolValue(true)
		}
		return boolValue(e.evalExpr(b.Right).AsBool())
	case token.LogicalXor:
		right := e.evalExpr(b.Right)
		return boolValue(left.AsBool() != right.AsBool())
	case token.BitwiseAnd, token.BitwiseOr, token.BitwiseXor:
		right := e.evalExpr(b.Right)
		resultKind := concreteAtomicKind(e.typeOf(b))
		return bitwiseOp(b.Op, resultKind, left, right)
	case token.Shift:
		right := e.evalExpr(b.Right)
		resultKind := concreteAtomicKind(e.typeOf(b))
		return shiftOp(b.Op, resultKind, left, right)
	case token.Additive, token.Multiplicative, token.Exponent:
		right := e.evalExpr(b.Right)
		resultKind := concreteAtomicKind(e.typeOf(b))
		return e.arithOp(b, resultKind, left, right)
	}
	rlerrors.Internal("evalBinary: unhandled category %s", b.Category)
	return Value{}
}

func (e *Evaluator) stringOf(v Value) string {
	if _, ok := v.Type.(types.StringLitType); !ok {
		rlerrors.Internal("eval: ~ operand is not a string value")
	}
	n := e.heap.StringLength(v.Addr)
	data := e.heap.Data(v.Addr, 8+n)
	return string(data[8 : 8+n])
}

func bitwiseOp(op string, kind types.AtomicKind, left, right Value) Value {
	l, r := left.AsUint64(), right.AsUint64()
	var result uint64
	switch op {
	case "&":
		result = l & r
	case "|":
		result = l | r
	case "^":
		result = l ^ r
	default:
		rlerrors.Internal("eval: unhandled bitwise operator %q", op)
	}
	if kind.IsUnsigned() {
		return uintValue(kind, result)
	}
	return sintValue(kind, int64(result))
}

func shiftOp(op string, kind types.AtomicKind, left, right Value) Value {
	shift := uint(right.AsUint64())
	if kind.IsUnsigned() {
		l := left.AsUint64()
		switch op {
		case "<<":
			return uintValue(kind, l<<shift)
		case ">>", ">>>":
			return uintValue(kind, l>>shift)
		}
	}
	l := left.AsInt64()
	switch op {
	case "<<":
		return sintValue(kind, l<<shift)
	case ">>":
		return sintValue(kind, l>>shift)
	case ">>>":
		return sintValue(kind, int64(uint64(l)>>shift))
	}
	rlerrors.Internal("eval: unhandled shift operator %q", op)
	return Value{}
}

func (e *Evaluator) arithOp(b *ast.BinaryExpr, kind types.AtomicKind, left, right Value) Value {
	if kind.IsFloat() {
		l, r := asFloat(left), asFloat(right)
		return floatValue(kind, applyArith(b.Op, l, r))
	}
	if kind.IsUnsigned() {
		l, r := left.AsUint64(), right.AsUint64()
		if b.Op == "/" && r == 0 {
			e.runtimeError(rlerrors.ErrE001, b.Span(), b.Op, "division by zero")
		}
		if b.Op == "%" && r == 0 {
			e.runtimeError(rlerrors.ErrE001, b.Span(), b.Op, "modulo by zero")
		}
		return uintValue(kind, applyArithU(b.Op, l, r))
	}
	l, r := left.AsInt64(), right.AsInt64()
	if b.Op == "/" && r == 0 {
		e.runtimeError(rlerrors.ErrE001, b.Span(), b.Op, "division by zero")
	}
	if b.Op == "%" && r == 0 {
		e.runtimeError(rlerrors.ErrE001, b.Span(), b.Op, "modulo by zero")
	}
	return sintValue(kind, applyArithS(b.Op, l, r))
}

func applyArith(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "**":
		return intPow(l, r)
	}
	rlerrors.Internal("eval: unhandled arithmetic operator %q", op)
	return 0
}

func intPow(l, r float64) float64 {
	result := 1.0
	if r < 0 {
		return 1 / intPow(l, -r)
	}
	for i := 0; i < int(r); i++ {
		result *= l
	}
	return result
}

func applyArithS(op string, l, r int64) int64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		return l % r
	case "**":
		return int64(intPow(float64(l), float64(r)))
	}
	rlerrors.Internal("eval: unhandled arithmetic operator %q", op)
	return 0
}

func applyArithU(op string, l, r uint64) uint64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		return l % r
	case "**":
		return uint64(intPow(float64(l), float64(r)))
	}
	rlerrors.Internal("eval: unhandled arithmetic operator %q", op)
	return 0
}

// evalCompositeLiteral implements spec.md §4.7's TupleLiteral/
// StructLiteral/ArrayLiteral evaluation rules: allocate the composite,
// then for each member evaluate its value and place it at the member's
// offset.
func (e *Evaluator) evalCompositeLiteral(lit *ast.CompositeLiteral, target types.Type) Value {
	switch tt := target.(type) {
	case types.ArrayType:
		return e.evalArrayLiteral(lit, tt)
	case types.StructureType:
		identity := e.table.Intern(target)
		addr := e.heap.Alloc(identity, identity.DataSize())
		for _, el := range lit.Elements {
			v := e.evalExpr(el.Value)
			off, ok := identity.MemberOffsetByName(el.Label)
			if !ok {
				rlerrors.Internal("eval: struct literal field %q missing from interned identity", el.Label)
			}
			e.writeMember(addr, off, v)
		}
		return Value{Type: target, Addr: addr}
	default:
		// TupleType: elements are positional, one per member in order.
		identity := e.table.Intern(target)
		addr := e.heap.Alloc(identity, identity.DataSize())
		for i, el := range lit.Elements {
			v := e.evalExpr(el.Value)
			e.writeMember(addr, identity.MemberOffsetByIndex(i), v)
		}
		return Value{Type: target, Addr: addr}
	}
}

// evalArrayLiteral handles the labeled-index / "other" catch-all shape of
// spec.md §4.7: "for each index look up labeled value or 'other'
// catch-all (evaluated exactly once, cached ...); unlabeled indices
// zero-filled."
func (e *Evaluator) evalArrayLiteral(lit *ast.CompositeLiteral, target types.ArrayType) Value {
	length := 0
	if target.Size != nil {
		length = *target.Size
	} else {
		length = len(lit.Elements)
	}
	identity := e.table.Intern(target)
	dataSize := 8 + identity.ComponentSize*length
	addr := e.heap.Alloc(identity, dataSize)
	data := e.heap.Data(addr, dataSize)
	copy(data[:8], runtime.EncodeUint(uint64(length), 8))

	filled := make([]bool, length)
	var other *Value
	for _, el := range lit.Elements {
		switch {
		case el.IndexLabel != nil:
			i := *el.IndexLabel
			if i < 0 || i >= length {
				continue
			}
			v := e.evalExpr(el.Value)
			e.writeMember(addr, 8+identity.ComponentSize*i, v)
			filled[i] = true
		case el.IsOther:
			v := e.evalExpr(el.Value)
			other = &v
		case el.Label == "":
			// positional element in an all-unlabeled array literal.
		}
	}
	pos := 0
	for _, el := range lit.Elements {
		if el.IndexLabel != nil || el.IsOther {
			continue
		}
		for pos < length && filled[pos] {
			pos++
		}
		if pos >= length {
			break
		}
		v := e.evalExpr(el.Value)
		e.writeMember(addr, 8+identity.ComponentSize*pos, v)
		filled[pos] = true
		pos++
	}
	if other != nil {
		for i := 0; i < length; i++ {
			if !filled[i] {
				e.writeMember(addr, 8+identity.ComponentSize*i, *other)
			}
		}
	}
	return Value{Type: target, Addr: addr}
}

// evalTypeConversion performs the widening/encoding spec.md's
// TypeConversion nodes stand for: same-kind passthrough for atomics, and
// string<->array-of-char code-unit repacking (spec.md §3 "string/array of
// char convertibility").
func (e *Evaluator) evalTypeConversion(tc *ast.TypeConversion) Value {
	v := e.evalExpr(tc.Value)
	target := tc.Target
	switch tgt := target.(type) {
	case types.Atomic:
		return convertAtomic(v, tgt.Kind)
	case types.ArrayType:
		if _, ok := v.Type.(types.StringLitType); ok {
			return e.stringToArray(v, tgt)
		}
		return v
	default:
		// StringLitType (width/encoding passthrough), AnyType (widening to
		// the dynamic supertype) and any other target carry the evaluated
		// value through unchanged — its concrete runtime Type already
		// widens to target per the ConvertibleTo check sema ran before
		// inserting this node.
		return v
	}
}

func convertAtomic(v Value, kind types.AtomicKind) Value {
	srcKind, ok := v.Type.(types.Atomic)
	if !ok {
		srcKind = types.Atomic{Kind: concreteAtomicKind(v.Type)}
		v = Value{Type: srcKind, Raw: v.Raw}
	}
	if srcKind.Kind == kind {
		return Value{Type: types.Atomic{Kind: kind}, Raw: v.Raw}
	}
	if kind.IsFloat() {
		f := asFloat(v)
		return floatValue(kind, f)
	}
	if srcKind.Kind.IsFloat() {
		if kind.IsUnsigned() {
			return uintValue(kind, uint64(v.AsFloat64()))
		}
		return sintValue(kind, int64(v.AsFloat64()))
	}
	if kind.IsUnsigned() {
		return uintValue(kind, v.AsUint64())
	}
	return sintValue(kind, v.AsInt64())
}

func (e *Evaluator) stringToArray(v Value, target types.ArrayType) Value {
	s := e.stringOf(v)
	runes := []rune(s)
	n := len(runes)
	if target.Size != nil {
		n = *target.Size
	}
	identity := e.table.Intern(target)
	dataSize := 8 + identity.ComponentSize*n
	addr := e.heap.Alloc(identity, dataSize)
	data := e.heap.Data(addr, dataSize)
	copy(data[:8], runtime.EncodeUint(uint64(n), 8))
	for i := 0; i < n && i < len(runes); i++ {
		copy(data[8+identity.ComponentSize*i:8+identity.ComponentSize*(i+1)], runtime.EncodeUint(uint64(runes[i]), identity.ComponentSize))
	}
	return Value{Type: target, Addr: addr}
}

// allocString heap-allocates a STRING object per spec.md §3's layout: a
// size_t length followed by length code units of 1/2/4 bytes.
func (e *Evaluator) allocString(s string, encoding types.StringEncoding) Value {
	t := types.StringLitType{Encoding: encoding}
	identity := e.table.Intern(t)
	var units []byte
	switch encoding {
	case types.UTF16:
		for _, u := range utf16.Encode([]rune(s)) {
			units = append(units, byte(u), byte(u>>8))
		}
	case types.UTF32:
		for _, r := range s {
			units = append(units, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
		}
	default:
		units = []byte(s)
	}
	length := len(units) / encoding.CodeUnitSize()
	dataSize := 8 + len(units)
	addr := e.heap.Alloc(identity, dataSize)
	data := e.heap.Data(addr, dataSize)
	copy(data[:8], runtime.EncodeUint(uint64(length), 8))
	copy(data[8:], units)
	return Value{Type: t, Addr: addr}
}
