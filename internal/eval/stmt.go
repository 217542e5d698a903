package eval

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/runtime"
	"github.com/michael-golfi/rules/internal/types"
)

// evalStatement dispatches one statement, returning the Flow it produces
// (spec.md §4.7: "statement evaluation returns a Flow value"). This
// mirrors sema/stmt.go's analyzeStatement switch one-to-one, since
// semantic analysis and evaluation walk the same statement shapes.
func (e *Evaluator) evalStatement(s ast.Statement) Flow {
	switch st := s.(type) {
	case *ast.TypeDefinition:
		return proceed()
	case *ast.VariableDeclaration:
		return e.evalVariableDeclaration(st)
	case *ast.Assignment:
		return e.evalAssignment(st)
	case *ast.FunctionCallStatement:
		e.evalExpr(st.Call)
		return proceed()
	case *ast.ConditionalStatement:
		return e.evalConditionalStatement(st)
	case *ast.LoopStatement:
		return e.evalLoopStatement(st)
	case *ast.FunctionDefinition:
		// Function bodies are invoked directly through
		// sema.Analyzer.CallTarget/InfixTarget (see expr.go's invoke), so
		// reaching the definition itself as a statement is a no-op.
		return proceed()
	case *ast.ReturnStatement:
		return e.evalReturnStatement(st)
	case *ast.BreakStatement:
		return breakFlow(st.Label)
	case *ast.ContinueStatement:
		return continueFlow(st.Label)
	}
	rlerrors.Internal("evalStatement: unhandled statement %T", s)
	return proceed()
}

func (e *Evaluator) evalStatementsFlow(stmts []ast.Statement) Flow {
	for _, s := range stmts {
		flow := e.evalStatement(s)
		if flow.Action != Proceed {
			return flow
		}
	}
	return proceed()
}

func (e *Evaluator) evalVariableDeclaration(vd *ast.VariableDeclaration) Flow {
	var v Value
	if vd.Value != nil {
		v = e.evalExpr(vd.Value)
	} else {
		v = e.zeroValue(e.sem.VarDeclType[vd])
	}
	e.top.declare(vd.Name, v)
	return proceed()
}

// zeroValue produces a `var T x` declaration's starting value when no
// initializer is given (spec.md §4.6 allows a declared type with no
// value). Atomics zero their bits, strings start empty, fixed-size
// arrays and tuples/structs recursively zero their members; a
// unspecified-length array or AnyType has no zero representation and
// starts null.
func (e *Evaluator) zeroValue(t types.Type) Value {
	switch tt := t.(type) {
	case types.Atomic:
		if tt.Kind.IsFloat() {
			return floatValue(tt.Kind, 0)
		}
		return Value{Type: tt, Raw: 0}
	case types.StringLitType:
		return e.allocString("", tt.Encoding)
	case types.TupleType:
		identity := e.table.Intern(t)
		addr := e.heap.Alloc(identity, identity.DataSize())
		for i, mt := range tt.Members {
			e.writeMember(addr, identity.MemberOffsetByIndex(i), e.zeroValue(mt))
		}
		return Value{Type: t, Addr: addr}
	case types.StructureType:
		identity := e.table.Intern(t)
		addr := e.heap.Alloc(identity, identity.DataSize())
		for i, name := range tt.Names {
			off, _ := identity.MemberOffsetByName(name)
			e.writeMember(addr, off, e.zeroValue(tt.Types[i]))
		}
		return Value{Type: t, Addr: addr}
	case types.ArrayType:
		if tt.Size == nil {
			return nullValue()
		}
		identity := e.table.Intern(t)
		n := *tt.Size
		dataSize := 8 + identity.ComponentSize*n
		addr := e.heap.Alloc(identity, dataSize)
		data := e.heap.Data(addr, dataSize)
		copy(data[:8], runtime.EncodeUint(uint64(n), 8))
		for i := 0; i < n; i++ {
			e.writeMember(addr, 8+identity.ComponentSize*i, e.zeroValue(tt.Component))
		}
		return Value{Type: t, Addr: addr}
	default:
		return nullValue()
	}
}

// evalAssignment implements spec.md §4.7's Assignment rule: evaluate the
// value, then write it into the target's storage slot — a local variable,
// a struct/tuple member, or an array element.
func (e *Evaluator) evalAssignment(asg *ast.Assignment) Flow {
	v := e.evalExpr(asg.Value)
	switch target := asg.Target.(type) {
	case *ast.Identifier:
		slot, ok := e.top.lookup(target.Name)
		if !ok {
			rlerrors.Internal("eval: assignment target %q escaped semantic analysis unbound", target.Name)
		}
		*slot = v
	case *ast.FieldAccess:
		obj := e.evalExpr(target.Value)
		if obj.IsNull() {
			e.runtimeError(rlerrors.ErrE002, target.Span(), target.Name, "Null reference")
		}
		identity := e.heap.Identity(obj.Addr)
		_, off, ok := e.resolveMember(identity, target.Name)
		if !ok {
			rlerrors.Internal("eval: assignment field %q missing from interned identity", target.Name)
		}
		e.writeMember(obj.Addr, off, v)
	case *ast.IndexAccess:
		obj := e.evalExpr(target.Value)
		idx := e.evalExpr(target.Index)
		if obj.IsNull() {
			e.runtimeError(rlerrors.ErrE002, target.Span(), "", "Null reference")
		}
		length := e.heap.ArrayLength(obj.Addr)
		i := idx.AsInt64()
		if i < 0 || i >= int64(length) {
			e.runtimeError(rlerrors.ErrE003, target.Index.Span(), "", "index %d out of bounds for array of length %d", i, length)
		}
		identity := e.heap.Identity(obj.Addr)
		offset := 8 + identity.ComponentSize*int(i)
		e.writeMember(obj.Addr, offset, v)
	default:
		rlerrors.Internal("eval: unhandled assignment target %T", asg.Target)
	}
	return proceed()
}

func (e *Evaluator) evalConditionalStatement(cs *ast.ConditionalStatement) Flow {
	for i := range cs.Blocks {
		cond := e.evalExpr(cs.Blocks[i].Condition)
		if cond.AsBool() {
			e.pushFrame()
			flow := e.evalStatementsFlow(cs.Blocks[i].Statements)
			e.popFrame()
			return flow
		}
	}
	if cs.FalseStatements != nil {
		e.pushFrame()
		flow := e.evalStatementsFlow(cs.FalseStatements)
		e.popFrame()
		return flow
	}
	return proceed()
}

// evalLoopStatement implements spec.md §4.7's LoopStatement rule:
// re-evaluate the condition before each iteration; BREAK (matching this
// loop's label or unlabeled) terminates it as PROCEED, CONTINUE
// (matching or unlabeled) ends the current iteration, anything else
// bubbles up unchanged.
func (e *Evaluator) evalLoopStatement(ls *ast.LoopStatement) Flow {
	for {
		cond := e.evalExpr(ls.Condition)
		if !cond.AsBool() {
			return proceed()
		}
		e.pushFrame()
		flow := e.evalStatementsFlow(ls.Body)
		e.popFrame()

		switch flow.Action {
		case Break:
			if flow.Label == "" || flow.Label == ls.Label {
				return proceed()
			}
			return flow
		case Continue:
			if flow.Label == "" || flow.Label == ls.Label {
				continue
			}
			return flow
		case Return:
			return flow
		}
	}
}

func (e *Evaluator) evalReturnStatement(rs *ast.ReturnStatement) Flow {
	if rs.Value == nil {
		return returnFlow(nil)
	}
	v := e.evalExpr(rs.Value)
	return returnFlow(&v)
}
