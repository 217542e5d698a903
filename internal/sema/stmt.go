package sema

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/types"
)

// analyzeStatements walks a statement list in program order, the way the
// teacher's internal/analyzer/statements.go dispatches one statement at a
// time rather than building an intermediate list.
func (a *Analyzer) analyzeStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		a.analyzeStatement(s)
	}
}

func (a *Analyzer) analyzeStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.TypeDefinition:
		a.analyzeTypeDefinition(st)
	case *ast.VariableDeclaration:
		a.analyzeVariableDeclaration(st)
	case *ast.Assignment:
		a.analyzeAssignment(st)
	case *ast.FunctionCallStatement:
		a.inferExpr(st.Call)
	case *ast.ConditionalStatement:
		a.analyzeConditionalStatement(st)
	case *ast.LoopStatement:
		a.analyzeLoopStatement(st)
	case *ast.FunctionDefinition:
		a.analyzeFunctionDefinition(st)
	case *ast.ReturnStatement:
		a.analyzeReturnStatement(st)
	case *ast.BreakStatement:
		a.analyzeBreakOrContinue(st.Span(), st.Label, "break")
	case *ast.ContinueStatement:
		a.analyzeBreakOrContinue(st.Span(), st.Label, "continue")
	default:
		rlerrors.Internal("analyzeStatement: unhandled statement %T", s)
	}
}

// analyzeTypeDefinition binds Name to Type in the current block, checking
// for a cyclic definition before the name becomes visible to its own
// resolution (spec.md §4.6 "cycles rejected via transitive-closure check
// before insertion").
func (a *Analyzer) analyzeTypeDefinition(td *ast.TypeDefinition) {
	if a.typeDefinitionDependsOn(td.Type, td.Name, map[string]bool{}) {
		a.errorfAt(rlerrors.ErrS007, td.Span(), td.Name, "cyclic type definition: %q refers to itself", td.Name)
	}
	a.typeDefs[td.Name] = td.Type
	resolved := a.resolveTypeExpr(td.Type)
	if !a.ctx.DeclareType(td.Name, resolved) {
		a.errorfAt(rlerrors.ErrS002, td.Span(), td.Name, "type %q already declared in this scope", td.Name)
	}
}

// analyzeVariableDeclaration implements spec.md §4.6's VariableDeclaration
// rule: a declared type plus a value requires value.type <: type; a bare
// value infers the variable's type from it, lifting literals to their
// atomic type for `var` (mutable storage can't stay a literal singleton)
// while `let` keeps the literal type (so further literal-only expressions
// involving it can still fold, per the literal-reduction pass).
func (a *Analyzer) analyzeVariableDeclaration(vd *ast.VariableDeclaration) {
	var declaredType types.Type
	if vd.Type != nil {
		declaredType = a.resolveTypeExpr(vd.Type)
	}

	var varType types.Type
	if vd.Value != nil {
		valueType := a.inferExpr(vd.Value)
		switch {
		case declaredType != nil:
			if !types.ConvertibleTo(valueType, declaredType) {
				a.errorfAt(rlerrors.ErrS003, vd.Value.Span(), "", "cannot assign %s to declared type %s", valueType, declaredType)
			}
			vd.Value = a.coerce(vd.Value, declaredType)
			varType = declaredType
		case vd.Kind == ast.Var:
			varType = widenLiteral(valueType)
			vd.Value = a.coerce(vd.Value, varType)
		default:
			varType = valueType
		}
	} else if declaredType != nil {
		varType = declaredType
	} else {
		a.errorfAt(rlerrors.ErrS003, vd.Span(), vd.Name, "variable %q needs a type or an initial value", vd.Name)
	}

	if !a.ctx.DeclareVariable(&Variable{Name: vd.Name, Type: varType, Mutable: vd.Kind == ast.Var}) {
		a.errorfAt(rlerrors.ErrS002, vd.Span(), vd.Name, "%q already declared in this scope", vd.Name)
	}
	a.VarDeclType[vd] = varType
}

// analyzeAssignment implements spec.md §4.6's Assignment rule: the target
// must be an assignable expression and value.type <: target.type.
func (a *Analyzer) analyzeAssignment(asg *ast.Assignment) {
	targetType := a.inferExpr(asg.Target)
	if id, ok := asg.Target.(*ast.Identifier); ok {
		if v, found := a.ctx.LookupVariable(id.Name); found && !v.Mutable {
			a.errorfAt(rlerrors.ErrS003, asg.Span(), id.Name, "cannot assign to %q declared with let", id.Name)
		}
	}
	valueType := a.inferExpr(asg.Value)
	if !types.ConvertibleTo(valueType, targetType) {
		a.errorfAt(rlerrors.ErrS003, asg.Value.Span(), "", "cannot assign %s to %s", valueType, targetType)
	}
	asg.Value = a.coerce(asg.Value, targetType)
}

// analyzeConditionalStatement requires every block's condition to be bool
// (spec.md §4.6) and opens a ConditionalBlock scope per branch so
// variables declared inside one branch don't leak into siblings.
func (a *Analyzer) analyzeConditionalStatement(cs *ast.ConditionalStatement) {
	for i := range cs.Blocks {
		condType := a.inferExpr(cs.Blocks[i].Condition)
		if !types.ConvertibleTo(condType, types.Atomic{Kind: types.Bool}) {
			a.errorfAt(rlerrors.ErrS003, cs.Blocks[i].Condition.Span(), "", "condition must be bool, found %s", condType)
		}
		a.ctx.Push(ConditionalBlock)
		a.analyzeStatements(cs.Blocks[i].Statements)
		a.ctx.Pop()
	}
	if cs.FalseStatements != nil {
		a.ctx.Push(ConditionalBlock)
		a.analyzeStatements(cs.FalseStatements)
		a.ctx.Pop()
	}
}

// analyzeLoopStatement requires a bool condition and opens a LoopBlock so
// nested break/continue statements can find it (spec.md §4.6).
func (a *Analyzer) analyzeLoopStatement(ls *ast.LoopStatement) {
	condType := a.inferExpr(ls.Condition)
	if !types.ConvertibleTo(condType, types.Atomic{Kind: types.Bool}) {
		a.errorfAt(rlerrors.ErrS003, ls.Condition.Span(), "", "loop condition must be bool, found %s", condType)
	}
	a.ctx.Push(LoopBlock)
	a.ctx.Current().Label = ls.Label
	a.analyzeStatements(ls.Body)
	a.ctx.Pop()
}

// analyzeFunctionDefinition opens a FunctionBlock carrying the declared
// return type, binds parameters, analyzes the body, and — for a
// non-void-returning function — flow-checks that every path returns
// (spec.md §4.6 "all paths through a non-void body must return ... a
// conditional returns only if every branch returns").
func (a *Analyzer) analyzeFunctionDefinition(fd *ast.FunctionDefinition) {
	paramTypes := make([]types.Type, len(fd.Params))
	paramNames := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		paramTypes[i] = a.resolveTypeExpr(p.Type)
		paramNames[i] = p.Name
	}
	var returnType types.Type
	if fd.ReturnType != nil {
		returnType = a.resolveTypeExpr(fd.ReturnType)
	}
	fn := &Function{Name: fd.Name, Params: paramTypes, ParamNames: paramNames, Return: returnType, Def: fd}
	a.ctx.DeclareFunction(fn)
	a.FuncSignature[fd] = fn

	a.ctx.Push(FunctionBlock)
	a.ctx.Current().ReturnType = returnType
	for i, p := range fd.Params {
		a.ctx.DeclareVariable(&Variable{Name: p.Name, Type: paramTypes[i], Mutable: true})
	}
	a.analyzeStatements(fd.Body)
	a.ctx.Pop()

	if returnType != nil && !allPathsReturn(fd.Body) {
		a.errorfAt(rlerrors.ErrS004, fd.Span(), fd.Name, "not all paths of %q return a value", fd.Name)
	}
}

// allPathsReturn is the flow-sensitive check of spec.md §4.6: a statement
// list returns if its last statement is a ReturnStatement, or if it ends
// in a ConditionalStatement all of whose blocks (including a mandatory
// else) themselves return.
func allPathsReturn(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return false
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.ConditionalStatement:
		if last.FalseStatements == nil {
			return false
		}
		if !allPathsReturn(last.FalseStatements) {
			return false
		}
		for i := range last.Blocks {
			if !allPathsReturn(last.Blocks[i].Statements) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeReturnStatement(rs *ast.ReturnStatement) {
	fnBlock, ok := a.ctx.EnclosingFunction()
	if !ok {
		a.errorfAt(rlerrors.ErrS003, rs.Span(), "", "return outside a function")
		return
	}
	switch {
	case fnBlock.ReturnType == nil && rs.Value != nil:
		a.errorfAt(rlerrors.ErrS003, rs.Value.Span(), "", "function has no declared return type but a value was returned")
	case fnBlock.ReturnType != nil && rs.Value == nil:
		a.errorfAt(rlerrors.ErrS003, rs.Span(), "", "function declares return type %s but no value was returned", fnBlock.ReturnType)
	case rs.Value != nil:
		valueType := a.inferExpr(rs.Value)
		if !types.ConvertibleTo(valueType, fnBlock.ReturnType) {
			a.errorfAt(rlerrors.ErrS003, rs.Value.Span(), "", "cannot return %s as %s", valueType, fnBlock.ReturnType)
		}
		rs.Value = a.coerce(rs.Value, fnBlock.ReturnType)
	}
}

func (a *Analyzer) analyzeBreakOrContinue(span rlerrors.Span, label, kind string) {
	if _, ok := a.ctx.EnclosingLoop(label); !ok {
		if label != "" {
			a.errorfAt(rlerrors.ErrS005, span, label, "%s label %q does not name an enclosing loop", kind, label)
		}
		a.errorfAt(rlerrors.ErrS005, span, "", "%s outside a loop", kind)
	}
}
