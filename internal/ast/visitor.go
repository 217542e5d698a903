package ast

// Visitor dispatches over every concrete node kind. Nothing in this repo
// outside of the prettyprinter and the sema lowering pass implements the
// full interface at once — most callers embed a BaseVisitor and override
// only the handful of node kinds they care about (spec.md §9 "AST
// polymorphism": avoid deep inheritance, use a visitor/function-table
// dispatch instead).
type Visitor interface {
	VisitProgram(*Program)
	VisitIdentifier(*Identifier)
	VisitContextFieldAccess(*ContextFieldAccess)
	VisitBooleanLiteral(*BooleanLiteral)
	VisitIntegerLiteral(*IntegerLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitNullLiteral(*NullLiteral)
	VisitNamedTypeRef(*NamedTypeRef)
	VisitArrayTypeRef(*ArrayTypeRef)
	VisitTupleTypeRef(*TupleTypeRef)
	VisitStructTypeRef(*StructTypeRef)
	VisitAnyTypeRef(*AnyTypeRef)
	VisitFieldAccess(*FieldAccess)
	VisitIndexAccess(*IndexAccess)
	VisitFunctionCall(*FunctionCall)
	VisitSign(*Sign)
	VisitLogicalNot(*LogicalNot)
	VisitBitwiseNot(*BitwiseNot)
	VisitInfix(*Infix)
	VisitBinaryExpr(*BinaryExpr)
	VisitCompareChain(*CompareChain)
	VisitConditional(*Conditional)
	VisitCompositeLiteral(*CompositeLiteral)
	VisitInitializer(*Initializer)
	VisitTypeConversion(*TypeConversion)
	VisitTypeDefinition(*TypeDefinition)
	VisitVariableDeclaration(*VariableDeclaration)
	VisitAssignment(*Assignment)
	VisitFunctionCallStatement(*FunctionCallStatement)
	VisitConditionalStatement(*ConditionalStatement)
	VisitLoopStatement(*LoopStatement)
	VisitFunctionDefinition(*FunctionDefinition)
	VisitReturnStatement(*ReturnStatement)
	VisitBreakStatement(*BreakStatement)
	VisitContinueStatement(*ContinueStatement)
}

// BaseVisitor implements every Visitor method as a no-op, so a caller that
// only needs to override a few node kinds can embed it instead of
// re-declaring the full interface (mirrors the teacher's pattern of
// walking only the nodes a given pass cares about).
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)                             {}
func (BaseVisitor) VisitIdentifier(*Identifier)                       {}
func (BaseVisitor) VisitContextFieldAccess(*ContextFieldAccess)       {}
func (BaseVisitor) VisitBooleanLiteral(*BooleanLiteral)               {}
func (BaseVisitor) VisitIntegerLiteral(*IntegerLiteral)               {}
func (BaseVisitor) VisitFloatLiteral(*FloatLiteral)                   {}
func (BaseVisitor) VisitStringLiteral(*StringLiteral)                 {}
func (BaseVisitor) VisitNullLiteral(*NullLiteral)                     {}
func (BaseVisitor) VisitNamedTypeRef(*NamedTypeRef)                   {}
func (BaseVisitor) VisitArrayTypeRef(*ArrayTypeRef)                   {}
func (BaseVisitor) VisitTupleTypeRef(*TupleTypeRef)                   {}
func (BaseVisitor) VisitStructTypeRef(*StructTypeRef)                 {}
func (BaseVisitor) VisitAnyTypeRef(*AnyTypeRef)                       {}
func (BaseVisitor) VisitFieldAccess(*FieldAccess)                     {}
func (BaseVisitor) VisitIndexAccess(*IndexAccess)                     {}
func (BaseVisitor) VisitFunctionCall(*FunctionCall)                   {}
func (BaseVisitor) VisitSign(*Sign)                                   {}
func (BaseVisitor) VisitLogicalNot(*LogicalNot)                       {}
func (BaseVisitor) VisitBitwiseNot(*BitwiseNot)                       {}
func (BaseVisitor) VisitInfix(*Infix)                                 {}
func (BaseVisitor) VisitBinaryExpr(*BinaryExpr)                       {}
func (BaseVisitor) VisitCompareChain(*CompareChain)                   {}
func (BaseVisitor) VisitConditional(*Conditional)                     {}
func (BaseVisitor) VisitCompositeLiteral(*CompositeLiteral)           {}
func (BaseVisitor) VisitInitializer(*Initializer)                     {}
func (BaseVisitor) VisitTypeConversion(*TypeConversion)               {}
func (BaseVisitor) VisitTypeDefinition(*TypeDefinition)               {}
func (BaseVisitor) VisitVariableDeclaration(*VariableDeclaration)     {}
func (BaseVisitor) VisitAssignment(*Assignment)                       {}
func (BaseVisitor) VisitFunctionCallStatement(*FunctionCallStatement) {}
func (BaseVisitor) VisitConditionalStatement(*ConditionalStatement)   {}
func (BaseVisitor) VisitLoopStatement(*LoopStatement)                 {}
func (BaseVisitor) VisitFunctionDefinition(*FunctionDefinition)       {}
func (BaseVisitor) VisitReturnStatement(*ReturnStatement)             {}
func (BaseVisitor) VisitBreakStatement(*BreakStatement)               {}
func (BaseVisitor) VisitContinueStatement(*ContinueStatement)         {}
