// Package sema implements the single-pass semantic analyzer (spec.md
// §4.6): name resolution, type checking and inference, numeric-literal
// narrowing, implicit-conversion insertion, literal reduction, and
// flow-sensitive return-path validation over the syntactic tree that
// internal/parser and internal/expander hand it.
//
// The teacher's internal/analyzer performs a comparable single walk
// driven by a chained internal/symbols.SymbolTable (outer *SymbolTable,
// a name->Symbol store per scope, parent lookup on miss); Context/Block
// here generalizes that same shape to spec.md §3's "Scopes and context"
// model, trading the teacher's trait/module machinery (no traits or
// modules exist in RulesLang) for the block-kind tagging
// (SHELL/TOP_LEVEL/FUNCTION/LOOP/CONDITIONAL) spec.md requires for
// break/continue and return-path validation.
package sema

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/types"
)

// BlockKind tags what a Block is for, so break/continue/return checks can
// walk up the parent chain looking for the right kind of enclosing block.
type BlockKind int

const (
	ShellBlock BlockKind = iota
	TopLevelBlock
	FunctionBlock
	LoopBlock
	ConditionalBlock
)

// Variable is a resolved binding: its declared/inferred type and whether
// it was declared with `let` (immutable) or `var`.
type Variable struct {
	Name    string
	Type    types.Type
	Mutable bool
}

// Function is a resolved function signature, used for overload resolution
// and return-type checking. Def points back to the declaring syntactic
// node so internal/eval can execute the chosen overload's body directly
// from an Analyzer's CallTarget/InfixTarget resolution without having to
// re-derive types.Type from TypeExprs at runtime.
type Function struct {
	Name       string
	Params     []types.Type
	ParamNames []string
	Return     types.Type // nil means no declared return type (void)
	Def        *ast.FunctionDefinition
}

// Block is one entry of the Context stack (spec.md §3 "Scopes and
// context"): a parent pointer plus three name tables (variables, types,
// functions). Label names the loop for labeled break/continue when
// Kind is LoopBlock; empty means unlabeled (RulesLang functions/loops
// aren't named in spec.md's grammar beyond the break/continue label,
// which is carried on the statement, not the block — Label here exists
// so a labeled break can confirm the label actually names an enclosing
// loop, per spec.md §4.6 "optional label must name an enclosing loop").
type Block struct {
	parent *Block
	Kind   BlockKind
	Label  string

	variables map[string]*Variable
	types     map[string]types.Type
	functions map[string][]*Function // overload set per name

	// ReturnType is set on FunctionBlock: the declared return type that
	// governs every ReturnStatement reachable without crossing into a
	// nested FunctionBlock.
	ReturnType types.Type
}

func newBlock(parent *Block, kind BlockKind) *Block {
	return &Block{
		parent:    parent,
		Kind:      kind,
		variables: make(map[string]*Variable),
		types:     make(map[string]types.Type),
		functions: make(map[string][]*Function),
	}
}

// Context is the live scope stack the analyzer threads through the tree
// walk: Push enters a nested block, Pop returns to the enclosing one.
type Context struct {
	top *Block
}

// NewContext starts a fresh Context with a single root block of the
// given kind (TopLevelBlock for a compiled rule body, ShellBlock for the
// REPL's persistent top-level scope, per spec.md §6 "Shell").
func NewContext(rootKind BlockKind) *Context {
	return &Context{top: newBlock(nil, rootKind)}
}

func (c *Context) Push(kind BlockKind) { c.top = newBlock(c.top, kind) }
func (c *Context) Pop()                { c.top = c.top.parent }

// Current returns the innermost block.
func (c *Context) Current() *Block { return c.top }

// DeclareVariable adds a binding to the current block. Returns false if a
// variable of the same name already exists at this exact depth — a
// collision, not shadowing (spec.md §3: "shadowing at inner depth is
// allowed, collision at the same depth is a semantic error").
func (c *Context) DeclareVariable(v *Variable) bool {
	if _, exists := c.top.variables[v.Name]; exists {
		return false
	}
	c.top.variables[v.Name] = v
	return true
}

// LookupVariable walks the block chain outward from the current block.
func (c *Context) LookupVariable(name string) (*Variable, bool) {
	for b := c.top; b != nil; b = b.parent {
		if v, ok := b.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// DeclareType binds a name to a type in the current block.
func (c *Context) DeclareType(name string, t types.Type) bool {
	if _, exists := c.top.types[name]; exists {
		return false
	}
	c.top.types[name] = t
	return true
}

func (c *Context) LookupType(name string) (types.Type, bool) {
	for b := c.top; b != nil; b = b.parent {
		if t, ok := b.types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DeclareFunction adds a candidate to the named overload set in the
// current block. Unlike variables, multiple functions may share a name
// at the same depth (spec.md §4.6 "overload resolution"); exact
// signature collisions are rejected by the caller before calling this.
func (c *Context) DeclareFunction(f *Function) {
	c.top.functions[f.Name] = append(c.top.functions[f.Name], f)
}

// LookupFunctions returns the overload set visible for name, innermost
// scope first — an inner declaration does not merge with an outer one of
// the same name, it shadows it entirely (consistent with variable
// shadowing rules).
func (c *Context) LookupFunctions(name string) ([]*Function, bool) {
	for b := c.top; b != nil; b = b.parent {
		if fns, ok := b.functions[name]; ok {
			return fns, true
		}
	}
	return nil, false
}

// EnclosingLoop walks outward for the nearest LoopBlock, optionally
// requiring it to carry the given label (spec.md §4.6 "break/continue
// ... optional label must name an enclosing loop"). An empty label
// matches the nearest loop regardless of its own label.
func (c *Context) EnclosingLoop(label string) (*Block, bool) {
	for b := c.top; b != nil; b = b.parent {
		if b.Kind == LoopBlock && (label == "" || b.Label == label) {
			return b, true
		}
		if b.Kind == FunctionBlock {
			// break/continue never crosses a function boundary, labeled or not.
			return nil, false
		}
	}
	return nil, false
}

// EnclosingFunction walks outward for the nearest FunctionBlock, used to
// resolve the governing return type for a ReturnStatement.
func (c *Context) EnclosingFunction() (*Block, bool) {
	for b := c.top; b != nil; b = b.parent {
		if b.Kind == FunctionBlock {
			return b, true
		}
	}
	return nil, false
}
