package sema

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/types"
)

// builtins maps the atomic type keywords spec.md §3 names to their
// types.Atomic value; resolveTypeExpr consults this before falling back
// to a user TypeDefinition.
var builtins = map[string]types.AtomicKind{
	"bool":   types.Bool,
	"sint8":  types.SInt8,
	"sint16": types.SInt16,
	"sint32": types.SInt32,
	"sint64": types.SInt64,
	"uint8":  types.UInt8,
	"uint16": types.UInt16,
	"uint32": types.UInt32,
	"uint64": types.UInt64,
	"fp32":   types.FP32,
	"fp64":   types.FP64,
}

// resolveTypeExpr converts a syntactic type (ast.TypeExpr, as produced by
// internal/parser) into a resolved types.Type, looking up NamedTypeRef
// names in the current Context.
func (a *Analyzer) resolveTypeExpr(t ast.TypeExpr) types.Type {
	switch te := t.(type) {
	case *ast.NamedTypeRef:
		if kind, ok := builtins[te.Name]; ok {
			return types.Atomic{Kind: kind}
		}
		if resolved, ok := a.ctx.LookupType(te.Name); ok {
			return resolved
		}
		a.errorfAt(rlerrors.ErrS001, te.Span(), te.Name, "undefined type %q", te.Name)
		return types.AnyType{}
	case *ast.AnyTypeRef:
		return types.AnyType{}
	case *ast.ArrayTypeRef:
		component := a.resolveTypeExpr(te.Component)
		return types.ArrayType{Component: component, Size: te.Size}
	case *ast.TupleTypeRef:
		members := make([]types.Type, len(te.Members))
		for i, m := range te.Members {
			members[i] = a.resolveTypeExpr(m)
		}
		return types.TupleType{Members: members}
	case *ast.StructTypeRef:
		memberTypes := make([]types.Type, len(te.Types))
		for i, m := range te.Types {
			memberTypes[i] = a.resolveTypeExpr(m)
		}
		return types.StructureType{Names: te.Names, Types: memberTypes}
	default:
		rlerrors.Internal("resolveTypeExpr: unhandled TypeExpr %T", t)
		return nil
	}
}

// typeDefinitionDependsOn reports whether t syntactically mentions name,
// directly or through a chain of already-defined named types — used by
// analyzeTypeDefinition's transitive-closure cycle check before a new
// name is actually bound (spec.md §4.6 "cycles rejected via transitive
// closure check before insertion").
func (a *Analyzer) typeDefinitionDependsOn(t ast.TypeExpr, name string, visiting map[string]bool) bool {
	switch te := t.(type) {
	case *ast.NamedTypeRef:
		if te.Name == name {
			return true
		}
		if _, isBuiltin := builtins[te.Name]; isBuiltin {
			return false
		}
		if visiting[te.Name] {
			return false
		}
		def, ok := a.typeDefs[te.Name]
		if !ok {
			return false
		}
		visiting[te.Name] = true
		return a.typeDefinitionDependsOn(def, name, visiting)
	case *ast.ArrayTypeRef:
		return a.typeDefinitionDependsOn(te.Component, name, visiting)
	case *ast.TupleTypeRef:
		for _, m := range te.Members {
			if a.typeDefinitionDependsOn(m, name, visiting) {
				return true
			}
		}
		return false
	case *ast.StructTypeRef:
		for _, m := range te.Types {
			if a.typeDefinitionDependsOn(m, name, visiting) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
