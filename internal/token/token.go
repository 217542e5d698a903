// Package token defines RulesLang's token kinds and the Token value itself
// (spec.md §3 "Tokens"), following the teacher's token.Token{Type, Lexeme,
// Line, Column} shape but carrying byte spans instead of line/column pairs
// (spec.md requires `[start,end]` byte spans for every node, tokens
// included).
package token

import "github.com/michael-golfi/rules/internal/rlerrors"

// Kind tags a token's syntactic category. One variant per operator
// *class* (not per lexeme) plus the structural and literal variants named
// in spec.md §3.
type Kind int

const (
	Indentation Kind = iota
	Terminator
	Identifier
	Keyword
	BooleanLiteral
	StringLiteral
	IntegerLiteral
	FloatLiteral
	Eof

	Exponent       // **
	Multiplicative // * / %
	Additive       // + -
	Shift          // << >> >>>
	Compare        // === !== == != < > <= >=
	TypeCompare    // :: !: <: >: <<: >>: <:>
	BitwiseAnd     // &
	BitwiseOr      // |
	BitwiseXor     // ^
	LogicalAnd     // &&
	LogicalOr      // ||
	LogicalXor     // ^^
	Concatenate    // ~ (also doubles as unary BitwiseNot, disambiguated by the parser)
	Range          // ..
	Assign         // =
	CompoundAssign // <op>= for every binary op above
	Bang           // !
	OtherSymbol    // ( ) [ ] { } , : .
)

func (k Kind) String() string {
	switch k {
	case Indentation:
		return "Indentation"
	case Terminator:
		return "Terminator"
	case Identifier:
		return "Identifier"
	case Keyword:
		return "Keyword"
	case BooleanLiteral:
		return "BooleanLiteral"
	case StringLiteral:
		return "StringLiteral"
	case IntegerLiteral:
		return "IntegerLiteral"
	case FloatLiteral:
		return "FloatLiteral"
	case Eof:
		return "Eof"
	case Exponent:
		return "Exponent"
	case Multiplicative:
		return "Multiplicative"
	case Additive:
		return "Additive"
	case Shift:
		return "Shift"
	case Compare:
		return "Compare"
	case TypeCompare:
		return "TypeCompare"
	case BitwiseAnd:
		return "BitwiseAnd"
	case BitwiseOr:
		return "BitwiseOr"
	case BitwiseXor:
		return "BitwiseXor"
	case LogicalAnd:
		return "LogicalAnd"
	case LogicalOr:
		return "LogicalOr"
	case LogicalXor:
		return "LogicalXor"
	case Concatenate:
		return "Concatenate"
	case Range:
		return "Range"
	case Assign:
		return "Assign"
	case CompoundAssign:
		return "CompoundAssign"
	case Bang:
		return "Bang"
	case OtherSymbol:
		return "OtherSymbol"
	default:
		return "Unknown"
	}
}

// Token is a single lexeme plus its source span.
type Token struct {
	Kind   Kind
	Lexeme string // raw source text, or a sentinel for synthesized tokens
	Span   rlerrors.Span

	// IndentWhitespace/IndentCount are populated only for Indentation tokens.
	IndentWhitespace rune
	IndentCount      int

	// BaseOp is populated only for CompoundAssign tokens: the lexeme of
	// the underlying binary operator ("+" for "+=", etc.), used by the
	// operator expander (spec.md §4.4).
	BaseOp string
}

// SyntheticSource is the sentinel lexeme for tokens that do not correspond
// to any source text (e.g. Eof), per spec.md §8's quantified invariant:
// "for synthesized tokens, t.start==t.end and source is the sentinel
// string".
const SyntheticSource = "<synthetic>"

func (t Token) IsKeyword(word string) bool {
	return t.Kind == Keyword && t.Lexeme == word
}
