package lexer

import "github.com/michael-golfi/rules/internal/token"

// symbolEntry is one row of the maximal-munch operator table (spec.md
// §4.2's fixed operator-lexeme list). The teacher's own scanner hand-codes
// a switch/peekChar chain per character; RulesLang's table is data-driven
// instead because the spec's table has 59 distinct lexemes (vs. the
// teacher's ~30) — a hand nested switch of that size stops being legible,
// so the lexemes are sorted longest-first and matched as a flat table.
type symbolEntry struct {
	lexeme string
	kind   token.Kind
	baseOp string // populated only for CompoundAssign entries
}

// symbolTable is the full operator/punctuation lexeme list from spec.md
// §4.2, longest lexeme first so a linear scan implements maximal munch.
var symbolTable = []symbolEntry{
	{">>>=", token.CompoundAssign, ">>>"},
	{"<:>", token.TypeCompare, ""},
	{"<<:", token.TypeCompare, ""},
	{">>:", token.TypeCompare, ""},
	{"**=", token.CompoundAssign, "**"},
	{"<<=", token.CompoundAssign, "<<"},
	{">>=", token.CompoundAssign, ">>"},
	{"&&=", token.CompoundAssign, "&&"},
	{"^^=", token.CompoundAssign, "^^"},
	{"||=", token.CompoundAssign, "||"},
	{">>>", token.Shift, ""},
	{"===", token.Compare, ""},
	{"!==", token.Compare, ""},
	{"**", token.Exponent, ""},
	{"<<", token.Shift, ""},
	{">>", token.Shift, ""},
	{"==", token.Compare, ""},
	{"!=", token.Compare, ""},
	{"<=", token.Compare, ""},
	{">=", token.Compare, ""},
	{"::", token.TypeCompare, ""},
	{"!:", token.TypeCompare, ""},
	{"<:", token.TypeCompare, ""},
	{">:", token.TypeCompare, ""},
	{"&&", token.LogicalAnd, ""},
	{"^^", token.LogicalXor, ""},
	{"||", token.LogicalOr, ""},
	{"..", token.Range, ""},
	{"*=", token.CompoundAssign, "*"},
	{"/=", token.CompoundAssign, "/"},
	{"%=", token.CompoundAssign, "%"},
	{"+=", token.CompoundAssign, "+"},
	{"-=", token.CompoundAssign, "-"},
	{"&=", token.CompoundAssign, "&"},
	{"^=", token.CompoundAssign, "^"},
	{"|=", token.CompoundAssign, "|"},
	{"~=", token.CompoundAssign, "~"},
	{"*", token.Multiplicative, ""},
	{"/", token.Multiplicative, ""},
	{"%", token.Multiplicative, ""},
	{"+", token.Additive, ""},
	{"-", token.Additive, ""},
	{"<", token.Compare, ""},
	{">", token.Compare, ""},
	{"&", token.BitwiseAnd, ""},
	{"^", token.BitwiseXor, ""},
	{"|", token.BitwiseOr, ""},
	{"~", token.Concatenate, ""},
	{"=", token.Assign, ""},
	{"!", token.Bang, ""},
	{"(", token.OtherSymbol, ""},
	{")", token.OtherSymbol, ""},
	{"[", token.OtherSymbol, ""},
	{"]", token.OtherSymbol, ""},
	{"{", token.OtherSymbol, ""},
	{"}", token.OtherSymbol, ""},
	{",", token.OtherSymbol, ""},
	{":", token.OtherSymbol, ""},
	{".", token.OtherSymbol, ""},
}

// keywords are the reserved words of spec.md §4.2; true/false are lexed
// as BooleanLiteral tokens and null as a Keyword token, none of them
// through this table.
var keywords = map[string]bool{
	"def": true, "let": true, "var": true, "if": true, "else": true,
	"while": true, "func": true, "return": true, "break": true,
	"continue": true, "type": true,
}
