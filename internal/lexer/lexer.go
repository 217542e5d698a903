// Package lexer implements the Tokenizer (spec.md §4.2): a lazy sequence of
// tokens over the Source reader's code points, with bounded backtracking
// via a small stack of cursor snapshots (spec.md §4.2, §9 "Tokenizer
// backtracking").
//
// Structurally this follows the teacher's internal/lexer.Lexer (a cursor
// over runes producing one Token per NextToken call), generalized from the
// teacher's hand-written character switch to a data table
// (symbols.go) because RulesLang's operator set is roughly twice the size
// of the teacher's.
package lexer

import (
	"strings"

	"github.com/michael-golfi/rules/internal/reader"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/token"
)

// Lexer produces RulesLang tokens from normalized source text.
type Lexer struct {
	r           *reader.Reader
	atLineStart bool
	saveStack   []snapshot
}

type snapshot struct {
	pos         reader.Position
	atLineStart bool
}

// New creates a Lexer over raw source text (normalization happens inside
// reader.New).
func New(src string) *Lexer {
	return &Lexer{r: reader.New(src), atLineStart: true}
}

// Text returns the normalized source text, for diagnostics.
func (l *Lexer) Text() string { return l.r.Text() }

// Save pushes a cursor snapshot (spec.md §9: "a small stack of cursor
// snapshots").
func (l *Lexer) Save() {
	l.saveStack = append(l.saveStack, snapshot{pos: l.r.Save(), atLineStart: l.atLineStart})
}

// Discard pops the most recent snapshot without rewinding.
func (l *Lexer) Discard() {
	if len(l.saveStack) == 0 {
		rlerrors.Internal("lexer.Discard called with empty save stack")
	}
	l.saveStack = l.saveStack[:len(l.saveStack)-1]
}

// Restore pops the most recent snapshot and rewinds the cursor to it.
func (l *Lexer) Restore() {
	if len(l.saveStack) == 0 {
		rlerrors.Internal("lexer.Restore called with empty save stack")
	}
	top := l.saveStack[len(l.saveStack)-1]
	l.saveStack = l.saveStack[:len(l.saveStack)-1]
	l.r.Restore(top.pos)
	l.atLineStart = top.atLineStart
}

func isNewlineStart(c rune) bool { return c == '\n' || c == '\r' }

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c rune) bool { return isIdentStart(c) || isDigit(c) }

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Next produces the next token. It is the tokenizer's sole entry point;
// callers (the parser) drive it one token at a time and rely on Save/
// Discard/Restore for backtracking.
func (l *Lexer) Next() token.Token {
	if l.atLineStart {
		if tok, ok := l.tryIndentation(); ok {
			return tok
		}
		l.atLineStart = false
	}

	l.skipInlineWhitespace()

	if !l.r.Has() {
		l.r.Mark()
		return l.synthetic(token.Eof)
	}

	c := l.r.Head()
	switch {
	case isNewlineStart(c):
		return l.readNewlineTerminator()
	case c == ';':
		l.r.Mark()
		l.r.Advance()
		return l.finish(token.Terminator)
	case isDigit(c):
		return l.readNumber()
	case c == '"':
		return l.readString()
	case isIdentStart(c):
		return l.readIdentifier()
	default:
		return l.readSymbol()
	}
}

// tryIndentation consumes a run of whitespace at the start of a logical
// line. Per spec.md §4.2/§4.3 the run need not be uniform — mixed runs are
// rejected by the parser, not the tokenizer — so the token records both
// the longest identical-character prefix (IndentCount/IndentWhitespace)
// and the raw text, letting the parser detect a mismatch.
func (l *Lexer) tryIndentation() (token.Token, bool) {
	l.r.Mark()
	if !l.r.Has() || isNewlineStart(l.r.Head()) || !isInlineSpace(l.r.Head()) {
		return token.Token{}, false
	}
	first := l.r.Head()
	for l.r.Has() && isInlineSpace(l.r.Head()) {
		l.r.Advance()
	}
	tok := l.finish(token.Indentation)
	tok.IndentWhitespace = first
	tok.IndentCount = prefixRunLength(tok.Lexeme, first)
	return tok, true
}

// isInlineSpace reports whether c is a non-newline whitespace character
// eligible to participate in indentation.
func isInlineSpace(c rune) bool {
	return c == ' ' || c == '\t'
}

// prefixRunLength returns the length of the leading run of `first` runes
// in s.
func prefixRunLength(s string, first rune) int {
	n := 0
	for _, r := range s {
		if r != first {
			break
		}
		n++
	}
	return n
}

// skipInlineWhitespace skips spaces/tabs that are not at the start of a
// logical line (spec.md §4.2: "skips whitespace within a line").
func (l *Lexer) skipInlineWhitespace() {
	for l.r.Has() && isInlineSpace(l.r.Head()) {
		l.r.Advance()
	}
}

// readNewlineTerminator consumes LF, CR, or CR LF as a single Terminator
// token and marks the next Next() call to look for indentation.
func (l *Lexer) readNewlineTerminator() token.Token {
	l.r.Mark()
	c := l.r.Advance()
	if c == '\r' && l.r.Head() == '\n' {
		l.r.Advance()
	}
	l.atLineStart = true
	return l.finish(token.Terminator)
}

func (l *Lexer) readIdentifier() token.Token {
	l.r.Mark()
	for l.r.Has() && isIdentCont(l.r.Head()) {
		l.r.Advance()
	}
	text := l.r.Lexeme()
	switch text {
	case "true", "false":
		return l.finishKind(token.BooleanLiteral)
	case "null":
		return l.finishKind(token.Keyword) // NullLit is resolved by the type system from the "null" keyword
	default:
		if keywords[text] {
			return l.finishKind(token.Keyword)
		}
		return l.finishKind(token.Identifier)
	}
}

// readNumber lexes decimal/hex/binary integers and floats. It is only
// entered when the current character is a digit — a bare leading dot
// (the grammar's ". digits" float form) is deliberately left to
// readSymbol instead, so that a dot directly followed by a digit (as in
// a tuple field access "t.1") tokenizes as a plain Dot rather than
// swallowing the digit into a float; readNumber is then re-entered
// starting at the digit itself, which still lets a trailing dot with no
// fractional digits ("1.") form a float token for the parser to
// re-split against a following identifier.
func (l *Lexer) readNumber() token.Token {
	l.r.Mark()
	isFloat := false

	if l.r.Head() == '0' && (l.r.HeadAt(1) == 'x' || l.r.HeadAt(1) == 'X') {
		l.r.Advance()
		l.r.Advance()
		l.consumeDigitsWhile(isHexDigit)
		return l.finishKind(token.IntegerLiteral)
	}
	if l.r.Head() == '0' && (l.r.HeadAt(1) == 'b' || l.r.HeadAt(1) == 'B') {
		l.r.Advance()
		l.r.Advance()
		l.consumeDigitsWhile(func(c rune) bool { return c == '0' || c == '1' })
		return l.finishKind(token.IntegerLiteral)
	}

	l.consumeDigitsWhile(isDigit)

	// A dot continues the literal as a float (digits . digits?) unless it
	// is actually the start of the Range operator "..".
	if l.r.Head() == '.' && l.r.HeadAt(1) != '.' {
		isFloat = true
		l.r.Advance()
		l.consumeDigitsWhile(isDigit)
	}

	if l.r.Head() == 'e' || l.r.Head() == 'E' {
		save := l.r.Save()
		l.r.Advance()
		if l.r.Head() == '+' || l.r.Head() == '-' {
			l.r.Advance()
		}
		if isDigit(l.r.Head()) {
			isFloat = true
			l.consumeDigitsWhile(isDigit)
		} else {
			l.r.Restore(save)
		}
	}

	if isFloat {
		return l.finishKind(token.FloatLiteral)
	}
	return l.finishKind(token.IntegerLiteral)
}

func (l *Lexer) consumeDigitsWhile(pred func(rune) bool) {
	for l.r.Has() && (pred(l.r.Head()) || l.r.Head() == '_') {
		l.r.Advance()
	}
}

// readString lexes a double-quoted string literal, only scanning past
// escapes: Token.Lexeme holds the raw source text, and the caller
// recovers the decoded value separately via DecodedString.
func (l *Lexer) readString() token.Token {
	l.r.Mark()
	l.r.Advance() // opening quote
	for l.r.Has() && l.r.Head() != '"' {
		if l.r.Head() == '\\' {
			l.r.Advance()
			if l.r.Has() {
				l.r.Advance()
				if l.r.HeadAt(-1) == 'u' {
					for i := 0; i < 4 && l.r.Has() && isHexDigit(l.r.Head()); i++ {
						l.r.Advance()
					}
				}
			}
			continue
		}
		l.r.Advance()
	}
	if !l.r.Has() {
		panic(rlerrors.New(rlerrors.ErrT001, l.r.Text(), rlerrors.Span{Start: l.r.MarkStart(), End: l.r.ByteOffset()},
			"unterminated string literal", l.r.Lexeme()))
	}
	l.r.Advance() // closing quote
	return l.finishKind(token.StringLiteral)
}

// DecodedString decodes a StringLiteral token's raw lexeme (including
// quotes) per spec.md §4.2's escape table.
func DecodedString(lexeme string) (string, error) {
	if len(lexeme) < 2 {
		return "", nil
	}
	body := lexeme[1 : len(lexeme)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			break
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case 'u':
			if i+4 < len(body) {
				var v rune
				for j := 1; j <= 4; j++ {
					v = v*16 + rune(hexVal(body[i+j]))
				}
				b.WriteRune(v)
				i += 4
			}
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

// readSymbol performs maximal munch over symbolTable.
func (l *Lexer) readSymbol() token.Token {
	l.r.Mark()
	for _, entry := range symbolTable {
		if l.matchesAt(entry.lexeme) {
			for range entry.lexeme {
				l.r.Advance()
			}
			tok := l.finish(entry.kind)
			tok.BaseOp = entry.baseOp
			return tok
		}
	}
	// Unrecognized rune: consume it and report.
	start := l.r.ByteOffset()
	bad := l.r.Advance()
	panic(rlerrors.New(rlerrors.ErrT003, l.r.Text(), rlerrors.Span{Start: start, End: l.r.ByteOffset()},
		"unrecognized symbol", string(bad)))
}

func (l *Lexer) matchesAt(lexeme string) bool {
	for i, want := range lexeme {
		if l.r.HeadAt(i) != want {
			return false
		}
	}
	return true
}

func (l *Lexer) finish(kind token.Kind) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: l.r.Lexeme(),
		Span:   rlerrors.Span{Start: l.r.MarkStart(), End: l.r.ByteOffset()},
	}
}

func (l *Lexer) finishKind(kind token.Kind) token.Token { return l.finish(kind) }

func (l *Lexer) synthetic(kind token.Kind) token.Token {
	pos := l.r.ByteOffset()
	return token.Token{Kind: kind, Lexeme: token.SyntheticSource, Span: rlerrors.Span{Start: pos, End: pos}}
}
