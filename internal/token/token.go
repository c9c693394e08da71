package token

import (
	"acsc/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, character, boolean or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, CharLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwImport && t.Kind <= KwFalse
}

// IsAssign reports whether the token is `=` or a compound assignment.
func (t Token) IsAssign() bool {
	return t.Kind >= Assign && t.Kind <= ShrAssign
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
