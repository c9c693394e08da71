package lexer

import (
	"acsc/internal/diag"
	"acsc/internal/token"
)

// scanString сканирует "..." с escape-последовательностями. Token.Text
// включает кавычки; раскодирует Unquote.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
		if b == '\n' {
			break
		}
		if b == '\\' {
			lx.scanEscape()
			continue
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanChar сканирует 'c' или '\n'.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''
	switch lx.cursor.Peek() {
	case '\\':
		lx.scanEscape()
	case '\'', '\n', 0:
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadCharLiteral, sp, "missing character in character literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	default:
		lx.cursor.Bump()
	}
	if !lx.cursor.Eat('\'') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadCharLiteral, sp, "missing `'` at end of character literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.CharLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\\'
	b := lx.cursor.Bump()
	switch b {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '\'', '"', '0':
	case 'x', 'X':
		n := 0
		for n < 2 && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n == 0 {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "missing hexadecimal digits in escape sequence")
		}
	default:
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "unknown escape sequence")
	}
}
