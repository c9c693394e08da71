package lexer

import (
	"acsc/internal/diag"
	"acsc/internal/token"
)

// scanIdentOrKeyword сканирует [A-Za-z_][A-Za-z0-9_]*. Ключевые слова
// регистронезависимые; Token.Text сохраняет исходное написание.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if k, ok := token.LookupKeyword(lx.fold.String(text)); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanDirective распознаёт `#library`. Остальные директивы препроцессора
// не поддерживаются.
func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if lx.fold.String(text) == "#library" {
		return token.Token{Kind: token.HashLibrary, Span: sp, Text: text}
	}
	if len(text) == 1 {
		lx.errLex(diag.LexUnknownChar, sp, "invalid character `#`")
	} else {
		lx.errLex(diag.LexUnknownChar, sp, "unsupported directive `"+text+"`")
	}
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
