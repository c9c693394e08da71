package lexer

import (
	"acsc/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии `//` и `/* */`.
// Block comments do not nest.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\n', '\v', '\f':
			lx.cursor.Bump()
			continue
		case '/':
			if lx.skipComment() {
				continue
			}
		}
		return
	}
}

func (lx *Lexer) skipComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true
	case '*':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() {
			if lx.try2('*', '/') {
				return true
			}
			lx.cursor.Bump()
		}
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start).Head(), "unterminated comment")
		return true
	}
	return false
}
