package lexer

import (
	"acsc/internal/diag"
	"acsc/internal/token"
)

// Поддержка: 123, 0x1F, 0b101, 0o17 и C-style 017. Значение вычисляет парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	valid := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		if prefixed := basePrefix(b1); prefixed != nil {
			valid = prefixed
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !valid(lx.cursor.Peek()) {
				return lx.badNumber(start, "missing digits after base prefix")
			}
		}
	}
	for valid(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// 12abc, 0b102
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.badNumber(start, "invalid digit in number")
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if len(text) > 1 && text[0] == '0' && isDec(text[1]) {
		for i := 1; i < len(text); i++ {
			if !isOct(text[i]) {
				return lx.badNumber(start, "invalid digit in octal number")
			}
		}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func basePrefix(b byte) func(byte) bool {
	switch b {
	case 'x', 'X':
		return isHex
	case 'b', 'B':
		return isBin
	case 'o', 'O':
		return isOct
	}
	return nil
}
