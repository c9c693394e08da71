package parser

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/source"
	"acsc/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) token.Token {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.lx.Next())
	}
	return p.buf[n]
}

// advance съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	p.buf = p.buf[1:]
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan: для EOF используем позицию сразу после lastSpan
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, sp, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) expectSemicolon() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected `;`")
	return ok
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || (p.opts.MaxErrors != 0 && p.opts.CurrentErrors > p.opts.MaxErrors) {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

// parseIdent ожидает Ident и интернирует обе формы: свёрнутую и исходную.
func (p *Parser) parseIdent() (ast.Ident, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier")
	if !ok {
		return ast.Ident{}, false
	}
	return p.ident(tok), true
}

func (p *Parser) ident(tok token.Token) ast.Ident {
	return ast.Ident{
		Name: p.strs.InternFold(tok.Text),
		Text: p.strs.Intern(tok.Text),
		Pos:  tok.Span,
	}
}
