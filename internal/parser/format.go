package parser

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/token"
)

// atFormatItem: `d:` и т.п. или `msgbuild`.
func (p *Parser) atFormatItem() bool {
	if p.at(token.KwMsgBuild) {
		return true
	}
	return p.atFormatCast()
}

func (p *Parser) atFormatCast() bool {
	tok := p.peek()
	if tok.Kind != token.Ident || p.peekAt(1).Kind != token.Colon {
		return false
	}
	_, ok := ast.FormatCastByLetter[p.strs.Fold(tok.Text)]
	return ok
}

// parseCall разбирает `callee( [format-items [;]] [args] )`.
func (p *Parser) parseCall(callee ast.NodeID) (ast.NodeID, bool) {
	p.advance() // (
	var args []ast.NodeID
	if p.atFormatItem() {
		for {
			item, ok := p.parseFormatItem()
			if !ok {
				return ast.NoNodeID, false
			}
			args = append(args, item)
			if !p.at(token.Comma) || !p.formatItemAfterComma() {
				break
			}
			p.advance()
		}
		switch {
		case p.at(token.Semicolon):
			p.advance()
		case p.at(token.Comma):
			p.advance()
		}
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.atFormatItem() {
			p.err(diag.SynFormatItemPosition, "format item after ordinary argument")
			return ast.NoNodeID, false
		}
		arg, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		args = append(args, p.nodes.NewExprArg(arg))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	end, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected `)` after arguments")
	if !ok {
		return ast.NoNodeID, false
	}
	span := p.nodes.Get(callee).Span.Cover(end.Span)
	return p.nodes.NewCall(span, callee, args), true
}

func (p *Parser) formatItemAfterComma() bool {
	next, after := p.peekAt(1), p.peekAt(2)
	if next.Kind == token.KwMsgBuild {
		return true
	}
	if next.Kind != token.Ident || after.Kind != token.Colon {
		return false
	}
	_, ok := ast.FormatCastByLetter[p.strs.Fold(next.Text)]
	return ok
}

// parseFormatItem разбирает один элемент: `c: expr`, `a: (arr, offset, length)` или `msgbuild`.
func (p *Parser) parseFormatItem() (ast.NodeID, bool) {
	if p.at(token.KwMsgBuild) {
		tok := p.advance()
		return p.nodes.NewFormatBlockUsage(tok.Span), true
	}
	castTok := p.advance()
	p.advance() // :
	cast := ast.FormatCastByLetter[p.strs.Fold(castTok.Text)]
	data := ast.FormatItemData{Cast: cast}
	if cast == ast.CastArray {
		if _, ok := p.expect(token.LParen, diag.SynBadFormatItem, "expected `(` after `a:`"); !ok {
			return ast.NoNodeID, false
		}
		var ok bool
		if data.Value, ok = p.parseExpr(); !ok {
			return ast.NoNodeID, false
		}
		if p.at(token.Comma) {
			p.advance()
			if data.Offset, ok = p.parseExpr(); !ok {
				return ast.NoNodeID, false
			}
			if p.at(token.Comma) {
				p.advance()
				if data.Length, ok = p.parseExpr(); !ok {
					return ast.NoNodeID, false
				}
			}
		}
		end, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected `)` after array format item")
		if !ok {
			return ast.NoNodeID, false
		}
		return p.nodes.NewFormatItem(castTok.Span.Cover(end.Span), data), true
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	data.Value = value
	return p.nodes.NewFormatItem(castTok.Span.Cover(p.spanOf(value)), data), true
}

// parseFormatList разбирает свободный список внутри format block:
// `s: "a", d: x;`. Элементы связываются через Next.
func (p *Parser) parseFormatList() (ast.NodeID, bool) {
	var first, prev ast.NodeID
	for {
		if !p.atFormatCast() {
			p.err(diag.SynBadFormatItem, "expected format item")
			return ast.NoNodeID, false
		}
		item, ok := p.parseFormatItem()
		if !ok {
			return ast.NoNodeID, false
		}
		if prev.IsValid() {
			data, _ := p.nodes.FormatItem(prev)
			data.Next = item
		} else {
			first = item
		}
		prev = item
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return first, p.expectSemicolon()
}
