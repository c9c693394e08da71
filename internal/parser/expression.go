package parser

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/lexer"
	"acsc/internal/source"
	"acsc/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	root, ok := p.parseBinary(precAssignment)
	if !ok {
		return ast.NoExprID, false
	}
	return p.nodes.NewExpr(p.nodes.Get(root).Span, root), true
}

// parseBinary реализует Pratt parsing; присваивание правоассоциативно.
func (p *Parser) parseBinary(minPrec int) (ast.NodeID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		tok := p.peek()
		prec, rightAssoc := binaryPrec(tok.Kind)
		if prec < minPrec {
			return left, true
		}
		p.advance()
		next := prec + 1
		if rightAssoc {
			next = prec
		}
		right, ok := p.parseBinary(next)
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.nodes.Get(left).Span.Cover(p.nodes.Get(right).Span)
		if op, isAssign := assignOps[tok.Kind]; isAssign {
			left = p.nodes.NewAssign(span, op, left, right)
		} else {
			left = p.nodes.NewBinary(span, binaryOps[tok.Kind], left, right)
		}
	}
}

// parseUnary обрабатывает префиксные операторы
func (p *Parser) parseUnary() (ast.NodeID, bool) {
	if op, ok := prefixOps[p.peek().Kind]; ok {
		opTok := p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoNodeID, false
		}
		span := opTok.Span.Cover(p.nodes.Get(operand).Span)
		return p.nodes.NewUnary(span, op, operand), true
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.NodeID, bool) {
	node, ok := p.parsePrimary()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		start := p.nodes.Get(node).Span
		switch p.peek().Kind {
		case token.PlusPlus, token.MinusMinus:
			tok := p.advance()
			op := ast.UnaryPostInc
			if tok.Kind == token.MinusMinus {
				op = ast.UnaryPostDec
			}
			node = p.nodes.NewUnary(start.Cover(tok.Span), op, node)
		case token.LBracket:
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			end, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected `]`")
			if !ok {
				return ast.NoNodeID, false
			}
			node = p.nodes.NewSubscript(start.Cover(end.Span), node, index)
		case token.LParen:
			if p.noCall {
				return node, true
			}
			call, ok := p.parseCall(node)
			if !ok {
				return ast.NoNodeID, false
			}
			node = call
		case token.Dot, token.ColonColon:
			sep := p.advance()
			name, ok := p.parseIdent()
			if !ok {
				return ast.NoNodeID, false
			}
			node = p.nodes.NewAccess(start.Cover(name.Pos), node, name.Name, name.Text, sep.Kind == token.ColonColon)
		default:
			return node, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := lexer.IntValue(tok.Text)
		if err != nil {
			p.report(diag.LexBadNumber, tok.Span, err.Error())
		}
		return p.nodes.NewLiteral(tok.Span, v), true
	case token.CharLit:
		p.advance()
		v, err := lexer.CharValue(tok.Text)
		if err != nil {
			p.report(diag.LexBadCharLiteral, tok.Span, "invalid character literal")
		}
		return p.nodes.NewLiteral(tok.Span, v), true
	case token.StringLit:
		p.advance()
		s, err := lexer.Unquote(tok.Text)
		if err != nil {
			p.report(diag.LexBadEscape, tok.Span, "invalid escape sequence in string")
		}
		return p.nodes.NewString(tok.Span, p.strs.Intern(s)), true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.nodes.NewBoolean(tok.Span, tok.Kind == token.KwTrue), true
	case token.Ident:
		p.advance()
		return p.nameUsage(tok), true
	case token.KwUpmost:
		p.advance()
		return p.nodes.NewRegionUpmost(tok.Span), true
	case token.KwRegion:
		p.advance()
		return p.nodes.NewRegionHost(tok.Span), true
	case token.LParen:
		open := p.advance()
		noCall := p.noCall
		p.noCall = false
		inside, ok := p.parseBinary(precAssignment)
		p.noCall = noCall
		if !ok {
			return ast.NoNodeID, false
		}
		end, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected `)`")
		if !ok {
			return ast.NoNodeID, false
		}
		return p.nodes.NewParen(open.Span.Cover(end.Span), inside), true
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoNodeID, false
}

func (p *Parser) nameUsage(tok token.Token) ast.NodeID {
	return p.nodes.NewName(tok.Span, p.strs.InternFold(tok.Text), p.strs.Intern(tok.Text), p.file.Lib)
}

// parsePath разбирает `name`, `upmost`, `region` с цепочкой `::name`.
// Используется в import, alias и типах struct.
func (p *Parser) parsePath() (ast.NodeID, bool) {
	var node ast.NodeID
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		node = p.nameUsage(tok)
	case token.KwUpmost:
		p.advance()
		node = p.nodes.NewRegionUpmost(tok.Span)
	case token.KwRegion:
		p.advance()
		node = p.nodes.NewRegionHost(tok.Span)
	default:
		p.err(diag.SynExpectIdentifier, "expected name, got "+describe(tok))
		return ast.NoNodeID, false
	}
	for p.at(token.ColonColon) {
		p.advance()
		name, ok := p.parseIdent()
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.nodes.Get(node).Span.Cover(name.Pos)
		node = p.nodes.NewAccess(span, node, name.Name, name.Text, true)
	}
	return node, true
}

func (p *Parser) spanOf(id ast.ExprID) source.Span {
	return p.nodes.Expr(id).Span
}
