package parser

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/token"
)

func (p *Parser) parseBlock() (*ast.BlockStmt, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected `{`")
	if !ok {
		return nil, false
	}
	block := &ast.BlockStmt{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.opts.Enough() {
			p.skipAll()
			return nil, false
		}
		stmt, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	end, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected `}`")
	if !ok {
		return nil, false
	}
	block.Pos = open.Span.Cover(end.Span)
	return block, true
}

// resyncStmt: до ';' (съедаем) или до '}' (оставляем).
func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		if p.advance().Kind == token.Semicolon {
			return
		}
	}
}

// parseStmt возвращает nil, true для пустой инструкции.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return nil, true
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile, token.KwUntil:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDo()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		p.advance()
		ret := &ast.ReturnStmt{}
		if !p.at(token.Semicolon) {
			var ok bool
			if ret.Value, ok = p.parseExpr(); !ok {
				return nil, false
			}
		}
		ret.Pos = tok.Span.Cover(p.lastSpan)
		return ret, p.expectSemicolon()
	case token.KwBreak:
		p.advance()
		return &ast.BreakStmt{Pos: tok.Span}, p.expectSemicolon()
	case token.KwContinue:
		p.advance()
		return &ast.ContinueStmt{Pos: tok.Span}, p.expectSemicolon()
	case token.KwBuildMsg:
		return p.parseBuildMsg()
	case token.KwConst:
		return p.declStmt(p.parseConst(false))
	case token.KwFunction:
		return p.declStmt(p.parseFunction(false))
	case token.KwInt, token.KwStr, token.KwBool, token.KwStruct:
		return p.declStmt(p.parseVar(false))
	case token.KwStatic, token.KwImport, token.KwScript, token.KwAlias:
		p.err(diag.SynUnexpectedToken, "`"+tok.Kind.String()+"` is not allowed inside a block")
		return nil, false
	}
	if p.atFormatCast() {
		items, ok := p.parseFormatList()
		if !ok {
			return nil, false
		}
		return &ast.FormatStmt{Pos: tok.Span.Cover(p.lastSpan), Items: items}, true
	}
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return &ast.ExprStmt{Pos: p.spanOf(expr), Expr: expr}, p.expectSemicolon()
}

func (p *Parser) declStmt(decl ast.Decl, ok bool) (ast.Stmt, bool) {
	if !ok {
		return nil, false
	}
	return &ast.DeclStmt{Decl: decl}, true
}

func (p *Parser) parseCond() (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected `(`"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected `)`"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseIf() (ast.Stmt, bool) {
	start := p.advance() // if
	stmt := &ast.IfStmt{}
	var ok bool
	if stmt.Cond, ok = p.parseCond(); !ok {
		return nil, false
	}
	if stmt.Then, ok = p.parseSubStmt(); !ok {
		return nil, false
	}
	if p.at(token.KwElse) {
		p.advance()
		if stmt.Else, ok = p.parseSubStmt(); !ok {
			return nil, false
		}
	}
	stmt.Pos = start.Span.Cover(p.lastSpan)
	return stmt, true
}

// parseSubStmt: тело if/while/for; пустая инструкция становится пустым блоком.
func (p *Parser) parseSubStmt() (ast.Stmt, bool) {
	start := p.peek().Span
	stmt, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	if stmt == nil {
		return &ast.BlockStmt{Pos: start}, true
	}
	return stmt, true
}

func (p *Parser) parseWhile() (ast.Stmt, bool) {
	start := p.advance() // while / until
	stmt := &ast.WhileStmt{Until: start.Kind == token.KwUntil}
	var ok bool
	if stmt.Cond, ok = p.parseCond(); !ok {
		return nil, false
	}
	if stmt.Body, ok = p.parseSubStmt(); !ok {
		return nil, false
	}
	stmt.Pos = start.Span.Cover(p.lastSpan)
	return stmt, true
}

func (p *Parser) parseDo() (ast.Stmt, bool) {
	start := p.advance() // do
	stmt := &ast.DoStmt{}
	var ok bool
	if stmt.Body, ok = p.parseSubStmt(); !ok {
		return nil, false
	}
	switch p.peek().Kind {
	case token.KwWhile:
	case token.KwUntil:
		stmt.Until = true
	default:
		p.err(diag.SynUnexpectedToken, "expected `while` or `until` after do body")
		return nil, false
	}
	p.advance()
	if stmt.Cond, ok = p.parseCond(); !ok {
		return nil, false
	}
	stmt.Pos = start.Span.Cover(p.lastSpan)
	return stmt, p.expectSemicolon()
}

// parseFor: `for (init; cond; post) body`; init это объявление или список выражений.
func (p *Parser) parseFor() (ast.Stmt, bool) {
	start := p.advance() // for
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected `(` after for"); !ok {
		return nil, false
	}
	stmt := &ast.ForStmt{}
	switch {
	case atTypeStart(p.peek().Kind):
		decl, ok := p.parseVar(false)
		if !ok {
			return nil, false
		}
		stmt.Init = append(stmt.Init, &ast.DeclStmt{Decl: decl})
	case p.at(token.Semicolon):
		p.advance()
	default:
		for {
			expr, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			stmt.Init = append(stmt.Init, &ast.ExprStmt{Pos: p.spanOf(expr), Expr: expr})
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if !p.expectSemicolon() {
			return nil, false
		}
	}
	if !p.at(token.Semicolon) {
		var ok bool
		if stmt.Cond, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	if !p.expectSemicolon() {
		return nil, false
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		expr, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		stmt.Post = append(stmt.Post, expr)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected `)`"); !ok {
		return nil, false
	}
	var ok bool
	if stmt.Body, ok = p.parseSubStmt(); !ok {
		return nil, false
	}
	stmt.Pos = start.Span.Cover(p.lastSpan)
	return stmt, true
}

// parseBuildMsg: `buildmsg (Print(msgbuild)) { s: "a"; }`
func (p *Parser) parseBuildMsg() (ast.Stmt, bool) {
	start := p.advance() // buildmsg
	call, ok := p.parseCond()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &ast.BuildMsgStmt{Pos: start.Span.Cover(body.Pos), Call: call, Body: body}, true
}
