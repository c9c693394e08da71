package parser

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/lexer"
	"acsc/internal/source"
	"acsc/internal/token"
)

func (p *Parser) parseLibraryDirective() *ast.LibraryDirective {
	start := p.advance() // #library
	tok, ok := p.expect(token.StringLit, diag.SynBadLibraryName, "expected library name string")
	if !ok {
		return nil
	}
	name, err := lexer.Unquote(tok.Text)
	if err != nil || name == "" {
		p.report(diag.SynBadLibraryName, tok.Span, "library name is empty")
		return nil
	}
	return &ast.LibraryDirective{Name: name, Pos: start.Span.Cover(tok.Span)}
}

// parseImport: `import "file.acs";` или `import region::path;`
func (p *Parser) parseImport() (ast.Decl, bool) {
	start := p.advance() // import
	decl := &ast.ImportDecl{}
	if p.at(token.StringLit) {
		tok := p.advance()
		path, err := lexer.Unquote(tok.Text)
		if err != nil || path == "" {
			p.report(diag.SynUnexpectedToken, tok.Span, "import path is empty")
			return nil, false
		}
		decl.Path = path
	} else {
		region, ok := p.parsePath()
		if !ok {
			return nil, false
		}
		decl.Region = region
	}
	decl.Pos = start.Span.Cover(p.lastSpan)
	return decl, p.expectSemicolon()
}

func (p *Parser) parseRegion() (ast.Decl, bool) {
	start := p.advance() // region
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected `{` after region name"); !ok {
		return nil, false
	}
	decls := p.parseDecls(token.RBrace)
	end, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected `}` at end of region")
	if !ok {
		return nil, false
	}
	return &ast.RegionDecl{Pos: start.Span.Cover(end.Span), Name: name, Decls: decls}, true
}

func (p *Parser) parseConst(static bool) (ast.Decl, bool) {
	start := p.advance() // const
	if p.atOr(token.KwInt, token.KwBool) {
		p.advance() // `const int X = 1;` is accepted
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected `=` in constant declaration"); !ok {
		return nil, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	decl := &ast.ConstDecl{Pos: start.Span.Cover(p.spanOf(value)), Static: static, Name: name, Value: value}
	return decl, p.expectSemicolon()
}

// parseStructOrVar: `struct Name { ... }` объявляет тип, остальное это переменная.
func (p *Parser) parseStructOrVar(static bool) (ast.Decl, bool) {
	if p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.LBrace {
		if static {
			p.err(diag.SynUnexpectedToken, "struct declaration cannot be static")
			return nil, false
		}
		return p.parseStruct()
	}
	return p.parseVar(static)
}

func (p *Parser) parseStruct() (ast.Decl, bool) {
	start := p.advance() // struct
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	decl, ok := p.parseStructBody(start.Span, name)
	if !ok {
		return nil, false
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
	return decl, true
}

func (p *Parser) parseStructBody(start source.Span, name ast.Ident) (*ast.StructDecl, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected `{`"); !ok {
		return nil, false
	}
	decl := &ast.StructDecl{Name: name}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		typ, ok := p.parseType(false)
		if !ok {
			return nil, false
		}
		for {
			member := &ast.MemberDecl{Type: typ}
			if member.Name, ok = p.parseIdent(); !ok {
				return nil, false
			}
			if member.Dims, ok = p.parseDims(); !ok {
				return nil, false
			}
			member.Pos = typ.Pos.Cover(p.lastSpan)
			decl.Members = append(decl.Members, member)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if !p.expectSemicolon() {
			return nil, false
		}
	}
	end, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected `}` at end of struct")
	if !ok {
		return nil, false
	}
	decl.Pos = start.Cover(end.Span)
	return decl, true
}

func (p *Parser) parseDims() ([]ast.ExprID, bool) {
	var dims []ast.ExprID
	for p.at(token.LBracket) {
		p.advance()
		dim, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected `]`"); !ok {
			return nil, false
		}
		dims = append(dims, dim)
	}
	return dims, true
}

// parseVar: `type declarator {, declarator} ;`
func (p *Parser) parseVar(static bool) (ast.Decl, bool) {
	typ, ok := p.parseType(false)
	if !ok {
		return nil, false
	}
	decl := &ast.VarDecl{Static: static, Type: typ}
	for {
		d := &ast.Declarator{}
		if d.Name, ok = p.parseIdent(); !ok {
			return nil, false
		}
		if d.Dims, ok = p.parseDims(); !ok {
			return nil, false
		}
		if p.at(token.Assign) {
			p.advance()
			if d.Init, ok = p.parseExpr(); !ok {
				return nil, false
			}
		}
		d.Pos = d.Name.Pos.Cover(p.lastSpan)
		decl.Vars = append(decl.Vars, d)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	decl.Pos = typ.Pos.Cover(p.lastSpan)
	return decl, p.expectSemicolon()
}

// parseFunction: `function type name(params) { ... }`
func (p *Parser) parseFunction(static bool) (ast.Decl, bool) {
	start := p.advance() // function
	ret, ok := p.parseType(true)
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected `(` after function name"); !ok {
		return nil, false
	}
	params, ok := p.parseParams()
	if !ok {
		return nil, false
	}
	decl := &ast.FuncDecl{Static: static, Nested: p.fnDepth > 0, Return: ret, Name: name, Params: params}
	if decl.Body, ok = p.parseBody(); !ok {
		return nil, false
	}
	decl.Pos = start.Span.Cover(decl.Body.Pos)
	return decl, true
}

// parseParams разбирает список параметров после '(' включая ')'.
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	var params []*ast.Param
	if p.at(token.KwVoid) && p.peekAt(1).Kind == token.RParen {
		p.advance()
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		typ, ok := p.parseType(false)
		if !ok {
			return nil, false
		}
		param := &ast.Param{Type: typ}
		if param.Name, ok = p.parseIdent(); !ok {
			return nil, false
		}
		if p.at(token.Assign) {
			p.advance()
			if param.Default, ok = p.parseExpr(); !ok {
				return nil, false
			}
		}
		param.Pos = typ.Pos.Cover(p.lastSpan)
		params = append(params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected `)` after parameters"); !ok {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseBody() (*ast.BlockStmt, bool) {
	p.fnDepth++
	defer func() { p.fnDepth-- }()
	return p.parseBlock()
}

// parseScript: `script number [(params)] { ... }`
func (p *Parser) parseScript() (ast.Decl, bool) {
	start := p.advance() // script
	p.noCall = true
	number, ok := p.parseExpr()
	p.noCall = false
	if !ok {
		return nil, false
	}
	decl := &ast.ScriptDecl{Number: number}
	if p.at(token.LParen) {
		p.advance()
		if decl.Params, ok = p.parseParams(); !ok {
			return nil, false
		}
	}
	if decl.Body, ok = p.parseBody(); !ok {
		return nil, false
	}
	decl.Pos = start.Span.Cover(decl.Body.Pos)
	return decl, true
}

// parseAlias: `alias name = path;`
func (p *Parser) parseAlias() (ast.Decl, bool) {
	start := p.advance() // alias
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected `=` in alias declaration"); !ok {
		return nil, false
	}
	target, ok := p.parsePath()
	if !ok {
		return nil, false
	}
	decl := &ast.AliasDecl{Pos: start.Span.Cover(p.lastSpan), Name: name, Target: target}
	return decl, p.expectSemicolon()
}
