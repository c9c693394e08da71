package parser

import (
	"slices"

	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/lexer"
	"acsc/internal/source"
	"acsc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	buf      []token.Token // lookahead: format items need two tokens
	nodes    *ast.Nodes
	strs     *source.Interner
	file     *ast.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	fnDepth  int         // >0 inside a function or script body
	noCall   bool        // script numbers: `script 1 (int a)` is not a call
}

// ParseFile разбирает один файл. Все имена в нём помечаются библиотекой lib.
func ParseFile(file *source.File, lib ast.LibID, nodes *ast.Nodes, strs *source.Interner, opts Options) *ast.File {
	p := Parser{
		lx:    lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		nodes: nodes,
		strs:  strs,
		file: &ast.File{
			Path:   file.Path,
			FileID: file.ID,
			Lib:    lib,
		},
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.parseFile()
	return p.file
}

// Errors returns how many syntax errors were reported.
func (p *Parser) Errors() uint {
	return p.opts.CurrentErrors
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) parseFile() {
	if p.at(token.HashLibrary) {
		p.file.Library = p.parseLibraryDirective()
	}
	p.file.Decls = p.parseDecls(token.EOF)
}

// parseDecls разбирает объявления до закрывающего токена (EOF или '}').
func (p *Parser) parseDecls(end token.Kind) []ast.Decl {
	var decls []ast.Decl
	for !p.at(end) && !p.at(token.EOF) {
		if p.opts.Enough() {
			p.skipAll()
			break
		}
		decl, ok := p.parseDecl()
		if !ok {
			p.resyncTop()
			continue
		}
		if decl != nil {
			decls = append(decls, decl)
		}
	}
	return decls
}

// parseDecl выбирает по первому токену нужный распознаватель конструкции
// уровня файла или региона.
func (p *Parser) parseDecl() (ast.Decl, bool) {
	switch p.peek().Kind {
	case token.KwImport:
		return p.parseImport()
	case token.KwRegion:
		return p.parseRegion()
	case token.KwConst:
		return p.parseConst(false)
	case token.KwStatic:
		return p.parseStatic()
	case token.KwInt, token.KwStr, token.KwBool:
		return p.parseVar(false)
	case token.KwStruct:
		return p.parseStructOrVar(false)
	case token.KwFunction:
		return p.parseFunction(false)
	case token.KwScript:
		return p.parseScript()
	case token.KwAlias:
		return p.parseAlias()
	case token.Semicolon:
		p.advance()
		return nil, true
	case token.HashLibrary:
		p.err(diag.SynUnexpectedTopLevel, "#library must be the first line of the file")
		return nil, false
	default:
		p.err(diag.SynUnexpectedTopLevel, "unexpected "+describe(p.peek())+" at top level")
		return nil, false
	}
}

func (p *Parser) parseStatic() (ast.Decl, bool) {
	p.advance() // static
	switch p.peek().Kind {
	case token.KwConst:
		return p.parseConst(true)
	case token.KwFunction:
		return p.parseFunction(true)
	case token.KwInt, token.KwStr, token.KwBool:
		return p.parseVar(true)
	case token.KwStruct:
		return p.parseStructOrVar(true)
	}
	p.err(diag.SynUnexpectedToken, "expected declaration after `static`")
	return nil, false
}

// resyncTop: прокручиваем до ';' или стартового токена объявления.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		if isDeclStarter(p.peek().Kind) {
			return
		}
		if p.advance().Kind == token.Semicolon {
			return
		}
	}
}

func (p *Parser) skipAll() {
	for !p.at(token.EOF) {
		p.advance()
	}
}

func isDeclStarter(k token.Kind) bool {
	switch k {
	case token.KwImport, token.KwRegion, token.KwConst, token.KwStatic, token.KwInt,
		token.KwStr, token.KwBool, token.KwStruct, token.KwFunction, token.KwScript, token.KwAlias:
		return true
	default:
		return false
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.CharLit, token.StringLit, token.Invalid:
		return "`" + tok.Text + "`"
	}
	return "`" + tok.Kind.String() + "`"
}
