package parser

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/token"
)

// parseType: `int | str | bool | struct path | struct { ... }`, плюс `void`
// когда allowVoid (тип результата функции).
func (p *Parser) parseType(allowVoid bool) (*ast.TypeSpec, bool) {
	tok := p.peek()
	spec := &ast.TypeSpec{Pos: tok.Span}
	switch tok.Kind {
	case token.KwInt:
		spec.Kind = ast.TypeInt
	case token.KwStr:
		spec.Kind = ast.TypeStr
	case token.KwBool:
		spec.Kind = ast.TypeBool
	case token.KwVoid:
		if !allowVoid {
			p.err(diag.SynExpectType, "`void` is only allowed as a return type")
			return nil, false
		}
		spec.Kind = ast.TypeVoid
	case token.KwStruct:
		p.advance()
		if p.at(token.LBrace) {
			anon, ok := p.parseStructBody(tok.Span, ast.Ident{})
			if !ok {
				return nil, false
			}
			spec.Kind = ast.TypeAnonStruct
			spec.Anon = anon
			spec.Pos = anon.Pos
			return spec, true
		}
		ref, ok := p.parsePath()
		if !ok {
			return nil, false
		}
		spec.Kind = ast.TypeStruct
		spec.Ref = ref
		spec.Pos = tok.Span.Cover(p.nodes.Get(ref).Span)
		return spec, true
	default:
		p.err(diag.SynExpectType, "expected type, got "+describe(tok))
		return nil, false
	}
	p.advance()
	return spec, true
}

func atTypeStart(k token.Kind) bool {
	switch k {
	case token.KwInt, token.KwStr, token.KwBool, token.KwStruct:
		return true
	default:
		return false
	}
}
