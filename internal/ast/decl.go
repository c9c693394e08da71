package ast

import (
	"acsc/internal/source"
)

// Decl is a declaration appearing at file, region or block level.
type Decl interface {
	Span() source.Span
	declNode()
}

// File is one parsed source file.
type File struct {
	Path    string
	FileID  source.FileID
	Lib     LibID
	Library *LibraryDirective // nil for a plain (main) file
	Decls   []Decl
}

// LibraryDirective is `#library "name"`.
type LibraryDirective struct {
	Name string
	Pos  source.Span
}

// Ident is a declared name: the folded lookup key plus the written spelling.
type Ident struct {
	Name source.StringID
	Text source.StringID
	Pos  source.Span
}

// ImportDecl is either `import "file.acs";` (Path set) or
// `import region::path;` (Region set to a name/access node).
type ImportDecl struct {
	Pos    source.Span
	Path   string
	Region NodeID
}

type RegionDecl struct {
	Pos   source.Span
	Name  Ident
	Decls []Decl
}

type ConstDecl struct {
	Pos    source.Span
	Static bool
	Name   Ident
	Value  ExprID
}

type TypeSpecKind uint8

const (
	TypeVoid TypeSpecKind = iota
	TypeInt
	TypeStr
	TypeBool
	TypeStruct     // `struct Name`, Ref names the struct
	TypeAnonStruct // `struct { ... }`, Anon holds the members
)

type TypeSpec struct {
	Pos  source.Span
	Kind TypeSpecKind
	Ref  NodeID
	Anon *StructDecl
}

type Declarator struct {
	Pos  source.Span
	Name Ident
	Dims []ExprID
	Init ExprID
}

type VarDecl struct {
	Pos    source.Span
	Static bool
	Type   *TypeSpec
	Vars   []*Declarator
}

type MemberDecl struct {
	Pos  source.Span
	Type *TypeSpec
	Name Ident
	Dims []ExprID
}

type StructDecl struct {
	Pos     source.Span
	Name    Ident // zero for anonymous structs
	Members []*MemberDecl
}

type Param struct {
	Pos     source.Span
	Type    *TypeSpec
	Name    Ident
	Default ExprID
}

// FuncDecl is a user function. Nested is set when it is declared inside
// another function or script body.
type FuncDecl struct {
	Pos    source.Span
	Static bool
	Nested bool
	Return *TypeSpec
	Name   Ident
	Params []*Param
	Body   *BlockStmt
}

type ScriptDecl struct {
	Pos    source.Span
	Number ExprID
	Params []*Param
	Body   *BlockStmt
}

// AliasDecl is `alias name = path;`.
type AliasDecl struct {
	Pos    source.Span
	Name   Ident
	Target NodeID
}

func (d *ImportDecl) Span() source.Span { return d.Pos }
func (d *RegionDecl) Span() source.Span { return d.Pos }
func (d *ConstDecl) Span() source.Span  { return d.Pos }
func (d *VarDecl) Span() source.Span    { return d.Pos }
func (d *StructDecl) Span() source.Span { return d.Pos }
func (d *FuncDecl) Span() source.Span   { return d.Pos }
func (d *ScriptDecl) Span() source.Span { return d.Pos }
func (d *AliasDecl) Span() source.Span  { return d.Pos }

func (*ImportDecl) declNode() {}
func (*RegionDecl) declNode() {}
func (*ConstDecl) declNode()  {}
func (*VarDecl) declNode()    {}
func (*StructDecl) declNode() {}
func (*FuncDecl) declNode()   {}
func (*ScriptDecl) declNode() {}
func (*AliasDecl) declNode()  {}
