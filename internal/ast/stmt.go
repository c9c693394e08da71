package ast

import (
	"acsc/internal/source"
)

type Stmt interface {
	Span() source.Span
	stmtNode()
}

type BlockStmt struct {
	Pos   source.Span
	Stmts []Stmt
}

type ExprStmt struct {
	Pos  source.Span
	Expr ExprID
}

type IfStmt struct {
	Pos  source.Span
	Cond ExprID
	Then Stmt
	Else Stmt
}

// WhileStmt covers `while` and `until`.
type WhileStmt struct {
	Pos   source.Span
	Until bool
	Cond  ExprID
	Body  Stmt
}

type DoStmt struct {
	Pos   source.Span
	Until bool
	Body  Stmt
	Cond  ExprID
}

type ForStmt struct {
	Pos  source.Span
	Init []Stmt // var declarations or expression statements
	Cond ExprID
	Post []ExprID
	Body Stmt
}

type ReturnStmt struct {
	Pos   source.Span
	Value ExprID
}

type BreakStmt struct{ Pos source.Span }

type ContinueStmt struct{ Pos source.Span }

// BuildMsgStmt is `buildmsg (Call(msgbuild)) { ... }`; the body is the
// format block the msgbuild usage in Call refers to.
type BuildMsgStmt struct {
	Pos  source.Span
	Call ExprID
	Body *BlockStmt
}

// FormatStmt is a free format-item list inside a format block.
type FormatStmt struct {
	Pos   source.Span
	Items NodeID
}

// DeclStmt is a local declaration.
type DeclStmt struct {
	Decl Decl
}

func (s *BlockStmt) Span() source.Span    { return s.Pos }
func (s *ExprStmt) Span() source.Span     { return s.Pos }
func (s *IfStmt) Span() source.Span       { return s.Pos }
func (s *WhileStmt) Span() source.Span    { return s.Pos }
func (s *DoStmt) Span() source.Span       { return s.Pos }
func (s *ForStmt) Span() source.Span      { return s.Pos }
func (s *ReturnStmt) Span() source.Span   { return s.Pos }
func (s *BreakStmt) Span() source.Span    { return s.Pos }
func (s *ContinueStmt) Span() source.Span { return s.Pos }
func (s *BuildMsgStmt) Span() source.Span { return s.Pos }
func (s *FormatStmt) Span() source.Span   { return s.Pos }
func (s *DeclStmt) Span() source.Span     { return s.Decl.Span() }

func (*BlockStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*DoStmt) stmtNode()       {}
func (*ForStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*BuildMsgStmt) stmtNode() {}
func (*FormatStmt) stmtNode()   {}
func (*DeclStmt) stmtNode()     {}
