package sema

import (
	"context"

	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/types"
)

// binding remembers what a local declaration shadowed.
type binding struct {
	name source.StringID
	prev symbols.Object
	obj  symbols.Object
}

// scope is one block. Locals are bound into the body of the current region
// and restored when the block ends.
type scope struct {
	body     *symbols.Body
	bindings []binding
}

func (c *Checker) pushScope() {
	c.scopes = append(c.scopes, &scope{body: c.region.Body})
}

// popScope restores shadowed names. Unused locals are reported unless the
// analysis is already failing.
func (c *Checker) popScope(report bool) {
	s := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	for i := len(s.bindings) - 1; i >= 0; i-- {
		b := s.bindings[i]
		s.body.Restore(b.name, b.prev)
		if v, ok := b.obj.(*symbols.Var); ok && report && v.Local && !v.Used {
			c.warn(diag.SemaUnusedVar, v.Pos, "unused variable `%s`", c.table.Text(v))
		}
	}
}

func (c *Checker) bindLocal(id ast.Ident, obj symbols.Object) error {
	s := c.scopes[len(c.scopes)-1]
	for _, b := range s.bindings {
		if b.name == id.Name {
			return c.duplicate(id, b.obj)
		}
	}
	prev := s.body.Bind(id.Name, obj)
	s.bindings = append(s.bindings, binding{name: id.Name, prev: prev, obj: obj})
	return nil
}

// checkBodies analyses function and script bodies once every declaration
// is resolved.
func (c *Checker) checkBodies(ctx context.Context) error {
	for _, t := range c.funcs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.checkFuncBody(t.site, t.obj, t.decl.Body); err != nil {
			return err
		}
	}
	for _, t := range c.scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.checkScriptBody(t); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkFuncBody(at site, fn *symbols.Func, body *ast.BlockStmt) error {
	prevRegion, prevLib, prevFn := c.region, c.lib, c.fn
	c.SetRegion(at.region, at.lib)
	c.fn = fn
	defer func() {
		c.SetRegion(prevRegion, prevLib)
		c.fn = prevFn
	}()
	return c.checkParamsAndBody(fn.Params, body)
}

func (c *Checker) checkScriptBody(t *scriptTask) error {
	c.SetRegion(t.region, t.lib)
	c.fn = nil
	defer c.SetRegion(c.table.Upmost, ast.NoLibID)
	return c.checkParamsAndBody(t.script.Params, t.decl.Body)
}

// checkParamsAndBody shares one scope between the parameters and the
// outermost block of the body.
func (c *Checker) checkParamsAndBody(params []*symbols.Param, body *ast.BlockStmt) (err error) {
	c.pushScope()
	defer func() { c.popScope(err == nil) }()
	for _, p := range params {
		id := ast.Ident{Name: p.Name, Text: p.Text, Pos: p.Pos}
		if err := c.bindLocal(id, p); err != nil {
			return err
		}
	}
	return c.checkStmts(&StmtTest{}, body.Stmts)
}

func (c *Checker) checkStmts(st *StmtTest, stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := c.checkStmt(st, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkBlock(st *StmtTest, block *ast.BlockStmt) (err error) {
	c.pushScope()
	defer func() { c.popScope(err == nil) }()
	return c.checkStmts(st, block.Stmts)
}

// checkSub checks the body of if/while/for; a lone declaration there gets
// its own scope.
func (c *Checker) checkSub(st *StmtTest, stmt ast.Stmt) (err error) {
	if stmt == nil {
		return nil
	}
	if block, ok := stmt.(*ast.BlockStmt); ok {
		return c.checkBlock(st, block)
	}
	c.pushScope()
	defer func() { c.popScope(err == nil) }()
	return c.checkStmt(st, stmt)
}

func (c *Checker) checkStmt(st *StmtTest, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return c.checkBlock(st, s)
	case *ast.ExprStmt:
		return c.TestExpr(NewExprTest(st, nil, false, true, false), s.Expr)
	case *ast.IfStmt:
		if err := c.checkCond(st, s.Cond); err != nil {
			return err
		}
		if err := c.checkSub(st, s.Then); err != nil {
			return err
		}
		return c.checkSub(st, s.Else)
	case *ast.WhileStmt:
		if err := c.checkCond(st, s.Cond); err != nil {
			return err
		}
		return c.checkSub(&StmtTest{Parent: st, InLoop: true}, s.Body)
	case *ast.DoStmt:
		if err := c.checkSub(&StmtTest{Parent: st, InLoop: true}, s.Body); err != nil {
			return err
		}
		return c.checkCond(st, s.Cond)
	case *ast.ForStmt:
		return c.checkFor(st, s)
	case *ast.ReturnStmt:
		return c.checkReturn(st, s)
	case *ast.BreakStmt:
		if !st.inLoop() {
			return c.bail(diag.SemaBreakOutsideLoop, s.Pos, "break outside loop")
		}
	case *ast.ContinueStmt:
		if !st.inLoop() {
			return c.bail(diag.SemaContinueOutsideLp, s.Pos, "continue outside loop")
		}
	case *ast.BuildMsgStmt:
		return c.checkBuildMsg(st, s)
	case *ast.FormatStmt:
		block := st.inFormatBlock()
		if block == nil {
			return c.bail(diag.SemaFormatOutsideBlock, s.Pos, "format item outside format block")
		}
		return c.TestFormatItem(st, nil, block, s.Items)
	case *ast.DeclStmt:
		return c.checkLocalDecl(s.Decl)
	}
	return nil
}

// checkCond tests a condition; a bare assignment there draws a warning.
func (c *Checker) checkCond(st *StmtTest, cond ast.ExprID) error {
	if !cond.IsValid() {
		return nil
	}
	return c.TestExpr(NewExprTest(st, nil, true, true, true), cond)
}

func (c *Checker) checkFor(st *StmtTest, s *ast.ForStmt) (err error) {
	c.pushScope()
	defer func() { c.popScope(err == nil) }()
	for _, init := range s.Init {
		if err := c.checkStmt(st, init); err != nil {
			return err
		}
	}
	if err := c.checkCond(st, s.Cond); err != nil {
		return err
	}
	for _, post := range s.Post {
		if err := c.TestExpr(NewExprTest(st, nil, false, true, false), post); err != nil {
			return err
		}
	}
	return c.checkSub(&StmtTest{Parent: st, InLoop: true}, s.Body)
}

func (c *Checker) checkReturn(st *StmtTest, s *ast.ReturnStmt) error {
	hasValue := s.Value.IsValid()
	switch {
	case c.fn == nil:
		if hasValue {
			return c.bail(diag.SemaReturnValue, s.Pos, "returning a value from a script")
		}
		return nil
	case c.fn.Return == types.NoTypeID:
		if hasValue {
			return c.bail(diag.SemaReturnValue, s.Pos, "returning a value from a void function")
		}
		return nil
	case !hasValue:
		return c.bail(diag.SemaMissingReturnValue, s.Pos, "missing return value")
	}
	return c.TestExpr(NewExprTest(st, nil, true, true, false), s.Value)
}

// checkBuildMsg checks `buildmsg (Call(msgbuild)) { ... }`. The call sees
// the body as its format block; the body may hold free format items.
func (c *Checker) checkBuildMsg(st *StmtTest, s *ast.BuildMsgStmt) error {
	test := NewExprTest(st, s.Body, false, true, false)
	if err := c.TestExpr(test, s.Call); err != nil {
		return err
	}
	if len(test.FormatBlockUsages) == 0 {
		return c.bail(diag.SemaMissingFormatBlock, s.Pos, "buildmsg call does not use msgbuild")
	}
	return c.checkBlock(&StmtTest{Parent: st, FormatBlock: s.Body}, s.Body)
}

// checkLocalDecl declares a name inside a body. Unlike region-level names,
// locals are visible only after their declaration.
func (c *Checker) checkLocalDecl(decl ast.Decl) error {
	at := site{region: c.region, lib: c.lib}
	mark := len(c.tasks)
	switch d := decl.(type) {
	case *ast.ConstDecl:
		obj := &symbols.Constant{Header: header(d.Name)}
		c.queue(&constTask{site: at, decl: d, obj: obj})
		if err := c.declareNow(mark, d.Pos); err != nil {
			return err
		}
		return c.bindLocal(d.Name, obj)
	case *ast.VarDecl:
		anon, err := c.declareAnon(at, d.Type)
		if err != nil {
			return err
		}
		if err := c.declareNow(mark, d.Pos); err != nil {
			return err
		}
		for _, v := range d.Vars {
			obj := &symbols.Var{Header: header(v.Name), Local: true}
			c.queue(&varTask{site: at, decl: d, declarator: v, obj: obj, anon: anon})
			if err := c.declareNow(mark, v.Pos); err != nil {
				return err
			}
			if err := c.bindLocal(v.Name, obj); err != nil {
				return err
			}
		}
	case *ast.StructDecl:
		st, err := c.declareStruct(at, d, false)
		if err != nil {
			return err
		}
		if err := c.declareNow(mark, d.Pos); err != nil {
			return err
		}
		return c.bindLocal(d.Name, st)
	case *ast.FuncDecl:
		fn := &symbols.Func{Header: header(d.Name), Impl: &symbols.UserImpl{Decl: d, Nested: true}}
		c.queue(&funcTask{site: at, decl: d, obj: fn})
		if err := c.declareNow(mark, d.Pos); err != nil {
			return err
		}
		if err := c.bindLocal(d.Name, fn); err != nil {
			return err
		}
		return c.checkFuncBody(at, fn, d.Body)
	default:
		return c.bail(diag.SemaExprIncomplete, decl.Span(), "declaration not allowed inside a body")
	}
	return nil
}
