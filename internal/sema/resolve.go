package sema

import (
	"context"
	"errors"
	"fmt"

	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/trace"
	"acsc/internal/types"
)

const maxScriptNumber = 32767
const maxScriptParams = 3

// pending is a declaration waiting for its names to resolve. resolve
// reports done=false when some name is not resolved yet; with undefErr set
// that is a fatal error instead.
type pending interface {
	where() site
	resolve(c *Checker, undefErr bool) (done bool, err error)
}

func (c *Checker) queue(t pending) {
	c.tasks = append(c.tasks, t)
}

// settle turns the speculative unwind into "not done yet".
func settle(err error) (done bool, _ error) {
	if errors.Is(err, errUnresolved) {
		return false, nil
	}
	return err == nil, err
}

// resolveAll retries pending declarations until all of them resolve. A pass
// that makes no progress is repeated with undefErr set, which turns the
// first remaining forward reference into a diagnostic.
func (c *Checker) resolveAll(ctx context.Context, parent uint64) error {
	work := make([]pending, 0, len(c.imports)+len(c.tasks))
	for _, t := range c.imports {
		work = append(work, t)
	}
	work = append(work, c.tasks...)
	c.tasks = nil
	undefErr := false
	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.result.Passes++
		span := trace.Begin(c.tracer, trace.ScopeLibrary, fmt.Sprintf("declare pass %d", c.result.Passes), parent)
		left := work[:0:0]
		for _, t := range work {
			at := t.where()
			c.SetRegion(at.region, at.lib)
			done, err := t.resolve(c, undefErr)
			if err != nil {
				span.End("error")
				return err
			}
			if !done {
				left = append(left, t)
			}
		}
		span.WithExtra("pending", fmt.Sprint(len(left))).End("")
		if len(left) == len(work) {
			if undefErr {
				return c.bail(diag.SemaExprIncomplete, source.Span{}, "declarations could not be resolved")
			}
			undefErr = true
		}
		work = left
	}
	c.SetRegion(c.table.Upmost, ast.NoLibID)
	return nil
}

// declareNow resolves the work queued since mark on the spot. Used for
// declarations inside bodies, where every name must already exist.
func (c *Checker) declareNow(mark int, span source.Span) error {
	queued := c.tasks[mark:]
	c.tasks = c.tasks[:mark]
	for _, t := range queued {
		done, err := t.resolve(c, true)
		if err != nil {
			return err
		}
		if !done {
			return c.bail(diag.SemaExprIncomplete, span, "declaration incomplete")
		}
	}
	return nil
}

// constExpr tests an expression that must fold.
func (c *Checker) constExpr(id ast.ExprID, undefErr bool, what string) (int32, error) {
	test := NewExprTest(nil, nil, true, undefErr, false)
	if err := c.TestExpr(test, id); err != nil {
		return 0, err
	}
	if test.Unresolved {
		return 0, errUnresolved
	}
	expr := c.nodes.Expr(id)
	if !expr.Folded {
		return 0, c.bail(diag.SemaNotConstant, expr.Span, "%s not constant", what)
	}
	return expr.Value, nil
}

// resolveDims folds the dimension list into a chain.
func (c *Checker) resolveDims(dims []ast.ExprID, undefErr bool) (*symbols.Dim, error) {
	var head, tail *symbols.Dim
	for _, id := range dims {
		size, err := c.constExpr(id, undefErr, "array dimension")
		if err != nil {
			return nil, err
		}
		if size <= 0 {
			return nil, c.bail(diag.SemaBadDimension, c.nodes.Expr(id).Span, "array dimension not positive: %d", size)
		}
		dim := &symbols.Dim{Size: size}
		if head == nil {
			head = dim
		} else {
			tail.Next = dim
		}
		tail = dim
	}
	return head, nil
}

// resolveType returns the type a TypeSpec names. A named struct must
// be fully resolved; anon is the struct declared inline by spec.
func (c *Checker) resolveType(spec *ast.TypeSpec, anon *symbols.StructType, undefErr bool) (types.TypeID, error) {
	switch spec.Kind {
	case ast.TypeInt:
		return c.builtins.Int, nil
	case ast.TypeStr:
		return c.builtins.Str, nil
	case ast.TypeBool:
		return c.builtins.Bool, nil
	case ast.TypeStruct:
		test := NewExprTest(nil, nil, false, undefErr, false)
		obj, err := c.resolvePath(test, spec.Ref)
		if err != nil {
			return types.NoTypeID, err
		}
		st, ok := obj.(*symbols.StructType)
		if !ok {
			return types.NoTypeID, c.bail(diag.SemaNotStructType, spec.Pos, "`%s` not a struct type", c.table.Text(obj))
		}
		return st.Type, nil
	case ast.TypeAnonStruct:
		if anon == nil || !anon.Resolved {
			return types.NoTypeID, errUnresolved
		}
		return anon.Type, nil
	case ast.TypeVoid:
	}
	return types.NoTypeID, nil
}

type constTask struct {
	site
	decl *ast.ConstDecl
	obj  *symbols.Constant
}

func (t *constTask) where() site { return t.site }

func (t *constTask) resolve(c *Checker, undefErr bool) (bool, error) {
	value, err := c.constExpr(t.decl.Value, undefErr, "expression")
	if done, err := settle(err); !done {
		return false, err
	}
	t.obj.Value = value
	t.obj.Resolved = true
	return true, nil
}

type memberTask struct {
	decl *ast.MemberDecl
	obj  *symbols.TypeMember
	anon *symbols.StructType
}

type structTask struct {
	site
	decl    *ast.StructDecl
	obj     *symbols.StructType
	members []memberTask
}

func (t *structTask) where() site { return t.site }

// resolve settles members one by one; the struct is resolved once all of
// its members are.
func (t *structTask) resolve(c *Checker, undefErr bool) (bool, error) {
	complete := true
	for _, m := range t.members {
		if m.obj.Resolved {
			continue
		}
		typ, err := c.resolveType(m.decl.Type, m.anon, undefErr)
		if done, err := settle(err); !done {
			if err != nil {
				return false, err
			}
			complete = false
			continue
		}
		dim, err := c.resolveDims(m.decl.Dims, undefErr)
		if done, err := settle(err); !done {
			if err != nil {
				return false, err
			}
			complete = false
			continue
		}
		m.obj.Type = typ
		m.obj.Dim = dim
		m.obj.Resolved = true
	}
	if complete {
		t.obj.Resolved = true
	}
	return complete, nil
}

type varTask struct {
	site
	decl       *ast.VarDecl
	declarator *ast.Declarator
	obj        *symbols.Var
	anon       *symbols.StructType
}

func (t *varTask) where() site { return t.site }

func (t *varTask) resolve(c *Checker, undefErr bool) (bool, error) {
	typ, err := c.resolveType(t.decl.Type, t.anon, undefErr)
	if done, err := settle(err); !done {
		return false, err
	}
	dim, err := c.resolveDims(t.declarator.Dims, undefErr)
	if done, err := settle(err); !done {
		return false, err
	}
	if init := t.declarator.Init; init.IsValid() {
		span := c.nodes.Expr(init).Span
		switch {
		case dim != nil:
			return false, c.bail(diag.SemaInitializerShape, span, "array `%s` initialized with a scalar", c.text(t.declarator.Name.Text))
		case !c.typs.IsPrimitive(typ):
			return false, c.bail(diag.SemaInitializerShape, span, "struct variable `%s` initialized with a scalar", c.text(t.declarator.Name.Text))
		}
		test := NewExprTest(nil, nil, true, undefErr, false)
		if err := c.TestExpr(test, init); err != nil {
			return false, err
		}
		if test.Unresolved {
			return false, nil
		}
		if !t.obj.Local && !c.nodes.Expr(init).Folded {
			return false, c.bail(diag.SemaNotConstant, span, "initial value not constant")
		}
	}
	t.obj.Type = typ
	t.obj.Dim = dim
	t.obj.Resolved = true
	return true, nil
}

type funcTask struct {
	site
	decl *ast.FuncDecl
	obj  *symbols.Func
}

func (t *funcTask) where() site { return t.site }

func (t *funcTask) resolve(c *Checker, undefErr bool) (bool, error) {
	ret, err := c.resolveType(t.decl.Return, nil, undefErr)
	if done, err := settle(err); !done {
		return false, err
	}
	if ret != types.NoTypeID && !c.typs.IsPrimitive(ret) {
		return false, c.bail(diag.SemaTypeMismatch, t.decl.Return.Pos, "function cannot return a struct")
	}
	params, required, err := c.resolveParams(t.decl.Params, undefErr)
	if done, err := settle(err); !done {
		return false, err
	}
	t.obj.Return = ret
	t.obj.Params = params
	t.obj.MinParam = required
	t.obj.MaxParam = len(params)
	t.obj.Resolved = true
	return true, nil
}

// resolveParams builds parameter objects. Parameters with a default value
// are optional and must come last; required counts the others.
func (c *Checker) resolveParams(decls []*ast.Param, undefErr bool) (params []*symbols.Param, required int, err error) {
	required = len(decls)
	for i, p := range decls {
		typ, err := c.resolveType(p.Type, nil, undefErr)
		if err != nil {
			return nil, 0, err
		}
		if !c.typs.IsPrimitive(typ) {
			return nil, 0, c.bail(diag.SemaTypeMismatch, p.Pos, "parameter `%s` cannot be a struct", c.text(p.Name.Text))
		}
		hasDefault := p.Default.IsValid()
		switch {
		case hasDefault && required == len(decls):
			required = i
		case !hasDefault && required != len(decls):
			return nil, 0, c.bail(diag.SemaDefaultParamOrder, p.Pos, "parameter `%s` missing default value", c.text(p.Name.Text))
		}
		if hasDefault {
			test := NewExprTest(nil, nil, true, undefErr, false)
			if err := c.TestExpr(test, p.Default); err != nil {
				return nil, 0, err
			}
			if test.Unresolved {
				return nil, 0, errUnresolved
			}
		}
		params = append(params, &symbols.Param{
			Header:     symbols.Header{Name: p.Name.Name, Text: p.Name.Text, Pos: p.Name.Pos, Resolved: true},
			Type:       typ,
			HasDefault: hasDefault,
		})
	}
	return params, required, nil
}

type scriptTask struct {
	site
	decl   *ast.ScriptDecl
	script *Script
}

func (t *scriptTask) where() site { return t.site }

func (t *scriptTask) resolve(c *Checker, undefErr bool) (bool, error) {
	number, err := c.constExpr(t.decl.Number, undefErr, "script number")
	if done, err := settle(err); !done {
		return false, err
	}
	span := c.nodes.Expr(t.decl.Number).Span
	if number < 0 || number > maxScriptNumber {
		return false, c.bail(diag.SemaBadScriptNumber, span, "script number not between 0 and %d", maxScriptNumber)
	}
	if prev, ok := c.scriptNumbers[number]; ok {
		return false, c.fail(diag.SemaDuplicateScript, span, "duplicate script %d", number).
			note(prev.Pos, "script found here").
			bail()
	}
	if len(t.decl.Params) > maxScriptParams {
		return false, c.bail(diag.SemaScriptParams, t.decl.Pos, "script has over maximum %d parameters", maxScriptParams)
	}
	params, _, err := c.resolveParams(t.decl.Params, undefErr)
	if done, err := settle(err); !done {
		return false, err
	}
	for i, p := range params {
		if p.Type != c.builtins.Int {
			return false, c.bail(diag.SemaTypeMismatch, t.decl.Params[i].Pos, "script parameter not of type `int`")
		}
		if p.HasDefault {
			return false, c.bail(diag.SemaDefaultParamOrder, t.decl.Params[i].Pos, "script parameter cannot have a default value")
		}
	}
	c.scriptNumbers[number] = t.decl
	t.script = &Script{Number: number, Decl: t.decl, Lib: t.lib, Params: params}
	c.result.Scripts = append(c.result.Scripts, t.script)
	return true, nil
}

type aliasTask struct {
	site
	decl *ast.AliasDecl
	obj  *symbols.Alias
}

func (t *aliasTask) where() site { return t.site }

func (t *aliasTask) resolve(c *Checker, undefErr bool) (bool, error) {
	test := NewExprTest(nil, nil, false, undefErr, false)
	target, err := c.resolvePath(test, t.decl.Target)
	if done, err := settle(err); !done {
		return false, err
	}
	t.obj.Target = target
	t.obj.Resolved = true
	return true, nil
}

// importTask is `import region::path;`: the named region becomes a link of
// the importing region.
type importTask struct {
	site
	decl *ast.ImportDecl
}

func (t *importTask) where() site { return t.site }

func (t *importTask) resolve(c *Checker, undefErr bool) (bool, error) {
	test := NewExprTest(nil, nil, false, undefErr, false)
	obj, err := c.resolvePath(test, t.decl.Region)
	if done, err := settle(err); !done {
		return false, err
	}
	region, ok := obj.(*symbols.Region)
	if !ok {
		return false, c.bail(diag.SemaImportNotRegion, t.decl.Pos, "imported path not a region")
	}
	if region != t.region {
		t.region.Link(region)
	}
	return true, nil
}
