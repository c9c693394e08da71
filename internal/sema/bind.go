package sema

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/symbols"
)

// site is where a declaration lives: names in it are looked up from region,
// with the hidden names of lib first.
type site struct {
	region *symbols.Region
	lib    ast.LibID
}

func header(id ast.Ident) symbols.Header {
	return symbols.Header{Name: id.Name, Text: id.Text, Pos: id.Pos}
}

func (c *Checker) bindFile(file *ast.File) error {
	return c.bindDecls(site{region: c.table.Upmost, lib: file.Lib}, file.Decls)
}

func (c *Checker) bindDecls(at site, decls []ast.Decl) error {
	for _, decl := range decls {
		if err := c.bindDecl(at, decl); err != nil {
			return err
		}
	}
	return nil
}

// bindDecl creates the unresolved objects of one declaration and queues the
// work that resolves them.
func (c *Checker) bindDecl(at site, decl ast.Decl) error {
	switch d := decl.(type) {
	case *ast.ImportDecl:
		// file imports are loaded by the driver
		if d.Region.IsValid() {
			c.imports = append(c.imports, &importTask{site: at, decl: d})
		}
	case *ast.RegionDecl:
		region, err := c.openRegion(at, d)
		if err != nil {
			return err
		}
		return c.bindDecls(site{region: region, lib: at.lib}, d.Decls)
	case *ast.ConstDecl:
		obj := &symbols.Constant{Header: header(d.Name)}
		if err := c.bindGlobal(at, d.Static, d.Name, obj); err != nil {
			return err
		}
		c.queue(&constTask{site: at, decl: d, obj: obj})
	case *ast.VarDecl:
		anon, err := c.declareAnon(at, d.Type)
		if err != nil {
			return err
		}
		for _, v := range d.Vars {
			obj := &symbols.Var{Header: header(v.Name), Static: d.Static}
			if err := c.bindGlobal(at, d.Static, v.Name, obj); err != nil {
				return err
			}
			c.queue(&varTask{site: at, decl: d, declarator: v, obj: obj, anon: anon})
		}
	case *ast.StructDecl:
		st, err := c.declareStruct(at, d, false)
		if err != nil {
			return err
		}
		return c.bindGlobal(at, false, d.Name, st)
	case *ast.FuncDecl:
		obj := &symbols.Func{Header: header(d.Name), Impl: &symbols.UserImpl{Decl: d, Nested: d.Nested}}
		if err := c.bindGlobal(at, d.Static, d.Name, obj); err != nil {
			return err
		}
		t := &funcTask{site: at, decl: d, obj: obj}
		c.queue(t)
		c.funcs = append(c.funcs, t)
	case *ast.ScriptDecl:
		t := &scriptTask{site: at, decl: d}
		c.queue(t)
		c.scripts = append(c.scripts, t)
	case *ast.AliasDecl:
		obj := &symbols.Alias{Header: header(d.Name)}
		if err := c.bindGlobal(at, false, d.Name, obj); err != nil {
			return err
		}
		c.queue(&aliasTask{site: at, decl: d, obj: obj})
	}
	return nil
}

// openRegion returns the region named by d, creating it on first sight.
// A region may be reopened by a later declaration.
func (c *Checker) openRegion(at site, d *ast.RegionDecl) (*symbols.Region, error) {
	prev := at.region.Body.Lookup(d.Name.Name)
	if region, ok := prev.(*symbols.Region); ok {
		return region, nil
	}
	if prev != nil {
		return nil, c.duplicate(d.Name, prev)
	}
	region := c.table.NewRegion(d.Name, at.region)
	at.region.Body.Bind(d.Name.Name, region)
	return region, nil
}

// bindGlobal binds a region-level name. Static names go to the hidden
// compartment of the library instead of the region.
func (c *Checker) bindGlobal(at site, static bool, id ast.Ident, obj symbols.Object) error {
	body := at.region.Body
	if lib := c.table.Library(at.lib); static && lib != nil {
		body = lib.Hidden
	}
	if prev := body.Lookup(id.Name); prev != nil {
		return c.duplicate(id, prev)
	}
	body.Bind(id.Name, obj)
	return nil
}

func (c *Checker) duplicate(id ast.Ident, prev symbols.Object) error {
	f := c.fail(diag.SemaDuplicateName, id.Pos, "duplicate name `%s`", c.text(id.Text))
	if !prev.Head().Builtin {
		f.note(prev.Head().Pos, "name already used here")
	}
	return f.bail()
}

// declareStruct creates a struct type and its members. Member types and
// dimensions are resolved later by a structTask.
func (c *Checker) declareStruct(at site, d *ast.StructDecl, anon bool) (*symbols.StructType, error) {
	st := &symbols.StructType{
		Header:  header(d.Name),
		Type:    c.typs.RegisterStruct(d.Name.Name, d.Pos),
		Members: symbols.NewBody(),
		Anon:    anon,
	}
	if anon {
		st.Pos = d.Pos
	}
	c.table.RegisterStruct(st)
	t := &structTask{site: at, decl: d, obj: st}
	for _, m := range d.Members {
		nested, err := c.declareAnon(at, m.Type)
		if err != nil {
			return nil, err
		}
		member := &symbols.TypeMember{Header: header(m.Name)}
		if prev := st.Members.Lookup(m.Name.Name); prev != nil {
			return nil, c.duplicate(m.Name, prev)
		}
		st.Members.Bind(m.Name.Name, member)
		t.members = append(t.members, memberTask{decl: m, obj: member, anon: nested})
	}
	c.queue(t)
	return st, nil
}

// declareAnon declares the anonymous struct of spec, if it has one.
func (c *Checker) declareAnon(at site, spec *ast.TypeSpec) (*symbols.StructType, error) {
	if spec == nil || spec.Kind != ast.TypeAnonStruct {
		return nil, nil
	}
	return c.declareStruct(at, spec.Anon, true)
}
