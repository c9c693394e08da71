package sema

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/types"
)

func (c *Checker) testNameUsage(test *ExprTest, op *operand, id ast.NodeID) error {
	data, _ := c.nodes.Name(id)
	span := c.nodes.Get(id).Span
	text := c.text(data.Text)
	obj, err := c.FindObject(c.region, data.Lib, data.Name, text, span)
	if err != nil {
		return err
	}
	if obj != nil && obj.Head().Resolved {
		c.result.Names[id] = obj
		return c.useObject(test, op, obj, span)
	}
	if !test.UndefErr {
		return c.unresolved(test)
	}
	if obj != nil {
		return c.bail(diag.SemaUndefined, span, "`%s` undefined", text)
	}
	return c.bail(diag.SemaNotFound, span, "`%s` not found", text)
}

// FindObject looks name up from region. The hidden names of lib come first.
// Then each scope from region out to upmost is searched: its own body, then
// the regions it imports, in order. A name that is also visible through a
// later import of the same scope is ambiguous, and that is fatal.
func (c *Checker) FindObject(region *symbols.Region, lib ast.LibID, name source.StringID, text string, span source.Span) (symbols.Object, error) {
	if l := c.table.Library(lib); l != nil {
		if obj := l.Hidden.Lookup(name); obj != nil {
			return obj, nil
		}
	}
	for scope := region; scope != nil; scope = scope.Parent {
		if obj := scope.Body.Lookup(name); obj != nil {
			return obj, nil
		}
		obj, err := c.findLinked(scope, name, text, span)
		if err != nil || obj != nil {
			return obj, err
		}
	}
	return nil, nil
}

// findLinked searches the regions imported by scope.
func (c *Checker) findLinked(scope *symbols.Region, name source.StringID, text string, span source.Span) (symbols.Object, error) {
	var (
		found symbols.Object
		rest  []*symbols.Region
	)
	for i, link := range scope.Links {
		if obj := link.Body.Lookup(name); obj != nil {
			found = obj
			rest = scope.Links[i+1:]
			break
		}
	}
	if found == nil {
		return nil, nil
	}
	var dups []symbols.Object
	for _, link := range rest {
		if obj := link.Body.Lookup(name); obj != nil && obj != found {
			dups = append(dups, obj)
		}
	}
	if len(dups) == 0 {
		return found, nil
	}
	f := c.fail(diag.SemaAmbiguousName, span, "multiple objects with name `%s`", text)
	f.note(found.Head().Pos, "object found here")
	for _, obj := range dups {
		f.note(obj.Head().Pos, "object found here")
	}
	return nil, f.bail()
}

// useObject maps a resolved object onto the operand. Aliases are followed
// to their final target.
func (c *Checker) useObject(test *ExprTest, op *operand, obj symbols.Object, span source.Span) error {
	target, ok := symbols.Unalias(obj)
	if !ok {
		return c.bail(diag.SemaAliasCycle, span, "alias `%s` does not lead to an object", c.table.Text(target))
	}
	switch o := target.(type) {
	case *symbols.Region:
		op.region = o
	case *symbols.Constant:
		op.setValue(c.builtins.Int, o.Value)
	case *symbols.Var:
		c.useStorage(test, op, o.Type, o.Dim)
		o.Used = true
	case *symbols.TypeMember:
		c.useStorage(test, op, o.Type, o.Dim)
	case *symbols.Func:
		op.fn = o
		switch impl := o.Impl.(type) {
		case *symbols.UserImpl:
			impl.Usage++
		case *symbols.AspecImpl:
			// Имя action special без вызова означает его номер.
			op.setValue(c.builtins.Int, impl.ID)
		case *symbols.DedicatedImpl, *symbols.FormatImpl:
		}
	case *symbols.Param:
		op.setPrimitive(o.Type)
	case *symbols.StructType, *symbols.Alias:
		// a type name is not a value
	}
	return nil
}

func (c *Checker) useStorage(test *ExprTest, op *operand, typ types.TypeID, dim *symbols.Dim) {
	op.typ = typ
	if dim != nil {
		op.dim = dim
		if test.AcceptArray {
			op.complete = true
		}
		return
	}
	if c.typs.IsPrimitive(typ) {
		op.setPrimitive(typ)
	}
}

// resolvePath resolves the paths used by declarations: struct type
// references, alias targets and region imports. They name objects rather
// than values, so they bypass the operand classifier.
func (c *Checker) resolvePath(test *ExprTest, id ast.NodeID) (symbols.Object, error) {
	node := c.nodes.Get(id)
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case ast.NodeRegionHost:
		return c.region, nil
	case ast.NodeRegionUpmost:
		return c.table.Upmost, nil
	case ast.NodeNameUsage:
		data, _ := c.nodes.Name(id)
		text := c.text(data.Text)
		obj, err := c.FindObject(c.region, data.Lib, data.Name, text, node.Span)
		if err != nil {
			return nil, err
		}
		if obj == nil || !obj.Head().Resolved {
			if !test.UndefErr {
				return nil, c.unresolved(test)
			}
			if obj != nil {
				return nil, c.bail(diag.SemaUndefined, node.Span, "`%s` undefined", text)
			}
			return nil, c.bail(diag.SemaNotFound, node.Span, "`%s` not found", text)
		}
		c.result.Names[id] = obj
		return c.unaliasAt(obj, node.Span)
	case ast.NodeAccess:
		data, _ := c.nodes.Access(id)
		left, err := c.resolvePath(test, data.Left)
		if err != nil {
			return nil, err
		}
		region, ok := left.(*symbols.Region)
		if !ok {
			return nil, c.bail(diag.SemaNotRegion, node.Span, "left operand not a region")
		}
		text := c.text(data.Text)
		obj := region.Body.Lookup(data.Name)
		if obj == nil {
			return nil, c.bail(diag.SemaNotFoundInRegion, node.Span, "`%s` not found in region", text)
		}
		if !obj.Head().Resolved {
			if !test.UndefErr {
				return nil, c.unresolved(test)
			}
			return nil, c.bail(diag.SemaRightUndefined, node.Span, "right operand `%s` undefined", text)
		}
		c.result.Members[id] = obj
		return c.unaliasAt(obj, node.Span)
	default:
		return nil, c.bail(diag.SemaNotRegion, node.Span, "expected a name")
	}
}

func (c *Checker) unaliasAt(obj symbols.Object, span source.Span) (symbols.Object, error) {
	target, ok := symbols.Unalias(obj)
	if !ok {
		return nil, c.bail(diag.SemaAliasCycle, span, "alias `%s` does not lead to an object", c.table.Text(target))
	}
	return target, nil
}
