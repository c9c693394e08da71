package sema

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
)

func (c *Checker) testAccess(test *ExprTest, op *operand, id ast.NodeID) error {
	data, _ := c.nodes.Access(id)
	if data.Region {
		return c.testRegionAccess(test, op, id, data)
	}
	return c.testStructAccess(test, op, id, data)
}

// testRegionAccess handles `left::name`. Only the body of the left region is
// searched, never its links.
func (c *Checker) testRegionAccess(test *ExprTest, op *operand, id ast.NodeID, data *ast.AccessData) error {
	span := c.nodes.Get(id).Span
	var left operand
	if err := c.testNode(test, &left, data.Left); err != nil {
		return err
	}
	if left.region == nil {
		return c.bail(diag.SemaNotRegion, span, "left operand not a region")
	}
	text := c.text(data.Text)
	obj := left.region.Body.Lookup(data.Name)
	if obj == nil {
		return c.bail(diag.SemaNotFoundInRegion, span, "`%s` not found in region", text)
	}
	if !obj.Head().Resolved {
		if !test.UndefErr {
			return c.unresolved(test)
		}
		return c.bail(diag.SemaRightUndefined, span, "right operand `%s` undefined", text)
	}
	c.result.Members[id] = obj
	return c.useObject(test, op, obj, span)
}

// testStructAccess handles `left.name`. Members of a struct declared later in
// the source may still be pending, so a missing member is speculative.
func (c *Checker) testStructAccess(test *ExprTest, op *operand, id ast.NodeID, data *ast.AccessData) error {
	span := c.nodes.Get(id).Span
	var left operand
	if err := c.testNode(test, &left, data.Left); err != nil {
		return err
	}
	st := c.table.Struct(left.typ)
	if st == nil || left.dim != nil {
		return c.bail(diag.SemaNotStruct, span, "left operand not of struct type")
	}
	text := c.text(data.Text)
	obj := st.Members.Lookup(data.Name)
	if obj == nil {
		if !test.UndefErr {
			return c.unresolved(test)
		}
		if st.Anon {
			return c.bail(diag.SemaNotMember, span, "`%s` not member of anonymous struct", text)
		}
		return c.bail(diag.SemaNotMember, span, "`%s` not member of struct `%s`", text, c.table.Text(st))
	}
	if !obj.Head().Resolved {
		if !test.UndefErr {
			return c.unresolved(test)
		}
		return c.bail(diag.SemaRightUndefined, span, "right operand `%s` undefined", text)
	}
	c.result.Members[id] = obj
	return c.useObject(test, op, obj, span)
}
