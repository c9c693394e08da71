package sema

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
)

// TestFormatItem checks a chain of format items, either the items of a call
// or a free item list inside a format block. test is nil for the latter;
// names must then be resolved already.
func (c *Checker) TestFormatItem(stmt *StmtTest, test *ExprTest, block *ast.BlockStmt, item ast.NodeID) error {
	for item.IsValid() {
		data, ok := c.nodes.FormatItem(item)
		if !ok {
			return nil
		}
		var err error
		if data.Cast == ast.CastArray {
			err = c.testArrayFormatItem(stmt, test, block, data)
		} else {
			err = c.testFormatItem(stmt, test, block, data)
		}
		if err != nil {
			return err
		}
		item = data.Next
	}
	return nil
}

func (c *Checker) formatValueTest(stmt *StmtTest, test *ExprTest, block *ast.BlockStmt) *ExprTest {
	undefErr := true
	if test != nil {
		undefErr = test.UndefErr
	}
	return NewExprTest(stmt, block, false, undefErr, false)
}

// propagate hands the outcome of a nested test to the enclosing one.
func (c *Checker) propagate(test, sub *ExprTest) error {
	if test == nil {
		return nil
	}
	if sub.HasString {
		test.HasString = true
	}
	if sub.Unresolved {
		return c.unresolved(test)
	}
	return nil
}

func (c *Checker) testFormatItem(stmt *StmtTest, test *ExprTest, block *ast.BlockStmt, item *ast.FormatItemData) error {
	value := c.formatValueTest(stmt, test, block)
	if err := c.TestExpr(value, item.Value); err != nil {
		return err
	}
	return c.propagate(test, value)
}

func (c *Checker) testArrayFormatItem(stmt *StmtTest, test *ExprTest, block *ast.BlockStmt, item *ast.FormatItemData) error {
	value := c.formatValueTest(stmt, test, block)
	value.AcceptArray = true
	array, err := c.testExpr(value, item.Value)
	if err != nil {
		return err
	}
	if value.Unresolved {
		return c.propagate(test, value)
	}
	span := c.nodes.Expr(item.Value).Span
	if array.dim == nil {
		return c.bail(diag.SemaArgNotArray, span, "argument not an array")
	}
	if array.dim.Next != nil {
		return c.bail(diag.SemaArgArrayDims, span, "array argument not of single dimension")
	}
	if err := c.propagate(test, value); err != nil {
		return err
	}
	for _, extra := range []ast.ExprID{item.Offset, item.Length} {
		if !extra.IsValid() {
			continue
		}
		sub := NewExprTest(stmt, block, true, true, false)
		if err := c.TestExpr(sub, extra); err != nil {
			return err
		}
		if err := c.propagate(test, sub); err != nil {
			return err
		}
	}
	return nil
}
