package sema

import (
	"errors"

	"acsc/internal/ast"
	"acsc/internal/diag"
)

// TestExpr analyses one expression tree. A fatal problem is reported and
// returned as *FatalError. A forward reference under !test.UndefErr is not
// an error: TestExpr returns nil with test.Unresolved set and leaves the
// expression unannotated, so the caller can retry later.
func (c *Checker) TestExpr(test *ExprTest, id ast.ExprID) error {
	_, err := c.testExpr(test, id)
	return err
}

func (c *Checker) testExpr(test *ExprTest, id ast.ExprID) (operand, error) {
	var op operand
	expr := c.nodes.Expr(id)
	if expr == nil {
		return op, c.bail(diag.SemaExprIncomplete, test.Span, "expression incomplete")
	}
	span := expr.Span
	if err := c.testNode(test, &op, expr.Root); err != nil {
		if errors.Is(err, errUnresolved) {
			test.Unresolved = true
			return op, nil
		}
		return op, err
	}
	if !op.complete {
		return op, c.bail(diag.SemaExprIncomplete, span, "expression incomplete")
	}
	if test.ResultRequired && !op.usable {
		return op, c.bail(diag.SemaExprNoValue, span, "expression does not produce a value")
	}
	expr = c.nodes.Expr(id)
	expr.Analyzed = true
	expr.Folded = op.folded
	expr.Value = op.value
	expr.Type = op.typ
	test.Span = span
	return op, nil
}

// testNode classifies one node into op.
func (c *Checker) testNode(test *ExprTest, op *operand, id ast.NodeID) error {
	node := c.nodes.Get(id)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case ast.NodeLiteral:
		data, _ := c.nodes.Literal(id)
		op.setValue(c.builtins.Int, data.Value)
	case ast.NodeBoolean:
		data, _ := c.nodes.Boolean(id)
		op.setValue(c.builtins.Bool, boolValue(data.Value))
	case ast.NodeStringUsage:
		data, _ := c.nodes.String(id)
		op.setValue(c.builtins.Str, data.Index)
		test.HasString = true
		c.result.HasString = true
	case ast.NodeRegionHost:
		op.region = c.region
	case ast.NodeRegionUpmost:
		op.region = c.table.Upmost
	case ast.NodeNameUsage:
		return c.testNameUsage(test, op, id)
	case ast.NodeUnary:
		return c.testUnary(test, op, id)
	case ast.NodeSubscript:
		return c.testSubscript(test, op, id)
	case ast.NodeCall:
		return c.testCall(test, op, id)
	case ast.NodeBinary:
		return c.testBinary(test, op, id)
	case ast.NodeAssign:
		return c.testAssign(test, op, id)
	case ast.NodeAccess:
		return c.testAccess(test, op, id)
	case ast.NodeParen:
		data, _ := c.nodes.Paren(id)
		op.inParen = true
		err := c.testNode(test, op, data.Inside)
		op.inParen = false
		return err
	case ast.NodeFormatItem, ast.NodeFormatBlockUsage, ast.NodeExpr, ast.NodeInvalid:
		// only valid as call arguments; the operand stays incomplete
	}
	return nil
}

func (c *Checker) testUnary(test *ExprTest, op *operand, id ast.NodeID) error {
	data, _ := c.nodes.Unary(id)
	span := c.nodes.Get(id).Span
	var target operand
	if err := c.testNode(test, &target, data.Operand); err != nil {
		return err
	}
	if data.Op.Mutating() {
		if !target.assignable {
			action := "incremented"
			if data.Op.Decrement() {
				action = "decremented"
			}
			return c.bail(diag.SemaNotIncrementable, span, "operand cannot be %s", action)
		}
	} else if !target.usable {
		return c.bail(diag.SemaUnaryNotValue, span, "operand of unary operation not a value")
	}
	if target.folded && !data.Op.Mutating() {
		switch data.Op {
		case ast.UnaryMinus:
			op.value = -target.value
		case ast.UnaryPlus:
			op.value = target.value
		case ast.UnaryLogNot:
			op.value = boolValue(target.value == 0)
		case ast.UnaryBitNot:
			op.value = ^target.value
		}
		op.folded = true
	}
	op.complete = true
	op.usable = true
	if data.Op == ast.UnaryLogNot {
		op.typ = c.builtins.Bool
	} else {
		op.typ = c.builtins.Int
	}
	return nil
}

func (c *Checker) testSubscript(test *ExprTest, op *operand, id ast.NodeID) error {
	data, _ := c.nodes.Subscript(id)
	span := c.nodes.Get(id).Span
	var left operand
	if err := c.testNode(test, &left, data.Left); err != nil {
		return err
	}
	if left.dim == nil {
		return c.bail(diag.SemaNotArray, span, "operand not an array")
	}
	index := NewExprTest(test.StmtTest, test.FormatBlock, true, test.UndefErr, false)
	if err := c.TestExpr(index, data.Index); err != nil {
		return err
	}
	if index.HasString {
		test.HasString = true
	}
	if index.Unresolved {
		return c.unresolved(test)
	}
	// Константный индекс проверяется на границы, но это только предупреждение.
	idx := c.nodes.Expr(data.Index)
	if left.dim.Size != 0 && idx.Folded && (idx.Value < 0 || idx.Value >= left.dim.Size) {
		c.warn(diag.SemaIndexOutOfBounds, idx.Span, "array index out-of-bounds")
	}
	op.typ = left.typ
	op.dim = left.dim.Next
	if op.dim != nil {
		if test.AcceptArray {
			op.complete = true
		}
	} else if c.typs.IsPrimitive(op.typ) {
		op.setPrimitive(op.typ)
	}
	return nil
}

func (c *Checker) testBinary(test *ExprTest, op *operand, id ast.NodeID) error {
	data, _ := c.nodes.Binary(id)
	span := c.nodes.Get(id).Span
	var left operand
	if err := c.testNode(test, &left, data.Left); err != nil {
		return err
	}
	if !left.usable {
		return c.bail(diag.SemaBinaryNotValue, span, "operand on left side not a value")
	}
	var right operand
	if err := c.testNode(test, &right, data.Right); err != nil {
		return err
	}
	if !right.usable {
		return c.bail(diag.SemaBinaryNotValue, span, "operand on right side not a value")
	}
	if left.folded && right.folded {
		if (data.Op == ast.BinaryDiv || data.Op == ast.BinaryMod) && right.value == 0 {
			return c.bail(diag.SemaDivisionByZero, span, "division by zero")
		}
		op.value = foldBinary(data.Op, left.value, right.value)
		op.folded = true
	}
	op.complete = true
	op.usable = true
	if data.Op.Logical() {
		op.typ = c.builtins.Bool
	} else {
		op.typ = c.builtins.Int
	}
	return nil
}

// foldBinary evaluates with 32-bit wraparound; the shift count uses its low
// five bits. r is never zero for `/` and `%`.
func foldBinary(op ast.BinaryOp, l, r int32) int32 {
	switch op {
	case ast.BinaryAdd:
		return l + r
	case ast.BinarySub:
		return l - r
	case ast.BinaryMul:
		return l * r
	case ast.BinaryDiv:
		return l / r
	case ast.BinaryMod:
		return l % r
	case ast.BinaryShiftLeft:
		return l << (uint32(r) & 31)
	case ast.BinaryShiftRight:
		return l >> (uint32(r) & 31)
	case ast.BinaryBitAnd:
		return l & r
	case ast.BinaryBitOr:
		return l | r
	case ast.BinaryBitXor:
		return l ^ r
	case ast.BinaryLogAnd:
		return boolValue(l != 0 && r != 0)
	case ast.BinaryLogOr:
		return boolValue(l != 0 || r != 0)
	case ast.BinaryEq:
		return boolValue(l == r)
	case ast.BinaryNotEq:
		return boolValue(l != r)
	case ast.BinaryLess:
		return boolValue(l < r)
	case ast.BinaryLessEq:
		return boolValue(l <= r)
	case ast.BinaryGreater:
		return boolValue(l > r)
	case ast.BinaryGreaterEq:
		return boolValue(l >= r)
	}
	return 0
}

func (c *Checker) testAssign(test *ExprTest, op *operand, id ast.NodeID) error {
	data, _ := c.nodes.Assign(id)
	span := c.nodes.Get(id).Span
	// `if (x = 1)` чаще всего опечатка вместо `==`.
	if test.SuggestParenAssign && !op.inParen {
		c.warn(diag.SemaAssignNotParenthesized, span, "assignment operation not in parentheses")
	}
	var left operand
	if err := c.testNode(test, &left, data.Left); err != nil {
		return err
	}
	if !left.assignable {
		return c.bail(diag.SemaCannotAssign, span, "cannot assign to operand on left side")
	}
	var right operand
	if err := c.testNode(test, &right, data.Right); err != nil {
		return err
	}
	if !right.usable {
		return c.bail(diag.SemaAssignRightNotValue, span, "right side of assignment not a value")
	}
	op.complete = true
	op.usable = true
	op.typ = left.typ
	return nil
}
