package sema

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/types"
)

// callTest is the state of one call: the callee, the argument cursor and
// the number of arguments consumed.
type callTest struct {
	span    source.Span
	args    []ast.NodeID
	fn      *symbols.Func
	next    int
	numArgs int
}

func (ct *callTest) done() bool { return ct.next >= len(ct.args) }

func (ct *callTest) peek() ast.NodeID { return ct.args[ct.next] }

func (c *Checker) testCall(test *ExprTest, op *operand, id ast.NodeID) error {
	data, _ := c.nodes.Call(id)
	ct := &callTest{span: c.nodes.Get(id).Span, args: data.Args}
	var callee operand
	if err := c.testNode(test, &callee, data.Callee); err != nil {
		return err
	}
	if callee.fn == nil {
		return c.bail(diag.SemaNotFunction, ct.span, "operand not a function")
	}
	ct.fn = callee.fn
	if err := c.testCallArgs(test, ct); err != nil {
		return err
	}
	fn := ct.fn
	name := c.table.Text(fn)
	switch impl := fn.Impl.(type) {
	case *symbols.AspecImpl:
		if !impl.ScriptCallable {
			return c.bail(diag.SemaAspecFromScript, ct.span, "action-special `%s` called from script", name)
		}
	case *symbols.DedicatedImpl:
		// Латентная функция приостанавливает скрипт, поэтому она запрещена
		// в функциях и внутри format block.
		if impl.Latent {
			inBlock := test.StmtTest.inFormatBlock() != nil
			if inBlock || c.fn != nil {
				where := "function"
				if inBlock {
					where = "format block"
				}
				f := c.fail(diag.SemaLatentCall, ct.span, "calling latent function inside a %s", where)
				if c.fn != nil {
					f.note(ct.span, "waiting functions like `%s` can only be called inside a script", name)
				}
				return f.bail()
			}
		}
	case *symbols.UserImpl:
		if impl.Nested {
			impl.NestedCalls = append(impl.NestedCalls, id)
			c.result.NestedCalls[id] = &NestedCall{Func: fn}
		}
	case *symbols.FormatImpl:
	}
	c.result.Calls[id] = fn
	op.typ = fn.Return
	op.complete = true
	if fn.Return != types.NoTypeID {
		op.usable = true
	}
	return nil
}

func (c *Checker) testCallArgs(test *ExprTest, ct *callTest) error {
	if err := c.testCallFirstArg(test, ct); err != nil {
		return err
	}
	for ; !ct.done(); ct.next++ {
		node := ct.peek()
		expr, ok := c.nodes.ExprArg(node)
		if !ok {
			return c.bail(diag.SemaMixedFormatArgs, c.nodes.Get(node).Span, "format argument must come first in a call")
		}
		arg := NewExprTest(test.StmtTest, test.FormatBlock, true, test.UndefErr, false)
		if err := c.TestExpr(arg, expr); err != nil {
			return err
		}
		if arg.HasString {
			test.HasString = true
		}
		if arg.Unresolved {
			return c.unresolved(test)
		}
		ct.numArgs++
	}
	fn := ct.fn
	if ct.numArgs < fn.MinParam {
		return c.fail(diag.SemaNotEnoughArgs, ct.span, "not enough arguments in function call").
			note(ct.span, "function `%s` needs %s%d argument%s", c.table.Text(fn),
				qualifier(fn, "at least "), fn.MinParam, plural(fn.MinParam)).
			bail()
	}
	if ct.numArgs > fn.MaxParam {
		return c.fail(diag.SemaTooManyArgs, ct.span, "too many arguments in function call").
			note(ct.span, "function `%s` takes %s%d argument%s", c.table.Text(fn),
				qualifier(fn, "up to "), fn.MaxParam, plural(fn.MaxParam)).
			bail()
	}
	return nil
}

func qualifier(fn *symbols.Func, s string) string {
	if fn.MinParam != fn.MaxParam {
		return s
	}
	return ""
}

func plural(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}

func (c *Checker) testCallFirstArg(test *ExprTest, ct *callTest) error {
	if ct.fn.FuncKind() == symbols.FuncFormat {
		return c.testCallFormatArg(test, ct)
	}
	if ct.done() {
		return nil
	}
	node := c.nodes.Get(ct.peek())
	switch node.Kind {
	case ast.NodeFormatItem:
		return c.bail(diag.SemaFormatItemToNonFormat, node.Span, "passing format-item to non-format function")
	case ast.NodeFormatBlockUsage:
		return c.bail(diag.SemaFormatBlockToNonFormat, node.Span, "passing format-block to non-format function")
	}
	return nil
}

// testCallFormatArg consumes either one msgbuild usage or a run of format
// items. Both count as a single argument.
func (c *Checker) testCallFormatArg(test *ExprTest, ct *callTest) error {
	var node *ast.Node
	if !ct.done() {
		node = c.nodes.Get(ct.peek())
	}
	if node == nil || (node.Kind != ast.NodeFormatItem && node.Kind != ast.NodeFormatBlockUsage) {
		return c.bail(diag.SemaMissingFormatArg, ct.span, "function call missing format argument")
	}
	if node.Kind == ast.NodeFormatBlockUsage {
		if test.FormatBlock == nil {
			return c.bail(diag.SemaMissingFormatBlock, ct.span, "function call missing format-block")
		}
		usage := ct.peek()
		test.FormatBlockUsages = append(test.FormatBlockUsages, usage)
		c.result.FormatBlocks[usage] = test.FormatBlock
		ct.next++
	} else {
		for ; !ct.done(); ct.next++ {
			item := ct.peek()
			if c.nodes.Get(item).Kind != ast.NodeFormatItem {
				break
			}
			if err := c.TestFormatItem(test.StmtTest, test, test.FormatBlock, item); err != nil {
				return err
			}
		}
	}
	ct.numArgs++
	return nil
}
