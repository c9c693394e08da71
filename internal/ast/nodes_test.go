package ast

import (
	"testing"

	"acsc/internal/source"
)

func TestNodesAccessorsCheckKind(t *testing.T) {
	n := NewNodes(0)
	lit := n.NewLiteral(source.Span{Start: 0, End: 1}, 7)
	if data, ok := n.Literal(lit); !ok || data.Value != 7 {
		t.Fatalf("Literal = %+v, %v", data, ok)
	}
	if data, ok := n.Binary(lit); ok || data != nil {
		t.Fatalf("Binary on literal must fail, got %+v", data)
	}
	if n.Get(NoNodeID) != nil {
		t.Fatalf("NoNodeID must map to nil")
	}
}

func TestStringTableSharesIndex(t *testing.T) {
	strs := source.NewInterner()
	n := NewNodes(0)
	a := n.NewString(source.Span{}, strs.Intern("hello"))
	b := n.NewString(source.Span{}, strs.Intern("world"))
	c := n.NewString(source.Span{}, strs.Intern("hello"))

	sa, _ := n.String(a)
	sb, _ := n.String(b)
	sc, _ := n.String(c)
	if sa.Index != 0 || sb.Index != 1 || sc.Index != 0 {
		t.Fatalf("indexes: %d %d %d", sa.Index, sb.Index, sc.Index)
	}
	if n.StringCount() != 2 {
		t.Fatalf("StringCount = %d", n.StringCount())
	}
}

func TestExprArgRoundTrip(t *testing.T) {
	n := NewNodes(0)
	root := n.NewLiteral(source.Span{Start: 3, End: 4}, 1)
	expr := n.NewExpr(source.Span{Start: 3, End: 4}, root)
	arg := n.NewExprArg(expr)
	if got, ok := n.ExprArg(arg); !ok || got != expr {
		t.Fatalf("ExprArg = %d, %v", got, ok)
	}
	if n.Get(arg).Span != n.Expr(expr).Span {
		t.Fatalf("argument span must match the expression")
	}
}
