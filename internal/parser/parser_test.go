package parser

import (
	"fmt"
	"strings"
	"testing"

	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/source"
)

type parsed struct {
	file  *ast.File
	nodes *ast.Nodes
	strs  *source.Interner
	bag   *diag.Bag
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.acs", []byte(src))
	nodes := ast.NewNodes(0)
	strs := source.NewInterner()
	bag := diag.NewBag(0)
	file := ParseFile(fs.Get(id), 1, nodes, strs, Options{Reporter: &diag.BagReporter{Bag: bag}})
	return parsed{file: file, nodes: nodes, strs: strs, bag: bag}
}

func parseOK(t *testing.T, src string) parsed {
	t.Helper()
	p := parseSource(t, src)
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	return p
}

func diagnosticsSummary(bag *diag.Bag) string {
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// dump печатает дерево выражения в скобочной форме для сравнения в тестах.
func (p parsed) dump(id ast.NodeID) string {
	n := p.nodes.Get(id)
	switch n.Kind {
	case ast.NodeLiteral:
		d, _ := p.nodes.Literal(id)
		return fmt.Sprint(d.Value)
	case ast.NodeBoolean:
		d, _ := p.nodes.Boolean(id)
		return fmt.Sprint(d.Value)
	case ast.NodeStringUsage:
		d, _ := p.nodes.String(id)
		return fmt.Sprintf("%q", p.strs.MustLookup(d.Value))
	case ast.NodeNameUsage:
		d, _ := p.nodes.Name(id)
		return p.strs.MustLookup(d.Text)
	case ast.NodeUnary:
		d, _ := p.nodes.Unary(id)
		return fmt.Sprintf("(u%d %s)", d.Op, p.dump(d.Operand))
	case ast.NodeBinary:
		d, _ := p.nodes.Binary(id)
		return fmt.Sprintf("(b%d %s %s)", d.Op, p.dump(d.Left), p.dump(d.Right))
	case ast.NodeAssign:
		d, _ := p.nodes.Assign(id)
		return fmt.Sprintf("(= %s %s)", p.dump(d.Left), p.dump(d.Right))
	case ast.NodeParen:
		d, _ := p.nodes.Paren(id)
		return "(" + p.dump(d.Inside) + ")"
	case ast.NodeSubscript:
		d, _ := p.nodes.Subscript(id)
		return fmt.Sprintf("%s[%s]", p.dump(d.Left), p.dump(p.nodes.Expr(d.Index).Root))
	case ast.NodeAccess:
		d, _ := p.nodes.Access(id)
		sep := "."
		if d.Region {
			sep = "::"
		}
		return p.dump(d.Left) + sep + p.strs.MustLookup(d.Text)
	case ast.NodeCall:
		d, _ := p.nodes.Call(id)
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = p.dump(a)
		}
		return p.dump(d.Callee) + "(" + strings.Join(args, ", ") + ")"
	case ast.NodeExpr:
		e, _ := p.nodes.ExprArg(id)
		return p.dump(p.nodes.Expr(e).Root)
	case ast.NodeFormatItem:
		d, _ := p.nodes.FormatItem(id)
		return fmt.Sprintf("c%d:%s", d.Cast, p.dump(p.nodes.Expr(d.Value).Root))
	case ast.NodeFormatBlockUsage:
		return "msgbuild"
	case ast.NodeRegionUpmost:
		return "upmost"
	case ast.NodeRegionHost:
		return "region"
	}
	return "?"
}

func (p parsed) exprOf(t *testing.T, i int) string {
	t.Helper()
	v, ok := p.file.Decls[i].(*ast.ConstDecl)
	if !ok {
		t.Fatalf("decl %d is %T, want *ast.ConstDecl", i, p.file.Decls[i])
	}
	return p.dump(p.nodes.Expr(v.Value).Root)
}

func TestPrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"const a = 1 + 2 * 3;", "(b0 1 (b2 2 3))"},
		{"const a = 1 | 2 & 3 == 4;", "(b8 1 (b7 2 (b12 3 4)))"},
		{"const a = 1 << 2 + 3;", "(b5 1 (b0 2 3))"},
		{"const a = 1 < 2 == 3 > 4;", "(b12 (b14 1 2) (b16 3 4))"},
		{"const a = 1 || 2 && 3;", "(b11 1 (b10 2 3))"},
		{"const a = -x++;", "(u0 (u6 x))"},
		{"const a = (1 + 2) * 3;", "(b2 ((b0 1 2)) 3)"},
		{"const a = 'A' ^ ~0;", "(b9 65 (u3 0))"},
	}
	for _, tc := range cases {
		p := parseOK(t, tc.src)
		if got := p.exprOf(t, 0); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestAssignRightAssoc(t *testing.T) {
	p := parseOK(t, "script 1 { a = b += 1; }")
	s := p.file.Decls[0].(*ast.ScriptDecl)
	stmt := s.Body.Stmts[0].(*ast.ExprStmt)
	if got := p.dump(p.nodes.Expr(stmt.Expr).Root); got != "(= a (= b 1))" {
		t.Fatalf("got %s", got)
	}
}

func TestPostfixChain(t *testing.T) {
	p := parseOK(t, "const a = upmost::r::arr[1].member;")
	if got := p.exprOf(t, 0); got != "upmost::r::arr[1].member" {
		t.Fatalf("got %s", got)
	}
}

func TestFormatCall(t *testing.T) {
	p := parseOK(t, `script 1 { Print(s: "x", d: 1 + 2); HudMessage(s: "a"; 1, 2); Log(a: (arr, 1, 2)); }`)
	body := p.file.Decls[0].(*ast.ScriptDecl).Body
	want := []string{
		`Print(c7:"x", c2:(b0 1 2))`,
		`HudMessage(c7:"a", 1, 2)`,
		`Log(c9:arr)`,
	}
	for i, w := range want {
		stmt := body.Stmts[i].(*ast.ExprStmt)
		if got := p.dump(p.nodes.Expr(stmt.Expr).Root); got != w {
			t.Fatalf("stmt %d: got %s, want %s", i, got, w)
		}
	}
	call, _ := p.nodes.Call(p.nodes.Expr(body.Stmts[2].(*ast.ExprStmt).Expr).Root)
	item, _ := p.nodes.FormatItem(call.Args[0])
	if !item.Offset.IsValid() || !item.Length.IsValid() {
		t.Fatalf("array format item must carry offset and length")
	}
}

func TestFormatItemAfterArgument(t *testing.T) {
	p := parseSource(t, `script 1 { Print(1, s: "x"); }`)
	if !p.bag.HasErrors() || p.bag.Items()[0].Code != diag.SynFormatItemPosition {
		t.Fatalf("expected format-item position error, got %s", diagnosticsSummary(p.bag))
	}
}

func TestBuildMsg(t *testing.T) {
	p := parseOK(t, `script 1 { buildmsg (Print(msgbuild)) { s: "a", d: 2; } }`)
	stmt := p.file.Decls[0].(*ast.ScriptDecl).Body.Stmts[0].(*ast.BuildMsgStmt)
	if got := p.dump(p.nodes.Expr(stmt.Call).Root); got != "Print(msgbuild)" {
		t.Fatalf("call: got %s", got)
	}
	list := stmt.Body.Stmts[0].(*ast.FormatStmt)
	first, _ := p.nodes.FormatItem(list.Items)
	if !first.Next.IsValid() {
		t.Fatalf("free format items must be chained")
	}
	second, _ := p.nodes.FormatItem(first.Next)
	if second.Cast != ast.CastDecimal || second.Next.IsValid() {
		t.Fatalf("unexpected second item: %+v", second)
	}
}

func TestDeclarations(t *testing.T) {
	src := `#library "lib"
import "other.acs";
import upmost::geo;
region geo {
	struct point { int x; int y; }
	static const origin = 0;
}
int grid[4][4], count = 2;
struct geo::point p;
struct { int a[2]; } anon;
function int add(int a, int b = 1) { return a + b; }
script 1 (int who) { Delay(1); }
alias g = geo::point;
`
	p := parseOK(t, src)
	if p.file.Library == nil || p.file.Library.Name != "lib" {
		t.Fatalf("library directive not parsed")
	}
	kinds := make([]string, len(p.file.Decls))
	for i, d := range p.file.Decls {
		kinds[i] = fmt.Sprintf("%T", d)
	}
	want := "*ast.ImportDecl *ast.ImportDecl *ast.RegionDecl *ast.VarDecl *ast.VarDecl *ast.VarDecl *ast.FuncDecl *ast.ScriptDecl *ast.AliasDecl"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("decls:\n got %s\nwant %s", got, want)
	}
	region := p.file.Decls[2].(*ast.RegionDecl)
	if len(region.Decls) != 2 || !region.Decls[1].(*ast.ConstDecl).Static {
		t.Fatalf("region body not parsed: %#v", region.Decls)
	}
	grid := p.file.Decls[3].(*ast.VarDecl)
	if len(grid.Vars) != 2 || len(grid.Vars[0].Dims) != 2 || !grid.Vars[1].Init.IsValid() {
		t.Fatalf("declarators not parsed")
	}
	if p.file.Decls[4].(*ast.VarDecl).Type.Kind != ast.TypeStruct {
		t.Fatalf("struct reference type expected")
	}
	if p.file.Decls[5].(*ast.VarDecl).Type.Kind != ast.TypeAnonStruct {
		t.Fatalf("anonymous struct type expected")
	}
	fn := p.file.Decls[6].(*ast.FuncDecl)
	if len(fn.Params) != 2 || fn.Params[0].Default.IsValid() || !fn.Params[1].Default.IsValid() {
		t.Fatalf("params not parsed")
	}
	script := p.file.Decls[7].(*ast.ScriptDecl)
	if got := p.dump(p.nodes.Expr(script.Number).Root); got != "1" || len(script.Params) != 1 {
		t.Fatalf("script header: number %s, %d params", got, len(script.Params))
	}
}

func TestNestedFunction(t *testing.T) {
	p := parseOK(t, "function void outer(void) { function int inner(void) { return 1; } inner(); }")
	outer := p.file.Decls[0].(*ast.FuncDecl)
	if outer.Nested {
		t.Fatalf("top-level function marked nested")
	}
	inner := outer.Body.Stmts[0].(*ast.DeclStmt).Decl.(*ast.FuncDecl)
	if !inner.Nested {
		t.Fatalf("inner function not marked nested")
	}
}

func TestStatements(t *testing.T) {
	src := `script 2 {
	int i;
	for (i = 0; i < 10; i++) { if (i == 5) break; else continue; }
	while (i) i--;
	until (i > 3) i++;
	do { i += 2; } until (i > 20);
	for (int j = 0; j < 2; j++) ;
	return;
}`
	p := parseOK(t, src)
	body := p.file.Decls[0].(*ast.ScriptDecl).Body
	kinds := make([]string, len(body.Stmts))
	for i, s := range body.Stmts {
		kinds[i] = fmt.Sprintf("%T", s)
	}
	want := "*ast.DeclStmt *ast.ForStmt *ast.WhileStmt *ast.WhileStmt *ast.DoStmt *ast.ForStmt *ast.ReturnStmt"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("stmts:\n got %s\nwant %s", got, want)
	}
	if !body.Stmts[3].(*ast.WhileStmt).Until || !body.Stmts[4].(*ast.DoStmt).Until {
		t.Fatalf("until flags lost")
	}
}

func TestNamesAreFolded(t *testing.T) {
	p := parseOK(t, "const a = Delay + DELAY;")
	c := p.file.Decls[0].(*ast.ConstDecl)
	bin, _ := p.nodes.Binary(p.nodes.Expr(c.Value).Root)
	l, _ := p.nodes.Name(bin.Left)
	r, _ := p.nodes.Name(bin.Right)
	if l.Name != r.Name || l.Text == r.Text {
		t.Fatalf("fold key must match and spelling must differ")
	}
	if l.Lib != 1 {
		t.Fatalf("name usage must record its library, got %d", l.Lib)
	}
	if c.Name.Name != p.strs.InternFold("A") {
		t.Fatalf("declared names must be folded")
	}
}

func TestSyntaxErrorsRecover(t *testing.T) {
	p := parseSource(t, "int a = ;\nint b;\nscript 1 { x = ; y = 1; }\n")
	if got := p.bag.Len(); got != 2 {
		t.Fatalf("expected 2 errors, got %s", diagnosticsSummary(p.bag))
	}
	if len(p.file.Decls) != 2 {
		t.Fatalf("parser did not recover: %d decls", len(p.file.Decls))
	}
	body := p.file.Decls[1].(*ast.ScriptDecl).Body
	if len(body.Stmts) != 1 {
		t.Fatalf("statement recovery failed: %d stmts", len(body.Stmts))
	}
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.acs", []byte("@ @ @ @ @"))
	bag := diag.NewBag(0)
	ParseFile(fs.Get(id), 1, ast.NewNodes(0), source.NewInterner(), Options{
		MaxErrors: 2,
		Reporter:  &diag.BagReporter{Bag: bag},
	})
	// лексер сообщает о каждом символе, парсер не больше MaxErrors
	syn := 0
	for _, d := range bag.Items() {
		if d.Code >= diag.SynInfo && d.Code < diag.SemaInfo {
			syn++
		}
	}
	if syn > 2 {
		t.Fatalf("parser reported %d errors past the limit", syn)
	}
}
