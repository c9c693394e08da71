package sema

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/parser"
	"acsc/internal/source"
	"acsc/internal/symbols"
)

type checked struct {
	strs  *source.Interner
	table *symbols.Table
	nodes *ast.Nodes
	file  *ast.File
	bag   *diag.Bag
	res   *Result
	err   error
}

func parseProgram(t *testing.T, src string) checked {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.acs", []byte(src))
	strs := source.NewInterner()
	table := symbols.NewTable(strs, nil)
	lib := table.NewLibrary("", "test.acs")
	nodes := ast.NewNodes(0)
	bag := diag.NewBag(0)
	file := parser.ParseFile(fs.Get(id), lib.ID, nodes, strs, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse diagnostics: %s", summary(bag))
	}
	return checked{strs: strs, table: table, nodes: nodes, file: file, bag: bag}
}

func checkSource(t *testing.T, src string) checked {
	t.Helper()
	p := parseProgram(t, src)
	prog := &Program{Nodes: p.nodes, Table: p.table, Files: []*ast.File{p.file}}
	p.res, p.err = Check(context.Background(), prog, Options{Reporter: diag.BagReporter{Bag: p.bag}})
	return p
}

func checkOK(t *testing.T, src string) checked {
	t.Helper()
	p := checkSource(t, src)
	if p.err != nil || p.bag.HasErrors() {
		t.Fatalf("unexpected failure: %v; %s", p.err, summary(p.bag))
	}
	return p
}

// checkFails runs the analysis and expects a fatal error with the given
// code; it returns that diagnostic.
func checkFails(t *testing.T, src string, code diag.Code) diag.Diagnostic {
	t.Helper()
	p := checkSource(t, src)
	if !errors.Is(p.err, ErrBail) {
		t.Fatalf("expected fatal %s, got err=%v; %s", code.ID(), p.err, summary(p.bag))
	}
	var fatal *FatalError
	if !errors.As(p.err, &fatal) {
		t.Fatalf("error %T is not *FatalError", p.err)
	}
	if fatal.Diag.Code != code {
		t.Fatalf("got %s %q, want %s", fatal.Diag.Code.ID(), fatal.Diag.Message, code.ID())
	}
	if p.bag.Count(diag.SevError) != 1 {
		t.Fatalf("want exactly one error, got %s", summary(p.bag))
	}
	return fatal.Diag
}

func summary(bag *diag.Bag) string {
	if bag.Len() == 0 {
		return "<none>"
	}
	lines := make([]string, bag.Len())
	for i, d := range bag.Items() {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

// constant returns the folded value of a region-level constant.
func (p checked) constant(t *testing.T, region *symbols.Region, name string) int32 {
	t.Helper()
	obj := region.Body.Lookup(p.strs.InternFold(name))
	k, ok := obj.(*symbols.Constant)
	if !ok {
		t.Fatalf("%s is %T, want *symbols.Constant", name, obj)
	}
	if !k.Resolved {
		t.Fatalf("%s not resolved", name)
	}
	return k.Value
}

func (p checked) upmost(t *testing.T, name string) int32 {
	t.Helper()
	return p.constant(t, p.table.Upmost, name)
}

func TestConstantFolding(t *testing.T) {
	p := checkOK(t, `
const a = (3 + 4) * 2;
const b = 7 / 2;
const c = -5 % 3;
const d = !0 + ~0 + -(-3);
const e = 1 << 33;
const f = 2147483647 + 1;
const g = 3 > 2 && 0 || 5 == 5;
const h = 'A' ^ 1;
`)
	cases := []struct {
		name string
		want int32
	}{
		{"a", 14},
		{"b", 3},
		{"c", -2},
		{"d", 3},
		{"e", 2},
		{"f", -2147483648},
		{"g", 1},
		{"h", 64},
	}
	for _, tc := range cases {
		if got := p.upmost(t, tc.name); got != tc.want {
			t.Fatalf("%s = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestFoldedExprIsAnnotated(t *testing.T) {
	p := checkOK(t, "const a = (3 + 4) * 2;")
	decl := p.file.Decls[0].(*ast.ConstDecl)
	expr := p.nodes.Expr(decl.Value)
	if !expr.Analyzed || !expr.Folded || expr.Value != 14 {
		t.Fatalf("annotation: analyzed=%v folded=%v value=%d", expr.Analyzed, expr.Folded, expr.Value)
	}
	if expr.Type != p.table.Types.Builtins().Int {
		t.Fatalf("type %v, want int", expr.Type)
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{"const a = 1 / 0;", "const a = 10 % (2 - 2);"} {
		d := checkFails(t, src, diag.SemaDivisionByZero)
		if d.Message != "division by zero" {
			t.Fatalf("%s: message %q", src, d.Message)
		}
	}
}

func TestIndexOutOfBoundsWarns(t *testing.T) {
	p := checkOK(t, "int a[5]; script 1 { a[10] = 1; a[4] = 2; }")
	if got := p.bag.Count(diag.SevWarning); got != 1 {
		t.Fatalf("want one warning, got %s", summary(p.bag))
	}
	if countCode(p.bag, diag.SemaIndexOutOfBounds) != 1 {
		t.Fatalf("want out-of-bounds warning, got %s", summary(p.bag))
	}
}

func TestCallArity(t *testing.T) {
	checkOK(t, "function void f(int a, int b, int c = 0) {} script 1 { f(1, 2); f(1, 2, 3); Door_Open(1, 2); Door_Open(1, 2, 3); }")

	d := checkFails(t, "function void f(int a, int b, int c = 0) {} script 1 { f(1); }", diag.SemaNotEnoughArgs)
	if len(d.Notes) != 1 || d.Notes[0].Msg != "function `f` needs at least 2 arguments" {
		t.Fatalf("notes: %+v", d.Notes)
	}
	d = checkFails(t, "function void f(int a, int b, int c = 0) {} script 1 { f(1, 2, 3, 4); }", diag.SemaTooManyArgs)
	if len(d.Notes) != 1 || d.Notes[0].Msg != "function `f` takes up to 3 arguments" {
		t.Fatalf("notes: %+v", d.Notes)
	}
	d = checkFails(t, "script 1 { int r = Random(1); r++; }", diag.SemaNotEnoughArgs)
	if d.Notes[0].Msg != "function `Random` needs 2 arguments" {
		t.Fatalf("notes: %+v", d.Notes)
	}
}

func TestAmbiguousName(t *testing.T) {
	strs := source.NewInterner()
	table := symbols.NewTable(strs, nil)
	ident := func(s string) ast.Ident {
		return ast.Ident{Name: strs.InternFold(s), Text: strs.Intern(s)}
	}
	l1 := table.NewRegion(ident("l1"), table.Upmost)
	l2 := table.NewRegion(ident("l2"), table.Upmost)
	r := table.NewRegion(ident("r"), table.Upmost)
	r.Link(l1)
	r.Link(l2)

	name := ident("n")
	bind := func(region *symbols.Region, value int32) {
		region.Body.Bind(name.Name, &symbols.Constant{Header: symbols.Header{Name: name.Name, Text: name.Text, Resolved: true}, Value: value})
	}
	bag := diag.NewBag(0)
	c := NewChecker(ast.NewNodes(0), table, diag.BagReporter{Bag: bag})

	bind(l1, 1)
	obj, err := c.FindObject(r, ast.NoLibID, name.Name, "n", source.Span{})
	if err != nil || obj.(*symbols.Constant).Value != 1 {
		t.Fatalf("single link: obj=%v err=%v", obj, err)
	}

	bind(l2, 2)
	obj, err = c.FindObject(r, ast.NoLibID, name.Name, "n", source.Span{})
	if !errors.Is(err, ErrBail) || obj != nil {
		t.Fatalf("expected ambiguity, got obj=%v err=%v", obj, err)
	}
	if bag.Len() != 1 {
		t.Fatalf("want one diagnostic, got %s", summary(bag))
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaAmbiguousName || d.Message != "multiple objects with name `n`" || len(d.Notes) != 2 {
		t.Fatalf("diagnostic: %+v", d)
	}

	// the region's own body wins over its links
	bind(r, 3)
	obj, err = c.FindObject(r, ast.NoLibID, name.Name, "n", source.Span{})
	if err != nil || obj.(*symbols.Constant).Value != 3 {
		t.Fatalf("body lookup: obj=%v err=%v", obj, err)
	}
}

func TestAmbiguousImports(t *testing.T) {
	src := `
region l1 { const n = 1; }
region l2 { const n = 2; }
region r {
	import upmost::l1;
	import upmost::l2;
	const x = n;
}
`
	d := checkFails(t, src, diag.SemaAmbiguousName)
	if len(d.Notes) != 2 || d.Notes[0].Msg != "object found here" {
		t.Fatalf("notes: %+v", d.Notes)
	}

	p := checkOK(t, "region l1 { const n = 1; } region r { import upmost::l1; const x = n + 1; }")
	r := p.table.Upmost.Body.Lookup(p.strs.InternFold("r")).(*symbols.Region)
	if got := p.constant(t, r, "x"); got != 2 {
		t.Fatalf("x = %d, want 2", got)
	}
}

func TestAliasToConstant(t *testing.T) {
	p := checkOK(t, "const c = 42; alias a = c; const d = a;")
	if got := p.upmost(t, "d"); got != 42 {
		t.Fatalf("d = %d, want 42", got)
	}
	decl := p.file.Decls[2].(*ast.ConstDecl)
	expr := p.nodes.Expr(decl.Value)
	if !expr.Folded || expr.Value != 42 {
		t.Fatalf("alias usage not folded: %+v", expr)
	}
	if _, ok := p.res.Names[expr.Root].(*symbols.Alias); !ok {
		t.Fatalf("name usage must record the alias, got %T", p.res.Names[expr.Root])
	}
}

func TestIncrement(t *testing.T) {
	d := checkFails(t, "const c = 1; script 1 { c++; }", diag.SemaNotIncrementable)
	if d.Message != "operand cannot be incremented" {
		t.Fatalf("message %q", d.Message)
	}
	d = checkFails(t, "script 1 { --5; }", diag.SemaNotIncrementable)
	if d.Message != "operand cannot be decremented" {
		t.Fatalf("message %q", d.Message)
	}

	p := checkOK(t, "int x; script 1 { x++; }")
	stmt := p.file.Decls[1].(*ast.ScriptDecl).Body.Stmts[0].(*ast.ExprStmt)
	expr := p.nodes.Expr(stmt.Expr)
	if !expr.Analyzed || expr.Folded {
		t.Fatalf("increment: analyzed=%v folded=%v", expr.Analyzed, expr.Folded)
	}
}

func TestAssignmentInCondition(t *testing.T) {
	p := checkOK(t, "int x; script 1 { if (x = 1) x++; }")
	if countCode(p.bag, diag.SemaAssignNotParenthesized) != 1 {
		t.Fatalf("want one warning, got %s", summary(p.bag))
	}
	p = checkOK(t, "int x; script 1 { if ((x = 1)) x++; while ((x = 0)) {} }")
	if p.bag.Len() != 0 {
		t.Fatalf("want no diagnostics, got %s", summary(p.bag))
	}
	p = checkOK(t, "int x; script 1 { x = 1; }")
	if p.bag.Len() != 0 {
		t.Fatalf("plain assignment statement must not warn: %s", summary(p.bag))
	}
}

func TestSpeculativeLookup(t *testing.T) {
	p := parseProgram(t, "const a = y + 1;")
	value := p.file.Decls[0].(*ast.ConstDecl).Value
	c := NewChecker(p.nodes, p.table, diag.BagReporter{Bag: p.bag})

	test := NewExprTest(nil, nil, true, false, false)
	if err := c.TestExpr(test, value); err != nil {
		t.Fatalf("speculative test failed: %v", err)
	}
	if !test.Unresolved || p.bag.Len() != 0 {
		t.Fatalf("unresolved=%v diagnostics=%s", test.Unresolved, summary(p.bag))
	}
	if p.nodes.Expr(value).Analyzed {
		t.Fatalf("unresolved expression must stay unannotated")
	}

	test = NewExprTest(nil, nil, true, true, false)
	err := c.TestExpr(test, value)
	if !errors.Is(err, ErrBail) {
		t.Fatalf("want fatal error, got %v", err)
	}
	if p.bag.Len() != 1 || p.bag.Items()[0].Code != diag.SemaNotFound || p.bag.Items()[0].Message != "`y` not found" {
		t.Fatalf("diagnostics: %s", summary(p.bag))
	}
}

func TestExprWithoutValue(t *testing.T) {
	d := checkFails(t, "function void f(void) {} script 1 { int x = f(); x++; }", diag.SemaExprNoValue)
	if d.Message != "expression does not produce a value" {
		t.Fatalf("message %q", d.Message)
	}
	checkFails(t, "function void f(void) {} const a = f + 1;", diag.SemaBinaryNotValue)
}

func TestAspecs(t *testing.T) {
	p := checkOK(t, "const x = Door_Open; script 1 { Door_Open(1, 2); }")
	if got := p.upmost(t, "x"); got != 10 {
		t.Fatalf("aspec name = %d, want its number 10", got)
	}
	d := checkFails(t, "script 1 { Polyobj_StartLine(1, 2, 3); }", diag.SemaAspecFromScript)
	if d.Message != "action-special `Polyobj_StartLine` called from script" {
		t.Fatalf("message %q", d.Message)
	}
	checkFails(t, "const f = 3; script 1 { f(1); }", diag.SemaNotFunction)
}

func TestLatentCalls(t *testing.T) {
	checkOK(t, "script 1 { Delay(1); }")

	d := checkFails(t, "function void f(void) { Delay(1); }", diag.SemaLatentCall)
	if d.Message != "calling latent function inside a function" || len(d.Notes) != 1 {
		t.Fatalf("diagnostic: %+v", d)
	}
	if d.Notes[0].Msg != "waiting functions like `Delay` can only be called inside a script" {
		t.Fatalf("note %q", d.Notes[0].Msg)
	}

	d = checkFails(t, "script 1 { buildmsg (Print(msgbuild)) { Delay(1); } }", diag.SemaLatentCall)
	if d.Message != "calling latent function inside a format block" || len(d.Notes) != 0 {
		t.Fatalf("diagnostic: %+v", d)
	}
}

func TestFormatCalls(t *testing.T) {
	p := checkOK(t, `int arr[4]; script 1 { Print(s: "hi", d: 1); Log(a: (arr)); Log(a: (arr, 1, 2)); }`)
	if !p.res.HasString {
		t.Fatalf("string usage not recorded")
	}

	cases := []struct {
		src  string
		code diag.Code
	}{
		{`script 1 { Random(d: 1, 2); }`, diag.SemaFormatItemToNonFormat},
		{`script 1 { Random(msgbuild); }`, diag.SemaFormatBlockToNonFormat},
		{`script 1 { Print(1); }`, diag.SemaMissingFormatArg},
		{`script 1 { Print(msgbuild); }`, diag.SemaMissingFormatBlock},
		{`script 1 { Log(a: (5)); }`, diag.SemaArgNotArray},
		{`int m[2][2]; script 1 { Log(a: (m)); }`, diag.SemaArgArrayDims},
		{`script 1 { HudMessage(s: "a"; 1, 2); }`, diag.SemaNotEnoughArgs},
		{`script 1 { Print(s: y); }`, diag.SemaNotFound},
	}
	for _, tc := range cases {
		checkFails(t, tc.src, tc.code)
	}
}

func TestBuildMsg(t *testing.T) {
	p := checkOK(t, `script 1 { buildmsg (Print(msgbuild)) { s: "a", d: 2; } }`)
	if len(p.res.FormatBlocks) != 1 {
		t.Fatalf("format block usages: %d", len(p.res.FormatBlocks))
	}
	checkFails(t, `script 1 { buildmsg (Random(1, 2)) { d: 1; } }`, diag.SemaMissingFormatBlock)
	checkFails(t, `script 1 { d: 1; }`, diag.SemaFormatOutsideBlock)
}

func TestRegionAccess(t *testing.T) {
	p := checkOK(t, "region r { const k = 5; region inner { const q = k * 2; } } const z = r::k + r::inner::q;")
	if got := p.upmost(t, "z"); got != 15 {
		t.Fatalf("z = %d, want 15", got)
	}
	checkFails(t, "region r { const k = 5; } const z = r::q;", diag.SemaNotFoundInRegion)
	checkFails(t, "const y = 1; const z = y::k;", diag.SemaNotRegion)
	// links are not searched through `::`
	checkFails(t, "const k = 1; region r { const a = 1; } const z = r::k;", diag.SemaNotFoundInRegion)
}

func TestNestedRegionScopes(t *testing.T) {
	// the enclosing region shadows upmost without ambiguity
	p := checkOK(t, "const n = 0; region r { const n = 1; region inner { const m = n; } } const z = r::inner::m;")
	if got := p.upmost(t, "z"); got != 1 {
		t.Fatalf("z = %d, want 1", got)
	}
	// an import of the inner region comes before the outer bodies
	p = checkOK(t, "region l { const n = 5; } const n = 0; region r { region inner { import upmost::l; const m = n; } } const z = r::inner::m;")
	if got := p.upmost(t, "z"); got != 5 {
		t.Fatalf("z = %d, want 5", got)
	}
	// names of upmost stay visible from deep regions
	p = checkOK(t, "const n = 4; region a { region b { region c { const m = n * 2; } } } const z = a::b::c::m;")
	if got := p.upmost(t, "z"); got != 8 {
		t.Fatalf("z = %d, want 8", got)
	}
}

func TestStructAccess(t *testing.T) {
	checkOK(t, "struct P p; struct P { int x; int y[3]; } script 1 { p.x = 1; p.y[0] = p.x; }")
	checkOK(t, "struct { int a; } s; script 1 { s.a = 2; }")

	d := checkFails(t, "struct P { int x; } struct P p; script 1 { p.z = 3; }", diag.SemaNotMember)
	if d.Message != "`z` not member of struct `P`" {
		t.Fatalf("message %q", d.Message)
	}
	d = checkFails(t, "struct { int a; } s; script 1 { s.b = 1; }", diag.SemaNotMember)
	if d.Message != "`b` not member of anonymous struct" {
		t.Fatalf("message %q", d.Message)
	}
	checkFails(t, "int x; script 1 { x.a = 1; }", diag.SemaNotStruct)
}
