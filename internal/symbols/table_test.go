package symbols

import (
	"testing"

	"acsc/internal/ast"
	"acsc/internal/source"
)

func TestPreludeIsCaseInsensitive(t *testing.T) {
	tab := NewTable(nil, nil)
	for _, spelling := range []string{"Delay", "delay", "DELAY"} {
		obj := tab.Upmost.Body.Lookup(tab.Strings.InternFold(spelling))
		fn, ok := obj.(*Func)
		if !ok {
			t.Fatalf("%s: expected func, got %T", spelling, obj)
		}
		ded, ok := fn.Impl.(*DedicatedImpl)
		if !ok || !ded.Latent {
			t.Fatalf("%s: expected latent dedicated function", spelling)
		}
		if got := tab.Text(fn); got != "Delay" {
			t.Fatalf("Text = %q", got)
		}
	}
}

func TestBodyBindRestore(t *testing.T) {
	strs := source.NewInterner()
	b := NewBody()
	name := strs.InternFold("x")
	outer := &Var{Header: Header{Name: name}}
	inner := &Param{Header: Header{Name: name}}

	if prev := b.Bind(name, outer); prev != nil {
		t.Fatalf("unexpected previous binding %T", prev)
	}
	prev := b.Bind(name, inner)
	if b.Lookup(name) != Object(inner) {
		t.Fatalf("inner binding not visible")
	}
	b.Restore(name, prev)
	if b.Lookup(name) != Object(outer) {
		t.Fatalf("outer binding not restored")
	}
	b.Restore(name, nil)
	if b.Lookup(name) != nil || len(b.Objects()) != 0 {
		t.Fatalf("name must be gone")
	}
}

func TestNestedRegionLinks(t *testing.T) {
	tab := NewTable(nil, nil)
	a := tab.NewRegion(ast.Ident{Name: tab.Strings.InternFold("a")}, tab.Upmost)
	b := tab.NewRegion(ast.Ident{Name: tab.Strings.InternFold("b")}, a)
	if a.Parent != tab.Upmost || b.Parent != a {
		t.Fatalf("parents: a=%v b=%v", a.Parent, b.Parent)
	}
	if len(a.Links) != 0 || len(b.Links) != 0 {
		t.Fatalf("new regions import nothing: a=%v b=%v", a.Links, b.Links)
	}
	if !b.Link(tab.Upmost) {
		t.Fatalf("first link rejected")
	}
	if b.Link(tab.Upmost) {
		t.Fatalf("duplicate link must be rejected")
	}
}

func TestUnaliasDetectsCycles(t *testing.T) {
	c := &Constant{Value: 42}
	a1 := &Alias{Target: c}
	a2 := &Alias{Target: a1}
	if got, ok := Unalias(a2); !ok || got != Object(c) {
		t.Fatalf("Unalias chain = %v, %v", got, ok)
	}
	x := &Alias{}
	y := &Alias{Target: x}
	x.Target = y
	if _, ok := Unalias(x); ok {
		t.Fatalf("cycle must be reported")
	}
}

func TestLibraryIDs(t *testing.T) {
	tab := NewTable(nil, nil)
	main := tab.NewLibrary("", "main.acs")
	lib := tab.NewLibrary("zcommon", "zcommon.acs")
	if main.ID != 1 || lib.ID != 2 {
		t.Fatalf("ids: %d %d", main.ID, lib.ID)
	}
	if tab.Library(2) != lib || tab.Library(ast.NoLibID) != nil || tab.Library(3) != nil {
		t.Fatalf("Library lookup broken")
	}
}
