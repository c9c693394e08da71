package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"acsc/internal/ast"
	"acsc/internal/source"
	"acsc/internal/types"
)

// Library is a compilation unit. Every library shares the upmost region;
// names declared `static` go to the library's Hidden compartment instead.
type Library struct {
	ID       ast.LibID
	Name     string
	Path     string
	Hidden   *Body
	Imported bool
	Cached   bool // objects were restored from the library cache
}

// Table owns the region graph, the libraries and struct member tables.
type Table struct {
	Strings   *source.Interner
	Types     *types.Interner
	Upmost    *Region
	Libraries []*Library

	structs map[types.TypeID]*StructType
}

// NewTable builds a table with an empty upmost region holding the prelude.
func NewTable(strs *source.Interner, typs *types.Interner) *Table {
	if strs == nil {
		strs = source.NewInterner()
	}
	if typs == nil {
		typs = types.NewInterner()
	}
	t := &Table{
		Strings: strs,
		Types:   typs,
		structs: make(map[types.TypeID]*StructType),
	}
	t.Upmost = &Region{Header: Header{Resolved: true}, Body: NewBody()}
	t.installPrelude()
	return t
}

// NewLibrary registers a library and returns it. IDs start at 1.
func (t *Table) NewLibrary(name, path string) *Library {
	n, err := safecast.Conv[uint32](len(t.Libraries) + 1)
	if err != nil {
		panic(fmt.Errorf("library count overflow: %w", err))
	}
	lib := &Library{ID: ast.LibID(n), Name: name, Path: path, Hidden: NewBody()}
	t.Libraries = append(t.Libraries, lib)
	return lib
}

// Library returns the library with the given ID, or nil.
func (t *Table) Library(id ast.LibID) *Library {
	if id == ast.NoLibID || int(id) > len(t.Libraries) {
		return nil
	}
	return t.Libraries[id-1]
}

// NewRegion creates a nested region. The enclosing regions are reached
// through Parent; Links holds only the regions it imports.
func (t *Table) NewRegion(name ast.Ident, parent *Region) *Region {
	return &Region{
		Header: Header{Name: name.Name, Text: name.Text, Pos: name.Pos, Resolved: true},
		Body:   NewBody(),
		Parent: parent,
	}
}

// RegisterStruct remembers the member table of a struct type.
func (t *Table) RegisterStruct(st *StructType) {
	t.structs[st.Type] = st
}

// Struct returns the struct declaration of a struct type.
func (t *Table) Struct(id types.TypeID) *StructType {
	return t.structs[id]
}

// Text returns the declared spelling of an object's name.
func (t *Table) Text(obj Object) string {
	h := obj.Head()
	if h.Text != source.NoStringID {
		return t.Strings.MustLookup(h.Text)
	}
	return t.Strings.MustLookup(h.Name)
}

// Unalias follows alias chains. ok is false when the chain loops or ends
// at an alias without a target.
func Unalias(obj Object) (target Object, ok bool) {
	seen := map[*Alias]bool{}
	for {
		alias, isAlias := obj.(*Alias)
		if !isAlias {
			return obj, true
		}
		if seen[alias] || alias.Target == nil {
			return alias, false
		}
		seen[alias] = true
		obj = alias.Target
	}
}
