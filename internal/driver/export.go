package driver

import (
	"fmt"

	"acsc/internal/ast"
	"acsc/internal/cache"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/types"
)

// exporter turns the public objects of an analysed library into a cache
// record. Objects are found by walking the library's declarations, since
// the upmost region mixes the names of every library.
type exporter struct {
	table   *symbols.Table
	paths   map[symbols.Object][]string
	regions map[string]*cache.Region
	rec     *cache.Record
	partial bool // an alias target has no region path
}

// exportLibrary returns false when the library cannot be described by a
// record: an alias whose target is not reachable from the upmost region,
// such as a static name, could not be restored.
func exportLibrary(table *symbols.Table, lib *library) (*cache.Record, bool) {
	e := &exporter{
		table:   table,
		paths:   objectPaths(table),
		regions: make(map[string]*cache.Region),
		rec: &cache.Record{
			Path:    lib.path,
			Hash:    cache.Digest(lib.src.Hash),
			Name:    lib.lib.Name,
			Imports: lib.importPaths(),
		},
	}
	e.decls(table.Upmost, nil, lib.file.Decls)
	if e.partial {
		return nil, false
	}
	return e.rec, true
}

// objectPaths records the region path and name of every object reachable
// from the upmost region.
func objectPaths(table *symbols.Table) map[symbols.Object][]string {
	out := make(map[symbols.Object][]string)
	var walk func(region *symbols.Region, path []string)
	walk = func(region *symbols.Region, path []string) {
		for _, obj := range region.Body.Objects() {
			full := append(append([]string(nil), path...), table.Text(obj))
			out[obj] = full
			if o, ok := obj.(*symbols.Region); ok && o.Parent == region {
				walk(o, full)
			}
		}
	}
	walk(table.Upmost, nil)
	return out
}

func (e *exporter) region(path []string) *cache.Region {
	key := fmt.Sprint(path)
	if r, ok := e.regions[key]; ok {
		return r
	}
	e.rec.Regions = append(e.rec.Regions, cache.Region{Path: path})
	// указатель берётся заново: append мог переместить срез
	for i := range e.rec.Regions {
		e.regions[fmt.Sprint(e.rec.Regions[i].Path)] = &e.rec.Regions[i]
	}
	return e.regions[key]
}

func (e *exporter) decls(region *symbols.Region, path []string, decls []ast.Decl) {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.RegionDecl:
			nested, ok := region.Body.Lookup(d.Name.Name).(*symbols.Region)
			if !ok {
				continue
			}
			sub := append(append([]string(nil), path...), e.text(d.Name.Text))
			e.region(sub)
			e.decls(nested, sub, d.Decls)
		case *ast.ConstDecl:
			if k, ok := e.public(region, d.Static, d.Name).(*symbols.Constant); ok {
				r := e.region(path)
				r.Constants = append(r.Constants, cache.Constant{Name: e.table.Text(k), Value: k.Value})
			}
		case *ast.VarDecl:
			for _, v := range d.Vars {
				if obj, ok := e.public(region, d.Static, v.Name).(*symbols.Var); ok {
					r := e.region(path)
					r.Vars = append(r.Vars, cache.Var{Name: e.table.Text(obj), Type: e.typeRef(obj.Type), Dims: dims(obj.Dim)})
				}
			}
		case *ast.StructDecl:
			if st, ok := e.public(region, false, d.Name).(*symbols.StructType); ok {
				r := e.region(path)
				r.Structs = append(r.Structs, cache.Struct{Name: e.table.Text(st), Members: e.members(st)})
			}
		case *ast.FuncDecl:
			if fn, ok := e.public(region, d.Static, d.Name).(*symbols.Func); ok {
				r := e.region(path)
				r.Funcs = append(r.Funcs, cache.Func{
					Name:     e.table.Text(fn),
					MinParam: fn.MinParam,
					MaxParam: fn.MaxParam,
					Return:   e.primitive(fn.Return),
				})
			}
		case *ast.AliasDecl:
			alias, ok := e.public(region, false, d.Name).(*symbols.Alias)
			if !ok {
				continue
			}
			target, ok := e.paths[alias.Target]
			if !ok {
				e.partial = true
				continue
			}
			r := e.region(path)
			r.Aliases = append(r.Aliases, cache.Alias{Name: e.table.Text(alias), Target: target})
		}
	}
}

// public returns the object a non-static declaration bound in region.
func (e *exporter) public(region *symbols.Region, static bool, id ast.Ident) symbols.Object {
	if static {
		return nil
	}
	obj := region.Body.Lookup(id.Name)
	if obj == nil || !obj.Head().Resolved || obj.Head().Pos != id.Pos {
		return nil
	}
	return obj
}

func (e *exporter) members(st *symbols.StructType) []cache.Member {
	var out []cache.Member
	for _, obj := range st.Members.Objects() {
		m, ok := obj.(*symbols.TypeMember)
		if !ok {
			continue
		}
		out = append(out, cache.Member{Name: e.table.Text(m), Type: e.typeRef(m.Type), Dims: dims(m.Dim)})
	}
	return out
}

func (e *exporter) typeRef(id types.TypeID) cache.TypeRef {
	if e.table.Types.IsPrimitive(id) {
		return cache.TypeRef{Primitive: e.primitive(id)}
	}
	st := e.table.Struct(id)
	if st == nil {
		return cache.TypeRef{}
	}
	if st.Anon {
		return cache.TypeRef{Anon: e.members(st)}
	}
	return cache.TypeRef{Struct: e.paths[st]}
}

func (e *exporter) primitive(id types.TypeID) string {
	if id == types.NoTypeID {
		return ""
	}
	return e.table.Types.Name(id, e.table.Strings)
}

func (e *exporter) text(id source.StringID) string {
	return e.table.Strings.MustLookup(id)
}

func dims(d *symbols.Dim) []int32 {
	var out []int32
	for ; d != nil; d = d.Next {
		out = append(out, d.Size)
	}
	return out
}
