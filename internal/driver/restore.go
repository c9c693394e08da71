package driver

import (
	"fmt"

	"acsc/internal/ast"
	"acsc/internal/cache"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/types"
)

// binding is a name the restorer will add to a region body.
type binding struct {
	region *symbols.Region
	obj    symbols.Object
}

// restorer binds the objects of a cached library into the table without
// parsing it. Every restored object is resolved from the start. Nothing is
// bound until the whole record restored cleanly, so a failed record leaves
// the table as it was.
type restorer struct {
	table   *symbols.Table
	rec     *cache.Record
	pending []binding
	structs []*symbols.StructType
}

func restoreLibrary(table *symbols.Table, rec *cache.Record) error {
	r := &restorer{table: table, rec: rec}
	if err := r.restore(); err != nil {
		return err
	}
	for _, b := range r.pending {
		b.region.Body.Bind(b.obj.Head().Name, b.obj)
	}
	for _, st := range r.structs {
		table.RegisterStruct(st)
	}
	return nil
}

func (r *restorer) restore() error {
	// Структуры раньше переменных: типы переменных ссылаются на них.
	for _, region := range r.rec.Regions {
		target, err := r.region(region.Path)
		if err != nil {
			return err
		}
		for _, st := range region.Structs {
			obj, err := r.structType(st.Name, st.Members, false)
			if err != nil {
				return err
			}
			if err := r.bind(target, obj); err != nil {
				return err
			}
		}
	}
	for _, region := range r.rec.Regions {
		target, err := r.region(region.Path)
		if err != nil {
			return err
		}
		for _, k := range region.Constants {
			obj := &symbols.Constant{Header: r.header(k.Name), Value: k.Value}
			if err := r.bind(target, obj); err != nil {
				return err
			}
		}
		for _, v := range region.Vars {
			typ, err := r.typeRef(v.Type)
			if err != nil {
				return fmt.Errorf("variable %s: %w", v.Name, err)
			}
			obj := &symbols.Var{Header: r.header(v.Name), Type: typ, Dim: chain(v.Dims)}
			if err := r.bind(target, obj); err != nil {
				return err
			}
		}
		for _, f := range region.Funcs {
			obj := &symbols.Func{
				Header:   r.header(f.Name),
				MinParam: f.MinParam,
				MaxParam: f.MaxParam,
				Return:   r.primitive(f.Return),
				Impl:     &symbols.UserImpl{},
			}
			if err := r.bind(target, obj); err != nil {
				return err
			}
		}
	}
	// Псевдонимы последними: цель может быть в этой же записи.
	for _, region := range r.rec.Regions {
		target, err := r.region(region.Path)
		if err != nil {
			return err
		}
		for _, a := range region.Aliases {
			obj, err := r.find(a.Target)
			if err != nil {
				return fmt.Errorf("alias %s: %w", a.Name, err)
			}
			alias := &symbols.Alias{Header: r.header(a.Name), Target: obj}
			if err := r.bind(target, alias); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *restorer) ident(name string) ast.Ident {
	strs := r.table.Strings
	return ast.Ident{Name: strs.InternFold(name), Text: strs.Intern(name)}
}

func (r *restorer) header(name string) symbols.Header {
	id := r.ident(name)
	return symbols.Header{Name: id.Name, Text: id.Text, Resolved: true}
}

// lookup sees the pending bindings on top of the region body.
func (r *restorer) lookup(region *symbols.Region, name source.StringID) symbols.Object {
	for i := len(r.pending) - 1; i >= 0; i-- {
		b := r.pending[i]
		if b.region == region && b.obj.Head().Name == name {
			return b.obj
		}
	}
	return region.Body.Lookup(name)
}

func (r *restorer) bind(region *symbols.Region, obj symbols.Object) error {
	if prev := r.lookup(region, obj.Head().Name); prev != nil {
		return fmt.Errorf("duplicate name `%s` in cached library %s", r.table.Text(obj), r.rec.Path)
	}
	r.pending = append(r.pending, binding{region: region, obj: obj})
	return nil
}

// region finds the region at path, creating the missing ones. Regions are
// shared: another library may have opened them already.
func (r *restorer) region(path []string) (*symbols.Region, error) {
	region := r.table.Upmost
	for _, name := range path {
		id := r.ident(name)
		switch obj := r.lookup(region, id.Name).(type) {
		case *symbols.Region:
			region = obj
		case nil:
			nested := r.table.NewRegion(id, region)
			r.pending = append(r.pending, binding{region: region, obj: nested})
			region = nested
		default:
			return nil, fmt.Errorf("cached region %s clashes with `%s`", name, r.table.Text(obj))
		}
	}
	return region, nil
}

// find resolves a region path ending in an object name.
func (r *restorer) find(path []string) (symbols.Object, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	region := r.table.Upmost
	for _, name := range path[:len(path)-1] {
		next, ok := r.lookup(region, r.ident(name).Name).(*symbols.Region)
		if !ok {
			return nil, fmt.Errorf("region %s not found", name)
		}
		region = next
	}
	name := path[len(path)-1]
	obj := r.lookup(region, r.ident(name).Name)
	if obj == nil || !obj.Head().Resolved {
		return nil, fmt.Errorf("%s not found", name)
	}
	return obj, nil
}

func (r *restorer) structType(name string, members []cache.Member, anon bool) (*symbols.StructType, error) {
	var id ast.Ident
	if !anon {
		id = r.ident(name)
	}
	st := &symbols.StructType{
		Header:  symbols.Header{Name: id.Name, Text: id.Text, Resolved: true},
		Type:    r.table.Types.RegisterStruct(id.Name, source.Span{}),
		Members: symbols.NewBody(),
		Anon:    anon,
	}
	r.structs = append(r.structs, st)
	for _, m := range members {
		typ, err := r.typeRef(m.Type)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.Name, err)
		}
		member := &symbols.TypeMember{Header: r.header(m.Name), Type: typ, Dim: chain(m.Dims)}
		st.Members.Bind(member.Name, member)
	}
	return st, nil
}

func (r *restorer) typeRef(ref cache.TypeRef) (types.TypeID, error) {
	switch {
	case ref.Primitive != "":
		return r.primitive(ref.Primitive), nil
	case len(ref.Struct) > 0:
		obj, err := r.find(ref.Struct)
		if err != nil {
			return types.NoTypeID, err
		}
		st, ok := obj.(*symbols.StructType)
		if !ok {
			return types.NoTypeID, fmt.Errorf("%s not a struct", ref.Struct[len(ref.Struct)-1])
		}
		return st.Type, nil
	case ref.Anon != nil:
		st, err := r.structType("", ref.Anon, true)
		if err != nil {
			return types.NoTypeID, err
		}
		return st.Type, nil
	}
	return types.NoTypeID, fmt.Errorf("empty type reference")
}

func (r *restorer) primitive(name string) types.TypeID {
	b := r.table.Types.Builtins()
	switch name {
	case "int":
		return b.Int
	case "str":
		return b.Str
	case "bool":
		return b.Bool
	}
	return types.NoTypeID
}

func chain(sizes []int32) *symbols.Dim {
	var head, tail *symbols.Dim
	for _, size := range sizes {
		d := &symbols.Dim{Size: size}
		if head == nil {
			head = d
		} else {
			tail.Next = d
		}
		tail = d
	}
	return head
}
