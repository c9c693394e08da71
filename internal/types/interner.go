package types

import (
	"fmt"

	"fortio.org/safecast"

	"acsc/internal/source"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Int  TypeID
	Str  TypeID
	Bool TypeID
}

// StructInfo stores metadata for a struct type. Members live in the symbol
// table, keyed by the struct's TypeID.
type StructInfo struct {
	Name source.StringID // NoStringID for anonymous structs
	Decl source.Span
}

// Interner hands out stable TypeIDs. Primitives are deduplicated; every
// struct declaration gets a distinct nominal type.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	structs  []StructInfo
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types:   []Type{{Kind: KindInvalid}}, // 0 зарезервирован под NoTypeID
		index:   make(map[Type]TypeID, 8),
		structs: []StructInfo{{}},
	}
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Str = in.Intern(Type{Kind: KindStr})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[t] = id
	return id
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(n)
}

// RegisterStruct allocates a nominal struct type.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span) TypeID {
	slot, err := safecast.Conv[uint32](len(in.structs))
	if err != nil {
		panic(fmt.Errorf("len(structs) overflow: %w", err))
	}
	in.structs = append(in.structs, StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// StructInfo returns metadata for a struct TypeID.
func (in *Interner) StructInfo(id TypeID) (StructInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindStruct {
		return StructInfo{}, false
	}
	return in.structs[t.Payload], true
}

// IsPrimitive reports whether id names int, str or bool.
func (in *Interner) IsPrimitive(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind.Primitive()
}

// IsStruct reports whether id names a struct type.
func (in *Interner) IsStruct(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindStruct
}

// Name renders a type for diagnostics.
func (in *Interner) Name(id TypeID, strs *source.Interner) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "void"
	}
	if t.Kind != KindStruct {
		return t.Kind.String()
	}
	info := in.structs[t.Payload]
	if info.Name == source.NoStringID || strs == nil {
		return "anonymous struct"
	}
	return "struct " + strs.MustLookup(info.Name)
}
