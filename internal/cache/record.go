package cache

import "time"

// schemaVersion is bumped whenever Record changes shape; entries written
// with another version are dropped on Load.
const schemaVersion uint16 = 2

// Digest is the SHA-256 of a library's source text.
type Digest [32]byte

// Record is everything another library can see of one imported library.
type Record struct {
	Schema   uint16
	Path     string // absolute path of the library file
	Hash     Digest
	Name     string // #library name
	CachedAt time.Time
	// Imports are the absolute paths of the libraries this one imports.
	Imports []string

	Regions []Region
}

// Region holds the public objects of one region. Path is the region
// path from the upmost region, empty for the upmost region itself.
type Region struct {
	Path      []string
	Constants []Constant
	Vars      []Var
	Structs   []Struct
	Funcs     []Func
	Aliases   []Alias `msgpack:",omitempty"`
}

type Constant struct {
	Name  string
	Value int32
}

// TypeRef names a variable or member type: "int", "str", "bool", or a
// struct. Named structs are referenced by region path and name;
// anonymous ones are stored inline.
type TypeRef struct {
	Primitive string   `msgpack:",omitempty"`
	Struct    []string `msgpack:",omitempty"`
	Anon      []Member `msgpack:",omitempty"`
}

type Var struct {
	Name string
	Type TypeRef
	Dims []int32 `msgpack:",omitempty"`
}

type Member struct {
	Name string
	Type TypeRef
	Dims []int32 `msgpack:",omitempty"`
}

type Struct struct {
	Name    string
	Members []Member
}

type Func struct {
	Name     string
	MinParam int
	MaxParam int
	Return   string `msgpack:",omitempty"` // "" for void
}

// Alias names its final target by region path and name from the upmost
// region.
type Alias struct {
	Name   string
	Target []string
}

// Objects counts the objects the record describes.
func (r *Record) Objects() int {
	n := 0
	for _, region := range r.Regions {
		n += len(region.Constants) + len(region.Vars) + len(region.Structs) + len(region.Funcs) + len(region.Aliases)
	}
	return n
}
