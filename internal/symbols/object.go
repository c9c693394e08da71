package symbols

import (
	"acsc/internal/ast"
	"acsc/internal/source"
	"acsc/internal/types"
)

// ObjectKind classifies a symbol.
type ObjectKind uint8

const (
	ObjectInvalid ObjectKind = iota
	ObjectRegion
	ObjectConstant
	ObjectVar
	ObjectMember
	ObjectFunc
	ObjectParam
	ObjectAlias
	ObjectStruct
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectRegion:
		return "region"
	case ObjectConstant:
		return "constant"
	case ObjectVar:
		return "variable"
	case ObjectMember:
		return "struct member"
	case ObjectFunc:
		return "function"
	case ObjectParam:
		return "parameter"
	case ObjectAlias:
		return "alias"
	case ObjectStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Object is the closed set of named entities. Only types of this package
// implement it.
type Object interface {
	Kind() ObjectKind
	Head() *Header
}

// Header holds what every object has: its name, where it was declared and
// whether declaration passes have finished with it.
type Header struct {
	Name     source.StringID // folded lookup key
	Text     source.StringID // spelling as declared
	Pos      source.Span
	Resolved bool
	Builtin  bool
}

func (h *Header) Head() *Header { return h }

// Dim is one level of an array dimension chain. Size 0 means unknown.
type Dim struct {
	Size int32
	Next *Dim
}

// Depth returns the number of dimensions in the chain.
func (d *Dim) Depth() int {
	n := 0
	for ; d != nil; d = d.Next {
		n++
	}
	return n
}

type Region struct {
	Header
	Body   *Body
	Links  []*Region // imported regions, in import order
	Parent *Region   // enclosing region, nil for upmost
}

// Link appends r to the ordered link list unless it is already there.
func (r *Region) Link(other *Region) bool {
	for _, l := range r.Links {
		if l == other {
			return false
		}
	}
	r.Links = append(r.Links, other)
	return true
}

type Constant struct {
	Header
	Value int32
}

type Var struct {
	Header
	Type   types.TypeID
	Dim    *Dim
	Static bool
	Local  bool
	Used   bool
}

type TypeMember struct {
	Header
	Type types.TypeID
	Dim  *Dim
}

type Param struct {
	Header
	Type       types.TypeID
	HasDefault bool
}

type Alias struct {
	Header
	Target Object
}

// StructType is a struct declaration; Members is the member name table.
type StructType struct {
	Header
	Type    types.TypeID
	Members *Body
	Anon    bool
}

// FuncKind is the calling kind of a function.
type FuncKind uint8

const (
	FuncUser FuncKind = iota
	FuncDedicated
	FuncAspec
	FuncFormat
)

func (k FuncKind) String() string {
	switch k {
	case FuncUser:
		return "user"
	case FuncDedicated:
		return "dedicated"
	case FuncAspec:
		return "action-special"
	case FuncFormat:
		return "format"
	default:
		return "invalid"
	}
}

type Func struct {
	Header
	MinParam int
	MaxParam int
	Return   types.TypeID // NoTypeID for void
	Params   []*Param
	Impl     FuncImpl
}

// FuncImpl carries the per-kind details of a Func.
type FuncImpl interface {
	FuncKind() FuncKind
}

// UserImpl is a function written in the script language.
type UserImpl struct {
	Decl        *ast.FuncDecl
	Nested      bool
	Usage       int
	NestedCalls []ast.NodeID
}

// DedicatedImpl is an engine function with its own opcode. Latent ones
// suspend the calling script.
type DedicatedImpl struct {
	Latent bool
}

// AspecImpl is an action special. Some may only be triggered by map lines.
type AspecImpl struct {
	ID             int32
	ScriptCallable bool
}

// FormatImpl is a function whose first argument is a format list or block.
type FormatImpl struct{}

func (*UserImpl) FuncKind() FuncKind      { return FuncUser }
func (*DedicatedImpl) FuncKind() FuncKind { return FuncDedicated }
func (*AspecImpl) FuncKind() FuncKind     { return FuncAspec }
func (*FormatImpl) FuncKind() FuncKind    { return FuncFormat }

// Kind of the function's implementation.
func (f *Func) FuncKind() FuncKind {
	return f.Impl.FuncKind()
}

func (*Region) Kind() ObjectKind     { return ObjectRegion }
func (*Constant) Kind() ObjectKind   { return ObjectConstant }
func (*Var) Kind() ObjectKind        { return ObjectVar }
func (*TypeMember) Kind() ObjectKind { return ObjectMember }
func (*Func) Kind() ObjectKind       { return ObjectFunc }
func (*Param) Kind() ObjectKind      { return ObjectParam }
func (*Alias) Kind() ObjectKind      { return ObjectAlias }
func (*StructType) Kind() ObjectKind { return ObjectStruct }
